package scraper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cartcompare/backend/internal/domain"
	"github.com/shopspring/decimal"
)

// MapToOfferSet converts scraped products to domain offers, dropping those
// without a store or with an unusable price. TotalFound counts the raw
// products.
func MapToOfferSet(products []rawProduct) *domain.OfferSet {
	offers := make([]domain.Offer, 0, len(products))

	for _, p := range products {
		store := strings.TrimSpace(p.Source)
		if store == "" {
			continue
		}

		price, err := parseRawPrice(p.Price)
		if err != nil {
			continue
		}

		offers = append(offers, domain.Offer{
			Name:  strings.TrimSpace(p.Name),
			Store: store,
			Price: price,
			Link:  p.Link,
			Image: p.Image,
		})
	}

	return &domain.OfferSet{Products: offers, TotalFound: len(products)}
}

// parseRawPrice accepts a JSON number or a currency-formatted JSON string
func parseRawPrice(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, fmt.Errorf("%w: missing", domain.ErrInvalidPrice)
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, fmt.Errorf("%w: %v", domain.ErrInvalidPrice, err)
		}
		return ParsePrice(s)
	}

	price, err := decimal.NewFromString(string(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrInvalidPrice, raw)
	}
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s is not positive", domain.ErrInvalidPrice, raw)
	}
	return price, nil
}
