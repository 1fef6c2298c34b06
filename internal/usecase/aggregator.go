package usecase

import (
	"sort"

	"github.com/cartcompare/backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Aggregate reduces the offers found for each requested item into a
// comparison table. offers[i] holds the offers for items[i], in the order
// the offer source returned them; a missing slice means no offers.
//
// Within a row only the cheapest offer per store is kept. The best price is
// the row minimum; on equal prices the store whose offer came first wins.
func Aggregate(items []domain.RequestedItem, offers [][]domain.Offer) *domain.ComparisonResult {
	rows := make([]domain.ComparisonRow, 0, len(items))
	seen := make(map[string]struct{})

	for i, item := range items {
		var itemOffers []domain.Offer
		if i < len(offers) {
			itemOffers = offers[i]
		}

		row := buildRow(item, itemOffers)
		for store := range row.Prices {
			seen[store] = struct{}{}
		}
		rows = append(rows, row)
	}

	stores := make([]string, 0, len(seen))
	for store := range seen {
		stores = append(stores, store)
	}
	sort.Strings(stores)

	return &domain.ComparisonResult{
		Rows:        rows,
		StoreTotals: computeStoreTotals(rows, stores),
		Stores:      stores,
	}
}

// buildRow computes per-store minimum prices and the best offer for one item
func buildRow(item domain.RequestedItem, offers []domain.Offer) domain.ComparisonRow {
	row := domain.ComparisonRow{
		Product:  item.Name,
		Quantity: item.Quantity,
		Prices:   make(map[string]decimal.Decimal),
	}

	for _, offer := range offers {
		if !isUsableOffer(offer) {
			continue
		}

		if current, ok := row.Prices[offer.Store]; !ok || offer.Price.LessThan(current) {
			row.Prices[offer.Store] = offer.Price
		}

		if row.BestPrice == nil || offer.Price.LessThan(*row.BestPrice) {
			price := offer.Price
			store := offer.Store
			row.BestPrice = &price
			row.BestStore = &store
			row.BestLink = offer.Link
			row.BestImage = offer.Image
		}
	}

	return row
}

// computeStoreTotals sums price*quantity per store. Every store gets an
// entry, even when it matched nothing.
func computeStoreTotals(rows []domain.ComparisonRow, stores []string) map[string]domain.StoreTotal {
	totals := make(map[string]domain.StoreTotal, len(stores))

	for _, store := range stores {
		total := domain.StoreTotal{Total: decimal.Zero}
		for _, row := range rows {
			price, ok := row.Prices[store]
			if !ok {
				continue
			}
			total.Total = total.Total.Add(price.Mul(decimal.NewFromInt(int64(row.Quantity))))
			total.ItemsFound++
		}
		totals[store] = total
	}

	return totals
}

// isUsableOffer reports whether an offer may enter the comparison
func isUsableOffer(offer domain.Offer) bool {
	return offer.Store != "" && offer.Price.IsPositive()
}

// filterOffers drops offers that cannot enter the comparison
func filterOffers(offers []domain.Offer) []domain.Offer {
	kept := make([]domain.Offer, 0, len(offers))
	for _, offer := range offers {
		if isUsableOffer(offer) {
			kept = append(kept, offer)
		}
	}
	return kept
}
