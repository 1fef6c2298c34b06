package scraper

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cartcompare/backend/internal/domain"
	"github.com/shopspring/decimal"
)

// priceNoiseRegex matches everything that cannot be part of an amount
var priceNoiseRegex = regexp.MustCompile(`[^0-9.,]`)

// ParsePrice turns a scraped price string into a positive decimal.
// Currency symbols, spaces and letters are dropped. When both "." and ","
// appear, the right-most one is the decimal separator. A single separator
// followed by exactly three digits is read as thousands grouping
// ("$1.234" is 1234), otherwise it is the decimal separator.
func ParsePrice(raw string) (decimal.Decimal, error) {
	cleaned := priceNoiseRegex.ReplaceAllString(raw, "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: %q", domain.ErrInvalidPrice, raw)
	}

	normalized := normalizeSeparators(cleaned)

	price, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", domain.ErrInvalidPrice, raw)
	}
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %q is not positive", domain.ErrInvalidPrice, raw)
	}

	return price, nil
}

// normalizeSeparators rewrites s so that "." is the only (optional) decimal
// separator and grouping separators are gone.
func normalizeSeparators(s string) string {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		decimalSep, groupSep := ".", ","
		if lastComma > lastDot {
			decimalSep, groupSep = ",", "."
		}
		s = strings.ReplaceAll(s, groupSep, "")
		return strings.Replace(s, decimalSep, ".", 1)

	case lastDot >= 0:
		return normalizeSingleSeparator(s, ".")

	case lastComma >= 0:
		return normalizeSingleSeparator(s, ",")
	}

	return s
}

func normalizeSingleSeparator(s, sep string) string {
	if strings.Count(s, sep) > 1 {
		return strings.ReplaceAll(s, sep, "")
	}

	idx := strings.Index(s, sep)
	if len(s)-idx-1 == 3 && idx > 0 {
		return strings.Replace(s, sep, "", 1)
	}

	return strings.Replace(s, sep, ".", 1)
}
