package domain

import "github.com/shopspring/decimal"

// RequestedItem is one line of the client's shopping list
type RequestedItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// ComparisonRow holds the prices found for one requested item across stores
type ComparisonRow struct {
	Product  string
	Quantity int
	// Prices maps store name to the cheapest price seen at that store
	Prices    map[string]decimal.Decimal
	BestPrice *decimal.Decimal
	BestStore *string
	// BestLink and BestImage come from the offer that set BestPrice
	BestLink  string
	BestImage string
}

// StoreTotal is the running cost of the whole list at one store
type StoreTotal struct {
	Total      decimal.Decimal
	ItemsFound int
}

// ComparisonResult is the full comparison table for a shopping list
type ComparisonResult struct {
	Rows        []ComparisonRow
	StoreTotals map[string]StoreTotal
	Stores      []string
}

// CheapestStore returns the store with the lowest total among those that
// carry the most items. ok is false when no store had any item.
func (r *ComparisonResult) CheapestStore() (store string, ok bool) {
	bestFound := 0
	var bestTotal decimal.Decimal
	for _, s := range r.Stores {
		t := r.StoreTotals[s]
		if t.ItemsFound == 0 {
			continue
		}
		if !ok || t.ItemsFound > bestFound || (t.ItemsFound == bestFound && t.Total.LessThan(bestTotal)) {
			store, bestFound, bestTotal, ok = s, t.ItemsFound, t.Total, true
		}
	}
	return store, ok
}
