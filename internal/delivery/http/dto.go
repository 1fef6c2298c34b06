package http

import (
	"github.com/cartcompare/backend/internal/domain"
	"github.com/cartcompare/backend/internal/usecase"
)

// compareRequest is the body of POST /api/v1/compare
type compareRequest struct {
	Products []productRequest `json:"products" binding:"required,min=1,dive"`
}

type productRequest struct {
	Name     string `json:"name" binding:"required"`
	Quantity int    `json:"quantity" binding:"min=0"`
}

// toItems converts the request to domain items; a missing quantity means one
func (r compareRequest) toItems() []domain.RequestedItem {
	items := make([]domain.RequestedItem, 0, len(r.Products))
	for _, p := range r.Products {
		quantity := p.Quantity
		if quantity == 0 {
			quantity = 1
		}
		items = append(items, domain.RequestedItem{Name: p.Name, Quantity: quantity})
	}
	return items
}

type comparisonResponse struct {
	Products      []rowResponse                 `json:"products"`
	StoreTotals   map[string]storeTotalResponse `json:"storeTotals"`
	Stores        []string                      `json:"stores"`
	CheapestStore *string                       `json:"cheapestStore"`
}

type rowResponse struct {
	Product   string             `json:"product"`
	Quantity  int                `json:"quantity"`
	SearchKey string             `json:"searchKey"`
	Prices    map[string]float64 `json:"prices"`
	BestPrice *float64           `json:"bestPrice"`
	BestStore *string            `json:"bestStore"`
	BestLink  string             `json:"bestLink,omitempty"`
	Image     string             `json:"image,omitempty"`
}

type storeTotalResponse struct {
	Total      float64 `json:"total"`
	ItemsFound int     `json:"itemsFound"`
}

func newComparisonResponse(result *domain.ComparisonResult, searchKey func(string) string) comparisonResponse {
	resp := comparisonResponse{
		Products:    make([]rowResponse, 0, len(result.Rows)),
		StoreTotals: make(map[string]storeTotalResponse, len(result.StoreTotals)),
		Stores:      result.Stores,
	}
	if resp.Stores == nil {
		resp.Stores = []string{}
	}

	for _, row := range result.Rows {
		r := rowResponse{
			Product:   row.Product,
			Quantity:  row.Quantity,
			SearchKey: searchKey(row.Product),
			Prices:    make(map[string]float64, len(row.Prices)),
			BestStore: row.BestStore,
			BestLink:  row.BestLink,
			Image:     row.BestImage,
		}
		for store, price := range row.Prices {
			r.Prices[store] = price.InexactFloat64()
		}
		if row.BestPrice != nil {
			best := row.BestPrice.InexactFloat64()
			r.BestPrice = &best
		}
		resp.Products = append(resp.Products, r)
	}

	for store, total := range result.StoreTotals {
		resp.StoreTotals[store] = storeTotalResponse{
			Total:      total.Total.InexactFloat64(),
			ItemsFound: total.ItemsFound,
		}
	}

	if store, ok := result.CheapestStore(); ok {
		resp.CheapestStore = &store
	}

	return resp
}

type offerResponse struct {
	Name  string  `json:"name,omitempty"`
	Store string  `json:"store"`
	Price float64 `json:"price"`
	Link  string  `json:"link,omitempty"`
	Image string  `json:"image,omitempty"`
}

type offersResponse struct {
	Query      string          `json:"query"`
	Products   []offerResponse `json:"products"`
	TotalFound int             `json:"totalFound"`
	Cached     bool            `json:"cached"`
}

func newOffersResponse(query string, offers []domain.Offer, cached bool) offersResponse {
	resp := offersResponse{
		Query:      query,
		Products:   make([]offerResponse, 0, len(offers)),
		TotalFound: len(offers),
		Cached:     cached,
	}
	for _, o := range offers {
		resp.Products = append(resp.Products, offerResponse{
			Name:  o.Name,
			Store: o.Store,
			Price: o.Price.InexactFloat64(),
			Link:  o.Link,
			Image: o.Image,
		})
	}
	return resp
}

// extractRequest is the body of POST /api/v1/lists/extract
type extractRequest struct {
	Text  string `json:"text"`
	Image string `json:"image"`
	Audio *struct {
		Data   string `json:"data"`
		Format string `json:"format"`
	} `json:"audio"`
}

func (r extractRequest) toDomain() domain.ExtractRequest {
	req := domain.ExtractRequest{Text: r.Text, ImageURL: r.Image}
	if r.Audio != nil {
		req.AudioBase64 = r.Audio.Data
		req.AudioFormat = r.Audio.Format
	}
	return req
}

type listResponse struct {
	Products []domain.RequestedItem `json:"products"`
}

type cacheEntryResponse struct {
	usecase.CacheEntryInfo
	AgeSeconds int64 `json:"ageSeconds"`
}

type cacheListResponse struct {
	Entries []cacheEntryResponse `json:"entries"`
	Count   int                  `json:"count"`
}

func newCacheListResponse(infos []usecase.CacheEntryInfo) cacheListResponse {
	resp := cacheListResponse{
		Entries: make([]cacheEntryResponse, 0, len(infos)),
		Count:   len(infos),
	}
	for _, info := range infos {
		resp.Entries = append(resp.Entries, cacheEntryResponse{
			CacheEntryInfo: info,
			AgeSeconds:     int64(info.Age.Seconds()),
		})
	}
	return resp
}
