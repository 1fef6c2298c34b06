package scraper

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapToOfferSet(t *testing.T) {
	var products []rawProduct
	err := json.Unmarshal([]byte(`[
		{"name": "Coca Cola 2.25L", "price": 1000, "source": "Coto", "link": "https://coto.example/1", "image": "https://coto.example/1.jpg"},
		{"name": "Coca Cola 2,25 L", "price": "$1.234,56", "source": " Dia "},
		{"name": "Sin precio", "price": null, "source": "Jumbo"},
		{"name": "Precio roto", "price": "consultar", "source": "Jumbo"},
		{"name": "Negativo", "price": -5, "source": "Jumbo"},
		{"name": "Cero", "price": 0, "source": "Jumbo"},
		{"name": "Sin tienda", "price": 800, "source": ""}
	]`), &products)
	require.NoError(t, err)

	set := MapToOfferSet(products)

	assert.Equal(t, 7, set.TotalFound)
	require.Len(t, set.Products, 2)

	first := set.Products[0]
	assert.Equal(t, "Coto", first.Store)
	assert.Equal(t, "Coca Cola 2.25L", first.Name)
	assert.True(t, decimal.NewFromInt(1000).Equal(first.Price))
	assert.Equal(t, "https://coto.example/1", first.Link)
	assert.Equal(t, "https://coto.example/1.jpg", first.Image)

	second := set.Products[1]
	assert.Equal(t, "Dia", second.Store)
	assert.True(t, decimal.RequireFromString("1234.56").Equal(second.Price))
}

func TestMapToOfferSet_Empty(t *testing.T) {
	set := MapToOfferSet(nil)
	assert.Empty(t, set.Products)
	assert.Equal(t, 0, set.TotalFound)
}

func TestParseRawPrice(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: `1500`, want: "1500"},
		{raw: `1500.75`, want: "1500.75"},
		{raw: `"1500,75"`, want: "1500.75"},
		{raw: `1e3`, want: "1000"},
		{raw: `null`, wantErr: true},
		{raw: ``, wantErr: true},
		{raw: `true`, wantErr: true},
		{raw: `-1`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseRawPrice(json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}
