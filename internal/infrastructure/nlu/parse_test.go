package nlu

import (
	"testing"

	"github.com/cartcompare/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItems(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []domain.RequestedItem
	}{
		{
			name:    "bare array",
			content: `[{"name": "Leche entera 1L", "quantity": 3}]`,
			want:    []domain.RequestedItem{{Name: "Leche entera 1L", Quantity: 3}},
		},
		{
			name:    "fenced array",
			content: "```json\n[{\"name\": \"Arroz\", \"quantity\": 1}]\n```",
			want:    []domain.RequestedItem{{Name: "Arroz", Quantity: 1}},
		},
		{
			name:    "array inside prose",
			content: `Here is your list: [{"name": "Yerba", "quantity": "2"}] enjoy`,
			want:    []domain.RequestedItem{{Name: "Yerba", Quantity: 2}},
		},
		{
			name:    "products wrapper",
			content: `{"products": [{"name": "Fideos", "quantity": 2}]}`,
			want:    []domain.RequestedItem{{Name: "Fideos", Quantity: 2}},
		},
		{
			name:    "fractional and missing quantities",
			content: `[{"name": "Queso", "quantity": 0.5}, {"name": "Pan"}, {"name": "Huevos", "quantity": "doce"}]`,
			want: []domain.RequestedItem{
				{Name: "Queso", Quantity: 1},
				{Name: "Pan", Quantity: 1},
				{Name: "Huevos", Quantity: 1},
			},
		},
		{
			name:    "blank names dropped",
			content: `[{"name": "  "}, {"name": " Azucar ", "quantity": 1}]`,
			want:    []domain.RequestedItem{{Name: "Azucar", Quantity: 1}},
		},
		{
			name:    "empty list",
			content: `[]`,
			want:    []domain.RequestedItem{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseItems(tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseItems_Invalid(t *testing.T) {
	for _, content := range []string{"", "no list here", "[{broken"} {
		_, err := parseItems(content)
		assert.ErrorIs(t, err, domain.ErrExtractionFailed, "content %q", content)
	}
}

func TestParseQuantity(t *testing.T) {
	assert.Equal(t, 2, parseQuantity(float64(2)))
	assert.Equal(t, 3, parseQuantity(2.2))
	assert.Equal(t, 1, parseQuantity(float64(-4)))
	assert.Equal(t, 4, parseQuantity(" 4 "))
	assert.Equal(t, 1, parseQuantity(nil))
	assert.Equal(t, 1, parseQuantity(true))
}
