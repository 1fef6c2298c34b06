package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/cartcompare/backend/internal/domain"
)

// ListService turns free-form input into a shopping list through an
// external extraction service
type ListService struct {
	extractor domain.ListExtractor
}

// NewListService creates a list service. A nil extractor makes every
// extraction fail with domain.ErrExtractorUnavailable.
func NewListService(extractor domain.ListExtractor) *ListService {
	return &ListService{extractor: extractor}
}

// Extract returns the cleaned shopping list found in req
func (s *ListService) Extract(ctx context.Context, req domain.ExtractRequest) ([]domain.RequestedItem, error) {
	if req.IsEmpty() {
		return nil, fmt.Errorf("%w: text, image or audio is required", domain.ErrInvalidRequest)
	}
	if s.extractor == nil {
		return nil, domain.ErrExtractorUnavailable
	}

	items, err := s.extractor.ExtractList(ctx, req)
	if err != nil {
		return nil, err
	}

	return NormalizeItems(items), nil
}

// NormalizeItems trims names, drops blank ones, defaults quantities below
// one to one and merges repeated names (case-insensitive) keeping the
// first spelling and position.
func NormalizeItems(items []domain.RequestedItem) []domain.RequestedItem {
	result := make([]domain.RequestedItem, 0, len(items))
	index := make(map[string]int, len(items))

	for _, item := range items {
		name := multiSpacePattern.ReplaceAllString(strings.TrimSpace(item.Name), " ")
		if name == "" {
			continue
		}
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}

		key := strings.ToLower(name)
		if i, ok := index[key]; ok {
			result[i].Quantity += quantity
			continue
		}

		index[key] = len(result)
		result = append(result, domain.RequestedItem{Name: name, Quantity: quantity})
	}

	return result
}
