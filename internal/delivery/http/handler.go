package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/cartcompare/backend/internal/domain"
	"github.com/cartcompare/backend/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Version is reported by the health endpoint
var Version = "1.0.0"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	comparison *usecase.ComparisonService
	cache      *usecase.CacheService
	lists      *usecase.ListService
}

// NewHandler creates a new HTTP handler. Nil services make their endpoints
// answer 501.
func NewHandler(comparison *usecase.ComparisonService, cache *usecase.CacheService, lists *usecase.ListService) *Handler {
	return &Handler{
		comparison: comparison,
		cache:      cache,
		lists:      lists,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "cartcompare-backend",
		"version": Version,
	})
}

// ComparePrices handles shopping list comparison requests
func (h *Handler) ComparePrices(c *gin.Context) {
	if h.comparison == nil {
		respondError(c, http.StatusNotImplemented, "price comparison is not configured")
		return
	}

	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: products must be a non-empty list of {name, quantity}")
		return
	}

	items := req.toItems()
	if err := usecase.ValidateItems(items); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.comparison.Compare(c.Request.Context(), items)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, newComparisonResponse(result, h.comparison.SearchKey))
}

// GetOffers returns the offers for one search key. q is used as the key
// as-is; name is turned into a key first.
func (h *Handler) GetOffers(c *gin.Context) {
	if h.comparison == nil {
		respondError(c, http.StatusNotImplemented, "price comparison is not configured")
		return
	}

	key := strings.TrimSpace(c.Query("q"))
	if key == "" {
		key = h.comparison.SearchKey(c.Query("name"))
	}
	if key == "" {
		respondError(c, http.StatusBadRequest, "query parameter q or name is required")
		return
	}

	offers, cached := h.comparison.GetOffers(c.Request.Context(), key)
	c.JSON(http.StatusOK, newOffersResponse(key, offers, cached))
}

// ExtractList turns text, an image or a voice note into a shopping list
func (h *Handler) ExtractList(c *gin.Context) {
	if h.lists == nil {
		respondError(c, http.StatusNotImplemented, "list extraction is not configured")
		return
	}

	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	items, err := h.lists.Extract(c.Request.Context(), req.toDomain())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, listResponse{Products: items})
}

// ListCache returns the cached search keys
func (h *Handler) ListCache(c *gin.Context) {
	if h.cache == nil {
		respondError(c, http.StatusNotImplemented, "cache inspection is not configured")
		return
	}

	infos, err := h.cache.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, newCacheListResponse(infos))
}

// EvictCache removes one search key from the cache
func (h *Handler) EvictCache(c *gin.Context) {
	if h.cache == nil {
		respondError(c, http.StatusNotImplemented, "cache inspection is not configured")
		return
	}

	if err := h.cache.Evict(c.Request.Context(), c.Param("key")); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// handleError maps domain errors to HTTP responses
func (h *Handler) handleError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrExtractorUnavailable):
		status, message = http.StatusServiceUnavailable, "list extraction is unavailable"
	case errors.Is(err, domain.ErrExtractionFailed):
		status, message = http.StatusBadGateway, "list extraction failed"
	case errors.Is(err, domain.ErrCacheUnavailable):
		status, message = http.StatusServiceUnavailable, "cache is unavailable"
	case errors.Is(err, domain.ErrOfferSourceUnavailable):
		status, message = http.StatusBadGateway, "offer source is unavailable"
	}

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("request_id", c.GetString(requestIDKey)).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
	}

	respondError(c, status, message)
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
