package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/placepack/api/internal/dto"
	"github.com/octobees/placepack/api/internal/logger"
	"github.com/octobees/placepack/api/internal/service"
)

// SearchHandler exposes the nearby and AI search endpoints.
type SearchHandler struct {
	search *service.SearchService
	log    *logger.Logger
}

// NewSearchHandler creates a new handler instance.
func NewSearchHandler(search *service.SearchService, log *logger.Logger) *SearchHandler {
	return &SearchHandler{search: search, log: log}
}

// Nearby handles POST /places/search/nearby.
func (h *SearchHandler) Nearby(c echo.Context) error {
	var req dto.NearbySearchRequest
	if msg, ok := bindAndValidate(c, &req); !ok {
		return Error(c, http.StatusBadRequest, msg)
	}
	if req.Latitude == nil || req.Longitude == nil {
		return Error(c, http.StatusBadRequest, "latitude and longitude are required")
	}

	out, err := h.search.SearchNearby(c.Request().Context(), service.NearbySearchInput{
		UserID:    userID(c),
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Radius:    req.Radius,
		Type:      req.Type,
		Keyword:   req.Keyword,
		Limit:     req.Limit,
	})
	if err != nil {
		return writeServiceError(c, h.log, err)
	}
	return Success(c, http.StatusOK, "places retrieved", toSearchResponse(out))
}

// AI handles POST /places/search/ai.
func (h *SearchHandler) AI(c echo.Context) error {
	var req dto.AISearchRequest
	if msg, ok := bindAndValidate(c, &req); !ok {
		return Error(c, http.StatusBadRequest, msg)
	}
	if req.Latitude == nil || req.Longitude == nil {
		return Error(c, http.StatusBadRequest, "latitude and longitude are required")
	}

	out, err := h.search.SearchWithAI(c.Request().Context(), service.AISearchInput{
		UserID:    userID(c),
		Query:     req.Query,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Radius:    req.Radius,
		Limit:     req.Limit,
	})
	if err != nil {
		return writeServiceError(c, h.log, err)
	}
	return Success(c, http.StatusOK, "places retrieved", toSearchResponse(out))
}

func toSearchResponse(out service.SearchOutput) dto.SearchResponse {
	resp := dto.SearchResponse{
		Places:     make([]dto.PlaceResult, 0, len(out.Places)),
		TotalCount: out.TotalCount,
		Partial:    out.Partial,
		Skipped:    out.Skipped,
	}
	for _, p := range out.Places {
		resp.Places = append(resp.Places, dto.PlaceResult{
			PlaceID:        p.PlaceID,
			Name:           p.Name,
			Address:        p.Address,
			Latitude:       p.Latitude,
			Longitude:      p.Longitude,
			CachedImageURL: p.ImageURL,
			Rating:         p.Rating,
			ReviewCount:    p.ReviewCount,
			PriceLevel:     p.PriceLevel,
			CategoryTag:    p.CategoryTag,
			Phone:          p.Phone,
			Website:        p.Website,
		})
	}
	if out.Intent != nil {
		intent := &dto.SearchIntent{
			SearchKeywords: nonNil(out.Intent.SearchKeywords),
			PlaceTypes:     nonNil(out.Intent.PlaceTypes),
			VibeKeywords:   nonNil(out.Intent.VibeKeywords),
		}
		if out.Intent.PriceLevel != nil {
			level := string(*out.Intent.PriceLevel)
			intent.PriceLevel = &level
		}
		resp.Intent = intent
	}
	return resp
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
