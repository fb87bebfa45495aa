package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/placepack/api/internal/dto"
	"github.com/octobees/placepack/api/internal/entity"
	"github.com/octobees/placepack/api/internal/logger"
	"github.com/octobees/placepack/api/internal/service"
)

// PlacesHandler exposes cached place lookups and manual registration.
type PlacesHandler struct {
	places *service.PlaceService
	images service.ImageResolver
	log    *logger.Logger
}

// NewPlacesHandler creates a new handler instance.
func NewPlacesHandler(places *service.PlaceService, images service.ImageResolver, log *logger.Logger) *PlacesHandler {
	return &PlacesHandler{places: places, images: images, log: log}
}

// Get handles GET /places/:place_id.
func (h *PlacesHandler) Get(c echo.Context) error {
	place, err := h.places.GetPlaceDetail(c.Request().Context(), c.Param("place_id"))
	if err != nil {
		return writeServiceError(c, h.log, err)
	}
	return Success(c, http.StatusOK, "place retrieved", h.toPlaceResponse(place.Place, place.Details))
}

// Upsert handles POST /places. New places answer 201, updates 200.
func (h *PlacesHandler) Upsert(c echo.Context) error {
	var req dto.UpsertPlaceRequest
	if msg, ok := bindAndValidate(c, &req); !ok {
		return Error(c, http.StatusBadRequest, msg)
	}
	if req.Latitude == nil || req.Longitude == nil {
		return Error(c, http.StatusBadRequest, "latitude and longitude are required")
	}

	out, err := h.places.UpsertPlace(c.Request().Context(), service.UpsertPlaceInput{
		PlaceID:        req.PlaceID,
		Latitude:       *req.Latitude,
		Longitude:      *req.Longitude,
		Name:           req.Name,
		Address:        req.Address,
		PhotoReference: req.PhotoReference,
		Rating:         req.Rating,
		ReviewCount:    req.ReviewCount,
		PriceLevel:     req.PriceLevel,
		CategoryTag:    req.CategoryTag,
		Phone:          req.Phone,
		Website:        req.Website,
	})
	if err != nil {
		return writeServiceError(c, h.log, err)
	}

	resp := dto.UpsertPlaceResponse{PlaceResponse: h.toPlaceResponse(out.Place, out.Details), IsNew: out.IsNew}
	if out.IsNew {
		return Success(c, http.StatusCreated, "place created", resp)
	}
	return Success(c, http.StatusOK, "place updated", resp)
}

func (h *PlacesHandler) toPlaceResponse(place entity.Place, details *entity.PlaceDetails) dto.PlaceResponse {
	resp := dto.PlaceResponse{
		PlaceID:   place.ID().String(),
		Latitude:  place.Latitude().Float64(),
		Longitude: place.Longitude().Float64(),
		CreatedAt: place.CreatedAt(),
	}
	if details == nil {
		return resp
	}

	d := &dto.PlaceDetailsResponse{
		Name:          details.Name(),
		Address:       details.Address(),
		ReviewCount:   details.ReviewCount(),
		LastFetchedAt: details.LastFetchedAt(),
	}
	if h.images != nil {
		d.ImageURL = h.images.ResolveImage(details.PhotoReference())
	}
	if r := details.Rating(); r != nil {
		v := r.Float64()
		d.Rating = &v
	}
	if p := details.PriceLevel(); p != nil {
		v := p.Int()
		d.PriceLevel = &v
	}
	if tag := details.CategoryTag(); tag != nil {
		v := tag.String()
		d.CategoryTag = &v
	}
	if p := details.Phone(); p != nil {
		v := p.String()
		d.Phone = &v
	}
	if w := details.Website(); w != nil {
		v := w.String()
		d.Website = &v
	}
	resp.Details = d
	return resp
}
