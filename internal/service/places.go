package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/octobees/placepack/api/internal/entity"
	"github.com/octobees/placepack/api/internal/repository"
)

// PlaceService manages cache entries outside of search.
type PlaceService struct {
	repo        repository.PlacesRepository
	phoneRegion string
	now         func() time.Time
}

// NewPlaceService creates a new instance of PlaceService.
func NewPlaceService(repo repository.PlacesRepository, phoneRegion string) *PlaceService {
	return &PlaceService{repo: repo, phoneRegion: phoneRegion, now: time.Now}
}

// UpsertPlaceInput registers a place by hand. Details are stored only when a
// name is given.
type UpsertPlaceInput struct {
	PlaceID        string
	Latitude       float64
	Longitude      float64
	Name           string
	Address        *string
	PhotoReference *string
	Rating         *float64
	ReviewCount    *int
	PriceLevel     *int
	CategoryTag    *string
	Phone          *string
	Website        *string
}

func (in UpsertPlaceInput) hasDetails() bool {
	return strings.TrimSpace(in.Name) != "" ||
		in.Address != nil || in.PhotoReference != nil || in.Rating != nil ||
		in.ReviewCount != nil || in.PriceLevel != nil || in.CategoryTag != nil ||
		in.Phone != nil || in.Website != nil
}

// UpsertPlaceOutput reports what was stored and whether the place is new.
type UpsertPlaceOutput struct {
	Place   entity.Place
	Details *entity.PlaceDetails
	IsNew   bool
}

// UpsertPlace validates the input strictly: unlike provider data, invalid
// optional values are rejected rather than dropped.
func (s *PlaceService) UpsertPlace(ctx context.Context, in UpsertPlaceInput) (UpsertPlaceOutput, error) {
	id, err := entity.NewPlaceID(strings.TrimSpace(in.PlaceID))
	if err != nil {
		return UpsertPlaceOutput{}, err
	}
	lat, err := entity.NewLatitude(in.Latitude)
	if err != nil {
		return UpsertPlaceOutput{}, err
	}
	lng, err := entity.NewLongitude(in.Longitude)
	if err != nil {
		return UpsertPlaceOutput{}, err
	}

	var details *entity.PlaceDetails
	if in.hasDetails() {
		d, err := s.buildDetails(id, in)
		if err != nil {
			return UpsertPlaceOutput{}, err
		}
		details = &d
	}

	createdAt := s.now().UTC()
	isNew := false
	existing, err := s.repo.FindByID(ctx, id)
	switch {
	case errors.Is(err, repository.ErrPlaceNotFound):
		isNew = true
	case err != nil:
		return UpsertPlaceOutput{}, fmt.Errorf("look up place: %w", err)
	default:
		createdAt = existing.CreatedAt()
	}

	place, err := entity.NewPlace(id, lat, lng, createdAt)
	if err != nil {
		return UpsertPlaceOutput{}, err
	}

	if details == nil {
		stored, err := s.repo.UpsertPlace(ctx, place)
		if err != nil {
			return UpsertPlaceOutput{}, fmt.Errorf("upsert place: %w", err)
		}
		return UpsertPlaceOutput{Place: stored, IsNew: isNew}, nil
	}

	stored, err := s.repo.UpsertWithDetails(ctx, place, *details)
	if err != nil {
		return UpsertPlaceOutput{}, fmt.Errorf("upsert place with details: %w", err)
	}
	return UpsertPlaceOutput{Place: stored.Place, Details: stored.Details, IsNew: isNew}, nil
}

func (s *PlaceService) buildDetails(id entity.PlaceID, in UpsertPlaceInput) (entity.PlaceDetails, error) {
	params := entity.PlaceDetailsParams{
		PlaceID:        id,
		Name:           strings.TrimSpace(in.Name),
		Address:        in.Address,
		PhotoReference: in.PhotoReference,
		ReviewCount:    in.ReviewCount,
		LastFetchedAt:  s.now().UTC(),
	}
	if in.Rating != nil {
		v, err := entity.NewRating(*in.Rating)
		if err != nil {
			return entity.PlaceDetails{}, err
		}
		params.Rating = &v
	}
	if in.PriceLevel != nil {
		v, err := entity.NewPriceLevel(*in.PriceLevel)
		if err != nil {
			return entity.PlaceDetails{}, err
		}
		params.PriceLevel = &v
	}
	if in.CategoryTag != nil {
		v, err := entity.NewCategoryTag(strings.TrimSpace(*in.CategoryTag))
		if err != nil {
			return entity.PlaceDetails{}, err
		}
		params.CategoryTag = &v
	}
	if in.Phone != nil {
		v, err := entity.NewPhoneNumber(*in.Phone, s.phoneRegion)
		if err != nil {
			return entity.PlaceDetails{}, err
		}
		params.Phone = &v
	}
	if in.Website != nil {
		v, err := entity.NewWebsiteURL(*in.Website)
		if err != nil {
			return entity.PlaceDetails{}, err
		}
		params.Website = &v
	}
	return entity.NewPlaceDetails(params)
}

// GetPlaceDetail returns a cached place with its details, if any.
func (s *PlaceService) GetPlaceDetail(ctx context.Context, rawID string) (*entity.PlaceWithDetails, error) {
	id, err := entity.NewPlaceID(strings.TrimSpace(rawID))
	if err != nil {
		return nil, err
	}
	place, err := s.repo.FindByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPlaceNotFound) {
			return nil, &NotFoundError{Resource: "place", ID: id.String(), Err: err}
		}
		return nil, fmt.Errorf("get place: %w", err)
	}
	return place, nil
}
