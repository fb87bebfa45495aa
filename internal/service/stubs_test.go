package service

import (
	"context"
	"sync"
	"testing"

	"github.com/octobees/placepack/api/internal/entity"
	"github.com/octobees/placepack/api/internal/placesapi"
	"github.com/octobees/placepack/api/internal/repository"
)

// fakePlaceCache is an in-memory PlacesRepository safe for concurrent upserts.
type fakePlaceCache struct {
	mu        sync.Mutex
	places    map[entity.PlaceID]entity.Place
	details   map[entity.PlaceID]entity.PlaceDetails
	upsertErr error
	findErr   error
}

func newFakePlaceCache() *fakePlaceCache {
	return &fakePlaceCache{
		places:  map[entity.PlaceID]entity.Place{},
		details: map[entity.PlaceID]entity.PlaceDetails{},
	}
}

func (f *fakePlaceCache) FindByID(ctx context.Context, id entity.PlaceID) (*entity.Place, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	p, ok := f.places[id]
	if !ok {
		return nil, repository.ErrPlaceNotFound
	}
	return &p, nil
}

func (f *fakePlaceCache) FindByIDWithDetails(ctx context.Context, id entity.PlaceID) (*entity.PlaceWithDetails, error) {
	p, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := &entity.PlaceWithDetails{Place: *p}
	if d, ok := f.details[id]; ok {
		out.Details = &d
	}
	return out, nil
}

func (f *fakePlaceCache) UpsertPlace(ctx context.Context, place entity.Place) (entity.Place, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return entity.Place{}, f.upsertErr
	}
	if existing, ok := f.places[place.ID()]; ok {
		place, _ = entity.NewPlace(place.ID(), place.Latitude(), place.Longitude(), existing.CreatedAt())
	}
	f.places[place.ID()] = place
	return place, nil
}

func (f *fakePlaceCache) UpsertDetails(ctx context.Context, details entity.PlaceDetails) (entity.PlaceDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return entity.PlaceDetails{}, f.upsertErr
	}
	f.details[details.PlaceID()] = details
	return details, nil
}

func (f *fakePlaceCache) UpsertWithDetails(ctx context.Context, place entity.Place, details entity.PlaceDetails) (entity.PlaceWithDetails, error) {
	p, err := f.UpsertPlace(ctx, place)
	if err != nil {
		return entity.PlaceWithDetails{}, err
	}
	d, err := f.UpsertDetails(ctx, details)
	if err != nil {
		return entity.PlaceWithDetails{}, err
	}
	return entity.PlaceWithDetails{Place: p, Details: &d}, nil
}

func (f *fakePlaceCache) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.places)
}

type fakeActionLog struct {
	noped      map[entity.PlaceID]struct{}
	nopedErr   error
	created    []entity.UserAction
	createErr  error
	rows       []entity.UserActionWithPlace
	total      int
	lastFilter repository.UserActionFilter
}

func (f *fakeActionLog) Create(ctx context.Context, userID entity.UserID, placeID entity.PlaceID, actionType entity.ActionType) (entity.UserAction, error) {
	if f.createErr != nil {
		return entity.UserAction{}, f.createErr
	}
	id, _ := entity.NewUserActionID(int64(len(f.created) + 1))
	action := entity.UserAction{ID: id, UserID: userID, PlaceID: placeID, Type: actionType}
	f.created = append(f.created, action)
	return action, nil
}

func (f *fakeActionLog) FindNopedPlaceIDs(ctx context.Context, userID entity.UserID) (map[entity.PlaceID]struct{}, error) {
	if f.nopedErr != nil {
		return nil, f.nopedErr
	}
	if f.noped == nil {
		return map[entity.PlaceID]struct{}{}, nil
	}
	return f.noped, nil
}

func (f *fakeActionLog) FindByUser(ctx context.Context, filter repository.UserActionFilter) ([]entity.UserActionWithPlace, int, error) {
	f.lastFilter = filter
	return f.rows, f.total, nil
}

type stubProvider struct {
	places     []placesapi.ProviderPlace
	err        error
	lastNearby *placesapi.NearbyRequest
	lastText   *placesapi.TextRequest
}

func (s *stubProvider) NearbySearch(ctx context.Context, req placesapi.NearbyRequest) ([]placesapi.ProviderPlace, error) {
	s.lastNearby = &req
	return s.places, s.err
}

func (s *stubProvider) TextSearch(ctx context.Context, req placesapi.TextRequest) ([]placesapi.ProviderPlace, error) {
	s.lastText = &req
	return s.places, s.err
}

type stubExtractor struct {
	params entity.ExtractedSearchParams
	err    error
}

func (s stubExtractor) Extract(ctx context.Context, query string) (entity.ExtractedSearchParams, error) {
	return s.params, s.err
}

type stubPhotos struct{}

func (stubPhotos) PhotoURL(ref string, maxWidth int) string {
	return "https://media.example/" + ref
}

func mustPlaceID(t *testing.T, raw string) entity.PlaceID {
	id, err := entity.NewPlaceID(raw)
	if err != nil {
		t.Fatalf("place id %q: %v", raw, err)
	}
	return id
}

func providerPlace(id, name string) placesapi.ProviderPlace {
	return placesapi.ProviderPlace{
		ID:                     id,
		DisplayName:            name,
		FormattedAddress:       "1-1 Shibuya, Tokyo",
		Location:               &placesapi.LatLng{Latitude: 35.6595, Longitude: 139.7005},
		Rating:                 4.2,
		UserRatingCount:        120,
		PriceLevel:             "PRICE_LEVEL_MODERATE",
		PrimaryTypeDisplayName: "Cafe",
		Photos:                 []placesapi.Photo{{Name: "places/" + id + "/photos/abc"}},
	}
}
