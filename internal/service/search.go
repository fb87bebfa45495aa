package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/octobees/placepack/api/internal/entity"
	"github.com/octobees/placepack/api/internal/logger"
	"github.com/octobees/placepack/api/internal/placesapi"
	"github.com/octobees/placepack/api/internal/repository"
)

const (
	defaultSearchRadius      = 1000
	maxSearchRadius          = 50000
	defaultSearchLimit       = 20
	maxSearchLimit           = 20
	defaultUpsertConcurrency = 4
)

// PlacesProvider is the external place search used by SearchService.
type PlacesProvider interface {
	NearbySearch(ctx context.Context, req placesapi.NearbyRequest) ([]placesapi.ProviderPlace, error)
	TextSearch(ctx context.Context, req placesapi.TextRequest) ([]placesapi.ProviderPlace, error)
}

// IntentExtractor derives structured hints from a free-form query.
type IntentExtractor interface {
	Extract(ctx context.Context, query string) (entity.ExtractedSearchParams, error)
}

// SearchOptions tunes SearchService.
type SearchOptions struct {
	// PhoneRegion is the default region for provider phone numbers.
	PhoneRegion string
	// SkipMalformed drops provider records that fail validation instead of
	// failing the whole search.
	SkipMalformed     bool
	ExtractorTimeout  time.Duration
	UpsertConcurrency int
}

// SearchService runs provider searches, hides the caller's NOPE'd places and
// writes every returned place through to the cache.
type SearchService struct {
	places     repository.PlacesRepository
	actions    repository.UserActionsRepository
	provider   PlacesProvider
	extractor  IntentExtractor
	images     ImageResolver
	log        *logger.Logger
	normalizer normalizer
	opts       SearchOptions
}

// NewSearchService wires the search use cases. A nil extractor always uses the
// raw query.
func NewSearchService(
	places repository.PlacesRepository,
	actions repository.UserActionsRepository,
	provider PlacesProvider,
	extractor IntentExtractor,
	images ImageResolver,
	log *logger.Logger,
	opts SearchOptions,
) *SearchService {
	if opts.UpsertConcurrency <= 0 {
		opts.UpsertConcurrency = defaultUpsertConcurrency
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SearchService{
		places:     places,
		actions:    actions,
		provider:   provider,
		extractor:  extractor,
		images:     images,
		log:        log,
		normalizer: normalizer{phoneRegion: opts.PhoneRegion, now: time.Now},
		opts:       opts,
	}
}

// NearbySearchInput describes a proximity search. Zero radius and limit use
// the defaults of 1000m and 20 results.
type NearbySearchInput struct {
	UserID    string
	Latitude  float64
	Longitude float64
	Radius    float64
	Type      string
	Keyword   string
	Limit     int
}

// AISearchInput describes a natural-language search.
type AISearchInput struct {
	UserID    string
	Query     string
	Latitude  float64
	Longitude float64
	Radius    float64
	Limit     int
}

// SearchPlaceResult is one normalised, cached place.
type SearchPlaceResult struct {
	PlaceID     string
	Name        string
	Address     *string
	Latitude    float64
	Longitude   float64
	ImageURL    *string
	Rating      *float64
	ReviewCount *int
	PriceLevel  *int
	CategoryTag *string
	Phone       *string
	Website     *string
}

// SearchOutput lists the places returned by one search. TotalCount is the
// length of Places. Partial is set when malformed records were skipped.
type SearchOutput struct {
	Places     []SearchPlaceResult
	TotalCount int
	Partial    bool
	Skipped    int
	// Intent holds the hints used by an AI search.
	Intent *entity.ExtractedSearchParams
}

// searchRequest is either a proximity search or a text search.
type searchRequest struct {
	byText    bool
	query     string
	types     []string
	latitude  float64
	longitude float64
	radius    float64
	limit     int
}

// SearchNearby searches around a point, by keyword when one is given.
func (s *SearchService) SearchNearby(ctx context.Context, in NearbySearchInput) (SearchOutput, error) {
	userID, req, err := newSearchRequest(in.UserID, in.Latitude, in.Longitude, in.Radius, in.Limit)
	if err != nil {
		return SearchOutput{}, err
	}
	if t := strings.TrimSpace(in.Type); t != "" {
		req.types = []string{t}
	}
	if kw := strings.TrimSpace(in.Keyword); kw != "" {
		req.byText = true
		req.query = kw
	}
	return s.run(ctx, userID, req)
}

// SearchWithAI turns the query into search hints first. Extraction failures
// fall back to the raw query and never fail the search.
func (s *SearchService) SearchWithAI(ctx context.Context, in AISearchInput) (SearchOutput, error) {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return SearchOutput{}, &entity.ValidationError{Field: "query", Reason: "must not be empty"}
	}
	userID, req, err := newSearchRequest(in.UserID, in.Latitude, in.Longitude, in.Radius, in.Limit)
	if err != nil {
		return SearchOutput{}, err
	}

	params := s.extract(ctx, query)

	terms := make([]string, 0, len(params.SearchKeywords)+len(params.VibeKeywords))
	terms = append(terms, params.SearchKeywords...)
	terms = append(terms, params.VibeKeywords...)
	req.byText = true
	req.query = strings.TrimSpace(strings.Join(terms, " "))
	if req.query == "" {
		req.query = query
	}
	// The provider accepts a single type filter.
	if len(params.PlaceTypes) > 0 {
		req.types = params.PlaceTypes[:1]
	}

	out, err := s.run(ctx, userID, req)
	if err != nil {
		return SearchOutput{}, err
	}
	out.Intent = &params
	return out, nil
}

func (s *SearchService) extract(ctx context.Context, query string) entity.ExtractedSearchParams {
	if s.extractor == nil {
		return entity.FallbackSearchParams(query)
	}
	ectx := ctx
	if s.opts.ExtractorTimeout > 0 {
		var cancel context.CancelFunc
		ectx, cancel = context.WithTimeout(ctx, s.opts.ExtractorTimeout)
		defer cancel()
	}
	params, err := s.extractor.Extract(ectx, query)
	if err != nil {
		s.log.Warn("intent extraction failed, searching with raw query", "query", query, "error", err)
		return entity.FallbackSearchParams(query)
	}
	return params
}

func (s *SearchService) run(ctx context.Context, userID entity.UserID, req searchRequest) (SearchOutput, error) {
	excluded, err := s.actions.FindNopedPlaceIDs(ctx, userID)
	if err != nil {
		return SearchOutput{}, fmt.Errorf("load excluded places: %w", err)
	}

	found, err := s.fetch(ctx, req)
	if err != nil {
		return SearchOutput{}, err
	}

	type cacheEntry struct {
		place   entity.Place
		details entity.PlaceDetails
	}
	entries := make([]cacheEntry, 0, len(found))
	skipped := 0
	for _, p := range found {
		if id, err := entity.NewPlaceID(p.ID); err == nil {
			if _, nope := excluded[id]; nope {
				continue
			}
		}
		place, details, err := s.normalizer.normalize(p)
		if err != nil {
			if !s.opts.SkipMalformed {
				return SearchOutput{}, fmt.Errorf("normalize provider place: %w", err)
			}
			s.log.Warn("skipping malformed provider place", "place_id", p.ID, "error", err)
			skipped++
			continue
		}
		entries = append(entries, cacheEntry{place: place, details: details})
	}

	results := make([]SearchPlaceResult, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.UpsertConcurrency)
	for i, e := range entries {
		g.Go(func() error {
			stored, err := s.places.UpsertWithDetails(gctx, e.place, e.details)
			if err != nil {
				return fmt.Errorf("cache place %s: %w", e.place.ID(), err)
			}
			details := e.details
			if stored.Details != nil {
				details = *stored.Details
			}
			results[i] = s.toResult(stored.Place, details)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SearchOutput{}, err
	}

	return SearchOutput{
		Places:     results,
		TotalCount: len(results),
		Partial:    skipped > 0,
		Skipped:    skipped,
	}, nil
}

func (s *SearchService) fetch(ctx context.Context, req searchRequest) ([]placesapi.ProviderPlace, error) {
	if req.byText {
		var includedType string
		if len(req.types) > 0 {
			includedType = req.types[0]
		}
		found, err := s.provider.TextSearch(ctx, placesapi.TextRequest{
			TextQuery:      req.query,
			Latitude:       req.latitude,
			Longitude:      req.longitude,
			Radius:         req.radius,
			IncludedType:   includedType,
			MaxResultCount: req.limit,
		})
		if err != nil {
			return nil, fmt.Errorf("text search: %w", err)
		}
		return found, nil
	}

	found, err := s.provider.NearbySearch(ctx, placesapi.NearbyRequest{
		Latitude:       req.latitude,
		Longitude:      req.longitude,
		Radius:         req.radius,
		IncludedTypes:  req.types,
		MaxResultCount: req.limit,
	})
	if err != nil {
		return nil, fmt.Errorf("nearby search: %w", err)
	}
	return found, nil
}

func (s *SearchService) toResult(place entity.Place, details entity.PlaceDetails) SearchPlaceResult {
	out := SearchPlaceResult{
		PlaceID:     place.ID().String(),
		Name:        details.Name(),
		Address:     details.Address(),
		Latitude:    place.Latitude().Float64(),
		Longitude:   place.Longitude().Float64(),
		ReviewCount: details.ReviewCount(),
	}
	if s.images != nil {
		out.ImageURL = s.images.ResolveImage(details.PhotoReference())
	}
	if r := details.Rating(); r != nil {
		v := r.Float64()
		out.Rating = &v
	}
	if p := details.PriceLevel(); p != nil {
		v := p.Int()
		out.PriceLevel = &v
	}
	if c := details.CategoryTag(); c != nil {
		v := c.String()
		out.CategoryTag = &v
	}
	if p := details.Phone(); p != nil {
		v := p.String()
		out.Phone = &v
	}
	if w := details.Website(); w != nil {
		v := w.String()
		out.Website = &v
	}
	return out
}

func newSearchRequest(rawUserID string, lat, lng, radius float64, limit int) (entity.UserID, searchRequest, error) {
	userID, err := entity.NewUserID(rawUserID)
	if err != nil {
		return entity.UserID{}, searchRequest{}, err
	}
	latitude, err := entity.NewLatitude(lat)
	if err != nil {
		return entity.UserID{}, searchRequest{}, err
	}
	longitude, err := entity.NewLongitude(lng)
	if err != nil {
		return entity.UserID{}, searchRequest{}, err
	}

	switch {
	case math.IsNaN(radius) || radius < 0 || radius > maxSearchRadius:
		return entity.UserID{}, searchRequest{}, &entity.ValidationError{
			Field:  "radius",
			Reason: fmt.Sprintf("must be between 1 and %d meters", maxSearchRadius),
		}
	case radius == 0:
		radius = defaultSearchRadius
	}

	switch {
	case limit < 0:
		return entity.UserID{}, searchRequest{}, &entity.ValidationError{Field: "limit", Reason: "must not be negative"}
	case limit == 0:
		limit = defaultSearchLimit
	case limit > maxSearchLimit:
		limit = maxSearchLimit
	}

	return userID, searchRequest{
		latitude:  latitude.Float64(),
		longitude: longitude.Float64(),
		radius:    radius,
		limit:     limit,
	}, nil
}
