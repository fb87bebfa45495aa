package entity

import (
	"strings"
	"time"
)

// Place is the canonical cached location of a provider place.
type Place struct {
	id        PlaceID
	latitude  Latitude
	longitude Longitude
	createdAt time.Time
}

// NewPlace composes validated values. A zero createdAt means "now".
func NewPlace(id PlaceID, lat Latitude, lng Longitude, createdAt time.Time) (Place, error) {
	if id.IsZero() {
		return Place{}, invalid("place_id", "must not be empty")
	}
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return Place{id: id, latitude: lat, longitude: lng, createdAt: createdAt}, nil
}

func (p Place) ID() PlaceID          { return p.id }
func (p Place) Latitude() Latitude   { return p.latitude }
func (p Place) Longitude() Longitude { return p.longitude }
func (p Place) CreatedAt() time.Time { return p.createdAt }

// PlaceDetailsParams carries the fields of a PlaceDetails. Nil pointers are
// absent values.
type PlaceDetailsParams struct {
	PlaceID        PlaceID
	Name           string
	Address        *string
	PhotoReference *string
	Rating         *Rating
	ReviewCount    *int
	PriceLevel     *PriceLevel
	CategoryTag    *CategoryTag
	Phone          *PhoneNumber
	Website        *WebsiteURL
	LastFetchedAt  time.Time
}

// PlaceDetails is the overwritable metadata cached for a place.
type PlaceDetails struct {
	p PlaceDetailsParams
}

// NewPlaceDetails validates the composite invariants. Empty optional strings
// are normalised to absent.
func NewPlaceDetails(params PlaceDetailsParams) (PlaceDetails, error) {
	if params.PlaceID.IsZero() {
		return PlaceDetails{}, invalid("place_id", "must not be empty")
	}
	if strings.TrimSpace(params.Name) == "" {
		return PlaceDetails{}, invalid("name", "must not be empty")
	}
	if params.ReviewCount != nil && *params.ReviewCount < 0 {
		return PlaceDetails{}, invalid("review_count", "must not be negative, got %d", *params.ReviewCount)
	}
	params.Address = copyNonEmpty(params.Address)
	params.PhotoReference = copyNonEmpty(params.PhotoReference)
	params.Rating = copyPtr(params.Rating)
	params.ReviewCount = copyPtr(params.ReviewCount)
	params.PriceLevel = copyPtr(params.PriceLevel)
	params.CategoryTag = copyPtr(params.CategoryTag)
	params.Phone = copyPtr(params.Phone)
	params.Website = copyPtr(params.Website)
	if params.LastFetchedAt.IsZero() {
		params.LastFetchedAt = time.Now().UTC()
	}
	return PlaceDetails{p: params}, nil
}

func (d PlaceDetails) PlaceID() PlaceID          { return d.p.PlaceID }
func (d PlaceDetails) Name() string              { return d.p.Name }
func (d PlaceDetails) Address() *string          { return copyPtr(d.p.Address) }
func (d PlaceDetails) PhotoReference() *string   { return copyPtr(d.p.PhotoReference) }
func (d PlaceDetails) Rating() *Rating           { return copyPtr(d.p.Rating) }
func (d PlaceDetails) ReviewCount() *int         { return copyPtr(d.p.ReviewCount) }
func (d PlaceDetails) PriceLevel() *PriceLevel   { return copyPtr(d.p.PriceLevel) }
func (d PlaceDetails) CategoryTag() *CategoryTag { return copyPtr(d.p.CategoryTag) }
func (d PlaceDetails) Phone() *PhoneNumber       { return copyPtr(d.p.Phone) }
func (d PlaceDetails) Website() *WebsiteURL      { return copyPtr(d.p.Website) }
func (d PlaceDetails) LastFetchedAt() time.Time  { return d.p.LastFetchedAt }

// Params returns a copy of the fields, e.g. to derive a modified value.
func (d PlaceDetails) Params() PlaceDetailsParams {
	out := d.p
	out.Address = copyPtr(d.p.Address)
	out.PhotoReference = copyPtr(d.p.PhotoReference)
	out.Rating = copyPtr(d.p.Rating)
	out.ReviewCount = copyPtr(d.p.ReviewCount)
	out.PriceLevel = copyPtr(d.p.PriceLevel)
	out.CategoryTag = copyPtr(d.p.CategoryTag)
	out.Phone = copyPtr(d.p.Phone)
	out.Website = copyPtr(d.p.Website)
	return out
}

// PlaceWithDetails pairs a place with its optional cached details.
type PlaceWithDetails struct {
	Place   Place
	Details *PlaceDetails
}

func copyPtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyNonEmpty(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	return copyPtr(v)
}
