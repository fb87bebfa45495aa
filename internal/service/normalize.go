package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/octobees/placepack/api/internal/entity"
	"github.com/octobees/placepack/api/internal/placesapi"
)

// normalizer converts provider records into validated cache values. Both
// search paths go through it.
type normalizer struct {
	phoneRegion string
	now         func() time.Time
}

// normalize fails with a *entity.ValidationError for records that cannot be
// cached. Unusable rating, price and contact data becomes absent instead.
func (n normalizer) normalize(p placesapi.ProviderPlace) (entity.Place, entity.PlaceDetails, error) {
	id, err := entity.NewPlaceID(p.ID)
	if err != nil {
		return entity.Place{}, entity.PlaceDetails{}, err
	}
	if p.Location == nil {
		return entity.Place{}, entity.PlaceDetails{}, fmt.Errorf("place %s: %w", p.ID,
			&entity.ValidationError{Field: "location", Reason: "missing from provider record"})
	}
	lat, err := entity.NewLatitude(p.Location.Latitude)
	if err != nil {
		return entity.Place{}, entity.PlaceDetails{}, fmt.Errorf("place %s: %w", p.ID, err)
	}
	lng, err := entity.NewLongitude(p.Location.Longitude)
	if err != nil {
		return entity.Place{}, entity.PlaceDetails{}, fmt.Errorf("place %s: %w", p.ID, err)
	}

	now := n.now().UTC()
	place, err := entity.NewPlace(id, lat, lng, now)
	if err != nil {
		return entity.Place{}, entity.PlaceDetails{}, fmt.Errorf("place %s: %w", p.ID, err)
	}

	params := entity.PlaceDetailsParams{
		PlaceID:       id,
		Name:          strings.TrimSpace(p.DisplayName),
		Address:       optionalString(p.FormattedAddress),
		Rating:        entity.OptionalRating(p.Rating),
		PriceLevel:    entity.PriceLevelFromProvider(p.PriceLevel),
		Phone:         n.phone(p),
		Website:       website(p.WebsiteURI),
		LastFetchedAt: now,
	}
	if len(p.Photos) > 0 {
		params.PhotoReference = optionalString(p.Photos[0].Name)
	}
	if p.UserRatingCount > 0 {
		count := int(p.UserRatingCount)
		params.ReviewCount = &count
	}
	if tag := categoryText(p); tag != "" {
		category, err := entity.NewCategoryTag(tag)
		if err != nil {
			return entity.Place{}, entity.PlaceDetails{}, fmt.Errorf("place %s: %w", p.ID, err)
		}
		params.CategoryTag = &category
	}

	details, err := entity.NewPlaceDetails(params)
	if err != nil {
		return entity.Place{}, entity.PlaceDetails{}, fmt.Errorf("place %s: %w", p.ID, err)
	}
	return place, details, nil
}

// phone prefers the international form, which carries its own country code.
func (n normalizer) phone(p placesapi.ProviderPlace) *entity.PhoneNumber {
	if p.InternationalPhoneNumber != "" {
		if v, err := entity.NewPhoneNumber(p.InternationalPhoneNumber, n.phoneRegion); err == nil {
			return &v
		}
	}
	if p.NationalPhoneNumber != "" {
		if v, err := entity.NewPhoneNumber(p.NationalPhoneNumber, n.phoneRegion); err == nil {
			return &v
		}
	}
	return nil
}

func website(raw string) *entity.WebsiteURL {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	v, err := entity.NewWebsiteURL(raw)
	if err != nil {
		return nil
	}
	return &v
}

func categoryText(p placesapi.ProviderPlace) string {
	if s := strings.TrimSpace(p.PrimaryTypeDisplayName); s != "" {
		return s
	}
	return strings.TrimSpace(p.PrimaryType)
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
