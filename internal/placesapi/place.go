package placesapi

import places "google.golang.org/api/places/v1"

// ProviderPlace is a raw search result. Nothing is validated here; zero values
// mean the provider omitted the field.
type ProviderPlace struct {
	ID                       string
	DisplayName              string
	FormattedAddress         string
	Location                 *LatLng
	Rating                   float64
	UserRatingCount          int64
	PriceLevel               string
	PrimaryType              string
	PrimaryTypeDisplayName   string
	Photos                   []Photo
	NationalPhoneNumber      string
	InternationalPhoneNumber string
	WebsiteURI               string
}

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Latitude  float64
	Longitude float64
}

// Photo is a provider photo resource name plus its original dimensions.
type Photo struct {
	Name     string
	WidthPx  int64
	HeightPx int64
}

func fromAPIPlaces(in []*places.GoogleMapsPlacesV1Place) []ProviderPlace {
	out := make([]ProviderPlace, 0, len(in))
	for _, p := range in {
		if p == nil {
			continue
		}
		pp := ProviderPlace{
			ID:                       p.Id,
			FormattedAddress:         p.FormattedAddress,
			Rating:                   p.Rating,
			UserRatingCount:          p.UserRatingCount,
			PriceLevel:               p.PriceLevel,
			PrimaryType:              p.PrimaryType,
			NationalPhoneNumber:      p.NationalPhoneNumber,
			InternationalPhoneNumber: p.InternationalPhoneNumber,
			WebsiteURI:               p.WebsiteUri,
		}
		if p.DisplayName != nil {
			pp.DisplayName = p.DisplayName.Text
		}
		if p.PrimaryTypeDisplayName != nil {
			pp.PrimaryTypeDisplayName = p.PrimaryTypeDisplayName.Text
		}
		if p.Location != nil {
			pp.Location = &LatLng{Latitude: p.Location.Latitude, Longitude: p.Location.Longitude}
		}
		for _, ph := range p.Photos {
			if ph == nil || ph.Name == "" {
				continue
			}
			pp.Photos = append(pp.Photos, Photo{Name: ph.Name, WidthPx: ph.WidthPx, HeightPx: ph.HeightPx})
		}
		out = append(out, pp)
	}
	return out
}
