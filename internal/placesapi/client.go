package placesapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"google.golang.org/api/option"
	places "google.golang.org/api/places/v1"
)

const (
	maxResultCount       = 20
	defaultNearbyRadius  = 1000
	defaultLanguage      = "ja"
	defaultMediaBaseURL  = "https://places.googleapis.com/v1/"
	defaultPhotoMaxWidth = 400
)

// defaultTextRadius only applies to callers that leave TextRequest.Radius
// unset. The search service always sends its own default of 1000.
const defaultTextRadius = 5000

var defaultNearbyTypes = []string{"restaurant", "cafe", "bar"}

// fieldMask lists the place attributes requested on every search.
var fieldMask = strings.Join([]string{
	"places.id",
	"places.displayName",
	"places.formattedAddress",
	"places.location",
	"places.rating",
	"places.userRatingCount",
	"places.priceLevel",
	"places.primaryType",
	"places.primaryTypeDisplayName",
	"places.photos",
	"places.nationalPhoneNumber",
	"places.internationalPhoneNumber",
	"places.websiteUri",
}, ",")

// Options configures a Client.
type Options struct {
	APIKey   string
	Language string
	// Endpoint overrides the API base URL, e.g. for tests.
	Endpoint string
	// MediaBaseURL overrides the host used by PhotoURL.
	MediaBaseURL string
}

// Client calls the Google Places API (New).
type Client struct {
	svc       *places.Service
	apiKey    string
	language  string
	mediaBase string
}

// New builds a Places client authenticated with an API key.
func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("places api key must not be empty")
	}

	clientOpts := []option.ClientOption{option.WithAPIKey(opts.APIKey)}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}

	svc, err := places.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create places service: %w", err)
	}

	language := opts.Language
	if language == "" {
		language = defaultLanguage
	}
	mediaBase := opts.MediaBaseURL
	if mediaBase == "" {
		mediaBase = defaultMediaBaseURL
	}
	if !strings.HasSuffix(mediaBase, "/") {
		mediaBase += "/"
	}

	return &Client{svc: svc, apiKey: opts.APIKey, language: language, mediaBase: mediaBase}, nil
}

// NearbyRequest restricts results to a circle around a point.
type NearbyRequest struct {
	Latitude       float64
	Longitude      float64
	Radius         float64
	IncludedTypes  []string
	MaxResultCount int
}

// TextRequest is a free-text query biased towards a circle around a point.
type TextRequest struct {
	TextQuery      string
	Latitude       float64
	Longitude      float64
	Radius         float64
	IncludedType   string
	MaxResultCount int
}

// NearbySearch calls places:searchNearby. No types means restaurants, cafes and bars.
func (c *Client) NearbySearch(ctx context.Context, req NearbyRequest) ([]ProviderPlace, error) {
	types := req.IncludedTypes
	if len(types) == 0 {
		types = defaultNearbyTypes
	}
	radius := req.Radius
	if radius <= 0 {
		radius = defaultNearbyRadius
	}

	body := &places.GoogleMapsPlacesV1SearchNearbyRequest{
		IncludedTypes:  types,
		MaxResultCount: capResults(req.MaxResultCount),
		LanguageCode:   c.language,
		LocationRestriction: &places.GoogleMapsPlacesV1SearchNearbyRequestLocationRestriction{
			Circle: circle(req.Latitude, req.Longitude, radius),
		},
	}

	call := c.svc.Places.SearchNearby(body).Context(ctx)
	call.Header().Set("X-Goog-FieldMask", fieldMask)
	resp, err := call.Do()
	if err != nil {
		return nil, wrapCallError("nearby search", err)
	}
	return fromAPIPlaces(resp.Places), nil
}

// TextSearch calls places:searchText.
func (c *Client) TextSearch(ctx context.Context, req TextRequest) ([]ProviderPlace, error) {
	radius := req.Radius
	if radius <= 0 {
		radius = defaultTextRadius
	}

	body := &places.GoogleMapsPlacesV1SearchTextRequest{
		TextQuery:      req.TextQuery,
		IncludedType:   req.IncludedType,
		MaxResultCount: capResults(req.MaxResultCount),
		LanguageCode:   c.language,
		LocationBias: &places.GoogleMapsPlacesV1SearchTextRequestLocationBias{
			Circle: circle(req.Latitude, req.Longitude, radius),
		},
	}

	call := c.svc.Places.SearchText(body).Context(ctx)
	call.Header().Set("X-Goog-FieldMask", fieldMask)
	resp, err := call.Do()
	if err != nil {
		return nil, wrapCallError("text search", err)
	}
	return fromAPIPlaces(resp.Places), nil
}

// PhotoURL renders the media URL of a photo reference. It embeds the API key,
// so it must not be handed to untrusted clients.
func (c *Client) PhotoURL(photoReference string, maxWidth int) string {
	if maxWidth <= 0 {
		maxWidth = defaultPhotoMaxWidth
	}
	return fmt.Sprintf("%s%s/media?maxWidthPx=%d&key=%s", c.mediaBase, photoReference, maxWidth, url.QueryEscape(c.apiKey))
}

// PhotoMediaURI asks the media endpoint for the short-lived, keyless URL of a
// photo instead of following its redirect. Failures are *ProviderError.
func (c *Client) PhotoMediaURI(ctx context.Context, photoReference string, maxWidth int) (string, error) {
	if maxWidth <= 0 {
		maxWidth = defaultPhotoMaxWidth
	}
	media, err := c.svc.Places.Photos.GetMedia(photoReference + "/media").
		MaxWidthPx(int64(maxWidth)).
		SkipHttpRedirect(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", wrapCallError("photo media", err)
	}
	if media.PhotoUri == "" {
		return "", &ProviderError{Op: "photo media", Err: errors.New("response has no photoUri")}
	}
	return media.PhotoUri, nil
}

func capResults(n int) int64 {
	if n <= 0 || n > maxResultCount {
		return maxResultCount
	}
	return int64(n)
}

func circle(lat, lng, radius float64) *places.GoogleMapsPlacesV1Circle {
	return &places.GoogleMapsPlacesV1Circle{
		Center: &places.GoogleTypeLatLng{Latitude: lat, Longitude: lng},
		Radius: radius,
	}
}
