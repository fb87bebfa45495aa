package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/octobees/placepack/api/internal/database"
	"github.com/octobees/placepack/api/internal/logger"
	"github.com/octobees/placepack/api/internal/middleware"
	"github.com/octobees/placepack/api/internal/placesapi"
	"github.com/octobees/placepack/api/internal/repository"
	"github.com/octobees/placepack/api/internal/service"
)

type fakeProvider struct {
	places   []placesapi.ProviderPlace
	err      error
	mediaErr error
	lastRef  string
}

func (f *fakeProvider) NearbySearch(ctx context.Context, req placesapi.NearbyRequest) ([]placesapi.ProviderPlace, error) {
	return f.places, f.err
}

func (f *fakeProvider) TextSearch(ctx context.Context, req placesapi.TextRequest) ([]placesapi.ProviderPlace, error) {
	return f.places, f.err
}

// PhotoURL mirrors the real client, which embeds the API key.
func (f *fakeProvider) PhotoURL(ref string, maxWidth int) string {
	return "https://places.example/v1/" + ref + "/media?maxWidthPx=" + strconv.Itoa(maxWidth) + "&key=server-key"
}

func (f *fakeProvider) PhotoMediaURI(ctx context.Context, ref string, maxWidth int) (string, error) {
	f.lastRef = ref
	if f.mediaErr != nil {
		return "", f.mediaErr
	}
	return "https://lh3.example/" + ref + "=w" + strconv.Itoa(maxWidth), nil
}

// testServices wires the services against an in-memory SQLite cache.
type testServices struct {
	places  *repository.SQLPlacesRepository
	actions *repository.SQLUserActionsRepository
	search  *service.SearchService
	place   *service.PlaceService
	action  *service.UserActionService
	images  service.ImageResolver
}

func newTestServices(t *testing.T, provider *fakeProvider, extractor service.IntentExtractor) testServices {
	t.Helper()
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, "file::memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.MigrateSQLite(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	places := repository.NewSQLPlacesRepository(db)
	actions := repository.NewSQLUserActionsRepository(db)
	images := service.NewProxyImageResolver("https://api.example.com", 400)
	return testServices{
		places:  places,
		actions: actions,
		search:  service.NewSearchService(places, actions, provider, extractor, images, logger.Nop(), service.SearchOptions{PhoneRegion: "JP"}),
		place:   service.NewPlaceService(places, "JP"),
		action:  service.NewUserActionService(actions, places, images),
		images:  images,
	}
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewRequestValidator()
	return e
}

func jsonContext(e *echo.Echo, method, target, body, user string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != "" {
		c.Set(middleware.ContextKeyUserID, user)
	}
	return c, rec
}

// decodeData unwraps the envelope and decodes its data member into out.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) APIResponse {
	t.Helper()
	var envelope struct {
		APIResponse
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			t.Fatalf("failed to decode data: %v", err)
		}
	}
	return envelope.APIResponse
}

func providerPlace(id, name string) placesapi.ProviderPlace {
	return placesapi.ProviderPlace{
		ID:               id,
		DisplayName:      name,
		FormattedAddress: "Tokyo",
		Location:         &placesapi.LatLng{Latitude: 35.66, Longitude: 139.7},
		Rating:           4.5,
		UserRatingCount:  10,
		PriceLevel:       "PRICE_LEVEL_INEXPENSIVE",
		Photos:           []placesapi.Photo{{Name: "places/" + id + "/photos/p1"}},
	}
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}
