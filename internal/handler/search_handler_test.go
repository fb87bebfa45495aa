package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/octobees/placepack/api/internal/dto"
	"github.com/octobees/placepack/api/internal/entity"
	"github.com/octobees/placepack/api/internal/logger"
	"github.com/octobees/placepack/api/internal/placesapi"
)

type failingExtractor struct{}

func (failingExtractor) Extract(ctx context.Context, query string) (entity.ExtractedSearchParams, error) {
	return entity.ExtractedSearchParams{}, errors.New("model unavailable")
}

func TestSearchHandler_Nearby(t *testing.T) {
	plain := placesapi.ProviderPlace{ID: "P2", DisplayName: "Plain", Location: &placesapi.LatLng{Latitude: 35, Longitude: 139}}
	svcs := newTestServices(t, &fakeProvider{places: []placesapi.ProviderPlace{providerPlace("P1", "Cafe"), plain}}, nil)
	h := NewSearchHandler(svcs.search, logger.Nop())

	e := newTestEcho()
	c, rec := jsonContext(e, http.MethodPost, "/places/search/nearby", `{"latitude":35.66,"longitude":139.7}`, "user-1")
	if err := h.Nearby(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)

	var data dto.SearchResponse
	payload := decodeData(t, rec, &data)
	if payload.Status != "success" || data.TotalCount != 2 || len(data.Places) != 2 {
		t.Fatalf("unexpected payload %+v %+v", payload, data)
	}
	if img := data.Places[0].CachedImageURL; img == nil || !strings.HasPrefix(*img, "https://api.example.com/places/photos?ref=") {
		t.Fatalf("unexpected image url %v", img)
	}
	if !strings.Contains(rec.Body.String(), `"rating":null`) || !strings.Contains(rec.Body.String(), `"cached_image_url":null`) {
		t.Fatalf("expected explicit nulls for absent fields: %s", rec.Body.String())
	}
}

func TestSearchHandler_Nearby_Validation(t *testing.T) {
	svcs := newTestServices(t, &fakeProvider{}, nil)
	h := NewSearchHandler(svcs.search, logger.Nop())
	e := newTestEcho()

	tests := map[string]string{
		"missing latitude": `{"longitude":139.7}`,
		"latitude range":   `{"latitude":95,"longitude":139.7}`,
		"limit too large":  `{"latitude":35,"longitude":139.7,"limit":21}`,
		"radius too large": `{"latitude":35,"longitude":139.7,"radius":60000}`,
		"malformed json":   `{"latitude":`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			c, rec := jsonContext(e, http.MethodPost, "/places/search/nearby", body, "user-1")
			if err := h.Nearby(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertStatus(t, rec, http.StatusBadRequest)
		})
	}
}

func TestSearchHandler_Nearby_ProviderFailure(t *testing.T) {
	provider := &fakeProvider{err: &placesapi.ProviderError{Op: "nearby search", Status: 403, Body: "API_KEY_HTTP_REFERRER_BLOCKED"}}
	svcs := newTestServices(t, provider, nil)
	h := NewSearchHandler(svcs.search, logger.Nop())

	c, rec := jsonContext(newTestEcho(), http.MethodPost, "/places/search/nearby", `{"latitude":35,"longitude":139}`, "user-1")
	if err := h.Nearby(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertStatus(t, rec, http.StatusBadGateway)
	if strings.Contains(rec.Body.String(), "REFERRER") {
		t.Fatalf("provider body leaked to client: %s", rec.Body.String())
	}
}

func TestSearchHandler_Nearby_ExcludesNope(t *testing.T) {
	svcs := newTestServices(t, &fakeProvider{places: []placesapi.ProviderPlace{providerPlace("P1", "A"), providerPlace("P2", "B")}}, nil)
	h := NewSearchHandler(svcs.search, logger.Nop())
	e := newTestEcho()

	c, rec := jsonContext(e, http.MethodPost, "/places/search/nearby", `{"latitude":35,"longitude":139}`, "user-1")
	if err := h.Nearby(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)

	uid, _ := entity.NewUserID("user-1")
	pid, _ := entity.NewPlaceID("P1")
	if _, err := svcs.actions.Create(context.Background(), uid, pid, entity.ActionNope); err != nil {
		t.Fatalf("record nope: %v", err)
	}

	c, rec = jsonContext(e, http.MethodPost, "/places/search/nearby", `{"latitude":35,"longitude":139}`, "user-1")
	if err := h.Nearby(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var data dto.SearchResponse
	decodeData(t, rec, &data)
	if data.TotalCount != 1 || data.Places[0].PlaceID != "P2" {
		t.Fatalf("expected only P2, got %+v", data.Places)
	}

	c, rec = jsonContext(e, http.MethodPost, "/places/search/nearby", `{"latitude":35,"longitude":139}`, "user-2")
	if err := h.Nearby(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decodeData(t, rec, &data)
	if data.TotalCount != 2 {
		t.Fatalf("expected other users unaffected, got %d", data.TotalCount)
	}
}

func TestSearchHandler_AI_FallsBackOnExtractorFailure(t *testing.T) {
	svcs := newTestServices(t, &fakeProvider{places: []placesapi.ProviderPlace{providerPlace("P1", "Cafe")}}, failingExtractor{})
	h := NewSearchHandler(svcs.search, logger.Nop())

	c, rec := jsonContext(newTestEcho(), http.MethodPost, "/places/search/ai", `{"query":"quiet cafe","latitude":35,"longitude":139}`, "user-1")
	if err := h.AI(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)

	var data dto.SearchResponse
	decodeData(t, rec, &data)
	if data.TotalCount != 1 || data.Intent == nil {
		t.Fatalf("unexpected payload %+v", data)
	}
	if len(data.Intent.SearchKeywords) != 1 || data.Intent.SearchKeywords[0] != "quiet cafe" || len(data.Intent.PlaceTypes) != 0 {
		t.Fatalf("expected raw query fallback, got %+v", data.Intent)
	}
}

func TestSearchHandler_AI_RequiresQuery(t *testing.T) {
	svcs := newTestServices(t, &fakeProvider{}, nil)
	h := NewSearchHandler(svcs.search, logger.Nop())

	c, rec := jsonContext(newTestEcho(), http.MethodPost, "/places/search/ai", `{"latitude":35,"longitude":139}`, "user-1")
	if err := h.AI(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertStatus(t, rec, http.StatusBadRequest)
	if !strings.Contains(rec.Body.String(), "query failed required") {
		t.Fatalf("expected field level message, got %s", rec.Body.String())
	}
}
