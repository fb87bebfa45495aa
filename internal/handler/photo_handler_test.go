package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/octobees/placepack/api/internal/placesapi"
)

func TestPhotoHandler_Redirect(t *testing.T) {
	provider := &fakeProvider{}
	h := NewPhotoHandler(provider, 400, nil)
	e := newTestEcho()

	c, rec := jsonContext(e, http.MethodGet, "/places/photos?ref=places/P1/photos/abc_1&max_width=800", "", "")
	if err := h.Redirect(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertStatus(t, rec, http.StatusFound)
	if got := rec.Header().Get("Location"); got != "https://lh3.example/places/P1/photos/abc_1=w800" {
		t.Fatalf("unexpected location %q", got)
	}
	if provider.lastRef != "places/P1/photos/abc_1" {
		t.Fatalf("unexpected ref passed to provider %q", provider.lastRef)
	}

	c, rec = jsonContext(e, http.MethodGet, "/places/photos?ref=places/P1/photos/abc", "", "")
	if err := h.Redirect(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rec.Header().Get("Location"); got != "https://lh3.example/places/P1/photos/abc=w400" {
		t.Fatalf("expected default width, got %q", got)
	}
}

func TestPhotoHandler_RedirectNeverExposesKey(t *testing.T) {
	provider := &fakeProvider{}
	if !strings.Contains(provider.PhotoURL("places/P1/photos/abc", 400), "key=") {
		t.Fatalf("keyed media url expected from provider")
	}
	h := NewPhotoHandler(provider, 400, nil)
	e := newTestEcho()

	c, rec := jsonContext(e, http.MethodGet, "/places/photos?ref=places/P1/photos/abc", "", "")
	if err := h.Redirect(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertStatus(t, rec, http.StatusFound)
	location := rec.Header().Get("Location")
	if location == "" || strings.Contains(location, "key=") || strings.Contains(location, "server-key") {
		t.Fatalf("redirect leaks api key: %q", location)
	}
	if strings.Contains(rec.Body.String(), "server-key") {
		t.Fatalf("body leaks api key: %s", rec.Body.String())
	}
}

func TestPhotoHandler_RedirectProviderFailure(t *testing.T) {
	provider := &fakeProvider{mediaErr: &placesapi.ProviderError{Op: "photo media", Status: http.StatusNotFound, Body: "photo not found"}}
	h := NewPhotoHandler(provider, 400, nil)
	e := newTestEcho()

	c, rec := jsonContext(e, http.MethodGet, "/places/photos?ref=places/P1/photos/abc", "", "")
	if err := h.Redirect(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertStatus(t, rec, http.StatusBadGateway)
	if rec.Header().Get("Location") != "" {
		t.Fatalf("expected no redirect on provider failure")
	}
}

func TestPhotoHandler_Redirect_Invalid(t *testing.T) {
	h := NewPhotoHandler(&fakeProvider{}, 400, nil)
	e := newTestEcho()

	targets := map[string]string{
		"missing ref":     "/places/photos",
		"foreign ref":     "/places/photos?ref=https://evil.example/x",
		"traversal":       "/places/photos?ref=places/P1/photos/../../x",
		"width not a num": "/places/photos?ref=places/P1/photos/a&max_width=wide",
		"width too large": "/places/photos?ref=places/P1/photos/a&max_width=5000",
	}
	for name, target := range targets {
		t.Run(name, func(t *testing.T) {
			c, rec := jsonContext(e, http.MethodGet, target, "", "")
			if err := h.Redirect(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertStatus(t, rec, http.StatusBadRequest)
		})
	}
}
