package entity

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestNewPlaceID(t *testing.T) {
	tests := map[string]struct {
		value   string
		wantErr bool
	}{
		"opaque id":  {value: "ChIJN1t_tDeuEmsRUsoyG83frY4"},
		"max length": {value: strings.Repeat("a", 255)},
		"empty":      {value: "", wantErr: true},
		"too long":   {value: strings.Repeat("a", 256), wantErr: true},
		"kept as-is": {value: "  spaced  "},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			id, err := NewPlaceID(tt.value)
			if tt.wantErr {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("expected validation error, got %v", err)
				}
				if vErr.Field != "place_id" {
					t.Fatalf("unexpected field %q", vErr.Field)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id.String() != tt.value {
				t.Fatalf("expected %q, got %q", tt.value, id.String())
			}
		})
	}
}

func TestPlaceIDEqual(t *testing.T) {
	a, _ := NewPlaceID("P1")
	b, _ := NewPlaceID("P1")
	c, _ := NewPlaceID("P2")
	if !a.Equal(b) {
		t.Fatalf("expected equal ids")
	}
	if a.Equal(c) {
		t.Fatalf("expected different ids")
	}
	if a.IsZero() || !(PlaceID{}).IsZero() {
		t.Fatalf("unexpected IsZero result")
	}
}

func TestCoordinates(t *testing.T) {
	latitudes := map[float64]bool{
		-90: true, 90: true, 0: true, 35.6812: true,
		90.0001: false, -90.5: false, math.Inf(1): false, math.NaN(): false,
	}
	for value, ok := range latitudes {
		_, err := NewLatitude(value)
		if ok && err != nil {
			t.Fatalf("latitude %v: unexpected error %v", value, err)
		}
		if !ok && err == nil {
			t.Fatalf("latitude %v: expected error", value)
		}
	}

	longitudes := map[float64]bool{
		-180: true, 180: true, 139.7671: true,
		180.0001: false, -181: false, math.Inf(-1): false,
	}
	for value, ok := range longitudes {
		_, err := NewLongitude(value)
		if ok && err != nil {
			t.Fatalf("longitude %v: unexpected error %v", value, err)
		}
		if !ok && err == nil {
			t.Fatalf("longitude %v: expected error", value)
		}
	}
}

func TestNewRatingBoundaries(t *testing.T) {
	for _, v := range []float64{1.0, 4.5, 5.0} {
		r, err := NewRating(v)
		if err != nil {
			t.Fatalf("rating %v: unexpected error %v", v, err)
		}
		if r.Float64() != v {
			t.Fatalf("expected %v, got %v", v, r.Float64())
		}
	}
	for _, v := range []float64{0, 0.99, 5.01, math.NaN()} {
		if _, err := NewRating(v); err == nil {
			t.Fatalf("rating %v: expected error", v)
		}
	}
}

func TestOptionalRating(t *testing.T) {
	if OptionalRating(0) != nil {
		t.Fatalf("expected provider zero rating to be absent")
	}
	if OptionalRating(7) != nil {
		t.Fatalf("expected out-of-range rating to be absent")
	}
	if r := OptionalRating(3.2); r == nil || r.Float64() != 3.2 {
		t.Fatalf("expected 3.2, got %v", r)
	}
}

func TestPriceLevel(t *testing.T) {
	for i := 0; i <= 4; i++ {
		p, err := NewPriceLevel(i)
		if err != nil || p.Int() != i {
			t.Fatalf("price level %d: %v", i, err)
		}
	}
	if _, err := NewPriceLevel(-1); err == nil {
		t.Fatalf("expected error for -1")
	}
	if _, err := NewPriceLevel(5); err == nil {
		t.Fatalf("expected error for 5")
	}

	tests := map[string]*int{
		"PRICE_LEVEL_FREE":           intPtr(0),
		"PRICE_LEVEL_INEXPENSIVE":    intPtr(1),
		"PRICE_LEVEL_MODERATE":       intPtr(2),
		"PRICE_LEVEL_EXPENSIVE":      intPtr(3),
		"PRICE_LEVEL_VERY_EXPENSIVE": intPtr(4),
		"PRICE_LEVEL_UNSPECIFIED":    nil,
		"":                           nil,
	}
	for in, want := range tests {
		got := PriceLevelFromProvider(in)
		if want == nil {
			if got != nil {
				t.Fatalf("%q: expected absent, got %v", in, got)
			}
			continue
		}
		if got == nil || got.Int() != *want {
			t.Fatalf("%q: expected %d, got %v", in, *want, got)
		}
	}
}

func TestNewCategoryTag(t *testing.T) {
	if _, err := NewCategoryTag(""); err == nil {
		t.Fatalf("expected error for empty tag")
	}
	if _, err := NewCategoryTag(strings.Repeat("カ", 100)); err != nil {
		t.Fatalf("expected 100 runes to be accepted: %v", err)
	}
	if _, err := NewCategoryTag(strings.Repeat("x", 101)); err == nil {
		t.Fatalf("expected error for 101 characters")
	}
}

func intPtr(v int) *int { return &v }
