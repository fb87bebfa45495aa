package entity

import (
	"math"
	"strconv"
	"unicode/utf8"
)

const (
	maxPlaceIDLength     = 255
	maxCategoryTagLength = 100

	minRating = 1.0
	maxRating = 5.0

	minPriceLevel = 0
	maxPriceLevel = 4
)

// PlaceID is the provider-assigned opaque identifier of a place.
type PlaceID struct {
	value string
}

// NewPlaceID validates the identifier length. The content is never inspected.
func NewPlaceID(value string) (PlaceID, error) {
	if value == "" {
		return PlaceID{}, invalid("place_id", "must not be empty")
	}
	if len(value) > maxPlaceIDLength {
		return PlaceID{}, invalid("place_id", "must be at most %d characters", maxPlaceIDLength)
	}
	return PlaceID{value: value}, nil
}

func (id PlaceID) String() string          { return id.value }
func (id PlaceID) Equal(other PlaceID) bool { return id.value == other.value }

// IsZero reports whether the identifier was never constructed.
func (id PlaceID) IsZero() bool { return id.value == "" }

// Latitude is a WGS84 latitude in degrees.
type Latitude struct {
	value float64
}

// NewLatitude accepts values within [-90, 90].
func NewLatitude(value float64) (Latitude, error) {
	if math.IsNaN(value) || value < -90 || value > 90 {
		return Latitude{}, invalid("latitude", "must be between -90 and 90, got %v", value)
	}
	return Latitude{value: value}, nil
}

func (l Latitude) Float64() float64          { return l.value }
func (l Latitude) Equal(other Latitude) bool { return l.value == other.value }
func (l Latitude) String() string            { return strconv.FormatFloat(l.value, 'f', -1, 64) }

// Longitude is a WGS84 longitude in degrees.
type Longitude struct {
	value float64
}

// NewLongitude accepts values within [-180, 180].
func NewLongitude(value float64) (Longitude, error) {
	if math.IsNaN(value) || value < -180 || value > 180 {
		return Longitude{}, invalid("longitude", "must be between -180 and 180, got %v", value)
	}
	return Longitude{value: value}, nil
}

func (l Longitude) Float64() float64           { return l.value }
func (l Longitude) Equal(other Longitude) bool { return l.value == other.value }
func (l Longitude) String() string             { return strconv.FormatFloat(l.value, 'f', -1, 64) }

// Rating is an average review score.
type Rating struct {
	value float64
}

// NewRating accepts values within [1.0, 5.0].
func NewRating(value float64) (Rating, error) {
	if math.IsNaN(value) || value < minRating || value > maxRating {
		return Rating{}, invalid("rating", "must be between %.1f and %.1f, got %v", minRating, maxRating, value)
	}
	return Rating{value: value}, nil
}

// OptionalRating maps provider values outside the valid range (including the
// provider's 0 for "no rating") to absent instead of clamping them.
func OptionalRating(value float64) *Rating {
	r, err := NewRating(value)
	if err != nil {
		return nil
	}
	return &r
}

func (r Rating) Float64() float64        { return r.value }
func (r Rating) Equal(other Rating) bool { return r.value == other.value }
func (r Rating) String() string          { return strconv.FormatFloat(r.value, 'f', -1, 64) }

// PriceLevel is the provider's price tier from 0 (free) to 4 (very expensive).
type PriceLevel struct {
	value int
}

// NewPriceLevel accepts integers within [0, 4].
func NewPriceLevel(value int) (PriceLevel, error) {
	if value < minPriceLevel || value > maxPriceLevel {
		return PriceLevel{}, invalid("price_level", "must be between %d and %d, got %d", minPriceLevel, maxPriceLevel, value)
	}
	return PriceLevel{value: value}, nil
}

var providerPriceLevels = map[string]int{
	"PRICE_LEVEL_FREE":           0,
	"PRICE_LEVEL_INEXPENSIVE":    1,
	"PRICE_LEVEL_MODERATE":       2,
	"PRICE_LEVEL_EXPENSIVE":      3,
	"PRICE_LEVEL_VERY_EXPENSIVE": 4,
}

// PriceLevelFromProvider converts the Places API enum. Unknown and unspecified
// values are absent.
func PriceLevelFromProvider(level string) *PriceLevel {
	v, ok := providerPriceLevels[level]
	if !ok {
		return nil
	}
	return &PriceLevel{value: v}
}

func (p PriceLevel) Int() int                    { return p.value }
func (p PriceLevel) Equal(other PriceLevel) bool { return p.value == other.value }
func (p PriceLevel) String() string              { return strconv.Itoa(p.value) }

// CategoryTag is the human readable primary type of a place, e.g. "Cafe".
type CategoryTag struct {
	value string
}

// NewCategoryTag accepts 1 to 100 characters.
func NewCategoryTag(value string) (CategoryTag, error) {
	n := utf8.RuneCountInString(value)
	if n == 0 {
		return CategoryTag{}, invalid("category_tag", "must not be empty")
	}
	if n > maxCategoryTagLength {
		return CategoryTag{}, invalid("category_tag", "must be at most %d characters", maxCategoryTagLength)
	}
	return CategoryTag{value: value}, nil
}

func (c CategoryTag) String() string              { return c.value }
func (c CategoryTag) Equal(other CategoryTag) bool { return c.value == other.value }
