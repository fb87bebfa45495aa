package entity

// PriceHint is the qualitative budget an extractor can infer from a query.
type PriceHint string

const (
	PriceCheap     PriceHint = "cheap"
	PriceModerate  PriceHint = "moderate"
	PriceExpensive PriceHint = "expensive"
)

// ParsePriceHint returns false for anything outside the three hints.
func ParsePriceHint(value string) (PriceHint, bool) {
	switch h := PriceHint(value); h {
	case PriceCheap, PriceModerate, PriceExpensive:
		return h, true
	}
	return "", false
}

// ExtractedSearchParams are structured hints derived from a free-form query.
// They live only for the duration of one search.
type ExtractedSearchParams struct {
	SearchKeywords []string
	PlaceTypes     []string
	PriceLevel     *PriceHint
	VibeKeywords   []string
}

// FallbackSearchParams treats the raw query as the only keyword.
func FallbackSearchParams(query string) ExtractedSearchParams {
	return ExtractedSearchParams{SearchKeywords: []string{query}}
}
