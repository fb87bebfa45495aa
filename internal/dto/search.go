package dto

// NearbySearchRequest is the body of POST /places/search/nearby.
type NearbySearchRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Radius    float64  `json:"radius" validate:"omitempty,gt=0,lte=50000"`
	Type      string   `json:"type" validate:"omitempty,max=64"`
	Keyword   string   `json:"keyword" validate:"omitempty,max=200"`
	Limit     int      `json:"limit" validate:"omitempty,min=1,max=20"`
}

// AISearchRequest is the body of POST /places/search/ai.
type AISearchRequest struct {
	Query     string   `json:"query" validate:"required,max=500"`
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Radius    float64  `json:"radius" validate:"omitempty,gt=0,lte=50000"`
	Limit     int      `json:"limit" validate:"omitempty,min=1,max=20"`
}

// PlaceResult is one place in a search response. Absent values are null.
type PlaceResult struct {
	PlaceID        string   `json:"place_id"`
	Name           string   `json:"name"`
	Address        *string  `json:"address"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	CachedImageURL *string  `json:"cached_image_url"`
	Rating         *float64 `json:"rating"`
	ReviewCount    *int     `json:"review_count"`
	PriceLevel     *int     `json:"price_level"`
	CategoryTag    *string  `json:"category_tag"`
	Phone          *string  `json:"phone"`
	Website        *string  `json:"website"`
}

// SearchIntent echoes the hints an AI search was run with.
type SearchIntent struct {
	SearchKeywords []string `json:"search_keywords"`
	PlaceTypes     []string `json:"place_types"`
	PriceLevel     *string  `json:"price_level"`
	VibeKeywords   []string `json:"vibe_keywords"`
}

// SearchResponse lists the places returned by a search.
type SearchResponse struct {
	Places     []PlaceResult `json:"places"`
	TotalCount int           `json:"total_count"`
	Partial    bool          `json:"partial,omitempty"`
	Skipped    int           `json:"skipped,omitempty"`
	Intent     *SearchIntent `json:"intent,omitempty"`
}
