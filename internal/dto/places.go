package dto

import "time"

// UpsertPlaceRequest registers or refreshes a place by hand.
type UpsertPlaceRequest struct {
	PlaceID        string   `json:"place_id" validate:"required,max=255"`
	Latitude       *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude      *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Name           string   `json:"name" validate:"omitempty,max=500"`
	Address        *string  `json:"address,omitempty"`
	PhotoReference *string  `json:"photo_reference,omitempty"`
	Rating         *float64 `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5"`
	ReviewCount    *int     `json:"review_count,omitempty" validate:"omitempty,gte=0"`
	PriceLevel     *int     `json:"price_level,omitempty" validate:"omitempty,gte=0,lte=4"`
	CategoryTag    *string  `json:"category_tag,omitempty" validate:"omitempty,max=100"`
	Phone          *string  `json:"phone,omitempty" validate:"omitempty,max=32"`
	Website        *string  `json:"website,omitempty" validate:"omitempty,url"`
}

// PlaceDetailsResponse is the cached metadata of a place.
type PlaceDetailsResponse struct {
	Name          string    `json:"name"`
	Address       *string   `json:"address"`
	ImageURL      *string   `json:"image_url"`
	Rating        *float64  `json:"rating"`
	ReviewCount   *int      `json:"review_count"`
	PriceLevel    *int      `json:"price_level"`
	CategoryTag   *string   `json:"category_tag"`
	Phone         *string   `json:"phone"`
	Website       *string   `json:"website"`
	LastFetchedAt time.Time `json:"last_fetched_at"`
}

// PlaceResponse is a cached place. Details is null for a bare place.
type PlaceResponse struct {
	PlaceID   string                `json:"place_id"`
	Latitude  float64               `json:"latitude"`
	Longitude float64               `json:"longitude"`
	CreatedAt time.Time             `json:"created_at"`
	Details   *PlaceDetailsResponse `json:"details"`
}

// UpsertPlaceResponse adds whether the place was created by the call.
type UpsertPlaceResponse struct {
	PlaceResponse
	IsNew bool `json:"is_new"`
}
