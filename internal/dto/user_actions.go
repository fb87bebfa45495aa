package dto

import "time"

// SaveUserActionRequest records a reaction of the authenticated user.
type SaveUserActionRequest struct {
	PlaceID    string `json:"place_id" validate:"required,max=255"`
	ActionType string `json:"action_type" validate:"required,oneof=LIKE NOPE VIEW like nope view"`
}

// UserActionResponse represents a recorded action.
type UserActionResponse struct {
	ID         int64     `json:"user_action_id"`
	UserID     string    `json:"user_id"`
	PlaceID    string    `json:"place_id"`
	ActionType string    `json:"action_type"`
	CreatedAt  time.Time `json:"created_at"`
	PlaceName  *string   `json:"place_name,omitempty"`
	ImageURL   *string   `json:"image_url,omitempty"`
}

// UserActionsPage is one page of a user's actions, newest first.
type UserActionsPage struct {
	Actions    []UserActionResponse `json:"actions"`
	TotalCount int                  `json:"total_count"`
	HasMore    bool                 `json:"has_more"`
	Limit      int                  `json:"limit"`
	Offset     int                  `json:"offset"`
}
