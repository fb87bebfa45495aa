package entity

import "time"

// UserAction records a single LIKE, NOPE or VIEW by a user against a place.
type UserAction struct {
	ID        UserActionID
	UserID    UserID
	PlaceID   PlaceID
	Type      ActionType
	CreatedAt time.Time
}

// PlaceSummary is the cached name and image of the place an action refers to.
type PlaceSummary struct {
	Name           string
	PhotoReference *string
}

// UserActionWithPlace joins an action with the cached summary of its place,
// which is nil when no details were cached yet.
type UserActionWithPlace struct {
	Action UserAction
	Place  *PlaceSummary
}
