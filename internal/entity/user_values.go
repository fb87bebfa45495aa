package entity

import (
	"strconv"
	"unicode/utf8"
)

const maxUserIDLength = 128

// UserID is the opaque subject supplied by the authentication collaborator.
type UserID struct {
	value string
}

// NewUserID accepts 1 to 128 characters.
func NewUserID(value string) (UserID, error) {
	n := utf8.RuneCountInString(value)
	if n == 0 {
		return UserID{}, invalid("user_id", "must not be empty")
	}
	if n > maxUserIDLength {
		return UserID{}, invalid("user_id", "must be at most %d characters", maxUserIDLength)
	}
	return UserID{value: value}, nil
}

func (u UserID) String() string          { return u.value }
func (u UserID) Equal(other UserID) bool { return u.value == other.value }

// UserActionID is the storage generated sequence number of a user action.
type UserActionID struct {
	value int64
}

// NewUserActionID accepts positive integers.
func NewUserActionID(value int64) (UserActionID, error) {
	if value <= 0 {
		return UserActionID{}, invalid("user_action_id", "must be positive, got %d", value)
	}
	return UserActionID{value: value}, nil
}

func (id UserActionID) Int64() int64                  { return id.value }
func (id UserActionID) Equal(other UserActionID) bool { return id.value == other.value }
func (id UserActionID) String() string                { return strconv.FormatInt(id.value, 10) }

// ActionType is the closed set of reactions a user can record against a place.
type ActionType string

const (
	ActionLike ActionType = "LIKE"
	ActionNope ActionType = "NOPE"
	ActionView ActionType = "VIEW"
)

// ParseActionType rejects anything outside LIKE, NOPE and VIEW.
func ParseActionType(value string) (ActionType, error) {
	switch t := ActionType(value); t {
	case ActionLike, ActionNope, ActionView:
		return t, nil
	default:
		return "", invalid("action_type", "must be one of LIKE, NOPE, VIEW")
	}
}

func (a ActionType) String() string { return string(a) }
