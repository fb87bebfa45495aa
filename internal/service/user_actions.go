package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/octobees/placepack/api/internal/entity"
	"github.com/octobees/placepack/api/internal/repository"
)

const (
	defaultActionsLimit = 100
	maxActionsLimit     = 100
)

// UserActionService records and lists LIKE, NOPE and VIEW reactions.
type UserActionService struct {
	actions repository.UserActionsRepository
	places  repository.PlacesRepository
	images  ImageResolver
}

// NewUserActionService creates a new instance of UserActionService.
func NewUserActionService(actions repository.UserActionsRepository, places repository.PlacesRepository, images ImageResolver) *UserActionService {
	return &UserActionService{actions: actions, places: places, images: images}
}

// SaveUserActionInput is a reaction by the authenticated user.
type SaveUserActionInput struct {
	UserID     string
	PlaceID    string
	ActionType string
}

// Save records the action. The place must already be cached.
func (s *UserActionService) Save(ctx context.Context, in SaveUserActionInput) (entity.UserAction, error) {
	userID, err := entity.NewUserID(in.UserID)
	if err != nil {
		return entity.UserAction{}, err
	}
	placeID, err := entity.NewPlaceID(strings.TrimSpace(in.PlaceID))
	if err != nil {
		return entity.UserAction{}, err
	}
	actionType, err := entity.ParseActionType(strings.ToUpper(strings.TrimSpace(in.ActionType)))
	if err != nil {
		return entity.UserAction{}, err
	}

	if _, err := s.places.FindByID(ctx, placeID); err != nil {
		if errors.Is(err, repository.ErrPlaceNotFound) {
			return entity.UserAction{}, &NotFoundError{Resource: "place", ID: placeID.String(), Err: err}
		}
		return entity.UserAction{}, fmt.Errorf("look up place: %w", err)
	}

	action, err := s.actions.Create(ctx, userID, placeID, actionType)
	if err != nil {
		// The place can disappear between the lookup and the insert.
		if errors.Is(err, repository.ErrPlaceNotFound) {
			return entity.UserAction{}, &NotFoundError{Resource: "place", ID: placeID.String(), Err: err}
		}
		return entity.UserAction{}, fmt.Errorf("create user action: %w", err)
	}
	return action, nil
}

// ListUserActionsInput pages through a user's actions, newest first.
type ListUserActionsInput struct {
	UserID     string
	ActionType string
	PlaceID    string
	Limit      int
	Offset     int
}

// UserActionItem is an action with the cached name and image of its place.
type UserActionItem struct {
	Action    entity.UserAction
	PlaceName *string
	ImageURL  *string
}

// ListUserActionsOutput is one page of actions.
type ListUserActionsOutput struct {
	Actions    []UserActionItem
	TotalCount int
	HasMore    bool
	Limit      int
	Offset     int
}

// List returns at most 100 actions per page.
func (s *UserActionService) List(ctx context.Context, in ListUserActionsInput) (ListUserActionsOutput, error) {
	userID, err := entity.NewUserID(in.UserID)
	if err != nil {
		return ListUserActionsOutput{}, err
	}
	if in.Offset < 0 {
		return ListUserActionsOutput{}, &entity.ValidationError{Field: "offset", Reason: "must not be negative"}
	}
	switch {
	case in.Limit < 0:
		return ListUserActionsOutput{}, &entity.ValidationError{Field: "limit", Reason: "must not be negative"}
	case in.Limit == 0:
		in.Limit = defaultActionsLimit
	case in.Limit > maxActionsLimit:
		in.Limit = maxActionsLimit
	}

	filter := repository.UserActionFilter{UserID: userID, Limit: in.Limit, Offset: in.Offset}
	if raw := strings.TrimSpace(in.ActionType); raw != "" {
		t, err := entity.ParseActionType(strings.ToUpper(raw))
		if err != nil {
			return ListUserActionsOutput{}, err
		}
		filter.Type = &t
	}
	if raw := strings.TrimSpace(in.PlaceID); raw != "" {
		id, err := entity.NewPlaceID(raw)
		if err != nil {
			return ListUserActionsOutput{}, err
		}
		filter.PlaceID = &id
	}

	rows, total, err := s.actions.FindByUser(ctx, filter)
	if err != nil {
		return ListUserActionsOutput{}, fmt.Errorf("list user actions: %w", err)
	}

	items := make([]UserActionItem, 0, len(rows))
	for _, row := range rows {
		item := UserActionItem{Action: row.Action}
		if row.Place != nil {
			name := row.Place.Name
			item.PlaceName = &name
			if s.images != nil {
				item.ImageURL = s.images.ResolveImage(row.Place.PhotoReference)
			}
		}
		items = append(items, item)
	}

	return ListUserActionsOutput{
		Actions:    items,
		TotalCount: total,
		HasMore:    in.Offset+len(items) < total,
		Limit:      in.Limit,
		Offset:     in.Offset,
	}, nil
}
