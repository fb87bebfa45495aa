package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/placepack/api/internal/dto"
	"github.com/octobees/placepack/api/internal/entity"
	"github.com/octobees/placepack/api/internal/logger"
	"github.com/octobees/placepack/api/internal/service"
)

// UserActionsHandler records and lists the caller's reactions to places.
type UserActionsHandler struct {
	actions *service.UserActionService
	log     *logger.Logger
}

// NewUserActionsHandler creates a new handler instance.
func NewUserActionsHandler(actions *service.UserActionService, log *logger.Logger) *UserActionsHandler {
	return &UserActionsHandler{actions: actions, log: log}
}

// Save handles POST /user-actions.
func (h *UserActionsHandler) Save(c echo.Context) error {
	var req dto.SaveUserActionRequest
	if msg, ok := bindAndValidate(c, &req); !ok {
		return Error(c, http.StatusBadRequest, msg)
	}

	action, err := h.actions.Save(c.Request().Context(), service.SaveUserActionInput{
		UserID:     userID(c),
		PlaceID:    req.PlaceID,
		ActionType: req.ActionType,
	})
	if err != nil {
		return writeServiceError(c, h.log, err)
	}
	return Success(c, http.StatusCreated, "user action recorded", toUserActionResponse(action))
}

// List handles GET /user-actions?action_type=&place_id=&limit=&offset=.
func (h *UserActionsHandler) List(c echo.Context) error {
	limit, ok := parseOptionalInt(c.QueryParam("limit"))
	if !ok {
		return Error(c, http.StatusBadRequest, "invalid limit")
	}
	offset, ok := parseOptionalInt(c.QueryParam("offset"))
	if !ok {
		return Error(c, http.StatusBadRequest, "invalid offset")
	}

	out, err := h.actions.List(c.Request().Context(), service.ListUserActionsInput{
		UserID:     userID(c),
		ActionType: c.QueryParam("action_type"),
		PlaceID:    c.QueryParam("place_id"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return writeServiceError(c, h.log, err)
	}

	page := dto.UserActionsPage{
		Actions:    make([]dto.UserActionResponse, 0, len(out.Actions)),
		TotalCount: out.TotalCount,
		HasMore:    out.HasMore,
		Limit:      out.Limit,
		Offset:     out.Offset,
	}
	for _, item := range out.Actions {
		resp := toUserActionResponse(item.Action)
		resp.PlaceName = item.PlaceName
		resp.ImageURL = item.ImageURL
		page.Actions = append(page.Actions, resp)
	}
	return Success(c, http.StatusOK, "user actions retrieved", page)
}

func toUserActionResponse(a entity.UserAction) dto.UserActionResponse {
	return dto.UserActionResponse{
		ID:         a.ID.Int64(),
		UserID:     a.UserID.String(),
		PlaceID:    a.PlaceID.String(),
		ActionType: a.Type.String(),
		CreatedAt:  a.CreatedAt,
	}
}

// parseOptionalInt treats an empty value as zero and rejects garbage.
func parseOptionalInt(input string) (int, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, true
	}
	value, err := strconv.Atoi(input)
	if err != nil {
		return 0, false
	}
	return value, true
}
