package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/placepack/api/internal/entity"
	"github.com/octobees/placepack/api/internal/logger"
	"github.com/octobees/placepack/api/internal/middleware"
	"github.com/octobees/placepack/api/internal/placesapi"
	"github.com/octobees/placepack/api/internal/repository"
	"github.com/octobees/placepack/api/internal/service"
)

// writeServiceError maps domain errors onto status codes. Server side failures
// are logged with the request id; clients only see a generic message.
func writeServiceError(c echo.Context, log *logger.Logger, err error) error {
	var (
		validationErr *entity.ValidationError
		notFoundErr   *service.NotFoundError
		providerErr   *placesapi.ProviderError
		storageErr    *repository.StorageError
	)
	switch {
	case errors.As(err, &validationErr):
		return Error(c, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &notFoundErr):
		return Error(c, http.StatusNotFound, notFoundErr.Error())
	case errors.Is(err, repository.ErrPlaceNotFound):
		return Error(c, http.StatusNotFound, "place not found")
	case errors.As(err, &providerErr):
		logFailure(c, log, "place provider call failed", err)
		return Error(c, http.StatusBadGateway, "place search provider unavailable")
	case errors.As(err, &storageErr):
		logFailure(c, log, "storage call failed", err)
		return Error(c, http.StatusInternalServerError, "storage unavailable")
	default:
		logFailure(c, log, "request failed", err)
		return Error(c, http.StatusInternalServerError, "internal server error")
	}
}

func logFailure(c echo.Context, log *logger.Logger, msg string, err error) {
	if log == nil {
		return
	}
	log.Error(msg, "request_id", middleware.RequestIDFromContext(c), "path", c.Path(), "error", err)
}

func userID(c echo.Context) string {
	return middleware.UserIDFromContext(c)
}
