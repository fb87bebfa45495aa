package handler

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/placepack/api/internal/logger"
	"github.com/octobees/placepack/api/internal/service"
)

const maxPhotoWidth = 4800

// photoReferenceExpr matches Places API photo resource names, which keeps the
// redirect from pointing anywhere but the provider's media endpoint.
var photoReferenceExpr = regexp.MustCompile(`^places/[A-Za-z0-9_-]+/photos/[A-Za-z0-9_-]+$`)

// PhotoHandler redirects photo references to the provider's keyless media
// URL, resolved server side so the API key stays here.
type PhotoHandler struct {
	media        service.PhotoMediaResolver
	defaultWidth int
	log          *logger.Logger
}

// NewPhotoHandler creates a new handler instance.
func NewPhotoHandler(media service.PhotoMediaResolver, defaultWidth int, log *logger.Logger) *PhotoHandler {
	return &PhotoHandler{media: media, defaultWidth: defaultWidth, log: log}
}

// Redirect handles GET /places/photos?ref=&max_width=.
func (h *PhotoHandler) Redirect(c echo.Context) error {
	ref := strings.TrimSpace(c.QueryParam("ref"))
	if !photoReferenceExpr.MatchString(ref) {
		return Error(c, http.StatusBadRequest, "invalid photo reference")
	}

	width := h.defaultWidth
	if raw := strings.TrimSpace(c.QueryParam("max_width")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxPhotoWidth {
			return Error(c, http.StatusBadRequest, "max_width must be between 1 and 4800")
		}
		width = parsed
	}

	location, err := h.media.PhotoMediaURI(c.Request().Context(), ref, width)
	if err != nil {
		return writeServiceError(c, h.log, err)
	}

	// photoUri values are short-lived.
	c.Response().Header().Set("Cache-Control", "private, max-age=600")
	return c.Redirect(http.StatusFound, location)
}
