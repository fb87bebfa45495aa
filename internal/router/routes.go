package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/placepack/api/internal/auth"
	"github.com/octobees/placepack/api/internal/config"
	"github.com/octobees/placepack/api/internal/handler"
	middlewarepkg "github.com/octobees/placepack/api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Search      *handler.SearchHandler
	Places      *handler.PlacesHandler
	Photos      *handler.PhotoHandler
	UserActions *handler.UserActionsHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	// Static segments win over :place_id in echo's router.
	if handlers.Photos != nil {
		e.GET("/places/photos", handlers.Photos.Redirect)
	}
	e.GET("/places/:place_id", handlers.Places.Get)

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))

	limiter := middlewarepkg.SearchRateLimiter(cfg.RateLimitSearch)
	secured.POST("/places/search/nearby", handlers.Search.Nearby, limiter)
	secured.POST("/places/search/ai", handlers.Search.AI, limiter)

	secured.POST("/places", handlers.Places.Upsert, middlewarepkg.RequireRole("admin"))

	secured.POST("/user-actions", handlers.UserActions.Save)
	secured.GET("/user-actions", handlers.UserActions.List)
}
