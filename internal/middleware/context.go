package middleware

import "github.com/labstack/echo/v4"

// Context keys used to store request and authentication metadata.
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"
)

// reject writes the API error envelope. It mirrors handler.Error, which
// cannot be imported from here without a cycle.
func reject(c echo.Context, status int, message string) error {
	body := map[string]string{"status": "error", "message": message}
	if rid := RequestIDFromContext(c); rid != "" {
		body["request_id"] = rid
	}
	return c.JSON(status, body)
}
