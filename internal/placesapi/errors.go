package placesapi

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
)

// ProviderError reports a failed call to the Places API. Status is 0 when the
// request never produced an HTTP response.
type ProviderError struct {
	Op     string
	Status int
	Body   string
	Err    error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("places %s failed", e.Op)
	if e.Status != 0 {
		msg += fmt.Sprintf(" with status %d", e.Status)
	}
	if e.Body != "" {
		msg += ": " + e.Body
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.ReferrerBlocked() {
		msg += " (API key is restricted to HTTP referrers; server-side calls need an IP-restricted or unrestricted key)"
	}
	return msg
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ReferrerBlocked reports whether the key was rejected because of an HTTP
// referrer restriction, the most common misconfiguration for server keys.
func (e *ProviderError) ReferrerBlocked() bool {
	return e.Status == 403 && strings.Contains(e.Body, "API_KEY_HTTP_REFERRER_BLOCKED")
}

func wrapCallError(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		body := apiErr.Body
		if body == "" {
			body = apiErr.Message
		}
		return &ProviderError{Op: op, Status: apiErr.Code, Body: body, Err: err}
	}
	return &ProviderError{Op: op, Err: err}
}
