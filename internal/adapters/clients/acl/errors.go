package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/zenquote/internal/adapters/clients"
	"github.com/jsamuelsen/zenquote/internal/domain"
)

// ErrorResponse is the Google API error envelope:
//
//	{"error": {"code": 400, "message": "...", "status": "INVALID_ARGUMENT"}}
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail is the body of ErrorResponse.
type ErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Google status strings that override the HTTP status mapping.
const (
	StatusNotFound          = "NOT_FOUND"
	StatusInvalidArgument   = "INVALID_ARGUMENT"
	StatusPermissionDenied  = "PERMISSION_DENIED"
	StatusUnauthenticated   = "UNAUTHENTICATED"
	StatusResourceExhausted = "RESOURCE_EXHAUSTED"
)

// ParseErrorResponse decodes a Google error envelope, or returns nil when
// body holds none.
func ParseErrorResponse(body io.Reader) *ErrorResponse {
	if body == nil {
		return nil
	}

	var env ErrorResponse
	if json.NewDecoder(body).Decode(&env) != nil {
		return nil
	}

	if env.Error.Message == "" && env.Error.Status == "" {
		return nil
	}

	return &env
}

// MapHTTPError turns a failed generator call into a domain error, or returns
// nil for a 2xx response. Everything that means "try again later" maps to
// ErrUnavailable so the provider falls back. entityID names the missing
// resource for a 404, which for the generator is the model.
func MapHTTPError(resp *http.Response, clientErr error, service, operation, entityID string) error {
	switch {
	case errors.Is(clientErr, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(service, "circuit breaker open during "+operation)
	case clientErr != nil:
		return domain.NewUnavailableError(service, fmt.Sprintf("%s: %v", operation, clientErr))
	case resp == nil:
		return domain.NewUnavailableError(service, "no response received")
	case resp.StatusCode/100 == 2:
		return nil
	}

	var detail ErrorDetail
	if env := ParseErrorResponse(resp.Body); env != nil {
		detail = env.Error
	}

	msg := detail.Message
	if msg == "" {
		msg = fmt.Sprintf("%s failed with status %d", operation, resp.StatusCode)
	}

	code := resp.StatusCode

	switch {
	case code == http.StatusNotFound, detail.Status == StatusNotFound:
		return domain.NewNotFoundError(service, entityID)

	case code == http.StatusUnauthorized, code == http.StatusForbidden,
		detail.Status == StatusUnauthenticated, detail.Status == StatusPermissionDenied:
		return domain.NewUnavailableError(service, "credentials rejected: "+msg)

	case code == http.StatusTooManyRequests, detail.Status == StatusResourceExhausted:
		return domain.NewUnavailableError(service, "rate limit exceeded")

	case code >= http.StatusInternalServerError:
		return domain.NewUnavailableError(service, msg)
	}

	// The generator rejected the request itself.
	return domain.NewValidationError("", msg)
}
