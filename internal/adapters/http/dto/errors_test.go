package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/zenquote/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, nil)

	return c, w
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(ErrorCodeNotFound, "bookmark not found")

	assert.Equal(t, ErrorCodeNotFound, resp.Error.Code)
	assert.Equal(t, "bookmark not found", resp.Error.Message)
	assert.Nil(t, resp.Error.Details)
	assert.Empty(t, resp.TraceID)
}

func TestNewErrorResponseWithDetails(t *testing.T) {
	details := map[string]string{"category": "unknown category"}

	resp := NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed", details)

	assert.Equal(t, details, resp.Error.Details)

	b, err := json.Marshal(resp.WithTraceID("abc"))
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"error":{"code":"VALIDATION_ERROR","message":"request validation failed","details":{"category":"unknown category"}},"traceId":"abc"}`,
		string(b))
}

func TestWithTraceID(t *testing.T) {
	resp := NewErrorResponse(ErrorCodeInternal, "boom")

	got := resp.WithTraceID("trace-1")

	assert.Same(t, resp, got)
	assert.Equal(t, "trace-1", got.TraceID)
}

func TestHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeBadRequest, http.StatusBadRequest},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeTimeout, http.StatusServiceUnavailable},
		{ErrorCodeInternal, http.StatusInternalServerError},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromCode(tt.code))
		})
	}
}

func TestGetTraceID(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*gin.Context)
		want  string
	}{
		{
			name:  "trace ID in context",
			setup: func(c *gin.Context) { c.Set("trace_id", "context-trace-123") },
			want:  "context-trace-123",
		},
		{
			name:  "request ID header",
			setup: func(c *gin.Context) { c.Request.Header.Set("X-Request-ID", "header-456") },
			want:  "header-456",
		},
		{
			name: "context takes precedence",
			setup: func(c *gin.Context) {
				c.Set("trace_id", "context-trace-123")
				c.Request.Header.Set("X-Request-ID", "header-456")
			},
			want: "context-trace-123",
		},
		{
			name:  "nothing set",
			setup: func(*gin.Context) {},
			want:  "",
		},
		{
			name:  "wrong type in context",
			setup: func(c *gin.Context) { c.Set("trace_id", 12345) },
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(http.MethodGet, "/")
			tt.setup(c)

			assert.Equal(t, tt.want, GetTraceID(c))
		})
	}
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
		wantDetails map[string]string
	}{
		{
			name:        "not found",
			err:         domain.NewNotFoundError("bookmark", "123"),
			wantStatus:  http.StatusNotFound,
			wantCode:    ErrorCodeNotFound,
			wantMessage: "bookmark",
		},
		{
			name:        "validation",
			err:         domain.NewValidationError("category", "unknown category"),
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrorCodeValidation,
			wantMessage: "category",
			wantDetails: map[string]string{"category": "unknown category"},
		},
		{
			name:        "wrapped validation",
			err:         fmt.Errorf("toggling: %w", domain.NewValidationError("quote", "no quote is loaded")),
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrorCodeValidation,
			wantMessage: "no quote is loaded",
			wantDetails: map[string]string{"quote": "no quote is loaded"},
		},
		{
			name:        "unavailable hides the cause",
			err:         domain.NewUnavailableError("clipboard", "xclip not installed"),
			wantStatus:  http.StatusServiceUnavailable,
			wantCode:    ErrorCodeUnavailable,
			wantMessage: "temporarily unavailable",
		},
		{
			name:        "unknown error",
			err:         errors.New("disk full"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    ErrorCodeInternal,
			wantMessage: "internal error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodGet, "/")
			c.Set("trace_id", "trace-"+tt.name)

			HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.True(t, c.IsAborted())

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Contains(t, resp.Error.Message, tt.wantMessage)
			assert.Equal(t, tt.wantDetails, resp.Error.Details)
			assert.Equal(t, "trace-"+tt.name, resp.TraceID)
			assert.NotContains(t, w.Body.String(), "xclip")
		})
	}
}

func TestHandleBindError(t *testing.T) {
	t.Run("validation failure has details", func(t *testing.T) {
		c, w := newTestContext(http.MethodPost, "/")

		HandleBindError(c, Validate(&ThemeRequest{Theme: "sepia"}))

		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, ErrorCodeValidation, resp.Error.Code)
		assert.Contains(t, resp.Error.Details, "theme")
	})

	t.Run("malformed body", func(t *testing.T) {
		c, w := newTestContext(http.MethodPost, "/")

		HandleBindError(c, fmt.Errorf("%w: unexpected EOF", ErrBinding))

		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, ErrorCodeBadRequest, resp.Error.Code)
		assert.Empty(t, resp.Error.Details)
	})
}
