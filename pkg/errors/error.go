package errors

import (
	"context"
	"fmt"
	"net/http"

	"github.com/attio/attio-mcp-server/pkg/utils"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AttioAPIError wraps an error surfaced by the downstream Attio API. The
// pipeline treats these as opaque: the message and underlying error are
// passed through to the envelope unchanged, never retried.
type AttioAPIError struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
	Err        error  `json:"-"`
}

func newAttioAPIError(message string, statusCode int, err error) *AttioAPIError {
	return &AttioAPIError{
		Message:    message,
		StatusCode: statusCode,
		Err:        err,
	}
}

func (e *AttioAPIError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Errorf("%s: %w", e.Message, e.Err).Error()
}

func (e *AttioAPIError) Unwrap() error {
	return e.Err
}

type attioErrorKey struct{}

type attioCtxErrors struct {
	api []*AttioAPIError
}

// ContextWithAttioErrors updates or creates a context with a pointer to Attio
// error information so middleware can observe downstream failures after the
// call completes.
func ContextWithAttioErrors(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if val, ok := ctx.Value(attioErrorKey{}).(*attioCtxErrors); ok {
		val.api = []*AttioAPIError{}
	} else {
		ctx = context.WithValue(ctx, attioErrorKey{}, &attioCtxErrors{})
	}
	return ctx
}

// GetAttioAPIErrors retrieves the downstream errors recorded on the context.
func GetAttioAPIErrors(ctx context.Context) ([]*AttioAPIError, error) {
	if val, ok := ctx.Value(attioErrorKey{}).(*attioCtxErrors); ok {
		return val.api, nil
	}
	return nil, fmt.Errorf("context does not contain attio error state")
}

func addAttioAPIErrorToContext(ctx context.Context, err *AttioAPIError) {
	if val, ok := ctx.Value(attioErrorKey{}).(*attioCtxErrors); ok {
		val.api = append(val.api, err)
	}
}

// NewAttioAPIErrorResponse converts a downstream error into an error envelope
// and retains it on the context for observability. It never alters the error
// message: actionable detail belongs to the handler that produced it.
func NewAttioAPIErrorResponse(ctx context.Context, message string, statusCode int, err error) *mcp.CallToolResult {
	apiErr := newAttioAPIError(message, statusCode, err)
	if ctx != nil {
		addAttioAPIErrorToContext(ctx, apiErr)
	}
	if err == nil {
		return utils.NewToolResultError(message)
	}
	return utils.NewToolResultErrorFromErr(message, err)
}

// NewAttioAPIStatusErrorResponse handles calls that returned without a
// transport error but with an unexpected HTTP status. A synthetic error is
// built from the status and body so the envelope still names the cause.
func NewAttioAPIStatusErrorResponse(ctx context.Context, message string, statusCode int, body []byte) *mcp.CallToolResult {
	err := fmt.Errorf("unexpected status %d (%s): %s", statusCode, http.StatusText(statusCode), string(body))
	return NewAttioAPIErrorResponse(ctx, message, statusCode, err)
}
