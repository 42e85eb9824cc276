package executor

import (
	"errors"
	"fmt"

	"github.com/samvad-hq/items-fetcher/pkg/httpstatus"
)

// ErrEmptyURL is reported when a request is executed without a target url.
var ErrEmptyURL = errors.New("url cannot be null or empty")

// ResponseItem is the raw outcome of a completed 2xx call.
// Implementations: StringResponse, EmptyResponse.
type ResponseItem interface {
	Status() httpstatus.Code
	responseItem()
}

// StringResponse carries a non-empty response body.
type StringResponse struct {
	StatusCode httpstatus.Code
	Body       string
}

// EmptyResponse is a successful response with a zero-length body.
type EmptyResponse struct {
	StatusCode httpstatus.Code
}

func (r StringResponse) Status() httpstatus.Code { return r.StatusCode }
func (r EmptyResponse) Status() httpstatus.Code  { return r.StatusCode }
func (StringResponse) responseItem()             {}
func (EmptyResponse) responseItem()              {}

// ErrorItem is the failure outcome of a call.
// Implementations: *HTTPError, *GenericError.
type ErrorItem interface {
	error
	Unwrap() error
	errorItem()
}

// HTTPError reports a completed call whose status was outside the 2xx range.
type HTTPError struct {
	Status httpstatus.Code
	Err    error
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http status %s: %v", e.Status, e.Err)
}

func (e *HTTPError) Unwrap() error { return e.Err }
func (*HTTPError) errorItem()      {}

// GenericError reports a failure with no status available (validation, I/O, decoding).
type GenericError struct {
	Err error
}

func (e *GenericError) Error() string { return e.Err.Error() }
func (e *GenericError) Unwrap() error { return e.Err }
func (*GenericError) errorItem()      {}

// BodyError is the cause of an HTTPError; it holds the response body as an opaque diagnostic.
type BodyError struct {
	Body string
}

func (e *BodyError) Error() string {
	if e.Body == "" {
		return "<empty>"
	}
	return e.Body
}

// StatusOf returns the status carried by err when it wraps an HTTPError.
func StatusOf(err error) (httpstatus.Code, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status, true
	}
	return httpstatus.Code{}, false
}
