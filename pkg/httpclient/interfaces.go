package httpclient

import "context"

// Request is the transport-native form of a single call.
// A nil Body sends no body at all; a non-nil empty Body sends a zero-length body.
type Request struct {
	Method      string
	URL         string
	Body        []byte
	ContentType string
}

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
// Do returns an error only when no response was received; cancelling ctx aborts the call.
type Client interface {
	Do(ctx context.Context, req Request) (Response, error)
}
