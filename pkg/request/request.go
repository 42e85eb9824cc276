// Package request describes a single outgoing HTTP call independently of the transport.
package request

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/samvad-hq/items-fetcher/pkg/httpclient"
)

// Method is one of the supported HTTP verbs.
type Method string

const (
	GET    Method = "GET"
	POST   Method = "POST"
	PUT    Method = "PUT"
	PATCH  Method = "PATCH"
	DELETE Method = "DELETE"
)

// ContentTypeJSON is the content type used for JSON string payloads.
const ContentTypeJSON = "application/json; charset=utf-8"

// Payload is the request body descriptor. Implementations: EmptyPayload, StringPayload.
// A nil Payload is distinct from EmptyPayload and yields no body at all.
type Payload interface {
	payload()
}

// EmptyPayload serializes to a zero-length body.
type EmptyPayload struct{}

// StringPayload carries a string body with an optional content type.
type StringPayload struct {
	ContentType string
	Value       string
}

func (EmptyPayload) payload()  {}
func (StringPayload) payload() {}

// JSONPayload wraps an already encoded JSON document.
func JSONPayload(doc string) StringPayload {
	return StringPayload{ContentType: ContentTypeJSON, Value: doc}
}

// Request is an immutable description of one HTTP call.
type Request struct {
	URL     string
	Method  Method
	Payload Payload
}

// New returns a request for url and method with the given payload.
func New(url string, method Method, payload Payload) Request {
	return Request{URL: url, Method: method, Payload: payload}
}

// Body is the encoded form of a payload.
type Body struct {
	Content     []byte
	ContentType string
}

// BuildBody encodes p. It returns nil for a nil payload.
func BuildBody(p Payload) *Body {
	switch v := p.(type) {
	case StringPayload:
		return &Body{Content: []byte(v.Value), ContentType: v.ContentType}
	case EmptyPayload:
		return &Body{Content: []byte{}}
	default:
		return nil
	}
}

// Transport converts r into the transport-native request.
// GET never carries a body. POST, PUT and PATCH always carry one, empty when no payload was given.
// DELETE carries a body only for a StringPayload.
func (r Request) Transport() (httpclient.Request, error) {
	if _, err := url.ParseRequestURI(r.URL); err != nil {
		return httpclient.Request{}, fmt.Errorf("invalid url %q: %w", r.URL, err)
	}

	out := httpclient.Request{URL: r.URL}
	body := BuildBody(r.Payload)

	switch Method(strings.ToUpper(string(r.Method))) {
	case GET:
		out.Method = string(GET)
	case POST, PUT, PATCH:
		out.Method = strings.ToUpper(string(r.Method))
		if body == nil {
			body = BuildBody(EmptyPayload{})
		}
		out.Body = body.Content
		out.ContentType = body.ContentType
	case DELETE:
		out.Method = string(DELETE)
		if _, ok := r.Payload.(StringPayload); ok {
			out.Body = body.Content
			out.ContentType = body.ContentType
		}
	default:
		return httpclient.Request{}, fmt.Errorf("unsupported http method %q", r.Method)
	}

	return out, nil
}
