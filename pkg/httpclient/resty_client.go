package httpclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout bounds each call when callers do not configure one.
const DefaultTimeout = 15 * time.Second

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a new RestyClient with the specified timeout.
func NewRestyClient(timeout time.Duration) *RestyClient {
	return &RestyClient{client: newRestyBaseClient(timeout)}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing the full resty API.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

func newRestyBaseClient(timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := resty.New()
	c.SetTimeout(timeout)
	return c
}

// Do performs the request with the method, URL, and body described by req.
func (r *RestyClient) Do(ctx context.Context, req Request) (Response, error) {
	rr := r.client.R().SetContext(ctx)
	if req.Body != nil {
		rr.SetBody(req.Body)
		if req.ContentType != "" {
			rr.SetHeader("Content-Type", req.ContentType)
		}
	}
	resp, err := rr.Execute(req.Method, req.URL)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte    { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int { return r.resp.StatusCode() }
