// Package client exposes the typed items operation on top of the request executor.
package client

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/samvad-hq/items-fetcher/pkg/clientconfig"
	"github.com/samvad-hq/items-fetcher/pkg/executor"
	"github.com/samvad-hq/items-fetcher/pkg/httpclient"
	"github.com/samvad-hq/items-fetcher/pkg/httpstatus"
	"github.com/samvad-hq/items-fetcher/pkg/items"
	"github.com/samvad-hq/items-fetcher/pkg/request"
)

var errUnknownKind = errors.New("unknown response kind")

// ItemsFetcher fetches the items collection.
type ItemsFetcher interface {
	FetchItems(ctx context.Context) (items.Collection, error)
}

// ConfigurationHolder exposes and replaces the active configuration.
type ConfigurationHolder interface {
	Configuration() clientconfig.Configuration
	UpdateConfiguration(cfg clientconfig.Configuration)
}

// API is the surface consumers depend on.
type API interface {
	ItemsFetcher
	ConfigurationHolder
}

// Client composes request building, execution and classification.
type Client struct {
	config      atomic.Pointer[clientconfig.Configuration]
	newExecutor func() executor.RequestExecutor
	dispatcher  Dispatcher
}

var _ API = (*Client)(nil)

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	transport   httpclient.Client
	log         executor.Logger
	newExecutor func() executor.RequestExecutor
	dispatcher  Dispatcher
}

// WithTransport sets the transport used by the default executors.
func WithTransport(t httpclient.Client) Option {
	return func(o *clientOptions) { o.transport = t }
}

// WithLogger sets the logger handed to the default executors.
func WithLogger(log executor.Logger) Option {
	return func(o *clientOptions) { o.log = log }
}

// WithExecutorFactory replaces executor construction; one executor is requested per fetch.
func WithExecutorFactory(fn func() executor.RequestExecutor) Option {
	return func(o *clientOptions) { o.newExecutor = fn }
}

// WithDispatcher sets the delivery context for outcomes.
func WithDispatcher(d Dispatcher) Option {
	return func(o *clientOptions) { o.dispatcher = d }
}

// New builds a Client for cfg.
func New(cfg clientconfig.Configuration, opts ...Option) (*Client, error) {
	if cfg.IsZero() {
		return nil, clientconfig.ErrMissingBaseURL
	}

	o := clientOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.transport == nil {
		o.transport = httpclient.NewRestyClient(httpclient.DefaultTimeout)
	}
	if o.newExecutor == nil {
		transport, log := o.transport, o.log
		o.newExecutor = func() executor.RequestExecutor {
			return executor.New(transport, executor.WithLogger(log))
		}
	}
	if o.dispatcher == nil {
		o.dispatcher = &SerialDispatcher{}
	}

	c := &Client{newExecutor: o.newExecutor, dispatcher: o.dispatcher}
	c.config.Store(&cfg)
	return c, nil
}

// Configuration returns the active configuration snapshot.
func (c *Client) Configuration() clientconfig.Configuration {
	return *c.config.Load()
}

// UpdateConfiguration swaps the active snapshot. Requests already built keep
// their original endpoint. A zero configuration is ignored.
func (c *Client) UpdateConfiguration(cfg clientconfig.Configuration) {
	if cfg.IsZero() {
		return
	}
	c.config.Store(&cfg)
}

type fetchResult struct {
	items items.Collection
	err   error
}

// FetchItems issues a GET for the items endpoint and waits for its single outcome.
// HTTP failures surface as *executor.HTTPError; transport and decode failures as
// *executor.GenericError. Cancelling ctx aborts the request and returns ctx.Err().
func (c *Client) FetchItems(ctx context.Context) (items.Collection, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	req := request.New(c.Configuration().ItemsURL(), request.GET, request.EmptyPayload{})
	done := make(chan fetchResult, 1)

	exec := c.newExecutor()
	exec.Execute(ctx, req, NewHTTPCallback(items.EmptyItem, c.dispatcher, itemsCallback(done)))

	select {
	case res := <-done:
		return res.items, res.err
	case <-ctx.Done():
		exec.Cancel()
		return items.Collection{}, ctx.Err()
	}
}

type itemsCallback chan<- fetchResult

func (ch itemsCallback) OnItem(_ httpstatus.Code, item items.Item) {
	ch <- fetchResult{items: items.Collection{Items: []items.Item{item}}}
}

func (ch itemsCallback) OnList(_ httpstatus.Code, list []items.Item) {
	if len(list) == 0 {
		ch <- fetchResult{items: items.EmptyCollection}
		return
	}
	ch <- fetchResult{items: items.Collection{Items: list}}
}

func (ch itemsCallback) OnEmpty(httpstatus.Code) {
	ch <- fetchResult{items: items.EmptyCollection}
}

func (ch itemsCallback) OnFailure(err executor.ErrorItem) {
	ch <- fetchResult{err: err}
}
