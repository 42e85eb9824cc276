// Package executor issues single HTTP requests against a transport and reports
// exactly one outcome per request through a Callback.
package executor

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/samvad-hq/items-fetcher/pkg/httpclient"
	"github.com/samvad-hq/items-fetcher/pkg/httpstatus"
	"github.com/samvad-hq/items-fetcher/pkg/request"
)

// Callback receives the outcome of an executed request.
type Callback interface {
	OnSuccess(item ResponseItem)
	OnFailure(err ErrorItem)
}

// CallbackFuncs adapts a pair of functions to Callback. Nil functions are skipped.
type CallbackFuncs struct {
	Success func(ResponseItem)
	Failure func(ErrorItem)
}

func (f CallbackFuncs) OnSuccess(item ResponseItem) {
	if f.Success != nil {
		f.Success(item)
	}
}

func (f CallbackFuncs) OnFailure(err ErrorItem) {
	if f.Failure != nil {
		f.Failure(err)
	}
}

// RequestExecutor is the contract the client layer depends on.
type RequestExecutor interface {
	Execute(ctx context.Context, req request.Request, cb Callback)
	Cancel()
}

// Executor runs one logical request at a time. Each Execute dispatches a fresh
// transport call asynchronously; a call still in flight is cancelled first.
type Executor struct {
	client httpclient.Client
	log    Logger

	mu      sync.Mutex
	cleanup requestCleanup
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger used for lifecycle transitions.
func WithLogger(log Logger) Option {
	return func(e *Executor) { e.log = ensureLogger(log) }
}

// New builds an Executor on top of client. A nil client uses a resty transport.
func New(client httpclient.Client, opts ...Option) *Executor {
	if client == nil {
		client = httpclient.NewRestyClient(httpclient.DefaultTimeout)
	}
	e := &Executor{client: client, log: noopLogger{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the lifecycle state of the most recent request.
func (e *Executor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cleanup.state
}

// Execute sends req and reports its outcome to cb. Validation failures are
// reported synchronously without contacting the transport.
func (e *Executor) Execute(ctx context.Context, req request.Request, cb Callback) {
	if ctx == nil {
		ctx = context.Background()
	}

	e.mu.Lock()
	e.supersedeLocked()
	e.transitionLocked(StateOngoing, req.URL)
	e.cleanup.callback = cb

	if strings.TrimSpace(req.URL) == "" {
		e.failLocked(cb, &GenericError{Err: ErrEmptyURL}, req.URL)
		return
	}

	treq, err := req.Transport()
	if err != nil {
		e.failLocked(cb, &GenericError{Err: err}, req.URL)
		return
	}

	callCtx, cancel := context.WithCancel(ctx)
	c := &call{cancel: cancel, url: req.URL}
	e.cleanup.ongoing = c
	e.mu.Unlock()

	go e.run(callCtx, c, treq)
}

// Cancel aborts the in-flight call. It is a no-op when nothing is in flight,
// including after the outcome has been delivered.
func (e *Executor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cleanup.ongoing == nil || e.cleanup.state != StateOngoing {
		return
	}
	c := e.cleanup.ongoing
	c.cancel()
	e.transitionLocked(StateCancelled, c.url)
}

// failLocked reports an error detected before dispatch and releases e.mu.
func (e *Executor) failLocked(cb Callback, err ErrorItem, url string) {
	e.transitionLocked(StateFailed, url)
	e.mu.Unlock()
	if cb != nil {
		cb.OnFailure(err)
	}
}

func (e *Executor) supersedeLocked() {
	if e.cleanup.ongoing == nil || e.cleanup.state != StateOngoing {
		return
	}
	c := e.cleanup.ongoing
	c.cancel()
	e.transitionLocked(StateCancelled, c.url)
}

func (e *Executor) transitionLocked(to State, url string) {
	from := e.cleanup.state
	e.cleanup.onStateChanged(to)
	e.log.DebugObj("request state changed", "request_state", map[string]any{
		"from": from.String(),
		"to":   to.String(),
		"url":  redactURL(url),
	})
}

func (e *Executor) run(ctx context.Context, c *call, req httpclient.Request) {
	defer c.cancel()

	resp, err := e.client.Do(ctx, req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			e.complete(c, StateCancelled, nil)
			return
		}
		e.complete(c, StateFailed, func(cb Callback) {
			cb.OnFailure(&GenericError{Err: err})
		})
		return
	}

	status := httpstatus.FromCode(resp.StatusCode())
	body := resp.Body()
	if !status.IsSuccessful() {
		e.complete(c, StateFailed, func(cb Callback) {
			cb.OnFailure(&HTTPError{Status: status, Err: &BodyError{Body: string(body)}})
		})
		return
	}

	var item ResponseItem = EmptyResponse{StatusCode: status}
	if len(body) > 0 {
		item = StringResponse{StatusCode: status, Body: string(body)}
	}
	e.complete(c, StateSuccessful, func(cb Callback) {
		cb.OnSuccess(item)
	})
}

// complete moves c to a terminal state and delivers its outcome, unless another
// transition (Cancel or a superseding Execute) reached the call first.
func (e *Executor) complete(c *call, terminal State, deliver func(Callback)) {
	e.mu.Lock()
	if e.cleanup.ongoing != c || e.cleanup.state != StateOngoing {
		e.mu.Unlock()
		return
	}
	cb := e.cleanup.callback
	e.transitionLocked(terminal, c.url)
	e.mu.Unlock()

	if deliver != nil && cb != nil {
		deliver(cb)
	}
}
