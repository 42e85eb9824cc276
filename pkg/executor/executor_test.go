package executor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samvad-hq/items-fetcher/pkg/httpclient"
	"github.com/samvad-hq/items-fetcher/pkg/request"
)

type recorder struct {
	mu        sync.Mutex
	successes []ResponseItem
	failures  []ErrorItem
	done      chan struct{}
}

func newRecorder() *recorder { return &recorder{done: make(chan struct{}, 8)} }

func (r *recorder) OnSuccess(item ResponseItem) {
	r.mu.Lock()
	r.successes = append(r.successes, item)
	r.mu.Unlock()
	r.done <- struct{}{}
}

func (r *recorder) OnFailure(err ErrorItem) {
	r.mu.Lock()
	r.failures = append(r.failures, err)
	r.mu.Unlock()
	r.done <- struct{}{}
}

func (r *recorder) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.successes) + len(r.failures)
}

func (r *recorder) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for callback")
	}
}

func (r *recorder) expectSilence(t *testing.T) {
	t.Helper()
	select {
	case <-r.done:
		t.Fatalf("unexpected callback delivered")
	case <-time.After(50 * time.Millisecond):
	}
}

type fakeResponse struct {
	status int
	body   string
}

func (f fakeResponse) Body() []byte    { return []byte(f.body) }
func (f fakeResponse) StatusCode() int { return f.status }

// fakeClient blocks until release is closed; ignoreCtx makes it answer even after cancellation.
type fakeClient struct {
	started   chan struct{}
	release   chan struct{}
	ignoreCtx bool
	resp      fakeResponse
	calls     atomic.Int32
}

func newFakeClient(resp fakeResponse) *fakeClient {
	return &fakeClient{started: make(chan struct{}, 4), release: make(chan struct{}), resp: resp}
}

func (f *fakeClient) Do(ctx context.Context, _ httpclient.Request) (httpclient.Response, error) {
	f.calls.Add(1)
	f.started <- struct{}{}
	if f.ignoreCtx {
		<-f.release
		return f.resp, nil
	}
	select {
	case <-f.release:
		return f.resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func waitStarted(t *testing.T, f *fakeClient) {
	t.Helper()
	select {
	case <-f.started:
	case <-time.After(2 * time.Second):
		t.Fatalf("transport was not called")
	}
}

func getRequest(url string) request.Request {
	return request.New(url, request.GET, request.EmptyPayload{})
}

func TestExecuteDeliversStringBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1}]`))
	}))
	defer srv.Close()

	e := New(httpclient.NewRestyClient(time.Second))
	rec := newRecorder()
	e.Execute(context.Background(), getRequest(srv.URL), rec)
	rec.wait(t)

	if len(rec.successes) != 1 {
		t.Fatalf("expected one success, got %d (failures %v)", len(rec.successes), rec.failures)
	}
	item, ok := rec.successes[0].(StringResponse)
	if !ok {
		t.Fatalf("expected StringResponse, got %T", rec.successes[0])
	}
	if item.Body != `[{"id":1}]` || item.Status().Value != http.StatusOK {
		t.Fatalf("unexpected item: %+v", item)
	}
	if e.State() != StateSuccessful {
		t.Fatalf("unexpected state %s", e.State())
	}
	if e.cleanup.holdsResources() || e.cleanup.releases != 1 {
		t.Fatalf("resources not released exactly once: %+v", e.cleanup)
	}
}

func TestExecuteDeliversEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	e := New(httpclient.NewRestyClient(time.Second))
	rec := newRecorder()
	e.Execute(context.Background(), getRequest(srv.URL), rec)
	rec.wait(t)

	if len(rec.successes) != 1 {
		t.Fatalf("expected one success, got failures %v", rec.failures)
	}
	item, ok := rec.successes[0].(EmptyResponse)
	if !ok {
		t.Fatalf("expected EmptyResponse, got %T", rec.successes[0])
	}
	if item.Status().Value != http.StatusNoContent {
		t.Fatalf("unexpected status %v", item.Status())
	}
}

func TestExecuteReportsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad request"))
	}))
	defer srv.Close()

	e := New(httpclient.NewRestyClient(time.Second))
	rec := newRecorder()
	e.Execute(context.Background(), getRequest(srv.URL), rec)
	rec.wait(t)

	if len(rec.failures) != 1 {
		t.Fatalf("expected one failure, got successes %v", rec.successes)
	}
	var httpErr *HTTPError
	if !errors.As(rec.failures[0], &httpErr) {
		t.Fatalf("expected HTTPError, got %T", rec.failures[0])
	}
	if httpErr.Status.Value != http.StatusBadRequest {
		t.Fatalf("unexpected status %v", httpErr.Status)
	}
	var bodyErr *BodyError
	if !errors.As(httpErr, &bodyErr) || bodyErr.Body != "bad request" {
		t.Fatalf("unexpected cause %v", httpErr.Err)
	}
	if st, ok := StatusOf(rec.failures[0]); !ok || st.Value != http.StatusBadRequest {
		t.Fatalf("StatusOf = %v, %v", st, ok)
	}
	if e.State() != StateFailed {
		t.Fatalf("unexpected state %s", e.State())
	}
}

func TestExecuteReportsConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	e := New(httpclient.NewRestyClient(time.Second))
	rec := newRecorder()
	e.Execute(context.Background(), getRequest(url), rec)
	rec.wait(t)

	if len(rec.failures) != 1 {
		t.Fatalf("expected one failure")
	}
	var generic *GenericError
	if !errors.As(rec.failures[0], &generic) {
		t.Fatalf("expected GenericError, got %T", rec.failures[0])
	}
	if _, ok := StatusOf(rec.failures[0]); ok {
		t.Fatalf("generic errors carry no status")
	}
	if e.State() != StateFailed {
		t.Fatalf("unexpected state %s", e.State())
	}
}

func TestExecuteRejectsEmptyURLWithoutTransport(t *testing.T) {
	client := newFakeClient(fakeResponse{status: 200})
	e := New(client)
	rec := newRecorder()

	e.Execute(context.Background(), getRequest(""), rec)

	if rec.total() != 1 {
		t.Fatalf("expected synchronous failure")
	}
	if !errors.Is(rec.failures[0], ErrEmptyURL) {
		t.Fatalf("unexpected error %v", rec.failures[0])
	}
	if client.calls.Load() != 0 {
		t.Fatalf("transport must not be contacted")
	}
	if e.State() != StateFailed {
		t.Fatalf("unexpected state %s", e.State())
	}
}

func TestCancelBeforeResponseSuppressesCallback(t *testing.T) {
	client := newFakeClient(fakeResponse{status: 200, body: "x"})
	e := New(client)
	rec := newRecorder()

	e.Execute(context.Background(), getRequest("https://example.com"), rec)
	waitStarted(t, client)
	e.Cancel()

	rec.expectSilence(t)
	if e.State() != StateCancelled {
		t.Fatalf("unexpected state %s", e.State())
	}
	if e.cleanup.holdsResources() {
		t.Fatalf("cancellation must release resources")
	}
}

func TestCancelWinsOverLateResponse(t *testing.T) {
	client := newFakeClient(fakeResponse{status: 200, body: "late"})
	client.ignoreCtx = true
	e := New(client)
	rec := newRecorder()

	e.Execute(context.Background(), getRequest("https://example.com"), rec)
	waitStarted(t, client)
	e.Cancel()
	close(client.release)

	rec.expectSilence(t)
	if e.State() != StateCancelled {
		t.Fatalf("unexpected state %s", e.State())
	}
}

func TestCancelAfterDeliveryIsNoop(t *testing.T) {
	client := newFakeClient(fakeResponse{status: 200, body: "ok"})
	close(client.release)
	e := New(client)
	rec := newRecorder()

	e.Execute(context.Background(), getRequest("https://example.com"), rec)
	rec.wait(t)
	e.Cancel()
	e.Cancel()

	if e.State() != StateSuccessful {
		t.Fatalf("cancel after delivery changed state to %s", e.State())
	}
}

func TestParentContextCancellationSuppressesCallback(t *testing.T) {
	client := newFakeClient(fakeResponse{status: 200})
	e := New(client)
	rec := newRecorder()
	ctx, cancel := context.WithCancel(context.Background())

	e.Execute(ctx, getRequest("https://example.com"), rec)
	waitStarted(t, client)
	cancel()

	rec.expectSilence(t)
	deadline := time.Now().Add(time.Second)
	for e.State() != StateCancelled && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if e.State() != StateCancelled {
		t.Fatalf("unexpected state %s", e.State())
	}
}

func TestExecuteSupersedesInFlightCall(t *testing.T) {
	client := newFakeClient(fakeResponse{status: 200, body: "second"})
	e := New(client)
	first, second := newRecorder(), newRecorder()

	e.Execute(context.Background(), getRequest("https://example.com/1"), first)
	waitStarted(t, client)
	e.Execute(context.Background(), getRequest("https://example.com/2"), second)
	waitStarted(t, client)
	close(client.release)

	second.wait(t)
	first.expectSilence(t)
	if second.total() != 1 {
		t.Fatalf("expected exactly one outcome for the second call")
	}
}

func TestDistinctExecutorsDeliverExactlyOnce(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1)%2 == 0 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("{}"))
	}))
	defer srv.Close()

	const n = 16
	transport := httpclient.NewRestyClient(2 * time.Second)
	recs := make([]*recorder, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		recs[i] = newRecorder()
		wg.Add(1)
		go func(rec *recorder) {
			defer wg.Done()
			New(transport).Execute(context.Background(), getRequest(srv.URL), rec)
		}(recs[i])
	}
	wg.Wait()

	for i, rec := range recs {
		rec.wait(t)
		rec.expectSilence(t)
		if rec.total() != 1 {
			t.Fatalf("executor %d delivered %d outcomes", i, rec.total())
		}
	}
}

func TestCallbackFuncsSkipsNil(t *testing.T) {
	var got ErrorItem
	cb := CallbackFuncs{Failure: func(err ErrorItem) { got = err }}
	cb.OnSuccess(EmptyResponse{})
	cb.OnFailure(&GenericError{Err: ErrEmptyURL})
	if got == nil {
		t.Fatalf("failure func not called")
	}
}
