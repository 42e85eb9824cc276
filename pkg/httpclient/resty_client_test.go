package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRestyClientDoPostsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("unexpected content type %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"a":1}` {
			t.Errorf("unexpected body %q", body)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("created"))
	}))
	defer srv.Close()

	client := NewRestyClient(2 * time.Second)
	resp, err := client.Do(context.Background(), Request{
		Method:      http.MethodPost,
		URL:         srv.URL,
		Body:        []byte(`{"a":1}`),
		ContentType: "application/json",
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.StatusCode() != http.StatusCreated {
		t.Fatalf("unexpected status %d", resp.StatusCode())
	}
	if string(resp.Body()) != "created" {
		t.Fatalf("unexpected body %q", resp.Body())
	}
}

func TestRestyClientDoReturnsNon2xxAsResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	resp, err := NewRestyClient(time.Second).Do(context.Background(), Request{Method: http.MethodGet, URL: srv.URL})
	if err != nil {
		t.Fatalf("non-2xx must not be a transport error: %v", err)
	}
	if resp.StatusCode() != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.StatusCode())
	}
}

func TestRestyClientDoConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	if _, err := NewRestyClient(time.Second).Do(context.Background(), Request{Method: http.MethodGet, URL: url}); err == nil {
		t.Fatalf("expected connection error")
	}
}
