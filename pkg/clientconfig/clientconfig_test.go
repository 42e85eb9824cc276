package clientconfig

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitizeBaseURL(t *testing.T) {
	cases := map[string]string{
		"fetch-hiring.s3.amazonaws.com":          "https://fetch-hiring.s3.amazonaws.com/",
		"fetch-hiring.s3.amazonaws.com/":         "https://fetch-hiring.s3.amazonaws.com/",
		"http://localhost:8080":                  "http://localhost:8080/",
		"https://fetch-hiring.s3.amazonaws.com/": "https://fetch-hiring.s3.amazonaws.com/",
		"  example.com/api  ":                    "https://example.com/api/",
	}
	for in, want := range cases {
		if got := SanitizeBaseURL(in); got != want {
			t.Errorf("SanitizeBaseURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeBaseURLIdempotent(t *testing.T) {
	inputs := []string{"a", "a/", "http://a", "https://a/b", "host:9000/x/", "ftp://x"}
	for _, in := range inputs {
		once := SanitizeBaseURL(in)
		if twice := SanitizeBaseURL(once); twice != once {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
		if !strings.HasSuffix(once, "/") {
			t.Errorf("%q lacks trailing slash", once)
		}
		if !strings.HasPrefix(once, "http://") && !strings.HasPrefix(once, "https://") {
			t.Errorf("%q lacks scheme", once)
		}
	}
}

func TestBuilderCreate(t *testing.T) {
	cfg, err := NewBuilder().SetBaseURL("fetch-hiring.s3.amazonaws.com").Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if cfg.ItemsURL() != "https://fetch-hiring.s3.amazonaws.com/hiring.json" {
		t.Fatalf("unexpected items url %s", cfg.ItemsURL())
	}
}

func TestBuilderMissingBaseURL(t *testing.T) {
	if _, err := NewBuilder().Create(); !errors.Is(err, ErrMissingBaseURL) {
		t.Fatalf("expected ErrMissingBaseURL, got %v", err)
	}
	if _, err := NewBuilder().SetBaseURL("   ").Create(); !errors.Is(err, ErrMissingBaseURL) {
		t.Fatalf("expected ErrMissingBaseURL for blank input, got %v", err)
	}
}

func TestWithBaseURLRederivesEndpoints(t *testing.T) {
	cfg, err := New("a.example")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	next, err := cfg.WithBaseURL("http://b.example")
	if err != nil {
		t.Fatalf("WithBaseURL: %v", err)
	}
	if next.ItemsURL() != "http://b.example/hiring.json" {
		t.Fatalf("stale endpoint %s", next.ItemsURL())
	}
	if cfg.ItemsURL() != "https://a.example/hiring.json" {
		t.Fatalf("original snapshot mutated: %s", cfg.ItemsURL())
	}
	if (Configuration{}).IsZero() != true || cfg.IsZero() {
		t.Fatalf("IsZero misreported")
	}
}
