package provider

import (
	"errors"
	"sync"
	"testing"

	"github.com/samvad-hq/items-fetcher/pkg/client"
	"github.com/samvad-hq/items-fetcher/pkg/clientconfig"
)

func testConfig(t *testing.T) clientconfig.Configuration {
	t.Helper()
	cfg, err := clientconfig.New("example.com")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

func TestInstanceBeforeInitializeFails(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, err := Instance(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestInitializeTwiceFails(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	c, err := Initialize(testConfig(t))
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if _, err := Initialize(testConfig(t)); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("expected ErrAlreadyInitialized, got %v", err)
	}
	got, err := Instance()
	if err != nil || got != c {
		t.Fatalf("Instance returned %p, %v; want %p", got, err, c)
	}
}

func TestResetAllowsReinitialization(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	first, err := Initialize(testConfig(t))
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	Reset()
	second, err := Initialize(testConfig(t))
	if err != nil {
		t.Fatalf("Initialize after reset: %v", err)
	}
	if first == second {
		t.Fatalf("expected a new instance after reset")
	}
}

func TestInitializeRejectsZeroConfiguration(t *testing.T) {
	p := New()
	if _, err := p.Initialize(clientconfig.Configuration{}); !errors.Is(err, clientconfig.ErrMissingBaseURL) {
		t.Fatalf("expected ErrMissingBaseURL, got %v", err)
	}
	if _, err := p.Instance(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("failed initialization must not store an instance")
	}
}

func TestConcurrentInitializeBuildsOnce(t *testing.T) {
	p := New()
	cfg := testConfig(t)

	const n = 32
	var wg sync.WaitGroup
	results := make(chan *client.Client, n)
	failures := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := p.Initialize(cfg)
			if err != nil {
				failures <- err
				return
			}
			results <- c
		}()
	}
	wg.Wait()
	close(results)
	close(failures)

	if len(results) != 1 {
		t.Fatalf("expected exactly one successful initialize, got %d", len(results))
	}
	for err := range failures {
		if !errors.Is(err, ErrAlreadyInitialized) {
			t.Fatalf("unexpected error %v", err)
		}
	}
	winner := <-results
	if got, _ := p.Instance(); got != winner {
		t.Fatalf("stored instance differs from winner")
	}
}
