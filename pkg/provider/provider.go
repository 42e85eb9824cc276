// Package provider holds the single configured client for processes that need
// global access. Prefer passing a *client.Client explicitly; use the package
// level handle only at application entry points.
package provider

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/samvad-hq/items-fetcher/pkg/client"
	"github.com/samvad-hq/items-fetcher/pkg/clientconfig"
)

var (
	// ErrAlreadyInitialized is returned by a second Initialize without Reset.
	ErrAlreadyInitialized = errors.New("client has already been initialized: use Instance()")
	// ErrNotInitialized is returned by Instance before Initialize.
	ErrNotInitialized = errors.New("initialize the client provider first")
)

// Provider is a single-assignment holder for one client.
type Provider struct {
	mu       sync.Mutex
	instance atomic.Pointer[client.Client]
}

// New returns an empty Provider.
func New() *Provider { return &Provider{} }

// Initialize builds and stores the client. Concurrent callers construct at most
// one instance; every caller but the winner gets ErrAlreadyInitialized.
func (p *Provider) Initialize(cfg clientconfig.Configuration, opts ...client.Option) (*client.Client, error) {
	if p.instance.Load() != nil {
		return nil, ErrAlreadyInitialized
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.instance.Load() != nil {
		return nil, ErrAlreadyInitialized
	}
	c, err := client.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	p.instance.Store(c)
	return c, nil
}

// Instance returns the stored client.
func (p *Provider) Instance() (*client.Client, error) {
	if c := p.instance.Load(); c != nil {
		return c, nil
	}
	return nil, ErrNotInitialized
}

// Reset drops the stored client so Initialize can run again. Meant for tests.
func (p *Provider) Reset() {
	p.mu.Lock()
	p.instance.Store(nil)
	p.mu.Unlock()
}

var defaultProvider = New()

// Initialize configures the process-wide client.
func Initialize(cfg clientconfig.Configuration, opts ...client.Option) (*client.Client, error) {
	return defaultProvider.Initialize(cfg, opts...)
}

// Instance returns the process-wide client.
func Instance() (*client.Client, error) {
	return defaultProvider.Instance()
}

// Reset clears the process-wide client.
func Reset() {
	defaultProvider.Reset()
}
