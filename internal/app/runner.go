package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/samvad-hq/items-fetcher/internal/config"
	"github.com/samvad-hq/items-fetcher/internal/logger"
	"github.com/samvad-hq/items-fetcher/internal/storage"
	"github.com/samvad-hq/items-fetcher/pkg/client"
	"github.com/samvad-hq/items-fetcher/pkg/items"
	"github.com/samvad-hq/items-fetcher/pkg/publishers"
)

// Runner fetches the hiring list, caches the last good snapshot, renders it and
// forwards it to the configured publishers. With a refresh interval it keeps
// fetching until the context is cancelled.
type Runner struct {
	api      client.API
	fanout   *publishers.Fanout
	store    storage.Store
	out      io.Writer
	format   string
	interval time.Duration
	log      logger.Logger
}

// Option customizes a Runner.
type Option func(*Runner)

// WithOutput redirects rendered snapshots. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.out = w }
}

// WithStore replaces the store built from configuration.
func WithStore(s storage.Store) Option {
	return func(r *Runner) { r.store = s }
}

// WithFanout replaces the publishers built from configuration.
func WithFanout(f *publishers.Fanout) Option {
	return func(r *Runner) { r.fanout = f }
}

// NewRunner builds the runtime from configuration. Stores and publishers given as
// options are used instead of the configured ones.
func NewRunner(ctx context.Context, cfg *config.Config, api client.API, log logger.Logger, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if api == nil {
		return nil, fmt.Errorf("items client must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	r := &Runner{
		api:      api,
		out:      os.Stdout,
		format:   strings.ToLower(cfg.OutputFormat),
		interval: cfg.RefreshInterval,
		log:      log,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.fanout == nil {
		fanout, err := buildFanout(ctx, cfg.PublishersFile, log)
		if err != nil {
			return nil, err
		}
		r.fanout = fanout
	}

	if r.store == nil {
		store, err := storage.NewStore(cfg.StorageType, cfg.StoragePath, storage.Options{SnapshotTTL: cfg.SnapshotTTL})
		if err != nil {
			_ = r.fanout.Close()
			return nil, fmt.Errorf("init storage: %w", err)
		}
		r.store = store
		log.InfoObj("storage initialized", "storage_config", map[string]any{
			"type":                 cfg.StorageType,
			"path":                 cfg.StoragePath,
			"snapshot_ttl_seconds": int(cfg.SnapshotTTL.Seconds()),
		})
	}

	return r, nil
}

// buildFanout loads publishers from path. An empty path yields no publishers.
func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	if strings.TrimSpace(path) == "" {
		return publishers.NewFanout(nil), nil
	}

	reg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := reg.Enabled()

	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{"id": pubCfg.ID, "type": pubCfg.Type})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubs), nil
}

// Run fetches once, or on every refresh interval until ctx is cancelled.
// A single fetch returns its error; the refresh loop logs failures and keeps going.
func (r *Runner) Run(ctx context.Context) error {
	if r == nil || r.api == nil {
		return fmt.Errorf("runner is not initialized")
	}
	defer r.close()

	if r.interval <= 0 {
		return r.runOnce(ctx)
	}

	r.log.InfoObj("refresh loop starting", "runner_state", map[string]any{
		"endpoint":         r.api.Configuration().ItemsURL(),
		"publishers_count": r.fanout.Size(),
		"refresh_interval": r.interval.String(),
	})

	if err := r.runOnce(ctx); err != nil && ctx.Err() == nil {
		r.log.ErrorObj("initial fetch failed", "error", err)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.InfoObj("refresh loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := r.runOnce(ctx); err != nil && ctx.Err() == nil {
				r.log.ErrorObj("scheduled fetch failed", "error", err)
			}
		}
	}
}

// runOnce performs one fetch, falling back to the cached snapshot on failure.
func (r *Runner) runOnce(ctx context.Context) error {
	start := time.Now()
	endpoint := r.api.Configuration().ItemsURL()

	collection, stale, err := r.fetch(ctx, endpoint)
	if err != nil {
		return err
	}

	r.log.InfoObj("fetch completed", "fetch_meta", map[string]any{
		"endpoint":   endpoint,
		"count":      len(collection.Items),
		"stale":      stale,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	evt := publishers.NewEvent(endpoint, collection, stale)
	if err := render(r.out, r.format, evt); err != nil {
		return fmt.Errorf("render items: %w", err)
	}

	if r.fanout.Size() == 0 {
		return nil
	}
	delivered, err := r.fanout.Publish(ctx, evt)
	r.log.InfoObj("snapshot published", "publish_meta", map[string]any{
		"event_id":  evt.ID,
		"delivered": delivered,
		"total":     r.fanout.Size(),
	})
	if err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}
	return nil
}

func (r *Runner) fetch(ctx context.Context, endpoint string) (items.Collection, bool, error) {
	collection, err := r.api.FetchItems(ctx)
	if err == nil {
		if saveErr := r.store.SaveSnapshot(endpoint, collection); saveErr != nil {
			r.log.WarnObj("snapshot save failed", "error", saveErr)
		}
		return collection, false, nil
	}
	if errors.Is(err, context.Canceled) {
		return items.EmptyCollection, false, err
	}

	snap, found, loadErr := r.store.LoadSnapshot(endpoint)
	if loadErr != nil {
		return items.EmptyCollection, false, errors.Join(fmt.Errorf("fetch items: %w", err), loadErr)
	}
	if !found {
		return items.EmptyCollection, false, fmt.Errorf("fetch items: %w", err)
	}

	r.log.WarnObj("fetch failed; serving cached snapshot", "fallback_meta", map[string]any{
		"endpoint": endpoint,
		"saved_at": snap.SavedAt,
		"error":    err.Error(),
	})
	return snap.Items, true, nil
}

// close releases the store and publishers, logging any errors encountered.
func (r *Runner) close() {
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			r.log.ErrorObj("storage close failed", "error", err)
		}
	}
	if err := r.fanout.Close(); err != nil {
		r.log.ErrorObj("publishers close failed", "error", err)
	}
}
