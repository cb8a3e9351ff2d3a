package dataset

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Fetcher retrieves the raw shape and attribute payloads for one refresh.
type Fetcher interface {
	Fetch(ctx context.Context) (shp, dbf []byte, err error)
}

// Manager keeps a current Dataset and refreshes it in the background at a
// fixed interval. The active alert set changes continuously upstream, so a
// long-running server swaps in a fresh parse rather than serving a stale
// snapshot. Readers get the swap atomically via Current.
type Manager struct {
	fetcher  Fetcher
	interval time.Duration
	current  atomic.Pointer[Dataset]
	wg       sync.WaitGroup
}

func NewManager(fetcher Fetcher, interval time.Duration) *Manager {
	return &Manager{
		fetcher:  fetcher,
		interval: interval,
	}
}

// Start performs an initial refresh and launches the background poller.
func (m *Manager) Start(ctx context.Context) {
	m.refresh(ctx)

	m.wg.Add(1)
	go m.run(ctx)
}

func (m *Manager) run(ctx context.Context) {
	defer m.wg.Done()
	slog.Info("starting dataset refresher", "interval", m.interval)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("dataset refresher shutting down")
			return
		case <-ticker.C:
			m.refresh(ctx)
		}
	}
}

func (m *Manager) refresh(ctx context.Context) {
	slog.Debug("refreshing dataset")

	shp, dbf, err := m.fetcher.Fetch(ctx)
	if err != nil {
		slog.Error("dataset fetch failed", "error", err)
		return
	}

	ds, err := Parse(shp, dbf)
	if err != nil {
		// Keep serving the previous snapshot; a corrupt download must not
		// take down lookups.
		slog.Error("dataset parse failed", "error", err)
		return
	}

	m.current.Store(ds)
	slog.Info("dataset refreshed", "shapes", len(ds.Shapes))
}

// Current returns the latest snapshot, or nil before the first successful
// refresh.
func (m *Manager) Current() *Dataset {
	return m.current.Load()
}

func (m *Manager) Stop() {
	m.wg.Wait()
	slog.Info("dataset manager stopped")
}
