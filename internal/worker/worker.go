// Package worker runs lookup-history persistence off the request path so a
// slow disk never delays an alert response.
package worker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mr1hm/go-wx-alerts/internal/models"
)

type PersistFunc func(ctx context.Context, rec *models.LookupRecord) error

type Pool struct {
	numWorkers int
	jobs       chan *models.LookupRecord
	persist    PersistFunc
	wg         sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewPool(numWorkers int, bufferSize int, persist PersistFunc) *Pool {
	return &Pool{
		numWorkers: numWorkers,
		jobs:       make(chan *models.LookupRecord, bufferSize),
		persist:    persist,
	}
}

func (p *Pool) Start(ctx context.Context) {
	for i := 1; i <= p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case rec, ok := <-p.jobs:
			if !ok {
				return
			}
			if err := p.persist(ctx, rec); err != nil {
				slog.Error("error persisting lookup", "id", rec.ID, "error", err)
			}
		}
	}
}

// Submit queues a record without blocking; the record is dropped when the
// buffer is full or the pool has stopped. History is best-effort, lookups
// are not.
func (p *Pool) Submit(rec *models.LookupRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		slog.Warn("lookup history pool stopped, dropping record", "id", rec.ID)
		return
	}

	select {
	case p.jobs <- rec:
	default:
		slog.Warn("lookup history buffer full, dropping record", "id", rec.ID)
	}
}

func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()

	p.wg.Wait()
}
