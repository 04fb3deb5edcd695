package approvals

import (
	"context"
	"sync"
	"time"

	"expensedash/internal/backend"
)

// FetchFunc retrieves the current pending list from the backend.
type FetchFunc func(ctx context.Context) ([]backend.PendingExpense, error)

// Snapshot is one completed fetch. A failed fetch is a real snapshot too:
// the errored state replaces the loaded one until a retry succeeds.
type Snapshot struct {
	Expenses  []backend.PendingExpense
	Err       error
	FetchedAt time.Time
}

// Poller keeps the pending-approvals list fresh. Page loads call Refresh
// directly; a background loop refetches on a fixed interval. Fetches may
// overlap (a timer tick racing a page load); each one takes a monotonically
// increasing token and only the newest completed fetch becomes the visible
// snapshot, so a stale in-flight response can never overwrite a fresher one.
type Poller struct {
	fetch    FetchFunc
	interval time.Duration
	done     chan struct{}

	mu      sync.Mutex
	seq     uint64
	applied uint64
	snap    Snapshot
}

func NewPoller(fetch FetchFunc, interval time.Duration) *Poller {
	return &Poller{fetch: fetch, interval: interval, done: make(chan struct{})}
}

// Start launches the background refetch loop. The loop stops when ctx is
// cancelled; Wait blocks until it has fully wound down.
func (p *Poller) Start(ctx context.Context) {
	go func() {
		defer close(p.done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.Refresh(ctx)
			}
		}
	}()
}

// Wait blocks until the background loop started by Start has exited.
func (p *Poller) Wait() {
	<-p.done
}

// Refresh performs one fetch and returns the winning snapshot: the newest
// completed fetch overall, which is this one unless a younger fetch finished
// while ours was in flight.
func (p *Poller) Refresh(ctx context.Context) Snapshot {
	p.mu.Lock()
	p.seq++
	token := p.seq
	p.mu.Unlock()

	expenses, err := p.fetch(ctx)
	result := Snapshot{Expenses: expenses, Err: err, FetchedAt: time.Now()}

	p.mu.Lock()
	defer p.mu.Unlock()
	if token > p.applied {
		p.applied = token
		p.snap = result
	}
	return p.snap
}

// Snapshot returns the newest applied result without fetching.
func (p *Poller) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap
}
