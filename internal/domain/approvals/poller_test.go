package approvals

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"expensedash/internal/backend"
)

func listWith(description string) []backend.PendingExpense {
	return []backend.PendingExpense{{ID: "1", Description: description}}
}

func TestRefreshAppliesResult(t *testing.T) {
	poller := NewPoller(func(ctx context.Context) ([]backend.PendingExpense, error) {
		return listWith("fresh"), nil
	}, time.Hour)

	snap := poller.Refresh(context.Background())
	require.NoError(t, snap.Err)
	require.Len(t, snap.Expenses, 1)
	require.Equal(t, "fresh", snap.Expenses[0].Description)
	require.Equal(t, "fresh", poller.Snapshot().Expenses[0].Description)
}

func TestRefreshKeepsErroredState(t *testing.T) {
	fetchErr := errors.New("backend down")
	calls := 0
	poller := NewPoller(func(ctx context.Context) ([]backend.PendingExpense, error) {
		calls++
		if calls == 1 {
			return listWith("old"), nil
		}
		return nil, fetchErr
	}, time.Hour)

	poller.Refresh(context.Background())
	snap := poller.Refresh(context.Background())
	require.ErrorIs(t, snap.Err, fetchErr)
	require.Nil(t, snap.Expenses)
}

func TestStaleResponseLosesToNewerFetch(t *testing.T) {
	release := make(chan struct{})
	var starts sync.WaitGroup
	starts.Add(1)

	first := true
	var mu sync.Mutex
	poller := NewPoller(func(ctx context.Context) ([]backend.PendingExpense, error) {
		mu.Lock()
		slow := first
		first = false
		mu.Unlock()
		if slow {
			starts.Done()
			<-release // holds the older fetch in flight
			return listWith("stale"), nil
		}
		return listWith("newer"), nil
	}, time.Hour)

	var slowSnap Snapshot
	var finished sync.WaitGroup
	finished.Add(1)
	go func() {
		defer finished.Done()
		slowSnap = poller.Refresh(context.Background())
	}()

	starts.Wait()
	fastSnap := poller.Refresh(context.Background())
	require.Equal(t, "newer", fastSnap.Expenses[0].Description)

	close(release)
	finished.Wait()

	// The older fetch completed last but must not win.
	require.Equal(t, "newer", slowSnap.Expenses[0].Description)
	require.Equal(t, "newer", poller.Snapshot().Expenses[0].Description)
}

func TestStartStopsOnContextCancel(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	poller := NewPoller(func(ctx context.Context) ([]backend.PendingExpense, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return nil, nil
	}, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	poller.Start(ctx)
	time.Sleep(30 * time.Millisecond)
	cancel()
	poller.Wait()

	mu.Lock()
	after := calls
	mu.Unlock()
	require.Greater(t, after, 0)

	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, after, calls, "poller must not tick after cancellation")
}
