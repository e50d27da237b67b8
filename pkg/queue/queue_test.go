package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewRejectsBadLimit(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Error("expected error for limit 0")
	}
	if _, err := New(-3); err == nil {
		t.Error("expected error for negative limit")
	}
}

func TestConcurrencyNeverExceedsLimit(t *testing.T) {
	const limit = 3
	q, err := New(limit)
	if err != nil {
		t.Fatal(err)
	}

	var active, peak atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = q.Do(context.Background(), i%5, func(context.Context) error {
				cur := active.Add(1)
				for {
					p := peak.Load()
					if cur <= p || peak.CompareAndSwap(p, cur) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				active.Add(-1)
				return nil
			})
		}(i)
	}
	wg.Wait()

	if got := peak.Load(); got > limit {
		t.Errorf("peak concurrency %d exceeded limit %d", got, limit)
	}
	if q.ActiveCount() != 0 || q.QueueLength() != 0 {
		t.Errorf("queue not drained: active=%d pending=%d", q.ActiveCount(), q.QueueLength())
	}
}

func TestPriorityOrdering(t *testing.T) {
	q, _ := New(1)

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = q.Do(context.Background(), 0, func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup

	// Enqueue low priority first, then high: high must still run first.
	priorities := []int{1, 5, 3, 10}
	for i, p := range priorities {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = q.Do(context.Background(), p, func(context.Context) error {
				mu.Lock()
				order = append(order, p)
				mu.Unlock()
				return nil
			})
		}()
		waitForQueueLength(t, q, i+1)
	}

	close(release)
	wg.Wait()

	want := []int{10, 5, 3, 1}
	for i, p := range want {
		if order[i] != p {
			t.Fatalf("execution order %v, want %v", order, want)
		}
	}
}

func TestFIFOWithinPriority(t *testing.T) {
	q, _ := New(1)

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = q.Do(context.Background(), 0, func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = q.Do(context.Background(), 7, func(context.Context) error {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				return nil
			})
		}()
		waitForQueueLength(t, q, i+1)
	}

	close(release)
	wg.Wait()

	for i := range order {
		if order[i] != i {
			t.Fatalf("equal-priority order %v, want FIFO", order)
		}
	}
}

func TestClearRejectsPendingOnly(t *testing.T) {
	q, _ := New(1)

	release := make(chan struct{})
	started := make(chan struct{})
	inFlightDone := make(chan error, 1)
	go func() {
		inFlightDone <- q.Do(context.Background(), 0, func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	var rejected atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := q.Do(context.Background(), 1, func(context.Context) error {
				return nil
			}); errors.Is(err, ErrCleared) {
				rejected.Add(1)
			}
		}()
	}
	waitForQueueLength(t, q, 4)

	q.Clear()
	wg.Wait()

	if got := rejected.Load(); got != 4 {
		t.Errorf("rejected %d pending tasks, want 4", got)
	}
	if q.QueueLength() != 0 {
		t.Errorf("queue length after clear = %d, want 0", q.QueueLength())
	}

	// The in-flight task is unaffected.
	close(release)
	if err := <-inFlightDone; err != nil {
		t.Errorf("in-flight task failed after clear: %v", err)
	}
}

func TestSetConcurrencyLimit(t *testing.T) {
	q, _ := New(1)

	if err := q.SetConcurrencyLimit(0); err == nil {
		t.Error("expected error for limit 0")
	}

	release := make(chan struct{})
	var started atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = q.Do(context.Background(), 0, func(context.Context) error {
				started.Add(1)
				<-release
				return nil
			})
		}()
	}

	waitFor(t, func() bool { return started.Load() == 1 && q.QueueLength() == 2 })

	// Raising the limit admits pending tasks immediately.
	if err := q.SetConcurrencyLimit(3); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return started.Load() == 3 })

	close(release)
	wg.Wait()
}

func TestTaskFailureIsIsolated(t *testing.T) {
	q, _ := New(2)

	boom := errors.New("task exploded")
	var wg sync.WaitGroup
	results := make([]error, 4)
	for i := 0; i < 4; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = q.Do(context.Background(), 0, func(context.Context) error {
				if i == 1 {
					return boom
				}
				return nil
			})
		}()
	}
	wg.Wait()

	for i, err := range results {
		if i == 1 {
			if !errors.Is(err, boom) {
				t.Errorf("task 1 error = %v, want boom", err)
			}
		} else if err != nil {
			t.Errorf("task %d unexpectedly failed: %v", i, err)
		}
	}
}

func TestDoNilTask(t *testing.T) {
	q, _ := New(1)
	if err := q.Do(context.Background(), 0, nil); err == nil {
		t.Error("expected error for nil task")
	}
}

func TestDoCancelledWhileWaiting(t *testing.T) {
	q, _ := New(1)

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = q.Do(context.Background(), 0, func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- q.Do(ctx, 0, func(context.Context) error { return nil })
	}()
	waitForQueueLength(t, q, 1)

	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if q.QueueLength() != 0 {
		t.Errorf("cancelled waiter still pending: %d", q.QueueLength())
	}
	close(release)
}

func waitForQueueLength(t *testing.T, q *Queue, n int) {
	t.Helper()
	waitFor(t, func() bool { return q.QueueLength() >= n })
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}
