// Copyright 2026 AIGitCommit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package queue provides a priority-ordered, concurrency-capped
// request queue. Higher priority runs first; equal priority runs in
// submission order. Completing a task immediately admits the
// next-highest pending task.
package queue

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrCleared is returned to waiters rejected by Clear.
var ErrCleared = errors.New("queue: task rejected by clear")

// Queue is safe for concurrent use. All state transitions happen under
// one mutex; there is no unguarded shared state.
type Queue struct {
	mu      sync.Mutex
	limit   int
	active  int
	seq     uint64
	pending waiterHeap
}

// New creates a queue with the given concurrency limit.
func New(limit int) (*Queue, error) {
	if limit < 1 {
		return nil, fmt.Errorf("queue: concurrency limit must be at least 1, got %d", limit)
	}
	return &Queue{limit: limit}, nil
}

// Do runs fn under the queue's concurrency cap, waiting for admission
// at the given priority. It blocks the calling goroutine until fn has
// run, the task is rejected by Clear, or ctx is cancelled while
// waiting. fn's error is returned to this caller only; sibling tasks
// are unaffected.
func (q *Queue) Do(ctx context.Context, priority int, fn func(ctx context.Context) error) error {
	if fn == nil {
		return errors.New("queue: nil task")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	q.mu.Lock()
	// Pending is only non-empty while all slots are busy, so a free
	// slot here cannot overtake a queued task.
	if q.active < q.limit && q.pending.Len() == 0 {
		q.active++
		q.mu.Unlock()
		return q.run(ctx, fn)
	}

	w := &waiter{priority: priority, seq: q.seq, admit: make(chan error, 1)}
	q.seq++
	heap.Push(&q.pending, w)
	q.mu.Unlock()

	select {
	case err := <-w.admit:
		if err != nil {
			return err
		}
		return q.run(ctx, fn)
	case <-ctx.Done():
		q.mu.Lock()
		if !w.done {
			heap.Remove(&q.pending, w.index)
			w.done = true
			q.mu.Unlock()
			return ctx.Err()
		}
		q.mu.Unlock()
		// Admission raced with cancellation; the slot (or rejection)
		// is already ours and must be consumed.
		if err := <-w.admit; err != nil {
			return err
		}
		q.release()
		return ctx.Err()
	}
}

func (q *Queue) run(ctx context.Context, fn func(ctx context.Context) error) error {
	defer q.release()
	return fn(ctx)
}

// release frees a slot and admits pending waiters.
func (q *Queue) release() {
	q.mu.Lock()
	q.active--
	q.dispatchLocked()
	q.mu.Unlock()
}

// dispatchLocked admits the highest-priority pending waiters while
// slots are free. Caller holds q.mu.
func (q *Queue) dispatchLocked() {
	for q.active < q.limit && q.pending.Len() > 0 {
		w := heap.Pop(&q.pending).(*waiter)
		w.done = true
		q.active++
		w.admit <- nil
	}
}

// SetConcurrencyLimit changes the cap for subsequently admitted tasks.
// Raising the limit admits pending tasks immediately; lowering it
// never interrupts in-flight tasks.
func (q *Queue) SetConcurrencyLimit(limit int) error {
	if limit < 1 {
		return fmt.Errorf("queue: concurrency limit must be at least 1, got %d", limit)
	}
	q.mu.Lock()
	q.limit = limit
	q.dispatchLocked()
	q.mu.Unlock()
	return nil
}

// Clear rejects every pending task with ErrCleared and resets the
// queue length to zero. In-flight tasks are unaffected.
func (q *Queue) Clear() {
	q.mu.Lock()
	for q.pending.Len() > 0 {
		w := heap.Pop(&q.pending).(*waiter)
		w.done = true
		w.admit <- ErrCleared
	}
	q.mu.Unlock()
}

// QueueLength returns the number of pending (not yet started) tasks.
func (q *Queue) QueueLength() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending.Len()
}

// ActiveCount returns the number of currently running tasks.
func (q *Queue) ActiveCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.active
}

// ConcurrencyLimit returns the current cap.
func (q *Queue) ConcurrencyLimit() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.limit
}

// waiter is one queued submission.
type waiter struct {
	priority int
	seq      uint64
	index    int
	admit    chan error
	done     bool
}

// waiterHeap orders by priority descending, then enqueue sequence
// ascending (FIFO within a priority).
type waiterHeap []*waiter

func (h waiterHeap) Len() int { return len(h) }

func (h waiterHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority > h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h waiterHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *waiterHeap) Push(x any) {
	w := x.(*waiter)
	w.index = len(*h)
	*h = append(*h, w)
}

func (h *waiterHeap) Pop() any {
	old := *h
	n := len(old)
	w := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return w
}
