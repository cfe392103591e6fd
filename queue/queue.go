/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package queue implements the row repository: bounded and unbounded
// inter-task FIFOs and named in-memory sink queues. It generalizes the
// teacher's utils/queue ring buffer (head/tail/count under atomics) from a
// fixed float64 payload to an arbitrary row payload guarded by a mutex,
// since rows are not fixed-width and the hot path here is throughput, not
// lock-free single-float push/pop.
package queue

import (
	"sync"
	"time"

	"github.com/springsql/springsql/errs"
)

// Metrics is the in-queue metrics delta a Collect leaf attributes to
// itself on every run, per spec.md §4.2.
type Metrics struct {
	RowsConsumed  int64
	BytesConsumed int64
}

// Row is the minimal payload contract the queue stores; row.Row and
// row.Tuple both satisfy it trivially, so this package does not need to
// import package row.
type Row interface{}

// pollInterval is how often a blocked Push re-checks for free space. It is
// deliberately the same cadence as the host's pop poll (spec.md §4.4/§6).
const pollInterval = 10 * time.Millisecond

// FIFO is one directed stream-to-task edge's inter-task queue, or a named
// in-memory sink queue. A zero/negative bound means unbounded.
type FIFO struct {
	mu     sync.Mutex
	items  []Row
	bound  int
	closed bool
}

// NewFIFO builds a queue. bound <= 0 means unbounded.
func NewFIFO(bound int) *FIFO {
	return &FIFO{bound: bound}
}

// Push appends a row. If the queue is bounded and full, Push polls every
// 10ms for space until budget elapses, at which point it returns
// errs.Unavailable so the calling task can yield and let the scheduler
// report back-pressure rather than block the worker indefinitely.
func (f *FIFO) Push(r Row, budget time.Duration) error {
	deadline := time.Now().Add(budget)
	for {
		f.mu.Lock()
		if f.closed {
			f.mu.Unlock()
			return errs.New(errs.Unavailable, "queue closed")
		}
		if f.bound <= 0 || len(f.items) < f.bound {
			f.items = append(f.items, r)
			f.mu.Unlock()
			return nil
		}
		f.mu.Unlock()

		if budget <= 0 || time.Now().After(deadline) {
			return errs.New(errs.Unavailable, "inter-task queue full: back-pressure budget exhausted")
		}
		time.Sleep(pollInterval)
	}
}

// Pop removes and returns the oldest row, or ok=false if empty. Pop never
// blocks: a Collect leaf returning "no work" on an empty queue is the
// scheduler's back-pressure signal, not the queue's.
func (f *FIFO) Pop() (Row, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.items) == 0 {
		return nil, false
	}
	r := f.items[0]
	f.items = f.items[1:]
	return r, true
}

// Depth returns the current queue length.
func (f *FIFO) Depth() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// Close marks the queue closed. Subsequent Push calls fail immediately.
func (f *FIFO) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}
