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

package queue

import (
	"sync"
	"time"

	"github.com/springsql/springsql/errs"
)

// DefaultBound is the default inter-task queue bound referenced by
// spec.md §4.4 ("default bound configurable").
const DefaultBound = 4096

// Repository is the row repository: the medium through which pumps and
// sinks exchange rows. It owns one FIFO per directed stream-to-task edge
// plus the set of named in-memory sink queues created by
// `CREATE SINK WRITER ... TYPE IN_MEMORY_QUEUE`. All queues are
// multi-producer/multi-consumer safe, though the normal topology has one
// producer and one consumer per queue.
type Repository struct {
	mu         sync.RWMutex
	edges      map[string]*FIFO // keyed by edge name, e.g. "<streamName>"
	sinkQueues map[string]*FIFO // keyed by declared queue name
	bound      int
}

// NewRepository builds an empty repository using bound for every edge
// queue it creates on demand.
func NewRepository(bound int) *Repository {
	if bound <= 0 {
		bound = DefaultBound
	}
	return &Repository{
		edges:      make(map[string]*FIFO),
		sinkQueues: make(map[string]*FIFO),
		bound:      bound,
	}
}

// Edge returns (creating if absent) the inter-task queue for a named edge.
func (r *Repository) Edge(name string) *FIFO {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.edges[name]
	if !ok {
		f = NewFIFO(r.bound)
		r.edges[name] = f
	}
	return f
}

// DeclareSinkQueue registers a named in-memory sink queue, failing with
// errs.Sql if the name is already declared (the engine, not this call,
// is responsible for enforcing pipeline-wide name uniqueness; this guard
// only protects the repository's own map from a double-declare race).
func (r *Repository) DeclareSinkQueue(name string) (*FIFO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sinkQueues[name]; ok {
		return nil, errs.Newf(errs.Sql, "sink queue %q already declared", name)
	}
	f := NewFIFO(0) // in-memory sink queues are lossless/unbounded per spec.md §4.4
	r.sinkQueues[name] = f
	return f, nil
}

// SinkQueue returns a declared sink queue, or errs.Unavailable if undeclared.
func (r *Repository) SinkQueue(name string) (*FIFO, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.sinkQueues[name]
	if !ok {
		return nil, errs.Newf(errs.Unavailable, "queue %q is not declared", name)
	}
	return f, nil
}

// popPollInterval matches the host pop() polling cadence from spec.md §6.
const popPollInterval = 10 * time.Millisecond

// Pop blocks, polling every 10ms, until a row is available on the named
// queue, or ctx-like cancellation is signalled via stop.
func (r *Repository) Pop(name string, stop <-chan struct{}) (Row, error) {
	f, err := r.SinkQueue(name)
	if err != nil {
		return nil, err
	}
	for {
		if v, ok := f.Pop(); ok {
			return v, nil
		}
		select {
		case <-stop:
			return nil, errs.New(errs.Unavailable, "pop cancelled: engine is shutting down")
		case <-time.After(popPollInterval):
		}
	}
}

// PopNonBlocking returns immediately: the row if present, or ok=false.
func (r *Repository) PopNonBlocking(name string) (Row, bool, error) {
	f, err := r.SinkQueue(name)
	if err != nil {
		return nil, false, err
	}
	v, ok := f.Pop()
	return v, ok, nil
}
