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

package ioreader

import (
	"context"

	"github.com/springsql/springsql/errs"
	"github.com/springsql/springsql/ident"
	"github.com/springsql/springsql/queue"
	"github.com/springsql/springsql/row"
)

// MemQueueSink is not registered through RegisterSink/NewSink like the
// foreign-I/O sinks: CREATE SINK WRITER ... TYPE IN_MEMORY_QUEUE names an
// in-process queue, not a remote peer, so the engine constructs it
// directly against a *queue.Repository rather than going through the
// TYPE registry (there is no foreign connection for Start to dial).
type MemQueueSink struct {
	fifo *queue.FIFO
}

// NewMemQueueSink declares (or reuses) the named queue in repo and
// returns a sink writer bound to it.
func NewMemQueueSink(repo *queue.Repository, queueName string) (*MemQueueSink, error) {
	if fifo, err := repo.SinkQueue(queueName); err == nil {
		return &MemQueueSink{fifo: fifo}, nil
	}
	fifo, err := repo.DeclareSinkQueue(queueName)
	if err != nil {
		return nil, err
	}
	return &MemQueueSink{fifo: fifo}, nil
}

// Start is a no-op: the queue is already declared at construction time.
func (s *MemQueueSink) Start(ctx context.Context, opts ident.Options, cfg Config) error {
	return nil
}

// WriteRow pushes r onto the in-memory queue. In-memory sink queues are
// unbounded and lossless per spec.md §4.4, so this never reports
// back-pressure.
func (s *MemQueueSink) WriteRow(ctx context.Context, r *row.Row) error {
	if err := s.fifo.Push(r, 0); err != nil {
		return errs.Wrap(errs.Internal, err, "in-memory sink queue push failed unexpectedly")
	}
	return nil
}

// Close is a no-op: the queue outlives this writer and is drained by pop.
func (s *MemQueueSink) Close() error {
	return nil
}
