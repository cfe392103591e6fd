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

package task

import (
	"context"

	"github.com/springsql/springsql/errs"
	"github.com/springsql/springsql/ioreader"
	"github.com/springsql/springsql/logger"
	"github.com/springsql/springsql/queue"
	"github.com/springsql/springsql/row"
)

// Sink is the task wrapping one sink-writer edge: it pops one row per
// tick from its upstream stream's inter-task queue and writes it to the
// foreign/in-memory sink.
type Sink struct {
	name     string
	writer   ioreader.SinkWriter
	upstream *queue.FIFO
	bo       backoff
}

// NewSink builds a Sink task.
func NewSink(name string, writer ioreader.SinkWriter, upstream *queue.FIFO) *Sink {
	return &Sink{name: name, writer: writer, upstream: upstream}
}

func (t *Sink) Name() string { return t.name }
func (t *Sink) Kind() Kind   { return SinkKind }

func (t *Sink) UpstreamDepth() int   { return t.upstream.Depth() }
func (t *Sink) DownstreamDepth() int { return 0 } // foreign I/O has no internal queue depth

// Run pops one row and writes it to the sink. Foreign-I/O errors are
// logged, counted, and retried with bounded exponential backoff; the
// failed row is pushed back onto the tail of the upstream queue, so it
// may be written after rows that arrived later (see DESIGN.md for the
// accepted tradeoff).
func (t *Sink) Run(ctx context.Context) (Status, error) {
	if !t.bo.Ready() {
		return NoWork, nil
	}

	v, ok := t.upstream.Pop()
	if !ok {
		return NoWork, nil
	}
	r, ok := v.(*row.Row)
	if !ok {
		return NoWork, errs.New(errs.Internal, "sink upstream queue carried a non-Row payload")
	}

	if err := t.writer.WriteRow(ctx, r); err != nil {
		if errs.IsKind(err, errs.Internal) {
			return NoWork, err
		}
		t.bo.RecordFailure()
		logger.Warn("sink %s: foreign write failed (error count %d): %v", t.name, t.bo.Count(), err)
		// Requeue so no row is ever dropped by the core (spec.md §5).
		_ = t.upstream.Push(r, 0)
		return NoWork, nil
	}
	t.bo.RecordSuccess()
	return Yielded, nil
}

// ErrorCount exposes the task's cumulative foreign-I/O error count.
func (t *Sink) ErrorCount() int64 { return t.bo.Count() }
