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
	"time"

	"github.com/springsql/springsql/errs"
	"github.com/springsql/springsql/ioreader"
	"github.com/springsql/springsql/logger"
	"github.com/springsql/springsql/queue"
)

// Source is the task wrapping one source-reader edge: it blocks on the
// foreign reader for one row per tick and pushes it to the owning
// stream's inter-task queue.
type Source struct {
	name       string
	reader     ioreader.SourceReader
	downstream *queue.FIFO
	pushBudget time.Duration
	bo         backoff
}

// NewSource builds a Source task. pushBudget bounds how long a full
// downstream queue may block this task before it yields (spec.md §4.5
// yield discipline: a task must yield on any I/O stall, including
// back-pressure).
func NewSource(name string, reader ioreader.SourceReader, downstream *queue.FIFO, pushBudget time.Duration) *Source {
	return &Source{name: name, reader: reader, downstream: downstream, pushBudget: pushBudget}
}

func (t *Source) Name() string  { return t.name }
func (t *Source) Kind() Kind    { return SourceKind }

func (t *Source) UpstreamDepth() int   { return 0 } // foreign I/O has no internal queue depth
func (t *Source) DownstreamDepth() int { return t.downstream.Depth() }

// Run reads one row from the foreign source and pushes it downstream.
// Foreign-I/O errors are logged, counted, and retried with bounded
// exponential backoff rather than halting the engine (spec.md §7); they
// surface as NoWork for this tick so the worker moves on.
func (t *Source) Run(ctx context.Context) (Status, error) {
	if !t.bo.Ready() {
		return NoWork, nil
	}

	r, err := t.reader.NextRow(ctx)
	if err != nil {
		if errs.IsKind(err, errs.Internal) {
			return NoWork, err
		}
		t.bo.RecordFailure()
		logger.Warn("source %s: foreign read failed (error count %d): %v", t.name, t.bo.Count(), err)
		return NoWork, nil
	}
	t.bo.RecordSuccess()

	if err := t.downstream.Push(r, t.pushBudget); err != nil {
		logger.Warn("source %s: downstream queue saturated, yielding", t.name)
		return NoWork, nil
	}
	return Yielded, nil
}

// ErrorCount exposes the task's cumulative foreign-I/O error count.
func (t *Source) ErrorCount() int64 { return t.bo.Count() }
