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

// Package task converts the pipeline graph into runnable tasks and picks
// the next task to run per worker tick. Tasks are plain objects exposing
// Run(ctx) -> (Status, error); scheduling is explicit so the worker pool
// keeps tight control over latency and back-pressure (spec.md §9).
package task

import "context"

// Kind tags a task's priority class: Sink > Pump > Source, so output
// drains before input grows (spec.md §4.5).
type Kind int

const (
	SinkKind Kind = iota
	PumpKind
	SourceKind
)

// Status is a task's one-tick outcome.
type Status int

const (
	// Yielded means the task did useful work and should be considered
	// "hot" again next tick.
	Yielded Status = iota
	// NoWork means the task had nothing to do this tick (empty upstream
	// queue, or downstream back-pressure); the worker should consider
	// parking if every task reports NoWork.
	NoWork
)

// Task is a unit of scheduler-dispatched work: one source read, one pump
// quantum, or one sink write. A task runs for at most one logical row
// (source, sink) or one subtask-tree run's worth of rows (pump), and must
// yield on any I/O stall rather than block the worker thread indefinitely.
type Task interface {
	Name() string
	Kind() Kind
	Run(ctx context.Context) (Status, error)

	// UpstreamDepth/DownstreamDepth feed the scheduler's steepest-descent
	// priority heuristic (spec.md §4.5). A task with no meaningful notion
	// of one side (e.g. a source's "upstream" is a foreign connection,
	// not a queue) returns 0 for that side.
	UpstreamDepth() int
	DownstreamDepth() int
}
