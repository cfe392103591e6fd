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

package executor

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/springsql/springsql/errs"
	"github.com/springsql/springsql/logger"
	"github.com/springsql/springsql/task"
)

// parkInterval is how long a worker with nothing to do sleeps before
// asking the scheduler again, matching the 10ms cadence used elsewhere
// in the engine for polling (spec.md §4.6).
const parkInterval = 10 * time.Millisecond

// Worker is one OS thread (goroutine, in this runtime) that repeatedly
// asks the scheduler for a task and runs it. It owns a reference to the
// event bus, the shared task-graph snapshot, and its own stop flag.
type Worker struct {
	id        int
	bus       *EventBus
	events    <-chan Event
	graph     *atomic.Pointer[task.Graph]
	stopFlag  atomic.Bool
	setup     *SetupCoordinator
	stopCoord *StopCoordinator
}

// newWorker builds a worker subscribed to bus.
func newWorker(id int, bus *EventBus, graph *atomic.Pointer[task.Graph], setup *SetupCoordinator, stopCoord *StopCoordinator) *Worker {
	return &Worker{
		id:        id,
		bus:       bus,
		events:    bus.Subscribe(),
		graph:     graph,
		setup:     setup,
		stopCoord: stopCoord,
	}
}

// run is the worker loop: `if stop: exit; task = scheduler.next(); if
// task.run() == NoWork: park for up to 10ms or until event; else
// continue` (spec.md §4.6), with pipeline-version swaps applied only at
// the start of a tick, never mid-task.
func (w *Worker) run() {
	w.setup.Done()

	var sched *task.Scheduler
	var version int64 = -1

	for {
		w.drainEvents()
		if w.stopFlag.Load() {
			w.stopCoord.Done()
			return
		}

		g := w.graph.Load()
		if g != nil && g.Version != version {
			sched = task.NewScheduler(g)
			version = g.Version
		}

		var t task.Task
		if sched != nil {
			t = sched.Next()
		}
		if t == nil {
			w.park()
			continue
		}

		status, err := t.Run(context.Background())
		if err != nil {
			w.handleTaskError(t, err)
			continue
		}
		if status == task.NoWork {
			w.park()
		}
	}
}

// drainEvents applies every pending event non-blockingly. PipelineUpdated
// needs no local action beyond what the tick-top g.Version check above
// already does (the atomic pointer is the source of truth); Shutdown sets
// the stop flag so the next loop iteration exits after finishing this
// tick's task.
func (w *Worker) drainEvents() {
	for {
		select {
		case ev := <-w.events:
			if ev.Kind == Shutdown {
				w.stopFlag.Store(true)
			}
		default:
			return
		}
	}
}

// park waits up to parkInterval or until an event arrives, whichever is first.
func (w *Worker) park() {
	select {
	case ev := <-w.events:
		if ev.Kind == Shutdown {
			w.stopFlag.Store(true)
		}
	case <-time.After(parkInterval):
	}
}

// handleTaskError logs the failure. An Internal error is an invariant
// violation: it is logged as a bug, kills this worker, and publishes
// Shutdown for the whole executor (spec.md §7). Source and Sink tasks
// absorb foreign-I/O errors into backoff+NoWork themselves; any other
// error that reaches here (such as a pump's Sql evaluation or sealing
// error) is logged and the worker carries on with its next tick.
func (w *Worker) handleTaskError(t task.Task, err error) {
	if errs.IsKind(err, errs.Internal) {
		logger.Error("worker %d: task %s hit an internal invariant violation, shutting down: %v", w.id, t.Name(), err)
		w.stopFlag.Store(true)
		w.bus.Publish(Event{Kind: Shutdown})
		return
	}
	logger.Error("worker %d: task %s returned an unexpected error: %v", w.id, t.Name(), err)
}
