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
	"sync"
	"sync/atomic"

	"github.com/springsql/springsql/pipeline"
	"github.com/springsql/springsql/task"
)

type generation struct {
	pipeline *pipeline.Pipeline
	graph    *task.Graph
}

// Executor is the autonomous multi-worker executor: N generic workers, a
// dedicated purger worker, an event bus, and the setup/stop coordination
// that brackets their lifetime (spec.md §4.6).
type Executor struct {
	bus       *EventBus
	workers   []*Worker
	purger    *Purger
	graph     atomic.Pointer[task.Graph]
	setup     *SetupCoordinator
	stopCoord *StopCoordinator

	genMu sync.RWMutex
	gens  map[int64]*generation
}

// New builds an Executor with workerCount generic workers plus one
// purger worker, none of them started yet.
func New(workerCount int) *Executor {
	if workerCount <= 0 {
		workerCount = 1
	}
	bus := NewEventBus()
	// workerCount generic workers + 1 purger check in with setup/stop.
	setup := NewSetupCoordinator(workerCount + 1)
	stopCoord := NewStopCoordinator(workerCount + 1)

	e := &Executor{
		bus:       bus,
		setup:     setup,
		stopCoord: stopCoord,
		gens:      make(map[int64]*generation),
	}

	for i := 0; i < workerCount; i++ {
		e.workers = append(e.workers, newWorker(i, bus, &e.graph, setup, stopCoord))
	}
	e.purger = newPurger(bus, e, setup, stopCoord)
	return e
}

// generation implements generationLookup for the purger.
func (e *Executor) generation(version int64) (*pipeline.Pipeline, *task.Graph, bool) {
	e.genMu.RLock()
	defer e.genMu.RUnlock()
	g, ok := e.gens[version]
	if !ok {
		return nil, nil, false
	}
	return g.pipeline, g.graph, true
}

// Start launches every worker plus the purger and blocks until all have
// completed initialization, so the engine handle's open() does not
// return before the pipeline is actually being driven.
func (e *Executor) Start(pl *pipeline.Pipeline, g *task.Graph) {
	e.recordGeneration(pl, g)
	e.graph.Store(g)

	for _, w := range e.workers {
		go w.run()
	}
	go e.purger.run()

	e.setup.Wait()
}

// recordGeneration stores the (pipeline, graph) pair for a version so the
// purger can diff across a transition.
func (e *Executor) recordGeneration(pl *pipeline.Pipeline, g *task.Graph) {
	e.genMu.Lock()
	defer e.genMu.Unlock()
	e.gens[pl.Version()] = &generation{pipeline: pl, graph: g}
}

// UpdatePipeline swaps in a newly built task graph for pl and publishes
// PipelineUpdated(pl.Version()) so every worker atomically adopts it at
// the start of its next tick, and the purger reclaims the prior
// version's dropped pump window state.
func (e *Executor) UpdatePipeline(pl *pipeline.Pipeline, g *task.Graph) {
	e.recordGeneration(pl, g)
	e.graph.Store(g)
	e.bus.Publish(Event{Kind: PipelineUpdated, Version: pl.Version()})
}

// Shutdown is cooperative: it publishes Shutdown and blocks until every
// worker and the purger have drained their current tick and exited.
func (e *Executor) Shutdown() {
	e.bus.Publish(Event{Kind: Shutdown})
	e.stopCoord.Wait()
}
