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
	"github.com/springsql/springsql/logger"
	"github.com/springsql/springsql/pipeline"
	"github.com/springsql/springsql/task"
)

// generationLookup is the minimal view the purger needs of the
// executor's version history: the pipeline and task graph as of a given
// version.
type generationLookup interface {
	generation(version int64) (*pipeline.Pipeline, *task.Graph, bool)
}

// Purger is the dedicated worker that reclaims window state: on every
// PipelineUpdated event it walks the previous version's window states
// whose owning pumps are absent from the new version and releases their
// memory, preventing the leak that an add-only pipeline model would
// otherwise accumulate across topology churn (spec.md §4.6, Open
// Question (b)).
type Purger struct {
	events    <-chan Event
	lookup    generationLookup
	stopFlag  bool
	setup     *SetupCoordinator
	stopCoord *StopCoordinator
}

func newPurger(bus *EventBus, lookup generationLookup, setup *SetupCoordinator, stopCoord *StopCoordinator) *Purger {
	return &Purger{events: bus.Subscribe(), lookup: lookup, setup: setup, stopCoord: stopCoord}
}

func (p *Purger) run() {
	p.setup.Done()
	for ev := range p.events {
		switch ev.Kind {
		case PipelineUpdated:
			p.purge(ev.Version)
		case Shutdown:
			p.stopCoord.Done()
			return
		}
	}
}

// purge diffs version against version-1 and releases window state for
// every pump dropped in that transition.
func (p *Purger) purge(version int64) {
	next, _, ok := p.lookup.generation(version)
	if !ok {
		return
	}
	prev, prevGraph, ok := p.lookup.generation(version - 1)
	if !ok || prevGraph == nil {
		return
	}

	dropped := pipeline.DroppedSince(prev, next)
	if len(dropped) == 0 {
		return
	}
	droppedSet := make(map[string]struct{}, len(dropped))
	for _, name := range dropped {
		droppedSet[name] = struct{}{}
	}

	for _, t := range prevGraph.Tasks() {
		if t.Kind() != task.PumpKind {
			continue
		}
		if _, ok := droppedSet[t.Name()]; !ok {
			continue
		}
		if pump, ok := t.(*task.Pump); ok {
			pump.PurgeWindow()
			logger.Info("purger: reclaimed window state for dropped pump %q", t.Name())
		}
	}
}
