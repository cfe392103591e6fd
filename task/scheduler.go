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
	"math"
	"sync/atomic"
)

// Scheduler picks one task per tick from a Graph by the fixed policy in
// spec.md §4.5: Sink > Pump > Source by priority class; within a class,
// steepest (upstream_depth - downstream_depth) descent; ties broken by
// round-robin.
type Scheduler struct {
	graph *Graph
	rr    uint64 // round-robin cursor, shared across priority classes
}

// NewScheduler builds a scheduler over graph.
func NewScheduler(graph *Graph) *Scheduler {
	return &Scheduler{graph: graph}
}

// Next returns the task to run this tick, or nil if the graph has no
// tasks at all.
func (s *Scheduler) Next() Task {
	var best [3][]Task // indexed by Kind: SinkKind, PumpKind, SourceKind
	for _, t := range s.graph.tasks {
		best[t.Kind()] = append(best[t.Kind()], t)
	}

	for kind := SinkKind; kind <= SourceKind; kind++ {
		candidates := best[kind]
		if len(candidates) == 0 {
			continue
		}
		return s.pickSteepest(candidates)
	}
	return nil
}

func (s *Scheduler) pickSteepest(candidates []Task) Task {
	bestScore := math.MinInt32
	var tied []Task
	for _, t := range candidates {
		score := t.UpstreamDepth() - t.DownstreamDepth()
		switch {
		case score > bestScore:
			bestScore = score
			tied = []Task{t}
		case score == bestScore:
			tied = append(tied, t)
		}
	}
	if len(tied) == 1 {
		return tied[0]
	}
	idx := atomic.AddUint64(&s.rr, 1) % uint64(len(tied))
	return tied[idx]
}
