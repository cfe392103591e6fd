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

	"github.com/springsql/springsql/queue"
	"github.com/springsql/springsql/row"
	"github.com/springsql/springsql/subtask"
)

// Pump is the task wrapping one Started pump: it runs the compiled query
// subtask tree for one scheduling quantum and, for every tuple produced,
// commits it to the downstream stream's shape (the tuple-to-row boundary,
// spec.md §4.2) and pushes it to the downstream inter-task queue.
type Pump struct {
	name           string
	tree           *subtask.Tree
	downstreamShape *row.Shape
	downstream     *queue.FIFO
	pushBudget     time.Duration
}

// NewPump builds a Pump task.
func NewPump(name string, tree *subtask.Tree, downstreamShape *row.Shape, downstream *queue.FIFO, pushBudget time.Duration) *Pump {
	return &Pump{name: name, tree: tree, downstreamShape: downstreamShape, downstream: downstream, pushBudget: pushBudget}
}

func (t *Pump) Name() string { return t.name }
func (t *Pump) Kind() Kind   { return PumpKind }

func (t *Pump) UpstreamDepth() int   { return 0 } // the compiled tree hides per-leaf depth
func (t *Pump) DownstreamDepth() int { return t.downstream.Depth() }

// PurgeWindow discards this pump's buffered window panes and join
// buffers. Called only by the purger worker, only after the pump has
// been dropped from the live pipeline (spec.md §4.3/§4.6).
func (t *Pump) PurgeWindow() {
	t.tree.PurgeWindows()
}

// Run evaluates one leaf-to-root pass of the subtask tree. An empty
// upstream queue (ok=false) is reported as NoWork with no side effects,
// per spec.md §4.2's run(context) contract.
func (t *Pump) Run(ctx context.Context) (Status, error) {
	result, ok, err := t.tree.Run()
	if err != nil {
		return NoWork, err
	}
	if !ok {
		return NoWork, nil
	}

	for _, tup := range result.Tuples {
		r, err := tup.Seal(t.downstreamShape)
		if err != nil {
			return NoWork, err
		}
		if err := t.downstream.Push(r, t.pushBudget); err != nil {
			return NoWork, nil
		}
	}
	return Yielded, nil
}
