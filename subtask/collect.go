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

package subtask

import (
	"github.com/springsql/springsql/errs"
	"github.com/springsql/springsql/queue"
	"github.com/springsql/springsql/row"
)

// estimatedCellBytes is a rough per-column size used only for the
// in-queue metrics delta; it is not meant to be exact, just comparable
// across runs for back-pressure heuristics.
const estimatedCellBytes = 32

// runCollect pops one row from the upstream inter-task queue and converts
// it to a Tuple. Returns ok=false, no side effects, when the queue is
// empty.
func runCollect(n *node, metrics *queue.Metrics) ([]*row.Tuple, bool, error) {
	v, ok := n.upstream.Pop()
	if !ok {
		return nil, false, nil
	}
	r, ok := v.(*row.Row)
	if !ok {
		return nil, false, errs.New(errs.Internal, "inter-task queue carried a non-Row payload")
	}

	t := row.NewTuple(r.EventTime())
	for name, val := range r.Values() {
		t = t.With(name, val)
	}

	metrics.RowsConsumed++
	metrics.BytesConsumed += int64(len(t.Fields) * estimatedCellBytes)
	return []*row.Tuple{t}, true, nil
}
