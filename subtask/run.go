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
	"github.com/springsql/springsql/plan"
	"github.com/springsql/springsql/queue"
	"github.com/springsql/springsql/row"
)

// run walks one node, dispatching by kind. Leaf-to-root: a Collect leaf
// either returns one tuple and ok=true, or ok=false on an empty queue,
// which short-circuits every ancestor with no side effects.
func run(n *node, metrics *queue.Metrics) ([]*row.Tuple, bool, error) {
	switch n.kind {
	case plan.Collect:
		return runCollect(n, metrics)
	case plan.Projection:
		return runProjection(n, metrics)
	case plan.EvalValueExpr:
		return runEvalValueExpr(n, metrics)
	case plan.GroupAggregateWindow:
		return runGroupAggregateWindow(n, metrics)
	case plan.Join:
		return runJoin(n, metrics)
	default:
		return nil, false, errs.Newf(errs.Internal, "unreachable: unknown subtask kind %d", n.kind)
	}
}

// runChild runs a unary node's single child.
func runChild(n *node, metrics *queue.Metrics) ([]*row.Tuple, bool, error) {
	if len(n.children) != 1 {
		return nil, false, errs.Newf(errs.Internal, "unreachable: unary node has %d children", len(n.children))
	}
	return run(n.children[0], metrics)
}
