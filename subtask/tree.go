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

// Package subtask is the compiled, executable form of a package plan query
// plan: a tree of subtask nodes dispatched by kind, the same tagged-variant
// shape the teacher module uses for its operator package, compiled once
// per pump at creation time (spec.md §4.2).
package subtask

import (
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/springsql/springsql/errs"
	"github.com/springsql/springsql/plan"
	"github.com/springsql/springsql/queue"
	"github.com/springsql/springsql/row"
	"github.com/springsql/springsql/window"
)

// node is one compiled subtask. It mirrors plan.Node but carries runtime
// state (a compiled expr-lang program, window state, join buffers) that
// has no place in the plan description itself.
type node struct {
	kind plan.NodeKind

	// Collect
	upstream *queue.FIFO

	// Projection
	projectFields []string
	projectAlias  map[string]string

	// EvalValueExpr
	program     *vm.Program
	outputLabel string

	// GroupAggregateWindow
	win          *window.State
	groupByField string
	aggField     string
	aggAlias     string

	// Join
	onLeftField, onRightField string
	leftBuf, rightBuf         map[string][]*row.Tuple

	children []*node
}

// Tree is a compiled query subtask tree with exactly one root.
type Tree struct {
	root *node
}

// Build compiles p into an executable Tree. edgeFor resolves a Collect
// node's upstream stream name to its inter-task queue.
func Build(p *plan.Plan, edgeFor func(streamName string) *queue.FIFO) (*Tree, error) {
	if len(p.Nodes) == 0 {
		return nil, errs.New(errs.Internal, "cannot compile an empty query plan")
	}
	built := make(map[int]*node, len(p.Nodes))
	var build func(idx int) (*node, error)
	build = func(idx int) (*node, error) {
		if n, ok := built[idx]; ok {
			return n, nil
		}
		pn := p.Nodes[idx]
		n := &node{kind: pn.Kind}

		switch pn.Kind {
		case plan.Collect:
			n.upstream = edgeFor(pn.UpstreamStream)
			if n.upstream == nil {
				return nil, errs.Newf(errs.Internal, "no inter-task queue for stream %q", pn.UpstreamStream)
			}
		case plan.Projection:
			n.projectFields = pn.ProjectFields
			n.projectAlias = pn.ProjectAlias
		case plan.EvalValueExpr:
			program, err := expr.Compile(pn.Expression, expr.AllowUndefinedVariables())
			if err != nil {
				return nil, errs.Wrap(errs.Sql, err, "failed to compile value expression "+pn.Expression)
			}
			n.program = program
			n.outputLabel = pn.OutputLabel
		case plan.GroupAggregateWindow:
			length := time.Duration(pn.Window.Length)
			period := time.Duration(pn.Window.Period)
			kind := window.Tumbling
			if pn.Window.Kind == plan.TimeSliding {
				kind = window.Sliding
			}
			st, err := window.NewState(kind, length, period, pn.GroupAggregate.Function)
			if err != nil {
				return nil, err
			}
			n.win = st
			n.groupByField = pn.GroupAggregate.GroupByField
			n.aggField = pn.GroupAggregate.AggregatedField
			n.aggAlias = pn.GroupAggregate.AggregatedAlias
		case plan.Join:
			n.onLeftField = pn.OnLeftField
			n.onRightField = pn.OnRightField
			n.leftBuf = make(map[string][]*row.Tuple)
			n.rightBuf = make(map[string][]*row.Tuple)
		default:
			return nil, errs.Newf(errs.Internal, "unknown plan node kind %d", pn.Kind)
		}

		for _, c := range pn.Children {
			cn, err := build(c)
			if err != nil {
				return nil, err
			}
			n.children = append(n.children, cn)
		}
		built[idx] = n
		return n, nil
	}

	root, err := build(p.Root)
	if err != nil {
		return nil, err
	}
	return &Tree{root: root}, nil
}

// Result is one call's worth of output: zero or more tuples plus the
// in-queue metrics delta attributed to the Collect leaf(s) touched.
type Result struct {
	Tuples  []*row.Tuple
	Metrics queue.Metrics
}

// Run attempts to produce zero or more output tuples for one scheduling
// quantum. Returns ok=false when the relevant leaf's upstream queue was
// empty (no side effects occurred).
func (t *Tree) Run() (Result, bool, error) {
	var metrics queue.Metrics
	tuples, ok, err := run(t.root, &metrics)
	if err != nil || !ok {
		return Result{}, ok, err
	}
	return Result{Tuples: tuples, Metrics: metrics}, true, nil
}
