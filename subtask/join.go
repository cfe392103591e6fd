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

// TODO(multi-leaf-join): only two Collect leaves are supported. N-way join
// is future work, not guessed at here — see original_source's own
// "TODO multiple leaves" on query_subtask.rs.
//
// runJoin consumes one tuple from the driving (left) side per call,
// probes the right side's collected buffer, and emits one output tuple
// per match; ties are broken by probe-side (right) arrival order, which
// falls out of appending to rightBuf in arrival order and scanning it
// front-to-back.
func runJoin(n *node, metrics *queue.Metrics) ([]*row.Tuple, bool, error) {
	if len(n.children) != 2 {
		return nil, false, errs.Newf(errs.Internal, "unreachable: join has %d children, want 2", len(n.children))
	}
	left, right := n.children[0], n.children[1]

	// Drain any newly arrived right-side rows into the probe buffer first,
	// so a left-side row arriving in the same tick can still match a
	// right-side row collected in this same tick.
	rightTuples, rightOK, err := run(right, metrics)
	if err != nil {
		return nil, false, err
	}
	if rightOK {
		for _, rt := range rightTuples {
			key, ok := rt.Get(n.onRightField)
			if !ok {
				return nil, false, errs.Newf(errs.Sql, "join predicate references unknown right field %q", n.onRightField)
			}
			n.rightBuf[key.String()] = append(n.rightBuf[key.String()], rt)
		}
	}

	leftTuples, leftOK, err := run(left, metrics)
	if err != nil {
		return nil, false, err
	}
	if !leftOK {
		return nil, false, nil
	}

	var out []*row.Tuple
	for _, lt := range leftTuples {
		key, ok := lt.Get(n.onLeftField)
		if !ok {
			return nil, false, errs.Newf(errs.Sql, "join predicate references unknown left field %q", n.onLeftField)
		}
		n.leftBuf[key.String()] = append(n.leftBuf[key.String()], lt)
		for _, rt := range n.rightBuf[key.String()] {
			out = append(out, merge(lt, rt))
		}
	}
	return out, true, nil
}

// merge combines a left and right tuple's fields into one output tuple,
// left fields taking precedence on label collision.
func merge(left, right *row.Tuple) *row.Tuple {
	out := row.NewTuple(left.EventTime)
	for _, f := range right.Fields {
		out = out.With(f.Label, f.Value)
	}
	for _, f := range left.Fields {
		out = out.With(f.Label, f.Value)
	}
	return out
}
