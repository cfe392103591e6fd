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
	"github.com/springsql/springsql/window"
)

// runGroupAggregateWindow appends every input tuple to its pane(s) and
// emits one tuple per (closed_pane, group_key) whose watermark has fired,
// in ascending (pane_end, group_key) order (window.State.Advance already
// returns them in that order).
func runGroupAggregateWindow(n *node, metrics *queue.Metrics) ([]*row.Tuple, bool, error) {
	in, ok, err := runChild(n, metrics)
	if err != nil || !ok {
		return nil, ok, err
	}

	var latest row.Tuple
	hadInput := false
	for _, t := range in {
		groupVal, hasGroup := t.Get(n.groupByField)
		if !hasGroup {
			return nil, false, errs.Newf(errs.Sql, "GROUP BY references unknown field %q", n.groupByField)
		}
		aggVal, hasAgg := t.Get(n.aggField)
		if !hasAgg {
			return nil, false, errs.Newf(errs.Sql, "aggregate references unknown field %q", n.aggField)
		}
		f, err := aggVal.Float64()
		if err != nil {
			return nil, false, err
		}
		n.win.Add(t.EventTime, window.GroupKey(groupVal.String()), f)
		latest = *t
		hadInput = true
	}

	if !hadInput {
		return nil, true, nil
	}

	emissions := n.win.Advance(latest.EventTime)
	out := make([]*row.Tuple, 0, len(emissions))
	for _, e := range emissions {
		ot := row.NewTuple(e.PaneEnd)
		ot = ot.With(n.groupByField, row.NewValue(row.TypeText, string(e.GroupKey)))
		ot = ot.With(n.aggAlias, row.NewValue(row.TypeFloat, e.Value))
		ot = ot.With("window_start", row.NewValue(row.TypeTimestamp, e.PaneStart))
		ot = ot.With("window_end", row.NewValue(row.TypeTimestamp, e.PaneEnd))
		out = append(out, ot)
	}
	return out, true, nil
}
