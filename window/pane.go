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

// Package window implements pane-based aggregator storage and watermark
// tracking for sliding/tumbling time windows, the way the teacher's
// window package tracks tumbling/sliding panes but generalized from a
// single numeric series to keyed group aggregates.
package window

import (
	"sort"
	"time"

	"github.com/springsql/springsql/aggregator"
	"github.com/springsql/springsql/errs"
)

// GroupKey is the group-by value a pane partitions its aggregate state by.
type GroupKey string

// partial is the widened running aggregate for one (pane, group).
// Sum/Count are widened to avoid overflow for int64 inputs, mirrored for
// float64 inputs; Avg is derived at emission time from the two.
type partial struct {
	sum   float64
	count int64
	max   float64
	min   float64
	seen  bool
}

func (p *partial) add(v float64) {
	p.sum += v
	p.count++
	if !p.seen || v > p.max {
		p.max = v
	}
	if !p.seen || v < p.min {
		p.min = v
	}
	p.seen = true
}

func (p *partial) result(fn aggregator.AggregateType) float64 {
	switch fn {
	case aggregator.Count:
		return float64(p.count)
	case aggregator.Sum:
		return p.sum
	case aggregator.Max:
		return p.max
	case aggregator.Min:
		return p.min
	default: // Avg
		if p.count == 0 {
			return 0
		}
		return p.sum / float64(p.count)
	}
}

// pane is one half-open time interval [start, start+length) and its
// per-group partial aggregate state.
type pane struct {
	start  time.Time
	end    time.Time
	groups map[GroupKey]*partial
}

func newPane(start, end time.Time) *pane {
	return &pane{start: start, end: end, groups: make(map[GroupKey]*partial)}
}

// Emission is one (pane, group) aggregate result emitted when a pane closes.
type Emission struct {
	PaneStart time.Time
	PaneEnd   time.Time
	GroupKey  GroupKey
	Value     float64
}

// State is the window state owned by a single pump task: a pane index
// keyed by pane_start, plus the watermark that governs when panes close.
// It is never accessed by another worker except the purger worker after
// the owning pump is removed from the pipeline.
type State struct {
	kind      Kind
	length    time.Duration
	period    time.Duration
	fn        aggregator.AggregateType
	maxOutOfOrder time.Duration // allowed lateness; hard-coded zero, see TODO below.

	panes     map[int64]*pane // keyed by start.UnixNano()
	watermark time.Time
}

// Kind mirrors plan.WindowKind without importing package plan, to keep
// window free of a dependency on the plan description package.
type Kind int

const (
	Tumbling Kind = iota
	Sliding
)

// NewState builds window state for one pump's GroupAggregateWindow node.
// period must be <= length; for Tumbling it must equal length.
func NewState(kind Kind, length, period time.Duration, fn aggregator.AggregateType) (*State, error) {
	if period > length {
		return nil, errs.New(errs.Sql, "window period must not exceed window length")
	}
	if kind == Tumbling && period != length {
		return nil, errs.New(errs.Sql, "tumbling window period must equal length")
	}
	return &State{
		kind:   kind,
		length: length,
		period: period,
		fn:     fn,
		panes:  make(map[int64]*pane),
		// TODO(allowed-lateness): always zero; no configuration surface
		// exists yet to raise it, see SPEC_FULL.md Open Question (a).
		maxOutOfOrder: 0,
	}, nil
}

// paneStartsFor returns every pane start time whose [start, start+length)
// contains t, given the window's period (one for tumbling, several for
// a sliding window whose panes overlap).
func (s *State) paneStartsFor(t time.Time) []time.Time {
	if s.period <= 0 {
		return nil
	}
	// The earliest pane start that could still contain t is the one
	// starting at most `length` before t, aligned to period.
	alignedNow := t.Truncate(s.period)
	var starts []time.Time
	for start := alignedNow; start.After(t.Add(-s.length)); start = start.Add(-s.period) {
		if !start.After(t) && t.Before(start.Add(s.length)) {
			starts = append(starts, start)
		}
	}
	return starts
}

// Add appends one input value with event time t to every pane it belongs
// to, bucketed by group key.
func (s *State) Add(t time.Time, group GroupKey, value float64) {
	for _, start := range s.paneStartsFor(t) {
		key := start.UnixNano()
		pn, ok := s.panes[key]
		if !ok {
			pn = newPane(start, start.Add(s.length))
			s.panes[key] = pn
		}
		p, ok := pn.groups[group]
		if !ok {
			p = &partial{}
			pn.groups[group] = p
		}
		p.add(value)
	}
}

// Advance moves the watermark forward given the latest observed event
// time, closes every pane whose end <= watermark, and returns their
// aggregates in ascending (pane_end, group_key) order, as spec.md
// requires for emission ordering.
func (s *State) Advance(t time.Time) []Emission {
	candidate := t.Add(-s.maxOutOfOrder)
	if candidate.After(s.watermark) {
		s.watermark = candidate
	}

	var closedKeys []int64
	for key, pn := range s.panes {
		if !pn.end.After(s.watermark) {
			closedKeys = append(closedKeys, key)
		}
	}
	sort.Slice(closedKeys, func(i, j int) bool { return closedKeys[i] < closedKeys[j] })

	var out []Emission
	for _, key := range closedKeys {
		pn := s.panes[key]
		groupKeys := make([]GroupKey, 0, len(pn.groups))
		for g := range pn.groups {
			groupKeys = append(groupKeys, g)
		}
		sort.Slice(groupKeys, func(i, j int) bool { return groupKeys[i] < groupKeys[j] })
		for _, g := range groupKeys {
			out = append(out, Emission{
				PaneStart: pn.start,
				PaneEnd:   pn.end,
				GroupKey:  g,
				Value:     pn.groups[g].result(s.fn),
			})
		}
		delete(s.panes, key)
	}
	return out
}

// Reset discards every buffered pane without emitting it. Used by the
// purger worker to reclaim a dropped pump's window memory; it is not part
// of normal watermark-driven closing and never runs while the owning pump
// is still scheduled.
func (s *State) Reset() {
	s.panes = make(map[int64]*pane)
}

// PaneCount reports how many panes are currently buffered, used by tests
// asserting bounded memory.
func (s *State) PaneCount() int {
	return len(s.panes)
}

// Watermark returns the current watermark.
func (s *State) Watermark() time.Time {
	return s.watermark
}
