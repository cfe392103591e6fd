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

// Package pipeline models the running topology: streams linked by pumps,
// bracketed by source readers and sink writers. A Pipeline value is
// immutable once built; mutators return a new Pipeline with an
// incremented version, the copy-on-write discipline described in
// SPEC_FULL.md so workers can snapshot-read on tick boundaries without a
// lock.
package pipeline

import (
	"github.com/springsql/springsql/ident"
	"github.com/springsql/springsql/plan"
	"github.com/springsql/springsql/row"
)

// StreamModel is (name, shape). Shape is immutable after creation.
type StreamModel struct {
	Name  ident.Name
	Shape *row.Shape
}

// PumpState is a pump's run/stop state.
type PumpState int

const (
	// Stopped is the state every pump is created in; retained in the
	// graph but never picked by the scheduler.
	Stopped PumpState = iota
	// Started pumps are scheduled.
	Started
)

// PumpModel is (name, upstream, downstream, plan, state).
type PumpModel struct {
	Name             ident.Name
	UpstreamStream   ident.Name
	DownstreamStream ident.Name
	Plan             *plan.Plan
	State            PumpState
}

// WithState returns a copy of the pump model in the given state.
func (p PumpModel) WithState(s PumpState) PumpModel {
	p.State = s
	return p
}

// SourceReaderModel is a named long-lived foreign source binding,
// terminating at a stream node.
type SourceReaderModel struct {
	Name   ident.Name
	Stream ident.Name
	Type   string // e.g. "NET_CLIENT", "NET_SERVER"
	Options ident.Options
}

// SinkWriterModel is a named long-lived foreign/in-memory sink binding,
// originating at a stream node.
type SinkWriterModel struct {
	Name    ident.Name
	Stream  ident.Name
	Type    string // e.g. "IN_MEMORY_QUEUE", "NET_CLIENT"
	Options ident.Options
}
