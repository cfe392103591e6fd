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

package pipeline

// graph is the directed multigraph whose nodes are stream models and
// whose edges are pump, source-reader, and sink-writer entries. It is
// always accessed through an immutable Pipeline value; graph itself is
// never mutated in place once published, only copied.
type graph struct {
	streams map[string]*StreamModel
	pumps   map[string]*PumpModel
	sources map[string]*SourceReaderModel
	sinks   map[string]*SinkWriterModel

	// pumpTombstones holds names of pumps dropped via DropPump, so the
	// name cannot be reused even though the live pump map no longer
	// carries it. See SPEC_FULL.md §4.3.
	pumpTombstones map[string]struct{}
}

func newGraph() *graph {
	return &graph{
		streams:        make(map[string]*StreamModel),
		pumps:          make(map[string]*PumpModel),
		sources:        make(map[string]*SourceReaderModel),
		sinks:          make(map[string]*SinkWriterModel),
		pumpTombstones: make(map[string]struct{}),
	}
}

// clone performs a shallow copy: the maps are new, the pointed-to model
// values are shared by reference (they are themselves immutable once
// added), matching the "cheap copy-on-write, interior entities shared by
// reference" strategy from spec.md §9.
func (g *graph) clone() *graph {
	ng := newGraph()
	for k, v := range g.streams {
		ng.streams[k] = v
	}
	for k, v := range g.pumps {
		ng.pumps[k] = v
	}
	for k, v := range g.sources {
		ng.sources[k] = v
	}
	for k, v := range g.sinks {
		ng.sinks[k] = v
	}
	for k := range g.pumpTombstones {
		ng.pumpTombstones[k] = struct{}{}
	}
	return ng
}
