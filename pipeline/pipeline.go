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

import (
	"github.com/springsql/springsql/errs"
)

// Pipeline is the tuple (version, names, graph). version is bumped on
// every successful mutation; names is the set of identifiers unique
// across streams, pumps, source readers, and sink writers.
//
// A Pipeline value is immutable: every mutator below returns a new
// Pipeline rather than editing receiver state. Callers that hold a
// reference to a Pipeline may assume it never changes under them —
// traversal queries are therefore snapshot reads requiring no lock.
type Pipeline struct {
	version int64
	names   map[string]struct{}
	g       *graph
}

// New returns the empty pipeline at version 0.
func New() *Pipeline {
	return &Pipeline{
		version: 0,
		names:   make(map[string]struct{}),
		g:       newGraph(),
	}
}

// Version returns the pipeline's monotonically increasing version.
func (p *Pipeline) Version() int64 { return p.version }

// Snapshot returns p unchanged. Pipelines are already immutable values;
// Snapshot exists only as an explicit "I am taking a reference here" call
// site for readers, mirroring the copy-on-write design note in spec.md §9.
func (p *Pipeline) Snapshot() *Pipeline { return p }

func (p *Pipeline) reserve(name string) error {
	if _, taken := p.names[name]; taken {
		return errs.Newf(errs.Sql, "name %q already in use", name)
	}
	if _, tomb := p.g.pumpTombstones[name]; tomb {
		return errs.Newf(errs.Sql, "name %q was dropped and cannot be reused", name)
	}
	return nil
}

func (p *Pipeline) withNextVersion(g *graph, newName string) *Pipeline {
	names := make(map[string]struct{}, len(p.names)+1)
	for k := range p.names {
		names[k] = struct{}{}
	}
	if newName != "" {
		names[newName] = struct{}{}
	}
	return &Pipeline{version: p.version + 1, names: names, g: g}
}

// GetStream returns a stream model by name.
func (p *Pipeline) GetStream(name string) (*StreamModel, bool) {
	s, ok := p.g.streams[name]
	return s, ok
}

// AddStream reserves the stream's name and attaches it to the graph,
// returning the new Pipeline version.
func (p *Pipeline) AddStream(m StreamModel) (*Pipeline, error) {
	if err := p.reserve(string(m.Name)); err != nil {
		return nil, err
	}
	ng := p.g.clone()
	ng.streams[string(m.Name)] = &m
	return p.withNextVersion(ng, string(m.Name)), nil
}

// AddPump reserves the pump's name, validates its stream references exist,
// and attaches it to the graph. Pumps are created Stopped regardless of
// the State field supplied.
func (p *Pipeline) AddPump(m PumpModel) (*Pipeline, error) {
	if err := p.reserve(string(m.Name)); err != nil {
		return nil, err
	}
	if _, ok := p.g.streams[string(m.UpstreamStream)]; !ok {
		return nil, errs.Newf(errs.Sql, "pump %q references unknown upstream stream %q", m.Name, m.UpstreamStream)
	}
	if _, ok := p.g.streams[string(m.DownstreamStream)]; !ok {
		return nil, errs.Newf(errs.Sql, "pump %q references unknown downstream stream %q", m.Name, m.DownstreamStream)
	}
	m.State = Stopped
	ng := p.g.clone()
	ng.pumps[string(m.Name)] = &m
	return p.withNextVersion(ng, string(m.Name)), nil
}

// AddSourceReader reserves the reader's name, validates its target stream
// exists, and attaches it to the graph.
func (p *Pipeline) AddSourceReader(m SourceReaderModel) (*Pipeline, error) {
	if err := p.reserve(string(m.Name)); err != nil {
		return nil, err
	}
	if _, ok := p.g.streams[string(m.Stream)]; !ok {
		return nil, errs.Newf(errs.Sql, "source reader %q references unknown stream %q", m.Name, m.Stream)
	}
	ng := p.g.clone()
	ng.sources[string(m.Name)] = &m
	return p.withNextVersion(ng, string(m.Name)), nil
}

// AddSinkWriter reserves the writer's name, validates its origin stream
// exists, and attaches it to the graph.
func (p *Pipeline) AddSinkWriter(m SinkWriterModel) (*Pipeline, error) {
	if err := p.reserve(string(m.Name)); err != nil {
		return nil, err
	}
	if _, ok := p.g.streams[string(m.Stream)]; !ok {
		return nil, errs.Newf(errs.Sql, "sink writer %q references unknown stream %q", m.Name, m.Stream)
	}
	ng := p.g.clone()
	ng.sinks[string(m.Name)] = &m
	return p.withNextVersion(ng, string(m.Name)), nil
}

// StartPump transitions a pump from Stopped to Started. Idempotent: a
// second call on an already-Started pump succeeds without bumping version
// further than the first transition requires (the version bump only
// happens on an actual state change).
func (p *Pipeline) StartPump(name string) (*Pipeline, error) {
	pm, ok := p.g.pumps[name]
	if !ok {
		return nil, errs.Newf(errs.Sql, "unknown pump %q", name)
	}
	if pm.State == Started {
		return p, nil
	}
	ng := p.g.clone()
	started := pm.WithState(Started)
	ng.pumps[name] = &started
	return &Pipeline{version: p.version + 1, names: p.names, g: ng}, nil
}

// StopPump transitions a pump from Started to Stopped. Idempotent.
func (p *Pipeline) StopPump(name string) (*Pipeline, error) {
	pm, ok := p.g.pumps[name]
	if !ok {
		return nil, errs.Newf(errs.Sql, "unknown pump %q", name)
	}
	if pm.State == Stopped {
		return p, nil
	}
	ng := p.g.clone()
	stopped := pm.WithState(Stopped)
	ng.pumps[name] = &stopped
	return &Pipeline{version: p.version + 1, names: p.names, g: ng}, nil
}

// DropPump removes a pump from the graph, implementing Open Question (b):
// the name is tombstoned so it can never be reused, which is what lets the
// purger worker compute "pumps absent in the new version" as a pure diff
// against tombstones rather than racing a reused name.
func (p *Pipeline) DropPump(name string) (*Pipeline, error) {
	if _, ok := p.g.pumps[name]; !ok {
		return nil, errs.Newf(errs.Sql, "unknown pump %q", name)
	}
	ng := p.g.clone()
	delete(ng.pumps, name)
	ng.pumpTombstones[name] = struct{}{}
	return &Pipeline{version: p.version + 1, names: p.names, g: ng}, nil
}

// AllSources returns every source reader model in the graph.
func (p *Pipeline) AllSources() []*SourceReaderModel {
	out := make([]*SourceReaderModel, 0, len(p.g.sources))
	for _, s := range p.g.sources {
		out = append(out, s)
	}
	return out
}

// AllSinks returns every sink writer model in the graph.
func (p *Pipeline) AllSinks() []*SinkWriterModel {
	out := make([]*SinkWriterModel, 0, len(p.g.sinks))
	for _, s := range p.g.sinks {
		out = append(out, s)
	}
	return out
}

// AllPumps returns every pump model in the graph, including Stopped ones.
func (p *Pipeline) AllPumps() []*PumpModel {
	out := make([]*PumpModel, 0, len(p.g.pumps))
	for _, pm := range p.g.pumps {
		out = append(out, pm)
	}
	return out
}

// GetPump returns a pump model by name.
func (p *Pipeline) GetPump(name string) (*PumpModel, bool) {
	pm, ok := p.g.pumps[name]
	return pm, ok
}

// DroppedSince returns the names of pumps present in prev but absent (by
// tombstone) in next — the exact input the purger worker needs to reclaim
// window state after a PipelineUpdated event.
func DroppedSince(prev, next *Pipeline) []string {
	var out []string
	for name := range prev.g.pumps {
		if _, stillThere := next.g.pumps[name]; !stillThere {
			if _, tomb := next.g.pumpTombstones[name]; tomb {
				out = append(out, name)
			}
		}
	}
	return out
}

// NameCount exposes the size of the unique-name set for invariant tests
// asserting the strict-superset property across successful commands.
func (p *Pipeline) NameCount() int { return len(p.names) }

// HasName reports whether name is reserved in this pipeline's unique-name set.
func (p *Pipeline) HasName(name string) bool {
	_, ok := p.names[name]
	return ok
}
