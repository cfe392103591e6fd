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

// Package ioreader holds the long-lived objects that block on foreign I/O
// and surface one row (source) or accept one row (sink) per call. Source
// and sink implementations are polymorphic over a small capability-set
// interface, selected by the TYPE keyword in DDL through a registry —
// the same pattern the teacher module uses for pluggable functions in
// functions/init.go.
package ioreader

import (
	"context"
	"time"

	"github.com/springsql/springsql/errs"
	"github.com/springsql/springsql/ident"
	"github.com/springsql/springsql/row"
)

// Config carries the subset of engine configuration a reader/writer needs
// to honor its connect/read/write timeouts (spec.md §6).
type Config struct {
	SourceConnectTimeout time.Duration
	SourceReadTimeout    time.Duration
	SinkConnectTimeout   time.Duration
	SinkWriteTimeout     time.Duration
}

// SourceReader is a long-lived foreign source binding. Start is called
// once before the first NextRow; NextRow blocks on foreign I/O up to the
// configured read timeout and surfaces one row per call.
type SourceReader interface {
	Start(ctx context.Context, opts ident.Options, cfg Config, shape *row.Shape) error
	NextRow(ctx context.Context) (*row.Row, error)
	Close() error
}

// SinkWriter is a long-lived foreign or in-memory sink binding. Start is
// called once before the first WriteRow.
type SinkWriter interface {
	Start(ctx context.Context, opts ident.Options, cfg Config) error
	WriteRow(ctx context.Context, r *row.Row) error
	Close() error
}

// SourceFactory builds a fresh SourceReader instance for one source
// reader DDL binding.
type SourceFactory func() SourceReader

// SinkFactory builds a fresh SinkWriter instance for one sink writer DDL
// binding.
type SinkFactory func() SinkWriter

var (
	sourceRegistry = map[string]SourceFactory{}
	sinkRegistry   = map[string]SinkFactory{}
)

// RegisterSource associates a DDL TYPE keyword with a source reader factory.
func RegisterSource(typeName string, f SourceFactory) {
	sourceRegistry[typeName] = f
}

// RegisterSink associates a DDL TYPE keyword with a sink writer factory.
func RegisterSink(typeName string, f SinkFactory) {
	sinkRegistry[typeName] = f
}

// NewSource looks up and instantiates a source reader by TYPE keyword.
func NewSource(typeName string) (SourceReader, error) {
	f, ok := sourceRegistry[typeName]
	if !ok {
		return nil, errs.Newf(errs.InvalidOption, "unknown source reader TYPE %q", typeName)
	}
	return f(), nil
}

// NewSink looks up and instantiates a sink writer by TYPE keyword.
func NewSink(typeName string) (SinkWriter, error) {
	f, ok := sinkRegistry[typeName]
	if !ok {
		return nil, errs.Newf(errs.InvalidOption, "unknown sink writer TYPE %q", typeName)
	}
	return f(), nil
}
