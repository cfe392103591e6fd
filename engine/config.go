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

// Package engine is the host-facing entry point: open/command/pop/
// pop_non_blocking, serializing pipeline mutations and exposing the
// in-memory queue drain path (spec.md §4.7/§6).
package engine

import (
	"io"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/springsql/springsql/errs"
	"github.com/springsql/springsql/ioreader"
	"github.com/springsql/springsql/logger"
)

// Config is the engine's open-time configuration. The recognized option
// keys and defaults mirror spec.md §6 exactly.
type Config struct {
	NWorkerThreads int `yaml:"n_worker_threads"`

	SourceNetConnectTimeoutMsec int `yaml:"source_reader.net_connect_timeout_msec"`
	SourceNetReadTimeoutMsec    int `yaml:"source_reader.net_read_timeout_msec"`
	SinkNetConnectTimeoutMsec   int `yaml:"sink_writer.net_connect_timeout_msec"`
	SinkNetWriteTimeoutMsec     int `yaml:"sink_writer.net_write_timeout_msec"`

	// MemoryUpperLimitBytes is optional (zero means unset): a soft cap
	// over all inter-task queues: exceeded activates back-pressure.
	MemoryUpperLimitBytes int64 `yaml:"memory.upper_limit_bytes"`

	logger logger.Logger
}

// DefaultConfig returns the spec.md §6 defaults.
func DefaultConfig() Config {
	return Config{
		NWorkerThreads:              runtime.NumCPU(),
		SourceNetConnectTimeoutMsec: 1000,
		SourceNetReadTimeoutMsec:    100,
		SinkNetConnectTimeoutMsec:   1000,
		SinkNetWriteTimeoutMsec:     1000,
		logger:                      logger.GetDefault(),
	}
}

// ConfigFromYAML parses option keys from a YAML document, layered on top
// of DefaultConfig, for hosts that keep engine options alongside their
// pipeline SQL text rather than constructing Config literally.
func ConfigFromYAML(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errs.Wrap(errs.InvalidOption, err, "failed to parse engine config YAML")
	}
	return cfg, nil
}

func (c Config) ioReaderConfig() ioreader.Config {
	return ioreader.Config{
		SourceConnectTimeout: time.Duration(c.SourceNetConnectTimeoutMsec) * time.Millisecond,
		SourceReadTimeout:    time.Duration(c.SourceNetReadTimeoutMsec) * time.Millisecond,
		SinkConnectTimeout:   time.Duration(c.SinkNetConnectTimeoutMsec) * time.Millisecond,
		SinkWriteTimeout:     time.Duration(c.SinkNetWriteTimeoutMsec) * time.Millisecond,
	}
}

// Option mirrors the teacher's functional-option pattern (option.go): a
// function that mutates a Config under construction.
type Option func(*Config)

// WithWorkerCount overrides n_worker_threads.
func WithWorkerCount(n int) Option {
	return func(c *Config) { c.NWorkerThreads = n }
}

// WithSourceConnectTimeout overrides source_reader.net_connect_timeout_msec.
func WithSourceConnectTimeout(d time.Duration) Option {
	return func(c *Config) { c.SourceNetConnectTimeoutMsec = int(d / time.Millisecond) }
}

// WithSourceReadTimeout overrides source_reader.net_read_timeout_msec.
func WithSourceReadTimeout(d time.Duration) Option {
	return func(c *Config) { c.SourceNetReadTimeoutMsec = int(d / time.Millisecond) }
}

// WithSinkConnectTimeout overrides sink_writer.net_connect_timeout_msec.
func WithSinkConnectTimeout(d time.Duration) Option {
	return func(c *Config) { c.SinkNetConnectTimeoutMsec = int(d / time.Millisecond) }
}

// WithSinkWriteTimeout overrides sink_writer.net_write_timeout_msec.
func WithSinkWriteTimeout(d time.Duration) Option {
	return func(c *Config) { c.SinkNetWriteTimeoutMsec = int(d / time.Millisecond) }
}

// WithMemoryUpperLimitBytes overrides memory.upper_limit_bytes.
func WithMemoryUpperLimitBytes(n int64) Option {
	return func(c *Config) { c.MemoryUpperLimitBytes = n }
}

// WithLogger sets the process-wide default logger (the teacher module's
// logging is also a single global default, swapped via logger.SetDefault).
func WithLogger(l logger.Logger) Option {
	return func(c *Config) {
		c.logger = l
		logger.SetDefault(l)
	}
}

// WithLogLevel is a convenience wrapper for the common case of only
// wanting to change verbosity.
func WithLogLevel(level logger.Level) Option {
	return func(c *Config) {
		logger.GetDefault().SetLevel(level)
	}
}
