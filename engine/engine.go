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

package engine

import (
	"sync"
	"time"

	"github.com/springsql/springsql/errs"
	"github.com/springsql/springsql/executor"
	"github.com/springsql/springsql/logger"
	"github.com/springsql/springsql/pipeline"
	"github.com/springsql/springsql/queue"
	"github.com/springsql/springsql/row"
	"github.com/springsql/springsql/task"
)

// tickBudget bounds how long a task blocks on a saturated downstream
// queue before yielding, matching the worker park cadence (spec.md §4.4).
const tickBudget = 10 * time.Millisecond

// Engine is the host-facing handle: open/command/pop/pop_non_blocking
// over a running pipeline (spec.md §4.7/§6). Every exported method is
// safe to call concurrently from multiple goroutines.
type Engine struct {
	cmdMu    sync.Mutex // serializes command() so pipeline mutation is atomic
	pipeline *pipeline.Pipeline

	repo     *queue.Repository
	exec     *executor.Executor
	compiler Compiler
	cfg      Config

	stopCh chan struct{}
}

// Open builds an Engine at the empty pipeline, starts its worker pool,
// and blocks until the pool has finished initializing, mirroring the
// teacher module's pattern of returning only a fully-ready object
// (stream.New start-up semantics generalized to a worker pool).
func Open(cfg Config, compiler Compiler) (*Engine, error) {
	if compiler == nil {
		return nil, errs.New(errs.InvalidOption, "engine.Open requires a non-nil Compiler")
	}
	if cfg.logger != nil {
		logger.SetDefault(cfg.logger)
	}

	pl := pipeline.New()
	repo := queue.NewRepository(queue.DefaultBound)
	ex := executor.New(cfg.NWorkerThreads)

	g, err := task.Build(pl, repo, cfg.ioReaderConfig(), tickBudget)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		pipeline: pl,
		repo:     repo,
		exec:     ex,
		compiler: compiler,
		cfg:      cfg,
		stopCh:   make(chan struct{}),
	}
	e.exec.Start(pl, g)
	logger.Info("engine: opened with %d worker(s)", cfg.NWorkerThreads)
	return e, nil
}

// Pipeline returns the current pipeline snapshot. Safe to call
// concurrently with Command: a snapshot already in a caller's hand never
// changes under them (spec.md §9 copy-on-write design note).
func (e *Engine) Pipeline() *pipeline.Pipeline {
	e.cmdMu.Lock()
	defer e.cmdMu.Unlock()
	return e.pipeline.Snapshot()
}

// Command compiles and applies one DDL statement. Application is atomic:
// on any failure — parse, validation, or graph rebuild — the prior
// pipeline is left fully intact and untouched at its prior version
// (spec.md §6 "atomic command failure").
func (e *Engine) Command(sql string) error {
	alter, err := e.compiler.Compile(sql)
	if err != nil {
		return err
	}

	e.cmdMu.Lock()
	defer e.cmdMu.Unlock()

	next, err := alter(e.pipeline)
	if err != nil {
		return err
	}
	if next.Version() == e.pipeline.Version() {
		// Idempotent no-op mutation (e.g. redundant ALTER PUMP START).
		e.pipeline = next
		return nil
	}

	g, err := task.Build(next, e.repo, e.cfg.ioReaderConfig(), tickBudget)
	if err != nil {
		return err
	}

	e.pipeline = next
	e.exec.UpdatePipeline(next, g)
	return nil
}

// Pop blocks until a row is available on the named in-memory sink queue,
// polling at 10ms (spec.md §6), or returns early if the engine is
// closed while waiting.
func (e *Engine) Pop(queueName string) (*row.Row, error) {
	v, err := e.repo.Pop(queueName, e.stopCh)
	if err != nil {
		return nil, err
	}
	return asRow(v)
}

// PopNonBlocking returns immediately: a row if one was queued, or ok=false.
func (e *Engine) PopNonBlocking(queueName string) (*row.Row, bool, error) {
	v, ok, err := e.repo.PopNonBlocking(queueName)
	if err != nil || !ok {
		return nil, ok, err
	}
	r, err := asRow(v)
	return r, true, err
}

func asRow(v queue.Row) (*row.Row, error) {
	r, ok := v.(*row.Row)
	if !ok {
		return nil, errs.New(errs.Internal, "sink queue carried a non-Row payload")
	}
	return r, nil
}

// Close shuts the executor down cooperatively: every worker and the
// purger drain their current tick and exit, and any goroutine blocked in
// Pop is released with an Unavailable error.
func (e *Engine) Close() {
	close(e.stopCh)
	e.exec.Shutdown()
	logger.Info("engine: closed")
}
