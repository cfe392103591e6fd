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

package task

import (
	"context"
	"time"

	"github.com/springsql/springsql/errs"
	"github.com/springsql/springsql/ioreader"
	"github.com/springsql/springsql/pipeline"
	"github.com/springsql/springsql/queue"
	"github.com/springsql/springsql/subtask"
)

// Graph is the derived, runnable form of a pipeline.Pipeline: one task
// per Started pump, per source reader, and per sink writer. It is
// rebuilt at every pipeline version bump and swapped into workers as a
// whole (spec.md §4.5/§4.6): there is no incremental patching.
type Graph struct {
	Version int64
	tasks   []Task
}

// Tasks returns every task in the graph, in no particular order; the
// scheduler is responsible for ordering by priority and depth.
func (g *Graph) Tasks() []Task { return g.tasks }

// Build derives a Graph from pl. repo supplies the per-stream inter-task
// queues; ioCfg carries the connect/read/write timeouts from engine
// configuration; pushBudget bounds how long a task blocks on a saturated
// downstream queue before yielding.
func Build(pl *pipeline.Pipeline, repo *queue.Repository, ioCfg ioreader.Config, pushBudget time.Duration) (*Graph, error) {
	g := &Graph{Version: pl.Version()}

	for _, src := range pl.AllSources() {
		stream, ok := pl.GetStream(string(src.Stream))
		if !ok {
			return nil, errs.Newf(errs.Internal, "source reader %q references missing stream %q", src.Name, src.Stream)
		}
		reader, err := ioreader.NewSource(src.Type)
		if err != nil {
			return nil, err
		}
		if err := reader.Start(context.Background(), src.Options, ioCfg, stream.Shape); err != nil {
			return nil, err
		}
		downstream := repo.Edge(string(src.Stream))
		g.tasks = append(g.tasks, NewSource(string(src.Name), reader, downstream, pushBudget))
	}

	for _, sink := range pl.AllSinks() {
		var writer ioreader.SinkWriter
		var err error
		if sink.Type == "IN_MEMORY_QUEUE" {
			writer, err = ioreader.NewMemQueueSink(repo, string(sink.Name))
		} else {
			writer, err = ioreader.NewSink(sink.Type)
			if err == nil {
				err = writer.Start(context.Background(), sink.Options, ioCfg)
			}
		}
		if err != nil {
			return nil, err
		}
		upstream := repo.Edge(string(sink.Stream))
		g.tasks = append(g.tasks, NewSink(string(sink.Name), writer, upstream))
	}

	for _, pump := range pl.AllPumps() {
		if pump.State != pipeline.Started {
			continue
		}
		downstreamModel, ok := pl.GetStream(string(pump.DownstreamStream))
		if !ok {
			return nil, errs.Newf(errs.Internal, "pump %q references missing downstream stream %q", pump.Name, pump.DownstreamStream)
		}
		tree, err := subtask.Build(pump.Plan, func(streamName string) *queue.FIFO {
			return repo.Edge(streamName)
		})
		if err != nil {
			return nil, err
		}
		downstream := repo.Edge(string(pump.DownstreamStream))
		g.tasks = append(g.tasks, NewPump(string(pump.Name), tree, downstreamModel.Shape, downstream, pushBudget))
	}

	return g, nil
}
