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

import "github.com/springsql/springsql/pipeline"

// AlterPipeline is one compiled DDL statement: a pure function from a
// base pipeline snapshot to its successor. The compiler collaborator
// (package ddlcompiler, or any alternative grammar a host swaps in)
// returns one of these per statement; the engine applies it under its
// command mutex and either commits the result or discards it entirely,
// so a single statement's failure never leaves a partially-mutated
// pipeline (spec.md §6 "atomic command failure").
type AlterPipeline func(base *pipeline.Pipeline) (*pipeline.Pipeline, error)

// Compiler translates one SQL statement into an AlterPipeline. It is the
// delegated collaborator spec.md §6 names: the engine depends only on
// this interface, so the real grammar can be swapped in without
// touching the runtime.
type Compiler interface {
	Compile(sql string) (AlterPipeline, error)
}
