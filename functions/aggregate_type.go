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

// Package functions names the aggregate-function vocabulary a
// GroupAggregateWindow node is parameterized over (plan.GroupAggregateParameter.Function,
// spec.md §3). The teacher's same-named package additionally carries a full
// math/string/datetime/json/array/hash builtin-function library for its
// rule-expression evaluator; this runtime has no caller for that library —
// EvalValueExpr (subtask/evalexpr.go) evaluates value expressions directly
// through expr-lang, which already ships its own builtin functions (abs,
// upper, lower, trim, ceil, floor, ...), so no bespoke bridge is needed. See
// DESIGN.md for the full accounting of what was trimmed and why.
package functions

// AggregateType names a single-column group-aggregate function.
type AggregateType string

const (
	Sum   AggregateType = "sum"
	Count AggregateType = "count"
	Avg   AggregateType = "avg"
	Max   AggregateType = "max"
	Min   AggregateType = "min"
)
