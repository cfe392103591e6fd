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

package ddlcompiler

import "github.com/springsql/springsql/aggregator"

// streamKind distinguishes the three CREATE STREAM variants; all three
// produce the same StreamModel, differing only in whether a source
// reader/sink writer is implied to attach later.
type streamKind int

const (
	plainStream streamKind = iota
	sourceStream
	sinkStream
)

type columnDef struct {
	name     string
	typeName string
	nullable bool
}

type createStreamStmt struct {
	kind       streamKind
	name       string
	columns    []columnDef
	rowtimeCol string
}

// selectItemKind tags one SELECT list entry.
type selectItemKind int

const (
	itemColumn selectItemKind = iota
	itemExpr
	itemAggregate
)

type selectItem struct {
	kind  selectItemKind
	alias string

	column string // itemColumn

	expr string // itemExpr: expr-lang source, referencing upstream column names

	aggFunc  aggregator.AggregateType // itemAggregate
	aggField string
}

type windowSpec struct {
	sliding       bool
	lengthMillis  int64
	periodMillis  int64
}

type createPumpStmt struct {
	name       string
	downstream string
	upstream   string
	items      []selectItem
	groupBy    string
	window     *windowSpec
}

type createSourceReaderStmt struct {
	name     string
	stream   string
	typeName string
	options  map[string]string
}

type createSinkWriterStmt struct {
	name     string
	stream   string
	typeName string
	options  map[string]string
}

type alterPumpStmt struct {
	name  string
	start bool
}
