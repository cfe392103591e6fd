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

import (
	"time"

	"github.com/springsql/springsql/engine"
	"github.com/springsql/springsql/errs"
	"github.com/springsql/springsql/ident"
	"github.com/springsql/springsql/pipeline"
	"github.com/springsql/springsql/plan"
	"github.com/springsql/springsql/row"
)

// Compiler is the default engine.Compiler implementation: the hand-rolled
// grammar in this package, covering exactly the statements spec.md §6
// enumerates.
type Compiler struct{}

// New returns a ready-to-use Compiler.
func New() *Compiler { return &Compiler{} }

// Compile parses one DDL statement and returns the AlterPipeline the
// engine should apply.
func (c *Compiler) Compile(sql string) (engine.AlterPipeline, error) {
	p := newParser(sql)
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, errs.Wrap(errs.Sql, err, "failed to parse statement")
	}

	switch s := stmt.(type) {
	case *createStreamStmt:
		return compileCreateStream(s)
	case *createPumpStmt:
		return compileCreatePump(s)
	case *createSourceReaderStmt:
		return compileCreateSourceReader(s)
	case *createSinkWriterStmt:
		return compileCreateSinkWriter(s)
	case *alterPumpStmt:
		return compileAlterPump(s)
	default:
		return nil, errs.New(errs.Internal, "parser returned an unrecognized statement type")
	}
}

func parseSQLType(name string) (row.SQLType, error) {
	switch name {
	case "INT":
		return row.TypeInt, nil
	case "BIGINT":
		return row.TypeBigInt, nil
	case "FLOAT":
		return row.TypeFloat, nil
	case "TEXT":
		return row.TypeText, nil
	case "BOOLEAN":
		return row.TypeBoolean, nil
	case "TIMESTAMP":
		return row.TypeTimestamp, nil
	default:
		return 0, errs.Newf(errs.Sql, "unknown column type %q", name)
	}
}

func compileCreateStream(s *createStreamStmt) (engine.AlterPipeline, error) {
	name, err := ident.NewName(s.name)
	if err != nil {
		return nil, err
	}
	columns := make([]row.Column, 0, len(s.columns))
	for _, c := range s.columns {
		t, err := parseSQLType(c.typeName)
		if err != nil {
			return nil, err
		}
		colName, err := ident.NewName(c.name)
		if err != nil {
			return nil, err
		}
		columns = append(columns, row.Column{Name: colName, Type: t, Nullable: c.nullable})
	}
	shape := row.NewShape(columns, s.rowtimeCol)

	return func(base *pipeline.Pipeline) (*pipeline.Pipeline, error) {
		return base.AddStream(pipeline.StreamModel{Name: name, Shape: shape})
	}, nil
}

func compileCreateSourceReader(s *createSourceReaderStmt) (engine.AlterPipeline, error) {
	name, err := ident.NewName(s.name)
	if err != nil {
		return nil, err
	}
	stream, err := ident.NewName(s.stream)
	if err != nil {
		return nil, err
	}
	opts := ident.Options(s.options)

	return func(base *pipeline.Pipeline) (*pipeline.Pipeline, error) {
		return base.AddSourceReader(pipeline.SourceReaderModel{
			Name: name, Stream: stream, Type: s.typeName, Options: opts,
		})
	}, nil
}

func compileCreateSinkWriter(s *createSinkWriterStmt) (engine.AlterPipeline, error) {
	name, err := ident.NewName(s.name)
	if err != nil {
		return nil, err
	}
	stream, err := ident.NewName(s.stream)
	if err != nil {
		return nil, err
	}
	opts := ident.Options(s.options)

	return func(base *pipeline.Pipeline) (*pipeline.Pipeline, error) {
		return base.AddSinkWriter(pipeline.SinkWriterModel{
			Name: name, Stream: stream, Type: s.typeName, Options: opts,
		})
	}, nil
}

func compileAlterPump(s *alterPumpStmt) (engine.AlterPipeline, error) {
	return func(base *pipeline.Pipeline) (*pipeline.Pipeline, error) {
		if s.start {
			return base.StartPump(s.name)
		}
		return base.StopPump(s.name)
	}, nil
}

func compileCreatePump(s *createPumpStmt) (engine.AlterPipeline, error) {
	name, err := ident.NewName(s.name)
	if err != nil {
		return nil, err
	}
	upstream, err := ident.NewName(s.upstream)
	if err != nil {
		return nil, err
	}
	downstream, err := ident.NewName(s.downstream)
	if err != nil {
		return nil, err
	}

	p, err := buildPumpPlan(s)
	if err != nil {
		return nil, err
	}

	return func(base *pipeline.Pipeline) (*pipeline.Pipeline, error) {
		return base.AddPump(pipeline.PumpModel{
			Name:             name,
			UpstreamStream:   upstream,
			DownstreamStream: downstream,
			Plan:             p,
		})
	}, nil
}

// buildPumpPlan translates a parsed SELECT into a plan.Plan: a single
// Collect leaf over the upstream stream, either rooted directly by a
// GroupAggregateWindow (group-aggregate pumps reference raw upstream
// field names and need no projection ahead of the window) or by a chain
// of EvalValueExpr nodes (one per computed SELECT item) topped by a
// Projection that assembles the final output field set.
func buildPumpPlan(s *createPumpStmt) (*plan.Plan, error) {
	p := plan.New()
	collect := p.Add(plan.Node{Kind: plan.Collect, UpstreamStream: s.upstream})

	if s.window != nil {
		if len(s.items) != 2 {
			return nil, errs.New(errs.Sql, "a windowed pump's SELECT list must be exactly `<group field>, <AGG>(<field>) [AS alias]`")
		}
		var agg *selectItem
		for i := range s.items {
			if s.items[i].kind == itemAggregate {
				agg = &s.items[i]
			}
		}
		if agg == nil {
			return nil, errs.New(errs.Sql, "a windowed pump's SELECT list must contain exactly one aggregate function")
		}

		kind := plan.TimeTumbling
		if s.window.sliding {
			kind = plan.TimeSliding
		}
		p.Root = p.Add(plan.Node{
			Kind: plan.GroupAggregateWindow,
			Window: plan.WindowParameter{
				Kind:   kind,
				Length: s.window.lengthMillis * int64(time.Millisecond),
				Period: s.window.periodMillis * int64(time.Millisecond),
			},
			GroupAggregate: plan.GroupAggregateParameter{
				GroupByField:    s.groupBy,
				AggregatedField: agg.aggField,
				AggregatedAlias: agg.alias,
				Function:        agg.aggFunc,
			},
			Children: []int{collect},
		})
		return p, nil
	}

	cur := collect
	var fields []string
	alias := map[string]string{}
	for _, item := range s.items {
		switch item.kind {
		case itemColumn:
			fields = append(fields, item.column)
			if item.alias != item.column {
				alias[item.column] = item.alias
			}
		case itemExpr:
			cur = p.Add(plan.Node{
				Kind:        plan.EvalValueExpr,
				Expression:  item.expr,
				OutputLabel: item.alias,
				Children:    []int{cur},
			})
			fields = append(fields, item.alias)
		case itemAggregate:
			return nil, errs.New(errs.Sql, "an aggregate function requires a GROUP BY clause with a window")
		}
	}

	p.Root = p.Add(plan.Node{
		Kind:          plan.Projection,
		ProjectFields: fields,
		ProjectAlias:  alias,
		Children:      []int{cur},
	})
	return p, nil
}
