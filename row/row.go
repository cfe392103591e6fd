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

package row

import (
	"time"

	"github.com/springsql/springsql/errs"
	"github.com/springsql/springsql/ident"
)

// Column describes one shape element: its name, declared SQL type, and
// whether null is permitted.
type Column struct {
	Name     ident.Name
	Type     SQLType
	Nullable bool
}

// Shape is the immutable, ordered column list a stream is declared with.
// Once built it is never mutated; every Row bound to a stream shares the
// same *Shape by reference.
type Shape struct {
	Columns  []Column
	rowtime  string
	hasRowtime bool
}

// NewShape builds a Shape. rowtimeColumn is the name of the column to use
// as event time, or "" if rows should be timestamped on arrival.
func NewShape(columns []Column, rowtimeColumn string) *Shape {
	s := &Shape{Columns: columns}
	if rowtimeColumn != "" {
		s.rowtime = rowtimeColumn
		s.hasRowtime = true
	}
	return s
}

// Index returns the position of a column by name, or -1.
func (s *Shape) Index(name string) int {
	for i, c := range s.Columns {
		if string(c.Name) == name {
			return i
		}
	}
	return -1
}

// Row is a typed record bound to a stream Shape. column_values is complete:
// every column in shape has an entry, type-conformant with its declared type.
type Row struct {
	shape     *Shape
	values    map[string]Value
	eventTime time.Time
}

// New builds a Row bound to shape. values must supply every column in
// shape; missing non-nullable columns are a ForeignIo error, missing nullable
// columns are filled with an explicit null. arrival is used as event_time
// when shape has no ROWTIME column.
func New(shape *Shape, values map[string]Value, arrival time.Time) (*Row, error) {
	complete := make(map[string]Value, len(shape.Columns))
	for _, col := range shape.Columns {
		v, ok := values[string(col.Name)]
		if !ok {
			if col.Nullable {
				complete[string(col.Name)] = NullValue(col.Type)
				continue
			}
			return nil, errs.Newf(errs.ForeignIo, "missing required column %q", col.Name)
		}
		complete[string(col.Name)] = v
	}

	eventTime := arrival
	if shape.hasRowtime {
		rt, ok := complete[shape.rowtime]
		if !ok || rt.Null {
			return nil, errs.Newf(errs.ForeignIo, "rowtime column %q missing or null", shape.rowtime)
		}
		t, err := rt.Time()
		if err != nil {
			return nil, err
		}
		eventTime = t
	}

	return &Row{shape: shape, values: complete, eventTime: eventTime}, nil
}

// Shape returns the bound shape.
func (r *Row) Shape() *Shape { return r.shape }

// EventTime returns the row's event time.
func (r *Row) EventTime() time.Time { return r.eventTime }

// Get returns the value of a column by name.
func (r *Row) Get(name string) (Value, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Values returns a copy of the column->value map.
func (r *Row) Values() map[string]Value {
	out := make(map[string]Value, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}
