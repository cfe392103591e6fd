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
)

// Field is one labelled cell of a Tuple.
type Field struct {
	Label string
	Value Value
}

// Tuple is an intermediate row produced during query-plan evaluation, not
// yet committed to a stream shape. It carries a flat, ordered list of
// labelled values plus the event time it was derived from (needed for
// window placement upstream of any Seal).
type Tuple struct {
	Fields    []Field
	EventTime time.Time
}

// NewTuple builds an empty tuple timestamped at t.
func NewTuple(t time.Time) *Tuple {
	return &Tuple{EventTime: t}
}

// With returns a copy of the tuple with one field appended or replaced by label.
func (t *Tuple) With(label string, v Value) *Tuple {
	out := &Tuple{EventTime: t.EventTime, Fields: make([]Field, 0, len(t.Fields)+1)}
	replaced := false
	for _, f := range t.Fields {
		if f.Label == label {
			out.Fields = append(out.Fields, Field{Label: label, Value: v})
			replaced = true
			continue
		}
		out.Fields = append(out.Fields, f)
	}
	if !replaced {
		out.Fields = append(out.Fields, Field{Label: label, Value: v})
	}
	return out
}

// Get returns the value labelled name.
func (t *Tuple) Get(name string) (Value, bool) {
	for _, f := range t.Fields {
		if f.Label == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Project keeps only the fields named in labels, in that order, renaming
// per the alias map (alias may be empty to keep the original label).
// Fails with Sql if a referenced label is absent.
func (t *Tuple) Project(labels []string, alias map[string]string) (*Tuple, error) {
	out := &Tuple{EventTime: t.EventTime, Fields: make([]Field, 0, len(labels))}
	for _, l := range labels {
		v, ok := t.Get(l)
		if !ok {
			return nil, errs.Newf(errs.Sql, "projection references unknown field %q", l)
		}
		outLabel := l
		if a, ok := alias[l]; ok && a != "" {
			outLabel = a
		}
		out.Fields = append(out.Fields, Field{Label: outLabel, Value: v})
	}
	return out, nil
}

// Seal commits the tuple to a Row conforming to shape. The tuple's labelled
// values are reordered to match the downstream stream shape by column name;
// arity/type mismatch after plan validation is an Internal error since it
// should be unreachable.
func (t *Tuple) Seal(shape *Shape) (*Row, error) {
	values := make(map[string]Value, len(shape.Columns))
	for _, col := range shape.Columns {
		v, ok := t.Get(string(col.Name))
		if !ok {
			if col.Nullable {
				values[string(col.Name)] = NullValue(col.Type)
				continue
			}
			return nil, errs.Newf(errs.Internal, "tuple missing column %q at seal, plan validation should prevent this", col.Name)
		}
		values[string(col.Name)] = v
	}
	return New(shape, values, t.EventTime)
}
