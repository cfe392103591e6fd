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

// Package row holds the typed value cells, stream-bound rows, and the
// flat intermediate tuples produced while a query plan is evaluated.
package row

import (
	"time"

	"github.com/spf13/cast"

	"github.com/springsql/springsql/errs"
)

// SQLType enumerates the value types a column or tuple cell may carry.
type SQLType int

const (
	TypeInt SQLType = iota
	TypeBigInt
	TypeFloat
	TypeText
	TypeBoolean
	TypeTimestamp
)

// String returns the SQL keyword for t.
func (t SQLType) String() string {
	switch t {
	case TypeInt:
		return "INT"
	case TypeBigInt:
		return "BIGINT"
	case TypeFloat:
		return "FLOAT"
	case TypeText:
		return "TEXT"
	case TypeBoolean:
		return "BOOLEAN"
	case TypeTimestamp:
		return "TIMESTAMP"
	default:
		return "UNKNOWN"
	}
}

// Value is one typed cell. The zero Value is a null of unspecified type.
type Value struct {
	Type SQLType
	Null bool
	raw  interface{}
}

// NewValue builds a non-null Value of the given type.
func NewValue(t SQLType, raw interface{}) Value {
	return Value{Type: t, raw: raw}
}

// NullValue builds a null Value of the given type.
func NullValue(t SQLType) Value {
	return Value{Type: t, Null: true}
}

// Raw returns the untyped payload (nil if Null).
func (v Value) Raw() interface{} {
	return v.raw
}

// Int64 coerces the value to int64 via cast, tolerant of INT/BIGINT/FLOAT/TEXT inputs.
func (v Value) Int64() (int64, error) {
	if v.Null {
		return 0, errs.New(errs.Sql, "cannot coerce null value to int64")
	}
	n, err := cast.ToInt64E(v.raw)
	if err != nil {
		return 0, errs.Wrap(errs.Sql, err, "value is not numeric")
	}
	return n, nil
}

// Float64 coerces the value to float64 via cast.
func (v Value) Float64() (float64, error) {
	if v.Null {
		return 0, errs.New(errs.Sql, "cannot coerce null value to float64")
	}
	f, err := cast.ToFloat64E(v.raw)
	if err != nil {
		return 0, errs.Wrap(errs.Sql, err, "value is not numeric")
	}
	return f, nil
}

// String coerces the value to string via cast.
func (v Value) String() string {
	if v.Null {
		return ""
	}
	return cast.ToString(v.raw)
}

// Time coerces the value to time.Time via cast (accepts RFC 3339 text or a
// native time.Time/int64 unix timestamp).
func (v Value) Time() (time.Time, error) {
	if v.Null {
		return time.Time{}, errs.New(errs.Sql, "cannot coerce null value to timestamp")
	}
	t, err := cast.ToTimeE(v.raw)
	if err != nil {
		return time.Time{}, errs.Wrap(errs.Sql, err, "value is not a timestamp")
	}
	return t, nil
}

// Bool coerces the value to bool via cast.
func (v Value) Bool() (bool, error) {
	if v.Null {
		return false, errs.New(errs.Sql, "cannot coerce null value to bool")
	}
	b, err := cast.ToBoolE(v.raw)
	if err != nil {
		return false, errs.Wrap(errs.Sql, err, "value is not boolean")
	}
	return b, nil
}
