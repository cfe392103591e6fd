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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/springsql/springsql/errs"
)

func TestValueInt64CoercesFromText(t *testing.T) {
	v := NewValue(TypeText, "42")
	n, err := v.Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
}

func TestValueFloat64CoercesFromInt(t *testing.T) {
	v := NewValue(TypeInt, 7)
	f, err := v.Float64()
	require.NoError(t, err)
	assert.Equal(t, 7.0, f)
}

func TestNullValueCoercionsFail(t *testing.T) {
	v := NullValue(TypeInt)

	_, err := v.Int64()
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.Sql))

	_, err = v.Float64()
	require.Error(t, err)

	_, err = v.Time()
	require.Error(t, err)

	_, err = v.Bool()
	require.Error(t, err)

	assert.Equal(t, "", v.String())
	assert.Nil(t, v.Raw())
}

func TestValueStringCoercesNonTextTypes(t *testing.T) {
	v := NewValue(TypeFloat, 3.5)
	assert.Equal(t, "3.5", v.String())
}

func TestValueTimeRoundTrips(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	v := NewValue(TypeTimestamp, ts)
	got, err := v.Time()
	require.NoError(t, err)
	assert.True(t, ts.Equal(got))
}

func TestValueBoolCoercesFromText(t *testing.T) {
	v := NewValue(TypeText, "true")
	b, err := v.Bool()
	require.NoError(t, err)
	assert.True(t, b)
}

func TestValueNumericCoercionRejectsGarbage(t *testing.T) {
	v := NewValue(TypeText, "not-a-number")
	_, err := v.Int64()
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.Sql))
}

func TestSQLTypeStringNames(t *testing.T) {
	cases := map[SQLType]string{
		TypeInt:       "INT",
		TypeBigInt:    "BIGINT",
		TypeFloat:     "FLOAT",
		TypeText:      "TEXT",
		TypeBoolean:   "BOOLEAN",
		TypeTimestamp: "TIMESTAMP",
	}
	for typ, want := range cases {
		assert.Equal(t, want, typ.String())
	}
	assert.Equal(t, "UNKNOWN", SQLType(999).String())
}
