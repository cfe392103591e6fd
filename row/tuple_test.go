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

func TestTupleWithAppendsThenReplaces(t *testing.T) {
	tup := NewTuple(time.Unix(1, 0))
	tup = tup.With("a", NewValue(TypeInt, 1))
	tup = tup.With("b", NewValue(TypeInt, 2))
	tup = tup.With("a", NewValue(TypeInt, 99))

	require.Len(t, tup.Fields, 2)
	a, ok := tup.Get("a")
	require.True(t, ok)
	n, err := a.Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(99), n)
}

func TestTupleWithDoesNotMutateOriginal(t *testing.T) {
	original := NewTuple(time.Now()).With("a", NewValue(TypeInt, 1))
	derived := original.With("a", NewValue(TypeInt, 2))

	av, _ := original.Get("a")
	dv, _ := derived.Get("a")

	an, _ := av.Int64()
	dn, _ := dv.Int64()
	assert.Equal(t, int64(1), an)
	assert.Equal(t, int64(2), dn)
}

func TestTupleProjectRenamesAndOrders(t *testing.T) {
	tup := NewTuple(time.Now()).
		With("x", NewValue(TypeInt, 1)).
		With("y", NewValue(TypeInt, 2))

	out, err := tup.Project([]string{"y", "x"}, map[string]string{"y": "total"})
	require.NoError(t, err)
	require.Len(t, out.Fields, 2)
	assert.Equal(t, "total", out.Fields[0].Label)
	assert.Equal(t, "x", out.Fields[1].Label)
}

func TestTupleProjectRejectsUnknownField(t *testing.T) {
	tup := NewTuple(time.Now()).With("x", NewValue(TypeInt, 1))
	_, err := tup.Project([]string{"missing"}, nil)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.Sql))
}

func TestTupleSealProducesConformantRow(t *testing.T) {
	shape := NewShape([]Column{
		{Name: "id", Type: TypeInt, Nullable: false},
		{Name: "note", Type: TypeText, Nullable: true},
	}, "")

	eventTime := time.Unix(42, 0)
	tup := NewTuple(eventTime).With("id", NewValue(TypeInt, 7))

	r, err := tup.Seal(shape)
	require.NoError(t, err)
	assert.True(t, eventTime.Equal(r.EventTime()))

	note, ok := r.Get("note")
	require.True(t, ok)
	assert.True(t, note.Null)
}

func TestTupleSealFailsInternalOnMissingNonNullableColumn(t *testing.T) {
	shape := NewShape([]Column{
		{Name: "id", Type: TypeInt, Nullable: false},
	}, "")
	tup := NewTuple(time.Now())

	_, err := tup.Seal(shape)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.Internal))
}
