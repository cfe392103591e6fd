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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCreateStreamWithRowtimeAndNullability(t *testing.T) {
	p := newParser(`CREATE STREAM orders (id INT NOT NULL, note TEXT) ROWTIME ts;`)
	p.nextToken() // consume CREATE
	p.nextToken() // consume STREAM, mirroring parseCreate's dispatch
	stmt, err := p.parseCreateStream(plainStream)
	require.NoError(t, err)
	s := stmt.(*createStreamStmt)
	assert.Equal(t, "orders", s.name)
	require.Len(t, s.columns, 2)
	assert.False(t, s.columns[0].nullable)
	assert.True(t, s.columns[1].nullable)
	assert.Equal(t, "ts", s.rowtimeCol)
}

func TestParseStatementDispatchesCreatePump(t *testing.T) {
	p := newParser(`CREATE PUMP p1 AS INSERT INTO out SELECT a, b FROM in;`)
	stmt, err := p.parseStatement()
	require.NoError(t, err)
	pump, ok := stmt.(*createPumpStmt)
	require.True(t, ok)
	assert.Equal(t, "p1", pump.name)
	assert.Equal(t, "out", pump.downstream)
	assert.Equal(t, "in", pump.upstream)
	require.Len(t, pump.items, 2)
}

func TestParseStatementRejectsUnknownLeadingKeyword(t *testing.T) {
	p := newParser(`SELECT * FROM orders;`)
	_, err := p.parseStatement()
	require.Error(t, err)
}

func TestParseAlterRequiresStartOrStop(t *testing.T) {
	p := newParser(`ALTER PUMP p1 FROBNICATE;`)
	_, err := p.parseStatement()
	require.Error(t, err)
}

func TestParseWindowSlidingCapturesLengthAndPeriod(t *testing.T) {
	p := newParser(`SLIDING(5000, 1000)`)
	win, err := p.parseWindow()
	require.NoError(t, err)
	assert.True(t, win.sliding)
	assert.Equal(t, int64(5000), win.lengthMillis)
	assert.Equal(t, int64(1000), win.periodMillis)
}

func TestIsAggregateFuncRecognizesKnownFunctions(t *testing.T) {
	assert.True(t, isAggregateFunc("SUM"))
	assert.True(t, isAggregateFunc("avg"))
	assert.False(t, isAggregateFunc("id"))
}
