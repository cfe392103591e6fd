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

package task

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/springsql/springsql/errs"
	"github.com/springsql/springsql/ident"
	"github.com/springsql/springsql/ioreader"
	"github.com/springsql/springsql/plan"
	"github.com/springsql/springsql/queue"
	"github.com/springsql/springsql/row"
	"github.com/springsql/springsql/subtask"
)

func testShape() *row.Shape {
	return row.NewShape([]row.Column{{Name: "id", Type: row.TypeInt}}, "")
}

func testRow(t *testing.T, id int) *row.Row {
	t.Helper()
	r, err := row.New(testShape(), map[string]row.Value{"id": row.NewValue(row.TypeInt, id)}, time.Unix(1, 0))
	require.NoError(t, err)
	return r
}

// fakeReader yields rows from a fixed queue, then returns a foreign-I/O
// error forever once exhausted, or always fails if failAlways is set.
type fakeReader struct {
	rows       []*row.Row
	failAlways bool
}

func (f *fakeReader) Start(context.Context, ident.Options, ioreader.Config, *row.Shape) error {
	return nil
}
func (f *fakeReader) NextRow(context.Context) (*row.Row, error) {
	if f.failAlways || len(f.rows) == 0 {
		return nil, errs.New(errs.ForeignIo, "no more rows")
	}
	r := f.rows[0]
	f.rows = f.rows[1:]
	return r, nil
}
func (f *fakeReader) Close() error { return nil }

type fakeWriter struct {
	written    []*row.Row
	failNTimes int
}

func (f *fakeWriter) Start(context.Context, ident.Options, ioreader.Config) error { return nil }
func (f *fakeWriter) WriteRow(_ context.Context, r *row.Row) error {
	if f.failNTimes > 0 {
		f.failNTimes--
		return errs.New(errs.ForeignIo, "transient write failure")
	}
	f.written = append(f.written, r)
	return nil
}
func (f *fakeWriter) Close() error { return nil }

func TestSourceRunPushesOneRowDownstream(t *testing.T) {
	reader := &fakeReader{rows: []*row.Row{testRow(t, 1)}}
	downstream := queue.NewFIFO(0)
	src := NewSource("src1", reader, downstream, 0)

	status, err := src.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Yielded, status)
	assert.Equal(t, 1, downstream.Depth())
}

func TestSourceRunBacksOffOnForeignIoFailureWithoutHalting(t *testing.T) {
	reader := &fakeReader{failAlways: true}
	downstream := queue.NewFIFO(0)
	src := NewSource("src1", reader, downstream, 0)

	status, err := src.Run(context.Background())
	require.NoError(t, err, "transient foreign-I/O errors must not surface to the caller")
	assert.Equal(t, NoWork, status)
	assert.Equal(t, int64(1), src.ErrorCount())
}

func TestSinkRunWritesPoppedRow(t *testing.T) {
	upstream := queue.NewFIFO(0)
	require.NoError(t, upstream.Push(testRow(t, 1), 0))
	writer := &fakeWriter{}
	sink := NewSink("sink1", writer, upstream)

	status, err := sink.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Yielded, status)
	require.Len(t, writer.written, 1)
	assert.Equal(t, 0, upstream.Depth())
}

func TestSinkRunRequeuesRowOnTransientWriteFailure(t *testing.T) {
	upstream := queue.NewFIFO(0)
	require.NoError(t, upstream.Push(testRow(t, 1), 0))
	writer := &fakeWriter{failNTimes: 1}
	sink := NewSink("sink1", writer, upstream)

	status, err := sink.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NoWork, status)
	assert.Equal(t, 1, upstream.Depth(), "a failed write must re-push the row rather than drop it")
	assert.Equal(t, int64(1), sink.ErrorCount())
}

func TestSinkRunNoWorkOnEmptyQueue(t *testing.T) {
	upstream := queue.NewFIFO(0)
	sink := NewSink("sink1", &fakeWriter{}, upstream)

	status, err := sink.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NoWork, status)
}

func buildPassthroughPump(t *testing.T, upstream, downstream *queue.FIFO) *Pump {
	t.Helper()
	p := plan.New()
	p.Root = p.Add(plan.Node{Kind: plan.Collect, UpstreamStream: "orders"})
	tree, err := subtask.Build(p, func(string) *queue.FIFO { return upstream })
	require.NoError(t, err)
	return NewPump("pump1", tree, testShape(), downstream, 0)
}

func TestPumpRunSealsAndPushesTuplesDownstream(t *testing.T) {
	upstream := queue.NewFIFO(0)
	downstream := queue.NewFIFO(0)
	require.NoError(t, upstream.Push(testRow(t, 7), 0))

	pump := buildPassthroughPump(t, upstream, downstream)
	status, err := pump.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Yielded, status)
	assert.Equal(t, 1, downstream.Depth())
}

func TestPumpRunNoWorkOnEmptyUpstream(t *testing.T) {
	upstream := queue.NewFIFO(0)
	downstream := queue.NewFIFO(0)
	pump := buildPassthroughPump(t, upstream, downstream)

	status, err := pump.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NoWork, status)
}

func TestTaskKindOrderingMatchesPrioritySpec(t *testing.T) {
	assert.Less(t, int(SinkKind), int(PumpKind))
	assert.Less(t, int(PumpKind), int(SourceKind))
}
