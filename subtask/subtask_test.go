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

package subtask

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/springsql/springsql/aggregator"
	"github.com/springsql/springsql/plan"
	"github.com/springsql/springsql/queue"
	"github.com/springsql/springsql/row"
)

func ordersShape() *row.Shape {
	return row.NewShape([]row.Column{
		{Name: "id", Type: row.TypeInt},
		{Name: "amount", Type: row.TypeFloat},
		{Name: "region", Type: row.TypeText},
	}, "")
}

func pushOrder(t *testing.T, f *queue.FIFO, id int, amount float64, region string, at time.Time) {
	t.Helper()
	r, err := row.New(ordersShape(), map[string]row.Value{
		"id":     row.NewValue(row.TypeInt, id),
		"amount": row.NewValue(row.TypeFloat, amount),
		"region": row.NewValue(row.TypeText, region),
	}, at)
	require.NoError(t, err)
	require.NoError(t, f.Push(r, 0))
}

func singleEdge(f *queue.FIFO) func(string) *queue.FIFO {
	return func(string) *queue.FIFO { return f }
}

func TestCollectOnlyPlanYieldsOneTuplePerRow(t *testing.T) {
	edge := queue.NewFIFO(0)
	p := plan.New()
	p.Root = p.Add(plan.Node{Kind: plan.Collect, UpstreamStream: "orders"})

	tree, err := Build(p, singleEdge(edge))
	require.NoError(t, err)

	_, ok, err := tree.Run()
	require.NoError(t, err)
	assert.False(t, ok, "empty queue must yield ok=false with no error")

	pushOrder(t, edge, 1, 9.5, "east", time.Unix(1, 0))
	res, ok, err := tree.Run()
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, res.Tuples, 1)
	v, found := res.Tuples[0].Get("region")
	require.True(t, found)
	assert.Equal(t, "east", v.String())
	assert.Equal(t, int64(1), res.Metrics.RowsConsumed)
}

func TestProjectionRenamesField(t *testing.T) {
	edge := queue.NewFIFO(0)
	p := plan.New()
	collect := p.Add(plan.Node{Kind: plan.Collect, UpstreamStream: "orders"})
	p.Root = p.Add(plan.Node{
		Kind:          plan.Projection,
		ProjectFields: []string{"id", "amount"},
		ProjectAlias:  map[string]string{"amount": "total"},
		Children:      []int{collect},
	})

	tree, err := Build(p, singleEdge(edge))
	require.NoError(t, err)

	pushOrder(t, edge, 1, 42.0, "east", time.Unix(1, 0))
	res, ok, err := tree.Run()
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, res.Tuples, 1)

	_, hasRegion := res.Tuples[0].Get("region")
	assert.False(t, hasRegion, "projection must drop unselected fields")

	total, ok := res.Tuples[0].Get("total")
	require.True(t, ok)
	f, err := total.Float64()
	require.NoError(t, err)
	assert.Equal(t, 42.0, f)
}

func TestEvalValueExprComputesAndAppendsField(t *testing.T) {
	edge := queue.NewFIFO(0)
	p := plan.New()
	collect := p.Add(plan.Node{Kind: plan.Collect, UpstreamStream: "orders"})
	evalNode := p.Add(plan.Node{
		Kind:        plan.EvalValueExpr,
		Expression:  "amount * 2",
		OutputLabel: "doubled",
		Children:    []int{collect},
	})
	p.Root = p.Add(plan.Node{
		Kind:          plan.Projection,
		ProjectFields: []string{"id", "doubled"},
		Children:      []int{evalNode},
	})

	tree, err := Build(p, singleEdge(edge))
	require.NoError(t, err)

	pushOrder(t, edge, 1, 21.0, "east", time.Unix(1, 0))
	res, ok, err := tree.Run()
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, res.Tuples, 1)

	doubled, ok := res.Tuples[0].Get("doubled")
	require.True(t, ok)
	f, err := doubled.Float64()
	require.NoError(t, err)
	assert.Equal(t, 42.0, f)
}

func TestEvalValueExprDivisionByZeroReturnsSqlError(t *testing.T) {
	edge := queue.NewFIFO(0)
	p := plan.New()
	collect := p.Add(plan.Node{Kind: plan.Collect, UpstreamStream: "orders"})
	p.Root = p.Add(plan.Node{
		Kind:        plan.EvalValueExpr,
		Expression:  "id / 0",
		OutputLabel: "bad",
		Children:    []int{collect},
	})

	tree, err := Build(p, singleEdge(edge))
	require.NoError(t, err)

	pushOrder(t, edge, 1, 1.0, "east", time.Unix(1, 0))
	_, _, err = tree.Run()
	require.Error(t, err)
}

func TestGroupAggregateWindowEmitsOnWatermarkAdvance(t *testing.T) {
	edge := queue.NewFIFO(0)
	p := plan.New()
	collect := p.Add(plan.Node{Kind: plan.Collect, UpstreamStream: "orders"})
	p.Root = p.Add(plan.Node{
		Kind: plan.GroupAggregateWindow,
		Window: plan.WindowParameter{
			Kind:   plan.TimeTumbling,
			Length: int64(time.Second),
			Period: int64(time.Second),
		},
		GroupAggregate: plan.GroupAggregateParameter{
			GroupByField:    "region",
			AggregatedField: "amount",
			AggregatedAlias: "avg_amount",
			Function:        aggregator.Avg,
		},
		Children: []int{collect},
	})

	tree, err := Build(p, singleEdge(edge))
	require.NoError(t, err)

	pushOrder(t, edge, 1, 10.0, "east", time.Unix(0, 0))
	res, ok, err := tree.Run()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, res.Tuples, "pane must not emit before the watermark passes its end")

	pushOrder(t, edge, 2, 30.0, "east", time.Unix(1, 0))
	res, ok, err = tree.Run()
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, res.Tuples, 1)

	avg, ok := res.Tuples[0].Get("avg_amount")
	require.True(t, ok)
	f, err := avg.Float64()
	require.NoError(t, err)
	assert.Equal(t, 10.0, f)
}

func TestJoinEmitsOnMatchingKeyWhenRightSideArrivesFirst(t *testing.T) {
	leftEdge := queue.NewFIFO(0)
	rightEdge := queue.NewFIFO(0)

	p := plan.New()
	left := p.Add(plan.Node{Kind: plan.Collect, UpstreamStream: "orders"})
	right := p.Add(plan.Node{Kind: plan.Collect, UpstreamStream: "customers"})
	p.Root = p.Add(plan.Node{
		Kind:         plan.Join,
		OnLeftField:  "customer_id",
		OnRightField: "id",
		Children:     []int{left, right},
	})

	edgeFor := func(name string) *queue.FIFO {
		if name == "orders" {
			return leftEdge
		}
		return rightEdge
	}
	tree, err := Build(p, edgeFor)
	require.NoError(t, err)

	customerShape := row.NewShape([]row.Column{
		{Name: "id", Type: row.TypeInt},
		{Name: "name", Type: row.TypeText},
	}, "")
	custRow, err := row.New(customerShape, map[string]row.Value{
		"id":   row.NewValue(row.TypeInt, 7),
		"name": row.NewValue(row.TypeText, "acme"),
	}, time.Unix(1, 0))
	require.NoError(t, err)
	require.NoError(t, rightEdge.Push(custRow, 0))

	orderShape := row.NewShape([]row.Column{
		{Name: "customer_id", Type: row.TypeInt},
		{Name: "amount", Type: row.TypeFloat},
	}, "")
	orderRow, err := row.New(orderShape, map[string]row.Value{
		"customer_id": row.NewValue(row.TypeInt, 7),
		"amount":      row.NewValue(row.TypeFloat, 5.0),
	}, time.Unix(2, 0))
	require.NoError(t, err)
	require.NoError(t, leftEdge.Push(orderRow, 0))

	res, ok, err := tree.Run()
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, res.Tuples, 1)

	name, found := res.Tuples[0].Get("name")
	require.True(t, found)
	assert.Equal(t, "acme", name.String())
}

func TestPurgeWindowsResetsAggregateStateWithoutEmitting(t *testing.T) {
	edge := queue.NewFIFO(0)
	p := plan.New()
	collect := p.Add(plan.Node{Kind: plan.Collect, UpstreamStream: "orders"})
	p.Root = p.Add(plan.Node{
		Kind: plan.GroupAggregateWindow,
		Window: plan.WindowParameter{
			Kind: plan.TimeTumbling, Length: int64(time.Second), Period: int64(time.Second),
		},
		GroupAggregate: plan.GroupAggregateParameter{
			GroupByField: "region", AggregatedField: "amount",
			AggregatedAlias: "total", Function: aggregator.Sum,
		},
		Children: []int{collect},
	})

	tree, err := Build(p, singleEdge(edge))
	require.NoError(t, err)

	pushOrder(t, edge, 1, 5.0, "east", time.Unix(0, 0))
	_, ok, err := tree.Run()
	require.NoError(t, err)
	require.True(t, ok)

	tree.PurgeWindows()

	pushOrder(t, edge, 2, 999.0, "east", time.Unix(5, 0))
	res, ok, err := tree.Run()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, res.Tuples, "the purged pane must not be emitted")

	pushOrder(t, edge, 3, 1.0, "east", time.Unix(6, 0))
	res, ok, err = tree.Run()
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, res.Tuples, 1)

	total, found := res.Tuples[0].Get("total")
	require.True(t, found)
	f, err := total.Float64()
	require.NoError(t, err)
	assert.Equal(t, 999.0, f, "purge must have discarded the earlier 5.0 contribution")
}

func TestBuildRejectsEmptyPlan(t *testing.T) {
	p := plan.New()
	_, err := Build(p, singleEdge(queue.NewFIFO(0)))
	require.Error(t, err)
}
