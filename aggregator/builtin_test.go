package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateTypeConstantsRoundTripThroughFunctions(t *testing.T) {
	assert.Equal(t, AggregateType("sum"), Sum)
	assert.Equal(t, AggregateType("count"), Count)
	assert.Equal(t, AggregateType("avg"), Avg)
	assert.Equal(t, AggregateType("max"), Max)
	assert.Equal(t, AggregateType("min"), Min)
}
