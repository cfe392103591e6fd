// Package aggregator re-exports the aggregate-function vocabulary that
// plan, window, and subtask actually key a GroupAggregateWindow node's
// behavior on (Sum, Count, Avg, Max, Min), so those runtime packages depend
// on this name rather than reaching into package functions directly.
package aggregator

import (
	"github.com/springsql/springsql/functions"
)

// AggregateType aggregate type, re-exports functions.AggregateType
type AggregateType = functions.AggregateType

// Re-export the aggregate type constants window.State's pane aggregator
// implements (spec.md §4.3/§4.5: Avg plus Sum/Count/Max/Min as
// straightforward extensions of the same pane mechanism).
const (
	Sum   = functions.Sum
	Count = functions.Count
	Avg   = functions.Avg
	Max   = functions.Max
	Min   = functions.Min
)
