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
	"github.com/springsql/springsql/plan"
	"github.com/springsql/springsql/row"
)

// PurgeWindows discards every pane and join buffer held anywhere in the
// tree, without emitting them. Called by the purger worker (package
// executor) once a pump is confirmed dropped from the live pipeline, so
// its window state does not linger until the next GC cycle happens to
// collect the whole tree (spec.md §4.3/§4.6).
func (t *Tree) PurgeWindows() {
	var walk func(n *node)
	walk = func(n *node) {
		switch n.kind {
		case plan.GroupAggregateWindow:
			n.win.Reset()
		case plan.Join:
			n.leftBuf = make(map[string][]*row.Tuple)
			n.rightBuf = make(map[string][]*row.Tuple)
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(t.root)
}
