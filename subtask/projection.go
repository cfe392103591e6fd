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
	"github.com/springsql/springsql/queue"
	"github.com/springsql/springsql/row"
)

// runProjection keeps/renames exactly the configured fields of the single
// input tuple. Fails with Sql if a referenced label is absent.
func runProjection(n *node, metrics *queue.Metrics) ([]*row.Tuple, bool, error) {
	in, ok, err := runChild(n, metrics)
	if err != nil || !ok {
		return nil, ok, err
	}
	out := make([]*row.Tuple, 0, len(in))
	for _, t := range in {
		pt, err := t.Project(n.projectFields, n.projectAlias)
		if err != nil {
			return nil, false, err
		}
		out = append(out, pt)
	}
	return out, true, nil
}
