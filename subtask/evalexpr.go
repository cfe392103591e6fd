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
	"math"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/springsql/springsql/errs"
	"github.com/springsql/springsql/queue"
	"github.com/springsql/springsql/row"
)

// runEvalValueExpr evaluates the compiled expr-lang program against the
// single input tuple's labelled values and appends the result under
// outputLabel. Fails with Sql on type error or division by zero, matching
// the teacher's expr_bridge.go translation of expr-lang's panic-on-divide
// into a regular error.
func runEvalValueExpr(n *node, metrics *queue.Metrics) ([]*row.Tuple, bool, error) {
	in, ok, err := runChild(n, metrics)
	if err != nil || !ok {
		return nil, ok, err
	}
	out := make([]*row.Tuple, 0, len(in))
	for _, t := range in {
		env := make(map[string]interface{}, len(t.Fields))
		for _, f := range t.Fields {
			env[f.Label] = f.Value.Raw()
		}

		result, evalErr := safeEval(n, env)
		if evalErr != nil {
			return nil, false, evalErr
		}

		out = append(out, t.With(n.outputLabel, valueOf(result)))
	}
	return out, true, nil
}

// safeEval recovers from expr-lang's divide-by-zero panic and reports it
// as a Sql error instead, since a single malformed row must not crash the
// pump task.
func safeEval(n *node, env map[string]interface{}) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.Newf(errs.Sql, "value expression evaluation panicked: %v", r)
		}
	}()
	result, err = expr.Run(n.program, env)
	if err != nil {
		if strings.Contains(err.Error(), "division") {
			return nil, errs.Wrap(errs.Sql, err, "division by zero in value expression")
		}
		return nil, errs.Wrap(errs.Sql, err, "value expression evaluation failed")
	}
	// expr-lang's "/" is float division, so x / 0 yields ±Inf or NaN
	// rather than an error.
	if f, ok := result.(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
		return nil, errs.New(errs.Sql, "division by zero in value expression")
	}
	return result, nil
}

func valueOf(v interface{}) row.Value {
	switch vv := v.(type) {
	case int:
		return row.NewValue(row.TypeBigInt, int64(vv))
	case int64:
		return row.NewValue(row.TypeBigInt, vv)
	case float64:
		return row.NewValue(row.TypeFloat, vv)
	case bool:
		return row.NewValue(row.TypeBoolean, vv)
	case string:
		return row.NewValue(row.TypeText, vv)
	case nil:
		return row.NullValue(row.TypeText)
	default:
		return row.NewValue(row.TypeText, v)
	}
}
