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

// Package ident holds the validated identifier and option-bag types shared
// by every DDL-defined object: streams, pumps, queues, columns, aliases.
package ident

import (
	"regexp"

	"github.com/springsql/springsql/errs"
)

var nameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Name is a validated, case-sensitive identifier.
type Name string

// NewName validates s and returns it as a Name, or errs.Sql if malformed.
func NewName(s string) (Name, error) {
	if !nameRe.MatchString(s) {
		return "", errs.Newf(errs.Sql, "invalid identifier %q", s)
	}
	return Name(s), nil
}

// String satisfies fmt.Stringer.
func (n Name) String() string {
	return string(n)
}
