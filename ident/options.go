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

package ident

import (
	"time"

	"github.com/spf13/cast"

	"github.com/springsql/springsql/errs"
)

// Options is the OPTIONS(...) bag attached to a source reader or sink
// writer DDL clause. Values arrive as strings from the SQL surface and are
// coerced on read, the same tolerant-coercion pattern the teacher module
// applies to row fields via spf13/cast.
type Options map[string]string

// String returns the raw string value for key, or errs.InvalidOption if absent.
func (o Options) String(key string) (string, error) {
	v, ok := o[key]
	if !ok {
		return "", errs.Newf(errs.InvalidOption, "missing required option %q", key)
	}
	return v, nil
}

// StringOr returns the value for key, or def if the key is absent.
func (o Options) StringOr(key, def string) string {
	if v, ok := o[key]; ok {
		return v
	}
	return def
}

// Int coerces the value for key to an int via cast, or errs.InvalidOption.
func (o Options) Int(key string) (int, error) {
	v, ok := o[key]
	if !ok {
		return 0, errs.Newf(errs.InvalidOption, "missing required option %q", key)
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, errs.Wrap(errs.InvalidOption, err, "option "+key+" is not an integer")
	}
	return n, nil
}

// IntOr is Int with a default for an absent key.
func (o Options) IntOr(key string, def int) (int, error) {
	if _, ok := o[key]; !ok {
		return def, nil
	}
	return o.Int(key)
}

// DurationMillis coerces the value for key (milliseconds) to a time.Duration.
func (o Options) DurationMillis(key string, def time.Duration) (time.Duration, error) {
	v, ok := o[key]
	if !ok {
		return def, nil
	}
	ms, err := cast.ToInt64E(v)
	if err != nil {
		return 0, errs.Wrap(errs.InvalidOption, err, "option "+key+" is not an integer number of milliseconds")
	}
	return time.Duration(ms) * time.Millisecond, nil
}
