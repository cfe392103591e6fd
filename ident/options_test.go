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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/springsql/springsql/errs"
)

func TestOptionsStringRequired(t *testing.T) {
	o := Options{"host": "localhost"}

	v, err := o.String("host")
	require.NoError(t, err)
	assert.Equal(t, "localhost", v)

	_, err = o.String("port")
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.InvalidOption))
}

func TestOptionsStringOrFallsBackToDefault(t *testing.T) {
	o := Options{}
	assert.Equal(t, "default", o.StringOr("missing", "default"))
}

func TestOptionsIntCoercesAndValidates(t *testing.T) {
	o := Options{"port": "9090", "bad": "nine"}

	n, err := o.Int("port")
	require.NoError(t, err)
	assert.Equal(t, 9090, n)

	_, err = o.Int("bad")
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.InvalidOption))

	_, err = o.Int("absent")
	require.Error(t, err)
}

func TestOptionsIntOrDefaultsOnAbsentKey(t *testing.T) {
	o := Options{}
	n, err := o.IntOr("workers", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestOptionsDurationMillis(t *testing.T) {
	o := Options{"timeout_ms": "1500"}

	d, err := o.DurationMillis("timeout_ms", time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, d)

	d, err = o.DurationMillis("absent", 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, d)
}

func TestOptionsDurationMillisRejectsNonInteger(t *testing.T) {
	o := Options{"timeout_ms": "soon"}
	_, err := o.DurationMillis("timeout_ms", time.Second)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.InvalidOption))
}
