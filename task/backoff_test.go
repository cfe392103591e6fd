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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffReadyInitially(t *testing.T) {
	var b backoff
	assert.True(t, b.Ready())
}

func TestBackoffRecordFailureIncrementsCountAndDelaysReady(t *testing.T) {
	var b backoff
	b.RecordFailure()
	assert.Equal(t, int64(1), b.Count())
	assert.False(t, b.Ready(), "backoff must not be ready immediately after a failure")

	b.RecordFailure()
	assert.Equal(t, int64(2), b.Count())
}

func TestBackoffRecordSuccessResetsState(t *testing.T) {
	var b backoff
	b.RecordFailure()
	b.RecordSuccess()
	assert.True(t, b.Ready())
	assert.Equal(t, int64(1), b.Count(), "error count accumulates across the task's lifetime, success does not reset it")
}

func TestBackoffDelayIsCappedAfterManyFailures(t *testing.T) {
	var b backoff
	for i := 0; i < 20; i++ {
		b.RecordFailure()
	}
	remaining := b.until.Sub(time.Now())
	assert.LessOrEqual(t, remaining, backoffCap+100*time.Millisecond)
}
