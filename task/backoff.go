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
	"sync/atomic"
	"time"
)

const (
	backoffBase = 100 * time.Millisecond
	backoffCap  = 10 * time.Second
)

// backoff implements the bounded exponential-backoff retry spec.md §7
// requires for transient foreign-I/O errors: base 100ms, cap 10s, reset
// on success. errorCount is exported via Count for the task's error
// counter, which spec.md's end-to-end scenario 5 asserts is >= 1 after a
// transient disconnect.
type backoff struct {
	attempt    int
	errorCount int64
	until      time.Time
}

// Ready reports whether enough time has passed since the last failure to
// retry now.
func (b *backoff) Ready() bool {
	return time.Now().After(b.until)
}

// RecordFailure advances the backoff state and increments the error
// counter.
func (b *backoff) RecordFailure() {
	atomic.AddInt64(&b.errorCount, 1)
	delay := backoffBase << uint(b.attempt)
	if delay <= 0 || delay > backoffCap {
		delay = backoffCap
	}
	b.until = time.Now().Add(delay)
	b.attempt++
}

// RecordSuccess resets the backoff state.
func (b *backoff) RecordSuccess() {
	b.attempt = 0
	b.until = time.Time{}
}

// Count returns the cumulative error count.
func (b *backoff) Count() int64 {
	return atomic.LoadInt64(&b.errorCount)
}
