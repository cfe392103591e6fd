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

package executor

import "sync"

// SetupCoordinator is a count-down latch incremented by each worker as it
// finishes initialization; the engine handle blocks on it before
// returning from open (spec.md §4.6).
type SetupCoordinator struct {
	wg sync.WaitGroup
}

// NewSetupCoordinator builds a coordinator expecting n workers to check in.
func NewSetupCoordinator(n int) *SetupCoordinator {
	c := &SetupCoordinator{}
	c.wg.Add(n)
	return c
}

// Done is called by a worker once it has finished initializing.
func (c *SetupCoordinator) Done() { c.wg.Done() }

// Wait blocks until every worker has checked in.
func (c *SetupCoordinator) Wait() { c.wg.Wait() }

// StopCoordinator is the symmetric shutdown latch: Shutdown sets stop
// flags, workers drain their current tick and decrement the latch; the
// engine handle blocks on it before returning from close.
type StopCoordinator struct {
	wg sync.WaitGroup
}

// NewStopCoordinator builds a coordinator expecting n workers to check in.
func NewStopCoordinator(n int) *StopCoordinator {
	c := &StopCoordinator{}
	c.wg.Add(n)
	return c
}

// Done is called by a worker once it has drained its current tick and is
// exiting.
func (c *StopCoordinator) Done() { c.wg.Done() }

// Wait blocks until every worker has stopped.
func (c *StopCoordinator) Wait() { c.wg.Wait() }
