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

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBusDeliversToEverySubscriber(t *testing.T) {
	bus := NewEventBus()
	a := bus.Subscribe()
	b := bus.Subscribe()

	bus.Publish(Event{Kind: PipelineUpdated, Version: 3})

	select {
	case ev := <-a:
		assert.Equal(t, PipelineUpdated, ev.Kind)
		assert.Equal(t, int64(3), ev.Version)
	case <-time.After(time.Second):
		t.Fatal("subscriber a never received the event")
	}
	select {
	case ev := <-b:
		assert.Equal(t, int64(3), ev.Version)
	case <-time.After(time.Second):
		t.Fatal("subscriber b never received the event")
	}
}

func TestEventBusPublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	bus := NewEventBus()
	ch := bus.Subscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 64; i++ {
			bus.Publish(Event{Kind: MetricsTick})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a subscriber whose buffer filled up")
	}
	require.NotEmpty(t, ch)
}

func TestSetupCoordinatorWaitsForEveryCheckIn(t *testing.T) {
	c := NewSetupCoordinator(2)
	released := make(chan struct{})
	go func() {
		c.Wait()
		close(released)
	}()

	select {
	case <-released:
		t.Fatal("Wait returned before any worker checked in")
	case <-time.After(20 * time.Millisecond):
	}

	c.Done()
	c.Done()

	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("Wait never returned after all workers checked in")
	}
}

func TestStopCoordinatorWaitsForEveryCheckIn(t *testing.T) {
	c := NewStopCoordinator(1)
	released := make(chan struct{})
	go func() {
		c.Wait()
		close(released)
	}()
	c.Done()
	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("Wait never returned after the worker checked in")
	}
}
