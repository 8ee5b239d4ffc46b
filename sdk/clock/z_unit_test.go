// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package clock

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestManualEveryAndAfter(t *testing.T) {
	m := NewManual(time.Time{})
	var order []string
	ticks := 0
	tk := m.Every(100*time.Millisecond, func() {
		ticks++
		order = append(order, "tick")
	})
	m.AfterFunc(300*time.Millisecond, func() {
		order = append(order, "done")
		tk.Stop()
	})

	m.Advance(250 * time.Millisecond)
	if ticks != 2 {
		t.Fatalf("expected 2 ticks at 250ms, got %d", ticks)
	}
	m.Advance(time.Second)
	if ticks != 3 {
		t.Fatalf("ticker must stop at 300ms, got %d ticks", ticks)
	}
	if order[len(order)-1] != "done" {
		t.Fatalf("same-instant timers fire in registration order, got %v", order)
	}
	if m.Pending() != 0 {
		t.Fatalf("expected no pending timers, got %d", m.Pending())
	}
	if got := m.Now().Sub(time.Unix(0, 0)); got != 1250*time.Millisecond {
		t.Fatalf("unexpected now offset %s", got)
	}
}

func TestManualStop(t *testing.T) {
	m := NewManual(time.Time{})
	fired := false
	tm := m.AfterFunc(time.Second, func() { fired = true })
	if !tm.Stop() {
		t.Fatalf("first stop should report active timer")
	}
	if tm.Stop() {
		t.Fatalf("second stop should report inactive timer")
	}
	m.Advance(2 * time.Second)
	if fired {
		t.Fatalf("stopped timer fired")
	}
}

func TestManualRescheduleFromCallback(t *testing.T) {
	m := NewManual(time.Time{})
	n := 0
	var again func()
	again = func() {
		n++
		if n < 3 {
			m.AfterFunc(10*time.Millisecond, again)
		}
	}
	m.AfterFunc(10*time.Millisecond, again)
	m.Advance(time.Second)
	if n != 3 {
		t.Fatalf("expected 3 chained callbacks, got %d", n)
	}
}

func TestSystemEveryStops(t *testing.T) {
	var n atomic.Int32
	tk := System().Every(time.Millisecond, func() { n.Add(1) })
	deadline := time.Now().Add(2 * time.Second)
	for n.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if !tk.Stop() {
		t.Fatalf("stop should report active ticker")
	}
	if tk.Stop() {
		t.Fatalf("second stop should be a no-op")
	}
	if n.Load() < 3 {
		t.Fatalf("ticker never fired")
	}
}
