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

package event

import "sync"

// Sink 接收引擎事件。
//
// 引擎在持有內部鎖時呼叫 Publish 以保證事件順序，因此 Publish 不可阻塞，
// 也不可同步呼叫回引擎；需要回呼引擎的展示層請透過 Bus 訂閱。
type Sink interface {
	Publish(Event)
}

// SinkFunc 讓一般函式滿足 Sink。
type SinkFunc func(Event)

func (f SinkFunc) Publish(ev Event) { f(ev) }

// Discard 丟棄所有事件。
var Discard Sink = SinkFunc(func(Event) {})

// Multi 依序轉發給多個 Sink。
type Multi []Sink

func (m Multi) Publish(ev Event) {
	for _, s := range m {
		if s != nil {
			s.Publish(ev)
		}
	}
}

// Collector 同步收集事件，主要給測試與模擬器使用。
type Collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *Collector) Publish(ev Event) {
	c.mu.Lock()
	c.events = append(c.events, ev)
	c.mu.Unlock()
}

// Events 回傳目前收到的事件副本。
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// Count 回傳某種事件的數量。
func (c *Collector) Count(k Kind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, ev := range c.events {
		if ev.Kind() == k {
			n++
		}
	}
	return n
}

// Results 回傳所有 SpinResult。
func (c *Collector) Results() []SpinResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []SpinResult
	for _, ev := range c.events {
		if r, ok := ev.(SpinResult); ok {
			out = append(out, r)
		}
	}
	return out
}

// Reset 清空已收集的事件。
func (c *Collector) Reset() {
	c.mu.Lock()
	c.events = c.events[:0]
	c.mu.Unlock()
}
