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
	"sync"
	"time"
)

// Manual 是可手動推進的 Clock。
//
// 同一時間點到期的多個 timer 依註冊順序觸發；週期 timer 重新排程時保留原本的順序。
// callback 執行時不持有 Manual 的鎖，因此 callback 內可以再排程或 Stop。
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	nextID uint64
	timers map[uint64]*manualTimer
}

type manualTimer struct {
	m      *Manual
	id     uint64
	at     time.Time
	period time.Duration
	fn     func()
}

// NewManual 建立起始於 start 的 Manual；start 為零值時使用 Unix epoch。
func NewManual(start time.Time) *Manual {
	if start.IsZero() {
		start = time.Unix(0, 0).UTC()
	}
	return &Manual{now: start, timers: make(map[uint64]*manualTimer)}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	return m.schedule(d, 0, fn)
}

func (m *Manual) Every(d time.Duration, fn func()) Timer {
	if d <= 0 {
		return stoppedTimer{}
	}
	return m.schedule(d, d, fn)
}

func (m *Manual) schedule(d, period time.Duration, fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	t := &manualTimer{m: m, id: m.nextID, at: m.now.Add(max(d, 0)), period: period, fn: fn}
	m.timers[t.id] = t
	return t
}

func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if _, ok := t.m.timers[t.id]; !ok {
		return false
	}
	delete(t.m.timers, t.id)
	return true
}

// Advance 把時間推進 d，依序同步觸發期間內到期的 callback。
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		t := m.earliest(target)
		if t == nil {
			if target.After(m.now) {
				m.now = target
			}
			m.mu.Unlock()
			return
		}
		m.now = t.at
		if t.period > 0 {
			t.at = t.at.Add(t.period)
		} else {
			delete(m.timers, t.id)
		}
		fn := t.fn
		m.mu.Unlock()
		fn()
	}
}

// Pending 回傳仍在排程中的 timer 數量。
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// earliest 找出 target 之前最早到期者；同時間取 id 最小者。呼叫端需持有鎖。
func (m *Manual) earliest(target time.Time) *manualTimer {
	var best *manualTimer
	for _, t := range m.timers {
		if t.at.After(target) {
			continue
		}
		if best == nil || t.at.Before(best.at) || (t.at.Equal(best.at) && t.id < best.id) {
			best = t
		}
	}
	return best
}
