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

// Package clock 把「週期 tick」與「一次性到期」抽象成 Clock，讓引擎不綁定任何渲染迴圈。
//
//   - System()：以 time.AfterFunc / time.Ticker 實作，callback 在背景 goroutine 執行。
//   - Manual  ：測試與模擬器使用，只有呼叫 Advance 時才會在呼叫端 goroutine 同步觸發。
//
// 合約：Clock 不保證 Stop 之後絕不再呼叫 callback（System 的 ticker 可能正在送出最後一次）。
// 使用方必須自行在 callback 內檢查狀態是否仍然有效。
package clock

import (
	"sync"
	"time"
)

// Timer 可被取消；Stop 回傳呼叫前是否仍在排程中。
type Timer interface {
	Stop() bool
}

// Clock 是引擎唯一的時間來源。
type Clock interface {
	Now() time.Time
	// AfterFunc 在 d 之後呼叫一次 fn。
	AfterFunc(d time.Duration, fn func()) Timer
	// Every 每隔 d 呼叫一次 fn，直到 Stop。
	Every(d time.Duration, fn func()) Timer
}

// System 回傳以真實時間運作的 Clock。
func System() Clock { return systemClock{} }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

func (systemClock) Every(d time.Duration, fn func()) Timer {
	if d <= 0 {
		return stoppedTimer{}
	}
	t := &tickerTimer{
		ticker: time.NewTicker(d),
		quit:   make(chan struct{}),
	}
	go t.loop(fn)
	return t
}

type tickerTimer struct {
	ticker *time.Ticker
	quit   chan struct{}
	once   sync.Once
}

func (t *tickerTimer) loop(fn func()) {
	for {
		select {
		case <-t.quit:
			return
		case <-t.ticker.C:
			// Stop 與 tick 同時就緒時 select 可能挑到 tick，再檢查一次
			select {
			case <-t.quit:
				return
			default:
			}
			fn()
		}
	}
}

func (t *tickerTimer) Stop() bool {
	stopped := false
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.quit)
		stopped = true
	})
	return stopped
}

type stoppedTimer struct{}

func (stoppedTimer) Stop() bool { return false }
