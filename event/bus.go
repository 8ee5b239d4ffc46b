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

import (
	"context"
	"sync"
	"sync/atomic"
)

// Bus 是非阻塞的事件扇出器：
//   - Publish 只做 enqueue（channel），滿了就丟棄並計數，不把延遲帶回引擎。
//   - 背景 worker 逐筆轉發給每個訂閱者；單一訂閱者滿了只丟它自己的那一筆。
//   - 訂閱者在自己的 goroutine 讀取，可以安全地回呼引擎。
//
// Bus 同時實作 Run/Shutdown，可直接交給 app.App 管理生命週期。
type Bus struct {
	in     chan Event
	closed chan struct{}
	once   sync.Once
	wg     sync.WaitGroup

	mu     sync.RWMutex
	subs   map[uint64]*Subscription
	nextID uint64

	dropped atomic.Uint64
}

// Subscription 代表一個訂閱者。C 在 Cancel 或 Bus 關閉後會被 close。
type Subscription struct {
	C       <-chan Event
	ch      chan Event
	id      uint64
	bus     *Bus
	dropped atomic.Uint64
}

// NewBus 建立 Bus；buf 為輸入佇列大小。
func NewBus(buf int) *Bus {
	if buf <= 0 {
		buf = 1024
	}
	b := &Bus{
		in:     make(chan Event, buf),
		closed: make(chan struct{}),
		subs:   make(map[uint64]*Subscription),
	}
	b.wg.Add(1)
	go b.worker()
	return b
}

func (b *Bus) Publish(ev Event) {
	select {
	case <-b.closed:
		b.dropped.Add(1)
		return
	default:
	}
	select {
	case b.in <- ev:
	default:
		b.dropped.Add(1)
	}
}

// Subscribe 註冊新的訂閱者；buf 為該訂閱者的佇列大小。
func (b *Bus) Subscribe(buf int) *Subscription {
	if buf <= 0 {
		buf = 64
	}
	ch := make(chan Event, buf)
	s := &Subscription{C: ch, ch: ch, bus: b}

	b.mu.Lock()
	defer b.mu.Unlock()
	select {
	case <-b.closed:
		close(ch)
		return s
	default:
	}
	b.nextID++
	s.id = b.nextID
	b.subs[s.id] = s
	return s
}

// Cancel 取消訂閱並關閉 C；可重複呼叫。
func (s *Subscription) Cancel() {
	b := s.bus
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[s.id]; !ok {
		return
	}
	delete(b.subs, s.id)
	close(s.ch)
}

// Dropped 回傳此訂閱者因佇列滿而漏掉的事件數。
func (s *Subscription) Dropped() uint64 { return s.dropped.Load() }

// Dropped 回傳因輸入佇列滿或已關閉而丟棄的事件數。
func (b *Bus) Dropped() uint64 { return b.dropped.Load() }

// Subscribers 回傳目前訂閱者數量。
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Bus) worker() {
	defer b.wg.Done()
	for {
		select {
		case ev := <-b.in:
			b.deliver(ev)
		case <-b.closed:
			// 收到 closed 後 drain 到 channel 清空
			for {
				select {
				case ev := <-b.in:
					b.deliver(ev)
				default:
					return
				}
			}
		}
	}
}

func (b *Bus) deliver(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.subs {
		select {
		case s.ch <- ev:
		default:
			s.dropped.Add(1)
		}
	}
}

// Close 停止接收、送完佇列中的事件後關閉所有訂閱。可重複呼叫。
func (b *Bus) Close() {
	b.once.Do(func() { close(b.closed) })
	b.wg.Wait()

	b.mu.Lock()
	defer b.mu.Unlock()
	for id, s := range b.subs {
		delete(b.subs, id)
		close(s.ch)
	}
}

// Run 阻塞直到 Bus 被關閉。
func (b *Bus) Run() error {
	<-b.closed
	b.wg.Wait()
	return nil
}

func (b *Bus) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.Close()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
