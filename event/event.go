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

// Package event 定義引擎對外唯一的邊界：事件串流。
//
// 展示層（畫面、音效、CLI、HTTP）只訂閱事件並呼叫引擎的兩個公開操作。
package event

import "github.com/zintix-labs/fruitslot/sdk/slot"

// Phase 是引擎的粗粒度狀態。Settled 在「能否開始新 spin」上等同 Idle。
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseSpinning
	PhaseSettled
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSpinning:
		return "spinning"
	case PhaseSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// Kind 用於序列化與分流。
type Kind uint8

const (
	KindSpinStarted Kind = iota + 1
	KindReelsUpdated
	KindSpinResult
	KindBetChanged
	KindBetRejected
)

var kindNames = map[Kind]string{
	KindSpinStarted:  "spin_started",
	KindReelsUpdated: "reels_updated",
	KindSpinResult:   "spin_result",
	KindBetChanged:   "bet_changed",
	KindBetRejected:  "bet_rejected",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Event 是所有事件的共同介面。
type Event interface {
	Kind() Kind
}

// SpinStarted 在 spin 被接受、押注扣款後送出。
type SpinStarted struct {
	Spin       uint64 // 本 session 第幾次被接受的 spin（從 1 起算）
	BetCharged int
	Credits    int // 扣款後餘額
}

// ReelsUpdated 在每次動畫 tick（Phase=Spinning）與結算（Phase=Settled）時送出。
// 動畫 tick 的轉輪只是視覺效果，不參與判定。
type ReelsUpdated struct {
	Spin  uint64
	Reels slot.ReelState
	Phase Phase
	Tick  int // 動畫 tick 序號（從 1 起算）；結算時為 0
}

// SpinResult 每次 spin 請求恰好送出一次：被拒絕時立即送出，被接受時於結算後送出。
type SpinResult struct {
	Spin    uint64 // 被拒絕時為 0
	Outcome Outcome
	Reels   slot.ReelState
	Credits int
}

// BetChanged 在 adjustBet 被接受後送出（即使數值被夾住而未改變）。
type BetChanged struct {
	NewBet int
}

// BetRejected 在 spin 進行中呼叫 adjustBet 時送出。
type BetRejected struct {
	Bet    int
	Reason RejectReason
}

func (SpinStarted) Kind() Kind  { return KindSpinStarted }
func (ReelsUpdated) Kind() Kind { return KindReelsUpdated }
func (SpinResult) Kind() Kind   { return KindSpinResult }
func (BetChanged) Kind() Kind   { return KindBetChanged }
func (BetRejected) Kind() Kind  { return KindBetRejected }
