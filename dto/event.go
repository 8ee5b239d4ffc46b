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

package dto

import (
	"github.com/zintix-labs/fruitslot/event"
	"github.com/zintix-labs/fruitslot/sdk/slot"
)

// 音效提示，展示層自行決定怎麼播放。
const (
	CueSpin  = "spin"
	CueWin   = "win"
	CueClick = "click"
)

// Envelope 為推播事件的外層：{"type": ..., "data": ...}
type Envelope struct {
	Type string `json:"type"`
	Cue  string `json:"cue,omitempty"`
	Data any    `json:"data"`
}

type SpinStarted struct {
	Spin       uint64 `json:"spin"`
	BetCharged int    `json:"bet_charged"`
	Credits    int    `json:"credits"`
}

type ReelsUpdated struct {
	Spin  uint64   `json:"spin"`
	Reels []string `json:"reels"`
	Phase string   `json:"phase"`
	Tick  int      `json:"tick,omitempty"`
}

type SpinResult struct {
	Spin    uint64   `json:"spin,omitempty"`
	Outcome Outcome  `json:"outcome"`
	Reels   []string `json:"reels"`
	Credits int      `json:"credits"`
}

type BetChanged struct {
	NewBet int `json:"new_bet"`
}

type BetRejected struct {
	Bet    int    `json:"bet"`
	Reason string `json:"reason"`
}

// NewEvent 把引擎事件轉成推播格式；未知事件回傳 false。
func NewEvent(ev event.Event, ss slot.SymbolSet) (Envelope, bool) {
	env := Envelope{Type: ev.Kind().String(), Cue: Cue(ev)}
	switch e := ev.(type) {
	case event.SpinStarted:
		env.Data = SpinStarted{Spin: e.Spin, BetCharged: e.BetCharged, Credits: e.Credits}
	case event.ReelsUpdated:
		env.Data = ReelsUpdated{Spin: e.Spin, Reels: e.Reels.Names(ss), Phase: e.Phase.String(), Tick: e.Tick}
	case event.SpinResult:
		env.Data = SpinResult{Spin: e.Spin, Outcome: NewOutcome(e.Outcome, ss), Reels: e.Reels.Names(ss), Credits: e.Credits}
	case event.BetChanged:
		env.Data = BetChanged{NewBet: e.NewBet}
	case event.BetRejected:
		env.Data = BetRejected{Bet: e.Bet, Reason: e.Reason.String()}
	default:
		return Envelope{}, false
	}
	return env, true
}

// Cue 回傳事件對應的音效：開轉與每第三個 tick 為 spin，中獎為 win，調整押注為 click。
func Cue(ev event.Event) string {
	switch e := ev.(type) {
	case event.SpinStarted:
		return CueSpin
	case event.ReelsUpdated:
		if e.Phase == event.PhaseSpinning && e.Tick > 0 && e.Tick%3 == 0 {
			return CueSpin
		}
	case event.SpinResult:
		if e.Outcome.Kind == event.OutcomeWin {
			return CueWin
		}
	case event.BetChanged:
		return CueClick
	}
	return ""
}

// 非引擎事件的推播類型：連線回覆用。
const (
	TypeState = "state"
	TypePong  = "pong"
	TypeError = "error"
)

// ErrorMsg 為 TypeError 的內容。
type ErrorMsg struct {
	Message string `json:"message"`
}

// NewStateEnvelope 包裝目前狀態。
func NewStateEnvelope(st State) Envelope {
	return Envelope{Type: TypeState, Data: st}
}

// NewErrorEnvelope 包裝指令錯誤。
func NewErrorEnvelope(err error) Envelope {
	return Envelope{Type: TypeError, Data: ErrorMsg{Message: err.Error()}}
}
