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

// Package dto 定義對外（HTTP / WebSocket / CLI JSON）輸出的序列化結構。
//
// 引擎內部以 slot.Symbol 索引運算，對外一律轉成設定檔中的符號名稱。
package dto

import (
	"encoding/base64"

	"github.com/zintix-labs/fruitslot"
	"github.com/zintix-labs/fruitslot/errs"
	"github.com/zintix-labs/fruitslot/event"
	"github.com/zintix-labs/fruitslot/sdk/slot"
)

// State 為 GameState 的對外結構。
type State struct {
	Session      string   `json:"session"`
	GameName     string   `json:"game"`
	Credits      int      `json:"credits"`
	Bet          int      `json:"bet"`
	MinBet       int      `json:"min_bet"`
	MaxBet       int      `json:"max_bet"`
	BetIncrement int      `json:"bet_increment"`
	Phase        string   `json:"phase"`
	Reels        []string `json:"reels"`
	LastResult   *Outcome `json:"last_result,omitempty"`
	Spins        uint64   `json:"spins"`
	CanSpin      bool     `json:"can_spin"`
	CanRaise     bool     `json:"can_raise"`
	CanLower     bool     `json:"can_lower"`
}

// Outcome 為一次 spin 的結果。
type Outcome struct {
	Kind    string   `json:"kind"` // win / no_win / rejected
	Payout  int      `json:"payout"`
	WinKind string   `json:"win_kind,omitempty"`
	Combo   []string `json:"combo,omitempty"`
	Reason  string   `json:"reason,omitempty"`
	Message string   `json:"message"`
}

// PayEntry 賠付表一列。
type PayEntry struct {
	Combo []string `json:"combo"`
	Pay   int      `json:"pay"`
}

// Paytable 賠付表與理論值。
type Paytable struct {
	GameName       string     `json:"game"`
	Symbols        []string   `json:"symbols"`
	Entries        []PayEntry `json:"entries"`
	ExpectedPayout float64    `json:"expected_payout"` // 每轉期望派彩（credits）
}

// RNGState 亂數核心快照，以 base64url 傳輸。
type RNGState struct {
	Seed     int64  `json:"seed,omitempty"`
	SnapB64U string `json:"snap_b64u"`
}

func NewState(st fruitslot.State, ss slot.SymbolSet) State {
	out := State{
		Session:      st.SessionID,
		GameName:     st.GameName,
		Credits:      st.Credits,
		Bet:          st.Bet,
		MinBet:       st.MinBet,
		MaxBet:       st.MaxBet,
		BetIncrement: st.BetIncrement,
		Phase:        st.Phase.String(),
		Reels:        st.Reels.Names(ss),
		Spins:        st.Spins,
		CanSpin:      st.CanSpin(),
		CanRaise:     st.CanRaise(),
		CanLower:     st.CanLower(),
	}
	if st.LastResult.Kind != event.OutcomeNone {
		o := NewOutcome(st.LastResult, ss)
		out.LastResult = &o
	}
	return out
}

func NewOutcome(o event.Outcome, ss slot.SymbolSet) Outcome {
	out := Outcome{
		Kind:    o.Kind.String(),
		Payout:  o.Payout,
		Message: o.Message(),
	}
	switch o.Kind {
	case event.OutcomeWin:
		out.WinKind = o.Win.Kind.String()
		out.Combo = comboNames(o.Win.Combo, ss)
	case event.OutcomeRejected:
		out.Reason = o.Reason.String()
	}
	return out
}

func NewPaytable(name string, pt *slot.Paytable, ss slot.SymbolSet) Paytable {
	entries := pt.Entries()
	out := Paytable{
		GameName:       name,
		Symbols:        ss.Names(),
		Entries:        make([]PayEntry, len(entries)),
		ExpectedPayout: pt.ExpectedPayout(ss.Len()),
	}
	for i, e := range entries {
		out.Entries[i] = PayEntry{Combo: comboNames(e.Combo, ss), Pay: e.Pay}
	}
	return out
}

func comboNames(c slot.Combo, ss slot.SymbolSet) []string {
	out := make([]string, len(c))
	for i, s := range c {
		out[i] = ss.Name(s)
	}
	return out
}

// EncodeSnap 把 RNG 快照轉成 URL-safe 字串。
func EncodeSnap(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeSnap 解析 EncodeSnap 的輸出。
func DecodeSnap(s string) ([]byte, error) {
	if s == "" {
		return nil, errs.NewWarn("snap_b64u is required")
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, errs.Warnf("decode base64url failed: %v", err)
	}
	return b, nil
}
