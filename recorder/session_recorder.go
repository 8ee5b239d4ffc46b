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

package recorder

import (
	"strings"
	"sync"

	"github.com/zintix-labs/fruitslot/errs"
	"github.com/zintix-labs/fruitslot/event"
	"github.com/zintix-labs/fruitslot/sdk/slot"
	"github.com/zintix-labs/fruitslot/spec"
	"github.com/zintix-labs/fruitslot/stats"
)

// SessionRecorder 遊戲紀錄員
//
// SessionRecorder 訂閱引擎事件（實作 event.Sink），只累加 int，並透過 Done 輸出統計報表。
type SessionRecorder struct {
	mu sync.Mutex

	GameName string
	Seed     int64
	symbols  slot.SymbolSet
	table    *slot.Paytable
	entries  []slot.PayEntry
	bet      int // 最近一次被接受的押注

	Basic  *BasicRecord
	Combos []int // 與 table.Entries() 同序
	Dist   []int // 與 stats.Buckets 同序
	Player *PlayerRecord
}

// BasicRecord 基本遊戲資料紀錄
type BasicRecord struct {
	TotalBet          int
	TotalWin          int
	TotalWinMult      float64
	TotalWinMultSqSum float64 // 平方和
	Hits              int
	ThreeKind         int
	TwoKind           int
	Rejected          int
	Rounds            int
}

// PlayerRecord 玩家餘額軌跡
type PlayerRecord struct {
	leaveLine   int
	InitBalance int
	Balance     int
	MaxBalance  int
	MinBalance  int
	Bust        bool
	Cashout     bool
}

// NewSessionRecorder 建立紀錄員。initBalance > 0 時同時追蹤玩家餘額，餘額到達 3 倍本金視為贏滿離場。
func NewSessionRecorder(gs *spec.GameSetting, seed int64, initBalance int) (*SessionRecorder, error) {
	if gs == nil || !gs.Ready() {
		return nil, errs.NewFatal("recorder needs an initialized game setting")
	}
	if initBalance < 0 {
		return nil, errs.Fatalf("init balance must not be negative, got: %d", initBalance)
	}
	s := &SessionRecorder{
		GameName: gs.GameName,
		Seed:     seed,
		symbols:  gs.SymbolSet,
		table:    gs.Paytable,
		entries:  gs.Paytable.Entries(),
		bet:      gs.InitialBet,
		Basic:    new(BasicRecord),
		Combos:   make([]int, gs.Paytable.Len()),
		Dist:     make([]int, stats.Buckets.Len()),
	}
	if initBalance > 0 {
		s.Player = &PlayerRecord{
			leaveLine:   3 * initBalance,
			InitBalance: initBalance,
			Balance:     initBalance,
			MaxBalance:  initBalance,
			MinBalance:  initBalance,
		}
	}
	return s, nil
}

// Publish 實作 event.Sink。
func (s *SessionRecorder) Publish(ev event.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch e := ev.(type) {
	case event.SpinStarted:
		s.bet = e.BetCharged
		s.Basic.TotalBet += e.BetCharged
		s.Basic.Rounds++
		s.recordBalance(e.Credits)
	case event.SpinResult:
		s.recordResult(e)
	}
}

func (s *SessionRecorder) recordResult(e event.SpinResult) {
	if e.Outcome.Kind == event.OutcomeRejected {
		s.Basic.Rejected++
		if e.Outcome.Reason == event.ReasonInsufficientFunds && s.Player != nil {
			s.Player.Bust = true
		}
		return
	}
	w := e.Outcome.Payout
	m := float64(w) / float64(s.bet)
	s.Basic.TotalWin += w
	s.Basic.TotalWinMult += m
	s.Basic.TotalWinMultSqSum += m * m
	s.Dist[stats.Buckets.Index(w, s.bet)]++

	if e.Outcome.Kind == event.OutcomeWin {
		s.Basic.Hits++
		switch e.Outcome.Win.Kind {
		case slot.ThreeOfAKind:
			s.Basic.ThreeKind++
		case slot.TwoOfAKind:
			s.Basic.TwoKind++
		}
		if i := s.comboIndex(e.Outcome.Win.Combo); i >= 0 {
			s.Combos[i]++
		}
	}
	s.recordBalance(e.Credits)
	if p := s.Player; p != nil {
		if p.Balance < s.bet {
			p.Bust = true
		}
		if p.Balance >= p.leaveLine {
			p.Cashout = true
		}
	}
}

func (s *SessionRecorder) recordBalance(credits int) {
	p := s.Player
	if p == nil {
		return
	}
	p.Balance = credits
	p.MaxBalance = max(p.MaxBalance, credits)
	p.MinBalance = min(p.MinBalance, credits)
}

func (s *SessionRecorder) comboIndex(c slot.Combo) int {
	for i, e := range s.entries {
		if slicesEqual(e.Combo, c) {
			return i
		}
	}
	return -1
}

func slicesEqual(a, b slot.Combo) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Leave 回傳玩家是否該離場（破產或贏滿）；非玩家模式永遠為 false。
func (s *SessionRecorder) Leave() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Player != nil && (s.Player.Bust || s.Player.Cashout)
}

// Rounds 回傳已紀錄的局數。
func (s *SessionRecorder) Rounds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Basic.Rounds
}

// MergeSessionRecorder 合併多個同遊戲的紀錄（多 worker 模擬用）。玩家軌跡不合併。
func MergeSessionRecorder(r []*SessionRecorder) (*SessionRecorder, error) {
	if len(r) == 0 {
		return nil, errs.NewFatal("merge session record err : empty input")
	}
	r0 := r[0]
	s := &SessionRecorder{
		GameName: r0.GameName,
		Seed:     r0.Seed,
		symbols:  r0.symbols,
		table:    r0.table,
		entries:  r0.entries,
		bet:      r0.bet,
		Basic:    new(BasicRecord),
		Combos:   make([]int, len(r0.Combos)),
		Dist:     make([]int, len(r0.Dist)),
	}
	for _, v := range r {
		v.mu.Lock()
		if v.GameName != r0.GameName {
			v.mu.Unlock()
			return nil, errs.NewFatal("merge session record err : different game name")
		}
		if v.bet != r0.bet {
			v.mu.Unlock()
			return nil, errs.NewFatal("merge session record err : different bet")
		}
		b := v.Basic
		s.Basic.TotalBet += b.TotalBet
		s.Basic.TotalWin += b.TotalWin
		s.Basic.TotalWinMult += b.TotalWinMult
		s.Basic.TotalWinMultSqSum += b.TotalWinMultSqSum
		s.Basic.Hits += b.Hits
		s.Basic.ThreeKind += b.ThreeKind
		s.Basic.TwoKind += b.TwoKind
		s.Basic.Rejected += b.Rejected
		s.Basic.Rounds += b.Rounds
		for i, c := range v.Combos {
			s.Combos[i] += c
		}
		for i, c := range v.Dist {
			s.Dist[i] += c
		}
		v.mu.Unlock()
	}
	return s, nil
}

// Done 輸出統計報表。
func (s *SessionRecorder) Done() *stats.StatReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.symbols.Len()
	cube := float64(n * n * n)
	report := &stats.StatReport{
		Summary: &stats.SummaryReport{
			GameName:    s.GameName,
			Seed:        s.Seed,
			Symbols:     n,
			Bet:         s.bet,
			TotalBet:    s.Basic.TotalBet,
			TotalWin:    s.Basic.TotalWin,
			TheoryRTP:   s.table.ExpectedPayout(n) / float64(s.bet),
			Hits:        s.Basic.Hits,
			ThreeKind:   s.Basic.ThreeKind,
			TwoKind:     s.Basic.TwoKind,
			NoWinRounds: s.Basic.Rounds - s.Basic.Hits,
			Rejected:    s.Basic.Rejected,
			Rounds:      s.Basic.Rounds,
		},
		Mult: &stats.MultReport{
			TotalWinMult:      s.Basic.TotalWinMult,
			TotalWinMultSqSum: s.Basic.TotalWinMultSqSum,
		},
		Dist: &stats.DistReport{
			WinBucket: stats.Buckets.WinBucketStr(),
			Collect:   append([]int(nil), s.Dist...),
		},
	}
	for i, e := range s.entries {
		cr := stats.ComboReport{
			Combo: strings.Join(comboNames(s.symbols, e.Combo), ""),
			Pay:   e.Pay,
			Hits:  s.Combos[i],
		}
		switch {
		case !uniform(e.Combo):
			// 判定只會查同符號的鍵，混合符號的列永遠不會命中
			cr.Kind = "unreachable"
		case len(e.Combo) == slot.Reels:
			cr.Kind = slot.ThreeOfAKind.String()
			cr.Expected = 1 / cube
		default:
			cr.Kind = slot.TwoOfAKind.String()
			cr.Expected = float64(n-1) / cube
		}
		report.Combos = append(report.Combos, cr)
	}
	if p := s.Player; p != nil {
		report.Player = &stats.PlayerReport{
			InitBalance: p.InitBalance,
			Balance:     p.Balance,
			MaxBalance:  p.MaxBalance,
			MinBalance:  p.MinBalance,
			Bust:        p.Bust,
			Cashout:     p.Cashout,
		}
	}
	report.Done()
	return report
}

func uniform(c slot.Combo) bool {
	for _, s := range c[1:] {
		if s != c[0] {
			return false
		}
	}
	return true
}

func comboNames(ss slot.SymbolSet, c slot.Combo) []string {
	out := make([]string, len(c))
	for i, s := range c {
		out[i] = ss.Name(s)
	}
	return out
}
