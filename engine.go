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

package fruitslot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/zintix-labs/fruitslot/errs"
	"github.com/zintix-labs/fruitslot/event"
	"github.com/zintix-labs/fruitslot/sdk/clock"
	"github.com/zintix-labs/fruitslot/sdk/core"
	"github.com/zintix-labs/fruitslot/sdk/slot"
	"github.com/zintix-labs/fruitslot/spec"
)

// State 是 GameState 的快照。
type State struct {
	SessionID    string
	GameName     string
	Credits      int
	Bet          int
	MinBet       int
	MaxBet       int
	BetIncrement int
	Phase        Phase
	Reels        slot.ReelState
	LastResult   event.Outcome
	Spins        uint64 // 已接受的 spin 數
}

// CanSpin 回傳目前能否開始新的 spin。
func (s State) CanSpin() bool { return s.Phase != PhaseSpinning && s.Credits >= s.Bet }

// CanRaise 回傳「加注」是否會有效果。
func (s State) CanRaise() bool { return s.Phase != PhaseSpinning && s.Bet < s.MaxBet }

// CanLower 回傳「減注」是否會有效果。
func (s State) CanLower() bool { return s.Phase != PhaseSpinning && s.Bet > s.MinBet }

// Engine 持有一個 session 的 GameState，並且是唯一能修改它的地方。
//
// 並發語意：
//   - 所有狀態讀寫都經過 mu；tick 與結算 callback 也一樣，因此兩者不會交錯。
//   - 每次 spin 有遞增的序號，callback 先比對序號與 phase，舊的 tick 即使晚到也只會被忽略。
//   - 事件在持有 mu 時送出以保證順序；Sink 不可阻塞也不可同步回呼 Engine（請用 event.Bus）。
type Engine struct {
	mu sync.Mutex

	gs      *spec.GameSetting
	symbols slot.SymbolSet
	table   *slot.Paytable
	tick    time.Duration
	total   time.Duration

	core  *core.Core
	clock clock.Clock
	sink  event.Sink
	log   *slog.Logger
	seed  int64

	state   State
	ticks   int
	ticker  clock.Timer
	settle  clock.Timer
	settled chan struct{} // 沒有進行中的 spin 時為已關閉
}

// New 依設定建立 Engine。設定不合法時以 errs.Fatal 失敗。
func New(gs *spec.GameSetting, opts ...Option) (*Engine, error) {
	if gs == nil {
		return nil, errs.NewFatal("game setting required")
	}
	if err := gs.Init(); err != nil {
		return nil, err
	}
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	factory := o.factory
	if factory == nil {
		factory = gs.PRNGFactory()
	}
	credits := gs.StartingCredits
	if o.credits != nil {
		credits = *o.credits
	}

	e := &Engine{
		gs:      gs,
		symbols: gs.SymbolSet,
		table:   gs.Paytable,
		tick:    gs.TickInterval(),
		total:   gs.SpinDuration(),
		core:    core.New(factory.New(*o.seed)),
		clock:   o.clock,
		sink:    o.sink,
		log:     o.log.With(slog.String("session", o.sessionID)),
		seed:    *o.seed,
		settled: make(chan struct{}),
	}
	close(e.settled)

	e.state = State{
		SessionID:    o.sessionID,
		GameName:     gs.GameName,
		Credits:      credits,
		Bet:          gs.InitialBet,
		MinBet:       gs.MinBet,
		MaxBet:       gs.MaxBet,
		BetIncrement: gs.BetIncrement,
		Phase:        PhaseIdle,
	}
	// 開機畫面：依序顯示前三個符號
	for i := range e.state.Reels {
		e.state.Reels[i] = slot.Symbol(i % e.symbols.Len())
	}
	return e, nil
}

// AdjustBet 設定 bet = clamp(bet+delta, minBet, maxBet)，並向下對齊押注級距。
// 超出範圍的 delta 由夾值吸收，不會失敗；只有 spin 進行中會回傳 ErrBusy。
func (e *Engine) AdjustBet(delta int) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Phase == PhaseSpinning {
		e.sink.Publish(event.BetRejected{Bet: e.state.Bet, Reason: event.ReasonBusy})
		e.log.Debug("bet change rejected", slog.Int("delta", delta))
		return e.state.Bet, ErrBusy
	}
	e.state.Bet = e.clampBet(e.state.Bet, delta)
	e.sink.Publish(event.BetChanged{NewBet: e.state.Bet})
	return e.state.Bet, nil
}

// clampBet 以飽和運算避免極大 delta 溢位。minBet 已保證在級距上。
func (e *Engine) clampBet(bet, delta int) int {
	var v int
	switch {
	case delta > 0 && delta > e.state.MaxBet-bet:
		v = e.state.MaxBet
	case delta < 0 && delta < e.state.MinBet-bet:
		v = e.state.MinBet
	default:
		v = bet + delta
	}
	v = min(max(v, e.state.MinBet), e.state.MaxBet)
	return v - (v-e.state.MinBet)%e.state.BetIncrement
}

// Spin 請求一次轉動。
//
// 被拒絕（ErrBusy / ErrInsufficientFunds）時狀態完全不變，並立即送出 SpinResult{Rejected}。
// 被接受時立即扣款、進入 Spinning、送出 SpinStarted，之後由 Clock 驅動 tick 與結算。
func (e *Engine) Spin() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Phase == PhaseSpinning {
		e.reject(event.ReasonBusy)
		return ErrBusy
	}
	if e.state.Credits < e.state.Bet {
		e.reject(event.ReasonInsufficientFunds)
		return ErrInsufficientFunds
	}

	e.state.Credits -= e.state.Bet
	e.state.Phase = PhaseSpinning
	e.state.LastResult = event.Outcome{}
	e.state.Spins++
	e.ticks = 0
	e.settled = make(chan struct{})

	id := e.state.Spins
	e.sink.Publish(event.SpinStarted{Spin: id, BetCharged: e.state.Bet, Credits: e.state.Credits})
	e.log.Debug("spin accepted",
		slog.Uint64("spin", id),
		slog.Int("bet", e.state.Bet),
		slog.Int("credits", e.state.Credits),
	)

	e.ticker = e.clock.Every(e.tick, func() { e.onTick(id) })
	e.settle = e.clock.AfterFunc(e.total, func() { e.onSettle(id) })
	return nil
}

func (e *Engine) reject(reason event.RejectReason) {
	e.sink.Publish(event.SpinResult{
		Outcome: event.Rejected(reason),
		Reels:   e.state.Reels,
		Credits: e.state.Credits,
	})
	e.log.Debug("spin rejected",
		slog.String("reason", reason.String()),
		slog.Int("bet", e.state.Bet),
		slog.Int("credits", e.state.Credits),
	)
}

// onTick 只產生視覺用的轉輪，不參與判定。
func (e *Engine) onTick(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if id != e.state.Spins || e.state.Phase != PhaseSpinning {
		return
	}
	e.ticks++
	e.state.Reels = e.draw()
	e.sink.Publish(event.ReelsUpdated{Spin: id, Reels: e.state.Reels, Phase: PhaseSpinning, Tick: e.ticks})
}

// onSettle 停止 tick、重新抽出最終轉輪並派彩。
func (e *Engine) onSettle(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if id != e.state.Spins || e.state.Phase != PhaseSpinning {
		return
	}
	if e.ticker != nil {
		e.ticker.Stop()
	}
	e.ticker, e.settle = nil, nil

	e.state.Reels = e.draw()
	e.state.Phase = PhaseSettled
	e.sink.Publish(event.ReelsUpdated{Spin: id, Reels: e.state.Reels, Phase: PhaseSettled})

	outcome := event.NoWin()
	if w, ok := e.table.Evaluate(e.state.Reels); ok {
		e.state.Credits += w.Pay
		outcome = event.Win(w)
	}
	e.state.LastResult = outcome
	e.sink.Publish(event.SpinResult{Spin: id, Outcome: outcome, Reels: e.state.Reels, Credits: e.state.Credits})
	e.log.Info("spin settled",
		slog.Uint64("spin", id),
		slog.String("reels", e.state.Reels.Format(e.symbols)),
		slog.String("outcome", outcome.Kind.String()),
		slog.Int("payout", outcome.Payout),
		slog.Int("credits", e.state.Credits),
	)
	close(e.settled)
}

// draw 對三個位置各自獨立均勻抽樣。
func (e *Engine) draw() slot.ReelState {
	var r slot.ReelState
	n := e.symbols.Len()
	for i := range r {
		r[i] = slot.Symbol(e.core.Draw(n))
	}
	return r
}

// Wait 阻塞到目前的 spin 結算完成；沒有進行中的 spin 時立即返回。
func (e *Engine) Wait(ctx context.Context) error {
	e.mu.Lock()
	ch := e.settled
	e.mu.Unlock()
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State 回傳目前狀態的快照。
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) Symbols() slot.SymbolSet { return e.symbols }

func (e *Engine) Paytable() *slot.Paytable { return e.table }

func (e *Engine) Setting() *spec.GameSetting { return e.gs }

// Seed 回傳出生 seed（追溯用）；任意時間點的重現請用 SnapshotRNG/RestoreRNG。
func (e *Engine) Seed() int64 { return e.seed }

// SpinDuration 回傳一次 spin 從開始到結算的固定時間。
func (e *Engine) SpinDuration() time.Duration { return e.total }

// SnapshotRNG 取得亂數核心狀態。
func (e *Engine) SnapshotRNG() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.core.Snapshot()
}

// RestoreRNG 還原亂數核心狀態；spin 進行中不允許，以免改變尚未抽出的最終轉輪。
func (e *Engine) RestoreRNG(snap []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Phase == PhaseSpinning {
		return ErrBusy
	}
	if err := e.core.Restore(snap); err != nil {
		return errs.Wrap(err, "restore rng failed")
	}
	return nil
}
