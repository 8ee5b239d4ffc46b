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

// Package fruitslot 是單人三轉輪水果機的遊戲引擎。
//
// 引擎只負責規則與狀態：
//  1. 押注檢查與調整（AdjustBet）。
//  2. Spin：扣款 → 依固定節奏送出動畫轉輪 → 時間到後重新抽出最終轉輪 → 查賠付表 → 派彩。
//  3. 透過 event.Sink 對外送出事件；畫面、音效、CLI、HTTP 都只是訂閱者。
//
// 引擎不依賴任何渲染迴圈：時間由 sdk/clock.Clock 注入，亂數由 sdk/core 以 seed 注入，
// 因此在測試與模擬器中（clock.Manual + 固定 seed）結果完全可重現。
//
// 典型使用方式：
//
//	gs, _ := spec.Default()
//	bus := event.NewBus(1024)
//	eng, _ := fruitslot.New(gs, fruitslot.WithSink(bus))
//	sub := bus.Subscribe(64)
//	_ = eng.Spin()
//	for ev := range sub.C { ... }
package fruitslot

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/zintix-labs/fruitslot/errs"
	"github.com/zintix-labs/fruitslot/event"
	"github.com/zintix-labs/fruitslot/sdk/clock"
	"github.com/zintix-labs/fruitslot/sdk/core"
)

// Phase 與事件中的 Phase 為同一型別。
type Phase = event.Phase

const (
	PhaseIdle     = event.PhaseIdle
	PhaseSpinning = event.PhaseSpinning
	PhaseSettled  = event.PhaseSettled
)

// 被拒絕的操作。這些是正常流程（errs.Warn），同時也會以事件通知展示層。
var (
	ErrBusy              = errs.NewWarn("reels are still spinning")
	ErrInsufficientFunds = errs.NewWarn("not enough credits for the current bet")
)

// Option 調整 Engine 的注入依賴。
type Option func(*options)

type options struct {
	clock     clock.Clock
	sink      event.Sink
	log       *slog.Logger
	seed      *int64
	factory   core.PRNGFactory
	credits   *int
	sessionID string
}

// WithClock 注入時間來源，預設為 clock.System()。
func WithClock(c clock.Clock) Option { return func(o *options) { o.clock = c } }

// WithSink 注入事件接收端，預設丟棄。多個接收端請用 event.Multi。
func WithSink(s event.Sink) Option { return func(o *options) { o.sink = s } }

// WithLogger 注入 logger，預設靜默。
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.log = l } }

// WithSeed 指定亂數 seed；未指定時以 crypto/rand 產生。
func WithSeed(seed int64) Option { return func(o *options) { o.seed = &seed } }

// WithPRNG 覆寫設定檔指定的亂數工廠。
func WithPRNG(f core.PRNGFactory) Option { return func(o *options) { o.factory = f } }

// WithStartingCredits 覆寫設定檔的起始餘額（模擬器用）。
func WithStartingCredits(n int) Option { return func(o *options) { o.credits = &n } }

// WithSessionID 指定 session id；未指定時產生 UUID。
func WithSessionID(id string) Option { return func(o *options) { o.sessionID = id } }

func buildOptions(opts []Option) (*options, error) {
	o := &options{}
	for _, fn := range opts {
		fn(o)
	}
	if o.clock == nil {
		o.clock = clock.System()
	}
	if o.sink == nil {
		o.sink = event.Discard
	}
	if o.log == nil {
		o.log = slog.New(slog.DiscardHandler)
	}
	if o.seed == nil {
		seed, err := core.NewSeed()
		if err != nil {
			return nil, errs.Wrap(err, "new crypto seed error in go std lib")
		}
		o.seed = &seed
	}
	if o.credits != nil && *o.credits < 0 {
		return nil, errs.Config("starting_credits", "starting credits must be >= 0, got %d", *o.credits)
	}
	if o.sessionID == "" {
		o.sessionID = uuid.NewString()
	}
	return o, nil
}
