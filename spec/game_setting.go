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

// Package spec 讀取並檢查機台設定。任何不合法的設定都在建構階段以 errs.Fatal 失敗，
// 因為這類設定會讓引擎的不變量無法成立。
package spec

import (
	"strings"
	"time"

	"github.com/zintix-labs/fruitslot/errs"
	"github.com/zintix-labs/fruitslot/sdk/core"
	"github.com/zintix-labs/fruitslot/sdk/slot"
)

// GameSetting 包含啟動一台機台所需的所有設定。
type GameSetting struct {
	GameName        string       `yaml:"game_name"         json:"game_name"`
	StartingCredits int          `yaml:"starting_credits"  json:"starting_credits"`
	MinBet          int          `yaml:"min_bet"           json:"min_bet"`
	MaxBet          int          `yaml:"max_bet"           json:"max_bet"`
	BetIncrement    int          `yaml:"bet_increment"     json:"bet_increment"`
	InitialBet      int          `yaml:"initial_bet"       json:"initial_bet"`
	Symbols         []string     `yaml:"symbols"           json:"symbols"`
	PayTable        []PaySetting `yaml:"pay_table"         json:"pay_table"`
	TickIntervalMs  int          `yaml:"tick_interval_ms"  json:"tick_interval_ms"`
	SpinDurationMs  int          `yaml:"spin_duration_ms"  json:"spin_duration_ms"`
	RNG             string       `yaml:"rng"               json:"rng"`

	SymbolSet slot.SymbolSet `yaml:"-" json:"-"`
	Paytable  *slot.Paytable `yaml:"-" json:"-"`
	initFlag  bool
}

// PaySetting 為賠付表的一列，combo 以符號名稱表示。
type PaySetting struct {
	Combo []string `yaml:"combo" json:"combo"`
	Pay   int      `yaml:"pay"   json:"pay"`
}

// Init 檢查設定並建立衍生欄位（SymbolSet、Paytable）；重複呼叫不會重算。
func (gs *GameSetting) Init() error {
	if gs.initFlag {
		return nil
	}
	if gs.InitialBet == 0 {
		gs.InitialBet = gs.MinBet
	}
	if err := gs.valid(); err != nil {
		return err
	}

	ss, err := slot.NewSymbolSet(gs.Symbols...)
	if err != nil {
		return err
	}
	entries := make([]slot.PayEntry, 0, len(gs.PayTable))
	for i, ps := range gs.PayTable {
		combo := make(slot.Combo, len(ps.Combo))
		for j, name := range ps.Combo {
			s, ok := ss.Lookup(name)
			if !ok {
				return errs.Config("pay_table", "entry %d: symbol %q not in symbols", i, name)
			}
			combo[j] = s
		}
		entries = append(entries, slot.PayEntry{Combo: combo, Pay: ps.Pay})
	}
	pt, err := slot.NewPaytable(ss.Len(), entries...)
	if err != nil {
		return err
	}

	gs.SymbolSet = ss
	gs.Paytable = pt
	gs.initFlag = true
	return nil
}

// valid 執行數值檢查；符號與賠付表的檢查交給 slot 建構函數。
func (gs *GameSetting) valid() error {
	if strings.TrimSpace(gs.GameName) == "" {
		return errs.Config("game_name", "game name required")
	}
	if gs.StartingCredits < 0 {
		return errs.Config("starting_credits", "starting credits must be >= 0, got %d", gs.StartingCredits)
	}
	if gs.BetIncrement <= 0 {
		return errs.Config("bet_increment", "bet increment must be > 0, got %d", gs.BetIncrement)
	}
	if gs.MinBet <= 0 {
		return errs.Config("min_bet", "min bet must be > 0, got %d", gs.MinBet)
	}
	if gs.MaxBet < gs.MinBet {
		return errs.Config("max_bet", "max bet %d < min bet %d", gs.MaxBet, gs.MinBet)
	}
	if gs.MinBet%gs.BetIncrement != 0 {
		return errs.Config("min_bet", "min bet %d is not a multiple of %d", gs.MinBet, gs.BetIncrement)
	}
	if gs.MaxBet%gs.BetIncrement != 0 {
		return errs.Config("max_bet", "max bet %d is not a multiple of %d", gs.MaxBet, gs.BetIncrement)
	}
	if gs.InitialBet < gs.MinBet || gs.InitialBet > gs.MaxBet || gs.InitialBet%gs.BetIncrement != 0 {
		return errs.Config("initial_bet", "initial bet %d is off the bet grid", gs.InitialBet)
	}
	if gs.TickIntervalMs <= 0 {
		return errs.Config("tick_interval_ms", "tick interval must be > 0, got %d", gs.TickIntervalMs)
	}
	if gs.SpinDurationMs <= 0 {
		return errs.Config("spin_duration_ms", "spin duration must be > 0, got %d", gs.SpinDurationMs)
	}
	if _, ok := core.ByName(gs.RNG); !ok {
		return errs.Config("rng", "unknown rng %q", gs.RNG)
	}
	return nil
}

func (gs *GameSetting) TickInterval() time.Duration {
	return time.Duration(gs.TickIntervalMs) * time.Millisecond
}

func (gs *GameSetting) SpinDuration() time.Duration {
	return time.Duration(gs.SpinDurationMs) * time.Millisecond
}

// PRNGFactory 回傳設定指定的亂數工廠；Init 已保證名稱合法。
func (gs *GameSetting) PRNGFactory() core.PRNGFactory {
	f, _ := core.ByName(gs.RNG)
	return f
}

// Ready 回傳是否已通過 Init。
func (gs *GameSetting) Ready() bool { return gs.initFlag }
