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

package spec

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zintix-labs/fruitslot/errs"
)

func TestDefaultSetting(t *testing.T) {
	gs, err := Default()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	if gs.SymbolSet.Len() != 7 || gs.Paytable.Len() != 9 {
		t.Fatalf("unexpected reference table: %d symbols, %d entries", gs.SymbolSet.Len(), gs.Paytable.Len())
	}
	if gs.TickInterval() != 100*time.Millisecond || gs.SpinDuration() != 2*time.Second {
		t.Fatalf("unexpected timing %s/%s", gs.TickInterval(), gs.SpinDuration())
	}
	if gs.StartingCredits != 1000 || gs.InitialBet != 100 {
		t.Fatalf("unexpected credits/bet %d/%d", gs.StartingCredits, gs.InitialBet)
	}
	if gs.PRNGFactory() == nil || !gs.Ready() {
		t.Fatalf("expected ready setting with a prng factory")
	}
}

func validSetting() *GameSetting {
	return &GameSetting{
		GameName:        "t",
		StartingCredits: 1000,
		MinBet:          100,
		MaxBet:          500,
		BetIncrement:    100,
		Symbols:         []string{"A", "B"},
		PayTable:        []PaySetting{{Combo: []string{"A", "A", "A"}, Pay: 10}},
		TickIntervalMs:  100,
		SpinDurationMs:  2000,
	}
}

func TestInitRejects(t *testing.T) {
	cases := []struct {
		field  string
		mutate func(gs *GameSetting)
	}{
		{"game_name", func(gs *GameSetting) { gs.GameName = " " }},
		{"starting_credits", func(gs *GameSetting) { gs.StartingCredits = -1 }},
		{"bet_increment", func(gs *GameSetting) { gs.BetIncrement = 0 }},
		{"min_bet", func(gs *GameSetting) { gs.MinBet = 0 }},
		{"max_bet", func(gs *GameSetting) { gs.MaxBet = 50 }},
		{"min_bet", func(gs *GameSetting) { gs.MinBet = 150 }},
		{"max_bet", func(gs *GameSetting) { gs.MaxBet = 450 }},
		{"initial_bet", func(gs *GameSetting) { gs.InitialBet = 600 }},
		{"initial_bet", func(gs *GameSetting) { gs.InitialBet = 250 }},
		{"tick_interval_ms", func(gs *GameSetting) { gs.TickIntervalMs = 0 }},
		{"spin_duration_ms", func(gs *GameSetting) { gs.SpinDurationMs = -5 }},
		{"rng", func(gs *GameSetting) { gs.RNG = "lcg" }},
		{"symbols", func(gs *GameSetting) { gs.Symbols = nil }},
		{"symbols", func(gs *GameSetting) { gs.Symbols = []string{"A", "A"} }},
		{"pay_table", func(gs *GameSetting) { gs.PayTable[0].Combo = []string{"A", "C"} }},
		{"pay_table", func(gs *GameSetting) { gs.PayTable[0].Pay = 0 }},
	}
	for _, tc := range cases {
		gs := validSetting()
		tc.mutate(gs)
		err := gs.Init()
		e, ok := errs.AsErr(err)
		if !ok || e.ErrLv != errs.Fatal || e.Field != tc.field {
			t.Fatalf("%s: expected fatal config error on field, got %v", tc.field, err)
		}
	}
}

func TestInitDefaultsInitialBet(t *testing.T) {
	gs := validSetting()
	if err := gs.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if gs.InitialBet != gs.MinBet {
		t.Fatalf("initial bet should default to min bet")
	}
}

func TestYAMLStrictFields(t *testing.T) {
	raw := []byte("game_name: x\nmin_bet: 1\nmax_bet: 1\nbet_increment: 1\nsymbols: [A]\ntick_interval_ms: 1\nspin_duration_ms: 1\nturbo: true\n")
	if _, err := GetGameSettingByYAML(raw); err == nil {
		t.Fatalf("unknown yaml field should fail")
	}
}

func TestLoadFileJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mini.json")
	raw := []byte(`{"game_name":"mini","starting_credits":10,"min_bet":1,"max_bet":3,"bet_increment":1,
"symbols":["A","B","C"],"pay_table":[{"combo":["A","A"],"pay":2}],"tick_interval_ms":10,"spin_duration_ms":50}`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	gs, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	if gs.GameName != "mini" || gs.Paytable.Len() != 1 {
		t.Fatalf("unexpected setting %+v", gs)
	}
	if _, err := LoadFile(filepath.Join(dir, "mini.toml")); err == nil {
		t.Fatalf("missing/unsupported file should fail")
	}
}
