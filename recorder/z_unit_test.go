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

package recorder_test

import (
	"math"
	"testing"

	"github.com/zintix-labs/fruitslot/event"
	"github.com/zintix-labs/fruitslot/recorder"
	"github.com/zintix-labs/fruitslot/sdk/slot"
	"github.com/zintix-labs/fruitslot/spec"
)

func setting(t *testing.T) *spec.GameSetting {
	t.Helper()
	gs, err := spec.Default()
	if err != nil {
		t.Fatalf("default setting: %v", err)
	}
	return gs
}

// play 餵入一局：扣款後以 win 結算。
func play(r *recorder.SessionRecorder, bet int, credits *int, win *slot.Win) {
	*credits -= bet
	r.Publish(event.SpinStarted{BetCharged: bet, Credits: *credits})
	out := event.NoWin()
	if win != nil {
		*credits += win.Pay
		out = event.Win(*win)
	}
	r.Publish(event.SpinResult{Outcome: out, Credits: *credits})
}

func TestRecorderReport(t *testing.T) {
	gs := setting(t)
	seven, _ := gs.SymbolSet.Lookup("7️⃣")
	cherry, _ := gs.SymbolSet.Lookup("🍒")

	r, err := recorder.NewSessionRecorder(gs, 9, 0)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	credits := 1_000_000
	play(r, 100, &credits, &slot.Win{Pay: 1000, Kind: slot.ThreeOfAKind, Combo: slot.Repeat(seven, 3)})
	play(r, 100, &credits, &slot.Win{Pay: 50, Kind: slot.TwoOfAKind, Combo: slot.Repeat(cherry, 2)})
	play(r, 100, &credits, nil)
	play(r, 100, &credits, nil)
	r.Publish(event.BetChanged{NewBet: 200}) // 忽略

	rep := r.Done()
	sm := rep.Summary
	if sm.Rounds != 4 || sm.TotalBet != 400 || sm.TotalWin != 1050 || sm.Hits != 2 || sm.NoWinRounds != 2 {
		t.Fatalf("summary %+v", sm)
	}
	if sm.ThreeKind != 1 || sm.TwoKind != 1 || sm.Seed != 9 || sm.Symbols != 7 {
		t.Fatalf("kinds %+v", sm)
	}
	if math.Abs(sm.RTP-1050.0/400.0) > 1e-12 || sm.HitRate != 0.5 {
		t.Fatalf("rtp %.4f hit %.4f", sm.RTP, sm.HitRate)
	}
	if want := gs.Paytable.ExpectedPayout(7) / 100; math.Abs(sm.TheoryRTP-want) > 1e-12 {
		t.Fatalf("theory rtp %.6f want %.6f", sm.TheoryRTP, want)
	}
	if rep.Player != nil {
		t.Fatalf("machine mode should not report a player")
	}
	if len(rep.Combos) != gs.Paytable.Len() {
		t.Fatalf("combos %d", len(rep.Combos))
	}
	hits := map[string]int{}
	for _, c := range rep.Combos {
		hits[c.Combo] = c.Hits
		if c.Expected <= 0 {
			t.Fatalf("combo %s has no expected rate", c.Combo)
		}
	}
	if hits["7️⃣7️⃣7️⃣"] != 1 || hits["🍒🍒"] != 1 || hits["⭐⭐⭐"] != 0 {
		t.Fatalf("combo hits %v", hits)
	}
}

func TestRecorderPlayer(t *testing.T) {
	gs := setting(t)
	r, err := recorder.NewSessionRecorder(gs, 1, 300)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	credits := 300
	play(r, 100, &credits, nil)
	play(r, 100, &credits, nil)
	if r.Leave() {
		t.Fatalf("player with 100 credits left can still play")
	}
	play(r, 100, &credits, nil)
	if !r.Leave() {
		t.Fatalf("player should be bust at 0 credits")
	}
	rep := r.Done()
	if !rep.Player.Bust || rep.Player.Alive || rep.Player.MinBalance != 0 || rep.Player.MaxBalance != 300 {
		t.Fatalf("player %+v", rep.Player)
	}

	// 贏到 3 倍本金離場
	seven, _ := gs.SymbolSet.Lookup("7️⃣")
	r2, _ := recorder.NewSessionRecorder(gs, 1, 300)
	credits = 300
	play(r2, 100, &credits, &slot.Win{Pay: 1000, Kind: slot.ThreeOfAKind, Combo: slot.Repeat(seven, 3)})
	if !r2.Leave() || !r2.Done().Player.Cashout {
		t.Fatalf("player at %d should cash out", credits)
	}

	m, err := recorder.MergeSessionRecorder([]*recorder.SessionRecorder{r, r2})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if mr := m.Done(); mr.Player != nil || mr.Summary.Rounds != 4 {
		t.Fatalf("merged players: %+v %+v", mr.Player, mr.Summary)
	}
}

func TestMergeSessionRecorder(t *testing.T) {
	gs := setting(t)
	a, _ := recorder.NewSessionRecorder(gs, 1, 0)
	b, _ := recorder.NewSessionRecorder(gs, 2, 0)
	credits := 10_000
	play(a, 100, &credits, nil)
	play(b, 100, &credits, nil)
	play(b, 100, &credits, nil)
	a.Publish(event.SpinResult{Outcome: event.Rejected(event.ReasonBusy)})

	m, err := recorder.MergeSessionRecorder([]*recorder.SessionRecorder{a, b})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	rep := m.Done()
	if rep.Summary.Rounds != 3 || rep.Summary.TotalBet != 300 || rep.Summary.Rejected != 1 {
		t.Fatalf("merged summary %+v", rep.Summary)
	}
	if _, err := recorder.MergeSessionRecorder(nil); err == nil {
		t.Fatalf("empty merge should fail")
	}
}
