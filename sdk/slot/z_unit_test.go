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

package slot_test

import (
	"testing"

	"github.com/zintix-labs/fruitslot/errs"
	"github.com/zintix-labs/fruitslot/sdk/slot"
	"pgregory.net/rapid"
)

var fruits = []string{"🍎", "🍊", "🍇", "🍋", "🍒", "7️⃣", "⭐"}

func classic(t testing.TB) (slot.SymbolSet, *slot.Paytable) {
	t.Helper()
	ss, err := slot.NewSymbolSet(fruits...)
	if err != nil {
		t.Fatalf("symbol set: %v", err)
	}
	sym := func(n string) slot.Symbol {
		s, ok := ss.Lookup(n)
		if !ok {
			t.Fatalf("unknown symbol %s", n)
		}
		return s
	}
	pt, err := slot.NewPaytable(ss.Len(),
		slot.PayEntry{Combo: slot.Repeat(sym("7️⃣"), 3), Pay: 1000},
		slot.PayEntry{Combo: slot.Repeat(sym("⭐"), 3), Pay: 500},
		slot.PayEntry{Combo: slot.Repeat(sym("🍒"), 3), Pay: 300},
		slot.PayEntry{Combo: slot.Repeat(sym("🍇"), 3), Pay: 200},
		slot.PayEntry{Combo: slot.Repeat(sym("🍊"), 3), Pay: 150},
		slot.PayEntry{Combo: slot.Repeat(sym("🍎"), 3), Pay: 150},
		slot.PayEntry{Combo: slot.Repeat(sym("🍋"), 3), Pay: 150},
		slot.PayEntry{Combo: slot.Repeat(sym("🍒"), 2), Pay: 50},
		slot.PayEntry{Combo: slot.Repeat(sym("⭐"), 2), Pay: 40},
	)
	if err != nil {
		t.Fatalf("paytable: %v", err)
	}
	return ss, pt
}

func reels(t *testing.T, ss slot.SymbolSet, a, b, c string) slot.ReelState {
	t.Helper()
	var r slot.ReelState
	for i, n := range []string{a, b, c} {
		s, ok := ss.Lookup(n)
		if !ok {
			t.Fatalf("unknown symbol %s", n)
		}
		r[i] = s
	}
	return r
}

func TestEvaluateScenarios(t *testing.T) {
	ss, pt := classic(t)
	cases := []struct {
		name    string
		a, b, c string
		pay     int
		win     bool
		kind    slot.WinKind
	}{
		{"777 pays 1000", "7️⃣", "7️⃣", "7️⃣", 1000, true, slot.ThreeOfAKind},
		{"two stars at 0,1", "⭐", "⭐", "🍎", 40, true, slot.TwoOfAKind},
		{"match only at 0,2", "🍎", "🍇", "🍎", 0, false, 0},
		{"match only at 1,2", "🍎", "🍒", "🍒", 0, false, 0},
		{"two apples have no entry", "🍎", "🍎", "🍇", 0, false, 0},
		{"three cherries beat two", "🍒", "🍒", "🍒", 300, true, slot.ThreeOfAKind},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, ok := pt.Evaluate(reels(t, ss, tc.a, tc.b, tc.c))
			if ok != tc.win || w.Pay != tc.pay || w.Kind != tc.kind {
				t.Fatalf("got (%+v,%v), want pay=%d win=%v kind=%s", w, ok, tc.pay, tc.win, tc.kind)
			}
		})
	}
}

func TestThreeOfAKindDoesNotFallBackToTwo(t *testing.T) {
	ss, _ := slot.NewSymbolSet("A", "B")
	pt, err := slot.NewPaytable(ss.Len(), slot.PayEntry{Combo: slot.Combo{0, 0}, Pay: 5})
	if err != nil {
		t.Fatalf("paytable: %v", err)
	}
	if w, ok := pt.Evaluate(slot.ReelState{0, 0, 0}); ok {
		t.Fatalf("AAA must not pay the AA entry, got %+v", w)
	}
	if w, ok := pt.Evaluate(slot.ReelState{0, 0, 1}); !ok || w.Pay != 5 {
		t.Fatalf("AAB should pay 5, got %+v %v", w, ok)
	}
}

func TestArbitraryComboKeys(t *testing.T) {
	pt, err := slot.NewPaytable(3, slot.PayEntry{Combo: slot.Combo{0, 1, 2}, Pay: 7})
	if err != nil {
		t.Fatalf("paytable: %v", err)
	}
	if pay, ok := pt.Lookup(slot.Combo{0, 1, 2}); !ok || pay != 7 {
		t.Fatalf("lookup of mixed combo failed")
	}
	if _, ok := pt.Lookup(slot.Combo{2, 1, 0}); ok {
		t.Fatalf("combo keys are ordered")
	}
}

func TestNewPaytableRejects(t *testing.T) {
	cases := []struct {
		name  string
		entry slot.PayEntry
	}{
		{"length 1", slot.PayEntry{Combo: slot.Combo{0}, Pay: 1}},
		{"length 4", slot.PayEntry{Combo: slot.Combo{0, 0, 0, 0}, Pay: 1}},
		{"unknown symbol", slot.PayEntry{Combo: slot.Combo{9, 9}, Pay: 1}},
		{"zero pay", slot.PayEntry{Combo: slot.Combo{0, 0}, Pay: 0}},
	}
	for _, tc := range cases {
		if _, err := slot.NewPaytable(2, tc.entry); errs.Level(err) != errs.Fatal {
			t.Fatalf("%s: expected fatal config error, got %v", tc.name, err)
		}
	}
	dup := slot.PayEntry{Combo: slot.Combo{1, 1}, Pay: 2}
	if _, err := slot.NewPaytable(2, dup, dup); err == nil {
		t.Fatalf("expected duplicate combo error")
	}
}

func TestNewSymbolSetRejects(t *testing.T) {
	if _, err := slot.NewSymbolSet(); err == nil {
		t.Fatalf("empty set must fail")
	}
	if _, err := slot.NewSymbolSet("🍎", "🍎"); err == nil {
		t.Fatalf("duplicate symbol must fail")
	}
	if _, err := slot.NewSymbolSet("🍎", " "); err == nil {
		t.Fatalf("blank symbol must fail")
	}
}

func TestExpectedPayoutMatchesEnumeration(t *testing.T) {
	ss, pt := classic(t)
	n := ss.Len()
	total := 0
	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			for c := 0; c < n; c++ {
				if w, ok := pt.Evaluate(slot.ReelState{slot.Symbol(a), slot.Symbol(b), slot.Symbol(c)}); ok {
					total += w.Pay
				}
			}
		}
	}
	want := float64(total) / float64(n*n*n)
	if got := pt.ExpectedPayout(n); got < want-1e-9 || got > want+1e-9 {
		t.Fatalf("expected payout %.6f, enumeration %.6f", got, want)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	_, pt := classic(t)
	rapid.Check(t, func(rt *rapid.T) {
		var r slot.ReelState
		for i := range r {
			r[i] = slot.Symbol(rapid.IntRange(0, len(fruits)-1).Draw(rt, "sym"))
		}
		w1, ok1 := pt.Evaluate(r)
		w2, ok2 := pt.Evaluate(r)
		if ok1 != ok2 || w1.Pay != w2.Pay || w1.Kind != w2.Kind {
			rt.Fatalf("evaluate not deterministic for %v", r)
		}
		if ok1 && w1.Pay <= 0 {
			rt.Fatalf("win with non-positive pay for %v", r)
		}
	})
}
