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

package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"
	"github.com/zintix-labs/fruitslot"
	"github.com/zintix-labs/fruitslot/event"
	"github.com/zintix-labs/fruitslot/sdk/slot"
)

// cellWidth 每格轉輪的顯示寬度；emoji 在終端機多半佔 2 格。
const cellWidth = 4

// view 把引擎事件畫到終端機。實作 event.Sink。
type view struct {
	mu      sync.Mutex
	w       io.Writer
	symbols slot.SymbolSet
}

func newView(w io.Writer) *view {
	return &view{w: w}
}

func (v *view) Publish(ev event.Event) {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch e := ev.(type) {
	case event.SpinStarted:
		fmt.Fprintf(v.w, "-%d credits\n", e.BetCharged)
	case event.ReelsUpdated:
		if e.Phase == event.PhaseSpinning {
			// 原地重畫
			fmt.Fprintf(v.w, "\r%s", v.reels(e.Reels))
			return
		}
		fmt.Fprintf(v.w, "\r%s\n", v.reels(e.Reels))
	case event.SpinResult:
		if e.Outcome.Kind == event.OutcomeWin {
			fmt.Fprintf(v.w, "*** %s ***  credits: %d\n", e.Outcome.Message(), e.Credits)
			return
		}
		fmt.Fprintf(v.w, "%s  credits: %d\n", e.Outcome.Message(), e.Credits)
	case event.BetChanged:
		fmt.Fprintf(v.w, "bet: %d\n", e.NewBet)
	case event.BetRejected:
		fmt.Fprintf(v.w, "bet stays at %d while the reels spin\n", e.Bet)
	}
}

// reels 畫成 | a | b | c |，以顯示寬度補齊。
func (v *view) reels(r slot.ReelState) string {
	var b strings.Builder
	b.WriteString("|")
	for _, s := range r {
		b.WriteString(" ")
		b.WriteString(runewidth.FillRight(v.symbols.Name(s), cellWidth))
		b.WriteString("|")
	}
	return b.String()
}

func (v *view) banner(st fruitslot.State, pt *slot.Paytable) {
	v.mu.Lock()
	fmt.Fprintf(v.w, "=== %s ===  session %s\n", st.GameName, st.SessionID)
	v.mu.Unlock()
	v.paytable(pt)
	v.help()
}

func (v *view) paytable(pt *slot.Paytable) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, e := range pt.Entries() {
		names := make([]string, len(e.Combo))
		for i, s := range e.Combo {
			names[i] = v.symbols.Name(s)
		}
		combo := strings.Join(names, " ")
		fmt.Fprintf(v.w, "  %s %5d\n", runewidth.FillRight(combo, 3*cellWidth), e.Pay)
	}
}

func (v *view) help() {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintln(v.w, "[enter] spin  [+] raise bet  [-] lower bet  [p] paytable  [q] quit")
}

func (v *view) prompt(st fruitslot.State) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.w, "%s  credits %d  bet %d > ", v.reels(st.Reels), st.Credits, st.Bet)
}

func (v *view) bye(st fruitslot.State) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.w, "\nbye! %d spins, %d credits left\n", st.Spins, st.Credits)
}
