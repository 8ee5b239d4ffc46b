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

package stats_test

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/zintix-labs/fruitslot/stats"
)

// buildStatReport 以固定押注與每局派彩建立報告。
func buildStatReport(bet int, wins []int) *stats.StatReport {
	collect := make([]int, stats.Buckets.Len())
	var totalWin, hits int
	var mult, multSq float64
	for _, w := range wins {
		collect[stats.Buckets.Index(w, bet)]++
		totalWin += w
		m := float64(w) / float64(bet)
		mult += m
		multSq += m * m
		if w > 0 {
			hits++
		}
	}
	report := &stats.StatReport{
		Summary: &stats.SummaryReport{
			GameName:    "TestGame",
			Bet:         bet,
			TotalBet:    bet * len(wins),
			TotalWin:    totalWin,
			Hits:        hits,
			NoWinRounds: len(wins) - hits,
			Rounds:      len(wins),
		},
		Mult:   &stats.MultReport{TotalWinMult: mult, TotalWinMultSqSum: multSq},
		Dist:   &stats.DistReport{WinBucket: stats.Buckets.WinBucketStr(), Collect: collect},
		Player: &stats.PlayerReport{},
	}
	report.Done()
	return report
}

func TestStatReportCoreMetrics(t *testing.T) {
	bet := 40
	rep := buildStatReport(bet, []int{bet, 2 * bet})

	wantRTP := float64(bet+2*bet) / float64(2*bet)
	if got := rep.Rtp(); math.Abs(got-wantRTP) > 1e-12 {
		t.Fatalf("RTP got %.12f want %.12f", got, wantRTP)
	}

	// 贏倍 1 與 2 的樣本標準差
	wantStd := math.Sqrt(((1.0 + 4.0) - 9.0/2) / 1)
	if got := rep.Std(); math.Abs(got-wantStd) > 1e-12 {
		t.Fatalf("Std got %.12f want %.12f", got, wantStd)
	}
	if got := rep.Cv(); math.Abs(got-wantStd/wantRTP) > 1e-12 {
		t.Fatalf("CV got %.12f", got)
	}
	if ci := rep.Summary.RtpCI; ci.Lo > wantRTP || ci.Hi < wantRTP {
		t.Fatalf("RTP CI %+v does not contain %.3f", ci, wantRTP)
	}
	if rep.Summary.HitRate != 1 || rep.Summary.HitCI.Hi != 1 {
		t.Fatalf("hit rate %.3f ci %+v", rep.Summary.HitRate, rep.Summary.HitCI)
	}

	total := 0
	for _, c := range rep.Dist.Collect {
		total += c
	}
	if total != rep.Summary.Rounds || len(rep.Dist.Dist) != len(rep.Dist.WinBucket) {
		t.Fatalf("distribution inconsistent: %+v", rep.Dist)
	}

	rep.Done() // idempotent
	if rep.Rtp() != wantRTP {
		t.Fatalf("RTP changed after second Done")
	}
}

func TestWinBucketIndex(t *testing.T) {
	labels := stats.Buckets.WinBucketStr()
	cases := []struct {
		win, bet int
		want     string
	}{
		{0, 100, "[0,0]"},
		{40, 100, "(0,1)"},
		{100, 100, "[1,2)"},
		{150, 100, "[1,2)"},
		{300, 100, "[2,5)"},
		{1000, 100, "[10,20)"},
		{1000, 500, "[2,5)"},
		{5000, 100, "[20,+inf)"},
	}
	for _, c := range cases {
		if got := labels[stats.Buckets.Index(c.win, c.bet)]; got != c.want {
			t.Fatalf("Index(%d,%d) = %s, want %s", c.win, c.bet, got, c.want)
		}
	}
}

func TestRenderers(t *testing.T) {
	rep := buildStatReport(100, []int{0, 0, 150, 1000})
	rep.Combos = []stats.ComboReport{{Combo: "7️⃣7️⃣7️⃣", Kind: "three_of_a_kind", Pay: 1000, Hits: 1}}

	for _, name := range []string{"table", "json", "yaml"} {
		r, ok := stats.RenderByName(name)
		if !ok {
			t.Fatalf("render %s missing", name)
		}
		var buf bytes.Buffer
		if err := rep.WriteWith(&buf, r); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !strings.Contains(buf.String(), "TestGame") {
			t.Fatalf("%s output missing game name:\n%s", name, buf.String())
		}
	}
	if _, ok := stats.RenderByName("xml"); ok {
		t.Fatalf("xml should be unknown")
	}

	var buf bytes.Buffer
	_ = rep.WriteWith(&buf, &stats.JsonStatReportRender{})
	var back stats.StatReport
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("json: %v", err)
	}
	if back.Summary.TotalWin != 1150 || back.Summary.Rounds != 4 {
		t.Fatalf("round trip summary %+v", back.Summary)
	}
}

func TestEstimatorRtpAndSession(t *testing.T) {
	// RTP 由 0.00 到 0.99 的 100 位玩家
	reports := make([]*stats.StatReport, 0, 100)
	for i := range 100 {
		reports = append(reports, buildStatReport(100, []int{i}))
	}
	est := stats.EstimatorPlayerExp(reports)
	if math.Abs(est.RtpStat.ExpMedian.Hat-0.5) > 0.05 {
		t.Fatalf("median RTP expected ~0.5, got %.3f", est.RtpStat.ExpMedian.Hat)
	}
	if math.Abs(est.RtpStat.ExpPerc["P90"].Hat-0.9) > 0.05 {
		t.Fatalf("P90 RTP expected ~0.9, got %.3f", est.RtpStat.ExpPerc["P90"].Hat)
	}
	if got := est.RtpStat.RtpPerc["<=50%"].Hat; got != 0.51 {
		t.Fatalf("<=50%% players got %.2f want 0.51", got)
	}

	// 3 bust, 2 cashout, 5 alive
	samples := make([]*stats.StatReport, 10)
	for i := range 10 {
		r := buildStatReport(100, []int{0})
		switch {
		case i < 3:
			r.Player.Bust = true
		case i < 5:
			r.Player.Cashout = true
		}
		r.Summary.ThreeKind = i % 5
		samples[i] = r
	}
	est2 := stats.EstimatorPlayerExp(samples)
	if est2.SessionStat.Bust.Hat != 0.3 || est2.SessionStat.Cashout.Hat != 0.2 || est2.SessionStat.Alive.Hat != 0.5 {
		t.Fatalf("session outcome %+v", est2.SessionStat)
	}
	// ThreeKind: 0,1,2,3,4 各兩位 → 0x 20%, 3+x 40%
	if est2.EventStat.ThreeKind.Zero.Hat != 0.2 || est2.EventStat.ThreeKind.More.Hat != 0.4 {
		t.Fatalf("three kind counts %+v", est2.EventStat.ThreeKind)
	}
}
