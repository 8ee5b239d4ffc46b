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

package stats

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// ============================================================
// ** 結構宣告 **
// ============================================================

// EstimatorPlayers 多位玩家 session 的體驗評估
type EstimatorPlayers struct {
	Players     int
	RtpStat     RtpStat
	EventStat   EventStat
	SessionStat SessionStat
}

// RtpStat 玩家實際體驗到的 RTP 分布
type RtpStat struct {
	ExpMedian PointStat
	ExpPerc   map[string]PointStat // 玩家分位數 → RTP，例如 "P10"
	RtpPerc   map[string]PointStat // RTP 門檻 → 玩家比例，例如 "<=50%"
}

// PointStat 點估計與信賴區間
type PointStat struct {
	Hat float64
	CI  CI
}

// EventStat 每位玩家遇到某事件的次數分布
type EventStat struct {
	ThreeKind EventCount
	Bucket    BucketEvent
}

// EventCount 事件發生 0 / 1 / 2 / 3+ 次的玩家比例
type EventCount struct {
	Zero PointStat
	One  PointStat
	Two  PointStat
	More PointStat
}

// BucketEvent 對應贏倍分桶的事件統計
type BucketEvent struct {
	BucketLabel []string
	BucketCount []EventCount
}

// SessionStat 玩家離場原因
type SessionStat struct {
	Bust    PointStat // 餘額不足下一注
	Cashout PointStat // 贏到離場線
	Alive   PointStat // 打滿局數
}

var (
	expQuantiles = []struct {
		label string
		q     float64
	}{{"P10", 0.10}, {"P33", 1.0 / 3.0}, {"P67", 2.0 / 3.0}, {"P90", 0.90}}
	rtpThresholds = []struct {
		label string
		x     float64
	}{{"<=30%", 0.30}, {"<=50%", 0.50}, {"<=70%", 0.70}, {"<=100%", 1.00}}
)

// ============================================================
// ** 對外 : 玩家體驗評估 **
// ============================================================

// EstimatorPlayerExp 以每位玩家一份報告評估體驗
//
// 1. RTP：玩家實際 RTP 的分位數與門檻比例。
//
// 2. Event：每位玩家中了幾次三連、各贏倍區間中了幾次。
//
// 3. Session：破產、贏滿離場、打滿局數的比例。
func EstimatorPlayerExp(sts []*StatReport) *EstimatorPlayers {
	n := len(sts)
	out := &EstimatorPlayers{Players: n}
	if n == 0 {
		return out
	}

	rtp := make([]float64, n)
	for i, s := range sts {
		rtp[i] = s.Rtp()
	}
	sort.Float64s(rtp)

	lo, hi := quantileCI(rtp, 0.5, 0.95)
	out.RtpStat.ExpMedian = PointStat{Hat: quantilePoint(rtp, 0.5), CI: CI{Lo: lo, Hi: hi}}
	out.RtpStat.ExpPerc = make(map[string]PointStat, len(expQuantiles))
	for _, eq := range expQuantiles {
		lo, hi := quantileCI(rtp, eq.q, 0.95)
		out.RtpStat.ExpPerc[eq.label] = PointStat{Hat: quantilePoint(rtp, eq.q), CI: CI{Lo: lo, Hi: hi}}
	}
	out.RtpStat.RtpPerc = make(map[string]PointStat, len(rtpThresholds))
	for _, th := range rtpThresholds {
		k := sort.Search(n, func(i int) bool { return rtp[i] > th.x })
		out.RtpStat.RtpPerc[th.label] = pointStat(k, n)
	}

	out.EventStat.ThreeKind = countEvents(sts, func(s *StatReport) int { return s.Summary.ThreeKind })

	labels := Buckets.WinBucketStr()
	out.EventStat.Bucket = BucketEvent{BucketLabel: labels, BucketCount: make([]EventCount, len(labels))}
	for bi := range labels {
		out.EventStat.Bucket.BucketCount[bi] = countEvents(sts, func(s *StatReport) int {
			if s.Dist == nil || bi >= len(s.Dist.Collect) {
				return 0
			}
			return s.Dist.Collect[bi]
		})
	}

	var bust, cash, alive int
	for _, s := range sts {
		if s.Player == nil {
			continue
		}
		switch {
		case s.Player.Bust:
			bust++
		case s.Player.Cashout:
			cash++
		default:
			alive++
		}
	}
	out.SessionStat = SessionStat{Bust: pointStat(bust, n), Cashout: pointStat(cash, n), Alive: pointStat(alive, n)}
	return out
}

func countEvents(sts []*StatReport, count func(*StatReport) int) EventCount {
	var c [4]int
	for _, s := range sts {
		c[min(count(s), 3)]++
	}
	n := len(sts)
	return EventCount{Zero: pointStat(c[0], n), One: pointStat(c[1], n), Two: pointStat(c[2], n), More: pointStat(c[3], n)}
}

func pointStat(k, n int) PointStat {
	hat, ci := proportionCICP(k, n, 0.95)
	return PointStat{Hat: hat, CI: ci}
}

// ============================================================
// ** 內部統計函數 **
// ============================================================

// proportionCICP Clopper–Pearson exact CI for binomial proportion (k successes out of n)
func proportionCICP(k int, n int, confidence float64) (pHat float64, ci CI) {
	if n == 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)

	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return
}

// quantileCI 估計第 q 分位的上下界：把 order statistic 的秩視為二項，以 Beta 反推 p 範圍再轉回索引。
// sorted 必須已排序。
func quantileCI(sorted []float64, q, confidence float64) (float64, float64) {
	n := len(sorted)
	if n == 0 {
		return 0, 0
	}
	if n == 1 {
		return sorted[0], sorted[0]
	}
	alpha := 1 - confidence
	k := min(max(int(q*float64(n)), 1), n-1)

	pLo := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}.Quantile(alpha / 2)
	pHi := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}.Quantile(1 - alpha/2)

	li := min(max(int(pLo*float64(n)), 0), n-1)
	ui := min(max(int(pHi*float64(n))-1, 0), n-1)
	return sorted[li], sorted[ui]
}

// quantilePoint 最近秩法；sorted 必須已排序。
func quantilePoint(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	return sorted[min(max(int(q*float64(n)), 0), n-1)]
}

// ============================================================
// ** 輸出函數 **
// ============================================================

func (est *EstimatorPlayers) Out() {
	fmt.Printf("=== Players: %d ===\n", est.Players)

	rtpKeys := []string{"Median RTP"}
	rtpMsg := map[string]string{"Median RTP": fmtHatCIpct01(est.RtpStat.ExpMedian)}
	for _, eq := range expQuantiles {
		k := eq.label + " RTP"
		rtpKeys = append(rtpKeys, k)
		rtpMsg[k] = fmtHatCIpct01(est.RtpStat.ExpPerc[eq.label])
	}
	for _, th := range rtpThresholds {
		k := th.label + " RTP (players)"
		rtpKeys = append(rtpKeys, k)
		rtpMsg[k] = fmtHatCIpct01(est.RtpStat.RtpPerc[th.label])
	}
	fmt.Println(fmtTable("RTP (Player Experience)", rtpKeys, rtpMsg))

	fmt.Println("=== Three of a kind per player ===")
	fmt.Println(fmtEventCount(est.EventStat.ThreeKind))

	fmt.Println("\n=== Buckets (per player hits in bucket) ===")
	for i, label := range est.EventStat.Bucket.BucketLabel {
		fmt.Printf("%-12s : %s\n", label, fmtEventCount(est.EventStat.Bucket.BucketCount[i]))
	}

	sessionKeys := []string{"Bust", "Cashout", "Alive"}
	sessionMsg := map[string]string{
		"Bust":    fmtHatCIpct01(est.SessionStat.Bust),
		"Cashout": fmtHatCIpct01(est.SessionStat.Cashout),
		"Alive":   fmtHatCIpct01(est.SessionStat.Alive),
	}
	fmt.Println()
	fmt.Println(fmtTable("Session Outcome", sessionKeys, sessionMsg))
}

func fmtPct01(x float64) string {
	return fmt.Sprintf("%.2f%%", x*100)
}

func fmtHatCIpct01(ps PointStat) string {
	return fmt.Sprintf("%s [%s, %s]", fmtPct01(ps.Hat), fmtPct01(ps.CI.Lo), fmtPct01(ps.CI.Hi))
}

func fmtEventCount(ec EventCount) string {
	return fmt.Sprintf("0x: %s | 1x: %s | 2x: %s | 3+x: %s",
		fmtHatCIpct01(ec.Zero),
		fmtHatCIpct01(ec.One),
		fmtHatCIpct01(ec.Two),
		fmtHatCIpct01(ec.More),
	)
}
