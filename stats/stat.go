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
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat/distuv"
)

var lang language.Tag = language.English

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo"`
	Hi float64 `json:"Hi"`
}

// StatReport 一段 session（或多段合併）的統計報告
type StatReport struct {
	Summary *SummaryReport `json:"Summary"`
	Mult    *MultReport    `json:"Mult"`
	Combos  []ComboReport  `json:"Combos"`
	Dist    *DistReport    `json:"Dist"`
	Player  *PlayerReport  `json:"Player,omitzero"`
	isDone  bool
}

type SummaryReport struct {
	GameName    string  `json:"GameName"`
	Seed        int64   `json:"Seed"`
	Symbols     int     `json:"Symbols"`
	Bet         int     `json:"Bet"`
	TotalBet    int     `json:"TotalBet"`
	TotalWin    int     `json:"TotalWin"`
	RTP         float64 `json:"RTP"`
	RtpCI       CI      `json:"RtpCI"`
	TheoryRTP   float64 `json:"TheoryRTP"`
	Std         float64 `json:"Std"`
	Cv          float64 `json:"Cv"`
	Hits        int     `json:"Hits"`
	ThreeKind   int     `json:"ThreeKind"`
	TwoKind     int     `json:"TwoKind"`
	HitRate     float64 `json:"HitRate"`
	HitCI       CI      `json:"HitCI"`
	NoWinRounds int     `json:"NoWinRounds"`
	Rejected    int     `json:"Rejected"`
	Rounds      int     `json:"Rounds"`
}

// MultReport 贏倍（派彩 / 押注）統計
type MultReport struct {
	TotalWinMult      float64 `json:"TotalWinMult"`
	TotalWinMultSqSum float64 `json:"TotalWinMultSqSum"` // 平方和
}

// ComboReport 賠付表每一列的命中統計
type ComboReport struct {
	Combo    string  `json:"Combo"`
	Kind     string  `json:"Kind"`
	Pay      int     `json:"Pay"`
	Hits     int     `json:"Hits"`
	Rate     float64 `json:"Rate"`
	Expected float64 `json:"Expected"` // 均勻抽樣下的理論機率
}

// DistReport 贏倍區間落點統計
type DistReport struct {
	WinBucket []string  `json:"WinBucket"`
	Collect   []int     `json:"Collect"`
	Dist      []float64 `json:"Dist"`
}

// PlayerReport 玩家統計
//
// 只有以玩家模式紀錄時才會出現
type PlayerReport struct {
	InitBalance int  `json:"InitBalance"`
	Balance     int  `json:"Balance"`
	MaxBalance  int  `json:"MaxBalance"`
	MinBalance  int  `json:"MinBalance"`
	Bust        bool `json:"Bust"`
	Cashout     bool `json:"Cashout"`
	Alive       bool `json:"Alive"`
}

// ============================================================
// ** 公開方法 **
// ============================================================

// Done 將累積計數轉換為最終統計結果並鎖定 isDone 標記。
//
// 紀錄過程只累加 int，統計完成後一次性計算比例與信賴區間。
func (s *StatReport) Done() {
	if s.isDone {
		return
	}
	s.Summary.RTP = s.Rtp()
	s.Summary.RtpCI = s.Ci()
	s.Summary.Std = s.Std()
	s.Summary.Cv = s.Cv()
	s.Summary.HitRate, s.Summary.HitCI = proportionCICP(s.Summary.Hits, s.Summary.Rounds, 0.95)

	rf := float64(s.Summary.Rounds)
	if s.Dist != nil {
		s.Dist.Dist = make([]float64, len(s.Dist.Collect))
		for i, c := range s.Dist.Collect {
			if rf > 0 {
				s.Dist.Dist[i] = float64(c) / rf
			}
		}
	}
	for i := range s.Combos {
		if rf > 0 {
			s.Combos[i].Rate = float64(s.Combos[i].Hits) / rf
		}
	}
	if s.Player != nil {
		s.Player.Alive = !(s.Player.Bust || s.Player.Cashout)
	}
	s.isDone = true
}

// Rtp 回傳整體 RTP（總派彩 / 總押注）
func (s *StatReport) Rtp() float64 {
	if s.Summary.Rounds == 0 || s.Summary.TotalBet == 0 {
		return 0
	}
	return float64(s.Summary.TotalWin) / float64(s.Summary.TotalBet)
}

// Std 回傳單局贏倍的樣本標準差
func (s *StatReport) Std() float64 {
	if s.Summary.Rounds < 2 || s.Mult == nil {
		return 0
	}
	rounds := float64(s.Summary.Rounds)
	variance := (s.Mult.TotalWinMultSqSum - s.Mult.TotalWinMult*s.Mult.TotalWinMult/rounds) / (rounds - 1)
	return math.Sqrt(max(variance, 0))
}

// Cv 回傳單局贏倍的變異係數
func (s *StatReport) Cv() float64 {
	rtp := s.Rtp()
	if rtp <= 0 {
		return 0
	}
	return s.Std() / rtp
}

// Ci 回傳 RTP 的 95% 常態近似信賴區間
func (s *StatReport) Ci() CI {
	rtp := s.Rtp()
	se := 0.0
	if s.Summary.Rounds > 1 {
		se = s.Std() / math.Sqrt(float64(s.Summary.Rounds))
	}
	z := distuv.UnitNormal.Quantile(0.975)
	return CI{Lo: max(rtp-z*se, 0.0), Hi: rtp + z*se}
}

func (s *StatReport) WriteWith(w io.Writer, rep StatReportRender) error {
	s.Done()
	return rep.Write(w, s)
}

// StdOut 以表格輸出到 stdout；ut 為耗時，<= 0 時不輸出速度。
func (s *StatReport) StdOut(ut time.Duration) {
	s.Done()
	if ut > 0 {
		formatDuration(ut, s.Summary.Rounds)
	}
	_ = s.writeTable(os.Stdout)
}

// ============================================================
// ** 內部方法 **
// ============================================================

func formatDuration(d time.Duration, spins int) {
	p := message.NewPrinter(lang)
	sec := max(d.Seconds(), 1e-9)
	sps := int(float64(spins) / sec)
	if sec < 60.0 {
		p.Printf("used: %.2f seconds\nsps : %d spins/sec\n", sec, sps)
		return
	}
	sc := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		p.Printf("used: %dm %ds\nsps : %d spins/sec\n", m, sc, sps)
		return
	}
	p.Printf("used: %dh:%dm:%ds\nsps : %d spins/sec\n", h, m, sc, sps)
}

func (s *StatReport) writeTable(w io.Writer) error {
	sk, sm := s.fmtBasic()
	out := fmtTable(s.Summary.GameName, sk, sm)
	if len(s.Combos) > 0 {
		out += s.fmtCombos()
	}
	if s.Player != nil {
		pk, pm := s.fmtPlayer()
		out += fmtTable("Player", pk, pm)
	}
	_, err := io.WriteString(w, out)
	return err
}

func (s *StatReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	sm := s.Summary
	basic := map[string]string{
		"Game Name":    sm.GameName,
		"Seed":         fmt.Sprintf("%d", sm.Seed),
		"Bet":          p.Sprintf("%d", sm.Bet),
		"Total Rounds": p.Sprintf("%d", sm.Rounds),
		"Total RTP":    p.Sprintf("%.2f %%", 100.0*sm.RTP),
		"RTP 95% CI":   p.Sprintf("[%.2f%%,%.2f%%]", 100.0*sm.RtpCI.Lo, 100.0*sm.RtpCI.Hi),
		"Theory RTP":   p.Sprintf("%.2f %%", 100.0*sm.TheoryRTP),
		"Total Bet":    p.Sprintf("%d", sm.TotalBet),
		"Total Win":    p.Sprintf("%d", sm.TotalWin),
		"Hit Rate":     p.Sprintf("%.2f %%", 100.0*sm.HitRate),
		"Hit 95% CI":   p.Sprintf("[%.2f%%,%.2f%%]", 100.0*sm.HitCI.Lo, 100.0*sm.HitCI.Hi),
		"Three/Two":    p.Sprintf("%d / %d", sm.ThreeKind, sm.TwoKind),
		"NoWin Rounds": p.Sprintf("%d", sm.NoWinRounds),
		"STD":          p.Sprintf("%.3f", sm.Std),
		"CV":           p.Sprintf("%.3f", sm.Cv),
	}
	keys := []string{"Game Name", "Seed", "Bet", "Total Rounds", "Total RTP", "RTP 95% CI", "Theory RTP",
		"Total Bet", "Total Win", "Hit Rate", "Hit 95% CI", "Three/Two", "NoWin Rounds", "STD", "CV"}
	return keys, basic
}

func (s *StatReport) fmtPlayer() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	pl := s.Player
	msg := map[string]string{
		"Init Balance": p.Sprintf("%d", pl.InitBalance),
		"Balance":      p.Sprintf("%d", pl.Balance),
		"Max Balance":  p.Sprintf("%d", pl.MaxBalance),
		"Min Balance":  p.Sprintf("%d", pl.MinBalance),
		"Result":       sessionResult(pl),
	}
	return []string{"Init Balance", "Balance", "Max Balance", "Min Balance", "Result"}, msg
}

func sessionResult(pl *PlayerReport) string {
	switch {
	case pl.Bust:
		return "bust"
	case pl.Cashout:
		return "cashout"
	default:
		return "alive"
	}
}

// fmtCombos 輸出賠付表命中表；emoji 寬度交給 runewidth 計算。
func (s *StatReport) fmtCombos() string {
	p := message.NewPrinter(lang)
	head := []string{"Combo", "Kind", "Pay", "Hits", "Rate", "Expected"}
	rows := make([][]string, 0, len(s.Combos))
	for _, c := range s.Combos {
		rows = append(rows, []string{
			c.Combo,
			c.Kind,
			p.Sprintf("%d", c.Pay),
			p.Sprintf("%d", c.Hits),
			p.Sprintf("%.4f%%", 100*c.Rate),
			p.Sprintf("%.4f%%", 100*c.Expected),
		})
	}
	width := make([]int, len(head))
	for i, h := range head {
		width[i] = runewidth.StringWidth(h)
	}
	for _, r := range rows {
		for i, v := range r {
			width[i] = max(width[i], runewidth.StringWidth(v))
		}
	}

	var sb strings.Builder
	divider := "+"
	for _, w := range width {
		divider += strings.Repeat("-", w+2) + "+"
	}
	line := func(cells []string) {
		sb.WriteString("|")
		for i, v := range cells {
			sb.WriteString(" " + runewidth.FillRight(v, width[i]) + " |")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(divider + "\n")
	line(head)
	sb.WriteString(divider + "\n")
	for _, r := range rows {
		line(r)
	}
	sb.WriteString(divider + "\n")
	return sb.String()
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		maxKeyLen = max(maxKeyLen, runewidth.StringWidth(k))
		maxValLen = max(maxValLen, runewidth.StringWidth(m))
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	left := max((totalInner-titleW)/2, 0)
	right := max(totalInner-titleW-left, 0)

	var sb strings.Builder
	sb.WriteString(top)
	sb.WriteString("|" + blank(left) + title + blank(right) + "|\n")
	sb.WriteString(divider)
	for _, k := range keys {
		sb.WriteString("| " + runewidth.FillRight(k, maxKeyLen-2) + " | " + runewidth.FillRight(msg[k], maxValLen-2) + " |\n")
	}
	sb.WriteString(divider)
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
