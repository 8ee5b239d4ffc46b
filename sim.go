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
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/fruitslot/errs"
	"github.com/zintix-labs/fruitslot/recorder"
	"github.com/zintix-labs/fruitslot/sdk/clock"
	"github.com/zintix-labs/fruitslot/sdk/core"
	"github.com/zintix-labs/fruitslot/spec"
	"github.com/zintix-labs/fruitslot/stats"
)

// Simulator 自動連續 spin 的模擬器，可平行跑多台機台並合併統計。
//
// 每台機台是一個以 clock.Manual 驅動的 Engine：Spin 後把時間推進一個 spin 長度即完成一局，
// 因此模擬結果只取決於 seed，不受實際時間影響。
type Simulator struct {
	GameName  string
	gs        *spec.GameSetting
	initSeed  int64
	seedmaker *seedMaker
}

// NewSimulator 以隨機 seed 建立模擬器。
func NewSimulator(gs *spec.GameSetting) (*Simulator, error) {
	seed, err := core.NewSeed()
	if err != nil {
		return nil, errs.Wrap(err, "new crypto seed error in go std lib")
	}
	return NewSimulatorWithSeed(gs, seed)
}

// NewSimulatorWithSeed 以指定 seed 建立模擬器；多機台的 seed 由它衍生。
func NewSimulatorWithSeed(gs *spec.GameSetting, seed int64) (*Simulator, error) {
	if gs == nil {
		return nil, errs.NewFatal("game setting required")
	}
	if err := gs.Init(); err != nil {
		return nil, err
	}
	return &Simulator{
		GameName:  gs.GameName,
		gs:        gs,
		initSeed:  seed,
		seedmaker: newSeedMaker(seed),
	}, nil
}

// Seed 回傳初始 seed。
func (s *Simulator) Seed() int64 { return s.initSeed }

// machine 一台模擬機台
type machine struct {
	clk *clock.Manual
	eng *Engine
	rec *recorder.SessionRecorder
}

func (s *Simulator) newMachine(seed int64, bet int, credits int, player bool) (*machine, error) {
	initBalance := 0
	if player {
		initBalance = credits
	}
	rec, err := recorder.NewSessionRecorder(s.gs, seed, initBalance)
	if err != nil {
		return nil, err
	}
	clk := clock.NewManual(time.Time{})
	eng, err := New(s.gs,
		WithClock(clk),
		WithSink(rec),
		WithSeed(seed),
		WithStartingCredits(credits),
		WithSessionID("sim"),
	)
	if err != nil {
		return nil, err
	}
	if got, _ := eng.AdjustBet(bet - eng.State().Bet); got != bet {
		return nil, errs.Warnf("bet %d is not on the bet grid (got %d)", bet, got)
	}
	return &machine{clk: clk, eng: eng, rec: rec}, nil
}

// spin 完成一局；餘額不足時回傳 false。
func (m *machine) spin() bool {
	if err := m.eng.Spin(); err != nil {
		return !errors.Is(err, ErrInsufficientFunds)
	}
	m.clk.Advance(m.eng.SpinDuration())
	return true
}

func (s *Simulator) checkBet(bet int) (int, error) {
	if bet == 0 {
		bet = s.gs.InitialBet
	}
	if bet < s.gs.MinBet || bet > s.gs.MaxBet {
		return 0, errs.Warnf("bet must be in [%d, %d], got %d", s.gs.MinBet, s.gs.MaxBet, bet)
	}
	return bet, nil
}

// Sim 單線模擬：一台機台連續跑 rounds 局（餘額足夠，不會中斷），回傳統計結果與用時。bet 為 0 時使用初始押注。
func (s *Simulator) Sim(bet int, rounds int, showpb bool) (*stats.StatReport, time.Duration, error) {
	return s.simMachines(bet, rounds, 1, showpb)
}

// SimMP 平行執行 mp 台機台，每台 rounds 局，合併統計結果後回傳。
func (s *Simulator) SimMP(bet int, rounds int, mp int, showpb bool) (*stats.StatReport, time.Duration, error) {
	if mp <= 0 {
		return nil, 0, errs.NewWarn("workers must > 0")
	}
	return s.simMachines(bet, rounds, mp, showpb)
}

func (s *Simulator) simMachines(bet int, rounds int, mp int, showpb bool) (*stats.StatReport, time.Duration, error) {
	bet, err := s.checkBet(bet)
	if err != nil {
		return nil, 0, err
	}
	if rounds < 1 {
		return nil, 0, errs.NewWarn("round must > 0")
	}

	ms := make([]*machine, mp)
	for i := range ms {
		seed := s.initSeed
		if i > 0 {
			seed = s.seedmaker.next()
		}
		// 機台模式：給足夠的餘額讓每一局都能開
		if ms[i], err = s.newMachine(seed, bet, rounds*bet, false); err != nil {
			return nil, 0, err
		}
	}

	bar := pb.StartNew(rounds * mp)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	wg := new(sync.WaitGroup)
	for _, m := range ms {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range rounds {
				m.spin()
				bar.Increment()
			}
		}()
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	recs := make([]*recorder.SessionRecorder, len(ms))
	for i, m := range ms {
		recs[i] = m.rec
	}
	merged, err := recorder.MergeSessionRecorder(recs)
	if err != nil {
		return nil, 0, err
	}
	return merged.Done(), used, nil
}

// SimPlayers 模擬多位玩家各自帶 initBalance 進場，最多玩 rounds 局，破產或贏到 3 倍本金即離場。
// 回傳合併的機台報表與玩家體驗評估。
func (s *Simulator) SimPlayers(mp int, players int, initBalance int, bet int, rounds int, showpb bool) (*stats.StatReport, *stats.EstimatorPlayers, time.Duration, error) {
	bet, err := s.checkBet(bet)
	if err != nil {
		return nil, nil, 0, err
	}
	if players < 1 || initBalance < 1 || rounds < 1 || mp < 1 {
		return nil, nil, 0, errs.NewWarn("invalid param")
	}

	// 先依序建好玩家，seed 的分配與並發順序無關
	ms := make([]*machine, players)
	for i := range ms {
		if ms[i], err = s.newMachine(s.seedmaker.next(), bet, initBalance, true); err != nil {
			return nil, nil, 0, err
		}
	}

	jobs := make(chan *machine, 2048)
	bar := pb.StartNew(players)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	wg := new(sync.WaitGroup)
	wg.Add(mp)
	for range mp {
		go func() {
			defer wg.Done()
			for m := range jobs {
				for range rounds {
					if m.rec.Leave() || !m.spin() {
						break
					}
				}
				bar.Increment()
			}
		}()
	}
	for _, m := range ms {
		jobs <- m
	}
	close(jobs)
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	recs := make([]*recorder.SessionRecorder, len(ms))
	reports := make([]*stats.StatReport, len(ms))
	for i, m := range ms {
		recs[i] = m.rec
		reports[i] = m.rec.Done()
	}
	merged, err := recorder.MergeSessionRecorder(recs)
	if err != nil {
		return nil, nil, 0, err
	}
	return merged.Done(), stats.EstimatorPlayerExp(reports), used, nil
}

const mask63 = uint64(1<<63) - 1

type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// next 以全週期 LCG (mod 2^63) 推進，再用可逆 mix63 打散；CAS 保證並發下每次取得唯一值。
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()
		next := (old*6364136223846793005 + 1442695040888963407) & mask63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next))
		}
	}
}

// mix63 只用可逆的 xor-shift 與乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
