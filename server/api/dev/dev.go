// Package dev 提供機台的內嵌操作頁（/）與開發用模擬 endpoint（/dev/sim）。
//
// 操作頁只透過 /v1/ws 與 /v1/paytable 跟引擎溝通，不持有任何遊戲邏輯。
// /dev/sim 使用獨立的 Simulator（各自的手動時鐘與引擎），不影響線上那台機台。
package dev

import (
	"crypto/rand"
	"encoding/json"
	"math"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/zintix-labs/fruitslot"
	"github.com/zintix-labs/fruitslot/errs"
	"github.com/zintix-labs/fruitslot/server/httperr"
	"github.com/zintix-labs/fruitslot/server/netsvr"
	"github.com/zintix-labs/fruitslot/server/svrcfg"
	"github.com/zintix-labs/fruitslot/stats"
)

const (
	maxSimRounds  = 3_000_000
	maxSimWorkers = 16
	maxPlayers    = 10_000
)

// devRequest 是 /dev/sim 的輸入。
//
//   - Seed 為 int64 字串；空字串則以 crypto/rand 產生。
//   - Players > 0 時改跑玩家模擬（每位玩家 InitBalance 起始，Rounds 為每人上限轉數）。
type devRequest struct {
	Bet         int    `json:"bet"`
	Rounds      int    `json:"rounds"`
	Seed        string `json:"seed"`
	Workers     int    `json:"workers"`
	Players     int    `json:"players"`
	InitBalance int    `json:"init_balance"`
}

// devSimReport 是 /dev/sim 的輸出。
type devSimReport struct {
	Seed      int64                   `json:"seed"`
	ElapsedMs int64                   `json:"elapsed_ms"`
	Report    *stats.StatReport       `json:"report"`
	Players   *stats.EstimatorPlayers `json:"players,omitempty"`
}

// Register 註冊操作頁與開發工具。
func Register(svr netsvr.NetRouter, cfg *svrcfg.SvrCfg) {
	svr.Get("/", playPage)
	svr.Post("/dev/sim", devSim(cfg))
}

// playPage 回傳內嵌 HTML（single page）。這裡不做 templating，降低維護成本。
func playPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(playPageHTML))
}

// devSim 以目前機台的設定執行統計模擬。
func devSim(cfg *svrcfg.SvrCfg) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := new(devRequest)
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(req); err != nil {
			httperr.Errs(w, errs.NewWarn("invalid json:"+err.Error()))
			return
		}
		if cfg == nil || cfg.Engine == nil {
			httperr.Errs(w, errs.NewFatal("engine is required"))
			return
		}
		if req.Rounds < 1 || req.Rounds > maxSimRounds {
			httperr.Errs(w, errs.Warnf("rounds must be in [1, %d]", maxSimRounds))
			return
		}
		if req.Players < 0 || req.Players > maxPlayers {
			httperr.Errs(w, errs.Warnf("players must be in [0, %d]", maxPlayers))
			return
		}
		workers := min(max(req.Workers, 1), maxSimWorkers)
		seed, err := resolveSeed(req.Seed)
		if err != nil {
			httperr.Errs(w, err)
			return
		}
		sim, err := fruitslot.NewSimulatorWithSeed(cfg.Engine.Setting(), seed)
		if err != nil {
			httperr.Errs(w, err)
			return
		}

		out := devSimReport{Seed: seed}
		var elapsed time.Duration
		if req.Players > 0 {
			out.Report, out.Players, elapsed, err = sim.SimPlayers(workers, req.Players, req.InitBalance, req.Bet, req.Rounds, false)
		} else {
			out.Report, elapsed, err = sim.SimMP(req.Bet, req.Rounds, workers, false)
		}
		if err != nil {
			httperr.Errs(w, err)
			return
		}
		out.ElapsedMs = elapsed.Milliseconds()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}

// resolveSeed 解析 seed（int64 string）。
//   - 空字串：自動生成 seed（crypto/rand），方便快速測試。
//   - 非空：必須為合法 int64。
func resolveSeed(seed string) (int64, error) {
	seed = strings.TrimSpace(seed)
	if seed == "" {
		return randomSeed()
	}
	v, err := strconv.ParseInt(seed, 10, 64)
	if err != nil {
		return 0, errs.NewWarn("seed must be int64")
	}
	return v, nil
}

// randomSeed 使用 crypto/rand 產生 [0, MaxInt64) 的種子。
func randomSeed() (int64, error) {
	rnd, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return 0, errs.NewWarn("seed generate failed")
	}
	return rnd.Int64(), nil
}
