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

// Package v1 提供機台的 HTTP 與 WebSocket API。
//
// 所有 handler 共用同一台引擎；引擎事件經由 event.Bus 扇出給每條 WebSocket 連線。
// HTTP 回應只描述「請求當下」的狀態，spin 的過程（tick、結算）請走 /v1/ws。
package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/zintix-labs/fruitslot"
	"github.com/zintix-labs/fruitslot/dto"
	"github.com/zintix-labs/fruitslot/errs"
	"github.com/zintix-labs/fruitslot/event"
	"github.com/zintix-labs/fruitslot/server/httperr"
	"github.com/zintix-labs/fruitslot/server/svrcfg"
)

// ============================================================
// ** GameHandler **
// ============================================================

type GameHandler struct {
	eng       *fruitslot.Engine
	bus       *event.Bus
	log       *slog.Logger
	clientBuf int
	up        websocket.Upgrader
}

func NewGameHandler(sCfg *svrcfg.SvrCfg) (*GameHandler, error) {
	if sCfg == nil {
		return nil, errs.NewFatal("server config is required")
	}
	if err := sCfg.Valid(); err != nil {
		return nil, errs.Wrap(err, "build game handler error")
	}
	return &GameHandler{
		eng:       sCfg.Engine,
		bus:       sCfg.Bus,
		log:       sCfg.Log,
		clientBuf: sCfg.ClientBuf,
		up: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin(sCfg.CORSOrigins),
		},
	}, nil
}

func (h *GameHandler) state() dto.State {
	return dto.NewState(h.eng.State(), h.eng.Symbols())
}

// State GET /v1/state
func (h *GameHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.state())
}

// Paytable GET /v1/paytable
func (h *GameHandler) Paytable(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.NewPaytable(h.eng.Setting().GameName, h.eng.Paytable(), h.eng.Symbols()))
}

// SpinReply 是 POST /v1/spin 的回應。
type SpinReply struct {
	Accepted    bool         `json:"accepted"`
	Outcome     *dto.Outcome `json:"outcome,omitempty"` // 被拒絕，或 wait=true 時的結算結果
	State       dto.State    `json:"state"`
	SettlesInMs int64        `json:"settles_in_ms,omitempty"`
}

// Spin POST /v1/spin[?wait=true]
//
//   - 接受：202，過程事件由 /v1/ws 推播。
//   - wait=true：阻塞到結算後回 200，outcome 為本次結果。
//   - 拒絕（轉動中、餘額不足）：409，狀態不變。
func (h *GameHandler) Spin(w http.ResponseWriter, r *http.Request) {
	wait, _ := strconv.ParseBool(r.URL.Query().Get("wait"))

	if err := h.eng.Spin(); err != nil {
		httperr.Log(h.log, "spin rejected", err)
		if reason, ok := rejectReason(err); ok {
			o := dto.NewOutcome(event.Rejected(reason), h.eng.Symbols())
			writeJSON(w, httperr.StatusCode(err), SpinReply{Outcome: &o, State: h.state()})
			return
		}
		httperr.Errs(w, err)
		return
	}

	if !wait {
		writeJSON(w, http.StatusAccepted, SpinReply{
			Accepted:    true,
			State:       h.state(),
			SettlesInMs: h.eng.SpinDuration().Milliseconds(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*h.eng.SpinDuration()+maxWaitSlack)
	defer cancel()
	if err := h.eng.Wait(ctx); err != nil {
		httperr.Errs(w, errs.Wrap(err, "wait for settlement"))
		return
	}
	st := h.state()
	writeJSON(w, http.StatusOK, SpinReply{Accepted: true, Outcome: st.LastResult, State: st})
}

// BetReply 是 /v1/bet 的回應。
type BetReply struct {
	Bet   int       `json:"bet"`
	State dto.State `json:"state"`
}

// Bet GET /v1/bet?delta=100 或 POST /v1/bet {"delta":100}
func (h *GameHandler) Bet(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodeBetRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	bet, err := h.eng.AdjustBet(req.Delta)
	if err != nil {
		httperr.Log(h.log, "bet rejected", err)
		writeJSON(w, httperr.StatusCode(err), BetReply{Bet: bet, State: h.state()})
		return
	}
	writeJSON(w, http.StatusOK, BetReply{Bet: bet, State: h.state()})
}

// RNG GET /v1/rng：回傳 seed 與亂數核心快照。
func (h *GameHandler) RNG(w http.ResponseWriter, r *http.Request) {
	snap, err := h.eng.SnapshotRNG()
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.RNGState{Seed: h.eng.Seed(), SnapB64U: dto.EncodeSnap(snap)})
}

// RestoreRNG PUT /v1/rng {"snap_b64u":"..."}：轉動中回 409。
func (h *GameHandler) RestoreRNG(w http.ResponseWriter, r *http.Request) {
	snap, err := dto.DecodeRNGState(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	if err := h.eng.RestoreRNG(snap); err != nil {
		httperr.Log(h.log, "restore rng failed", err)
		httperr.Errs(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.RNGState{Seed: h.eng.Seed(), SnapB64U: dto.EncodeSnap(snap)})
}

func rejectReason(err error) (event.RejectReason, bool) {
	switch {
	case errors.Is(err, fruitslot.ErrBusy):
		return event.ReasonBusy, true
	case errors.Is(err, fruitslot.ErrInsufficientFunds):
		return event.ReasonInsufficientFunds, true
	}
	return event.ReasonNone, false
}

// writeJSON 先寫入記憶體再送出，保證不會寫到一半才 error。
func writeJSON(w http.ResponseWriter, status int, v any) {
	var b bytes.Buffer
	if err := json.NewEncoder(&b).Encode(v); err != nil {
		httperr.Errs(w, errs.Wrap(err, "encode response"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b.Bytes())
}
