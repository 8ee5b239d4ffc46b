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

package dto

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/zintix-labs/fruitslot/errs"
)

// 防止 body 過大
const maxBody = 1 << 20

// BetRequest 調整押注：新押注 = clamp(bet + delta)。
type BetRequest struct {
	Delta int `json:"delta"`
}

// DecodeBetRequest 會把 HTTP 請求解碼成 BetRequest。
//
// 支援：
//   - GET：從 query string 讀取 delta（方便測試）。
//   - POST：從 JSON body 反序列化，未知欄位一律拒絕。
//
// 這裡只負責解碼，押注是否合法由引擎決定（超出範圍的 delta 會被夾值吸收）。
func DecodeBetRequest(r *http.Request) (*BetRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}
	req := new(BetRequest)
	switch r.Method {
	case http.MethodGet:
		s := r.URL.Query().Get("delta")
		if s == "" {
			return nil, errs.NewWarn("delta is required")
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, errs.Warnf("invalid delta: %v", err)
		}
		req.Delta = v
		return req, nil
	case http.MethodPost:
		if err := decodeJSON(r.Body, req); err != nil {
			return nil, err
		}
		return req, nil
	default:
		return nil, errs.NewWarn("method not allowed")
	}
}

// DecodeRNGState 解碼還原 RNG 的 JSON body。
func DecodeRNGState(r *http.Request) ([]byte, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}
	st := new(RNGState)
	if err := decodeJSON(r.Body, st); err != nil {
		return nil, err
	}
	return DecodeSnap(st.SnapB64U)
}

// Command 為 WebSocket 客戶端送來的指令：
//
//	{"type":"spin"} | {"type":"bet","delta":100} | {"type":"state"} | {"type":"ping"}
type Command struct {
	Type  string `json:"type"`
	Delta int    `json:"delta,omitempty"`
}

const (
	CmdSpin  = "spin"
	CmdBet   = "bet"
	CmdState = "state"
	CmdPing  = "ping"
)

// DecodeCommand 解碼並檢查指令類型。
func DecodeCommand(data []byte) (*Command, error) {
	cmd := new(Command)
	if err := json.Unmarshal(data, cmd); err != nil {
		return nil, errs.Warnf("invalid json: %v", err)
	}
	switch cmd.Type {
	case CmdSpin, CmdBet, CmdState, CmdPing:
		return cmd, nil
	default:
		return nil, errs.Warnf("unknown command type %q", cmd.Type)
	}
}

func decodeJSON(body io.Reader, v any) error {
	if body == nil {
		return errs.NewWarn("empty body")
	}
	dec := json.NewDecoder(io.LimitReader(body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errs.Warnf("invalid json: %v", err)
	}
	return nil
}
