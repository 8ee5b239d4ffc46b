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

package v1

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zintix-labs/fruitslot/dto"
	"github.com/zintix-labs/fruitslot/event"
	"github.com/zintix-labs/fruitslot/server/httperr"
	"github.com/zintix-labs/fruitslot/server/netsvr/middleware"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10
	maxMessage   = 4096
	maxWaitSlack = 5 * time.Second
)

// checkOrigin 與 CORS 使用同一份白名單；"*" 表示全部允許。
func checkOrigin(origins []string) func(r *http.Request) bool {
	if len(origins) == 0 || slices.Contains(origins, "*") {
		return func(r *http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		o := r.Header.Get("Origin")
		if o == "" {
			return true
		}
		return slices.ContainsFunc(origins, func(s string) bool { return strings.EqualFold(s, o) })
	}
}

// WS GET /v1/ws
//
// 連線後先送一次 state，之後推播所有引擎事件（dto.Envelope）。
// 客戶端送 dto.Command：spin / bet / state / ping。
// spin 與 bet 的結果（含拒絕）都經由事件回來，不另外回覆。
func (h *GameHandler) WS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.up.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade 已經寫回錯誤
		h.log.Warn("ws upgrade failed", slog.String("req_id", middleware.GetReqId(r)), slog.Any("err", err))
		return
	}
	c := &wsClient{
		h:    h,
		conn: conn,
		sub:  h.bus.Subscribe(h.clientBuf),
		out:  make(chan dto.Envelope, 16),
		quit: make(chan struct{}),
		log:  h.log.With(slog.String("req_id", middleware.GetReqId(r))),
	}
	c.log.Debug("ws connected", slog.Int("subscribers", h.bus.Subscribers()))
	c.out <- dto.NewStateEnvelope(h.state())

	go c.writeLoop()
	c.readLoop()
}

// wsClient 一條連線兩個 goroutine：readLoop 處理指令，writeLoop 是唯一的寫入者。
type wsClient struct {
	h    *GameHandler
	conn *websocket.Conn
	sub  *event.Subscription
	out  chan dto.Envelope
	quit chan struct{} // writeLoop 結束時關閉
	log  *slog.Logger
}

func (c *wsClient) readLoop() {
	defer func() {
		c.sub.Cancel()
		c.conn.Close()
		c.log.Debug("ws disconnected", slog.Uint64("dropped", c.sub.Dropped()))
	}()

	c.conn.SetReadLimit(maxMessage)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("ws read failed", slog.Any("err", err))
			}
			return
		}
		if env, ok := c.handle(data); ok {
			select {
			case c.out <- env:
			case <-c.quit:
				return
			}
		}
	}
}

// handle 執行一個指令；需要直接回覆時回傳 true。
func (c *wsClient) handle(data []byte) (dto.Envelope, bool) {
	cmd, err := dto.DecodeCommand(data)
	if err != nil {
		return dto.NewErrorEnvelope(err), true
	}
	switch cmd.Type {
	case dto.CmdSpin:
		httperr.Log(c.log, "spin rejected", c.h.eng.Spin())
	case dto.CmdBet:
		_, err := c.h.eng.AdjustBet(cmd.Delta)
		httperr.Log(c.log, "bet rejected", err)
	case dto.CmdState:
		return dto.NewStateEnvelope(c.h.state()), true
	case dto.CmdPing:
		return dto.Envelope{Type: dto.TypePong}, true
	}
	return dto.Envelope{}, false
}

func (c *wsClient) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(c.quit)
		c.conn.Close()
	}()

	ss := c.h.eng.Symbols()
	for {
		select {
		case ev, ok := <-c.sub.C:
			if !ok {
				// bus 關閉（server shutdown）
				_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
				return
			}
			env, ok := dto.NewEvent(ev, ss)
			if !ok {
				continue
			}
			if err := c.write(env); err != nil {
				return
			}
		case env := <-c.out:
			if err := c.write(env); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *wsClient) write(env dto.Envelope) error {
	b, err := json.Marshal(env)
	if err != nil {
		c.log.Error("encode envelope failed", slog.Any("err", err))
		return nil
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}
