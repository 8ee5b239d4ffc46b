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

package api

import (
	"log/slog"

	"github.com/zintix-labs/fruitslot/server/api/dev"
	v1 "github.com/zintix-labs/fruitslot/server/api/v1"
	"github.com/zintix-labs/fruitslot/server/netsvr"
	"github.com/zintix-labs/fruitslot/server/netsvr/middleware"
	"github.com/zintix-labs/fruitslot/server/svrcfg"
)

// RegisterRoutes 註冊
func RegisterRoutes(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg) error {
	registerMiddleware(svr, sCfg.Log, sCfg.CORSOrigins) // 1. 註冊 middleware
	dev.Register(svr, sCfg)                             // 2. 操作頁與開發工具
	return registerV1API(svr, sCfg)                     // 3. 註冊 v1 api
}

// 註冊 middleware
func registerMiddleware(svr netsvr.NetRouter, log *slog.Logger, origins []string) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(log))
	svr.Use(middleware.Recover)
	svr.Use(middleware.CORS(origins))
	svr.Use(middleware.Compression)
}

// 註冊 v1 api
func registerV1API(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg) error {
	g, err := v1.NewGameHandler(sCfg)
	if err != nil {
		return err
	}
	svr.Group("/v1", func(vOne netsvr.NetRouter) {
		vOne.Get("/state", g.State)
		vOne.Get("/paytable", g.Paytable)
		vOne.Get("/bet", g.Bet)
		vOne.Get("/rng", g.RNG)
		vOne.Get("/ws", g.WS)

		vOne.Post("/spin", g.Spin)
		vOne.Post("/bet", g.Bet)
		vOne.Put("/rng", g.RestoreRNG)
	})
	return nil
}
