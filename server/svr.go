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

package server

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/zintix-labs/fruitslot/errs"
	"github.com/zintix-labs/fruitslot/server/api"
	"github.com/zintix-labs/fruitslot/server/app"
	"github.com/zintix-labs/fruitslot/server/netsvr"
	"github.com/zintix-labs/fruitslot/server/svrcfg"
)

// Run 是 server 套件的「組裝器（assembler）」與「啟動入口（runtime entry）」。
//
// 它負責：
//  1. 驗證輸入的 SvrCfg（包含必要依賴，例如 logger、引擎、事件匯流排）。
//  2. 建立 HTTP server（netsvr），註冊路由與 middleware。
//  3. 以 app.App 管理 server、事件匯流排與額外元件（例如 AsyncHandler）的啟停。
//
// 關閉順序為 server → bus → extras，確保最後一批事件與 log 都能送出。
func Run(sCfg *svrcfg.SvrCfg, extras ...app.Component) error {
	if err := sCfg.Valid(); err != nil {
		// 防止外層傳入的logger不可用
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return RunWithSvr(sCfg, netsvr.NewChiServer(sCfg.Addr), extras...)
}

// RunWithSvr 與 Run() 相同，但允許呼叫端注入自訂的 NetSvr。
//   - svr 必須非 nil；若是 ChiAdapter 會要求 Ready() 為 true。
//   - 這一層只負責「註冊 routes + 啟動 app.Run()」，不接管整個系統的組裝方式。
func RunWithSvr(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr, extras ...app.Component) error {
	if err := sCfg.Valid(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	if svr == nil {
		err := errs.NewFatal("svr is required")
		sCfg.Log.Error(err.Error())
		return err
	}
	if s, ok := svr.(*netsvr.ChiAdapter); ok && !s.Ready() {
		err := errs.NewFatal("default server is not ready")
		sCfg.Log.Error(err.Error())
		return err
	}
	if err := api.RegisterRoutes(svr, sCfg); err != nil {
		sCfg.Log.Error("register routes failed", slog.Any("err", err))
		return err
	}

	a := app.NewWith(svr, sCfg.Bus)
	for _, c := range extras {
		a.Register(c)
	}
	st := sCfg.Engine.State()
	sCfg.Log.Info("[fruitslot] listening",
		slog.String("addr", sCfg.Addr),
		slog.String("game", st.GameName),
		slog.String("session", st.SessionID),
		slog.Int64("seed", sCfg.Engine.Seed()),
	)
	if err := a.Run(); err != nil {
		sCfg.Log.Error("app stopped", slog.Any("err", err))
		return err
	}
	return nil
}
