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

package svrcfg

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/zintix-labs/fruitslot"
	"github.com/zintix-labs/fruitslot/errs"
	"github.com/zintix-labs/fruitslot/event"
	"github.com/zintix-labs/fruitslot/server/logger"
	"github.com/zintix-labs/fruitslot/spec"
)

// EnvPrefix 環境變數前綴，例如 FRUITSLOT_ADDR。
const EnvPrefix = "FRUITSLOT"

// Env 是 server 從環境變數（可由 .env 提供）讀取的設定。
type Env struct {
	Addr        string   `envconfig:"ADDR" default:":5808"`
	LogMode     string   `envconfig:"LOG_MODE" default:"dev"`
	Config      string   `envconfig:"CONFIG"` // 遊戲設定檔路徑，空字串使用內建 classic
	Seed        int64    `envconfig:"SEED"`   // 0 表示以 crypto/rand 產生
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
	EventBuffer int      `envconfig:"EVENT_BUFFER" default:"1024"`
	ClientBuf   int      `envconfig:"CLIENT_BUFFER" default:"256"`
}

// LoadEnv 先載入 .env 檔（不存在就略過），再以 envconfig 解析環境變數。
// 已存在的環境變數優先於 .env。
func LoadEnv(files ...string) (*Env, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Wrap(err, "load .env failed")
	}
	env := new(Env)
	if err := envconfig.Process(EnvPrefix, env); err != nil {
		return nil, errs.Wrap(err, "parse env failed")
	}
	return env, nil
}

// SvrCfg 是 server 組裝所需的全部依賴。
type SvrCfg struct {
	Log         *slog.Logger
	Addr        string
	CORSOrigins []string
	ClientBuf   int // 每個 WebSocket 連線的事件緩衝
	Engine      *fruitslot.Engine
	Bus         *event.Bus
}

// Build 依 Env 組裝 logger、遊戲設定、事件匯流排與引擎。
// 回傳的 AsyncHandler 需要交給 app 管理生命週期（關閉時 drain）。
func Build(env *Env) (*SvrCfg, *logger.AsyncHandler, error) {
	mode, err := logger.ParseMode(env.LogMode)
	if err != nil {
		return nil, nil, err
	}
	log, ah := logger.NewAsync(8192, mode)

	gs, err := loadSetting(env.Config)
	if err != nil {
		ah.Close()
		return nil, nil, err
	}
	bus := event.NewBus(env.EventBuffer)
	opts := []fruitslot.Option{fruitslot.WithSink(bus), fruitslot.WithLogger(log)}
	if env.Seed != 0 {
		opts = append(opts, fruitslot.WithSeed(env.Seed))
	}
	eng, err := fruitslot.New(gs, opts...)
	if err != nil {
		ah.Close()
		bus.Close()
		return nil, nil, err
	}
	sc := &SvrCfg{
		Log:         log,
		Addr:        env.Addr,
		CORSOrigins: env.CORSOrigins,
		ClientBuf:   env.ClientBuf,
		Engine:      eng,
		Bus:         bus,
	}
	return sc, ah, sc.Valid()
}

func loadSetting(path string) (*spec.GameSetting, error) {
	if path == "" {
		return spec.Default()
	}
	return spec.LoadFile(path)
}

// Valid 檢查必要依賴並補上預設值。
func (sc *SvrCfg) Valid() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		// 保持安靜、合法
		sc.Log = logger.NewDefaultLogger(logger.ModeSilence)
	}
	if sc.Addr == "" {
		sc.Addr = ":5808"
	}
	// 1 <= ClientBuf <= 4096，for 資源管理
	sc.ClientBuf = min(max(1, sc.ClientBuf), 4096)
	if sc.Engine == nil {
		return errs.NewFatal("engine is required")
	}
	if sc.Bus == nil {
		return errs.NewFatal("event bus is required")
	}
	return nil
}
