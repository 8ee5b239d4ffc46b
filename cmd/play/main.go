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

// play 是終端機版的機台：Enter 開轉，+/- 調整押注，p 看賠付表，q 離開。
//
//	go run ./cmd/play -seed 42 -log play.log
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/zintix-labs/fruitslot"
	"github.com/zintix-labs/fruitslot/server/logger"
	"github.com/zintix-labs/fruitslot/spec"
)

type config struct {
	config  string
	seed    int64
	credits int
	logFile string
	logMode string
}

func main() {
	cfg := new(config)
	flag.StringVar(&cfg.config, "config", "", "game config yaml/json (empty: built-in classic)")
	flag.Int64Var(&cfg.seed, "seed", 0, "int64 seed (0: random)")
	flag.IntVar(&cfg.credits, "credits", -1, "starting credits (-1: from config)")
	flag.StringVar(&cfg.logFile, "log", "", "write logs to file (empty: no logs)")
	flag.StringVar(&cfg.logMode, "log-mode", "dev", "log mode: dev|prod")
	flag.Parse()

	if err := run(cfg, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg *config, in io.Reader, out io.Writer) error {
	log, closeLog, err := cfg.logger()
	if err != nil {
		return err
	}
	defer closeLog()

	gs, err := spec.Default()
	if cfg.config != "" {
		gs, err = spec.LoadFile(cfg.config)
	}
	if err != nil {
		return err
	}

	// 畫面直接當 sink：事件在引擎的鎖內同步輸出，結算完成時畫面也已經更新
	v := newView(out)
	opts := []fruitslot.Option{fruitslot.WithSink(v), fruitslot.WithLogger(log)}
	if cfg.seed != 0 {
		opts = append(opts, fruitslot.WithSeed(cfg.seed))
	}
	if cfg.credits >= 0 {
		opts = append(opts, fruitslot.WithStartingCredits(cfg.credits))
	}
	eng, err := fruitslot.New(gs, opts...)
	if err != nil {
		return err
	}

	v.symbols = eng.Symbols()

	v.banner(eng.State(), eng.Paytable())
	sc := bufio.NewScanner(in)
	for v.prompt(eng.State()); sc.Scan(); v.prompt(eng.State()) {
		if quit := dispatch(eng, v, strings.TrimSpace(sc.Text())); quit {
			break
		}
	}

	// 讓最後一局結算完再離開
	ctx, cancel := context.WithTimeout(context.Background(), 2*eng.SpinDuration())
	defer cancel()
	_ = eng.Wait(ctx)
	v.bye(eng.State())
	return sc.Err()
}

// dispatch 執行一行指令；回傳 true 表示離開。
func dispatch(eng *fruitslot.Engine, v *view, line string) bool {
	st := eng.State()
	switch strings.ToLower(line) {
	case "", "s", "spin":
		if eng.Spin() == nil {
			// 終端機是逐行輸入，等結算完再出下一個 prompt
			ctx, cancel := context.WithTimeout(context.Background(), 2*eng.SpinDuration())
			_ = eng.Wait(ctx)
			cancel()
		}
	case "+", "u", "up":
		_, _ = eng.AdjustBet(st.BetIncrement)
	case "-", "d", "down":
		_, _ = eng.AdjustBet(-st.BetIncrement)
	case "p", "pay":
		v.paytable(eng.Paytable())
	case "q", "quit", "exit":
		return true
	default:
		v.help()
	}
	return false
}

// logger 終端機畫面佔用 stdout，log 只寫到檔案。
func (cfg *config) logger() (*slog.Logger, func(), error) {
	if cfg.logFile == "" {
		return logger.NewDefaultLogger(logger.ModeSilence), func() {}, nil
	}
	mode, err := logger.ParseMode(cfg.logMode)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(cfg.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return logger.NewLoggerTo(mode, f), func() { _ = f.Close() }, nil
}
