package main

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/zintix-labs/fruitslot"
	"github.com/zintix-labs/fruitslot/errs"
	"github.com/zintix-labs/fruitslot/sdk/core"
	"github.com/zintix-labs/fruitslot/sdk/perf"
	"github.com/zintix-labs/fruitslot/spec"
	"github.com/zintix-labs/fruitslot/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type config struct {
	config    string
	worker    int
	player    int
	balance   int
	bet       int
	spins     int
	seed      int64
	format    string
	out       string
	quiet     bool
	pprofmode perf.Mode

	render stats.StatReportRender
}

func bindVar(args []string) (*config, error) {
	cfg := new(config)
	var pp string
	fs := flag.NewFlagSet("sim", flag.ContinueOnError)
	fs.StringVar(&cfg.config, "config", "", "game config yaml/json (empty: built-in classic)")
	fs.IntVar(&cfg.worker, "worker", 1, "number of workers")
	fs.IntVar(&cfg.player, "player", 1, "number of players (>1 simulates player sessions)")
	fs.IntVar(&cfg.balance, "balance", 1000, "initial balance per player")
	fs.IntVar(&cfg.bet, "bet", 0, "bet per spin (0: initial bet of the config)")
	fs.IntVar(&cfg.spins, "spins", 1_000_000, "spins per worker, or max spins per player")
	fs.Int64Var(&cfg.seed, "seed", -1, "int64 seed for random number generator")
	fs.StringVar(&cfg.format, "format", "table", "report format: table|json|yaml")
	fs.StringVar(&cfg.out, "out", "", "write report to file instead of stdout")
	fs.BoolVar(&cfg.quiet, "q", false, "hide progress bar")
	fs.StringVar(&pp, "p", "", "pprof: '', cpu, heap, allocs")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	var err error
	if cfg.pprofmode, err = perf.ParseMode(pp); err != nil {
		return nil, err
	}
	// given seed illegal -> random seed
	if cfg.seed < 1 {
		if cfg.seed, err = core.NewSeed(); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.valid()
}

func (cfg *config) valid() error {
	p := message.NewPrinter(language.English)

	if cfg.worker < 1 {
		return errs.Config("worker", "workers must > 0")
	}
	if cfg.player < 1 {
		return errs.Config("player", "player must > 0")
	}
	if cfg.player > 100_000 {
		p.Fprintf(os.Stderr, "too much players: %d resized to 100k players\n", cfg.player)
		cfg.player = 100_000
	}
	if cfg.player > 1 && cfg.balance < 1 {
		return errs.Config("balance", "balance must >= 1")
	}
	if cfg.spins < 1 {
		return errs.Config("spins", "spins must > 0")
	}
	// 一個玩家 15000 轉已經是長期體驗，再多直接模擬機台即可
	if cfg.player > 1 && cfg.spins > 15_000 {
		p.Fprintf(os.Stderr, "too much spins for each player: %d resized to 15k\n", cfg.spins)
		cfg.spins = 15_000
	}
	r, ok := stats.RenderByName(cfg.format)
	if !ok {
		return errs.Config("format", "unknown format %q", cfg.format)
	}
	cfg.render = r
	return nil
}

func (cfg *config) loadSetting() (*spec.GameSetting, error) {
	if cfg.config == "" {
		return spec.Default()
	}
	return spec.LoadFile(cfg.config)
}

// execute 解析並分支要執行的模擬器
func (cfg *config) execute() error {
	gs, err := cfg.loadSetting()
	if err != nil {
		return err
	}
	s, err := fruitslot.NewSimulatorWithSeed(gs, cfg.seed)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if cfg.out != "" {
		f, err := os.Create(cfg.out)
		if err != nil {
			return errs.Wrap(err, "create report file failed")
		}
		defer f.Close()
		w = f
	}

	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)
	showpb := !cfg.quiet

	if cfg.player == 1 { // 純機台模擬
		p.Fprintf(os.Stderr, "%s[WORKERS:%d] [GAME:%s] [SEED:%d] [SPINS:%d]%s\n", green, cfg.worker, s.GameName, cfg.seed, cfg.worker*cfg.spins, reset)
		st, used, err := s.SimMP(cfg.bet, cfg.spins, cfg.worker, showpb)
		if err != nil {
			return err
		}
		return cfg.report(w, st, nil, used)
	}
	// 模擬多玩家體驗
	p.Fprintf(os.Stderr, "%s[WORKERS:%d] [GAME:%s] [SEED:%d] [PLAYERS:%d BALANCE:%d SPINS:%d]%s\n", green, cfg.worker, s.GameName, cfg.seed, cfg.player, cfg.balance, cfg.spins, reset)
	st, est, used, err := s.SimPlayers(cfg.worker, cfg.player, cfg.balance, cfg.bet, cfg.spins, showpb)
	if err != nil {
		return err
	}
	return cfg.report(w, st, est, used)
}

// report 依格式輸出；table 且輸出到 stdout 時附上速度。
func (cfg *config) report(w io.Writer, st *stats.StatReport, est *stats.EstimatorPlayers, used time.Duration) error {
	if _, isTable := cfg.render.(*stats.TableStatReportRender); isTable && cfg.out == "" {
		st.StdOut(used)
		if est != nil {
			est.Out()
		}
		return nil
	}
	if err := st.WriteWith(w, cfg.render); err != nil {
		return err
	}
	if est == nil {
		return nil
	}
	var er stats.EstimatorRender = &stats.YAMLEstimatorRender{}
	if cfg.format == "json" {
		er = &stats.JsonEstimatorRender{}
	}
	return er.Write(w, est)
}
