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

// Package perf 包裝 runtime/pprof，讓模擬指令可以順手產出 profile（也可作為 PGO 的 blueprint）。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/fruitslot/errs"
)

// DefaultDir pprof 檔案寫入路徑
const DefaultDir = "build/profiling"

type Mode string

const (
	ModeNone   Mode = ""
	ModeCPU    Mode = "cpu"
	ModeHeap   Mode = "heap"
	ModeAllocs Mode = "allocs"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeNone, ModeCPU, ModeHeap, ModeAllocs:
		return m, nil
	default:
		return ModeNone, errs.Config("pprof", "unknown profile mode %q (want cpu|heap|allocs)", s)
	}
}

// Run 依 mode 執行 exe 並把 profile 寫到 dir/<mode>.pprof；ModeNone 只執行 exe。
// exe 的錯誤優先於 profile 的錯誤。
//
// Usage like:
//
//	go run ./cmd/sim -p cpu
//	go tool pprof build/profiling/cpu.pprof
func Run(dir string, mode Mode, exe func() error) error {
	if mode == ModeNone {
		return exe()
	}
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrap(err, "create profiling dir failed")
	}
	f, err := os.Create(filepath.Join(dir, string(mode)+".pprof"))
	if err != nil {
		return errs.Wrap(err, "create profile file failed")
	}
	defer f.Close()

	switch mode {
	case ModeCPU:
		if err := pprof.StartCPUProfile(f); err != nil {
			return errs.Wrap(err, "start cpu profile failed")
		}
		err := exe()
		pprof.StopCPUProfile()
		return err
	case ModeHeap:
		// 先執行目標邏輯再拍快照；GC 讓快照貼近 live objects
		if err := exe(); err != nil {
			return err
		}
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return errs.Wrap(err, "write heap profile failed")
		}
		return nil
	default:
		// 累積配置，搭配 -alloc_space / -alloc_objects 查看
		if err := exe(); err != nil {
			return err
		}
		if prof := pprof.Lookup("allocs"); prof != nil {
			if err := prof.WriteTo(f, 0); err != nil {
				return errs.Wrap(err, "write allocs profile failed")
			}
		}
		return nil
	}
}
