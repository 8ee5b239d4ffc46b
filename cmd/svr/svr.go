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

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/zintix-labs/fruitslot/server"
	"github.com/zintix-labs/fruitslot/server/svrcfg"
)

// 機台 server 入口：設定來自環境變數（FRUITSLOT_*），可由 .env 檔提供。
//
//	FRUITSLOT_ADDR=:5808 FRUITSLOT_LOG_MODE=prod go run ./cmd/svr
//	go run ./cmd/svr -env deploy/.env
func main() {
	envFiles := flag.String("env", "", "comma separated .env files (default: ./.env if present)")
	flag.Parse()

	env, err := svrcfg.LoadEnv(splitFiles(*envFiles)...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	sCfg, ah, err := svrcfg.Build(env)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := server.Run(sCfg, ah); err != nil {
		os.Exit(1)
	}
}

func splitFiles(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
