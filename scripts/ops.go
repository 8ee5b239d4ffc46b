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

// ops 是取代 Makefile 的開發腳本：go run ./scripts <task>
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"strings"
)

const (
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

func printColor(color, msg string) {
	fmt.Printf("%s%s%s\n", color, msg, colorReset)
}

// task 一個開發指令；filter 不為 nil 時只印出它接受的行（模擬 grep）。
type task struct {
	name   string
	desc   string
	clean  bool // 先 go clean -testcache
	args   []string
	filter func(line string) (string, bool)
}

// okOrFail 對應 go test ... | grep -E '^(ok|FAIL)'，但保留編譯錯誤。
func okOrFail(line string) (string, bool) {
	switch {
	case strings.HasPrefix(line, "ok"):
		return colorGreen, true
	case strings.HasPrefix(line, "FAIL"),
		strings.Contains(line, "build failed"),
		strings.Contains(line, "setup failed"):
		return colorRed, true
	}
	return "", false
}

func noTestFiles(line string) (string, bool) {
	return "", !strings.Contains(line, "[no test files]")
}

var tasks = []task{
	{name: "test", desc: "all packages, ok/FAIL only", clean: true, args: []string{"test", "./...", "-cover", "-count=1"}, filter: okOrFail},
	{name: "test-all", desc: "all packages with coverage", clean: true, args: []string{"test", "./...", "-cover"}},
	{name: "test-detail", desc: "verbose, hides packages without tests", clean: true, args: []string{"test", "./...", "-v", "-count=1"}, filter: noTestFiles},
	// 引擎的 tick / 結算 / WebSocket 都跨 goroutine，race detector 必跑
	{name: "race", desc: "race detector on engine, event and server", args: []string{"test", "-race", "-count=1", ".", "./event/...", "./sdk/clock/...", "./server/..."}, filter: okOrFail},
	{name: "sim", desc: "1M spins x 4 workers on the classic config", args: []string{"run", "./cmd/sim", "-worker", "4", "-spins", "1000000"}},
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	i := slices.IndexFunc(tasks, func(t task) bool { return t.name == os.Args[1] })
	if i < 0 {
		printColor(colorYellow, "Unknown task: "+os.Args[1])
		usage()
		os.Exit(1)
	}
	if err := tasks[i].run(); err != nil {
		printColor(colorRed, "\n"+tasks[i].name+" finished with errors: "+err.Error())
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: go run ./scripts [task]")
	for _, t := range tasks {
		fmt.Printf("  %-12s %s\n", t.name, t.desc)
	}
}

func (t task) run() error {
	printColor(colorGreen, "running "+t.name)
	if t.clean {
		clean := exec.Command("go", "clean", "-testcache")
		clean.Stdout, clean.Stderr = os.Stdout, os.Stderr
		if err := clean.Run(); err != nil {
			return err
		}
	}

	cmd := exec.Command("go", t.args...)
	if t.filter == nil {
		cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
		return cmd.Run()
	}

	// 合併 stdout/stderr（2>&1），逐行過濾
	pr, pw := io.Pipe()
	cmd.Stdout, cmd.Stderr = pw, pw
	if err := cmd.Start(); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() {
		err := cmd.Wait()
		pw.Close()
		done <- err
	}()
	sc := bufio.NewScanner(pr)
	for sc.Scan() {
		if color, ok := t.filter(sc.Text()); ok {
			printColor(color, sc.Text())
		}
	}
	return <-done
}
