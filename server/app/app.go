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

// Package app 提供應用程式生命週期管理（App），負責統一啟動與關閉多個 Component。
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// DefaultShutdownTimeout 為優雅關閉的總時限。
const DefaultShutdownTimeout = 5 * time.Second

type App struct {
	comps   []Component
	timeout time.Duration
}

func New() *App { return &App{timeout: DefaultShutdownTimeout} }

func NewWith(comps ...Component) *App {
	app := New()
	for _, c := range comps {
		app.Register(c)
	}
	return app
}

// Register 加入元件；關閉時依註冊順序逐一 Shutdown（先停入口，再停下游）。
func (a *App) Register(c Component) {
	if c == nil {
		return
	}
	a.comps = append(a.comps, c)
}

// Run 啟動所有元件，直到收到 SIGINT/SIGTERM 或任一元件返回。
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext 與 Run 相同，但以 ctx 取代 OS 信號作為停止條件。
func (a *App) RunContext(ctx context.Context) error {
	// errCh 用於收集任一 Component 首次返回的錯誤
	errCh := make(chan error, len(a.comps))
	for _, c := range a.comps {
		go func(c Component) {
			errCh <- c.Run()
		}(c)
	}

	select {
	case <-ctx.Done():
		return a.gracefulShutdown(a.timeout)
	case err := <-errCh:
		if serr := a.gracefulShutdown(a.timeout); err == nil {
			err = serr
		}
		return err
	}
}

// gracefulShutdown 回傳第一個關閉錯誤；其餘錯誤寫到 stderr（logger 可能已經關閉）。
func (a *App) gracefulShutdown(td time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), td)
	defer cancel()
	var first error
	for _, c := range a.comps {
		if err := c.Shutdown(ctx); err != nil {
			if first == nil {
				first = err
			} else {
				fmt.Fprintf(os.Stderr, "shutdown err: %v\n", err)
			}
		}
	}
	return first
}
