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

package netsvr

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

const defaultAddr string = ":5808"

// ChiAdapter 以 chi (基於標準庫 net/http) 實作 NetSvr。
type ChiAdapter struct {
	router chi.Router
	server *http.Server
	addr   string
}

// NewChiServer 建立自訂監聽位址的 ChiAdapter；addr 為空時使用 :5808。
//
// WriteTimeout 只約束一般 HTTP 回應；WebSocket 在 upgrade 後會自行清除 deadline。
func NewChiServer(addr string) *ChiAdapter {
	if addr == "" {
		addr = defaultAddr
	}
	cr := chi.NewRouter()
	return &ChiAdapter{
		router: cr,
		server: &http.Server{
			Addr:              addr,
			Handler:           cr,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		addr: addr,
	}
}

// NewChiServerDefault 建立監聽 :5808 的 ChiAdapter。
func NewChiServerDefault() *ChiAdapter {
	return NewChiServer(defaultAddr)
}

// -----------------------------------------------------------------------------
//  介面實作 NetSvr / (會同時實作 Component)
// -----------------------------------------------------------------------------

func (c *ChiAdapter) Ready() bool {
	return (c != nil) && (c.router != nil) && (c.server != nil) &&
		(c.addr != "") && strings.Contains(c.addr, ":") &&
		(c.server.Handler != nil) && (c.server.Handler == c.router)
}

func (c *ChiAdapter) Run() error {
	return c.server.ListenAndServe()
}

func (c *ChiAdapter) Shutdown(ctx context.Context) error {
	return c.server.Shutdown(ctx)
}

// ServeHTTP 讓 adapter 可以直接交給 httptest 使用。
func (c *ChiAdapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.router.ServeHTTP(w, r)
}

func (c *ChiAdapter) Use(mw func(http.Handler) http.Handler) {
	c.router.Use(mw)
}

func (c *ChiAdapter) Get(path string, h http.HandlerFunc) {
	c.router.Get(path, h)
}

func (c *ChiAdapter) Post(path string, h http.HandlerFunc) {
	c.router.Post(path, h)
}

func (c *ChiAdapter) Put(path string, h http.HandlerFunc) {
	c.router.Put(path, h)
}

func (c *ChiAdapter) Delete(path string, h http.HandlerFunc) {
	c.router.Delete(path, h)
}

func (c *ChiAdapter) Group(path string, fn func(subRouter NetRouter)) {
	c.router.Route(path, func(r chi.Router) {
		fn(&ChiAdapter{router: r})
	})
}

func (c *ChiAdapter) Address() string {
	return c.addr
}
