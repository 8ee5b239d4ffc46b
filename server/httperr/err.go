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

package httperr

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zintix-labs/fruitslot"
	"github.com/zintix-labs/fruitslot/errs"
)

// StatusCode 將錯誤映射成 HTTP status code。
//
// 規則（邊界層最小映射、可預期）：
//   - ctx timeout/cancel       → 504/408（請求生命週期問題）
//   - 引擎拒絕（忙碌、餘額不足） → 409（狀態衝突，稍後或調整押注可再試）
//   - errs.Warn                → 400（請求/參數問題）
//   - errs.Fatal               → 500（系統/不可恢復問題）
//
// 本函數屬於 HTTP 邊界層，因此放在 server/*，核心 errs 不依賴 net/http。
func StatusCode(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	case errors.Is(err, fruitslot.ErrBusy), errors.Is(err, fruitslot.ErrInsufficientFunds):
		return http.StatusConflict
	}

	if e, ok := errs.AsErr(err); ok && e.ErrLv == errs.Warn {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Errs 寫回純文字錯誤。
func Errs(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	http.Error(w, err.Error(), StatusCode(err))
}

// Log 依 status 決定 log 等級；4xx 的請求錯誤由 access log 涵蓋，這裡不重複。
func Log(log *slog.Logger, msg string, err error) {
	if err == nil {
		return
	}
	switch status := StatusCode(err); {
	case status == http.StatusRequestTimeout || status == http.StatusConflict || status == http.StatusTooManyRequests:
		log.Warn(msg, slog.Any("err", err))
	case status >= 500 && status < 600:
		log.Error(msg, slog.Any("err", err))
	}
}
