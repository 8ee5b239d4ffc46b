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

// Package errs 定義整個機台共用的分級錯誤。
//
// 分級用途：
//   - Fatal：設定錯誤或系統錯誤，建構階段立即中止。
//   - Warn ：玩家操作被拒絕（忙碌中、餘額不足），屬於正常流程。
//   - Log  ：只需記錄的訊息。
package errs

import (
	"errors"
	"fmt"
)

// ErrLevel : Error 分級，使最上層理解問題嚴重程度
type ErrLevel uint8

const (
	None ErrLevel = iota
	Fatal
	Warn
	Log
)

var errLvNames = [...]string{
	None:  "",
	Fatal: "fatal",
	Warn:  "warn",
	Log:   "log",
}

func (l ErrLevel) String() string {
	if int(l) < len(errLvNames) {
		return errLvNames[l]
	}
	return ""
}

// E 是統一的錯誤型別。
// Message 為主訊息；Field 指出出錯的設定欄位（可空）；Cause 可串接下層錯誤。
type E struct {
	Message string
	Field   string
	Cause   error
	ErrLv   ErrLevel
}

// Error 實作 error 介面。
func (e *E) Error() string {
	base := fmt.Sprintf("errlv=%s %s", e.ErrLv, e.Message)
	if e.Field != "" {
		base += " | field: " + e.Field
	}
	if e.Cause != nil {
		base += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return base
}

// Unwrap 讓 errors.Is / errors.As 能夠向下展開。
func (e *E) Unwrap() error { return e.Cause }

func New(errLv ErrLevel, msg string) *E {
	return &E{Message: msg, ErrLv: errLv}
}

func NewFatal(msg string) *E { return New(Fatal, msg) }

func NewWarn(msg string) *E { return New(Warn, msg) }

func Fatalf(format string, a ...any) *E {
	return NewFatal(fmt.Sprintf(format, a...))
}

func Warnf(format string, a ...any) *E {
	return NewWarn(fmt.Sprintf(format, a...))
}

// Config 建立一個指向特定設定欄位的 Fatal 錯誤。
func Config(field string, format string, a ...any) *E {
	e := Fatalf(format, a...)
	e.Field = field
	return e
}

// Wrap 包裝底層錯誤。
//
// ErrLevel 規則：
//   - 若 cause 已經是 *E，沿用其 ErrLv。
//   - 其餘（標準庫或三方錯誤）一律視為 Fatal。
func Wrap(cause error, msg string) *E {
	errLv := Fatal
	if e, ok := AsErr(cause); ok {
		errLv = e.ErrLv
	}
	r := New(errLv, msg)
	r.Cause = cause
	return r
}

func AsErr(err error) (*E, bool) {
	var e *E
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Level 回傳 err 的分級；非 *E 的錯誤視為 Fatal，nil 回傳 None。
func Level(err error) ErrLevel {
	if err == nil {
		return None
	}
	if e, ok := AsErr(err); ok {
		return e.ErrLv
	}
	return Fatal
}
