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

// Package slot 定義三轉輪機台的基本型別（符號、轉輪狀態）與賠付表判定。
//
// 本包不含任何時間、亂數或狀態：Evaluate 是純函數，相同輸入永遠得到相同輸出。
package slot

import (
	"strings"

	"github.com/zintix-labs/fruitslot/errs"
)

// Reels 為轉輪數量，位置 0/1/2 有順序意義（兩連只比對位置 0 與 1）。
const Reels = 3

// Symbol 是符號集中的索引，除身分外沒有其他結構。
type Symbol int

// SymbolSet 是有序、不可重複的符號集，Symbol 即為其索引。
type SymbolSet struct {
	names []string
	index map[string]Symbol
}

// NewSymbolSet 依序建立符號集；空集合、空白名稱或重複名稱皆為設定錯誤。
func NewSymbolSet(names ...string) (SymbolSet, error) {
	if len(names) == 0 {
		return SymbolSet{}, errs.Config("symbols", "symbol set is empty")
	}
	ss := SymbolSet{
		names: make([]string, len(names)),
		index: make(map[string]Symbol, len(names)),
	}
	for i, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			return SymbolSet{}, errs.Config("symbols", "symbol %d has empty name", i)
		}
		if _, dup := ss.index[n]; dup {
			return SymbolSet{}, errs.Config("symbols", "duplicate symbol %q", n)
		}
		ss.names[i] = n
		ss.index[n] = Symbol(i)
	}
	return ss, nil
}

// Len 回傳符號數量。
func (ss SymbolSet) Len() int { return len(ss.names) }

// Name 回傳符號顯示名稱，越界回傳 "?"。
func (ss SymbolSet) Name(s Symbol) string {
	if s < 0 || int(s) >= len(ss.names) {
		return "?"
	}
	return ss.names[s]
}

func (ss SymbolSet) Lookup(name string) (Symbol, bool) {
	s, ok := ss.index[strings.TrimSpace(name)]
	return s, ok
}

// Names 回傳名稱副本，依設定順序。
func (ss SymbolSet) Names() []string {
	out := make([]string, len(ss.names))
	copy(out, ss.names)
	return out
}

// Contains 回傳 s 是否為合法符號。
func (ss SymbolSet) Contains(s Symbol) bool {
	return s >= 0 && int(s) < len(ss.names)
}

// ReelState 為一次轉動後三個位置的符號。
type ReelState [Reels]Symbol

// Names 把轉輪轉成顯示名稱。
func (r ReelState) Names(ss SymbolSet) []string {
	out := make([]string, Reels)
	for i, s := range r {
		out[i] = ss.Name(s)
	}
	return out
}

// Format 以空白串接顯示名稱，用於日誌。
func (r ReelState) Format(ss SymbolSet) string {
	return strings.Join(r.Names(ss), " ")
}
