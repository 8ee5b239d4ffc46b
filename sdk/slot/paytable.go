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

package slot

import (
	"encoding/binary"

	"github.com/zintix-labs/fruitslot/errs"
)

// Combo 是賠付表的鍵：長度 2 或 3 的有序符號序列。
// 參考表只用「同一符號重複 N 次」，但鍵本身不限制內容。
type Combo []Symbol

func (c Combo) key() string {
	b := make([]byte, 0, len(c)*2)
	for _, s := range c {
		b = binary.AppendUvarint(b, uint64(s))
	}
	return string(b)
}

// Repeat 建立 s 重複 n 次的組合。
func Repeat(s Symbol, n int) Combo {
	c := make(Combo, n)
	for i := range c {
		c[i] = s
	}
	return c
}

// PayEntry 為賠付表的一列。
type PayEntry struct {
	Combo Combo
	Pay   int
}

// Paytable 完全由資料驅動：引擎不假設任何符號一定有兩連賠付。
type Paytable struct {
	entries []PayEntry
	pays    map[string]int
}

// NewPaytable 檢查每一列後建立賠付表。symbols 為符號集大小，用於檢查越界。
func NewPaytable(symbols int, entries ...PayEntry) (*Paytable, error) {
	if symbols <= 0 {
		return nil, errs.Config("symbols", "symbol set is empty")
	}
	p := &Paytable{
		entries: make([]PayEntry, 0, len(entries)),
		pays:    make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		if len(e.Combo) != 2 && len(e.Combo) != Reels {
			return nil, errs.Config("pay_table", "entry %d: combo length %d, want 2 or 3", i, len(e.Combo))
		}
		for _, s := range e.Combo {
			if s < 0 || int(s) >= symbols {
				return nil, errs.Config("pay_table", "entry %d: unknown symbol %d", i, s)
			}
		}
		if e.Pay <= 0 {
			return nil, errs.Config("pay_table", "entry %d: pay must be > 0, got %d", i, e.Pay)
		}
		k := e.Combo.key()
		if _, dup := p.pays[k]; dup {
			return nil, errs.Config("pay_table", "entry %d: duplicate combo", i)
		}
		p.pays[k] = e.Pay
		p.entries = append(p.entries, PayEntry{Combo: append(Combo(nil), e.Combo...), Pay: e.Pay})
	}
	return p, nil
}

// Lookup 查詢任意組合的賠付。
func (p *Paytable) Lookup(c Combo) (int, bool) {
	pay, ok := p.pays[c.key()]
	return pay, ok
}

// Entries 依設定順序回傳賠付表副本（給展示層的 Winning Combinations）。
func (p *Paytable) Entries() []PayEntry {
	out := make([]PayEntry, len(p.entries))
	for i, e := range p.entries {
		out[i] = PayEntry{Combo: append(Combo(nil), e.Combo...), Pay: e.Pay}
	}
	return out
}

// Len 回傳列數。
func (p *Paytable) Len() int { return len(p.entries) }

// WinKind 描述中獎型態。
type WinKind uint8

const (
	ThreeOfAKind WinKind = iota + 1
	TwoOfAKind
)

func (k WinKind) String() string {
	switch k {
	case ThreeOfAKind:
		return "three_of_a_kind"
	case TwoOfAKind:
		return "two_of_a_kind"
	default:
		return ""
	}
}

// Win 為一次判定的結果。
type Win struct {
	Pay   int
	Kind  WinKind
	Combo Combo
}

// Evaluate 判定最終轉輪：
//  1. 三個位置相同：只查三連鍵，有就回傳；沒有就是未中獎，不再退回兩連。
//  2. 否則位置 0、1 相同：查兩連鍵。
//  3. 其餘為未中獎。
//
// 查無賠付永遠是「未中獎」，不是錯誤。
func (p *Paytable) Evaluate(r ReelState) (Win, bool) {
	if r[0] == r[1] && r[1] == r[2] {
		c := Repeat(r[0], Reels)
		if pay, ok := p.Lookup(c); ok {
			return Win{Pay: pay, Kind: ThreeOfAKind, Combo: c}, true
		}
		return Win{}, false
	}
	if r[0] == r[1] {
		c := Repeat(r[0], 2)
		if pay, ok := p.Lookup(c); ok {
			return Win{Pay: pay, Kind: TwoOfAKind, Combo: c}, true
		}
	}
	return Win{}, false
}

// ExpectedPayout 回傳在 n 個符號均勻獨立抽樣下，每轉的期望賠付（單位：credits）。
//
// 三連 s 的機率為 1/n^3；兩連（位置 0、1 為 s、位置 2 不是 s）的機率為 (n-1)/n^3。
func (p *Paytable) ExpectedPayout(n int) float64 {
	if n <= 0 {
		return 0
	}
	cube := float64(n) * float64(n) * float64(n)
	total := 0.0
	for s := Symbol(0); int(s) < n; s++ {
		if pay, ok := p.Lookup(Repeat(s, Reels)); ok {
			total += float64(pay) / cube
		}
		if pay, ok := p.Lookup(Repeat(s, 2)); ok {
			total += float64(pay) * float64(n-1) / cube
		}
	}
	return total
}
