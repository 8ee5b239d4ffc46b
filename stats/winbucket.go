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

package stats

import (
	"fmt"
	"sort"
)

// WinBuckets 以「贏倍 = 派彩 / 押注」分桶。
//
// 區間: [0,0], (0,e1), [e1,e2), ..., [eN,+inf)
type WinBuckets struct {
	edges  []int
	labels []string
}

// Buckets 預設分桶。最大獎 1000 點在最低押注 100 下為 10 倍，因此切到 20 倍即可。
//
// 請勿修改預設值
var Buckets = NewWinBuckets(1, 2, 5, 10, 20)

// NewWinBuckets 以遞增的倍數邊界建立分桶。
func NewWinBuckets(edges ...int) *WinBuckets {
	b := &WinBuckets{edges: append([]int{0}, edges...)}
	b.labels = append(b.labels, "[0,0]")
	for i := 1; i < len(b.edges); i++ {
		lo := "["
		if i == 1 {
			lo = "("
		}
		b.labels = append(b.labels, fmt.Sprintf("%s%d,%d)", lo, b.edges[i-1], b.edges[i]))
	}
	b.labels = append(b.labels, fmt.Sprintf("[%d,+inf)", b.edges[len(b.edges)-1]))
	return b
}

func (b *WinBuckets) WinBucketStr() []string {
	return b.labels
}

// Len 回傳分桶數。
func (b *WinBuckets) Len() int { return len(b.labels) }

// Index 回傳 win 在押注 bet 下所屬的分桶索引。
func (b *WinBuckets) Index(win, bet int) int {
	if win <= 0 || bet <= 0 {
		return 0
	}
	n := len(b.edges) - 1
	return sort.Search(n, func(i int) bool { return win < bet*b.edges[i+1] }) + 1
}
