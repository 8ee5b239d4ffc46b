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

// Package core 提供機台使用的可重現亂數來源。
//
// 亂數一律由外部以 seed 注入（PRNGFactory.New），不使用全域產生器，
// 因此同一份設定 + 同一個 seed 會得到一致的轉輪結果。
package core

import (
	"crypto/rand"
	"math"
	"math/big"
)

// PRNG 定義 Core 所需的亂數來源，需同時支援取樣與狀態保存/還原。
type PRNG interface {
	RAND
	Restorable
}

// Restorable 定義可快照與還原的狀態介面。
type Restorable interface {
	Snapshot() ([]byte, error)
	Restore([]byte) error
}

// RAND 定義核心亂數取樣能力。
type RAND interface {
	// Uint64 回傳 uint64 亂數。
	Uint64() uint64
	// IntN 回傳 [0,n) 的無偏亂數，若 n <= 0 回傳 -1。
	IntN(int) int
}

// PRNGFactory 以 seed 建立 PRNG；同一實作下相同 seed 必須產生相同序列。
type PRNGFactory interface {
	New(seed int64) PRNG
}

// FactoryFunc 讓一般函式滿足 PRNGFactory。
type FactoryFunc func(seed int64) PRNG

func (f FactoryFunc) New(seed int64) PRNG { return f(seed) }

const (
	NamePCG64 = "pcg64"
	NamePCG32 = "pcg32"
)

var factories = map[string]PRNGFactory{
	NamePCG64: FactoryFunc(func(seed int64) PRNG { return newPCG64WithSeed(seed) }),
	NamePCG32: FactoryFunc(func(seed int64) PRNG { return newPCG32WithSeed(seed) }),
}

// Default 回傳預設工廠（PCG64）。
func Default() PRNGFactory {
	return factories[NamePCG64]
}

// ByName 依設定檔中的名稱取得工廠，空字串視為預設。
func ByName(name string) (PRNGFactory, bool) {
	if name == "" {
		return Default(), true
	}
	f, ok := factories[name]
	return f, ok
}

// NewSeed 以 crypto/rand 產生非負 seed，供未指定 seed 的對外服務使用。
func NewSeed() (int64, error) {
	seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return 0, err
	}
	return seed.Int64(), nil
}

// Core 封裝 PRNG，並提供轉輪取樣方法。
type Core struct {
	PRNG
}

// New 允許使用外部自實現的 PRNG 建立 Core。
func New(rng PRNG) *Core {
	return &Core{rng}
}

// Draw 由大小為 n 的符號集中均勻抽出一個索引；n <= 0 回傳 -1。
func (c *Core) Draw(n int) int {
	return c.IntN(n)
}

// Fill 對 dst 每個位置獨立抽樣，位置之間沒有任何相關性。
func (c *Core) Fill(dst []int, n int) {
	for i := range dst {
		dst[i] = c.IntN(n)
	}
}
