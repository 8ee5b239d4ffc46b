// Package core implements the PCG64 random number generator.
//
// The PCG algorithm is designed by Melissa O'Neill.
// Portions of the bounded random generation logic (IntN) are
// adapted from the Go standard library (math/rand), which is
// licensed under the BSD 3-Clause License.

package core

import (
	"math/bits"
	r2 "math/rand/v2"
)

// PCG64 以標準庫 math/rand/v2 的 PCG 為狀態核心。
type PCG64 struct {
	rng *r2.PCG
}

// newPCG64WithSeed 以 splitmix64 展開 seed 後建立 PCG64。
func newPCG64WithSeed(seed int64) *PCG64 {
	x := uint64(seed) ^ 0x9e3779b97f4a7c15
	hi := splitmix64(x)
	lo := splitmix64(x ^ 0xDA942042E4DD58B5)
	return &PCG64{rng: r2.NewPCG(hi, lo)}
}

func (r *PCG64) Uint64() uint64 {
	return r.rng.Uint64()
}

// IntN 產出[0,n) 的整數，若 n <= 0 回傳 -1
func (r *PCG64) IntN(n int) int {
	if n <= 0 {
		return -1
	}
	return int(r.uint64n(uint64(n)))
}

func (r *PCG64) Restore(data []byte) error {
	return r.rng.UnmarshalBinary(data)
}

func (r *PCG64) Snapshot() ([]byte, error) {
	return r.rng.MarshalBinary()
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// uint64n 回傳 [0,n) 的無偏亂數（乘法高位 + 拒絕採樣）。
func (r *PCG64) uint64n(n uint64) uint64 {
	if n&(n-1) == 0 {
		return r.Uint64() & (n - 1)
	}
	hi, lo := bits.Mul64(r.Uint64(), n)
	if lo < n {
		thresh := -n % n
		for lo < thresh {
			hi, lo = bits.Mul64(r.Uint64(), n)
		}
	}
	return hi
}
