package core

import (
	"encoding/binary"
	"errors"
	"math/bits"
)

const pcg32Multiplier = 6364136223846793005

// PCG32 為 64-bit 狀態、32-bit 輸出的 PCG (XSH RR) 產生器。
// 符號集很小（< 2^32），每次抽樣只需一次 32-bit 輸出。
type PCG32 struct {
	state uint64
	inc   uint64
}

func newPCG32WithSeed(seed int64) *PCG32 {
	r := &PCG32{inc: (1 << 1) | 1}
	// PCG 建議的初始化流程：先 step 一次，再加 seed，最後再 step。
	r.next()
	r.state += uint64(seed)
	r.next()
	return r
}

func (r *PCG32) Uint64() uint64 {
	return (uint64(r.next()) << 32) | uint64(r.next())
}

// IntN 回傳 [0,n) 的亂數；若 n <= 0 回傳 -1。
func (r *PCG32) IntN(n int) int {
	if n <= 0 {
		return -1
	}
	if uint64(n) <= uint64(^uint32(0)) {
		bound := uint32(n)
		threshold := -bound % bound
		for {
			v := r.next()
			if v >= threshold {
				return int(v % bound)
			}
		}
	}
	bound := uint64(n)
	threshold := -bound % bound
	for {
		v := r.Uint64()
		if v >= threshold {
			return int(v % bound)
		}
	}
}

// Snapshot 依序輸出 state、inc（big endian）。
func (r *PCG32) Snapshot() ([]byte, error) {
	b := make([]byte, 0, 16)
	b = binary.BigEndian.AppendUint64(b, r.state)
	b = binary.BigEndian.AppendUint64(b, r.inc)
	return b, nil
}

func (r *PCG32) Restore(data []byte) error {
	if len(data) != 16 {
		return errors.New("pcg32: snapshot must be 16 bytes")
	}
	inc := binary.BigEndian.Uint64(data[8:])
	if inc&1 == 0 {
		return errors.New("pcg32: increment must be odd")
	}
	r.state = binary.BigEndian.Uint64(data[:8])
	r.inc = inc
	return nil
}

func (r *PCG32) next() uint32 {
	old := r.state
	r.state = old*pcg32Multiplier + r.inc
	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := uint32(old >> 59)
	return bits.RotateLeft32(xorshifted, -int(rot))
}
