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

package core

import (
	"encoding/binary"
	"math"
	"math/bits"

	"github.com/zintix-labs/uqlab/errs"
)

const (
	pcg32Multiplier = 6364136223846793005
	pcg32FloatUnit  = 1.0 / (1 << 32)
)

// PCG32 64-bit 狀態、32-bit 輸出的 PCG (XSH RR)。
// stream 決定遞增量 inc，不同 stream 是互不重疊的序列。
type PCG32 struct {
	state uint64
	inc   uint64
}

// newPCG32 stream 0 對應 PCG 的 sequence 1
func newPCG32(seed int64, stream uint64) *PCG32 {
	r := &PCG32{inc: ((stream+1)<<1 | 1)}
	// PCG 建議的初始化：先走一步，加上 seed，再走一步
	r.next()
	r.state += uint64(seed)
	r.next()
	return r
}

func (r *PCG32) next() uint32 {
	old := r.state
	r.state = old*pcg32Multiplier + r.inc
	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := uint32(old >> 59)
	return bits.RotateLeft32(xorshifted, -int(rot))
}

// Uint64 兩個 32-bit 輸出拼成，高位在前
func (r *PCG32) Uint64() uint64 {
	return uint64(r.next())<<32 | uint64(r.next())
}

func (r *PCG32) UintN(max uint) uint {
	if max == 0 {
		return 0
	}
	if uint64(max) <= math.MaxUint32 {
		return uint(below32(r.next, uint32(max)))
	}
	return uint(below64(r.Uint64, uint64(max)))
}

func (r *PCG32) IntN(max int) int {
	if max <= 0 {
		return -1
	}
	return int(r.UintN(uint(max)))
}

// Float64 只有 32-bit 精度
func (r *PCG32) Float64() float64 {
	return float64(r.next()) * pcg32FloatUnit
}

// Restore 還原 Snapshot 產生的 16 bytes 狀態
func (r *PCG32) Restore(data []byte) error {
	if len(data) != 16 {
		return errs.Configf("pcg32 snapshot needs 16 bytes, got %d", len(data))
	}
	r.state = binary.BigEndian.Uint64(data[:8])
	r.inc = binary.BigEndian.Uint64(data[8:])
	return nil
}

// Snapshot (state, inc)
func (r *PCG32) Snapshot() ([]byte, error) {
	b := make([]byte, 0, 16)
	b = binary.BigEndian.AppendUint64(b, r.state)
	b = binary.BigEndian.AppendUint64(b, r.inc)
	return b, nil
}
