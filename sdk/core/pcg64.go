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

// PCG64: PCG by Melissa O'Neill, on top of math/rand/v2.PCG (128-bit state).

package core

import r2 "math/rand/v2"

// PCG64 亂數產生器，Float64 為 53-bit 精度
type PCG64 struct {
	rng *r2.PCG
}

// newPCG64 seed 以 splitmix64 展開成 128-bit 狀態；stream 只擾動低 64 位，stream 0 等同單一 seed
func newPCG64(seed int64, stream uint64) *PCG64 {
	x := uint64(seed) ^ 0x9e3779b97f4a7c15
	hi := splitmix64(x)
	lo := splitmix64(x ^ 0xDA942042E4DD58B5 ^ stream*0xD1B54A32D192ED03)
	return &PCG64{rng: r2.NewPCG(hi, lo)}
}

func (r *PCG64) Uint64() uint64 {
	return r.rng.Uint64()
}

func (r *PCG64) UintN(max uint) uint {
	if max == 0 {
		return 0
	}
	return uint(below64(r.rng.Uint64, uint64(max)))
}

func (r *PCG64) IntN(max int) int {
	if max <= 0 {
		return -1
	}
	return int(below64(r.rng.Uint64, uint64(max)))
}

// Float64 取高 53 位
func (r *PCG64) Float64() float64 {
	return float64(r.Uint64()>>11) / (1 << 53)
}

func (r *PCG64) Restore(data []byte) error {
	return r.rng.UnmarshalBinary(data)
}

func (r *PCG64) Snapshot() ([]byte, error) {
	return r.rng.MarshalBinary()
}

// splitmix64 種子展開
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
