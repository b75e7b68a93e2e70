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

// below64 follows math/rand (BSD 3-Clause).

package core

import "math/bits"

// below64 回傳 [0,n) 的無偏整數，n 必須 > 0。
// 以 Lemire 的乘法取高位，低位落在偏差區時重抽。
func below64(next func() uint64, n uint64) uint64 {
	if n&(n-1) == 0 {
		return next() & (n - 1)
	}
	hi, lo := bits.Mul64(next(), n)
	if lo < n {
		thresh := -n % n
		for lo < thresh {
			hi, lo = bits.Mul64(next(), n)
		}
	}
	return hi
}

// below32 32-bit 版本，PCG32 每次只取一個輸出
func below32(next func() uint32, n uint32) uint32 {
	if n&(n-1) == 0 {
		return next() & (n - 1)
	}
	prod := uint64(next()) * uint64(n)
	if uint32(prod) < n {
		thresh := -n % n
		for uint32(prod) < thresh {
			prod = uint64(next()) * uint64(n)
		}
	}
	return uint32(prod >> 32)
}
