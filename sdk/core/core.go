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

// Package core 提供所有取樣器共用的可注入亂數來源。
//
// 任何取樣呼叫都只透過 *Core 取得亂數，因此固定 seed 即可逐位元重現結果。
package core

import r2 "math/rand/v2"

// PRNG 定義 Core 所需的亂數來源，需同時支援取樣與狀態保存/還原。
type PRNG interface {
	RAND
	Restorable
}

// Restorable 定義可快照與還原的狀態介面。
type Restorable interface {
	// Snapshot 回傳可用於還原的序列化狀態。
	Snapshot() ([]byte, error)
	// Restore 依序列化狀態還原 PRNG 內部狀態。
	Restore([]byte) error
}

// RAND 定義核心亂數取樣能力。
//
// Float64 的精度（32-bit 或 53-bit）與 bounded 取樣策略交由各 PRNG 自行決定。
type RAND interface {
	// Uint64 回傳非負 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數。
	Float64() float64
	// UintN 回傳 [0,max) 的 uint 亂數，若 max == 0 回傳 0。
	UintN(uint) uint
	// IntN 回傳 [0,max) 的 int 亂數，若 max <= 0 回傳 -1。
	IntN(int) int
}

// PRNGFactory 以 seed 決定性地建立 PRNG：相同實作、相同 seed 必須產生相同序列。
type PRNGFactory interface {
	New(int64) PRNG
}

// StreamFactory 可由同一個 seed 切出多條互不重疊的序列（例如每條 MCMC 鏈一條）。
// NewStream(seed, 0) 必須與 New(seed) 產生相同序列。
type StreamFactory interface {
	PRNGFactory
	NewStream(seed int64, stream uint64) PRNG
}

// PCG64Factory 預設工廠
type PCG64Factory struct{}

func (PCG64Factory) New(seed int64) PRNG {
	return newPCG64(seed, 0)
}

func (PCG64Factory) NewStream(seed int64, stream uint64) PRNG {
	return newPCG64(seed, stream)
}

// PCG32Factory 32-bit 輸出工廠，Float64 只有 32-bit 精度
type PCG32Factory struct{}

func (PCG32Factory) New(seed int64) PRNG {
	return newPCG32(seed, 0)
}

func (PCG32Factory) NewStream(seed int64, stream uint64) PRNG {
	return newPCG32(seed, stream)
}

func Default() PRNGFactory {
	return PCG64Factory{}
}

// FactoryByName 依名稱取得工廠，未知名稱回傳 false
func FactoryByName(name string) (PRNGFactory, bool) {
	switch name {
	case "", "pcg64":
		return PCG64Factory{}, true
	case "pcg32":
		return PCG32Factory{}, true
	}
	return nil, false
}

// Core 封裝 PRNG，並提供取樣器常用的分佈與排列工具。
//
// Core 本身實作 math/rand/v2.Source（Uint64），可直接作為 gonum distuv / distmv 的 Src。
type Core struct {
	PRNG
	std *r2.Rand
}

// New 允許使用外部自實現的 PRNG 建立 Core。
func New(rng PRNG) *Core {
	return &Core{PRNG: rng, std: r2.New(rng)}
}

// NewWithSeed 以預設工廠建立 Core
func NewWithSeed(seed int64) *Core {
	return New(Default().New(seed))
}

// NormFloat64 標準常態亂數
func (c *Core) NormFloat64() float64 {
	return c.std.NormFloat64()
}

// ExpFloat64 rate 1 的指數分佈亂數
func (c *Core) ExpFloat64() float64 {
	return c.std.ExpFloat64()
}

// Uniform 回傳 [lo,hi) 均勻亂數
func (c *Core) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*c.Float64()
}

// Pick 從列表中隨機選取一個元素，若列表為空回傳 -1
func (c *Core) Pick(src []int) int {
	if len(src) == 0 {
		return -1
	}
	return src[c.IntN(len(src))]
}

// ShuffleInts 以 Fisher-Yates 就地重排，N! 種排列等機率。
func (c *Core) ShuffleInts(src []int) {
	for i := len(src) - 1; i > 0; i-- {
		j := c.IntN(i + 1)
		src[i], src[j] = src[j], src[i]
	}
}

// Perm 回傳 [0,n) 的隨機排列
func (c *Core) Perm(n int) []int {
	if n <= 0 {
		return []int{}
	}
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	c.ShuffleInts(p)
	return p
}
