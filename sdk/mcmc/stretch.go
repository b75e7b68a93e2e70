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

package mcmc

import (
	"context"
	"math"

	"github.com/zintix-labs/uqlab/sdk/buf"
	"github.com/zintix-labs/uqlab/sdk/core"
	"github.com/zintix-labs/uqlab/spec"
)

// runStretch affine-invariant ensemble sampler（stretch move）。
//
// 原始鏈的第 r 列存在 ring[r%K]：第 r 列由第 r-K 列的 walker 更新而來，
// 同伴從最近的其他 K-1 列（ring 中其餘的 slot）均勻選取。
// 每 K 步為一個 cycle；沒有 burn-in，第 0 個 cycle 即初始 ensemble，
// 之後每 jump 個 cycle 輸出一整組 ensemble，最後截斷成 nsamples 列。
func runStretch(ctx context.Context, c *core.Core, s *spec.MCMCSetting, obs Observer) ([][]float64, error) {
	K := len(s.Start)
	d := s.Dimension
	a := s.Scales[0]

	ring := buf.NewMatrix(K, d)
	dens := make([]float64, K)
	for k := range ring {
		copy(ring[k], s.Start[k])
		dens[k] = s.Joint(ring[k])
	}

	nblocks := (s.NSamples + K - 1) / K
	rows := nblocks * s.Jump * K
	out := buf.NewMatrix(nblocks*K, d)
	emitted := 0
	emit := func(cycle int) {
		if cycle%s.Jump != s.Jump-1 {
			return
		}
		for k := 0; k < K; k++ {
			copy(out[emitted*K+k], ring[k])
		}
		emitted++
	}
	emit(0)

	cand := make([]float64, d)
	for r := K; r < rows; r++ {
		step := r - 1
		if err := checkCtx(ctx, step); err != nil {
			return nil, err
		}
		w := r % K
		comp := (r + 1 + c.IntN(K-1)) % K
		z := stretchZ(c, a)
		for j := range cand {
			cand[j] = ring[comp][j] + z*(ring[w][j]-ring[comp][j])
		}
		next := s.Joint(cand)
		ok, err := accept(c, math.Pow(z, float64(d-1))*next/dens[w], step)
		if err != nil {
			return nil, err
		}
		if obs != nil {
			obs.Observe(Move{Step: step, Dim: -1, Walker: w, Candidate: cand, Accepted: ok})
		}
		if ok {
			copy(ring[w], cand)
			dens[w] = next
		}
		if r%K == K-1 {
			emit(r / K)
		}
	}
	return out[:s.NSamples], nil
}
