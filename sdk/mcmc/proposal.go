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
	"math"

	"github.com/zintix-labs/uqlab/sdk/core"
	"github.com/zintix-labs/uqlab/spec"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// proposal 以目前狀態為中心的對稱提議
type proposal struct {
	c      *core.Core
	kinds  []spec.ProposalKind
	scales []float64
	mvn    *distmv.Normal
	noise  []float64
}

func newProposal(c *core.Core, s *spec.MCMCSetting) *proposal {
	p := &proposal{c: c, kinds: s.Proposals, scales: s.Scales}
	d := len(s.Scales)
	// MH 在 d > 1 的常態提議使用共變異 diag(scale)
	if s.Algorithm == spec.MH && s.Proposals[0] == spec.ProposalNormal && d > 1 {
		cov := mat.NewSymDense(d, nil)
		for i, v := range s.Scales {
			cov.SetSym(i, i, v)
		}
		p.mvn, _ = distmv.NewNormal(make([]float64, d), cov, c)
		p.noise = make([]float64, d)
	}
	return p
}

// component 第 j 分量的一維提議：Uniform(x-s/2, x+s/2) 或 Normal(x, std s)
func (p *proposal) component(j int, x float64) float64 {
	if p.kinds[j] == spec.ProposalNormal {
		return x + p.scales[j]*p.c.NormFloat64()
	}
	return x + p.scales[j]*(p.c.Float64()-0.5)
}

// full MH 的整體提議，寫入 dst
func (p *proposal) full(dst, x []float64) {
	if p.mvn != nil {
		p.mvn.Rand(p.noise)
		for i := range dst {
			dst[i] = x[i] + p.noise[i]
		}
		return
	}
	for i := range dst {
		dst[i] = p.component(i, x[i])
	}
}

// stretchZ 由 g(z) ∝ 1/sqrt(z)（z ∈ [1/a, a]）抽樣
func stretchZ(c *core.Core, a float64) float64 {
	return math.Pow(1+(a-1)*c.Float64(), 2) / a
}
