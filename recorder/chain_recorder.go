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

package recorder

import (
	"github.com/zintix-labs/uqlab/errs"
	"github.com/zintix-labs/uqlab/sdk/mcmc"
	"github.com/zintix-labs/uqlab/stats"
)

// ChainRecorder 鏈紀錄員
//
// ChainRecorder 實作 mcmc.Observer，紀錄每一個接受/拒絕決策，並透過 Done 輸出接受率報表
type ChainRecorder struct {
	Algorithm string
	Dimension int
	Walkers   int
	Basic     *MoveRecord
	PerDim    []MoveRecord
	PerWalker []MoveRecord
}

// MoveRecord 提議與接受次數
type MoveRecord struct {
	Proposed int
	Accepted int
}

func (m *MoveRecord) add(ok bool) {
	m.Proposed++
	if ok {
		m.Accepted++
	}
}

// NewChainRecorder walkers 只對 Stretch 有意義，其他演算法填 0
func NewChainRecorder(algorithm string, dim, walkers int) (*ChainRecorder, error) {
	if dim <= 0 {
		return nil, errs.Configf("recorder: dimension must be positive, got %d", dim)
	}
	if walkers < 0 {
		return nil, errs.Configf("recorder: walkers must be >= 0, got %d", walkers)
	}
	return &ChainRecorder{
		Algorithm: algorithm,
		Dimension: dim,
		Walkers:   walkers,
		Basic:     new(MoveRecord),
		PerDim:    make([]MoveRecord, dim),
		PerWalker: make([]MoveRecord, walkers),
	}, nil
}

// Observe 實作 mcmc.Observer
func (r *ChainRecorder) Observe(m mcmc.Move) {
	r.Basic.add(m.Accepted)
	if m.Dim >= 0 && m.Dim < len(r.PerDim) {
		r.PerDim[m.Dim].add(m.Accepted)
	}
	if m.Walker < len(r.PerWalker) {
		r.PerWalker[m.Walker].add(m.Accepted)
	}
}

// MergeChainRecorder 合併多條獨立鏈的紀錄（演算法與維度必須一致）
func MergeChainRecorder(rs []*ChainRecorder) (*ChainRecorder, error) {
	if len(rs) == 0 {
		return nil, errs.Configf("merge chain record err : empty input")
	}
	r0 := rs[0]
	out, err := NewChainRecorder(r0.Algorithm, r0.Dimension, r0.Walkers)
	if err != nil {
		return nil, err
	}
	for _, v := range rs {
		if v.Algorithm != r0.Algorithm {
			return nil, errs.Configf("merge chain record err : different algorithm")
		}
		if v.Dimension != r0.Dimension || v.Walkers != r0.Walkers {
			return nil, errs.Configf("merge chain record err : different shape")
		}
		out.Basic.Proposed += v.Basic.Proposed
		out.Basic.Accepted += v.Basic.Accepted
		for i := range v.PerDim {
			out.PerDim[i].Proposed += v.PerDim[i].Proposed
			out.PerDim[i].Accepted += v.PerDim[i].Accepted
		}
		for i := range v.PerWalker {
			out.PerWalker[i].Proposed += v.PerWalker[i].Proposed
			out.PerWalker[i].Accepted += v.PerWalker[i].Accepted
		}
	}
	return out, nil
}

// Done 轉成接受率報表（含 Clopper-Pearson 95% CI）
func (r *ChainRecorder) Done() *stats.AcceptReport {
	rep := &stats.AcceptReport{
		Algorithm: r.Algorithm,
		Overall:   stats.NewRateStat(r.Basic.Accepted, r.Basic.Proposed),
	}
	// 只有逐分量更新的演算法才有分量層級的紀錄
	for _, m := range r.PerDim {
		if m.Proposed > 0 {
			rep.PerDim = make([]stats.RateStat, len(r.PerDim))
			for i, v := range r.PerDim {
				rep.PerDim[i] = stats.NewRateStat(v.Accepted, v.Proposed)
			}
			break
		}
	}
	if len(r.PerWalker) > 0 {
		rep.PerWalker = make([]stats.RateStat, len(r.PerWalker))
		for i, v := range r.PerWalker {
			rep.PerWalker[i] = stats.NewRateStat(v.Accepted, v.Proposed)
		}
	}
	return rep
}
