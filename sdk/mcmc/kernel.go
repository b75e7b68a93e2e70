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

	"github.com/zintix-labs/uqlab/sdk/buf"
	"github.com/zintix-labs/uqlab/sdk/core"
	"github.com/zintix-labs/uqlab/spec"
)

// runMH Metropolis-Hastings：整個向量一起提議，共 nsamples*jump-1+nburn 次轉移
func runMH(ctx context.Context, c *core.Core, s *spec.MCMCSetting, obs Observer) ([][]float64, error) {
	d := s.Dimension
	rows := s.NSamples*s.Jump + s.NBurn
	raw := buf.NewMatrix(rows, d)
	copy(raw[0], s.Start[0])

	prop := newProposal(c, s)
	cand := make([]float64, d)
	cur := s.Joint(raw[0])
	for i := 0; i < rows-1; i++ {
		if err := checkCtx(ctx, i); err != nil {
			return nil, err
		}
		prop.full(cand, raw[i])
		next := s.Joint(cand)
		ok, err := accept(c, next/cur, i)
		if err != nil {
			return nil, err
		}
		if obs != nil {
			obs.Observe(Move{Step: i, Dim: -1, Candidate: cand, Accepted: ok})
		}
		if ok {
			copy(raw[i+1], cand)
			cur = next
		} else {
			copy(raw[i+1], raw[i])
		}
	}
	return raw, nil
}

// runMMH 逐分量更新。marginal 模式只看該分量的密度；joint 模式以工作向量計算聯合密度。
func runMMH(ctx context.Context, c *core.Core, s *spec.MCMCSetting, obs Observer) ([][]float64, error) {
	d := s.Dimension
	rows := s.NSamples*s.Jump + s.NBurn
	raw := buf.NewMatrix(rows, d)
	copy(raw[0], s.Start[0])

	prop := newProposal(c, s)
	marginal := s.TargetType == spec.MarginalPDF
	work := make([]float64, d)
	cand := make([]float64, d)
	copy(work, raw[0])

	// 目前各分量（marginal）或整體（joint）的密度
	curM := make([]float64, d)
	curJ := 0.0
	if marginal {
		for j := range curM {
			curM[j] = s.Marginals[j](work[j : j+1])
		}
	} else {
		curJ = s.Joint(work)
	}

	one := make([]float64, 1)
	for i := 0; i < rows-1; i++ {
		if err := checkCtx(ctx, i); err != nil {
			return nil, err
		}
		for j := 0; j < d; j++ {
			v := prop.component(j, work[j])
			var (
				next  float64
				ratio float64
			)
			if marginal {
				one[0] = v
				next = s.Marginals[j](one)
				ratio = next / curM[j]
			} else {
				old := work[j]
				work[j] = v
				next = s.Joint(work)
				work[j] = old
				ratio = next / curJ
			}
			ok, err := accept(c, ratio, i)
			if err != nil {
				return nil, err
			}
			if obs != nil {
				copy(cand, work)
				cand[j] = v
				obs.Observe(Move{Step: i, Dim: j, Candidate: cand, Accepted: ok})
			}
			if ok {
				work[j] = v
				if marginal {
					curM[j] = next
				} else {
					curJ = next
				}
			}
		}
		copy(raw[i+1], work)
	}
	return raw, nil
}
