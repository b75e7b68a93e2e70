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

package recorder_test

import (
	"testing"

	"github.com/zintix-labs/uqlab/errs"
	"github.com/zintix-labs/uqlab/recorder"
	"github.com/zintix-labs/uqlab/sdk/core"
	"github.com/zintix-labs/uqlab/sdk/dist"
	"github.com/zintix-labs/uqlab/sdk/mcmc"
	"github.com/zintix-labs/uqlab/spec"
)

func TestObserveCounts(t *testing.T) {
	r, err := recorder.NewChainRecorder("MMH", 2, 0)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	r.Observe(mcmc.Move{Dim: 0, Accepted: true})
	r.Observe(mcmc.Move{Dim: 1, Accepted: false})
	r.Observe(mcmc.Move{Dim: 1, Accepted: true})
	r.Observe(mcmc.Move{Dim: -1, Accepted: true})

	if r.Basic.Proposed != 4 || r.Basic.Accepted != 3 {
		t.Fatalf("basic = %+v", *r.Basic)
	}
	if r.PerDim[0] != (recorder.MoveRecord{Proposed: 1, Accepted: 1}) {
		t.Fatalf("dim0 = %+v", r.PerDim[0])
	}
	if r.PerDim[1] != (recorder.MoveRecord{Proposed: 2, Accepted: 1}) {
		t.Fatalf("dim1 = %+v", r.PerDim[1])
	}

	rep := r.Done()
	if rep.Overall.Rate != 0.75 || len(rep.PerDim) != 2 || rep.PerWalker != nil {
		t.Fatalf("report = %+v", rep)
	}
}

func TestNewChainRecorderInvalid(t *testing.T) {
	if _, err := recorder.NewChainRecorder("MH", 0, 0); !errs.IsKind(err, errs.KindConfig) {
		t.Fatalf("dim 0 err = %v", err)
	}
	if _, err := recorder.NewChainRecorder("MH", 1, -1); err == nil {
		t.Fatalf("negative walkers accepted")
	}
}

func TestMergeChainRecorder(t *testing.T) {
	a, _ := recorder.NewChainRecorder("Stretch", 1, 3)
	b, _ := recorder.NewChainRecorder("Stretch", 1, 3)
	a.Observe(mcmc.Move{Dim: -1, Walker: 0, Accepted: true})
	b.Observe(mcmc.Move{Dim: -1, Walker: 2, Accepted: false})
	b.Observe(mcmc.Move{Dim: -1, Walker: 2, Accepted: true})

	m, err := recorder.MergeChainRecorder([]*recorder.ChainRecorder{a, b})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if m.Basic.Proposed != 3 || m.Basic.Accepted != 2 {
		t.Fatalf("merged basic = %+v", *m.Basic)
	}
	if m.PerWalker[0].Accepted != 1 || m.PerWalker[2].Proposed != 2 {
		t.Fatalf("merged walkers = %+v", m.PerWalker)
	}
	// 來源不可被改動
	if a.Basic.Proposed != 1 {
		t.Fatalf("source mutated")
	}

	c, _ := recorder.NewChainRecorder("MH", 1, 3)
	if _, err := recorder.MergeChainRecorder([]*recorder.ChainRecorder{a, c}); err == nil {
		t.Fatalf("merge across algorithms accepted")
	}
	if _, err := recorder.MergeChainRecorder(nil); err == nil {
		t.Fatalf("empty merge accepted")
	}
}

func TestRecorderWithSampler(t *testing.T) {
	s := &spec.MCMCSetting{
		Algorithm:    spec.MMH,
		NSamples:     50,
		Seed:         [][]float64{{0, 0}},
		ProposalType: []spec.ProposalKind{spec.ProposalNormal},
	}
	if err := s.Init(dist.NewRegistry()); err != nil {
		t.Fatalf("init: %v", err)
	}
	r, _ := recorder.NewChainRecorder(string(s.Algorithm), 2, 0)
	if _, err := mcmc.Run(core.NewWithSeed(7), s, r); err != nil {
		t.Fatalf("run: %v", err)
	}
	// 50 列原始鏈 = 49 次轉移，每次更新 2 個分量
	if r.Basic.Proposed != 98 {
		t.Fatalf("proposed = %d, want 98", r.Basic.Proposed)
	}
	if r.PerDim[0].Proposed != 49 || r.PerDim[1].Proposed != 49 {
		t.Fatalf("per dim = %+v", r.PerDim)
	}
	rep := r.Done()
	if rep.Overall.Rate <= 0 || rep.Overall.Rate > 1 {
		t.Fatalf("rate = %v", rep.Overall.Rate)
	}
}
