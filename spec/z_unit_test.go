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

package spec

import (
	"math"
	"testing"

	"github.com/zintix-labs/uqlab/errs"
	"github.com/zintix-labs/uqlab/sdk/dist"
)

func TestDistBroadcast(t *testing.T) {
	reg := dist.NewRegistry()
	s := &MCSSetting{NSamples: 10, DistSetting: DistSetting{
		DistType:   []string{"Uniform"},
		DistParams: [][]float64{{0, 1}, {2, 2}, {-1, 4}},
	}}
	if err := s.Init(reg); err != nil {
		t.Fatalf("init: %v", err)
	}
	if s.Dimension != 3 || len(s.Margins) != 3 {
		t.Fatalf("dimension %d margins %d", s.Dimension, len(s.Margins))
	}
	if got := s.Margins[1].InvCdf(0.5); got != 3 {
		t.Fatalf("margin 1 InvCdf = %v", got)
	}

	bad := &MCSSetting{NSamples: 10, DistSetting: DistSetting{
		DistType:   []string{"Uniform", "Normal"},
		DistParams: [][]float64{{0, 1}, {0, 1}, {0, 1}},
	}}
	if err := bad.Init(reg); !errs.IsKind(err, errs.KindConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
	unknown := &MCSSetting{NSamples: 1, DistSetting: DistSetting{DistType: []string{"Cauchy"}, DistParams: [][]float64{{0, 1}}}}
	if err := unknown.Init(reg); !errs.IsKind(err, errs.KindConfig) {
		t.Fatalf("expected unsupported distribution, got %v", err)
	}
}

func TestLHSDefaults(t *testing.T) {
	reg := dist.NewRegistry()
	s := &LHSSetting{NSamples: 5, DistSetting: DistSetting{DistType: []string{"Normal"}, DistParams: [][]float64{{0, 1}}}}
	if err := s.Init(reg); err != nil {
		t.Fatalf("init: %v", err)
	}
	if s.Criterion != LHSRandom || s.Metric != "euclidean" || s.Iterations != DefaultLHSIter {
		t.Fatalf("defaults not applied: %+v", s)
	}
	for _, m := range []string{"jaccard", "nope"} {
		b := &LHSSetting{NSamples: 5, Metric: m, DistSetting: s.DistSetting}
		if err := b.Init(reg); !errs.IsKind(err, errs.KindConfig) {
			t.Fatalf("metric %s: expected config error, got %v", m, err)
		}
	}
}

func TestSTSAndPSS(t *testing.T) {
	reg := dist.NewRegistry()
	sts := &STSSetting{Design: []int{2, 3}}
	if err := sts.Init(reg); err != nil {
		t.Fatalf("sts init: %v", err)
	}
	if sts.NSamples != 6 || sts.Dimension != 2 {
		t.Fatalf("sts shape: %d x %d", sts.NSamples, sts.Dimension)
	}
	if err := (&STSSetting{}).Init(reg); !errs.IsKind(err, errs.KindConfig) {
		t.Fatalf("sts without design: %v", err)
	}

	pss := &PSSSetting{Design: []int{2, 1}, Strata: []int{2, 4}}
	if err := pss.Init(reg); err != nil {
		t.Fatalf("pss init: %v", err)
	}
	if pss.NSamples != 4 || pss.Dimension != 3 || pss.Blocks[1].Offset != 2 {
		t.Fatalf("pss layout: %+v", pss)
	}
	bad := &PSSSetting{Design: []int{2, 1}, Strata: []int{2, 3}}
	if err := bad.Init(reg); !errs.IsKind(err, errs.KindGeometry) {
		t.Fatalf("expected geometry error, got %v", err)
	}
}

func TestMCMCDefaults(t *testing.T) {
	reg := dist.NewRegistry()
	s := &MCMCSetting{NSamples: 10}
	if err := s.Init(reg); err != nil {
		t.Fatalf("init: %v", err)
	}
	if s.Algorithm != MMH || s.Dimension != 1 || s.Jump != 1 || s.NBurn != 0 {
		t.Fatalf("defaults: %+v", s)
	}
	if s.TargetType != MarginalPDF || len(s.Marginals) != 1 {
		t.Fatalf("MMH should default to marginal target")
	}
	if s.Proposals[0] != ProposalUniform || s.Scales[0] != 1 {
		t.Fatalf("proposal defaults: %v %v", s.Proposals, s.Scales)
	}
	if s.Start[0][0] != 0 {
		t.Fatalf("seed default: %v", s.Start)
	}
	want := 1 / math.Sqrt(2*math.Pi)
	if got := s.Joint([]float64{0}); math.Abs(got-want) > 1e-12 {
		t.Fatalf("default target: %v", got)
	}

	mh := &MCMCSetting{Algorithm: MH, NSamples: 10, Dimension: 2}
	if err := mh.Init(reg); err != nil {
		t.Fatalf("mh init: %v", err)
	}
	if mh.TargetType != JointPDF {
		t.Fatalf("MH should default to joint target")
	}
	if got := mh.Joint([]float64{0, 0}); math.Abs(got-1/(2*math.Pi)) > 1e-12 {
		t.Fatalf("default MVN target: %v", got)
	}

	st := &MCMCSetting{Algorithm: Stretch, NSamples: 10, TargetType: MarginalPDF,
		Seed: [][]float64{{0, 0}, {1, 0}, {0, 1}}}
	if err := st.Init(reg); err != nil {
		t.Fatalf("stretch init: %v", err)
	}
	if st.TargetType != JointPDF || st.Scales[0] != 2 || st.Dimension != 2 {
		t.Fatalf("stretch normalization: %+v", st)
	}
}

func TestMCMCErrors(t *testing.T) {
	reg := dist.NewRegistry()
	cases := []struct {
		name string
		s    *MCMCSetting
		kind errs.Kind
	}{
		{"unknown algorithm", &MCMCSetting{Algorithm: "Gibbs", NSamples: 1}, errs.KindConfig},
		{"no nsamples", &MCMCSetting{}, errs.KindConfig},
		{"MH two proposals", &MCMCSetting{Algorithm: MH, NSamples: 1, Dimension: 2,
			ProposalType: []ProposalKind{ProposalNormal, ProposalUniform}}, errs.KindConfig},
		{"bad proposal", &MCMCSetting{NSamples: 1, ProposalType: []ProposalKind{"Cauchy"}}, errs.KindConfig},
		{"bad target type", &MCMCSetting{NSamples: 1, TargetType: "conditional"}, errs.KindConfig},
		{"negative scale", &MCMCSetting{NSamples: 1, ProposalScale: []float64{-1}}, errs.KindConfig},
		{"small ensemble", &MCMCSetting{Algorithm: Stretch, NSamples: 1, Seed: [][]float64{{0}, {1}}}, errs.KindGeometry},
		{"stretch burn-in", &MCMCSetting{Algorithm: Stretch, NSamples: 1, NBurn: 3, Seed: [][]float64{{0}, {1}, {2}}}, errs.KindConfig},
		{"identical walkers", &MCMCSetting{Algorithm: Stretch, NSamples: 1, Seed: [][]float64{{0, 1}, {1, 0}, {0, 1}}}, errs.KindGeometry},
		{"seed length", &MCMCSetting{NSamples: 1, Dimension: 2, Seed: [][]float64{{0}}}, errs.KindGeometry},
		{"unknown target", &MCMCSetting{NSamples: 1, Target: []string{"Cauchy"}, TargetParams: [][]float64{{0, 1}}}, errs.KindConfig},
	}
	for _, tc := range cases {
		if err := tc.s.Init(reg); !errs.IsKind(err, tc.kind) {
			t.Fatalf("%s: expected %s error, got %v", tc.name, tc.kind, err)
		}
	}
}

func TestMCMCNamedTargets(t *testing.T) {
	reg := dist.NewRegistry()
	s := &MCMCSetting{Algorithm: MMH, NSamples: 1, Dimension: 2,
		Target: []string{"Uniform"}, TargetParams: [][]float64{{0, 2}}}
	if err := s.Init(reg); err != nil {
		t.Fatalf("init: %v", err)
	}
	if got := s.Marginals[1]([]float64{1}); got != 0.5 {
		t.Fatalf("marginal 1 = %v", got)
	}
	if got := s.Joint([]float64{1, 1}); got != 0.25 {
		t.Fatalf("joint = %v", got)
	}

	if err := reg.RegisterJoint("Ring", func(x, p []float64) float64 { return p[0] }); err != nil {
		t.Fatalf("register: %v", err)
	}
	j := &MCMCSetting{Algorithm: MH, NSamples: 1, Dimension: 3, Target: []string{"Ring"}, TargetParams: [][]float64{{7}}}
	if err := j.Init(reg); err != nil {
		t.Fatalf("init joint: %v", err)
	}
	if got := j.Joint([]float64{1, 2, 3}); got != 7 {
		t.Fatalf("joint = %v", got)
	}
}

func TestRunSettingYAML(t *testing.T) {
	reg := dist.NewRegistry()
	doc := []byte(`
name: demo
seed: 42
mcmc:
  algorithm: MH
  nsamples: 100
  seed: [[0]]
  pdf_proposal_type: [Normal]
  pdf_proposal_scale: [1]
`)
	rs, err := GetRunSettingByYAML(doc, reg)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if rs.Method != MethodMCMC || *rs.Seed != 42 || rs.Chains != 1 || rs.MCMC.Proposals[0] != ProposalNormal {
		t.Fatalf("unexpected run setting: %+v", rs)
	}

	if _, err := GetRunSettingByYAML([]byte("mcs:\n  nsamples: 1\n  typo: 3\n"), reg); !errs.IsKind(err, errs.KindConfig) {
		t.Fatalf("unknown field should fail: %v", err)
	}
	js := []byte(`{"method":"sts","sts":{"sts_design":[2,2]}}`)
	rs, err = GetRunSettingByJSON(js, reg)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if rs.STS.NSamples != 4 {
		t.Fatalf("sts nsamples %d", rs.STS.NSamples)
	}
	if _, err := GetRunSettingByJSON([]byte(`{"mcs":{"nsamples":1},"lhs":{"nsamples":1}}`), reg); err == nil {
		t.Fatalf("two blocks without method should fail")
	}
}
