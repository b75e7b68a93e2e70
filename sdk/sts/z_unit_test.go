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

package sts

import (
	"math"
	"strings"
	"testing"

	"github.com/zintix-labs/uqlab/sdk/core"
	"github.com/zintix-labs/uqlab/sdk/dist"
	"github.com/zintix-labs/uqlab/sdk/strata"
	"github.com/zintix-labs/uqlab/spec"
)

func TestOnePointPerStratum(t *testing.T) {
	s := &spec.STSSetting{Design: []int{3, 4}}
	if err := s.Init(dist.NewRegistry()); err != nil {
		t.Fatalf("init: %v", err)
	}
	res, err := Sample(core.NewWithSeed(2), s)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if n, d := res.Dims(); n != 12 || d != 2 {
		t.Fatalf("shape %d x %d", n, d)
	}
	sum := 0.0
	for k, u := range res.U01 {
		if !s.Strata.Contains(k, u) {
			t.Fatalf("point %v outside stratum %d", u, k)
		}
		sum += res.Weights[k]
	}
	if math.Abs(sum-1) > strata.FillTol {
		t.Fatalf("weights sum to %v", sum)
	}
}

func TestExplicitStrataWithNormalMargins(t *testing.T) {
	st, err := strata.Load(strings.NewReader("0 0.5\n0.5 0.5\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	s := &spec.STSSetting{
		Strata: st,
		DistSetting: spec.DistSetting{
			DistType:   []string{"Normal"},
			DistParams: [][]float64{{0, 1}},
		},
	}
	if err := s.Init(dist.NewRegistry()); err != nil {
		t.Fatalf("init: %v", err)
	}
	res, _ := Sample(core.NewWithSeed(4), s)
	if res.Samples[0][0] > 0 || res.Samples[1][0] < 0 {
		t.Fatalf("lower stratum should map below the median: %v", res.Samples)
	}
}
