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

package mcs

import (
	"slices"
	"testing"

	"github.com/zintix-labs/uqlab/sdk/core"
	"github.com/zintix-labs/uqlab/sdk/dist"
	"github.com/zintix-labs/uqlab/spec"
)

func TestUnitSquare(t *testing.T) {
	s := &spec.MCSSetting{NSamples: 100, DistSetting: spec.DistSetting{
		DistType:   []string{"Uniform", "Uniform"},
		DistParams: [][]float64{{0, 1}, {0, 1}},
	}}
	if err := s.Init(dist.NewRegistry()); err != nil {
		t.Fatalf("init: %v", err)
	}
	res, err := Sample(core.NewWithSeed(1), s)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	n, d := res.Dims()
	if n != 100 || d != 2 {
		t.Fatalf("shape %d x %d", n, d)
	}
	for i, row := range res.Samples {
		for j, v := range row {
			if v < 0 || v > 1 || v != res.U01[i][j] {
				t.Fatalf("sample %d,%d = %v (u01 %v)", i, j, v, res.U01[i][j])
			}
		}
	}
}

func TestDeterministic(t *testing.T) {
	s := &spec.MCSSetting{NSamples: 20, DistSetting: spec.DistSetting{
		DistType:   []string{"Normal"},
		DistParams: [][]float64{{5, 2}},
		Dimension:  3,
	}}
	if err := s.Init(dist.NewRegistry()); err != nil {
		t.Fatalf("init: %v", err)
	}
	a, _ := Sample(core.NewWithSeed(5), s)
	b, _ := Sample(core.NewWithSeed(5), s)
	for i := range a.Samples {
		if !slices.Equal(a.Samples[i], b.Samples[i]) {
			t.Fatalf("row %d differs", i)
		}
	}
	if _, err := Sample(core.NewWithSeed(5), &spec.MCSSetting{NSamples: 1}); err == nil {
		t.Fatalf("uninitialized setting should fail")
	}
}
