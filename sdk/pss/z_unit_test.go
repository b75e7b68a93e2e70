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

package pss

import (
	"math"
	"testing"

	"github.com/zintix-labs/uqlab/sdk/core"
	"github.com/zintix-labs/uqlab/sdk/dist"
	"github.com/zintix-labs/uqlab/spec"
)

func TestBlocksStayStratified(t *testing.T) {
	s := &spec.PSSSetting{
		Design: []int{2, 1},
		Strata: []int{3, 9},
		DistSetting: spec.DistSetting{
			DistType:   []string{"Uniform", "Uniform", "Normal"},
			DistParams: [][]float64{{0, 1}, {0, 1}, {0, 1}},
		},
	}
	if err := s.Init(dist.NewRegistry()); err != nil {
		t.Fatalf("init: %v", err)
	}
	res, err := Sample(core.NewWithSeed(8), s)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if n, d := res.Dims(); n != 9 || d != 3 {
		t.Fatalf("shape %d x %d", n, d)
	}

	// 第一個子空間：3x3 格子每格一點
	cells := map[[2]int]bool{}
	for _, row := range res.U01 {
		cells[[2]int{int(row[0] * 3), int(row[1] * 3)}] = true
	}
	if len(cells) != 9 {
		t.Fatalf("block 0 cells covered: %d", len(cells))
	}
	// 第二個子空間：9 個區間每個一點
	bins := map[int]bool{}
	for _, row := range res.U01 {
		bins[int(row[2]*9)] = true
	}
	if len(bins) != 9 {
		t.Fatalf("block 1 bins covered: %d", len(bins))
	}

	// 同一排列作用在 U01 與樣本上
	for i, row := range res.Samples {
		if row[0] != res.U01[i][0] {
			t.Fatalf("uniform column mismatch at row %d", i)
		}
		if (res.U01[i][2] < 0.5) != (row[2] < 0) && math.Abs(row[2]) > 1e-12 {
			t.Fatalf("normal column does not follow its u01 row %d", i)
		}
	}
}
