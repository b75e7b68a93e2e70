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

// Package strata 描述單位超立方體 [0,1]^d 的矩形分割。
//
// 每個 stratum 由 origin 與 width 兩個向量決定，weight 為 width 各分量乘積。
// 所有建構方式都保證分割恰好填滿超立方體（容差 1e-5）。
package strata

import (
	"math"

	"github.com/zintix-labs/uqlab/errs"
)

// FillTol 體積總和與 1 的容差
const FillTol = 1e-5

type Strata struct {
	Origins [][]float64 `json:"origins" yaml:"origins"`
	Widths  [][]float64 `json:"widths"  yaml:"widths"`
	Weights []float64   `json:"weights" yaml:"weights"`
}

// Len stratum 數量
func (s *Strata) Len() int { return len(s.Origins) }

// Dimension 維度，空分割回傳 0
func (s *Strata) Dimension() int {
	if len(s.Origins) == 0 {
		return 0
	}
	return len(s.Origins[0])
}

// New 以全因子設計建立等寬分割。
//
// 第 i 維的 level 以 prod(nstrata[:i]) 為週期連續重複，
// 因此第 k 個 stratum 在第 i 維的 level 為 (k / prod(nstrata[:i])) % nstrata[i]。
func New(nstrata []int) (*Strata, error) {
	if len(nstrata) == 0 {
		return nil, errs.Configf("strata design is empty")
	}
	total := 1
	for i, n := range nstrata {
		if n < 1 {
			return nil, errs.Configf("strata design[%d] must be >= 1, got %d", i, n)
		}
		total *= n
	}
	d := len(nstrata)
	s := &Strata{
		Origins: make([][]float64, total),
		Widths:  make([][]float64, total),
		Weights: make([]float64, total),
	}
	for k := 0; k < total; k++ {
		o := make([]float64, d)
		w := make([]float64, d)
		period := 1
		weight := 1.0
		for i, n := range nstrata {
			level := (k / period) % n
			o[i] = float64(level) / float64(n)
			w[i] = 1 / float64(n)
			weight *= w[i]
			period *= n
		}
		s.Origins[k], s.Widths[k], s.Weights[k] = o, w, weight
	}
	return s, nil
}

// FromOrthotopes 由明確的 origins / widths 建立，並檢查是否恰好填滿。
func FromOrthotopes(origins, widths [][]float64) (*Strata, error) {
	if len(origins) == 0 {
		return nil, errs.Geometryf("no strata given")
	}
	if len(origins) != len(widths) {
		return nil, errs.Geometryf("%d origins but %d widths", len(origins), len(widths))
	}
	d := len(origins[0])
	if d == 0 {
		return nil, errs.Geometryf("strata dimension is zero")
	}
	s := &Strata{
		Origins: make([][]float64, len(origins)),
		Widths:  make([][]float64, len(origins)),
		Weights: make([]float64, len(origins)),
	}
	for k := range origins {
		if len(origins[k]) != d || len(widths[k]) != d {
			return nil, errs.Geometryf("stratum %d has inconsistent dimension", k)
		}
		weight := 1.0
		for j := 0; j < d; j++ {
			o, w := origins[k][j], widths[k][j]
			if !(w > 0) || o < 0 || o+w > 1+FillTol {
				return nil, errs.Geometryf("stratum %d lies outside the unit hypercube: origin=%v width=%v", k, origins[k], widths[k])
			}
			weight *= w
		}
		s.Origins[k] = append([]float64(nil), origins[k]...)
		s.Widths[k] = append([]float64(nil), widths[k]...)
		s.Weights[k] = weight
	}
	if err := s.checkFill(); err != nil {
		return nil, err
	}
	return s, nil
}

// checkFill 1 - Σ weight 超出容差即視為未填滿或重疊
func (s *Strata) checkFill() error {
	sum := 0.0
	for _, w := range s.Weights {
		sum += w
	}
	gap := 1 - sum
	switch {
	case gap > FillTol:
		return errs.Geometryf("strata are not space-filling: total volume %.6f", sum)
	case gap < -FillTol:
		return errs.Geometryf("strata are over-filling: total volume %.6f", sum)
	}
	return nil
}

// Volume Σ weight
func (s *Strata) Volume() float64 {
	sum := 0.0
	for _, w := range s.Weights {
		sum += w
	}
	return sum
}

// Sample 在每個 stratum 內各取一個均勻點，回傳 [0,1]^d 上的座標。
func (s *Strata) Sample(uniform func() float64) [][]float64 {
	out := make([][]float64, s.Len())
	for k := range s.Origins {
		row := make([]float64, len(s.Origins[k]))
		for j := range row {
			row[j] = s.Origins[k][j] + s.Widths[k][j]*uniform()
		}
		out[k] = row
	}
	return out
}

// Contains 測試用：點 x 是否落在第 k 個 stratum（含邊界浮點誤差）
func (s *Strata) Contains(k int, x []float64) bool {
	for j, v := range x {
		lo := s.Origins[k][j]
		hi := lo + s.Widths[k][j]
		if v < lo-1e-12 || v > hi+1e-12 || math.IsNaN(v) {
			return false
		}
	}
	return true
}
