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

// Package lhs 拉丁超立方取樣。
//
// [0,1] 在每一維切成 n 個等寬區間 [k/n, (k+1)/n)，每個區間在每一維恰好有一個點。
// maximin 與 correlate 會產生多組 random 設計，挑出最佳的一組。
package lhs

import (
	"math"

	"github.com/zintix-labs/uqlab/errs"
	"github.com/zintix-labs/uqlab/sdk/buf"
	"github.com/zintix-labs/uqlab/sdk/core"
	"github.com/zintix-labs/uqlab/spec"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func Sample(c *core.Core, s *spec.LHSSetting) (*buf.Result, error) {
	if s == nil || len(s.Margins) == 0 {
		return nil, errs.Configf("lhs: setting is not initialized")
	}
	var (
		u01 [][]float64
		err error
	)
	switch s.Criterion {
	case spec.LHSRandom:
		u01 = Random(c, s.NSamples, s.Dimension)
	case spec.LHSCentered:
		u01 = Centered(c, s.NSamples, s.Dimension)
	case spec.LHSMaximin:
		u01, err = Maximin(c, s.NSamples, s.Dimension, s.Iterations, s.Metric)
	case spec.LHSCorrelate:
		u01 = Correlate(c, s.NSamples, s.Dimension, s.Iterations)
	default:
		return nil, errs.Configf("lhs: unknown criterion %q", s.Criterion)
	}
	if err != nil {
		return nil, err
	}
	return &buf.Result{Method: string(spec.MethodLHS), U01: u01, Samples: s.Transform(u01)}, nil
}

// Random 每個區間內取均勻點，各維獨立打亂
func Random(c *core.Core, n, d int) [][]float64 {
	out := buf.NewMatrix(n, d)
	for j := 0; j < d; j++ {
		perm := c.Perm(n)
		for k := 0; k < n; k++ {
			out[perm[k]][j] = (float64(k) + c.Float64()) / float64(n)
		}
	}
	return out
}

// Centered 取區間中點，各維獨立打亂
func Centered(c *core.Core, n, d int) [][]float64 {
	out := buf.NewMatrix(n, d)
	for j := 0; j < d; j++ {
		perm := c.Perm(n)
		for k := 0; k < n; k++ {
			out[perm[k]][j] = (float64(k) + 0.5) / float64(n)
		}
	}
	return out
}

// Maximin 產生 iter 組 random 設計，保留點對最小距離最大者
func Maximin(c *core.Core, n, d, iter int, metric string) ([][]float64, error) {
	dist, err := newMetric(metric)
	if err != nil {
		return nil, err
	}
	best := Random(c, n, d)
	if n < 2 {
		return best, nil
	}
	bestScore, err := minPairDistance(best, dist)
	if err != nil {
		return nil, err
	}
	for i := 1; i < iter; i++ {
		cand := Random(c, n, d)
		score, err := minPairDistance(cand, dist)
		if err != nil {
			return nil, err
		}
		if score > bestScore || (math.IsNaN(bestScore) && !math.IsNaN(score)) {
			best, bestScore = cand, score
		}
	}
	return best, nil
}

// Correlate 產生 iter 組 random 設計，保留相關係數矩陣非對角最大絕對值最小者
func Correlate(c *core.Core, n, d, iter int) [][]float64 {
	best := Random(c, n, d)
	if n < 2 || d < 2 {
		return best
	}
	bestScore := maxOffDiagCorrelation(best)
	for i := 1; i < iter; i++ {
		cand := Random(c, n, d)
		score := maxOffDiagCorrelation(cand)
		if score < bestScore || (math.IsNaN(bestScore) && !math.IsNaN(score)) {
			best, bestScore = cand, score
		}
	}
	return best
}

func maxOffDiagCorrelation(x [][]float64) float64 {
	n, d := len(x), len(x[0])
	m := mat.NewDense(n, d, nil)
	for i, row := range x {
		m.SetRow(i, row)
	}
	var corr mat.SymDense
	stat.CorrelationMatrix(&corr, m, nil)
	worst := 0.0
	for i := 0; i < d; i++ {
		for j := i + 1; j < d; j++ {
			if v := math.Abs(corr.At(i, j)); v > worst || math.IsNaN(v) {
				worst = v
			}
		}
	}
	return worst
}
