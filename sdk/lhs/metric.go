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

package lhs

import (
	"math"

	"github.com/zintix-labs/uqlab/errs"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// metric 兩點距離；prepare 可依整組設計預先計算（seuclidean 的變異數、mahalanobis 的共變異）
type metric struct {
	prepare  func(x [][]float64) error
	distance func(a, b []float64) float64
}

func newMetric(name string) (*metric, error) {
	m := &metric{prepare: func([][]float64) error { return nil }}
	switch name {
	case "euclidean", "minkowski":
		m.distance = func(a, b []float64) float64 { return floats.Distance(a, b, 2) }
	case "sqeuclidean":
		m.distance = func(a, b []float64) float64 {
			v := floats.Distance(a, b, 2)
			return v * v
		}
	case "cityblock":
		m.distance = func(a, b []float64) float64 { return floats.Distance(a, b, 1) }
	case "chebyshev":
		m.distance = func(a, b []float64) float64 { return floats.Distance(a, b, math.Inf(1)) }
	case "cosine":
		m.distance = func(a, b []float64) float64 {
			return 1 - floats.Dot(a, b)/(floats.Norm(a, 2)*floats.Norm(b, 2))
		}
	case "correlation":
		m.distance = func(a, b []float64) float64 { return 1 - stat.Correlation(a, b, nil) }
	case "canberra":
		m.distance = canberra
	case "braycurtis":
		m.distance = braycurtis
	case "hamming":
		m.distance = func(a, b []float64) float64 {
			diff := 0
			for i := range a {
				if a[i] != b[i] {
					diff++
				}
			}
			return float64(diff) / float64(len(a))
		}
	case "seuclidean":
		var variance []float64
		m.prepare = func(x [][]float64) error {
			variance = columnVariance(x)
			return nil
		}
		m.distance = func(a, b []float64) float64 {
			sum := 0.0
			for i := range a {
				diff := a[i] - b[i]
				sum += diff * diff / variance[i]
			}
			return math.Sqrt(sum)
		}
	case "mahalanobis":
		var chol mat.Cholesky
		m.prepare = func(x [][]float64) error {
			dm := mat.NewDense(len(x), len(x[0]), nil)
			for i, row := range x {
				dm.SetRow(i, row)
			}
			var cov mat.SymDense
			stat.CovarianceMatrix(&cov, dm, nil)
			if ok := chol.Factorize(&cov); !ok || chol.Cond() > mat.ConditionTolerance {
				return errs.Numericalf("lhs: mahalanobis metric needs a positive definite covariance (nsamples > dimension)")
			}
			return nil
		}
		m.distance = func(a, b []float64) float64 {
			return stat.Mahalanobis(mat.NewVecDense(len(a), a), mat.NewVecDense(len(b), b), &chol)
		}
	default:
		return nil, errs.Configf("lhs: unknown metric %q", name)
	}
	return m, nil
}

// minPairDistance 所有點對距離的最小值
func minPairDistance(x [][]float64, m *metric) (float64, error) {
	if err := m.prepare(x); err != nil {
		return 0, err
	}
	best := math.Inf(1)
	for i := 0; i < len(x); i++ {
		for j := i + 1; j < len(x); j++ {
			if v := m.distance(x[i], x[j]); v < best || math.IsNaN(v) {
				best = v
			}
		}
	}
	return best, nil
}

func canberra(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		den := math.Abs(a[i]) + math.Abs(b[i])
		if den == 0 {
			continue
		}
		sum += math.Abs(a[i]-b[i]) / den
	}
	return sum
}

func braycurtis(a, b []float64) float64 {
	num, den := 0.0, 0.0
	for i := range a {
		num += math.Abs(a[i] - b[i])
		den += math.Abs(a[i] + b[i])
	}
	return num / den
}

func columnVariance(x [][]float64) []float64 {
	d := len(x[0])
	out := make([]float64, d)
	col := make([]float64, len(x))
	for j := 0; j < d; j++ {
		for i, row := range x {
			col[i] = row[j]
		}
		out[j] = stat.Variance(col, nil)
	}
	return out
}
