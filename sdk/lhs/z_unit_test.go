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
	"testing"

	"github.com/zintix-labs/uqlab/errs"
	"github.com/zintix-labs/uqlab/sdk/core"
	"github.com/zintix-labs/uqlab/sdk/dist"
	"github.com/zintix-labs/uqlab/spec"
)

// oneInEachBin 每一維每個區間 [k/n,(k+1)/n) 恰有一個點
func oneInEachBin(t *testing.T, u [][]float64) {
	t.Helper()
	n := len(u)
	for j := range u[0] {
		seen := make([]bool, n)
		for i := range u {
			k := int(math.Floor(u[i][j] * float64(n)))
			if k < 0 || k >= n || seen[k] {
				t.Fatalf("dim %d: bin %d hit twice or out of range (value %v)", j, k, u[i][j])
			}
			seen[k] = true
		}
	}
}

func setting(criterion spec.LHSCriterion, metric string, n, d int) *spec.LHSSetting {
	s := &spec.LHSSetting{
		NSamples:  n,
		Criterion: criterion,
		Metric:    metric,
		DistSetting: spec.DistSetting{
			DistType:   []string{"Uniform"},
			DistParams: [][]float64{{0, 1}},
			Dimension:  d,
		},
	}
	return s
}

func TestCriteriaStratifyEachDimension(t *testing.T) {
	reg := dist.NewRegistry()
	for _, crit := range []spec.LHSCriterion{spec.LHSRandom, spec.LHSCentered, spec.LHSMaximin, spec.LHSCorrelate} {
		s := setting(crit, "", 25, 3)
		s.Iterations = 10
		if err := s.Init(reg); err != nil {
			t.Fatalf("%s init: %v", crit, err)
		}
		res, err := Sample(core.NewWithSeed(3), s)
		if err != nil {
			t.Fatalf("%s sample: %v", crit, err)
		}
		if n, d := res.Dims(); n != 25 || d != 3 {
			t.Fatalf("%s shape %d x %d", crit, n, d)
		}
		oneInEachBin(t, res.U01)
	}
}

func TestCenteredUsesMidpoints(t *testing.T) {
	u := Centered(core.NewWithSeed(1), 4, 2)
	for _, row := range u {
		for _, v := range row {
			k := v*4 - 0.5
			if math.Abs(k-math.Round(k)) > 1e-12 {
				t.Fatalf("value %v is not a bin midpoint", v)
			}
		}
	}
}

func TestMaximinImproves(t *testing.T) {
	m, _ := newMetric("euclidean")
	single, _ := Maximin(core.NewWithSeed(7), 10, 2, 1, "euclidean")
	many, _ := Maximin(core.NewWithSeed(7), 10, 2, 50, "euclidean")
	a, _ := minPairDistance(single, m)
	b, _ := minPairDistance(many, m)
	if b < a {
		t.Fatalf("more iterations gave worse spread: %v < %v", b, a)
	}
}

func TestAllMetrics(t *testing.T) {
	for name := range spec.LHSMetrics {
		u, err := Maximin(core.NewWithSeed(2), 12, 3, 5, name)
		if err != nil {
			t.Fatalf("metric %s: %v", name, err)
		}
		oneInEachBin(t, u)
	}
	m, _ := newMetric("mahalanobis")
	flat := [][]float64{{0, 0.5}, {0.3, 0.5}, {0.9, 0.5}}
	if _, err := minPairDistance(flat, m); !errs.IsKind(err, errs.KindNumerical) {
		t.Fatalf("singular covariance should be numerical error, got %v", err)
	}
	if _, err := newMetric("yule"); !errs.IsKind(err, errs.KindConfig) {
		t.Fatalf("unknown metric should be config error, got %v", err)
	}
}

func TestMetricValues(t *testing.T) {
	a, b := []float64{1, 0}, []float64{0, 1}
	want := map[string]float64{
		"euclidean":   math.Sqrt2,
		"sqeuclidean": 2,
		"cityblock":   2,
		"chebyshev":   1,
		"cosine":      1,
		"canberra":    2,
		"braycurtis":  1,
		"hamming":     1,
	}
	for name, w := range want {
		m, err := newMetric(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if got := m.distance(a, b); math.Abs(got-w) > 1e-12 {
			t.Fatalf("%s distance = %v want %v", name, got, w)
		}
	}
}

func TestCorrelateLowersCorrelation(t *testing.T) {
	one := Correlate(core.NewWithSeed(4), 20, 3, 1)
	many := Correlate(core.NewWithSeed(4), 20, 3, 100)
	if maxOffDiagCorrelation(many) > maxOffDiagCorrelation(one) {
		t.Fatalf("correlate did not keep the best candidate")
	}
	single := Correlate(core.NewWithSeed(4), 5, 1, 10)
	oneInEachBin(t, single)
}

func TestNormalTransform(t *testing.T) {
	s := setting(spec.LHSRandom, "", 50, 1)
	s.DistType = []string{"Normal"}
	s.DistParams = [][]float64{{10, 1}}
	if err := s.Init(dist.NewRegistry()); err != nil {
		t.Fatalf("init: %v", err)
	}
	res, _ := Sample(core.NewWithSeed(9), s)
	mean := 0.0
	for _, row := range res.Samples {
		mean += row[0]
	}
	mean /= 50
	if math.Abs(mean-10) > 0.5 {
		t.Fatalf("mean %v far from 10", mean)
	}
}
