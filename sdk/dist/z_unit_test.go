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

package dist

import (
	"math"
	"slices"
	"testing"

	"github.com/zintix-labs/uqlab/errs"
)

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestBuiltinConventions(t *testing.T) {
	reg := NewRegistry()
	cases := []struct {
		name   string
		params []float64
		u      float64
		want   float64
	}{
		{"Uniform", []float64{2, 3}, 0.5, 3.5},
		{"Normal", []float64{1, 2}, 0.5, 1},
		{"Exponential", []float64{1, 2}, 1 - math.Exp(-1), 3},
		{"Weibull", []float64{1, 0}, 1 - math.Exp(-2), 2},
		{"Lognormal", []float64{1, 0}, 0.5, 1},
		{"Beta", []float64{1, 1, -1, 2}, 0.25, -0.5},
		{"Gamma", []float64{1, 0, 1}, 1 - math.Exp(-1), 1},
	}
	for _, tc := range cases {
		d, err := reg.Resolve(tc.name)
		if err != nil {
			t.Fatalf("resolve %s: %v", tc.name, err)
		}
		got := d.InvCdf(tc.u, tc.params)
		if !near(got, tc.want, 1e-6) {
			t.Fatalf("%s InvCdf(%v)=%v want %v", tc.name, tc.u, got, tc.want)
		}
		if back := d.Cdf(got, tc.params); !near(back, tc.u, 1e-6) {
			t.Fatalf("%s Cdf(InvCdf(u))=%v want %v", tc.name, back, tc.u)
		}
	}
}

func TestPdfShift(t *testing.T) {
	reg := NewRegistry()
	u, _ := reg.Resolve("Uniform")
	if got := u.Pdf(0.5, []float64{0, 2}); !near(got, 0.5, 1e-12) {
		t.Fatalf("uniform pdf = %v", got)
	}
	if got := u.Pdf(3, []float64{0, 2}); got != 0 {
		t.Fatalf("uniform pdf outside support = %v", got)
	}
	n, _ := reg.Resolve("Normal")
	if got := n.Pdf(0, []float64{0, 1}); !near(got, 1/math.Sqrt(2*math.Pi), 1e-12) {
		t.Fatalf("normal pdf = %v", got)
	}
}

func TestParamValidation(t *testing.T) {
	reg := NewRegistry()
	bad := map[string][]float64{
		"Uniform":   {0},
		"Normal":    {0, -1},
		"Beta":      {1, 1, 0},
		"Gamma":     {0, 0, 1},
		"Lognormal": {1, 0, 1, 1},
	}
	for name, p := range bad {
		d, _ := reg.Resolve(name)
		if _, err := d.Bind(p); !errs.IsKind(err, errs.KindConfig) {
			t.Fatalf("%s %v: expected config error, got %v", name, p, err)
		}
	}
	if _, err := reg.Resolve("Cauchy"); !errs.IsKind(err, errs.KindConfig) {
		t.Fatalf("expected unsupported distribution error, got %v", err)
	}
	n, _ := reg.Resolve("Normal")
	if v := n.InvCdf(1.5, []float64{0, 1}); !math.IsNaN(v) {
		t.Fatalf("InvCdf outside [0,1] should be NaN, got %v", v)
	}
}

func TestRegistryCustom(t *testing.T) {
	reg := NewRegistry()
	tri := Funcs{
		Pdf: func(x float64, p []float64) float64 {
			if x < 0 || x > 1 {
				return 0
			}
			return 2 * x
		},
		InvCdf: func(u float64, p []float64) float64 { return math.Sqrt(u) },
	}
	if err := reg.Register("Normal", tri); err == nil {
		t.Fatalf("built-in names must not be overridden")
	}
	if err := reg.Register("Tri", tri); err != nil {
		t.Fatalf("register: %v", err)
	}
	d, err := reg.Resolve("Tri")
	if err != nil || d.Kind != Custom || !d.HasInvCdf() {
		t.Fatalf("resolve custom: %v %+v", err, d)
	}
	if got := d.InvCdf(0.25, nil); got != 0.5 {
		t.Fatalf("custom InvCdf = %v", got)
	}
	if !math.IsNaN(d.Cdf(0.5, nil)) {
		t.Fatalf("missing cdf should be NaN")
	}

	if err := reg.RegisterJoint("Banana", func(x, p []float64) float64 { return 1 }); err != nil {
		t.Fatalf("register joint: %v", err)
	}
	if !slices.Contains(reg.Names(), "Banana") || !slices.Contains(reg.Names(), "Gamma") {
		t.Fatalf("names: %v", reg.Names())
	}

	prod, err := reg.ResolveJoint("Normal")
	if err != nil {
		t.Fatalf("resolve joint product: %v", err)
	}
	want := 1 / (2 * math.Pi)
	if got := prod([]float64{0, 0}, []float64{0, 1}); !near(got, want, 1e-12) {
		t.Fatalf("product density = %v want %v", got, want)
	}
}
