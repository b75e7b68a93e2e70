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

package strata

import (
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/zintix-labs/uqlab/errs"
)

func TestFullFactorial2x2(t *testing.T) {
	s, err := New([]int{2, 2})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if s.Len() != 4 || s.Dimension() != 2 {
		t.Fatalf("unexpected shape: %d x %d", s.Len(), s.Dimension())
	}
	want := [][]float64{{0, 0}, {0.5, 0}, {0, 0.5}, {0.5, 0.5}}
	for k, o := range want {
		if !slices.Equal(s.Origins[k], o) {
			t.Fatalf("origin %d = %v want %v", k, s.Origins[k], o)
		}
		if !slices.Equal(s.Widths[k], []float64{0.5, 0.5}) {
			t.Fatalf("width %d = %v", k, s.Widths[k])
		}
		if s.Weights[k] != 0.25 {
			t.Fatalf("weight %d = %v", k, s.Weights[k])
		}
	}
}

func TestFullFactorialVolume(t *testing.T) {
	for _, design := range [][]int{{3}, {3, 5}, {2, 3, 7}, {1, 4, 1}} {
		s, err := New(design)
		if err != nil {
			t.Fatalf("new %v: %v", design, err)
		}
		total := 1
		for _, n := range design {
			total *= n
		}
		if s.Len() != total {
			t.Fatalf("%v: %d strata want %d", design, s.Len(), total)
		}
		if math.Abs(s.Volume()-1) > FillTol {
			t.Fatalf("%v: volume %v", design, s.Volume())
		}
	}
	if _, err := New([]int{2, 0}); !errs.IsKind(err, errs.KindConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestLoadTable(t *testing.T) {
	table := `# origin_x origin_y width_x width_y
0    0    0.5  1

0.5  0    0.5  0.5
0.5  0.5  0.5  0.5
`
	s, err := Load(strings.NewReader(table))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Len() != 3 || s.Dimension() != 2 {
		t.Fatalf("unexpected shape %d x %d", s.Len(), s.Dimension())
	}
	if !slices.Equal(s.Weights, []float64{0.5, 0.25, 0.25}) {
		t.Fatalf("weights %v", s.Weights)
	}

	path := filepath.Join(t.TempDir(), "strata.txt")
	if err := os.WriteFile(path, []byte(table), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFile(path); err != nil {
		t.Fatalf("load file: %v", err)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.txt")); !errs.IsKind(err, errs.KindConfig) {
		t.Fatalf("missing file should be a config error, got %v", err)
	}
}

func TestLoadRejectsBadGeometry(t *testing.T) {
	cases := map[string]string{
		"not space-filling": "0 0 0.5 0.5\n0.5 0.5 0.5 0.5\n",
		"over-filling":      "0 0 1 1\n0 0 0.5 0.5\n",
		"odd columns":       "0 0 1\n",
		"ragged":            "0 0 1 1\n0 1\n",
		"outside":           "0.5 0 1 1\n",
	}
	for name, table := range cases {
		_, err := Load(strings.NewReader(table))
		if !errs.IsKind(err, errs.KindGeometry) {
			t.Fatalf("%s: expected geometry error, got %v", name, err)
		}
		if name == "not space-filling" || name == "over-filling" {
			if !strings.Contains(err.Error(), name) {
				t.Fatalf("%s: message %q", name, err.Error())
			}
		}
	}
	if _, err := Load(strings.NewReader("0 x 1 1\n")); !errs.IsKind(err, errs.KindConfig) {
		t.Fatalf("bad number should be config error, got %v", err)
	}
}

func TestSampleInsideStrata(t *testing.T) {
	s, _ := New([]int{4, 3})
	i := 0
	seq := []float64{0, 0.999, 0.5, 0.25}
	pts := s.Sample(func() float64 { i++; return seq[i%len(seq)] })
	for k, p := range pts {
		if !s.Contains(k, p) {
			t.Fatalf("point %v outside stratum %d", p, k)
		}
	}
}
