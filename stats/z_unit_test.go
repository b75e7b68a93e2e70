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

package stats_test

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zintix-labs/uqlab/sdk/buf"
	"github.com/zintix-labs/uqlab/stats"
)

func column(vals ...float64) *buf.Result {
	r := &buf.Result{Method: "mcs", Samples: buf.NewMatrix(len(vals), 1)}
	for i, v := range vals {
		r.Samples[i][0] = v
	}
	return r
}

func TestSummarizeBasic(t *testing.T) {
	r := column(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	rep := stats.Summarize("basic", r)
	if rep.NSamples != 10 || rep.Dimension != 1 || rep.Chains != 1 {
		t.Fatalf("unexpected header: %+v", rep)
	}
	if rep.Weighted {
		t.Fatalf("unweighted result reported as weighted")
	}
	ds := rep.Dims[0]
	if math.Abs(ds.Mean-5.5) > 1e-12 {
		t.Fatalf("mean = %v, want 5.5", ds.Mean)
	}
	// 樣本標準差 sqrt(55/6)
	if math.Abs(ds.Std-math.Sqrt(55.0/6.0)) > 1e-12 {
		t.Fatalf("std = %v", ds.Std)
	}
	if ds.Min != 1 || ds.Max != 10 {
		t.Fatalf("min/max = %v/%v", ds.Min, ds.Max)
	}
	if !(ds.MeanCI.Lo < ds.Mean && ds.Mean < ds.MeanCI.Hi) {
		t.Fatalf("mean CI %+v does not cover mean", ds.MeanCI)
	}
	if ds.MedianCI.Lo > ds.Median || ds.MedianCI.Hi < ds.Median {
		t.Fatalf("median CI %+v does not cover median %v", ds.MedianCI, ds.Median)
	}
	if ds.P05 > ds.Median || ds.P95 < ds.Median {
		t.Fatalf("percentiles out of order: %v %v %v", ds.P05, ds.Median, ds.P95)
	}
}

func TestSummarizeWeighted(t *testing.T) {
	r := column(0, 1)
	r.Weights = []float64{0.75, 0.25}
	rep := stats.Summarize("w", r)
	if !rep.Weighted {
		t.Fatalf("weights ignored")
	}
	if math.Abs(rep.Dims[0].Mean-0.25) > 1e-12 {
		t.Fatalf("weighted mean = %v, want 0.25", rep.Dims[0].Mean)
	}
}

func TestSummarizeChains(t *testing.T) {
	a := column(1, 2)
	b := column(3, 4)
	rep := stats.Summarize("chains", a, b)
	if rep.Chains != 2 || rep.NSamples != 4 {
		t.Fatalf("unexpected chains/samples: %d/%d", rep.Chains, rep.NSamples)
	}
	if math.Abs(rep.Dims[0].Mean-2.5) > 1e-12 {
		t.Fatalf("pooled mean = %v", rep.Dims[0].Mean)
	}
}

func TestSummarizeEdge(t *testing.T) {
	rep := stats.Summarize("empty")
	if rep.Chains != 0 || len(rep.Dims) != 0 {
		t.Fatalf("empty summary not empty: %+v", rep)
	}
	one := stats.Summarize("one", column(3))
	ds := one.Dims[0]
	if ds.Mean != 3 || ds.MeanCI.Lo != 3 || ds.MedianCI.Hi != 3 {
		t.Fatalf("single sample summary: %+v", ds)
	}
}

func TestNewRateStat(t *testing.T) {
	r := stats.NewRateStat(30, 100)
	if r.Rate != 0.3 {
		t.Fatalf("rate = %v", r.Rate)
	}
	if !(r.CI.Lo < 0.3 && r.CI.Hi > 0.3 && r.CI.Lo > 0.2 && r.CI.Hi < 0.4) {
		t.Fatalf("CI = %+v", r.CI)
	}
	z := stats.NewRateStat(0, 0)
	if z.Rate != 0 || z.CI.Lo != 0 || z.CI.Hi != 1 {
		t.Fatalf("empty rate = %+v", z)
	}
	all := stats.NewRateStat(5, 5)
	if all.CI.Hi != 1 {
		t.Fatalf("k == n upper bound = %v", all.CI.Hi)
	}
}

func TestRenders(t *testing.T) {
	rep := stats.Summarize("render", column(1, 2, 3))
	rep.Accept = &stats.AcceptReport{Algorithm: "MH", Overall: stats.NewRateStat(1, 2)}

	for _, f := range []string{"json", "yaml"} {
		r, ok := stats.RenderByFormat(f)
		if !ok {
			t.Fatalf("format %s not found", f)
		}
		var b bytes.Buffer
		if err := rep.WriteWith(&b, r); err != nil {
			t.Fatalf("%s render: %v", f, err)
		}
		if !strings.Contains(b.String(), "render") || !strings.Contains(b.String(), "MH") {
			t.Fatalf("%s output missing fields:\n%s", f, b.String())
		}
	}
	if _, ok := stats.RenderByFormat("xml"); ok {
		t.Fatalf("unknown format accepted")
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	r := column(0.5, 1.5)
	a := &stats.Archive{
		Name:    "arc",
		PRNG:    "pcg64",
		Seed:    42,
		Results: []*buf.Result{r},
		Report:  stats.Summarize("arc", r),
	}
	dir := t.TempDir()
	path, err := stats.SaveArchive(dir, a)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Base(path) != "arc_42.json.zst" {
		t.Fatalf("unexpected archive name %s", path)
	}
	got, err := stats.LoadArchive(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Seed != 42 || got.Results[0].Samples[1][0] != 1.5 || got.Report.Dims[0].Mean != 1 {
		t.Fatalf("archive mismatch: %+v", got)
	}
	if _, err := stats.DecodeArchive(strings.NewReader("not zstd")); err == nil {
		t.Fatalf("garbage archive decoded")
	}
}
