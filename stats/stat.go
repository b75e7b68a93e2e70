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

package stats

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/zintix-labs/uqlab/sdk/buf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"
)

var lang language.Tag = language.English

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo" yaml:"Lo"`
	Hi float64 `json:"Hi" yaml:"Hi"`
}

// SampleReport 樣本統計報告
type SampleReport struct {
	Name      string        `json:"Name"             yaml:"Name"`
	Method    string        `json:"Method"           yaml:"Method"`
	Chains    int           `json:"Chains"           yaml:"Chains"`
	NSamples  int           `json:"NSamples"         yaml:"NSamples"`
	Dimension int           `json:"Dimension"        yaml:"Dimension"`
	Weighted  bool          `json:"Weighted"         yaml:"Weighted"`
	Dims      []DimStat     `json:"Dims"             yaml:"Dims"`
	Accept    *AcceptReport `json:"Accept,omitempty" yaml:"Accept,omitempty"`
}

// DimStat 單一維度的摘要
//
// MeanCI 以 Student-t 計算（假設樣本獨立，MCMC 樣本有自相關時偏窄）；
// MedianCI 以 order statistic 的 Clopper-Pearson 反推。
type DimStat struct {
	Dim      int     `json:"Dim"      yaml:"Dim"`
	Mean     float64 `json:"Mean"     yaml:"Mean"`
	MeanCI   CI      `json:"MeanCI"   yaml:"MeanCI"`
	Std      float64 `json:"Std"      yaml:"Std"`
	Min      float64 `json:"Min"      yaml:"Min"`
	Max      float64 `json:"Max"      yaml:"Max"`
	Median   float64 `json:"Median"   yaml:"Median"`
	MedianCI CI      `json:"MedianCI" yaml:"MedianCI"`
	P05      float64 `json:"P05"      yaml:"P05"`
	P95      float64 `json:"P95"      yaml:"P95"`
}

// ============================================================
// ** 公開方法 **
// ============================================================

// Summarize 對一或多個結果（例如多條獨立鏈）逐維計算摘要。
// 結果帶有 Weights（分層取樣）時，平均數與標準差以 stratum 體積加權。
func Summarize(name string, rs ...*buf.Result) *SampleReport {
	rep := &SampleReport{Name: name, Chains: len(rs)}
	if len(rs) == 0 {
		return rep
	}
	rep.Method = rs[0].Method
	_, d := rs[0].Dims()
	rep.Dimension = d

	var weights []float64
	for _, r := range rs {
		n, _ := r.Dims()
		rep.NSamples += n
	}
	if len(rs) == 1 && len(rs[0].Weights) == rep.NSamples && rep.NSamples > 0 {
		// 權重總和為 1；放大成總和為 n 才符合 gonum 的 frequency weight 語意
		rep.Weighted = true
		weights = make([]float64, rep.NSamples)
		for i, w := range rs[0].Weights {
			weights[i] = w * float64(rep.NSamples)
		}
	}

	rep.Dims = make([]DimStat, d)
	col := make([]float64, 0, rep.NSamples)
	for j := 0; j < d; j++ {
		col = col[:0]
		for _, r := range rs {
			col = append(col, r.Column(j)...)
		}
		rep.Dims[j] = dimStat(j, col, weights)
	}
	return rep
}

func dimStat(j int, x, weights []float64) DimStat {
	ds := DimStat{Dim: j}
	n := len(x)
	if n == 0 {
		return ds
	}
	if n > 1 {
		ds.Mean, ds.Std = stat.MeanStdDev(x, weights)
	} else {
		ds.Mean = x[0]
	}
	ds.MeanCI = meanCI(ds.Mean, ds.Std, n, 0.95)
	ds.Min, ds.Max = x[0], x[0]
	for _, v := range x {
		ds.Min = min(ds.Min, v)
		ds.Max = max(ds.Max, v)
	}
	ds.Median = quantilePoint(x, 0.5)
	ds.MedianCI.Lo, ds.MedianCI.Hi = quantileCI(x, 0.5, 0.95)
	ds.P05 = quantilePoint(x, 0.05)
	ds.P95 = quantilePoint(x, 0.95)
	return ds
}

func (s *SampleReport) WriteWith(w io.Writer, rep SampleReportRender) error {
	return rep.Write(w, s)
}

// StdOut 印出耗時與摘要表
func (s *SampleReport) StdOut(ut time.Duration) {
	formatDuration(ut, s.NSamples)
	k, m := s.fmtBasic()
	fmt.Println(fmtTable(s.Name, k, m))
	for _, ds := range s.Dims {
		k, m := fmtDim(ds)
		fmt.Println(fmtTable(fmt.Sprintf("x[%d]", ds.Dim), k, m))
	}
	if s.Accept != nil {
		k, m := s.Accept.fmtAccept()
		fmt.Println(fmtTable("Acceptance", k, m))
	}
}

// ============================================================
// ** 內部方法 **
// ============================================================

func formatDuration(d time.Duration, samples int) {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	sps := int(float64(samples) / sec)
	if sec < 60.0 {
		p.Printf("used: %.2f seconds\nsps : %d samples/sec\n", sec, sps)
		return
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		p.Printf("used: %dm %ds\nsps : %d samples/sec\n", m, s, sps)
		return
	}
	p.Printf("used: %dh:%dm:%ds\nsps : %d samples/sec\n", h, m, s, sps)
}

func (s *SampleReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	basic := map[string]string{
		"Name":      p.Sprintf("%s", s.Name),
		"Method":    p.Sprintf("%s", s.Method),
		"Chains":    p.Sprintf("%d", s.Chains),
		"Samples":   p.Sprintf("%d", s.NSamples),
		"Dimension": p.Sprintf("%d", s.Dimension),
		"Weighted":  fmt.Sprintf("%t", s.Weighted),
	}
	keys := []string{"Name", "Method", "Chains", "Samples", "Dimension", "Weighted"}
	return keys, basic
}

func fmtDim(ds DimStat) ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	msg := map[string]string{
		"Mean":       p.Sprintf("%.4f", ds.Mean),
		"Mean 95%":   p.Sprintf("[%.4f, %.4f]", ds.MeanCI.Lo, ds.MeanCI.Hi),
		"Std":        p.Sprintf("%.4f", ds.Std),
		"Median":     p.Sprintf("%.4f", ds.Median),
		"Median 95%": p.Sprintf("[%.4f, %.4f]", ds.MedianCI.Lo, ds.MedianCI.Hi),
		"P05 / P95":  p.Sprintf("%.4f / %.4f", ds.P05, ds.P95),
		"Min / Max":  p.Sprintf("%.4f / %.4f", ds.Min, ds.Max),
	}
	keys := []string{"Mean", "Mean 95%", "Std", "Median", "Median 95%", "P05 / P95", "Min / Max"}
	return keys, msg
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := runewidth.StringWidth(title)
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	fmtStr := top
	fmtStr += p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right))
	fmtStr += divider
	for _, k := range keys {
		fmtStr += p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k])))
	}
	fmtStr += divider

	return fmtStr
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
