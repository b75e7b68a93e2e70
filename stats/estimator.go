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
	"math"
	"sort"

	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat/distuv"
)

// ============================================================
// ** 結構宣告 **
// ============================================================

// RateStat 接受率點估計與 Clopper-Pearson 95% 區間
type RateStat struct {
	Proposed int     `json:"Proposed" yaml:"Proposed"`
	Accepted int     `json:"Accepted" yaml:"Accepted"`
	Rate     float64 `json:"Rate"     yaml:"Rate"`
	CI       CI      `json:"CI"       yaml:"CI"`
}

// AcceptReport MCMC 接受率報告
//
// PerDim 只有 MMH 會填；PerWalker 只有 Stretch 會填。
type AcceptReport struct {
	Algorithm string     `json:"Algorithm"           yaml:"Algorithm"`
	Overall   RateStat   `json:"Overall"             yaml:"Overall"`
	PerDim    []RateStat `json:"PerDim,omitempty"    yaml:"PerDim,omitempty"`
	PerWalker []RateStat `json:"PerWalker,omitempty" yaml:"PerWalker,omitempty"`
}

// NewRateStat 以接受/提議次數建立 RateStat
func NewRateStat(accepted, proposed int) RateStat {
	hat, ci := proportionCICP(accepted, proposed, 0.95)
	return RateStat{Proposed: proposed, Accepted: accepted, Rate: hat, CI: ci}
}

// ============================================================
// ** 內部統計函數 **
// ============================================================

// Clopper–Pearson exact CI for binomial proportion (k successes out of n)
func proportionCICP(k int, n int, confidence float64) (pHat float64, ci CI) {
	if n == 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)

	// Beta PPF 映射，處理邊界
	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return
}

// 平均數的 t 區間，n < 2 時退化成點
func meanCI(mean, std float64, n int, confidence float64) CI {
	if n < 2 || std == 0 {
		return CI{Lo: mean, Hi: mean}
	}
	alpha := 1 - confidence
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}.Quantile(1 - alpha/2)
	half := t * std / math.Sqrt(float64(n))
	return CI{Lo: mean - half, Hi: mean + half}
}

// 想估「第 q 分位」的上下界。做法：把 order statistic 的秩視為二項→Beta 反推 p 範圍，再把 p 轉回樣本索引。
// 回傳 (loValue, hiValue)
func quantileCI(data []float64, q, confidence float64) (float64, float64) {
	n := len(data)
	if n == 0 {
		return 0, 0
	}
	cp := make([]float64, n)
	copy(cp, data)
	sort.Float64s(cp)
	if n == 1 {
		return cp[0], cp[0]
	}

	alpha := 1 - confidence
	k := int(q * float64(n))
	if k < 1 {
		k = 1
	} else if k > n-1 {
		k = n - 1
	}

	// 以 CP 思想反推 p 範圍
	bLo := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
	bHi := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
	pLo := bLo.Quantile(alpha / 2)
	pHi := bHi.Quantile(1 - alpha/2)

	li := int(pLo * float64(n))
	ui := int(pHi * float64(n))
	if ui > 0 {
		ui -= 1
	}
	li = min(max(li, 0), n-1)
	ui = min(max(ui, 0), n-1)
	return cp[li], cp[ui]
}

// quantilePoint returns the empirical quantile point estimate at q.
func quantilePoint(data []float64, q float64) float64 {
	n := len(data)
	if n == 0 {
		return 0
	}
	cp := make([]float64, n)
	copy(cp, data)
	sort.Float64s(cp)
	// 最近秩法
	idx := int(q * float64(n))
	idx = min(max(idx, 0), n-1)
	return cp[idx]
}

// ============================================================
// ** 輸出函數 **
// ============================================================

// StdOut 單獨印出接受率表
func (a *AcceptReport) StdOut() {
	k, m := a.fmtAccept()
	fmt.Println(fmtTable("Acceptance", k, m))
}

func (a *AcceptReport) fmtAccept() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	keys := []string{"Algorithm", "Overall"}
	msg := map[string]string{
		"Algorithm": a.Algorithm,
		"Overall":   fmtRate(p, a.Overall),
	}
	for i, r := range a.PerDim {
		k := p.Sprintf("dim %d", i)
		keys = append(keys, k)
		msg[k] = fmtRate(p, r)
	}
	for i, r := range a.PerWalker {
		k := p.Sprintf("walker %d", i)
		keys = append(keys, k)
		msg[k] = fmtRate(p, r)
	}
	return keys, msg
}

func fmtRate(p *message.Printer, r RateStat) string {
	return p.Sprintf("%.2f%% [%.2f%%, %.2f%%] (%d/%d)", r.Rate*100, r.CI.Lo*100, r.CI.Hi*100, r.Accepted, r.Proposed)
}
