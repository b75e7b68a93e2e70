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

// Package dist 是取樣器使用的分佈註冊表。
//
// 內建分佈為封閉列舉（Kind），以 gonum stat/distuv 計算 pdf / cdf / 反函數，
// 參數採 loc / scale 慣例；使用者可另外註冊自訂的一維分佈或多維聯合密度。
package dist

import (
	"math"

	"github.com/zintix-labs/uqlab/errs"
	"gonum.org/v1/gonum/stat/distuv"
)

// Kind 分佈種類
type Kind uint8

const (
	Uniform Kind = iota
	Normal
	Lognormal
	Weibull
	Beta
	Exponential
	Gamma
	Custom
)

var kindName = map[Kind]string{
	Uniform:     "Uniform",
	Normal:      "Normal",
	Lognormal:   "Lognormal",
	Weibull:     "Weibull",
	Beta:        "Beta",
	Exponential: "Exponential",
	Gamma:       "Gamma",
	Custom:      "Custom",
}

var nameKind = map[string]Kind{
	"Uniform":     Uniform,
	"Normal":      Normal,
	"Lognormal":   Lognormal,
	"Weibull":     Weibull,
	"Beta":        Beta,
	"Exponential": Exponential,
	"Gamma":       Gamma,
}

func (k Kind) String() string {
	if s, ok := kindName[k]; ok {
		return s
	}
	return "Unknown"
}

// KindByName 僅查內建分佈
func KindByName(name string) (Kind, bool) {
	k, ok := nameKind[name]
	return k, ok
}

// arity 內建分佈的參數個數 [min,max]
var arity = map[Kind][2]int{
	Uniform:     {2, 2}, // loc, scale
	Normal:      {2, 2}, // mean, std
	Lognormal:   {2, 3}, // s, loc[, scale]
	Weibull:     {2, 3}, // c, loc[, scale]
	Beta:        {4, 4}, // a, b, loc, scale
	Exponential: {2, 2}, // loc, scale
	Gamma:       {3, 3}, // a, loc, scale
}

// Univariate 已綁定參數的一維分佈
type Univariate interface {
	Pdf(x float64) float64
	Cdf(x float64) float64
	InvCdf(u float64) float64
}

// standard 為 gonum distuv 中同時提供 Prob / CDF / Quantile 的分佈
type standard interface {
	Prob(float64) float64
	CDF(float64) float64
	Quantile(float64) float64
}

// affine 對標準分佈套用 loc / scale：X = loc + scale*Z
type affine struct {
	base  standard
	loc   float64
	scale float64
}

func (a affine) Pdf(x float64) float64 {
	return a.base.Prob((x-a.loc)/a.scale) / a.scale
}

func (a affine) Cdf(x float64) float64 {
	return a.base.CDF((x - a.loc) / a.scale)
}

func (a affine) InvCdf(u float64) float64 {
	if !(u >= 0 && u <= 1) {
		return math.NaN()
	}
	return a.loc + a.scale*a.base.Quantile(u)
}

// bindBuiltin 驗證參數並建立內建分佈
func bindBuiltin(k Kind, p []float64) (Univariate, error) {
	ar, ok := arity[k]
	if !ok {
		return nil, errs.Configf("unsupported distribution %s", k)
	}
	if len(p) < ar[0] || len(p) > ar[1] {
		if ar[0] == ar[1] {
			return nil, errs.Configf("%s needs %d parameters, got %d", k, ar[0], len(p))
		}
		return nil, errs.Configf("%s needs %d to %d parameters, got %d", k, ar[0], ar[1], len(p))
	}
	for _, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errs.Configf("%s parameters must be finite: %v", k, p)
		}
	}
	opt := func(i int, def float64) float64 {
		if i < len(p) {
			return p[i]
		}
		return def
	}

	var (
		base  standard
		loc   float64
		scale float64
		shape []float64
	)
	switch k {
	case Uniform:
		base, loc, scale = distuv.Uniform{Min: 0, Max: 1}, p[0], p[1]
	case Normal:
		base, loc, scale = distuv.UnitNormal, p[0], p[1]
	case Lognormal:
		shape = p[:1]
		base, loc, scale = distuv.LogNormal{Mu: 0, Sigma: p[0]}, p[1], opt(2, 1)
	case Weibull:
		shape = p[:1]
		base, loc, scale = distuv.Weibull{K: p[0], Lambda: 1}, p[1], opt(2, 1)
	case Beta:
		shape = p[:2]
		base, loc, scale = distuv.Beta{Alpha: p[0], Beta: p[1]}, p[2], p[3]
	case Exponential:
		base, loc, scale = distuv.Exponential{Rate: 1}, p[0], p[1]
	case Gamma:
		shape = p[:1]
		base, loc, scale = distuv.Gamma{Alpha: p[0], Beta: 1}, p[1], p[2]
	}
	if scale <= 0 {
		return nil, errs.Configf("%s scale must be positive, got %v", k, scale)
	}
	for _, s := range shape {
		if s <= 0 {
			return nil, errs.Configf("%s shape parameters must be positive: %v", k, p)
		}
	}
	return affine{base: base, loc: loc, scale: scale}, nil
}

// Funcs 使用者自訂的一維分佈，參數由呼叫端原樣傳入。
// InvCdf 為 nil 時無法用於 MCS / LHS / STS / PSS，只能作為 MCMC 的 marginal target。
type Funcs struct {
	Pdf    func(x float64, p []float64) float64
	Cdf    func(x float64, p []float64) float64
	InvCdf func(u float64, p []float64) float64
}

type custom struct {
	f Funcs
	p []float64
}

func (c custom) Pdf(x float64) float64 { return c.f.Pdf(x, c.p) }

func (c custom) Cdf(x float64) float64 {
	if c.f.Cdf == nil {
		return math.NaN()
	}
	return c.f.Cdf(x, c.p)
}

func (c custom) InvCdf(u float64) float64 {
	if c.f.InvCdf == nil {
		return math.NaN()
	}
	return c.f.InvCdf(u, c.p)
}

// Distribution 已解析的分佈（內建或自訂），尚未綁定參數
type Distribution struct {
	Name string
	Kind Kind
	fn   Funcs
}

// Bind 驗證參數並回傳可重複使用的一維分佈
func (d Distribution) Bind(p []float64) (Univariate, error) {
	if d.Kind != Custom {
		return bindBuiltin(d.Kind, p)
	}
	return custom{f: d.fn, p: append([]float64(nil), p...)}, nil
}

// HasInvCdf 自訂分佈可能缺少反函數
func (d Distribution) HasInvCdf() bool {
	return d.Kind != Custom || d.fn.InvCdf != nil
}

func (d Distribution) Pdf(x float64, p []float64) float64 {
	u, err := d.Bind(p)
	if err != nil {
		return math.NaN()
	}
	return u.Pdf(x)
}

func (d Distribution) Cdf(x float64, p []float64) float64 {
	u, err := d.Bind(p)
	if err != nil {
		return math.NaN()
	}
	return u.Cdf(x)
}

func (d Distribution) InvCdf(x float64, p []float64) float64 {
	u, err := d.Bind(p)
	if err != nil {
		return math.NaN()
	}
	return u.InvCdf(x)
}
