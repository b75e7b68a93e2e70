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

// Package demo_dists 示範如何擴充分佈註冊表：一個自訂一維分佈與一個聯合密度。
package demo_dists

import (
	"log"
	"math"

	"github.com/zintix-labs/uqlab/sdk/dist"
)

// Dists 已註冊 demo 分佈的註冊表，可直接交給 uqlab.New
var Dists = dist.NewRegistry()

// ============================================================
// ** 註冊 **
// ============================================================

func init() {
	if err := Register(Dists); err != nil {
		log.Fatalf("demo dists register failed: %v", err)
	}
}

// Register 把 demo 分佈註冊到 reg
func Register(reg *dist.Registry) error {
	if err := reg.Register("Triangular", dist.Funcs{
		Pdf:    triangularPdf,
		Cdf:    triangularCdf,
		InvCdf: triangularInvCdf,
	}); err != nil {
		return err
	}
	return reg.RegisterJoint("Rosenbrock", rosenbrock)
}

// ============================================================
// ** 三角分佈 **
// ============================================================

// 參數 [a, c, b]：下界、眾數、上界，需 a <= c <= b 且 a < b
func triangle(p []float64) (a, c, b float64, ok bool) {
	if len(p) != 3 {
		return 0, 0, 0, false
	}
	a, c, b = p[0], p[1], p[2]
	return a, c, b, a < b && a <= c && c <= b
}

func triangularPdf(x float64, p []float64) float64 {
	a, c, b, ok := triangle(p)
	if !ok {
		return math.NaN()
	}
	switch {
	case x < a || x > b:
		return 0
	case x < c:
		return 2 * (x - a) / ((b - a) * (c - a))
	case x == c:
		return 2 / (b - a)
	default:
		return 2 * (b - x) / ((b - a) * (b - c))
	}
}

func triangularCdf(x float64, p []float64) float64 {
	a, c, b, ok := triangle(p)
	if !ok {
		return math.NaN()
	}
	switch {
	case x <= a:
		return 0
	case x >= b:
		return 1
	case x <= c:
		return (x - a) * (x - a) / ((b - a) * (c - a))
	default:
		return 1 - (b-x)*(b-x)/((b-a)*(b-c))
	}
}

func triangularInvCdf(u float64, p []float64) float64 {
	a, c, b, ok := triangle(p)
	if !ok || u < 0 || u > 1 {
		return math.NaN()
	}
	fc := (c - a) / (b - a)
	if u < fc {
		return a + math.Sqrt(u*(b-a)*(c-a))
	}
	return b - math.Sqrt((1-u)*(b-a)*(b-c))
}

// ============================================================
// ** 聯合密度 **
// ============================================================

// rosenbrock 二維香蕉形密度 exp(-(100(x2-x1^2)^2 + (1-x1)^2) / t)，t 預設 20
func rosenbrock(x, p []float64) float64 {
	if len(x) != 2 {
		return math.NaN()
	}
	t := 20.0
	if len(p) > 0 && p[0] > 0 {
		t = p[0]
	}
	d := x[1] - x[0]*x[0]
	return math.Exp(-(100*d*d + (1-x[0])*(1-x[0])) / t)
}
