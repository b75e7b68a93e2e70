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

// Package mcmc 馬可夫鏈蒙地卡羅取樣：MH、逐分量的 MMH 與 affine-invariant ensemble（Stretch）。
//
// 設定必須先經過 spec.MCMCSetting.Init；每次呼叫擁有自己的鏈，亂數只來自注入的 *core.Core。
// 接受率出現 NaN / Inf（例如目前狀態密度為 0）時整次呼叫以數值錯誤中止，不回傳部分結果。
package mcmc

import (
	"context"
	"math"

	"github.com/zintix-labs/uqlab/errs"
	"github.com/zintix-labs/uqlab/sdk/buf"
	"github.com/zintix-labs/uqlab/sdk/core"
	"github.com/zintix-labs/uqlab/spec"
)

// Move 一次接受/拒絕的決策
//
//   - Step: 轉移序號，從 0 起算（第 Step 步產生原始鏈的第 Step+1 列）
//   - Dim: MMH 正在更新的分量；整個向量一起提議時為 -1
//   - Walker: Stretch 被更新的 walker（ring slot）；其他演算法為 0
//   - Candidate: 提議點（完整向量），只在 Observe 期間有效
type Move struct {
	Step      int
	Dim       int
	Walker    int
	Candidate []float64
	Accepted  bool
}

// Observer 接收每一個接受/拒絕決策，可為 nil
type Observer interface {
	Observe(m Move)
}

// ctxCheckEvery 每隔多少步檢查一次 context
const ctxCheckEvery = 1024

// Run 執行取樣並回傳 nsamples x dimension 的樣本
func Run(c *core.Core, s *spec.MCMCSetting, obs Observer) (*buf.Result, error) {
	return RunContext(context.Background(), c, s, obs)
}

// RunContext 與 Run 相同，context 取消時中止並回傳 ctx.Err()
func RunContext(ctx context.Context, c *core.Core, s *spec.MCMCSetting, obs Observer) (*buf.Result, error) {
	if s == nil || s.Joint == nil || len(s.Start) == 0 {
		return nil, errs.Configf("mcmc: setting is not initialized")
	}
	var (
		out [][]float64
		err error
	)
	switch s.Algorithm {
	case spec.MH, spec.MMH:
		var raw [][]float64
		raw, err = RawChain(ctx, c, s, obs)
		if err == nil {
			out = thin(raw, s.NBurn, s.Jump, s.NSamples)
		}
	case spec.Stretch:
		out, err = runStretch(ctx, c, s, obs)
	default:
		return nil, errs.Configf("mcmc: unknown algorithm %q", s.Algorithm)
	}
	if err != nil {
		return nil, err
	}
	return &buf.Result{Method: string(spec.MethodMCMC) + "/" + string(s.Algorithm), Samples: out}, nil
}

// RawChain 回傳 MH / MMH 的完整原始鏈（長度 nsamples*jump + nburn，第 0 列為 seed）
func RawChain(ctx context.Context, c *core.Core, s *spec.MCMCSetting, obs Observer) ([][]float64, error) {
	switch s.Algorithm {
	case spec.MH:
		return runMH(ctx, c, s, obs)
	case spec.MMH:
		return runMMH(ctx, c, s, obs)
	}
	return nil, errs.Configf("mcmc: %s has no single raw chain", s.Algorithm)
}

// thin 取 raw[nburn : nsamples*jump+nburn : jump]，並複製成獨立的輸出
func thin(raw [][]float64, nburn, jump, n int) [][]float64 {
	d := len(raw[0])
	out := buf.NewMatrix(n, d)
	for i := range out {
		copy(out[i], raw[nburn+i*jump])
	}
	return out
}

// accept 每步都抽一個 U 並以 U < ratio 決定（ratio >= 1 也會消耗這次抽樣）；非有限值為數值錯誤
func accept(c *core.Core, ratio float64, step int) (bool, error) {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return false, errs.Numericalf("mcmc: acceptance ratio is %v at step %d", ratio, step)
	}
	return c.Float64() < ratio, nil
}

func checkCtx(ctx context.Context, step int) error {
	if step%ctxCheckEvery == 0 {
		return ctx.Err()
	}
	return nil
}
