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

package uqlab

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/uqlab/errs"
	"github.com/zintix-labs/uqlab/recorder"
	"github.com/zintix-labs/uqlab/sdk/buf"
	"github.com/zintix-labs/uqlab/sdk/core"
	"github.com/zintix-labs/uqlab/sdk/lhs"
	"github.com/zintix-labs/uqlab/sdk/mcmc"
	"github.com/zintix-labs/uqlab/sdk/mcs"
	"github.com/zintix-labs/uqlab/sdk/pss"
	"github.com/zintix-labs/uqlab/sdk/sts"
	"github.com/zintix-labs/uqlab/spec"
	"github.com/zintix-labs/uqlab/stats"
)

// Outcome 一次 Run 的輸出
//
//   - Results: 每條鏈一個；非 MCMC 方法只有一個
//   - Report: 所有結果合併後的摘要（MCMC 含接受率）
type Outcome struct {
	Name    string
	Method  spec.Method
	PRNG    string
	Seed    int64
	Results []*buf.Result
	Report  *stats.SampleReport
	Used    time.Duration
}

// Archive 轉成可存檔的形式
func (o *Outcome) Archive() *stats.Archive {
	return &stats.Archive{
		Name:    o.Name,
		PRNG:    o.PRNG,
		Seed:    o.Seed,
		Results: o.Results,
		Report:  o.Report,
	}
}

// Run 依設定執行取樣。設定必須已經 Init（由 spec / catalog 解析出來的都已完成）。
// 種子未指定時由 crypto/rand 產生並回填到 Outcome.Seed，方便重現。
func (l *Lab) Run(ctx context.Context, rs *spec.RunSetting, showpb bool) (*Outcome, error) {
	if rs == nil {
		return nil, errs.Configf("run setting is nil")
	}
	if err := rs.Init(l.reg); err != nil {
		return nil, err
	}
	f, err := l.factory(rs.PRNG)
	if err != nil {
		return nil, err
	}
	var seed int64
	if rs.Seed != nil {
		seed = *rs.Seed
	} else if seed, err = NewSeed(); err != nil {
		return nil, errs.Wrap(err, "can not create seed")
	}

	out := &Outcome{Name: rs.Name, Method: rs.Method, PRNG: rs.PRNG, Seed: seed}
	if out.PRNG == "" {
		out.PRNG = "pcg64"
	}
	l.log.Debug("run start", "name", rs.Name, "method", rs.Method, "seed", seed)

	start := time.Now()
	var accept *stats.AcceptReport
	if rs.Method == spec.MethodMCMC {
		out.Results, accept, err = l.RunChains(ctx, f, rs.MCMC, seed, rs.Chains, showpb)
	} else {
		var r *buf.Result
		r, err = sample(ctx, core.New(f.New(seed)), rs)
		out.Results = []*buf.Result{r}
	}
	if err != nil {
		l.log.Warn("run failed", "name", rs.Name, "method", rs.Method, "err", err)
		return nil, err
	}
	out.Used = time.Since(start)
	out.Report = stats.Summarize(rs.Name, out.Results...)
	out.Report.Accept = accept

	l.log.Info("run done",
		"name", rs.Name,
		"method", rs.Method,
		"nsamples", out.Report.NSamples,
		"dimension", out.Report.Dimension,
		"used", out.Used,
	)
	return out, nil
}

// RunByName 執行目錄中的具名設定
func (l *Lab) RunByName(ctx context.Context, name string, showpb bool) (*Outcome, error) {
	rs, err := l.Setting(name)
	if err != nil {
		return nil, err
	}
	return l.Run(ctx, rs, showpb)
}

// sample 單次取樣（非 MCMC）
func sample(ctx context.Context, c *core.Core, rs *spec.RunSetting) (*buf.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch rs.Method {
	case spec.MethodMCS:
		return mcs.Sample(c, rs.MCS)
	case spec.MethodLHS:
		return lhs.Sample(c, rs.LHS)
	case spec.MethodSTS:
		return sts.Sample(c, rs.STS)
	case spec.MethodPSS:
		return pss.Sample(c, rs.PSS)
	}
	return nil, errs.Configf("method %q is not a single-pass sampler", rs.Method)
}

// RunChains 平行執行多條獨立鏈，回傳每條鏈的結果與合併後的接受率報表。
//
// 工廠支援 core.StreamFactory 時，第 k 條鏈使用同一個 seed 的第 k 條序列；
// 否則第 0 條鏈直接使用 seed，其餘鏈的種子由 SeedMaker 衍生。
// 兩種情況下第 0 條鏈都與單獨呼叫 mcmc.Run 的結果相同。
// 任何一條鏈失敗會取消其他鏈，回傳第一個錯誤。
func (l *Lab) RunChains(ctx context.Context, f core.PRNGFactory, s *spec.MCMCSetting, seed int64, chains int, showpb bool) ([]*buf.Result, *stats.AcceptReport, error) {
	if chains <= 0 {
		return nil, nil, errs.Configf("chains must > 0")
	}
	if s == nil || s.Joint == nil {
		return nil, nil, errs.Configf("mcmc setting is not initialized")
	}
	if f == nil {
		f = l.cf
	}
	walkers := 0
	if s.Algorithm == spec.Stretch {
		walkers = len(s.Start)
	}

	prngs := make([]core.PRNG, chains)
	if sf, ok := f.(core.StreamFactory); ok {
		for i := range prngs {
			prngs[i] = sf.NewStream(seed, uint64(i))
		}
	} else {
		prngs[0] = f.New(seed)
		sm := NewSeedMaker(seed)
		for i := 1; i < chains; i++ {
			prngs[i] = f.New(sm.Next())
		}
	}
	recs := make([]*recorder.ChainRecorder, chains)
	for i := range recs {
		r, err := recorder.NewChainRecorder(string(s.Algorithm), s.Dimension, walkers)
		if err != nil {
			return nil, nil, err
		}
		recs[i] = r
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]*buf.Result, chains)
	errList := make([]error, chains)
	wg := new(sync.WaitGroup)
	wg.Add(chains)
	bar := pb.StartNew(chains)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	for i := 0; i < chains; i++ {
		go func(i int) {
			defer wg.Done()
			r, err := mcmc.RunContext(ctx, core.New(prngs[i]), s, recs[i])
			if err != nil {
				errList[i] = err
				cancel()
				return
			}
			results[i] = r
			bar.Increment()
		}(i)
	}
	wg.Wait()
	bar.Finish()

	if err := firstErr(errList); err != nil {
		return nil, nil, err
	}
	merged, err := recorder.MergeChainRecorder(recs)
	if err != nil {
		return nil, nil, err
	}
	return results, merged.Done(), nil
}

// firstErr 優先回傳不是 context.Canceled 的錯誤（被取消的鏈不是原因）
func firstErr(list []error) error {
	var canceled error
	for _, err := range list {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) {
			if canceled == nil {
				canceled = err
			}
			continue
		}
		return err
	}
	return canceled
}
