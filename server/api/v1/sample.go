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

package v1

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/zintix-labs/uqlab"
	"github.com/zintix-labs/uqlab/errs"
	"github.com/zintix-labs/uqlab/sdk/buf"
	"github.com/zintix-labs/uqlab/server/httperr"
	"github.com/zintix-labs/uqlab/spec"
	"github.com/zintix-labs/uqlab/stats"
)

// maxSettingBody 完整設定檔的 body 上限（1MiB）
const maxSettingBody = 1 << 20

// SampleHandler 取樣相關的 HTTP handler，所有取樣都經過 Runtime 限流
type SampleHandler struct {
	rt      *uqlab.Runtime
	timeout time.Duration
	log     *slog.Logger
}

func NewSampleHandler(rt *uqlab.Runtime, timeout time.Duration, log *slog.Logger) (*SampleHandler, error) {
	if rt == nil {
		return nil, errs.NewFatal("runtime is required")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &SampleHandler{rt: rt, timeout: timeout, log: log}, nil
}

// sampleResponse ?summary=1 時省略 results
type sampleResponse struct {
	Name    string              `json:"name"`
	Method  spec.Method         `json:"method"`
	Seed    int64               `json:"seed"`
	PRNG    string              `json:"prng"`
	Results []*buf.Result       `json:"results,omitempty"`
	Report  *stats.SampleReport `json:"report"`
	UsedMs  int64               `json:"used_ms"`
}

func (h *SampleHandler) MCS(w http.ResponseWriter, r *http.Request) {
	handle(h, w, r, func(s *spec.MCSSetting) *spec.RunSetting {
		return &spec.RunSetting{Name: "mcs", Method: spec.MethodMCS, MCS: s}
	})
}

func (h *SampleHandler) LHS(w http.ResponseWriter, r *http.Request) {
	handle(h, w, r, func(s *spec.LHSSetting) *spec.RunSetting {
		return &spec.RunSetting{Name: "lhs", Method: spec.MethodLHS, LHS: s}
	})
}

func (h *SampleHandler) STS(w http.ResponseWriter, r *http.Request) {
	handle(h, w, r, func(s *spec.STSSetting) *spec.RunSetting {
		// 伺服器端不讀本機檔案
		s.InputFile = ""
		return &spec.RunSetting{Name: "sts", Method: spec.MethodSTS, STS: s}
	})
}

func (h *SampleHandler) PSS(w http.ResponseWriter, r *http.Request) {
	handle(h, w, r, func(s *spec.PSSSetting) *spec.RunSetting {
		return &spec.RunSetting{Name: "pss", Method: spec.MethodPSS, PSS: s}
	})
}

// MCMC ?chains=N 指定獨立鏈數
func (h *SampleHandler) MCMC(w http.ResponseWriter, r *http.Request) {
	chains := 1
	if c := r.URL.Query().Get("chains"); c != "" {
		n, err := strconv.Atoi(c)
		if err != nil {
			httperr.Errs(w, errs.Configf("chains must be integer"))
			return
		}
		chains = n
	}
	handle(h, w, r, func(s *spec.MCMCSetting) *spec.RunSetting {
		return &spec.RunSetting{Name: "mcmc", Method: spec.MethodMCMC, Chains: chains, MCMC: s}
	})
}

// Run 接受完整的設定檔，Content-Type 為 yaml 時以 YAML 解析，其餘一律 JSON
func (h *SampleHandler) Run(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxSettingBody))
	if err != nil {
		httperr.Errs(w, errs.Configf("can not read body: %v", err))
		return
	}
	filename := "request.json"
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "application/yaml" || mt == "application/x-yaml" || mt == "text/yaml" {
		filename = "request.yaml"
	}
	rs, err := h.rt.Lab().Parse(filename, raw)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	if err := overrideSeed(r, rs); err != nil {
		httperr.Errs(w, err)
		return
	}
	h.run(w, r, rs)
}

// RunByName 執行目錄中的具名設定，?seed= 可覆蓋設定檔的種子
func (h *SampleHandler) RunByName(w http.ResponseWriter, r *http.Request) {
	rs, err := h.rt.Lab().Setting(chi.URLParam(r, "name"))
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	if err := overrideSeed(r, rs); err != nil {
		httperr.Errs(w, err)
		return
	}
	h.run(w, r, rs)
}

// handle 各方法共用：解碼 SampleRequest[T]、組成 RunSetting 後執行
func handle[T any](h *SampleHandler, w http.ResponseWriter, r *http.Request, build func(*T) *spec.RunSetting) {
	req, err := buf.DecodeSampleRequest[T](r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	rs := build(&req.Setting)
	rs.Seed = req.Seed
	rs.PRNG = req.PRNG
	if err := rs.Init(h.rt.Lab().Registry()); err != nil {
		httperr.Errs(w, err)
		return
	}
	h.run(w, r, rs)
}

func (h *SampleHandler) run(w http.ResponseWriter, r *http.Request, rs *spec.RunSetting) {
	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	out, err := h.rt.Run(ctx, rs)
	if err != nil {
		httperr.Log(h.log, "sample failed", err)
		httperr.Errs(w, err)
		return
	}

	resp := sampleResponse{
		Name:    out.Name,
		Method:  out.Method,
		Seed:    out.Seed,
		PRNG:    out.PRNG,
		Results: out.Results,
		Report:  out.Report,
		UsedMs:  out.Used.Milliseconds(),
	}
	if summaryOnly(r) {
		resp.Results = nil
	}
	writeJSON(w, resp)
}

func overrideSeed(r *http.Request, rs *spec.RunSetting) error {
	s := r.URL.Query().Get("seed")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return errs.Configf("invalid seed: %v", err)
	}
	rs.Seed = &v
	return nil
}

func summaryOnly(r *http.Request) bool {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("summary"))
	return ok
}
