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

package api

import (
	"log/slog"
	"net/http"

	"github.com/zintix-labs/uqlab"
	v1 "github.com/zintix-labs/uqlab/server/api/v1"
	"github.com/zintix-labs/uqlab/server/netsvr"
	"github.com/zintix-labs/uqlab/server/netsvr/middleware"
	"github.com/zintix-labs/uqlab/server/svrcfg"
)

// route 主頁列出的路由
type route struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Desc   string `json:"desc"`
}

var v1Routes = []route{
	{http.MethodPost, "/v1/mcs", "monte carlo sampling"},
	{http.MethodPost, "/v1/lhs", "latin hypercube sampling"},
	{http.MethodPost, "/v1/sts", "stratified sampling"},
	{http.MethodPost, "/v1/pss", "partially stratified sampling"},
	{http.MethodPost, "/v1/mcmc", "markov chain monte carlo (?chains=N)"},
	{http.MethodPost, "/v1/run", "full run setting (json or yaml)"},
	{http.MethodPost, "/v1/run/{name}", "named run setting from the catalog"},
	{http.MethodGet, "/v1/dists", "registered distributions"},
	{http.MethodGet, "/v1/configs", "named run settings"},
	{http.MethodGet, "/v1/metrics", "runtime metrics"},
}

// RegisterRoutes 註冊
func RegisterRoutes(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg, rt *uqlab.Runtime) error {
	registerMiddleware(svr, sCfg.Log) // 1. 註冊 middleware
	registerIndex(svr)                // 2. 註冊主頁
	return registerV1API(svr, sCfg, rt)
}

// 註冊 middleware
func registerMiddleware(svr netsvr.NetSvr, log *slog.Logger) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(log))
	svr.Use(middleware.Recover)
	svr.Use(middleware.Compression)
}

// 註冊主頁
func registerIndex(svr netsvr.NetSvr) {
	svr.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeIndex(w)
	})
}

// 註冊 v1 api
func registerV1API(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg, rt *uqlab.Runtime) error {
	s, err := v1.NewSampleHandler(rt, sCfg.Timeout, sCfg.Log)
	if err != nil {
		return err
	}
	m := v1.NewMetaHandler(rt)
	svr.Group("/v1", func(vOne netsvr.NetRouter) {
		vOne.Post("/mcs", s.MCS)
		vOne.Post("/lhs", s.LHS)
		vOne.Post("/sts", s.STS)
		vOne.Post("/pss", s.PSS)
		vOne.Post("/mcmc", s.MCMC)
		vOne.Post("/run", s.Run)
		vOne.Post("/run/{name}", s.RunByName)

		vOne.Get("/dists", m.Dists)
		vOne.Get("/configs", m.Configs)
		vOne.Get("/metrics", m.Metrics)
	})
	return nil
}
