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

package server

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/zintix-labs/uqlab/errs"
	"github.com/zintix-labs/uqlab/server/api"
	"github.com/zintix-labs/uqlab/server/app"
	"github.com/zintix-labs/uqlab/server/logger"
	"github.com/zintix-labs/uqlab/server/netsvr"
	"github.com/zintix-labs/uqlab/server/svrcfg"
)

// Run 是 server 套件的組裝器與啟動入口：
//  1. 驗證 SvrCfg（包含 logger 與 Lab）
//  2. 以 Workers 建立取樣 Runtime
//  3. 建立 HTTP server 並註冊路由
//  4. 啟動 app.Run()，停止時關閉 Runtime 並寫完非同步 log
//
// Run 不綁定任何檔案路徑或環境變數，所有依賴都透過 SvrCfg 注入。
func Run(sCfg *svrcfg.SvrCfg) {
	if err := sCfg.Vaild(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	RunWithSvr(sCfg, netsvr.NewChiServer(sCfg.Addr, sCfg.Timeout))
}

// RunWithSvr 與 Run 相同，但允許注入自訂的 NetSvr（例如另外包裝 listener / TLS）。
//
// svr 必須非 nil；若是 ChiAdapter 會要求 Ready() 為 true。
func RunWithSvr(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) {
	if err := sCfg.Vaild(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	if svr == nil {
		sCfg.Log.Error(errs.NewFatal("svr is required").Error())
		return
	}
	if s, ok := svr.(*netsvr.ChiAdapter); ok && !s.Ready() {
		sCfg.Log.Error(errs.NewFatal("default server is not ready").Error())
		return
	}

	rt := sCfg.Lab.NewRuntime(sCfg.Workers)
	if err := api.RegisterRoutes(svr, sCfg, rt); err != nil {
		sCfg.Log.Error("register routes failed", slog.Any("err", err))
		return
	}

	a := app.NewWith(svr)
	a.OnStop(func() {
		if ah, ok := sCfg.Log.Handler().(*logger.AsyncHandler); ok {
			ah.Close()
		}
	})
	a.OnStop(func() { rt.Close() })

	addr := ""
	if s, ok := svr.(*netsvr.ChiAdapter); ok {
		addr = s.Address()
	}
	sCfg.Log.Info("[uqlab] listening", slog.String("addr", addr), slog.Int("workers", sCfg.Workers))
	if err := a.Run(); err != nil {
		sCfg.Log.Error("app stopped:", slog.Any("err", err))
	}
}
