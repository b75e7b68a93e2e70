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

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/zintix-labs/uqlab/demo"
	"github.com/zintix-labs/uqlab/server"
	"github.com/zintix-labs/uqlab/server/logger"
	"github.com/zintix-labs/uqlab/server/svrcfg"
)

// 取樣服務入口：載入 demo 目錄與 demo 分佈。
// 正式部署請在自己的專案中以 uqlab.Lab 組裝 svrcfg.SvrCfg。
func main() {
	cfg, err := loadConfigFromFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	server.Run(cfg)
}

type config struct {
	LogMode string
	Addr    string
	Workers int
	Timeout time.Duration
}

func loadConfigFromFlags() (*svrcfg.SvrCfg, error) {
	cfg := new(config)
	flag.StringVar(&cfg.LogMode, "log-mode", "dev", "log mode: dev|prod|silence")
	flag.StringVar(&cfg.Addr, "addr", svrcfg.DefaultAddr, "listen address")
	flag.IntVar(&cfg.Workers, "workers", 2, "max concurrent sampling runs")
	flag.DurationVar(&cfg.Timeout, "timeout", svrcfg.DefaultTimeout, "per request sampling timeout")
	flag.Parse()

	mode, ok := logger.ModeByName(cfg.LogMode)
	if !ok {
		mode = logger.ModeDev
	}
	log, _ := logger.NewAsync(4096, mode)

	lab, err := demo.NewLab()
	if err != nil {
		return nil, err
	}
	lab.SetLogger(log)
	return &svrcfg.SvrCfg{
		Log:     log,
		Addr:    cfg.Addr,
		Workers: cfg.Workers,
		Timeout: cfg.Timeout,
		Lab:     lab,
	}, nil
}
