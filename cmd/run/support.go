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
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/zintix-labs/uqlab"
	"github.com/zintix-labs/uqlab/demo"
	"github.com/zintix-labs/uqlab/errs"
	"github.com/zintix-labs/uqlab/sdk/perf"
	"github.com/zintix-labs/uqlab/server/logger"
	"github.com/zintix-labs/uqlab/spec"
	"github.com/zintix-labs/uqlab/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type config struct {
	cfgPath string
	name    string
	seed    int64
	prng    string
	chains  int
	out     string
	format  string
	logMode logger.LogMode
	pprof   perf.Mode
	showpb  bool
}

func bindVar() (*config, error) {
	cfg := new(config)
	var logName, pprofName string
	// 綁定 Flag 到本地變數的指標 (&)
	flag.StringVar(&cfg.cfgPath, "cfg", "", "run setting file (.yaml/.yml/.json)")
	flag.StringVar(&cfg.name, "name", "mcs_normal", "named run setting from the demo catalog (ignored when -cfg is set)")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 seed; negative keeps the setting's seed")
	flag.StringVar(&cfg.prng, "prng", "", "override prng: pcg64|pcg32")
	flag.IntVar(&cfg.chains, "chains", 0, "override number of mcmc chains")
	flag.StringVar(&cfg.out, "out", "", "directory to save the .json.zst archive")
	flag.StringVar(&cfg.format, "format", "table", "report format: table|json|yaml")
	flag.StringVar(&logName, "log", "silence", "log mode: dev|prod|silence")
	flag.StringVar(&pprofName, "p", "", "pprof: '', cpu, heap, allocs")
	flag.BoolVar(&cfg.showpb, "pb", true, "show progress bar for mcmc chains")
	flag.Parse()

	mode, ok := logger.ModeByName(logName)
	if !ok {
		return nil, errs.Configf("unknown log mode %q", logName)
	}
	cfg.logMode = mode
	pm, err := perf.ParseMode(pprofName)
	if err != nil {
		return nil, err
	}
	cfg.pprof = pm
	cfg.format = strings.ToLower(cfg.format)
	if cfg.format != "table" {
		if _, ok := stats.RenderByFormat(cfg.format); !ok {
			return nil, errs.Configf("unknown format %q", cfg.format)
		}
	}
	if cfg.chains < 0 {
		return nil, errs.Configf("chains must be >= 0")
	}
	return cfg, nil
}

// loadSetting 從檔案或 demo 目錄取得設定，再套用命令列覆蓋值
func (cfg *config) loadSetting(lab *uqlab.Lab) (*spec.RunSetting, error) {
	var rs *spec.RunSetting
	if cfg.cfgPath != "" {
		raw, err := os.ReadFile(cfg.cfgPath)
		if err != nil {
			return nil, errs.Wrap(err, "can not read "+cfg.cfgPath)
		}
		if rs, err = lab.Parse(filepath.Base(cfg.cfgPath), raw); err != nil {
			return nil, err
		}
		if rs.Name == "" {
			rs.Name = strings.TrimSuffix(filepath.Base(cfg.cfgPath), filepath.Ext(cfg.cfgPath))
		}
	} else {
		var err error
		if rs, err = lab.Setting(cfg.name); err != nil {
			return nil, err
		}
	}
	if cfg.seed >= 0 {
		s := cfg.seed
		rs.Seed = &s
	}
	if cfg.prng != "" {
		rs.PRNG = cfg.prng
	}
	if cfg.chains > 0 {
		rs.Chains = cfg.chains
	}
	return rs, nil
}

// 這裡組裝 Lab 並執行取樣
func execute(ctx context.Context, cfg *config) error {
	lab, err := demo.NewLab()
	if err != nil {
		return err
	}
	lab.SetLogger(logger.NewDefaultLogger(cfg.logMode))

	rs, err := cfg.loadSetting(lab)
	if err != nil {
		return err
	}

	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)
	if cfg.format == "table" {
		p.Printf("%s[RUN:%s] [METHOD:%s] [CHAINS:%d]%s\n", green, rs.Name, rs.Method, max(1, rs.Chains), reset)
	}

	var out *uqlab.Outcome
	path, err := perf.Run(perf.DefaultDir, cfg.pprof, func() error {
		var err error
		out, err = lab.Run(ctx, rs, cfg.showpb && cfg.format == "table")
		return err
	})
	if err != nil {
		return err
	}

	if cfg.format == "table" {
		p.Printf("seed: %d (%s)\n", out.Seed, out.PRNG)
		out.Report.StdOut(out.Used)
	} else {
		r, _ := stats.RenderByFormat(cfg.format)
		if err := out.Report.WriteWith(os.Stdout, r); err != nil {
			return err
		}
	}
	if path != "" {
		p.Fprintf(os.Stderr, "pprof: %s\n", path)
	}
	if cfg.out != "" {
		saved, err := stats.SaveArchive(cfg.out, out.Archive())
		if err != nil {
			return err
		}
		p.Fprintf(os.Stderr, "archive: %s\n", saved)
	}
	return nil
}
