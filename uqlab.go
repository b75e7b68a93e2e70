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

// Package uqlab 提供取樣引擎的「組裝入口（assembler）」與「運行入口（runtime entry）」。
//
// Lab 把三個地基組裝在一起：
//  1. Registry：分佈註冊表，內建分佈加上使用者註冊的自訂分佈與聯合密度。
//  2. PRNGFactory：亂數核心工廠，保證同一個種子得到逐位元相同的結果。
//  3. Catalog（可選）：以 fs.FS 注入的具名取樣設定。
//
// Lab 本身不綁定任何「檔案路徑」概念：設定檔來源一律以 fs.FS 的形式注入。
// 每次 Run 都建立自己的 Core，Lab 可被多個 goroutine 共用。
package uqlab

import (
	"io/fs"
	"log/slog"

	"github.com/zintix-labs/uqlab/catalog"
	"github.com/zintix-labs/uqlab/errs"
	"github.com/zintix-labs/uqlab/sdk/core"
	"github.com/zintix-labs/uqlab/sdk/dist"
	"github.com/zintix-labs/uqlab/spec"
)

// Configs 用來把一或多個設定檔來源（fs.FS）打包成 New() 需要的參數。
func Configs(cfgs ...fs.FS) []fs.FS {
	return cfgs
}

// Lab 組裝器
type Lab struct {
	cf  core.PRNGFactory
	reg *dist.Registry
	cat *catalog.Catalog
	log *slog.Logger
}

// New 建立一個 Lab。
//
//   - cf 不能為 nil；設定檔的 prng 欄位留空時使用它
//   - reg 為 nil 時只有內建分佈
//   - cfgs 可為空；給定時會掃描全部 yaml/json 並凍結目錄，任何一個檔案解析失敗就回傳錯誤
func New(cf core.PRNGFactory, reg *dist.Registry, cfgs []fs.FS) (*Lab, error) {
	if cf == nil {
		return nil, errs.NewFatal("prng factory required")
	}
	if reg == nil {
		reg = dist.NewRegistry()
	}
	lab := &Lab{
		cf:  cf,
		reg: reg,
		log: slog.New(slog.DiscardHandler),
	}
	if len(cfgs) > 0 {
		cat, err := catalog.New(cfgs...)
		if err != nil {
			return nil, err
		}
		if err := cat.RegisterAll(reg); err != nil {
			return nil, err
		}
		cat.Freeze()
		lab.cat = cat
	}
	return lab, nil
}

// SetLogger nil 代表不輸出
func (l *Lab) SetLogger(lg *slog.Logger) {
	if lg == nil {
		lg = slog.New(slog.DiscardHandler)
	}
	l.log = lg
}

func (l *Lab) Registry() *dist.Registry {
	return l.reg
}

// Names 目錄中的具名設定；沒有目錄時為 nil
func (l *Lab) Names() []string {
	if l.cat == nil {
		return nil
	}
	return l.cat.Names()
}

// Summaries 列出目錄中每個設定的名稱與方法
func (l *Lab) Summaries() ([]catalog.Summary, error) {
	if l.cat == nil {
		return nil, nil
	}
	return l.cat.Summaries(l.reg)
}

// Setting 以名稱取出一份新的、已初始化的設定
func (l *Lab) Setting(name string) (*spec.RunSetting, error) {
	if l.cat == nil {
		return nil, errs.Configf("no configs loaded")
	}
	return l.cat.RunSettingByName(name, l.reg)
}

// Parse 依副檔名解析設定內容並以 Lab 的註冊表初始化
func (l *Lab) Parse(filename string, raw []byte) (*spec.RunSetting, error) {
	return catalog.ParseRunSettingByExt(filename, raw, l.reg)
}

// factory 設定檔指定的 PRNG，留空時用 Lab 的預設
func (l *Lab) factory(name string) (core.PRNGFactory, error) {
	if name == "" {
		return l.cf, nil
	}
	f, ok := core.FactoryByName(name)
	if !ok {
		return nil, errs.Configf("unknown prng %q", name)
	}
	return f, nil
}
