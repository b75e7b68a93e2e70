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

// Package demo 組裝內建示範：demo_configs 的具名設定加上 demo_dists 的自訂分佈。
package demo

import (
	"github.com/zintix-labs/uqlab"
	"github.com/zintix-labs/uqlab/catalog"
	"github.com/zintix-labs/uqlab/demo/demo_configs"
	"github.com/zintix-labs/uqlab/demo/demo_dists"
	"github.com/zintix-labs/uqlab/errs"
	"github.com/zintix-labs/uqlab/sdk/core"
	"github.com/zintix-labs/uqlab/server/logger"
	"github.com/zintix-labs/uqlab/server/svrcfg"
)

func New() (*catalog.Catalog, error) {
	return catalog.New(demo_configs.FS)
}

func NewLab() (*uqlab.Lab, error) {
	return uqlab.New(core.Default(), demo_dists.Dists, uqlab.Configs(demo_configs.FS))
}

func NewServerConfig() (*svrcfg.SvrCfg, error) {
	lab, err := NewLab()
	if err != nil {
		return nil, errs.NewFatal("new lab failed:" + err.Error())
	}
	log := logger.NewDefaultAsyncLogger(logger.ModeDev)
	lab.SetLogger(log)
	return &svrcfg.SvrCfg{
		Log:     log,
		Workers: 1,
		Lab:     lab,
	}, nil
}
