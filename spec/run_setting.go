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

package spec

import (
	"bytes"
	"encoding/json"

	"github.com/zintix-labs/uqlab/errs"
	"github.com/zintix-labs/uqlab/sdk/core"
	"github.com/zintix-labs/uqlab/sdk/dist"
	"gopkg.in/yaml.v3"
)

// Method 取樣方法
type Method string

const (
	MethodMCS  Method = "mcs"
	MethodLHS  Method = "lhs"
	MethodSTS  Method = "sts"
	MethodPSS  Method = "pss"
	MethodMCMC Method = "mcmc"
)

// RunSetting 一次取樣工作的完整設定檔。
//
// Fields:
//   - Method: 要執行的取樣方法，留空時由唯一給定的區塊推得
//   - Seed: 亂數種子，nil 代表由執行端產生
//   - PRNG: pcg64（預設）或 pcg32
//   - Chains: 只對 mcmc 有效，獨立鏈的數量（預設 1）
type RunSetting struct {
	Name   string       `yaml:"name"   json:"name"`
	Method Method       `yaml:"method" json:"method"`
	Seed   *int64       `yaml:"seed"   json:"seed,omitempty"`
	PRNG   string       `yaml:"prng"   json:"prng"`
	Chains int          `yaml:"chains" json:"chains"`
	MCS    *MCSSetting  `yaml:"mcs"  json:"mcs,omitempty"`
	LHS    *LHSSetting  `yaml:"lhs"  json:"lhs,omitempty"`
	STS    *STSSetting  `yaml:"sts"  json:"sts,omitempty"`
	PSS    *PSSSetting  `yaml:"pss"  json:"pss,omitempty"`
	MCMC   *MCMCSetting `yaml:"mcmc" json:"mcmc,omitempty"`
}

// GetRunSettingByYAML
// 以嚴格模式讀取 YAML（多寫/拼錯欄位就報錯），初始化後回傳。
func GetRunSettingByYAML(data []byte, reg *dist.Registry) (*RunSetting, error) {
	rs := &RunSetting{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(rs); err != nil {
		e := errs.Configf("can not decode yaml run setting")
		e.Cause = err
		return nil, e
	}
	if err := rs.Init(reg); err != nil {
		return nil, errs.Wrap(err, "run setting initialized err")
	}
	return rs, nil
}

// GetRunSettingByJSON
// 與 YAML 版本相同，未知欄位同樣視為錯誤。
func GetRunSettingByJSON(data []byte, reg *dist.Registry) (*RunSetting, error) {
	rs := &RunSetting{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(rs); err != nil {
		e := errs.Configf("can not decode json run setting")
		e.Cause = err
		return nil, e
	}
	if err := rs.Init(reg); err != nil {
		return nil, errs.Wrap(err, "run setting initialized err")
	}
	return rs, nil
}

// Init 決定方法並初始化對應區塊
func (rs *RunSetting) Init(reg *dist.Registry) error {
	given := map[Method]bool{
		MethodMCS:  rs.MCS != nil,
		MethodLHS:  rs.LHS != nil,
		MethodSTS:  rs.STS != nil,
		MethodPSS:  rs.PSS != nil,
		MethodMCMC: rs.MCMC != nil,
	}
	if rs.Method == "" {
		for m, ok := range given {
			if !ok {
				continue
			}
			if rs.Method != "" {
				return errs.Configf("several sampler blocks given, set method explicitly")
			}
			rs.Method = m
		}
		if rs.Method == "" {
			return errs.Configf("no sampler block given")
		}
	}
	ok, known := given[rs.Method]
	if !known {
		return errs.Configf("unknown method %q", rs.Method)
	}
	if !ok {
		return errs.Configf("method %q has no %q block", rs.Method, rs.Method)
	}
	if _, ok := core.FactoryByName(rs.PRNG); !ok {
		return errs.Configf("unknown prng %q", rs.PRNG)
	}
	if rs.Chains < 0 {
		return errs.Configf("chains must be >= 0, got %d", rs.Chains)
	}
	if rs.Chains == 0 {
		rs.Chains = 1
	}
	if rs.Chains > 1 && rs.Method != MethodMCMC {
		return errs.Configf("chains only applies to mcmc")
	}

	switch rs.Method {
	case MethodMCS:
		return rs.MCS.Init(reg)
	case MethodLHS:
		return rs.LHS.Init(reg)
	case MethodSTS:
		return rs.STS.Init(reg)
	case MethodPSS:
		return rs.PSS.Init(reg)
	default:
		return rs.MCMC.Init(reg)
	}
}
