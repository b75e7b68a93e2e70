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

// Package mcs 蒙地卡羅取樣：每一維獨立均勻抽樣後以反函數轉換。
package mcs

import (
	"github.com/zintix-labs/uqlab/errs"
	"github.com/zintix-labs/uqlab/sdk/buf"
	"github.com/zintix-labs/uqlab/sdk/core"
	"github.com/zintix-labs/uqlab/spec"
)

func Sample(c *core.Core, s *spec.MCSSetting) (*buf.Result, error) {
	if s == nil || len(s.Margins) == 0 {
		return nil, errs.Configf("mcs: setting is not initialized")
	}
	u01 := buf.NewMatrix(s.NSamples, s.Dimension)
	for _, row := range u01 {
		for j := range row {
			row[j] = c.Float64()
		}
	}
	return &buf.Result{Method: string(spec.MethodMCS), U01: u01, Samples: s.Transform(u01)}, nil
}
