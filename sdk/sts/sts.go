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

// Package sts 分層取樣：每個 stratum 內取一個均勻點。
package sts

import (
	"github.com/zintix-labs/uqlab/errs"
	"github.com/zintix-labs/uqlab/sdk/buf"
	"github.com/zintix-labs/uqlab/sdk/core"
	"github.com/zintix-labs/uqlab/sdk/strata"
	"github.com/zintix-labs/uqlab/spec"
)

// Stratify 在每個 stratum 內均勻取一點，第 k 列對應第 k 個 stratum
func Stratify(c *core.Core, st *strata.Strata) [][]float64 {
	return st.Sample(c.Float64)
}

func Sample(c *core.Core, s *spec.STSSetting) (*buf.Result, error) {
	if s == nil || s.Strata == nil || len(s.Margins) == 0 {
		return nil, errs.Configf("sts: setting is not initialized")
	}
	u01 := Stratify(c, s.Strata)
	return &buf.Result{
		Method:  string(spec.MethodSTS),
		U01:     u01,
		Samples: s.Transform(u01),
		Weights: append([]float64(nil), s.Strata.Weights...),
	}, nil
}
