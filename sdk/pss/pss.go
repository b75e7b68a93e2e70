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

// Package pss 部分分層取樣。
//
// 維度切成數個子空間，各自做分層取樣後，以一個隨機排列打散子空間之間的配對。
// 同一個排列同時作用在 U01 與轉換後的樣本上。
package pss

import (
	"github.com/zintix-labs/uqlab/errs"
	"github.com/zintix-labs/uqlab/sdk/buf"
	"github.com/zintix-labs/uqlab/sdk/core"
	"github.com/zintix-labs/uqlab/sdk/sts"
	"github.com/zintix-labs/uqlab/spec"
)

func Sample(c *core.Core, s *spec.PSSSetting) (*buf.Result, error) {
	if s == nil || len(s.Blocks) == 0 || len(s.Margins) == 0 {
		return nil, errs.Configf("pss: setting is not initialized")
	}
	n, d := s.NSamples, s.Dimension
	u01 := buf.NewMatrix(n, d)
	x := buf.NewMatrix(n, d)
	for _, b := range s.Blocks {
		pts := sts.Stratify(c, b.Strata)
		perm := c.Perm(n)
		for i := 0; i < n; i++ {
			src := pts[perm[i]]
			for j := 0; j < b.Size; j++ {
				col := b.Offset + j
				u01[i][col] = src[j]
				x[i][col] = s.Margins[col].InvCdf(src[j])
			}
		}
	}
	return &buf.Result{Method: string(spec.MethodPSS), U01: u01, Samples: x}, nil
}
