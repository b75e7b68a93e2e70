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
	"fmt"

	"github.com/zintix-labs/uqlab/errs"
	"github.com/zintix-labs/uqlab/sdk/dist"
)

// DistSetting 每一維的邊際分佈。
//
// Fields:
//   - DistType: 分佈名稱，長度 1 代表所有維度共用
//   - DistParams: 分佈參數，長度 1 代表所有維度共用
//   - Dimension: 維度；0 代表由 DistType / DistParams 的長度推得
type DistSetting struct {
	DistType   []string    `yaml:"dist_type"   json:"dist_type"`
	DistParams [][]float64 `yaml:"dist_params" json:"dist_params"`
	Dimension  int         `yaml:"dimension"   json:"dimension"`

	// Margins 為 Init 後綁定好參數的分佈，依維度排列
	Margins []dist.Univariate `yaml:"-" json:"-"`
}

// unitUniform 預設 U(0,1)
func (ds *DistSetting) unitUniform() {
	if len(ds.DistType) == 0 {
		ds.DistType = []string{"Uniform"}
		if len(ds.DistParams) == 0 {
			ds.DistParams = [][]float64{{0, 1}}
		}
	}
}

// bind 解析並廣播到 dim 維。dim <= 0 時由清單長度推得。
func (ds *DistSetting) bind(reg *dist.Registry, dim int) error {
	nt, np := len(ds.DistType), len(ds.DistParams)
	if nt == 0 {
		return errs.Configf("dist_type is required")
	}
	if np == 0 {
		return errs.Configf("dist_params is required")
	}
	if dim <= 0 {
		dim = ds.Dimension
	}
	if dim <= 0 {
		dim = max(nt, np)
	}
	if ds.Dimension > 0 && ds.Dimension != dim {
		return errs.Configf("dimension is %d but the design implies %d", ds.Dimension, dim)
	}
	if nt != 1 && nt != dim {
		return errs.Configf("dist_type has %d entries, dimension is %d", nt, dim)
	}
	if np != 1 && np != dim {
		return errs.Configf("dist_params has %d entries, dimension is %d", np, dim)
	}

	ds.Margins = make([]dist.Univariate, dim)
	for i := 0; i < dim; i++ {
		name := ds.DistType[min(i, nt-1)]
		params := ds.DistParams[min(i, np-1)]
		d, err := reg.Resolve(name)
		if err != nil {
			return err
		}
		if !d.HasInvCdf() {
			return errs.Configf("distribution %q has no inverse cdf", name)
		}
		u, err := d.Bind(params)
		if err != nil {
			return errs.Wrap(err, fmt.Sprintf("dimension %d", i))
		}
		ds.Margins[i] = u
	}
	ds.Dimension = dim
	return nil
}

// Transform 將 [0,1] 上的點逐維以反函數轉換
func (ds *DistSetting) Transform(u01 [][]float64) [][]float64 {
	out := make([][]float64, len(u01))
	for i, row := range u01 {
		x := make([]float64, len(row))
		for j, u := range row {
			x[j] = ds.Margins[j].InvCdf(u)
		}
		out[i] = x
	}
	return out
}
