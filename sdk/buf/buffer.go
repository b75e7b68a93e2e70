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

package buf

// Result 單次取樣呼叫的輸出。
//
//   - U01: [0,1]^d 上的設計點（MCMC 為 nil）
//   - Samples: 轉換到目標分佈後的樣本，nsamples x dimension
//   - Weights: 分層取樣各點對應 stratum 的體積（其他方法為 nil）
type Result struct {
	Method  string      `json:"method"            yaml:"method"`
	U01     [][]float64 `json:"u01,omitempty"     yaml:"u01,omitempty"`
	Samples [][]float64 `json:"samples"           yaml:"samples"`
	Weights []float64   `json:"weights,omitempty" yaml:"weights,omitempty"`
}

// Dims 回傳 (列數, 維度)
func (r *Result) Dims() (int, int) {
	if len(r.Samples) == 0 {
		return 0, 0
	}
	return len(r.Samples), len(r.Samples[0])
}

// Column 取出第 j 維的所有樣本
func (r *Result) Column(j int) []float64 {
	col := make([]float64, len(r.Samples))
	for i, row := range r.Samples {
		col[i] = row[j]
	}
	return col
}

// NewMatrix 配置 n x d 矩陣，所有列共用同一塊連續記憶體。
func NewMatrix(n, d int) [][]float64 {
	flat := make([]float64, n*d)
	m := make([][]float64, n)
	for i := range m {
		m[i] = flat[i*d : (i+1)*d : (i+1)*d]
	}
	return m
}
