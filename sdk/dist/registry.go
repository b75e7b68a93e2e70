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

package dist

import (
	"maps"
	"slices"
	"sync"

	"github.com/zintix-labs/uqlab/errs"
)

// JointDensity 多維聯合密度（未正規化亦可），x 為完整向量
type JointDensity func(x, p []float64) float64

// Registry 分佈註冊表。內建分佈永遠存在，自訂名稱不可覆蓋內建名稱。
// 讀寫皆加鎖，可由多個並行的取樣呼叫共用。
type Registry struct {
	mu     sync.RWMutex
	custom map[string]Funcs
	joint  map[string]JointDensity
}

func NewRegistry() *Registry {
	return &Registry{
		custom: make(map[string]Funcs),
		joint:  make(map[string]JointDensity),
	}
}

// Register 註冊自訂一維分佈
func (r *Registry) Register(name string, f Funcs) error {
	if name == "" {
		return errs.Configf("distribution name is empty")
	}
	if _, ok := nameKind[name]; ok {
		return errs.Configf("distribution %q is built in", name)
	}
	if f.Pdf == nil {
		return errs.Configf("distribution %q has no pdf", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.custom[name] = f
	return nil
}

// RegisterJoint 註冊多維聯合密度
func (r *Registry) RegisterJoint(name string, f JointDensity) error {
	if name == "" {
		return errs.Configf("joint density name is empty")
	}
	if _, ok := nameKind[name]; ok {
		return errs.Configf("joint density %q collides with a built-in distribution", name)
	}
	if f == nil {
		return errs.Configf("joint density %q is nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.joint[name] = f
	return nil
}

// Resolve 依名稱解析一維分佈：先內建，後自訂
func (r *Registry) Resolve(name string) (Distribution, error) {
	if k, ok := nameKind[name]; ok {
		return Distribution{Name: name, Kind: k}, nil
	}
	r.mu.RLock()
	f, ok := r.custom[name]
	r.mu.RUnlock()
	if !ok {
		return Distribution{}, errs.Configf("unsupported distribution %q", name)
	}
	return Distribution{Name: name, Kind: Custom, fn: f}, nil
}

// ResolveJoint 解析聯合密度。
// 名稱若為一維分佈，回傳各分量以相同參數獨立相乘的乘積密度。
func (r *Registry) ResolveJoint(name string) (JointDensity, error) {
	r.mu.RLock()
	f, ok := r.joint[name]
	r.mu.RUnlock()
	if ok {
		return f, nil
	}
	d, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	return func(x, p []float64) float64 {
		prod := 1.0
		for _, v := range x {
			prod *= d.Pdf(v, p)
		}
		return prod
	}, nil
}

// Names 所有可用名稱（排序後）
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := slices.Collect(maps.Keys(nameKind))
	out = append(out, slices.Collect(maps.Keys(r.custom))...)
	out = append(out, slices.Collect(maps.Keys(r.joint))...)
	slices.Sort(out)
	return out
}
