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

// Package catalog 具名取樣設定的目錄。
//
// 設定檔來源一律以 fs.FS 注入（go:embed 或 os.DirFS），目錄本身只保存「名稱 → 檔名」，
// 取用時才讀檔並以呼叫端的 Registry 初始化，因此同一份目錄可搭配不同的自訂分佈。
package catalog

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zintix-labs/uqlab/errs"
	"github.com/zintix-labs/uqlab/sdk/dist"
	"github.com/zintix-labs/uqlab/spec"
)

var (
	ErrDupName = errs.NewFatal("duplicate run name")
)

type Entry struct {
	Name       string
	ConfigName string
}

// Summary 供 API 列舉用
type Summary struct {
	Name       string      `json:"name"`
	Method     spec.Method `json:"method"`
	ConfigName string      `json:"config"`
}

type Catalog struct {
	byName map[string]Entry
	names  []string            // 用來穩定排序
	unique map[string]struct{} // 一個檔案只能對應一個名稱
	config *multiFS
	frozen bool
}

func New(cfg ...fs.FS) (*Catalog, error) {
	multFS, err := newMultiFS(cfg...)
	if err != nil {
		return nil, errs.Wrap(err, "can not create catalog")
	}
	return &Catalog{
		byName: map[string]Entry{},
		names:  make([]string, 0, 16),
		unique: map[string]struct{}{},
		config: multFS,
		frozen: false,
	}, nil
}

// Register 原子性註冊：任何一筆不合法就整批不寫入
func (c *Catalog) Register(metas ...Entry) error {
	if c.frozen {
		return errs.NewWarn("can not register when catalog already frozen")
	}
	seenName := map[string]struct{}{}
	seenCfg := map[string]struct{}{}
	for i := range metas {
		metas[i].Name = normName(metas[i].Name)
		meta := metas[i]
		if meta.Name == "" {
			return errs.NewFatal("run name required")
		}
		if err := validFileName(meta.ConfigName); err != nil {
			return err
		}
		if _, ok := c.config.index[meta.ConfigName]; !ok {
			return errs.NewFatal(fmt.Sprintf("config file not found: %s", meta.ConfigName))
		}
		if _, ok := c.byName[meta.Name]; ok {
			return ErrDupName
		}
		if _, ok := seenName[meta.Name]; ok {
			return ErrDupName
		}
		if _, ok := c.unique[meta.ConfigName]; ok {
			return errs.NewFatal(fmt.Sprintf("duplicate config name: %s", meta.ConfigName))
		}
		if _, ok := seenCfg[meta.ConfigName]; ok {
			return errs.NewFatal(fmt.Sprintf("duplicate config name: %s", meta.ConfigName))
		}
		seenName[meta.Name] = struct{}{}
		seenCfg[meta.ConfigName] = struct{}{}
	}
	for _, meta := range metas {
		c.unique[meta.ConfigName] = struct{}{}
		c.byName[meta.Name] = meta
		c.names = append(c.names, meta.Name)
	}
	sort.Strings(c.names)
	return nil
}

// RegisterAll 掃描所有來源，每個 yaml/json 檔註冊一筆。
// 名稱取設定檔內的 name，留空時用去掉副檔名的檔名。
// 所有檔案都必須能以 reg 解析成功才會寫入。
func (c *Catalog) RegisterAll(reg *dist.Registry) error {
	files := make([]string, 0, len(c.config.index))
	for name := range c.config.index {
		files = append(files, name)
	}
	sort.Strings(files)

	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		rs, err := c.readSetting(f, reg)
		if err != nil {
			return errs.Wrap(err, "register "+f)
		}
		name := rs.Name
		if name == "" {
			name = strings.TrimSuffix(f, filepath.Ext(f))
		}
		entries = append(entries, Entry{Name: name, ConfigName: f})
	}
	return c.Register(entries...)
}

func (c *Catalog) GetByName(name string) (Entry, bool) {
	m, ok := c.byName[normName(name)]
	return m, ok
}

func (c *Catalog) Names() []string {
	if len(c.names) == 0 {
		return nil
	}
	return append([]string(nil), c.names...)
}

func (c *Catalog) All() []Entry {
	m := make([]Entry, 0, len(c.names))
	for _, n := range c.names {
		m = append(m, c.byName[n])
	}
	return m
}

// Summaries 讀出每個設定的方法（需要解析檔案）
func (c *Catalog) Summaries(reg *dist.Registry) ([]Summary, error) {
	out := make([]Summary, 0, len(c.names))
	for _, e := range c.All() {
		rs, err := c.readSetting(e.ConfigName, reg)
		if err != nil {
			return nil, err
		}
		out = append(out, Summary{Name: e.Name, Method: rs.Method, ConfigName: e.ConfigName})
	}
	return out, nil
}

func (c *Catalog) Freeze() {
	c.frozen = true
}

func (c *Catalog) IsFrozen() bool {
	return c.frozen
}

// RunSettingByName
//
// 讀取 fs.FS 中的 YAML/JSON 設定、以 reg 初始化後回傳；每次呼叫都是新的實例
func (c *Catalog) RunSettingByName(name string, reg *dist.Registry) (*spec.RunSetting, error) {
	e, ok := c.GetByName(name)
	if !ok {
		return nil, errs.Configf("run %q does not exist in catalog", name)
	}
	rs, err := c.readSetting(e.ConfigName, reg)
	if err != nil {
		return nil, err
	}
	if rs.Name == "" {
		rs.Name = e.Name
	}
	return rs, nil
}

func (c *Catalog) readSetting(file string, reg *dist.Registry) (*spec.RunSetting, error) {
	src, ok := c.config.GetFS(file)
	if !ok {
		return nil, errs.Configf("file %q does not exist in catalog", file)
	}
	raw, err := fs.ReadFile(src, file)
	if err != nil {
		return nil, errs.Wrap(err, "catalog read file error")
	}
	return ParseRunSettingByExt(file, raw, reg)
}

// ParseRunSettingByExt 依副檔名選擇 YAML 或 JSON 解碼
func ParseRunSettingByExt(filename string, raw []byte, reg *dist.Registry) (*spec.RunSetting, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return spec.GetRunSettingByYAML(raw, reg)
	case ".json":
		return spec.GetRunSettingByJSON(raw, reg)
	default:
		return nil, errs.Configf("unsupported config format: %q", filename)
	}
}

func normName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func validFileName(file string) error {
	if file == "" {
		return errs.NewFatal("empty config filename")
	}
	// 1) 不能包含路徑或類似字元
	if strings.ContainsAny(file, `/\:`) {
		return errs.NewFatal(fmt.Sprintf("invalid config filename: %q (must be a basename; no / \\\\ :) ", file))
	}
	// 2) 必須以 .yaml/.yml/.json 結尾（大小寫不敏感）
	if !isConfigFile(file) {
		return errs.NewFatal(fmt.Sprintf("invalid config filename: %q (must end with .yaml, .yml, or .json)", file))
	}
	// 3) 不能以 . 開頭
	if strings.HasPrefix(file, ".") {
		return errs.NewFatal(fmt.Sprintf("invalid config filename: %q (cannot start with '.')", file))
	}
	return nil
}

func isConfigFile(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") || strings.HasSuffix(lower, ".json")
}

type multiFS struct {
	src   []fs.FS
	index map[string]int // name -> src index
}

func newMultiFS(src ...fs.FS) (*multiFS, error) {
	if len(src) == 0 {
		return nil, errs.NewFatal("no fs provided")
	}
	for i, s := range src {
		if s == nil {
			return nil, errs.NewFatal(fmt.Sprintf("fs[%d] is nil", i))
		}
	}

	m := &multiFS{
		src:   src,
		index: make(map[string]int, 64),
	}

	for i := 0; i < len(src); i++ {
		err := fs.WalkDir(src[i], ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				// 設定來源必須是扁平目錄，只允許根目錄
				if path == "." {
					return nil
				}
				return errs.NewFatal(fmt.Sprintf("config FS must be flat (no subdirectories): %q", path))
			}
			// 其他資產（例如 strata 表）直接略過
			if !isConfigFile(path) {
				return nil
			}
			if prev, ok := m.index[path]; ok {
				return errs.NewFatal(fmt.Sprintf("duplicate config %q in fs[%d] and fs[%d]", path, prev, i))
			}
			m.index[path] = i
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *multiFS) GetFS(name string) (fs.FS, bool) {
	if id, ok := m.index[name]; ok {
		return m.src[id], ok
	}
	return nil, false
}
