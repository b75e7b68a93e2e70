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

// Package perf 以 runtime/pprof 包住一次取樣工作，輸出 profile 檔。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/uqlab/errs"
)

// DefaultDir 預設輸出目錄
const DefaultDir = "build/profiling"

// Mode profile 種類
type Mode string

const (
	ModeNone   Mode = ""
	ModeCPU    Mode = "cpu"
	ModeHeap   Mode = "heap"
	ModeAllocs Mode = "allocs"
)

// ParseMode 未知名稱回傳 config 錯誤
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeNone, ModeCPU, ModeHeap, ModeAllocs:
		return m, nil
	}
	return ModeNone, errs.Configf("unknown pprof mode %q (cpu|heap|allocs)", s)
}

// Run 依 mode 執行 exe 並把 profile 寫到 dir/<mode>.pprof。
//
// ModeNone 只執行 exe。exe 的錯誤優先回傳；profile 的錯誤只在 exe 成功時回傳。
// 回傳的 path 在 ModeNone 時為空字串。
//
// Usage like:
//
//	go run ./cmd/run -name mcs_normal -p cpu
func Run(dir string, mode Mode, exe func() error) (path string, err error) {
	if mode == ModeNone {
		return "", exe()
	}
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errs.Wrap(err, "can not create pprof dir")
	}
	path = filepath.Join(dir, string(mode)+".pprof")
	f, err := os.Create(path)
	if err != nil {
		return "", errs.Wrap(err, "can not create "+path)
	}
	defer f.Close()

	switch mode {
	case ModeCPU:
		// CPU profile 可作為 pgo 的 default.pgo
		if err := pprof.StartCPUProfile(f); err != nil {
			return "", errs.Wrap(err, "can not start cpu profile")
		}
		err = exe()
		pprof.StopCPUProfile()
		return path, err
	case ModeHeap:
		if err := exe(); err != nil {
			return path, err
		}
		// 快照前先 GC，看到的才是存活物件
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return path, errs.Wrap(err, "can not write heap profile")
		}
		return path, nil
	case ModeAllocs:
		if err := exe(); err != nil {
			return path, err
		}
		// 累積配置，搭配 -sample_index=alloc_space 查看
		if err := pprof.Lookup("allocs").WriteTo(f, 0); err != nil {
			return path, errs.Wrap(err, "can not write allocs profile")
		}
		return path, nil
	}
	return "", errs.Configf("unknown pprof mode %q", mode)
}
