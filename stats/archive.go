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

package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/zintix-labs/uqlab/errs"
	"github.com/zintix-labs/uqlab/sdk/buf"
)

// Archive 一次執行的完整留存：樣本、摘要與可重現的種子
type Archive struct {
	Name    string        `json:"name"`
	PRNG    string        `json:"prng"`
	Seed    int64         `json:"seed"`
	Results []*buf.Result `json:"results"`
	Report  *SampleReport `json:"report"`
}

// ArchiveName 檔名格式：<name>_<seed>.json.zst
func ArchiveName(name string, seed int64) string {
	if name == "" {
		name = "run"
	}
	return fmt.Sprintf("%s_%d.json.zst", name, seed)
}

// SaveArchive 以 JSON + zstd 存到 dir，回傳寫出的路徑
func SaveArchive(dir string, a *Archive) (string, error) {
	if a == nil {
		return "", errs.Warnf("save: archive is nil")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errs.Wrap(err, "save: mkdir output dir")
	}
	path := filepath.Join(dir, ArchiveName(a.Name, a.Seed))
	f, err := os.Create(path)
	if err != nil {
		return "", errs.Wrap(err, "save: create archive")
	}
	defer func() { _ = f.Close() }()

	if err := EncodeArchive(f, a); err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", errs.Wrap(err, "save: close archive")
	}
	return path, nil
}

// EncodeArchive 寫出 zstd 壓縮的 JSON
func EncodeArchive(w io.Writer, a *Archive) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return errs.Wrap(err, "save: create zstd writer")
	}
	if err := json.NewEncoder(zw).Encode(a); err != nil {
		_ = zw.Close()
		return errs.Wrap(err, "save: encode archive")
	}
	if err := zw.Close(); err != nil {
		return errs.Wrap(err, "save: close zstd writer")
	}
	return nil
}

// DecodeArchive 讀回 EncodeArchive 的輸出
func DecodeArchive(r io.Reader) (*Archive, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, errs.Wrap(err, "load: create zstd reader")
	}
	defer zr.Close()
	a := &Archive{}
	if err := json.NewDecoder(zr).Decode(a); err != nil {
		return nil, errs.Wrap(err, "load: decode archive")
	}
	return a, nil
}

func LoadArchive(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(err, "load: open archive")
	}
	defer f.Close()
	return DecodeArchive(f)
}
