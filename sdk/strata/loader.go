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

package strata

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/zintix-labs/uqlab/errs"
)

// Load 讀取以空白分隔的表格：每列 2d 欄，前 d 欄為 origin、後 d 欄為 width。
// 空行與 # 開頭的行會被略過。
func Load(r io.Reader) (*Strata, error) {
	var origins, widths [][]float64
	sc := bufio.NewScanner(r)
	line := 0
	cols := -1
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if cols < 0 {
			cols = len(fields)
			if cols%2 != 0 {
				return nil, errs.Geometryf("strata table line %d: need an even number of columns, got %d", line, cols)
			}
		}
		if len(fields) != cols {
			return nil, errs.Geometryf("strata table line %d: expected %d columns, got %d", line, cols, len(fields))
		}
		row := make([]float64, cols)
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, errs.WrapWithExtra(errs.Configf("strata table line %d: bad number %q", line, f), "parse strata table", err.Error())
			}
			row[i] = v
		}
		d := cols / 2
		origins = append(origins, row[:d])
		widths = append(widths, row[d:])
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap(err, "read strata table")
	}
	return FromOrthotopes(origins, widths)
}

// LoadFile 讀取檔案版本
func LoadFile(path string) (*Strata, error) {
	f, err := os.Open(path)
	if err != nil {
		e := errs.Configf("open strata file %q", path)
		e.Cause = err
		return nil, e
	}
	defer f.Close()
	return Load(f)
}
