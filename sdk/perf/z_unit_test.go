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

package perf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseMode(t *testing.T) {
	for _, s := range []string{"", "cpu", "heap", "allocs"} {
		if _, err := ParseMode(s); err != nil {
			t.Fatalf("mode %q: %v", s, err)
		}
	}
	if _, err := ParseMode("trace"); err == nil {
		t.Fatalf("trace accepted")
	}
}

func TestRunWritesProfile(t *testing.T) {
	dir := t.TempDir()
	for _, m := range []Mode{ModeCPU, ModeHeap, ModeAllocs} {
		calls := 0
		path, err := Run(dir, m, func() error { calls++; return nil })
		if err != nil {
			t.Fatalf("%s: %v", m, err)
		}
		if calls != 1 {
			t.Fatalf("%s: exe called %d times", m, calls)
		}
		if path != filepath.Join(dir, string(m)+".pprof") {
			t.Fatalf("%s: path %q", m, path)
		}
		if st, err := os.Stat(path); err != nil || st.Size() == 0 {
			t.Fatalf("%s: profile missing or empty", m)
		}
	}
}

func TestRunPassesExeError(t *testing.T) {
	boom := errors.New("boom")
	if _, err := Run(t.TempDir(), ModeNone, func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("none: %v", err)
	}
	if _, err := Run(t.TempDir(), ModeHeap, func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("heap: %v", err)
	}
}
