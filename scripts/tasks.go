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

package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/zintix-labs/uqlab/demo"
)

// stream 執行指令並逐行交給 show；stdout / stderr 合併，編譯錯誤也看得到
func stream(show func(line string), name string, args ...string) error {
	cmd := exec.Command(name, args...)
	pipe, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return err
	}
	sc := bufio.NewScanner(pipe)
	for sc.Scan() {
		show(sc.Text())
	}
	return cmd.Wait()
}

func colorLine(line string) {
	switch {
	case strings.HasPrefix(line, "ok"):
		PrintGreen(line)
	case strings.HasPrefix(line, "FAIL"), strings.Contains(line, "build failed"), strings.Contains(line, "setup failed"):
		PrintRed(line)
	default:
		fmt.Println(line)
	}
}

func printLine(line string) { fmt.Println(line) }

func cleanCache() error {
	return exec.Command("go", "clean", "-testcache").Run()
}

// runTest all=false 時只顯示套件結果（ok / FAIL）
func runTest(all bool) error {
	PrintGreen("running tests")
	if err := cleanCache(); err != nil {
		return fmt.Errorf("go clean -testcache failed: %w", err)
	}
	show := colorLine
	if !all {
		show = func(line string) {
			if strings.HasPrefix(line, "ok") || strings.HasPrefix(line, "FAIL") ||
				strings.Contains(line, "build failed") || strings.Contains(line, "setup failed") {
				colorLine(line)
			}
		}
	}
	if err := stream(show, "go", "test", "./...", "-cover", "-count=1"); err != nil {
		return fmt.Errorf("tests finished with errors")
	}
	return nil
}

func runTestDetail() error {
	PrintGreen("running tests (detail)")
	if err := cleanCache(); err != nil {
		return fmt.Errorf("go clean -testcache failed: %w", err)
	}
	show := func(line string) {
		if !strings.Contains(line, "[no test files]") {
			colorLine(line)
		}
	}
	if err := stream(show, "go", "test", "./...", "-v", "-count=1"); err != nil {
		return fmt.Errorf("tests (detail) finished with errors")
	}
	return nil
}

// runDemo 逐一執行 demo 目錄中的每個具名設定
func runDemo() error {
	lab, err := demo.NewLab()
	if err != nil {
		return err
	}
	for _, name := range lab.Names() {
		PrintBlue("== " + name)
		if err := stream(printLine, "go", "run", "./cmd/run", "-name", name, "-pb=false"); err != nil {
			return fmt.Errorf("demo %s failed: %w", name, err)
		}
	}
	return nil
}

// runProfile 以 cpu profile 執行單一設定，輸出可直接作為 pgo 的 default.pgo
func runProfile(name string) error {
	PrintGreen("profiling " + name)
	if err := stream(printLine, "go", "run", "./cmd/run", "-name", name, "-p", "cpu", "-pb=false"); err != nil {
		return err
	}
	if _, err := os.Stat("build/profiling/cpu.pprof"); err != nil {
		return fmt.Errorf("cpu profile not found: %w", err)
	}
	PrintYellow("go tool pprof -http=:8080 build/profiling/cpu.pprof")
	return nil
}
