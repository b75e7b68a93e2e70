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
	"fmt"
	"os"
)

// 開發用任務：go run ./scripts <task>
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./scripts [test|test-all|test-detail|demo|profile]")
		os.Exit(1)
	}
	if err := selectTask(os.Args[1], os.Args[2:]); err != nil {
		PrintRed(err.Error())
		os.Exit(1)
	}
}

func selectTask(task string, args []string) error {
	switch task {
	case "test":
		return runTest(false)
	case "test-all":
		return runTest(true)
	case "test-detail":
		return runTestDetail()
	case "demo":
		return runDemo()
	case "profile":
		name := "stretch_rosenbrock"
		if len(args) > 0 {
			name = args[0]
		}
		return runProfile(name)
	default:
		return fmt.Errorf("unknown task: %s", task)
	}
}
