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

package svrcfg

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/zintix-labs/uqlab"
	"github.com/zintix-labs/uqlab/errs"
	"github.com/zintix-labs/uqlab/server/logger"
)

const (
	DefaultAddr    = ":5808"
	DefaultTimeout = 30 * time.Second
	MaxTimeout     = 10 * time.Minute
)

// SvrCfg 伺服器組裝所需的全部依賴
//
//   - Workers: 同時執行的取樣上限，1 ~ NumCPU
//   - Timeout: 單一請求的取樣時限
type SvrCfg struct {
	Log     *slog.Logger
	Addr    string
	Workers int
	Timeout time.Duration
	Lab     *uqlab.Lab
}

func (sc *SvrCfg) Vaild() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}
	if sc.Addr == "" {
		sc.Addr = DefaultAddr
	}
	sc.Workers = max(1, sc.Workers)
	sc.Workers = min(runtime.NumCPU(), sc.Workers)
	if sc.Timeout <= 0 {
		sc.Timeout = DefaultTimeout
	}
	sc.Timeout = min(MaxTimeout, sc.Timeout)
	if sc.Lab == nil {
		return errs.NewFatal("lab is required")
	}
	return nil
}
