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

package uqlab

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/zintix-labs/uqlab/errs"
	"github.com/zintix-labs/uqlab/spec"
)

// Runtime 在 Lab 之上限制同時執行的取樣數量，供後端服務使用。
//
// 透過 slots 通道借出/歸還執行額度：額度用完時 Run 會等待直到 ctx 結束。
// 單次取樣 panic 會被攔截並轉成 Fatal 錯誤，不影響其他請求。
type Runtime struct {
	lab   *Lab
	slots chan struct{}
	size  int

	done      chan struct{}
	closeOnce sync.Once
	reason    atomic.Value // string

	inflight      atomic.Int32
	served        atomic.Int64
	panics        atomic.Int32
	fatals        atomic.Int32
	closeInflight atomic.Int32
}

// NewRuntime n 為同時執行上限（至少為 1）
func (l *Lab) NewRuntime(n int) *Runtime {
	n = max(1, n)
	rt := &Runtime{
		lab:   l,
		slots: make(chan struct{}, n),
		size:  n,
		done:  make(chan struct{}),
	}
	for i := 0; i < n; i++ {
		rt.slots <- struct{}{}
	}
	rt.reason.Store("")
	rt.closeInflight.Store(-1)
	return rt
}

func (rt *Runtime) Lab() *Lab {
	return rt.lab
}

// Run 借一個額度執行 Lab.Run（不顯示進度條）
func (rt *Runtime) Run(ctx context.Context, rs *spec.RunSetting) (out *Outcome, err error) {
	// select 在多個 case 同時就緒時隨機挑選，關閉狀態要先檢查
	if rt.Closed() {
		return nil, errs.NewFatal("runtime closed: " + rt.ClosedReason())
	}
	select {
	case <-rt.done:
		return nil, errs.NewFatal("runtime closed: " + rt.ClosedReason())
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-rt.slots:
	}
	rt.inflight.Add(1)

	defer func() {
		rt.inflight.Add(-1)
		if r := recover(); r != nil {
			rt.panics.Add(1)
			name := ""
			if rs != nil {
				name = rs.Name
			}
			out, err = nil, errs.NewFatal(fmt.Sprintf("run %q panic : %v", name, r))
		}
		if e, ok := err.(*errs.E); ok && e.ErrLv == errs.Fatal {
			rt.fatals.Add(1)
		}
		if err == nil {
			rt.served.Add(1)
		}
		// 有借有還；關閉後也要歸還，避免 Close 之後仍在等待的呼叫永遠卡住
		rt.slots <- struct{}{}
	}()

	return rt.lab.Run(ctx, rs, false)
}

// Close 進入關閉狀態，可重複呼叫
func (rt *Runtime) Close() {
	rt.closeWithReason("closed")
}

func (rt *Runtime) closeWithReason(reason string) {
	rt.closeOnce.Do(func() {
		if reason == "" {
			reason = "closed"
		}
		rt.reason.Store(reason)
		rt.closeInflight.Store(rt.inflight.Load())
		close(rt.done)
	})
}

func (rt *Runtime) Closed() bool {
	select {
	case <-rt.done:
		return true
	default:
		return false
	}
}

func (rt *Runtime) ClosedReason() string {
	if v := rt.reason.Load(); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// RuntimeMetrics 拉取式（pull）觀測快照。Available 來自 len(chan)，高併發下為近似值。
type RuntimeMetrics struct {
	Size          int    `json:"size"`
	Available     int    `json:"available"`
	Inflight      int    `json:"inflight"`
	Served        int64  `json:"served"`
	Panics        int    `json:"panics"`
	Fatals        int    `json:"fatals"`
	Closed        bool   `json:"closed"`
	CloseReason   string `json:"close_reason"`
	CloseInflight int    `json:"close_inflight"` // -1 表示尚未關閉
}

func (rt *Runtime) Metrics() RuntimeMetrics {
	return RuntimeMetrics{
		Size:          rt.size,
		Available:     len(rt.slots),
		Inflight:      int(rt.inflight.Load()),
		Served:        rt.served.Load(),
		Panics:        int(rt.panics.Load()),
		Fatals:        int(rt.fatals.Load()),
		Closed:        rt.Closed(),
		CloseReason:   rt.ClosedReason(),
		CloseInflight: int(rt.closeInflight.Load()),
	}
}
