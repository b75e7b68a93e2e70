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

package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// DefaultShutdownTimeout 優雅關閉的時限
const DefaultShutdownTimeout = 5 * time.Second

// App 管理一組長生命週期元件：任一元件結束或收到 SIGINT / SIGTERM 時，依序關閉全部元件，
// 最後執行 OnStop 註冊的收尾函式（例如關閉取樣 runtime、寫完非同步 log）。
type App struct {
	comps   []Component
	onStop  []func()
	timeout time.Duration
	signals <-chan os.Signal
}

func New() *App { return &App{timeout: DefaultShutdownTimeout} }

func NewWith(comps ...Component) *App {
	app := New()
	for _, c := range comps {
		app.Register(c)
	}
	return app
}

func (a *App) Register(c Component) {
	a.comps = append(a.comps, c)
}

// OnStop 收尾函式，依註冊的相反順序執行
func (a *App) OnStop(fn func()) {
	if fn != nil {
		a.onStop = append(a.onStop, fn)
	}
}

// SetShutdownTimeout <= 0 時使用預設值
func (a *App) SetShutdownTimeout(td time.Duration) {
	if td <= 0 {
		td = DefaultShutdownTimeout
	}
	a.timeout = td
}

func (a *App) Run() error {
	errCh := make(chan error, len(a.comps))
	for _, c := range a.comps {
		go func(c Component) {
			errCh <- c.Run()
		}(c)
	}

	quit := a.signals
	if quit == nil {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(ch)
		quit = ch
	}

	var err error
	select {
	case <-quit:
	case err = <-errCh:
	}
	a.gracefulShutdown(a.timeout)
	return err
}

func (a *App) gracefulShutdown(td time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), td)
	defer cancel()
	for _, c := range a.comps {
		if err := c.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "shutdown err: %v\n", err)
		}
	}
	for i := len(a.onStop) - 1; i >= 0; i-- {
		a.onStop[i]()
	}
}
