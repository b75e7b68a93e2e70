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
	"errors"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
)

type fakeComp struct {
	runErr   error
	block    chan struct{}
	shutdown atomic.Int32
}

func (f *fakeComp) Run() error {
	if f.block != nil {
		<-f.block
		return nil
	}
	return f.runErr
}

func (f *fakeComp) Shutdown(ctx context.Context) error {
	f.shutdown.Add(1)
	if f.block != nil {
		close(f.block)
	}
	return nil
}

func TestRunStopsOnComponentError(t *testing.T) {
	boom := errors.New("listen failed")
	failing := &fakeComp{runErr: boom}
	idle := &fakeComp{block: make(chan struct{})}
	a := NewWith(failing, idle)
	a.signals = make(chan os.Signal)

	var order []int
	a.OnStop(func() { order = append(order, 1) })
	a.OnStop(func() { order = append(order, 2) })
	a.OnStop(nil)

	if err := a.Run(); !errors.Is(err, boom) {
		t.Fatalf("run err = %v", err)
	}
	if failing.shutdown.Load() != 1 || idle.shutdown.Load() != 1 {
		t.Fatalf("components not shut down")
	}
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Fatalf("onStop order = %v", order)
	}
}

func TestRunStopsOnSignal(t *testing.T) {
	idle := &fakeComp{block: make(chan struct{})}
	a := NewWith(idle)
	sig := make(chan os.Signal, 1)
	sig <- syscall.SIGTERM
	a.signals = sig
	a.SetShutdownTimeout(0)
	if a.timeout != DefaultShutdownTimeout {
		t.Fatalf("timeout = %v", a.timeout)
	}
	if err := a.Run(); err != nil {
		t.Fatalf("run err = %v", err)
	}
	if idle.shutdown.Load() != 1 {
		t.Fatalf("component not shut down")
	}
}
