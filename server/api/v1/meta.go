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

package v1

import (
	"encoding/json"
	"net/http"

	"github.com/zintix-labs/uqlab"
	"github.com/zintix-labs/uqlab/catalog"
	"github.com/zintix-labs/uqlab/server/httperr"
)

// MetaHandler 唯讀查詢：可用分佈、具名設定、Runtime 狀態
type MetaHandler struct {
	rt *uqlab.Runtime
}

func NewMetaHandler(rt *uqlab.Runtime) *MetaHandler {
	return &MetaHandler{rt: rt}
}

func (m *MetaHandler) Dists(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string][]string{"dists": m.rt.Lab().Registry().Names()})
}

func (m *MetaHandler) Configs(w http.ResponseWriter, _ *http.Request) {
	list, err := m.rt.Lab().Summaries()
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	if list == nil {
		list = []catalog.Summary{}
	}
	writeJSON(w, map[string][]catalog.Summary{"configs": list})
}

func (m *MetaHandler) Metrics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.rt.Metrics())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "encode failed", http.StatusInternalServerError)
	}
}
