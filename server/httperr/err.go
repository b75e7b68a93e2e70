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

package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zintix-labs/uqlab/errs"
)

// Body 錯誤回應
type Body struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// StatusCode 錯誤分級對應到 HTTP 狀態碼：
// 逾時 504、取消 408、Warn（設定 / 幾何錯誤）400、Fatal（數值錯誤、內部錯誤）500
func StatusCode(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	}
	var e *errs.E
	if errors.As(err, &e) && e.ErrLv == errs.Warn {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// kindOf 第一個帶有種類的錯誤
func kindOf(err error) string {
	for _, k := range []errs.Kind{errs.KindConfig, errs.KindGeometry, errs.KindNumerical} {
		if errs.IsKind(err, k) {
			return k.String()
		}
	}
	return ""
}

// Errs 寫回 JSON 錯誤
func Errs(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(StatusCode(err))
	_ = json.NewEncoder(w).Encode(Body{Error: err.Error(), Kind: kindOf(err)})
}

// Log 只記錄伺服器端需要關注的錯誤；400 由 access log 處理
func Log(log *slog.Logger, msg string, err error) {
	if err == nil || log == nil {
		return
	}
	status := StatusCode(err)
	switch {
	case status == http.StatusRequestTimeout || status == http.StatusTooManyRequests:
		log.Warn(msg, slog.Any("err", err))
	case status >= 500:
		log.Error(msg, slog.Any("err", err))
	}
}
