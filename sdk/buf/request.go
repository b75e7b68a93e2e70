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

package buf

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/zintix-labs/uqlab/errs"
)

// SampleRequest HTTP 取樣請求：Setting 為各方法的設定區塊
type SampleRequest[T any] struct {
	Seed    *int64 `json:"seed,omitempty"`
	PRNG    string `json:"prng,omitempty"`
	Setting T      `json:"setting"`
}

// maxBody 防止 body 過大（1MiB）
const maxBody = 1 << 20

// DecodeSampleRequest 把 HTTP 請求解碼成 SampleRequest。
//
// 只接受 POST JSON；query string 的 seed / prng 會覆蓋 body 中的值。
// 這裡只做解碼與型別轉換，設定的合法性交給 spec 的 Init。
func DecodeSampleRequest[T any](r *http.Request) (*SampleRequest[T], error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}
	if r.Method != http.MethodPost {
		return nil, errs.Warnf("method %s not allowed", r.Method)
	}

	req := new(SampleRequest[T])
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		e := errs.Configf("invalid json")
		e.Cause = err
		return nil, e
	}

	q := r.URL.Query()
	if s := q.Get("seed"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, errs.Configf("invalid seed: %v", err)
		}
		req.Seed = &v
	}
	if s := q.Get("prng"); s != "" {
		req.PRNG = s
	}
	return req, nil
}

// DecodeJSON 解碼任意 JSON body（同樣限制大小、拒絕未知欄位）
func DecodeJSON(r *http.Request, out any) error {
	if r == nil || r.Body == nil {
		return errs.NewWarn("empty request body")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return errs.Configf("invalid json: %s", fmt.Sprint(err))
	}
	return nil
}
