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

package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const payload = `{"samples":[[0.1,0.2],[0.3,0.4]]}`

func jsonHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, strings.Repeat(payload, 20))
}

func serve(h http.Handler, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/dists", nil)
	if accept != "" {
		req.Header.Set("Accept-Encoding", accept)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPickCodec(t *testing.T) {
	cases := map[string]string{
		"":                    "",
		"br":                  "",
		"gzip":                "gzip",
		"gzip, zstd":          "zstd",
		"zstd;q=0, gzip":      "gzip",
		"GZIP;q=0.5":          "gzip",
		"zstd; q=0, gzip;q=0": "",
	}
	for in, want := range cases {
		c := pickCodec(in)
		got := ""
		if c != nil {
			got = c.name
		}
		if got != want {
			t.Fatalf("pickCodec(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCompressionZstd(t *testing.T) {
	rec := serve(Compression(http.HandlerFunc(jsonHandler)), "zstd, gzip")
	if rec.Header().Get("Content-Encoding") != "zstd" {
		t.Fatalf("encoding = %q", rec.Header().Get("Content-Encoding"))
	}
	zr, err := zstd.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("zstd reader: %v", err)
	}
	defer zr.Close()
	got, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != strings.Repeat(payload, 20) {
		t.Fatalf("payload mismatch")
	}
}

func TestCompressionGzip(t *testing.T) {
	rec := serve(Compression(http.HandlerFunc(jsonHandler)), "gzip")
	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("encoding = %q", rec.Header().Get("Content-Encoding"))
	}
	gr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	got, err := io.ReadAll(gr)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != strings.Repeat(payload, 20) {
		t.Fatalf("payload mismatch")
	}
}

func TestCompressionSkips(t *testing.T) {
	rec := serve(Compression(http.HandlerFunc(jsonHandler)), "")
	if rec.Header().Get("Content-Encoding") != "" || rec.Body.String() != strings.Repeat(payload, 20) {
		t.Fatalf("uncompressed response altered")
	}
	noContent := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	rec = serve(Compression(noContent), "gzip")
	if rec.Code != http.StatusNoContent || rec.Header().Get("Content-Encoding") != "" || rec.Body.Len() != 0 {
		t.Fatalf("204 got encoding %q and %d bytes", rec.Header().Get("Content-Encoding"), rec.Body.Len())
	}
}

func TestRequestIDAndAccessLog(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))
	h := RequestID(AccessLog(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad setting", http.StatusBadRequest)
	})))

	req := httptest.NewRequest(http.MethodPost, "/v1/mcs", nil)
	req.Header.Set(RequestIDHeader, "client-000042")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Header().Get(RequestIDHeader) != "client-000042" {
		t.Fatalf("request id header = %q", rec.Header().Get(RequestIDHeader))
	}
	out := logs.String()
	for _, want := range []string{"http.access", "status=400", "level=WARN", "req_id=client-000042", "path=/v1/mcs"} {
		if !strings.Contains(out, want) {
			t.Fatalf("access log missing %q: %s", want, out)
		}
	}
}

func TestGetReqIdNumPart(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if GetReqIdNumPart(req) != "" {
		t.Fatalf("request without id should be empty")
	}
	var got string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetReqIdNumPart(r)
	}))
	req.Header.Set(RequestIDHeader, "host/abc-000007")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "000007" {
		t.Fatalf("num part = %q", got)
	}
}

func TestRecover(t *testing.T) {
	h := Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}
