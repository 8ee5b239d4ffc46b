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

func hello(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = io.WriteString(w, strings.Repeat("fruit ", 100))
}

func TestCompressionPicksEncoder(t *testing.T) {
	h := Compression(http.HandlerFunc(hello))
	want := strings.Repeat("fruit ", 100)

	for _, enc := range []string{"zstd", "gzip, deflate", "br"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Encoding", enc)
		h.ServeHTTP(rec, req)

		var body []byte
		switch rec.Header().Get("Content-Encoding") {
		case "zstd":
			zr, err := zstd.NewReader(rec.Body)
			if err != nil {
				t.Fatalf("zstd reader: %v", err)
			}
			body, _ = io.ReadAll(zr)
			zr.Close()
		case "gzip":
			gr, err := gzip.NewReader(rec.Body)
			if err != nil {
				t.Fatalf("gzip reader: %v", err)
			}
			body, _ = io.ReadAll(gr)
		case "":
			if enc != "br" {
				t.Fatalf("%s: expected compression", enc)
			}
			body = rec.Body.Bytes()
		}
		if string(body) != want {
			t.Fatalf("%s: body mismatch (%d bytes)", enc, len(body))
		}
	}
}

func TestCompressionSkipsWebSocketAndNoBody(t *testing.T) {
	h := Compression(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	h.ServeHTTP(rec, req)
	if rec.Header().Get("Content-Encoding") != "" || rec.Body.Len() != 0 {
		t.Fatalf("204 must not be compressed: %q %d", rec.Header().Get("Content-Encoding"), rec.Body.Len())
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	Compression(http.HandlerFunc(hello)).ServeHTTP(rec, req)
	if rec.Header().Get("Content-Encoding") != "" {
		t.Fatalf("websocket upgrade must bypass compression")
	}
}

func TestAccessLogRecordsRequest(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	h := RequestID(AccessLog(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, "busy")
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/spin", nil))

	out := buf.String()
	for _, want := range []string{`"msg":"http.access"`, `"status":409`, `"level":"WARN"`, `"bytes":4`, `"path":"/v1/spin"`, `"req_id":"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("access log missing %s: %s", want, out)
		}
	}
}
