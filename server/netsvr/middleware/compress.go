package middleware

import (
	"bufio"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

func isWebSocketUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket") ||
		strings.Contains(strings.ToLower(r.Header.Get("Connection")), "upgrade")
}

func isNoBodyStatus(code int) bool {
	// 204 No Content, 304 Not Modified, 1xx Informational
	return (code >= 100 && code < 200) || code == http.StatusNoContent || code == http.StatusNotModified
}

// CompressConfig
type CompressConfig struct {
	GzipLevel int
	ZstdLevel zstd.EncoderLevel
}

var DefaultCompressConfig = CompressConfig{
	GzipLevel: gzip.DefaultCompression,
	ZstdLevel: zstd.SpeedFastest,
}

// encodeWriter 是 gzip.Writer / zstd.Encoder 的共同介面。
type encodeWriter interface {
	io.WriteCloser
	Reset(w io.Writer)
}

// encoder 描述一種 Content-Encoding 與它的 writer pool；依偏好順序排列。
type encoder struct {
	name string
	pool sync.Pool
}

var encoders = []*encoder{
	{name: "zstd", pool: sync.Pool{New: func() any {
		zw, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(DefaultCompressConfig.ZstdLevel),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			panic(err)
		}
		return zw
	}}},
	{name: "gzip", pool: sync.Pool{New: func() any {
		gw, _ := gzip.NewWriterLevel(nil, DefaultCompressConfig.GzipLevel)
		return gw
	}}},
}

func pickEncoder(accept string) *encoder {
	accept = strings.ToLower(accept)
	for _, e := range encoders {
		if strings.Contains(accept, e.name) {
			return e
		}
	}
	return nil
}

func (e *encoder) get(w io.Writer) encodeWriter {
	ew := e.pool.Get().(encodeWriter)
	ew.Reset(w)
	return ew
}

// release 關閉並回收；disabled 時先導向 io.Discard，footer 不會污染 204/304 回應。
func (e *encoder) release(ew encodeWriter, disabled bool) {
	if disabled {
		ew.Reset(io.Discard)
	}
	_ = ew.Close()
	e.pool.Put(ew)
}

// --- ResponseWriter Wrapper ---

type compressResponseWriter struct {
	http.ResponseWriter
	w        io.Writer // 指向 gzip.Writer 或 zstd.Encoder
	disabled bool      // 標記是否動態取消壓縮
}

func (cw *compressResponseWriter) Write(b []byte) (int, error) {
	if cw.disabled {
		return cw.ResponseWriter.Write(b)
	}
	cw.Header().Del("Content-Length")
	if cw.Header().Get("Content-Type") == "" {
		cw.Header().Set("Content-Type", http.DetectContentType(b))
	}
	return cw.w.Write(b)
}

func (cw *compressResponseWriter) WriteHeader(code int) {
	cw.Header().Del("Content-Length")
	if isNoBodyStatus(code) {
		cw.disabled = true
		cw.Header().Del("Content-Encoding")
		cw.Header().Del("Vary")
	}
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *compressResponseWriter) Flush() {
	if !cw.disabled {
		if f, ok := cw.w.(interface{ Flush() error }); ok {
			_ = f.Flush()
		}
	}
	if f, ok := cw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (cw *compressResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := cw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("underlying response writer does not support Hijacker")
	}
	return hj.Hijack()
}

func (cw *compressResponseWriter) Unwrap() http.ResponseWriter { return cw.ResponseWriter }

// Compression 依 Accept-Encoding 選 zstd 或 gzip；WebSocket 與 HEAD 直接放行。
func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead || isWebSocketUpgrade(r) || w.Header().Get("Content-Encoding") != "" {
			next.ServeHTTP(w, r)
			return
		}
		enc := pickEncoder(r.Header.Get("Accept-Encoding"))
		if enc == nil {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Content-Encoding", enc.name)
		w.Header().Add("Vary", "Accept-Encoding")

		ew := enc.get(w)
		cw := &compressResponseWriter{ResponseWriter: w, w: ew}
		defer func() { enc.release(ew, cw.disabled) }()

		next.ServeHTTP(cw, r)
	})
}
