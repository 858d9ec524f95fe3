/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type bufferLogger struct {
	lines []string
}

func (b *bufferLogger) Logf(format string, v ...any) {
	b.lines = append(b.lines, fmt.Sprintf(format, v...))
}

func (b *bufferLogger) Errorf(format string, v ...any) {
	b.lines = append(b.lines, "ERROR "+fmt.Sprintf(format, v...))
}

func TestRequestIDIsGenerated(t *testing.T) {
	req := require.New(t)

	var seen string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(RequestIDHeader)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	req.NotEmpty(seen)
	_, err := uuid.Parse(seen)
	req.NoError(err)
	req.Equal(seen, rr.Header().Get(RequestIDHeader))
}

func TestRequestIDIsKept(t *testing.T) {
	req := require.New(t)

	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(RequestIDHeader, "req-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)

	req.Equal("req-123", rr.Header().Get(RequestIDHeader))
}

func TestAccessLogRecordsStatus(t *testing.T) {
	req := require.New(t)
	logger := &bufferLogger{}

	h := AccessLog(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/alla_meddelanden", http.StatusSeeOther)
	}))

	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.Header.Set(RequestIDHeader, "req-123")
	h.ServeHTTP(httptest.NewRecorder(), r)

	req.Len(logger.lines, 1)
	for _, marker := range []string{"method=POST", "path=/", "status=303", "request_id=req-123"} {
		req.Contains(logger.lines[0], marker)
	}
}

func TestAccessLogImplicitStatusAndBytes(t *testing.T) {
	req := require.New(t)
	logger := &bufferLogger{}

	h := AccessLog(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	req.Len(logger.lines, 1)
	req.Contains(logger.lines[0], "status=200")
	req.Contains(logger.lines[0], "bytes=2")
	req.True(strings.Contains(logger.lines[0], "latency="))
}
