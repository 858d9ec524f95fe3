/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"guestbook/internal/apperrors"
	"guestbook/internal/view"
	"mime"
	"net/http"
	"strings"

	"github.com/samber/lo"
)

// Routes served by the guestbook
const (
	SubmitPath  = "/"
	ListingPath = "/alla_meddelanden"
	HealthPath  = "/healthz"
)

const (
	sessionName = "guestbook-session"
	flashSaved  = "Meddelandet sparades"
)

// Maps a service error to the status code sent back to the caller
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrMissingField):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrConnection):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Renders page name into a buffer, nothing reaches the client if the template fails
func renderPage(renderer *view.PageRenderer, name string, data any) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := renderer.RenderTemplate(&buf, name, data); err != nil {
		return nil, err
	}
	return &buf, nil
}

func writeHTML(w http.ResponseWriter, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
	return nil
}

// Checks if the Accept header lists application/json
func wantsJSON(r *http.Request) bool {
	accepted := strings.Split(r.Header.Get("Accept"), ",")
	return lo.SomeBy(accepted, func(part string) bool {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		return err == nil && mediaType == "application/json"
	})
}
