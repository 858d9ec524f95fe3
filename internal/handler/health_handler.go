/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package handler

import (
	"guestbook/internal/nlog"
	"guestbook/internal/service"
	"net/http"
)

// HealthHandler reports whether the message store can be reached
type HealthHandler struct {
	messageService service.MessageService
	logger         nlog.Logger
}

func NewHealthHandler(messageService service.MessageService, logger nlog.Logger) *HealthHandler {
	return &HealthHandler{
		messageService: messageService,
		logger:         logger,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.messageService.Ping(r.Context()); err != nil {
		h.logger.Errorf("Health check failed {%v}", err)
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
