/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package handler

import (
	"errors"
	"guestbook/internal/nlog"
	"guestbook/internal/service"
	"guestbook/internal/view"
	"net/http"

	"github.com/gorilla/sessions"
)

// MessageHandler is used to handle the submit and listing routes
type MessageHandler struct {
	messageService service.MessageService
	store          sessions.Store
	renderer       *view.PageRenderer
	logger         nlog.Logger
	maxFormBytes   int64
}

func NewMessageHandler(messageService service.MessageService, store sessions.Store, renderer *view.PageRenderer, logger nlog.Logger, maxFormBytes int64) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		store:          store,
		renderer:       renderer,
		logger:         logger,
		maxFormBytes:   maxFormBytes,
	}
}

// Submit handles the root path
// If the method is GET, the submission form is shown
// If it's POST, it reads namn and text from the form body and stores them, redirecting to the listing
func (m *MessageHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		m.showPage(w, r, view.PageIndex, map[string]any{})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, m.maxFormBytes)
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "The form is too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Error occurred while parsing the form", http.StatusBadRequest)
		return
	}

	message, err := m.messageService.Submit(r.Context(), r.PostForm.Get("namn"), r.PostForm.Get("text"))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	m.logger.Logf("Stored message {id=%d}", message.ID)

	session, _ := m.store.Get(r, sessionName)
	session.AddFlash(flashSaved)
	if err := session.Save(r, w); err != nil {
		m.logger.Errorf("Could not save the flash {%v}", err)
	}

	http.Redirect(w, r, ListingPath, http.StatusSeeOther)
}

// List shows every message, newest first
// Clients asking for application/json get the raw listing
func (m *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	messages, err := m.messageService.ListAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	if wantsJSON(r) {
		if err := writeJSON(w, messages); err != nil {
			m.logger.Errorf("Could not encode the listing {%v}", err)
			http.Error(w, "Could not encode the listing", http.StatusInternalServerError)
		}
		return
	}

	m.showPage(w, r, view.PageMessages, map[string]any{"Messages": messages})
}

// Renders a page, adding the pending flashes of the session to data
func (m *MessageHandler) showPage(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	session, _ := m.store.Get(r, sessionName)
	flashes := session.Flashes()
	data["Flashes"] = flashes

	buf, err := renderPage(m.renderer, name, data)
	if err != nil {
		m.logger.Errorf("Could not render {%s}: %v", name, err)
		http.Error(w, "Could not render the page", http.StatusInternalServerError)
		return
	}

	if len(flashes) > 0 {
		if err := session.Save(r, w); err != nil {
			m.logger.Errorf("Could not clear the flashes {%v}", err)
		}
	}
	writeHTML(w, buf)
}
