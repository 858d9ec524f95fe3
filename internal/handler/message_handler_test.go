/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package handler

import (
	"encoding/json"
	"fmt"
	"guestbook/internal"
	"guestbook/internal/apperrors"
	"guestbook/internal/entity"
	"guestbook/internal/mocks"
	"guestbook/internal/nlog"
	"guestbook/internal/view"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestHandler(t *testing.T, maxFormBytes int64) (*MessageHandler, *mocks.MockMessageService) {
	t.Helper()
	req := require.New(t)

	mapping, err := internal.RetrieveWebTemplates(view.Templates())
	req.NoError(err)
	renderer, err := view.NewPageRenderer(view.Templates(), mapping)
	req.NoError(err)

	ctrl := gomock.NewController(t)
	svc := mocks.NewMockMessageService(ctrl)
	store := sessions.NewCookieStore([]byte("test-session-secret"))
	return NewMessageHandler(svc, store, renderer, nlog.Nop(), maxFormBytes), svc
}

func newFormRequest(values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, SubmitPath, strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestSubmit_GetRendersForm(t *testing.T) {
	req := require.New(t)
	h, _ := newTestHandler(t, 1<<20)

	rr := httptest.NewRecorder()
	h.Submit(rr, httptest.NewRequest(http.MethodGet, SubmitPath, nil))

	req.Equal(http.StatusOK, rr.Code)
	req.Contains(rr.Header().Get("Content-Type"), "text/html")
	req.Contains(rr.Body.String(), `name="namn"`)
	req.NotContains(rr.Body.String(), view.PageIndex)
}

func TestSubmit_PostStoresAndRedirects(t *testing.T) {
	req := require.New(t)
	h, svc := newTestHandler(t, 1<<20)

	svc.EXPECT().
		Submit(gomock.Any(), "Alice", "Hello").
		Return(&entity.Message{ID: 1, Sender: "Alice", Text: "Hello"}, nil).
		Times(1)

	rr := httptest.NewRecorder()
	h.Submit(rr, newFormRequest(url.Values{"namn": {"Alice"}, "text": {"Hello"}}))

	req.Equal(http.StatusSeeOther, rr.Code)
	req.Equal(ListingPath, rr.Header().Get("Location"))

	cookies := rr.Result().Cookies()
	req.NotEmpty(cookies)

	// The flash set by the submission shows once on the listing
	svc.EXPECT().
		ListAll(gomock.Any()).
		Return([]*entity.Message{{ID: 1, Sender: "Alice", Text: "Hello"}}, nil).
		Times(2)

	listing := httptest.NewRequest(http.MethodGet, ListingPath, nil)
	for _, c := range cookies {
		listing.AddCookie(c)
	}
	rr = httptest.NewRecorder()
	h.List(rr, listing)

	req.Equal(http.StatusOK, rr.Code)
	req.Contains(rr.Body.String(), flashSaved)
	req.Contains(rr.Body.String(), "Alice")

	cleared := rr.Result().Cookies()
	again := httptest.NewRequest(http.MethodGet, ListingPath, nil)
	for _, c := range cleared {
		again.AddCookie(c)
	}
	rr = httptest.NewRecorder()
	h.List(rr, again)

	req.Equal(http.StatusOK, rr.Code)
	req.NotContains(rr.Body.String(), flashSaved)
}

func TestSubmit_PostFailures(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"missing field", fmt.Errorf("%w: namn", apperrors.ErrMissingField), http.StatusBadRequest},
		{"unreachable store", fmt.Errorf("%w: dial tcp: connection refused", apperrors.ErrConnection), http.StatusServiceUnavailable},
		{"failed insert", fmt.Errorf("%w: constraint violation", apperrors.ErrWrite), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := require.New(t)
			h, svc := newTestHandler(t, 1<<20)

			svc.EXPECT().Submit(gomock.Any(), "", "Hello").Return(nil, tc.err).Times(1)

			rr := httptest.NewRecorder()
			h.Submit(rr, newFormRequest(url.Values{"text": {"Hello"}}))

			req.Equal(tc.status, rr.Code)
			req.Contains(rr.Body.String(), tc.err.Error())
			req.Empty(rr.Header().Get("Location"))
		})
	}
}

func TestSubmit_PostTooLarge(t *testing.T) {
	req := require.New(t)
	h, svc := newTestHandler(t, 16)

	svc.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	rr := httptest.NewRecorder()
	h.Submit(rr, newFormRequest(url.Values{"namn": {"Alice"}, "text": {strings.Repeat("x", 64)}}))

	req.Equal(http.StatusRequestEntityTooLarge, rr.Code)
}

func TestList_JSON(t *testing.T) {
	t.Run("should return the listing in order", func(t *testing.T) {
		req := require.New(t)
		h, svc := newTestHandler(t, 1<<20)
		listing := []*entity.Message{
			{ID: 2, Sender: "Bob", Text: "Hi"},
			{ID: 1, Sender: "Alice", Text: "Hello"},
		}

		svc.EXPECT().ListAll(gomock.Any()).Return(listing, nil).Times(1)

		r := httptest.NewRequest(http.MethodGet, ListingPath, nil)
		r.Header.Set("Accept", "application/json")
		rr := httptest.NewRecorder()
		h.List(rr, r)

		req.Equal(http.StatusOK, rr.Code)
		req.Equal("application/json", rr.Header().Get("Content-Type"))

		var got []entity.Message
		req.NoError(json.Unmarshal(rr.Body.Bytes(), &got))
		req.Len(got, 2)
		req.Equal("Bob", got[0].Sender)
		req.Equal("Alice", got[1].Sender)
	})

	t.Run("should return an empty array for an empty store", func(t *testing.T) {
		req := require.New(t)
		h, svc := newTestHandler(t, 1<<20)

		svc.EXPECT().ListAll(gomock.Any()).Return([]*entity.Message{}, nil).Times(1)

		r := httptest.NewRequest(http.MethodGet, ListingPath, nil)
		r.Header.Set("Accept", "text/html;q=0.9, application/json")
		rr := httptest.NewRecorder()
		h.List(rr, r)

		req.Equal(http.StatusOK, rr.Code)
		req.JSONEq(`[]`, rr.Body.String())
	})
}

func TestList_Failures(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"unreachable store", fmt.Errorf("%w: timeout", apperrors.ErrConnection), http.StatusServiceUnavailable},
		{"failed query", fmt.Errorf("%w: no such table: messages", apperrors.ErrRead), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := require.New(t)
			h, svc := newTestHandler(t, 1<<20)

			svc.EXPECT().ListAll(gomock.Any()).Return(nil, tc.err).Times(1)

			rr := httptest.NewRecorder()
			h.List(rr, httptest.NewRequest(http.MethodGet, ListingPath, nil))

			req.Equal(tc.status, rr.Code)
			req.Contains(rr.Body.String(), tc.err.Error())
		})
	}
}

func TestWantsJSON(t *testing.T) {
	req := require.New(t)

	for accept, expected := range map[string]bool{
		"":                                  false,
		"text/html":                         false,
		"application/json":                  true,
		"application/json; charset=utf-8":   true,
		"text/html, application/json;q=0.8": true,
		"application/jsonx":                 false,
	} {
		r := httptest.NewRequest(http.MethodGet, ListingPath, nil)
		r.Header.Set("Accept", accept)
		req.Equal(expected, wantsJSON(r), "Accept: %q", accept)
	}
}

func TestHealth(t *testing.T) {
	t.Run("should answer ok when the store is reachable", func(t *testing.T) {
		req := require.New(t)
		svc := mocks.NewMockMessageService(gomock.NewController(t))
		h := NewHealthHandler(svc, nlog.Nop())

		svc.EXPECT().Ping(gomock.Any()).Return(nil).Times(1)

		rr := httptest.NewRecorder()
		h.Health(rr, httptest.NewRequest(http.MethodGet, HealthPath, nil))

		req.Equal(http.StatusOK, rr.Code)
		req.Equal("ok", rr.Body.String())
	})

	t.Run("should answer 503 when the store is unreachable", func(t *testing.T) {
		req := require.New(t)
		svc := mocks.NewMockMessageService(gomock.NewController(t))
		h := NewHealthHandler(svc, nlog.Nop())

		svc.EXPECT().Ping(gomock.Any()).Return(fmt.Errorf("%w: refused", apperrors.ErrConnection)).Times(1)

		rr := httptest.NewRecorder()
		h.Health(rr, httptest.NewRequest(http.MethodGet, HealthPath, nil))

		req.Equal(http.StatusServiceUnavailable, rr.Code)
		req.Contains(rr.Body.String(), "refused")
	})
}
