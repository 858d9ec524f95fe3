/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package input

import (
	"context"
	"errors"
	"fmt"
	"guestbook/internal"
	"guestbook/internal/handler"
	"guestbook/internal/middleware"
	"guestbook/internal/nlog"
	"guestbook/internal/service"
	"guestbook/internal/view"
	"io/fs"
	"net"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
)

type IptConfig struct {
	ServerPort        uint16
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	ShutdownTimeout   time.Duration
	MaxFormBytes      int64
	TemplateDirectory string // Empty means the templates embedded in the binary
	SecretKey         string
	SecureCookies     bool
}

// NewIptConfig extracts the HTTP side of the configuration
func NewIptConfig(cfg *internal.Config) *IptConfig {
	return &IptConfig{
		ServerPort:        uint16(cfg.HTTPServerPort),
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		ShutdownTimeout:   cfg.ShutdownTimeout,
		MaxFormBytes:      int64(cfg.MaxFormBytes),
		TemplateDirectory: cfg.TemplateDirectory,
		SecretKey:         cfg.SessionSecret,
		SecureCookies:     cfg.SecureCookies,
	}
}

type InputManager struct { // Manages HTTP input of the guestbook
	running atomic.Bool
	paused  atomic.Bool

	logger nlog.Logger
	server *http.Server
	addr   string

	stopOnce            sync.Once
	stopFromOutsideChan chan struct{}
	doneFromInsideChan  chan struct{}

	messageService service.MessageService
}

func NewInputManager() *InputManager {
	return &InputManager{
		running:             atomic.Bool{},
		paused:              atomic.Bool{},
		stopFromOutsideChan: make(chan struct{}),
		doneFromInsideChan:  make(chan struct{}),
	}
}

func (i *InputManager) IsReady() bool {
	return i.logger != nil && i.messageService != nil
}

func (i *InputManager) IsRunning() bool {
	return i.running.Load()
}

func (i *InputManager) SetLogger(l nlog.Logger) {
	i.logger = l
}

func (i *InputManager) SetMessageService(ms service.MessageService) {
	i.messageService = ms
}

func (i *InputManager) Logf(format string, a ...any) {
	i.logger.Logf(format, a...)
}

func (i *InputManager) SetPause(paused bool) {
	i.paused.Store(paused)
}

func (i *InputManager) IsPaused() bool {
	return i.paused.Load()
}

// Addr returns the address the server listens on, once running
func (i *InputManager) Addr() string {
	if !i.IsRunning() {
		return ""
	}
	return i.addr
}

// PauseMiddleware answers 503 to every request while the manager is paused
func (i *InputManager) PauseMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if i.IsPaused() {
			w.Header().Set("Retry-After", "5")
			http.Error(w, "The guestbook is not accepting requests right now", http.StatusServiceUnavailable)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NewRouter builds the routes of the guestbook, with their middleware chain
func (i *InputManager) NewRouter(cfg *IptConfig) (http.Handler, error) {
	if !i.IsReady() {
		return nil, fmt.Errorf("The Input manager is not ready... Missing components")
	}

	cookieStore := sessions.NewCookieStore([]byte(cfg.SecretKey))
	cookieStore.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Hour.Seconds()),
	}

	// Load templates and page renderer
	var templateFS fs.FS = view.Templates()
	if cfg.TemplateDirectory != "" {
		templateFS = os.DirFS(cfg.TemplateDirectory)
	}
	templates, err := internal.RetrieveWebTemplates(templateFS)
	if err != nil {
		return nil, err
	}
	renderer, err := view.NewPageRenderer(templateFS, templates)
	if err != nil {
		return nil, err
	}

	// Handlers
	messageHandler := handler.NewMessageHandler(i.messageService, cookieStore, renderer, i.logger, cfg.MaxFormBytes)
	healthHandler := handler.NewHealthHandler(i.messageService, i.logger)

	// Router
	r := mux.NewRouter()
	r.Use(middleware.RequestID(), middleware.AccessLog(i.logger), i.PauseMiddleware)

	r.HandleFunc(handler.SubmitPath, messageHandler.Submit).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc(handler.ListingPath, messageHandler.List).Methods(http.MethodGet)
	r.HandleFunc(handler.HealthPath, healthHandler.Health).Methods(http.MethodGet)

	return r, nil
}

// Run serves HTTP until ctx is cancelled or Stop is called, then shuts down gracefully
func (i *InputManager) Run(ctx context.Context, cfg *IptConfig) error {
	if !i.IsReady() {
		return fmt.Errorf("The Input manager is not ready... Missing components")
	}
	i.Logf("Input service started...")

	router, err := i.NewRouter(cfg)
	if err != nil {
		return err
	}

	i.server = &http.Server{
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.ServerPort))
	if err != nil {
		return err
	}
	i.addr = listener.Addr().String()

	go func() {
		select {
		case <-ctx.Done():
			i.Logf("Received stop signal. Shutting down...")
		case <-i.stopFromOutsideChan:
			i.Logf("Server was asked to stop. Shutting down...")
		}

		i.SetPause(true)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := i.server.Shutdown(shutdownCtx); err != nil {
			i.logger.Errorf("Error during shutdown... %v", err)
		}
		close(i.doneFromInsideChan)
	}()

	i.Logf("Http server started on {%s}", i.addr)
	i.running.Store(true)

	err = i.server.Serve(listener)
	if !errors.Is(err, http.ErrServerClosed) {
		i.logger.Errorf("FATAL: HTTP Server error{%v}", err)
		i.stop()
		i.running.Store(false)
		return err
	}

	<-i.doneFromInsideChan
	i.running.Store(false)
	i.Logf("Http server stopped")
	return nil
}

func (i *InputManager) stop() {
	i.stopOnce.Do(func() { close(i.stopFromOutsideChan) })
}

// Stop asks a running server to shut down and waits for it
func (i *InputManager) Stop() {
	if !i.IsRunning() {
		return
	}
	i.stop()
	<-i.doneFromInsideChan
}
