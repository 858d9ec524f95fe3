/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package nlog

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Logger is something that can print, using Logf and Errorf, a format string
type Logger interface {
	Logf(format string, v ...any)
	Errorf(format string, v ...any)
}

// subsystemLogger is a logger that writes only on behalf of one subsystem of its service logger
type subsystemLogger struct {
	name   string
	logger *ServiceLogger
}

// Logf for a subsystem logger is just a wrap for the Logf of its service logger, giving its only name
func (s *subsystemLogger) Logf(format string, v ...any) {
	s.logger.Logf(s.name, format, v...)
}

func (s *subsystemLogger) Errorf(format string, v ...any) {
	s.logger.Errorf(s.name, format, v...)
}

// ServiceLogger hands out one logger per subsystem (http, gateway, service...), all writing through the same slog.Logger.
// Each record carries the subsystem name as an attribute.
// It's safe to share amongst goroutines since it has an internal lock
type ServiceLogger struct {
	base *slog.Logger

	lock       sync.RWMutex
	subsystems map[string]*slog.Logger // Maps a subsystem name to its logger

	enabled atomic.Bool
}

// NewServiceLogger creates a ServiceLogger writing through base. When logging is false nothing is written until EnableLogging
func NewServiceLogger(base *slog.Logger, logging bool) *ServiceLogger {
	s := &ServiceLogger{
		base:       base,
		subsystems: make(map[string]*slog.Logger),
	}
	s.enabled.Store(logging)
	return s
}

// RegisterSubsystem registers a new subsystem, returning its Logger.
// Registering an existing name returns a logger for the same subsystem
func (s *ServiceLogger) RegisterSubsystem(name string) Logger {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.subsystems[name]; !ok {
		s.subsystems[name] = s.base.With("subsystem", name)
	}
	return &subsystemLogger{name, s}
}

// GetSubsystemLogger retrieves a subsystem logger, if previously registered.
// If successful, error is nil
func (s *ServiceLogger) GetSubsystemLogger(name string) (Logger, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if _, ok := s.subsystems[name]; !ok {
		return nil, fmt.Errorf("The subsystem was not registered {%s}", name)
	}
	return &subsystemLogger{name, s}, nil
}

// EnableLogging enables the logging done by this logger
func (s *ServiceLogger) EnableLogging() {
	s.enabled.Store(true)
}

// DisableLogging disables the logging done by this logger
func (s *ServiceLogger) DisableLogging() {
	s.enabled.Store(false)
}

// Logf writes an info record for the subsystem name
func (s *ServiceLogger) Logf(name, format string, v ...any) {
	if l, ok := s.loggerFor(name); ok {
		l.Info(fmt.Sprintf(format, v...))
	}
}

// Errorf writes an error record for the subsystem name
func (s *ServiceLogger) Errorf(name, format string, v ...any) {
	if l, ok := s.loggerFor(name); ok {
		l.Error(fmt.Sprintf(format, v...))
	}
}

func (s *ServiceLogger) loggerFor(name string) (*slog.Logger, bool) {
	if !s.enabled.Load() {
		return nil, false
	}
	s.lock.RLock()
	l, ok := s.subsystems[name]
	s.lock.RUnlock()
	return l, ok
}

// Printer adapts a Logger to the Printf writers expected by gorm's logger
type Printer struct {
	logger Logger
}

func NewPrinter(l Logger) *Printer {
	return &Printer{l}
}

func (p *Printer) Printf(format string, v ...any) {
	p.logger.Logf(format, v...)
}

type nopLogger struct{}

func (nopLogger) Logf(string, ...any)   {}
func (nopLogger) Errorf(string, ...any) {}

// Nop returns a Logger that discards everything
func Nop() Logger {
	return nopLogger{}
}
