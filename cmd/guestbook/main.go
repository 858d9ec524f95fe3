/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package main

import (
	"context"
	"fmt"
	"guestbook/internal"
	"guestbook/internal/data"
	"guestbook/internal/input"
	"guestbook/internal/nlog"
	"guestbook/internal/service"
	"os"
	"os/signal"
	"syscall"

	"github.com/mama165/sdk-go/logs"
)

// Exit codes
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Guestbook terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires the components and serves until SIGINT or SIGTERM
func run() (int, error) {
	// 1. Configuration & Logger
	config, err := internal.LoadConfig()
	if err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	serviceLogger := nlog.NewServiceLogger(logs.GetLoggerFromString(config.LogLevel), true)
	mainLogger := serviceLogger.RegisterSubsystem("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Storage gateway, connected eagerly so a wrong configuration stops the process right away
	dialector, err := data.NewDialectorFactory(config)
	if err != nil {
		return exitConfig, err
	}
	storage := data.NewStorageManager(dialector, config.DBConnectTimeout, serviceLogger.RegisterSubsystem("gateway"))

	if err := storage.Ping(ctx); err != nil {
		return exitRuntime, fmt.Errorf("initial connection failed: %w", err)
	}
	mainLogger.Logf("Connected to the %s store", config.DBDriver)

	if config.AutoMigrate {
		if err := storage.Migrate(ctx); err != nil {
			return exitRuntime, err
		}
	}

	// 3. Service & HTTP input
	messageService := service.NewMessageService(storage, serviceLogger.RegisterSubsystem("service"))

	inputManager := input.NewInputManager()
	inputManager.SetLogger(serviceLogger.RegisterSubsystem("http"))
	inputManager.SetMessageService(messageService)

	if err := inputManager.Run(ctx, input.NewIptConfig(config)); err != nil {
		return exitRuntime, fmt.Errorf("http server failed: %w", err)
	}

	mainLogger.Logf("Guestbook stopped")
	return exitOK, nil
}
