//go:build tools

// Package guestbook tracks the tools run through go generate (mockgen)
package guestbook

import (
	_ "go.uber.org/mock/mockgen"
)
