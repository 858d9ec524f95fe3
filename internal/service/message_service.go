/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

//go:generate go run go.uber.org/mock/mockgen -source=message_service.go -destination=../mocks/mock_message_service.go -package=mocks
package service

import (
	"context"
	"errors"
	"fmt"
	"guestbook/internal/apperrors"
	"guestbook/internal/entity"
	"guestbook/internal/nlog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// Service used by the handlers to submit and list guestbook messages
type MessageService interface {
	Submit(ctx context.Context, sender, text string) (*entity.Message, error) // Validates and stores a new message
	ListAll(ctx context.Context) ([]*entity.Message, error)                   // Retrieves every message, newest first
	Ping(ctx context.Context) error                                           // Checks the store can be reached
}

// Gateway towards the store. Implemented by data.StorageManager
type MessageGateway interface {
	Append(ctx context.Context, sender, text string) (*entity.Message, error)
	ListAll(ctx context.Context) ([]*entity.Message, error)
	Ping(ctx context.Context) error
}

// submission carries the two form fields, named after the form keys so errors can quote them
type submission struct {
	Sender string `form:"namn" validate:"required"`
	Text   string `form:"text" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
	})
	return v
}

type messageService struct {
	gateway MessageGateway
	logger  nlog.Logger
}

func NewMessageService(gateway MessageGateway, logger nlog.Logger) MessageService {
	return &messageService{
		gateway: gateway,
		logger:  logger,
	}
}

func (m *messageService) Logf(format string, v ...any) {
	m.logger.Logf(format, v...)
}

func (m *messageService) Submit(ctx context.Context, sender, text string) (*entity.Message, error) {
	if err := validateSubmission(submission{Sender: sender, Text: text}); err != nil {
		m.Logf("Rejected submission {%v}", err)
		return nil, err
	}

	message, err := m.gateway.Append(ctx, sender, text)
	if err != nil {
		m.logger.Errorf("Could not store the message {%v}", err)
		return nil, err
	}

	m.Logf("Message created correctly {id=%d}", message.ID)
	return message, nil
}

func (m *messageService) ListAll(ctx context.Context) ([]*entity.Message, error) {
	messages, err := m.gateway.ListAll(ctx)
	if err != nil {
		m.logger.Errorf("Could not list the messages {%v}", err)
		return nil, err
	}
	m.Logf("Found %d messages", len(messages))
	return messages, nil
}

func (m *messageService) Ping(ctx context.Context) error {
	return m.gateway.Ping(ctx)
}

// validateSubmission reports every missing field as apperrors.ErrMissingField
func validateSubmission(s submission) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}
	fields := lo.Map([]validator.FieldError(fieldErrors), func(fe validator.FieldError, _ int) string {
		return fe.Field()
	})
	return fmt.Errorf("%w: %s", apperrors.ErrMissingField, strings.Join(fields, ", "))
}
