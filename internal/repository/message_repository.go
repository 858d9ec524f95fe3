/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package repository

import (
	"context"
	"guestbook/internal/entity"

	"gorm.io/gorm"
)

// This repository runs the statements on the messages table. It only allows C and R (Create and Read) operations,
// entries are never updated nor deleted.
// It is bound to a single gorm session, which is owned (and closed) by the caller.
type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error // Inserts a message, filling its ID
	GetAll(ctx context.Context) ([]*entity.Message, error)     // Retrieves all the messages, newest first
}

// Implementation of the repository using gorm, the dialect depends on the session it's given
type GormMessageRepository struct {
	db *gorm.DB
}

func NewGormMessageRepository(db *gorm.DB) MessageRepository {
	return &GormMessageRepository{db}
}

func (repo *GormMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	// Values are bound as parameters by gorm. Commit happens before Transaction returns,
	// any error rolls everything back so no partial row is ever visible
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(message).Error
	})
}

func (repo *GormMessageRepository) GetAll(ctx context.Context) ([]*entity.Message, error) {
	messages := make([]*entity.Message, 0)
	err := repo.db.WithContext(ctx).Order("m_id DESC").Find(&messages).Error
	return messages, err
}
