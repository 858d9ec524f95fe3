/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package data

import (
	"context"
	"database/sql"
	"fmt"
	"guestbook/internal"
	"guestbook/internal/apperrors"
	"guestbook/internal/entity"
	"guestbook/internal/nlog"
	"guestbook/internal/repository"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DialectorFactory builds a fresh gorm dialector for every session
type DialectorFactory func() gorm.Dialector

// NewDialectorFactory returns the factory matching the configured driver
func NewDialectorFactory(cfg *internal.Config) (DialectorFactory, error) {
	switch cfg.DBDriver {
	case internal.DriverPostgres:
		dsn := cfg.PostgresDSN()
		return func() gorm.Dialector { return postgres.Open(dsn) }, nil
	case internal.DriverSQLite:
		path := cfg.DBPath
		return func() gorm.Dialector { return sqlite.Open(path) }, nil
	default:
		return nil, fmt.Errorf("unsupported driver {%s}", cfg.DBDriver)
	}
}

// StorageManager is the gateway towards the message store.
// It holds no connection: each operation opens its own session and releases it before returning
type StorageManager struct {
	dialector      DialectorFactory
	connectTimeout time.Duration
	logger         nlog.Logger
	gormLogger     gormlogger.Interface
}

func NewStorageManager(dialector DialectorFactory, connectTimeout time.Duration, logger nlog.Logger) *StorageManager {
	return &StorageManager{
		dialector:      dialector,
		connectTimeout: connectTimeout,
		logger:         logger,
		gormLogger: gormlogger.New(nlog.NewPrinter(logger), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		}),
	}
}

func (s *StorageManager) Logf(format string, v ...any) {
	s.logger.Logf(format, v...)
}

// Session is one connection to the store, valid for a single operation
type Session struct {
	db    *gorm.DB
	sqlDB *sql.DB

	closeOnce sync.Once
	closeErr  error
}

// GetMessageRepository returns the repository bound to this session
func (s *Session) GetMessageRepository() repository.MessageRepository {
	return repository.NewGormMessageRepository(s.db)
}

// Close releases the connection. Closing twice, or closing a session that never opened, is a no-op
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	s.closeOnce.Do(func() {
		if s.sqlDB != nil {
			s.closeErr = s.sqlDB.Close()
		}
	})
	return s.closeErr
}

// Connect opens a session and checks it's alive.
// Unreachable stores or rejected credentials are reported as apperrors.ErrConnection
func (s *StorageManager) Connect(ctx context.Context) (*Session, error) {
	db, err := gorm.Open(s.dialector(), &gorm.Config{
		Logger:               s.gormLogger,
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConnection, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConnection, err)
	}
	session := &Session{db: db, sqlDB: sqlDB}

	// One connection per session, nothing is kept around once it's closed
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, s.connectTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		session.Close()
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConnection, err)
	}

	return session, nil
}

// Ping opens a session and closes it right away
func (s *StorageManager) Ping(ctx context.Context) error {
	session, err := s.Connect(ctx)
	if err != nil {
		return err
	}
	return session.Close()
}

// Migrate makes sure the messages table exists
func (s *StorageManager) Migrate(ctx context.Context) error {
	session, err := s.Connect(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.db.WithContext(ctx).AutoMigrate(&entity.Message{}); err != nil {
		return fmt.Errorf("could not create the messages table: %w", err)
	}
	return nil
}

// Append stores one message, committed before returning
func (s *StorageManager) Append(ctx context.Context, sender, text string) (*entity.Message, error) {
	session, err := s.Connect(ctx)
	if err != nil {
		s.logger.Errorf("Append could not connect {%v}", err)
		return nil, err
	}
	defer session.Close()

	now := time.Now().UTC()
	message := &entity.Message{
		Sender:    sender,
		Text:      text,
		CreatedAt: &now,
	}
	if err := session.GetMessageRepository().Create(ctx, message); err != nil {
		s.logger.Errorf("Insert failed {%v}", err)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrWrite, err)
	}

	s.Logf("Message stored {id=%d}", message.ID)
	return message, nil
}

// ListAll returns every message, newest first. An empty store gives an empty slice
func (s *StorageManager) ListAll(ctx context.Context) ([]*entity.Message, error) {
	session, err := s.Connect(ctx)
	if err != nil {
		s.logger.Errorf("ListAll could not connect {%v}", err)
		return nil, err
	}
	defer session.Close()

	messages, err := session.GetMessageRepository().GetAll(ctx)
	if err != nil {
		s.logger.Errorf("Select failed {%v}", err)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRead, err)
	}
	return messages, nil
}
