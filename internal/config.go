/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is read once at startup from the environment (and an optional .env file)
type Config struct {
	DBDriver         string        `env:"DB_DRIVER,default=postgres"`
	DBHost           string        `env:"DB_HOST"`
	DBPort           int           `env:"DB_PORT,default=5432"`
	DBName           string        `env:"DB_NAME"`
	DBUser           string        `env:"DB_USER"`
	DBPassword       string        `env:"DB_PASSWORD"`
	DBSSLMode        string        `env:"DB_SSLMODE,default=disable"`
	DBPath           string        `env:"DB_PATH,default=guestbook.db"`
	DBConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT,default=5s"`
	AutoMigrate      bool          `env:"DB_AUTO_MIGRATE,default=true"`

	HTTPServerPort    int           `env:"HTTP_SERVER_PORT,default=8080"`
	ReadTimeout       time.Duration `env:"READ_TIMEOUT,default=10s"`
	WriteTimeout      time.Duration `env:"WRITE_TIMEOUT,default=10s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
	MaxFormBytes      int           `env:"MAX_FORM_BYTES,default=1048576"`
	TemplateDirectory string        `env:"TEMPLATE_DIRECTORY"`
	SessionSecret     string        `env:"SESSION_SECRET"`
	SecureCookies     bool          `env:"SECURE_COOKIES,default=false"`

	LogLevel string `env:"LOG_LEVEL,default=INFO"`
}

// LoadConfig reads the configuration from the environment, loading a .env file first if there is one.
// It returns an error if the environment cannot be parsed or required values are missing
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env file: %w", err)
	}

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return nil, fmt.Errorf("could not parse environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks that every value needed by the selected driver is set, reporting all the missing ones at once
func (c *Config) Validate() error {
	var missing []string

	switch c.DBDriver {
	case DriverPostgres:
		if c.DBHost == "" {
			missing = append(missing, "DB_HOST")
		}
		if c.DBName == "" {
			missing = append(missing, "DB_NAME")
		}
		if c.DBUser == "" {
			missing = append(missing, "DB_USER")
		}
	case DriverSQLite:
		if c.DBPath == "" {
			missing = append(missing, "DB_PATH")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q, expected %q or %q", c.DBDriver, DriverPostgres, DriverSQLite)
	}

	if c.SessionSecret == "" {
		missing = append(missing, "SESSION_SECRET")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if c.HTTPServerPort <= 0 || c.HTTPServerPort > 65535 {
		return fmt.Errorf("HTTP_SERVER_PORT out of range: %d", c.HTTPServerPort)
	}
	if c.MaxFormBytes <= 0 {
		return fmt.Errorf("MAX_FORM_BYTES must be positive, got %d", c.MaxFormBytes)
	}
	return nil
}

// PostgresDSN returns the keyword/value connection string for the postgres driver
func (c *Config) PostgresDSN() string {
	timeout := int(c.DBConnectTimeout.Seconds())
	if timeout < 1 {
		timeout = 1
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		quoteDSNValue(c.DBHost),
		c.DBPort,
		quoteDSNValue(c.DBUser),
		quoteDSNValue(c.DBPassword),
		quoteDSNValue(c.DBName),
		quoteDSNValue(c.DBSSLMode),
		timeout,
	)
}

// quoteDSNValue single quotes a value, escaping backslashes and quotes, so passwords with spaces survive
func quoteDSNValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// RetrieveWebTemplates maps each page of fsys to the files needed to render it:
// every layout under layouts/ plus the page itself
func RetrieveWebTemplates(fsys fs.FS) (map[string][]string, error) {

	mapping := make(map[string][]string)

	layoutFiles, err := fs.Glob(fsys, path.Join("layouts", "*.html"))
	if err != nil {
		return nil, err
	}

	pageFiles, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return nil, err
	}

	for _, page := range pageFiles {
		files := append([]string{}, layoutFiles...)
		files = append(files, page)
		mapping[path.Base(page)] = files
	}

	return mapping, nil
}
