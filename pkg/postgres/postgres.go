package postgres

import (
	"context"
	"embed"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

type DB struct {
	Host     string `yaml:"host" envconfig:"DB_HOST" default:"localhost"`
	Port     string `yaml:"port" envconfig:"DB_PORT" default:"5432"`
	User     string `yaml:"user" envconfig:"DB_USER" default:"postgres"`
	Password string `yaml:"password" envconfig:"DB_PASSWORD" default:"postgres"`
	Name     string `yaml:"name" envconfig:"DB_NAME" default:"library"`
	SSLMode  string `yaml:"sslmode" envconfig:"DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`

	ConnectRetries int           `envconfig:"DB_CONNECT_RETRIES" default:"5"`
	ConnectBackoff time.Duration `envconfig:"DB_CONNECT_BACKOFF" default:"2s"`
}

func (d *DB) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// NewPostgresDB opens a pooled connection via the pgx stdlib driver, pinging with a
// bounded fixed-backoff retry, then applies the embedded goose migrations.
func NewPostgresDB(ctx context.Context, cfg *DB, migrations embed.FS) (*sqlx.DB, error) {
	db, err := sqlx.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "sqlx.Open")
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	for i := 0; ; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		if i >= cfg.ConnectRetries {
			return nil, errors.Wrapf(err, "ping after %d retries", cfg.ConnectRetries)
		}
		select {
		case <-time.After(cfg.ConnectBackoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	goose.SetBaseFS(migrations)
	if err = goose.SetDialect("postgres"); err != nil {
		return nil, errors.Wrap(err, "goose.SetDialect")
	}
	if err = goose.Up(db.DB, "."); err != nil {
		return nil, errors.Wrap(err, "goose.Up")
	}
	return db, nil
}
