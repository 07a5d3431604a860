package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq" // Import postgres driver
)

type connectConfig struct {
	maxOpenConns    int
	maxIdleConns    int
	connMaxLifetime time.Duration
	pingTimeout     time.Duration
	pingAttempts    int
	retryDelay      time.Duration
}

type Option func(*connectConfig)

// WithPingTimeout bounds each ping attempt.
func WithPingTimeout(d time.Duration) Option {
	return func(c *connectConfig) { c.pingTimeout = d }
}

// WithPingAttempts retries the initial ping, waiting delay between attempts. Useful when the
// database container starts together with the service.
func WithPingAttempts(n int, delay time.Duration) Option {
	return func(c *connectConfig) {
		if n > 0 {
			c.pingAttempts = n
		}
		c.retryDelay = delay
	}
}

func WithMaxOpenConns(n int) Option {
	return func(c *connectConfig) {
		c.maxOpenConns = n
		c.maxIdleConns = n
	}
}

// Connect opens a pooled handle and returns it once the database answers a ping.
func Connect(ctx context.Context, dsn string, opts ...Option) (*sql.DB, error) {
	cfg := connectConfig{
		maxOpenConns:    25,
		maxIdleConns:    25,
		connMaxLifetime: 5 * time.Minute,
		pingTimeout:     5 * time.Second,
		pingAttempts:    1,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create database handle: %w", err)
	}
	db.SetMaxOpenConns(cfg.maxOpenConns)
	db.SetMaxIdleConns(cfg.maxIdleConns)
	db.SetConnMaxLifetime(cfg.connMaxLifetime)

	if err := ping(ctx, db, cfg); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Printf("failed to close database handle after ping error: %v", closeErr)
		}
		return nil, err
	}
	return db, nil
}

func ping(ctx context.Context, db *sql.DB, cfg connectConfig) error {
	var err error
	for attempt := 1; attempt <= cfg.pingAttempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, cfg.pingTimeout)
		err = db.PingContext(pingCtx)
		cancel()
		if err == nil {
			return nil
		}
		if attempt == cfg.pingAttempts {
			break
		}
		log.Printf("database ping attempt %d/%d failed: %v", attempt, cfg.pingAttempts, err)
		select {
		case <-ctx.Done():
			return fmt.Errorf("gave up connecting to database: %w", ctx.Err())
		case <-time.After(cfg.retryDelay):
		}
	}
	return fmt.Errorf("failed to ping database after %d attempt(s): %w", cfg.pingAttempts, err)
}
