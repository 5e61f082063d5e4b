// Package dbmanager manages the PostgreSQL connection pool used by the
// template service. Connections are handed out with conservative session
// timeouts so a stuck statement cannot hold the pool hostage.
package dbmanager

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// Pool wraps a *sql.DB configured for the template service workload.
type Pool struct {
	db *sql.DB
}

// sessionParams are applied to every connection handed out by Conn. The
// values bound each statement so one slow write cannot wedge the pool.
var sessionParams = map[string]string{
	"lock_timeout":                        "5s",
	"statement_timeout":                   "5s",
	"idle_in_transaction_session_timeout": "5s",
}

// NewPostgresPool opens a connection pool for the given DSN using the pgx
// stdlib driver and verifies connectivity with a ping.
func NewPostgresPool(dsn string) (*Pool, error) {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Error().Err(err).Msg("failed to open db")
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		log.Error().Err(err).Msg("failed to ping db")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Pool{db: sqlDB}, nil
}

// Conn returns a dedicated connection with session timeouts applied. The
// caller owns the connection and must Close it to return it to the pool.
func (p *Pool) Conn(ctx context.Context) (*sql.Conn, error) {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to obtain connection")
		return nil, fmt.Errorf("failed to obtain database connection: %w", err)
	}

	for param, value := range sessionParams {
		query := fmt.Sprintf("SET %s = %s", pq.QuoteIdentifier(param), pq.QuoteLiteral(value))
		if _, err := conn.ExecContext(ctx, query); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set %s: %w", param, err)
		}
	}

	return conn, nil
}

// DB exposes the underlying pool for single-statement queries.
func (p *Pool) DB() *sql.DB {
	return p.db
}

// Close shuts down the pool.
func (p *Pool) Close() error {
	return p.db.Close()
}
