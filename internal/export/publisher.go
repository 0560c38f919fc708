// Copyright (c) 2025 Bimigrate
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package export publishes converted expressions to the staging PostgreSQL
// database the downstream Power BI tooling reads from. Publishing is additive:
// re-publishing the same scope never duplicates rows and never overwrites a
// row someone has already reviewed.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"bimigrate/cli/internal/conversion"
	"bimigrate/cli/internal/logging"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS converted_expressions (
	platform          text        NOT NULL,
	scope_id          text        NOT NULL,
	source_id         text        NOT NULL,
	name              text        NOT NULL DEFAULT '',
	source_expression text        NOT NULL,
	target_expression text        NOT NULL,
	published_at      timestamptz NOT NULL DEFAULT now(),
	PRIMARY KEY (platform, scope_id, source_id)
)`

const insertSQL = `
INSERT INTO converted_expressions
	(platform, scope_id, source_id, name, source_expression, target_expression)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (platform, scope_id, source_id) DO NOTHING`

// Publisher writes conversion results into the staging database.
type Publisher struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

// Open connects to the staging database and verifies the connection. The DSN
// must already be normalized (see the dsn package).
func Open(ctx context.Context, connString string) (*Publisher, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("staging database config: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("staging database unreachable: %w", err)
	}

	return &Publisher{pool: pool, log: logging.L()}, nil
}

// Close releases the connection pool.
func (p *Publisher) Close() { p.pool.Close() }

// EnsureSchema creates the staging table when it does not exist yet.
func (p *Publisher) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure staging schema: %w", err)
	}
	return nil
}

// Publish inserts the items for the given platform and scope inside one
// transaction and returns how many rows were actually new. Rows already
// present are left untouched.
func (p *Publisher) Publish(ctx context.Context, platformID, scopeID string, items []conversion.Converted) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}

	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire staging connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin publish transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var inserted int64
	for _, it := range items {
		if it.SourceID == "" {
			continue
		}
		ct, err := tx.Exec(ctx, insertSQL,
			platformID, scopeID, it.SourceID, it.Name, it.SourceExpression, it.TargetExpression)
		if err != nil {
			return 0, fmt.Errorf("insert %s: %w", it.SourceID, err)
		}
		inserted += ct.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit publish transaction: %w", err)
	}

	p.log.Info("published conversions",
		zap.String("platform", platformID), zap.String("scope", scopeID),
		zap.Int("items", len(items)), zap.Int64("inserted", inserted))
	return inserted, nil
}
