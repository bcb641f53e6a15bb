package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/radieske/sportsbook-edge/pkg/contracts/events"
)

// PostgresRepo persiste os eventos de auditoria do gateway
type PostgresRepo struct {
	DB *sql.DB
}

// NewPostgresRepo retorna uma instância de repositório Postgres
func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{DB: db}
}

const schema = `
	CREATE TABLE IF NOT EXISTS edge_audit_subgraph (
	  id          UUID PRIMARY KEY,
	  request_id  TEXT NOT NULL DEFAULT '',
	  host        TEXT NOT NULL DEFAULT '',
	  outcome     TEXT NOT NULL,
	  status      INTEGER NOT NULL,
	  duration_ms BIGINT NOT NULL,
	  ts          TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS edge_audit_subgraph_ts_idx ON edge_audit_subgraph (ts);

	CREATE TABLE IF NOT EXISTS edge_audit_geo (
	  id         UUID PRIMARY KEY,
	  request_id TEXT NOT NULL DEFAULT '',
	  country    TEXT NOT NULL,
	  path       TEXT NOT NULL,
	  blocked    BOOLEAN NOT NULL,
	  ts         TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS edge_audit_geo_country_idx ON edge_audit_geo (country);
`

// EnsureSchema cria as tabelas se ainda não existirem
func (r *PostgresRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure audit schema: %w", err)
	}
	return nil
}

// InsertSubgraph grava um request do proxy.
// Reentregas do Kafka (mesmo id) são ignoradas e voltam inserted=false.
func (r *PostgresRepo) InsertSubgraph(ctx context.Context, e events.SubgraphRequest) (bool, error) {
	const q = `
		INSERT INTO edge_audit_subgraph
		  (id, request_id, host, outcome, status, duration_ms, ts)
		VALUES
		  ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO NOTHING
	`
	res, err := r.DB.ExecContext(ctx, q,
		e.ID, e.RequestID, e.Host, e.Outcome, e.Status, e.DurationMs, e.Ts,
	)
	return inserted(res, err)
}

// InsertGeo grava uma decisão de bloqueio; mesma regra de reentrega
func (r *PostgresRepo) InsertGeo(ctx context.Context, e events.GeoDecision) (bool, error) {
	const q = `
		INSERT INTO edge_audit_geo
		  (id, request_id, country, path, blocked, ts)
		VALUES
		  ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO NOTHING
	`
	res, err := r.DB.ExecContext(ctx, q,
		e.ID, e.RequestID, e.Country, e.Path, e.Blocked, e.Ts,
	)
	return inserted(res, err)
}

func inserted(res sql.Result, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
