package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConfig configures ConnectPostgres.
type PostgresConfig struct {
	ConnectionString  string        `env:"PG_CONN_URL"`                            // ConnectionString is the connection string to the database.
	MaxOpenConns      int32         `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`      // MaxOpenConns is the maximum number of open connections.
	MaxIdleConns      int32         `env:"PG_MAX_IDLE_CONNS" envDefault:"2"`       // MaxIdleConns is the number of connections kept open.
	HealthCheckPeriod time.Duration `env:"PG_HEALTHCHECK_PERIOD" envDefault:"1m"`  // HealthCheckPeriod is the period between pool health checks.
	MaxConnIdleTime   time.Duration `env:"PG_MAX_CONN_IDLE_TIME" envDefault:"10m"` // MaxConnIdleTime closes connections idle for longer.
	RetryAttempts     int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`       // RetryAttempts is the number of connection attempts.
	RetryInterval     time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"5s"`      // RetryInterval is the base pause between attempts.
}

// ConnectPostgres opens a pool, backing off linearly between failed attempts.
func ConnectPostgres(ctx context.Context, cfg PostgresConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}
	poolCfg.MaxConns = cfg.MaxOpenConns
	poolCfg.MinConns = cfg.MaxIdleConns
	poolCfg.HealthCheckPeriod = cfg.HealthCheckPeriod
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime

	for i := range cfg.RetryAttempts {
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		time.Sleep(time.Duration(i+1) * cfg.RetryInterval)
	}

	return nil, ErrFailedToOpenDBConnection
}

// rowQuerier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresColumn checks whether a row with the value exists in table.column.
type PostgresColumn struct {
	db    rowQuerier
	query string
}

// NewPostgresColumn returns a checker over table.column. Identifiers are
// quoted, so they may contain a schema: "auth.users".
func NewPostgresColumn(db rowQuerier, table, column string) *PostgresColumn {
	query := fmt.Sprintf(
		"SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)",
		identifier(table), pgx.Identifier{column}.Sanitize(),
	)
	return &PostgresColumn{db: db, query: query}
}

func (c *PostgresColumn) Exists(ctx context.Context, value string) (bool, error) {
	var exists bool
	if err := c.db.QueryRow(ctx, c.query, value).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Query returns the SQL statement the checker runs.
func (c *PostgresColumn) Query() string {
	return c.query
}

func identifier(name string) string {
	var parts pgx.Identifier
	start := 0
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			parts = append(parts, name[start:i])
			start = i + 1
		}
	}
	parts = append(parts, name[start:])
	return parts.Sanitize()
}

// PostgresHealthcheck returns a probe for pool.
func PostgresHealthcheck(pool *pgxpool.Pool) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
