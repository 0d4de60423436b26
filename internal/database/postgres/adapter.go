package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/txgen/internal/database/common"
	"github.com/Rana718/txgen/internal/generator"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type Adapter struct {
	pool *pgxpool.Pool
	qb   squirrel.StatementBuilderType
}

var columnTypes = []string{"BIGINT", "INTEGER", "DOUBLE PRECISION", "TEXT", "TIMESTAMP", "BOOLEAN", "DOUBLE PRECISION", "TEXT"}

func New() *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (p *Adapter) Connect(ctx context.Context, url string) error {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return fmt.Errorf("failed to parse connection URL: %w", err)
	}

	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	config.MaxConns = 2
	config.MinConns = 0
	config.MaxConnLifetime = 15 * time.Minute
	config.MaxConnIdleTime = 3 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	p.pool = pool
	return nil
}

func (p *Adapter) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func (p *Adapter) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Adapter) CheckTableExists(ctx context.Context, tableName string) (bool, error) {
	query, args, err := p.existsQuery(tableName)
	if err != nil {
		return false, err
	}

	var exists bool
	if err := p.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", tableName, err)
	}
	return exists, nil
}

func (p *Adapter) existsQuery(tableName string) (string, []interface{}, error) {
	return p.qb.Select("COUNT(*) > 0").
		From("information_schema.tables").
		Where(squirrel.Expr("table_schema = current_schema()")).
		Where(squirrel.Eq{"table_name": tableName}).
		ToSql()
}

func (p *Adapter) DropTable(ctx context.Context, tableName string) error {
	if !common.IsValidIdentifier(tableName) {
		return fmt.Errorf("invalid table name: %s", tableName)
	}
	_, err := p.pool.Exec(ctx, "DROP TABLE IF EXISTS "+pq.QuoteIdentifier(tableName))
	return err
}

func (p *Adapter) CreateTransactionsTable(ctx context.Context, tableName string) error {
	ddl, err := common.CreateTableSQL(pq.QuoteIdentifier, tableName, columnTypes)
	if err != nil {
		return err
	}
	if _, err := p.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create table %s: %w", tableName, err)
	}
	return nil
}

// InsertTransactions uses COPY; batchSize is ignored.
func (p *Adapter) InsertTransactions(ctx context.Context, tableName string, rows []generator.Transaction, batchSize int) error {
	if !common.IsValidIdentifier(tableName) {
		return fmt.Errorf("invalid table name: %s", tableName)
	}

	copied, err := p.pool.CopyFrom(ctx,
		pgx.Identifier{tableName},
		generator.Columns,
		pgx.CopyFromSlice(len(rows), func(i int) ([]interface{}, error) {
			return common.Values(rows[i], nil), nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy into %s: %w", tableName, err)
	}
	if int(copied) != len(rows) {
		return fmt.Errorf("copied %d of %d rows into %s", copied, len(rows), tableName)
	}
	return nil
}
