package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/txgen/internal/database/common"
	"github.com/Rana718/txgen/internal/generator"
	driver "github.com/go-sql-driver/mysql"
)

type Adapter struct {
	db *sql.DB
	qb squirrel.StatementBuilderType
}

var columnTypes = []string{"BIGINT", "INT", "DOUBLE", "VARCHAR(16)", "DATETIME", "BOOLEAN", "DOUBLE", "VARCHAR(4)"}

var sslParams = strings.NewReplacer(
	"ssl-mode=REQUIRED", "tls=skip-verify",
	"ssl-mode=DISABLED", "tls=false",
	"ssl-mode=VERIFY_CA", "tls=true",
	"ssl-mode=VERIFY_IDENTITY", "tls=true",
	"sslmode=require", "tls=skip-verify",
	"sslmode=disable", "tls=false",
	"sslmode=verify-ca", "tls=true",
	"sslmode=verify-full", "tls=true",
)

func New() *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

// DSN converts a mysql:// URL into a go-sql-driver DSN. Plain DSNs pass through.
func DSN(url string) (string, error) {
	dsn := url
	if strings.HasPrefix(url, "mysql://") {
		dsn = strings.TrimPrefix(url, "mysql://")

		if atIndex := strings.LastIndex(dsn, "@"); atIndex > 0 {
			credentials := dsn[:atIndex]
			remainder := dsn[atIndex+1:]

			if slashIndex := strings.Index(remainder, "/"); slashIndex > 0 {
				hostPort := remainder[:slashIndex]
				dbAndParams := sslParams.Replace(remainder[slashIndex+1:])
				dsn = fmt.Sprintf("%s@tcp(%s)/%s", credentials, hostPort, dbAndParams)
			}
		}
	}

	cfg, err := driver.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid MySQL DSN: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

func (m *Adapter) Connect(ctx context.Context, url string) error {
	dsn, err := DSN(url)
	if err != nil {
		return err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open MySQL connection: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(0)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(3 * time.Minute)

	m.db = db
	return nil
}

func (m *Adapter) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

func (m *Adapter) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *Adapter) CheckTableExists(ctx context.Context, tableName string) (bool, error) {
	query, args, err := m.qb.Select("COUNT(*) > 0").
		From("information_schema.tables").
		Where(squirrel.Expr("table_schema = DATABASE()")).
		Where(squirrel.Eq{"table_name": tableName}).
		ToSql()
	if err != nil {
		return false, err
	}

	var exists bool
	if err := m.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", tableName, err)
	}
	return exists, nil
}

func (m *Adapter) DropTable(ctx context.Context, tableName string) error {
	if !common.IsValidIdentifier(tableName) {
		return fmt.Errorf("invalid table name: %s", tableName)
	}
	_, err := m.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+quote(tableName))
	return err
}

func (m *Adapter) CreateTransactionsTable(ctx context.Context, tableName string) error {
	ddl, err := common.CreateTableSQL(quote, tableName, columnTypes)
	if err != nil {
		return err
	}
	if _, err := m.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create table %s: %w", tableName, err)
	}
	return nil
}

func (m *Adapter) InsertTransactions(ctx context.Context, tableName string, rows []generator.Transaction, batchSize int) error {
	statements, err := common.InsertStatements(m.qb, tableName, rows, batchSize, nil)
	if err != nil {
		return err
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt.SQL, stmt.Args...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", tableName, err)
		}
	}

	return tx.Commit()
}

func quote(name string) string {
	return "`" + name + "`"
}
