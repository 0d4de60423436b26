package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/txgen/internal/database/common"
	"github.com/Rana718/txgen/internal/generator"
	_ "github.com/mattn/go-sqlite3"
)

type Adapter struct {
	db   *sql.DB
	qb   squirrel.StatementBuilderType
	path string
}

var columnTypes = []string{"INTEGER", "INTEGER", "REAL", "TEXT", "TEXT", "INTEGER", "REAL", "TEXT"}

func New() *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

func (s *Adapter) Connect(ctx context.Context, url string) error {
	dbPath := strings.TrimPrefix(url, "sqlite://")

	s.path = dbPath
	if idx := strings.Index(s.path, "?"); idx > 0 {
		s.path = s.path[:idx]
	}

	if !strings.Contains(dbPath, "?") {
		dbPath += "?cache=shared&_journal_mode=WAL"
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open SQLite connection: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	s.db = db
	return nil
}

func (s *Adapter) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Adapter) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Path is the database file path without query parameters.
func (s *Adapter) Path() string {
	return s.path
}

func (s *Adapter) CheckTableExists(ctx context.Context, tableName string) (bool, error) {
	query, args, err := s.qb.Select("COUNT(*) > 0").
		From("sqlite_master").
		Where(squirrel.Eq{"type": "table", "name": tableName}).
		ToSql()
	if err != nil {
		return false, err
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", tableName, err)
	}
	return exists, nil
}

func (s *Adapter) DropTable(ctx context.Context, tableName string) error {
	if !common.IsValidIdentifier(tableName) {
		return fmt.Errorf("invalid table name: %s", tableName)
	}
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, quote(tableName)))
	return err
}

func (s *Adapter) CreateTransactionsTable(ctx context.Context, tableName string) error {
	ddl, err := common.CreateTableSQL(quote, tableName, columnTypes)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create table %s: %w", tableName, err)
	}
	return nil
}

func (s *Adapter) InsertTransactions(ctx context.Context, tableName string, rows []generator.Transaction, batchSize int) error {
	// SQLite has no timestamp type; store the same text the CSV export uses.
	statements, err := common.InsertStatements(s.qb, tableName, rows, batchSize, formatDate)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
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

func formatDate(t time.Time) interface{} {
	return t.Format(generator.DateLayout)
}

func quote(name string) string {
	return `"` + name + `"`
}
