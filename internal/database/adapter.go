package database

import (
	"context"

	"github.com/Rana718/txgen/internal/generator"
)

type DatabaseAdapter interface {
	Connect(ctx context.Context, url string) error
	Close() error
	Ping(ctx context.Context) error

	CheckTableExists(ctx context.Context, tableName string) (bool, error)
	DropTable(ctx context.Context, tableName string) error

	// CreateTransactionsTable creates tableName with the fixed transaction schema.
	CreateTransactionsTable(ctx context.Context, tableName string) error
	// InsertTransactions loads rows into tableName, batchSize rows per statement.
	InsertTransactions(ctx context.Context, tableName string, rows []generator.Transaction, batchSize int) error
}
