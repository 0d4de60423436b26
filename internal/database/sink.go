package database

import (
	"context"
	"fmt"

	"github.com/Rana718/txgen/internal/database/common"
	"github.com/Rana718/txgen/internal/generator"
)

// Sink writes each generated table into its own database table, named after
// the file stem the batch driver would have used.
type Sink struct {
	adapter   DatabaseAdapter
	provider  string
	url       string
	replace   bool
	batchSize int
}

type SinkOptions struct {
	Provider  string
	URL       string
	Replace   bool // drop an existing table instead of failing
	BatchSize int
}

func NewSink(opts SinkOptions) (*Sink, error) {
	adapter, err := NewAdapter(opts.Provider)
	if err != nil {
		return nil, err
	}
	return NewSinkWithAdapter(adapter, opts), nil
}

func NewSinkWithAdapter(adapter DatabaseAdapter, opts SinkOptions) *Sink {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = common.DefaultBatchSize
	}
	return &Sink{
		adapter:   adapter,
		provider:  opts.Provider,
		url:       opts.URL,
		replace:   opts.Replace,
		batchSize: batchSize,
	}
}

func (s *Sink) Open(ctx context.Context) error {
	if err := s.adapter.Connect(ctx, s.url); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := s.adapter.Ping(ctx); err != nil {
		s.adapter.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	return nil
}

func (s *Sink) Write(ctx context.Context, name string, table *generator.Table) (string, int64, error) {
	if !common.IsValidIdentifier(name) {
		return "", 0, fmt.Errorf("invalid table name: %s", name)
	}

	exists, err := s.adapter.CheckTableExists(ctx, name)
	if err != nil {
		return "", 0, err
	}
	if exists {
		if !s.replace {
			return "", 0, fmt.Errorf("table %s already exists (use --replace to overwrite)", name)
		}
		if err := s.adapter.DropTable(ctx, name); err != nil {
			return "", 0, fmt.Errorf("failed to drop table %s: %w", name, err)
		}
	}

	if err := s.adapter.CreateTransactionsTable(ctx, name); err != nil {
		return "", 0, err
	}
	if err := s.adapter.InsertTransactions(ctx, name, table.Rows, s.batchSize); err != nil {
		return "", 0, err
	}

	return fmt.Sprintf("%s:%s", s.provider, name), 0, nil
}

func (s *Sink) Ext() string {
	return ""
}

// pather is implemented by adapters backed by a single database file.
type pather interface {
	Path() string
}

func (s *Sink) Location() string {
	if p, ok := s.adapter.(pather); ok && p.Path() != "" {
		return fmt.Sprintf("%s database %s", s.provider, p.Path())
	}
	return fmt.Sprintf("%s database", s.provider)
}

func (s *Sink) Close() error {
	return s.adapter.Close()
}
