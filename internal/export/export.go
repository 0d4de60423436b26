package export

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Rana718/txgen/internal/database/sqlite"
	"github.com/Rana718/txgen/internal/generator"
)

const (
	FormatCSV    = "csv"
	FormatJSON   = "json"
	FormatSQLite = "sqlite"
)

var Formats = []string{FormatCSV, FormatJSON, FormatSQLite}

// SQLiteTable is the table name inside each exported .db file.
const SQLiteTable = "transactions"

// FileSink writes one file per generated table into a directory.
type FileSink struct {
	format string
	dir    string
	absDir string
}

func NewFileSink(format, dir string) (*FileSink, error) {
	switch format {
	case "":
		format = FormatCSV
	case FormatCSV, FormatJSON, FormatSQLite:
	default:
		return nil, fmt.Errorf("unsupported export format: %s. Supported formats: %v", format, Formats)
	}
	return &FileSink{format: format, dir: dir}, nil
}

// Open creates the output directory. Existing directories are reused.
func (s *FileSink) Open(ctx context.Context) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	abs, err := filepath.Abs(s.dir)
	if err != nil {
		return fmt.Errorf("failed to resolve export directory: %w", err)
	}
	s.absDir = abs
	return nil
}

func (s *FileSink) Write(ctx context.Context, name string, table *generator.Table) (string, int64, error) {
	filePath := filepath.Join(s.dir, name+"."+s.Ext())

	var err error
	switch s.format {
	case FormatJSON:
		err = writeFile(filePath, func(w io.Writer) error { return WriteJSON(w, table) })
	case FormatSQLite:
		err = writeSQLite(ctx, filePath, table)
	default:
		err = writeFile(filePath, func(w io.Writer) error { return WriteCSV(w, table) })
	}
	if err != nil {
		return "", 0, err
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to stat %s: %w", filePath, err)
	}
	return filePath, info.Size(), nil
}

func (s *FileSink) Ext() string {
	if s.format == FormatSQLite {
		return "db"
	}
	return s.format
}

// Location is the absolute output directory, available after Open.
func (s *FileSink) Location() string {
	if s.absDir != "" {
		return s.absDir
	}
	return s.dir
}

func (s *FileSink) Close() error {
	return nil
}

func writeFile(filePath string, write func(io.Writer) error) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", filePath, err)
	}

	buf := bufio.NewWriter(file)
	if err := write(buf); err != nil {
		file.Close()
		return fmt.Errorf("failed to write file %s: %w", filePath, err)
	}
	if err := buf.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("failed to write file %s: %w", filePath, err)
	}
	return file.Close()
}

// WriteCSV writes a header row followed by one record per transaction.
func WriteCSV(w io.Writer, table *generator.Table) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(generator.Columns); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := writer.Write(row.Record()); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteJSON writes the table as an indented array of row objects.
func WriteJSON(w io.Writer, table *generator.Table) error {
	rows := table.Rows
	if rows == nil {
		rows = []generator.Transaction{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func writeSQLite(ctx context.Context, filePath string, table *generator.Table) error {
	for _, p := range []string{filePath, filePath + "-wal", filePath + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to replace %s: %w", filePath, err)
		}
	}

	adapter := sqlite.New()
	if err := adapter.Connect(ctx, "sqlite://"+filePath+"?_journal_mode=DELETE"); err != nil {
		return err
	}
	defer adapter.Close()

	if err := adapter.CreateTransactionsTable(ctx, SQLiteTable); err != nil {
		return err
	}
	if err := adapter.InsertTransactions(ctx, SQLiteTable, table.Rows, 0); err != nil {
		return err
	}
	return adapter.Close()
}
