package common

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/txgen/internal/generator"
)

// DefaultBatchSize is the number of rows per multi-row INSERT.
const DefaultBatchSize = 500

// validIdentifier validates SQL identifiers (table names) to prevent SQL injection
var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func IsValidIdentifier(name string) bool {
	return validIdentifier.MatchString(name)
}

// CreateTableSQL renders the transactions DDL. columnTypes follows generator.Columns order.
func CreateTableSQL(quote func(string) string, table string, columnTypes []string) (string, error) {
	if !IsValidIdentifier(table) {
		return "", fmt.Errorf("invalid table name: %s", table)
	}
	if len(columnTypes) != len(generator.Columns) {
		return "", fmt.Errorf("expected %d column types, got %d", len(generator.Columns), len(columnTypes))
	}

	defs := make([]string, 0, len(columnTypes)+1)
	for i, col := range generator.Columns {
		defs = append(defs, fmt.Sprintf("%s %s NOT NULL", quote(col), columnTypes[i]))
	}
	defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", quote(generator.Columns[0])))

	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", quote(table), strings.Join(defs, ",\n  ")), nil
}

// Values returns the row in column order. dateValue lets a dialect choose how
// timestamps are bound; nil binds time.Time directly.
func Values(row generator.Transaction, dateValue func(time.Time) interface{}) []interface{} {
	var date interface{} = row.Date
	if dateValue != nil {
		date = dateValue(row.Date)
	}
	return []interface{}{
		row.ID,
		row.ClientID,
		row.Amount,
		row.Type,
		date,
		row.Compliance,
		row.Balance,
		row.Location,
	}
}

type Statement struct {
	SQL  string
	Args []interface{}
}

// InsertStatements splits rows into multi-row INSERT statements of at most batchSize rows.
func InsertStatements(qb squirrel.StatementBuilderType, table string, rows []generator.Transaction, batchSize int, dateValue func(time.Time) interface{}) ([]Statement, error) {
	if !IsValidIdentifier(table) {
		return nil, fmt.Errorf("invalid table name: %s", table)
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	statements := make([]Statement, 0, (len(rows)+batchSize-1)/batchSize)
	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))

		insert := qb.Insert(table).Columns(generator.Columns...)
		for _, row := range rows[start:end] {
			insert = insert.Values(Values(row, dateValue)...)
		}

		query, args, err := insert.ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to build insert for %s: %w", table, err)
		}
		statements = append(statements, Statement{SQL: query, Args: args})
	}

	return statements, nil
}
