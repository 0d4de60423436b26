package batch

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/Rana718/txgen/internal/generator"
)

var ErrInvalidOptions = errors.New("invalid options")

const (
	DefaultBaseRows = 5000
	DefaultRowDelta = 500

	// MaxRows caps base_rows+row_delta so jitter and table allocation stay in range.
	MaxRows = math.MaxInt32
)

type Options struct {
	NFiles   int    `yaml:"n_files"`
	BaseRows int    `yaml:"base_rows"`
	RowDelta int    `yaml:"row_delta"`
	Seed     *int64 `yaml:"seed,omitempty"`
}

func (o Options) Validate() error {
	if o.NFiles < 1 {
		return fmt.Errorf("%w: n_files must be at least 1, got %d", ErrInvalidOptions, o.NFiles)
	}
	if o.BaseRows < 1 {
		return fmt.Errorf("%w: base_rows must be at least 1, got %d", ErrInvalidOptions, o.BaseRows)
	}
	if o.RowDelta < 0 {
		return fmt.Errorf("%w: row_delta cannot be negative, got %d", ErrInvalidOptions, o.RowDelta)
	}
	if o.RowDelta > MaxRows {
		return fmt.Errorf("%w: row_delta cannot exceed %d, got %d", ErrInvalidOptions, MaxRows, o.RowDelta)
	}
	if o.BaseRows > MaxRows-o.RowDelta {
		return fmt.Errorf("%w: base_rows + row_delta cannot exceed %d", ErrInvalidOptions, MaxRows)
	}
	return nil
}

// Sink receives each generated table. File sinks create their directory in
// Open; database sinks connect there.
type Sink interface {
	Open(ctx context.Context) error
	// Write stores table under name and returns where it went and its size
	// in bytes (0 when the sink has no notion of size).
	Write(ctx context.Context, name string, table *generator.Table) (location string, size int64, err error)
	// Ext is the file extension appended to names, empty for non-file sinks.
	Ext() string
	Location() string
	Close() error
}

// Written describes one output produced by a run.
type Written struct {
	Index    int    `yaml:"index"`
	Rows     int    `yaml:"rows"`
	Name     string `yaml:"name"`
	Location string `yaml:"location"`
	Bytes    int64  `yaml:"bytes,omitempty"`
	Seed     uint32 `yaml:"seed"`
}

type Reporter interface {
	Saved(w Written)
	Done(count int, location string)
}

type nopReporter struct{}

func (nopReporter) Saved(Written)    {}
func (nopReporter) Done(int, string) {}
