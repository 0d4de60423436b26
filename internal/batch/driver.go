package batch

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/Rana718/txgen/internal/generator"
	"github.com/Rana718/txgen/internal/logger"
)

// FileStem is the output name for file i holding rows rows, without extension.
func FileStem(i, rows int) string {
	return fmt.Sprintf("transactions_anonymized_%d_%drows", i, rows)
}

// FileName is FileStem plus ext, or the bare stem when ext is empty.
func FileName(i, rows int, ext string) string {
	if ext == "" {
		return FileStem(i, rows)
	}
	return FileStem(i, rows) + "." + ext
}

// Jitter draws uniformly from [-delta, delta], both ends inclusive. It always
// consumes exactly one value from r. delta must be within [0, MaxRows].
func Jitter(r *rand.Rand, delta int) int {
	return r.Intn(2*delta+1) - delta
}

func RowCount(base, delta int) int {
	return max(1, base+delta)
}

type Driver struct {
	sink     Sink
	reporter Reporter
}

func NewDriver(sink Sink, reporter Reporter) *Driver {
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Driver{sink: sink, reporter: reporter}
}

// Run generates opts.NFiles tables and hands each to the sink. The first
// error stops the run; outputs already written are left in place. Logs go to
// the logger carried by ctx.
func (d *Driver) Run(ctx context.Context, opts Options) ([]Written, error) {
	log := logger.FromContext(ctx)

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if err := d.sink.Open(ctx); err != nil {
		return nil, err
	}
	closed := false
	defer func() {
		if closed {
			return
		}
		if err := d.sink.Close(); err != nil {
			log.Warn().Err(err).Str("location", d.sink.Location()).Msg("failed to close output")
		}
	}()

	rng := generator.NewSource(opts.Seed)
	written := make([]Written, 0, opts.NFiles)

	for i := 1; i <= opts.NFiles; i++ {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		rows := RowCount(opts.BaseRows, Jitter(rng, opts.RowDelta))
		subSeed := rng.Uint32()

		seed := int64(subSeed)
		table := generator.Generate(rows, &seed)

		name := FileStem(i, rows)
		log.Debug().Int("index", i).Int("rows", rows).Uint32("seed", subSeed).Msg("generated table")

		location, size, err := d.sink.Write(ctx, name, table)
		if err != nil {
			return written, fmt.Errorf("failed to write %s: %w", FileName(i, rows, d.sink.Ext()), err)
		}

		w := Written{
			Index:    i,
			Rows:     rows,
			Name:     FileName(i, rows, d.sink.Ext()),
			Location: location,
			Bytes:    size,
			Seed:     subSeed,
		}
		written = append(written, w)
		d.reporter.Saved(w)
	}

	closed = true
	if err := d.sink.Close(); err != nil {
		return written, fmt.Errorf("failed to close output: %w", err)
	}

	d.reporter.Done(len(written), d.sink.Location())
	return written, nil
}
