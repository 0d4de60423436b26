package cmd

import (
	"fmt"
	"io"

	"github.com/Rana718/txgen/internal/batch"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

type consoleReporter struct {
	out io.Writer
}

func newConsoleReporter(out io.Writer) *consoleReporter {
	return &consoleReporter{out: out}
}

func (r *consoleReporter) Saved(w batch.Written) {
	rows := humanize.Comma(int64(w.Rows))
	if w.Bytes > 0 {
		color.New(color.FgGreen).Fprintf(r.out, "💾 Saved %s (%s rows, %s)\n", w.Location, rows, humanize.Bytes(uint64(w.Bytes)))
		return
	}
	color.New(color.FgGreen).Fprintf(r.out, "💾 Saved %s (%s rows)\n", w.Location, rows)
}

func (r *consoleReporter) Done(count int, location string) {
	fmt.Fprintln(r.out)
	color.New(color.FgCyan, color.Bold).Fprintf(r.out, "✔ Generated %d anonymized file(s) in %s\n", count, location)
}
