package cmd

import (
	"fmt"

	"github.com/Rana718/txgen/internal/batch"
	"github.com/Rana718/txgen/internal/config"
	"github.com/Rana718/txgen/internal/logger"
	"github.com/Rana718/txgen/internal/export"
	"github.com/Rana718/txgen/internal/manifest"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func addGenerationFlags(cmd *cobra.Command) {
	cmd.Flags().SetNormalizeFunc(underscoreFlags)
	cmd.Flags().Int("n_files", 0, "Number of tables to generate (required unless set in config)")
	cmd.Flags().Int("base_rows", batch.DefaultBaseRows, "Approximate row count per table")
	cmd.Flags().Int("row_delta", batch.DefaultRowDelta, "Maximum ±delta applied to base_rows")
	cmd.Flags().Int64("seed", 0, "Random seed for reproducible output (random when unset)")
}

func newGenerateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate anonymized transaction files",
		Long: `
Generate N files of synthetic transactions. Each file gets a different row
count: rows_i = max(1, base_rows + delta), delta uniform in [-row_delta, row_delta].
Files are named transactions_anonymized_<i>_<rows>rows.<ext>.

Examples:
  txgen generate --n_files 5
  txgen generate --n_files 3 --base_rows 10 --row_delta 0 --seed 42
  txgen generate --n_files 2 --format sqlite --out_dir ./data/db --manifest`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			cmd.SilenceUsage = true

			return runGenerate(cmd, cfg)
		},
	}

	addGenerationFlags(cmd)
	cmd.Flags().String("out_dir", config.DefaultOutDir, "Output directory for the generated files")
	cmd.Flags().String("format", config.DefaultFormat, "Output format: csv, json or sqlite")
	cmd.Flags().Bool("manifest", false, "Write manifest.yaml describing the run into the output directory")

	return cmd
}

func runGenerate(cmd *cobra.Command, cfg *config.Config) error {
	sink, err := export.NewFileSink(cfg.Format, cfg.OutDir)
	if err != nil {
		return err
	}

	opts := cfg.Options()
	log := logger.FromContext(cmd.Context())
	log.Debug().Int("n_files", opts.NFiles).Int("base_rows", opts.BaseRows).Int("row_delta", opts.RowDelta).
		Str("format", cfg.Format).Str("out_dir", cfg.OutDir).Msg("starting generation")

	driver := batch.NewDriver(sink, newConsoleReporter(cmd.OutOrStdout()))
	written, err := driver.Run(cmd.Context(), opts)
	if err != nil {
		return err
	}

	if cfg.Manifest {
		m := manifest.New(cfg.Format, opts, written)
		path, err := m.Write(sink.Location())
		if err != nil {
			return err
		}
		color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "📄 Manifest written: %s (%s rows total)\n", path, humanize.Comma(int64(m.TotalRows())))
	}

	return nil
}
