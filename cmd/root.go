package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/Rana718/txgen/internal/config"
	"github.com/Rana718/txgen/internal/logger"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var Version = "0.3.0"

type app struct {
	v       *viper.Viper
	cfgFile string
	verbose bool
}

func showBanner(cmd *cobra.Command) {
	greenColor := color.New(color.FgGreen, color.Bold)

	banner := []string{
		"╔════════════════════════════════════════════╗",
		"║   txgen  ·  synthetic transaction tables   ║",
		"╚════════════════════════════════════════════╝",
	}

	out := cmd.OutOrStdout()
	for _, line := range banner {
		greenColor.Fprintln(out, line)
	}

	fmt.Fprint(out, "                 ")
	color.New(color.FgCyan, color.Bold).Fprint(out, "Version: ")
	color.New(color.FgYellow, color.Bold).Fprintf(out, "%s\n", Version)
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "txgen",
		Short: "Generate anonymized synthetic transaction tables",
		Long: `
txgen writes batches of synthetic, anonymized financial transaction tables
for testing and demos. Each table has a fixed 8-column schema and a row count
that is jittered around a base value.

Outputs:
- CSV files (default), JSON files or one SQLite database per table
- Tables in PostgreSQL, MySQL or SQLite (push)`,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(logger.WithContext(cmd.Context(), logger.New(a.verbose)))
			return a.initConfig(cmd)
		},

		Run: func(cmd *cobra.Command, args []string) {
			showVersion, _ := cmd.Flags().GetBool("version")
			if showVersion {
				fmt.Fprintf(cmd.OutOrStdout(), "txgen version %s\n", Version)
				return
			}

			showBanner(cmd)
			fmt.Fprintln(cmd.OutOrStdout())
			cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./txgen.config.yaml or ./txgen.config.json)")
	rootCmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Enable debug logging")
	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")

	rootCmd.AddCommand(newGenerateCmd(a))
	rootCmd.AddCommand(newPushCmd(a))
	rootCmd.AddCommand(newInitCmd())

	return rootCmd
}

func (a *app) initConfig(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env.local")
	}

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName(config.ConfigName)
	}

	a.v.SetEnvPrefix(config.EnvPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		return nil
	}

	log := logger.FromContext(cmd.Context())
	log.Debug().Str("file", a.v.ConfigFileUsed()).Msg("using config file")
	return nil
}

// flagKeys maps command flags to config keys.
var flagKeys = map[string]string{
	"n_files":   "n_files",
	"base_rows": "base_rows",
	"row_delta": "row_delta",
	"out_dir":   "out_dir",
	"seed":      "seed",
	"format":    "format",
	"manifest":  "manifest",
	"provider":  "database.provider",
	"url_env":   "database.url_env",
	"replace":   "database.replace",
	"batch":     "database.batch_size",
}

// loadConfig binds the flags of cmd onto the config keys and loads the result.
// Flags only override config values when given explicitly.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok && f.Changed {
			if err := a.v.BindPFlag(key, f); err != nil {
				bindErr = err
			}
		}
	})
	if bindErr != nil {
		return nil, bindErr
	}

	return config.LoadFrom(a.v)
}

// underscoreFlags makes --n-files and --n_files the same flag.
func underscoreFlags(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "-", "_"))
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintf(rootCmd.ErrOrStderr(), "❌ %v\n", err)
		return err
	}
	return nil
}
