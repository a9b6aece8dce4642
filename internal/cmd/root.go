package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/omnera-dev/schemapipe/internal/config"
	"github.com/omnera-dev/schemapipe/internal/log"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string

	// cfg is loaded once before any subcommand runs
	cfg *config.Configuration
)

var rootCmd = &cobra.Command{
	Use:   "schemapipe",
	Short: "Schema resolution and code-generation pipeline",
	Long: `schemapipe consumes a declarative, cross-referenced schema description of an
application's configuration surface and produces three derived artifacts: a
fully dereferenced schema tree, a structural completion report against the
currently implemented schema, and generated runtime-validation modules with
matching behavioral test scenarios.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		cfg = loaded

		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			cfg.LogFormat = logFormat
		}

		logCfg := log.DefaultConfig()
		logCfg.Level = log.ParseLevel(cfg.LogLevel)
		logCfg.Format = log.ParseFormat(cfg.LogFormat)
		log.SetDefaultLogger(log.New(logCfg))
		return nil
	},
}

// ExecuteContext runs the root command with the given context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "schemapipe.json", "config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (json, text)")
}
