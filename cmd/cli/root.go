package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dvloznov/budget-tracker/internal/bootstrap"
	"github.com/dvloznov/budget-tracker/internal/config"
	"github.com/dvloznov/budget-tracker/internal/logger"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	timeout  time.Duration
	logLevel string

	cfg      *config.Config
	log      = zerolog.Nop()
	services *bootstrap.Services
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "budget",
	Short:         "Budget tracker command line",
	Long:          `Extract transactions from text or receipt photos, commit them to a budget, split bills and export the budget.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load .env file if it exists
		_ = godotenv.Load()

		cfg = config.Load()
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}

		var err error
		log, err = logger.NewWithLevel(cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if services != nil {
			return services.Close()
		}
		return nil
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Overall time limit for the command")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")

	rootCmd.AddCommand(
		extractCmd,
		commitCmd,
		splitCmd,
		categoriesCmd,
		syncNotionCmd,
		uploadReceiptCmd,
		auditCmd,
		snapshotCmd,
		migrateCmd,
	)
}

// commandContext returns a context bounded by --timeout and carrying the logger.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	return logger.WithContext(ctx, log), cancel
}

// loadServices builds the app once per invocation.
func loadServices(ctx context.Context) (*bootstrap.Services, error) {
	if services != nil {
		return services, nil
	}
	s, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	services = s
	return s, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
