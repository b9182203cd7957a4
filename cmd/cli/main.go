package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/GoosefleetEO/miningtaxes/internal/app"
	"github.com/GoosefleetEO/miningtaxes/internal/infrastructure/config"
	"github.com/GoosefleetEO/miningtaxes/internal/infrastructure/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "miningtax",
		Short:         "Mining tax engine CLI",
		Long:          `Runs the pricing and tax ledger jobs and inspects their results.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newCycleCmd(),
		newInterestCmd(),
		newStatsCmd(),
		newMigrateCmd(),
		newCatalogCmd(),
		newDirectoryCmd(),
		newTaxRatesCmd(),
		newBalanceCmd(),
		newLedgerCmd(),
		newNotificationsCmd(),
	)

	return rootCmd
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "miningtax-cli", Output: os.Stderr})

	return cfg, nil
}

// withApp loads configuration, connects, and runs fn against the wired engine.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := app.New(cmd.Context(), cfg, log.Logger, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(cmd.Context(), a)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode output: %v\n", err)
	}
}
