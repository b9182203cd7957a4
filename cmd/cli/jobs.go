package main

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/GoosefleetEO/miningtaxes/internal/app"
	"github.com/GoosefleetEO/miningtaxes/internal/infrastructure/postgres"
	"github.com/GoosefleetEO/miningtaxes/internal/usecase"
)

func newCycleCmd() *cobra.Command {
	cycleCmd := &cobra.Command{
		Use:   "cycle",
		Short: "Maintenance cycle",
	}

	var (
		interest bool
		since    string
	)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run one maintenance cycle, retrying transient failures",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := usecase.CycleOptions{AccrueInterest: interest}
			if since != "" {
				day, err := time.Parse("2006-01-02", since)
				if err != nil {
					return fmt.Errorf("invalid --since: %w", err)
				}
				opts.Since = day
			}

			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				report, err := runWithRetries(ctx, a.Config.CycleMaxRetries, retryBackoff(), func() *usecase.CycleReport {
					return a.RunCycle(ctx, opts)
				})
				printJSON(report)
				return err
			})
		},
	}
	runCmd.Flags().BoolVar(&interest, "interest", false, "Accrue monthly interest (once per month)")
	runCmd.Flags().StringVar(&since, "since", "", "Only read activity on or after this day (YYYY-MM-DD)")

	cycleCmd.AddCommand(runCmd)
	return cycleCmd
}

func retryBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 30 * time.Second
	b.MaxInterval = 5 * time.Minute
	b.MaxElapsedTime = 0
	return b
}

// runWithRetries repeats run while its report is retryable, at most maxRetries extra times.
// It returns the last report and its joined error.
func runWithRetries(ctx context.Context, maxRetries uint64, b backoff.BackOff, run func() *usecase.CycleReport) (*usecase.CycleReport, error) {
	var report *usecase.CycleReport

	err := backoff.Retry(func() error {
		report = run()
		if !report.Failed() {
			return nil
		}
		if !report.Retryable() {
			return backoff.Permanent(report.Err())
		}

		log.Warn().Err(report.Err()).Str("cycle_id", report.RunID).Msg("cycle failed, retrying")
		return report.Err()
	}, backoff.WithContext(backoff.WithMaxRetries(b, maxRetries), ctx))

	return report, err
}

func newInterestCmd() *cobra.Command {
	interestCmd := &cobra.Command{
		Use:   "interest",
		Short: "Interest accrual",
	}

	var force bool

	accrueCmd := &cobra.Command{
		Use:   "accrue",
		Short: "Charge interest on outstanding balances for the current month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				key := usecase.InterestPeriodKey(time.Now().UTC())
				if !force {
					acquired, err := a.Guard.Acquire(ctx, key, usecase.InterestPeriodTTL)
					if err != nil {
						return err
					}
					if !acquired {
						return fmt.Errorf("interest already accrued for %s, use --force to charge again", key)
					}
				}

				charges, result, err := a.Interest.Accrue(ctx)
				if err != nil {
					if !force {
						if relErr := a.Guard.Release(ctx, key); relErr != nil {
							a.Logger.Error().Err(relErr).Msg("failed to release interest guard")
						}
					}
					return err
				}

				printJSON(map[string]any{"result": result, "charges": charges})
				return nil
			})
		},
	}
	accrueCmd.Flags().BoolVar(&force, "force", false, "Ignore the once-per-month guard")

	interestCmd.AddCommand(accrueCmd)
	return interestCmd
}

func newStatsCmd() *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Aggregate statistics",
	}

	statsCmd.AddCommand(
		&cobra.Command{
			Use:   "rebuild",
			Short: "Recompute and store the stats snapshot",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd, func(ctx context.Context, a *app.App) error {
					snapshot, err := a.Stats.Rebuild(ctx)
					if err != nil {
						return err
					}
					printJSON(snapshot)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the latest stored snapshot",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd, func(ctx context.Context, a *app.App) error {
					snapshot, err := a.Stats.Latest(ctx)
					if err != nil {
						return err
					}
					printJSON(snapshot)
					return nil
				})
			},
		},
	)

	return statsCmd
}

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}

	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			RunE: func(_ *cobra.Command, _ []string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				return postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			RunE: func(_ *cobra.Command, _ []string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				return postgres.RunMigrationsDown(cfg.DatabaseURL, cfg.MigrationsPath)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			RunE: func(_ *cobra.Command, _ []string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				version, dirty, err := postgres.MigrationVersion(cfg.DatabaseURL, cfg.MigrationsPath)
				if err != nil {
					return err
				}
				printJSON(map[string]any{"version": version, "dirty": dirty})
				return nil
			},
		},
	)

	return migrateCmd
}

func newNotificationsCmd() *cobra.Command {
	notificationsCmd := &cobra.Command{
		Use:   "notifications",
		Short: "Notification outbox",
	}

	notificationsCmd.AddCommand(&cobra.Command{
		Use:   "drain",
		Short: "Publish pending notifications once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				return a.Publisher.Drain(ctx)
			})
		},
	})

	return notificationsCmd
}
