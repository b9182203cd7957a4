package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GoosefleetEO/miningtaxes/internal/adapter/activity"
	"github.com/GoosefleetEO/miningtaxes/internal/adapter/http/dto"
	"github.com/GoosefleetEO/miningtaxes/internal/app"
	"github.com/GoosefleetEO/miningtaxes/internal/domain"
	"github.com/GoosefleetEO/miningtaxes/internal/usecase"
)

func newCatalogCmd() *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Commodity catalog",
	}

	catalogCmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Replace the commodity catalog from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			commodities, err := activity.LoadCatalog(args[0])
			if err != nil {
				return err
			}

			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				result, err := a.Catalog.Import(ctx, commodities)
				if err != nil {
					return err
				}
				printJSON(result)
				return nil
			})
		},
	})

	return catalogCmd
}

func newDirectoryCmd() *cobra.Command {
	directoryCmd := &cobra.Command{
		Use:   "directory",
		Short: "Accounts and entities",
	}

	directoryCmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Upsert accounts and entities from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := activity.LoadDirectory(args[0])
			if err != nil {
				return err
			}

			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				result, err := a.Catalog.ImportDirectory(ctx, dir)
				if err != nil {
					return err
				}
				printJSON(result)
				return nil
			})
		},
	})

	return directoryCmd
}

func newTaxRatesCmd() *cobra.Command {
	taxRatesCmd := &cobra.Command{
		Use:   "taxrates",
		Short: "Per-category tax rates",
	}

	taxRatesCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Print the tax rate table",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd, func(ctx context.Context, a *app.App) error {
					table, err := a.Tax.Table(ctx)
					if err != nil {
						return err
					}
					printJSON(rateRows(table))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "set <category|default> <percent>",
			Short: "Set a category percentage, e.g. `taxrates set ice 7.5`",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				percent, err := domain.ParsePercentage(args[1])
				if err != nil {
					return err
				}

				return withApp(cmd, func(ctx context.Context, a *app.App) error {
					if strings.EqualFold(args[0], "default") {
						return a.Tax.SetDefault(ctx, percent)
					}

					category, err := domain.ParseCategory(args[0])
					if err != nil {
						return err
					}
					return a.Tax.SetRate(ctx, category, percent)
				})
			},
		},
	)

	return taxRatesCmd
}

type rateRow struct {
	Category string `json:"category"`
	Percent  string `json:"percent"`
}

func rateRows(table *domain.TaxRateTable) []rateRow {
	rows := make([]rateRow, 0, len(table.Rates)+1)
	for category, percent := range table.Rates {
		rows = append(rows, rateRow{Category: string(category), Percent: percent.String()})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Category < rows[j].Category })

	return append(rows, rateRow{Category: "default", Percent: table.Default.String()})
}

func newBalanceCmd() *cobra.Command {
	balanceCmd := &cobra.Command{
		Use:   "balance",
		Short: "Entity and account balances",
	}

	balanceCmd.AddCommand(
		&cobra.Command{
			Use:   "show <entity-id>",
			Short: "Print an entity's obligations, credits and balance",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}

				return withApp(cmd, func(ctx context.Context, a *app.App) error {
					b, err := a.Aggregate.Balance(ctx, id)
					if err != nil {
						return err
					}
					printJSON(dto.BalanceFromUseCase(b))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "account <account-id>",
			Short: "Print the roll-up of every entity in an account",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}

				return withApp(cmd, func(ctx context.Context, a *app.App) error {
					s, err := a.Aggregate.AccountSummary(ctx, id)
					if err != nil {
						return err
					}
					printJSON(dto.AccountSummaryFromUseCase(s))
					return nil
				})
			},
		},
	)

	return balanceCmd
}

func newLedgerCmd() *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	ledgerCmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Check ledger consistency",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				report, err := a.Reconciliation.CheckConsistency(ctx)
				if report != nil {
					printJSON(dto.ConsistencyFromUseCase(report))
				}
				if errors.Is(err, usecase.ErrInconsistentLedger) {
					return fmt.Errorf("consistency check FAILED: %w", err)
				}
				return err
			})
		},
	})

	return ledgerCmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
