package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/luzi-app/luzi/internal/cli"
)

func limitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "limit",
		Short: "Show monthly spending against the configured limit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			settings, err := store.GetSettings(ctx)
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}

			total, err := store.GetMonthlyTotal(ctx, time.Now())
			if err != nil {
				return fmt.Errorf("failed to compute monthly total: %w", err)
			}

			if settings.MonthlyLimit <= 0 {
				fmt.Println(cli.FormatInfo(fmt.Sprintf("Gastaste $%.2f este mes (sin límite configurado)", total)))
				return nil
			}

			pct := total / settings.MonthlyLimit * 100
			line := fmt.Sprintf("Gastaste $%.2f de $%.2f este mes (%.0f%%)", total, settings.MonthlyLimit, pct)
			if total > settings.MonthlyLimit {
				fmt.Println(cli.FormatWarning(line))
			} else {
				fmt.Println(cli.FormatInfo(line))
			}
			return nil
		},
	}

	cmd.AddCommand(setLimitCmd())

	return cmd
}

func setLimitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <monto>",
		Short: "Set the monthly spending limit (0 disables it)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := strconv.ParseFloat(strings.ReplaceAll(args[0], ",", "."), 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}
			if amount < 0 {
				return fmt.Errorf("limit must not be negative, got %s", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			settings, err := store.GetSettings(ctx)
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}

			settings.MonthlyLimit = amount
			if err := store.UpdateSettings(ctx, *settings); err != nil {
				return fmt.Errorf("failed to update settings: %w", err)
			}

			if amount == 0 {
				fmt.Println(cli.FormatSuccess("Límite mensual desactivado"))
			} else {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Límite mensual fijado en $%.2f", amount)))
			}
			return nil
		},
	}
}
