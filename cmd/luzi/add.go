package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/luzi-app/luzi/internal/cli"
	"github.com/luzi-app/luzi/internal/match"
	"github.com/luzi-app/luzi/internal/model"
	"github.com/luzi-app/luzi/internal/normalize"
	"github.com/luzi-app/luzi/internal/service"
)

func addCmd() *cobra.Command {
	var (
		categoryFlag string
		dateFlag     string
	)

	cmd := &cobra.Command{
		Use:   "add <monto> <descripción...>",
		Short: "Record an expense manually",
		Long: `Record an expense without a voice session. The category is picked by the
same matcher the voice pipeline uses; pass --category to skip matching.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd.Context(), args, categoryFlag, dateFlag)
		},
	}

	cmd.Flags().StringVar(&categoryFlag, "category", "", "category ID or name (skips automatic matching)")
	cmd.Flags().StringVar(&dateFlag, "date", "", "expense date as YYYY-MM-DD (default: today)")

	return cmd
}

func runAdd(ctx context.Context, args []string, categoryFlag, dateFlag string) error {
	amount, err := strconv.ParseFloat(strings.ReplaceAll(args[0], ",", "."), 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[0], err)
	}
	description := strings.Join(args[1:], " ")

	date := time.Now()
	if dateFlag != "" {
		date, err = time.Parse("2006-01-02", dateFlag)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", dateFlag, err)
		}
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	categories, err := store.GetCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}

	draft := model.ExpenseDraft{
		Amount:      amount,
		Description: description,
		CategoryID:  model.CatchAllCategoryID,
		Date:        date,
	}

	categoryID, err := pickCategory(ctx, store, categories, draft, categoryFlag)
	if err != nil {
		return err
	}
	draft.CategoryID = categoryID

	expense, err := store.AddExpense(ctx, &draft)
	if err != nil {
		return fmt.Errorf("failed to save expense: %w", err)
	}

	categoryName := categoryID
	if cat, catErr := store.GetCategoryByID(ctx, categoryID); catErr == nil {
		categoryName = cat.Name
	}
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Gasto registrado: $%.2f en %s (%s)", expense.Amount, expense.Description, categoryName)))

	return reportMonthlyLimit(ctx, store, date)
}

// pickCategory resolves the category for a manual expense: the flag value
// first, then the matcher, falling back to an interactive pick for ambiguous
// matches.
func pickCategory(ctx context.Context, store service.Storage, categories []model.Category, draft model.ExpenseDraft, categoryFlag string) (string, error) {
	if categoryFlag != "" {
		folded := normalize.Fold(categoryFlag)
		for _, cat := range categories {
			if cat.ID == categoryFlag || normalize.Fold(cat.Name) == folded {
				return cat.ID, nil
			}
		}
		return "", fmt.Errorf("unknown category %q", categoryFlag)
	}

	matcher, err := match.New(ctx, store)
	if err != nil {
		return "", fmt.Errorf("failed to initialize category matcher: %w", err)
	}

	result := matcher.Score(draft.Description, categories)
	if !result.Ambiguous(0.5) {
		return result.CategoryID, nil
	}

	prompter := cli.NewPrompter(os.Stdin, os.Stdout)
	categoryID, err := prompter.SelectCategory(ctx, draft, result.Candidates, categories)
	if err != nil {
		return "", err
	}
	return categoryID, nil
}

// reportMonthlyLimit warns when the month's spending crossed the configured
// limit.
func reportMonthlyLimit(ctx context.Context, store service.Storage, month time.Time) error {
	settings, err := store.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if settings.MonthlyLimit <= 0 {
		return nil
	}

	total, err := store.GetMonthlyTotal(ctx, month)
	if err != nil {
		return fmt.Errorf("failed to compute monthly total: %w", err)
	}

	if total > settings.MonthlyLimit {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("Superaste tu límite mensual: $%.2f de $%.2f", total, settings.MonthlyLimit)))
	}
	return nil
}
