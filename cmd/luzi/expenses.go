package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/luzi-app/luzi/internal/cli"
	"github.com/luzi-app/luzi/internal/model"
	"github.com/luzi-app/luzi/internal/service"
)

func expensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "Manage recorded expenses",
		Long:  `List and delete the expenses stored in the local database.`,
	}

	cmd.AddCommand(listExpensesCmd())
	cmd.AddCommand(updateExpenseCmd())
	cmd.AddCommand(deleteExpenseCmd())

	return cmd
}

func listExpensesCmd() *cobra.Command {
	var (
		monthFlag    string
		categoryFlag string
		limitFlag    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		Long:  `Display recorded expenses, newest first, with per-category totals.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runListExpenses(cmd.Context(), monthFlag, categoryFlag, limitFlag)
		},
	}

	cmd.Flags().StringVar(&monthFlag, "month", "", "restrict to a month as YYYY-MM (default: current month)")
	cmd.Flags().StringVar(&categoryFlag, "category", "", "restrict to a category ID")
	cmd.Flags().IntVar(&limitFlag, "limit", 0, "maximum number of expenses to show")

	return cmd
}

func runListExpenses(ctx context.Context, monthFlag, categoryFlag string, limit int) error {
	month := time.Now()
	if monthFlag != "" {
		parsed, err := time.Parse("2006-01", monthFlag)
		if err != nil {
			return fmt.Errorf("invalid month %q: %w", monthFlag, err)
		}
		month = parsed
	}
	start, end := service.MonthRange(month)

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	expenses, err := store.GetExpenses(ctx, service.ExpenseFilter{
		StartDate:  &start,
		EndDate:    &end,
		CategoryID: categoryFlag,
		Limit:      limit,
	})
	if err != nil {
		return fmt.Errorf("failed to get expenses: %w", err)
	}

	if len(expenses) == 0 {
		fmt.Println(cli.InfoStyle.Render("No hay gastos en este período. Usá 'luzi add' o 'luzi listen' para registrar uno."))
		return nil
	}

	categoryNames, err := categoryNameIndex(ctx, store)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		cli.TableHeaderStyle.Render("Fecha"),
		cli.TableHeaderStyle.Render("Monto"),
		cli.TableHeaderStyle.Render("Descripción"),
		cli.TableHeaderStyle.Render("Categoría"))
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		strings.Repeat("-", 10),
		strings.Repeat("-", 10),
		strings.Repeat("-", 30),
		strings.Repeat("-", 15))

	var total float64
	for _, expense := range expenses {
		name := categoryNames[expense.CategoryID]
		if name == "" {
			name = expense.CategoryID
		}
		fmt.Fprintf(w, "%s\t$%.2f\t%s\t%s\n",
			expense.Date.Format("2006-01-02"), expense.Amount, expense.Description, name)
		total += expense.Amount
	}

	fmt.Fprintf(w, "\t%s\t\t\n", cli.BoldStyle.Render(fmt.Sprintf("$%.2f", total)))

	return nil
}

func updateExpenseCmd() *cobra.Command {
	var (
		amountFlag      string
		descriptionFlag string
		categoryFlag    string
		dateFlag        string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			if amountFlag == "" && descriptionFlag == "" && categoryFlag == "" && dateFlag == "" {
				return fmt.Errorf("must specify --amount, --description, --category or --date to update")
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			current, err := store.GetExpenseByID(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get expense: %w", err)
			}

			draft := model.ExpenseDraft{
				Amount:      current.Amount,
				Description: current.Description,
				CategoryID:  current.CategoryID,
				Date:        current.Date,
			}
			if amountFlag != "" {
				draft.Amount, err = strconv.ParseFloat(strings.ReplaceAll(amountFlag, ",", "."), 64)
				if err != nil {
					return fmt.Errorf("invalid amount %q: %w", amountFlag, err)
				}
			}
			if descriptionFlag != "" {
				draft.Description = descriptionFlag
			}
			if categoryFlag != "" {
				if _, err := store.GetCategoryByID(ctx, categoryFlag); err != nil {
					return fmt.Errorf("unknown category %q: %w", categoryFlag, err)
				}
				draft.CategoryID = categoryFlag
			}
			if dateFlag != "" {
				draft.Date, err = time.Parse("2006-01-02", dateFlag)
				if err != nil {
					return fmt.Errorf("invalid date %q: %w", dateFlag, err)
				}
			}

			if _, err := store.UpdateExpense(ctx, id, &draft); err != nil {
				return fmt.Errorf("failed to update expense: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Gasto %s actualizado", id)))
			return nil
		},
	}

	cmd.Flags().StringVar(&amountFlag, "amount", "", "new amount")
	cmd.Flags().StringVar(&descriptionFlag, "description", "", "new description")
	cmd.Flags().StringVar(&categoryFlag, "category", "", "new category ID")
	cmd.Flags().StringVar(&dateFlag, "date", "", "new date as YYYY-MM-DD")

	return cmd
}

func deleteExpenseCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if !force {
				fmt.Printf("¿Seguro que querés borrar el gasto %s? (y/N): ", id)
				var response string
				fmt.Scanln(&response)
				if strings.ToLower(response) != "y" {
					fmt.Println("Borrado cancelado.")
					return nil
				}
			}

			deleted, err := store.DeleteExpense(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to delete expense: %w", err)
			}
			if !deleted {
				return fmt.Errorf("expense %q not found", id)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Gasto %s borrado", id)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")

	return cmd
}

// categoryNameIndex maps category IDs to display names.
func categoryNameIndex(ctx context.Context, store service.Storage) (map[string]string, error) {
	categories, err := store.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	names := make(map[string]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}
	return names, nil
}
