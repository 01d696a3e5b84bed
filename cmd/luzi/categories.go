package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/luzi-app/luzi/internal/cli"
	"github.com/luzi-app/luzi/internal/common"
	"github.com/luzi-app/luzi/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage expense categories",
		Long:  `List, add, update, and delete the categories expenses are filed under.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(updateCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			categories, err := store.GetCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("ID"),
				cli.TableHeaderStyle.Render("Nombre"),
				cli.TableHeaderStyle.Render("Icono"))
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 20),
				strings.Repeat("-", 10))

			for _, cat := range categories {
				fmt.Fprintf(w, "%s\t%s\t%s\n", cat.ID, cat.Name, cat.Icon)
			}

			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var (
		color string
		icon  string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			category, err := store.CreateCategory(ctx, model.CategoryInput{
				Name:  args[0],
				Color: color,
				Icon:  icon,
			})
			if err != nil {
				return fmt.Errorf("failed to create category: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Categoría %q creada (ID: %s)", category.Name, category.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "#6B7280", "display color as a hex value")
	cmd.Flags().StringVar(&icon, "icon", "tag", "icon name")

	return cmd
}

func updateCategoryCmd() *cobra.Command {
	var (
		name  string
		color string
		icon  string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			if name == "" && color == "" && icon == "" {
				return errors.New("must specify --name, --color or --icon to update")
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			current, err := store.GetCategoryByID(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get category: %w", err)
			}

			input := model.CategoryInput{Name: current.Name, Color: current.Color, Icon: current.Icon}
			if name != "" {
				input.Name = name
			}
			if color != "" {
				input.Color = color
			}
			if icon != "" {
				input.Icon = icon
			}

			if _, err := store.UpdateCategory(ctx, id, input); err != nil {
				return fmt.Errorf("failed to update category: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Categoría %s actualizada", id)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new category name")
	cmd.Flags().StringVar(&color, "color", "", "new display color")
	cmd.Flags().StringVar(&icon, "icon", "", "new icon name")

	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Long:  `Delete a category. This will fail if any expenses are filed under it.`,
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
				fmt.Printf("¿Seguro que querés borrar la categoría %s? (y/N): ", id)
				var response string
				fmt.Scanln(&response)
				if strings.ToLower(response) != "y" {
					fmt.Println("Borrado cancelado.")
					return nil
				}
			}

			if _, err := store.DeleteCategory(ctx, id); err != nil {
				if errors.Is(err, common.ErrCategoryInUse) {
					return fmt.Errorf("la categoría %s tiene gastos asociados; movelos o borralos primero", id)
				}
				return fmt.Errorf("failed to delete category: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Categoría %s borrada", id)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")

	return cmd
}
