package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/luzi-app/luzi/internal/cli"
	"github.com/luzi-app/luzi/internal/match"
)

func synonymsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "synonyms",
		Short: "Manage category synonyms",
		Long: `Inspect and edit the words the matcher associates with each category.
Built-in synonyms cannot be removed; your additions are stored as an overlay.`,
	}

	cmd.AddCommand(listSynonymsCmd())
	cmd.AddCommand(addSynonymCmd())
	cmd.AddCommand(removeSynonymCmd())

	return cmd
}

func listSynonymsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <category-id>",
		Short: "List the synonyms of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			matcher, err := match.New(ctx, store)
			if err != nil {
				return fmt.Errorf("failed to initialize category matcher: %w", err)
			}

			synonyms := matcher.SynonymsFor(args[0])
			if len(synonyms) == 0 {
				fmt.Println(cli.InfoStyle.Render("Esta categoría no tiene sinónimos."))
				return nil
			}

			fmt.Println(strings.Join(synonyms, ", "))
			return nil
		},
	}
}

func addSynonymCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <category-id> <word>",
		Short: "Add a synonym to a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			categoryID, word := args[0], args[1]

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if _, err := store.GetCategoryByID(ctx, categoryID); err != nil {
				return fmt.Errorf("unknown category %q: %w", categoryID, err)
			}

			matcher, err := match.New(ctx, store)
			if err != nil {
				return fmt.Errorf("failed to initialize category matcher: %w", err)
			}

			added, err := matcher.AddSynonym(ctx, categoryID, word)
			if err != nil {
				return fmt.Errorf("failed to add synonym: %w", err)
			}
			if !added {
				fmt.Println(cli.FormatInfo(fmt.Sprintf("%q ya es un sinónimo de la categoría %s", word, categoryID)))
				return nil
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Sinónimo %q agregado a la categoría %s", word, categoryID)))
			return nil
		},
	}
}

func removeSynonymCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <category-id> <word>",
		Short: "Remove a user-added synonym",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			categoryID, word := args[0], args[1]

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			matcher, err := match.New(ctx, store)
			if err != nil {
				return fmt.Errorf("failed to initialize category matcher: %w", err)
			}

			removed, err := matcher.RemoveSynonym(ctx, categoryID, word)
			if err != nil {
				return fmt.Errorf("failed to remove synonym: %w", err)
			}
			if !removed {
				fmt.Println(cli.FormatInfo(fmt.Sprintf("%q no es un sinónimo agregado por vos; los sinónimos integrados no se pueden borrar", word)))
				return nil
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Sinónimo %q quitado de la categoría %s", word, categoryID)))
			return nil
		},
	}
}
