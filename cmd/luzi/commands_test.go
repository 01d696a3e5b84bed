package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, subcmd := range cmd.Commands() {
		if subcmd.Name() == name {
			return subcmd
		}
	}
	return nil
}

func TestCategoriesCmd(t *testing.T) {
	cmd := categoriesCmd()
	assert.NotNil(t, cmd)

	for _, name := range []string{"list", "add", "update", "delete"} {
		assert.NotNil(t, findSubcommand(cmd, name), "%s subcommand should exist", name)
	}

	addCmd := findSubcommand(cmd, "add")
	flag := addCmd.Flag("color")
	assert.NotNil(t, flag, "color flag should exist")
	assert.Equal(t, "#6B7280", flag.DefValue)
}

func TestExpensesCmd(t *testing.T) {
	cmd := expensesCmd()

	listCmd := findSubcommand(cmd, "list")
	assert.NotNil(t, listCmd, "list subcommand should exist")
	assert.NotNil(t, listCmd.Flag("month"))
	assert.NotNil(t, listCmd.Flag("category"))

	deleteCmd := findSubcommand(cmd, "delete")
	assert.NotNil(t, deleteCmd, "delete subcommand should exist")
	assert.NotNil(t, deleteCmd.Flag("force"))
}

func TestListenCmd(t *testing.T) {
	cmd := listenCmd()

	flag := cmd.Flag("hotword")
	assert.NotNil(t, flag, "hotword flag should exist")
	assert.Equal(t, "false", flag.DefValue)
}

func TestSynonymsCmd(t *testing.T) {
	cmd := synonymsCmd()

	for _, name := range []string{"list", "add", "remove"} {
		assert.NotNil(t, findSubcommand(cmd, name), "%s subcommand should exist", name)
	}
}
