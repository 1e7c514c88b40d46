package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarth-shah20/todo/internal/todo"
)

var createCmd = &cobra.Command{
	Use:     "create <description>",
	Short:   "Add a new pending todo",
	Example: `  todo create "buy milk"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description := strings.Join(args, " ")

		return withManager(cmd, func(m *todo.Manager) error {
			_, err := m.Add(cmd.Context(), description)
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
}
