package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sarth-shah20/todo/internal/todo"
)

var listCmd = &cobra.Command{
	Use:       "list <all|pending|completed>",
	Short:     "Print todos matching a status filter",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(todo.FilterAll), string(todo.FilterPending), string(todo.FilterCompleted)},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Reject bad filters before connecting.
		if _, err := todo.ParseFilter(args[0]); err != nil {
			return err
		}

		return withManager(cmd, func(m *todo.Manager) error {
			_, err := m.List(cmd.Context(), args[0])
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
