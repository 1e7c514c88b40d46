package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sarth-shah20/todo/internal/todo"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a todo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := todo.ParseID(args[0]); err != nil {
			return err
		}

		return withManager(cmd, func(m *todo.Manager) error {
			_, err := m.Delete(cmd.Context(), args[0])
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
