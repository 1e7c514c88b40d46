package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sarth-shah20/todo/internal/todo"
)

var updateCmd = &cobra.Command{
	Use:   "update <id> <pending|completed>",
	Short: "Set the status of a todo",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, status := args[0], args[1]

		if _, err := todo.ParseStatus(status); err != nil {
			return err
		}
		if _, err := todo.ParseID(id); err != nil {
			return err
		}

		return withManager(cmd, func(m *todo.Manager) error {
			_, err := m.UpdateStatus(cmd.Context(), id, status)
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
}
