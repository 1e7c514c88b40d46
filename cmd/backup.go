package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sarth-shah20/todo/internal/backup"
	"github.com/sarth-shah20/todo/internal/config"
	"github.com/sarth-shah20/todo/internal/todo"
)

var backupKey string

// newBackup builds the S3 backup target. Tests replace it.
var newBackup = func(ctx context.Context, c config.Backup, log *zap.Logger) (*backup.Backup, error) {
	return backup.New(ctx, c.Bucket, c.Prefix, log)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Upload every todo as a JSON snapshot to S3",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		b, err := newBackup(ctx, cfg.Backup, logger)
		if err != nil {
			return err
		}
		// Reject bad keys before connecting.
		if _, err := b.Key(backupKey, time.Now()); err != nil {
			return err
		}

		return withManager(cmd, func(m *todo.Manager) error {
			todos, err := m.Find(ctx, todo.FilterAll)
			if err != nil {
				return err
			}

			key, err := b.Upload(ctx, todos, backupKey)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "uploaded %d todos to s3://%s/%s\n", len(todos), b.Bucket, key)
			return nil
		})
	},
}

func init() {
	backupCmd.Flags().StringVar(&backupKey, "key", "", "object name under the backup prefix (default: timestamped)")
	rootCmd.AddCommand(backupCmd)
}
