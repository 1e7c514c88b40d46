package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sarth-shah20/todo/internal/config"
	"github.com/sarth-shah20/todo/internal/logging"
	"github.com/sarth-shah20/todo/internal/store"
	"github.com/sarth-shah20/todo/internal/store/mongodb"
	"github.com/sarth-shah20/todo/internal/todo"
)

var (
	// Loaded by PersistentPreRunE before any command runs.
	cfg    *config.Config
	logger *zap.Logger

	configFile string
	verbose    bool
)

// openCollection connects to the configured collection. Tests replace it.
var openCollection = func(ctx context.Context, c config.Mongo, log *zap.Logger) (store.Collection, func(context.Context) error, error) {
	client, err := mongodb.Connect(ctx, c, log)
	if err != nil {
		return nil, nil, err
	}
	return client.Collection(), client.Disconnect, nil
}

var rootCmd = &cobra.Command{
	Use:   "todo",
	Short: "Manage todos stored in a MongoDB collection",
	Long: `todo creates, lists, updates and deletes todo items in the collection named by
MONGODB_URL, MONGODB_DATABASE and MONGODB_COLLECTION.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if skipsConfig(cmd) {
			return nil
		}

		loadedConfig, err := config.Load(configFile)
		if err != nil {
			return err
		}

		l, err := logging.New(verbose)
		if err != nil {
			return err
		}

		cfg = loadedConfig
		logger = l
		logger.Debug("config loaded",
			zap.String("command", cmd.CommandPath()),
			zap.String("database", cfg.Mongo.Database),
			zap.String("collection", cfg.Mongo.Collection),
		)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// skipsConfig reports whether cmd is help or shell completion, which must
// work without any MONGODB_* variables set.
func skipsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return rootCmd.Execute()
}

// withManager opens the collection, hands a Manager writing to the command's
// output to fn and disconnects afterwards.
func withManager(cmd *cobra.Command, fn func(*todo.Manager) error) (err error) {
	ctx := cmd.Context()

	coll, disconnect, err := openCollection(ctx, cfg.Mongo, logger)
	if err != nil {
		return err
	}
	defer func() {
		if derr := disconnect(ctx); derr != nil && err == nil {
			err = fmt.Errorf("closing connection: %w", derr)
		}
	}()

	return fn(todo.NewManager(coll, cmd.OutOrStdout(), logger))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "optional YAML config file (env vars take precedence)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
}
