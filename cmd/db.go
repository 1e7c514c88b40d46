package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarth-shah20/todo/internal/docker"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage a local MongoDB container for development",
}

func newDockerManager(cmd *cobra.Command) (*docker.Manager, error) {
	return docker.NewManager(cmd.OutOrStdout(), logger)
}

var dbUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Start the development database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newDockerManager(cmd)
		if err != nil {
			return err
		}
		defer mgr.Close()

		ctx := cmd.Context()
		spec := docker.DatabaseSpec{
			Image:   cfg.DevDB.Image,
			Port:    cfg.DevDB.Port,
			Volume:  cfg.DevDB.Volume,
			Network: cfg.DevDB.Network,
		}

		if err := mgr.EnsureImage(ctx, spec.Image); err != nil {
			return err
		}
		if spec.Network != "" {
			if err := mgr.EnsureNetwork(ctx, spec.Network); err != nil {
				return err
			}
		}
		if err := mgr.StartDatabase(ctx, spec); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Development database running (%s, ports %s).\n", spec.Image, spec.Port)
		return nil
	},
}

var dbDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Stop and remove the development database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newDockerManager(cmd)
		if err != nil {
			return err
		}
		defer mgr.Close()

		if err := mgr.TeardownDatabase(cmd.Context(), cfg.DevDB.Network); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Development database stopped.")
		return nil
	},
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List development database containers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newDockerManager(cmd)
		if err != nil {
			return err
		}
		defer mgr.Close()

		containers, err := mgr.ListContainers(cmd.Context())
		if err != nil {
			return err
		}

		if len(containers) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No development database found.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tIMAGE\tSTATUS\tPORTS")
		for _, c := range containers {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", docker.DisplayName(c), c.Image, c.Status, docker.FormatPorts(c))
		}
		return w.Flush()
	},
}

func init() {
	dbCmd.AddCommand(dbUpCmd, dbDownCmd, dbStatusCmd)
	rootCmd.AddCommand(dbCmd)
}
