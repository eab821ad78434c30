package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagStopName string

var stopCmd = &cobra.Command{
	Use:   "stop [project]",
	Short: "Stop a project session",
	Long: `Stop kills the tmux session of a project.

on_stop hooks registered at start time fire through the session-closed
hook the compiled script installed, so stopping is a plain kill-session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, params, err := resolveProject(args)
		if err != nil {
			return err
		}

		cfg, err := loadProject(proj, params, flagStopName, nil)
		if err != nil {
			return err
		}

		server, err := buildServer(cfg)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if !server.HasSession(ctx, cfg.SessionName) {
			return fmt.Errorf("session %q is not running", cfg.SessionName)
		}
		if err := server.KillSession(ctx, cfg.SessionName); err != nil {
			return err
		}
		if telemetry != nil {
			telemetry.Metrics.RecordSessionStopped(ctx)
		}
		return nil
	},
}

func init() {
	stopCmd.Flags().StringVarP(&flagStopName, "name", "n", "", "override the session name")
	rootCmd.AddCommand(stopCmd)
}
