package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dermoumi/rmux/internal/compiler"
	"github.com/dermoumi/rmux/internal/mux"
)

var debugCmd = &cobra.Command{
	Use:   "debug [project] [args...]",
	Short: "Print the compiled session script without running it",
	Long: `Debug compiles a project file and prints the resulting tmux command
script to stdout, one command per line.

The script is compiled in debug mode: neither on_first_start nor
on_restart hooks are included, and the final attach step is omitted, so
the output shows exactly the session-building commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, params, err := resolveProject(args)
		if err != nil {
			if len(args) > 0 {
				return err
			}
			proj, err = pickProject(cmd)
			if err != nil {
				return err
			}
		}

		cfg, err := loadProject(proj, params, flagName, nil)
		if err != nil {
			return err
		}

		server, err := buildServer(cfg)
		if err != nil {
			return err
		}

		script, err := compiler.Compile(cfg, compiler.Options{
			Mode:           compiler.ModeDebug,
			TmuxInvocation: server.Invocation(),
			InsideTmux:     mux.InsideTmux(),
		})
		if err != nil {
			return err
		}
		if telemetry != nil {
			telemetry.Metrics.RecordCompile(cmd.Context(), compiler.ModeDebug.String(), len(script.Commands))
		}

		fmt.Print(script.String())
		return nil
	},
}

func init() {
	debugCmd.Flags().StringVarP(&flagName, "name", "n", "", "override the session name")
	rootCmd.AddCommand(debugCmd)
}
