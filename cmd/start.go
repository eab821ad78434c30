package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/dermoumi/rmux/internal/compiler"
	"github.com/dermoumi/rmux/internal/config"
	"github.com/dermoumi/rmux/internal/mux"
	"github.com/dermoumi/rmux/internal/picker"
)

var (
	flagName      string
	flagAttach    bool
	flagDetached  bool
	flagDebugOnly bool
)

var startCmd = &cobra.Command{
	Use:   "start [project] [args...]",
	Short: "Start (or restart) a project session",
	Long: `Start compiles a project file into a tmux session and attaches to it.

With a project name, the file is looked up in the projects directory;
extra arguments become the project's positional parameters ($1, $2, ...).
Without a name, the local project file (.rmux.yml and friends) is used,
or an interactive picker when none exists.

A session that already exists is torn down and rebuilt, running the
project's on_restart hooks instead of on_first_start.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, params, err := resolveProject(args)
		if err != nil {
			if len(args) > 0 {
				return err
			}
			// No name and no local file: fall back to the picker.
			proj, err = pickProject(cmd)
			if err != nil {
				return err
			}
		}

		forceAttach, err := attachOverride(cmd)
		if err != nil {
			return err
		}

		cfg, err := loadProject(proj, params, flagName, forceAttach)
		if err != nil {
			return err
		}

		server, err := buildServer(cfg)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if telemetry != nil {
			var span trace.Span
			ctx, span = telemetry.Tracer.Start(ctx, "start")
			defer span.End()
		}

		mode := compiler.ModeFirstStart
		if server.HasSession(ctx, cfg.SessionName) {
			mode = compiler.ModeRestart
		}

		script, err := compiler.Compile(cfg, compiler.Options{
			Mode:           mode,
			TmuxInvocation: server.Invocation(),
			InsideTmux:     mux.InsideTmux(),
		})
		if err != nil {
			return err
		}
		if telemetry != nil {
			telemetry.Metrics.RecordCompile(ctx, mode.String(), len(script.Commands))
		}

		if flagDebugOnly {
			fmt.Print(script.String())
			return nil
		}

		// Rebuild from scratch so the script always starts from the same
		// server state.
		if mode == compiler.ModeRestart {
			slog.Debug("restarting session", "session", cfg.SessionName)
			if err := server.KillSession(ctx, cfg.SessionName); err != nil {
				return err
			}
		}

		slog.Debug("running session script",
			"project", proj.Name,
			"session", cfg.SessionName,
			"mode", mode.String(),
			"commands", len(script.Commands))
		if err := server.RunScript(ctx, script); err != nil {
			return err
		}
		if telemetry != nil {
			telemetry.Metrics.RecordSessionStarted(ctx, mode.String())
		}
		return nil
	},
}

func init() {
	startCmd.Flags().StringVarP(&flagName, "name", "n", "", "override the session name")
	startCmd.Flags().BoolVar(&flagAttach, "attach", false, "attach to the session even if the project says detached")
	startCmd.Flags().BoolVar(&flagDetached, "detached", false, "do not attach to the session")
	startCmd.Flags().BoolVar(&flagDebugOnly, "debug", false, "print the compiled script instead of running it")
	rootCmd.AddCommand(startCmd)
}

// attachOverride folds the --attach/--detached flags into an optional
// override of the project's attach setting.
func attachOverride(cmd *cobra.Command) (*bool, error) {
	if flagAttach && flagDetached {
		return nil, fmt.Errorf("--attach and --detached are mutually exclusive")
	}
	if flagAttach {
		v := true
		return &v, nil
	}
	if flagDetached {
		v := false
		return &v, nil
	}
	return nil, nil
}

// pickProject shows the interactive chooser over the projects directory.
func pickProject(cmd *cobra.Command) (config.Project, error) {
	projects, err := toolCfg.ListProjects()
	if err != nil {
		return config.Project{}, err
	}
	if len(projects) == 0 {
		return config.Project{}, fmt.Errorf("no projects in %s and no local project file", toolCfg.ProjectsDir)
	}

	running := map[string]bool{}
	if server, err := mux.NewServer(toolCfg.TmuxCommand, toolCfg.TmuxSocket, toolCfg.TmuxOptions); err == nil {
		if sessions, err := server.ListSessions(cmd.Context()); err == nil {
			for _, s := range sessions {
				running[s] = true
			}
		}
	}

	proj, ok, err := picker.Pick(projects, running)
	if err != nil {
		return config.Project{}, err
	}
	if !ok {
		return config.Project{}, fmt.Errorf("no project selected")
	}
	return proj, nil
}
