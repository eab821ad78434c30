package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dermoumi/rmux/internal/config"
	"github.com/dermoumi/rmux/internal/expand"
	"github.com/dermoumi/rmux/internal/mux"
	"github.com/dermoumi/rmux/internal/otel"
	"github.com/dermoumi/rmux/internal/project"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

var (
	// Global flags.
	flagTmux        string
	flagSocket      string
	flagProjectsDir string
	flagVerbose     bool
)

var (
	toolCfg   *config.Config
	telemetry *otel.Telemetry
)

var rootCmd = &cobra.Command{
	Use:   "rmux",
	Short: "Compile declarative project files into tmux sessions",
	Long: `rmux turns a declarative project file (YAML or JSON) into a running
tmux session: windows, panes, splits, working directories, startup
commands, and lifecycle hooks.

Project files live in the projects directory (default
~/.config/rmux/projects) or as a local .rmux.yml next to the code they
describe. Compilation is all-or-nothing: a project that fails validation
never touches the tmux server.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		toolCfg, err = config.Load()
		if err != nil {
			return err
		}
		if flagTmux != "" {
			toolCfg.TmuxCommand = flagTmux
		}
		if flagSocket != "" {
			toolCfg.TmuxSocket = flagSocket
		}
		if flagProjectsDir != "" {
			toolCfg.ProjectsDir = flagProjectsDir
		}
		if flagVerbose {
			toolCfg.Verbose = true
		}

		level := slog.LevelWarn
		if toolCfg.Verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		otel.Version = Version
		telemetry, err = otel.Init(cmd.Context(), otel.OTELConfig{
			Endpoint: toolCfg.OTELEndpoint,
			Headers:  toolCfg.OTELHeaders,
		})
		if err != nil {
			// Telemetry failure never blocks session management.
			slog.Warn("otel init failed", "error", err)
			telemetry = nil
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if telemetry != nil {
			telemetry.Shutdown(context.Background())
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "rmux:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagTmux, "tmux", "", "tmux command to use (default: tmux)")
	rootCmd.PersistentFlags().StringVarP(&flagSocket, "socket", "L", "", "tmux socket name")
	rootCmd.PersistentFlags().StringVar(&flagProjectsDir, "projects-dir", "", "directory holding project files")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

// resolveProject finds the project to operate on: the named one when args
// carry a name, the local project file otherwise. The remaining args are
// the project's positional parameters.
func resolveProject(args []string) (config.Project, []string, error) {
	if len(args) > 0 {
		proj, err := toolCfg.FindProject(args[0])
		if err != nil {
			return config.Project{}, nil, err
		}
		return proj, args[1:], nil
	}
	proj, err := config.LocalProject()
	if err != nil {
		return config.Project{}, nil, err
	}
	return proj, nil, nil
}

// loadProject parses and validates a project document. sessionName, when
// non-empty, overrides the document's session name.
func loadProject(proj config.Project, params []string, sessionName string, forceAttach *bool) (*project.Config, error) {
	data, err := os.ReadFile(proj.Path)
	if err != nil {
		return nil, fmt.Errorf("reading project %s: %w", proj.Path, err)
	}

	env := expand.NewEnv(os.Environ(), params)
	cfg, err := project.Parse(data, env)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", proj.Name, err)
	}

	name := proj.Name
	if sessionName != "" {
		name = sessionName
	}
	cfg.Prepare(name, forceAttach)
	if sessionName != "" {
		cfg.SessionName = sessionName
	}
	if err := cfg.Check(); err != nil {
		return nil, fmt.Errorf("project %s: %w", proj.Name, err)
	}
	return cfg, nil
}

// buildServer resolves the tmux invocation: flags and tool config override
// the project document's tmux settings.
func buildServer(cfg *project.Config) (*mux.Server, error) {
	command := firstNonEmpty(toolCfg.TmuxCommand, cfg.TmuxCommand)
	socket := firstNonEmpty(toolCfg.TmuxSocket, cfg.TmuxSocket)
	options := firstNonEmpty(toolCfg.TmuxOptions, cfg.TmuxOptions)
	return mux.NewServer(command, socket, options)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
