package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dermoumi/rmux/internal/mux"
)

var flagJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List known projects",
	Long: `List the project files in the projects directory.

Each line is a project name that can be passed to start, debug, and stop.
Running projects are marked; --json emits machine-readable output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		projects, err := toolCfg.ListProjects()
		if err != nil {
			return err
		}

		running := map[string]bool{}
		if server, err := mux.NewServer(toolCfg.TmuxCommand, toolCfg.TmuxSocket, toolCfg.TmuxOptions); err == nil {
			if sessions, err := server.ListSessions(cmd.Context()); err == nil {
				for _, s := range sessions {
					running[s] = true
				}
			}
		}

		if flagJSON {
			type entry struct {
				Name    string `json:"name"`
				Path    string `json:"path"`
				Running bool   `json:"running"`
			}
			out := make([]entry, 0, len(projects))
			for _, p := range projects {
				out = append(out, entry{Name: p.Name, Path: p.Path, Running: running[p.Name]})
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		for _, p := range projects {
			if running[p.Name] {
				fmt.Printf("%s (running)\n", p.Name)
			} else {
				fmt.Println(p.Name)
			}
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&flagJSON, "json", false, "emit JSON output")
	rootCmd.AddCommand(listCmd)
}
