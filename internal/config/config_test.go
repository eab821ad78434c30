package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.ProjectsDir == "" {
		t.Error("expected a default projects dir")
	}
	if cfg.TmuxCommand != "" || cfg.TmuxSocket != "" {
		t.Errorf("tmux settings should default empty: %+v", cfg)
	}
	if cfg.Verbose {
		t.Error("verbose should default off")
	}
}

func TestMergeFile(t *testing.T) {
	cfg := Defaults()
	mergeFile(cfg, &Config{
		TmuxSocket:  "work",
		ProjectsDir: "/srv/projects",
		Verbose:     true,
	})
	if cfg.TmuxSocket != "work" {
		t.Errorf("socket: %q", cfg.TmuxSocket)
	}
	if cfg.ProjectsDir != "/srv/projects" {
		t.Errorf("projects dir: %q", cfg.ProjectsDir)
	}
	if !cfg.Verbose {
		t.Error("verbose not merged")
	}

	// empty file values do not clobber defaults
	before := cfg.ProjectsDir
	mergeFile(cfg, &Config{})
	if cfg.ProjectsDir != before {
		t.Errorf("empty merge clobbered projects dir: %q", cfg.ProjectsDir)
	}
}

func TestMergeEnv(t *testing.T) {
	t.Setenv("RMUX_TMUX_SOCKET", "envsock")
	t.Setenv("RMUX_VERBOSE", "1")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318")

	cfg := Defaults()
	cfg.TmuxSocket = "filesock"
	mergeEnv(cfg)
	if cfg.TmuxSocket != "envsock" {
		t.Errorf("env should win: %q", cfg.TmuxSocket)
	}
	if !cfg.Verbose {
		t.Error("verbose env not applied")
	}
	if cfg.OTELEndpoint != "http://localhost:4318" {
		t.Errorf("otel endpoint: %q", cfg.OTELEndpoint)
	}
}

func TestFindProject(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "api.yml"), []byte("session_name: api"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "web.json"), []byte(`{"session_name": "web"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{ProjectsDir: dir}
	p, err := cfg.FindProject("api")
	if err != nil {
		t.Fatalf("FindProject: %v", err)
	}
	if p.Path != filepath.Join(dir, "api.yml") {
		t.Errorf("path: %q", p.Path)
	}

	if p, err = cfg.FindProject("web"); err != nil {
		t.Fatalf("FindProject json: %v", err)
	} else if p.Name != "web" {
		t.Errorf("name: %q", p.Name)
	}

	if _, err := cfg.FindProject("missing"); err == nil {
		t.Error("expected an error for unknown project")
	}
}

func TestListProjects(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"zeta.yml", "alpha.yaml", "notes.txt", "mid.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := &Config{ProjectsDir: dir}
	projects, err := cfg.ListProjects()
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	var names []string
	for _, p := range projects {
		names = append(names, p.Name)
	}
	want := []string{"alpha", "mid", "zeta"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("project %d: got %q, want %q", i, names[i], want[i])
		}
	}

	// missing dir is empty, not an error
	cfg = &Config{ProjectsDir: filepath.Join(dir, "nope")}
	if projects, err := cfg.ListProjects(); err != nil || projects != nil {
		t.Errorf("missing dir: got %v, %v", projects, err)
	}
}
