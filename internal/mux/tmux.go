package mux

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/dermoumi/rmux/internal/compiler"
)

// HasSession reports whether a session with exactly the given name exists.
// The "=" prefix disables tmux's prefix matching.
func (s *Server) HasSession(ctx context.Context, name string) bool {
	_, err := s.run(ctx, "has-session", "-t", "="+name)
	return err == nil
}

// ListSessions returns the names of all sessions on the server. A server
// that is not running is an empty list, not an error.
func (s *Server) ListSessions(ctx context.Context) ([]string, error) {
	out, err := s.run(ctx, "list-sessions", "-F", "#{session_name}")
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// KillSession terminates the named session.
func (s *Server) KillSession(ctx context.Context, name string) error {
	if _, err := s.run(ctx, "kill-session", "-t", "="+name); err != nil {
		return fmt.Errorf("kill-session %s: %w", name, err)
	}
	return nil
}

// RunScript executes a compiled script one command at a time, stopping at
// the first failure. Interactive commands (attach-session, switch-client)
// take over the terminal, so they run with the caller's stdio wired
// through instead of captured.
func (s *Server) RunScript(ctx context.Context, script *compiler.Script) error {
	for _, c := range script.Commands {
		if c.Interactive() {
			if err := s.runInteractive(ctx, c.Args...); err != nil {
				return fmt.Errorf("%s: %w", c.Name(), err)
			}
			continue
		}
		if _, err := s.run(ctx, c.Args...); err != nil {
			return fmt.Errorf("%s: %w", c.Name(), err)
		}
	}
	return nil
}

// run executes one tmux command and returns its stdout.
func (s *Server) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, s.binary, append(append([]string{}, s.args...), args...)...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}

func (s *Server) runInteractive(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, s.binary, append(append([]string{}, s.args...), args...)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
