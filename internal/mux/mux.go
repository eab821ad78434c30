// Package mux wraps the tmux server compiled session scripts run against.
//
// The package is pure transport: it renders the server invocation, probes
// server state, and executes command vectors. What those commands are and
// in which order they run is decided entirely by the compiler.
package mux

import (
	"fmt"

	"github.com/dermoumi/rmux/internal/shellwords"
)

// Server addresses one tmux server: the binary to call plus the socket and
// extra options prepended to every command.
type Server struct {
	binary string
	args   []string
}

// NewServer builds a Server from the project's tmux_command, tmux_socket,
// and tmux_options settings. command and options are split using shell
// rules, so quoted option values survive intact.
func NewServer(command, socket, options string) (*Server, error) {
	if command == "" {
		command = "tmux"
	}
	words, err := shellwords.Split(command)
	if err != nil {
		return nil, fmt.Errorf("invalid tmux command %q: %w", command, err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("invalid tmux command %q: empty", command)
	}

	s := &Server{binary: words[0], args: words[1:]}
	if socket != "" {
		s.args = append(s.args, "-L", socket)
	}
	if options != "" {
		extra, err := shellwords.Split(options)
		if err != nil {
			return nil, fmt.Errorf("invalid tmux options %q: %w", options, err)
		}
		s.args = append(s.args, extra...)
	}
	return s, nil
}

// Invocation renders the server command line as a single string. It is the
// value the __TMUX__ token resolves to inside hook commands.
func (s *Server) Invocation() string {
	return shellwords.Join(append([]string{s.binary}, s.args...))
}
