package compiler

import (
	"strings"

	"github.com/dermoumi/rmux/internal/shellwords"
)

// Command is one tmux command as an argument vector, without the tmux
// binary itself.
type Command struct {
	Args []string
}

// Name returns the tmux command name.
func (c Command) Name() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}

// Interactive reports whether the command takes over the client terminal
// and therefore cannot run through a detached command-source pipe.
func (c Command) Interactive() bool {
	switch c.Name() {
	case "attach-session", "switch-client":
		return true
	}
	return false
}

func (c Command) String() string {
	return shellwords.Join(c.Args)
}

// Script is the compiled, ordered list of tmux commands for one session.
type Script struct {
	Commands []Command
}

// Lines renders each command as a tmux command-source line.
func (s *Script) Lines() []string {
	lines := make([]string, len(s.Commands))
	for i, c := range s.Commands {
		lines[i] = c.String()
	}
	return lines
}

// String renders the whole script in tmux command-source form, one command
// per line with a trailing newline.
func (s *Script) String() string {
	lines := s.Lines()
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
