package mux

import "os"

// InsideTmux reports whether the current process runs inside a tmux
// client. Attaching from inside tmux must use switch-client instead of
// attach-session, which tmux refuses to nest.
func InsideTmux() bool {
	return os.Getenv("TMUX") != ""
}
