package mux

import "testing"

func TestNewServer_Invocation(t *testing.T) {
	cases := []struct {
		command string
		socket  string
		options string
		want    string
	}{
		{"", "", "", "tmux"},
		{"tmux", "work", "", "tmux -L work"},
		{"tmux", "", "-f /tmp/conf", "tmux -f /tmp/conf"},
		{"tmux -2", "dev", "", "tmux -2 -L dev"},
		{"", "", `-f '/path with spaces/conf'`, "tmux -f '/path with spaces/conf'"},
	}
	for _, c := range cases {
		s, err := NewServer(c.command, c.socket, c.options)
		if err != nil {
			t.Errorf("NewServer(%q, %q, %q): %v", c.command, c.socket, c.options, err)
			continue
		}
		if got := s.Invocation(); got != c.want {
			t.Errorf("Invocation(%q, %q, %q) = %q, want %q", c.command, c.socket, c.options, got, c.want)
		}
	}
}

func TestNewServer_InvalidOptions(t *testing.T) {
	if _, err := NewServer("tmux", "", "-f 'unterminated"); err == nil {
		t.Error("expected an error for unterminated quote in options")
	}
	if _, err := NewServer("'unterminated", "", ""); err == nil {
		t.Error("expected an error for unterminated quote in command")
	}
}
