package shellwords

import (
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"tmux", []string{"tmux"}},
		{"tmux -L work -f /tmp/conf", []string{"tmux", "-L", "work", "-f", "/tmp/conf"}},
		{`say 'hello world'`, []string{"say", "hello world"}},
		{`say "hello world"`, []string{"say", "hello world"}},
		{`say "it's"`, []string{"say", "it's"}},
		{`say hello\ world`, []string{"say", "hello world"}},
		{`a ""`, []string{"a", ""}},
	}
	for _, c := range cases {
		got, err := Split(c.in)
		if err != nil {
			t.Errorf("Split(%q): %v", c.in, err)
			continue
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("Split(%q) = %#v, want %#v", c.in, got, c.want)
		}
	}
}

func TestSplit_UnterminatedQuote(t *testing.T) {
	for _, in := range []string{`say 'oops`, `say "oops`, `trailing \`} {
		if _, err := Split(in); err == nil {
			t.Errorf("Split(%q): expected an error", in)
		}
	}
}

func TestQuote(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"/usr/bin/vim", "/usr/bin/vim"},
		{"", "''"},
		{"two words", "'two words'"},
		{"a'b", `'a'\''b'`},
		{"$HOME", "'$HOME'"},
		{"a;b", "'a;b'"},
	}
	for _, c := range cases {
		if got := Quote(c.in); got != c.want {
			t.Errorf("Quote(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestJoin(t *testing.T) {
	got := Join([]string{"send-keys", "-t", "s:1.1", "echo hi", ""})
	want := `send-keys -t s:1.1 'echo hi' ''`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
