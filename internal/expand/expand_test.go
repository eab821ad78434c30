package expand

import "testing"

func testEnv() *Env {
	return NewEnvFromMap(map[string]string{
		"HOME":  "/home/dev",
		"EMPTY": "",
		"USER":  "dev",
	}, []string{"alpha", "beta"})
}

func TestExpand_BareAndBraced(t *testing.T) {
	e := testEnv()
	cases := []struct {
		in   string
		want string
	}{
		{"echo $USER", "echo dev"},
		{"echo ${USER}", "echo dev"},
		{"$HOME/bin", "/home/dev/bin"},
		{"${HOME}x", "/home/devx"},
		{"no variables here", "no variables here"},
		{"$USER$HOME", "dev/home/dev"},
	}
	for _, c := range cases {
		if got := e.Expand(c.in); got != c.want {
			t.Errorf("Expand(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestExpand_FallbackOnlyWhenUnset(t *testing.T) {
	e := testEnv()
	cases := []struct {
		in   string
		want string
	}{
		{"${MISSING:-default}", "default"},
		{"${EMPTY:-default}", ""},
		{"${USER:-nobody}", "dev"},
		{"${MISSING}", ""},
		{"$MISSING", ""},
		{"${MISSING:-}", ""},
	}
	for _, c := range cases {
		if got := e.Expand(c.in); got != c.want {
			t.Errorf("Expand(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestExpand_PositionalParams(t *testing.T) {
	e := testEnv()
	cases := []struct {
		in   string
		want string
	}{
		{"$1", "alpha"},
		{"${2}", "beta"},
		{"$3", ""},
		{"${3:-gamma}", "gamma"},
		// bare numeric names consume digits only
		{"$1abc", "alphaabc"},
		{"$0", ""},
	}
	for _, c := range cases {
		if got := e.Expand(c.in); got != c.want {
			t.Errorf("Expand(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestExpand_DollarDollarLiteral(t *testing.T) {
	e := testEnv()
	if got := e.Expand("cost: $$5"); got != "cost: $5" {
		t.Errorf("got %q, want %q", got, "cost: $5")
	}
	// $$ never re-expands: $$USER is a literal $ followed by USER
	if got := e.Expand("$$USER"); got != "$USER" {
		t.Errorf("got %q, want %q", got, "$USER")
	}
}

func TestExpand_MalformedPassesThrough(t *testing.T) {
	e := testEnv()
	cases := []struct {
		in   string
		want string
	}{
		{"$", "$"},
		{"$ ", "$ "},
		{"${", "${"},
		{"${USER", "${USER"},
		{"${!bad}", "${!bad}"},
		{"a$%b", "a$%b"},
	}
	for _, c := range cases {
		if got := e.Expand(c.in); got != c.want {
			t.Errorf("Expand(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestExpand_Deterministic(t *testing.T) {
	e := testEnv()
	in := "run $USER ${MISSING:-x} $1 $$"
	first := e.Expand(in)
	for i := 0; i < 3; i++ {
		if got := e.Expand(in); got != first {
			t.Fatalf("expansion not stable: %q vs %q", got, first)
		}
	}
}

func TestContext_ScopedTokens(t *testing.T) {
	ctx := NewContext("tmux -L work", "proj")

	got, err := ctx.Apply("__TMUX__ kill-session -t __SESSION__")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "tmux -L work kill-session -t proj" {
		t.Errorf("got %q", got)
	}

	// window token invalid at session scope
	if _, err := ctx.Site("on_start").Apply("echo __WINDOW__"); err == nil {
		t.Fatal("expected error for __WINDOW__ at session scope")
	} else if te, ok := err.(*TokenError); !ok {
		t.Fatalf("expected *TokenError, got %T", err)
	} else if te.Token != TokenWindow {
		t.Errorf("token: got %q, want %q", te.Token, TokenWindow)
	}

	wctx := ctx.Window("proj:1")
	got, err = wctx.Apply("echo __WINDOW__")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "echo proj:1" {
		t.Errorf("got %q", got)
	}
	if _, err := wctx.Apply("echo __PANE__"); err == nil {
		t.Fatal("expected error for __PANE__ at window scope")
	}

	pctx := wctx.Pane("proj:1.2")
	got, err = pctx.Apply("__TMUX__ send-keys -t __PANE__ ls Enter")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "tmux -L work send-keys -t proj:1.2 ls Enter" {
		t.Errorf("got %q", got)
	}
}

func TestContext_NoTokensUntouched(t *testing.T) {
	ctx := NewContext("tmux", "s")
	in := "plain text with $dollar and __OTHER__"
	got, err := ctx.Apply(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != in {
		t.Errorf("got %q, want unchanged", got)
	}
}
