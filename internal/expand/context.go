package expand

import (
	"fmt"
	"strings"
)

// Builtin tokens resolved inside hook command text. Each becomes valid as
// the compiler descends from session to window to pane scope.
const (
	TokenTmux    = "__TMUX__"
	TokenSession = "__SESSION__"
	TokenWindow  = "__WINDOW__"
	TokenPane    = "__PANE__"
)

// TokenError reports a builtin token used at an emission site where its
// referent does not exist yet, e.g. __PANE__ inside a window-level
// on_create hook.
type TokenError struct {
	Token string
	Site  string
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("%s: %s is not available at this point", e.Site, e.Token)
}

// Context carries the builtin-token referents valid at one emission site.
// A session-scoped context knows the tmux invocation and session target;
// Window and Pane derive narrower contexts as those entities come into
// existence, so a token can never resolve to something the script has not
// created yet.
type Context struct {
	site    string
	tmux    string
	session string
	window  string
	pane    string
}

// NewContext returns a session-scoped context. tmux is the rendered
// multiplexer invocation (binary plus socket/options) and session the
// session target name.
func NewContext(tmux, session string) Context {
	return Context{site: "project", tmux: tmux, session: session}
}

// Window derives a window-scoped context for the given window target.
func (c Context) Window(target string) Context {
	c.window = target
	return c
}

// Pane derives a pane-scoped context for the given pane target. The window
// referent must already be set.
func (c Context) Pane(target string) Context {
	c.pane = target
	return c
}

// Site returns a copy of c with the emission-site label used in errors.
func (c Context) Site(format string, args ...any) Context {
	c.site = fmt.Sprintf(format, args...)
	return c
}

// Apply substitutes the builtin tokens in s. A token whose referent is not
// set in this context yields a *TokenError.
func (c Context) Apply(s string) (string, error) {
	for _, t := range []struct {
		token string
		value string
	}{
		{TokenTmux, c.tmux},
		{TokenSession, c.session},
		{TokenWindow, c.window},
		{TokenPane, c.pane},
	} {
		if !strings.Contains(s, t.token) {
			continue
		}
		if t.value == "" {
			return "", &TokenError{Token: t.token, Site: c.site}
		}
		s = strings.ReplaceAll(s, t.token, t.value)
	}
	return s, nil
}
