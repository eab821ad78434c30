// Package expand resolves variable references in project documents.
//
// Two independent token families exist. User variables ($NAME, ${NAME},
// ${NAME:-fallback}, $$) are resolved in a single pass against an
// environment snapshot plus positional parameters while the document is
// normalized. Builtin tokens (__TMUX__, __SESSION__, __WINDOW__, __PANE__)
// are resolved per emission site by the script compiler; see Context.
package expand

import "strings"

// Env is the user-variable expansion context: an environment snapshot and
// 1-indexed positional parameters. Purely numeric variable names resolve
// against the positional parameters, everything else against the
// environment. Expansion is a pure function of this context.
type Env struct {
	vars map[string]string
	args []string
}

// NewEnv builds an Env from "KEY=VALUE" pairs (the os.Environ format) and
// positional parameters. $1 refers to args[0].
func NewEnv(environ []string, args []string) *Env {
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		if idx := strings.IndexByte(kv, '='); idx > 0 {
			vars[kv[:idx]] = kv[idx+1:]
		}
	}
	return &Env{vars: vars, args: args}
}

// NewEnvFromMap builds an Env from an explicit variable map. Used by tests
// and callers that already hold a parsed environment.
func NewEnvFromMap(vars map[string]string, args []string) *Env {
	copied := make(map[string]string, len(vars))
	for k, v := range vars {
		copied[k] = v
	}
	return &Env{vars: copied, args: args}
}

// Expand resolves $NAME, ${NAME}, and ${NAME:-fallback} references in s.
//
// A variable that is set wins even when set to the empty string; the
// fallback applies only when the variable is unset. Unset variables without
// a fallback expand to the empty string. $$ produces a literal $ and is
// never re-expanded. Malformed references (no name, unterminated brace)
// pass through unchanged.
func (e *Env) Expand(s string) string {
	if !strings.ContainsRune(s, '$') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c != '$' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(s) {
			b.WriteByte('$')
			break
		}
		switch next := s[i+1]; {
		case next == '$':
			b.WriteByte('$')
			i += 2
		case next == '{':
			end := strings.IndexByte(s[i+2:], '}')
			if end < 0 {
				b.WriteByte('$')
				i++
				continue
			}
			body := s[i+2 : i+2+end]
			name, fallback, hasFallback := cutFallback(body)
			if !validName(name) {
				b.WriteString(s[i : i+3+end])
				i += 3 + end
				continue
			}
			if v, ok := e.lookup(name); ok {
				b.WriteString(v)
			} else if hasFallback {
				b.WriteString(fallback)
			}
			i += 3 + end
		default:
			end := nameEnd(s, i+1)
			if end == i+1 {
				b.WriteByte('$')
				i++
				continue
			}
			if v, ok := e.lookup(s[i+1 : end]); ok {
				b.WriteString(v)
			}
			i = end
		}
	}
	return b.String()
}

// lookup reports the value of name and whether it is set. Numeric names
// index the positional parameters.
func (e *Env) lookup(name string) (string, bool) {
	if isNumeric(name) {
		n := 0
		for i := 0; i < len(name); i++ {
			n = n*10 + int(name[i]-'0')
			if n > len(e.args) {
				return "", false
			}
		}
		if n >= 1 && n <= len(e.args) {
			return e.args[n-1], true
		}
		return "", false
	}
	v, ok := e.vars[name]
	return v, ok
}

func cutFallback(body string) (name, fallback string, ok bool) {
	if idx := strings.Index(body, ":-"); idx >= 0 {
		return body[:idx], body[idx+2:], true
	}
	return body, "", false
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func validName(s string) bool {
	if s == "" {
		return false
	}
	if isNumeric(s) {
		return true
	}
	if !isNameStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isNameChar(s[i]) {
			return false
		}
	}
	return true
}

// nameEnd returns the index just past a bare variable name starting at
// position start. Bare numeric names consume digits only, so "$1abc" reads
// as parameter 1 followed by the literal "abc".
func nameEnd(s string, start int) int {
	if start >= len(s) {
		return start
	}
	i := start
	if s[i] >= '0' && s[i] <= '9' {
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		return i
	}
	if !isNameStart(s[i]) {
		return start
	}
	for i < len(s) && isNameChar(s[i]) {
		i++
	}
	return i
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}
