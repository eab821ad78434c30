package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dermoumi/rmux/internal/expand"
)

// Field alias tables. Every document key maps to its canonical field name;
// unknown keys are structural errors so typos never pass silently.
var projectAliases = map[string]string{
	"session_name":           "session_name",
	"name":                   "session_name",
	"tmux_command":           "tmux_command",
	"tmux_options":           "tmux_options",
	"tmux_socket":            "tmux_socket",
	"socket_name":            "tmux_socket",
	"working_dir":            "working_dir",
	"root":                   "working_dir",
	"window_base_index":      "window_base_index",
	"pane_base_index":        "pane_base_index",
	"startup_window":         "startup_window",
	"startup_pane":           "startup_pane",
	"on_start":               "on_start",
	"on_project_start":       "on_start",
	"on_first_start":         "on_first_start",
	"on_project_first_start": "on_first_start",
	"on_restart":             "on_restart",
	"on_project_restart":     "on_restart",
	"on_exit":                "on_exit",
	"on_project_exit":        "on_exit",
	"on_stop":                "on_stop",
	"on_project_stop":        "on_stop",
	"on_create":              "on_create",
	"post_create":            "post_create",
	"on_pane_create":         "on_pane_create",
	"post_pane_create":       "post_pane_create",
	"pane_commands":          "pane_commands",
	"pane_command":           "pane_commands",
	"pre_window":             "pane_commands",
	"pre":                    "pane_commands",
	"clear_panes":            "clear_panes",
	"attach":                 "attach",
	"tmux_attached":          "attach",
	"detached":               "detached",
	"tmux_detached":          "detached",
	"windows":                "windows",
	"window":                 "windows",
}

var windowAliases = map[string]string{
	"name":             "name",
	"title":            "name",
	"working_dir":      "working_dir",
	"root":             "working_dir",
	"layout":           "layout",
	"on_create":        "on_create",
	"post_create":      "post_create",
	"on_pane_create":   "on_pane_create",
	"post_pane_create": "post_pane_create",
	"pane_commands":    "pane_commands",
	"pane_command":     "pane_commands",
	"pre":              "pane_commands",
	"clear_panes":      "clear_panes",
	"clear":            "clear_panes",
	"panes":            "panes",
	"pane":             "panes",
	"commands":         "commands",
	"command":          "commands",
}

var paneAliases = map[string]string{
	"working_dir": "working_dir",
	"root":        "working_dir",
	"split_from":  "split_from",
	"split":       "split",
	"split_size":  "split_size",
	"size":        "split_size",
	"clear":       "clear",
	"on_create":   "on_create",
	"post_create": "post_create",
	"send_keys":   "send_keys",
	"commands":    "commands",
	"command":     "commands",
}

// Parse normalizes a YAML or JSON project document into the canonical
// Config tree. User-variable expansion (pass 1) is applied to every string
// field as it is read, so the returned tree contains no $NAME references.
func Parse(data []byte, env *expand.Env) (*Config, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &StructuralError{Msg: fmt.Sprintf("invalid document: %v", err)}
	}
	node := &root
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, &StructuralError{Msg: "project document is empty"}
		}
		node = root.Content[0]
	}
	d := &decoder{env: env}
	return d.project(node)
}

type decoder struct {
	env *expand.Env
}

// rawWindow and rawPane keep document-level optionality (nil means unset)
// so inheritance can be resolved in one explicit pass afterwards.
type rawWindow struct {
	name       *string
	workingDir *string
	layout     string

	onCreate       []string
	postCreate     []string
	onPaneCreate   []string
	postPaneCreate []string
	paneCommands   []string
	clearPanes     *bool

	panes []rawPane
}

type rawPane struct {
	workingDir *string
	splitFrom  *int
	split      *SplitDirection
	splitSize  string
	clear      *bool

	onCreate   []string
	postCreate []string
	commands   []string
	sendKeys   string
}

func (d *decoder) project(n *yaml.Node) (*Config, error) {
	if isNull(n) {
		return nil, &StructuralError{Msg: "project document is empty"}
	}
	f, err := d.fields(n, "", projectAliases)
	if err != nil {
		return nil, err
	}
	if len(f) == 0 {
		return nil, &StructuralError{Msg: "project document is empty"}
	}

	cfg := &Config{
		WindowBaseIndex: DefaultWindowBaseIndex,
		PaneBaseIndex:   DefaultPaneBaseIndex,
		Attach:          true,
	}

	if cfg.SessionName, err = d.optString(f, "session_name"); err != nil {
		return nil, err
	}
	if cfg.TmuxCommand, err = d.optString(f, "tmux_command"); err != nil {
		return nil, err
	}
	if cfg.TmuxOptions, err = d.optString(f, "tmux_options"); err != nil {
		return nil, err
	}
	if cfg.TmuxSocket, err = d.optString(f, "tmux_socket"); err != nil {
		return nil, err
	}

	cfg.WorkingDir, err = d.projectDir(f["working_dir"])
	if err != nil {
		return nil, err
	}

	if err := d.optIndex(f, "window_base_index", &cfg.WindowBaseIndex); err != nil {
		return nil, err
	}
	if err := d.optIndex(f, "pane_base_index", &cfg.PaneBaseIndex); err != nil {
		return nil, err
	}

	if node, ok := f["startup_window"]; ok && !isNull(node) {
		sel, err := d.selector(node, "startup_window")
		if err != nil {
			return nil, err
		}
		cfg.StartupWindow = sel
	}
	if node, ok := f["startup_pane"]; ok && !isNull(node) {
		idx, err := d.intScalar(node, "startup_pane")
		if err != nil {
			return nil, err
		}
		cfg.StartupPane = &idx
	}

	for _, h := range []struct {
		key string
		dst *[]string
	}{
		{"on_start", &cfg.OnStart},
		{"on_first_start", &cfg.OnFirstStart},
		{"on_restart", &cfg.OnRestart},
		{"on_exit", &cfg.OnExit},
		{"on_stop", &cfg.OnStop},
		{"on_create", &cfg.OnCreate},
		{"post_create", &cfg.PostCreate},
		{"on_pane_create", &cfg.OnPaneCreate},
		{"post_pane_create", &cfg.PostPaneCreate},
		{"pane_commands", &cfg.PaneCommands},
	} {
		if *h.dst, err = d.optCommands(f, h.key); err != nil {
			return nil, err
		}
	}

	if node, ok := f["clear_panes"]; ok && !isNull(node) {
		if cfg.ClearPanes, err = d.boolScalar(node, "clear_panes"); err != nil {
			return nil, err
		}
	}

	if err := d.attachFlag(f, cfg); err != nil {
		return nil, err
	}

	raws, err := d.windows(f["windows"])
	if err != nil {
		return nil, err
	}
	if err := d.resolve(cfg, raws); err != nil {
		return nil, err
	}
	return cfg, nil
}

// attachFlag folds the mutually exclusive attach/detached pair into a
// single boolean, defaulting to attach.
func (d *decoder) attachFlag(f map[string]*yaml.Node, cfg *Config) error {
	attachNode, hasAttach := f["attach"]
	detachNode, hasDetach := f["detached"]
	hasAttach = hasAttach && !isNull(attachNode)
	hasDetach = hasDetach && !isNull(detachNode)
	if hasAttach && hasDetach {
		return &StructuralError{Path: "attach", Msg: "cannot set both 'attach' and 'detached'"}
	}
	if hasAttach {
		v, err := d.boolScalar(attachNode, "attach")
		if err != nil {
			return err
		}
		cfg.Attach = v
	} else if hasDetach {
		v, err := d.boolScalar(detachNode, "detached")
		if err != nil {
			return err
		}
		cfg.Attach = !v
	}
	return nil
}

// windows accepts a sequence of window entries, a single entry (scalar or
// mapping), or nothing (one default window).
func (d *decoder) windows(n *yaml.Node) ([]rawWindow, error) {
	if isNull(n) {
		return []rawWindow{{panes: []rawPane{{}}}}, nil
	}
	if n.Kind == yaml.SequenceNode {
		if len(n.Content) == 0 {
			return []rawWindow{{panes: []rawPane{{}}}}, nil
		}
		out := make([]rawWindow, 0, len(n.Content))
		for i, entry := range n.Content {
			w, err := d.windowEntry(entry, fmt.Sprintf("windows[%d]", i))
			if err != nil {
				return nil, err
			}
			out = append(out, w)
		}
		return out, nil
	}
	w, err := d.windowEntry(n, "windows")
	if err != nil {
		return nil, err
	}
	return []rawWindow{w}, nil
}

// windowEntry disambiguates the polymorphic window shapes. Priority order:
// a mapping whose first key is a reserved window field name is the window's
// fields; otherwise a single-key mapping names the window; scalars are a
// lone pane command in an unnamed window.
func (d *decoder) windowEntry(n *yaml.Node, path string) (rawWindow, error) {
	switch {
	case isNull(n):
		return rawWindow{panes: []rawPane{{}}}, nil

	case n.Kind == yaml.ScalarNode:
		cmd := normalizeCommand(d.env.Expand(n.Value))
		return rawWindow{panes: []rawPane{{commands: []string{cmd}}}}, nil

	case n.Kind == yaml.MappingNode:
		if len(n.Content) >= 2 {
			first := n.Content[0]
			if first.Kind == yaml.ScalarNode && !isNull(first) {
				if _, reserved := windowAliases[first.Value]; reserved {
					return d.windowFields(n, path, nil)
				}
			}
		}
		if len(n.Content) == 2 {
			return d.namedWindow(n.Content[0], n.Content[1], path)
		}
		return rawWindow{}, &StructuralError{
			Path: path,
			Msg:  "window entry must be a name, a single-key mapping, or a window-fields mapping",
		}

	default:
		return rawWindow{}, wrongKind(path, "a window entry", n)
	}
}

// namedWindow handles the single-key form: the key is the window name (or
// null for "no name") and the value a command, a pane list, or the window
// fields.
func (d *decoder) namedWindow(key, val *yaml.Node, path string) (rawWindow, error) {
	var name *string
	if !isNull(key) {
		if key.Kind != yaml.ScalarNode {
			return rawWindow{}, wrongKind(path, "a window name", key)
		}
		expanded := d.env.Expand(key.Value)
		name = &expanded
	}

	switch {
	case isNull(val):
		return rawWindow{name: name, panes: []rawPane{{}}}, nil

	case val.Kind == yaml.ScalarNode:
		cmd := normalizeCommand(d.env.Expand(val.Value))
		return rawWindow{name: name, panes: []rawPane{{commands: []string{cmd}}}}, nil

	case val.Kind == yaml.SequenceNode:
		panes, err := d.panes(val, path)
		if err != nil {
			return rawWindow{}, err
		}
		return rawWindow{name: name, panes: panes}, nil

	case val.Kind == yaml.MappingNode:
		w, err := d.windowFields(val, path, name)
		if err != nil {
			return rawWindow{}, err
		}
		return w, nil

	default:
		return rawWindow{}, wrongKind(path, "a window definition", val)
	}
}

// windowFields decodes a full window-fields mapping. keyName, when the
// entry used the single-key form, provides the name; a conflicting name
// field inside the mapping is rejected.
func (d *decoder) windowFields(n *yaml.Node, path string, keyName *string) (rawWindow, error) {
	f, err := d.fields(n, path, windowAliases)
	if err != nil {
		return rawWindow{}, err
	}

	w := rawWindow{name: keyName}
	if node, ok := f["name"]; ok {
		if isNull(node) {
			if keyName == nil {
				w.name = nil
			}
		} else {
			v, err := d.stringScalar(node, path+".name")
			if err != nil {
				return rawWindow{}, err
			}
			if keyName != nil && *keyName != v {
				return rawWindow{}, &StructuralError{
					Path: path + ".name",
					Msg:  fmt.Sprintf("window name %q conflicts with entry key %q", v, *keyName),
				}
			}
			w.name = &v
		}
	}

	if node, ok := f["working_dir"]; ok {
		dir, err := d.dirScalar(node, path+".working_dir")
		if err != nil {
			return rawWindow{}, err
		}
		w.workingDir = &dir
	}

	if node, ok := f["layout"]; ok && !isNull(node) {
		layout, err := d.stringScalar(node, path+".layout")
		if err != nil {
			return rawWindow{}, err
		}
		if !namedLayouts[layout] && !strings.ContainsAny(layout, ",{") {
			return rawWindow{}, &StructuralError{
				Path: path + ".layout",
				Msg:  fmt.Sprintf("%q is not a known layout or a custom layout descriptor", layout),
			}
		}
		w.layout = layout
	}

	for _, h := range []struct {
		key string
		dst *[]string
	}{
		{"on_create", &w.onCreate},
		{"post_create", &w.postCreate},
		{"on_pane_create", &w.onPaneCreate},
		{"post_pane_create", &w.postPaneCreate},
		{"pane_commands", &w.paneCommands},
	} {
		if node, ok := f[h.key]; ok && !isNull(node) {
			cmds, err := d.commands(node, path+"."+h.key)
			if err != nil {
				return rawWindow{}, err
			}
			*h.dst = cmds
		}
	}

	if node, ok := f["clear_panes"]; ok && !isNull(node) {
		v, err := d.boolScalar(node, path+".clear_panes")
		if err != nil {
			return rawWindow{}, err
		}
		w.clearPanes = &v
	}

	if node, ok := f["panes"]; ok && !isNull(node) {
		switch node.Kind {
		case yaml.SequenceNode:
			w.panes, err = d.panes(node, path)
			if err != nil {
				return rawWindow{}, err
			}
		case yaml.ScalarNode, yaml.MappingNode:
			p, err := d.paneEntry(node, path+".panes[0]")
			if err != nil {
				return rawWindow{}, err
			}
			w.panes = []rawPane{p}
		default:
			return rawWindow{}, wrongKind(path+".panes", "a pane list", node)
		}
	}

	// A window-level command list is shorthand for a single pane.
	if node, ok := f["commands"]; ok && !isNull(node) {
		if len(w.panes) > 0 {
			return rawWindow{}, &StructuralError{
				Path: path + ".commands",
				Msg:  "cannot set both commands and panes",
			}
		}
		cmds, err := d.commands(node, path+".commands")
		if err != nil {
			return rawWindow{}, err
		}
		w.panes = []rawPane{{commands: cmds}}
	}

	if len(w.panes) == 0 {
		w.panes = []rawPane{{}}
	}
	return w, nil
}

func (d *decoder) panes(n *yaml.Node, windowPath string) ([]rawPane, error) {
	if len(n.Content) == 0 {
		return []rawPane{{}}, nil
	}
	out := make([]rawPane, 0, len(n.Content))
	for i, entry := range n.Content {
		p, err := d.paneEntry(entry, fmt.Sprintf("%s.panes[%d]", windowPath, i))
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (d *decoder) paneEntry(n *yaml.Node, path string) (rawPane, error) {
	switch {
	case isNull(n):
		return rawPane{}, nil

	case n.Kind == yaml.ScalarNode:
		cmd := normalizeCommand(d.env.Expand(n.Value))
		return rawPane{commands: []string{cmd}}, nil

	case n.Kind == yaml.MappingNode:
		return d.paneFields(n, path)

	default:
		return rawPane{}, wrongKind(path, "a pane entry", n)
	}
}

func (d *decoder) paneFields(n *yaml.Node, path string) (rawPane, error) {
	f, err := d.fields(n, path, paneAliases)
	if err != nil {
		return rawPane{}, err
	}

	var p rawPane
	if node, ok := f["working_dir"]; ok {
		dir, err := d.dirScalar(node, path+".working_dir")
		if err != nil {
			return rawPane{}, err
		}
		p.workingDir = &dir
	}
	if node, ok := f["split_from"]; ok && !isNull(node) {
		idx, err := d.intScalar(node, path+".split_from")
		if err != nil {
			return rawPane{}, err
		}
		p.splitFrom = &idx
	}
	if node, ok := f["split"]; ok && !isNull(node) {
		v, err := d.stringScalar(node, path+".split")
		if err != nil {
			return rawPane{}, err
		}
		dir, err := parseSplit(v, path+".split")
		if err != nil {
			return rawPane{}, err
		}
		p.split = &dir
	}
	if node, ok := f["split_size"]; ok && !isNull(node) {
		v, err := d.stringScalar(node, path+".split_size")
		if err != nil {
			return rawPane{}, err
		}
		if !validSplitSize(v) {
			return rawPane{}, &StructuralError{
				Path: path + ".split_size",
				Msg:  fmt.Sprintf("%q is not a cell count or percentage", v),
			}
		}
		p.splitSize = v
	}
	if node, ok := f["clear"]; ok && !isNull(node) {
		v, err := d.boolScalar(node, path+".clear")
		if err != nil {
			return rawPane{}, err
		}
		p.clear = &v
	}
	for _, h := range []struct {
		key string
		dst *[]string
	}{
		{"on_create", &p.onCreate},
		{"post_create", &p.postCreate},
		{"commands", &p.commands},
	} {
		if node, ok := f[h.key]; ok && !isNull(node) {
			cmds, err := d.commands(node, path+"."+h.key)
			if err != nil {
				return rawPane{}, err
			}
			*h.dst = cmds
		}
	}
	if node, ok := f["send_keys"]; ok && !isNull(node) {
		v, err := d.stringScalar(node, path+".send_keys")
		if err != nil {
			return rawPane{}, err
		}
		v = strings.ReplaceAll(v, "\r", "")
		if strings.ContainsRune(v, '\n') {
			return rawPane{}, &StructuralError{
				Path: path + ".send_keys",
				Msg:  "send_keys text must not contain a newline",
			}
		}
		p.sendKeys = v
	}
	return p, nil
}

// resolve applies the inheritance cascade once: window fields fall back to
// project defaults, pane fields to window defaults. It also enforces the
// window-level invariants normalization cannot check per-field.
func (d *decoder) resolve(cfg *Config, raws []rawWindow) error {
	cfg.Windows = make([]Window, 0, len(raws))
	for i, rw := range raws {
		path := fmt.Sprintf("windows[%d]", i)

		w := Window{
			Name:           rw.name,
			Layout:         rw.layout,
			OnCreate:       fallback(rw.onCreate, cfg.OnCreate),
			PostCreate:     rw.postCreate,
			OnPaneCreate:   fallback(rw.onPaneCreate, cfg.OnPaneCreate),
			PostPaneCreate: fallback(rw.postPaneCreate, cfg.PostPaneCreate),
			PaneCommands:   fallback(rw.paneCommands, cfg.PaneCommands),
		}
		if w.Name != nil {
			if err := CheckIdentifier(path+".name", *w.Name); err != nil {
				return err
			}
		}
		w.WorkingDir = inheritDir(rw.workingDir, cfg.WorkingDir)
		if rw.clearPanes != nil {
			w.ClearPanes = *rw.clearPanes
		} else {
			w.ClearPanes = cfg.ClearPanes
		}

		for j, rp := range rw.panes {
			panePath := fmt.Sprintf("%s.panes[%d]", path, j)
			if j == 0 && (rp.splitFrom != nil || rp.split != nil || rp.splitSize != "") {
				return &StructuralError{
					Path: panePath,
					Msg:  "split directives are not valid on the first pane of a window",
				}
			}
			if w.Layout != "" && (rp.split != nil || rp.splitSize != "") {
				return &StructuralError{
					Path: panePath,
					Msg:  fmt.Sprintf("cannot use split directives together with layout %q", w.Layout),
				}
			}

			p := Pane{
				SplitFrom:    rp.splitFrom,
				Split:        rp.split,
				SplitSize:    rp.splitSize,
				OnCreate:     fallback(rp.onCreate, w.OnPaneCreate),
				PostCreate:   rp.postCreate,
				PaneCommands: w.PaneCommands,
				Commands:     rp.commands,
				SendKeys:     rp.sendKeys,
			}
			p.WorkingDir = inheritDir(rp.workingDir, w.WorkingDir)
			if rp.clear != nil {
				p.Clear = *rp.clear
			} else {
				p.Clear = w.ClearPanes
			}
			w.Panes = append(w.Panes, p)
		}
		cfg.Windows = append(cfg.Windows, w)
	}
	return nil
}

// --- node helpers ---

// joinPath appends a field name to a dotted path, omitting the separator
// when the base path is empty (top-level fields).
func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

// fields collapses a mapping's keys through the alias table. Two aliases
// of the same field are accepted only when their values agree.
func (d *decoder) fields(n *yaml.Node, path string, aliases map[string]string) (map[string]*yaml.Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, wrongKind(path, "a mapping", n)
	}
	out := make(map[string]*yaml.Node)
	used := make(map[string]string)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, wrongKind(path, "a field name", key)
		}
		canonical, ok := aliases[key.Value]
		if !ok {
			return nil, &StructuralError{
				Path: joinPath(path, key.Value),
				Msg:  "unknown field",
			}
		}
		if prev, dup := out[canonical]; dup {
			if !nodeEqual(prev, val) {
				return nil, &StructuralError{
					Path: joinPath(path, key.Value),
					Msg:  fmt.Sprintf("conflicts with %q (aliases of the same field)", used[canonical]),
				}
			}
			continue
		}
		out[canonical] = val
		used[canonical] = key.Value
	}
	return out, nil
}

// commands accepts a scalar (one command) or a sequence of scalars. Every
// command has \r deleted and \n replaced with a single space.
func (d *decoder) commands(n *yaml.Node, path string) ([]string, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return []string{normalizeCommand(d.env.Expand(n.Value))}, nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(n.Content))
		for i, entry := range n.Content {
			if isNull(entry) {
				continue
			}
			if entry.Kind != yaml.ScalarNode {
				return nil, wrongKind(fmt.Sprintf("%s[%d]", path, i), "a command", entry)
			}
			out = append(out, normalizeCommand(d.env.Expand(entry.Value)))
		}
		return out, nil
	default:
		return nil, wrongKind(path, "a command or command list", n)
	}
}

func (d *decoder) optCommands(f map[string]*yaml.Node, key string) ([]string, error) {
	node, ok := f[key]
	if !ok || isNull(node) {
		return nil, nil
	}
	return d.commands(node, key)
}

func (d *decoder) optString(f map[string]*yaml.Node, key string) (string, error) {
	node, ok := f[key]
	if !ok || isNull(node) {
		return "", nil
	}
	return d.stringScalar(node, key)
}

func (d *decoder) optIndex(f map[string]*yaml.Node, key string, dst *int) error {
	node, ok := f[key]
	if !ok || isNull(node) {
		return nil
	}
	v, err := d.intScalar(node, key)
	if err != nil {
		return err
	}
	if v < 0 {
		return &StructuralError{Path: key, Msg: "index must not be negative"}
	}
	*dst = v
	return nil
}

func (d *decoder) stringScalar(n *yaml.Node, path string) (string, error) {
	if n.Kind != yaml.ScalarNode {
		return "", wrongKind(path, "a string", n)
	}
	return d.env.Expand(n.Value), nil
}

func (d *decoder) intScalar(n *yaml.Node, path string) (int, error) {
	s, err := d.stringScalar(n, path)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &StructuralError{Path: path, Msg: fmt.Sprintf("%q is not an integer", s)}
	}
	return v, nil
}

func (d *decoder) boolScalar(n *yaml.Node, path string) (bool, error) {
	s, err := d.stringScalar(n, path)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on":
		return true, nil
	case "false", "no", "off":
		return false, nil
	}
	return false, &StructuralError{Path: path, Msg: fmt.Sprintf("%q is not a boolean", s)}
}

// selector reads a startup_window value: an integer selects by index, any
// other scalar by window name.
func (d *decoder) selector(n *yaml.Node, path string) (Selector, error) {
	s, err := d.stringScalar(n, path)
	if err != nil {
		return Selector{}, err
	}
	if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return Selector{Index: &v}, nil
	}
	return Selector{Name: s}, nil
}

// dirScalar reads a working-directory value. Null and empty both resolve
// to the home directory.
func (d *decoder) dirScalar(n *yaml.Node, path string) (string, error) {
	if isNull(n) {
		return homeDir(), nil
	}
	s, err := d.stringScalar(n, path)
	if err != nil {
		return "", err
	}
	if s == "" {
		return homeDir(), nil
	}
	return expandUser(s), nil
}

// projectDir resolves the project working directory: absent means the
// process working directory, null/empty the home directory.
func (d *decoder) projectDir(n *yaml.Node) (string, error) {
	if n == nil {
		if wd, err := os.Getwd(); err == nil {
			return wd, nil
		}
		return homeDir(), nil
	}
	return d.dirScalar(n, "working_dir")
}

func inheritDir(own *string, parent string) string {
	if own == nil {
		return parent
	}
	return *own
}

// fallback returns own when the document set it (even to an empty list),
// else the enclosing level's list.
func fallback(own, parent []string) []string {
	if own != nil {
		return own
	}
	return parent
}

func normalizeCommand(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", " ")
}

func parseSplit(s, path string) (SplitDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "h", "horiz", "horizontal":
		return SplitHorizontal, nil
	case "v", "vert", "vertical":
		return SplitVertical, nil
	}
	return 0, &StructuralError{
		Path: path,
		Msg:  fmt.Sprintf("%q is not a split orientation (horizontal or vertical)", s),
	}
}

// validSplitSize accepts an absolute cell count or a percentage.
func validSplitSize(s string) bool {
	if s == "" {
		return false
	}
	digits := strings.TrimSuffix(s, "%")
	if digits == "" {
		return false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
	}
	return true
}

func isNull(n *yaml.Node) bool {
	if n == nil {
		return true
	}
	if n.Kind == yaml.ScalarNode && (n.Tag == "!!null" || n.Tag == "") && n.Value == "" {
		return n.Tag == "!!null"
	}
	return n.Kind == 0 || n.Tag == "!!null"
}

func nodeEqual(a, b *yaml.Node) bool {
	if a.Kind != b.Kind || a.Value != b.Value || len(a.Content) != len(b.Content) {
		return false
	}
	for i := range a.Content {
		if !nodeEqual(a.Content[i], b.Content[i]) {
			return false
		}
	}
	return true
}

func wrongKind(path, want string, n *yaml.Node) *StructuralError {
	return &StructuralError{
		Path: path,
		Msg:  fmt.Sprintf("expected %s, got %s", want, kindName(n)),
	}
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return "null"
		}
		return "a scalar"
	case yaml.SequenceNode:
		return "a list"
	case yaml.MappingNode:
		return "a mapping"
	case yaml.AliasNode:
		return "an alias"
	default:
		return "nothing"
	}
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "/"
}

func expandUser(path string) string {
	if path == "~" {
		return homeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}
