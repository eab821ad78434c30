// Package project defines the canonical project configuration tree and the
// schema normalizer that builds it from a loosely-typed YAML or JSON
// document. The canonical tree is fully resolved: field aliases are
// collapsed, hook and working-directory inheritance is applied, and user
// variables are expanded, so the script compiler never has to re-resolve
// any of it.
package project

import (
	"fmt"
	"strings"
)

// Named tmux layouts accepted in a window's layout field. Anything else
// must look like a custom layout descriptor (contains a comma).
var namedLayouts = map[string]bool{
	"even-horizontal": true,
	"even-vertical":   true,
	"main-horizontal": true,
	"main-vertical":   true,
	"tiled":           true,
}

// Default window and pane base indices when the document does not set them.
const (
	DefaultWindowBaseIndex = 1
	DefaultPaneBaseIndex   = 1
)

// SplitDirection is a pane split orientation.
type SplitDirection int

const (
	SplitVertical SplitDirection = iota
	SplitHorizontal
)

func (d SplitDirection) String() string {
	if d == SplitHorizontal {
		return "horizontal"
	}
	return "vertical"
}

// Selector identifies the startup window either by index (in
// window_base_index terms) or by name.
type Selector struct {
	Index *int
	Name  string
}

// IsZero reports whether no startup window was configured.
func (s Selector) IsZero() bool {
	return s.Index == nil && s.Name == ""
}

// Config is the root of the canonical tree, built once per compile
// invocation and immutable afterwards.
type Config struct {
	SessionName     string
	TmuxCommand     string
	TmuxOptions     string
	TmuxSocket      string
	WorkingDir      string
	WindowBaseIndex int
	PaneBaseIndex   int
	StartupWindow   Selector
	StartupPane     *int

	OnStart      []string
	OnFirstStart []string
	OnRestart    []string
	OnExit       []string
	OnStop       []string

	// PostCreate runs once after all windows are built. The remaining hook
	// lists are defaults inherited by windows and panes during
	// normalization; they are kept here only for reference.
	PostCreate     []string
	OnCreate       []string
	OnPaneCreate   []string
	PostPaneCreate []string

	PaneCommands []string
	ClearPanes   bool
	Attach       bool

	Windows []Window
}

// Window is one window of the session. All inheritable fields are already
// resolved against the project defaults.
type Window struct {
	// Name is nil when the document leaves the window unnamed and tmux
	// should pick its default.
	Name       *string
	WorkingDir string
	Layout     string

	OnCreate       []string
	PostCreate     []string
	OnPaneCreate   []string
	PostPaneCreate []string

	PaneCommands []string
	ClearPanes   bool

	Panes []Pane
}

// Pane is a single pane. SplitFrom, Split, and SplitSize keep their
// document-level optionality (nil/empty means unset) because the compiler
// needs to distinguish explicit split directives from defaults when it
// checks the layout conflict.
type Pane struct {
	WorkingDir string
	SplitFrom  *int
	Split      *SplitDirection
	SplitSize  string

	// OnCreate falls back to the window's on_pane_create; PostCreate is the
	// pane's own hook only (the window's post_pane_create fires once after
	// all panes).
	Clear      bool
	OnCreate   []string
	PostCreate []string

	// PaneCommands is the inherited default command list, typed into the
	// pane before its own Commands.
	PaneCommands []string
	Commands     []string
	SendKeys     string
}

// Prepare fills invocation-dependent defaults: the session name falls back
// to the project name, the tmux command to "tmux", and forceAttach (from a
// --attach/--detached flag) overrides the document's attach setting.
func (c *Config) Prepare(projectName string, forceAttach *bool) {
	if c.SessionName == "" {
		c.SessionName = projectName
	}
	if c.TmuxCommand == "" {
		c.TmuxCommand = "tmux"
	}
	if forceAttach != nil {
		c.Attach = *forceAttach
	}
}

// Check validates cross-field constraints that normalization alone cannot
// see: the session name must be a valid tmux identifier and the startup
// selectors must reference windows and panes that will exist.
func (c *Config) Check() error {
	if err := CheckIdentifier("session_name", c.SessionName); err != nil {
		return err
	}

	if idx := c.StartupWindow.Index; idx != nil {
		if *idx < c.WindowBaseIndex || *idx >= c.WindowBaseIndex+len(c.Windows) {
			return &ReferenceError{
				Path: "startup_window",
				Msg:  fmt.Sprintf("there is no window with index %d", *idx),
			}
		}
	}
	if name := c.StartupWindow.Name; name != "" {
		if c.findWindow(name) < 0 {
			return &ReferenceError{
				Path: "startup_window",
				Msg:  fmt.Sprintf("there is no window named %q", name),
			}
		}
	}
	if c.StartupPane != nil {
		win := c.Windows[c.startupWindowOrdinal()]
		if *c.StartupPane < c.PaneBaseIndex || *c.StartupPane >= c.PaneBaseIndex+len(win.Panes) {
			return &ReferenceError{
				Path: "startup_pane",
				Msg:  fmt.Sprintf("there is no pane with index %d in the startup window", *c.StartupPane),
			}
		}
	}
	return nil
}

// StartupWindowIndex resolves the startup window selector to a window
// index in window_base_index terms. Check must have passed.
func (c *Config) StartupWindowIndex() int {
	return c.WindowBaseIndex + c.startupWindowOrdinal()
}

// StartupPaneIndex resolves the startup pane to a pane index in
// pane_base_index terms, defaulting to the first pane.
func (c *Config) StartupPaneIndex() int {
	if c.StartupPane != nil {
		return *c.StartupPane
	}
	return c.PaneBaseIndex
}

func (c *Config) startupWindowOrdinal() int {
	if idx := c.StartupWindow.Index; idx != nil {
		return *idx - c.WindowBaseIndex
	}
	if name := c.StartupWindow.Name; name != "" {
		if i := c.findWindow(name); i >= 0 {
			return i
		}
	}
	return 0
}

func (c *Config) findWindow(name string) int {
	for i, w := range c.Windows {
		if w.Name != nil && *w.Name == name {
			return i
		}
	}
	return -1
}

// CheckIdentifier rejects names tmux cannot address: session and window
// names must not be empty or contain '.' or ':'.
func CheckIdentifier(path, name string) error {
	if name == "" {
		return &StructuralError{Path: path, Msg: "name must not be empty"}
	}
	if strings.ContainsAny(name, ".:") {
		return &StructuralError{
			Path: path,
			Msg:  fmt.Sprintf("name %q must not contain '.' or ':'", name),
		}
	}
	return nil
}
