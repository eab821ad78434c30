// Package compiler turns a canonical project tree into an ordered tmux
// command script. Compilation is pure: the same tree and options always
// produce the same script, and no tmux command runs until the whole script
// compiled without error.
package compiler

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dermoumi/rmux/internal/expand"
	"github.com/dermoumi/rmux/internal/project"
	"github.com/dermoumi/rmux/internal/shellwords"
)

// StartMode selects which lifecycle hooks the script carries.
type StartMode int

const (
	// ModeFirstStart builds the session and runs on_first_start.
	ModeFirstStart StartMode = iota
	// ModeRestart builds the session and runs on_restart.
	ModeRestart
	// ModeDebug builds the session but runs neither first-start nor
	// restart hooks, and never attaches.
	ModeDebug
)

func (m StartMode) String() string {
	switch m {
	case ModeRestart:
		return "restart"
	case ModeDebug:
		return "debug"
	default:
		return "first_start"
	}
}

// Options carries the invocation-dependent inputs of a compile.
type Options struct {
	Mode StartMode

	// TmuxInvocation is the rendered multiplexer command line (binary plus
	// socket and extra options). It substitutes __TMUX__ in hook text.
	TmuxInvocation string

	// InsideTmux selects switch-client over attach-session for the final
	// attach step.
	InsideTmux bool
}

// Compile produces the full session script for cfg. cfg must have passed
// Prepare and Check. The error is one of *project.StructuralError,
// *project.ReferenceError, or *expand.TokenError.
func Compile(cfg *project.Config, opts Options) (*Script, error) {
	if len(cfg.Windows) == 0 {
		return nil, &project.StructuralError{Path: "windows", Msg: "project has no windows"}
	}
	for i, win := range cfg.Windows {
		if len(win.Panes) == 0 {
			return nil, &project.StructuralError{
				Path: fmt.Sprintf("windows[%d].panes", i),
				Msg:  "window has no panes",
			}
		}
	}
	c := &compilation{cfg: cfg, opts: opts, script: &Script{}}
	if err := c.run(); err != nil {
		return nil, err
	}
	return c.script, nil
}

type compilation struct {
	cfg    *project.Config
	opts   Options
	script *Script

	// paneOrders holds, per window, the document ordinals of its panes in
	// tmux index order. tmux inserts a new pane directly after its split
	// source, so panes declared after a non-last split_from shift up; the
	// order is what maps a declared pane to the index tmux gives it.
	paneOrders [][]int
}

func (c *compilation) run() error {
	cfg := c.cfg
	ctx := expand.NewContext(c.opts.TmuxInvocation, cfg.SessionName)

	// Lifecycle hooks keep the server alive past its last session, so the
	// hook commands still have a server to run on.
	if len(cfg.OnExit) > 0 || len(cfg.OnStop) > 0 {
		c.emit("set-option", "-g", "exit-empty", "off")
	}

	c.emit("new-session", "-d", "-s", cfg.SessionName, "-c", cfg.Windows[0].Panes[0].WorkingDir)

	if cfg.WindowBaseIndex != 0 {
		c.emit("set-option", "-t", cfg.SessionName, "base-index", strconv.Itoa(cfg.WindowBaseIndex))
	}
	// Renumber the initial window to the configured base.
	c.emit("move-window", "-r", "-t", cfg.SessionName)

	if err := c.exitHooks(ctx); err != nil {
		return err
	}
	if err := c.startHooks(ctx); err != nil {
		return err
	}

	for i := range cfg.Windows {
		if err := c.window(ctx, i); err != nil {
			return err
		}
	}

	if err := c.hooks(ctx.Site("post_create"), "run-shell", cfg.PostCreate); err != nil {
		return err
	}

	winTarget := fmt.Sprintf("%s:%d", cfg.SessionName, cfg.StartupWindowIndex())
	c.emit("select-window", "-t", winTarget)

	// The startup pane selector names a declared pane; splits may have
	// shifted its index, so resolve it through the window's final order.
	order := c.paneOrders[cfg.StartupWindowIndex()-cfg.WindowBaseIndex]
	paneIdx := cfg.PaneBaseIndex + slices.Index(order, cfg.StartupPaneIndex()-cfg.PaneBaseIndex)
	c.emit("select-pane", "-t", fmt.Sprintf("%s.%d", winTarget, paneIdx))

	if c.opts.Mode != ModeDebug && cfg.Attach {
		if c.opts.InsideTmux {
			c.emit("switch-client", "-t", cfg.SessionName)
		} else {
			c.emit("attach-session", "-t", cfg.SessionName)
		}
	}
	return nil
}

// exitHooks registers on_exit on client detach and on_stop on session
// close. session-closed is a server hook, so the on_stop command guards on
// the closing session's name.
func (c *compilation) exitHooks(ctx expand.Context) error {
	cfg := c.cfg
	if len(cfg.OnExit) > 0 {
		joined, err := c.joinHook(ctx.Site("on_exit"), cfg.OnExit)
		if err != nil {
			return err
		}
		c.emit("set-hook", "-t", cfg.SessionName, "client-detached", "run-shell "+shellwords.Quote(joined))
	}
	if len(cfg.OnStop) > 0 {
		joined, err := c.joinHook(ctx.Site("on_stop"), cfg.OnStop)
		if err != nil {
			return err
		}
		guarded := fmt.Sprintf("if [ \"#{hook_session_name}\" = \"%s\" ]; then %s; fi", cfg.SessionName, joined)
		c.emit("set-hook", "-g", "session-closed", "run-shell "+shellwords.Quote(guarded))
	}
	return nil
}

func (c *compilation) startHooks(ctx expand.Context) error {
	cfg := c.cfg
	switch c.opts.Mode {
	case ModeFirstStart:
		if err := c.hooks(ctx.Site("on_first_start"), "run-shell", cfg.OnFirstStart); err != nil {
			return err
		}
	case ModeRestart:
		if err := c.hooks(ctx.Site("on_restart"), "run-shell", cfg.OnRestart); err != nil {
			return err
		}
	}
	return c.hooks(ctx.Site("on_start"), "run-shell", cfg.OnStart)
}

func (c *compilation) window(ctx expand.Context, i int) error {
	cfg := c.cfg
	win := &cfg.Windows[i]
	winIdx := cfg.WindowBaseIndex + i
	target := fmt.Sprintf("%s:%d", cfg.SessionName, winIdx)
	path := fmt.Sprintf("windows[%d]", i)

	if i > 0 {
		c.emit("new-window", "-d", "-t", target, "-c", win.Panes[0].WorkingDir)
	}
	// pane-base-index is a window option; each window needs its own copy or
	// later windows fall back to the server default.
	if cfg.PaneBaseIndex != 0 {
		c.emit("set-option", "-w", "-t", target, "pane-base-index", strconv.Itoa(cfg.PaneBaseIndex))
	}
	if win.Name != nil {
		c.emit("rename-window", "-t", target, *win.Name)
	}

	wctx := ctx.Window(target)
	if err := c.hooks(wctx.Site("%s.on_create", path), "run-shell", win.OnCreate); err != nil {
		return err
	}

	order := []int{0}
	for j := range win.Panes {
		if err := c.pane(wctx, i, j, &order); err != nil {
			return err
		}
	}
	c.paneOrders = append(c.paneOrders, order)

	if win.Layout != "" {
		c.emit("select-layout", "-t", target, win.Layout)
	}
	if err := c.hooks(wctx.Site("%s.post_pane_create", path), "run-shell", win.PostPaneCreate); err != nil {
		return err
	}
	return c.hooks(wctx.Site("%s.post_create", path), "run-shell", win.PostCreate)
}

// pane emits one pane's split and contents. order is the window's panes in
// tmux index order so far; the new pane is inserted right after its split
// source, mirroring how tmux itself numbers panes.
func (c *compilation) pane(wctx expand.Context, i, j int, order *[]int) error {
	cfg := c.cfg
	win := &cfg.Windows[i]
	pane := &win.Panes[j]
	winIdx := cfg.WindowBaseIndex + i
	path := fmt.Sprintf("windows[%d].panes[%d]", i, j)

	paneIdx := cfg.PaneBaseIndex
	if j > 0 {
		// New panes split off the previous pane unless split_from says
		// otherwise; the source must already exist.
		srcOrd := j - 1
		if pane.SplitFrom != nil {
			from := *pane.SplitFrom
			if from < cfg.PaneBaseIndex || from >= cfg.PaneBaseIndex+j {
				return &project.ReferenceError{
					Path: path + ".split_from",
					Msg:  fmt.Sprintf("pane %d does not exist yet", from),
				}
			}
			srcOrd = from - cfg.PaneBaseIndex
		}
		srcPos := slices.Index(*order, srcOrd)
		args := []string{"split-window", "-t", fmt.Sprintf("%s:%d.%d", cfg.SessionName, winIdx, cfg.PaneBaseIndex+srcPos)}
		if pane.Split != nil && *pane.Split == project.SplitHorizontal {
			args = append(args, "-h")
		} else {
			args = append(args, "-v")
		}
		if pane.SplitSize != "" {
			args = append(args, "-l", pane.SplitSize)
		}
		args = append(args, "-c", pane.WorkingDir)
		c.emit(args...)

		*order = slices.Insert(*order, srcPos+1, j)
		paneIdx = cfg.PaneBaseIndex + srcPos + 1
	}
	target := fmt.Sprintf("%s:%d.%d", cfg.SessionName, winIdx, paneIdx)

	pctx := wctx.Pane(target)
	if err := c.hooks(pctx.Site("%s.on_create", path), "run-shell", pane.OnCreate); err != nil {
		return err
	}
	for _, cmd := range pane.PaneCommands {
		c.emit("send-keys", "-t", target, cmd, "Enter")
	}
	for _, cmd := range pane.Commands {
		c.emit("send-keys", "-t", target, cmd, "Enter")
	}
	if pane.Clear {
		c.emit("send-keys", "-t", target, "C-l")
	}
	if pane.SendKeys != "" {
		c.emit("send-keys", "-t", target, pane.SendKeys)
	}
	return c.hooks(pctx.Site("%s.post_create", path), "run-shell", pane.PostCreate)
}

// hooks emits one tmux command per hook command, with builtin tokens
// resolved against the given context.
func (c *compilation) hooks(ctx expand.Context, tmuxCmd string, cmds []string) error {
	for _, cmd := range cmds {
		resolved, err := ctx.Apply(cmd)
		if err != nil {
			return err
		}
		c.emit(tmuxCmd, resolved)
	}
	return nil
}

// joinHook resolves tokens in each command and joins them into one shell
// command line for a hook value.
func (c *compilation) joinHook(ctx expand.Context, cmds []string) (string, error) {
	resolved := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		r, err := ctx.Apply(cmd)
		if err != nil {
			return "", err
		}
		resolved = append(resolved, r)
	}
	return strings.Join(resolved, "; "), nil
}

func (c *compilation) emit(args ...string) {
	c.script.Commands = append(c.script.Commands, Command{Args: args})
}
