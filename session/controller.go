// Package session implements the session controller (spec.md §4.10): it
// sequences activation and deactivation, wiring window/monitor enumeration,
// occlusion analysis, UI-element collection, hint assignment, the keyboard
// state machine and the command dispatcher into one hotkey-driven overlay
// session.
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hintmouse/hintmouse/dispatch"
	"github.com/hintmouse/hintmouse/hint"
	"github.com/hintmouse/hintmouse/hintassign"
	"github.com/hintmouse/hintmouse/keyboard"
	"github.com/hintmouse/hintmouse/monitor"
	"github.com/hintmouse/hintmouse/occlusion"
	"github.com/hintmouse/hintmouse/platform"
	"github.com/hintmouse/hintmouse/uielement"
	"github.com/hintmouse/hintmouse/winmodel"
)

// Controller owns the process-wide session state: its mutex guards the
// monitor registry and the in-session flag, and the UI-element cache has its
// own lock. The keyboard hook thread calls HandleKey synchronously; command
// effects run on the dispatcher's worker goroutine.
type Controller struct {
	enumerator platform.Enumerator
	renderer   platform.Renderer
	grid       hintassign.GridSpec
	charsets   [][]rune
	extra      []rune
	logger     *zap.Logger

	cache      *uielement.Cache
	refresher  *uielement.Refresher
	dispatcher *dispatch.Dispatcher
	machine    *keyboard.Machine

	mu        sync.Mutex
	monitors  *monitor.Registry
	inSession bool
}

// Config bundles a Controller's fixed collaborators and configuration,
// assembled by cmd/hintmouse from a loaded configuration.
type Config struct {
	Enumerator    platform.Enumerator
	Accessibility platform.Accessibility
	Cursor        platform.Cursor
	Renderer      platform.Renderer
	TypeResolver  uielement.TypeResolver
	Charsets      keyboard.HintCharsets
	Bindings      keyboard.Bindings
	Steps         dispatch.Steps
	Grid          hintassign.GridSpec
	CacheTTL      time.Duration
	Logger        *zap.Logger
}

// New builds a Controller and its keyboard/dispatcher pipeline, ready for
// Activate/Deactivate calls from a hotkey or external trigger.
func New(cfg Config) *Controller {
	c := &Controller{
		enumerator: cfg.Enumerator,
		renderer:   cfg.Renderer,
		grid:       cfg.Grid,
		charsets:   cfg.Charsets.Charsets,
		extra:      cfg.Charsets.Extra,
		logger:     cfg.Logger,
		monitors:   monitor.NewRegistry(nil),
	}
	c.cache = uielement.NewCache(cfg.CacheTTL, cfg.Accessibility, cfg.TypeResolver)
	c.refresher = uielement.NewRefresher(c.cache)
	c.dispatcher = dispatch.New(cfg.Cursor, cfg.Renderer, cfg.Steps, cfg.Logger)
	c.machine = keyboard.New(cfg.Charsets, cfg.Bindings, c.dispatcher)
	return c
}

// RefreshMonitors re-enumerates displays. It is not part of the per-session
// activation sequence (spec.md §4.10 lists only window enumeration there);
// call it at startup and again on a platform monitor-change notification.
func (c *Controller) RefreshMonitors(ctx context.Context) error {
	raw, err := c.enumerator.EnumerateMonitors(ctx)
	if err != nil {
		return err
	}
	registry := monitor.NewRegistry(raw)
	c.mu.Lock()
	c.monitors = registry
	c.mu.Unlock()
	if layout, ok := c.renderer.(interface{ SetMonitorLayout([]monitor.Monitor) }); ok {
		layout.SetMonitorLayout(registry.All())
	}
	return nil
}

// HandleKey forwards one decoded key transition to the keyboard state
// machine. cmd/hintmouse calls it from the callback it installs on a
// platform.KeyHook, and it must return promptly (spec.md §5): its only work
// is the synchronous state machine transition.
func (c *Controller) HandleKey(k keyboard.Name, isDown bool) {
	if isDown {
		c.machine.HandleKeyDown(k)
	} else {
		c.machine.HandleKeyUp(k)
	}
}

// Activate runs spec.md §4.10's activation sequence. It blocks on
// synchronous element collection for top_windows and so must run off the
// hook thread (spec.md §5).
func (c *Controller) Activate(ctx context.Context) {
	c.mu.Lock()
	if c.inSession {
		c.mu.Unlock()
		return
	}
	c.inSession = true
	monitors := c.monitors
	c.mu.Unlock()

	c.cache.SweepExpired()

	raws, err := c.enumerator.EnumerateWindows(ctx)
	if err != nil {
		c.logger.Warn("enumerate windows failed", zap.Error(err))
		raws = nil
	}
	windows := winmodel.BuildSnapshot(raws)
	occ := occlusion.Analyze(windows)

	elements := make(map[winmodel.Handle][]uielement.Element, len(occ.Top)+len(occ.Covered))
	for _, w := range occ.Top {
		elements[w.Handle] = c.cache.GetOrRefresh(w.Handle)
	}
	// Covered windows use whatever the cache holds now; the refresher
	// collects them in the background for later sessions.
	for handle := range occ.Covered {
		elements[handle], _ = c.cache.Get(handle)
		c.refresher.Enqueue(handle)
	}

	pool := hint.Generate(c.charsets, c.extra)
	a := hintassign.New(monitors, occ, elements, pool, c.grid)
	stage1, full, index := a.Assign()

	c.dispatcher.SetSession(index, monitors)
	c.machine.SwitchSession(true)

	// Pass 1 + grid must be visible before Pass 2 begins rendering
	// (spec.md §5's ordering guarantee): ShowHints carries the stage1
	// (Pass 1 + grid) set, ShowHints2 then carries the complete set once
	// Pass 2 (covered windows) has also been assigned.
	for _, m := range monitors.All() {
		if err := c.renderer.ShowHints(m.ID, stage1[m.ID]); err != nil {
			c.logger.Warn("show hints failed", zap.Int("monitor", m.ID), zap.Error(err))
		}
	}
	for _, m := range monitors.All() {
		if err := c.renderer.ShowHints2(m.ID, full[m.ID]); err != nil {
			c.logger.Warn("show hints pass 2 failed", zap.Int("monitor", m.ID), zap.Error(err))
		}
	}
}

// Deactivate runs spec.md §4.10's deactivation sequence: clear session
// state, then (on the dispatcher's worker) release any drag and hide every
// overlay, in that order. It returns once the overlays are hidden.
func (c *Controller) Deactivate() {
	c.mu.Lock()
	if !c.inSession {
		c.mu.Unlock()
		return
	}
	c.inSession = false
	c.mu.Unlock()

	c.machine.SwitchSession(false)
	c.dispatcher.Flush()
}

// Close releases the dispatcher's worker goroutine and the background
// refresher's pool.
func (c *Controller) Close() {
	c.refresher.Stop()
	c.dispatcher.Close()
}
