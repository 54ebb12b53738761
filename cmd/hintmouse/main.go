// Command hintmouse runs the keyboard-driven mouse-replacement overlay
// (spec.md): it loads configuration, installs the global keyboard hook and
// a hotkey-triggered session controller, and pumps the Windows message
// loop until interrupted. Bootstrap order: config, logger, COM, overlay
// renderer and session controller, monitors, hotkey toggle and keyboard
// hook, message loop.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hintmouse/hintmouse/applog"
	"github.com/hintmouse/hintmouse/config"
	"github.com/hintmouse/hintmouse/keyboard"
	"github.com/hintmouse/hintmouse/platform"
	"github.com/hintmouse/hintmouse/platform/winapi"
	"github.com/hintmouse/hintmouse/session"
)

func main() {
	configPath := flag.String("config", "hintmouse.yaml", "path to the configuration file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hintmouse: load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := applog.New(applog.Options{Debug: cfg.System.DebugMode})
	if err != nil {
		fmt.Fprintf(os.Stderr, "hintmouse: build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := winapi.InitCOM(); err != nil {
		logger.Fatal("COM initialize failed", zap.Error(err))
	}
	defer winapi.UninitCOM()

	renderer := winapi.NewRenderer()
	defer renderer.Close()
	controller := session.New(session.Config{
		Enumerator:    winapi.Enumerator{},
		Accessibility: winapi.Accessibility{},
		Cursor:        winapi.Cursor{},
		Renderer:      renderer,
		TypeResolver:  cfg.TypeResolver(),
		Charsets:      cfg.HintCharsets(),
		Bindings:      cfg.Bindings(),
		Steps:         cfg.DispatchSteps(),
		Grid:          cfg.GridSpec(),
		CacheTTL:      time.Duration(cfg.UIAutomation.CacheTTLMS) * time.Millisecond,
		Logger:        logger,
	})
	defer controller.Close()

	ctx := context.Background()
	if err := controller.RefreshMonitors(ctx); err != nil {
		logger.Warn("initial monitor enumeration failed", zap.Error(err))
	}

	toggle := newHotkeyToggle(cfg.Keybinding.HotkeyBuoy)
	hook := &winapi.KeyHook{Table: cfg.VirtualKeyTable()}
	sessionActive := false
	if err := hook.InstallKeyHook(func(ev platform.KeyEvent) bool {
		if toggle.observe(ev) {
			sessionActive = !sessionActive
			if sessionActive {
				controller.Activate(ctx)
			} else {
				controller.Deactivate()
			}
			return true
		}
		if sessionActive {
			controller.HandleKey(ev.Name, ev.IsDown)
		}
		return false
	}); err != nil {
		logger.Fatal("install keyboard hook failed", zap.Error(err))
	}
	defer hook.UninstallKeyHook()

	logger.Info("hintmouse started", zap.String("config", *configPath))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Info("shutting down")
		os.Exit(0)
	}()

	winapi.RunMessageLoop()
}

// hotkeyToggle recognizes keybinding.hotkey_buoy (a "+"-joined chord such
// as "Ctrl+Alt+Space") against the stream of decoded key events a KeyHook
// reports, tracking which of its keys are currently held and firing once
// the last-listed key goes down while every other listed key is already
// held — the session activation/deactivation toggle spec.md §4.10 expects
// to sit outside the keyboard state machine, which only processes events
// once a session is already active.
type hotkeyToggle struct {
	keys []keyboard.Name
	held map[keyboard.Name]bool
}

func newHotkeyToggle(chord string) *hotkeyToggle {
	var keys []keyboard.Name
	for _, part := range strings.Split(chord, "+") {
		part = strings.TrimSpace(part)
		if part != "" {
			keys = append(keys, keyboard.Name(part))
		}
	}
	return &hotkeyToggle{keys: keys, held: make(map[keyboard.Name]bool)}
}

// observe updates held-key state and reports whether this event completed
// the chord.
func (h *hotkeyToggle) observe(ev platform.KeyEvent) bool {
	if len(h.keys) == 0 {
		return false
	}
	h.held[ev.Name] = ev.IsDown
	if !ev.IsDown || ev.Name != h.keys[len(h.keys)-1] {
		return false
	}
	for _, k := range h.keys[:len(h.keys)-1] {
		if !h.held[k] {
			return false
		}
	}
	return true
}
