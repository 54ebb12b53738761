// Package config defines the on-disk configuration schema (spec.md §6) and
// decodes it into the typed records the core packages (keyboard, dispatch,
// hintassign, uielement) consume. Loading is the only file-system-touching
// concern in this repository; core packages never import this package.
package config

// Config is the root configuration record, decoded from YAML.
type Config struct {
	Hint         HintConfig         `yaml:"hint"`
	Keybinding   KeybindingConfig   `yaml:"keybinding"`
	Keyboard     KeyboardConfig     `yaml:"keyboard"`
	Mouse        MouseConfig        `yaml:"mouse"`
	System       SystemConfig       `yaml:"system"`
	UIAutomation UIAutomationConfig `yaml:"ui_automation"`
}

// HintConfig is hint.* (spec.md §6).
type HintConfig struct {
	Charsets     [][]string          `yaml:"charsets"`
	CharsetExtra []string            `yaml:"charset_extra"`
	Style        string              `yaml:"style"`
	Types        []NamedHintType     `yaml:"types"`
	Grid         GridConfig          `yaml:"grid"`
}

// NamedHintType preserves hint.types' configured order, which an IndexMap
// gives the original and a plain YAML mapping loses unless decoded into an
// ordered slice.
type NamedHintType struct {
	Name  string   `yaml:"name"`
	Type  HintType `yaml:",inline"`
}

// HintType is one entry of hint.types (spec.md §3, HintType).
type HintType struct {
	Style               string `yaml:"style"`
	ZIndex              int    `yaml:"z_index"`
	ElementControlTypes []int  `yaml:"element_control_types"`
}

// GridConfig is hint.grid (spec.md §6).
type GridConfig struct {
	Rows          int    `yaml:"rows"`
	Columns       int    `yaml:"columns"`
	ShowAtRows    []int  `yaml:"show_at_rows"`
	ShowAtColumns []int  `yaml:"show_at_columns"`
	HintType      string `yaml:"hint_type"`
}

// KeybindingConfig is keybinding.* (spec.md §6).
type KeybindingConfig struct {
	Global     GlobalKeybindingConfig `yaml:"global"`
	AtHint     AtHintKeybindingConfig `yaml:"at_hint"`
	HotkeyBuoy string                 `yaml:"hotkey_buoy"`
}

// DirectionKeybindingsConfig is one direction-keyed binding group (spec.md §6).
type DirectionKeybindingsConfig struct {
	Up    []string `yaml:"up"`
	Down  []string `yaml:"down"`
	Left  []string `yaml:"left"`
	Right []string `yaml:"right"`
}

// GlobalKeybindingConfig is keybinding.global (spec.md §6).
type GlobalKeybindingConfig struct {
	MoveToHint     []string                   `yaml:"move_to_hint"`
	MoveToHintExit []string                   `yaml:"move_to_hint_exit"`
	HoldAtHint     []string                   `yaml:"hold_at_hint"`
	LeftClickExit  []string                   `yaml:"left_click_exit"`
	Exit           []string                   `yaml:"exit"`
	Translate      DirectionKeybindingsConfig `yaml:"translate"`
}

// AtHintKeybindingConfig is keybinding.at_hint (spec.md §6).
type AtHintKeybindingConfig struct {
	Exit             []string                   `yaml:"exit"`
	LeftClick        []string                   `yaml:"left_click"`
	LeftClickExit    []string                   `yaml:"left_click_exit"`
	DoubleClick      []string                   `yaml:"double_click"`
	DoubleClickExit  []string                   `yaml:"double_click_exit"`
	RightClick       []string                   `yaml:"right_click"`
	RightClickExit   []string                   `yaml:"right_click_exit"`
	MiddleClick      []string                   `yaml:"middle_click"`
	MiddleClickExit  []string                   `yaml:"middle_click_exit"`
	Translate        DirectionKeybindingsConfig `yaml:"translate"`
	Drag             DirectionKeybindingsConfig `yaml:"drag"`
	Scroll           DirectionKeybindingsConfig `yaml:"scroll"`
}

// KeyboardConfig is keyboard.* (spec.md §6).
type KeyboardConfig struct {
	AvailableKey        []NamedVirtualKey  `yaml:"available_key"`
	PropagationModifier []string           `yaml:"propagation_modifier"`
	MapLeftRight        []NamedAdjacency   `yaml:"map_left_right"`
}

// NamedVirtualKey is one keyboard.available_key entry: a logical key name
// and its platform virtual-key code.
type NamedVirtualKey struct {
	Name       string `yaml:"name"`
	VirtualKey int    `yaml:"virtual_key"`
}

// NamedAdjacency is one keyboard.map_left_right entry.
type NamedAdjacency struct {
	Name  string        `yaml:"name"`
	Left  string        `yaml:"left"`
	Right string        `yaml:"right"`
}

// MouseConfig is mouse.* (spec.md §6).
type MouseConfig struct {
	Step MouseStepConfig `yaml:"step"`
}

// MouseStepConfig is mouse.step (spec.md §6).
type MouseStepConfig struct {
	Translate []MouseStep `yaml:"translate"`
	Scroll    []MouseStep `yaml:"scroll"`
	Drag      []MouseStep `yaml:"drag"`
}

// MouseStep is one candidate step (spec.md §6).
type MouseStep struct {
	X        int      `yaml:"x"`
	Y        int      `yaml:"y"`
	Modifier []string `yaml:"modifier,omitempty"`
}

// SystemConfig is system.* (ambient, spec.md §1's Non-goals list tray/
// auto-start/single-instance as out of the core's scope, but the fields
// still round-trip through configuration for cmd/hintmouse to act on).
type SystemConfig struct {
	StartInTray   bool `yaml:"start_in_tray"`
	ShowTrayIcon  bool `yaml:"show_tray_icon"`
	StartAtLogin  bool `yaml:"start_at_login"`
	DebugMode     bool `yaml:"debug_mode"`
}

// UIAutomationConfig is ui_automation.* (spec.md §6).
type UIAutomationConfig struct {
	CollectIntervalMS int `yaml:"collect_interval"`
	CacheTTLMS        int `yaml:"cache_ttl"`
}
