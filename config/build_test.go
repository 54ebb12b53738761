package config

import (
	"testing"

	"github.com/hintmouse/hintmouse/keyboard"
)

func sampleConfig() *Config {
	return &Config{
		Hint: HintConfig{
			Charsets:     [][]string{{"A", "B"}, {"X", "Y"}},
			CharsetExtra: []string{"Q"},
			Types: []NamedHintType{
				{Name: "link", Type: HintType{ZIndex: 1, ElementControlTypes: []int{50000}}},
				{Name: "button", Type: HintType{ZIndex: 2, ElementControlTypes: []int{50000, 50002}}},
			},
			Grid: GridConfig{Rows: 2, Columns: 2, ShowAtRows: []int{1, 2}, ShowAtColumns: []int{1, 2}, HintType: "button"},
		},
		Keybinding: KeybindingConfig{
			Global: GlobalKeybindingConfig{
				HoldAtHint: []string{"Space"},
				Exit:       []string{"Escape"},
			},
			AtHint: AtHintKeybindingConfig{
				LeftClickExit: []string{"F"},
				Exit:          []string{"Escape"},
				Drag:          DirectionKeybindingsConfig{Right: []string{"HintRightKey"}},
			},
		},
		Keyboard: KeyboardConfig{
			AvailableKey:        []NamedVirtualKey{{Name: "A", VirtualKey: 65}},
			PropagationModifier: []string{"Control"},
			MapLeftRight:        []NamedAdjacency{{Name: "X", Left: "A", Right: "Z"}},
		},
		Mouse: MouseConfig{
			Step: MouseStepConfig{
				Translate: []MouseStep{{X: 10, Y: 10}},
				Scroll:    []MouseStep{{X: 0, Y: 3}},
				Drag:      []MouseStep{{X: 5, Y: 5}, {X: 20, Y: 20, Modifier: []string{"Shift"}}},
			},
		},
	}
}

func TestHintCharsetsDropsMultiRuneEntries(t *testing.T) {
	c := sampleConfig()
	c.Hint.Charsets = [][]string{{"A", "bad"}}
	hc := c.HintCharsets()
	if len(hc.Charsets[0]) != 1 || hc.Charsets[0][0] != 'A' {
		t.Fatalf("expected the malformed entry to be dropped, got %+v", hc.Charsets[0])
	}
}

func TestBindingsBuildsGlobalAndAtHintTables(t *testing.T) {
	c := sampleConfig()
	b := c.Bindings()

	if cmd, ok := b.Global.Match("Space"); !ok || cmd != keyboard.CmdHoldAtHint {
		t.Fatalf("expected Space to match hold_at_hint, got %v %v", cmd, ok)
	}
	if cmd, ok := b.AtHint.Match("F"); !ok || cmd != keyboard.CmdLeftClickExit {
		t.Fatalf("expected F to match left_click_exit, got %v %v", cmd, ok)
	}
	if !b.PropagationModifiers["Control"] {
		t.Fatalf("expected Control to be a propagation modifier")
	}
	adj := b.MapLeftRight["X"]
	if adj.Left != "A" || adj.Right != "Z" {
		t.Fatalf("unexpected adjacency: %+v", adj)
	}
}

func TestDispatchStepsSelectsByModifier(t *testing.T) {
	c := sampleConfig()
	steps := c.DispatchSteps()

	plain := steps.Drag.Select(map[keyboard.Name]bool{})
	if plain.X != 5 {
		t.Fatalf("expected the unmodified drag step, got %+v", plain)
	}
	shifted := steps.Drag.Select(map[keyboard.Name]bool{"Shift": true})
	if shifted.X != 20 {
		t.Fatalf("expected the Shift-modified drag step, got %+v", shifted)
	}
}

func TestGridSpecConversionCarriesTypeTable(t *testing.T) {
	c := sampleConfig()
	grid := c.GridSpec()
	if len(grid.TypeNames) != 2 || grid.TypeNames[1] != "button" {
		t.Fatalf("unexpected grid type table: %+v", grid.TypeNames)
	}
	if grid.HintTypeName != "button" {
		t.Fatalf("expected hint_type to round-trip, got %q", grid.HintTypeName)
	}
}

func TestTypeResolverResolvesFirstMatchingType(t *testing.T) {
	c := sampleConfig()
	r := c.TypeResolver()

	idx, z, ok := r.Resolve(50000)
	if !ok || idx != 0 || z != 1 {
		t.Fatalf("expected control type 50000 to resolve to the first entry declaring it, got (%d,%d,%v)", idx, z, ok)
	}
	idx, z, ok = r.Resolve(50002)
	if !ok || idx != 1 || z != 2 {
		t.Fatalf("expected control type 50002 to resolve to button, got (%d,%d,%v)", idx, z, ok)
	}
	if _, _, ok := r.Resolve(99999); ok {
		t.Fatalf("expected an unconfigured control type to fail resolution")
	}
}

func TestVirtualKeyTableDecodesNameByCode(t *testing.T) {
	c := sampleConfig()
	table := c.VirtualKeyTable()
	if table[65] != "A" {
		t.Fatalf("expected virtual key 65 to decode to A, got %q", table[65])
	}
}
