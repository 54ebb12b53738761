package config

import (
	"github.com/hintmouse/hintmouse/dispatch"
	"github.com/hintmouse/hintmouse/hintassign"
	"github.com/hintmouse/hintmouse/keyboard"
	"github.com/hintmouse/hintmouse/uielement"
)

func toRunes(ss []string) []rune {
	rs := make([]rune, 0, len(ss))
	for _, s := range ss {
		if r, ok := singleRune(s); ok {
			rs = append(rs, r)
		}
	}
	return rs
}

func singleRune(s string) (rune, bool) {
	r := []rune(s)
	if len(r) != 1 {
		return 0, false
	}
	return r[0], true
}

// HintCharsets builds keyboard.HintCharsets from hint.charsets/charset_extra.
func (c *Config) HintCharsets() keyboard.HintCharsets {
	charsets := make([][]rune, len(c.Hint.Charsets))
	for i, cs := range c.Hint.Charsets {
		charsets[i] = toRunes(cs)
	}
	return keyboard.HintCharsets{Charsets: charsets, Extra: toRunes(c.Hint.CharsetExtra)}
}

func names(ss []string) []keyboard.Name {
	out := make([]keyboard.Name, len(ss))
	for i, s := range ss {
		out[i] = keyboard.Name(s)
	}
	return out
}

func commandKeys(cmd keyboard.Command, keys []string) keyboard.CommandKeys {
	return keyboard.CommandKeys{Command: cmd, Keys: names(keys)}
}

// Bindings builds the keyboard.Bindings the state machine matches against,
// from keybinding.* and keyboard.* (spec.md §6).
func (c *Config) Bindings() keyboard.Bindings {
	g := c.Keybinding.Global
	a := c.Keybinding.AtHint

	global := keyboard.NewTable([]keyboard.CommandKeys{
		commandKeys(keyboard.CmdExit, g.Exit),
		commandKeys(keyboard.CmdHoldAtHint, g.HoldAtHint),
		commandKeys(keyboard.CmdMoveToHint, g.MoveToHint),
		commandKeys(keyboard.CmdMoveToHintExit, g.MoveToHintExit),
		commandKeys(keyboard.CmdTranslateUp, g.Translate.Up),
		commandKeys(keyboard.CmdTranslateDown, g.Translate.Down),
		commandKeys(keyboard.CmdTranslateLeft, g.Translate.Left),
		commandKeys(keyboard.CmdTranslateRight, g.Translate.Right),
	})

	atHint := keyboard.NewTable([]keyboard.CommandKeys{
		commandKeys(keyboard.CmdExit, a.Exit),
		commandKeys(keyboard.CmdLeftClick, a.LeftClick),
		commandKeys(keyboard.CmdLeftClickExit, a.LeftClickExit),
		commandKeys(keyboard.CmdDoubleClick, a.DoubleClick),
		commandKeys(keyboard.CmdDoubleClickExit, a.DoubleClickExit),
		commandKeys(keyboard.CmdRightClick, a.RightClick),
		commandKeys(keyboard.CmdRightClickExit, a.RightClickExit),
		commandKeys(keyboard.CmdMiddleClick, a.MiddleClick),
		commandKeys(keyboard.CmdMiddleClickExit, a.MiddleClickExit),
		commandKeys(keyboard.CmdTranslateUp, a.Translate.Up),
		commandKeys(keyboard.CmdTranslateDown, a.Translate.Down),
		commandKeys(keyboard.CmdTranslateLeft, a.Translate.Left),
		commandKeys(keyboard.CmdTranslateRight, a.Translate.Right),
		commandKeys(keyboard.CmdDragUp, a.Drag.Up),
		commandKeys(keyboard.CmdDragDown, a.Drag.Down),
		commandKeys(keyboard.CmdDragLeft, a.Drag.Left),
		commandKeys(keyboard.CmdDragRight, a.Drag.Right),
		commandKeys(keyboard.CmdScrollUp, c.Keybinding.AtHint.Scroll.Up),
		commandKeys(keyboard.CmdScrollDown, c.Keybinding.AtHint.Scroll.Down),
		commandKeys(keyboard.CmdScrollLeft, c.Keybinding.AtHint.Scroll.Left),
		commandKeys(keyboard.CmdScrollRight, c.Keybinding.AtHint.Scroll.Right),
	})

	propagation := make(map[keyboard.Name]bool, len(c.Keyboard.PropagationModifier))
	for _, m := range c.Keyboard.PropagationModifier {
		propagation[keyboard.Name(m)] = true
	}

	// map_left_right entries may configure only one side (SPEC_FULL.md's
	// supplemented partial-adjacency feature): an empty Left/Right string
	// leaves that side permanently unmatched, since "" is never a decoded
	// key name.
	adjacency := make(map[keyboard.Name]keyboard.Adjacency, len(c.Keyboard.MapLeftRight))
	for _, e := range c.Keyboard.MapLeftRight {
		adjacency[keyboard.Name(e.Name)] = keyboard.Adjacency{
			Left:  keyboard.Name(e.Left),
			Right: keyboard.Name(e.Right),
		}
	}

	return keyboard.Bindings{
		Global:               global,
		AtHint:               atHint,
		PropagationModifiers: propagation,
		MapLeftRight:         adjacency,
	}
}

func toStepTable(steps []MouseStep) dispatch.StepTable {
	out := make(dispatch.StepTable, len(steps))
	for i, s := range steps {
		out[i] = dispatch.Step{X: s.X, Y: s.Y, Modifiers: names(s.Modifier)}
	}
	return out
}

// DispatchSteps builds dispatch.Steps from mouse.step and the direction
// key maps (spec.md §6). TranslateKeys/GlobalTranslateKeys are built from
// at_hint.translate/global.translate respectively, since a translate_*
// command resolves direction through whichever context matched it
// (executor.rs), and the two key sets may differ.
func (c *Config) DispatchSteps() dispatch.Steps {
	return dispatch.Steps{
		Translate: toStepTable(c.Mouse.Step.Translate),
		Scroll:    toStepTable(c.Mouse.Step.Scroll),
		Drag:      toStepTable(c.Mouse.Step.Drag),
		TranslateKeys: dispatch.DirectionKeys{
			Up: names(c.Keybinding.AtHint.Translate.Up), Down: names(c.Keybinding.AtHint.Translate.Down),
			Left: names(c.Keybinding.AtHint.Translate.Left), Right: names(c.Keybinding.AtHint.Translate.Right),
		},
		GlobalTranslateKeys: dispatch.DirectionKeys{
			Up: names(c.Keybinding.Global.Translate.Up), Down: names(c.Keybinding.Global.Translate.Down),
			Left: names(c.Keybinding.Global.Translate.Left), Right: names(c.Keybinding.Global.Translate.Right),
		},
		ScrollKeys: dispatch.DirectionKeys{
			Up: names(c.Keybinding.AtHint.Scroll.Up), Down: names(c.Keybinding.AtHint.Scroll.Down),
			Left: names(c.Keybinding.AtHint.Scroll.Left), Right: names(c.Keybinding.AtHint.Scroll.Right),
		},
		DragKeys: dispatch.DirectionKeys{
			Up: names(c.Keybinding.AtHint.Drag.Up), Down: names(c.Keybinding.AtHint.Drag.Down),
			Left: names(c.Keybinding.AtHint.Drag.Left), Right: names(c.Keybinding.AtHint.Drag.Right),
		},
	}
}

// GridSpec builds hintassign.GridSpec from hint.grid and hint.types.
func (c *Config) GridSpec() hintassign.GridSpec {
	typeNames := make([]string, len(c.Hint.Types))
	typeZ := make([]int, len(c.Hint.Types))
	for i, t := range c.Hint.Types {
		typeNames[i] = t.Name
		typeZ[i] = t.Type.ZIndex
	}
	return hintassign.GridSpec{
		Rows: c.Hint.Grid.Rows, Columns: c.Hint.Grid.Columns,
		ShowAtRows: c.Hint.Grid.ShowAtRows, ShowAtColumns: c.Hint.Grid.ShowAtColumns,
		HintTypeName: c.Hint.Grid.HintType, TypeNames: typeNames, TypeZ: typeZ,
	}
}

// controlTypeResolver implements uielement.TypeResolver over hint.types'
// element_control_types mapping (spec.md §3, HintType invariant: the
// first listed type whose set contains a control_type wins if the config
// declares overlapping sets).
type controlTypeResolver struct {
	byControlType map[int]resolved
}

type resolved struct {
	index, z int
}

// TypeResolver builds the uielement.TypeResolver hint.types describes.
func (c *Config) TypeResolver() uielement.TypeResolver {
	r := &controlTypeResolver{byControlType: make(map[int]resolved)}
	for i, t := range c.Hint.Types {
		for _, ct := range t.Type.ElementControlTypes {
			if _, exists := r.byControlType[ct]; exists {
				continue
			}
			r.byControlType[ct] = resolved{index: i, z: t.Type.ZIndex}
		}
	}
	return r
}

func (r *controlTypeResolver) Resolve(controlType int) (elementType int, z int, ok bool) {
	res, found := r.byControlType[controlType]
	if !found {
		return 0, 0, false
	}
	return res.index, res.z, true
}

// VirtualKeyTable builds the virtual-key -> logical Name lookup a KeyHook
// collaborator decodes platform key codes through (spec.md §6).
func (c *Config) VirtualKeyTable() map[int]keyboard.Name {
	table := make(map[int]keyboard.Name, len(c.Keyboard.AvailableKey))
	for _, e := range c.Keyboard.AvailableKey {
		table[e.VirtualKey] = keyboard.Name(e.Name)
	}
	return table
}
