// Package keyboard implements the hint-session state machine (spec.md
// §4.8): it turns a stream of key-down/key-up events into prefix
// accumulation against the configured hint charsets, and into matched
// commands forwarded to a Sink.
package keyboard

// Name is a decoded logical key identity, e.g. "A", "Shift", "Up". It is
// the unit configuration binds against (keybinding.*, map_left_right,
// propagation_modifier), in the style of io/key's string-named keys rather
// than a raw platform virtual-key code.
type Name string

// Synthetic logical keys the state machine substitutes for the physically
// pressed key when matching commands, per spec.md §4.8.
const (
	HintKey      Name = "HintKey"
	HintLeftKey  Name = "HintLeftKey"
	HintRightKey Name = "HintRightKey"
)

// Command identifies one dispatchable action (spec.md §4.9).
type Command string

const (
	CmdMoveToHint     Command = "move_to_hint"
	CmdMoveToHintExit Command = "move_to_hint_exit"
	CmdHoldAtHint     Command = "hold_at_hint"
	CmdLeftClick      Command = "left_click"
	CmdLeftClickExit  Command = "left_click_exit"
	CmdRightClick     Command = "right_click"
	CmdRightClickExit Command = "right_click_exit"
	CmdMiddleClick    Command = "middle_click"
	CmdMiddleClickExit Command = "middle_click_exit"
	CmdDoubleClick     Command = "double_click"
	CmdDoubleClickExit Command = "double_click_exit"
	CmdExit            Command = "exit"
	CmdTranslateUp     Command = "translate_up"
	CmdTranslateDown   Command = "translate_down"
	CmdTranslateLeft   Command = "translate_left"
	CmdTranslateRight  Command = "translate_right"
	CmdScrollUp        Command = "scroll_up"
	CmdScrollDown      Command = "scroll_down"
	CmdScrollLeft      Command = "scroll_left"
	CmdScrollRight     Command = "scroll_right"
	CmdDragUp          Command = "drag_up"
	CmdDragDown        Command = "drag_down"
	CmdDragLeft        Command = "drag_left"
	CmdDragRight       Command = "drag_right"
)

// HintCharsets is the parsed hint.charsets / hint.charset_extra
// configuration (spec.md §6): an ordered list of character sets C0..Cn-1
// defining n-length labels, plus an optional extra first-character set E
// producing (n+1)-length labels.
type HintCharsets struct {
	Charsets [][]rune
	Extra    []rune
}

// N returns the base label length n.
func (h HintCharsets) N() int { return len(h.Charsets) }

// IsExtra reports whether k belongs to the extra first-character set E.
func (h HintCharsets) IsExtra(k rune) bool {
	for _, c := range h.Extra {
		if c == k {
			return true
		}
	}
	return false
}

// InCharset reports whether k belongs to Charsets[i]. Out-of-range i is
// never a match.
func (h HintCharsets) InCharset(i int, k rune) bool {
	if i < 0 || i >= len(h.Charsets) {
		return false
	}
	for _, c := range h.Charsets[i] {
		if c == k {
			return true
		}
	}
	return false
}

// Table is an ordered command binding table: the first command (in
// insertion order) whose key list contains the looked-up key wins,
// matching spec.md §4.8's "first matching binding wins" tie-break.
type Table struct {
	order []Command
	keys  map[Command][]Name
}

// NewTable builds a Table from an ordered list of (command, keys) pairs.
func NewTable(pairs []CommandKeys) *Table {
	t := &Table{keys: make(map[Command][]Name, len(pairs))}
	for _, p := range pairs {
		if _, exists := t.keys[p.Command]; !exists {
			t.order = append(t.order, p.Command)
		}
		t.keys[p.Command] = append(t.keys[p.Command], p.Keys...)
	}
	return t
}

// CommandKeys binds one command to the key names that trigger it.
type CommandKeys struct {
	Command Command
	Keys    []Name
}

// Match returns the first configured command bound to k, in table order.
func (t *Table) Match(k Name) (Command, bool) {
	if t == nil {
		return "", false
	}
	for _, cmd := range t.order {
		for _, key := range t.keys[cmd] {
			if key == k {
				return cmd, true
			}
		}
	}
	return "", false
}

// MatchAll returns every configured command bound to k, in table order.
// Unlike Match, it does not stop at the first hit: a key may legitimately be
// bound to more than one command (e.g. the synthetic HintKey, bound to both
// hold_at_hint and move_to_hint), and all of them fire.
func (t *Table) MatchAll(k Name) []Command {
	if t == nil {
		return nil
	}
	var out []Command
	for _, cmd := range t.order {
		for _, key := range t.keys[cmd] {
			if key == k {
				out = append(out, cmd)
				break
			}
		}
	}
	return out
}

// Adjacency is one entry of keyboard.map_left_right: the keys adjacent to
// a hint's final key, used to synthesize HintLeftKey/HintRightKey while in
// AtHint (spec.md §4.8). Either side may be absent.
type Adjacency struct {
	Left, Right Name
}

// Bindings is the full set of tables and maps a Machine needs, assembled
// by the configuration layer from spec.md §6's keybinding/keyboard
// sections.
type Bindings struct {
	Global               *Table
	AtHint               *Table
	PropagationModifiers map[Name]bool
	MapLeftRight         map[Name]Adjacency
}

func (b Bindings) isPropagationModifier(k Name) bool {
	return b.PropagationModifiers[k]
}

func (b Bindings) adjacency(final Name) (Adjacency, bool) {
	adj, ok := b.MapLeftRight[final]
	return adj, ok
}
