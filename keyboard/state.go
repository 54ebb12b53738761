package keyboard

import "time"

// State is one of the four session states from spec.md §4.8.
type State int

const (
	Idle State = iota
	Collecting
	AtHint
	AtHintDragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Collecting:
		return "Collecting"
	case AtHint:
		return "AtHint"
	case AtHintDragging:
		return "AtHintDragging"
	default:
		return "Unknown"
	}
}

// quickClickThreshold is the 300ms window from spec.md §4.8's quick-click
// heuristic.
const quickClickThreshold = 300 * time.Millisecond

// Sink receives the effects a Machine produces: renderer hint-filtering
// events and fully-resolved commands for the dispatcher to execute. atHint
// tells the sink which keybinding context (global vs at_hint, spec.md §6)
// matched the command, since the two contexts can configure distinct
// direction keys for what is otherwise the same command (e.g. translate_up
// panning hints before a label is held, versus panning them while one is).
type Sink interface {
	FilterHints(prefix string)
	RemoveAllHints()
	Execute(cmd Command, label string, held map[Name]bool, dragging, atHint bool)
	// EndSession is called exactly once whenever the machine leaves
	// Collecting/AtHint/AtHintDragging for Idle, after any command tied to
	// that transition has already been dispatched via Execute. wasDragging
	// tells the sink whether an active drag must be released.
	EndSession(wasDragging bool)
}

// Machine is the single-threaded keyboard state machine from spec.md §4.8.
// Callers must serialize calls to HandleKeyDown/HandleKeyUp/SwitchSession;
// the machine performs no internal locking.
type Machine struct {
	charsets HintCharsets
	bindings Bindings
	sink     Sink
	now      func() time.Time

	state State

	prefix              []rune
	hintLength          int
	hintStartsWithExtra bool
	finalKey            Name

	finalKeyHold      bool
	finalKeyHoldStart time.Time
	isDragging        bool

	held map[Name]bool
}

// New builds a Machine over the given configuration and effect sink.
func New(charsets HintCharsets, bindings Bindings, sink Sink) *Machine {
	return &Machine{
		charsets: charsets,
		bindings: bindings,
		sink:     sink,
		now:      time.Now,
		state:    Idle,
		held:     make(map[Name]bool),
	}
}

// State returns the machine's current state.
func (m *Machine) State() State { return m.state }

// SwitchSession implements the Idle<->Collecting activation toggle from
// spec.md §4.8. Entering clears accumulated prefix state; leaving (from any
// state) clears everything including drag and hold flags.
func (m *Machine) SwitchSession(active bool) {
	if active {
		m.resetPrefix()
		m.state = Collecting
		return
	}
	wasDragging := m.isDragging
	m.resetPrefix()
	m.finalKeyHold = false
	m.isDragging = false
	m.held = make(map[Name]bool)
	m.state = Idle
	if m.sink != nil {
		m.sink.EndSession(wasDragging)
	}
}

func (m *Machine) resetPrefix() {
	m.prefix = nil
	m.hintLength = 0
	m.hintStartsWithExtra = false
	m.finalKey = ""
}

// HandleKeyDown processes one key-down event.
func (m *Machine) HandleKeyDown(k Name) {
	if m.tracksHeld(k) {
		m.held[k] = true
	}

	if m.state == Idle {
		return
	}

	if other := m.heldModifierOtherThan(k); other != "" && !m.bindings.isPropagationModifier(k) {
		return
	}

	switch m.state {
	case Collecting:
		m.handleCollecting(k)
	case AtHint, AtHintDragging:
		m.handleAtHint(k)
	}
}

// heldModifierOtherThan returns a currently-held propagation modifier other
// than k itself, or "" if none is held. This implements spec.md §4.8's
// "any propagation_modifier is currently held ... and the pressed key is
// itself not such a modifier" bypass check.
func (m *Machine) heldModifierOtherThan(k Name) Name {
	for name, pressed := range m.held {
		if pressed && name != k && m.bindings.isPropagationModifier(name) {
			return name
		}
	}
	return ""
}

// tracksHeld reports whether k's press/release state belongs in m.held:
// configured propagation modifiers (spec.md §6, keyboard.propagation_modifier
// — whatever names the configuration uses, e.g. "Ctrl" rather than a fixed
// "Control") plus the arrow keys, whose held state the dispatcher reads to
// resolve translate/scroll/drag directions.
func (m *Machine) tracksHeld(k Name) bool {
	return m.bindings.isPropagationModifier(k) || isArrow(k)
}

func isArrow(k Name) bool {
	switch k {
	case "Up", "Down", "Left", "Right":
		return true
	default:
		return false
	}
}

func (m *Machine) handleCollecting(k Name) {
	if r, isChar := singleRune(string(k)); isChar && m.tryAccumulate(r) {
		return
	}

	if cmd, ok := m.bindings.Global.Match(k); ok {
		m.runGlobalCommand(cmd)
	}
}

func singleRune(s string) (rune, bool) {
	rs := []rune(s)
	if len(rs) != 1 {
		return 0, false
	}
	return rs[0], true
}

// tryAccumulate attempts to extend the prefix with r per spec.md §4.8's
// charset-position rules. It returns false (and leaves state untouched) if
// r is not a valid continuation, so the caller falls through to command
// matching.
func (m *Machine) tryAccumulate(r rune) bool {
	n := m.charsets.N()

	if len(m.prefix) == 0 {
		switch {
		case m.charsets.IsExtra(r):
			m.hintStartsWithExtra = true
			m.hintLength = n + 1
		case m.charsets.InCharset(0, r):
			m.hintStartsWithExtra = false
			m.hintLength = n
		default:
			return false
		}
		m.prefix = append(m.prefix, r)
		m.afterAppend(r)
		return true
	}

	i := len(m.prefix)
	if m.hintStartsWithExtra {
		i--
	}
	if !m.charsets.InCharset(i, r) {
		return false
	}
	m.prefix = append(m.prefix, r)
	m.afterAppend(r)
	return true
}

func (m *Machine) afterAppend(r rune) {
	if len(m.prefix) == m.hintLength {
		m.finalKey = Name(string(r))
		if cmds := m.bindings.Global.MatchAll(HintKey); len(cmds) > 0 {
			for _, cmd := range cmds {
				m.runGlobalCommand(cmd)
			}
			return
		}
	}
	m.sink.FilterHints(string(m.prefix))
}

func (m *Machine) runGlobalCommand(cmd Command) {
	switch cmd {
	case CmdHoldAtHint:
		m.enterAtHint()
	case CmdMoveToHintExit, CmdExit:
		m.sink.Execute(cmd, string(m.prefix), copyHeld(m.held), m.isDragging, false)
		m.SwitchSession(false)
	default:
		m.sink.Execute(cmd, string(m.prefix), copyHeld(m.held), m.isDragging, false)
	}
}

// enterAtHint implements the hold_at_hint transition. If no label was
// completed (prefix shorter than hint_length) the renderer is told to
// remove all hints instead, per spec.md §4.8.
func (m *Machine) enterAtHint() {
	if len(m.prefix) != m.hintLength || m.hintLength == 0 {
		m.sink.RemoveAllHints()
		m.resetPrefix()
		return
	}
	m.finalKeyHold = true
	m.finalKeyHoldStart = m.now()
	m.state = AtHint
}

func (m *Machine) handleAtHint(k Name) {
	if k == m.finalKey {
		return
	}

	logical := k
	if adj, ok := m.bindings.adjacency(m.finalKey); ok {
		switch k {
		case adj.Right:
			logical = HintRightKey
		case adj.Left:
			logical = HintLeftKey
		}
	}

	cmd, ok := m.bindings.AtHint.Match(logical)
	if !ok {
		return
	}

	switch cmd {
	case CmdDragUp, CmdDragDown, CmdDragLeft, CmdDragRight:
		m.isDragging = true
		m.state = AtHintDragging
		m.sink.Execute(cmd, string(m.prefix), copyHeld(m.held), m.isDragging, true)
	case CmdExit, CmdLeftClickExit, CmdRightClickExit, CmdMiddleClickExit, CmdDoubleClickExit:
		m.sink.Execute(cmd, string(m.prefix), copyHeld(m.held), m.isDragging, true)
		m.SwitchSession(false)
	default:
		m.sink.Execute(cmd, string(m.prefix), copyHeld(m.held), m.isDragging, true)
	}
}

// HandleKeyUp processes a key release. Per spec.md §4.8, releasing the
// held final key while holding it applies the quick-click heuristic;
// releasing a tracked modifier/arrow just clears its held flag.
func (m *Machine) HandleKeyUp(k Name) {
	if m.tracksHeld(k) {
		delete(m.held, k)
	}

	if (m.state != AtHint && m.state != AtHintDragging) || !m.finalKeyHold || k != m.finalKey {
		return
	}

	if m.now().Sub(m.finalKeyHoldStart) < quickClickThreshold {
		m.sink.Execute(CmdLeftClickExit, string(m.prefix), copyHeld(m.held), m.isDragging, true)
		m.SwitchSession(false)
	}
}

func copyHeld(held map[Name]bool) map[Name]bool {
	out := make(map[Name]bool, len(held))
	for k, v := range held {
		if v {
			out[k] = true
		}
	}
	return out
}
