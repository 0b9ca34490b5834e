// Package keyboard translates a VT102 keycap press into the bytes the
// terminal sends to the host, grounded on the original emulator's
// keymap table.
package keyboard

import (
	"github.com/tlast/vt102/internal/core"
	"github.com/tlast/vt102/internal/outbuf"
)

// Key identifies one physical VT102 keycap.
type Key int

const (
	SetUp Key = iota
	Up
	Down
	Left
	Right
	Escape
	Digit1
	Digit2
	Digit3
	Digit4
	Digit5
	Digit6
	Digit7
	Digit8
	Digit9
	Digit0
	Minus
	Equals
	Backtick
	Backspace
	Break
	Tab
	A
	B
	C
	D
	E
	F
	G
	H
	I
	J
	K
	L
	M
	N
	O
	P
	Q
	R
	S
	T
	U
	V
	W
	X
	Y
	Z
	LeftBracket
	RightBracket
	Return
	Delete
	Semicolon
	Quote
	Backslash
	NoScroll
	Comma
	Period
	Slash
	LineFeed
	Space
	PF1
	PF2
	PF3
	PF4
	KP0
	KP1
	KP2
	KP3
	KP4
	KP5
	KP6
	KP7
	KP8
	KP9
	KPMinus
	KPComma
	KPPeriod
	KPEnter
)

// Modifiers is a bitset of the VT102's three modifier sources.
type Modifiers int

const (
	None     Modifiers = 0
	Ctrl     Modifiers = 1 << 0
	Shift    Modifiers = 1 << 1
	CapsLock Modifiers = 1 << 2
)

// triple holds a key's unshifted, shifted, and Ctrl byte values. ctrl of
// -1 means Ctrl produces no byte for this key (as the original's keymap
// lookup throwing out_of_range and silently dropping the keystroke).
type triple struct {
	unshifted, shifted, ctrl int
}

// keymap mirrors the original emulator's SDL-keycode-to-byte table,
// reindexed by Key.
var keymap = map[Key]triple{
	Digit1: {'1', '!', -1}, Digit2: {'2', '@', -1}, Digit3: {'3', '#', -1},
	Digit4: {'4', '$', -1}, Digit5: {'5', '%', -1}, Digit6: {'6', '^', -1},
	Digit7: {'7', '&', -1}, Digit8: {'8', '*', -1}, Digit9: {'9', '(', -1},
	Digit0: {'0', ')', -1},
	Minus:  {'-', '_', -1}, Equals: {'=', '+', -1},
	Backtick: {'`', '~', 0x1E},

	Q: {'q', 'Q', 0x11}, W: {'w', 'W', 0x17}, E: {'e', 'E', 0x05},
	R: {'r', 'R', 0x12}, T: {'t', 'T', 0x14}, Y: {'y', 'Y', 0x19},
	U: {'u', 'U', 0x15}, I: {'i', 'I', 0x09}, O: {'o', 'O', 0x0F},
	P: {'p', 'P', 0x10},
	LeftBracket:  {'[', '{', 0x1B},
	RightBracket: {']', '}', 0x1D},

	A: {'a', 'A', 0x01}, S: {'s', 'S', 0x13}, D: {'d', 'D', 0x04},
	F: {'f', 'F', 0x06}, G: {'g', 'G', 0x07}, H: {'h', 'H', 0x08},
	J: {'j', 'J', 0x0A}, K: {'k', 'K', 0x0B}, L: {'l', 'L', 0x0C},
	Semicolon: {';', ':', -1},
	Quote:     {'\'', '"', -1},
	Backslash: {'\\', '|', 0x1C},

	Z: {'z', 'Z', 0x1A}, X: {'x', 'X', 0x18}, C: {'c', 'C', 0x03},
	V: {'v', 'V', 0x16}, B: {'b', 'B', 0x02}, N: {'n', 'N', 0x0E},
	M: {'m', 'M', 0x0D},
	Comma:  {',', '<', -1},
	Period: {'.', '>', -1},
	Slash:  {'/', '?', 0x1F},

	Space: {' ', ' ', 0x00},
	Delete: {0x7F, 0x7F, 0x7F},

	KP0: {'0', 'p', -1}, KP1: {'1', 'q', -1}, KP2: {'2', 'r', -1},
	KP3: {'3', 's', -1}, KP4: {'4', 't', -1}, KP5: {'5', 'u', -1},
	KP6: {'6', 'v', -1}, KP7: {'7', 'w', -1}, KP8: {'8', 'x', -1},
	KP9:      {'9', 'y', -1},
	KPMinus:  {'-', 'm', -1},
	KPComma:  {',', 'l', -1},
	KPPeriod: {'.', 'n', -1},
}

// pfSequence maps PF1-4 to the ESC O <letter> sequences the original
// left marked "unimplemented"; this emulator sends them directly.
var pfSequence = map[Key]byte{
	PF1: 'P', PF2: 'Q', PF3: 'R', PF4: 'S',
}

var arrowFinal = map[Key]byte{
	Up: 'A', Down: 'B', Right: 'C', Left: 'D',
}

var kpFinal = map[Key]byte{
	KP0: 'p', KP1: 'q', KP2: 'r', KP3: 's', KP4: 't',
	KP5: 'u', KP6: 'v', KP7: 'w', KP8: 'x', KP9: 'y',
	KPMinus: 'm', KPComma: 'l', KPPeriod: 'n',
}

// Translate returns the bytes to send to the host for key pressed with
// mods held, given the terminal's current mode state and flow-control
// gate (NoScroll toggles the latter directly rather than sending a
// byte). repeat marks the event as an auto-repeat rather than the
// initial keydown; per spec.md §4.4, DECARM gates repeats: when it is
// false, a repeat event is dropped entirely rather than translated.
// Translate returns nil for keys with no host-visible effect (SET-UP,
// Break, NoScroll) or when the keyboard is locked (KAM).
func Translate(modes *core.State, flow *outbuf.Buffer, key Key, mods Modifiers, repeat bool) []byte {
	if modes.Get(core.KAM) {
		return nil
	}
	if repeat && !modes.Get(core.DECARM) {
		return nil
	}

	switch key {
	case SetUp, Break:
		return nil
	case Up, Down, Left, Right:
		final := arrowFinal[key]
		if modes.Get(core.DECCKM) {
			return []byte{0x1B, 'O', final}
		}
		return []byte{0x1B, '[', final}
	case Escape:
		return []byte{0x1B}
	case Backspace:
		return []byte{0x08}
	case Tab:
		return []byte{0x09}
	case LineFeed:
		return []byte{0x0A}
	case Return, KPEnter:
		if key == KPEnter && mods&Ctrl != 0 {
			// auto-print toggle: stub, no host-visible effect
			return nil
		}
		if key == KPEnter && mods&Shift != 0 {
			// print screen: stub, no host-visible effect
			return nil
		}
		if key == KPEnter && modes.Keypad == core.KeypadApplication {
			return []byte{0x1B, '0', 'M'}
		}
		out := []byte{0x0D}
		if modes.Get(core.LNM) {
			out = append(out, 0x0A)
		}
		return out
	case NoScroll:
		flow.SetXON(!flow.XON())
		return nil
	case PF1, PF2, PF3, PF4:
		return []byte{0x1B, 'O', pfSequence[key]}
	case KP0, KP1, KP2, KP3, KP4, KP5, KP6, KP7, KP8, KP9, KPMinus, KPComma, KPPeriod:
		if modes.Keypad == core.KeypadApplication {
			return []byte{0x1B, 'O', kpFinal[key]}
		}
		t, ok := keymap[key]
		if !ok {
			return nil
		}
		return []byte{byte(t.unshifted)}
	}

	t, ok := keymap[key]
	if !ok {
		return nil
	}

	idx := 0
	if mods&Ctrl != 0 {
		if t.ctrl == -1 {
			return nil
		}
		return []byte{byte(t.ctrl)}
	}
	if mods&(Shift|CapsLock) != 0 {
		idx = 1
	}
	if idx == 0 {
		return []byte{byte(t.unshifted)}
	}
	return []byte{byte(t.shifted)}
}
