package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/tlast/vt102/internal/keyboard"
)

// namedKeys maps the tcell keys with no printable rune onto the VT102
// keycap they correspond to.
var namedKeys = map[tcell.Key]keyboard.Key{
	tcell.KeyUp:        keyboard.Up,
	tcell.KeyDown:      keyboard.Down,
	tcell.KeyLeft:      keyboard.Left,
	tcell.KeyRight:     keyboard.Right,
	tcell.KeyEscape:    keyboard.Escape,
	tcell.KeyBackspace: keyboard.Backspace,
	tcell.KeyBackspace2: keyboard.Backspace,
	tcell.KeyTab:       keyboard.Tab,
	tcell.KeyEnter:     keyboard.Return,
	tcell.KeyDelete:    keyboard.Delete,
	tcell.KeyF1:        keyboard.PF1,
	tcell.KeyF2:        keyboard.PF2,
	tcell.KeyF3:        keyboard.PF3,
	tcell.KeyF4:        keyboard.PF4,
}

// runeKeys maps a lowercase ASCII rune onto its VT102 keycap. Shift is
// derived from an upper-case letter rune, since tcell already applies the
// host keyboard layout; CapsLock is never reported.
var runeKeys = map[rune]keyboard.Key{
	'1': keyboard.Digit1, '2': keyboard.Digit2, '3': keyboard.Digit3,
	'4': keyboard.Digit4, '5': keyboard.Digit5, '6': keyboard.Digit6,
	'7': keyboard.Digit7, '8': keyboard.Digit8, '9': keyboard.Digit9,
	'0': keyboard.Digit0, '-': keyboard.Minus, '=': keyboard.Equals,
	'`': keyboard.Backtick, '[': keyboard.LeftBracket, ']': keyboard.RightBracket,
	';': keyboard.Semicolon, '\'': keyboard.Quote, '\\': keyboard.Backslash,
	',': keyboard.Comma, '.': keyboard.Period, '/': keyboard.Slash,
	' ': keyboard.Space,
	'a': keyboard.A, 'b': keyboard.B, 'c': keyboard.C, 'd': keyboard.D,
	'e': keyboard.E, 'f': keyboard.F, 'g': keyboard.G, 'h': keyboard.H,
	'i': keyboard.I, 'j': keyboard.J, 'k': keyboard.K, 'l': keyboard.L,
	'm': keyboard.M, 'n': keyboard.N, 'o': keyboard.O, 'p': keyboard.P,
	'q': keyboard.Q, 'r': keyboard.R, 's': keyboard.S, 't': keyboard.T,
	'u': keyboard.U, 'v': keyboard.V, 'w': keyboard.W, 'x': keyboard.X,
	'y': keyboard.Y, 'z': keyboard.Z,
}

// ctrlRuneKeys maps the distinct tcell.Key values tcell reports for Ctrl+
// letter combinations (e.g. tcell.KeyCtrlA) back onto the plain letter
// keycap; Ctrl itself is then reported through the returned Modifiers.
var ctrlRuneKeys = map[tcell.Key]keyboard.Key{
	tcell.KeyCtrlA: keyboard.A, tcell.KeyCtrlB: keyboard.B, tcell.KeyCtrlC: keyboard.C,
	tcell.KeyCtrlD: keyboard.D, tcell.KeyCtrlE: keyboard.E, tcell.KeyCtrlF: keyboard.F,
	tcell.KeyCtrlG: keyboard.G, tcell.KeyCtrlH: keyboard.Backspace, tcell.KeyCtrlI: keyboard.Tab,
	tcell.KeyCtrlJ: keyboard.LineFeed, tcell.KeyCtrlK: keyboard.K, tcell.KeyCtrlL: keyboard.L,
	tcell.KeyCtrlM: keyboard.Return, tcell.KeyCtrlN: keyboard.N, tcell.KeyCtrlO: keyboard.O,
	tcell.KeyCtrlP: keyboard.P, tcell.KeyCtrlQ: keyboard.Q, tcell.KeyCtrlR: keyboard.R,
	tcell.KeyCtrlS: keyboard.S, tcell.KeyCtrlT: keyboard.T, tcell.KeyCtrlU: keyboard.U,
	tcell.KeyCtrlV: keyboard.V, tcell.KeyCtrlW: keyboard.W, tcell.KeyCtrlX: keyboard.X,
	tcell.KeyCtrlY: keyboard.Y, tcell.KeyCtrlZ: keyboard.Z,
}

// translateTcellKey converts a tcell key event into a VT102 keycap and
// modifier set. It reports ok=false for events that carry no VT102
// meaning (e.g. a bare modifier, or a key this keymap doesn't model).
func translateTcellKey(ev *tcell.EventKey) (keyboard.Key, keyboard.Modifiers, bool) {
	mods := keyboard.None
	if ev.Modifiers()&tcell.ModShift != 0 {
		mods |= keyboard.Shift
	}

	if key, ok := ctrlRuneKeys[ev.Key()]; ok {
		return key, mods | keyboard.Ctrl, true
	}
	if key, ok := namedKeys[ev.Key()]; ok {
		return key, mods, true
	}
	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		lower := r
		if lower >= 'A' && lower <= 'Z' {
			lower += 'a' - 'A'
			mods |= keyboard.Shift
		}
		if key, ok := runeKeys[lower]; ok {
			if ev.Modifiers()&tcell.ModCtrl != 0 {
				mods |= keyboard.Ctrl
			}
			return key, mods, true
		}
	}
	return 0, 0, false
}
