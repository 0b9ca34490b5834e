// Package core maintains the VT102 mode registers: the ANSI modes
// (KAM/IRM/SRM/LNM), the DEC Private Modes (DECCKM/DECANM/DECCOLM/
// DECSCLM/DECSCNM/DECOM/DECAWM/DECARM/DECPFF/DECPEX), and keypad mode.
package core

import "maps"

// Mode identifies a single settable mode flag.
type Mode struct {
	Name string
	// Value is the SM/RM numeric code: the ANSI code for Ansi modes, the
	// DEC Private Mode code (after the leading '?') otherwise.
	Value int
	Ansi  bool
	// Default is the reset-time value for this mode.
	Default bool
}

func entry(name string, value int, ansi, def bool) Mode {
	return Mode{Name: name, Value: value, Ansi: ansi, Default: def}
}

var (
	// ANSI modes (SM/RM with a single numeric parameter)
	KAM = entry("keyboard action", 2, true, false)
	IRM = entry("insert/replace", 4, true, false)
	SRM = entry("send/receive", 12, true, false)
	LNM = entry("linefeed/newline", 20, true, false)

	// DEC Private Modes (SM/RM with "?")
	DECCKM  = entry("cursor key", 1, false, false)
	DECANM  = entry("ansi/vt52", 2, false, true)
	DECCOLM = entry("column", 3, false, false)
	DECSCLM = entry("scroll speed", 4, false, false)
	DECSCNM = entry("screen background", 5, false, false)
	DECOM   = entry("origin", 6, false, false)
	DECAWM  = entry("autowrap", 7, false, true)
	DECARM  = entry("auto repeat", 8, false, false)
	DECPFF  = entry("print form feed", 18, false, false)
	DECPEX  = entry("print extent", 19, false, false)

	entries = []Mode{
		KAM, IRM, SRM, LNM,
		DECCKM, DECANM, DECCOLM, DECSCLM, DECSCNM, DECOM, DECAWM, DECARM, DECPFF, DECPEX,
	}
)

// Packed is the full set of modes at their default (reset) values.
var Packed = func() map[Mode]bool {
	packed := make(map[Mode]bool, len(entries))
	for _, m := range entries {
		packed[m] = m.Default
	}
	return packed
}()

// FromInt looks up a Mode by its numeric SM/RM code and Ansi-ness.
func FromInt(value int, ansi bool) *Mode {
	for _, m := range entries {
		if m.Value == value && m.Ansi == ansi {
			return &m
		}
	}
	return nil
}

// KeypadMode selects between numeric and application keypad behavior.
type KeypadMode int

const (
	KeypadNumeric KeypadMode = iota
	KeypadApplication
)

// State holds the live value of every mode plus the keypad mode, which
// is not part of the SM/RM-settable set (it toggles via ESC > / ESC =).
type State struct {
	values   map[Mode]bool
	defaults map[Mode]bool
	Keypad   KeypadMode
}

// NewState creates a mode register bank. A nil values map starts from the
// documented VT102 defaults.
func NewState(values map[Mode]bool) *State {
	s := &State{defaults: Packed}
	if values != nil {
		s.values = maps.Clone(values)
	} else {
		s.values = maps.Clone(Packed)
	}
	return s
}

func (s *State) Set(m Mode, value bool) { s.values[m] = value }
func (s *State) Get(m Mode) bool        { return s.values[m] }

// Reset restores every mode to its documented default and selects
// Numeric keypad mode.
func (s *State) Reset() {
	s.values = maps.Clone(s.defaults)
	s.Keypad = KeypadNumeric
}

// Clone returns an independent deep copy, used by Emulator.Clone.
func (s *State) Clone() *State {
	return &State{
		values:   maps.Clone(s.values),
		defaults: s.defaults,
		Keypad:   s.Keypad,
	}
}
