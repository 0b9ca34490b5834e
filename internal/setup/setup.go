// Package setup implements the VT102 SET-UP configuration subsystem:
// the SetupModel fields, the bank/column toggle grid the SET-UP '6' key
// cycles through and flips, and a persistent Profile the running
// configuration can be saved to and restored from.
package setup

import (
	"github.com/tlast/vt102/internal/core"
)

// Modem groups the communication-line parameters SET-UP page B exposes.
type Modem struct {
	DataParityBits           int
	TxSpeed, RxSpeed         int
	Control                  int
	TurnaroundDisconnectChar byte
}

// Printer groups the printer-port parameters SET-UP page B exposes.
type Printer struct {
	DataParityBits int
	TxRxSpeed      int
}

// Model is the SET-UP-controlled, persisted configuration, distinct from
// the ANSI/DEC modes in internal/core; several Banks toggles alias those
// mode registers instead of a Model field.
type Model struct {
	Online               bool
	BlockCursor          bool
	MarginBell           bool
	Keyclick             bool
	AutoXONXOFF          bool
	UKCharset            bool
	StopBits             int
	ReceiveParity        int
	BreakEnable          bool
	DisconnectCharEnable bool
	DisconnectDelay      int
	AutoAnswerback       bool
	InitialDirection     int
	AutoTurnaround       bool
	Power                bool
	WPSTerminalKbd       bool
	Delimiter            byte
	Brightness           float64
	Modem                Modem
	Printer              Printer
}

// Default returns the factory SET-UP configuration.
func Default() *Model {
	return &Model{
		Online:      true,
		BlockCursor: true,
		Keyclick:    true,
		AutoXONXOFF: true,
		Brightness:  1.0,
	}
}

// toggle binds one SET-UP bank column to the state it flips. Several
// toggles alias an ANSI/DEC mode register rather than a Model field, per
// the mode-register aliasing the SET-UP bank layout below documents.
type toggle struct {
	name string
	get  func(*Model, *core.State) bool
	set  func(*Model, *core.State, bool)
}

func modelToggle(name string, get func(*Model) bool, set func(*Model, bool)) toggle {
	return toggle{
		name: name,
		get:  func(m *Model, _ *core.State) bool { return get(m) },
		set:  func(m *Model, _ *core.State, v bool) { set(m, v) },
	}
}

func modeToggle(name string, mode core.Mode) toggle {
	return toggle{
		name: name,
		get:  func(_ *Model, s *core.State) bool { return s.Get(mode) },
		set:  func(_ *Model, s *core.State, v bool) { s.Set(mode, v) },
	}
}

func stub(name string) toggle {
	return toggle{name: name, get: func(*Model, *core.State) bool { return false }, set: func(*Model, *core.State, bool) {}}
}

// Bank is one row of four toggles the SET-UP display shows across a
// fixed set of screen columns.
type Bank struct {
	Columns [4]int
	Toggles [4]toggle
}

// Banks is the SET-UP '6' key's cursor-to-feature mapping: every column
// the cursor can land on in SET-UP B and the toggle it flips.
var Banks = [7]Bank{
	{Columns: [4]int{2, 7, 12, 17}, Toggles: [4]toggle{
		stub("power"),
		modelToggle("keyclick", func(m *Model) bool { return m.Keyclick }, func(m *Model, v bool) { m.Keyclick = v }),
		modelToggle("margin bell", func(m *Model) bool { return m.MarginBell }, func(m *Model, v bool) { m.MarginBell = v }),
		modelToggle("auto XON/XOFF", func(m *Model) bool { return m.AutoXONXOFF }, func(m *Model, v bool) { m.AutoXONXOFF = v }),
	}},
	{Columns: [4]int{24, 29, 34, 39}, Toggles: [4]toggle{
		modeToggle("wraparound", core.DECAWM),
		modeToggle("auto repeat", core.DECARM),
		modelToggle("cursor style", func(m *Model) bool { return m.BlockCursor }, func(m *Model, v bool) { m.BlockCursor = v }),
		modeToggle("auto linefeed", core.LNM),
	}},
	{Columns: [4]int{46, 51, 56, 61}, Toggles: [4]toggle{
		stub("interlace"),
		modeToggle("screen background", core.DECSCNM),
		stub("columns"), // intentionally not re-bound to DECCOLM; see SPEC_FULL.md §4.5
		stub("132 column lock"),
	}},
	{Columns: [4]int{68, 73, 78, 83}, Toggles: [4]toggle{
		stub("answerback in local"),
		modelToggle("UK/US charset", func(m *Model) bool { return m.UKCharset }, func(m *Model, v bool) { m.UKCharset = v }),
		modeToggle("send/receive", core.SRM),
		modeToggle("insert/replace", core.IRM),
	}},
	{Columns: [4]int{90, 95, 100, 105}, Toggles: [4]toggle{
		modelToggle("auto answerback", func(m *Model) bool { return m.AutoAnswerback }, func(m *Model, v bool) { m.AutoAnswerback = v }),
		stub("WPS keyboard"),
		modelToggle("disconnect char enable", func(m *Model) bool { return m.DisconnectCharEnable }, func(m *Model, v bool) { m.DisconnectCharEnable = v }),
		modelToggle("disconnect delay", func(m *Model) bool { return m.DisconnectDelay != 0 }, func(m *Model, v bool) {
			if v {
				m.DisconnectDelay = 2
			} else {
				m.DisconnectDelay = 0
			}
		}),
	}},
	{Columns: [4]int{112, 117, 122, 127}, Toggles: [4]toggle{
		modelToggle("break enable", func(m *Model) bool { return m.BreakEnable }, func(m *Model, v bool) { m.BreakEnable = v }),
		stub("reserved"),
		stub("reserved"),
		stub("reserved"),
	}},
	{Columns: [4]int{68, 73, 78, 83}, Toggles: [4]toggle{ // printer bank (page B); mirrors bank 4's parity/speed shape
		stub("printer parity"),
		stub("printer speed"),
		stub("reserved"),
		stub("reserved"),
	}},
}

// Cursor is the SET-UP display's current bank/column position.
type Cursor struct {
	Bank, Column int
}

// Session drives SET-UP mode: a Cursor position over the Banks grid
// (page B), a TabCursor over the tab-stop ruler (page A), and the
// Model/mode state those positions edit in place.
type Session struct {
	Cursor    Cursor
	TabCursor int
	// ModemSide selects which of Model.Modem/Model.Printer the speed and
	// parity keys act on; Shift+Left/Right flips it.
	ModemSide bool
	Model     *Model
	Modes     *core.State
	// Profile holds the last saved configuration (Shift+S), restored by
	// Shift+R. Nil until the first save.
	Profile *Profile
}

// NewSession starts a SET-UP session positioned at the first toggle,
// with the modem side selected.
func NewSession(model *Model, modes *core.State) *Session {
	return &Session{Model: model, Modes: modes, ModemSide: true}
}

// Move shifts the cursor delta toggle positions across the Banks grid
// (the SET-UP Left/Right keys), wrapping at either end.
func (s *Session) Move(delta int) {
	total := 4 * len(Banks)
	pos := s.Cursor.Bank*4 + s.Cursor.Column
	pos = ((pos+delta)%total + total) % total
	s.Cursor.Bank, s.Cursor.Column = pos/4, pos%4
}

// Advance moves the cursor to the next toggle position, wrapping from
// the last bank's last column back to the first.
func (s *Session) Advance() {
	s.Move(1)
}

// Toggle flips the state under the cursor (the SET-UP '6' key).
func (s *Session) Toggle() {
	t := Banks[s.Cursor.Bank].Toggles[s.Cursor.Column]
	t.set(s.Model, s.Modes, !t.get(s.Model, s.Modes))
}

// Current reports the name and value of the toggle under the cursor, for
// the SET-UP display painter.
func (s *Session) Current() (name string, value bool) {
	t := Banks[s.Cursor.Bank].Toggles[s.Cursor.Column]
	return t.name, t.get(s.Model, s.Modes)
}

// speeds is the VT100/VT102 line-speed selector: 16 entries (134 stands
// in for the hardware's 134.5 baud), cycled modulo 16 per spec.md §4.5's
// "'7'/'8' (SetUpB) → cycle tx/rx speed on modem or printer (modulo 16)".
var speeds = [16]int{
	50, 75, 110, 134, 150, 200, 300, 600,
	1200, 1800, 2000, 2400, 3600, 4800, 9600, 19200,
}

func cycleSpeed(cur int) int {
	for i, v := range speeds {
		if v == cur {
			return speeds[(i+1)%len(speeds)]
		}
	}
	return speeds[0]
}

// CycleSpeed advances the selected side's (Session.ModemSide) transmit
// speed, or its receive speed when rx is true (the SET-UP '7'/'8' keys).
func (s *Session) CycleSpeed(rx bool) {
	if !s.ModemSide {
		s.Model.Printer.TxRxSpeed = cycleSpeed(s.Model.Printer.TxRxSpeed)
		return
	}
	if rx {
		s.Model.Modem.RxSpeed = cycleSpeed(s.Model.Modem.RxSpeed)
	} else {
		s.Model.Modem.TxSpeed = cycleSpeed(s.Model.Modem.TxSpeed)
	}
}

// CycleParity advances the receive-parity selector (Shift+C).
func (s *Session) CycleParity() {
	s.Model.ReceiveParity = (s.Model.ReceiveParity + 1) % 3
}

// CycleModemControl advances the modem-control selector (Shift+M).
func (s *Session) CycleModemControl() {
	s.Model.Modem.Control = (s.Model.Modem.Control + 1) % 3
}

// CyclePrinterParity advances the printer's data/parity-bit selector
// (Shift+P).
func (s *Session) CyclePrinterParity() {
	s.Model.Printer.DataParityBits = (s.Model.Printer.DataParityBits + 1) % 3
}

// AdjustBrightness nudges the display intensity by delta, clamped to
// [0, 1] (the SET-UP Up/Down keys).
func (s *Session) AdjustBrightness(delta float64) {
	b := s.Model.Brightness + delta
	if b < 0 {
		b = 0
	}
	if b > 1 {
		b = 1
	}
	s.Model.Brightness = b
}

// setupAliasedModes are the mode registers a Banks toggle aliases
// directly, rather than a Model field; RestoreDefaults resets these
// alongside the Model so Shift+D reverts everything SET-UP controls.
var setupAliasedModes = []core.Mode{core.DECAWM, core.DECARM, core.LNM, core.DECSCNM, core.SRM, core.IRM}

// RestoreDefaults resets the Model and every mode register a SET-UP
// toggle aliases back to its factory default (Shift+D).
func (s *Session) RestoreDefaults() {
	*s.Model = *Default()
	for _, m := range setupAliasedModes {
		s.Modes.Set(m, m.Default)
	}
}
