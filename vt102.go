// Package vt102 implements a VT102-compatible terminal emulation
// engine: a byte-stream interpreter driving a fixed-size screen model,
// a keyboard translator, a SET-UP configuration subsystem, and the
// XON/XOFF-gated output buffer for the interpreter's host-bound replies.
package vt102

import (
	"github.com/tlast/vt102/internal/core"
	"github.com/tlast/vt102/internal/keyboard"
	"github.com/tlast/vt102/internal/outbuf"
	"github.com/tlast/vt102/internal/screen"
	"github.com/tlast/vt102/internal/setup"
	"github.com/tlast/vt102/internal/vtparse"
	"github.com/tlast/vt102/logger"
)

// Options configures a new Emulator.
type Options struct {
	// Answerback is the string ENQ causes the terminal to send back to
	// the host. Empty by default, as on a freshly unboxed VT102.
	Answerback string
	Logger     logger.Logger
}

// Emulator is a complete VT102 session: the screen, its mode registers,
// the byte interpreter, the SET-UP configuration session, and the
// flow-control buffer that queues the interpreter's host-bound replies.
type Emulator struct {
	Screen *screen.Screen
	Modes  *core.State
	Flow   *outbuf.Buffer
	Interp *vtparse.Interpreter
	Setup  *setup.Session
	Log    logger.Logger

	// savedLines/savedCursor hold the host display SET-UP painted over,
	// restored when SET-UP exits. Only display content is saved: screen
	// width, scrolling region and tab stops are genuine configuration a
	// SET-UP edit (DECCOLM, tab stops) must persist past exit, not
	// transient content to roll back.
	savedLines  [screen.Rows]screen.Line
	savedCursor screen.Cursor
	// awaitingDelimiter is true for the first keystroke after entering
	// CreateAnswerback, which sets the delimiter rather than appending it.
	awaitingDelimiter bool
}

// New builds an Emulator in its power-on default configuration: 80
// columns, DECANM and DECAWM set, every other mode clear, flow open.
func New(opts Options) *Emulator {
	log := opts.Logger
	if log == nil {
		log = logger.DefaultLogger
	}
	scr := screen.New()
	modes := core.NewState(nil)
	flow := outbuf.New()
	model := setup.Default()
	return &Emulator{
		Screen: scr,
		Modes:  modes,
		Flow:   flow,
		Interp: vtparse.New(scr, modes, flow, opts.Answerback, &model.AutoXONXOFF, log),
		Setup:  setup.NewSession(model, modes),
		Log:    log,
	}
}

// Write feeds every host byte to the interpreter unconditionally; xon
// never gates inbound bytes, only the replies the interpreter appends to
// Flow (ENQ, DA, DECID, DSR). DC1/
// DC3 are ordinary control characters handled inside the interpreter
// like any other. A byte the interpreter rejects is logged at Trace
// level and otherwise skipped -- it does not abort the rest of the
// write.
func (e *Emulator) Write(data []byte) {
	switch e.Interp.State {
	case vtparse.StateSetUpA, vtparse.StateSetUpB, vtparse.StateCreateAnswerback:
		return
	}
	for _, c := range data {
		e.feed(c)
	}
}

func (e *Emulator) feed(c byte) {
	if err := e.Interp.Feed(c); err != nil {
		e.Log.Trace("byte rejected", "byte", c, "error", err)
	}
}

// Drain returns and clears any host-bound bytes queued since the last
// call. The xon gate filters at append time: bytes queued while xon was
// false are only 0x11/0x13, but bytes queued before it closed are still
// returned in full.
func (e *Emulator) Drain() []byte {
	return e.Flow.Drain()
}

// KeyboardInput translates a keycap press into host-bound bytes, or
// routes it to the SET-UP session when SET-UP is active. repeat marks
// the event as an auto-repeat rather than the initial keydown. The bytes
// are returned to the caller, not queued in Flow, so the xon gate does
// not apply to them. It returns nil for a key with no host-visible effect, and drops every
// key -- SET-UP included -- while KAM has the keyboard locked, matching
// the original's keydown handler gating its entire switch on `!term.KAM`.
func (e *Emulator) KeyboardInput(key keyboard.Key, mods keyboard.Modifiers, repeat bool) []byte {
	if e.Modes.Get(core.KAM) {
		return nil
	}
	if key == keyboard.SetUp {
		e.toggleSetUp()
		return nil
	}
	switch e.Interp.State {
	case vtparse.StateSetUpA, vtparse.StateSetUpB:
		e.setupKey(key, mods)
		return nil
	case vtparse.StateCreateAnswerback:
		e.createAnswerbackKey(key, mods)
		return nil
	}
	return keyboard.Translate(e.Modes, e.Flow, key, mods, repeat)
}

// toggleSetUp enters or leaves SET-UP (the SET-UP key). Entry snapshots
// the host display SET-UP is about to paint over and starts on page A;
// exit restores it, from whichever SET-UP state was active (including
// mid-CreateAnswerback).
func (e *Emulator) toggleSetUp() {
	switch e.Interp.State {
	case vtparse.StateSetUpA, vtparse.StateSetUpB, vtparse.StateCreateAnswerback:
		e.Screen.Lines = e.savedLines
		e.Screen.Cursor = e.savedCursor
		e.Interp.State = vtparse.StateNormal
	default:
		e.savedLines = e.Screen.Lines
		e.savedCursor = e.Screen.Cursor
		e.Setup.Cursor = setup.Cursor{}
		e.Setup.TabCursor = 0
		e.Interp.State = vtparse.StateSetUpA
		e.paintSetUp()
	}
}

// setupKey routes one keystroke through the SET-UP key table: digits
// 2-0 drive tab stops, online, page switch, toggling, speed/column
// cycling and the reserved key; Up/Down adjust brightness; Left/Right
// move the cursor or, with Shift, swap the selected modem/printer side;
// Shift+letters drive the answerback editor, selector cycling, profile
// load/save and restoring defaults; T resets the tab stops. Every key
// except Shift+A (which hands over to the answerback editor) repaints the
// page and restores the cursor to the newly selected item.
func (e *Emulator) setupKey(key keyboard.Key, mods keyboard.Modifiers) {
	shift := mods&keyboard.Shift != 0
	switch key {
	case keyboard.Digit2:
		if e.Interp.State == vtparse.StateSetUpA {
			e.Screen.SetTabStop(e.Setup.TabCursor)
		}
	case keyboard.Digit3:
		if e.Interp.State == vtparse.StateSetUpA {
			e.Screen.ClearTabStop(e.Setup.TabCursor)
		}
	case keyboard.Digit4:
		e.Setup.Model.Online = !e.Setup.Model.Online
	case keyboard.Digit5:
		e.switchSetUpPage()
	case keyboard.Digit6:
		if e.Interp.State == vtparse.StateSetUpB {
			e.Setup.Toggle()
		}
	case keyboard.Digit7:
		e.Setup.CycleSpeed(false)
	case keyboard.Digit8:
		e.Setup.CycleSpeed(true)
	case keyboard.Digit9:
		e.toggleDECCOLM()
	case keyboard.Digit0:
		// reserved; no function assigned on this emulator
	case keyboard.Up:
		e.Setup.AdjustBrightness(0.1)
	case keyboard.Down:
		e.Setup.AdjustBrightness(-0.1)
	case keyboard.Left:
		if shift {
			e.Setup.ModemSide = !e.Setup.ModemSide
		} else {
			e.setupMove(-1)
		}
	case keyboard.Right:
		if shift {
			e.Setup.ModemSide = !e.Setup.ModemSide
		} else {
			e.setupMove(1)
		}
	case keyboard.A:
		if shift {
			e.enterCreateAnswerback()
			return
		}
	case keyboard.C:
		if shift {
			e.Setup.CycleParity()
		}
	case keyboard.M:
		if shift {
			e.Setup.CycleModemControl()
		}
	case keyboard.P:
		if shift {
			e.Setup.CyclePrinterParity()
		}
	case keyboard.D:
		if shift {
			e.Setup.RestoreDefaults()
		}
	case keyboard.R:
		if shift && e.Setup.Profile != nil {
			e.Setup.Profile.Restore(e.Setup.Model)
		}
	case keyboard.S:
		if shift {
			if e.Setup.Profile != nil {
				if stale, err := e.Setup.Profile.Stale(e.Setup.Model); err == nil && !stale {
					break // saved profile already matches; skip the redundant save
				}
			}
			if p, err := setup.Snapshot(e.Setup.Model); err == nil {
				e.Setup.Profile = p
			}
		}
	case keyboard.T:
		e.Screen.ResetTabStops()
	}
	e.paintSetUp()
}

// setupMove moves whichever cursor the current page exposes: the tab
// ruler on page A, the toggle grid on page B.
func (e *Emulator) setupMove(delta int) {
	if e.Interp.State == vtparse.StateSetUpA {
		n := e.Screen.Cols
		e.Setup.TabCursor = ((e.Setup.TabCursor+delta)%n + n) % n
		return
	}
	e.Setup.Move(delta)
}

func (e *Emulator) switchSetUpPage() {
	if e.Interp.State == vtparse.StateSetUpA {
		e.Interp.State = vtparse.StateSetUpB
	} else {
		e.Interp.State = vtparse.StateSetUpA
	}
}

// toggleDECCOLM flips the display between 80 and 132 columns (the
// SET-UP '9' key), the same operation DECCOLM performs from the host.
func (e *Emulator) toggleDECCOLM() {
	cols := 80
	if e.Screen.Cols == 80 {
		cols = 132
	}
	e.Screen.SetColumns(cols, e.Interp.G[0])
	e.Modes.Set(core.DECCOLM, cols == 132)
}

func (e *Emulator) paintSetUp() {
	pageB := e.Interp.State == vtparse.StateSetUpB
	e.Setup.Paint(e.Screen, pageB)
	x, y := e.Setup.CursorPos(pageB)
	e.Screen.Cursor.X, e.Screen.Cursor.Y = x, y
}

// enterCreateAnswerback begins the answerback message editor (Shift+A):
// the next keystroke sets the delimiter, and every keystroke after that
// appends to the answerback buffer until the delimiter repeats.
func (e *Emulator) enterCreateAnswerback() {
	e.Interp.State = vtparse.StateCreateAnswerback
	e.awaitingDelimiter = true
	e.Interp.Answerback = ""
}

// createAnswerbackKey handles one keystroke of the answerback editor,
// echoing accepted characters onto the screen through Put.
func (e *Emulator) createAnswerbackKey(key keyboard.Key, mods keyboard.Modifiers) {
	b := keyboard.Translate(e.Modes, e.Flow, key, mods, false)
	if len(b) == 0 {
		return
	}
	ch := b[0]
	if e.awaitingDelimiter {
		e.Setup.Model.Delimiter = ch
		e.awaitingDelimiter = false
		return
	}
	if ch == e.Setup.Model.Delimiter || len(e.Interp.Answerback) >= 20 {
		e.Interp.State = vtparse.StateSetUpB
		e.paintSetUp()
		return
	}
	e.Interp.Answerback += string(ch)
	e.Screen.Put(ch, e.Interp.G[0], screen.Attrs{}, false, false, e.Interp.G[0])
}

// InSetUp reports whether the emulator is currently displaying SET-UP
// rather than the host screen.
func (e *Emulator) InSetUp() bool {
	switch e.Interp.State {
	case vtparse.StateSetUpA, vtparse.StateSetUpB, vtparse.StateCreateAnswerback:
		return true
	}
	return false
}

// Reset restores the screen, mode registers, and interpreter to the
// power-on default configuration. Unlike the RIS control sequence
// (which this emulator reports as not implemented, matching the
// original), this is a host-driven action, not something a byte stream
// can trigger.
func (e *Emulator) Reset() {
	answerback := e.Interp.Answerback
	log := e.Log
	*e = *New(Options{Answerback: answerback, Logger: log})
}

// Clone returns an independent deep copy of the emulator, including its
// screen contents, mode registers, and any in-flight DECSC snapshot.
func (e *Emulator) Clone() *Emulator {
	scr := *e.Screen
	modes := e.Modes.Clone()
	flow := outbuf.New()
	flow.SetXON(e.Flow.XON())

	model := *e.Setup.Model
	interp := e.Interp.Clone(&scr, modes, flow, &model.AutoXONXOFF)

	setupSession := setup.NewSession(&model, modes)
	setupSession.Cursor = e.Setup.Cursor
	setupSession.TabCursor = e.Setup.TabCursor
	setupSession.ModemSide = e.Setup.ModemSide
	setupSession.Profile = e.Setup.Profile

	return &Emulator{
		Screen: &scr,
		Modes:  modes,
		Flow:   flow,
		Interp: interp,
		Setup:  setupSession,
		Log:    e.Log,

		savedLines:        e.savedLines,
		savedCursor:       e.savedCursor,
		awaitingDelimiter: e.awaitingDelimiter,
	}
}

// Rows is the fixed VT102 screen height.
func (e *Emulator) Rows() int { return screen.Rows }

// Cols is the current display width (80 or 132, DECCOLM).
func (e *Emulator) Cols() int { return e.Screen.Cols }

// CursorPos returns the cursor's current column and row.
func (e *Emulator) CursorPos() (x, y int) {
	return e.Screen.Cursor.X, e.Screen.Cursor.Y
}

// Cell returns the cell at (x, y), bounds-checked against the current
// display width.
func (e *Emulator) Cell(x, y int) (screen.Cell, error) {
	return e.Screen.At(x, y)
}

// LineAttr reports row y's double-height/double-width attribute.
func (e *Emulator) LineAttr(y int) screen.LineAttr {
	return e.Screen.Lines[y].Attr
}

// BlockCursor reports whether SET-UP is configured to render a block
// cursor (true) or an underline cursor (false).
func (e *Emulator) BlockCursor() bool {
	return e.Setup.Model.BlockCursor
}

// ReverseVideo reports whether DECSCNM (screen background) is set,
// asking the renderer to swap the default foreground/background.
func (e *Emulator) ReverseVideo() bool {
	return e.Modes.Get(core.DECSCNM)
}

// Brightness is the SET-UP display intensity, from 0 to 1.
func (e *Emulator) Brightness() float64 {
	return e.Setup.Model.Brightness
}
