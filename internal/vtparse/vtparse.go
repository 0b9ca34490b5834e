// Package vtparse implements the VT102 byte interpreter: the state
// machine that turns a host byte stream into screen mutations, mode
// changes, and host-bound replies (DA, DSR, ENQ answerback).
package vtparse

import (
	"fmt"

	"github.com/tlast/vt102/internal/charset"
	"github.com/tlast/vt102/internal/core"
	"github.com/tlast/vt102/internal/csi"
	"github.com/tlast/vt102/internal/errs"
	"github.com/tlast/vt102/internal/outbuf"
	"github.com/tlast/vt102/internal/screen"
	"github.com/tlast/vt102/logger"
	"github.com/tlast/vt102/terminal/ansi"
)

// State is a position in the byte interpreter's state machine. SetUpA,
// SetUpB and CreateAnswerback are entered and driven by the Emulator's
// SET-UP key handling (package vt102), not by Feed; they are named here because
// they share the same State type the rest of the interpreter uses.
type State int

const (
	StateNormal State = iota
	StateEscape
	StateCtrlSeq
	StatePound
	StateG0Select
	StateG1Select
	StateSetUpA
	StateSetUpB
	StateCreateAnswerback
)

// SavedCursor is the DECSC snapshot DECRC restores from. It bundles
// cursor position (screen state) with the character-attribute and
// charset-selection state the interpreter itself owns.
type SavedCursor struct {
	X, Y         int
	Attrs        screen.Attrs
	CharsetIndex int
	DECOM        bool
}

// Interpreter is the byte-stream state machine. It owns the active
// character-set designators, the in-progress SGR attribute set, and any
// DECSC snapshot, and drives a Screen and a core.State through every
// operation a VT102 byte stream can request.
type Interpreter struct {
	Screen *screen.Screen
	Modes  *core.State
	Flow   *outbuf.Buffer
	Log    logger.Logger

	// G holds the four graphic set designators (G0-G3); Current selects
	// G0 or G1 for GL (SO/SI); Shift holds 2 or 3 to consume G2/G3 for
	// exactly the next printed character (SS2/SS3), or -1 when idle.
	G       [4]charset.Set
	Current int
	Shift   int

	Attrs      screen.Attrs
	State      State
	Answerback string

	cmd   *csi.Sequence
	saved *SavedCursor

	// AutoXONXOFF points at the SET-UP Model's auto_XON_XOFF flag; DC1/DC3
	// only move the flow-control gate while it is true. Nil is treated as
	// true (gate always responds), matching the reset default.
	AutoXONXOFF *bool
}

// New builds an interpreter over an already-constructed screen and mode
// state, in the VT102 reset configuration (G0/G2 = US, G1/G3 = UK,
// current set G0, no pending single shift).
func New(scr *screen.Screen, modes *core.State, flow *outbuf.Buffer, answerback string, autoXONXOFF *bool, log logger.Logger) *Interpreter {
	return &Interpreter{
		Screen:      scr,
		Modes:       modes,
		Flow:        flow,
		Log:         log,
		G:           [4]charset.Set{charset.UnitedStates, charset.UnitedKingdom, charset.UnitedStates, charset.UnitedKingdom},
		Current:     0,
		Shift:       -1,
		State:       StateNormal,
		Answerback:  answerback,
		AutoXONXOFF: autoXONXOFF,
	}
}

// Clone returns an independent copy of the interpreter's own state
// (charset designators, SGR attributes, parser state, any in-flight CSI
// and DECSC snapshot) bound to the given, already-cloned Screen, mode
// state and flow buffer.
func (in *Interpreter) Clone(scr *screen.Screen, modes *core.State, flow *outbuf.Buffer, autoXONXOFF *bool) *Interpreter {
	clone := &Interpreter{
		Screen:      scr,
		Modes:       modes,
		Flow:        flow,
		Log:         in.Log,
		G:           in.G,
		Current:     in.Current,
		Shift:       in.Shift,
		Attrs:       in.Attrs,
		State:       in.State,
		Answerback:  in.Answerback,
		AutoXONXOFF: autoXONXOFF,
	}
	if in.cmd != nil {
		c := *in.cmd
		c.Params = append([]string(nil), in.cmd.Params...)
		clone.cmd = &c
	}
	if in.saved != nil {
		s := *in.saved
		clone.saved = &s
	}
	return clone
}

func (in *Interpreter) g0() charset.Set {
	return in.G[0]
}

func (in *Interpreter) currentCharset() charset.Set {
	return in.G[in.Current]
}

// resolveCharset returns the charset the next printed character should
// use, consuming a pending single shift if one is active.
func (in *Interpreter) resolveCharset() charset.Set {
	switch in.Shift {
	case 2:
		in.Shift = -1
		return in.G[2]
	case 3:
		in.Shift = -1
		return in.G[3]
	default:
		return in.currentCharset()
	}
}

func (in *Interpreter) decawm() bool { return in.Modes.Get(core.DECAWM) }
func (in *Interpreter) irm() bool    { return in.Modes.Get(core.IRM) }

// Feed interprets one byte. It returns a non-nil *errs.Error for a
// recoverable failure (an undefined sequence, a disallowed parameter
// count, an unimplemented feature); the interpreter has already reset
// to StateNormal by the time it returns one.
func (in *Interpreter) Feed(c byte) error {
	if c < 0x20 || c == ansi.C0.DEL {
		in.Log.Trace("control byte", "byte", ansi.String(c), "state", in.State)
		return in.controlChar(c)
	}
	switch in.State {
	case StateNormal:
		return in.put(c)
	case StateEscape:
		return in.escape(c)
	case StateCtrlSeq:
		return in.ctrlSeqByte(c)
	case StatePound, StateG0Select, StateG1Select:
		return in.charsetSelect(c)
	default:
		// SET-UP states: bytes are not interpreted here while SET-UP owns
		// the display.
		return nil
	}
}

func (in *Interpreter) put(c byte) error {
	cs := in.resolveCharset()
	in.Screen.Put(c, cs, in.Attrs, in.decawm(), in.irm(), in.g0())
	return nil
}

func (in *Interpreter) controlChar(c byte) error {
	switch c {
	case ansi.C0.NUL:
		// ignored
	case ansi.C0.ETX, ansi.C0.EOT:
		if in.State <= StateG1Select {
			in.State = StateNormal
			in.cmd = nil
		}
		return errs.New(errs.NotImplemented, "control character 0x%02X", c)
	case ansi.C0.ENQ:
		in.Flow.Append([]byte(in.Answerback))
	case ansi.C0.BEL:
		// audible/visual bell is a render-time concern; nothing to do here
	case ansi.C0.BS:
		if in.Screen.Cursor.X > 0 {
			in.Screen.Cursor.X--
		}
	case ansi.C0.HT:
		in.Screen.Cursor.X = in.Screen.NextTabStop(in.Screen.Cursor.X)
	case ansi.C0.LF, ansi.C0.VT, ansi.C0.FF:
		if in.Modes.Get(core.LNM) {
			in.Screen.MoveCurs(0, in.Screen.Cursor.Y+1, in.decawm(), in.g0())
		} else {
			in.Screen.MoveCurs(in.Screen.Cursor.X, in.Screen.Cursor.Y+1, in.decawm(), in.g0())
		}
	case ansi.C0.CR:
		in.Screen.Cursor.X = 0
	case ansi.C0.SO:
		in.Current = 1
	case ansi.C0.SI:
		in.Current = 0
	case ansi.C0.DC1:
		if in.AutoXONXOFF == nil || *in.AutoXONXOFF {
			in.Flow.SetXON(true)
		}
	case ansi.C0.DC3:
		if in.AutoXONXOFF == nil || *in.AutoXONXOFF {
			in.Flow.SetXON(false)
		}
	case ansi.C0.CAN, ansi.C0.SUB:
		if in.State == StateEscape || in.State == StateCtrlSeq {
			in.State = StateNormal
			in.cmd = nil
			return in.put(0x1A)
		}
	case ansi.C0.ESC:
		in.State = StateEscape
	case ansi.C0.DEL:
		// ignored
	}
	return nil
}

func (in *Interpreter) escape(c byte) error {
	in.State = StateNormal
	switch c {
	case 'c': // RIS
		return errs.New(errs.NotImplemented, "RIS")
	case 'D': // IND
		in.Screen.Cursor.Y++
		if in.Screen.Cursor.Y > in.Screen.Region.Bottom {
			in.Screen.Scroll(-1, in.Screen.Region, in.g0())
		}
	case 'E': // NEL
		in.Screen.Cursor.X = 0
		in.Screen.Cursor.Y++
		if in.Screen.Cursor.Y > in.Screen.Region.Bottom {
			in.Screen.Scroll(-1, in.Screen.Region, in.g0())
		}
	case 'H': // HTS
		in.Screen.SetTabStop(in.Screen.Cursor.X)
	case 'M': // RI
		in.Screen.Cursor.Y--
		if in.Screen.Cursor.Y < in.Screen.Region.Top {
			in.Screen.Scroll(1, in.Screen.Region, in.g0())
		}
	case 'N': // SS2
		in.Shift = 2
	case 'Z': // DECID
		in.Flow.Append([]byte("\x1b[?6c"))
	case '0': // SS3 -- note: distinct from the G0Select '0' sub-byte, this
		// '0' only applies directly after ESC.
		in.Shift = 3
	case '7': // DECSC
		idx := in.Current
		if in.Shift != -1 {
			idx = in.Shift
		}
		in.saved = &SavedCursor{
			X:            in.Screen.Cursor.X,
			Y:            in.Screen.Cursor.Y,
			Attrs:        in.Attrs,
			CharsetIndex: idx,
			DECOM:        in.Modes.Get(core.DECOM),
		}
	case '8': // DECRC
		if in.saved == nil {
			in.Screen.Cursor.X, in.Screen.Cursor.Y = 0, 0
		} else {
			in.Screen.Cursor.X, in.Screen.Cursor.Y = in.saved.X, in.saved.Y
			in.Modes.Set(core.DECOM, in.saved.DECOM)
			in.Attrs = in.saved.Attrs
			in.Current = in.saved.CharsetIndex
		}
	case '[': // CSI
		in.cmd = csi.New()
		in.State = StateCtrlSeq
	case '#':
		in.State = StatePound
	case '(':
		in.State = StateG0Select
	case ')':
		in.State = StateG1Select
	case '>': // DECKPNM
		in.Modes.Keypad = core.KeypadNumeric
	case '=': // DECKPAM
		in.Modes.Keypad = core.KeypadApplication
	default:
		return errs.New(errs.UndefinedEscape, "ESC 0x%02X", c)
	}
	return nil
}

func (in *Interpreter) charsetSelect(c byte) error {
	state := in.State
	in.State = StateNormal
	switch state {
	case StatePound:
		switch c {
		case '3':
			in.Screen.Lines[in.Screen.Cursor.Y].Attr = screen.DoubleHeightUpper
		case '4':
			in.Screen.Lines[in.Screen.Cursor.Y].Attr = screen.DoubleHeightLower
		case '5':
			in.Screen.Lines[in.Screen.Cursor.Y].Attr = screen.Normal
		case '6':
			in.Screen.Lines[in.Screen.Cursor.Y].Attr = screen.DoubleWidth
		case '8': // DECALN
			for y := 0; y < screen.Rows; y++ {
				for x := 0; x < in.Screen.Cols; x++ {
					in.Screen.SetCell(x, y, 'E', in.g0(), screen.Attrs{})
				}
			}
			in.Screen.Cursor.X, in.Screen.Cursor.Y = in.Screen.Cols-1, screen.Rows-1
		default:
			return errs.New(errs.UndefinedEscape, "ESC # 0x%02X", c)
		}
	case StateG0Select, StateG1Select:
		idx := 0
		if state == StateG1Select {
			idx = 1
		}
		var cs charset.Set
		switch c {
		case 'A':
			cs = charset.UnitedKingdom
		case 'B':
			cs = charset.UnitedStates
		case '0':
			cs = charset.Special
		case '1':
			cs = charset.AltROM
		case '2':
			cs = charset.AltROMSpecial
		default:
			return errs.New(errs.UndefinedEscape, "charset select 0x%02X", c)
		}
		in.G[idx] = cs
	}
	return nil
}

func (in *Interpreter) ctrlSeqByte(c byte) error {
	switch {
	case c >= 0x20 && c <= 0x2F:
		in.cmd.AddIntermediate(c)
		return nil
	case c >= 0x30 && c <= 0x3F:
		in.cmd.AddParamByte(c)
		return nil
	case c >= 0x40 && c <= 0x7E:
		cmd := in.cmd
		cmd.Final = c
		in.cmd = nil
		in.State = StateNormal
		return in.dispatchFinal(cmd)
	default:
		return nil
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (in *Interpreter) dispatchFinal(cmd *csi.Sequence) error {
	if cmd.Intermediate != "" {
		return errs.New(errs.UndefinedSequence, "intermediate bytes before final 0x%02X", cmd.Final)
	}

	s := in.Screen
	switch cmd.Final {
	case 'A': // CUU
		delta := clamp(cmd.IntParam(0, 1), 0, s.Cursor.Y-s.Region.Top)
		s.MoveCurs(s.Cursor.X, s.Cursor.Y-delta, in.decawm(), in.g0())
	case 'B': // CUD
		delta := clamp(cmd.IntParam(0, 1), 0, s.Region.Bottom-s.Cursor.Y)
		s.MoveCurs(s.Cursor.X, s.Cursor.Y+delta, in.decawm(), in.g0())
	case 'C': // CUF
		delta := clamp(cmd.IntParam(0, 1), 0, s.Cols-1-s.Cursor.X)
		s.MoveCurs(s.Cursor.X+delta, s.Cursor.Y, in.decawm(), in.g0())
	case 'D': // CUB
		delta := clamp(cmd.IntParam(0, 1), 0, s.Cursor.X)
		s.MoveCurs(s.Cursor.X-delta, s.Cursor.Y, in.decawm(), in.g0())
	case 'H', 'f': // CUP, HVP
		row := cmd.IntParam(0, 1) - 1
		col := cmd.IntParam(1, 1) - 1
		if row < 0 {
			row = 0
		}
		if col < 0 {
			col = 0
		}
		if in.Modes.Get(core.DECOM) {
			s.Cursor.Y = clamp(s.Region.Top+row, s.Region.Top, s.Region.Bottom)
		} else {
			s.Cursor.Y = clamp(row, 0, screen.Rows-1)
		}
		s.Cursor.X = clamp(col, 0, s.Cols-1)
	case 'J': // ED
		mode := csi.EDComplete
		switch cmd.IntParam(0, 0) {
		case 0:
			mode = csi.EDBelow
		case 1:
			mode = csi.EDAbove
		case 2:
			mode = csi.EDComplete
		}
		s.EraseInDisplay(mode, in.g0())
	case 'K': // EL
		mode := csi.ELAll
		switch cmd.IntParam(0, 0) {
		case 0:
			mode = csi.ELRight
		case 1:
			mode = csi.ELLeft
		case 2:
			mode = csi.ELAll
		}
		s.EraseInLine(mode, in.g0())
	case 'L': // IL
		rep := cmd.IntParam(0, 1)
		if rep < 1 {
			rep = 1
		}
		if s.Cursor.Y >= s.Region.Top && s.Cursor.Y <= s.Region.Bottom {
			for i := 0; i < rep; i++ {
				s.InsLine(s.Cursor.Y, in.g0())
			}
		}
	case 'M': // DL
		rep := cmd.IntParam(0, 1)
		if rep < 1 {
			rep = 1
		}
		if s.Cursor.Y >= s.Region.Top && s.Cursor.Y <= s.Region.Bottom {
			for i := 0; i < rep; i++ {
				s.DelLine(s.Cursor.Y, in.currentCharset())
			}
		}
	case 'P': // DCH
		rep := cmd.IntParam(0, 1)
		if rep < 1 {
			rep = 1
		}
		for i := 0; i < rep; i++ {
			_ = s.DelChar(s.Cursor.X, s.Cursor.Y, in.currentCharset())
		}
	case 'c': // DA
		in.Flow.Append([]byte("\x1b[?6c"))
	case 'g': // TBC
		switch cmd.IntParam(0, 0) {
		case 0:
			s.ClearTabStop(s.Cursor.X)
		case 3:
			s.ClearAllTabStops()
		}
	case 'h', 'l': // SM, RM
		return in.setMode(cmd, cmd.Final == 'h')
	case 'i': // MC
		// printer control has no host-visible effect in this emulator
	case 'm': // SGR
		in.sgr(cmd)
	case 'n': // DSR
		return in.dsr(cmd)
	case 'q': // DECLL
		if len(cmd.Params) > 1 {
			return errs.New(errs.BadParameterCount, "DECLL takes at most one parameter")
		}
		code := cmd.IntParam(0, 0)
		if code != 0 && code != 1 {
			return errs.New(errs.UndefinedSequence, "DECLL code %d", code)
		}
		// LED indicators are not modeled; accepted as a no-op.
	case 'r': // DECSTBM
		return in.decstbm(cmd)
	case 'y': // DECTST
		return errs.New(errs.NotImplemented, "DECTST")
	default:
		return errs.New(errs.UndefinedSequence, "final byte 0x%02X", cmd.Final)
	}
	return nil
}

func (in *Interpreter) setMode(cmd *csi.Sequence, setting bool) error {
	s := in.Screen
	if cmd.Private() {
		code := cmd.IntParam(1, 0)
		switch code {
		case 1: // DECCKM
			if in.Modes.Keypad == core.KeypadApplication {
				in.Modes.Set(core.DECCKM, setting)
			} else {
				in.Modes.Set(core.DECCKM, false)
			}
		case 2: // DECANM
			if !setting {
				return errs.New(errs.NotImplemented, "VT52 mode")
			}
			in.Modes.Set(core.DECANM, true)
		case 3: // DECCOLM
			cols := 80
			if setting {
				cols = 132
			}
			s.SetColumns(cols, in.g0())
			in.Modes.Set(core.DECCOLM, setting)
		case 4:
			in.Modes.Set(core.DECSCLM, setting)
		case 5:
			in.Modes.Set(core.DECSCNM, setting)
		case 6: // DECOM
			in.Modes.Set(core.DECOM, setting)
			y := 0
			if setting {
				y = s.Region.Top
			}
			s.MoveCurs(0, y, in.decawm(), in.g0())
		case 7:
			in.Modes.Set(core.DECAWM, setting)
		case 8:
			in.Modes.Set(core.DECARM, setting)
		case 18:
			in.Modes.Set(core.DECPFF, setting)
		case 19:
			in.Modes.Set(core.DECPEX, setting)
		default:
			return errs.New(errs.UndefinedSequence, "DEC private mode %d", code)
		}
		return nil
	}

	code := cmd.IntParam(0, 0)
	switch code {
	case 2:
		in.Modes.Set(core.KAM, setting)
	case 4:
		in.Modes.Set(core.IRM, setting)
	case 12:
		in.Modes.Set(core.SRM, setting)
	case 20:
		in.Modes.Set(core.LNM, setting)
	default:
		return errs.New(errs.UndefinedSequence, "ANSI mode %d", code)
	}
	return nil
}

func (in *Interpreter) sgr(cmd *csi.Sequence) {
	if len(cmd.Params) == 0 {
		in.Attrs = screen.Attrs{}
		return
	}
	for _, p := range cmd.Params {
		switch p {
		case "", "0":
			in.Attrs = screen.Attrs{}
		case "1":
			in.Attrs.Bold = true
		case "4":
			in.Attrs.Underline = true
		case "5":
			in.Attrs.Blink = true
		case "7":
			in.Attrs.Reverse = true
		default:
			// Unrecognized SGR codes are ignored: the spec defines only
			// 0/1/4/5/7 and does not require erroring on anything else.
		}
	}
}

func (in *Interpreter) dsr(cmd *csi.Sequence) error {
	s := in.Screen
	if cmd.Private() {
		if cmd.IntParam(1, 0) != 15 {
			return errs.New(errs.UndefinedSequence, "DSR private code %d", cmd.IntParam(1, 0))
		}
		in.Flow.Append([]byte("\x1b[?13n"))
		return nil
	}
	if len(cmd.Params) != 1 {
		return errs.New(errs.BadParameterCount, "DSR expects exactly one parameter")
	}
	switch cmd.IntParam(0, 0) {
	case 5:
		in.Flow.Append([]byte("\x1b[0n"))
	case 6:
		reply := fmt.Sprintf("\x1b[%d;%dR", s.Region.Top+s.Cursor.Y+1, s.Cursor.X+1)
		in.Flow.Append([]byte(reply))
	default:
		return errs.New(errs.UndefinedSequence, "DSR code %d", cmd.IntParam(0, 0))
	}
	return nil
}

func (in *Interpreter) decstbm(cmd *csi.Sequence) error {
	s := in.Screen
	top := 0
	bottom := screen.Rows - 1
	switch len(cmd.Params) {
	case 0:
		// defaults stand
	case 1:
		top = cmd.IntParam(0, 1) - 1
	default:
		bottom = cmd.IntParam(1, screen.Rows) - 1
		top = cmd.IntParam(0, 1) - 1
	}
	if !(top < bottom && top >= 0 && bottom < screen.Rows) {
		return errs.New(errs.UndefinedSequence, "scrolling region %d..%d", top, bottom)
	}
	s.Region = screen.Region{Top: top, Bottom: bottom}
	y := 0
	if in.Modes.Get(core.DECOM) {
		y = top
	}
	s.MoveCurs(0, y, in.decawm(), in.g0())
	return nil
}
