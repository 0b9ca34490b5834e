package vt102_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vt102 "github.com/tlast/vt102"
	"github.com/tlast/vt102/internal/core"
	"github.com/tlast/vt102/internal/keyboard"
	"github.com/tlast/vt102/internal/setup"
)

func TestWritePrintsCells(t *testing.T) {
	e := vt102.New(vt102.Options{})
	e.Write([]byte("Hello"))

	for i, want := range []byte("Hello") {
		c, err := e.Cell(i, 0)
		require.NoError(t, err)
		assert.Equal(t, want, c.Ch)
	}
	x, y := e.CursorPos()
	assert.Equal(t, 5, x)
	assert.Equal(t, 0, y)
}

func TestEraseDisplayThenCursorPosition(t *testing.T) {
	e := vt102.New(vt102.Options{})
	e.Write([]byte("garbage"))
	e.Write([]byte("\x1b[2J\x1b[5;10HX"))

	c, err := e.Cell(9, 4)
	require.NoError(t, err)
	assert.Equal(t, byte('X'), c.Ch)

	c0, _ := e.Cell(0, 0)
	assert.Equal(t, byte(' '), c0.Ch)
}

func TestENQSendsAnswerback(t *testing.T) {
	e := vt102.New(vt102.Options{Answerback: "ACK"})
	e.Write([]byte{0x05})
	assert.Equal(t, []byte("ACK"), e.Drain())
}

func TestDSRCursorPositionReport(t *testing.T) {
	e := vt102.New(vt102.Options{})
	e.Write([]byte("\x1b[5;10H"))
	e.Write([]byte("\x1b[6n"))
	assert.Equal(t, []byte("\x1b[5;10R"), e.Drain())
}

func TestIRMInsertsRatherThanOverwrites(t *testing.T) {
	e := vt102.New(vt102.Options{})
	e.Write([]byte("ABC"))
	e.Write([]byte("\x1b[4h")) // IRM on
	e.Write([]byte("\x1b[1;1HX"))

	c0, _ := e.Cell(0, 0)
	c1, _ := e.Cell(1, 0)
	c2, _ := e.Cell(2, 0)
	assert.Equal(t, byte('X'), c0.Ch)
	assert.Equal(t, byte('A'), c1.Ch)
	assert.Equal(t, byte('B'), c2.Ch)
}

func TestDECCOLMSwitchResizesAndErases(t *testing.T) {
	e := vt102.New(vt102.Options{})
	e.Write([]byte("hello"))
	e.Write([]byte("\x1b[?3h"))

	assert.Equal(t, 132, e.Cols())
	c, _ := e.Cell(0, 0)
	assert.Equal(t, byte(' '), c.Ch)
}

func TestArrowKeyRespectsDECCKMToggle(t *testing.T) {
	e := vt102.New(vt102.Options{})
	assert.Equal(t, []byte{0x1B, '[', 'A'}, e.KeyboardInput(keyboard.Up, keyboard.None, false))

	// DECCKM only takes effect once the keypad is in Application mode;
	// the numeric keypad's cursor keys always send ANSI cursor sequences.
	e.Write([]byte("\x1b=\x1b[?1h")) // DECKPAM, then DECCKM on
	assert.Equal(t, []byte{0x1B, 'O', 'A'}, e.KeyboardInput(keyboard.Up, keyboard.None, false))
}

func TestKAMLocksSetUpKeyToo(t *testing.T) {
	e := vt102.New(vt102.Options{})
	e.Modes.Set(core.KAM, true)

	e.KeyboardInput(keyboard.SetUp, keyboard.None, false)
	assert.False(t, e.InSetUp())

	e.Modes.Set(core.KAM, false)
	e.KeyboardInput(keyboard.SetUp, keyboard.None, false)
	assert.True(t, e.InSetUp())
}

func TestSetUpKeyEntersAndExitsSetUp(t *testing.T) {
	e := vt102.New(vt102.Options{})
	assert.False(t, e.InSetUp())
	e.KeyboardInput(keyboard.SetUp, keyboard.None, false)
	assert.True(t, e.InSetUp())
	e.KeyboardInput(keyboard.SetUp, keyboard.None, false)
	assert.False(t, e.InSetUp())
}

func TestSetUpDigit6TogglesKeyclick(t *testing.T) {
	e := vt102.New(vt102.Options{})
	e.KeyboardInput(keyboard.SetUp, keyboard.None, false)
	e.KeyboardInput(keyboard.Digit5, keyboard.None, false) // switch to SET-UP B
	e.Setup.Cursor = setup.Cursor{Bank: 0, Column: 1}

	before := e.Setup.Model.Keyclick
	e.KeyboardInput(keyboard.Digit6, keyboard.None, false)
	assert.NotEqual(t, before, e.Setup.Model.Keyclick)
}

func TestSetUpExitRestoresHostDisplay(t *testing.T) {
	e := vt102.New(vt102.Options{})
	e.Write([]byte("hello"))

	e.KeyboardInput(keyboard.SetUp, keyboard.None, false)
	c, _ := e.Cell(0, 0)
	assert.NotEqual(t, byte('h'), c.Ch)

	e.KeyboardInput(keyboard.SetUp, keyboard.None, false)
	c, _ = e.Cell(0, 0)
	assert.Equal(t, byte('h'), c.Ch)
}

func TestSetUpTabStopToggleAndReset(t *testing.T) {
	e := vt102.New(vt102.Options{})
	e.KeyboardInput(keyboard.SetUp, keyboard.None, false) // defaults to SET-UP A, TabCursor 0

	e.KeyboardInput(keyboard.Digit2, keyboard.None, false) // set a stop at column 0
	e.KeyboardInput(keyboard.Right, keyboard.None, false)
	e.KeyboardInput(keyboard.Digit2, keyboard.None, false) // and at column 1

	e.KeyboardInput(keyboard.T, keyboard.None, false) // reset to the default pattern
	e.KeyboardInput(keyboard.SetUp, keyboard.None, false)

	e.Write([]byte("\r\t"))
	x, _ := e.CursorPos()
	assert.Equal(t, 8, x) // default tab stop, not the column-1 stop T just cleared
}

func TestSetUpDECCOLMPersistsAfterExit(t *testing.T) {
	e := vt102.New(vt102.Options{})
	e.KeyboardInput(keyboard.SetUp, keyboard.None, false)
	e.KeyboardInput(keyboard.Digit9, keyboard.None, false) // toggle to 132 columns
	e.KeyboardInput(keyboard.SetUp, keyboard.None, false)

	assert.Equal(t, 132, e.Cols())
}

func TestCreateAnswerbackRoundTrip(t *testing.T) {
	e := vt102.New(vt102.Options{})
	e.KeyboardInput(keyboard.SetUp, keyboard.None, false)
	e.KeyboardInput(keyboard.Digit5, keyboard.None, false) // SET-UP B
	e.KeyboardInput(keyboard.A, keyboard.Shift, false)      // enter CreateAnswerback
	assert.True(t, e.InSetUp())

	e.KeyboardInput(keyboard.Slash, keyboard.None, false) // delimiter
	e.KeyboardInput(keyboard.H, keyboard.None, false)
	e.KeyboardInput(keyboard.I, keyboard.None, false)
	e.KeyboardInput(keyboard.Slash, keyboard.None, false) // repeats the delimiter, exits the editor

	e.KeyboardInput(keyboard.SetUp, keyboard.None, false) // leave SET-UP entirely
	e.Write([]byte{0x05})                          // ENQ
	assert.Equal(t, []byte("hi"), e.Drain())
}

func TestSetUpProfileSaveAndRestore(t *testing.T) {
	e := vt102.New(vt102.Options{})
	e.KeyboardInput(keyboard.SetUp, keyboard.None, false)
	e.KeyboardInput(keyboard.Digit5, keyboard.None, false) // SET-UP B
	e.KeyboardInput(keyboard.S, keyboard.Shift, false)     // save

	e.Setup.Cursor = setup.Cursor{Bank: 0, Column: 1} // keyclick
	e.KeyboardInput(keyboard.Digit6, keyboard.None, false)
	assert.False(t, e.Setup.Model.Keyclick)

	e.KeyboardInput(keyboard.R, keyboard.Shift, false) // restore
	assert.True(t, e.Setup.Model.Keyclick)
}

func TestDrainKeepsOnlyFlowControlBytesWhileXOFF(t *testing.T) {
	e := vt102.New(vt102.Options{Answerback: "ACK"})
	e.Write([]byte{0x13}) // DC3, XOFF
	e.Write([]byte{0x05}) // ENQ would normally reply with the full answerback
	assert.Empty(t, e.Drain())

	e.Write([]byte{0x11}) // DC1, XON reopens the gate
	e.Write([]byte{0x05})
	assert.Equal(t, []byte("ACK"), e.Drain())
}

func TestCloneIsIndependent(t *testing.T) {
	e := vt102.New(vt102.Options{})
	e.Write([]byte("A"))

	clone := e.Clone()
	clone.Write([]byte("B"))

	c0, _ := e.Cell(0, 0)
	c1, _ := e.Cell(1, 0)
	assert.Equal(t, byte('A'), c0.Ch)
	assert.Equal(t, byte(' '), c1.Ch)

	cc1, _ := clone.Cell(1, 0)
	assert.Equal(t, byte('B'), cc1.Ch)
}

func TestResetRestoresDefaults(t *testing.T) {
	e := vt102.New(vt102.Options{})
	e.Write([]byte("\x1b[?3h")) // DECCOLM
	e.Modes.Set(core.DECOM, true)

	e.Reset()

	assert.Equal(t, 80, e.Cols())
	assert.False(t, e.Modes.Get(core.DECOM))
}
