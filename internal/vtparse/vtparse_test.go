package vtparse_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tlast/vt102/internal/charset"
	"github.com/tlast/vt102/internal/core"
	"github.com/tlast/vt102/internal/outbuf"
	"github.com/tlast/vt102/internal/screen"
	"github.com/tlast/vt102/internal/vtparse"
	"github.com/tlast/vt102/logger"
)

func newInterp(t *testing.T) (*vtparse.Interpreter, *screen.Screen, *core.State) {
	t.Helper()
	scr := screen.New()
	modes := core.NewState(nil)
	flow := outbuf.New()
	log := logger.New(logger.Options{Buffer: io.Discard})
	return vtparse.New(scr, modes, flow, "", nil, log), scr, modes
}

// feed runs every byte of s through in, returning the last error any
// byte produced (CSI/escape sequences only ever error on their final
// byte, so this is unambiguous for the sequences these tests feed).
func feed(t *testing.T, in *vtparse.Interpreter, s string) error {
	t.Helper()
	var last error
	for i := 0; i < len(s); i++ {
		if err := in.Feed(s[i]); err != nil {
			last = err
		}
	}
	return last
}

func TestCUUClampsAtRegionTop(t *testing.T) {
	in, scr, _ := newInterp(t)
	require.NoError(t, feed(t, in, "\x1b[10;5H")) // row 10, col 5
	require.NoError(t, feed(t, in, "\x1b[100A"))  // far more than available

	assert.Equal(t, scr.Region.Top, scr.Cursor.Y)
	assert.Equal(t, 4, scr.Cursor.X)
}

func TestCUDClampsAtRegionBottom(t *testing.T) {
	in, scr, _ := newInterp(t)
	require.NoError(t, feed(t, in, "\x1b[20;1H"))
	require.NoError(t, feed(t, in, "\x1b[100B"))

	assert.Equal(t, scr.Region.Bottom, scr.Cursor.Y)
}

func TestCUFClampsAtLastColumn(t *testing.T) {
	in, scr, _ := newInterp(t)
	require.NoError(t, feed(t, in, "\x1b[1;1H"))
	require.NoError(t, feed(t, in, "\x1b[999C"))

	assert.Equal(t, scr.Cols-1, scr.Cursor.X)
}

func TestCUBClampsAtFirstColumn(t *testing.T) {
	in, scr, _ := newInterp(t)
	require.NoError(t, feed(t, in, "\x1b[1;10H"))
	require.NoError(t, feed(t, in, "\x1b[999D"))

	assert.Equal(t, 0, scr.Cursor.X)
}

func TestCUPClampsOutOfRangeRowAndColumn(t *testing.T) {
	in, scr, _ := newInterp(t)
	require.NoError(t, feed(t, in, "\x1b[999;999H"))

	assert.Equal(t, screen.Rows-1, scr.Cursor.Y)
	assert.Equal(t, scr.Cols-1, scr.Cursor.X)
}

func TestHVPIsCUPAlias(t *testing.T) {
	in, scr, _ := newInterp(t)
	require.NoError(t, feed(t, in, "\x1b[3;4f"))

	assert.Equal(t, 2, scr.Cursor.Y)
	assert.Equal(t, 3, scr.Cursor.X)
}

func TestCUPUnderDECOMIsRelativeToScrollingRegion(t *testing.T) {
	in, scr, modes := newInterp(t)
	require.NoError(t, feed(t, in, "\x1b[5;20r")) // region rows 5..20 (1-based)
	modes.Set(core.DECOM, true)

	require.NoError(t, feed(t, in, "\x1b[1;1H"))
	assert.Equal(t, scr.Region.Top, scr.Cursor.Y)

	// a row past the bottom of the region clamps to the region, not the
	// full screen.
	require.NoError(t, feed(t, in, "\x1b[999;1H"))
	assert.Equal(t, scr.Region.Bottom, scr.Cursor.Y)
}

func TestTBCClearsSingleStopThenAllStops(t *testing.T) {
	in, scr, _ := newInterp(t)
	require.NoError(t, feed(t, in, "\x1b[1;9H")) // column 8 (0-based), a default tab stop
	require.True(t, scr.TabStops[8])

	require.NoError(t, feed(t, in, "\x1b[0g")) // TBC mode 0: clear stop at cursor
	assert.False(t, scr.TabStops[8])
	assert.True(t, scr.TabStops[16])

	require.NoError(t, feed(t, in, "\x1b[3g")) // TBC mode 3: clear every stop
	assert.False(t, scr.TabStops[16])
}

func TestDECSTBMRejectsTopNotLessThanBottom(t *testing.T) {
	in, scr, _ := newInterp(t)
	wantTop, wantBottom := scr.Region.Top, scr.Region.Bottom

	err := feed(t, in, "\x1b[10;10r") // top == bottom
	require.Error(t, err)
	assert.Equal(t, wantTop, scr.Region.Top)
	assert.Equal(t, wantBottom, scr.Region.Bottom)

	err = feed(t, in, "\x1b[15;5r") // top > bottom
	require.Error(t, err)
	assert.Equal(t, wantTop, scr.Region.Top)
	assert.Equal(t, wantBottom, scr.Region.Bottom)
}

func TestDECSTBMAcceptsValidRegionAndHomesCursor(t *testing.T) {
	in, scr, _ := newInterp(t)
	require.NoError(t, feed(t, in, "\x1b[5;20H")) // move away from home first
	require.NoError(t, feed(t, in, "\x1b[3;10r"))

	assert.Equal(t, 2, scr.Region.Top)
	assert.Equal(t, 9, scr.Region.Bottom)
	assert.Equal(t, 0, scr.Cursor.X)
	assert.Equal(t, 0, scr.Cursor.Y)
}

func TestINDScrollsOnlyAtRegionBottom(t *testing.T) {
	in, scr, _ := newInterp(t)
	require.NoError(t, feed(t, in, "A"))
	require.NoError(t, feed(t, in, "\x1b[1;1H"))
	require.NoError(t, feed(t, in, "\x1bD")) // IND, not at bottom: just moves down

	assert.Equal(t, 1, scr.Cursor.Y)
	c, err := scr.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, byte('A'), c.Ch)

	require.NoError(t, feed(t, in, "\x1b[24;1H")) // last row
	require.NoError(t, feed(t, in, "\x1bD"))      // IND at bottom: scrolls

	c, err = scr.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, byte(' '), c.Ch) // row 0 scrolled off
}

func TestRIScrollsOnlyAtRegionTop(t *testing.T) {
	in, scr, _ := newInterp(t)
	require.NoError(t, feed(t, in, "\x1b[1;1HA"))
	require.NoError(t, feed(t, in, "\x1b[1;1H"))
	require.NoError(t, feed(t, in, "\x1bM")) // RI at the top: scrolls down

	c, err := scr.At(0, 1)
	require.NoError(t, err)
	assert.Equal(t, byte('A'), c.Ch) // the old row 0 is now row 1
}

func TestNELMovesToColumnZeroOfNextLine(t *testing.T) {
	in, scr, _ := newInterp(t)
	require.NoError(t, feed(t, in, "\x1b[5;10H"))
	require.NoError(t, feed(t, in, "\x1bE"))

	assert.Equal(t, 0, scr.Cursor.X)
	assert.Equal(t, 5, scr.Cursor.Y)
}

func TestDECSCDECRCRoundTripsCursorAttrsCharsetAndDECOM(t *testing.T) {
	in, scr, modes := newInterp(t)
	require.NoError(t, feed(t, in, "\x1b[10;15H")) // position
	require.NoError(t, feed(t, in, "\x1b[1m"))     // bold
	require.NoError(t, feed(t, in, "\x1b(0"))      // G0 = special graphics
	modes.Set(core.DECOM, true)

	require.NoError(t, feed(t, in, "\x1b7")) // DECSC

	// disturb everything DECSC captured, without re-designating G0 itself
	// (DECRC restores which designator was current, not the designators).
	require.NoError(t, feed(t, in, "\x1b[1;1H"))
	require.NoError(t, feed(t, in, "\x1b[0m"))
	require.NoError(t, feed(t, in, "\x0E")) // SO: switch to G1
	modes.Set(core.DECOM, false)

	require.NoError(t, feed(t, in, "\x1b8")) // DECRC

	assert.Equal(t, 14, scr.Cursor.X)
	assert.Equal(t, 9, scr.Cursor.Y)
	assert.True(t, modes.Get(core.DECOM))

	require.NoError(t, feed(t, in, "X"))
	c, err := scr.At(14, 9)
	require.NoError(t, err)
	assert.True(t, c.Attrs.Bold)
	assert.Equal(t, charset.Special, c.Charset)
}

func TestDECRCWithNoPriorDECSCHomesCursor(t *testing.T) {
	in, scr, _ := newInterp(t)
	require.NoError(t, feed(t, in, "\x1b[12;12H"))
	require.NoError(t, feed(t, in, "\x1b8"))

	assert.Equal(t, 0, scr.Cursor.X)
	assert.Equal(t, 0, scr.Cursor.Y)
}

func TestDECDHLSetsLineAttrPerRow(t *testing.T) {
	in, scr, _ := newInterp(t)
	require.NoError(t, feed(t, in, "\x1b[5;1H"))
	require.NoError(t, feed(t, in, "\x1b#3")) // double-height upper

	assert.Equal(t, screen.DoubleHeightUpper, scr.Lines[4].Attr)

	require.NoError(t, feed(t, in, "\x1b#4")) // double-height lower
	assert.Equal(t, screen.DoubleHeightLower, scr.Lines[4].Attr)

	require.NoError(t, feed(t, in, "\x1b#6")) // double-width
	assert.Equal(t, screen.DoubleWidth, scr.Lines[4].Attr)

	require.NoError(t, feed(t, in, "\x1b#5")) // back to single-width
	assert.Equal(t, screen.Normal, scr.Lines[4].Attr)
}

func TestDECALNFillsScreenWithEAndHomesCursorToLastCell(t *testing.T) {
	in, scr, _ := newInterp(t)
	require.NoError(t, feed(t, in, "\x1b#8"))

	for y := 0; y < screen.Rows; y++ {
		for x := 0; x < scr.Cols; x++ {
			c, err := scr.At(x, y)
			require.NoError(t, err)
			assert.Equal(t, byte('E'), c.Ch)
		}
	}
	assert.Equal(t, scr.Cols-1, scr.Cursor.X)
	assert.Equal(t, screen.Rows-1, scr.Cursor.Y)
}

func TestSGRResetIsIdempotent(t *testing.T) {
	in, scr, _ := newInterp(t)
	require.NoError(t, feed(t, in, "\x1b[1;4;5;7m")) // bold, underline, blink, reverse
	require.NoError(t, feed(t, in, "\x1b[0m"))
	require.NoError(t, feed(t, in, "A"))
	c1, err := scr.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, screen.Attrs{}, c1.Attrs)

	require.NoError(t, feed(t, in, "\x1b[0m")) // applying it again changes nothing
	require.NoError(t, feed(t, in, "B"))
	c2, err := scr.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, screen.Attrs{}, c2.Attrs)
}

func TestEraseInDisplayCompleteIsIdempotent(t *testing.T) {
	in, scr, _ := newInterp(t)
	require.NoError(t, feed(t, in, "hello world"))
	require.NoError(t, feed(t, in, "\x1b[2J"))

	first := *scr
	require.NoError(t, feed(t, in, "\x1b[2J")) // a second full erase changes nothing further
	assert.Equal(t, first.Lines, scr.Lines)
	assert.Equal(t, first.Cursor, scr.Cursor)
}

func TestUndefinedEscapeReturnsError(t *testing.T) {
	in, _, _ := newInterp(t)
	err := feed(t, in, "\x1bp") // no such ESC sequence
	assert.Error(t, err)
}

func TestUndefinedCSIFinalReturnsError(t *testing.T) {
	in, _, _ := newInterp(t)
	err := feed(t, in, "\x1b[1z") // 'z' is not a defined final byte
	assert.Error(t, err)
}
