// Package screen implements the VT102 grid: cells, lines, the cursor,
// the scrolling region, tab stops, and every primitive editing operation
// (erase, insert/delete char/line, scroll, cursor movement) the byte
// interpreter drives.
package screen

import (
	"github.com/tlast/vt102/internal/charset"
	"github.com/tlast/vt102/internal/csi"
	"github.com/tlast/vt102/internal/errs"
)

// ColsMax is the number of columns always backing a Line, regardless of
// the current (80 or 132 column) display width, so switching DECCOLM
// does not discard off-screen content.
const ColsMax = 132

// Rows is the fixed VT102 screen height.
const Rows = 24

// Attrs is the set of SGR character attributes VT102 supports.
type Attrs struct {
	Bold      bool
	Underline bool
	Blink     bool
	Reverse   bool
}

// LineAttr selects a line's double-height/double-width rendering, set by
// DECDHL/DECDWL/DECSWL.
type LineAttr int

const (
	Normal LineAttr = iota
	DoubleHeightUpper
	DoubleHeightLower
	DoubleWidth
)

// Cell is a single screen position.
type Cell struct {
	Ch      byte
	Attrs   Attrs
	Charset charset.Set
}

// Line is one row of the grid, always ColsMax cells wide.
type Line struct {
	Attr  LineAttr
	Cells [ColsMax]Cell
}

// Cursor is the active write position.
type Cursor struct {
	X, Y int
}

// Region is the DECSTBM scrolling region, inclusive of both ends.
type Region struct {
	Top, Bottom int
}

// Screen is the VT102 grid plus its cursor, scrolling region and tab
// stops. Cols toggles between 80 and 132 (DECCOLM); Lines always keep
// ColsMax cells so content is preserved across the switch. DECSC/DECRC
// cursor snapshots live in the interpreter, which also owns the
// character-set and attribute state a snapshot must capture alongside
// the cursor position.
type Screen struct {
	Cols     int
	Lines    [Rows]Line
	Cursor   Cursor
	Region   Region
	TabStops [ColsMax]bool
}

// New builds a blank 80-column screen with every eighth column stopped,
// matching the VT102 reset state.
func New() *Screen {
	s := &Screen{
		Cols:   80,
		Region: Region{Top: 0, Bottom: Rows - 1},
	}
	for x := 0; x < ColsMax; x++ {
		s.TabStops[x] = x != 0 && x%8 == 0
	}
	for y := 0; y < Rows; y++ {
		s.blankCells(y, charset.UnitedStates)
	}
	return s
}

// At returns the cell at (x, y), bounds-checked against the current
// display width and the fixed row count.
func (s *Screen) At(x, y int) (Cell, error) {
	if x < 0 || x >= s.Cols || y < 0 || y >= Rows {
		return Cell{}, errs.New(errs.OutOfRange, "x=%d y=%d", x, y)
	}
	return s.Lines[y].Cells[x], nil
}

func (s *Screen) blankCells(y int, g0 charset.Set) {
	for x := 0; x < ColsMax; x++ {
		s.Lines[y].Cells[x] = Cell{Ch: ' ', Charset: g0}
	}
}

// Erase resets a single cell to blank, clearing its attributes and
// setting its charset to g0. A no-op if (x, y) is out of range.
func (s *Screen) Erase(x, y int, g0 charset.Set) {
	if x < 0 || x >= s.Cols || y < 0 || y >= Rows {
		return
	}
	s.Lines[y].Cells[x] = Cell{Ch: ' ', Charset: g0}
}

// clearKeepAttrs blanks a cell's character and charset but leaves its
// SGR attributes untouched, as DelChar/DelLine do to the cell(s) they
// expose.
func (s *Screen) clearKeepAttrs(x, y int, cs charset.Set) {
	s.Lines[y].Cells[x].Ch = ' '
	s.Lines[y].Cells[x].Charset = cs
}

// SetCell overwrites a cell's character, charset and attributes in one
// step, as Put does once it has decided what to write.
func (s *Screen) SetCell(x, y int, ch byte, cs charset.Set, a Attrs) {
	s.Lines[y].Cells[x] = Cell{Ch: ch, Charset: cs, Attrs: a}
}

// EraseInDisplay clears part or all of the screen, resetting every
// affected line's attribute to Normal.
func (s *Screen) EraseInDisplay(mode csi.EDMode, g0 charset.Set) {
	x, y := s.Cursor.X, s.Cursor.Y
	switch mode {
	case csi.EDBelow:
		for ix := x; ix < s.Cols; ix++ {
			s.Erase(ix, y, g0)
		}
		s.Lines[y].Attr = Normal
		for iy := y + 1; iy < Rows; iy++ {
			s.blankRow(iy, g0)
		}
	case csi.EDAbove:
		for iy := 0; iy < y; iy++ {
			s.blankRow(iy, g0)
		}
		for ix := 0; ix <= x && ix < s.Cols; ix++ {
			s.Erase(ix, y, g0)
		}
		s.Lines[y].Attr = Normal
	default: // EDComplete, EDScrollback
		for iy := 0; iy < Rows; iy++ {
			s.blankRow(iy, g0)
		}
	}
}

func (s *Screen) blankRow(y int, g0 charset.Set) {
	for ix := 0; ix < s.Cols; ix++ {
		s.Erase(ix, y, g0)
	}
	s.Lines[y].Attr = Normal
}

// EraseInLine clears part or all of the cursor's row.
func (s *Screen) EraseInLine(mode csi.ELMode, g0 charset.Set) {
	x, y := s.Cursor.X, s.Cursor.Y
	switch mode {
	case csi.ELRight:
		for ix := x; ix < s.Cols; ix++ {
			s.Erase(ix, y, g0)
		}
	case csi.ELLeft:
		for ix := 0; ix <= x && ix < s.Cols; ix++ {
			s.Erase(ix, y, g0)
		}
	case csi.ELAll:
		for ix := 0; ix < s.Cols; ix++ {
			s.Erase(ix, y, g0)
		}
	}
}

// DelChar removes the cell at (x, y), shifting the rest of the row left
// and blanking the last column (keeping its prior attributes).
func (s *Screen) DelChar(x, y int, current charset.Set) error {
	if x < 0 || x >= s.Cols || y < 0 || y >= Rows {
		return errs.New(errs.OutOfRange, "x=%d y=%d", x, y)
	}
	for i := x; i < s.Cols-1; i++ {
		s.Lines[y].Cells[i] = s.Lines[y].Cells[i+1]
	}
	s.clearKeepAttrs(s.Cols-1, y, current)
	return nil
}

// InsLine shifts row y and everything below it down one row, through to
// the last screen row (discarding that row), and blanks row y to Normal.
func (s *Screen) InsLine(y int, g0 charset.Set) {
	for i := Rows - 2; i >= y; i-- {
		s.Lines[i+1] = s.Lines[i]
	}
	s.blankRow(y, g0)
}

// DelLine shifts row y+1 and everything below it up, discarding row y,
// and blanks the now-duplicated bottom row's characters only, keeping
// its existing attributes.
func (s *Screen) DelLine(y int, current charset.Set) {
	for i := y; i < Rows-1; i++ {
		s.Lines[i] = s.Lines[i+1]
	}
	for x := 0; x < s.Cols; x++ {
		s.clearKeepAttrs(x, Rows-1, current)
	}
}

// Scroll shifts the scrolling region by n lines (negative scrolls the
// content up, revealing a blank line at the bottom; positive scrolls
// down, revealing one at the top) and moves the cursor by the same
// amount, matching the original VT102's coupling of scroll and cursor
// motion.
func (s *Screen) Scroll(n int, region Region, g0 charset.Set) {
	s.Cursor.Y += n
	for ; n < 0; n++ {
		for i := region.Top; i < region.Bottom; i++ {
			s.Lines[i] = s.Lines[i+1]
		}
		s.blankCells(region.Bottom, g0)
	}
	for ; n > 0; n-- {
		for i := region.Bottom; i > region.Top; i-- {
			s.Lines[i] = s.Lines[i-1]
		}
		s.blankCells(region.Top, g0)
	}
}

// MoveCurs sets the cursor to (x, y) and then clamps it into range,
// consulting decawm to decide whether an overflow wraps (scrolling the
// region when it overflows the bottom) or merely clamps.
func (s *Screen) MoveCurs(x, y int, decawm bool, g0 charset.Set) {
	s.Cursor.X, s.Cursor.Y = x, y
	if s.Cursor.X >= s.Cols {
		if decawm {
			s.Cursor.X = 0
			s.Cursor.Y++
		} else {
			s.Cursor.X = s.Cols - 1
		}
	}
	if s.Cursor.X < 0 {
		s.Cursor.X = 0
	}
	if s.Cursor.Y > s.Region.Bottom {
		if decawm {
			s.Scroll(s.Region.Bottom-s.Cursor.Y, s.Region, g0)
		} else {
			s.Cursor.Y = s.Region.Bottom
		}
	}
	if s.Cursor.Y < s.Region.Top {
		s.Cursor.Y = s.Region.Top
	}
}

// Put writes ch at the cursor (shifting the row right first under IRM),
// then advances the cursor: wrapping to the next line under DECAWM when
// the line is full, otherwise moving one column right (clamped) or, with
// autowrap off, leaving the cursor parked on the last column.
func (s *Screen) Put(ch byte, cs charset.Set, a Attrs, decawm, irm bool, g0 charset.Set) {
	if decawm && s.Cursor.Y > s.Region.Bottom {
		s.Scroll(s.Region.Bottom-s.Cursor.Y, s.Region, g0)
	}
	x, y := s.Cursor.X, s.Cursor.Y
	if irm {
		for i := s.Cols - 2; i >= x; i-- {
			s.Lines[y].Cells[i+1] = s.Lines[y].Cells[i]
		}
	}
	s.SetCell(x, y, ch, cs, a)
	if x+1 >= s.Cols {
		if decawm {
			s.Cursor.X = 0
			s.Cursor.Y++
		}
		return
	}
	s.MoveCurs(x+1, y, decawm, g0)
}

// NextTabStop returns the next tab stop strictly right of x, or the
// last column if none remain.
func (s *Screen) NextTabStop(x int) int {
	for i := x + 1; i < s.Cols; i++ {
		if s.TabStops[i] {
			return i
		}
	}
	return s.Cols - 1
}

// SetTabStop marks x as a tab stop (HTS).
func (s *Screen) SetTabStop(x int) {
	if x >= 0 && x < ColsMax {
		s.TabStops[x] = true
	}
}

// ClearTabStop removes the tab stop at x (TBC with no parameter, or 0).
func (s *Screen) ClearTabStop(x int) {
	if x >= 0 && x < ColsMax {
		s.TabStops[x] = false
	}
}

// ClearAllTabStops removes every tab stop (TBC with parameter 3).
func (s *Screen) ClearAllTabStops() {
	for x := range s.TabStops {
		s.TabStops[x] = false
	}
}

// ResetTabStops restores the default tab-stop pattern (every eighth
// column except column 0), matching the power-on state.
func (s *Screen) ResetTabStops() {
	for x := range s.TabStops {
		s.TabStops[x] = x != 0 && x%8 == 0
	}
}

// SetColumns switches the display width (DECCOLM) and erases the entire
// screen, matching the original's "mode change re-clears the screen"
// behavior.
func (s *Screen) SetColumns(cols int, g0 charset.Set) {
	s.Cols = cols
	for y := 0; y < Rows; y++ {
		s.blankRow(y, g0)
	}
}
