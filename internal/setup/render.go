package setup

import (
	"fmt"

	"github.com/tlast/vt102/internal/charset"
	"github.com/tlast/vt102/internal/screen"
)

const (
	titleRow        = 0
	instrRow        = 2
	rulerRow        = 4
	tabRow          = 5
	versionRow      = 3
	modemRow        = 5
	printerParamRow = 6
	bankRow         = 8
	printerRow      = 10
	statusRow       = 12
)

// firmwareVersion is the version tag SET-UP B's header reports,
// matching the original emulator's reported identity (DA replies
// "\x1b[?6c", VT102 class 6).
const firmwareVersion = "VT102 firmware V1.0"

// Paint renders the current SET-UP page onto scr: page A shows the tab
// stop ruler, page B shows the bank toggle grid. Every character is
// written through Put, so the screen model stays the single source of
// truth for what is on the display.
func (s *Session) Paint(scr *screen.Screen, pageB bool) {
	clearPage(scr)
	if pageB {
		s.paintB(scr)
	} else {
		s.paintA(scr)
	}
}

// CursorPos reports where the hardware cursor should sit for the given
// page, so it tracks whichever item is currently selected.
func (s *Session) CursorPos(pageB bool) (x, y int) {
	if !pageB {
		return s.TabCursor, tabRow
	}
	return Banks[s.Cursor.Bank].Columns[s.Cursor.Column], bankRowFor(s.Cursor.Bank)
}

func bankRowFor(bankIdx int) int {
	if bankIdx == len(Banks)-1 {
		return printerRow
	}
	return bankRow
}

func clearPage(scr *screen.Screen) {
	for y := 0; y < screen.Rows; y++ {
		scr.MoveCurs(0, y, false, charset.UnitedStates)
		for x := 0; x < scr.Cols; x++ {
			scr.Put(' ', charset.UnitedStates, screen.Attrs{}, false, false, charset.UnitedStates)
		}
	}
}

func putString(scr *screen.Screen, x, y int, str string, a screen.Attrs) {
	scr.MoveCurs(x, y, false, charset.UnitedStates)
	for i := 0; i < len(str); i++ {
		scr.Put(str[i], charset.UnitedStates, a, false, false, charset.UnitedStates)
	}
}

func (s *Session) paintA(scr *screen.Screen) {
	putString(scr, 0, titleRow, "VT102 SET-UP A", screen.Attrs{Bold: true})
	putString(scr, 0, instrRow, "2 sets tab   3 clears tab   T resets tabs   5 selects SET-UP B", screen.Attrs{})

	for x := 0; x < scr.Cols; x++ {
		ch := byte(' ')
		if (x+1)%10 == 0 {
			ch = '+'
		}
		putString(scr, x, rulerRow, string(ch), screen.Attrs{})
	}
	for x := 0; x < scr.Cols; x++ {
		ch := byte('.')
		if scr.TabStops[x] {
			ch = 'T'
		}
		a := screen.Attrs{}
		if x == s.TabCursor {
			a.Reverse = true
		}
		putString(scr, x, tabRow, string(ch), a)
	}
}

func (s *Session) paintB(scr *screen.Screen) {
	putString(scr, 0, titleRow, "VT102 SET-UP B", screen.Attrs{Bold: true})
	putString(scr, 0, versionRow, firmwareVersion, screen.Attrs{})
	putString(scr, 0, instrRow, "6 toggles   7/8 speed   9 columns   shift+left/right side   5 selects SET-UP A", screen.Attrs{})

	modem := s.Model.Modem
	putString(scr, 0, modemRow, fmt.Sprintf(
		"modem:   tx %-5d rx %-5d control %d parity %d",
		modem.TxSpeed, modem.RxSpeed, modem.Control, s.Model.ReceiveParity,
	), screen.Attrs{Reverse: s.ModemSide})

	printer := s.Model.Printer
	putString(scr, 0, printerParamRow, fmt.Sprintf(
		"printer: tx/rx %-5d parity %d",
		printer.TxRxSpeed, printer.DataParityBits,
	), screen.Attrs{Reverse: !s.ModemSide})

	for bi, bank := range Banks {
		row := bankRowFor(bi)
		for ci, col := range bank.Columns {
			t := bank.Toggles[ci]
			ch := byte('.')
			if t.get(s.Model, s.Modes) {
				ch = '*'
			}
			a := screen.Attrs{}
			if bi == s.Cursor.Bank && ci == s.Cursor.Column {
				a.Reverse = true
			}
			putString(scr, col, row, string(ch), a)
		}
	}

	name, value := s.Current()
	status := "off"
	if value {
		status = "on"
	}
	putString(scr, 0, statusRow, fmt.Sprintf("%s: %s", name, status), screen.Attrs{})
}
