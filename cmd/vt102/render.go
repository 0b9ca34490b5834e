package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/tlast/vt102"
	"github.com/tlast/vt102/internal/screen"
)

// render draws the emulator's current screen contents onto a tcell
// screen. SET-UP paints into the same Screen model as the host display,
// so it needs no separate rendering path -- its cursor-highlighted
// toggle grid and tab ruler are just cells like any other.
func render(scr tcell.Screen, emu *vt102.Emulator) {
	scr.Clear()
	renderScreen(scr, emu)
	scr.Show()
}

func renderScreen(scr tcell.Screen, emu *vt102.Emulator) {
	base := tcell.StyleDefault
	if emu.ReverseVideo() {
		base = base.Reverse(true)
	}

	for y := 0; y < emu.Rows(); y++ {
		for x := 0; x < emu.Cols(); x++ {
			cell, err := emu.Cell(x, y)
			if err != nil {
				continue
			}
			style := base
			if cell.Attrs.Bold {
				style = style.Bold(true)
			}
			if cell.Attrs.Underline {
				style = style.Underline(true)
			}
			if cell.Attrs.Blink {
				style = style.Blink(true)
			}
			if cell.Attrs.Reverse {
				style = style.Reverse(!emu.ReverseVideo())
			}
			ch := rune(cell.Ch)
			if ch == 0 {
				ch = ' '
			}
			attr := emu.LineAttr(y)
			if attr == screen.DoubleWidth || attr == screen.DoubleHeightUpper || attr == screen.DoubleHeightLower {
				scr.SetContent(2*x, y, ch, nil, style)
				scr.SetContent(2*x+1, y, ' ', nil, style)
				continue
			}
			scr.SetContent(x, y, ch, nil, style)
		}
	}

	cx, cy := emu.CursorPos()
	shape := tcell.CursorStyleSteadyUnderline
	if emu.BlockCursor() {
		shape = tcell.CursorStyleSteadyBlock
	}
	scr.SetCursorStyle(shape)
	scr.ShowCursor(cx, cy)
}
