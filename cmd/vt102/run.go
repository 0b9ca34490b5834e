package main

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tlast/vt102"
	"github.com/tlast/vt102/logger"
)

// runEmulator wires the pieces together: a pty-backed shell as the
// host, a vt102.Emulator as the byte interpreter and screen model, and
// a tcell.Screen as the display the user actually looks at.
func runEmulator(cmd *cobra.Command, args []string) error {
	log := logger.New(logger.Options{
		Buffer: os.Stderr,
		Level:  logger.InfoLevel,
		Type:   logger.TypeText,
		Trace:  traceFlag,
	})

	if w, h, err := term.GetSize(int(os.Stdin.Fd())); err == nil {
		if !cmd.Flags().Changed("cols") && w > 0 {
			colsFlag = w
		}
		if !cmd.Flags().Changed("rows") && h > 0 {
			rowsFlag = h
		}
	}

	emu := vt102.New(vt102.Options{Answerback: answerback, Logger: log})
	if colsFlag >= 132 {
		emu.Write([]byte("\x1b[?3h"))
	}

	host, err := startHostProcess(shellCmd)
	if err != nil {
		return fmt.Errorf("start shell: %w", err)
	}
	defer host.Close()
	host.SetSize(emu.Rows(), emu.Cols())

	scr, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open display: %w", err)
	}
	if err := scr.Init(); err != nil {
		return fmt.Errorf("init display: %w", err)
	}
	defer scr.Fini()
	scr.EnableMouse()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go scr.ChannelEvents(events, quit)
	defer close(quit)

	hostOutput := make(chan []byte, 64)
	go pumpHostOutput(host, hostOutput)

	render(scr, emu)

	for {
		select {
		case data, ok := <-hostOutput:
			if !ok {
				return nil
			}
			emu.Write(data)
			if reply := emu.Drain(); len(reply) > 0 {
				host.Write(reply)
			}
			render(scr, emu)

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				render(scr, emu)
			case *tcell.EventKey:
				key, mods, ok := translateTcellKey(ev)
				if !ok {
					continue
				}
				// tcell delivers terminal-driven auto-repeat as ordinary
				// EventKey values with no repeat flag of its own, so this
				// host has no signal to distinguish a repeat from a fresh
				// keydown; DECARM gating is exercised through
				// keyboard.Translate's repeat parameter in that package's tests.
				if out := emu.KeyboardInput(key, mods, false); len(out) > 0 {
					host.Write(out)
				}
				render(scr, emu)
			}
		}
	}
}

// pumpHostOutput copies bytes from the host pty to ch until the pty
// closes, then closes ch.
func pumpHostOutput(host *hostProcess, ch chan<- []byte) {
	defer close(ch)
	buf := make([]byte, 4096)
	for {
		n, err := host.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			ch <- chunk
		}
		if err != nil {
			return
		}
	}
}
