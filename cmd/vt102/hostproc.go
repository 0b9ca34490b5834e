package main

import (
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
)

// hostProcess wraps a pty-backed shell subprocess: the "host" side of
// the VT102 session that the byte interpreter and the keyboard
// translator exchange bytes with.
type hostProcess struct {
	mu     sync.Mutex
	file   *os.File
	cmd    *exec.Cmd
	closed bool
}

func startHostProcess(shell string) (*hostProcess, error) {
	cmd := exec.Command(shell)
	cmd.Env = append(os.Environ(), "TERM=vt102")

	f, err := pty.Start(cmd)
	if err != nil {
		return nil, err
	}
	return &hostProcess{file: f, cmd: cmd}, nil
}

func (h *hostProcess) SetSize(rows, cols int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	return pty.Setsize(h.file, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

func (h *hostProcess) Write(p []byte) (int, error) {
	h.mu.Lock()
	closed, f := h.closed, h.file
	h.mu.Unlock()
	if closed {
		return 0, io.ErrClosedPipe
	}
	return f.Write(p)
}

func (h *hostProcess) Read(p []byte) (int, error) {
	h.mu.Lock()
	closed, f := h.closed, h.file
	h.mu.Unlock()
	if closed {
		return 0, io.EOF
	}
	return f.Read(p)
}

func (h *hostProcess) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	h.file.Close()
	return h.cmd.Process.Kill()
}
