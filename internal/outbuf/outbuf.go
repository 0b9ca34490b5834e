// Package outbuf implements the OutputBuffer: the XON/XOFF-gated queue
// of host-bound replies the interpreter produces for ENQ, DA, DECID and
// DSR. Keyboard translation does not go through it: Emulator.KeyboardInput
// returns its bytes directly, so they are not subject to the XOFF gate.
package outbuf

// Buffer holds host-bound bytes not yet drained by the collaborator that
// writes them to the host (the pty master, in cmd/vt102). While the
// gate is closed (XOFF), only the flow-control bytes themselves --
// 0x11 (DC1/XON) and 0x13 (DC3/XOFF) -- are kept; everything else
// Append is given is dropped, so the host always has a way to see the
// gate reopen.
type Buffer struct {
	xon     bool
	pending []byte
}

// New creates a buffer with flow enabled, matching VT102 reset state.
func New() *Buffer {
	return &Buffer{xon: true}
}

// SetXON sets the flow-control gate. false restricts subsequent Append
// calls to XON/XOFF bytes only; true lifts that restriction.
func (b *Buffer) SetXON(on bool) {
	b.xon = on
}

// XON reports the current gate state.
func (b *Buffer) XON() bool {
	return b.xon
}

// Append queues host-bound bytes. When the gate is open every byte is
// kept; when closed, only 0x11 and 0x13 are.
func (b *Buffer) Append(data []byte) {
	if b.xon {
		b.pending = append(b.pending, data...)
		return
	}
	for _, c := range data {
		if c == 0x11 || c == 0x13 {
			b.pending = append(b.pending, c)
		}
	}
}

// Pending reports how many bytes are queued.
func (b *Buffer) Pending() int {
	return len(b.pending)
}

// Drain removes and returns every queued byte.
func (b *Buffer) Drain() []byte {
	out := b.pending
	b.pending = nil
	return out
}
