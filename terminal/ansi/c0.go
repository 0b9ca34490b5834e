package ansi

// Now extended with the control characters the VT102 interpreter handles
// (CAN/SUB/DC1/DC3/DEL), which the teacher's version left as a TODO.
type c0 struct {
	NUL uint8 // NUL is the null character (Caret: ^@, Char: \0).
	BEL uint8 // BEL is the bell character (Caret: ^G, Char: \a).
	BS  uint8 // BS is the backspace character (Caret: ^H, Char: \b).
	CR  uint8 // CR is the carriage return character (Caret: ^M, Char: \r).
	ENQ uint8 // ENQ is the enquiry character (Caret: ^E).
	EOT uint8 // EOT is the end of transmission character (Caret: ^D).
	ETX uint8 // ETX is the end of text character (Caret: ^C).
	ESC uint8 // ESC is the Escape character (Caret: ^[).
	FF  uint8 // FF is the form feed character (Caret: ^L, Char: \f).
	HT  uint8 // HT is the horizontal tab character (Caret: ^I, Char: \t).
	LF  uint8 // LF is the line feed character (Caret: ^J, Char: \n).
	SI  uint8 // SI is the shift in character (Caret: ^O).
	SO  uint8 // SO is the shift out character (Caret: ^N).
	VT  uint8 // VT is the vertical tab character (Caret: ^K, Char: \v).
	DC1 uint8 // DC1 (XON) resumes output (Caret: ^Q).
	DC3 uint8 // DC3 (XOFF) suspends output (Caret: ^S).
	CAN uint8 // CAN cancels an in-flight escape/CSI sequence (Caret: ^X).
	SUB uint8 // SUB cancels an in-flight sequence and prints a glyph (Caret: ^Z).
	DEL uint8 // DEL is ignored by the interpreter (Caret: ^?).
}

// C0 (7-bit) control characters from ANSI, extended for VT102 use.
//
// see chapter 3 for detail information about control characters
// supported by KAI based on VT100, which is compatiable with ANSI standard:
// https://vt100.net/docs/vt100-ug/chapter3.html#S3.2
var C0 = c0{
	NUL: 0x00,
	ETX: 0x03,
	EOT: 0x04,
	ENQ: 0x05,
	BEL: 0x07,
	BS:  0x08,
	HT:  0x09,
	LF:  0x0A,
	VT:  0x0B,
	FF:  0x0C,
	CR:  0x0D,
	SO:  0x0E,
	SI:  0x0F,
	DC1: 0x11,
	DC3: 0x13,
	CAN: 0x18,
	SUB: 0x1A,
	ESC: 0x1B,
	DEL: 0x7F,
}
