// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package escape

import "go4.org/mem"

var controlEsc = [...]byte{
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	' ':  ' ', // sentinel
}

var hexDigit = []byte("0123456789abcdef")

// Escape reports the escaped form of b for inclusion in a JSON string. If n
// is zero, b is written as-is.
//
// Only double quote, backslash, newline, tab, and carriage return are
// escaped. If strict is true, the remaining bytes below U+0020 are written as
// \u00XX; otherwise they pass through unchanged.
func Escape(b byte, strict bool) (esc [6]byte, n int) {
	switch {
	case b == '"' || b == '\\':
		esc[0], esc[1] = '\\', b
		return esc, 2
	case b >= ' ':
		return esc, 0
	case controlEsc[b] != 0:
		esc[0], esc[1] = '\\', controlEsc[b]
		return esc, 2
	case strict:
		esc = [6]byte{'\\', 'u', '0', '0', hexDigit[b>>4], hexDigit[b&15]}
		return esc, 6
	}
	return esc, 0
}

// Quote encodes src as a quoted JSON string using the rules of Escape.
func Quote(src mem.RO, strict bool) []byte {
	buf := make([]byte, 0, src.Len()+2)
	buf = append(buf, '"')
	for i := 0; i < src.Len(); i++ {
		b := src.At(i)
		if esc, n := Escape(b, strict); n != 0 {
			buf = append(buf, esc[:n]...)
		} else {
			buf = append(buf, b)
		}
	}
	return append(buf, '"')
}
