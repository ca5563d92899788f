// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/creachadair/jstream/internal/escape"
	"go4.org/mem"
)

// Kind is the type of a JSON value, as seen from its first byte.
type Kind byte

// Constants defining the valid Kind values.
const (
	Invalid Kind = iota // not the start of a value
	Object              // left brace "{"
	Array               // left square bracket "["
	String              // quoted string
	Number              // number: leading digit or "-"
	Literal             // constant: true, false, null
)

var kindStr = [...]string{
	Invalid: "invalid",
	Object:  "object",
	Array:   "array",
	String:  "string",
	Number:  "number",
	Literal: "literal",
}

func (k Kind) String() string {
	v := int(k)
	if v >= len(kindStr) {
		return kindStr[Invalid]
	}
	return kindStr[v]
}

func kindOf(b byte) Kind {
	switch {
	case b == '{':
		return Object
	case b == '[':
		return Array
	case b == '"':
		return String
	case isNumStart(b):
		return Number
	case b == 't', b == 'f', b == 'n':
		return Literal
	}
	return Invalid
}

var (
	// ErrBufferFull is recorded by a Builder when output was dropped because
	// the buffer had no room for it.
	ErrBufferFull = errors.New("buffer full")

	// ErrDepthExceeded is recorded by a Builder when a container is opened
	// beyond MaxDepth, and reported by a Reader when a document nests deeper
	// than its depth limit.
	ErrDepthExceeded = errors.New("nesting depth exceeded")

	// ErrKeyNotFound is reported by a Reader when the document ended without
	// a member matching the requested key.
	ErrKeyNotFound = errors.New("key not found")

	// errStopped marks a stream abandoned by its consumer.
	errStopped = errors.New("stream stopped")
)

// SyntaxError is the concrete type of errors reported for malformed or
// truncated input. When the input ended early, the error wraps
// io.ErrUnexpectedEOF.
type SyntaxError struct {
	Offset  int // byte offset of the input at the point of failure
	Message string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at offset %d: %s", s.Offset, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }

// next consumes and returns the next byte of input, taking the pushback slot
// first if it is occupied.
func (r *Reader) next() (byte, error) {
	if r.hasPeek {
		r.hasPeek = false
		r.pos++
		return r.peek, nil
	}
	b, err := r.src.ReadByte()
	if err != nil {
		return 0, err
	}
	r.pos++
	return b, nil
}

// unread puts b into the pushback slot. At most one byte may be pending.
func (r *Reader) unread(b byte) {
	r.peek, r.hasPeek = b, true
	r.pos--
}

// lookahead returns the next byte of input without consuming it.
func (r *Reader) lookahead() (byte, error) {
	b, err := r.next()
	if err == nil {
		r.unread(b)
	}
	return b, err
}

// skipSpace discards whitespace. It reports an error, including io.EOF, if
// the input ends before a non-space byte.
func (r *Reader) skipSpace() error {
	for {
		b, err := r.next()
		if err != nil {
			return err
		} else if !isSpace(b) {
			r.unread(b)
			return nil
		}
	}
}

// readHex4 reads the four hexadecimal digits of a \u escape. A short or
// invalid sequence decodes to the Unicode replacement rune, and the byte
// that ended it is left unread.
func (r *Reader) readHex4() (rune, error) {
	var hex [4]byte
	for i := range hex {
		b, err := r.next()
		if err != nil {
			return 0, r.truncated(err)
		} else if !escape.IsHexDigit(b) {
			r.unread(b)
			return utf8.RuneError, nil
		}
		hex[i] = b
	}
	return escape.ParseHex(mem.B(hex[:]))
}

// truncated converts io.EOF into an error reporting that the input ended in
// the middle of a value. Other errors are returned unchanged.
func (r *Reader) truncated(err error) error {
	if err == io.EOF {
		return &SyntaxError{Offset: r.pos, Message: "unexpected end of input", err: io.ErrUnexpectedEOF}
	}
	return err
}

func (r *Reader) failf(msg string, args ...any) error {
	return &SyntaxError{Offset: r.pos, Message: fmt.Sprintf(msg, args...)}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\r' || b == '\n' || b == '\t'
}

func isDigit(b byte) bool    { return '0' <= b && b <= '9' }
func isNumStart(b byte) bool { return b == '-' || isDigit(b) }

// isNumByte reports whether b may appear in the text of a number. It does
// not check the order of the bytes.
func isNumByte(b byte) bool {
	return isDigit(b) || b == '.' || b == '-' || b == '+' || b == 'e' || b == 'E'
}

// isBareEnd reports whether b ends an unquoted scalar.
func isBareEnd(b byte) bool {
	return isSpace(b) || b == ',' || b == '}' || b == ']'
}
