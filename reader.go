// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"bufio"
	"io"
	"iter"

	"github.com/creachadair/jstream/internal/escape"
	"go4.org/mem"
)

// A Reader locates a key in a JSON document read from a byte stream and
// streams the value of that key, without holding the document in memory.
//
// The Reader is lenient: it does not validate the grammar of the input, and
// skips over text it does not need on a best-effort basis.
type Reader struct {
	src     io.ByteReader
	peek    byte // pushback slot
	hasPeek bool
	pos     int // bytes consumed so far

	key   []byte // decoded member key, bounded by the length of the target
	stk   []Kind // open containers during a search
	limit int    // maximum len(stk); 0 means no limit
	err   error
	rbuf  [4]byte // UTF-8 encoding scratch
}

// NewReader constructs a new Reader that consumes input from r. If r does
// not implement io.ByteReader, it is wrapped in a bufio.Reader.
func NewReader(r io.Reader) *Reader {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Reader{src: br}
}

// LimitDepth configures r to fail a search that would have to descend more
// than n containers deep. If n <= 0, the depth is not limited.
func (r *Reader) LimitDepth(n int) { r.limit = max(n, 0) }

// Err returns the reason the last call to Find returned false, or the error
// reported by the most recent call to Stream.
//
// After an unsuccessful Find, Err is ErrKeyNotFound if the document was
// searched completely, io.EOF if the input ended before any document began,
// or another error describing why the search stopped.
func (r *Reader) Err() error { return r.err }

// Find searches forward for an object member whose key is exactly key, and
// reports whether one was found.
//
// Any bytes before the first "{" or "[" of the input are discarded. The
// search then descends through nested objects and arrays depth-first and
// stops at the first matching member, anywhere in the document. On success,
// the input is positioned at the start of the member's value, ready for a
// call to Stream, Kind, All, or WriteTo.
//
// Keys are compared after escapes are decoded. Find may be called again to
// search the remainder of the input; the search restarts at the next "{" or
// "[" found.
func (r *Reader) Find(key string) bool {
	r.err = nil
	r.stk = r.stk[:0]
	for {
		b, err := r.next()
		if err != nil {
			r.err = err // io.EOF: no document
			return false
		} else if b == '{' || b == '[' {
			r.unread(b)
			break
		}
	}
	if err := r.search(key); err != nil {
		r.err = err
		return false
	}
	return true
}

// search runs a depth-first search for key, beginning at an open brace or
// bracket. It returns nil when the cursor is positioned at the value of a
// matching member.
func (r *Reader) search(key string) error {
	if err := r.open(); err != nil {
		return err
	}
	for len(r.stk) != 0 {
		if err := r.skipSpace(); err != nil {
			return r.truncated(err)
		}
		b, err := r.next()
		if err != nil {
			return r.truncated(err)
		}
		switch b {
		case ',':
			continue
		case '}', ']':
			r.stk = r.stk[:len(r.stk)-1]
			continue
		}

		if r.stk[len(r.stk)-1] == Array {
			r.unread(b)
			if err := r.element(); err != nil {
				return err
			}
			continue
		}

		// Inside an object, each member is "key": value.
		if b != '"' {
			return r.failf("expected string key, got %q", b)
		}
		match, err := r.readKey(key)
		if err != nil {
			return err
		}
		if err := r.skipSpace(); err != nil {
			return r.truncated(err)
		}
		if c, err := r.next(); err != nil {
			return r.truncated(err)
		} else if c != ':' {
			return r.failf("expected %q after key, got %q", ':', c)
		}
		if err := r.skipSpace(); err != nil {
			return r.truncated(err)
		}
		if match {
			return nil
		}
		if err := r.element(); err != nil {
			return err
		}
	}
	return ErrKeyNotFound
}

// open consumes the opening delimiter of a container and pushes its kind.
func (r *Reader) open() error {
	b, err := r.next()
	if err != nil {
		return r.truncated(err)
	}
	if r.limit > 0 && len(r.stk) >= r.limit {
		return &SyntaxError{Offset: r.pos, Message: "too many nested values", err: ErrDepthExceeded}
	}
	r.stk = append(r.stk, kindOf(b))
	return nil
}

// element handles a value during a search: containers are entered, and
// anything else is skipped.
func (r *Reader) element() error {
	b, err := r.lookahead()
	if err != nil {
		return r.truncated(err)
	}
	if b == '{' || b == '[' {
		return r.open()
	}
	return r.skipValue()
}

// readKey decodes a quoted key whose open quote has been consumed, and
// reports whether it equals target. At most a few bytes beyond the length of
// target are retained.
func (r *Reader) readKey(target string) (bool, error) {
	r.key = r.key[:0]
	bound := len(target) + len(r.rbuf)
	long := false
	err := r.decodeString(func(b byte) bool {
		if len(r.key) < bound {
			r.key = append(r.key, b)
		} else {
			long = true
		}
		return true
	})
	if err != nil {
		return false, err
	}
	return !long && mem.B(r.key).Equal(mem.S(target)), nil
}

// Kind reports the kind of the value at the current position, skipping any
// whitespace before it but consuming nothing else. It returns Invalid if the
// input is exhausted.
func (r *Reader) Kind() Kind {
	if r.skipSpace() != nil {
		return Invalid
	}
	b, err := r.lookahead()
	if err != nil {
		return Invalid
	}
	return kindOf(b)
}

// Stream calls onChar with each byte of the decoded value at the current
// position, in order. The value is consumed; no copy of it is retained.
//
// A string value is delivered without its quotes and with escapes decoded
// to UTF-8. A surrogate pair written as two \u escapes is combined into one
// 4-byte sequence; an unpaired surrogate is encoded on its own in 3 bytes,
// which is not valid UTF-8. A number is delivered as written, and the byte
// following it is left unread. An object or array is delivered as raw JSON
// text, including its delimiters.
//
// The literals true, false, and null are skipped without calling onChar.
// Use Kind to detect them before streaming if that matters.
func (r *Reader) Stream(onChar func(byte)) error {
	return r.stream(func(b byte) bool { onChar(b); return true })
}

// All returns a sequence of the bytes that Stream would deliver. The value
// is consumed as the sequence is iterated; if iteration stops early the
// reader is left in the middle of the value. After iteration, Err reports
// any error that ended the sequence.
func (r *Reader) All() iter.Seq[byte] {
	return func(yield func(byte) bool) { r.stream(yield) }
}

// WriteTo writes the bytes that Stream would deliver to w. It implements
// io.WriterTo.
func (r *Reader) WriteTo(w io.Writer) (int64, error) {
	var buf [256]byte
	var nw int64
	var werr error
	n := 0
	flush := func() bool {
		if n == 0 || werr != nil {
			return werr == nil
		}
		m, err := w.Write(buf[:n])
		nw += int64(m)
		n = 0
		werr = err
		return err == nil
	}
	err := r.stream(func(b byte) bool {
		buf[n] = b
		n++
		return n < len(buf) || flush()
	})
	if !flush() {
		return nw, werr
	}
	return nw, err
}

func (r *Reader) stream(emit func(byte) bool) error {
	err := r.streamValue(emit)
	if err == errStopped {
		err = nil
	}
	r.err = err
	return err
}

func (r *Reader) streamValue(emit func(byte) bool) error {
	if err := r.skipSpace(); err != nil {
		return r.truncated(err)
	}
	b, err := r.lookahead()
	if err != nil {
		return r.truncated(err)
	}
	switch kindOf(b) {
	case String:
		r.next()
		return r.decodeString(emit)
	case Number:
		return r.streamNumber(emit)
	case Object, Array:
		return r.streamRaw(emit)
	case Literal:
		return r.skipBare()
	}
	return r.failf("unexpected %q at start of value", b)
}

// decodeString delivers the decoded contents of a string whose open quote has
// been consumed, through the closing quote.
func (r *Reader) decodeString(emit func(byte) bool) error {
	for {
		b, err := r.next()
		if err != nil {
			return r.truncated(err)
		}
		switch b {
		case '"':
			return nil
		case '\\':
			c, err := r.next()
			if err != nil {
				return r.truncated(err)
			}
			if err := r.decodeEscape(c, emit); err != nil {
				return err
			}
		default:
			if !emit(b) {
				return errStopped
			}
		}
	}
}

// decodeEscape delivers the decoding of the escape \c. Unknown escapes
// decode to c itself.
func (r *Reader) decodeEscape(c byte, emit func(byte) bool) error {
	if c != 'u' {
		if d, ok := escape.Simple(c); ok {
			c = d
		}
		if !emit(c) {
			return errStopped
		}
		return nil
	}
	cp, err := r.readHex4()
	if err != nil {
		return err
	}

	// A high surrogate should be followed by \u and a low surrogate.
	for escape.IsHighSurrogate(cp) {
		b, err := r.next()
		if err != nil {
			return r.truncated(err)
		} else if b != '\\' {
			r.unread(b)
			break
		}
		c, err := r.next()
		if err != nil {
			return r.truncated(err)
		} else if c != 'u' {
			if err := r.emitRune(cp, emit); err != nil {
				return err
			}
			return r.decodeEscape(c, emit)
		}
		lo, err := r.readHex4()
		if err != nil {
			return err
		}
		if escape.IsLowSurrogate(lo) {
			return r.emitRune(escape.Combine(cp, lo), emit)
		}
		if err := r.emitRune(cp, emit); err != nil {
			return err
		}
		cp = lo
	}
	return r.emitRune(cp, emit)
}

func (r *Reader) emitRune(cp rune, emit func(byte) bool) error {
	for _, b := range escape.AppendRune(r.rbuf[:0], cp) {
		if !emit(b) {
			return errStopped
		}
	}
	return nil
}

// streamNumber delivers the bytes of a number. The input may end after it.
func (r *Reader) streamNumber(emit func(byte) bool) error {
	for {
		b, err := r.next()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		} else if !isNumByte(b) {
			r.unread(b)
			return nil
		} else if !emit(b) {
			return errStopped
		}
	}
}

// streamRaw delivers the text of an object or array through its matching
// close delimiter. Delimiters inside strings are not counted.
func (r *Reader) streamRaw(emit func(byte) bool) error {
	var depth int
	var inString, esc bool
	for {
		b, err := r.next()
		if err != nil {
			return r.truncated(err)
		}
		if !emit(b) {
			return errStopped
		}
		switch {
		case inString:
			if esc {
				esc = false
			} else if b == '\\' {
				esc = true
			} else if b == '"' {
				inString = false
			}
		case b == '"':
			inString = true
		case b == '{' || b == '[':
			depth++
		case b == '}' || b == ']':
			if depth--; depth == 0 {
				return nil
			}
		}
	}
}

// skipValue discards the value at the current position.
func (r *Reader) skipValue() error {
	b, err := r.lookahead()
	if err != nil {
		return r.truncated(err)
	}
	switch b {
	case '"':
		r.next()
		return r.skipString()
	case '{', '[':
		return r.skipContainer()
	}
	return r.skipBare()
}

// skipString discards a string whose open quote has been consumed.
func (r *Reader) skipString() error {
	for {
		b, err := r.next()
		if err != nil {
			return r.truncated(err)
		}
		switch b {
		case '"':
			return nil
		case '\\':
			if _, err := r.next(); err != nil {
				return r.truncated(err)
			}
		}
	}
}

// skipContainer discards an object or array, including nested values.
func (r *Reader) skipContainer() error {
	var depth int
	for {
		b, err := r.next()
		if err != nil {
			return r.truncated(err)
		}
		switch b {
		case '"':
			if err := r.skipString(); err != nil {
				return err
			}
		case '{', '[':
			depth++
		case '}', ']':
			if depth--; depth == 0 {
				return nil
			}
		}
	}
}

// skipBare discards an unquoted scalar such as a number or literal, up to the
// next whitespace, comma, or close delimiter. The input may end after it.
func (r *Reader) skipBare() error {
	for {
		b, err := r.next()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		} else if isBareEnd(b) {
			r.unread(b)
			return nil
		}
	}
}
