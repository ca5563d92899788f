// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"fmt"
	"math"
	"strconv"

	"github.com/creachadair/jstream/internal/escape"
)

const (
	// MaxDepth is the number of nested containers a Builder tracks.
	MaxDepth = 10

	// DefaultPrecision is the number of decimal places a Builder writes for
	// floating-point values, unless changed with SetPrecision.
	DefaultPrecision = 2

	// MaxPrecision is the largest number of decimal places a Builder writes
	// for floating-point values.
	MaxPrecision = 64
)

// level is the separator state of one open container.
type level struct {
	first    bool // no element has been written yet
	afterKey bool // the next value belongs to a key just written
	kind     Kind // Object or Array; Invalid at the top level
}

// A Builder writes JSON text into a fixed buffer supplied by the caller. It
// never allocates or grows the buffer.
//
// The caller describes the structure of the output with calls to methods
// such as BeginObject, Key, and String, and the Builder supplies separators,
// quotation, and (optionally) indentation.
//
// Output that does not fit in the buffer is dropped. The contents of the
// buffer are always a prefix of the complete output followed by a NUL byte,
// so a truncated result is incomplete but never corrupt. Use Err to find out
// whether anything was dropped.
type Builder struct {
	buf  []byte
	pos  int // invariant: pos < len(buf) and buf[pos] == 0, unless len(buf) == 0
	prec int

	pretty bool
	strict bool

	depth int                 // tracked nesting depth, <= MaxDepth
	over  int                 // open containers beyond MaxDepth, sharing stk[MaxDepth]
	stk   [MaxDepth + 1]level // stk[0] is the top level
	err   error
}

// NewBuilder constructs a new Builder that writes into buf. One byte of buf
// is reserved for the NUL terminator, so buf must be at least one byte longer
// than the largest expected output.
func NewBuilder(buf []byte) *Builder {
	b := &Builder{buf: buf, prec: DefaultPrecision}
	b.Reset()
	return b
}

// Reset discards the contents of b and returns it to its initial state.
// Settings made by SetPretty, SetPrecision, and SetStrict are kept.
func (b *Builder) Reset() {
	b.pos, b.depth, b.over, b.err = 0, 0, 0, nil
	b.stk[0] = level{first: true}
	if len(b.buf) != 0 {
		b.buf[0] = 0
	}
}

// SetPretty configures b to write newlines and two-space indentation (true)
// or compact output (false). It does not change the content of the output.
func (b *Builder) SetPretty(ok bool) { b.pretty = ok }

// SetPrecision sets the number of decimal places written for floating-point
// values. Negative values are treated as zero, and values above MaxPrecision
// as MaxPrecision.
func (b *Builder) SetPrecision(n int) { b.prec = min(max(n, 0), MaxPrecision) }

// SetStrict configures b to escape all control characters in strings
// (true), or only newline, tab, and carriage return (false). Strict output
// is valid JSON for any input; the default is smaller.
func (b *Builder) SetStrict(ok bool) { b.strict = ok }

// Bytes returns the output written so far, without the NUL terminator. The
// slice aliases the buffer passed to NewBuilder.
func (b *Builder) Bytes() []byte { return b.buf[:b.pos] }

// Text returns a copy of the output written so far.
func (b *Builder) Text() string { return string(b.buf[:b.pos]) }

// Len returns the number of bytes written so far.
func (b *Builder) Len() int { return b.pos }

// Cap returns the capacity of the buffer, including the terminator.
func (b *Builder) Cap() int { return len(b.buf) }

// Depth returns the number of containers currently open and tracked.
func (b *Builder) Depth() int { return b.depth }

// Err returns the first error recorded by b since it was created or reset:
// ErrBufferFull if output was dropped, or ErrDepthExceeded if containers
// were nested beyond MaxDepth. Both are recoverable in the sense that the
// output remains well-formed up to the point of failure.
func (b *Builder) Err() error { return b.err }

// BeginObject starts a new object.
//
// Containers nested more than MaxDepth deep are still written, and their
// separators remain correct, but ErrDepthExceeded is recorded and Depth
// stops counting at MaxDepth.
func (b *Builder) BeginObject() { b.begin(Object, '{') }

// EndObject ends the most recently opened container with a brace.
func (b *Builder) EndObject() { b.end('}') }

// BeginArray starts a new array. See BeginObject about nesting limits.
func (b *Builder) BeginArray() { b.begin(Array, '[') }

// EndArray ends the most recently opened container with a bracket.
func (b *Builder) EndArray() { b.end(']') }

// Key writes an object key. The next value written belongs to this key.
func (b *Builder) Key(name string) {
	b.separator()
	quote(b, name)
	b.put(':')
	if b.pretty {
		b.put(' ')
	}
	b.stk[b.depth].afterKey = true
}

// String writes a quoted string value.
func (b *Builder) String(s string) { b.separator(); quote(b, s) }

// StringBytes writes data as a quoted string value.
func (b *Builder) StringBytes(data []byte) { b.separator(); quote(b, data) }

// Bool writes true or false.
func (b *Builder) Bool(v bool) {
	b.separator()
	if v {
		b.puts("true")
	} else {
		b.puts("false")
	}
}

// Null writes null.
func (b *Builder) Null() { b.separator(); b.puts("null") }

// Int writes a signed integer in decimal.
func (b *Builder) Int(v int64) {
	var tmp [24]byte
	b.separator()
	b.putb(strconv.AppendInt(tmp[:0], v, 10))
}

// Uint writes an unsigned integer in decimal.
func (b *Builder) Uint(v uint64) {
	var tmp [24]byte
	b.separator()
	b.putb(strconv.AppendUint(tmp[:0], v, 10))
}

// Float writes a floating-point value in decimal, with the number of
// decimal places set by SetPrecision and no exponent. JSON has no encoding
// for NaN or infinities; they are written as null.
func (b *Builder) Float(v float64) {
	b.separator()
	if math.IsNaN(v) || math.IsInf(v, 0) {
		b.puts("null")
		return
	}
	var tmp [maxFloatLen]byte
	b.putb(strconv.AppendFloat(tmp[:0], v, 'f', b.prec, 64))
}

// maxFloatLen bounds the length of a finite float64 in 'f' format: a sign,
// up to 309 integer digits, a decimal point, and MaxPrecision places.
const maxFloatLen = 1 + 309 + 1 + MaxPrecision

// Char writes c as a value without quotation. The caller is responsible for
// ensuring the result is valid JSON.
func (b *Builder) Char(c byte) { b.separator(); b.put(c) }

// Raw writes data as a value without quotation or escaping. The caller is
// responsible for ensuring data is a complete JSON value.
func (b *Builder) Raw(data []byte) { b.separator(); b.putb(data) }

// Value writes v as a JSON value, choosing the encoding by the type of v.
//
// Strings and byte slices are written as strings, bools as true or false,
// nil as null, and integer and floating-point types as numbers. A slice of
// any of these is written as an array. Note that a byte is a uint8, so it is
// written as a number; use Char to write a raw byte.
//
// Value panics if v has any other type.
func (b *Builder) Value(v any) {
	switch t := v.(type) {
	case nil:
		b.Null()
	case string:
		b.String(t)
	case []byte:
		b.StringBytes(t)
	case bool:
		b.Bool(t)
	case int:
		b.Int(int64(t))
	case int8:
		b.Int(int64(t))
	case int16:
		b.Int(int64(t))
	case int32:
		b.Int(int64(t))
	case int64:
		b.Int(t)
	case uint:
		b.Uint(uint64(t))
	case uint8:
		b.Uint(uint64(t))
	case uint16:
		b.Uint(uint64(t))
	case uint32:
		b.Uint(uint64(t))
	case uint64:
		b.Uint(t)
	case float32:
		b.Float(float64(t))
	case float64:
		b.Float(t)
	case []string:
		Values(b, t)
	case []bool:
		Values(b, t)
	case []int:
		Values(b, t)
	case []int64:
		Values(b, t)
	case []uint64:
		Values(b, t)
	case []float64:
		Values(b, t)
	case []any:
		b.BeginArray()
		for _, elt := range t {
			b.Value(elt)
		}
		b.EndArray()
	default:
		panic(fmt.Sprintf("jstream: unsupported value type %T", v))
	}
}

// Scalar is the set of element types accepted by Values.
type Scalar interface {
	string | bool |
		int | int8 | int16 | int32 | int64 |
		uint | uint8 | uint16 | uint32 | uint64 |
		float32 | float64
}

// Values writes vs to b as an array, encoding each element as Value would.
// Like the other writers, it does not allocate.
func Values[T Scalar](b *Builder, vs []T) {
	b.BeginArray()
	switch s := any(&vs).(type) {
	case *[]string:
		for _, v := range *s {
			b.String(v)
		}
	case *[]bool:
		for _, v := range *s {
			b.Bool(v)
		}
	case *[]int:
		signed(b, *s)
	case *[]int8:
		signed(b, *s)
	case *[]int16:
		signed(b, *s)
	case *[]int32:
		signed(b, *s)
	case *[]int64:
		signed(b, *s)
	case *[]uint:
		unsigned(b, *s)
	case *[]uint8:
		unsigned(b, *s)
	case *[]uint16:
		unsigned(b, *s)
	case *[]uint32:
		unsigned(b, *s)
	case *[]uint64:
		unsigned(b, *s)
	case *[]float32:
		for _, v := range *s {
			b.Float(float64(v))
		}
	case *[]float64:
		for _, v := range *s {
			b.Float(v)
		}
	}
	b.EndArray()
}

func signed[T int | int8 | int16 | int32 | int64](b *Builder, vs []T) {
	for _, v := range vs {
		b.Int(int64(v))
	}
}

func unsigned[T uint | uint8 | uint16 | uint32 | uint64](b *Builder, vs []T) {
	for _, v := range vs {
		b.Uint(uint64(v))
	}
}

func (b *Builder) begin(k Kind, open byte) {
	b.separator()
	b.put(open)
	if b.depth < MaxDepth {
		b.depth++
	} else {
		// Containers past the limit share the last slot. Their separators are
		// still correct, since a parent has at least one element once a child
		// container closes.
		b.over++
		b.fail(ErrDepthExceeded)
	}
	b.stk[b.depth] = level{first: true, kind: k}
}

func (b *Builder) end(close byte) {
	if b.depth+b.over == 0 {
		b.put(close)
		return
	}
	if b.pretty && !b.stk[b.depth].first {
		b.newline(b.depth + b.over - 1)
	}
	if b.over > 0 {
		b.over--
	} else {
		b.depth--
	}
	b.put(close)
	b.stk[b.depth].first = false
}

// separator writes whatever must precede the next element at the current
// depth: nothing after a key, otherwise a comma unless this is the first
// element, followed by a line break in pretty mode.
func (b *Builder) separator() {
	lv := &b.stk[b.depth]
	if lv.afterKey {
		lv.afterKey = false
		return
	}
	if !lv.first {
		b.put(',')
	}
	lv.first = false
	if b.pretty && b.depth+b.over > 0 {
		b.newline(b.depth + b.over)
	}
}

func (b *Builder) newline(depth int) {
	b.put('\n')
	for range depth {
		b.puts("  ")
	}
}

// quote writes s as a quoted string.
func quote[S string | []byte](b *Builder, s S) {
	b.put('"')
	for i := 0; i < len(s); i++ {
		if esc, n := escape.Escape(s[i], b.strict); n != 0 {
			b.putb(esc[:n])
		} else {
			b.put(s[i])
		}
	}
	b.put('"')
}

// put writes c if there is room for it and the terminator.
func (b *Builder) put(c byte) {
	if b.pos+1 >= len(b.buf) {
		b.fail(ErrBufferFull)
		return
	}
	b.buf[b.pos] = c
	b.pos++
	b.buf[b.pos] = 0
}

func (b *Builder) puts(s string) {
	for i := 0; i < len(s); i++ {
		b.put(s[i])
	}
}

func (b *Builder) putb(data []byte) {
	for _, c := range data {
		b.put(c)
	}
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}
