// Package sharedstring implements SharedString, an immutable text value
// whose copies share one reference-counted buffer.
//
// The buffer always holds a terminating NUL after the text, so the bytes
// can be handed to foreign code as a C string without copying. Handles are
// duplicated with Clone and given up with Release; the buffer goes back to
// its allocator when the last handle is released. A handle that is simply
// dropped without Release is reclaimed by the garbage collector instead of
// the allocator.
//
// The zero SharedString is the empty text and needs no allocation.
package sharedstring

import (
	"fmt"
	"strconv"

	"github.com/fixkme/uicore/errs"
	"github.com/fixkme/uicore/str"
)

type SharedString struct {
	inner *buffer
}

// Default returns the canonical empty value. It is interchangeable with
// the zero SharedString.
func Default() SharedString {
	return SharedString{inner: emptyBuffer()}
}

// FromStringUnchecked builds a value from s without looking at it. s must
// be valid UTF-8 and must not contain NUL bytes; nothing checks this.
func FromStringUnchecked(s string) SharedString {
	return FromBytesUnchecked(str.StrAsBytes(s))
}

// FromBytesUnchecked is FromStringUnchecked for a byte slice. b is copied.
func FromBytesUnchecked(b []byte) SharedString {
	if len(b) == 0 {
		return Default()
	}
	return SharedString{inner: newBuffer(b)}
}

// New validates s and builds a value from it. It fails with
// errs.InvalidText when s is not UTF-8 or contains a NUL byte.
func New(s string) (SharedString, error) {
	return NewFromBytes(str.StrAsBytes(s))
}

func NewFromBytes(b []byte) (SharedString, error) {
	if off := str.InvalidTextOffset(b); off >= 0 {
		return SharedString{}, errs.InvalidText.Printf("bad byte 0x%02x at offset %d", b[off], off)
	}
	return FromBytesUnchecked(b), nil
}

func (s SharedString) buf() *buffer {
	if s.inner == nil {
		return emptyBuffer()
	}
	return s.inner
}

// Clone returns another handle on the same buffer.
func (s SharedString) Clone() SharedString {
	b := s.buf()
	b.retain()
	return SharedString{inner: b}
}

// Release gives up this handle. The handle becomes the empty value.
func (s *SharedString) Release() {
	b := s.inner
	s.inner = nil
	if b != nil {
		b.release()
	}
}

func (s SharedString) Len() int {
	return s.buf().header
}

func (s SharedString) IsEmpty() bool {
	return s.Len() == 0
}

// String returns the text without copying. The result aliases the buffer
// and must not be used after the last handle is released.
func (s SharedString) String() string {
	b := s.buf()
	return str.BytesAsStr(b.data[:b.header])
}

// Bytes returns the text bytes without the terminator. The caller must
// not modify them.
func (s SharedString) Bytes() []byte {
	b := s.buf()
	return b.data[:b.header:b.header]
}

// CBytes returns the text followed by its NUL terminator.
func (s SharedString) CBytes() []byte {
	b := s.buf()
	return b.data[: b.header+1 : b.header+1]
}

// RefCount reports how many handles share the buffer. The canonical empty
// buffer always reports 1.
func (s SharedString) RefCount() int64 {
	return s.buf().refs.Load()
}

// SharesBuffer reports whether s and o are handles on the same allocation.
func (s SharedString) SharesBuffer(o SharedString) bool {
	return s.buf() == o.buf()
}

func (s SharedString) Equal(o SharedString) bool {
	if s.SharesBuffer(o) {
		return true
	}
	return s.String() == o.String()
}

func (s SharedString) EqualString(o string) bool {
	return s.String() == o
}

// EqualText compares against anything that renders itself as text.
func (s SharedString) EqualText(o fmt.Stringer) bool {
	return s.String() == o.String()
}

func (s SharedString) GoString() string {
	return strconv.Quote(s.String())
}
