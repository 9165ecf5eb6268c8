// Package ffi exposes SharedString to foreign code through raw pointers.
//
// A SharedString is a single pointer wide, so foreign code can hold one in
// an opaque pointer-sized slot and pass its address back here. The payload
// memory is Go memory: foreign code may read it for the duration of a call
// but must not keep the pointer once the value has been dropped.
package ffi

import (
	"unsafe"

	"github.com/fixkme/uicore/sharedstring"
)

// Bytes returns the address of the NUL-terminated payload and the text
// length, excluding the terminator.
func Bytes(ss *sharedstring.SharedString) (*byte, int) {
	c := ss.CBytes()
	return unsafe.SliceData(c), len(c) - 1
}

// Drop releases the value held in ss.
func Drop(ss *sharedstring.SharedString) {
	ss.Release()
}

// Clone writes a new handle on the same buffer into out. The value out
// held before is overwritten, not released.
func Clone(out *sharedstring.SharedString, ss *sharedstring.SharedString) {
	*out = ss.Clone()
}

// FromBytes builds a value from n bytes at p and writes it into out.
// The bytes must be valid UTF-8 without NUL; they are copied, not checked.
func FromBytes(out *sharedstring.SharedString, p *byte, n int) {
	if n == 0 {
		*out = sharedstring.Default()
		return
	}
	*out = sharedstring.FromBytesUnchecked(unsafe.Slice(p, n))
}
