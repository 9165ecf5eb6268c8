package str

import (
	"unicode/utf8"
	"unsafe"
)

// StrAsBytes aliases the bytes of s. The result must not be written to.
func StrAsBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// BytesAsStr aliases b as a string. b must not change while the string is in use.
func BytesAsStr(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// InvalidTextOffset returns the offset of the first byte that makes b
// unusable as null-terminated UTF-8 text, either a NUL or the start of an
// invalid sequence. It returns -1 when b is acceptable.
func InvalidTextOffset(b []byte) int {
	for i := 0; i < len(b); {
		c := b[i]
		if c == 0 {
			return i
		}
		if c < utf8.RuneSelf {
			i++
			continue
		}
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}
