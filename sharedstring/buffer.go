package sharedstring

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/panjf2000/gnet/v2/pkg/pool/byteslice"
)

// Align is the granularity of payload allocations, one machine word.
const Align = int(unsafe.Sizeof(uintptr(0)))

// Capacity is the payload size reserved for a text of n bytes: room for
// the terminator, rounded up to Align.
func Capacity(n int) int {
	return (n + 1 + Align - 1) &^ (Align - 1)
}

// Allocator hands out payload memory. Alloc must return a slice of
// exactly n bytes; Free receives it back once the last handle is gone.
type Allocator interface {
	Alloc(n int) []byte
	Free(b []byte)
}

type poolAllocator struct{}

func (poolAllocator) Alloc(n int) []byte {
	b := byteslice.Get(n)
	clear(b)
	return b
}

func (poolAllocator) Free(b []byte) {
	byteslice.Put(b)
}

type allocatorBox struct {
	Allocator
}

var allocator atomic.Pointer[allocatorBox]

func init() {
	allocator.Store(&allocatorBox{poolAllocator{}})
}

// SetAllocator replaces the allocator used by later constructions and
// returns the previous one. Buffers already built are freed through the
// allocator that created them. Safe to call while other goroutines build
// values; each construction uses whichever allocator it observed.
func SetAllocator(a Allocator) Allocator {
	if a == nil {
		a = poolAllocator{}
	}
	return allocator.Swap(&allocatorBox{a}).Allocator
}

// buffer is the shared allocation behind every handle.
//
// header is the text length. data[:header] is UTF-8, data[header] is 0,
// and len(data) == Capacity(header). data never changes after construction.
type buffer struct {
	refs   atomic.Int64
	header int
	data   []byte
	alloc  Allocator
	static bool
}

func newBuffer(text []byte) *buffer {
	alloc := allocator.Load().Allocator
	n := len(text)
	data := alloc.Alloc(Capacity(n))
	copy(data, text)
	clear(data[n:])
	b := &buffer{header: n, data: data, alloc: alloc}
	b.refs.Store(1)
	return b
}

func (b *buffer) retain() {
	if b.static {
		return
	}
	b.refs.Add(1)
}

func (b *buffer) release() {
	if b.static {
		return
	}
	n := b.refs.Add(-1)
	if n > 0 {
		return
	}
	if n < 0 {
		panic("sharedstring: buffer released more often than it was shared")
	}
	data := b.data
	b.data = nil
	b.alloc.Free(data)
}

// emptyBuffer is the process-wide buffer behind every default value.
var emptyBuffer = sync.OnceValue(func() *buffer {
	b := &buffer{data: make([]byte, Align), static: true}
	b.refs.Store(1)
	return b
})
