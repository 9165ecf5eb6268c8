// Package arena is a growable slot table. Values live in a slice of nodes
// chained through a free list, and are addressed by an ID that stays valid
// while other slots come and go.
package arena

import "fmt"

const Null = -1

// ID addresses a slot. Gen changes every time the slot is freed, so an ID
// kept past Remove never reaches the value that later reuses the slot.
type ID struct {
	Index int32
	Gen   uint32
}

func (id ID) String() string {
	return fmt.Sprintf("%d#%d", id.Index, id.Gen)
}

type Node[T any] struct {
	Data T
	Next int // next free slot, Null while occupied
	gen  uint32
	used bool
}

type Arena[T any] struct {
	datas []Node[T]
	free  int
	len   int
	zero  T
}

func New[T any](capacity int) *Arena[T] {
	a := &Arena[T]{
		datas: make([]Node[T], 0, capacity),
		free:  Null,
	}
	return a
}

// Insert stores v in a free slot, growing the table when none is left.
func (a *Arena[T]) Insert(v T) ID {
	p := a.free
	if p == Null {
		a.datas = append(a.datas, Node[T]{Next: Null, gen: 1})
		p = len(a.datas) - 1
	} else {
		a.free = a.datas[p].Next
	}
	node := &a.datas[p]
	node.Data = v
	node.Next = Null
	node.used = true
	a.len++
	return ID{Index: int32(p), Gen: node.gen}
}

func (a *Arena[T]) node(id ID) *Node[T] {
	p := int(id.Index)
	if p < 0 || p >= len(a.datas) {
		return nil
	}
	node := &a.datas[p]
	if !node.used || node.gen != id.Gen {
		return nil
	}
	return node
}

func (a *Arena[T]) Get(id ID) (v T, ok bool) {
	if node := a.node(id); node != nil {
		return node.Data, true
	}
	return
}

func (a *Arena[T]) Contains(id ID) bool {
	return a.node(id) != nil
}

// Set replaces the value in place, keeping id valid.
func (a *Arena[T]) Set(id ID, v T) bool {
	node := a.node(id)
	if node == nil {
		return false
	}
	node.Data = v
	return true
}

// Remove frees the slot and returns what it held.
func (a *Arena[T]) Remove(id ID) (v T, ok bool) {
	node := a.node(id)
	if node == nil {
		return
	}
	v = node.Data
	node.Data = a.zero
	node.used = false
	node.gen++
	node.Next = a.free
	a.free = int(id.Index)
	a.len--
	return v, true
}

func (a *Arena[T]) Len() int {
	return a.len
}

// Cap is the number of slots allocated so far, used or free.
func (a *Arena[T]) Cap() int {
	return len(a.datas)
}

// Range visits occupied slots in index order. fn must not insert or remove.
func (a *Arena[T]) Range(fn func(id ID, v T) bool) {
	for i := range a.datas {
		node := &a.datas[i]
		if !node.used {
			continue
		}
		if !fn(ID{Index: int32(i), Gen: node.gen}, node.Data) {
			break
		}
	}
}

func (a *Arena[T]) Reset() {
	clear(a.datas)
	a.datas = a.datas[:0]
	a.free = Null
	a.len = 0
}
