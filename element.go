// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfs

import (
	"unsafe"

	"code.hybscloud.com/atomix"
)

// ElementAlign is the address alignment every linked element must satisfy.
const ElementAlign = ptrSize

// Element is an intrusive stack node carrying a caller value.
//
// The link points at the next element without owning it. While an element
// is linked into a stack the caller must not modify it. Once popped, the
// caller owns it again and the link is cleared.
//
// The native backend keeps the top element as a bare address the garbage
// collector does not trace, so an element must stay reachable through other
// means while linked. Allocate elements from an [Arena] that outlives every
// stack using them.
type Element[T any] struct {
	next  atomix.Pointer[Element[T]]
	Value T
}

// addr returns the element address as a link value.
func (e *Element[T]) addr() uintptr {
	return uintptr(unsafe.Pointer(e))
}

// elementAt rebuilds an element pointer from a link value.
// The bits are reinterpreted rather than converted from an integer.
func elementAt[T any](link uintptr) *Element[T] {
	return *(**Element[T])(unsafe.Pointer(&link))
}

// Arena is a fixed-capacity slab of elements.
//
// The arena keeps its elements reachable for the garbage collector.
// Elements never move, so their addresses are valid stack links for the
// arena's whole lifetime.
//
// Example:
//
//	arena := lfs.NewArena[Buffer](1024)
//	free := lfs.NewStack[Buffer]()
//	for i := range arena.Len() {
//	    free.Push(arena.At(i))
//	}
type Arena[T any] struct {
	elems []Element[T]
}

// NewArena creates an arena of n zero-valued elements on the heap.
// Panics if n < 1.
//
// Not inlined: the backing array must never be placed on the caller's
// goroutine stack, which moves when it grows.
//
//go:noinline
func NewArena[T any](n int) *Arena[T] {
	if n < 1 {
		panic("lfs: capacity must be >= 1")
	}
	a := &Arena[T]{elems: make([]Element[T], n)}
	if debugEnabled {
		for i := range a.elems {
			assertAligned(&a.elems[i])
		}
	}
	return a
}

// Len returns the number of elements in the arena.
func (a *Arena[T]) Len() int {
	return len(a.elems)
}

// At returns the i-th element.
func (a *Arena[T]) At(i int) *Element[T] {
	return &a.elems[i]
}

// Index returns the position of e in the arena.
// Reports false if e does not belong to the arena.
func (a *Arena[T]) Index(e *Element[T]) (int, bool) {
	if e == nil || len(a.elems) == 0 {
		return 0, false
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(a.elems)))
	size := unsafe.Sizeof(a.elems[0])
	off := e.addr() - base
	if e.addr() < base || off%size != 0 || off/size >= uintptr(len(a.elems)) {
		return 0, false
	}
	return int(off / size), true
}
