// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfs

// Stack is a multi-producer multi-consumer intrusive LIFO.
//
// The implementation is fixed at build time (see [Backend]): a lock-free
// stack on a 128-bit CAS where the target has one, a spin-lock guarded
// stack otherwise. Both honor the same contract:
//
//   - Push and Pop are linearizable; LIFO order holds between
//     non-overlapping operations
//   - No element is lost, duplicated or linked into a cycle
//   - Flush and Depth observe a snapshot with no ordering promise
//     relative to concurrent Push/Pop
//
// None of the operations block on I/O or accept a timeout.
//
// The zero value is an empty stack ready for use, so a Stack may be
// embedded by value. A Stack must not be copied after first use.
//
// Example:
//
//	arena := lfs.NewArena[Buffer](64)
//	s := lfs.NewStack[Buffer]()
//	s.Push(arena.At(0))
//	e := s.Pop() // arena.At(0)
type Stack[T any] struct {
	b backend[T]
}

// NewStack creates an empty stack with depth 0.
func NewStack[T any]() *Stack[T] {
	return &Stack[T]{}
}

// Push links e at the top of the stack.
//
// e must not be linked into any stack. While linked, e must not be
// modified and must stay reachable (see [Arena]).
func (s *Stack[T]) Push(e *Element[T]) {
	s.b.push(e)
}

// Pop unlinks and returns the top element, or nil if the stack is empty.
// The caller owns the returned element exclusively.
func (s *Stack[T]) Pop() *Element[T] {
	return s.b.pop()
}

// Flush detaches every element and resets the depth to 0.
//
// Detached elements are neither returned nor modified. Ownership goes back
// to whoever tracks them out of band, typically the owning [Arena] or
// [Pool.Reclaim].
func (s *Stack[T]) Flush() {
	s.b.flush()
}

// Depth returns a snapshot of the number of linked elements.
// The value may be stale by the time the caller reads it.
func (s *Stack[T]) Depth() int {
	return s.b.count()
}
