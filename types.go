// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfs

// LIFO is the combined push-pop interface of an intrusive stack.
//
// All operations are safe for any number of concurrent goroutines.
//
// Example:
//
//	var s lfs.LIFO[Job] = lfs.NewStack[Job]()
//	s.Push(arena.At(0))
//	if e := s.Pop(); e != nil {
//	    run(&e.Value)
//	}
type LIFO[T any] interface {
	Pusher[T]
	Popper[T]

	// Flush detaches every linked element without touching them.
	Flush()
}

// Pusher is the interface for linking elements.
type Pusher[T any] interface {
	// Push links e at the top. e must not already be linked.
	Push(e *Element[T])
}

// Popper is the interface for unlinking elements.
type Popper[T any] interface {
	// Pop unlinks the top element. Returns nil when empty, never blocks.
	Pop() *Element[T]

	// Depth returns a point-in-time element count.
	Depth() int
}

// backendOps is the contract every stack backend implements.
type backendOps[T any] interface {
	push(e *Element[T])
	pop() *Element[T]
	flush()
	count() int
}

var (
	_ LIFO[int]       = (*Stack[int])(nil)
	_ backendOps[int] = (*guardedStack[int])(nil)
	_ backendOps[int] = (*nativeStack[int])(nil)
)
