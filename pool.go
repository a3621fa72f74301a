// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfs

import "code.hybscloud.com/atomix"

// Pool is a fixed-capacity object pool: an Arena plus a Stack free-list.
//
// Get prefers the most recently returned element, which keeps caches warm.
// A lazy pool hands out never-used arena slots through a bump cursor once
// the free-list is empty; an eager pool links every slot up front.
//
// Example:
//
//	pool := lfs.BuildPool[Buffer](lfs.New(1024), func(b *Buffer) { b.n = 0 })
//	e, err := pool.Get()
//	if lfs.IsWouldBlock(err) {
//	    // Exhausted - apply backpressure
//	}
//	e.Value.n = copy(e.Value.data[:], payload)
//	pool.Put(e)
type Pool[T any] struct {
	_      pad
	cursor atomix.Int64 // Next untouched arena slot (lazy pools)
	_      pad
	free   *Stack[T]
	arena  *Arena[T]
	reset  func(*T)
	lazy   bool
}

func newPool[T any](opts Options, reset func(*T)) *Pool[T] {
	p := &Pool[T]{
		free:  NewStack[T](),
		arena: NewArena[T](opts.capacity),
		reset: reset,
		lazy:  opts.lazy,
	}
	p.fill()
	return p
}

// fill makes every arena slot available. Pool must be quiescent.
func (p *Pool[T]) fill() {
	if p.lazy {
		p.cursor.Store(0)
		return
	}
	n := p.arena.Len()
	p.cursor.Store(int64(n))
	// Pushed in reverse so the first Get returns slot 0.
	for i := n - 1; i >= 0; i-- {
		p.free.Push(p.arena.At(i))
	}
}

// Get takes an element out of the pool.
// Returns (nil, ErrWouldBlock) if every element is in use.
func (p *Pool[T]) Get() (*Element[T], error) {
	if e := p.free.Pop(); e != nil {
		return e, nil
	}
	if p.lazy && p.cursor.LoadRelaxed() < int64(p.arena.Len()) {
		if i := p.cursor.Add(1) - 1; i < int64(p.arena.Len()) {
			return p.arena.At(int(i)), nil
		}
	}
	return nil, ErrWouldBlock
}

// Put returns e to the pool after running the reset hook on its value.
// e must have been obtained from this pool's Get and not already returned.
func (p *Pool[T]) Put(e *Element[T]) {
	if debugEnabled {
		if _, ok := p.arena.Index(e); !ok {
			panic("lfs: element does not belong to this pool")
		}
	}
	if p.reset != nil {
		p.reset(&e.Value)
	}
	p.free.Push(e)
}

// Cap returns the pool capacity.
func (p *Pool[T]) Cap() int {
	return p.arena.Len()
}

// Available returns a snapshot of the number of elements Get can hand out.
func (p *Pool[T]) Available() int {
	n := p.free.Depth()
	if p.lazy {
		if rest := int64(p.arena.Len()) - p.cursor.Load(); rest > 0 {
			n += int(rest)
		}
	}
	return n
}

// Depth returns the free-list depth. It lets a Pool be observed like a Stack.
func (p *Pool[T]) Depth() int {
	return p.free.Depth()
}

// Reclaim makes every element available again, including elements that
// were handed out and never returned.
//
// The caller must ensure no goroutine uses the pool or any of its elements
// concurrently. This is the recovery path after abandoning checked-out
// elements; Reclaim does not run the reset hook.
func (p *Pool[T]) Reclaim() {
	p.free.Flush()
	p.fill()
}
