// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfs

import (
	"runtime"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lfs/atom"
	"code.hybscloud.com/lfs/internal/sched"
)

// hostScheduler boosts guarded stacks that carry no scheduler of their own.
// Nil where the host cannot change thread priorities.
var hostScheduler = sched.Default()

// guardedStack is an intrusive LIFO protected by a SpinLock.
//
// While a goroutine holds the lock its OS thread runs at no less than the
// highest priority any caller has requested, which bounds how long a
// low-priority holder can delay a high-priority waiter.
//
// The zero value is an empty stack boosting through hostScheduler.
type guardedStack[T any] struct {
	_       pad
	head    atomix.Pointer[Element[T]] // Written under lock; read lock-free by the pop pre-check
	depth   atomix.Int32
	_       pad
	lock    SpinLock
	_       pad
	maxPrio atomix.Int32 // Highest priority requested so far, relative to sched.Normal
	denied  atomix.Bool  // Scheduler refused a boost; stop trying
	lost    atomix.Int64 // Boosts that could not be undone
	_       pad
	sched   sched.Scheduler
}

func (s *guardedStack[T]) push(e *Element[T]) {
	if debugEnabled {
		assertAligned(e)
		assertNotTop(e, s.head.LoadAcquire())
	}

	saved, boosted := s.enter()
	e.next.StoreRelaxed(s.head.LoadRelaxed())
	s.head.StoreRelease(e)
	s.depth.Add(1)
	s.exit(saved, boosted)
}

func (s *guardedStack[T]) pop() *Element[T] {
	// Best-effort: re-checked under the lock.
	if s.head.LoadAcquire() == nil {
		return nil
	}

	saved, boosted := s.enter()
	e := s.head.LoadRelaxed()
	if e == nil {
		s.exit(saved, boosted)
		return nil
	}
	s.head.StoreRelease(e.next.LoadRelaxed())
	s.depth.Add(-1)
	e.next.StoreRelaxed(nil)
	s.exit(saved, boosted)
	return e
}

// flush detaches every element. The elements themselves are not touched.
func (s *guardedStack[T]) flush() {
	saved, boosted := s.enter()
	s.head.StoreRelease(nil)
	s.depth.Store(0)
	s.exit(saved, boosted)
}

func (s *guardedStack[T]) count() int {
	return int(s.depth.Load())
}

func (s *guardedStack[T]) scheduler() sched.Scheduler {
	if s.sched != nil {
		return s.sched
	}
	return hostScheduler
}

// ceiling returns the highest priority requested so far.
func (s *guardedStack[T]) ceiling() sched.Priority {
	return sched.Normal + sched.Priority(s.maxPrio.Load())
}

// enter boosts the calling thread and takes the lock.
// Returns the raw OS priority to restore and whether it was changed.
func (s *guardedStack[T]) enter() (saved int, boosted bool) {
	sc := s.scheduler()
	if sc == nil || s.denied.LoadAcquire() {
		s.lock.Lock()
		return 0, false
	}

	runtime.LockOSThread()
	own := sc.Priority()
	top := sched.Normal + sched.Priority(raiseMax(&s.maxPrio, int32(own-sched.Normal)))
	if top > own {
		var err error
		if saved, err = sc.Save(); err == nil {
			err = sc.SetPriority(top)
		}
		if err != nil {
			s.denied.Store(true)
		} else {
			boosted = true
		}
	}
	s.lock.Lock()
	if !boosted {
		runtime.UnlockOSThread()
	}
	return saved, boosted
}

// exit releases the lock and restores the caller's raw priority.
//
// A thread whose priority could not be restored stays locked to the
// goroutine, so the runtime discards it when the goroutine exits instead of
// handing the raised priority to other goroutines.
func (s *guardedStack[T]) exit(saved int, boosted bool) {
	s.lock.Unlock()
	if !boosted {
		return
	}
	if err := s.scheduler().Restore(saved); err != nil {
		s.lost.Add(1)
		s.denied.Store(true)
		return
	}
	runtime.UnlockOSThread()
}

// raiseMax raises *w to at least p and returns the resulting maximum.
func raiseMax(w *atomix.Int32, p int32) int32 {
	for {
		cur := atom.Get(w)
		if p <= cur {
			return cur
		}
		if atom.CompareAndSwap(w, p, cur) {
			return p
		}
	}
}
