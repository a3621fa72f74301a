// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lfs provides an intrusive multi-producer multi-consumer LIFO stack
// and the spin lock it falls back on.
//
// The stack is the building block for free-lists and object pools:
//
//   - Stack: intrusive LIFO with Push, Pop, Flush and Depth
//   - Arena: fixed slab of elements that keeps them reachable
//   - Pool:  arena plus free-list with lazy or eager allocation
//   - SpinLock: test-and-set lock with three-tier backoff
//
// Atomic read/modify/write primitives live in [code.hybscloud.com/lfs/atom].
//
// # Quick Start
//
//	arena := lfs.NewArena[Request](1024)
//	free := lfs.NewStack[Request]()
//	for i := range arena.Len() {
//	    free.Push(arena.At(i))
//	}
//
//	e := free.Pop() // nil when empty
//	if e != nil {
//	    handle(&e.Value)
//	    free.Push(e)
//	}
//
// Object pool with backpressure:
//
//	pool := lfs.BuildPool[Request](lfs.New(1024), nil)
//
//	backoff := iox.Backoff{}
//	for {
//	    e, err := pool.Get()
//	    if err == nil {
//	        backoff.Reset()
//	        handle(&e.Value)
//	        pool.Put(e)
//	        break
//	    }
//	    backoff.Wait()
//	}
//
// # Elements and Ownership
//
// An [Element] embeds one ownership-free link to the next element. While an
// element is linked, the stack holds it and the caller must not mutate it.
// Pop transfers exclusive ownership to the popping goroutine.
//
// Links are raw addresses the garbage collector does not trace. Elements must
// therefore stay reachable while linked; allocating them from an [Arena] that
// outlives the stack guarantees that.
//
// # Backends
//
// The backend is fixed at build time and reported by [Backend]:
//
//	native  - amd64, arm64: lock-free, one 128-bit CAS per operation
//	guarded - other targets, or -tags lfs_guarded: SpinLock critical section
//
// The native head packs the top address with a sequence tag and the depth.
// The tag changes on every operation, so a stale CAS cannot succeed after the
// same element was popped and pushed back (ABA).
//
// The guarded backend boosts the calling thread while it holds the lock to
// the highest priority any caller has requested, approximating priority
// inheritance. Boosting uses per-thread nice values on Linux and is a no-op
// elsewhere; without the privilege to raise priorities it disables itself.
//
// # Error Handling
//
// Stack operations never return errors. Misuse (misaligned or foreign
// elements, double push) is a precondition violation: with -tags lfs_debug
// the cheap checks panic, otherwise behavior is undefined.
//
// [Pool.Get] returns [ErrWouldBlock] when exhausted. This error is sourced
// from [code.hybscloud.com/iox] for ecosystem consistency.
//
// # Flush
//
// Flush detaches every element at once without returning them. Elements stay
// owned by their arena; [Pool.Reclaim] re-links a pool's whole arena after a
// Flush or after abandoning checked-out elements.
//
// # Race Detection
//
// Go's race detector cannot observe the happens-before edges that atomix
// operations establish. Tests that publish plain memory through them are
// skipped when [RaceEnabled] is set.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for atomic words including
// the 128-bit head, [code.hybscloud.com/spin] for CPU pause hints and
// [code.hybscloud.com/iox] for semantic errors.
package lfs
