// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfs

import (
	"runtime"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lfs/atom"
	"code.hybscloud.com/spin"
)

const (
	tryLockRounds  = 10   // CAS attempts made by TryLock
	tryLockSpins   = 100  // re-tests between TryLock attempts
	lockSpinRounds = 10   // tight spin before the yielding phase
	yieldSpins     = 1000 // re-tests per yield round
	yieldHints     = 10   // wait hints per re-test in a yield round
)

// SpinLock is a test-and-set lock on a single 32-bit word.
//
// 0 is unlocked, 1 is locked. The zero value is unlocked. SpinLock is not
// reentrant and has no owner: any goroutine may unlock it.
//
// Lock backs off in three tiers: an immediate CAS, a tight spin with CPU
// wait hints, then an unbounded loop of yield rounds that end in
// runtime.Gosched while the lock is still held. It never blocks in the OS.
type SpinLock struct {
	word atomix.Int32
}

// TryLock attempts to acquire the lock without blocking.
func (l *SpinLock) TryLock() bool {
	return TryLockWord(&l.word)
}

// Lock acquires the lock.
func (l *SpinLock) Lock() {
	LockWord(&l.word)
}

// Unlock releases the lock.
func (l *SpinLock) Unlock() {
	UnlockWord(&l.word)
}

// TryLockWord attempts to lock w with a bounded spin.
// Returns true the moment a swap from 0 to 1 succeeds.
func TryLockWord(w *atomix.Int32) bool {
	sw := spin.Wait{}
	for range tryLockRounds {
		if atom.CompareAndSwap(w, 1, 0) {
			return true
		}
		for i := 0; i < tryLockSpins && w.LoadRelaxed() != 0; i++ {
			sw.Once()
		}
	}
	return false
}

// LockWord locks w, spinning and yielding for as long as it takes.
func LockWord(w *atomix.Int32) {
	if atom.CompareAndSwap(w, 1, 0) {
		return
	}

	sw := spin.Wait{}
	for range lockSpinRounds {
		if w.LoadRelaxed() == 0 && atom.CompareAndSwap(w, 1, 0) {
			return
		}
		sw.Once()
	}

	for {
		for range yieldSpins {
			if w.LoadRelaxed() == 0 && atom.CompareAndSwap(w, 1, 0) {
				return
			}
			for range yieldHints {
				sw.Once()
			}
		}
		if w.LoadRelaxed() != 0 {
			runtime.Gosched()
			sw.Reset()
		}
	}
}

// UnlockWord unlocks w. The fence orders every write made under the lock
// before the store that releases it.
func UnlockWord(w *atomix.Int32) {
	atom.Fence()
	w.Store(0)
}
