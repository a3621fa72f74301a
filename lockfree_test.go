// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfs_test

import (
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfs"
)

// =============================================================================
// High-Contention Stress Tests (Weak Memory Model Verification)
// =============================================================================

// startStressWatchdog closes done once no operation has completed for
// progressTimeout, flagging a livelock or lost wakeup.
func startStressWatchdog(
	done chan struct{},
	closeOnce *sync.Once,
	timedOut *atomix.Bool,
	ops *atomix.Int64,
	totalOps int64,
) {
	const (
		stressTick      = 20 * time.Millisecond
		progressTimeout = 10 * time.Second
	)

	go func() {
		ticker := time.NewTicker(stressTick)
		defer ticker.Stop()

		last := ops.Load()
		lastProgress := time.Now()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				current := ops.Load()
				if current != last {
					last = current
					lastProgress = time.Now()
					continue
				}
				if current < totalOps && time.Since(lastProgress) >= progressTimeout {
					timedOut.Store(true)
					closeOnce.Do(func() { close(done) })
					return
				}
			}
		}
	}()
}

// TestHighContentionStress runs 8 workers, each pushing its own elements
// and popping whatever is on top. Every element must be popped exactly once
// across the run and the final drain.
func TestHighContentionStress(t *testing.T) {
	if lfs.RaceEnabled {
		t.Skip("skip: lock-free algorithm uses cross-variable memory ordering")
	}
	if testing.Short() {
		t.Skip("skip: stress test")
	}

	const (
		numWorkers = 8
		perWorker  = 10000
		totalItems = numWorkers * perWorker
	)

	arena := lfs.NewArena[int](totalItems)
	s := lfs.NewStack[int]()
	seen := make([]atomix.Int32, totalItems)
	var ops, foreign atomix.Int64
	var closeOnce sync.Once
	var timedOut atomix.Bool
	done := make(chan struct{})

	startStressWatchdog(done, &closeOnce, &timedOut, &ops, int64(totalItems))

	var wg sync.WaitGroup
	for w := range numWorkers {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			base := id * perWorker
			for i := range perWorker {
				select {
				case <-done:
					return
				default:
				}
				s.Push(arena.At(base + i))
				if e := s.Pop(); e != nil {
					idx, ok := arena.Index(e)
					if !ok {
						foreign.Add(1)
						continue
					}
					seen[idx].Add(1)
				}
				ops.Add(1)
			}
		}(w)
	}
	wg.Wait()
	closeOnce.Do(func() { close(done) })

	if timedOut.Load() {
		t.Fatalf("stack stress timeout (ops=%d)", ops.Load())
	}
	if foreign.Load() > 0 {
		t.Fatalf("foreign elements: %d", foreign.Load())
	}

	for e := s.Pop(); e != nil; e = s.Pop() {
		idx, _ := arena.Index(e)
		seen[idx].Add(1)
	}
	if d := s.Depth(); d != 0 {
		t.Fatalf("Depth after drain: got %d, want 0", d)
	}

	var missing, duplicates int
	for i := range totalItems {
		switch n := seen[i].Load(); {
		case n == 0:
			missing++
		case n > 1:
			duplicates++
		}
	}
	if duplicates > 0 {
		t.Fatalf("data corruption: %d duplicates", duplicates)
	}
	if missing > 0 {
		t.Fatalf("lost elements: %d missing", missing)
	}
}

// TestHighContentionPool checks out elements, writes a worker tag into the
// value, verifies it and returns the element. A tag overwritten in between
// means two goroutines held the same element.
func TestHighContentionPool(t *testing.T) {
	if testing.Short() {
		t.Skip("skip: stress test")
	}
	if lfs.RaceEnabled {
		t.Skip("skip: lock-free algorithm uses cross-variable memory ordering")
	}

	const (
		numWorkers = 16
		rounds     = 5000
		poolCap    = 8
	)

	for _, lazy := range []bool{false, true} {
		name := "Eager"
		b := lfs.New(poolCap)
		if lazy {
			name = "Lazy"
			b = b.Lazy()
		}
		t.Run(name, func(t *testing.T) {
			pool := lfs.BuildPool[int](b, nil)
			var corrupt, blocked atomix.Int64

			var wg sync.WaitGroup
			for w := range numWorkers {
				wg.Add(1)
				go func(id int) {
					defer wg.Done()
					backoff := iox.Backoff{}
					for range rounds {
						e, err := pool.Get()
						for lfs.IsWouldBlock(err) {
							blocked.Add(1)
							backoff.Wait()
							e, err = pool.Get()
						}
						backoff.Reset()
						e.Value = id
						for range 10 {
							if e.Value != id {
								corrupt.Add(1)
								break
							}
						}
						pool.Put(e)
					}
				}(w + 1)
			}
			wg.Wait()

			if corrupt.Load() > 0 {
				t.Fatalf("shared elements: %d corrupt values", corrupt.Load())
			}
			if got := pool.Available(); got != poolCap {
				t.Fatalf("Available after run: got %d, want %d", got, poolCap)
			}
			t.Logf("%s pool: blocked=%d", name, blocked.Load())
		})
	}
}

// TestSpinLockMutualExclusion increments a plain counter under the lock.
func TestSpinLockMutualExclusion(t *testing.T) {
	if lfs.RaceEnabled {
		t.Skip("skip: lock-free algorithm uses cross-variable memory ordering")
	}

	const (
		numWorkers = 8
		perWorker  = 100000
	)

	var l lfs.SpinLock
	counter := 0

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				l.Lock()
				counter++
				l.Unlock()
			}
		}()
	}
	wg.Wait()

	if counter != numWorkers*perWorker {
		t.Fatalf("counter: got %d, want %d", counter, numWorkers*perWorker)
	}
}

// TestSpinLockWordTryLock mixes TryLockWord with LockWord on a shared word.
func TestSpinLockWordTryLock(t *testing.T) {
	if lfs.RaceEnabled {
		t.Skip("skip: lock-free algorithm uses cross-variable memory ordering")
	}

	const (
		numWorkers = 4
		perWorker  = 20000
	)

	var w atomix.Int32
	var held atomix.Int32
	var overlap, tried atomix.Int64

	var wg sync.WaitGroup
	for id := range numWorkers {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for range perWorker {
				if id%2 == 0 {
					if !lfs.TryLockWord(&w) {
						tried.Add(1)
						continue
					}
				} else {
					lfs.LockWord(&w)
				}
				if held.Add(1) != 1 {
					overlap.Add(1)
				}
				held.Add(-1)
				lfs.UnlockWord(&w)
			}
		}(id)
	}
	wg.Wait()

	if overlap.Load() > 0 {
		t.Fatalf("overlapping holders: %d", overlap.Load())
	}
	if w.Load() != 0 {
		t.Fatalf("word after run: got %d, want 0", w.Load())
	}
	t.Logf("TryLockWord failures: %d", tried.Load())
}
