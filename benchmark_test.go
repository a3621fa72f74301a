// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfs_test

import (
	"runtime"
	"sync"
	"testing"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lfs"
	"code.hybscloud.com/spin"
)

// =============================================================================
// Baselines
// =============================================================================

func BenchmarkStack_SingleOp(b *testing.B) {
	arena := lfs.NewArena[int](1)
	s := lfs.NewStack[int]()
	e := arena.At(0)

	b.ResetTimer()
	for range b.N {
		s.Push(e)
		s.Pop()
	}
}

func BenchmarkMutexSlice_SingleOp(b *testing.B) {
	var mu sync.Mutex
	stack := make([]*int, 0, 1)
	v := 0

	b.ResetTimer()
	for range b.N {
		mu.Lock()
		stack = append(stack, &v)
		mu.Unlock()
		mu.Lock()
		stack = stack[:len(stack)-1]
		mu.Unlock()
	}
}

func BenchmarkPool_GetPut(b *testing.B) {
	pool := lfs.BuildPool[[64]byte](lfs.New(16), nil)

	b.ResetTimer()
	for range b.N {
		e, err := pool.Get()
		if err != nil {
			b.Fatal(err)
		}
		pool.Put(e)
	}
}

func BenchmarkSpinLock_Uncontended(b *testing.B) {
	var l lfs.SpinLock

	b.ResetTimer()
	for range b.N {
		l.Lock()
		l.Unlock()
	}
}

// =============================================================================
// Parallel Benchmarks
// =============================================================================

// BenchmarkStack_Parallel gives each goroutine one element. A goroutine
// pushes the element it holds and pops another, so the stack is never empty
// when a holder pops.
func BenchmarkStack_Parallel(b *testing.B) {
	procs := runtime.GOMAXPROCS(0)
	arena := lfs.NewArena[int](procs)
	s := lfs.NewStack[int]()
	var next atomix.Int32

	b.SetParallelism(1)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		e := arena.At(int(next.Add(1) - 1))
		sw := spin.Wait{}
		for pb.Next() {
			s.Push(e)
			for e = s.Pop(); e == nil; e = s.Pop() {
				sw.Once()
			}
			sw.Reset()
		}
	})
}

func BenchmarkPool_Parallel(b *testing.B) {
	pool := lfs.BuildPool[[64]byte](lfs.New(runtime.GOMAXPROCS(0)*2), nil)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		sw := spin.Wait{}
		for pb.Next() {
			e, err := pool.Get()
			for err != nil {
				sw.Once()
				e, err = pool.Get()
			}
			sw.Reset()
			pool.Put(e)
		}
	})
}

func BenchmarkSpinLock_Parallel(b *testing.B) {
	var l lfs.SpinLock
	counter := 0

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			l.Lock()
			counter++
			l.Unlock()
		}
	})
	_ = counter
}
