// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !race

// The race detector cannot observe the ordering provided by atomix
// operations, so publishing plain writes through them reads as a race.

package atom_test

import (
	"runtime"
	"testing"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lfs/atom"
)

// TestFencePublishes checks that writes made before Set are visible after Get
// observes the stored value.
func TestFencePublishes(t *testing.T) {
	var flag atomix.Int32
	data := make([]int, 64)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for atom.Get(&flag) == 0 {
			runtime.Gosched()
		}
		for i, d := range data {
			if d != i {
				t.Errorf("data[%d]: got %d, want %d", i, d, i)
			}
		}
	}()

	for i := range data {
		data[i] = i
	}
	atom.Set(&flag, 1)
	<-done
}

// TestCompareAndSwapOrdersLoads runs the store-buffering pattern with CAS as
// the store. A full barrier forbids both goroutines reading the other's word
// as zero.
func TestCompareAndSwapOrdersLoads(t *testing.T) {
	const rounds = 20000

	for round := range rounds {
		var x, y atomix.Int32
		var rx, ry int32
		start := make(chan struct{})
		done := make(chan struct{}, 2)

		go func() {
			<-start
			atom.CompareAndSwap(&x, 1, 0)
			ry = y.Load()
			done <- struct{}{}
		}()
		go func() {
			<-start
			atom.CompareAndSwap(&y, 1, 0)
			rx = x.Load()
			done <- struct{}{}
		}()
		close(start)
		<-done
		<-done

		if rx == 0 && ry == 0 {
			t.Fatalf("round %d: both loads observed 0", round)
		}
	}
}

func TestCompareAndSwapPtrOrdersLoads(t *testing.T) {
	const rounds = 20000
	one := new(int)

	for round := range rounds {
		var x, y atomix.Pointer[int]
		var rx, ry *int
		start := make(chan struct{})
		done := make(chan struct{}, 2)

		go func() {
			<-start
			atom.CompareAndSwapPtr(&x, one, nil)
			ry = y.Load()
			done <- struct{}{}
		}()
		go func() {
			<-start
			atom.CompareAndSwapPtr(&y, one, nil)
			rx = x.Load()
			done <- struct{}{}
		}()
		close(start)
		<-done
		<-done

		if rx == nil && ry == nil {
			t.Fatalf("round %d: both loads observed nil", round)
		}
	}
}
