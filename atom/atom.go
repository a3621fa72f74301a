// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package atom provides full-barrier atomic read/modify/write primitives.
//
// Every other component of lfs is built from these operations. Unlike the
// method set of [code.hybscloud.com/atomix] with its explicit orderings,
// the functions here always attach a full fence:
//
//	Add            - single RMW instruction, returns the previous value
//	Set            - store, then fence
//	Get            - fence, then load
//	CompareAndSwap - single CAS, no built-in retry loop
//
// Note the CompareAndSwap argument order: the new value comes before the
// expected one.
//
//	var w atomix.Int32
//	prev := atom.Add(&w, 3)           // prev == 0, w == 3
//	ok := atom.CompareAndSwap(&w, 7, 3) // ok == true, w == 7
//
// Misuse (nil word, word shared with plain loads/stores) is a precondition
// violation and is never reported as an error.
package atom

import "code.hybscloud.com/atomix"

// fenceWord is the target of the read-modify-write used as a fence.
// Padded so unrelated data does not share its cache line.
var fenceWord struct {
	_ [64]byte
	w atomix.Int32
	_ [64 - 4]byte
}

// Fence establishes a full memory barrier.
//
// Go has no standalone fence instruction; a sequentially consistent
// read-modify-write is a full barrier on every supported architecture.
func Fence() {
	fenceWord.w.Add(0)
}

// Add atomically adds delta to *v and returns the value *v held
// immediately before the operation.
func Add(v *atomix.Int32, delta int32) int32 {
	return v.Add(delta) - delta
}

// Set atomically stores value into *v followed by a full fence.
// Returns value.
func Set(v *atomix.Int32, value int32) int32 {
	v.Store(value)
	Fence()
	return value
}

// Get issues a full fence and then atomically loads *v.
func Get(v *atomix.Int32) int32 {
	Fence()
	return v.Load()
}

// CompareAndSwap stores newValue into *v iff *v == expected at the instant
// of the attempt. Returns whether the swap happened.
func CompareAndSwap(v *atomix.Int32, newValue, expected int32) bool {
	return v.CompareAndSwap(expected, newValue)
}

// SetPtr atomically stores p into *v followed by a full fence.
// Returns p.
func SetPtr[T any](v *atomix.Pointer[T], p *T) *T {
	v.Store(p)
	Fence()
	return p
}

// GetPtr issues a full fence and then atomically loads *v.
func GetPtr[T any](v *atomix.Pointer[T]) *T {
	Fence()
	return v.Load()
}

// CompareAndSwapPtr stores newPtr into *v iff *v == expected.
// Returns whether the swap happened.
func CompareAndSwapPtr[T any](v *atomix.Pointer[T], newPtr, expected *T) bool {
	return v.CompareAndSwap(expected, newPtr)
}
