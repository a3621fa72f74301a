// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfs

import (
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// nativeStack is a lock-free Treiber stack on a double-width CAS.
//
// The head entry packs the top element address with a version tag and the
// depth, so every push, pop and flush is a single 128-bit CAS:
//
//	Entry format: [lo=top address | hi=seq<<32 | depth]
//
// seq advances on every successful operation. A pop that read a stale top
// fails its CAS even if the same address was pushed back in between, which
// rules out ABA for the lifetime of a 32-bit sequence.
//
// The entry needs 16-byte alignment that Go does not guarantee for a field,
// so it lives at the first aligned offset of buf. The zero value is an
// empty stack. It must not be copied after first use.
type nativeStack[T any] struct {
	_   pad
	buf [32]byte
	_   pad
}

// slot returns the aligned head entry inside buf. The offset is recomputed
// on every call because a stack held on a goroutine stack may move.
func (s *nativeStack[T]) slot() *atomix.Uint128 {
	_, h := atomix.PlaceAlignedUint128(s.buf[:], 0)
	if debugEnabled {
		assertHeadAligned(uintptr(unsafe.Pointer(h)))
	}
	return h
}

func packTag(seq, depth uint32) uint64 {
	return uint64(seq)<<32 | uint64(depth)
}

func unpackTag(tag uint64) (seq, depth uint32) {
	return uint32(tag >> 32), uint32(tag)
}

func (s *nativeStack[T]) push(e *Element[T]) {
	if debugEnabled {
		assertAligned(e)
	}

	head := s.slot()
	addr := uint64(e.addr())
	sw := spin.Wait{}
	for {
		top, tag := head.LoadAcquire()
		next := elementAt[T](uintptr(top))
		if debugEnabled {
			assertNotTop(e, next)
		}
		e.next.StoreRelaxed(next)
		seq, depth := unpackTag(tag)
		if head.CompareAndSwapAcqRel(top, tag, addr, packTag(seq+1, depth+1)) {
			return
		}
		sw.Once()
	}
}

func (s *nativeStack[T]) pop() *Element[T] {
	head := s.slot()
	sw := spin.Wait{}
	for {
		top, tag := head.LoadAcquire()
		if top == 0 {
			return nil
		}
		// Arena-backed elements stay mapped, so reading a link of a node
		// that another goroutine has already popped is safe; the tag makes
		// the CAS below fail in that case.
		e := elementAt[T](uintptr(top))
		next := e.next.LoadAcquire()
		seq, depth := unpackTag(tag)
		if head.CompareAndSwapAcqRel(top, tag, uint64(next.addr()), packTag(seq+1, depth-1)) {
			e.next.StoreRelaxed(nil)
			return e
		}
		sw.Once()
	}
}

// flush detaches every element with one CAS. Under concurrent pushes it
// clears a snapshot; elements pushed afterwards stay linked.
func (s *nativeStack[T]) flush() {
	head := s.slot()
	sw := spin.Wait{}
	for {
		top, tag := head.LoadAcquire()
		seq, depth := unpackTag(tag)
		if top == 0 && depth == 0 {
			return
		}
		if head.CompareAndSwapAcqRel(top, tag, 0, packTag(seq+1, 0)) {
			return
		}
		sw.Once()
	}
}

func (s *nativeStack[T]) count() int {
	_, tag := s.slot().LoadAcquire()
	_, depth := unpackTag(tag)
	return int(int32(depth))
}

// seq returns the current version tag.
func (s *nativeStack[T]) seq() uint32 {
	_, tag := s.slot().LoadAcquire()
	seq, _ := unpackTag(tag)
	return seq
}
