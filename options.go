// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfs

import "unsafe"

// Options configures pool creation.
type Options struct {
	// Capacity (number of arena elements)
	capacity int

	// Allocation hint
	lazy bool // Hand out untouched slots on demand instead of prefilling
}

// Builder creates pools with fluent configuration.
//
// Example:
//
//	// Eager pool: every element linked into the free-list up front
//	pool := lfs.BuildPool[Conn](lfs.New(256), nil)
//
//	// Lazy pool: slots handed out in arena order on first use
//	pool := lfs.BuildPool[Conn](lfs.New(256).Lazy(), resetConn)
type Builder struct {
	opts Options
}

// New creates a pool builder with the given capacity.
//
// Panics if capacity < 1.
//
// Example:
//
//	b := lfs.New(1024)
//	pool := lfs.BuildPool[Buffer](b.Lazy(), nil)
func New(capacity int) *Builder {
	if capacity < 1 {
		panic("lfs: capacity must be >= 1")
	}
	return &Builder{opts: Options{capacity: capacity}}
}

// Lazy defers linking arena slots into the free-list.
//
// Trade-off: construction is O(1) and untouched slots are handed out in
// arena order, at the cost of one extra atomic on Get once the free-list
// runs dry.
func (b *Builder) Lazy() *Builder {
	b.opts.lazy = true
	return b
}

// BuildPool creates a Pool[T] from the builder configuration.
// reset, when non-nil, runs on every value returned through Put.
func BuildPool[T any](b *Builder, reset func(*T)) *Pool[T] {
	return newPool[T](b.opts, reset)
}

// ptrSize is the size of a pointer in bytes.
const ptrSize = unsafe.Sizeof(uintptr(0))

// pad is cache line padding to prevent false sharing.
type pad [64]byte
