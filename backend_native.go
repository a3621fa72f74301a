// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build (amd64 || arm64) && !lfs_guarded

package lfs

// Backend names the stack implementation compiled into this build.
const Backend = "native"

// backend binds Stack to the lock-free implementation. amd64 and arm64
// provide the 128-bit CAS (CMPXCHG16B, CASP) it is built on.
type backend[T any] struct {
	nativeStack[T]
}
