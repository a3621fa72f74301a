// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !(amd64 || arm64) || lfs_guarded

package lfs

// Backend names the stack implementation compiled into this build.
const Backend = "guarded"

// backend binds Stack to the spin-lock implementation. Selected on targets
// without a native double-width CAS, or forced with the lfs_guarded tag.
type backend[T any] struct {
	guardedStack[T]
}
