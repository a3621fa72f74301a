// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfs

import "code.hybscloud.com/iox"

// ErrWouldBlock is returned by [Pool.Get] while every element is checked
// out. It is the same value as [iox.ErrWouldBlock].
//
// The pool has nothing to hand out right now; a later Get succeeds once
// some holder calls Put. Stacks never return it, an empty Pop yields nil.
//
// Example:
//
//	backoff := iox.Backoff{}
//	e, err := pool.Get()
//	for lfs.IsWouldBlock(err) {
//	    backoff.Wait()
//	    e, err = pool.Get()
//	}
//	backoff.Reset()
var ErrWouldBlock = iox.ErrWouldBlock

// IsWouldBlock reports whether err, or any error it wraps, is ErrWouldBlock.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}
