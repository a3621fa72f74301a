// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !lfs_debug

package lfs

// debugEnabled is false in release builds; preconditions are not checked.
const debugEnabled = false
