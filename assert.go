// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfs

// Precondition checks. Callers guard them with debugEnabled so release
// builds compile them away.

func assertAligned[T any](e *Element[T]) {
	if e == nil {
		panic("lfs: nil element")
	}
	if e.addr()%ElementAlign != 0 {
		panic("lfs: misaligned element")
	}
}

// assertNotTop catches the cheapest double push: pushing the current top.
func assertNotTop[T any](e, top *Element[T]) {
	if e == top {
		panic("lfs: element pushed twice")
	}
}

// assertHeadAligned checks the 16-byte placement a double-width CAS needs.
func assertHeadAligned(addr uintptr) {
	if addr%16 != 0 {
		panic("lfs: misaligned head")
	}
}
