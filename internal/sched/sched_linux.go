// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package sched

import "golang.org/x/sys/unix"

// niceLevels maps Priority to the Linux nice value of a SCHED_OTHER thread.
// The realtime levels all saturate at the strongest nice value.
var niceLevels = [...]int{
	Low:            10,
	BelowNormal:    5,
	Normal:         0,
	AboveNormal:    -5,
	High:           -10,
	TimeCritical:   -15,
	RealtimeBase:   -20,
	RealtimeMiddle: -20,
	RealtimeTop:    -20,
}

// linuxScheduler adjusts per-thread nice values. On Linux PRIO_PROCESS
// with who == 0 addresses the calling thread only.
type linuxScheduler struct{}

func defaultScheduler() Scheduler {
	return linuxScheduler{}
}

func (s linuxScheduler) Priority() Priority {
	nice, err := s.Save()
	if err != nil {
		return Normal
	}
	return fromNice(nice)
}

func (linuxScheduler) SetPriority(p Priority) error {
	return unix.Setpriority(unix.PRIO_PROCESS, 0, toNice(p))
}

// Save returns the nice value of the calling thread.
func (linuxScheduler) Save() (int, error) {
	// The raw syscall reports 20 - nice.
	raw, err := unix.Getpriority(unix.PRIO_PROCESS, 0)
	if err != nil {
		return 0, err
	}
	return 20 - raw, nil
}

// Restore sets the nice value of the calling thread.
func (linuxScheduler) Restore(nice int) error {
	return unix.Setpriority(unix.PRIO_PROCESS, 0, nice)
}

func toNice(p Priority) int {
	if p < Low {
		p = Low
	}
	if p > RealtimeTop {
		p = RealtimeTop
	}
	return niceLevels[p]
}

// fromNice returns the highest level whose nice value is not stronger
// than nice.
func fromNice(nice int) Priority {
	for p := RealtimeBase; p > Low; p-- {
		if nice <= niceLevels[p] {
			return p
		}
	}
	return Low
}
