// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sched exposes the calling OS thread's scheduling priority.
//
// Priorities are ordered: a larger value is more urgent. Callers that query
// and change the priority of "the calling thread" must hold the goroutine on
// its thread with runtime.LockOSThread for the duration.
package sched

// Priority is a platform-neutral thread priority level.
type Priority int32

const (
	Low Priority = iota
	BelowNormal
	Normal
	AboveNormal
	High
	TimeCritical
	RealtimeBase
	RealtimeMiddle
	RealtimeTop
)

// String returns the level name.
func (p Priority) String() string {
	switch p {
	case Low:
		return "low"
	case BelowNormal:
		return "below-normal"
	case Normal:
		return "normal"
	case AboveNormal:
		return "above-normal"
	case High:
		return "high"
	case TimeCritical:
		return "time-critical"
	case RealtimeBase:
		return "realtime-base"
	case RealtimeMiddle:
		return "realtime-middle"
	case RealtimeTop:
		return "realtime-top"
	}
	return "unknown"
}

// Scheduler reads and writes the priority of the calling OS thread.
type Scheduler interface {
	// Priority returns the calling thread's current priority.
	Priority() Priority

	// SetPriority changes the calling thread's priority.
	// The change is best-effort: insufficient privileges leave the
	// priority unchanged and are reported as an error.
	SetPriority(p Priority) error

	// Save returns the calling thread's raw OS priority value. Several raw
	// values map to one Priority level, so a boost must be undone with
	// Restore rather than SetPriority.
	Save() (int, error)

	// Restore sets the calling thread's raw OS priority value.
	Restore(native int) error
}

// Default returns the scheduler for the host OS, or nil where thread
// priorities cannot be changed.
func Default() Scheduler {
	return defaultScheduler()
}
