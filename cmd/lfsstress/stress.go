// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"golang.org/x/sync/errgroup"

	"code.hybscloud.com/lfs"
	"code.hybscloud.com/lfs/metrics"
)

// checkEvery is how many operations a worker runs between context checks.
const checkEvery = 1024

type options struct {
	Workers  int
	Ops      int // per worker
	Capacity int // pool capacity
}

func (o options) validate() error {
	switch {
	case o.Workers < 1:
		return fmt.Errorf("workers must be >= 1, got %d", o.Workers)
	case o.Ops < 1:
		return fmt.Errorf("ops must be >= 1, got %d", o.Ops)
	case o.Capacity < 1:
		return fmt.Errorf("capacity must be >= 1, got %d", o.Capacity)
	}
	return nil
}

type report struct {
	Name     string
	Ops      int64
	Duration time.Duration
}

func (r report) opsPerSecond() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return float64(r.Ops) / r.Duration.Seconds()
}

type stressFunc func(ctx context.Context, o options, col *metrics.Collector) (report, error)

// stackStress gives every worker its own element range. A worker pushes one
// of its elements and pops whatever is on top. After the run every element
// must have been popped exactly once.
func stackStress(ctx context.Context, o options, col *metrics.Collector) (report, error) {
	total := o.Workers * o.Ops
	arena := lfs.NewArena[int](total)
	s := lfs.NewStack[int]()
	if col != nil {
		if err := col.Register("stack", s); err != nil {
			return report{}, err
		}
	}
	seen := make([]atomix.Int32, total)
	var ops, foreign atomix.Int64

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for w := range o.Workers {
		g.Go(func() error {
			base := w * o.Ops
			for i := range o.Ops {
				if i%checkEvery == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				s.Push(arena.At(base + i))
				if e := s.Pop(); e != nil {
					idx, ok := arena.Index(e)
					if !ok {
						foreign.Add(1)
						continue
					}
					seen[idx].Add(1)
				}
				ops.Add(2)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report{}, err
	}
	elapsed := time.Since(start)

	for e := s.Pop(); e != nil; e = s.Pop() {
		idx, _ := arena.Index(e)
		seen[idx].Add(1)
	}
	if n := foreign.Load(); n > 0 {
		return report{}, fmt.Errorf("popped %d foreign elements", n)
	}
	if d := s.Depth(); d != 0 {
		return report{}, fmt.Errorf("depth after drain: got %d, want 0", d)
	}
	for i := range seen {
		if n := seen[i].Load(); n != 1 {
			return report{}, fmt.Errorf("element %d popped %d times, want 1", i, n)
		}
	}
	return report{Name: "stack", Ops: ops.Load(), Duration: elapsed}, nil
}

// poolStress checks elements out of a small pool and stamps them with the
// worker id. The reset hook clears the stamp on Put, so Get must always see
// a zero value.
func poolStress(ctx context.Context, o options, col *metrics.Collector) (report, error) {
	pool := lfs.BuildPool[int](lfs.New(o.Capacity).Lazy(), func(v *int) { *v = 0 })
	if col != nil {
		if err := col.Register("pool", pool); err != nil {
			return report{}, err
		}
	}
	var ops atomix.Int64

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for w := range o.Workers {
		id := w + 1
		g.Go(func() error {
			backoff := iox.Backoff{}
			for i := range o.Ops {
				if i%checkEvery == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				e, err := pool.Get()
				for lfs.IsWouldBlock(err) {
					if err := ctx.Err(); err != nil {
						return err
					}
					backoff.Wait()
					e, err = pool.Get()
				}
				backoff.Reset()
				// A nonzero value is either a missed reset or a stamp of a
				// worker that still holds the element.
				if e.Value != 0 {
					return fmt.Errorf("worker %d: element holds stamp %d", id, e.Value)
				}
				e.Value = id
				pool.Put(e)
				ops.Add(2)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report{}, err
	}
	elapsed := time.Since(start)

	if got := pool.Available(); got != pool.Cap() {
		return report{}, fmt.Errorf("available after run: got %d, want %d", got, pool.Cap())
	}
	return report{Name: "pool", Ops: ops.Load(), Duration: elapsed}, nil
}

// spinLockStress increments a plain counter under a SpinLock.
func spinLockStress(ctx context.Context, o options, _ *metrics.Collector) (report, error) {
	var l lfs.SpinLock
	counter := 0

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for range o.Workers {
		g.Go(func() error {
			for i := range o.Ops {
				if i%checkEvery == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				l.Lock()
				counter++
				l.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report{}, err
	}
	elapsed := time.Since(start)

	if want := o.Workers * o.Ops; counter != want {
		return report{}, fmt.Errorf("counter: got %d, want %d", counter, want)
	}
	return report{Name: "spinlock", Ops: int64(counter), Duration: elapsed}, nil
}

var errUnknownTest = errors.New("unknown test")

var stressTests = map[string]stressFunc{
	"stack":    stackStress,
	"pool":     poolStress,
	"spinlock": spinLockStress,
}

// selectTests resolves names against stressTests in order.
func selectTests(names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := stressTests[name]; !ok {
			return nil, fmt.Errorf("%w: %q", errUnknownTest, name)
		}
		out = append(out, name)
	}
	return out, nil
}
