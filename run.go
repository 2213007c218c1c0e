// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"context"

	"code.hybscloud.com/iox"
)

// RunUntil repeats passes from start until done reports true or ctx ends.
// A pass that neither resolved a yield nor invoked a continuation means
// every microthread waits on something outside the scheduler (typically a
// [Completion]); RunUntil then waits with adaptive backoff (iox.Backoff)
// instead of spinning. Returns ctx.Err() when ctx ends first.
func (s *Scheduler) RunUntil(ctx context.Context, start *SyncPoint, done func() bool) error {
	var bo iox.Backoff
	for !done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		before := s.progress.Load()
		s.Run(start)
		if s.progress.Load() == before {
			bo.Wait()
		} else {
			bo.Reset()
		}
	}
	return nil
}

// AllDone returns a predicate for [Scheduler.RunUntil] that holds once
// every microthread in mts reached a terminal state.
func AllDone(mts ...*MicroThread) func() bool {
	return func() bool {
		for _, mt := range mts {
			if !mt.Done() {
				return false
			}
		}
		return true
	}
}
