// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import "context"

// yieldCapacity is the default ring capacity of the pending-yield queue.
// Bursts beyond it spill into an overflow list; they are never dropped.
const yieldCapacity = 256

// phaseCapacity is the ring capacity of each sync point queue.
const phaseCapacity = 64

// tokenPoolCapacity bounds the number of idle tokens kept for reuse.
const tokenPoolCapacity = 1024

// Option configures a [Scheduler].
type Option func(*config)

type config struct {
	yieldCapacity int
	observer      Observer
}

// WithYieldCapacity sets the ring capacity of the pending-yield queue.
func WithYieldCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.yieldCapacity = n
		}
	}
}

// WithObserver installs o to receive visit and termination notifications.
func WithObserver(o Observer) Option {
	return func(c *config) {
		c.observer = o
	}
}

// SpawnOption configures a microthread created by [Scheduler.Add].
type SpawnOption func(*MicroThread)

// WithPriority records an informational priority on the microthread.
// Ordering within a phase stays FIFO.
func WithPriority(p int) SpawnOption {
	return func(mt *MicroThread) {
		mt.priority = p
	}
}

// WithContext binds ctx to the microthread. Cancellation of ctx is reported
// by [Check] and observed by bodies through [CheckThen].
func WithContext(ctx context.Context) SpawnOption {
	return func(mt *MicroThread) {
		mt.ctx = ctx
	}
}

// Observer receives scheduler notifications on the dispatch goroutine.
// Implementations must not call back into the scheduler.
type Observer interface {
	// OnVisit is called at the start of each phase visit.
	OnVisit(frame uint64, sp *SyncPoint)
	// OnTerminal is called once when a microthread reaches a terminal state.
	OnTerminal(mt *MicroThread)
}
