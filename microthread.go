// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"context"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/kont"
)

// State is the lifecycle state of a microthread.
type State uint32

const (
	// Starting: spawned, body not entered yet.
	Starting State = iota
	// Running: body entered and not finished. Includes suspended.
	Running
	// Completed: body returned normally.
	Completed
	// Canceled: body ended with a cancellation signal.
	Canceled
	// Failed: body ended with any other error or panic.
	Failed
)

func (s State) String() string {
	switch s {
	case Starting:
		return "Starting"
	case Running:
		return "Running"
	case Completed:
		return "Completed"
	case Canceled:
		return "Canceled"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Terminal reports whether s is absorbing.
func (s State) Terminal() bool {
	return s >= Completed
}

// program is the stepped form of a microthread body. Errors thrown through
// the kont error effect surface as Left.
type program = kont.Expr[kont.Either[error, struct{}]]

// suspension is a pending scheduler operation of a microthread body.
type suspension = kont.Suspension[kont.Either[error, struct{}]]

// MicroThread is the execution context of one spawned body.
//
// State and Err may be read from any goroutine. Everything else is owned by
// the dispatch loop of the scheduler that spawned it.
type MicroThread struct {
	id       ID
	sched    *Scheduler
	state    atomix.Uint32
	err      error
	priority int

	ctx      context.Context
	canceled atomix.Uint32
	cause    error

	// resume target for the next dispatch decision
	phase    *SyncPoint
	nextStep bool

	// build produces the stepped body; called once by start
	build func() program
	susp  *suspension
}

func newMicroThread(s *Scheduler, build func() program, opts []SpawnOption) *MicroThread {
	mt := &MicroThread{id: nextID(), sched: s, build: build}
	for _, opt := range opts {
		opt(mt)
	}
	return mt
}

// ID returns the microthread identifier.
func (mt *MicroThread) ID() ID { return mt.id }

// Scheduler returns the scheduler that spawned mt.
func (mt *MicroThread) Scheduler() *Scheduler { return mt.sched }

// State returns the current lifecycle state.
func (mt *MicroThread) State() State { return State(mt.state.Load()) }

// Done reports whether mt reached a terminal state.
func (mt *MicroThread) Done() bool { return mt.State().Terminal() }

// Err returns the captured error. Non-nil iff the state is Canceled or Failed.
func (mt *MicroThread) Err() error {
	if !mt.Done() {
		return nil
	}
	return mt.err
}

// Priority returns the informational priority.
func (mt *MicroThread) Priority() int { return mt.priority }

// SetPriority updates the informational priority.
func (mt *MicroThread) SetPriority(p int) { mt.priority = p }

// Phase returns the phase the next continuation is routed to,
// or nil when it resumes without phase gating.
func (mt *MicroThread) Phase() *SyncPoint { return mt.phase }

// Cancel requests cooperative cancellation. The body observes it through
// [CheckThen]; nothing is interrupted. A nil cause means [ErrCanceled].
// Safe to call from any goroutine; only the first call records a cause.
func (mt *MicroThread) Cancel(cause error) {
	if cause == nil {
		cause = ErrCanceled
	}
	if !mt.canceled.CompareAndSwap(0, 1) {
		return
	}
	mt.cause = cause
	mt.canceled.Store(2)
}

// cancellation returns the pending cancellation cause, if any.
func (mt *MicroThread) cancellation() error {
	if mt.canceled.Load() == 2 {
		return mt.cause
	}
	if mt.ctx != nil {
		if err := mt.ctx.Err(); err != nil {
			return context.Cause(mt.ctx)
		}
	}
	return nil
}

// recordSuspension stores where and when the next continuation runs.
// A nil phase means it runs as soon as it is resolved.
func (mt *MicroThread) recordSuspension(nextStep bool, phase *SyncPoint) {
	mt.phase = phase
	mt.nextStep = nextStep
}

// fail records err and moves mt to Canceled or Failed.
func (mt *MicroThread) fail(err error) {
	if mt.Done() {
		return
	}
	mt.err = err
	mt.susp = nil
	if isCancellation(err) {
		mt.state.Store(uint32(Canceled))
	} else {
		mt.state.Store(uint32(Failed))
	}
	mt.sched.terminated(mt)
}

// complete moves mt to Completed.
func (mt *MicroThread) complete() {
	if mt.Done() {
		return
	}
	mt.susp = nil
	mt.state.Store(uint32(Completed))
	mt.sched.terminated(mt)
}
