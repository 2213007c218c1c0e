// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"code.hybscloud.com/kont"
)

// schedulerDispatcher is the structural interface for scheduler operations.
// DispatchScheduler runs on the dispatch goroutine while mt's pending
// suspension is the operation itself. It returns (v, true) to resume the
// body immediately with v, or (nil, false) after arranging a later resume.
type schedulerDispatcher interface {
	DispatchScheduler(mt *MicroThread) (kont.Resumed, bool)
}

// unit is the pre-boxed resume value of struct{} operations.
var unit kont.Resumed = struct{}{}

// Yield is the effect operation for a plain cooperative yield.
// Perform(Yield{}) suspends until the next yield drain, then resumes at the
// microthread's recorded phase, or in place when none is recorded.
type Yield struct {
	kont.Phantom[struct{}]
}

// DispatchScheduler handles Yield by queueing a pooled token.
func (Yield) DispatchScheduler(mt *MicroThread) (kont.Resumed, bool) {
	mt.sched.yield(mt)
	return nil, false
}

// Wait is the effect operation for suspending until a phase occurs.
// Perform(Wait{Phase: p}) resumes during the current or next visit of p;
// with NextStep set it resumes only on a visit of p that starts after the
// suspension. A nil Phase detaches the microthread from phase gating.
type Wait struct {
	kont.Phantom[struct{}]
	Phase    *SyncPoint
	NextStep bool
}

// DispatchScheduler handles Wait: records the resume target, then yields.
func (w Wait) DispatchScheduler(mt *MicroThread) (kont.Resumed, bool) {
	mt.recordSuspension(w.NextStep, w.Phase)
	mt.sched.yield(mt)
	return nil, false
}

// Await is the effect operation for suspending until a [Completion] is
// resolved, typically by a producer on another goroutine.
type Await struct {
	kont.Phantom[struct{}]
	Completion *Completion
}

// DispatchScheduler handles Await by arming the completion with a token.
func (a Await) DispatchScheduler(mt *MicroThread) (kont.Resumed, bool) {
	t := acquireToken(mt.sched)
	t.onCompleted(mt, resume, unit)
	a.Completion.arm(t)
	return nil, false
}

// Self is the effect operation returning the running microthread.
// Never suspends.
type Self struct {
	kont.Phantom[*MicroThread]
}

// DispatchScheduler handles Self.
func (Self) DispatchScheduler(mt *MicroThread) (kont.Resumed, bool) {
	return mt, true
}

// Cancellation is the result of [Check]. Cause is nil while the
// microthread has not been asked to stop.
type Cancellation struct {
	Cause error
}

// Check is the effect operation reporting pending cancellation requested
// through [MicroThread.Cancel] or the bound context. Never suspends.
type Check struct {
	kont.Phantom[Cancellation]
}

// DispatchScheduler handles Check.
func (Check) DispatchScheduler(mt *MicroThread) (kont.Resumed, bool) {
	return Cancellation{Cause: mt.cancellation()}, true
}
