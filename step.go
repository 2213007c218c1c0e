// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"code.hybscloud.com/kont"
)

// start is the continuation of a fresh microthread: it builds the body and
// steps it until the first scheduler suspension or completion. Building
// runs the pure prefix of a Cont-world body, so it happens here, inside
// the dispatch boundary.
func start(mt *MicroThread, _ any) {
	if mt.State() != Starting {
		return
	}
	mt.state.Store(uint32(Running))
	build := mt.build
	mt.build = nil
	result, susp := kont.StepExpr(build())
	advance(mt, result, susp)
}

// resume is the continuation of a suspended microthread: it resumes the
// pending suspension with v.
func resume(mt *MicroThread, v any) {
	susp := mt.susp
	if susp == nil || mt.Done() {
		return
	}
	mt.susp = nil
	result, next := susp.Resume(v)
	advance(mt, result, next)
}

// advance evaluates effects one at a time until the body suspends on a
// scheduler operation or finishes.
//
// Scheduler ops either resume in place (Self, Check) or park the suspension
// on mt. Error ops are eager: Throw discards the suspension and fails mt.
func advance(mt *MicroThread, result kont.Either[error, struct{}], susp *suspension) {
	for susp != nil {
		switch op := susp.Op().(type) {
		case schedulerDispatcher:
			mt.susp = susp
			v, ok := op.DispatchScheduler(mt)
			if !ok {
				return
			}
			mt.susp = nil
			result, susp = susp.Resume(v)
		case errorDispatcher:
			v, err := dispatchError(op)
			if err != nil {
				susp.Discard()
				mt.fail(err)
				return
			}
			result, susp = susp.Resume(v)
		default:
			susp.Discard()
			mt.fail(unhandled(op))
			return
		}
	}
	if err, ok := result.GetLeft(); ok {
		mt.fail(err)
		return
	}
	mt.complete()
}

// rightUnit lifts a finished body into the stepped result type.
func rightUnit(v struct{}) kont.Either[error, struct{}] {
	return kont.Right[error](v)
}
