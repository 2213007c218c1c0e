// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"code.hybscloud.com/kont"
)

// Pre-allocated erased operations and frames to eliminate heap escapes
// when boxing empty structs into any/kont.Frame during Expr-world execution.
var (
	exprReturnFrame kont.Frame  = kont.ReturnFrame{}
	exprYield       kont.Erased = Yield{}
	exprDetach      kont.Erased = Wait{}
	exprSelf        kont.Erased = Self{}
	exprCheck       kont.Erased = Check{}
)

// identityResume is the identity resume function for EffectFrame construction.
func identityResume(v kont.Erased) kont.Erased { return v }

// exprPerformThen performs op and continues with next, discarding the
// operation result.
func exprPerformThen[B any](op kont.Erased, next kont.Expr[B]) kont.Expr[B] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = op
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[B](ef)
}

// ExprYieldThen yields once and then continues with next.
// Fuses ExprPerform(Yield{}) + ExprThen.
func ExprYieldThen[B any](next kont.Expr[B]) kont.Expr[B] {
	return exprPerformThen(exprYield, next)
}

// ExprWaitThen suspends until the current or next visit of sp.
// Fuses ExprPerform(Wait{Phase: sp}) + ExprThen.
func ExprWaitThen[B any](sp *SyncPoint, next kont.Expr[B]) kont.Expr[B] {
	return exprPerformThen(Wait{Phase: sp}, next)
}

// ExprNextThen suspends until the next occurrence of sp.
// Fuses ExprPerform(Wait{Phase: sp, NextStep: true}) + ExprThen.
func ExprNextThen[B any](sp *SyncPoint, next kont.Expr[B]) kont.Expr[B] {
	return exprPerformThen(Wait{Phase: sp, NextStep: true}, next)
}

// ExprDetachThen clears the recorded phase and yields.
// Fuses ExprPerform(Wait{}) + ExprThen.
func ExprDetachThen[B any](next kont.Expr[B]) kont.Expr[B] {
	return exprPerformThen(exprDetach, next)
}

// ExprAwaitThen suspends until c is completed.
// Fuses ExprPerform(Await{Completion: c}) + ExprThen.
func ExprAwaitThen[B any](c *Completion, next kont.Expr[B]) kont.Expr[B] {
	return exprPerformThen(Await{Completion: c}, next)
}

func selfBindUnwind[B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func(*MicroThread) kont.Expr[B])
	result := f(current.(*MicroThread))
	return kont.Erased(result.Value), result.Frame
}

// ExprSelfBind passes the running microthread to f.
// Fuses ExprPerform(Self{}) + ExprBind.
func ExprSelfBind[B any](f func(*MicroThread) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = selfBindUnwind[B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = exprSelf
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

func checkThenUnwind[B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	var result kont.Expr[B]
	if c := current.(Cancellation); c.Cause != nil {
		result = kont.ExprThrowError[error, B](c.Cause)
	} else {
		result = data.(kont.Expr[B])
	}
	return kont.Erased(result.Value), result.Frame
}

// ExprCheckThen continues with next unless cancellation was requested.
// Fuses ExprPerform(Check{}) + ExprBind + ExprThrowError.
func ExprCheckThen[B any](next kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = next
	bf.Unwind = checkThenUnwind[B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = exprCheck
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

func doUnwind(data, _, _ kont.Erased, _ kont.Erased) (kont.Erased, kont.Frame) {
	fn := data.(func() error)
	if err := fn(); err != nil {
		thrown := kont.ExprThrowError[error, struct{}](err)
		return kont.Erased(thrown.Value), thrown.Frame
	}
	return kont.Erased(struct{}{}), exprReturnFrame
}

// ExprDo is the Expr-world form of [Do]. fn runs when the body reaches it,
// never at construction: the call sits behind a Self step that resumes in
// place.
// Fuses ExprPerform(Self{}) + ExprBind + ExprThrowError.
func ExprDo(fn func() error) kont.Expr[struct{}] {
	uf := kont.AcquireUnwindFrame()
	uf.Data1 = fn
	uf.Unwind = doUnwind
	ef := kont.AcquireEffectFrame()
	ef.Operation = exprSelf
	ef.Resume = identityResume
	ef.Next = uf
	return kont.ExprSuspend[struct{}](ef)
}

// ExprDone is the finished Expr-world body.
func ExprDone() kont.Expr[struct{}] {
	return kont.ExprReturn(struct{}{})
}
