// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"code.hybscloud.com/kont"
)

// YieldThen yields once and then continues with next.
// Fuses Perform(Yield{}) + Then.
func YieldThen[B any](next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Yield{}), next)
}

// WaitThen suspends until the current or next visit of sp, then continues
// with next. Fuses Perform(Wait{Phase: sp}) + Then.
func WaitThen[B any](sp *SyncPoint, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Wait{Phase: sp}), next)
}

// NextThen suspends until the next occurrence of sp, skipping the rest of
// a visit in progress, then continues with next.
// Fuses Perform(Wait{Phase: sp, NextStep: true}) + Then.
func NextThen[B any](sp *SyncPoint, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Wait{Phase: sp, NextStep: true}), next)
}

// DetachThen clears the recorded phase and yields, so that later
// continuations resume as soon as they are resolved.
// Fuses Perform(Wait{}) + Then.
func DetachThen[B any](next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Wait{}), next)
}

// AwaitThen suspends until c is completed, then continues with next.
// Fuses Perform(Await{Completion: c}) + Then.
func AwaitThen[B any](c *Completion, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Await{Completion: c}), next)
}

// SelfBind passes the running microthread to f.
// Fuses Perform(Self{}) + Bind.
func SelfBind[B any](f func(*MicroThread) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Self{}), f)
}

// CheckThen continues with next unless cancellation was requested, in which
// case the body fails with the cancellation cause and ends Canceled.
// Fuses Perform(Check{}) + Bind + ThrowError.
func CheckThen[B any](next kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Check{}), func(c Cancellation) kont.Eff[B] {
		if c.Cause != nil {
			return kont.ThrowError[error, B](c.Cause)
		}
		return next
	})
}

// Do runs fn when evaluated. A non-nil error is thrown through the kont
// error effect and fails the microthread.
func Do(fn func() error) kont.Eff[struct{}] {
	return kont.Bind(kont.Pure(struct{}{}), func(struct{}) kont.Eff[struct{}] {
		if err := fn(); err != nil {
			return kont.ThrowError[error, struct{}](err)
		}
		return kont.Pure(struct{}{})
	})
}

// Done is the finished body.
func Done() kont.Eff[struct{}] {
	return kont.Pure(struct{}{})
}
