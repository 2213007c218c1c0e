// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"code.hybscloud.com/kont"
)

var (
	// ErrCanceled is the designated cancellation signal. A microthread whose
	// body fails with an error matching ErrCanceled, context.Canceled or
	// context.DeadlineExceeded ends in [Canceled] instead of [Failed].
	ErrCanceled = errors.New("sched: microthread canceled")

	// ErrUnhandledEffect reports an effect operation that is neither a
	// scheduler operation nor a kont error operation.
	ErrUnhandledEffect = errors.New("sched: unhandled effect")

	// ErrEffectInCatch reports a scheduler operation performed inside the
	// body or handler of kont.CatchError. Catch is evaluated in one step by
	// the error effect alone, so a caught computation cannot suspend or use
	// [Self] and [Check]; perform them before or after the catch.
	ErrEffectInCatch = errors.New("sched: scheduler effect inside catch")
)

// PanicError wraps a value recovered from a panicking microthread body.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("sched: microthread panicked: %v", e.Value)
}

// Unwrap returns the panic value when it is an error, so that
// panic(ErrCanceled) is classified as a cancellation.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// isCancellation reports whether err denotes cooperative cancellation.
func isCancellation(err error) bool {
	return errors.Is(err, ErrCanceled) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// errorDispatcher is the structural interface of kont error operations
// (Throw, Catch) specialised to error values.
type errorDispatcher interface {
	DispatchError(ctx *kont.ErrorContext[error]) (kont.Resumed, bool)
}

// dispatchError evaluates an error operation eagerly.
// Returns (resume value, nil) to continue, or (nil, thrown) on Throw.
// A Catch whose computation performs a non-error effect fails with
// [ErrEffectInCatch]; other panics propagate to the dispatch boundary.
func dispatchError(eop errorDispatcher) (v kont.Resumed, err error) {
	defer func() {
		if r := recover(); r != nil {
			if !isUnhandledEffectPanic(r) {
				panic(r)
			}
			v, err = nil, fmt.Errorf("%w: %v", ErrEffectInCatch, r)
		}
	}()
	var ctx kont.ErrorContext[error]
	v, _ = eop.DispatchError(&ctx)
	if ctx.HasErr {
		if ctx.Err == nil {
			return nil, errNilThrow
		}
		return nil, ctx.Err
	}
	return v, nil
}

// isUnhandledEffectPanic matches the panic kont's error handler raises for
// an operation it does not interpret.
func isUnhandledEffectPanic(r any) bool {
	return strings.Contains(fmt.Sprint(r), "unhandled effect")
}

// errNilThrow replaces a nil error thrown through kont.ThrowError.
var errNilThrow = errors.New("sched: nil error thrown")

// unhandled builds the failure recorded for an unknown effect operation.
func unhandled(op kont.Operation) error {
	return fmt.Errorf("%w: %T", ErrUnhandledEffect, op)
}
