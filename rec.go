// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"code.hybscloud.com/kont"
)

// Loop runs a script of repeated iterations (Cont-world). Each iteration
// returns Left(state) to continue or Right(result) to finish. The first
// iteration runs when the body reaches the loop, not when Loop is called.
// An iteration that ends with a phase wait spreads the script over passes.
func Loop[S, A any](initial S, iterate func(S) kont.Eff[kont.Either[S, A]]) kont.Eff[A] {
	return kont.Bind(kont.Pure(initial), func(state S) kont.Eff[A] {
		return kont.Bind(iterate(state), func(e kont.Either[S, A]) kont.Eff[A] {
			if next, ok := e.GetLeft(); ok {
				return Loop(next, iterate)
			}
			result, _ := e.GetRight()
			return kont.Pure(result)
		})
	})
}

// ExprLoop is the Expr-world form of [Loop]. Iterations that finish
// without suspending are run in a plain for loop; the first suspending
// iteration is chained to a frame that re-enters the loop.
// Fuses ExprPerform(Self{}) + iteration trampoline.
func ExprLoop[S, A any](initial S, iterate func(S) kont.Expr[kont.Either[S, A]]) kont.Expr[A] {
	uf := kont.AcquireUnwindFrame()
	uf.Data1 = initial
	uf.Data2 = iterate
	uf.Unwind = loopUnwind[S, A]
	ef := kont.AcquireEffectFrame()
	ef.Operation = exprSelf
	ef.Resume = identityResume
	ef.Next = uf
	return kont.ExprSuspend[A](ef)
}

func loopUnwind[S, A any](data1, data2, _ kont.Erased, _ kont.Erased) (kont.Erased, kont.Frame) {
	state := data1.(S)
	iterate := data2.(func(S) kont.Expr[kont.Either[S, A]])
	for {
		m := iterate(state)
		if _, done := m.Frame.(kont.ReturnFrame); !done {
			bf := kont.AcquireBindFrame()
			bf.F = func(v kont.Erased) kont.Expr[kont.Erased] {
				e := v.(kont.Either[S, A])
				if next, ok := e.GetLeft(); ok {
					again := ExprLoop(next, iterate)
					return kont.Expr[kont.Erased]{Value: kont.Erased(again.Value), Frame: again.Frame}
				}
				result, _ := e.GetRight()
				return kont.Expr[kont.Erased]{Value: kont.Erased(result), Frame: exprReturnFrame}
			}
			bf.Next = exprReturnFrame
			return kont.Erased(m.Value), kont.ChainFrames(m.Frame, bf)
		}
		next, ok := m.Value.GetLeft()
		if !ok {
			result, _ := m.Value.GetRight()
			return kont.Erased(result), exprReturnFrame
		}
		state = next
	}
}

// Every runs step once per occurrence of sp: first during the current or
// next visit of sp, then at each following occurrence, until step reports
// done. n counts the invocations from zero.
func Every(sp *SyncPoint, step func(n int) kont.Eff[bool]) kont.Eff[struct{}] {
	return WaitThen(sp, Loop(0, func(n int) kont.Eff[kont.Either[int, struct{}]] {
		return kont.Bind(step(n), func(done bool) kont.Eff[kont.Either[int, struct{}]] {
			if done {
				return kont.Pure(kont.Right[int](struct{}{}))
			}
			return NextThen(sp, kont.Pure(kont.Left[int, struct{}](n+1)))
		})
	}))
}
