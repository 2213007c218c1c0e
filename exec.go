// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"code.hybscloud.com/kont"
)

// Add spawns a microthread running a Cont-world body.
// The body starts synchronously on the calling goroutine and runs until its
// first suspension or completion; Add returns after that first burst.
// A panic or error in the first burst is captured on the microthread.
func (s *Scheduler) Add(body kont.Eff[struct{}], opts ...SpawnOption) *MicroThread {
	return s.spawn(func() program {
		return kont.ExprMap(kont.Reify(body), rightUnit)
	}, opts)
}

// AddExpr spawns a microthread running an Expr-world body.
// Same start semantics as [Scheduler.Add].
func (s *Scheduler) AddExpr(body kont.Expr[struct{}], opts ...SpawnOption) *MicroThread {
	return s.spawn(func() program {
		return kont.ExprMap(body, rightUnit)
	}, opts)
}

// spawn dispatches a fresh microthread without a phase, so start runs
// under invoke before spawn returns.
func (s *Scheduler) spawn(build func() program, opts []SpawnOption) *MicroThread {
	mt := newMicroThread(s, build, opts)
	s.dispatch(mt, start, nil)
	return mt
}

// AddFunc spawns a microthread whose body is a plain function.
// It runs to completion inside AddFunc; a non-nil error fails it.
func (s *Scheduler) AddFunc(fn func() error, opts ...SpawnOption) *MicroThread {
	return s.Add(Do(fn), opts...)
}
