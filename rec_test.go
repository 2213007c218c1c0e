// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched_test

import (
	"slices"
	"testing"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/sched"
)

func TestLoopOnePassPerIteration(t *testing.T) {
	skipRace(t)
	p := sched.NewSyncPoint("P")
	s := sched.New()

	var runs []int
	body := sched.WaitThen(p, sched.Loop(0, func(n int) kont.Eff[kont.Either[int, struct{}]] {
		runs = append(runs, n)
		if n == 3 {
			return kont.Pure(kont.Right[int](struct{}{}))
		}
		return sched.NextThen(p, kont.Pure(kont.Left[int, struct{}](n+1)))
	}))
	mt := s.Add(body)

	for pass := 1; pass <= 3; pass++ {
		s.Run(p)
		if len(runs) != pass {
			t.Fatalf("pass %d: runs=%v", pass, runs)
		}
	}
	if mt.State() != sched.Running {
		t.Fatalf("state got %v after 3 passes, want Running", mt.State())
	}
	s.Run(p)
	if mt.State() != sched.Completed {
		t.Fatalf("state got %v, want Completed", mt.State())
	}
	if !slices.Equal(runs, []int{0, 1, 2, 3}) {
		t.Fatalf("runs got %v", runs)
	}
}

func TestExprLoop(t *testing.T) {
	skipRace(t)
	p := sched.NewSyncPoint("P")
	s := sched.New()

	var total int
	loop := sched.ExprLoop(0, func(n int) kont.Expr[kont.Either[int, int]] {
		if n == 2 {
			return kont.ExprReturn(kont.Right[int](n * 10))
		}
		return sched.ExprNextThen(p, kont.ExprReturn(kont.Left[int, int](n+1)))
	})
	body := kont.ExprMap(loop, func(v int) struct{} {
		total = v
		return struct{}{}
	})
	mt := s.AddExpr(sched.ExprWaitThen(p, body))

	s.Run(p)
	s.Run(p)
	if mt.State() != sched.Running {
		t.Fatalf("state got %v after 2 passes, want Running", mt.State())
	}
	s.Run(p)
	if mt.State() != sched.Completed || total != 20 {
		t.Fatalf("state=%v total=%d, want Completed 20", mt.State(), total)
	}
}

func TestExprLoopPureIterations(t *testing.T) {
	s := sched.New()
	var got int
	loop := sched.ExprLoop(0, func(n int) kont.Expr[kont.Either[int, int]] {
		if n == 5 {
			return kont.ExprReturn(kont.Right[int](n))
		}
		return kont.ExprReturn(kont.Left[int, int](n + 1))
	})
	mt := s.AddExpr(kont.ExprMap(loop, func(v int) struct{} {
		got = v
		return struct{}{}
	}))
	if mt.State() != sched.Completed || got != 5 {
		t.Fatalf("state=%v got=%d, want Completed 5", mt.State(), got)
	}
}

func TestEveryIsLazy(t *testing.T) {
	skipRace(t)
	p := sched.NewSyncPoint("P")
	s := sched.New()

	var seen []int
	mt := s.Add(sched.Every(p, func(n int) kont.Eff[bool] {
		seen = append(seen, n)
		return kont.Pure(n == 2)
	}))
	if len(seen) != 0 {
		t.Fatalf("step ran before the first occurrence: %v", seen)
	}

	s.Run(p)
	if !slices.Equal(seen, []int{0}) {
		t.Fatalf("after pass 1 seen=%v, want [0]", seen)
	}
	s.Run(p)
	s.Run(p)
	if !slices.Equal(seen, []int{0, 1, 2}) {
		t.Fatalf("after pass 3 seen=%v, want [0 1 2]", seen)
	}
	if mt.State() != sched.Completed {
		t.Fatalf("state got %v, want Completed", mt.State())
	}
}

func TestExprLoopIsLazy(t *testing.T) {
	skipRace(t)
	p := sched.NewSyncPoint("P")
	s := sched.New()

	var calls int
	loop := sched.ExprLoop(0, func(n int) kont.Expr[kont.Either[int, struct{}]] {
		calls++
		return kont.ExprReturn(kont.Right[int](struct{}{}))
	})
	if calls != 0 {
		t.Fatal("ExprLoop ran an iteration at construction")
	}
	mt := s.AddExpr(sched.ExprNextThen(p, loop))
	s.Run(p)
	if calls != 0 {
		t.Fatal("ExprLoop ran before the next occurrence")
	}
	s.Run(p)
	if calls != 1 || mt.State() != sched.Completed {
		t.Fatalf("calls=%d state=%v, want 1 Completed", calls, mt.State())
	}
}

func TestLoopIsLazy(t *testing.T) {
	var calls int
	loop := sched.Loop(0, func(n int) kont.Eff[kont.Either[int, struct{}]] {
		calls++
		return kont.Pure(kont.Right[int](struct{}{}))
	})
	if calls != 0 {
		t.Fatal("Loop ran an iteration at construction")
	}
	mt := sched.New().Add(loop)
	if calls != 1 || mt.State() != sched.Completed {
		t.Fatalf("calls=%d state=%v, want 1 Completed", calls, mt.State())
	}
}
