// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched_test

import (
	"testing"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/sched"
)

// BenchmarkSpawnComplete measures spawning a body that finishes synchronously.
func BenchmarkSpawnComplete(b *testing.B) {
	skipRace(b)
	s := sched.New()
	b.ReportAllocs()
	for b.Loop() {
		s.Add(sched.Done())
	}
}

// BenchmarkYield measures a single yield resolved by one pass.
func BenchmarkYield(b *testing.B) {
	skipRace(b)
	p := sched.NewSyncPoint("P")
	s := sched.New()
	b.ReportAllocs()
	for b.Loop() {
		s.Add(sched.YieldThen(sched.Done()))
		s.Run(p)
	}
}

// BenchmarkExprYield measures the Expr-world yield round-trip.
func BenchmarkExprYield(b *testing.B) {
	skipRace(b)
	p := sched.NewSyncPoint("P")
	s := sched.New()
	b.ReportAllocs()
	for b.Loop() {
		s.AddExpr(sched.ExprYieldThen(sched.ExprDone()))
		s.Run(p)
	}
}

// BenchmarkPhaseWait measures a wait on a leaf of a three-phase chain.
func BenchmarkPhaseWait(b *testing.B) {
	skipRace(b)
	a := sched.NewSyncPoint("A")
	m := sched.NewSyncPoint("B", a)
	c := sched.NewSyncPoint("C", m)
	s := sched.New()
	b.ReportAllocs()
	for b.Loop() {
		s.Add(sched.WaitThen(c, sched.Done()))
		s.Run(a)
	}
}

// BenchmarkEveryFrame measures one iteration of a long-running script.
func BenchmarkEveryFrame(b *testing.B) {
	skipRace(b)
	p := sched.NewSyncPoint("P")
	s := sched.New()
	s.Add(sched.Every(p, func(int) kont.Eff[bool] {
		return kont.Pure(false)
	}))
	b.ReportAllocs()
	for b.Loop() {
		s.Run(p)
	}
}

// BenchmarkQueue measures an enqueue/dequeue pair on the phase queue.
func BenchmarkQueue(b *testing.B) {
	skipRace(b)
	q := sched.NewIntQueue(64)
	b.ReportAllocs()
	for b.Loop() {
		q.Enqueue(1)
		q.Dequeue()
	}
}
