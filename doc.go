// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sched provides a cooperative microthread scheduler whose execution
// is partitioned into dependency-ordered phases, with bodies written as
// algebraic-effect computations on [code.hybscloud.com/kont].
//
// A microthread is a suspendable kont computation. It runs on the dispatch
// goroutine until it performs a scheduler effect, and is resumed later by
// the scheduler. Nothing is preempted and no two bodies ever interleave.
//
// # Architecture
//
//   - Phases: [SyncPoint] nodes form a DAG through [SyncPoint.AddDependency]; successor sets are maintained as the inverse edge set.
//   - Passes: [Scheduler.Run] visits every phase reachable from a start phase exactly once, depth first.
//   - Timing: each phase holds a this-step and a next-step queue. This-step entries run on the current or next visit; next-step entries only on a visit that starts after they were queued.
//   - Transport: queues are lock-free MPSC rings from [code.hybscloud.com/lfq] with an ordered overflow, so continuations may be produced from other goroutines.
//   - Yields: [Token] handles are versioned views of pooled sources recycled through a lock-free free list; steady-state yields do not allocate, and a stale handle cannot touch a recycled source.
//
// # API Topologies
//
//   - Operations: [Yield], [Wait], [Await], [Self], [Check].
//   - Cont-world: [YieldThen], [WaitThen], [NextThen], [DetachThen], [AwaitThen], [SelfBind], [CheckThen], [Do], [Done].
//   - Expr-world: [ExprYieldThen], [ExprWaitThen], [ExprNextThen], [ExprDetachThen], [ExprAwaitThen], [ExprSelfBind], [ExprCheckThen], [ExprDo], [ExprDone].
//   - Recurring scripts: [Loop], [ExprLoop] and [Every].
//   - Errors: bodies throw with kont.ThrowError[error, A]. Cancellation signals ([ErrCanceled], context.Canceled) end in [Canceled], anything else, panics included, in [Failed]. A kont.CatchError computation may only use the error effect; scheduler operations inside it fail with [ErrEffectInCatch].
//
// # Integration
//
//   - Spawning: [Scheduler.Add], [Scheduler.AddExpr] and [Scheduler.AddFunc] run the body synchronously until its first suspension.
//   - Stepping: the host calls [Scheduler.Run] once per pass, for example an update pass and a draw pass per frame.
//   - External completions: [Completion.Complete] may be called from any goroutine; [Scheduler.RunUntil] backs off with iox.Backoff while waiting for them.
//
// # Example
//
//	update := sched.NewSyncPoint("update")
//	draw := sched.NewSyncPoint("draw", update)
//
//	s := sched.New()
//	mt := s.Add(sched.YieldThen(
//		sched.WaitThen(draw, sched.Do(func() error {
//			fmt.Println("drawn")
//			return nil
//		})),
//	))
//	s.Run(update) // prints "drawn"; mt.State() == sched.Completed
package sched
