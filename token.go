// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lfq"
)

// token states, in the low two bits of tokenSource.state
const (
	tokenPending uint32 = iota
	tokenCompleted
	tokenReleased

	tokenStatusMask uint32 = 3
	tokenVersionInc uint32 = 4
)

// tokenSource is the pooled one-shot behind a [Token]. Its state word packs
// a version above the status bits; the version advances on every release,
// so handles from a previous use no longer match.
type tokenSource struct {
	state atomix.Uint32
	sched *Scheduler
	mt    *MicroThread
	fn    Continuation
	arg   any
}

// tokenPool is the free list shared by all schedulers.
var tokenPool = func() *lfq.MPMC[*tokenSource] {
	q := new(lfq.MPMC[*tokenSource])
	q.Init(tokenPoolCapacity)
	return q
}()

// acquireToken takes a source from the pool or allocates one.
func acquireToken(s *Scheduler) *tokenSource {
	t, err := tokenPool.Dequeue()
	if err != nil {
		t = new(tokenSource)
	}
	t.sched = s
	t.state.Store(t.version() | tokenPending)
	return t
}

func (t *tokenSource) version() uint32 {
	return t.state.Load() &^ tokenStatusMask
}

// release resets t, advances its version and returns it to the pool.
// A full pool drops it.
func (t *tokenSource) release() {
	t.sched = nil
	t.mt = nil
	t.fn = nil
	t.arg = nil
	t.state.Store((t.version() + tokenVersionInc) | tokenReleased)
	_ = tokenPool.Enqueue(&t)
}

// onCompleted registers the continuation run on resolution.
func (t *tokenSource) onCompleted(mt *MicroThread, fn Continuation, state any) {
	t.mt = mt
	t.fn = fn
	t.arg = state
}

// signalComplete marks t complete, dispatches its continuation and
// recycles it. Dispatch goroutine only.
func (t *tokenSource) signalComplete() {
	v := t.version()
	t.state.Store(v | tokenCompleted)
	if t.fn == nil {
		return
	}
	s, mt, fn, arg := t.sched, t.mt, t.fn, t.arg
	s.dispatch(mt, fn, arg)
	t.release()
}

// Token is a one-shot awaitable resolved by the dispatch loop.
//
// A token obtained from [Scheduler.Yield] sits on the pending-yield queue
// until the next yield drain resolves it. If a continuation was registered
// with [Token.OnCompleted], resolution dispatches it through the scheduler
// and recycles the token. Otherwise the token stays completed until
// [Token.GetResult] recycles it.
//
// Token is a versioned handle on a pooled source: once the source is
// recycled, the handle reports completion and its methods have no effect
// on later users of the same source.
type Token struct {
	src     *tokenSource
	version uint32
}

// IsCompleted reports whether the token was resolved.
func (t Token) IsCompleted() bool {
	s := t.src.state.Load()
	if s&^tokenStatusMask != t.version {
		return true
	}
	return s&tokenStatusMask != tokenPending
}

// OnCompleted registers the continuation to run on resolution. mt is the
// microthread the continuation is bound to; nil runs fn unbound.
// Must be called on the dispatch goroutine before the next yield drain.
// Panics if the token was already recycled.
func (t Token) OnCompleted(mt *MicroThread, fn Continuation, state any) {
	if t.src.version() != t.version {
		panic("sched: token used after release")
	}
	t.src.onCompleted(mt, fn, state)
}

// GetResult consumes a completed token that has no registered continuation
// and returns it to the pool. Calling it again, or before completion, is a
// no-op.
func (t Token) GetResult() {
	src := t.src
	if src.version() != t.version || src.fn != nil {
		return
	}
	if src.state.CompareAndSwap(t.version|tokenCompleted, t.version|tokenReleased) {
		src.release()
	}
}
