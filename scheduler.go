// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"code.hybscloud.com/atomix"
)

// Scheduler runs microthreads cooperatively over a DAG of sync points.
//
// A single goroutine drives the scheduler: [Scheduler.Add] and
// [Scheduler.Run] must not be called concurrently with each other.
// Continuations may be produced from other goroutines through
// [Completion.Complete]; the pending-yield and phase queues accept
// concurrent producers while the dispatch loop is their only consumer.
type Scheduler struct {
	pending  queue[*tokenSource]
	frame    atomix.Uint64
	invoked  atomix.Uint64
	progress atomix.Uint64
	current  *MicroThread
	observer Observer
}

// New creates a Scheduler.
func New(opts ...Option) *Scheduler {
	cfg := config{yieldCapacity: yieldCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &Scheduler{observer: cfg.observer}
	s.pending.init(cfg.yieldCapacity)
	return s
}

// Frame returns the number of completed passes.
func (s *Scheduler) Frame() uint64 {
	return s.frame.Load()
}

// Dispatched returns the total number of continuations invoked.
func (s *Scheduler) Dispatched() uint64 {
	return s.invoked.Load()
}

// Current returns the microthread whose continuation is running,
// or nil outside a dispatch.
func (s *Scheduler) Current() *MicroThread {
	return s.current
}

// Run performs one pass over the phase DAG starting at start.
//
// The traversal is depth-first with an explicit stack; a processed set makes
// each reachable phase visited exactly once per pass, whatever the number of
// paths leading to it. At each visit the scheduler snapshots the next-step
// queue, drains pending yields, then invokes due continuations one at a time
// (draining yields after each) before pushing the phase's successors.
// Failures of microthread bodies are captured on their contexts and never
// abort the pass. The frame counter is incremented when the pass ends.
func (s *Scheduler) Run(start *SyncPoint) {
	if start == nil {
		panic("sched: Run with nil start phase")
	}
	defer s.frame.Add(1)

	stack := []*SyncPoint{start}
	processed := make(map[*SyncPoint]struct{})
	for len(stack) > 0 {
		sp := stack[len(stack)-1]
		stack[len(stack)-1] = nil
		stack = stack[:len(stack)-1]
		if _, ok := processed[sp]; ok {
			continue
		}
		processed[sp] = struct{}{}

		sp.startVisit()
		if s.observer != nil {
			s.observer.OnVisit(s.frame.Load(), sp)
		}
		s.drainYields()
		for {
			e, ok := sp.dequeueDue()
			if !ok {
				break
			}
			s.invoke(e.mt, e.fn, e.state)
			s.drainYields()
		}
		stack = append(stack, sp.successors...)
	}
}

// Yield takes a token from the pool and queues it on the pending-yield
// queue. The next yield drain completes it; see [Token].
func (s *Scheduler) Yield() Token {
	t := acquireToken(s)
	tok := Token{src: t, version: t.version()}
	s.pending.enqueue(t)
	return tok
}

// yield suspends mt on a pooled token resolved by the next yield drain.
func (s *Scheduler) yield(mt *MicroThread) {
	t := acquireToken(s)
	t.onCompleted(mt, resume, unit)
	s.pending.enqueue(t)
}

// drainYields resolves queued tokens until the queue is empty, including
// tokens queued by the continuations it dispatches.
func (s *Scheduler) drainYields() {
	for {
		t, ok := s.pending.dequeue()
		if !ok {
			return
		}
		s.progress.Add(1)
		t.signalComplete()
	}
}

// dispatch is the scheduling primitive. A continuation of a microthread
// without a recorded phase runs synchronously; otherwise it is queued on
// that phase with the recorded timing, and the timing reverts to this-step.
func (s *Scheduler) dispatch(mt *MicroThread, fn Continuation, state any) {
	if mt == nil || mt.phase == nil {
		s.invoke(mt, fn, state)
		return
	}
	mt.phase.enqueue(entry{
		phase:    mt.phase,
		nextStep: mt.nextStep,
		mt:       mt,
		fn:       fn,
		state:    state,
	})
	mt.nextStep = false
}

// invoke runs fn bound to mt. A panic escaping fn fails mt.
func (s *Scheduler) invoke(mt *MicroThread, fn Continuation, state any) {
	if mt != nil && mt.Done() {
		return
	}
	prev := s.current
	s.current = mt
	s.invoked.Add(1)
	s.progress.Add(1)
	defer func() {
		s.current = prev
		if r := recover(); r != nil {
			if mt == nil {
				panic(r)
			}
			mt.fail(&PanicError{Value: r})
		}
	}()
	fn(mt, state)
}

// terminated notifies the observer of a terminal transition.
func (s *Scheduler) terminated(mt *MicroThread) {
	if s.observer != nil {
		s.observer.OnTerminal(mt)
	}
}
