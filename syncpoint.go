// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import "slices"

// SyncPoint is a phase of a simulation pass and a node of the phase DAG.
//
// Each sync point owns two FIFO queues of pending continuations: this-step
// entries run on the current or next visit, next-step entries only on a
// visit that starts after they were queued. Dependencies and successors are
// kept as inverse edge sets; every mutation updates both ends.
//
// The graph is meant to be assembled before the first [Scheduler.Run] and is
// not safe to mutate during a pass. Queues accept concurrent producers.
type SyncPoint struct {
	name         string
	dependencies []*SyncPoint
	successors   []*SyncPoint

	thisStep queue[entry]
	nextStep queue[entry]

	// carry is the number of next-step entries owned by the current visit.
	carry int
}

// NewSyncPoint creates a sync point that depends on deps.
// name is used for diagnostics only; identity is the pointer.
func NewSyncPoint(name string, deps ...*SyncPoint) *SyncPoint {
	sp := &SyncPoint{name: name}
	sp.thisStep.init(phaseCapacity)
	sp.nextStep.init(phaseCapacity)
	for _, dep := range deps {
		sp.AddDependency(dep)
	}
	return sp
}

// Name returns the diagnostic name.
func (sp *SyncPoint) Name() string { return sp.name }

func (sp *SyncPoint) String() string {
	if sp == nil {
		return "<nil>"
	}
	if sp.name == "" {
		return "syncpoint"
	}
	return sp.name
}

// Dependencies returns a copy of the predecessor set in insertion order.
func (sp *SyncPoint) Dependencies() []*SyncPoint {
	return slices.Clone(sp.dependencies)
}

// Successors returns a copy of the successor set in insertion order.
func (sp *SyncPoint) Successors() []*SyncPoint {
	return slices.Clone(sp.successors)
}

// DependsOn reports whether dep is a direct dependency of sp.
func (sp *SyncPoint) DependsOn(dep *SyncPoint) bool {
	return slices.Contains(sp.dependencies, dep)
}

// AddDependency makes sp run after dep and records sp as a successor of dep.
// Adding an existing edge or a nil dependency is a no-op.
func (sp *SyncPoint) AddDependency(dep *SyncPoint) {
	if dep == nil || sp.DependsOn(dep) {
		return
	}
	sp.dependencies = append(sp.dependencies, dep)
	dep.successors = append(dep.successors, sp)
}

// RemoveDependency removes the edge from dep to sp on both ends.
// Reports whether the edge existed.
func (sp *SyncPoint) RemoveDependency(dep *SyncPoint) bool {
	i := slices.Index(sp.dependencies, dep)
	if i < 0 {
		return false
	}
	sp.dependencies = slices.Delete(sp.dependencies, i, i+1)
	dep.removeSuccessor(sp)
	return true
}

// ReplaceDependency swaps the edge from old for an edge from repl, keeping
// its position. When repl is already a dependency the old edge is simply
// removed. Reports whether old was a dependency.
func (sp *SyncPoint) ReplaceDependency(old, repl *SyncPoint) bool {
	i := slices.Index(sp.dependencies, old)
	if i < 0 {
		return false
	}
	if repl == nil || repl == old || sp.DependsOn(repl) {
		if repl != old {
			sp.RemoveDependency(old)
		}
		return true
	}
	old.removeSuccessor(sp)
	sp.dependencies[i] = repl
	repl.successors = append(repl.successors, sp)
	return true
}

// ClearDependencies removes every dependency edge of sp.
func (sp *SyncPoint) ClearDependencies() {
	for _, dep := range sp.dependencies {
		dep.removeSuccessor(sp)
	}
	clear(sp.dependencies)
	sp.dependencies = sp.dependencies[:0]
}

func (sp *SyncPoint) removeSuccessor(succ *SyncPoint) {
	if i := slices.Index(sp.successors, succ); i >= 0 {
		sp.successors = slices.Delete(sp.successors, i, i+1)
	}
}

// Pending returns the number of queued continuations, both timings.
func (sp *SyncPoint) Pending() int {
	return sp.thisStep.len() + sp.nextStep.len()
}

// enqueue queues e on the this-step or next-step queue.
func (sp *SyncPoint) enqueue(e entry) {
	if e.nextStep {
		sp.nextStep.enqueue(e)
		return
	}
	sp.thisStep.enqueue(e)
}

// startVisit snapshots how many next-step entries belong to this visit.
// Entries queued after the snapshot wait for the following visit.
func (sp *SyncPoint) startVisit() {
	sp.carry = sp.nextStep.len()
}

// dequeueDue returns the next entry due in the current visit: this-step
// entries first, then at most carry next-step entries.
func (sp *SyncPoint) dequeueDue() (entry, bool) {
	if e, ok := sp.thisStep.dequeue(); ok {
		return e, true
	}
	if sp.carry > 0 {
		sp.carry--
		return sp.nextStep.dequeue()
	}
	return entry{}, false
}
