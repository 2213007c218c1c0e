// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

// Continuation resumes a microthread. state is the value captured when the
// continuation was registered.
type Continuation func(mt *MicroThread, state any)

// entry is one pending unit of work queued on a sync point.
// Entries are values: immutable once built, consumed by a single dequeue.
type entry struct {
	phase    *SyncPoint
	nextStep bool
	mt       *MicroThread
	fn       Continuation
	state    any
}
