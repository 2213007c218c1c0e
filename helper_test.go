// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched_test

import (
	"errors"
	"slices"

	"code.hybscloud.com/sched"
)

var errBoom = errors.New("boom")

// recorder is an Observer collecting visited phase names and
// terminal microthreads in notification order.
type recorder struct {
	visits   []string
	terminal []*sched.MicroThread
}

func (r *recorder) OnVisit(_ uint64, sp *sched.SyncPoint) {
	r.visits = append(r.visits, sp.Name())
}

func (r *recorder) OnTerminal(mt *sched.MicroThread) {
	r.terminal = append(r.terminal, mt)
}

func (r *recorder) count(name string) int {
	n := 0
	for _, v := range r.visits {
		if v == name {
			n++
		}
	}
	return n
}

func (r *recorder) index(name string) int {
	return slices.Index(r.visits, name)
}

// tick returns a body step that increments *n.
func tick(n *int) func() error {
	return func() error {
		*n++
		return nil
	}
}
