// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched_test

import (
	"slices"
	"testing"
	"testing/quick"

	"code.hybscloud.com/sched"
)

// TestPropertyStepTiming proves that for any mix of this-step and next-step
// waits on one phase, this-step bodies finish in the first pass and
// next-step bodies in the second, each group in spawn order.
func TestPropertyStepTiming(t *testing.T) {
	skipRace(t)

	property := func(next []bool) bool {
		p := sched.NewSyncPoint("P")
		s := sched.New()

		var order []int
		var wantThis, wantNext []int
		for i, ns := range next {
			record := sched.Do(func() error {
				order = append(order, i)
				return nil
			})
			if ns {
				wantNext = append(wantNext, i)
				s.Add(sched.NextThen(p, record))
			} else {
				wantThis = append(wantThis, i)
				s.Add(sched.WaitThen(p, record))
			}
		}

		s.Run(p)
		if !slices.Equal(order, wantThis) {
			return false
		}
		order = order[:0]
		s.Run(p)
		return slices.Equal(order, wantNext)
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// TestPropertyQueueFIFO proves the phase queue keeps FIFO order across the
// ring and its overflow for any sequence of values.
func TestPropertyQueueFIFO(t *testing.T) {
	skipRace(t)

	property := func(payload []int) bool {
		q := sched.NewIntQueue(4)
		for _, v := range payload {
			q.Enqueue(v)
		}
		if q.Len() != len(payload) {
			return false
		}
		for _, want := range payload {
			got, ok := q.Dequeue()
			if !ok || got != want {
				return false
			}
		}
		_, ok := q.Dequeue()
		return !ok && q.Len() == 0
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}
