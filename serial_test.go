// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched_test

import (
	"testing"

	"code.hybscloud.com/sched"
)

func TestMicroThreadIDMonotonic(t *testing.T) {
	s := sched.New()
	m1 := s.Add(sched.Done())
	m2 := s.Add(sched.Done())
	m3 := sched.New().Add(sched.Done())

	if m1.ID() >= m2.ID() {
		t.Fatalf("ids not increasing: %d >= %d", m1.ID(), m2.ID())
	}
	if m2.ID() >= m3.ID() {
		t.Fatalf("ids not increasing across schedulers: %d >= %d", m2.ID(), m3.ID())
	}
}
