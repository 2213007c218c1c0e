// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"code.hybscloud.com/sched"
	"code.hybscloud.com/sched/phasegraph"
)

func newTestModel(t *testing.T) *model {
	t.Helper()
	g, err := phasegraph.Load(bytes.NewReader(defaultGraph))
	if err != nil {
		t.Fatalf("load default graph: %v", err)
	}
	return newModel(g)
}

func TestDefaultGraphLoads(t *testing.T) {
	g, err := loadGraph("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	roots := g.Roots()
	if len(roots) != 2 || roots[0].Name() != "update-start" || roots[1].Name() != "draw-start" {
		t.Fatalf("roots got %v", roots)
	}
}

func TestPassVisitsEveryPhaseOnce(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.sched.Frame() != 2 {
		t.Fatalf("frame got %d, want one pass per root", m.sched.Frame())
	}
	if len(m.trace.visits) != len(m.graph.Names()) {
		t.Fatalf("visits got %v", m.trace.visits)
	}
}

func TestRelayFinishes(t *testing.T) {
	m := newTestModel(t)
	m.spawned = int(kindRelay)
	m.spawn()
	relay := m.scripts[0]
	if relay.kind != kindRelay {
		t.Fatalf("kind got %v, want relay", relay.kind)
	}
	for range 6 {
		m.pass()
	}
	if relay.mt.State() != sched.Completed {
		t.Fatalf("state got %v, want Completed", relay.mt.State())
	}
}

func TestFlakyFails(t *testing.T) {
	m := newTestModel(t)
	m.spawned = int(kindFlaky)
	m.spawn()
	m.pass()
	m.pass()
	if mt := m.scripts[0].mt; mt.State() != sched.Failed {
		t.Fatalf("state got %v, want Failed", mt.State())
	}
}

func TestCancelWatchdog(t *testing.T) {
	m := newTestModel(t)
	m.spawned = int(kindWatchdog)
	m.spawn()
	m.pass()
	m.pass()
	wd := m.scripts[0].mt
	if wd.State() != sched.Running {
		t.Fatalf("state got %v, want Running", wd.State())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	m.pass()
	if wd.State() != sched.Canceled {
		t.Fatalf("state got %v, want Canceled", wd.State())
	}
}

func TestFetchCompletesThroughCommand(t *testing.T) {
	m := newTestModel(t)
	m.spawned = int(kindFetch)
	cmd := m.spawn()
	if cmd == nil {
		t.Fatal("fetch script returned no command")
	}
	msg := cmd()
	m.Update(msg)
	m.pass()
	if mt := m.scripts[0].mt; mt.State() != sched.Completed {
		t.Fatalf("state got %v, want Completed", mt.State())
	}
}

func TestViewRendersScripts(t *testing.T) {
	m := newTestModel(t)
	for range int(numKinds) {
		m.spawn()
	}
	m.pass()
	view := m.View()
	for _, want := range []string{"ticker-1", "relay-2", "fetch-3", "frame 2"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}
