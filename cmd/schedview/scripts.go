// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/sched"
)

var errFlaky = errors.New("flaky script gave up")

// fetchLatency is how long a fetch script's producer takes to complete.
const fetchLatency = 600 * time.Millisecond

// completedMsg reports that a fetch producer resolved its completion.
type completedMsg struct {
	name string
}

type scriptKind int

const (
	kindTicker scriptKind = iota
	kindRelay
	kindFetch
	kindFlaky
	kindWatchdog
	numKinds
)

func (k scriptKind) String() string {
	switch k {
	case kindTicker:
		return "ticker"
	case kindRelay:
		return "relay"
	case kindFetch:
		return "fetch"
	case kindFlaky:
		return "flaky"
	case kindWatchdog:
		return "watchdog"
	default:
		return "script"
	}
}

// script is a spawned demo microthread.
type script struct {
	name string
	kind scriptKind
	mt   *sched.MicroThread
}

// spawn adds the next demo script in rotation. The returned command, if
// any, produces the script's external completion.
func (m *model) spawn() tea.Cmd {
	kind := scriptKind(m.spawned % int(numKinds))
	m.spawned++
	name := fmt.Sprintf("%s-%d", kind, m.spawned)
	names := m.graph.Names()
	first := m.graph.Phase(names[0])
	last := m.graph.Phase(names[len(names)-1])

	var (
		body kont.Eff[struct{}]
		cmd  tea.Cmd
	)
	switch kind {
	case kindTicker:
		sp := m.graph.Phase(names[m.spawned%len(names)])
		body = sched.Every(sp, func(n int) kont.Eff[bool] {
			m.logf("%s: tick %d at %s", name, n, sp.Name())
			return kont.Pure(n == 3)
		})
	case kindRelay:
		body = m.logDo("%s: relay finished", name)
		for i := len(names) - 1; i >= 0; i-- {
			sp := m.graph.Phase(names[i])
			body = sched.WaitThen(sp, kont.Then(m.logDo("%s: reached %s", name, sp.Name()), body))
		}
	case kindFetch:
		c := sched.NewCompletion()
		body = sched.AwaitThen(c, sched.WaitThen(last, m.logDo("%s: result consumed at %s", name, last.Name())))
		cmd = func() tea.Msg {
			time.Sleep(fetchLatency)
			c.Complete()
			return completedMsg{name: name}
		}
	case kindFlaky:
		body = sched.NextThen(last, kont.ThrowError[error, struct{}](errFlaky))
	case kindWatchdog:
		body = sched.Every(first, func(int) kont.Eff[bool] {
			return sched.CheckThen(kont.Pure(false))
		})
	}

	mt := m.sched.Add(body)
	m.scripts = append(m.scripts, script{name: name, kind: kind, mt: mt})
	return cmd
}

// logDo is a body step appending a formatted line to the log.
func (m *model) logDo(format string, args ...any) kont.Eff[struct{}] {
	return sched.Do(func() error {
		m.logf(format, args...)
		return nil
	})
}
