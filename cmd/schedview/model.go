// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"code.hybscloud.com/sched"
	"code.hybscloud.com/sched/phasegraph"
)

const logLines = 10

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	phaseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

	stateStyles = map[sched.State]lipgloss.Style{
		sched.Starting:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		sched.Running:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		sched.Completed: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		sched.Canceled:  lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		sched.Failed:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
)

// trace records the phases visited since the last reset.
type trace struct {
	visits []string
	log    func(format string, args ...any)
}

// OnVisit implements sched.Observer.
func (t *trace) OnVisit(_ uint64, sp *sched.SyncPoint) {
	t.visits = append(t.visits, sp.Name())
}

// OnTerminal implements sched.Observer.
func (t *trace) OnTerminal(mt *sched.MicroThread) {
	if err := mt.Err(); err != nil {
		t.log("microthread %d %s: %v", mt.ID(), mt.State(), err)
		return
	}
	t.log("microthread %d %s", mt.ID(), mt.State())
}

type model struct {
	graph   *phasegraph.Graph
	sched   *sched.Scheduler
	trace   *trace
	scripts []script
	spawned int
	log     []string
	pending []tea.Cmd

	keys keyMap
	help help.Model
}

func newModel(g *phasegraph.Graph) *model {
	m := &model{
		graph: g,
		keys:  newKeyMap(),
		help:  help.New(),
	}
	m.trace = &trace{log: m.logf}
	m.sched = sched.New(sched.WithObserver(m.trace))
	return m
}

// Init implements tea.Model.
func (m *model) Init() tea.Cmd {
	cmds := m.pending
	m.pending = nil
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case completedMsg:
		m.logf("%s: completion delivered", msg.name)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Step):
			m.pass()
		case key.Matches(msg, m.keys.Add):
			return m, m.spawn()
		case key.Matches(msg, m.keys.Cancel):
			m.cancelNewest()
		}
	}
	return m, nil
}

// pass runs one pass from every root of the graph.
func (m *model) pass() {
	m.trace.visits = m.trace.visits[:0]
	for _, root := range m.graph.Roots() {
		m.sched.Run(root)
	}
}

func (m *model) cancelNewest() {
	for i := len(m.scripts) - 1; i >= 0; i-- {
		if mt := m.scripts[i].mt; !mt.Done() {
			mt.Cancel(nil)
			m.logf("%s: cancel requested", m.scripts[i].name)
			return
		}
	}
}

func (m *model) logf(format string, args ...any) {
	m.log = append(m.log, fmt.Sprintf(format, args...))
	if len(m.log) > logLines {
		m.log = m.log[len(m.log)-logLines:]
	}
}

// View implements tea.Model.
func (m *model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("schedview  frame %d  dispatched %d",
		m.sched.Frame(), m.sched.Dispatched())))
	b.WriteString("\n\n")

	visited := make([]string, 0, len(m.trace.visits))
	for _, name := range m.trace.visits {
		visited = append(visited, phaseStyle.Render(name))
	}
	if len(visited) == 0 {
		b.WriteString(dimStyle.Render("no pass yet"))
	} else {
		b.WriteString("visits: " + strings.Join(visited, dimStyle.Render(" → ")))
	}
	b.WriteString("\n\n")

	var rows strings.Builder
	rows.WriteString(headerStyle.Render(fmt.Sprintf("%-14s %4s %-10s %s", "script", "id", "state", "phase")))
	for _, sc := range m.scripts {
		phase := "-"
		if sp := sc.mt.Phase(); sp != nil {
			phase = sp.Name()
		}
		state := sc.mt.State()
		fmt.Fprintf(&rows, "\n%-14s %4d %s %s",
			sc.name, sc.mt.ID(), stateStyles[state].Render(fmt.Sprintf("%-10s", state)), phase)
	}
	b.WriteString(boxStyle.Render(rows.String()))
	b.WriteString("\n\n")

	for _, line := range m.log {
		b.WriteString(dimStyle.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
