// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command schedview drives a microthread scheduler interactively over a
// phase graph loaded from YAML. Each key press runs one pass; the view shows
// the visit trace and the state of every spawned script.
//
//	schedview [-graph frame.yaml] [-scripts 3]
package main

import (
	"bytes"
	_ "embed"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"code.hybscloud.com/sched/phasegraph"
)

//go:embed frame.yaml
var defaultGraph []byte

func main() {
	graphPath := flag.String("graph", "", "phase graph YAML (default: built-in frame graph)")
	scripts := flag.Int("scripts", 3, "scripts spawned at startup")
	flag.Parse()

	g, err := loadGraph(*graphPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading phase graph: %v\n", err)
		os.Exit(1)
	}

	m := newModel(g)
	for range *scripts {
		if cmd := m.spawn(); cmd != nil {
			m.pending = append(m.pending, cmd)
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func loadGraph(path string) (*phasegraph.Graph, error) {
	if path == "" {
		return phasegraph.Load(bytes.NewReader(defaultGraph))
	}
	return phasegraph.LoadFile(path)
}
