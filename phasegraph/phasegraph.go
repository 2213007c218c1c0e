// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package phasegraph loads a declarative phase DAG from YAML and builds the
// corresponding [sched.SyncPoint] graph.
//
//	phases:
//	  - name: update
//	  - name: physics
//	    after: [update]
//	  - name: draw
//	    after: [physics]
//
// Unlike the scheduler core, the loader validates its input: names must be
// non-empty and unique, dependencies must name declared phases, and the
// graph must be acyclic.
package phasegraph

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"code.hybscloud.com/sched"
	"gopkg.in/yaml.v3"
)

// Definition is the decoded YAML document.
type Definition struct {
	Phases []PhaseDefinition `yaml:"phases"`
}

// PhaseDefinition declares one phase and the phases it runs after.
type PhaseDefinition struct {
	Name  string   `yaml:"name"`
	After []string `yaml:"after,omitempty"`
}

// Graph is a validated set of named sync points.
type Graph struct {
	order  []string
	phases map[string]*sched.SyncPoint
}

// Parse decodes and builds a graph from a YAML payload.
func Parse(data []byte) (*Graph, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("phasegraph: payload is empty")
	}
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("phasegraph: decode: %w", err)
	}
	return Build(def)
}

// Load reads a YAML document from r.
func Load(r io.Reader) (*Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("phasegraph: read: %w", err)
	}
	return Parse(data)
}

// LoadFile reads a YAML document from disk.
func LoadFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("phasegraph: read %s: %w", path, err)
	}
	g, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Build validates def and creates its sync points. Dependencies are added
// in declaration order.
func Build(def Definition) (*Graph, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	g := &Graph{
		order:  make([]string, 0, len(def.Phases)),
		phases: make(map[string]*sched.SyncPoint, len(def.Phases)),
	}
	for _, p := range def.Phases {
		name := strings.TrimSpace(p.Name)
		g.order = append(g.order, name)
		g.phases[name] = sched.NewSyncPoint(name)
	}
	for _, p := range def.Phases {
		sp := g.phases[strings.TrimSpace(p.Name)]
		for _, dep := range p.After {
			sp.AddDependency(g.phases[strings.TrimSpace(dep)])
		}
	}
	return g, nil
}

// Validate reports the first structural problem in def.
func (def Definition) Validate() error {
	if len(def.Phases) == 0 {
		return fmt.Errorf("phasegraph: no phases declared")
	}
	after := make(map[string][]string, len(def.Phases))
	for i, p := range def.Phases {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return fmt.Errorf("phasegraph: phase %d has no name", i)
		}
		if _, dup := after[name]; dup {
			return fmt.Errorf("phasegraph: duplicate phase %q", name)
		}
		deps := make([]string, 0, len(p.After))
		for _, dep := range p.After {
			deps = append(deps, strings.TrimSpace(dep))
		}
		after[name] = deps
	}
	for _, p := range def.Phases {
		name := strings.TrimSpace(p.Name)
		for _, dep := range after[name] {
			if _, ok := after[dep]; !ok {
				return fmt.Errorf("phasegraph: phase %q depends on unknown phase %q", name, dep)
			}
		}
	}
	return checkAcyclic(def.Phases, after)
}

const (
	unvisited = iota
	visiting
	visited
)

func checkAcyclic(phases []PhaseDefinition, after map[string][]string) error {
	color := make(map[string]int, len(after))
	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch color[name] {
		case visiting:
			return fmt.Errorf("phasegraph: cycle %s", strings.Join(append(path, name), " -> "))
		case visited:
			return nil
		}
		color[name] = visiting
		for _, dep := range after[name] {
			if err := visit(dep, append(path, name)); err != nil {
				return err
			}
		}
		color[name] = visited
		return nil
	}
	for _, p := range phases {
		if err := visit(strings.TrimSpace(p.Name), nil); err != nil {
			return err
		}
	}
	return nil
}

// Phase returns the sync point named name, or nil.
func (g *Graph) Phase(name string) *sched.SyncPoint {
	return g.phases[name]
}

// Names returns the phase names in declaration order.
func (g *Graph) Names() []string {
	return append([]string(nil), g.order...)
}

// Roots returns the phases without dependencies in declaration order.
// Passing each root to [sched.Scheduler.Run] covers the whole graph.
func (g *Graph) Roots() []*sched.SyncPoint {
	var roots []*sched.SyncPoint
	for _, name := range g.order {
		sp := g.phases[name]
		if len(sp.Dependencies()) == 0 {
			roots = append(roots, sp)
		}
	}
	return roots
}
