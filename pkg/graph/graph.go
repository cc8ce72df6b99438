// Copyright The NRI Plugins Authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package graph holds the immutable input to a scheduling run: a table of
// runnables (nodes), each either a periodic source or an event-driven
// consumer of its predecessors' completions.
package graph

import (
	"fmt"
	"sort"

	logger "github.com/containers/runnable-scheduler/pkg/log"
	"github.com/hashicorp/go-multierror"
)

var log = logger.NewLogger("graph")

// Kind distinguishes a periodic runnable from an event-driven one.
type Kind int

const (
	// Periodic runnables are released automatically every Period ticks.
	Periodic Kind = iota
	// Event runnables are released once every incoming edge carries a token.
	Event
)

func (k Kind) String() string {
	if k == Periodic {
		return "periodic"
	}
	return "event"
}

// Node is one runnable in the graph. Fields mirror the spec's data model
// exactly: Name is the unique key, ExecutionTime/Period/Priority are
// integer ticks, Deps lists predecessor names (meaningful only for Event
// nodes).
type Node struct {
	Name          string
	Kind          Kind
	ExecutionTime int
	Period        int
	Priority      int
	Deps          []string
}

// Graph is the read-only, validated input to a scheduling run. Once built
// by New, a Graph is never mutated; every run reads it but owns none of
// it, so concurrent runs can safely share one Graph value.
type Graph struct {
	nodes   map[string]Node
	order   []string // names, sorted by New, for deterministic iteration
}

// New validates nodes and builds a Graph. It returns every input-shape and
// graph error it finds, collected into a single *multierror.Error, rather
// than stopping at the first one: a caller fixing a malformed dataset
// wants the whole list at once.
func New(nodes []Node) (*Graph, error) {
	g := &Graph{
		nodes: make(map[string]Node, len(nodes)),
		order: make([]string, 0, len(nodes)),
	}

	var errs *multierror.Error

	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if n.Name == "" {
			errs = multierror.Append(errs, errShape("node with empty name"))
			continue
		}
		if seen[n.Name] {
			errs = multierror.Append(errs, errShape("duplicate node name %q", n.Name))
			continue
		}
		seen[n.Name] = true

		if n.ExecutionTime <= 0 {
			errs = multierror.Append(errs, errShape("node %q: execution_time must be positive, got %d", n.Name, n.ExecutionTime))
		}
		switch n.Kind {
		case Periodic:
			if n.Period <= 0 {
				errs = multierror.Append(errs, errShape("node %q: periodic node requires a positive period, got %d", n.Name, n.Period))
			}
			if len(n.Deps) > 0 {
				errs = multierror.Append(errs, errShape("node %q: periodic node must not have dependencies", n.Name))
			}
		case Event:
			if n.Period != 0 {
				errs = multierror.Append(errs, errShape("node %q: event node must not declare a period", n.Name))
			}
		default:
			errs = multierror.Append(errs, errShape("node %q: unknown kind %v", n.Name, n.Kind))
		}

		g.nodes[n.Name] = n
		g.order = append(g.order, n.Name)
	}

	for _, n := range nodes {
		for _, d := range n.Deps {
			if _, ok := g.nodes[d]; !ok {
				errs = multierror.Append(errs, errGraph("node %q: dependency %q does not resolve to any node", n.Name, d))
			}
		}
	}

	if errs.ErrorOrNil() == nil {
		if cyc := findCycle(g); cyc != "" {
			errs = multierror.Append(errs, errGraph("dependency cycle detected involving node %q", cyc))
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		log.Error("graph validation failed: %v", err)
		return nil, err
	}

	sort.Strings(g.order)
	return g, nil
}

// Node returns the node with the given name and whether it was found.
func (g *Graph) Node(name string) (Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Names returns every node name, sorted.
func (g *Graph) Names() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Nodes returns every node, in sorted-name order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodes))
	for _, name := range g.order {
		out = append(out, g.nodes[name])
	}
	return out
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int { return len(g.nodes) }

// TotalWork returns W, the sum of execution_time across every node.
func (g *Graph) TotalWork() int {
	w := 0
	for _, n := range g.nodes {
		w += n.ExecutionTime
	}
	return w
}

// findCycle does a Kahn-style (in-degree queue) drain of the graph; if any node is left
// unvisited once no more nodes without pending dependencies remain, the
// remainder is part of (or feeds) a cycle, and its name is returned.
func findCycle(g *Graph) string {
	indegree := make(map[string]int, len(g.nodes))
	dependents := make(map[string][]string, len(g.nodes))
	for _, n := range g.nodes {
		if n.Kind == Event {
			indegree[n.Name] = len(n.Deps)
			for _, d := range n.Deps {
				dependents[d] = append(dependents[d], n.Name)
			}
		} else {
			indegree[n.Name] = 0
		}
	}

	queue := make([]string, 0, len(g.nodes))
	for name, deg := range indegree {
		if deg == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	drained := 0
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		drained++
		next := append([]string(nil), dependents[name]...)
		sort.Strings(next)
		for _, succ := range next {
			indegree[succ]--
			if indegree[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}

	if drained == len(g.nodes) {
		return ""
	}
	for _, name := range g.order {
		if indegree[name] > 0 {
			return name
		}
	}
	return ""
}

func errShape(format string, args ...interface{}) error {
	return &ShapeError{msg: fmt.Sprintf(format, args...)}
}

func errGraph(format string, args ...interface{}) error {
	return &StructureError{msg: fmt.Sprintf(format, args...)}
}
