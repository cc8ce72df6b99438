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

// Package topology derives the forward/reverse edge sets of a runnable
// graph and the analytical bounds (critical path length, maximum
// parallelism, minimum useful core count) used to parameterize static
// core allocation.
package topology

import (
	"math"
	"sort"

	logger "github.com/containers/runnable-scheduler/pkg/log"
	"github.com/containers/runnable-scheduler/pkg/graph"
)

var log = logger.NewLogger("topology")

// AmdahlEfficiency is the efficiency target ε used by the N_min bound.
const AmdahlEfficiency = 0.9

// Topology holds the derived successor/predecessor sets and analytical
// bounds for one graph. It is computed once per graph and is read-only
// thereafter; like the graph it derives from, it may be shared by
// concurrent runs.
type Topology struct {
	g            *graph.Graph
	successors   map[string][]string
	predecessors map[string][]string

	TotalWork         int
	CriticalPathLen   int
	MaxParallelism    int
	pathLength        map[string]int
}

// Build derives successors/predecessors (ignoring edges to unknown
// names, which graph.New has already rejected at validation time) and
// computes T_CP and P_max.
func Build(g *graph.Graph) *Topology {
	t := &Topology{
		g:            g,
		successors:   make(map[string][]string),
		predecessors: make(map[string][]string),
		pathLength:   make(map[string]int),
	}

	for _, n := range g.Nodes() {
		if _, ok := t.predecessors[n.Name]; !ok {
			t.predecessors[n.Name] = nil
		}
		for _, d := range n.Deps {
			if _, ok := g.Node(d); !ok {
				continue // unknown dependency targets are dropped, not an error here
			}
			t.predecessors[n.Name] = append(t.predecessors[n.Name], d)
			t.successors[d] = append(t.successors[d], n.Name)
		}
	}
	for name := range t.predecessors {
		sort.Strings(t.predecessors[name])
	}
	for name := range t.successors {
		sort.Strings(t.successors[name])
	}

	t.TotalWork = g.TotalWork()
	t.CriticalPathLen = t.computeCriticalPath()
	t.MaxParallelism = t.computeMaxParallelism()

	log.Debug("topology built: W=%d T_CP=%d P_max=%d", t.TotalWork, t.CriticalPathLen, t.MaxParallelism)
	return t
}

// Successors returns the immediate successors of n, sorted by name.
func (t *Topology) Successors(n string) []string { return t.successors[n] }

// Predecessors returns the immediate predecessors of n, sorted by name.
func (t *Topology) Predecessors(n string) []string { return t.predecessors[n] }

// computeCriticalPath assigns path_length[n] = max over predecessors p of
// (path_length[p] + execution_time[p]), starting from sources, in a
// topological order (the graph has already been validated acyclic).
func (t *Topology) computeCriticalPath() int {
	order := t.topoOrder()
	for _, name := range order {
		best := 0
		for _, p := range t.predecessors[name] {
			pn, _ := t.g.Node(p)
			if cand := t.pathLength[p] + pn.ExecutionTime; cand > best {
				best = cand
			}
		}
		t.pathLength[name] = best
	}

	cp := 0
	for _, name := range order {
		n, _ := t.g.Node(name)
		if cand := t.pathLength[name] + n.ExecutionTime; cand > cp {
			cp = cand
		}
	}
	return cp
}

// PathLength returns path_length[n], the longest weighted distance from
// any source to n (exclusive of n's own execution time).
func (t *Topology) PathLength(n string) int { return t.pathLength[n] }

// topoOrder returns node names in a topological (Kahn) order. The graph
// is already guaranteed acyclic by graph.New.
func (t *Topology) topoOrder() []string {
	indegree := make(map[string]int, t.g.Len())
	for _, name := range t.g.Names() {
		indegree[name] = len(t.predecessors[name])
	}

	queue := make([]string, 0, t.g.Len())
	for _, name := range t.g.Names() {
		if indegree[name] == 0 {
			queue = append(queue, name)
		}
	}

	order := make([]string, 0, t.g.Len())
	for len(queue) > 0 {
		sort.Strings(queue)
		name := queue[0]
		queue = queue[1:]
		order = append(order, name)

		succs := append([]string(nil), t.successors[name]...)
		sort.Strings(succs)
		for _, s := range succs {
			indegree[s]--
			if indegree[s] == 0 {
				queue = append(queue, s)
			}
		}
	}
	return order
}

// computeMaxParallelism simulates unbounded-core level-synchronous
// execution: all currently eligible runnables execute as one frontier,
// then the next frontier is derived from completed predecessors. P_max is
// the largest frontier observed, minimum 1.
func (t *Topology) computeMaxParallelism() int {
	completed := make(map[string]bool, t.g.Len())
	remaining := make(map[string]int, t.g.Len())
	for _, name := range t.g.Names() {
		remaining[name] = len(t.predecessors[name])
	}

	frontier := make([]string, 0)
	for _, name := range t.g.Names() {
		n, _ := t.g.Node(name)
		if n.Kind == graph.Periodic || remaining[name] == 0 {
			frontier = append(frontier, name)
		}
	}
	sort.Strings(frontier)

	maxPar := 1
	for len(frontier) > 0 {
		if len(frontier) > maxPar {
			maxPar = len(frontier)
		}

		next := make(map[string]bool)
		for _, name := range frontier {
			completed[name] = true
			for _, s := range t.successors[name] {
				sn, _ := t.g.Node(s)
				if sn.Kind != graph.Event {
					continue
				}
				ready := true
				for _, p := range t.predecessors[s] {
					if !completed[p] {
						ready = false
						break
					}
				}
				if ready && !completed[s] {
					next[s] = true
				}
			}
		}

		frontier = frontier[:0]
		for name := range next {
			frontier = append(frontier, name)
		}
		sort.Strings(frontier)
	}

	return maxPar
}

// MinUsefulCores computes N_min, the DAG-aware Amdahl bound from §4.1:
// with s = T_CP/W and p = 1-s, N_min = ceil(ε·p / (s·(1-ε))), clamped to
// at least 1. numCores is returned in the s=0 case (T_CP = 0 with W > 0),
// which cannot occur once every node has a positive execution time: even
// a graph with no dependencies has T_CP equal to its longest node.
func (t *Topology) MinUsefulCores(numCores int) int {
	if t.TotalWork == 0 {
		return 1
	}

	s := float64(t.CriticalPathLen) / float64(t.TotalWork)
	if s == 0 {
		return numCores
	}

	p := 1 - s
	const eps = AmdahlEfficiency
	n := math.Ceil((eps * p) / (s * (1 - eps)))
	if n < 1 {
		n = 1
	}
	return int(n)
}
