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

// Package kernel implements the deterministic, discrete-event scheduling
// loop: the single collaborator that owns simulated time, the periodic
// release table, per-edge dependency tokens, the running set, and the
// idle-core pool for the duration of exactly one run. A Run call neither
// reads nor writes any state outside the arguments it is given and the
// Result it returns; two concurrent Run calls never share anything.
package kernel

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/containers/runnable-scheduler/pkg/alloc"
	"github.com/containers/runnable-scheduler/pkg/graph"
	logger "github.com/containers/runnable-scheduler/pkg/log"
	"github.com/containers/runnable-scheduler/pkg/order"
	"github.com/containers/runnable-scheduler/pkg/topology"
)

var log = logger.NewLogger("kernel")

// Entry is one dispatched runnable instance: the §3 Schedule Entry.
type Entry struct {
	Name         string `json:"task"`
	Start        int    `json:"start"`
	Finish       int    `json:"end"`
	Core         int    `json:"core"`
	EligibleTime int    `json:"-"`
}

// Result is the §6 Run invocation output.
type Result struct {
	Schedule []Entry
	Makespan int
	// TotalWait is Σ max(0, start-eligible) plus the accumulated
	// periodic-release and event delays; §4.5's "Total wait".
	TotalWait int

	periodicWait int
	eventWait    int
}

// Config is the §6 Run invocation input, plus the supplemental knobs
// documented in SPEC_FULL.md §4 (core preferences, the event-delay
// heuristic toggle).
type Config struct {
	Graph             *graph.Graph
	NumCores          int
	SchedulingPolicy  string // "fcfs", "pas", "criticality"
	AllocationPolicy  string // "static", "dynamic"
	Iterations        *int   // optional I; nil means T_end = 2*W

	// CorePreferences optionally pins a runnable to a preferred core
	// index, honored when it is among the admissible cores at dispatch
	// time (SPEC_FULL.md §4, "Tri-core fixed topology"). Nodes absent
	// from this map use the spec's plain smallest-admissible-index rule.
	CorePreferences map[string]int

	// EventDelayHeuristic reproduces the source-observed heuristic of
	// §9: an event whose dispatch would finish after the next pending
	// periodic activation is delayed to next_active plus that
	// periodic's execution time, rather than dispatched immediately.
	// Defaults to true; set to false to disable it (it is documented as
	// a heuristic, not an invariant).
	EventDelayHeuristic *bool
}

func (c Config) eventDelayHeuristic() bool {
	if c.EventDelayHeuristic == nil {
		return true
	}
	return *c.EventDelayHeuristic
}

// Run executes one deterministic simulation and returns its schedule.
// Malformed policy names or a non-positive horizon are rejected before
// any entry is emitted, per §7.
func Run(cfg Config) (*Result, error) {
	if cfg.Graph == nil {
		return nil, errors.New("input-shape error: graph is required")
	}
	if cfg.NumCores <= 0 {
		return nil, errors.Errorf("input-shape error: num_cores must be positive, got %d", cfg.NumCores)
	}
	if cfg.Iterations != nil && *cfg.Iterations <= 0 {
		return nil, errors.Errorf("horizon error: iteration count must be positive, got %d", *cfg.Iterations)
	}

	schedPolicy, err := order.Named(cfg.SchedulingPolicy)
	if err != nil {
		return nil, errors.Wrap(err, "run")
	}

	topo := topology.Build(cfg.Graph)

	var allocPolicy alloc.Policy
	switch cfg.AllocationPolicy {
	case "static":
		cAlloc := cfg.NumCores
		if topo.MaxParallelism < cAlloc {
			cAlloc = topo.MaxParallelism
		}
		if nMin := topo.MinUsefulCores(cfg.NumCores); nMin < cAlloc {
			cAlloc = nMin
		}
		if cAlloc < 1 {
			cAlloc = 1
		}
		allocPolicy = alloc.Static{CAlloc: cAlloc}
	case "dynamic", "":
		allocPolicy = alloc.Dynamic{}
	default:
		return nil, errors.Errorf("policy error: unknown allocation policy %q", cfg.AllocationPolicy)
	}

	tEnd := 2 * topo.TotalWork
	if cfg.Iterations != nil {
		tEnd = *cfg.Iterations * topo.TotalWork
	}
	if tEnd <= 0 && topo.TotalWork > 0 {
		return nil, errors.New("horizon error: implied horizon is non-positive")
	}

	r := newRun(cfg, topo, schedPolicy, allocPolicy, tEnd)
	return r.execute()
}

// run holds the exclusively-owned, per-invocation scheduler state of §3.
type run struct {
	cfg   Config
	g     *graph.Graph
	topo  *topology.Topology
	order order.Policy
	alloc alloc.Policy
	tEnd  int

	tau int

	phi map[string]int // next release instant, absent = no more releases
	eta map[string]int // eligible time of the pending instance

	tokens map[edge]int

	runningEntries []runningEntry
	idleCores      []int

	schedule     []Entry
	periodicWait int
	eventWait    int
}

type edge struct{ pred, succ string }

type runningEntry struct {
	name         string
	eligibleTime int
	finish       int
	core         int
}

func newRun(cfg Config, topo *topology.Topology, sp order.Policy, ap alloc.Policy, tEnd int) *run {
	r := &run{
		cfg:   cfg,
		g:     cfg.Graph,
		topo:  topo,
		order: sp,
		alloc: ap,
		tEnd:  tEnd,
		phi:   map[string]int{},
		eta:   map[string]int{},
		tokens: map[edge]int{},
	}

	for i := 0; i < cfg.NumCores; i++ {
		r.idleCores = append(r.idleCores, i)
	}
	for _, n := range cfg.Graph.Nodes() {
		switch n.Kind {
		case graph.Periodic:
			r.phi[n.Name] = 0
		case graph.Event:
			r.eta[n.Name] = 0
		}
	}
	for _, n := range cfg.Graph.Nodes() {
		for _, d := range n.Deps {
			r.tokens[edge{d, n.Name}] = 0
		}
	}

	return r
}

func (r *run) execute() (*Result, error) {
	for r.tau < r.tEnd {
		periodicNow := r.eligiblePeriodic()
		eventNow := r.eligibleEvents()

		demand := len(periodicNow) + len(eventNow)
		available := r.alloc.Admissible(r.idleCores, demand)

		r.dispatchPeriodic(r.orderPeriodic(periodicNow), &available)
		r.dispatchEvents(r.orderEvents(eventNow), &available)

		tauNext, ok := r.nextTime()
		if !ok {
			break
		}
		r.complete(tauNext)
		r.tau = tauNext
	}

	return r.result(), nil
}

func (r *run) eligiblePeriodic() []string {
	var names []string
	for name, t := range r.phi {
		if t == r.tau {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (r *run) eligibleEvents() []string {
	var names []string
	for _, n := range r.g.Nodes() {
		if n.Kind != graph.Event {
			continue
		}
		if r.eta[n.Name] > r.tau {
			continue
		}
		ready := true
		for _, p := range n.Deps {
			if r.tokens[edge{p, n.Name}] <= 0 {
				ready = false
				break
			}
		}
		if ready {
			names = append(names, n.Name)
		}
	}
	sort.Strings(names)
	return names
}

func (r *run) orderPeriodic(names []string) []string {
	cands := make([]order.Candidate, len(names))
	for i, name := range names {
		n, _ := r.g.Node(name)
		cands[i] = order.Candidate{Name: name, Priority: n.Priority, EligibleTime: r.tau, Criticality: r.criticality(name)}
	}
	ordered := r.order.Order(cands)
	out := make([]string, len(ordered))
	for i, c := range ordered {
		out[i] = c.Name
	}
	return out
}

func (r *run) orderEvents(names []string) []string {
	cands := make([]order.Candidate, len(names))
	for i, name := range names {
		n, _ := r.g.Node(name)
		cands[i] = order.Candidate{Name: name, Priority: n.Priority, EligibleTime: r.eta[name], Criticality: r.criticality(name)}
	}
	ordered := r.order.Order(cands)
	out := make([]string, len(ordered))
	for i, c := range ordered {
		out[i] = c.Name
	}
	return out
}

func (r *run) criticality(name string) int {
	return r.topo.CriticalPathLen - r.topo.PathLength(name)
}

// takeCore removes and returns the core to dispatch to: the node's
// preferred core if set and currently admissible, else the smallest
// admissible index.
func (r *run) takeCore(name string, available *[]int) (int, bool) {
	if len(*available) == 0 {
		return 0, false
	}
	core := (*available)[0]
	if pref, ok := r.cfg.CorePreferences[name]; ok {
		for _, c := range *available {
			if c == pref {
				core = c
				break
			}
		}
	}

	*available = removeInt(*available, core)
	r.idleCores = removeInt(r.idleCores, core)
	return core, true
}

func removeInt(s []int, v int) []int {
	out := make([]int, 0, len(s))
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

func (r *run) dispatchPeriodic(names []string, available *[]int) {
	for _, name := range names {
		n, _ := r.g.Node(name)
		core, ok := r.takeCore(name, available)
		if !ok {
			delta := r.earliestFinishDelta()
			r.phi[name] = r.tau + delta
			r.periodicWait += delta
			log.Debug("deferring periodic release of %q by %d ticks (no admissible core)", name, delta)
			continue
		}

		entry := Entry{Name: name, Start: r.tau, Finish: r.tau + n.ExecutionTime, Core: core, EligibleTime: r.tau}
		r.schedule = append(r.schedule, entry)
		r.runningEntries = append(r.runningEntries, runningEntry{name: name, eligibleTime: r.tau, finish: entry.Finish, core: core})

		next := r.tau + n.Period
		if next < r.tEnd {
			r.phi[name] = next
		} else {
			delete(r.phi, name)
		}
	}
}

// earliestFinishDelta returns the time until the earliest currently
// running entry's finish, used to defer a periodic release that found
// no admissible core. If nothing is running, the node simply tries
// again at τ+1 next pass; this only matters when num_cores is
// exhausted, so something must be running.
func (r *run) earliestFinishDelta() int {
	best := -1
	for _, re := range r.runningEntries {
		if best == -1 || re.finish < best {
			best = re.finish
		}
	}
	if best == -1 {
		return 1
	}
	return best - r.tau
}

func (r *run) dispatchEvents(names []string, available *[]int) {
	for _, name := range names {
		if len(*available) == 0 {
			break
		}
		n, _ := r.g.Node(name)
		if r.tau+n.ExecutionTime > r.tEnd {
			break
		}

		if r.cfg.eventDelayHeuristic() {
			if nextActive, firstPending, ok := r.nextPeriodicActivation(); ok {
				if r.tau <= nextActive && r.tau+n.ExecutionTime > nextActive {
					pendingNode, _ := r.g.Node(firstPending)
					delayedStart := nextActive + pendingNode.ExecutionTime
					delay := delayedStart - r.tau
					r.eta[name] = delayedStart
					r.eventWait += delay
					log.Debug("delaying event %q start to %d (pending periodic %q)", name, delayedStart, firstPending)
					continue
				}
			}
		}

		core, ok := r.takeCore(name, available)
		if !ok {
			break
		}

		entry := Entry{Name: name, Start: r.tau, Finish: r.tau + n.ExecutionTime, Core: core, EligibleTime: r.eta[name]}
		r.schedule = append(r.schedule, entry)
		r.runningEntries = append(r.runningEntries, runningEntry{name: name, eligibleTime: r.eta[name], finish: entry.Finish, core: core})

		for _, p := range n.Deps {
			r.tokens[edge{p, name}]--
		}
	}
}

// nextPeriodicActivation returns the earliest φ value strictly greater
// than τ and the name of the periodic node it belongs to (ties broken
// by name), i.e. "next_active" and "first_pending_periodic" from §4.4
// step 5.
func (r *run) nextPeriodicActivation() (int, string, bool) {
	best := -1
	bestName := ""
	for name, t := range r.phi {
		if t <= r.tau {
			continue
		}
		if best == -1 || t < best || (t == best && name < bestName) {
			best = t
			bestName = name
		}
	}
	if best == -1 {
		return 0, "", false
	}
	return best, bestName, true
}

func (r *run) nextTime() (int, bool) {
	best := -1
	for _, re := range r.runningEntries {
		if best == -1 || re.finish < best {
			best = re.finish
		}
	}
	for _, t := range r.phi {
		if t > r.tau && (best == -1 || t < best) {
			best = t
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

func (r *run) complete(tauNext int) {
	var still []runningEntry
	for _, re := range r.runningEntries {
		if re.finish != tauNext {
			still = append(still, re)
			continue
		}
		r.idleCores = append(r.idleCores, re.core)
		sort.Ints(r.idleCores)

		for _, s := range r.topo.Successors(re.name) {
			r.tokens[edge{re.name, s}]++
			r.eta[s] = tauNext
		}
	}
	r.runningEntries = still
}

func (r *run) result() *Result {
	makespan := 0
	for _, e := range r.schedule {
		if e.Finish > makespan {
			makespan = e.Finish
		}
	}

	waitSum := 0
	for _, e := range r.schedule {
		if d := e.Start - e.EligibleTime; d > 0 {
			waitSum += d
		}
	}

	return &Result{
		Schedule:     r.schedule,
		Makespan:     makespan,
		TotalWait:    waitSum + r.periodicWait + r.eventWait,
		periodicWait: r.periodicWait,
		eventWait:    r.eventWait,
	}
}
