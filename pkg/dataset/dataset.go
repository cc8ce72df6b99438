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

// Package dataset generates synthetic runnable graphs for benchmarking and
// sweeping, and holds the fixed reference graph used for replay testing.
// The generator reproduces the shape of the generator in
// original_source/backend/runnable_sets.py: a fixed base set of periodic
// sources feeding a layered fan-out of event consumers, with each event
// node picking 0-2 dependencies from strictly earlier names so the result
// is always a DAG by construction.
package dataset

import (
	"fmt"
	"math/rand"

	"github.com/containers/runnable-scheduler/pkg/graph"
	logger "github.com/containers/runnable-scheduler/pkg/log"
)

var log = logger.NewLogger("dataset")

// Shape configures a generated graph, mirroring the tunable knobs exposed
// by original_source/backend/runnable_sets.py's BASE_RUNNABLES_BALANCED.
type Shape struct {
	// PeriodicCount is the number of periodic source nodes.
	PeriodicCount int `json:"periodicCount"`
	// EventCount is the number of event-driven nodes layered on top.
	EventCount int `json:"eventCount"`
	// MinExecutionTime/MaxExecutionTime bound each node's execution_time.
	MinExecutionTime int `json:"minExecutionTime"`
	MaxExecutionTime int `json:"maxExecutionTime"`
	// MinPeriod/MaxPeriod bound a periodic node's period.
	MinPeriod int `json:"minPeriod"`
	MaxPeriod int `json:"maxPeriod"`
	// MaxDeps bounds how many predecessors an event node may declare (the
	// source caps this at 2).
	MaxDeps int `json:"maxDeps"`
	// MaxPriority bounds priority values, inclusive, starting at 0.
	MaxPriority int `json:"maxPriority"`
	// Seed seeds the deterministic generator; the same Shape and Seed
	// always produce the same graph.
	Seed int64 `json:"seed"`
}

// DefaultShape mirrors the scale of BASE_RUNNABLES_BALANCED: 2 periodic
// sources feeding 18 layered event nodes.
func DefaultShape() Shape {
	return Shape{
		PeriodicCount:    2,
		EventCount:       18,
		MinExecutionTime: 15,
		MaxExecutionTime: 50,
		MinPeriod:        100,
		MaxPeriod:        200,
		MaxDeps:          2,
		MaxPriority:      4,
		Seed:             2025,
	}
}

// Generate builds one deterministic graph from sh. Event node i (named
// "Runnable<PeriodicCount+i+1>") picks 0..MaxDeps dependencies uniformly
// from the strictly earlier names, guaranteeing acyclicity by
// construction, exactly as the source generator does.
func Generate(sh Shape) (*graph.Graph, error) {
	rnd := rand.New(rand.NewSource(sh.Seed))

	total := sh.PeriodicCount + sh.EventCount
	names := make([]string, total)
	for i := range names {
		names[i] = fmt.Sprintf("Runnable%d", i+1)
	}

	nodes := make([]graph.Node, 0, total)
	for i := 0; i < sh.PeriodicCount; i++ {
		nodes = append(nodes, graph.Node{
			Name:          names[i],
			Kind:          graph.Periodic,
			ExecutionTime: randRange(rnd, sh.MinExecutionTime, sh.MaxExecutionTime),
			Period:        randRange(rnd, sh.MinPeriod, sh.MaxPeriod),
			Priority:      rnd.Intn(sh.MaxPriority + 1),
		})
	}

	for i := sh.PeriodicCount; i < total; i++ {
		earlier := names[:i]
		depCount := rnd.Intn(sh.MaxDeps + 1)
		if depCount > len(earlier) {
			depCount = len(earlier)
		}
		deps := sampleDistinct(rnd, earlier, depCount)

		nodes = append(nodes, graph.Node{
			Name:          names[i],
			Kind:          graph.Event,
			ExecutionTime: randRange(rnd, sh.MinExecutionTime, sh.MaxExecutionTime),
			Priority:      rnd.Intn(sh.MaxPriority + 1),
			Deps:          deps,
		})
	}

	log.Debug("generated graph: %d periodic, %d event nodes (seed=%d)", sh.PeriodicCount, sh.EventCount, sh.Seed)
	return graph.New(nodes)
}

// GenerateMany produces count distinct graphs by seeding Generate with
// sh.Seed+i for i in [0, count), matching the source's "50 sets" sweep
// input.
func GenerateMany(sh Shape, count int) ([]*graph.Graph, error) {
	out := make([]*graph.Graph, 0, count)
	for i := 0; i < count; i++ {
		s := sh
		s.Seed = sh.Seed + int64(i)
		g, err := Generate(s)
		if err != nil {
			return nil, fmt.Errorf("dataset: generating set %d: %w", i, err)
		}
		out = append(out, g)
	}
	return out, nil
}

func randRange(rnd *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rnd.Intn(hi-lo+1)
}

func sampleDistinct(rnd *rand.Rand, pool []string, n int) []string {
	if n <= 0 || len(pool) == 0 {
		return nil
	}
	idx := rnd.Perm(len(pool))[:n]
	out := make([]string, n)
	for i, p := range idx {
		out[i] = pool[p]
	}
	return out
}
