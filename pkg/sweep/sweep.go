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

// Package sweep runs the kernel across a cross product of core counts,
// scheduling policies, and allocation policies over a batch of graphs,
// and averages the resulting metrics. It reproduces the sweep in
// original_source/backend/sweeper.py and visualization_overall.py
// (average waiting time vs. core count, per policy pair), using
// golang.org/x/sync/errgroup to cap how many runs are in flight and
// golang.org/x/time/rate to optionally throttle how fast runs start,
// since a large sweep is otherwise an easy way to pin every core on the
// host running it.
package sweep

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/containers/runnable-scheduler/pkg/graph"
	"github.com/containers/runnable-scheduler/pkg/kernel"
	logger "github.com/containers/runnable-scheduler/pkg/log"
	"github.com/containers/runnable-scheduler/pkg/metrics"
)

var log = logger.NewLogger("sweep")

// Config describes one sweep: the cross product of CoreCounts x
// SchedulingPolicies x AllocationPolicies run over every graph in Graphs.
type Config struct {
	Graphs             []*graph.Graph
	CoreCounts         []int
	SchedulingPolicies []string
	AllocationPolicies []string
	Iterations         *int

	// MaxConcurrency bounds how many kernel.Run calls execute at once.
	// Zero means unbounded (limited only by errgroup.SetLimit(-1)).
	MaxConcurrency int
	// RateLimit, if set, additionally throttles run starts per second;
	// zero disables throttling.
	RateLimit rate.Limit
}

// Point is one cell of the swept cross product, averaged over every
// graph in Config.Graphs.
type Point struct {
	NumCores         int
	SchedulingPolicy string
	AllocationPolicy string

	AverageWait      float64
	AverageMakespan  float64
	AverageExecution float64
	Samples          int
}

// Run executes the sweep and returns one Point per (cores, scheduling,
// allocation) combination, sorted by cores then scheduling then
// allocation for deterministic output.
func Run(ctx context.Context, cfg Config) ([]Point, error) {
	type cell struct {
		cores int
		sp    string
		ap    string
	}

	var cells []cell
	for _, c := range cfg.CoreCounts {
		for _, sp := range cfg.SchedulingPolicies {
			for _, ap := range cfg.AllocationPolicies {
				cells = append(cells, cell{c, sp, ap})
			}
		}
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(cfg.RateLimit, 1)
	}

	points := make([]Point, len(cells))
	g, gctx := errgroup.WithContext(ctx)
	if cfg.MaxConcurrency > 0 {
		g.SetLimit(cfg.MaxConcurrency)
	}

	for i, c := range cells {
		i, c := i, c
		g.Go(func() error {
			if limiter != nil {
				if err := limiter.Wait(gctx); err != nil {
					return err
				}
			}

			var mu sync.Mutex
			var waitSum, makespanSum, execSum float64
			n := 0

			for _, gr := range cfg.Graphs {
				res, err := kernel.Run(kernel.Config{
					Graph:            gr,
					NumCores:         c.cores,
					SchedulingPolicy: c.sp,
					AllocationPolicy: c.ap,
					Iterations:       cfg.Iterations,
				})
				if err != nil {
					log.Warn("sweep cell cores=%d sched=%s alloc=%s: %v", c.cores, c.sp, c.ap, err)
					continue
				}
				m := metrics.Compute(res, c.cores)

				mu.Lock()
				waitSum += m.AverageWait
				makespanSum += float64(m.Makespan)
				execSum += m.AverageExecution
				n++
				mu.Unlock()
			}

			p := Point{NumCores: c.cores, SchedulingPolicy: c.sp, AllocationPolicy: c.ap, Samples: n}
			if n > 0 {
				p.AverageWait = waitSum / float64(n)
				p.AverageMakespan = makespanSum / float64(n)
				p.AverageExecution = execSum / float64(n)
			}
			points[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(points, func(i, j int) bool {
		if points[i].NumCores != points[j].NumCores {
			return points[i].NumCores < points[j].NumCores
		}
		if points[i].SchedulingPolicy != points[j].SchedulingPolicy {
			return points[i].SchedulingPolicy < points[j].SchedulingPolicy
		}
		return points[i].AllocationPolicy < points[j].AllocationPolicy
	})
	return points, nil
}
