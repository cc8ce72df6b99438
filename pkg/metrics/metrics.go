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

// Package metrics computes the §4.5 domain metrics over a completed
// schedule: per-core utilization, waiting time, average execution time,
// and makespan. This is distinct from the ambient Prometheus
// instrumentation in pkg/httpsvc, which exports process-level counters;
// this package is pure arithmetic over a kernel.Result.
package metrics

import "github.com/containers/runnable-scheduler/pkg/kernel"

// Metrics is the §4.5 metric set for one completed run.
type Metrics struct {
	Makespan         int
	TotalWait        int
	AverageWait      float64
	AverageExecution float64
	ExecutedCount    int
	CoreUtilization  map[int]float64
}

// Compute derives Metrics from a kernel.Result. numCores bounds the set
// of core indices reported, even if some were never used (utilization 0).
func Compute(res *kernel.Result, numCores int) Metrics {
	m := Metrics{
		Makespan:        res.Makespan,
		TotalWait:       res.TotalWait,
		ExecutedCount:   len(res.Schedule),
		CoreUtilization: make(map[int]float64, numCores),
	}

	busy := make(map[int]int, numCores)
	execSum := 0
	for _, e := range res.Schedule {
		d := e.Finish - e.Start
		busy[e.Core] += d
		execSum += d
	}

	for c := 0; c < numCores; c++ {
		u := 0.0
		if m.Makespan > 0 {
			u = float64(busy[c]) / float64(m.Makespan)
		}
		m.CoreUtilization[c] = u
	}

	if m.ExecutedCount > 0 {
		m.AverageWait = float64(m.TotalWait) / float64(m.ExecutedCount)
		m.AverageExecution = float64(execSum) / float64(m.ExecutedCount)
	}

	return m
}
