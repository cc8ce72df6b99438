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

// sweep runs the kernel across a cross product of core counts and
// policies over a batch of generated graphs, and prints the resulting
// average-wait table, reproducing the sweep described by
// original_source/backend/sweeper.py and visualization_overall.py.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/containers/runnable-scheduler/pkg/dataset"
	logger "github.com/containers/runnable-scheduler/pkg/log"
	"github.com/containers/runnable-scheduler/pkg/sweep"
)

var log = logger.Default()

func main() {
	setCount := flag.Int("sets", 50, "number of randomly generated graphs to average over")
	cores := flag.String("cores", "1,2,3,4,5,6", "comma-separated core counts to sweep")
	policies := flag.String("scheduling-policies", "fcfs,pas", "comma-separated scheduling policies to sweep")
	allocPolicies := flag.String("allocation-policies", "dynamic,static", "comma-separated allocation policies to sweep")
	iterations := flag.Int("iterations", 3, "horizon multiplier I applied to every run")
	concurrency := flag.Int("concurrency", 4, "maximum number of concurrent kernel runs")
	seed := flag.Int64("seed", 2025, "base seed for the generated graph batch")
	flag.Parse()

	graphs, err := dataset.GenerateMany(dataset.Shape{
		PeriodicCount: 2, EventCount: 18,
		MinExecutionTime: 15, MaxExecutionTime: 50,
		MinPeriod: 100, MaxPeriod: 200,
		MaxDeps: 2, MaxPriority: 4, Seed: *seed,
	}, *setCount)
	if err != nil {
		log.Fatal("sweep: %v", err)
	}

	it := *iterations
	points, err := sweep.Run(context.Background(), sweep.Config{
		Graphs:             graphs,
		CoreCounts:         parseInts(*cores),
		SchedulingPolicies: splitCSV(*policies),
		AllocationPolicies: splitCSV(*allocPolicies),
		Iterations:         &it,
		MaxConcurrency:     *concurrency,
	})
	if err != nil {
		log.Fatal("sweep: %v", err)
	}

	fmt.Printf("%-6s %-12s %-10s %10s %10s %10s %8s\n", "cores", "scheduling", "allocation", "avg_wait", "avg_mkspn", "avg_exec", "samples")
	for _, p := range points {
		fmt.Printf("%-6d %-12s %-10s %10.2f %10.2f %10.2f %8d\n",
			p.NumCores, p.SchedulingPolicy, p.AllocationPolicy, p.AverageWait, p.AverageMakespan, p.AverageExecution, p.Samples)
	}
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseInts(s string) []int {
	var out []int
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sweep: invalid core count %q: %v\n", p, err)
			os.Exit(2)
		}
		out = append(out, n)
	}
	return out
}
