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

// scheduler-cli is the flag-based, multi-subcommand front end for
// running the kernel directly from the shell: "run" schedules one graph
// and prints its Gantt table, "graph" validates/prints a graph file,
// "config-help" describes the shared configuration keys.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/containers/runnable-scheduler/pkg/config"
	"github.com/containers/runnable-scheduler/pkg/gantt"
	"github.com/containers/runnable-scheduler/pkg/graph"
	"github.com/containers/runnable-scheduler/pkg/kernel"
	logger "github.com/containers/runnable-scheduler/pkg/log"
	"github.com/containers/runnable-scheduler/pkg/metrics"
)

var log = logger.Default()

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "run":
		cmdRun(os.Args[2:])
	case "graph":
		cmdGraph(os.Args[2:])
	case "config-help":
		cmdConfigHelp(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: scheduler-cli <run|graph|config-help> [flags]")
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfg := config.Default()
	config.RegisterFlags(fs, &cfg)
	graphFile := fs.String("graph", "", "path to a graph JSON file (§6 node-table format)")
	svgOut := fs.String("svg", "", "optional path to write an SVG Gantt chart")
	fs.Parse(args)

	if *graphFile == "" {
		log.Fatal("run: -graph is required")
	}

	data, err := os.ReadFile(*graphFile)
	if err != nil {
		log.Fatal("run: %v", err)
	}
	g, err := graph.Unmarshal(data)
	if err != nil {
		log.Fatal("run: %v", err)
	}

	res, err := kernel.Run(kernel.Config{
		Graph:            g,
		NumCores:         cfg.NumCores,
		SchedulingPolicy: cfg.SchedulingPolicy,
		AllocationPolicy: cfg.AllocationPolicy,
		Iterations:       cfg.IterationsPtr(),
	})
	if err != nil {
		log.Fatal("run: %v", err)
	}

	gantt.WriteTable(os.Stdout, res)
	m := metrics.Compute(res, cfg.NumCores)
	fmt.Printf("\nmakespan=%d total_wait=%d avg_wait=%.2f avg_exec=%.2f executed=%d\n",
		m.Makespan, m.TotalWait, m.AverageWait, m.AverageExecution, m.ExecutedCount)

	if *svgOut != "" {
		f, err := os.Create(*svgOut)
		if err != nil {
			log.Fatal("run: %v", err)
		}
		defer f.Close()
		gantt.WriteSVG(f, res, cfg.NumCores)
	}
}

func cmdGraph(args []string) {
	fs := flag.NewFlagSet("graph", flag.ExitOnError)
	graphFile := fs.String("graph", "", "path to a graph JSON file")
	fs.Parse(args)

	if *graphFile == "" {
		log.Fatal("graph: -graph is required")
	}
	data, err := os.ReadFile(*graphFile)
	if err != nil {
		log.Fatal("graph: %v", err)
	}
	g, err := graph.Unmarshal(data)
	if err != nil {
		log.Fatal("graph: invalid graph: %v", err)
	}
	fmt.Printf("%d nodes, total work %d\n", g.Len(), g.TotalWork())
	for _, n := range g.Nodes() {
		fmt.Printf("  %-20s %-8s exec=%-4d period=%-4d prio=%-2d deps=%v\n",
			n.Name, n.Kind, n.ExecutionTime, n.Period, n.Priority, n.Deps)
	}
}

func cmdConfigHelp(args []string) {
	config.Describe(args...)
}
