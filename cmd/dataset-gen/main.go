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

// dataset-gen emits one or more synthetic runnable graphs as §6 wire-
// format JSON files, optionally shaped by a YAML Shape document.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/containers/runnable-scheduler/pkg/dataset"
	"github.com/containers/runnable-scheduler/pkg/graph"
	logger "github.com/containers/runnable-scheduler/pkg/log"
)

var log = logger.Default()

func main() {
	shapeFile := flag.String("shape", "", "path to a YAML Shape document; unset uses dataset.DefaultShape")
	count := flag.Int("count", 1, "number of graphs to generate")
	outDir := flag.String("out", ".", "output directory for generated graph files")
	fixed := flag.Bool("fixed-trace", false, "emit the fixed reference trace instead of a random shape")
	flag.Parse()

	if *fixed {
		g, err := dataset.FixedTrace()
		if err != nil {
			log.Fatal("dataset-gen: %v", err)
		}
		writeGraph(*outDir, "fixed-trace.json", g)
		return
	}

	sh := dataset.DefaultShape()
	if *shapeFile != "" {
		data, err := os.ReadFile(*shapeFile)
		if err != nil {
			log.Fatal("dataset-gen: %v", err)
		}
		sh, err = dataset.LoadShape(data)
		if err != nil {
			log.Fatal("dataset-gen: %v", err)
		}
	}

	graphs, err := dataset.GenerateMany(sh, *count)
	if err != nil {
		log.Fatal("dataset-gen: %v", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal("dataset-gen: %v", err)
	}
	for i, g := range graphs {
		writeGraph(*outDir, fmt.Sprintf("runnable_set_%02d.json", i+1), g)
	}
	log.Info("wrote %d graph(s) to %s", len(graphs), *outDir)
}

func writeGraph(outDir, name string, g *graph.Graph) {
	data, err := graph.Marshal(g)
	if err != nil {
		log.Fatal("dataset-gen: %v", err)
	}
	path := filepath.Join(outDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatal("dataset-gen: %v", err)
	}
}
