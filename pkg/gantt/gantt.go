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

// Package gantt renders a completed schedule two ways: an SVG Gantt
// chart (one lane per core) and an ASCII summary table, the two render
// targets called out by SPEC_FULL.md §3.2.
package gantt

import (
	"fmt"
	"io"
	"sort"

	svg "github.com/ajstarks/svgo"
	"github.com/olekukonko/tablewriter"

	"github.com/containers/runnable-scheduler/pkg/kernel"
)

const (
	rowHeight  = 28
	pxPerTick  = 12
	leftMargin = 90
	topMargin  = 30
)

var palette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

// WriteSVG renders res as an SVG Gantt chart with one horizontal lane per
// core, writing the document to w.
func WriteSVG(w io.Writer, res *kernel.Result, numCores int) {
	makespan := res.Makespan
	if makespan == 0 {
		makespan = 1
	}

	width := leftMargin + makespan*pxPerTick + 20
	height := topMargin + numCores*rowHeight + 20

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:white")

	for c := 0; c < numCores; c++ {
		y := topMargin + c*rowHeight
		canvas.Text(10, y+rowHeight/2+4, fmt.Sprintf("core %d", c), "font-family:monospace;font-size:12px")
		canvas.Line(leftMargin, y, width-10, y, "stroke:#ddd")
	}

	colorOf := map[string]string{}
	names := make([]string, 0)
	seen := map[string]bool{}
	for _, e := range res.Schedule {
		if !seen[e.Name] {
			seen[e.Name] = true
			names = append(names, e.Name)
		}
	}
	sort.Strings(names)
	for i, n := range names {
		colorOf[n] = palette[i%len(palette)]
	}

	for _, e := range res.Schedule {
		x := leftMargin + e.Start*pxPerTick
		barWidth := (e.Finish - e.Start) * pxPerTick
		if barWidth < 1 {
			barWidth = 1
		}
		y := topMargin + e.Core*rowHeight + 4
		style := fmt.Sprintf("fill:%s;stroke:black;stroke-width:1", colorOf[e.Name])
		canvas.Rect(x, y, barWidth, rowHeight-8, style)
		canvas.Text(x+2, y+rowHeight-14, e.Name, "font-family:monospace;font-size:10px;fill:white")
	}

	canvas.End()
}

// WriteTable renders res as an ASCII summary table: one row per dispatched
// instance, ordered by start time then core then name.
func WriteTable(w io.Writer, res *kernel.Result) {
	rows := append([]kernel.Entry(nil), res.Schedule...)
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Start != rows[j].Start {
			return rows[i].Start < rows[j].Start
		}
		if rows[i].Core != rows[j].Core {
			return rows[i].Core < rows[j].Core
		}
		return rows[i].Name < rows[j].Name
	})

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Task", "Start", "End", "Core"})
	table.SetAutoFormatHeaders(false)
	for _, e := range rows {
		table.Append([]string{
			e.Name,
			fmt.Sprintf("%d", e.Start),
			fmt.Sprintf("%d", e.Finish),
			fmt.Sprintf("%d", e.Core),
		})
	}
	table.SetFooter([]string{"", "", "makespan", fmt.Sprintf("%d", res.Makespan)})
	table.Render()
}
