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

package gantt_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/containers/runnable-scheduler/pkg/gantt"
	"github.com/containers/runnable-scheduler/pkg/kernel"
)

func sampleResult() *kernel.Result {
	return &kernel.Result{
		Schedule: []kernel.Entry{
			{Name: "A", Start: 0, Finish: 3, Core: 0, EligibleTime: 0},
			{Name: "B", Start: 3, Finish: 5, Core: 0, EligibleTime: 3},
			{Name: "C", Start: 0, Finish: 2, Core: 1, EligibleTime: 0},
		},
		Makespan:  5,
		TotalWait: 1,
	}
}

func TestWriteSVGProducesWellFormedDocument(t *testing.T) {
	var buf bytes.Buffer
	gantt.WriteSVG(&buf, sampleResult(), 2)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "</svg>")
	assert.Contains(t, out, "core 0")
	assert.Contains(t, out, "core 1")
	assert.Contains(t, out, "A")
}

func TestWriteSVGHandlesEmptySchedule(t *testing.T) {
	var buf bytes.Buffer
	assert.NotPanics(t, func() {
		gantt.WriteSVG(&buf, &kernel.Result{}, 1)
	})
	assert.Contains(t, buf.String(), "<svg")
}

func TestWriteTableRendersRowsAndFooter(t *testing.T) {
	var buf bytes.Buffer
	gantt.WriteTable(&buf, sampleResult())

	out := buf.String()
	assert.Contains(t, out, "Task")
	assert.Contains(t, out, "A")
	assert.Contains(t, out, "B")
	assert.Contains(t, out, "C")
	assert.Contains(t, out, "makespan")
	assert.Contains(t, out, "5")
}

func TestWriteTableHandlesEmptySchedule(t *testing.T) {
	var buf bytes.Buffer
	assert.NotPanics(t, func() {
		gantt.WriteTable(&buf, &kernel.Result{})
	})
}
