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

package kernel_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/containers/runnable-scheduler/pkg/graph"
	"github.com/containers/runnable-scheduler/pkg/kernel"
)

func one(i int) *int { return &i }

// S1: single-core, static allocation, a periodic source feeding one
// event consumer.
func TestScenarioS1(t *testing.T) {
	g, err := graph.New([]graph.Node{
		{Name: "A", Kind: graph.Periodic, ExecutionTime: 3, Period: 10},
		{Name: "B", Kind: graph.Event, ExecutionTime: 2, Deps: []string{"A"}},
	})
	require.NoError(t, err)

	res, err := kernel.Run(kernel.Config{
		Graph: g, NumCores: 1,
		SchedulingPolicy: "fcfs", AllocationPolicy: "static",
		Iterations: one(1),
	})
	require.NoError(t, err)

	want := []kernel.Entry{
		{Name: "A", Start: 0, Finish: 3, Core: 0, EligibleTime: 0},
		{Name: "B", Start: 3, Finish: 5, Core: 0, EligibleTime: 3},
	}
	assert.Empty(t, cmp.Diff(want, res.Schedule, cmp.AllowUnexported()))
	assert.Equal(t, 5, res.Makespan)
}

// S2: the same graph with two cores, dynamic allocation: core 1 is
// never used because B depends on A and there is no other work.
func TestScenarioS2(t *testing.T) {
	g, err := graph.New([]graph.Node{
		{Name: "A", Kind: graph.Periodic, ExecutionTime: 3, Period: 10},
		{Name: "B", Kind: graph.Event, ExecutionTime: 2, Deps: []string{"A"}},
	})
	require.NoError(t, err)

	res, err := kernel.Run(kernel.Config{
		Graph: g, NumCores: 2,
		SchedulingPolicy: "fcfs", AllocationPolicy: "dynamic",
		Iterations: one(1),
	})
	require.NoError(t, err)

	want := []kernel.Entry{
		{Name: "A", Start: 0, Finish: 3, Core: 0, EligibleTime: 0},
		{Name: "B", Start: 3, Finish: 5, Core: 0, EligibleTime: 3},
	}
	assert.Empty(t, cmp.Diff(want, res.Schedule, cmp.AllowUnexported()))
}

// S3: two independent periodic sources, ample cores: FCFS and PAS agree
// because both release simultaneously and there are enough cores for
// both.
func TestScenarioS3(t *testing.T) {
	build := func() *graph.Graph {
		g, err := graph.New([]graph.Node{
			{Name: "A", Kind: graph.Periodic, ExecutionTime: 2, Period: 10, Priority: 1},
			{Name: "B", Kind: graph.Periodic, ExecutionTime: 3, Period: 10, Priority: 0},
		})
		require.NoError(t, err)
		return g
	}

	want := []kernel.Entry{
		{Name: "A", Start: 0, Finish: 2, Core: 0, EligibleTime: 0},
		{Name: "B", Start: 0, Finish: 3, Core: 1, EligibleTime: 0},
	}

	for _, policy := range []string{"fcfs", "pas"} {
		res, err := kernel.Run(kernel.Config{
			Graph: build(), NumCores: 2,
			SchedulingPolicy: policy, AllocationPolicy: "dynamic",
			Iterations: one(1),
		})
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(want, res.Schedule, cmp.AllowUnexported()), "policy=%s", policy)
		assert.Equal(t, 3, res.Makespan)
	}
}

// S4: two periodic sources feed one event node with two dependencies.
func TestScenarioS4(t *testing.T) {
	g, err := graph.New([]graph.Node{
		{Name: "A", Kind: graph.Periodic, ExecutionTime: 2, Period: 10},
		{Name: "B", Kind: graph.Periodic, ExecutionTime: 3, Period: 10},
		{Name: "C", Kind: graph.Event, ExecutionTime: 1, Deps: []string{"A", "B"}},
	})
	require.NoError(t, err)

	res, err := kernel.Run(kernel.Config{
		Graph: g, NumCores: 2,
		SchedulingPolicy: "fcfs", AllocationPolicy: "dynamic",
		Iterations: one(1),
	})
	require.NoError(t, err)

	want := []kernel.Entry{
		{Name: "A", Start: 0, Finish: 2, Core: 0, EligibleTime: 0},
		{Name: "B", Start: 0, Finish: 3, Core: 1, EligibleTime: 0},
		{Name: "C", Start: 3, Finish: 4, Core: 0, EligibleTime: 3},
	}
	assert.Empty(t, cmp.Diff(want, res.Schedule, cmp.AllowUnexported()))
	assert.Equal(t, 4, res.Makespan)
}

// S5: a single periodic node whose second release is honored even
// though its dispatch time (5) is less than T_end (6) but its finish
// (7) extends past it.
func TestScenarioS5(t *testing.T) {
	g, err := graph.New([]graph.Node{
		{Name: "A", Kind: graph.Periodic, ExecutionTime: 2, Period: 5},
	})
	require.NoError(t, err)

	res, err := kernel.Run(kernel.Config{
		Graph: g, NumCores: 1,
		SchedulingPolicy: "fcfs", AllocationPolicy: "dynamic",
		Iterations: one(3),
	})
	require.NoError(t, err)

	want := []kernel.Entry{
		{Name: "A", Start: 0, Finish: 2, Core: 0, EligibleTime: 0},
		{Name: "A", Start: 5, Finish: 7, Core: 0, EligibleTime: 5},
	}
	assert.Empty(t, cmp.Diff(want, res.Schedule, cmp.AllowUnexported()))
}

// S6: makespan is non-increasing as core count grows across a long
// event chain, and never drops below the critical path length once the
// chain itself bottlenecks the schedule.
func TestScenarioS6MakespanNonIncreasing(t *testing.T) {
	nodes := []graph.Node{{Name: "Source", Kind: graph.Periodic, ExecutionTime: 2, Period: 1000}}
	prev := "Source"
	for i := 1; i <= 20; i++ {
		name := graph.Node{Name: nth(i), Kind: graph.Event, ExecutionTime: 3, Deps: []string{prev}}
		nodes = append(nodes, name)
		prev = nth(i)
	}
	g, err := graph.New(nodes)
	require.NoError(t, err)

	var last = -1
	for cores := 1; cores <= 6; cores++ {
		res, err := kernel.Run(kernel.Config{
			Graph: g, NumCores: cores,
			SchedulingPolicy: "fcfs", AllocationPolicy: "dynamic",
			Iterations: one(1),
		})
		require.NoError(t, err)
		if last != -1 {
			assert.LessOrEqual(t, res.Makespan, last, "cores=%d", cores)
		}
		assert.GreaterOrEqual(t, res.Makespan, 2+20*3, "cores=%d", cores)
		last = res.Makespan
	}
}

func nth(i int) string {
	return "N" + string(rune('A'+i%26)) + string(rune('0'+i/26))
}

// Boundary: an empty graph produces an empty schedule and zero makespan.
func TestBoundaryNoEligibleWork(t *testing.T) {
	g, err := graph.New(nil)
	require.NoError(t, err)

	res, err := kernel.Run(kernel.Config{
		Graph: g, NumCores: 1,
		SchedulingPolicy: "fcfs", AllocationPolicy: "dynamic",
	})
	require.NoError(t, err)
	assert.Empty(t, res.Schedule)
	assert.Equal(t, 0, res.Makespan)
}

func TestSingleNodePeriodBeyondHorizon(t *testing.T) {
	g, err := graph.New([]graph.Node{
		{Name: "Only", Kind: graph.Periodic, ExecutionTime: 4, Period: 1000},
	})
	require.NoError(t, err)

	res, err := kernel.Run(kernel.Config{
		Graph: g, NumCores: 1,
		SchedulingPolicy: "fcfs", AllocationPolicy: "dynamic",
		Iterations: one(1),
	})
	require.NoError(t, err)
	require.Len(t, res.Schedule, 1)
	assert.Equal(t, kernel.Entry{Name: "Only", Start: 0, Finish: 4, Core: 0, EligibleTime: 0}, res.Schedule[0])
}

func TestDeterminism(t *testing.T) {
	g, err := graph.New([]graph.Node{
		{Name: "A", Kind: graph.Periodic, ExecutionTime: 2, Period: 10, Priority: 1},
		{Name: "B", Kind: graph.Periodic, ExecutionTime: 3, Period: 10},
		{Name: "C", Kind: graph.Event, ExecutionTime: 1, Deps: []string{"A", "B"}},
		{Name: "D", Kind: graph.Event, ExecutionTime: 4, Deps: []string{"C"}},
	})
	require.NoError(t, err)

	cfg := kernel.Config{Graph: g, NumCores: 2, SchedulingPolicy: "pas", AllocationPolicy: "dynamic", Iterations: one(2)}

	res1, err := kernel.Run(cfg)
	require.NoError(t, err)
	res2, err := kernel.Run(cfg)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(res1.Schedule, res2.Schedule, cmp.AllowUnexported()))
	assert.Equal(t, res1.Makespan, res2.Makespan)
	assert.Equal(t, res1.TotalWait, res2.TotalWait)
}

func TestInvariants(t *testing.T) {
	g, err := graph.New([]graph.Node{
		{Name: "A", Kind: graph.Periodic, ExecutionTime: 2, Period: 7, Priority: 2},
		{Name: "B", Kind: graph.Periodic, ExecutionTime: 3, Period: 11, Priority: 1},
		{Name: "C", Kind: graph.Event, ExecutionTime: 4, Deps: []string{"A"}},
		{Name: "D", Kind: graph.Event, ExecutionTime: 1, Deps: []string{"A", "B"}},
		{Name: "E", Kind: graph.Event, ExecutionTime: 5, Deps: []string{"C", "D"}},
	})
	require.NoError(t, err)

	res, err := kernel.Run(kernel.Config{
		Graph: g, NumCores: 2,
		SchedulingPolicy: "pas", AllocationPolicy: "dynamic",
		Iterations: one(3),
	})
	require.NoError(t, err)

	for _, e := range res.Schedule {
		assert.Greater(t, e.Finish, e.Start)
		assert.GreaterOrEqual(t, e.Start, e.EligibleTime)
	}

	byCore := map[int][]kernel.Entry{}
	for _, e := range res.Schedule {
		byCore[e.Core] = append(byCore[e.Core], e)
	}
	for _, entries := range byCore {
		for i := 0; i < len(entries); i++ {
			for j := i + 1; j < len(entries); j++ {
				a, b := entries[i], entries[j]
				overlap := a.Start < b.Finish && b.Start < a.Finish
				assert.False(t, overlap, "entries overlap on same core: %+v vs %+v", a, b)
			}
		}
	}
}

func TestUnknownPolicyIsPolicyError(t *testing.T) {
	g, err := graph.New([]graph.Node{{Name: "A", Kind: graph.Periodic, ExecutionTime: 1, Period: 5}})
	require.NoError(t, err)

	_, err = kernel.Run(kernel.Config{Graph: g, NumCores: 1, SchedulingPolicy: "bogus", AllocationPolicy: "dynamic"})
	require.Error(t, err)

	_, err = kernel.Run(kernel.Config{Graph: g, NumCores: 1, SchedulingPolicy: "fcfs", AllocationPolicy: "bogus"})
	require.Error(t, err)
}

func TestNonPositiveIterationsIsHorizonError(t *testing.T) {
	g, err := graph.New([]graph.Node{{Name: "A", Kind: graph.Periodic, ExecutionTime: 1, Period: 5}})
	require.NoError(t, err)

	bad := 0
	_, err = kernel.Run(kernel.Config{Graph: g, NumCores: 1, SchedulingPolicy: "fcfs", AllocationPolicy: "dynamic", Iterations: &bad})
	require.Error(t, err)
}
