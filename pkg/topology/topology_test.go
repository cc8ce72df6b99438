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

package topology_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/containers/runnable-scheduler/pkg/graph"
	"github.com/containers/runnable-scheduler/pkg/topology"
)

func TestCriticalPathAndParallelism(t *testing.T) {
	g, err := graph.New([]graph.Node{
		{Name: "A", Kind: graph.Periodic, ExecutionTime: 2, Period: 100},
		{Name: "B", Kind: graph.Periodic, ExecutionTime: 3, Period: 100},
		{Name: "C", Kind: graph.Event, ExecutionTime: 4, Deps: []string{"A"}},
		{Name: "D", Kind: graph.Event, ExecutionTime: 1, Deps: []string{"B"}},
		{Name: "E", Kind: graph.Event, ExecutionTime: 5, Deps: []string{"C", "D"}},
	})
	require.NoError(t, err)

	topo := topology.Build(g)

	// Longest path: A(2) -> C(4) -> E(5) = 11.
	assert.Equal(t, 11, topo.CriticalPathLen)
	assert.Equal(t, 2+3+4+1+5, topo.TotalWork)
	// Frontier {A,B} then {C,D} then {E}: max is 2.
	assert.Equal(t, 2, topo.MaxParallelism)

	assert.Equal(t, []string{"A"}, topo.Predecessors("C"))
	assert.Equal(t, []string{"C"}, topo.Successors("A"))
	assert.Equal(t, []string{"C", "D"}, topo.Predecessors("E"))
}

func TestSuccessorsPredecessors(t *testing.T) {
	g, err := graph.New([]graph.Node{
		{Name: "A", Kind: graph.Periodic, ExecutionTime: 1, Period: 10},
		{Name: "B", Kind: graph.Event, ExecutionTime: 1, Deps: []string{"A"}},
		{Name: "C", Kind: graph.Event, ExecutionTime: 1, Deps: []string{"A"}},
	})
	require.NoError(t, err)

	topo := topology.Build(g)
	assert.Equal(t, []string{"B", "C"}, topo.Successors("A"))
	assert.Equal(t, []string{"A"}, topo.Predecessors("B"))
	assert.Empty(t, topo.Predecessors("A"))
}

func TestMinUsefulCoresZeroWork(t *testing.T) {
	g, err := graph.New(nil)
	require.NoError(t, err)
	topo := topology.Build(g)
	assert.Equal(t, 1, topo.MinUsefulCores(8))
}

func TestMinUsefulCoresFullyParallel(t *testing.T) {
	g, err := graph.New([]graph.Node{
		{Name: "A", Kind: graph.Periodic, ExecutionTime: 5, Period: 100},
		{Name: "B", Kind: graph.Periodic, ExecutionTime: 5, Period: 100},
	})
	require.NoError(t, err)
	topo := topology.Build(g)
	// No dependency edges at all: s = T_CP/W = 5/10 = 0.5, not 0, since
	// each periodic node's own path_length+exec is 5, so T_CP=5 (not 0).
	// s=0 would only occur with T_CP=0, which never happens once any
	// node has positive execution time; exercise the general branch.
	got := topo.MinUsefulCores(4)
	assert.GreaterOrEqual(t, got, 1)
}

func TestMinUsefulCoresClampsToOne(t *testing.T) {
	g, err := graph.New([]graph.Node{
		{Name: "A", Kind: graph.Periodic, ExecutionTime: 1, Period: 100},
		{Name: "B", Kind: graph.Event, ExecutionTime: 1, Deps: []string{"A"}},
	})
	require.NoError(t, err)
	topo := topology.Build(g)
	assert.Equal(t, topo.TotalWork, topo.CriticalPathLen) // fully sequential: s=1
	assert.Equal(t, 1, topo.MinUsefulCores(4))
}
