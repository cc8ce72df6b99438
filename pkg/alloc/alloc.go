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

// Package alloc implements the two core-allocation policies: Static,
// which fixes the admissible core set once per run, and Dynamic, which
// recomputes it every step to match demand.
package alloc

import (
	"fmt"
	"sort"
)

// Policy decides, at each decision point, which idle cores are
// admissible for dispatch.
//
// The kernel calls Admissible once per step for both policies, passing
// the currently idle cores. demand is the number of runnables eligible
// for dispatch this step.
type Policy interface {
	Name() string
	// Admissible returns the subset of idle that may be used right now.
	Admissible(idle []int, demand int) []int
	// Remembered reports whether the policy's admissible window is fixed
	// for the whole run (true for Static) or sized to demand every step
	// (false for Dynamic). The kernel does not consult it.
	Remembered() bool
}

// Named looks up a policy by its §6 wire name ("static", "dynamic").
func Named(name string) (Policy, error) {
	switch name {
	case "static":
		return Static{}, nil
	case "dynamic", "":
		return Dynamic{}, nil
	}
	return nil, fmt.Errorf("policy error: unknown allocation policy %q", name)
}

// Static fixes the admissible core set to the lowest c_alloc indices,
// computed once per run (see Kernel's use of topology bounds to derive
// c_alloc = max(1, min(numCores, P_max, N_min))). The idle pool still
// spans [0, numCores) physically; Admissible returns the idle cores whose
// index is below c_alloc, so a busy core in the window is never replaced
// by one outside it.
type Static struct {
	// CAlloc is the admitted core count, computed once by the kernel
	// from topology bounds before the run starts.
	CAlloc int
}

func (Static) Name() string { return "static" }

func (s Static) Admissible(idle []int, _ int) []int {
	cores := make([]int, 0, len(idle))
	for _, c := range idle {
		if c < s.CAlloc {
			cores = append(cores, c)
		}
	}
	sort.Ints(cores)
	return cores
}

func (Static) Remembered() bool { return true }

// Dynamic recomputes the admissible core set every step: the first
// min(|idle|, demand) entries of idle, in ascending order. No cap beyond
// numCores is applied (the idle pool is already bounded by it).
type Dynamic struct{}

func (Dynamic) Name() string { return "dynamic" }

func (Dynamic) Admissible(idle []int, demand int) []int {
	cores := append([]int(nil), idle...)
	sort.Ints(cores)
	n := demand
	if n > len(cores) {
		n = len(cores)
	}
	if n < 0 {
		n = 0
	}
	return cores[:n]
}

func (Dynamic) Remembered() bool { return false }
