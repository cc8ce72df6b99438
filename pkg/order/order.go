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

// Package order implements the eligibility-ordering policies: FCFS, PAS,
// and Criticality. Each is a pure function from an eligible set to a
// deterministically ordered sequence; ties always break on node name.
package order

import (
	"fmt"
	"sort"
)

// Candidate is one eligible runnable instance, as seen by an ordering
// policy: its name, the priority declared on the node, its eligible
// time, and (for Criticality ordering) its remaining distance to a sink.
type Candidate struct {
	Name         string
	Priority     int
	EligibleTime int
	Criticality  int
}

// Policy orders a set of eligible candidates. Implementations must be
// deterministic: equal inputs produce an identical ordering.
type Policy interface {
	Name() string
	Order(candidates []Candidate) []Candidate
}

// Named looks up a policy by its §6 wire name ("fcfs", "pas",
// "criticality"). Unknown names are a policy error per §7.
func Named(name string) (Policy, error) {
	switch name {
	case "fcfs", "":
		return FCFS{}, nil
	case "pas":
		return PAS{}, nil
	case "criticality":
		return Criticality{}, nil
	}
	return nil, fmt.Errorf("policy error: unknown scheduling policy %q", name)
}

// FCFS orders eligible runnables by (eligible_time ascending, name
// ascending).
type FCFS struct{}

func (FCFS) Name() string { return "fcfs" }

func (FCFS) Order(candidates []Candidate) []Candidate {
	out := append([]Candidate(nil), candidates...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].EligibleTime != out[j].EligibleTime {
			return out[i].EligibleTime < out[j].EligibleTime
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// PAS (priority-aware scheduling) orders by (priority descending,
// eligible_time ascending, name ascending).
type PAS struct{}

func (PAS) Name() string { return "pas" }

func (PAS) Order(candidates []Candidate) []Candidate {
	out := append([]Candidate(nil), candidates...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		if out[i].EligibleTime != out[j].EligibleTime {
			return out[i].EligibleTime < out[j].EligibleTime
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Criticality orders by (criticality descending, eligible_time
// ascending, name ascending), where criticality is the runnable's
// remaining distance to a sink on the critical path (T_CP minus its own
// path_length). It is the ordering variant described by
// original_source/backend/criticality — not an invariant of spec.md, but
// a supplemental, separately selectable policy (see DESIGN.md).
type Criticality struct{}

func (Criticality) Name() string { return "criticality" }

func (Criticality) Order(candidates []Candidate) []Candidate {
	out := append([]Candidate(nil), candidates...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Criticality != out[j].Criticality {
			return out[i].Criticality > out[j].Criticality
		}
		if out[i].EligibleTime != out[j].EligibleTime {
			return out[i].EligibleTime < out[j].EligibleTime
		}
		return out[i].Name < out[j].Name
	})
	return out
}
