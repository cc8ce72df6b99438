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

package graph

import (
	"encoding/json"
	"sort"
)

// wireNode is the §6 JSON wire shape for one node: a top-level object
// keyed by node name. Unknown keys are ignored by json.Unmarshal for
// free; a dependency naming an absent node is dropped, not rejected,
// per §6 ("deps referencing absent names dropped").
type wireNode struct {
	Type          string   `json:"type"`
	ExecutionTime int      `json:"execution_time"`
	Period        int      `json:"period"`
	Priority      int      `json:"priority"`
	Deps          []string `json:"deps"`
}

// Unmarshal parses the §6 graph JSON format into a validated Graph.
func Unmarshal(data []byte) (*Graph, error) {
	var wire map[string]wireNode
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, &ShapeError{msg: "malformed graph JSON: " + err.Error()}
	}

	names := make(map[string]bool, len(wire))
	for name := range wire {
		names[name] = true
	}

	nodes := make([]Node, 0, len(wire))
	for name, w := range wire {
		kind := Event
		if w.Type == "periodic" {
			kind = Periodic
		}

		deps := make([]string, 0, len(w.Deps))
		for _, d := range w.Deps {
			if names[d] {
				deps = append(deps, d)
			}
		}
		sort.Strings(deps)

		nodes = append(nodes, Node{
			Name:          name,
			Kind:          kind,
			ExecutionTime: w.ExecutionTime,
			Period:        w.Period,
			Priority:      w.Priority,
			Deps:          deps,
		})
	}

	return New(nodes)
}

// Marshal serializes a Graph back into the §6 wire format.
func Marshal(g *Graph) ([]byte, error) {
	wire := make(map[string]wireNode, g.Len())
	for _, n := range g.Nodes() {
		typ := "event"
		if n.Kind == Periodic {
			typ = "periodic"
		}
		wire[n.Name] = wireNode{
			Type:          typ,
			ExecutionTime: n.ExecutionTime,
			Period:        n.Period,
			Priority:      n.Priority,
			Deps:          n.Deps,
		}
	}
	return json.MarshalIndent(wire, "", "  ")
}
