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

// ShapeError signals a malformed node: a missing field, a non-positive
// execution_time, or a periodic node without a positive period.
type ShapeError struct{ msg string }

func (e *ShapeError) Error() string { return "input-shape error: " + e.msg }

// StructureError signals a problem with the graph's shape as a whole: a
// dependency referencing an unknown node, or a dependency cycle.
type StructureError struct{ msg string }

func (e *StructureError) Error() string { return "graph error: " + e.msg }
