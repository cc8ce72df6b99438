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

package dataset

import "sigs.k8s.io/yaml"

// LoadShape parses a YAML-encoded Shape, in the teacher's convention of
// configuring components from YAML documents via sigs.k8s.io/yaml (which
// round-trips through the same json tags Shape already carries).
func LoadShape(data []byte) (Shape, error) {
	sh := DefaultShape()
	if err := yaml.Unmarshal(data, &sh); err != nil {
		return Shape{}, err
	}
	return sh, nil
}

// DumpShape serializes sh back to YAML.
func DumpShape(sh Shape) ([]byte, error) {
	return yaml.Marshal(sh)
}
