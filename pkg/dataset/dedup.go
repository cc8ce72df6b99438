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

import "github.com/containers/runnable-scheduler/pkg/kernel"

// DedupOptions configures Dedup, mirroring the duplicate-suppression
// policy of original_source/deduplication.py: two dispatches of the same
// runnable within StarvationThreshold ticks of each other are treated as
// a duplicate burst, and only the first is kept.
type DedupOptions struct {
	// StarvationThreshold is the tick gap below which a repeated
	// dispatch of the same runnable is considered a duplicate rather
	// than a legitimately spaced re-release.
	StarvationThreshold int
}

// DefaultDedupOptions mirrors the source's STARVATION_THRESHOLD of 100.
func DefaultDedupOptions() DedupOptions {
	return DedupOptions{StarvationThreshold: 100}
}

// Dedup collapses a schedule's within-threshold repeats of the same
// runnable, keeping the earliest instance of each burst. Entries are
// returned in their original relative order.
func Dedup(entries []kernel.Entry, opts DedupOptions) []kernel.Entry {
	lastKeptStart := map[string]int{}
	out := make([]kernel.Entry, 0, len(entries))

	for _, e := range entries {
		last, seen := lastKeptStart[e.Name]
		if seen && e.Start-last < opts.StarvationThreshold {
			continue
		}
		lastKeptStart[e.Name] = e.Start
		out = append(out, e)
	}

	return out
}
