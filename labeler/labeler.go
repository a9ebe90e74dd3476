/*
 * Copyright 2025 The SpanGroup Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package labeler

import (
	"fmt"

	"github.com/spangroup/spangroup/types"
)

// DefaultGroupIDField is the field name Annotate writes when the caller
// does not pick one.
const DefaultGroupIDField = "group_id"

// Label assigns a group id to every position as the running total of
// the group-start flags. Ids are non-decreasing, constant within a
// group, and step by exactly 1 at each flagged position. The first id
// is 1 when the first flag is set, 0 otherwise.
func Label(flags []bool) []int {
	ids := make([]int, len(flags))
	current := 0
	for i, f := range flags {
		if f {
			current++
		}
		ids[i] = current
	}
	return ids
}

// Annotate derives new records carrying their group id under field.
// Input records are not mutated. An empty field selects
// DefaultGroupIDField. Lengths of records and flags must match.
func Annotate(records []types.Record, flags []bool, field string) ([]types.Record, error) {
	if len(records) != len(flags) {
		return nil, fmt.Errorf("annotate: %d records but %d flags", len(records), len(flags))
	}
	if field == "" {
		field = DefaultGroupIDField
	}

	ids := Label(flags)
	out := make([]types.Record, len(records))
	for i, rec := range records {
		labeled := make(types.Record, len(rec)+1)
		for k, v := range rec {
			labeled[k] = v
		}
		labeled[field] = ids[i]
		out[i] = labeled
	}
	return out, nil
}

// Runs groups records by their precomputed ids, keeping all members and
// their order. This is the no-reduction output form. Ids must be
// non-decreasing, which Label guarantees.
func Runs(records []types.Record, ids []int) ([]types.Group, error) {
	if len(records) != len(ids) {
		return nil, fmt.Errorf("runs: %d records but %d ids", len(records), len(ids))
	}

	groups := make([]types.Group, 0)
	for i, rec := range records {
		if i > 0 && ids[i] < ids[i-1] {
			return nil, fmt.Errorf("runs: group ids decrease at index %d (%d -> %d)", i, ids[i-1], ids[i])
		}
		if len(groups) == 0 || groups[len(groups)-1].ID != ids[i] {
			groups = append(groups, types.Group{ID: ids[i]})
		}
		last := &groups[len(groups)-1]
		last.Records = append(last.Records, rec)
	}
	return groups, nil
}

// Labeler is the incremental form of Label: one-record lookbehind, so a
// stream can be labeled without materializing the flag slice.
type Labeler struct {
	current int
}

// Next consumes the next flag and returns the group id of its record.
func (l *Labeler) Next(flag bool) int {
	if flag {
		l.current++
	}
	return l.current
}

// Current returns the id of the open group, 0 before the first flagged
// record.
func (l *Labeler) Current() int {
	return l.current
}

// Reset returns the labeler to its initial state.
func (l *Labeler) Reset() {
	l.current = 0
}
