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

package aggregator

import (
	"fmt"

	"github.com/spf13/cast"

	"github.com/spangroup/spangroup/types"
	"github.com/spangroup/spangroup/utils/fieldpath"
)

// AggregationField defines configuration for a single aggregation field.
type AggregationField struct {
	InputField    string        // Input field name (e.g., "start")
	AggregateType AggregateType // Aggregation type (e.g., Min, Max)
	OutputAlias   string        // Output alias (e.g., "merged_start")
}

// RunAggregator reduces consecutive records that share a precomputed
// group id into one summary record per group. Ids must be
// non-decreasing, which is what the labeler produces; summaries come
// out in ascending id order. Members are fed to each fold in input
// order, so non-commutative custom folds behave deterministically.
type RunAggregator struct {
	aggregationFields []AggregationField
	groupIDField      string
}

// NewRunAggregator creates a run aggregator over the given fields.
// Fields without an alias fall back to their input field name.
func NewRunAggregator(aggregationFields []AggregationField) *RunAggregator {
	for i := range aggregationFields {
		if aggregationFields[i].OutputAlias == "" {
			aggregationFields[i].OutputAlias = aggregationFields[i].InputField
		}
	}
	return &RunAggregator{
		aggregationFields: aggregationFields,
		groupIDField:      "group_id",
	}
}

// SetGroupIDField changes the output field carrying the group id.
func (ra *RunAggregator) SetGroupIDField(field string) {
	if field != "" {
		ra.groupIDField = field
	}
}

// Aggregate folds records into one summary per group id. Empty input
// yields an empty result.
func (ra *RunAggregator) Aggregate(records []types.Record, ids []int) ([]types.Record, error) {
	if len(records) != len(ids) {
		return nil, fmt.Errorf("aggregate: %d records but %d ids", len(records), len(ids))
	}
	if len(records) == 0 {
		return []types.Record{}, nil
	}

	summaries := make([]types.Record, 0)
	var folds map[string]AggregatorFunction
	currentID := 0

	flush := func() {
		if folds == nil {
			return
		}
		summary := make(types.Record, len(folds)+1)
		summary[ra.groupIDField] = currentID
		for alias, fold := range folds {
			summary[alias] = fold.Result()
		}
		summaries = append(summaries, summary)
	}

	for i, rec := range records {
		if i > 0 && ids[i] < ids[i-1] {
			return nil, fmt.Errorf("aggregate: group ids decrease at index %d (%d -> %d)", i, ids[i-1], ids[i])
		}
		if folds == nil || ids[i] != currentID {
			flush()
			currentID = ids[i]
			folds = make(map[string]AggregatorFunction, len(ra.aggregationFields))
			for _, f := range ra.aggregationFields {
				folds[f.OutputAlias] = CreateBuiltinAggregator(f.AggregateType)
			}
		}

		if err := ra.feed(folds, rec); err != nil {
			return nil, fmt.Errorf("aggregate: record %d: %w", i, err)
		}
	}
	flush()

	return summaries, nil
}

// AggregateGroups is the convenience form over pre-materialized runs.
func (ra *RunAggregator) AggregateGroups(groups []types.Group) ([]types.Record, error) {
	records := make([]types.Record, 0)
	ids := make([]int, 0)
	for _, g := range groups {
		for _, rec := range g.Records {
			records = append(records, rec)
			ids = append(ids, g.ID)
		}
	}
	return ra.Aggregate(records, ids)
}

func (ra *RunAggregator) feed(folds map[string]AggregatorFunction, rec types.Record) error {
	for _, f := range ra.aggregationFields {
		fold := folds[f.OutputAlias]

		// count(*) counts members without touching any field.
		if f.InputField == "*" {
			fold.Add(1)
			continue
		}

		val, found := fieldpath.Get(rec, f.InputField)
		if !found || val == nil {
			continue
		}

		if IsNumeric(f.AggregateType) {
			num, err := cast.ToFloat64E(val)
			if err != nil {
				return &types.TypeMismatchError{Field: f.InputField, Value: val}
			}
			fold.Add(num)
			continue
		}
		fold.Add(val)
	}
	return nil
}
