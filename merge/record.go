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

package merge

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/spangroup/spangroup/aggregator"
	"github.com/spangroup/spangroup/detector"
	"github.com/spangroup/spangroup/labeler"
	"github.com/spangroup/spangroup/types"
	"github.com/spangroup/spangroup/utils/fieldpath"
	"github.com/spangroup/spangroup/utils/timex"
)

// RecordConfig controls merging over map records.
type RecordConfig struct {
	// StartField and EndField name the interval bounds. Defaults are
	// "start" and "end". Values may be numeric, time.Time, or
	// date-formatted strings; a partition must not mix numeric and
	// time-valued bounds.
	StartField string
	EndField   string

	// GroupIDField names the output id field, default "group_id".
	GroupIDField string

	// PartitionBy lists independent grouping key fields. Each distinct
	// key combination is merged on its own; group ids restart at 1 per
	// partition.
	PartitionBy []string

	// Threshold is the numeric gap that opens a new group (hole >=
	// Threshold), used for numeric bounds.
	Threshold float64

	// Tolerance is the time-valued reading: bounds at most Tolerance
	// apart merge, a gap strictly greater splits. Only meaningful for
	// time-valued bounds.
	Tolerance time.Duration

	// Presorted asserts each partition arrives sorted ascending by
	// start; verified, not trusted.
	Presorted bool

	// Annotate selects the no-reduction output form: every input record
	// comes back (sorted by start within its partition) carrying its
	// group id, and no summaries are built.
	Annotate bool

	// Aggregations adds reductions beyond the implicit min-start /
	// max-end, e.g. count of members or sum of a payload field.
	Aggregations []aggregator.AggregationField
}

// ApplyDefaults fills in the default field names.
func (cfg *RecordConfig) ApplyDefaults() {
	if cfg.StartField == "" {
		cfg.StartField = "start"
	}
	if cfg.EndField == "" {
		cfg.EndField = "end"
	}
	if cfg.GroupIDField == "" {
		cfg.GroupIDField = labeler.DefaultGroupIDField
	}
	for i := range cfg.Aggregations {
		if cfg.Aggregations[i].OutputAlias == "" {
			cfg.Aggregations[i].OutputAlias = cfg.Aggregations[i].InputField
		}
	}
}

// Records merges interval records. For each partition the records are
// sorted by start, validated, gap-flagged, labeled, and reduced to one
// summary per group holding the partition keys, the group id, the
// minimum start, and the maximum end (in the same representation the
// input used: time.Time for time-valued bounds, float64 otherwise).
// With cfg.Annotate the members themselves are returned, labeled.
func Records(records []types.Record, cfg RecordConfig) ([]types.Record, error) {
	cfg.ApplyDefaults()
	if len(records) == 0 {
		return []types.Record{}, nil
	}

	keys, parts := partition(records, cfg.PartitionBy)

	out := make([]types.Record, 0, len(records))
	for _, key := range keys {
		merged, err := mergePartition(parts[key], cfg)
		if err != nil {
			if len(cfg.PartitionBy) > 0 {
				return nil, fmt.Errorf("partition %q: %w", key, err)
			}
			return nil, err
		}
		out = append(out, merged...)
	}
	return out, nil
}

// partition splits records by their composite partition key, keeping
// first-seen partition order so output is deterministic.
func partition(records []types.Record, by []string) ([]string, map[string][]types.Record) {
	if len(by) == 0 {
		return []string{""}, map[string][]types.Record{"": records}
	}

	keys := make([]string, 0)
	parts := make(map[string][]types.Record)
	for _, rec := range records {
		fields := make([]string, len(by))
		for i, f := range by {
			fields[i] = fmt.Sprintf("%v", rec[f])
		}
		key := strings.Join(fields, "|")
		if _, seen := parts[key]; !seen {
			keys = append(keys, key)
		}
		parts[key] = append(parts[key], rec)
	}
	return keys, parts
}

// mergePartition dispatches on the bound kind: the first record of a
// partition decides whether it is time-valued or numeric, and the rest
// must follow. Time-valued bounds run through time.Time arithmetic so
// nanosecond timestamps compare exactly; floats cannot represent them.
func mergePartition(records []types.Record, cfg RecordConfig) ([]types.Record, error) {
	first, ok := fieldpath.Get(records[0], cfg.StartField)
	if !ok {
		return nil, &types.TypeMismatchError{Field: cfg.StartField, Value: nil}
	}
	if timex.IsTimeLike(first) {
		return mergeTimePartition(records, cfg)
	}
	return mergeNumericPartition(records, cfg)
}

func mergeNumericPartition(records []types.Record, cfg RecordConfig) ([]types.Record, error) {
	spans, err := extractSpans(records, cfg.StartField, cfg.EndField)
	if err != nil {
		return nil, err
	}

	order, err := sortOrder(spans, cfg.Presorted)
	if err != nil {
		return nil, err
	}

	sortedSpans := make([]types.Span, len(spans))
	sortedRecords := make([]types.Record, len(records))
	for i, idx := range order {
		sortedSpans[i] = spans[idx]
		sortedRecords[i] = records[idx]
	}

	if err := detector.CheckValid(sortedSpans); err != nil {
		return nil, err
	}

	flags := detector.GapFlags(sortedSpans, cfg.Threshold)
	ids := labeler.Label(flags)

	if cfg.Annotate {
		return labeler.Annotate(sortedRecords, flags, cfg.GroupIDField)
	}

	merged := reduceSpans(sortedSpans, ids)
	bounds := make([]boundPair, len(merged))
	for i, s := range merged {
		bounds[i] = boundPair{start: s.Start, end: s.End}
	}
	return summarize(sortedRecords, ids, bounds, cfg)
}

func mergeTimePartition(records []types.Record, cfg RecordConfig) ([]types.Record, error) {
	spans, err := extractTimeSpans(records, cfg.StartField, cfg.EndField)
	if err != nil {
		return nil, err
	}

	order, err := sortOrderTime(spans, cfg.Presorted)
	if err != nil {
		return nil, err
	}

	sortedSpans := make([]types.TimeSpan, len(spans))
	sortedRecords := make([]types.Record, len(records))
	for i, idx := range order {
		sortedSpans[i] = spans[idx]
		sortedRecords[i] = records[idx]
	}

	if err := detector.CheckValidTime(sortedSpans); err != nil {
		return nil, err
	}

	flags := detector.TimeGapFlags(sortedSpans, cfg.Tolerance)
	ids := labeler.Label(flags)

	if cfg.Annotate {
		return labeler.Annotate(sortedRecords, flags, cfg.GroupIDField)
	}

	merged := reduceTimeSpans(sortedSpans, ids)
	bounds := make([]boundPair, len(merged))
	for i, ts := range merged {
		bounds[i] = boundPair{start: ts.Start, end: ts.End}
	}
	return summarize(sortedRecords, ids, bounds, cfg)
}

// boundPair carries a group's output bounds in the representation the
// input used: time.Time for time-valued partitions, float64 otherwise.
type boundPair struct {
	start, end interface{}
}

// summarize builds one record per group: partition keys, group id, and
// the min-start/max-end of the whole group, plus any extra
// aggregations.
func summarize(records []types.Record, ids []int, bounds []boundPair, cfg RecordConfig) ([]types.Record, error) {
	var extras []types.Record
	if len(cfg.Aggregations) > 0 {
		ra := aggregator.NewRunAggregator(cfg.Aggregations)
		ra.SetGroupIDField(cfg.GroupIDField)
		var err error
		extras, err = ra.Aggregate(records, ids)
		if err != nil {
			return nil, err
		}
	}

	out := make([]types.Record, len(bounds))
	memberIdx := 0
	for i, b := range bounds {
		summary := make(types.Record)
		for _, f := range cfg.PartitionBy {
			summary[f] = records[memberIdx][f]
		}
		summary[cfg.GroupIDField] = i + 1
		summary[cfg.StartField] = b.start
		summary[cfg.EndField] = b.end
		if extras != nil {
			for k, v := range extras[i] {
				if k == cfg.GroupIDField {
					continue
				}
				summary[k] = v
			}
		}
		out[i] = summary

		// Advance to the first member of the next group.
		for memberIdx < len(ids) && ids[memberIdx] == i+1 {
			memberIdx++
		}
	}
	return out, nil
}

// extractSpans coerces the bound fields of every record of a numeric
// partition. A non-numeric value surfaces a TypeMismatchError.
func extractSpans(records []types.Record, startField, endField string) ([]types.Span, error) {
	spans := make([]types.Span, len(records))
	for i, rec := range records {
		startVal, _ := fieldpath.Get(rec, startField)
		start, err := CoerceBound(startVal, startField)
		if err != nil {
			return nil, err
		}
		endVal, _ := fieldpath.Get(rec, endField)
		end, err := CoerceBound(endVal, endField)
		if err != nil {
			return nil, err
		}
		spans[i] = types.Span{Start: start, End: end}
	}
	return spans, nil
}

// extractTimeSpans is the time-valued counterpart.
func extractTimeSpans(records []types.Record, startField, endField string) ([]types.TimeSpan, error) {
	spans := make([]types.TimeSpan, len(records))
	for i, rec := range records {
		startVal, _ := fieldpath.Get(rec, startField)
		start, err := CoerceTimeBound(startVal, startField)
		if err != nil {
			return nil, err
		}
		endVal, _ := fieldpath.Get(rec, endField)
		end, err := CoerceTimeBound(endVal, endField)
		if err != nil {
			return nil, err
		}
		spans[i] = types.TimeSpan{Start: start, End: end}
	}
	return spans, nil
}

// CoerceBound turns a numeric record bound into float64. Values that do
// not coerce surface a TypeMismatchError.
func CoerceBound(v interface{}, field string) (float64, error) {
	if v == nil {
		return 0, &types.TypeMismatchError{Field: field, Value: v}
	}
	num, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, &types.TypeMismatchError{Field: field, Value: v}
	}
	return num, nil
}

// CoerceTimeBound turns a time-valued record bound into time.Time.
func CoerceTimeBound(v interface{}, field string) (time.Time, error) {
	if v == nil {
		return time.Time{}, &types.TypeMismatchError{Field: field, Value: v}
	}
	t, err := timex.ToTime(v)
	if err != nil {
		return time.Time{}, &types.TypeMismatchError{Field: field, Value: v}
	}
	return t, nil
}

// sortOrder returns record indices in ascending start order. Equal
// starts keep their original relative order, the documented tie-break.
func sortOrder(spans []types.Span, presorted bool) ([]int, error) {
	order := make([]int, len(spans))
	for i := range order {
		order[i] = i
	}
	if presorted {
		if err := detector.CheckOrdered(spans); err != nil {
			return nil, err
		}
		return order, nil
	}
	sort.SliceStable(order, func(i, j int) bool {
		return spans[order[i]].Start < spans[order[j]].Start
	})
	return order, nil
}

// sortOrderTime is sortOrder for time spans, with the same stable
// tie-break on equal starts.
func sortOrderTime(spans []types.TimeSpan, presorted bool) ([]int, error) {
	order := make([]int, len(spans))
	for i := range order {
		order[i] = i
	}
	if presorted {
		if err := detector.CheckOrderedTime(spans); err != nil {
			return nil, err
		}
		return order, nil
	}
	sort.SliceStable(order, func(i, j int) bool {
		return spans[order[i]].Start.Before(spans[order[j]].Start)
	})
	return order, nil
}
