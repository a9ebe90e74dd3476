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
	"time"

	"github.com/spangroup/spangroup/detector"
	"github.com/spangroup/spangroup/labeler"
	"github.com/spangroup/spangroup/logger"
	"github.com/spangroup/spangroup/types"
)

// Config controls how spans are merged.
type Config struct {
	// Threshold is the smallest hole that opens a new group; a span is a
	// group start when its hole >= Threshold. The default 0 merges only
	// strictly overlapping spans: touching spans (hole exactly 0) split.
	Threshold float64

	// KeepTouching switches the comparison to hole > Threshold, so spans
	// exactly Threshold apart still merge. This is the tolerance reading
	// ("within one day of each other").
	KeepTouching bool

	// Presorted asserts the input is already sorted ascending by start.
	// The assertion is verified; unsorted input fails with an
	// OrderingViolationError instead of being silently mis-grouped.
	// When false, the pipeline sorts a copy itself (stable, so spans
	// with equal starts keep their original order).
	Presorted bool
}

// Spans merges overlapping or near-adjacent spans into one span per
// group: minimum start, maximum end over the whole group. The
// whole-group maximum is what makes nested spans come out right; a
// pairwise reduction would not.
//
// Every span must satisfy start <= end, otherwise an
// InvalidIntervalError is returned. Empty input yields an empty result.
func Spans(spans []types.Span, cfg Config) ([]types.Span, error) {
	if len(spans) == 0 {
		return []types.Span{}, nil
	}

	if err := detector.CheckValid(spans); err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	sorted, err := orderSpans(spans, cfg.Presorted)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	var flags []bool
	if cfg.KeepTouching {
		flags = detector.GapFlagsWithin(sorted, cfg.Threshold)
	} else {
		flags = detector.GapFlags(sorted, cfg.Threshold)
	}
	ids := labeler.Label(flags)

	merged := reduceSpans(sorted, ids)
	logger.Debug("merged %d spans into %d groups", len(spans), len(merged))
	return merged, nil
}

// TimeSpans merges time-valued spans. Spans whose gap is at most
// tolerance end up in one group; a gap strictly greater than tolerance
// splits. Tolerance 0 merges touching and overlapping spans. All
// arithmetic stays in the time domain, so nanosecond-resolution bounds
// compare exactly.
func TimeSpans(spans []types.TimeSpan, tolerance time.Duration, presorted bool) ([]types.TimeSpan, error) {
	if len(spans) == 0 {
		return []types.TimeSpan{}, nil
	}

	if err := detector.CheckValidTime(spans); err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	sorted, err := orderTimeSpans(spans, presorted)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	flags := detector.TimeGapFlags(sorted, tolerance)
	ids := labeler.Label(flags)

	merged := reduceTimeSpans(sorted, ids)
	logger.Debug("merged %d time spans into %d groups", len(spans), len(merged))
	return merged, nil
}

// orderSpans returns spans sorted ascending by start. Presorted input
// is verified rather than re-sorted; otherwise a copy is sorted so that
// the caller's slice stays untouched.
func orderSpans(spans []types.Span, presorted bool) ([]types.Span, error) {
	if presorted {
		if err := detector.CheckOrdered(spans); err != nil {
			return nil, err
		}
		return spans, nil
	}

	sorted := make([]types.Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})
	return sorted, nil
}

// orderTimeSpans is orderSpans in the time domain.
func orderTimeSpans(spans []types.TimeSpan, presorted bool) ([]types.TimeSpan, error) {
	if presorted {
		if err := detector.CheckOrderedTime(spans); err != nil {
			return nil, err
		}
		return spans, nil
	}

	sorted := make([]types.TimeSpan, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})
	return sorted, nil
}

// reduceSpans folds each labeled run to (min start, max end). Input is
// sorted by start, so min start is the group's first span; max end
// still has to scan the whole group.
func reduceSpans(sorted []types.Span, ids []int) []types.Span {
	merged := make([]types.Span, 0)
	for i, s := range sorted {
		if i == 0 || ids[i] != ids[i-1] {
			merged = append(merged, s)
			continue
		}
		last := &merged[len(merged)-1]
		if s.End > last.End {
			last.End = s.End
		}
	}
	return merged
}

func reduceTimeSpans(sorted []types.TimeSpan, ids []int) []types.TimeSpan {
	merged := make([]types.TimeSpan, 0)
	for i, ts := range sorted {
		if i == 0 || ids[i] != ids[i-1] {
			merged = append(merged, ts)
			continue
		}
		last := &merged[len(merged)-1]
		if ts.End.After(last.End) {
			last.End = ts.End
		}
	}
	return merged
}
