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

package detector

import (
	"fmt"
	"math"
	"time"

	"github.com/spangroup/spangroup/types"
)

// Flags evaluates the trigger predicate against every record and
// returns one group-start flag per record. Empty input yields an empty
// slice, not an error. Input order is the caller's responsibility.
func Flags(records []types.Record, pred types.Predicate) ([]bool, error) {
	if len(records) == 0 {
		return []bool{}, nil
	}

	flags := make([]bool, len(records))
	for i, rec := range records {
		ok, err := pred(rec)
		if err != nil {
			return nil, fmt.Errorf("predicate at record %d: %w", i, err)
		}
		flags[i] = ok
	}
	return flags, nil
}

// Holes computes the gap before each span: holes[i] is the distance
// between span i's start and the largest end seen among spans 0..i-1.
// The running maximum, not just the immediately preceding end, is what
// keeps a span nested inside an earlier one from faking a gap. The hole
// before the first span is positive infinity, so the first span always
// starts a group. Spans must already be sorted ascending by start.
func Holes(spans []types.Span) []float64 {
	if len(spans) == 0 {
		return []float64{}
	}

	holes := make([]float64, len(spans))
	holes[0] = math.Inf(1)
	maxEnd := spans[0].End
	for i := 1; i < len(spans); i++ {
		holes[i] = spans[i].Start - maxEnd
		if spans[i].End > maxEnd {
			maxEnd = spans[i].End
		}
	}
	return holes
}

// GapFlags turns holes into group-start flags: a span whose hole
// reaches the threshold opens a new group. Threshold 0 keeps only
// strictly overlapping spans together; touching spans (hole 0) split.
func GapFlags(spans []types.Span, threshold float64) []bool {
	return gapFlags(spans, threshold, false)
}

// GapFlagsWithin is the tolerance variant: only a hole strictly greater
// than the tolerance opens a new group, so spans exactly tolerance
// apart still merge.
func GapFlagsWithin(spans []types.Span, tolerance float64) []bool {
	return gapFlags(spans, tolerance, true)
}

func gapFlags(spans []types.Span, threshold float64, strict bool) []bool {
	holes := Holes(spans)
	flags := make([]bool, len(holes))
	for i, h := range holes {
		if strict {
			flags[i] = h > threshold
		} else {
			flags[i] = h >= threshold
		}
	}
	return flags
}

// TimeGapFlags is GapFlagsWithin in the time domain. Gaps are computed
// with time.Time arithmetic, so nanosecond bounds compare exactly; only
// a gap strictly greater than the tolerance opens a new group. The
// first span always starts one. Spans must be sorted ascending by
// start.
func TimeGapFlags(spans []types.TimeSpan, tolerance time.Duration) []bool {
	if len(spans) == 0 {
		return []bool{}
	}

	flags := make([]bool, len(spans))
	flags[0] = true
	maxEnd := spans[0].End
	for i := 1; i < len(spans); i++ {
		flags[i] = spans[i].Start.Sub(maxEnd) > tolerance
		if spans[i].End.After(maxEnd) {
			maxEnd = spans[i].End
		}
	}
	return flags
}

// CheckOrdered verifies that spans are sorted ascending by start and
// returns an OrderingViolationError naming the first offender
// otherwise. Grouping over unsorted input silently produces wrong
// results, so pipelines run this before trusting presorted input.
func CheckOrdered(spans []types.Span) error {
	for i := 1; i < len(spans); i++ {
		if spans[i].Start < spans[i-1].Start {
			return &types.OrderingViolationError{
				Index: i,
				Prev:  spans[i-1].Start,
				Curr:  spans[i].Start,
			}
		}
	}
	return nil
}

// CheckValid verifies start <= end for every span and returns an
// InvalidIntervalError naming the first offender otherwise.
func CheckValid(spans []types.Span) error {
	for i, s := range spans {
		if !s.Valid() {
			return &types.InvalidIntervalError{
				Index: i,
				Start: s.Start,
				End:   s.End,
			}
		}
	}
	return nil
}

// CheckOrderedTime is CheckOrdered for time spans. The error carries
// the offending starts as Unix nanoseconds.
func CheckOrderedTime(spans []types.TimeSpan) error {
	for i := 1; i < len(spans); i++ {
		if spans[i].Start.Before(spans[i-1].Start) {
			return &types.OrderingViolationError{
				Index: i,
				Prev:  float64(spans[i-1].Start.UnixNano()),
				Curr:  float64(spans[i].Start.UnixNano()),
			}
		}
	}
	return nil
}

// CheckValidTime is CheckValid for time spans.
func CheckValidTime(spans []types.TimeSpan) error {
	for i, ts := range spans {
		if !ts.Valid() {
			return &types.InvalidIntervalError{
				Index: i,
				Start: float64(ts.Start.UnixNano()),
				End:   float64(ts.End.UnixNano()),
			}
		}
	}
	return nil
}
