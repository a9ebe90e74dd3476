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

package types

import (
	"time"
)

// Record is a single input row. Records are treated as immutable: every
// stage derives new records instead of mutating its input.
type Record = map[string]interface{}

// Predicate reports whether a record marks the start of a new group.
type Predicate func(Record) (bool, error)

// Span is an interval on the numeric line. Time-valued intervals use
// TimeSpan instead; float64 cannot carry nanosecond timestamps exactly.
type Span struct {
	Start float64
	End   float64
}

// NewSpan creates a span from its bounds.
func NewSpan(start, end float64) Span {
	return Span{Start: start, End: end}
}

// Valid reports whether Start <= End.
func (s Span) Valid() bool {
	return s.Start <= s.End
}

// Length returns End - Start.
func (s Span) Length() float64 {
	return s.End - s.Start
}

// Contains checks if the given value lies within the span, start
// inclusive, end exclusive.
func (s Span) Contains(v float64) bool {
	return v >= s.Start && v < s.End
}

// TimeSpan is the time-valued counterpart of Span.
type TimeSpan struct {
	Start time.Time
	End   time.Time
}

// NewTimeSpan creates a time span from its bounds.
func NewTimeSpan(start, end time.Time) TimeSpan {
	return TimeSpan{Start: start, End: end}
}

// Valid reports whether Start is not after End.
func (ts TimeSpan) Valid() bool {
	return !ts.Start.After(ts.End)
}

// Duration returns End minus Start.
func (ts TimeSpan) Duration() time.Duration {
	return ts.End.Sub(ts.Start)
}

// Group is one labeled run of records, the no-reduction output form:
// all members kept, tagged with their shared group id.
type Group struct {
	ID      int
	Records []Record
}
