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

/*
Package spangroup groups ordered records into contiguous runs and
merges overlapping or near-adjacent intervals.

The pipeline is three composable steps: detect the records that start a
new group (by trigger predicate or by the gap to the previous record),
label every record with the running total of those flags, and reduce
each labeled run to a summary. Data flows strictly left to right; no
step holds state beyond the sequence passed through it.

# Trigger events

Label runs of records that begin at a trigger:

	g := spangroup.New(spangroup.WithPredicate("pressure > 100"))
	labeled, err := g.Label(records)

# Interval merging

Merge hospital stays less than a day apart into episodes:

	g := spangroup.New(
	    spangroup.WithStartField("admitted"),
	    spangroup.WithEndField("discharged"),
	    spangroup.WithTolerance(24*time.Hour),
	    spangroup.WithPartitionBy("patient_id"),
	)
	episodes, err := g.Merge(stays)

Each merged episode carries the partition key, a group id, the earliest
start, and the latest end; WithAggregation adds further reductions such
as member counts.

# Input contract

Interval inputs must satisfy start <= end and, for grouping to be
meaningful, be sorted ascending by start. Merge sorts for you (stable,
so equal starts keep their original order); WithPresorted skips the
sort and instead verifies the order, failing fast on a violation.

Batch calls are pure one-shot transforms. For input that arrives one
record at a time, Incremental applies the same semantics in a single
forward pass, carrying only the open group between calls.
*/
package spangroup
