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
Package merge composes the full interval-merge pipeline: sort by start,
measure the hole before each span, flag the spans whose hole reaches the
gap threshold, label the runs with a running total, and reduce each run
to its minimum start and maximum end.

Three entry points cover the common shapes: Spans for numeric intervals,
TimeSpans for time-valued ones with a merge tolerance, and Records for
map records with configurable bound fields, independent partition keys,
and optional extra aggregations per merged group.

Each call is a stateless one-shot batch transform; nothing persists
between invocations.
*/
package merge
