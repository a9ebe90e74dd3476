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
Package aggregator reduces labeled runs of records to summary records.

Each output field is produced by an AggregatorFunction fold (min, max,
sum, count, avg, first, last, collect, plus the statistical folds backed
by montanaflynn/stats). Folds are applied per group in input order, one
summary row per distinct group id, ascending.

Custom folds can be registered globally:

	aggregator.Register("span", func() aggregator.AggregatorFunction {
		return &spanFold{}
	})
*/
package aggregator
