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

package spangroup

import (
	"time"

	"github.com/spangroup/spangroup/aggregator"
	"github.com/spangroup/spangroup/logger"
	"github.com/spangroup/spangroup/types"
)

// Option configures a Grouper.
type Option func(*Grouper)

// WithLogLevel sets the global log level.
func WithLogLevel(level logger.Level) Option {
	return func(g *Grouper) {
		logger.GetDefault().SetLevel(level)
	}
}

// WithDiscardLog disables log output.
func WithDiscardLog() Option {
	return func(g *Grouper) {
		logger.SetDefault(logger.NewDiscardLogger())
	}
}

// WithThreshold sets the numeric gap threshold: a record whose hole
// reaches the threshold starts a new group. The default 0 merges only
// strictly overlapping spans.
func WithThreshold(threshold float64) Option {
	return func(g *Grouper) {
		g.cfg.Threshold = threshold
	}
}

// WithTolerance sets the merge tolerance for time-valued bounds:
// intervals at most tolerance apart merge, a larger gap splits.
func WithTolerance(tolerance time.Duration) Option {
	return func(g *Grouper) {
		g.cfg.Tolerance = tolerance
	}
}

// WithStartField names the interval start field, default "start".
func WithStartField(field string) Option {
	return func(g *Grouper) {
		g.cfg.StartField = field
	}
}

// WithEndField names the interval end field, default "end".
func WithEndField(field string) Option {
	return func(g *Grouper) {
		g.cfg.EndField = field
	}
}

// WithGroupIDField names the output group-id field, default "group_id".
func WithGroupIDField(field string) Option {
	return func(g *Grouper) {
		g.cfg.GroupIDField = field
	}
}

// WithPartitionBy merges each distinct combination of the given key
// fields independently.
func WithPartitionBy(fields ...string) Option {
	return func(g *Grouper) {
		g.cfg.PartitionBy = fields
	}
}

// WithPresorted asserts the input is already sorted ascending by start.
// The assertion is verified and unsorted input fails fast.
func WithPresorted() Option {
	return func(g *Grouper) {
		g.cfg.Presorted = true
	}
}

// WithAnnotate switches Merge to the no-reduction output form: all
// members returned, each carrying its group id.
func WithAnnotate() Option {
	return func(g *Grouper) {
		g.cfg.Annotate = true
	}
}

// WithAggregation adds a reduction over a member field to each merged
// group, e.g. WithAggregation("amount", aggregator.Sum, "amount_total").
// An empty alias falls back to the field name.
func WithAggregation(field string, aggType aggregator.AggregateType, alias string) Option {
	return func(g *Grouper) {
		g.cfg.Aggregations = append(g.cfg.Aggregations, aggregator.AggregationField{
			InputField:    field,
			AggregateType: aggType,
			OutputAlias:   alias,
		})
	}
}

// WithPredicate sets the trigger predicate as an expression over record
// fields, e.g. "pressure > 100". The expression is compiled on first
// use; compile errors surface from Detect, Label, and Groups.
func WithPredicate(expression string) Option {
	return func(g *Grouper) {
		g.predicateExpr = expression
	}
}

// WithPredicateFunc sets the trigger predicate as a Go function. It
// takes precedence over WithPredicate.
func WithPredicateFunc(pred types.Predicate) Option {
	return func(g *Grouper) {
		g.predicateFn = pred
	}
}
