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
	"fmt"
	"sync"

	"github.com/spangroup/spangroup/condition"
	"github.com/spangroup/spangroup/detector"
	"github.com/spangroup/spangroup/labeler"
	"github.com/spangroup/spangroup/merge"
	"github.com/spangroup/spangroup/types"
)

// Grouper is the main entry point: a configured, reusable grouping
// pipeline over ordered records. Every batch method is a stateless
// one-shot transform of its whole input.
//
// Usage:
//
//	g := spangroup.New(
//	    spangroup.WithStartField("admitted"),
//	    spangroup.WithEndField("discharged"),
//	    spangroup.WithTolerance(24*time.Hour),
//	    spangroup.WithPartitionBy("patient_id"),
//	)
//	episodes, err := g.Merge(stays)
type Grouper struct {
	cfg merge.RecordConfig

	predicateExpr string
	predicateFn   types.Predicate

	compileOnce sync.Once
	compiled    types.Predicate
	compileErr  error
}

// New creates a grouper. Behavior is customized through functional
// options; the zero configuration merges numeric "start"/"end" records
// at threshold 0.
func New(options ...Option) *Grouper {
	g := &Grouper{}
	for _, option := range options {
		option(g)
	}
	return g
}

// predicate resolves the configured trigger predicate, compiling the
// expression form once on first use.
func (g *Grouper) predicate() (types.Predicate, error) {
	if g.predicateFn != nil {
		return g.predicateFn, nil
	}
	if g.predicateExpr == "" {
		return nil, fmt.Errorf("no trigger predicate configured; use WithPredicate or WithPredicateFunc")
	}
	g.compileOnce.Do(func() {
		cond, err := condition.NewExprCondition(g.predicateExpr)
		if err != nil {
			g.compileErr = err
			return
		}
		g.compiled = cond.Predicate()
	})
	return g.compiled, g.compileErr
}

// Detect evaluates the trigger predicate against every record and
// returns the group-start flags.
func (g *Grouper) Detect(records []types.Record) ([]bool, error) {
	pred, err := g.predicate()
	if err != nil {
		return nil, err
	}
	return detector.Flags(records, pred)
}

// Label runs detect-then-label: each record comes back annotated with
// the running-total group id of its trigger flags. Input records are
// not mutated; their order is preserved.
func (g *Grouper) Label(records []types.Record) ([]types.Record, error) {
	flags, err := g.Detect(records)
	if err != nil {
		return nil, err
	}
	return labeler.Annotate(records, flags, g.cfg.GroupIDField)
}

// Groups runs detect-then-label and materializes the runs, all members
// kept, no reduction.
func (g *Grouper) Groups(records []types.Record) ([]types.Group, error) {
	flags, err := g.Detect(records)
	if err != nil {
		return nil, err
	}
	return labeler.Runs(records, labeler.Label(flags))
}

// Merge runs the interval-merge pipeline over map records using the
// configured bound fields, threshold or tolerance, and partition keys.
func (g *Grouper) Merge(records []types.Record) ([]types.Record, error) {
	return merge.Records(records, g.cfg)
}

// MergeSpans merges numeric spans at the configured threshold.
func (g *Grouper) MergeSpans(spans []types.Span) ([]types.Span, error) {
	return merge.Spans(spans, merge.Config{
		Threshold: g.cfg.Threshold,
		Presorted: g.cfg.Presorted,
	})
}

// MergeTimeSpans merges time spans at the configured tolerance.
func (g *Grouper) MergeTimeSpans(spans []types.TimeSpan) ([]types.TimeSpan, error) {
	return merge.TimeSpans(spans, g.cfg.Tolerance, g.cfg.Presorted)
}

// Incremental returns a streaming grouper sharing this configuration:
// a single forward pass carrying only the open group, for input that
// already arrives sorted by start.
func (g *Grouper) Incremental() *Incremental {
	return newIncremental(g.cfg)
}
