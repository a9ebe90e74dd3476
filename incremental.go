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
	"github.com/spangroup/spangroup/merge"
	"github.com/spangroup/spangroup/types"
	"github.com/spangroup/spangroup/utils/fieldpath"
	"github.com/spangroup/spangroup/utils/timex"
)

// Incremental is the streaming form of the merge pipeline: one forward
// pass, carrying only the open group between calls. Records must arrive
// sorted ascending by start; Push verifies this and fails with an
// OrderingViolationError otherwise. A new record closes the open group
// only when its start clears the group's running maximum end, so a
// record nested inside an earlier one never fakes a gap. On sorted
// input the emitted summaries are exactly what the batch Merge would
// produce.
//
// Time-valued bounds are kept as time.Time and compared in the time
// domain; partition keys are not supported here, run one Incremental
// per partition.
type Incremental struct {
	cfg merge.RecordConfig

	started    bool
	timeValued bool
	index      int // records consumed, for error reporting

	lastStart float64
	openID    int
	openStart float64
	openEnd   float64 // running max over the open group

	// time-valued counterparts, exact
	lastStartT time.Time
	openStartT time.Time
	openEndT   time.Time

	folds map[string]aggregator.AggregatorFunction
}

func newIncremental(cfg merge.RecordConfig) *Incremental {
	cfg.ApplyDefaults()
	return &Incremental{cfg: cfg}
}

// Push consumes the next record. When the record opens a new group, the
// summary of the group it closed is returned; otherwise the result is
// nil.
func (inc *Incremental) Push(rec types.Record) (types.Record, error) {
	startVal, ok := fieldpath.Get(rec, inc.cfg.StartField)
	if !ok {
		return nil, &types.TypeMismatchError{Field: inc.cfg.StartField, Value: nil}
	}
	if !inc.started {
		inc.timeValued = timex.IsTimeLike(startVal)
	}
	endVal, _ := fieldpath.Get(rec, inc.cfg.EndField)

	if inc.timeValued {
		return inc.pushTime(rec, startVal, endVal)
	}
	return inc.pushNumeric(rec, startVal, endVal)
}

func (inc *Incremental) pushNumeric(rec types.Record, startVal, endVal interface{}) (types.Record, error) {
	start, err := merge.CoerceBound(startVal, inc.cfg.StartField)
	if err != nil {
		return nil, err
	}
	end, err := merge.CoerceBound(endVal, inc.cfg.EndField)
	if err != nil {
		return nil, err
	}
	if start > end {
		return nil, &types.InvalidIntervalError{Index: inc.index, Start: start, End: end}
	}

	if !inc.started {
		inc.started = true
		inc.openID = 1
		inc.openStart = start
		inc.openEnd = end
		inc.newFolds()
		inc.consume(rec, start)
		return nil, nil
	}

	if start < inc.lastStart {
		return nil, &types.OrderingViolationError{Index: inc.index, Prev: inc.lastStart, Curr: start}
	}

	var closed types.Record
	if start-inc.openEnd >= inc.cfg.Threshold {
		closed = inc.summary()
		inc.openID++
		inc.openStart = start
		inc.openEnd = end
		inc.newFolds()
	} else if end > inc.openEnd {
		inc.openEnd = end
	}

	inc.consume(rec, start)
	return closed, nil
}

func (inc *Incremental) pushTime(rec types.Record, startVal, endVal interface{}) (types.Record, error) {
	start, err := merge.CoerceTimeBound(startVal, inc.cfg.StartField)
	if err != nil {
		return nil, err
	}
	end, err := merge.CoerceTimeBound(endVal, inc.cfg.EndField)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, &types.InvalidIntervalError{
			Index: inc.index,
			Start: float64(start.UnixNano()),
			End:   float64(end.UnixNano()),
		}
	}

	if !inc.started {
		inc.started = true
		inc.openID = 1
		inc.openStartT = start
		inc.openEndT = end
		inc.newFolds()
		inc.consumeTime(rec, start)
		return nil, nil
	}

	if start.Before(inc.lastStartT) {
		return nil, &types.OrderingViolationError{
			Index: inc.index,
			Prev:  float64(inc.lastStartT.UnixNano()),
			Curr:  float64(start.UnixNano()),
		}
	}

	var closed types.Record
	if start.Sub(inc.openEndT) > inc.cfg.Tolerance {
		closed = inc.summary()
		inc.openID++
		inc.openStartT = start
		inc.openEndT = end
		inc.newFolds()
	} else if end.After(inc.openEndT) {
		inc.openEndT = end
	}

	inc.consumeTime(rec, start)
	return closed, nil
}

// Flush closes and returns the open group, or nil when nothing was
// pushed, and resets the grouper for the next sequence.
func (inc *Incremental) Flush() types.Record {
	if !inc.started {
		return nil
	}
	out := inc.summary()
	inc.Reset()
	return out
}

// Reset discards all state, including the open group.
func (inc *Incremental) Reset() {
	cfg := inc.cfg
	*inc = Incremental{cfg: cfg}
}

func (inc *Incremental) consume(rec types.Record, start float64) {
	inc.feed(rec)
	inc.lastStart = start
	inc.index++
}

func (inc *Incremental) consumeTime(rec types.Record, start time.Time) {
	inc.feed(rec)
	inc.lastStartT = start
	inc.index++
}

func (inc *Incremental) newFolds() {
	if len(inc.cfg.Aggregations) == 0 {
		inc.folds = nil
		return
	}
	inc.folds = make(map[string]aggregator.AggregatorFunction, len(inc.cfg.Aggregations))
	for _, f := range inc.cfg.Aggregations {
		inc.folds[f.OutputAlias] = aggregator.CreateBuiltinAggregator(f.AggregateType)
	}
}

func (inc *Incremental) feed(rec types.Record) {
	for _, f := range inc.cfg.Aggregations {
		fold := inc.folds[f.OutputAlias]
		if f.InputField == "*" {
			fold.Add(1)
			continue
		}
		if val, ok := fieldpath.Get(rec, f.InputField); ok && val != nil {
			fold.Add(val)
		}
	}
}

func (inc *Incremental) summary() types.Record {
	out := make(types.Record, len(inc.folds)+3)
	out[inc.cfg.GroupIDField] = inc.openID
	if inc.timeValued {
		out[inc.cfg.StartField] = inc.openStartT
		out[inc.cfg.EndField] = inc.openEndT
	} else {
		out[inc.cfg.StartField] = inc.openStart
		out[inc.cfg.EndField] = inc.openEnd
	}
	for alias, fold := range inc.folds {
		out[alias] = fold.Result()
	}
	return out
}
