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

package aggregator

import (
	"sync"

	"github.com/montanaflynn/stats"
	"github.com/spf13/cast"
)

type AggregateType string

const (
	Sum        AggregateType = "sum"
	Count      AggregateType = "count"
	Avg        AggregateType = "avg"
	Max        AggregateType = "max"
	Min        AggregateType = "min"
	First      AggregateType = "first"
	Last       AggregateType = "last"
	Collect    AggregateType = "collect"
	StdDev     AggregateType = "stddev"
	Median     AggregateType = "median"
	Percentile AggregateType = "percentile"
)

// AggregatorFunction is one per-group fold. New returns a fresh
// instance for the next group; Add consumes members in input order.
type AggregatorFunction interface {
	New() AggregatorFunction
	Add(value interface{})
	Result() interface{}
}

// IsNumeric reports whether an aggregate type folds numbers and so
// needs its input coerced to float64.
func IsNumeric(aggType AggregateType) bool {
	switch aggType {
	case Sum, Avg, Max, Min, StdDev, Median, Percentile:
		return true
	default:
		return false
	}
}

type SumAggregator struct {
	value float64
}

func (s *SumAggregator) New() AggregatorFunction {
	return &SumAggregator{}
}

func (s *SumAggregator) Add(v interface{}) {
	s.value += cast.ToFloat64(v)
}

func (s *SumAggregator) Result() interface{} {
	return s.value
}

type CountAggregator struct {
	count int
}

func (c *CountAggregator) New() AggregatorFunction {
	return &CountAggregator{}
}

func (c *CountAggregator) Add(_ interface{}) {
	c.count++
}

func (c *CountAggregator) Result() interface{} {
	return float64(c.count)
}

type AvgAggregator struct {
	sum   float64
	count int
}

func (a *AvgAggregator) New() AggregatorFunction {
	return &AvgAggregator{}
}

func (a *AvgAggregator) Add(v interface{}) {
	a.sum += cast.ToFloat64(v)
	a.count++
}

func (a *AvgAggregator) Result() interface{} {
	if a.count == 0 {
		return 0.0
	}
	return a.sum / float64(a.count)
}

type MinAggregator struct {
	value float64
	first bool
}

func (m *MinAggregator) New() AggregatorFunction {
	return &MinAggregator{first: true}
}

func (m *MinAggregator) Add(v interface{}) {
	vv := cast.ToFloat64(v)
	if m.first || vv < m.value {
		m.value = vv
		m.first = false
	}
}

func (m *MinAggregator) Result() interface{} {
	return m.value
}

type MaxAggregator struct {
	value float64
	first bool
}

func (m *MaxAggregator) New() AggregatorFunction {
	return &MaxAggregator{first: true}
}

func (m *MaxAggregator) Add(v interface{}) {
	vv := cast.ToFloat64(v)
	if m.first || vv > m.value {
		m.value = vv
		m.first = false
	}
}

func (m *MaxAggregator) Result() interface{} {
	return m.value
}

// FirstAggregator keeps the first value fed to it. Record order inside
// a group is preserved by the run aggregator, so "first" means first in
// input order.
type FirstAggregator struct {
	value interface{}
	set   bool
}

func (f *FirstAggregator) New() AggregatorFunction {
	return &FirstAggregator{}
}

func (f *FirstAggregator) Add(v interface{}) {
	if !f.set {
		f.value = v
		f.set = true
	}
}

func (f *FirstAggregator) Result() interface{} {
	return f.value
}

type LastAggregator struct {
	value interface{}
}

func (l *LastAggregator) New() AggregatorFunction {
	return &LastAggregator{}
}

func (l *LastAggregator) Add(v interface{}) {
	l.value = v
}

func (l *LastAggregator) Result() interface{} {
	return l.value
}

type CollectAggregator struct {
	values []interface{}
}

func (c *CollectAggregator) New() AggregatorFunction {
	return &CollectAggregator{}
}

func (c *CollectAggregator) Add(v interface{}) {
	c.values = append(c.values, v)
}

func (c *CollectAggregator) Result() interface{} {
	return c.values
}

type StdDevAggregator struct {
	values []float64
}

func (s *StdDevAggregator) New() AggregatorFunction {
	return &StdDevAggregator{}
}

func (s *StdDevAggregator) Add(v interface{}) {
	s.values = append(s.values, cast.ToFloat64(v))
}

func (s *StdDevAggregator) Result() interface{} {
	if len(s.values) < 2 {
		return 0.0
	}
	sd, err := stats.StandardDeviationSample(s.values)
	if err != nil {
		return 0.0
	}
	return sd
}

type MedianAggregator struct {
	values []float64
}

func (m *MedianAggregator) New() AggregatorFunction {
	return &MedianAggregator{}
}

func (m *MedianAggregator) Add(v interface{}) {
	m.values = append(m.values, cast.ToFloat64(v))
}

func (m *MedianAggregator) Result() interface{} {
	if len(m.values) == 0 {
		return 0.0
	}
	med, err := stats.Median(m.values)
	if err != nil {
		return 0.0
	}
	return med
}

type PercentileAggregator struct {
	values []float64
	p      float64
}

// NewPercentileAggregator creates a percentile fold for the given
// percent, e.g. 95 for p95.
func NewPercentileAggregator(percent float64) *PercentileAggregator {
	return &PercentileAggregator{p: percent}
}

func (p *PercentileAggregator) New() AggregatorFunction {
	return &PercentileAggregator{p: p.p}
}

func (p *PercentileAggregator) Add(v interface{}) {
	p.values = append(p.values, cast.ToFloat64(v))
}

func (p *PercentileAggregator) Result() interface{} {
	if len(p.values) == 0 {
		return 0.0
	}
	pct, err := stats.Percentile(p.values, p.p)
	if err != nil {
		return 0.0
	}
	return pct
}

var (
	aggregatorRegistry = make(map[string]func() AggregatorFunction)
	registryMutex      sync.RWMutex
)

// Register adds a custom aggregator to the global registry. Registered
// names take precedence over the builtins.
func Register(name string, constructor func() AggregatorFunction) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	aggregatorRegistry[name] = constructor
}

// CreateBuiltinAggregator returns a fresh fold for the given type,
// consulting the registry first.
func CreateBuiltinAggregator(aggType AggregateType) AggregatorFunction {
	registryMutex.RLock()
	constructor, exists := aggregatorRegistry[string(aggType)]
	registryMutex.RUnlock()
	if exists {
		return constructor()
	}

	switch aggType {
	case Sum:
		return &SumAggregator{}
	case Count:
		return &CountAggregator{}
	case Avg:
		return &AvgAggregator{}
	case Min:
		return (&MinAggregator{}).New()
	case Max:
		return (&MaxAggregator{}).New()
	case First:
		return &FirstAggregator{}
	case Last:
		return &LastAggregator{}
	case Collect:
		return &CollectAggregator{}
	case StdDev:
		return &StdDevAggregator{}
	case Median:
		return &MedianAggregator{}
	case Percentile:
		return NewPercentileAggregator(95)
	default:
		panic("unsupported aggregator type: " + aggType)
	}
}
