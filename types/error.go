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
	"errors"
	"fmt"
)

// OrderingViolationError reports input that is not sorted ascending by
// its sort key. Grouping over unsorted input would silently produce
// wrong results, so callers get this instead.
type OrderingViolationError struct {
	Index int     // index of the out-of-order element
	Prev  float64 // sort key at Index-1
	Curr  float64 // sort key at Index
}

func (e *OrderingViolationError) Error() string {
	return fmt.Sprintf("ordering violation at index %d: start %v follows %v", e.Index, e.Curr, e.Prev)
}

// InvalidIntervalError reports a span whose start exceeds its end.
type InvalidIntervalError struct {
	Index int
	Start float64
	End   float64
}

func (e *InvalidIntervalError) Error() string {
	return fmt.Sprintf("invalid interval at index %d: start %v > end %v", e.Index, e.Start, e.End)
}

// TypeMismatchError reports a field value that cannot be coerced to the
// comparable type the pipeline needs (numeric or time).
type TypeMismatchError struct {
	Field string
	Value interface{}
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("field %q: value %v (%T) is not comparable", e.Field, e.Value, e.Value)
}

// IsOrderingViolation reports whether err wraps an OrderingViolationError.
func IsOrderingViolation(err error) bool {
	var target *OrderingViolationError
	return errors.As(err, &target)
}

// IsInvalidInterval reports whether err wraps an InvalidIntervalError.
func IsInvalidInterval(err error) bool {
	var target *InvalidIntervalError
	return errors.As(err, &target)
}

// IsTypeMismatch reports whether err wraps a TypeMismatchError.
func IsTypeMismatch(err error) bool {
	var target *TypeMismatchError
	return errors.As(err, &target)
}
