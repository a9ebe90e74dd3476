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

// Package timex coerces record field values into wall-clock times.
// String values go through dateparse so that records loaded from CSV or
// JSON keep their original date formats.
package timex

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// ToTime coerces a field value to time.Time. Accepted forms are
// time.Time itself, *time.Time, and date-formatted strings.
func ToTime(v interface{}) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case *time.Time:
		if t == nil {
			return time.Time{}, fmt.Errorf("nil *time.Time")
		}
		return *t, nil
	case string:
		parsed, err := dateparse.ParseAny(t)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse time %q: %w", t, err)
		}
		return parsed, nil
	default:
		return time.Time{}, fmt.Errorf("value %v (%T) is not a time", v, v)
	}
}

// IsTimeLike reports whether ToTime would succeed on v. Used to decide
// whether a span field is time-valued or numeric.
func IsTimeLike(v interface{}) bool {
	switch t := v.(type) {
	case time.Time, *time.Time:
		return true
	case string:
		_, err := dateparse.ParseAny(t)
		return err == nil
	default:
		return false
	}
}
