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

// Package fieldpath resolves dot-notation paths like "visit.start"
// against nested map records, so interval bounds and aggregation inputs
// can live below the record's top level.
package fieldpath

import (
	"strings"
)

// IsNestedField reports whether the field uses dot notation.
func IsNestedField(field string) bool {
	return strings.Contains(field, ".")
}

// Get resolves field against a record, descending through nested
// map[string]interface{} values for dot-notation paths. The second
// return reports whether every segment was found.
func Get(record map[string]interface{}, field string) (interface{}, bool) {
	if !IsNestedField(field) {
		val, ok := record[field]
		return val, ok
	}

	var current interface{} = record
	for _, segment := range strings.Split(field, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
