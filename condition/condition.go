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

package condition

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/spangroup/spangroup/types"
)

// Condition evaluates a boolean expression against a record-shaped
// environment.
type Condition interface {
	Evaluate(env interface{}) (bool, error)
}

// Ensure ExprCondition implements the Condition interface
var _ Condition = (*ExprCondition)(nil)

// ExprCondition compiles an expression once and evaluates it per record.
type ExprCondition struct {
	source  string
	program *vm.Program
}

// NewExprCondition compiles an expression into a reusable condition.
// Undefined variables are allowed so that sparse records evaluate
// instead of erroring; an undefined comparison yields false.
//
// Example:
//
//	cond, err := NewExprCondition(`pressure > 100 && sensor != "test"`)
func NewExprCondition(expression string) (*ExprCondition, error) {
	options := []expr.Option{
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	}

	program, err := expr.Compile(expression, options...)
	if err != nil {
		return nil, fmt.Errorf("compile condition %q: %w", expression, err)
	}
	return &ExprCondition{source: expression, program: program}, nil
}

// Evaluate runs the compiled program against env.
func (ec *ExprCondition) Evaluate(env interface{}) (bool, error) {
	result, err := expr.Run(ec.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate condition %q: %w", ec.source, err)
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("condition %q: result %v (%T) is not boolean", ec.source, result, result)
	}
	return b, nil
}

// Source returns the original expression text.
func (ec *ExprCondition) Source() string {
	return ec.source
}

// Predicate adapts the condition to the pipeline's predicate shape.
func (ec *ExprCondition) Predicate() types.Predicate {
	return func(rec types.Record) (bool, error) {
		return ec.Evaluate(map[string]interface{}(rec))
	}
}
