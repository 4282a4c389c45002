// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package ast

import (
	"fmt"
	"math"
	"strconv"
)

// Environment gives values to the symbols of an expression.
type Environment interface {
	// Lookup the value of a given symbol, or return false if it has none.
	Lookup(name string) (int64, bool)
}

// Expr is an integer valued expression, as used for immediates, branch
// targets, addresses and data.
type Expr interface {
	// Eval computes the value of this expression in a given environment.
	Eval(env Environment) (int64, error)
	String() string
}

// UnknownSymbolError reports a symbol which the environment had no value for.
type UnknownSymbolError struct {
	Symbol *Symbol
}

func (p *UnknownSymbolError) Error() string {
	return fmt.Sprintf("unknown symbol \"%s\"", p.Symbol.Name)
}

// StringValueError reports a string used where a number is required.
type StringValueError struct {
	String *String
}

func (p *StringValueError) Error() string {
	return "string not permitted here"
}

// OverflowError reports an operation whose result does not fit in 64 bits.
type OverflowError struct {
	Expr Expr
}

func (p *OverflowError) Error() string {
	return fmt.Sprintf("arithmetic overflow in %s", p.Expr)
}

// Number is a constant, including character constants and booleans.
type Number struct {
	Value int64
}

// Symbol is a reference to a label or constant.
type Symbol struct {
	Name string
}

// BinaryOp identifies the operator of a binary expression.
type BinaryOp uint8

// ADD is "+"
const ADD BinaryOp = 0

// SUB is "-"
const SUB BinaryOp = 1

// MUL is "*"
const MUL BinaryOp = 2

// Binary applies an operator to two subexpressions.
type Binary struct {
	Op  BinaryOp
	Lhs Expr
	Rhs Expr
}

// Negate is the unary minus.
type Negate struct {
	Arg Expr
}

// String is a quoted string, which is only meaningful in DEFB.
type String struct {
	Value string
}

// Eval implementation for Expr interface.
func (p *Number) Eval(env Environment) (int64, error) {
	return p.Value, nil
}

// Eval implementation for Expr interface.
func (p *Symbol) Eval(env Environment) (int64, error) {
	if v, ok := env.Lookup(p.Name); ok {
		return v, nil
	}
	//
	return 0, &UnknownSymbolError{p}
}

// Eval implementation for Expr interface.
func (p *Binary) Eval(env Environment) (int64, error) {
	lhs, err := p.Lhs.Eval(env)
	if err != nil {
		return 0, err
	}
	//
	rhs, err := p.Rhs.Eval(env)
	if err != nil {
		return 0, err
	}
	//
	var (
		result   int64
		overflow bool
	)
	//
	switch p.Op {
	case ADD:
		result = lhs + rhs
		overflow = (lhs >= 0) == (rhs >= 0) && (result >= 0) != (lhs >= 0)
	case SUB:
		result = lhs - rhs
		overflow = (lhs >= 0) != (rhs >= 0) && (result >= 0) != (lhs >= 0)
	case MUL:
		result = lhs * rhs
		overflow = lhs != 0 && (result/lhs != rhs || (lhs == -1 && rhs == math.MinInt64))
	default:
		panic("unreachable")
	}
	//
	if overflow {
		return 0, &OverflowError{p}
	}
	//
	return result, nil
}

// Eval implementation for Expr interface.
func (p *Negate) Eval(env Environment) (int64, error) {
	v, err := p.Arg.Eval(env)
	if err != nil {
		return 0, err
	} else if v == math.MinInt64 {
		return 0, &OverflowError{p}
	}
	//
	return -v, nil
}

// Eval implementation for Expr interface.
func (p *String) Eval(env Environment) (int64, error) {
	return 0, &StringValueError{p}
}

func (p *Number) String() string {
	return strconv.FormatInt(p.Value, 10)
}

func (p *Symbol) String() string {
	return p.Name
}

func (p *Binary) String() string {
	var op string
	//
	switch p.Op {
	case ADD:
		op = "+"
	case SUB:
		op = "-"
	default:
		op = "*"
	}
	//
	return fmt.Sprintf("(%s %s %s)", p.Lhs, op, p.Rhs)
}

func (p *Negate) String() string {
	return fmt.Sprintf("-%s", p.Arg)
}

func (p *String) String() string {
	return strconv.Quote(p.Value)
}

// Symbols returns every symbol referenced in an expression, in left to right
// order.
func Symbols(expr Expr) []*Symbol {
	switch e := expr.(type) {
	case *Symbol:
		return []*Symbol{e}
	case *Binary:
		return append(Symbols(e.Lhs), Symbols(e.Rhs)...)
	case *Negate:
		return Symbols(e.Arg)
	default:
		return nil
	}
}

// MapEnvironment is an environment backed by a map.
type MapEnvironment map[string]int64

// Lookup implementation for Environment interface.
func (p MapEnvironment) Lookup(name string) (int64, bool) {
	v, ok := p[name]
	return v, ok
}
