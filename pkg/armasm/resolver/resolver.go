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
package resolver

import (
	"fmt"

	"github.com/consensys/go-armasm/pkg/armasm/ast"
	"github.com/consensys/go-armasm/pkg/armasm/diag"
	"github.com/consensys/go-armasm/pkg/armasm/hir"
	"github.com/consensys/go-armasm/pkg/armasm/lir"
	"github.com/consensys/go-armasm/pkg/armasm/symbol"
	"github.com/consensys/go-armasm/pkg/util/source"
	log "github.com/sirupsen/logrus"
)

// Resolve every expression of a laid out program against its (frozen) symbol
// table, producing a program in which every instruction field holds exactly
// the value to be encoded.  All errors are reported, and no program is
// returned if there are any.
func Resolve(program *hir.Program, symbols symbol.Lookup, srcmap *source.Map[any]) (*lir.Program,
	[]diag.Diagnostic) {
	var (
		resolver = NewResolver(symbols, srcmap)
		items    = make([]lir.Item, 0, len(program.Nodes))
	)
	//
	for _, node := range program.Nodes {
		if item, ok := resolver.resolveNode(node); ok && item.Size() > 0 {
			items = append(items, item)
		}
	}
	//
	log.Debugf("resolved %d items with %d errors", len(items), len(resolver.errors))
	//
	if len(resolver.errors) > 0 {
		return nil, resolver.errors
	}
	//
	return &lir.Program{Items: items, Entry: program.Entry}, nil
}

// Resolver is responsible for lowering individual nodes.
type Resolver struct {
	symbols symbol.Lookup
	srcmap  *source.Map[any]
	errors  []diag.Diagnostic
}

// NewResolver constructs a resolver for a given symbol table.
func NewResolver(symbols symbol.Lookup, srcmap *source.Map[any]) *Resolver {
	return &Resolver{symbols, srcmap, nil}
}

func (p *Resolver) resolveNode(node hir.Node) (lir.Item, bool) {
	switch node := node.(type) {
	case *hir.Instruction:
		insn, ok := p.resolveInstruction(node.Insn, node.Addr)
		return &lir.Code{Addr: node.Addr, Insn: insn}, ok
	case *hir.LiteralLoad:
		insn, ok := p.resolveLiteralLoad(node)
		return &lir.Code{Addr: node.Addr, Insn: insn}, ok
	case *hir.Data:
		return p.resolveData(node)
	case *hir.Bytes:
		values := make([]uint32, len(node.Bytes))
		//
		for i, b := range node.Bytes {
			values[i] = uint32(b)
		}
		//
		return &lir.Data{Addr: node.Addr, Width: 1, Values: values}, true
	default:
		panic(fmt.Sprintf("unknown node %T", node))
	}
}

// Data values must fit their element width, either as signed or as unsigned
// quantities.
func (p *Resolver) resolveData(node *hir.Data) (lir.Item, bool) {
	var (
		bits   = 8 * node.Width
		lower  = -int64(1) << (bits - 1)
		upper  = int64(1)<<bits - 1
		values = make([]uint32, len(node.Values))
		ok     = true
	)
	//
	for i, expr := range node.Values {
		value, evaluated := p.evaluate(expr)
		//
		if !evaluated {
			ok = false
		} else if value < lower || value > upper {
			p.error(diag.InvalidDirective, fmt.Sprintf("value %d does not fit in %d bytes", value, node.Width), expr)
			ok = false
		}
		//
		values[i] = uint32(value) & uint32(upper)
	}
	//
	return &lir.Data{Addr: node.Addr, Width: node.Width, Values: values}, ok
}

// Evaluate an expression, reporting an error if this fails.
func (p *Resolver) evaluate(expr ast.Expr, nodes ...any) (int64, bool) {
	value, err := expr.Eval(p.symbols)
	//
	switch err := err.(type) {
	case nil:
		return value, true
	case *ast.UnknownSymbolError:
		msg := fmt.Sprintf("undefined symbol \"%s\"", err.Symbol.Name)
		p.error(diag.UndefinedSymbol, msg, append([]any{err.Symbol, expr}, nodes...)...)
	case *ast.StringValueError:
		p.error(diag.MalformedOperand, err.Error(), append([]any{err.String, expr}, nodes...)...)
	case *ast.OverflowError:
		p.error(diag.MalformedOperand, err.Error(), append([]any{err.Expr, expr}, nodes...)...)
	default:
		p.error(diag.MalformedOperand, err.Error(), append([]any{expr}, nodes...)...)
	}
	//
	return 0, false
}

// Report an error at the first of the given nodes which has a source mapping.
func (p *Resolver) error(kind diag.Kind, msg string, nodes ...any) {
	for _, node := range nodes {
		if p.srcmap.Has(node) {
			p.errors = append(p.errors, diag.Wrap(kind, p.srcmap.SyntaxError(node, msg)))
			return
		}
	}
	//
	p.errors = append(p.errors, diag.New(kind, p.srcmap.Source(), source.NewSpan(0, 0), msg))
}
