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
package builder

import (
	"fmt"
	"maps"

	"github.com/consensys/go-armasm/pkg/armasm/ast"
	"github.com/consensys/go-armasm/pkg/armasm/diag"
	"github.com/consensys/go-armasm/pkg/armasm/hir"
	"github.com/consensys/go-armasm/pkg/armasm/symbol"
	"github.com/consensys/go-armasm/pkg/util/source"
	log "github.com/sirupsen/logrus"
)

// MAX_PASSES bounds the number of layout passes before giving up.
const MAX_PASSES = 32

// Build lays out a parsed program starting from a given origin, producing the
// program's nodes and its (frozen) symbol table.  Since labels may be used
// before they are defined, and the size of some pseudo instructions depends
// on the values of labels, layout is repeated until no symbol changes value.
func Build(lines []ast.Line, srcmap *source.Map[any], origin uint32) (*hir.Program, symbol.Lookup, []diag.Diagnostic) {
	var (
		builder = NewBuilder(srcmap, origin)
		errors  = builder.declare(lines)
		prev    map[string]int64
		result  *layout
	)
	//
	for i := 1; i <= MAX_PASSES; i++ {
		result = builder.layout(lines, prev)
		//
		log.Debugf("layout pass %d placed %d nodes in %d regions", i, len(result.nodes), len(result.regions))
		//
		if maps.Equal(prev, result.values) {
			errors = append(errors, result.errors...)
			//
			return builder.finish(result), builder.symbols.Freeze(), errors
		}
		//
		prev = result.values
	}
	//
	msg := fmt.Sprintf("layout failed to converge after %d passes", MAX_PASSES)
	errors = append(errors, diag.New(diag.UnstableLayout, srcmap.Source(), source.NewSpan(0, 0), msg))
	//
	return builder.finish(result), builder.symbols.Freeze(), errors
}

// Builder holds the state which persists across layout passes.
type Builder struct {
	srcmap *source.Map[any]
	origin uint32
	// Symbols declared by the program
	symbols *symbol.Table
	// Labels which define their symbol, as opposed to redefinitions of it.
	owners map[*ast.Label]bool
	// ADRL instructions which have been found to need two instructions.  Once
	// long, always long.
	long map[*ast.LoadAddress]bool
}

// NewBuilder constructs a builder for a program starting at a given origin.
func NewBuilder(srcmap *source.Map[any], origin uint32) *Builder {
	return &Builder{srcmap, origin, symbol.NewTable(), make(map[*ast.Label]bool),
		make(map[*ast.LoadAddress]bool)}
}

// Declare every label and constant, reporting all redefinitions.
func (p *Builder) declare(lines []ast.Line) []diag.Diagnostic {
	var errors []diag.Diagnostic
	//
	for _, line := range lines {
		if line.Label == nil {
			continue
		}
		//
		sym := symbol.Symbol{Name: line.Label.Name, Kind: symbol.LABEL, Span: p.srcmap.Get(line.Label)}
		//
		if _, ok := line.Statement.(*ast.Equate); ok {
			sym.Kind = symbol.CONSTANT
		}
		//
		if p.symbols.Declare(sym) {
			p.owners[line.Label] = true
			continue
		}
		//
		original, _ := p.symbols.Get(sym.Name)
		number, _ := p.srcmap.Source().SyntaxError(original.Span, "").Position()
		msg := fmt.Sprintf("symbol \"%s\" already defined on line %d", sym.Name, number)
		errors = append(errors, p.diagnostic(diag.DuplicateSymbol, msg, line.Label))
	}
	//
	return errors
}

// Bind the final values of all symbols, declare the literal pool slots and
// construct the program.
func (p *Builder) finish(result *layout) *hir.Program {
	for _, sym := range p.symbols.Symbols() {
		p.symbols.Bind(sym.Name, result.values[sym.Name])
	}
	//
	for _, name := range result.literals {
		p.symbols.Declare(symbol.Symbol{Name: name, Kind: symbol.LITERAL, Value: result.values[name]})
	}
	//
	return hir.NewProgram(result.nodes, result.entryPoint(), result.regions)
}

// Construct a diagnostic for the first of the given nodes which has a source
// mapping.
func (p *Builder) diagnostic(kind diag.Kind, msg string, nodes ...any) diag.Diagnostic {
	for _, node := range nodes {
		if p.srcmap.Has(node) {
			return diag.Wrap(kind, p.srcmap.SyntaxError(node, msg))
		}
	}
	//
	return diag.New(kind, p.srcmap.Source(), source.NewSpan(0, 0), msg)
}
