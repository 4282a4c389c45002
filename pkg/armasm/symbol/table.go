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
package symbol

import (
	"fmt"

	"github.com/consensys/go-armasm/pkg/util/source"
)

// Kind distinguishes the different sorts of symbol.
type Kind uint8

// LABEL is the address of an instruction or data.
const LABEL Kind = 0

// CONSTANT is a value given by EQU.
const CONSTANT Kind = 1

// LITERAL is the address of a literal pool slot.  Such symbols are introduced
// by the assembler itself and cannot be written in source.
const LITERAL Kind = 2

func (k Kind) String() string {
	switch k {
	case LABEL:
		return "label"
	case CONSTANT:
		return "constant"
	case LITERAL:
		return "literal"
	default:
		return "unknown"
	}
}

// Symbol associates a name with a value.
type Symbol struct {
	Name  string
	Kind  Kind
	Value int64
	// Span of the defining occurrence (empty for literals)
	Span source.Span
}

// Lookup provides read-only access to a symbol table.  This is all that is
// available once the table has been frozen.
type Lookup interface {
	// Get returns the symbol of a given name, if it exists.
	Get(name string) (Symbol, bool)
	// Lookup returns the value of a given symbol, which makes every Lookup a
	// valid environment for evaluating expressions.
	Lookup(name string) (int64, bool)
	// Symbols returns all symbols in declaration order.
	Symbols() []Symbol
}

// Table is a mutable symbol table.  Symbols are declared once, but their
// values can be rebound as layout proceeds until the table is frozen.
type Table struct {
	symbols []Symbol
	index   map[string]uint
	frozen  bool
}

// NewTable constructs an empty symbol table.
func NewTable() *Table {
	return &Table{nil, make(map[string]uint), false}
}

// Declare a new symbol, returning false if a symbol of the same name already
// exists (in which case the table is unchanged).
func (p *Table) Declare(symbol Symbol) bool {
	p.checkMutable()
	//
	if _, ok := p.index[symbol.Name]; ok {
		return false
	}
	//
	p.index[symbol.Name] = uint(len(p.symbols))
	p.symbols = append(p.symbols, symbol)
	//
	return true
}

// Bind a declared symbol to a given value, returning true if this changed its
// value.  Binding an undeclared symbol is a defect.
func (p *Table) Bind(name string, value int64) bool {
	p.checkMutable()
	//
	i, ok := p.index[name]
	if !ok {
		panic(fmt.Sprintf("unknown symbol \"%s\"", name))
	}
	//
	changed := p.symbols[i].Value != value
	p.symbols[i].Value = value
	//
	return changed
}

// Has checks whether a symbol of the given name is declared.
func (p *Table) Has(name string) bool {
	_, ok := p.index[name]
	return ok
}

// Get implementation for the Lookup interface.
func (p *Table) Get(name string) (Symbol, bool) {
	if i, ok := p.index[name]; ok {
		return p.symbols[i], true
	}
	//
	return Symbol{}, false
}

// Lookup implementation for the Lookup interface.
func (p *Table) Lookup(name string) (int64, bool) {
	if i, ok := p.index[name]; ok {
		return p.symbols[i].Value, true
	}
	//
	return 0, false
}

// Symbols implementation for the Lookup interface.
func (p *Table) Symbols() []Symbol {
	return p.symbols
}

// Freeze this table, after which any attempt to modify it panics.
func (p *Table) Freeze() Lookup {
	p.frozen = true
	return p
}

// IsFrozen checks whether this table has been frozen.
func (p *Table) IsFrozen() bool {
	return p.frozen
}

func (p *Table) checkMutable() {
	if p.frozen {
		panic("symbol table is frozen")
	}
}
