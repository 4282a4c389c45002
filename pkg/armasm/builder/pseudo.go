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
	"math"

	"github.com/consensys/go-armasm/pkg/armasm/ast"
	"github.com/consensys/go-armasm/pkg/armasm/diag"
	"github.com/consensys/go-armasm/pkg/armasm/hir"
	"github.com/consensys/go-armasm/pkg/armasm/symbol"
	"github.com/consensys/go-armasm/pkg/isa"
)

// Expand "LDR Rd, =value" into a MOV or MVN when the value (or its complement)
// is a rotated immediate, otherwise into a load from the literal pool.
func (p *layout) expandLoadConstant(insn *ast.LoadConstant, address uint32) hir.Node {
	value, known := p.peek(insn.Value)
	//
	if known && (value < math.MinInt32 || value > math.MaxUint32) {
		msg := fmt.Sprintf("constant %d does not fit in 32 bits", value)
		p.error(diag.ImmediateOutOfRange, msg, insn.Value, insn)
	}
	//
	word := uint32(value)
	//
	if known && isa.IsImmediate(word) {
		return p.move(insn, isa.MOV, word, address)
	} else if known && isa.IsImmediate(^word) {
		return p.move(insn, isa.MVN, ^word, address)
	}
	//
	name := fmt.Sprintf("$literal%d", len(p.literals))
	//
	if slot, fresh := p.pool.allocate(insn.Value, word, known, name); fresh {
		p.literals = append(p.literals, slot)
	} else {
		name = slot
	}
	//
	node := &hir.LiteralLoad{Addr: address, Cond: insn.Cond, Rd: insn.Rd, Slot: name}
	p.builder.srcmap.Copy(insn, node)
	//
	return node
}

func (p *layout) move(insn *ast.LoadConstant, opcode isa.Opcode, value uint32, address uint32) hir.Node {
	operand := &ast.Immediate{Value: &ast.Number{Value: int64(value)}}
	mov := &ast.DataProcessing{Cond: insn.Cond, Opcode: opcode, Rd: insn.Rd, Operand: operand}
	//
	p.builder.srcmap.Copy(insn, mov)
	//
	return &hir.Instruction{Addr: address, Insn: mov}
}

// Expand "ADR Rd, target" into "ADD Rd, PC, #offset" or "SUB Rd, PC, #offset".
// For ADRL, an offset which is not a rotated immediate is split across a
// second instruction "ADD Rd, Rd, #rest" (or SUB).
func (p *layout) expandLoadAddress(insn *ast.LoadAddress, address uint32) []hir.Node {
	var (
		pc             = int64(address) + 8
		target, known  = p.peek(insn.Target)
		long           = p.builder.long[insn]
		opcode         = isa.ADD
		first, second  isa.RotatedImmediate
		single, double bool
	)
	// An unknown target is undefined, which is reported during resolution.
	if !known {
		offset := &ast.Binary{Op: ast.SUB, Lhs: insn.Target, Rhs: &ast.Number{Value: pc}}
		return p.addressNodes(insn, opcode, offset, 0, long, address)
	}
	//
	offset := target - pc
	//
	if offset < 0 {
		opcode, offset = isa.SUB, -offset
	}
	//
	if offset <= math.MaxUint32 {
		first, single = isa.EncodeImmediate(uint32(offset))
		//
		if !single {
			first, second, double = isa.SplitImmediate(uint32(offset))
		}
	}
	//
	switch {
	case single && !long:
		return p.addressNodes(insn, opcode, &ast.Number{Value: offset}, 0, false, address)
	case insn.Long && (single || double):
		p.builder.long[insn] = true
		//
		lhs, rhs := &ast.Number{Value: int64(first.Decode())}, int64(second.Decode())
		//
		return p.addressNodes(insn, opcode, lhs, rhs, true, address)
	case insn.Long:
		p.error(diag.DisplacementTooLarge, fmt.Sprintf("offset %d cannot be split into two immediates", offset),
			insn.Target, insn)
	default:
		p.error(diag.DisplacementTooLarge, fmt.Sprintf("offset %d is not a rotated immediate (use ADRL)", offset),
			insn.Target, insn)
	}
	// Keep the layout going after an error
	return p.addressNodes(insn, opcode, &ast.Number{}, 0, long, address)
}

// Construct "op Rd, PC, #offset" followed, when long, by "op Rd, Rd, #rest".
func (p *layout) addressNodes(insn *ast.LoadAddress, opcode isa.Opcode, offset ast.Expr, rest int64, long bool,
	address uint32) []hir.Node {
	var (
		operand = &ast.Immediate{Value: offset}
		add     = &ast.DataProcessing{Cond: insn.Cond, Opcode: opcode, Rd: insn.Rd, Rn: isa.PC, Operand: operand}
		nodes   = []hir.Node{&hir.Instruction{Addr: address, Insn: add}}
	)
	//
	p.builder.srcmap.Copy(insn.Target, offset)
	p.builder.srcmap.Copy(insn, add)
	//
	if long {
		operand := &ast.Immediate{Value: &ast.Number{Value: rest}}
		next := &ast.DataProcessing{Cond: insn.Cond, Opcode: opcode, Rd: insn.Rd, Rn: insn.Rd, Operand: operand}
		//
		p.builder.srcmap.Copy(insn, next)
		nodes = append(nodes, &hir.Instruction{Addr: address + 4, Insn: next})
	}
	//
	return nodes
}

// Evaluate an expression without reporting errors, returning false if its
// value is not yet known.
func (p *layout) peek(expr ast.Expr) (int64, bool) {
	env := &environment{p, false, false}
	//
	value, err := expr.Eval(env)
	//
	return value, err == nil && !env.guessed
}

// environment gives values to symbols during a layout pass.  Symbols already
// placed by this pass take precedence over those of the previous pass, and
// symbols without any value yet are guessed to be zero.
type environment struct {
	layout *layout
	// Strict environments only give values to constants already defined by
	// this pass.
	strict  bool
	guessed bool
}

// Lookup implementation for the ast.Environment interface.
func (p *environment) Lookup(name string) (int64, bool) {
	sym, ok := p.layout.builder.symbols.Get(name)
	//
	if !ok {
		return 0, false
	} else if value, ok := p.layout.values[name]; ok {
		return value, true
	} else if p.strict && sym.Kind == symbol.CONSTANT {
		return 0, false
	} else if value, ok := p.layout.prev[name]; ok {
		return value, true
	}
	//
	p.guessed = true
	//
	return 0, true
}
