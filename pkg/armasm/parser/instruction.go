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
package parser

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-armasm/pkg/armasm/ast"
	"github.com/consensys/go-armasm/pkg/armasm/diag"
	"github.com/consensys/go-armasm/pkg/isa"
)

// Parse the operands of a data processing instruction, which are one of:
//
//	op{cond}{S} Rd, Rn, <operand2>
//	op{cond}{S} Rd, <operand2>      (MOV, MVN, or shorthand for Rd, Rd, <operand2>)
//	op{cond} Rn, <operand2>         (CMP, CMN, TST, TEQ)
func (p *Parser) parseDataProcessing(m Mnemonic) (ast.Statement, []diag.Diagnostic) {
	var (
		inst    = &ast.DataProcessing{Cond: m.Cond, Opcode: m.Opcode, SetFlags: m.SetFlags}
		first   isa.Register
		operand ast.ShifterOperand
		errs    []diag.Diagnostic
	)
	//
	if first, errs = p.parseRegister(); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(COMMA, "\",\""); len(errs) > 0 {
		return nil, errs
	}
	//
	switch {
	case m.Opcode.IsComparison():
		inst.Rn, inst.SetFlags = first, true
	case m.Opcode.IsMove():
		inst.Rd = first
	case p.followsRegisterThenComma() && !p.followsShiftName(2):
		inst.Rd = first
		//
		if inst.Rn, errs = p.parseRegister(); len(errs) > 0 {
			return nil, errs
		}
		// comma
		p.next()
	default:
		inst.Rd, inst.Rn = first, first
	}
	//
	if operand, errs = p.parseShifterOperand(); len(errs) > 0 {
		return nil, errs
	}
	//
	inst.Operand = operand
	//
	return inst, nil
}

// Parse "LSL Rd, Rm, #n" or "LSL Rd, Rm, Rs" (and likewise LSR, ASR and ROR),
// which are written as a move of a shifted register.
func (p *Parser) parseShift(m Mnemonic) (ast.Statement, []diag.Diagnostic) {
	var (
		rd, rm isa.Register
		errs   []diag.Diagnostic
	)
	//
	if rd, errs = p.parseRegister(); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(COMMA, "\",\""); len(errs) > 0 {
		return nil, errs
	} else if rm, errs = p.parseRegister(); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(COMMA, "\",\""); len(errs) > 0 {
		return nil, errs
	}
	//
	operand, errs := p.parseShiftAmount(rm, m.Shift)
	if len(errs) > 0 {
		return nil, errs
	}
	//
	return &ast.DataProcessing{Cond: m.Cond, Opcode: isa.MOV, SetFlags: m.SetFlags, Rd: rd, Operand: operand}, nil
}

// Parse "RRX Rd, Rm", which is written as a move of an extended register.
func (p *Parser) parseRotateExtend(m Mnemonic) (ast.Statement, []diag.Diagnostic) {
	var (
		rd, rm isa.Register
		errs   []diag.Diagnostic
	)
	//
	if rd, errs = p.parseRegister(); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(COMMA, "\",\""); len(errs) > 0 {
		return nil, errs
	} else if rm, errs = p.parseRegister(); len(errs) > 0 {
		return nil, errs
	}
	//
	operand := &ast.RotateExtend{Rm: rm}
	//
	return &ast.DataProcessing{Cond: m.Cond, Opcode: isa.MOV, SetFlags: m.SetFlags, Rd: rd, Operand: operand}, nil
}

// NOP is "MOV R0, R0".
func (p *Parser) noOperation(m Mnemonic) ast.Statement {
	operand := &ast.ShiftedRegister{Rm: 0, Shift: isa.LSL}
	//
	return &ast.DataProcessing{Cond: m.Cond, Opcode: isa.MOV, Rd: 0, Operand: operand}
}

func (p *Parser) parseBranch(m Mnemonic) (ast.Statement, []diag.Diagnostic) {
	target, errs := p.parseExpr()
	if len(errs) > 0 {
		return nil, errs
	}
	//
	return &ast.Branch{Cond: m.Cond, Link: m.Link, Target: target}, nil
}

// Parse the operands of a single register transfer, which is either a real
// instruction or the "LDR Rd, =value" pseudo-instruction.
func (p *Parser) parseLoadStore(m Mnemonic) (ast.Statement, []diag.Diagnostic) {
	var (
		rd      isa.Register
		address ast.Address
		errs    []diag.Diagnostic
	)
	//
	if rd, errs = p.parseRegister(); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(COMMA, "\",\""); len(errs) > 0 {
		return nil, errs
	}
	// Check for literal load
	if p.lookahead().Kind == EQUALS {
		token := p.next()
		//
		if !m.Load || m.Byte {
			return nil, p.syntaxErrors(diag.MalformedOperand, token, "literal only permitted with LDR")
		}
		//
		value, errs := p.parseExpr()
		if len(errs) > 0 {
			return nil, errs
		}
		//
		return &ast.LoadConstant{Cond: m.Cond, Rd: rd, Value: value}, nil
	}
	//
	if address, errs = p.parseAddress(); len(errs) > 0 {
		return nil, errs
	}
	//
	return &ast.LoadStore{Cond: m.Cond, Load: m.Load, Byte: m.Byte, Rd: rd, Address: address}, nil
}

// Parse "LDM{cond}<mode> Rn{!}, {registers}{^}".
func (p *Parser) parseLoadStoreMultiple(m Mnemonic) (ast.Statement, []diag.Diagnostic) {
	var (
		inst = &ast.LoadStoreMultiple{Cond: m.Cond, Load: m.Load, Mode: m.Mode}
		errs []diag.Diagnostic
	)
	//
	if inst.Rn, errs = p.parseRegister(); len(errs) > 0 {
		return nil, errs
	}
	//
	inst.WriteBack = p.match(BANG)
	//
	if _, errs = p.expect(COMMA, "\",\""); len(errs) > 0 {
		return nil, errs
	} else if inst.Registers, errs = p.parseRegisterList(); len(errs) > 0 {
		return nil, errs
	}
	//
	inst.UserBank = p.match(CARET)
	//
	return inst, nil
}

// PUSH is "STMFD SP!, {registers}" and POP is "LDMFD SP!, {registers}".
func (p *Parser) parseStack(m Mnemonic) (ast.Statement, []diag.Diagnostic) {
	registers, errs := p.parseRegisterList()
	if len(errs) > 0 {
		return nil, errs
	}
	//
	mode, _ := isa.ParseBlockMode("FD", m.Load)
	//
	return &ast.LoadStoreMultiple{Cond: m.Cond, Load: m.Load, Mode: mode, Rn: isa.SP, WriteBack: true,
		Registers: registers}, nil
}

// Parse "SVC #n", where the '#' is optional.
func (p *Parser) parseSupervisorCall(m Mnemonic) (ast.Statement, []diag.Diagnostic) {
	p.match(HASH)
	//
	number, errs := p.parseExpr()
	if len(errs) > 0 {
		return nil, errs
	}
	//
	return &ast.SupervisorCall{Cond: m.Cond, Number: number}, nil
}

// Parse "ADR{L}{cond} Rd, target".
func (p *Parser) parseLoadAddress(m Mnemonic) (ast.Statement, []diag.Diagnostic) {
	var (
		rd     isa.Register
		target ast.Expr
		errs   []diag.Diagnostic
	)
	//
	if rd, errs = p.parseRegister(); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(COMMA, "\",\""); len(errs) > 0 {
		return nil, errs
	} else if target, errs = p.parseExpr(); len(errs) > 0 {
		return nil, errs
	}
	//
	return &ast.LoadAddress{Cond: m.Cond, Long: m.Long, Rd: rd, Target: target}, nil
}

// Parse a register list such as "{R0, R2-R4, LR}".  Registers may be given in
// any order.
func (p *Parser) parseRegisterList() (*bitset.BitSet, []diag.Diagnostic) {
	var (
		registers = bitset.New(isa.NUM_REGISTERS)
		from, to  isa.Register
		errs      []diag.Diagnostic
	)
	//
	if _, errs = p.expect(LCURLY, "\"{\""); len(errs) > 0 {
		return nil, errs
	}
	//
	for first := true; first || p.match(COMMA); first = false {
		start := p.lookahead()
		//
		if from, errs = p.parseRegister(); len(errs) > 0 {
			return nil, errs
		}
		//
		to = from
		//
		if p.match(MINUS) {
			if to, errs = p.parseRegister(); len(errs) > 0 {
				return nil, errs
			} else if to < from {
				return nil, p.syntaxErrors(diag.MalformedOperand, start, "register range is descending")
			}
		}
		//
		for r := from; r <= to; r++ {
			if registers.Test(uint(r)) {
				msg := fmt.Sprintf("register %s listed more than once", r)
				return nil, p.syntaxErrors(diag.MalformedOperand, start, msg)
			}
			//
			registers.Set(uint(r))
		}
	}
	//
	if _, errs = p.expect(RCURLY, "\"}\""); len(errs) > 0 {
		return nil, errs
	}
	//
	return registers, nil
}

func (p *Parser) parseRegister() (isa.Register, []diag.Diagnostic) {
	lookahead := p.lookahead()
	//
	if lookahead.Kind == IDENTIFIER {
		if r, ok := isa.ParseRegister(p.string(lookahead)); ok {
			p.next()
			return r, nil
		}
	}
	//
	return 0, p.operandErrors(diag.MalformedOperand, "expected register")
}

// Check whether a register followed by a comma is next.
func (p *Parser) followsRegisterThenComma() bool {
	if p.index+1 >= len(p.tokens) {
		return false
	}
	//
	first, second := p.tokens[p.index], p.tokens[p.index+1]
	//
	if first.Kind != IDENTIFIER || second.Kind != COMMA {
		return false
	}
	//
	_, ok := isa.ParseRegister(p.string(first))
	//
	return ok
}

// Check whether the token a given distance ahead names a shift (including
// RRX), as in the shorthand "ADD R0, R1, LSL #2".
func (p *Parser) followsShiftName(distance int) bool {
	if p.index+distance >= len(p.tokens) {
		return false
	}
	//
	token := p.tokens[p.index+distance]
	//
	if token.Kind != IDENTIFIER {
		return false
	}
	//
	name := p.string(token)
	_, ok := isa.ParseShift(name)
	//
	return ok || strings.EqualFold(name, "RRX")
}
