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
	"strings"

	"github.com/consensys/go-armasm/pkg/armasm/ast"
	"github.com/consensys/go-armasm/pkg/armasm/diag"
	"github.com/consensys/go-armasm/pkg/isa"
)

// Parse a shifter operand, which is one of:
//
//	#expr
//	Rm
//	Rm, <shift> #expr
//	Rm, <shift> Rs
//	Rm, RRX
func (p *Parser) parseShifterOperand() (ast.ShifterOperand, []diag.Diagnostic) {
	var (
		start = p.index
		rm    isa.Register
		errs  []diag.Diagnostic
	)
	//
	if p.match(HASH) {
		value, errs := p.parseExpr()
		if len(errs) > 0 {
			return nil, errs
		}
		//
		operand := &ast.Immediate{Value: value}
		p.srcmap.Put(operand, p.spanOf(start, p.index-1))
		//
		return operand, nil
	} else if rm, errs = p.parseRegister(); len(errs) > 0 {
		return nil, errs
	} else if !p.match(COMMA) {
		return &ast.ShiftedRegister{Rm: rm, Shift: isa.LSL}, nil
	}
	//
	lookahead := p.lookahead()
	//
	if lookahead.Kind == IDENTIFIER && strings.EqualFold(p.string(lookahead), "RRX") {
		p.next()
		return &ast.RotateExtend{Rm: rm}, nil
	}
	//
	shift, errs := p.parseShiftName()
	if len(errs) > 0 {
		return nil, errs
	}
	//
	return p.parseShiftAmount(rm, shift)
}

// Parse the amount by which a register is shifted, which is either "#expr" or
// a register.
func (p *Parser) parseShiftAmount(rm isa.Register, shift isa.Shift) (ast.ShifterOperand, []diag.Diagnostic) {
	if p.match(HASH) {
		amount, errs := p.parseExpr()
		if len(errs) > 0 {
			return nil, errs
		}
		//
		return &ast.ShiftedRegister{Rm: rm, Shift: shift, Amount: amount}, nil
	}
	//
	rs, errs := p.parseRegister()
	if len(errs) > 0 {
		return nil, p.operandErrors(diag.MalformedOperand, "expected shift amount")
	}
	//
	return &ast.RegisterShiftedRegister{Rm: rm, Shift: shift, Rs: rs}, nil
}

func (p *Parser) parseShiftName() (isa.Shift, []diag.Diagnostic) {
	lookahead := p.lookahead()
	//
	if lookahead.Kind == IDENTIFIER {
		if shift, ok := isa.ParseShift(p.string(lookahead)); ok {
			p.next()
			return shift, nil
		}
	}
	//
	return 0, p.operandErrors(diag.MalformedOperand, "expected shift")
}

// Parse the address operand of a single register transfer, which is one of:
//
//	[Rn]
//	[Rn, <offset>]{!}
//	[Rn], <offset>
//	expr
//
// where the offset is "#expr" or "{+|-}Rm{, <shift> #expr}".
func (p *Parser) parseAddress() (ast.Address, []diag.Diagnostic) {
	var (
		start   = p.index
		address ast.Address
		rn      isa.Register
		offset  ast.Offset
		errs    []diag.Diagnostic
	)
	//
	if !p.match(LSQUARE) {
		target, errs := p.parseExpr()
		if len(errs) > 0 {
			return nil, errs
		}
		//
		address = &ast.PCRelative{Target: target}
	} else if rn, errs = p.parseRegister(); len(errs) > 0 {
		return nil, errs
	} else if p.match(RSQUARE) {
		// Either post-indexed or no offset at all
		if !p.match(COMMA) {
			address = &ast.Indexed{Rn: rn, Mode: ast.OFFSET, Offset: &ast.ImmediateOffset{Value: &ast.Number{}}}
		} else if offset, errs = p.parseOffset(); len(errs) > 0 {
			return nil, errs
		} else {
			address = &ast.Indexed{Rn: rn, Mode: ast.POST_INDEXED, Offset: offset}
		}
	} else if _, errs = p.expect(COMMA, "\",\" or \"]\""); len(errs) > 0 {
		return nil, errs
	} else if offset, errs = p.parseOffset(); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(RSQUARE, "\"]\""); len(errs) > 0 {
		return nil, errs
	} else if p.match(BANG) {
		address = &ast.Indexed{Rn: rn, Mode: ast.PRE_INDEXED, Offset: offset}
	} else {
		address = &ast.Indexed{Rn: rn, Mode: ast.OFFSET, Offset: offset}
	}
	//
	p.srcmap.Put(address, p.spanOf(start, p.index-1))
	//
	return address, nil
}

func (p *Parser) parseOffset() (ast.Offset, []diag.Diagnostic) {
	var (
		start  = p.index
		offset = &ast.RegisterOffset{Shift: isa.LSL}
		errs   []diag.Diagnostic
	)
	//
	if p.match(HASH) {
		value, errs := p.parseExpr()
		if len(errs) > 0 {
			return nil, errs
		}
		//
		imm := &ast.ImmediateOffset{Value: value}
		p.srcmap.Put(imm, p.spanOf(start, p.index-1))
		//
		return imm, nil
	}
	//
	if !p.match(PLUS) {
		offset.Subtract = p.match(MINUS)
	}
	//
	if offset.Rm, errs = p.parseRegister(); len(errs) > 0 {
		return nil, errs
	} else if p.match(COMMA) {
		if offset.Shift, errs = p.parseShiftName(); len(errs) > 0 {
			return nil, errs
		} else if _, errs = p.expect(HASH, "\"#\""); len(errs) > 0 {
			return nil, errs
		} else if offset.Amount, errs = p.parseExpr(); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	p.srcmap.Put(offset, p.spanOf(start, p.index-1))
	//
	return offset, nil
}
