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
	"math"

	"github.com/consensys/go-armasm/pkg/armasm/ast"
	"github.com/consensys/go-armasm/pkg/armasm/diag"
	"github.com/consensys/go-armasm/pkg/armasm/hir"
	"github.com/consensys/go-armasm/pkg/armasm/lir"
	"github.com/consensys/go-armasm/pkg/isa"
)

// MAX_OFFSET is the largest magnitude of an immediate load/store offset.
const MAX_OFFSET = 4095

// MIN_BRANCH and MAX_BRANCH bound the (word) offset of a branch.
const (
	MIN_BRANCH = -(1 << 23)
	MAX_BRANCH = 1<<23 - 1
)

// MAX_SVC bounds the comment field of a supervisor call.
const MAX_SVC = 1<<24 - 1

func (p *Resolver) resolveInstruction(insn ast.Instruction, address uint32) (lir.Instruction, bool) {
	switch insn := insn.(type) {
	case *ast.DataProcessing:
		return p.resolveDataProcessing(insn)
	case *ast.Branch:
		return p.resolveBranch(insn, address)
	case *ast.LoadStore:
		return p.resolveLoadStore(insn, address)
	case *ast.LoadStoreMultiple:
		return &lir.LoadStoreMultiple{
			Cond:      insn.Cond,
			Load:      insn.Load,
			Mode:      insn.Mode,
			Rn:        insn.Rn,
			WriteBack: insn.WriteBack,
			UserBank:  insn.UserBank,
			Registers: ast.RegisterMask(insn.Registers),
		}, true
	case *ast.SupervisorCall:
		return p.resolveSupervisorCall(insn)
	default:
		// Pseudo instructions are expanded during layout
		panic(fmt.Sprintf("unexpected instruction %T", insn))
	}
}

// Comparisons have no destination and always set the flags, whilst moves
// have no first operand.
func (p *Resolver) resolveDataProcessing(insn *ast.DataProcessing) (lir.Instruction, bool) {
	operand, ok := p.resolveOperand(insn.Operand, insn)
	if !ok {
		return nil, false
	}
	//
	result := &lir.DataProcessing{
		Cond:     insn.Cond,
		Opcode:   insn.Opcode,
		SetFlags: insn.SetFlags,
		Rd:       insn.Rd,
		Rn:       insn.Rn,
		Operand:  operand,
	}
	//
	if insn.Opcode.IsComparison() {
		result.Rd, result.SetFlags = 0, true
	} else if insn.Opcode.IsMove() {
		result.Rn = 0
	}
	//
	return result, true
}

func (p *Resolver) resolveOperand(operand ast.ShifterOperand, insn ast.Instruction) (lir.Operand, bool) {
	switch operand := operand.(type) {
	case *ast.Immediate:
		value, ok := p.evaluate(operand.Value, operand, insn)
		if !ok {
			return nil, false
		}
		//
		if value >= math.MinInt32 && value <= math.MaxUint32 {
			if imm, ok := isa.EncodeImmediate(uint32(value)); ok {
				return &lir.Immediate{RotatedImmediate: imm}, true
			}
		}
		//
		msg := fmt.Sprintf("#%d is not an 8-bit value rotated by an even amount", value)
		p.error(diag.UnencodableImmediate, msg, operand.Value, operand, insn)
		//
		return nil, false
	case *ast.ShiftedRegister:
		if operand.Amount == nil {
			return &lir.ShiftImmediate{Rm: operand.Rm, Shift: isa.LSL}, true
		}
		//
		shift, amount, ok := p.resolveShift(operand.Shift, operand.Amount, insn)
		//
		return &lir.ShiftImmediate{Rm: operand.Rm, Shift: shift, Amount: amount}, ok
	case *ast.RegisterShiftedRegister:
		return &lir.ShiftRegister{Rm: operand.Rm, Shift: operand.Shift, Rs: operand.Rs}, true
	case *ast.RotateExtend:
		return &lir.ShiftImmediate{Rm: operand.Rm, Shift: isa.ROR}, true
	default:
		panic(fmt.Sprintf("unknown operand %T", operand))
	}
}

// Determine the encoded form of a shift by a constant amount.
func (p *Resolver) resolveShift(shift isa.Shift, expr ast.Expr, insn ast.Instruction) (isa.Shift, uint8, bool) {
	value, ok := p.evaluate(expr, insn)
	if !ok {
		return shift, 0, false
	}
	//
	if shift, amount, ok := isa.ShiftAmount(shift, value); ok {
		return shift, amount, true
	}
	//
	p.error(diag.ImmediateOutOfRange, fmt.Sprintf("cannot %s by %d", shift, value), expr, insn)
	//
	return shift, 0, false
}

func (p *Resolver) resolveBranch(insn *ast.Branch, address uint32) (lir.Instruction, bool) {
	target, ok := p.evaluate(insn.Target, insn)
	if !ok {
		return nil, false
	}
	//
	delta := target - (int64(address) + 8)
	//
	switch {
	case delta%4 != 0:
		p.error(diag.BranchOutOfRange, fmt.Sprintf("branch target 0x%x is not word aligned", target), insn.Target,
			insn)
	case delta/4 < MIN_BRANCH || delta/4 > MAX_BRANCH:
		p.error(diag.BranchOutOfRange, fmt.Sprintf("branch target 0x%x is out of range", target), insn.Target, insn)
	default:
		return &lir.Branch{Cond: insn.Cond, Link: insn.Link, Offset: int32(delta / 4)}, true
	}
	//
	return nil, false
}

func (p *Resolver) resolveLoadStore(insn *ast.LoadStore, address uint32) (lir.Instruction, bool) {
	result := &lir.LoadStore{
		Cond:       insn.Cond,
		Load:       insn.Load,
		Byte:       insn.Byte,
		Rd:         insn.Rd,
		PreIndexed: true,
		Up:         true,
	}
	//
	switch addr := insn.Address.(type) {
	case *ast.PCRelative:
		target, ok := p.evaluate(addr.Target, addr, insn)
		if !ok {
			return nil, false
		}
		//
		result.Rn = isa.PC
		//
		return result, p.resolvePCOffset(result, target-(int64(address)+8), addr.Target, addr, insn)
	case *ast.Indexed:
		result.Rn = addr.Rn
		result.PreIndexed = addr.Mode != ast.POST_INDEXED
		result.WriteBack = addr.Mode == ast.PRE_INDEXED
		//
		return result, p.resolveOffset(result, addr.Offset, insn)
	default:
		panic(fmt.Sprintf("unknown address %T", addr))
	}
}

// Literal loads are PC relative loads of their pool slot.
func (p *Resolver) resolveLiteralLoad(node *hir.LiteralLoad) (lir.Instruction, bool) {
	slot, ok := p.symbols.Lookup(node.Slot)
	if !ok {
		panic(fmt.Sprintf("unknown literal pool slot %s", node.Slot))
	}
	//
	result := &lir.LoadStore{Cond: node.Cond, Load: true, Rd: node.Rd, Rn: isa.PC, PreIndexed: true, Up: true}
	//
	return result, p.resolvePCOffset(result, slot-(int64(node.Addr)+8), node)
}

func (p *Resolver) resolvePCOffset(insn *lir.LoadStore, offset int64, nodes ...any) bool {
	if offset < 0 {
		insn.Up, offset = false, -offset
	}
	//
	if offset > MAX_OFFSET {
		p.error(diag.OffsetOutOfRange, fmt.Sprintf("offset %d from PC is out of range", offset), nodes...)
		return false
	}
	//
	insn.Offset = &lir.ImmediateOffset{Value: uint16(offset)}
	//
	return true
}

func (p *Resolver) resolveOffset(insn *lir.LoadStore, offset ast.Offset, parent ast.Instruction) bool {
	switch offset := offset.(type) {
	case *ast.ImmediateOffset:
		value, ok := p.evaluate(offset.Value, offset, parent)
		if !ok {
			return false
		}
		//
		if value < 0 {
			insn.Up, value = false, -value
		}
		//
		if value > MAX_OFFSET {
			p.error(diag.OffsetOutOfRange, fmt.Sprintf("offset %d is out of range", value), offset.Value, offset,
				parent)
			//
			return false
		}
		//
		insn.Offset = &lir.ImmediateOffset{Value: uint16(value)}
	case *ast.RegisterOffset:
		var (
			shift  = offset.Shift
			amount uint8
			ok     = true
		)
		//
		if offset.Amount != nil {
			shift, amount, ok = p.resolveShift(offset.Shift, offset.Amount, parent)
		}
		//
		insn.Up = !offset.Subtract
		insn.Offset = &lir.RegisterOffset{Rm: offset.Rm, Shift: shift, Amount: amount}
		//
		return ok
	default:
		panic(fmt.Sprintf("unknown offset %T", offset))
	}
	//
	return true
}

func (p *Resolver) resolveSupervisorCall(insn *ast.SupervisorCall) (lir.Instruction, bool) {
	number, ok := p.evaluate(insn.Number, insn)
	if !ok {
		return nil, false
	}
	//
	if number < 0 || number > MAX_SVC {
		p.error(diag.ImmediateOutOfRange, fmt.Sprintf("supervisor call %d does not fit in 24 bits", number),
			insn.Number, insn)
		//
		return nil, false
	}
	//
	return &lir.SupervisorCall{Cond: insn.Cond, Number: uint32(number)}, true
}
