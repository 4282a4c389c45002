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

import "github.com/consensys/go-armasm/pkg/isa"

// ShifterOperand is the second operand of a data processing instruction.
type ShifterOperand interface {
	isShifterOperand()
}

// Immediate is a constant shifter operand, written "#expr".
type Immediate struct {
	Value Expr
}

// ShiftedRegister is a register operand, optionally shifted by a constant
// amount.  When Amount is nil the register is used as is.
type ShiftedRegister struct {
	Rm     isa.Register
	Shift  isa.Shift
	Amount Expr
}

// RegisterShiftedRegister is a register operand shifted by the amount held in
// another register.
type RegisterShiftedRegister struct {
	Rm    isa.Register
	Shift isa.Shift
	Rs    isa.Register
}

// RotateExtend is a register operand rotated right by one bit through the
// carry flag (RRX).
type RotateExtend struct {
	Rm isa.Register
}

func (p *Immediate) isShifterOperand()               {}
func (p *ShiftedRegister) isShifterOperand()         {}
func (p *RegisterShiftedRegister) isShifterOperand() {}
func (p *RotateExtend) isShifterOperand()            {}

// Address is the address operand of a single register transfer.
type Address interface {
	isAddress()
}

// IndexMode determines when (and whether) a load/store offset is applied to
// the base register.
type IndexMode uint8

// OFFSET adds the offset to form the address, leaving the base unchanged.
const OFFSET IndexMode = 0

// PRE_INDEXED adds the offset to form the address and writes it back, as in
// "[Rn, #4]!".
const PRE_INDEXED IndexMode = 1

// POST_INDEXED uses the base as the address and then adds the offset to it, as
// in "[Rn], #4".
const POST_INDEXED IndexMode = 2

// Indexed is a base register plus an offset.
type Indexed struct {
	Rn     isa.Register
	Mode   IndexMode
	Offset Offset
}

// PCRelative is an address given by an expression (typically a label), which
// is reached via an offset from the program counter.
type PCRelative struct {
	Target Expr
}

func (p *Indexed) isAddress()    {}
func (p *PCRelative) isAddress() {}

// Offset is the offset applied to the base register of an indexed address.
type Offset interface {
	isOffset()
}

// ImmediateOffset is a signed constant offset, written "#expr".
type ImmediateOffset struct {
	Value Expr
}

// RegisterOffset is an offset held in a register, which is optionally shifted
// by a constant amount and may be subtracted rather than added.
type RegisterOffset struct {
	Subtract bool
	Rm       isa.Register
	Shift    isa.Shift
	// Amount of the shift, or nil when unshifted.
	Amount Expr
}

func (p *ImmediateOffset) isOffset() {}
func (p *RegisterOffset) isOffset()  {}
