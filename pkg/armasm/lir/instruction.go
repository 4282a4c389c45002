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
package lir

import (
	"github.com/consensys/go-armasm/pkg/isa"
)

// Instruction is a fully resolved machine instruction, where every field holds
// exactly the value which is encoded.
type Instruction interface {
	// Condition under which this instruction executes.
	Condition() isa.Condition
	// String renders this instruction as assembly language.
	String() string
	isInstruction()
}

// DataProcessing is one of the sixteen ALU instructions.  Rd is zero for
// comparisons, and Rn is zero for moves.
type DataProcessing struct {
	Cond     isa.Condition
	Opcode   isa.Opcode
	SetFlags bool
	Rd       isa.Register
	Rn       isa.Register
	Operand  Operand
}

// Branch is B or BL, whose signed 24-bit offset counts words from the address
// of the branch plus eight.
type Branch struct {
	Cond   isa.Condition
	Link   bool
	Offset int32
}

// LoadStore is a single register transfer.
type LoadStore struct {
	Cond isa.Condition
	Load bool
	Byte bool
	Rd   isa.Register
	Rn   isa.Register
	// PreIndexed applies the offset before the transfer (P).
	PreIndexed bool
	// Up adds the offset rather than subtracting it (U).
	Up bool
	// WriteBack updates the base register (W).
	WriteBack bool
	Offset    Offset
}

// LoadStoreMultiple is a block transfer.
type LoadStoreMultiple struct {
	Cond      isa.Condition
	Load      bool
	Mode      isa.BlockMode
	Rn        isa.Register
	WriteBack bool
	UserBank  bool
	// Registers is a mask where bit i selects register i.
	Registers uint16
}

// SupervisorCall is SVC with a 24-bit comment field.
type SupervisorCall struct {
	Cond   isa.Condition
	Number uint32
}

// Condition implementation for Instruction interface.
func (p *DataProcessing) Condition() isa.Condition { return p.Cond }

// Condition implementation for Instruction interface.
func (p *Branch) Condition() isa.Condition { return p.Cond }

// Condition implementation for Instruction interface.
func (p *LoadStore) Condition() isa.Condition { return p.Cond }

// Condition implementation for Instruction interface.
func (p *LoadStoreMultiple) Condition() isa.Condition { return p.Cond }

// Condition implementation for Instruction interface.
func (p *SupervisorCall) Condition() isa.Condition { return p.Cond }

func (p *DataProcessing) isInstruction()    {}
func (p *Branch) isInstruction()            {}
func (p *LoadStore) isInstruction()         {}
func (p *LoadStoreMultiple) isInstruction() {}
func (p *SupervisorCall) isInstruction()    {}

// Target returns the address a branch at a given address jumps to.
func (p *Branch) Target(address uint32) uint32 {
	return address + 8 + uint32(p.Offset)*4
}

// ============================================================================
// Operands
// ============================================================================

// Operand is the second operand of a data processing instruction.
type Operand interface {
	String() string
	isOperand()
}

// Immediate is a rotated 8-bit constant.
type Immediate struct {
	isa.RotatedImmediate
}

// ShiftImmediate is a register shifted by a constant.  The amount is the 5-bit
// field as encoded, where zero means a shift by 32 for LSR and ASR, and RRX
// for ROR.
type ShiftImmediate struct {
	Rm     isa.Register
	Shift  isa.Shift
	Amount uint8
}

// ShiftRegister is a register shifted by the bottom byte of another register.
type ShiftRegister struct {
	Rm    isa.Register
	Shift isa.Shift
	Rs    isa.Register
}

func (p *Immediate) isOperand()      {}
func (p *ShiftImmediate) isOperand() {}
func (p *ShiftRegister) isOperand()  {}

// Offset is the offset of a single register transfer.
type Offset interface {
	String() string
	isOffset()
}

// ImmediateOffset is a 12-bit unsigned offset, whose direction is given by the
// Up flag of the transfer.
type ImmediateOffset struct {
	Value uint16
}

// RegisterOffset is a register shifted by a constant, as for ShiftImmediate.
type RegisterOffset struct {
	Rm     isa.Register
	Shift  isa.Shift
	Amount uint8
}

func (p *ImmediateOffset) isOffset() {}
func (p *RegisterOffset) isOffset()  {}
