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
	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-armasm/pkg/isa"
)

// DataProcessing covers the sixteen arithmetic, logical, move and comparison
// instructions.  For comparisons Rd is unused, and for moves Rn is unused.
type DataProcessing struct {
	Cond     isa.Condition
	Opcode   isa.Opcode
	SetFlags bool
	Rd       isa.Register
	Rn       isa.Register
	Operand  ShifterOperand
}

// Branch is a B or BL instruction to a target address.
type Branch struct {
	Cond   isa.Condition
	Link   bool
	Target Expr
}

// LoadStore is a single register transfer (LDR, STR, LDRB, STRB).
type LoadStore struct {
	Cond    isa.Condition
	Load    bool
	Byte    bool
	Rd      isa.Register
	Address Address
}

// LoadStoreMultiple is a block transfer (LDM, STM, PUSH, POP).
type LoadStoreMultiple struct {
	Cond      isa.Condition
	Load      bool
	Mode      isa.BlockMode
	Rn        isa.Register
	WriteBack bool
	// UserBank corresponds to a trailing '^'.
	UserBank  bool
	Registers *bitset.BitSet
}

// SupervisorCall is an SVC (or SWI) instruction.
type SupervisorCall struct {
	Cond   isa.Condition
	Number Expr
}

// LoadConstant is the "LDR Rd, =value" pseudo-instruction.
type LoadConstant struct {
	Cond  isa.Condition
	Rd    isa.Register
	Value Expr
}

// LoadAddress is the "ADR Rd, target" pseudo-instruction, or "ADRL" when Long
// is set.
type LoadAddress struct {
	Cond   isa.Condition
	Long   bool
	Rd     isa.Register
	Target Expr
}

// RegisterMask returns the 16-bit mask of a set of registers, where bit i is
// set when register i is included.
func RegisterMask(registers *bitset.BitSet) uint16 {
	var mask uint16
	//
	for i, ok := registers.NextSet(0); ok && i < isa.NUM_REGISTERS; i, ok = registers.NextSet(i + 1) {
		mask |= 1 << i
	}
	//
	return mask
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

// Condition implementation for Instruction interface.
func (p *LoadConstant) Condition() isa.Condition { return p.Cond }

// Condition implementation for Instruction interface.
func (p *LoadAddress) Condition() isa.Condition { return p.Cond }

func (p *DataProcessing) isStatement()    {}
func (p *Branch) isStatement()            {}
func (p *LoadStore) isStatement()         {}
func (p *LoadStoreMultiple) isStatement() {}
func (p *SupervisorCall) isStatement()    {}
func (p *LoadConstant) isStatement()      {}
func (p *LoadAddress) isStatement()       {}

func (p *DataProcessing) isInstruction()    {}
func (p *Branch) isInstruction()            {}
func (p *LoadStore) isInstruction()         {}
func (p *LoadStoreMultiple) isInstruction() {}
func (p *SupervisorCall) isInstruction()    {}
func (p *LoadConstant) isInstruction()      {}
func (p *LoadAddress) isInstruction()       {}
