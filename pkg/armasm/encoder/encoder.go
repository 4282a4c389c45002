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
package encoder

import (
	"fmt"

	"github.com/consensys/go-armasm/pkg/armasm/lir"
)

// EncodeInstruction packs a resolved instruction into its 32-bit word.  Every
// field is expected to fit its slot, and this panics otherwise.
func EncodeInstruction(insn lir.Instruction) uint32 {
	var word uint32
	//
	switch insn := insn.(type) {
	case *lir.DataProcessing:
		word = encodeDataProcessing(insn)
	case *lir.Branch:
		word = encodeBranch(insn)
	case *lir.LoadStore:
		word = encodeLoadStore(insn)
	case *lir.LoadStoreMultiple:
		word = encodeLoadStoreMultiple(insn)
	case *lir.SupervisorCall:
		word = 0b1111<<24 | field(insn.Number, 24, "comment")
	default:
		panic(fmt.Sprintf("unknown instruction %T", insn))
	}
	//
	return field(uint32(insn.Condition()), 4, "condition")<<28 | word
}

// cond 00 I opcode S Rn Rd operand
func encodeDataProcessing(insn *lir.DataProcessing) uint32 {
	word := field(uint32(insn.Opcode), 4, "opcode")<<21 |
		flag(insn.SetFlags)<<20 |
		register(uint32(insn.Rn))<<16 |
		register(uint32(insn.Rd))<<12
	//
	switch operand := insn.Operand.(type) {
	case *lir.Immediate:
		if operand.Rotate%2 != 0 {
			panic(fmt.Sprintf("odd rotation %d", operand.Rotate))
		}
		//
		return word | 1<<25 | field(operand.Field(), 12, "immediate")
	case *lir.ShiftImmediate:
		return word | shiftedRegister(uint32(operand.Rm), uint32(operand.Shift), uint32(operand.Amount))
	case *lir.ShiftRegister:
		return word | register(uint32(operand.Rs))<<8 | field(uint32(operand.Shift), 2, "shift")<<5 | 1<<4 |
			register(uint32(operand.Rm))
	default:
		panic(fmt.Sprintf("unknown operand %T", operand))
	}
}

// cond 101 L offset
func encodeBranch(insn *lir.Branch) uint32 {
	if insn.Offset < -(1<<23) || insn.Offset >= 1<<23 {
		panic(fmt.Sprintf("branch offset %d out of range", insn.Offset))
	}
	//
	return 0b101<<25 | flag(insn.Link)<<24 | uint32(insn.Offset)&0xFFFFFF
}

// cond 01 I P U B W L Rn Rd offset
func encodeLoadStore(insn *lir.LoadStore) uint32 {
	word := 0b01<<26 |
		flag(insn.PreIndexed)<<24 |
		flag(insn.Up)<<23 |
		flag(insn.Byte)<<22 |
		flag(insn.WriteBack)<<21 |
		flag(insn.Load)<<20 |
		register(uint32(insn.Rn))<<16 |
		register(uint32(insn.Rd))<<12
	//
	switch offset := insn.Offset.(type) {
	case *lir.ImmediateOffset:
		return word | field(uint32(offset.Value), 12, "offset")
	case *lir.RegisterOffset:
		return word | 1<<25 | shiftedRegister(uint32(offset.Rm), uint32(offset.Shift), uint32(offset.Amount))
	default:
		panic(fmt.Sprintf("unknown offset %T", offset))
	}
}

// cond 100 P U S W L Rn registers
func encodeLoadStoreMultiple(insn *lir.LoadStoreMultiple) uint32 {
	return 0b100<<25 |
		field(uint32(insn.Mode), 2, "block mode")<<23 |
		flag(insn.UserBank)<<22 |
		flag(insn.WriteBack)<<21 |
		flag(insn.Load)<<20 |
		register(uint32(insn.Rn))<<16 |
		uint32(insn.Registers)
}

// shift_imm type 0 Rm
func shiftedRegister(rm uint32, shift uint32, amount uint32) uint32 {
	return field(amount, 5, "shift amount")<<7 | field(shift, 2, "shift")<<5 | register(rm)
}

func register(r uint32) uint32 {
	return field(r, 4, "register")
}

// Check a value fits within a field of the given width.
func field(value uint32, width uint, name string) uint32 {
	if value>>width != 0 {
		panic(fmt.Sprintf("%s 0x%x does not fit in %d bits", name, value, width))
	}
	//
	return value
}

func flag(b bool) uint32 {
	if b {
		return 1
	}
	//
	return 0
}
