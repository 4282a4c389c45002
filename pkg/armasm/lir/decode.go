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
	"fmt"

	"github.com/consensys/go-armasm/pkg/isa"
)

// UnsupportedError reports a word which does not encode any instruction of the
// supported subset.
type UnsupportedError struct {
	Word   uint32
	Reason string
}

func (p *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported instruction 0x%08x (%s)", p.Word, p.Reason)
}

// Decode a 32-bit instruction word.  This is the inverse of encoding, hence
// every instruction produced by the assembler decodes to exactly the
// instruction it was encoded from.
func Decode(word uint32) (Instruction, error) {
	cond := isa.Condition(word >> 28)
	// The NV condition space holds unconditional extensions
	if word>>28 == 0xF {
		return nil, &UnsupportedError{word, "unconditional"}
	}
	//
	switch (word >> 25) & 0x7 {
	case 0b000, 0b001:
		return decodeDataProcessing(word, cond)
	case 0b010, 0b011:
		return decodeLoadStore(word, cond)
	case 0b100:
		return decodeLoadStoreMultiple(word, cond), nil
	case 0b101:
		// Sign extend the 24-bit offset
		offset := int32(word<<8) >> 8
		//
		return &Branch{Cond: cond, Link: bit(word, 24), Offset: offset}, nil
	case 0b111:
		if bit(word, 24) {
			return &SupervisorCall{Cond: cond, Number: word & 0xFFFFFF}, nil
		}
	}
	//
	return nil, &UnsupportedError{word, "coprocessor"}
}

func decodeDataProcessing(word uint32, cond isa.Condition) (Instruction, error) {
	var (
		opcode  = isa.Opcode((word >> 21) & 0xF)
		setFlag = bit(word, 20)
		operand Operand
	)
	//
	switch {
	case bit(word, 25):
		operand = &Immediate{isa.ImmediateFromField(word & 0xFFF)}
	case !bit(word, 4):
		operand = &ShiftImmediate{register(word, 0), isa.Shift((word >> 5) & 3), uint8((word >> 7) & 0x1F)}
	case !bit(word, 7):
		operand = &ShiftRegister{register(word, 0), isa.Shift((word >> 5) & 3), register(word, 8)}
	default:
		return nil, &UnsupportedError{word, "multiply or extra load/store"}
	}
	//
	if opcode.IsComparison() && !setFlag {
		return nil, &UnsupportedError{word, "status register transfer"}
	}
	//
	return &DataProcessing{
		Cond:     cond,
		Opcode:   opcode,
		SetFlags: setFlag,
		Rd:       register(word, 12),
		Rn:       register(word, 16),
		Operand:  operand,
	}, nil
}

func decodeLoadStore(word uint32, cond isa.Condition) (Instruction, error) {
	var offset Offset
	//
	if !bit(word, 25) {
		offset = &ImmediateOffset{uint16(word & 0xFFF)}
	} else if !bit(word, 4) {
		offset = &RegisterOffset{register(word, 0), isa.Shift((word >> 5) & 3), uint8((word >> 7) & 0x1F)}
	} else {
		return nil, &UnsupportedError{word, "media instruction"}
	}
	//
	if !bit(word, 24) && bit(word, 21) {
		return nil, &UnsupportedError{word, "user mode transfer"}
	}
	//
	return &LoadStore{
		Cond:       cond,
		Load:       bit(word, 20),
		Byte:       bit(word, 22),
		Rd:         register(word, 12),
		Rn:         register(word, 16),
		PreIndexed: bit(word, 24),
		Up:         bit(word, 23),
		WriteBack:  bit(word, 21),
		Offset:     offset,
	}, nil
}

func decodeLoadStoreMultiple(word uint32, cond isa.Condition) Instruction {
	return &LoadStoreMultiple{
		Cond:      cond,
		Load:      bit(word, 20),
		Mode:      isa.BlockMode((word >> 23) & 3),
		Rn:        register(word, 16),
		WriteBack: bit(word, 21),
		UserBank:  bit(word, 22),
		Registers: uint16(word),
	}
}

func bit(word uint32, n uint) bool {
	return (word>>n)&1 != 0
}

func register(word uint32, lsb uint) isa.Register {
	return isa.Register((word >> lsb) & 0xF)
}
