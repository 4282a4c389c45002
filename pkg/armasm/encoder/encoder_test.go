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
	"encoding/binary"
	"testing"

	"github.com/consensys/go-armasm/pkg/armasm/lir"
	"github.com/consensys/go-armasm/pkg/isa"
	"github.com/consensys/go-armasm/pkg/util/assert"
)

func TestEncode_Scenario(t *testing.T) {
	checkEncode(t, 0xE3A00005, &lir.DataProcessing{Cond: isa.AL, Opcode: isa.MOV, Rd: 0, Operand: immediate(5)})
	checkEncode(t, 0xE3500005, &lir.DataProcessing{Cond: isa.AL, Opcode: isa.CMP, SetFlags: true,
		Operand: immediate(5)})
	checkEncode(t, 0x0AFFFFFF, &lir.Branch{Cond: isa.EQ, Offset: -1})
	checkEncode(t, 0xEF000002, &lir.SupervisorCall{Cond: isa.AL, Number: 2})
}

func TestEncode_DataProcessing(t *testing.T) {
	var (
		r1 = isa.Register(1)
		r2 = isa.Register(2)
		r3 = isa.Register(3)
	)
	//
	checkEncode(t, 0xE0821103, &lir.DataProcessing{Cond: isa.AL, Opcode: isa.ADD, Rd: r1, Rn: r2,
		Operand: &lir.ShiftImmediate{Rm: r3, Shift: isa.LSL, Amount: 2}})
	checkEncode(t, 0xE0410312, &lir.DataProcessing{Cond: isa.AL, Opcode: isa.SUB, Rd: 0, Rn: r1,
		Operand: &lir.ShiftRegister{Rm: r2, Shift: isa.LSL, Rs: r3}})
	checkEncode(t, 0xE1B00061, &lir.DataProcessing{Cond: isa.AL, Opcode: isa.MOV, SetFlags: true,
		Operand: &lir.ShiftImmediate{Rm: r1, Shift: isa.ROR}})
	checkEncode(t, 0x13A004FF, &lir.DataProcessing{Cond: isa.NE, Opcode: isa.MOV, Operand: immediate(0xFF000000)})
}

func TestEncode_LoadStore(t *testing.T) {
	var (
		r1 = isa.Register(1)
		r2 = isa.Register(2)
	)
	//
	checkEncode(t, 0xE5910004, &lir.LoadStore{Cond: isa.AL, Load: true, Rn: r1, PreIndexed: true, Up: true,
		Offset: &lir.ImmediateOffset{Value: 4}})
	checkEncode(t, 0xE4010004, &lir.LoadStore{Cond: isa.AL, Rn: r1, Offset: &lir.ImmediateOffset{Value: 4}})
	checkEncode(t, 0xE7910102, &lir.LoadStore{Cond: isa.AL, Load: true, Rn: r1, PreIndexed: true, Up: true,
		Offset: &lir.RegisterOffset{Rm: r2, Shift: isa.LSL, Amount: 2}})
	checkEncode(t, 0xE51F0004, &lir.LoadStore{Cond: isa.AL, Load: true, Rn: isa.PC, PreIndexed: true,
		Offset: &lir.ImmediateOffset{Value: 4}})
}

func TestEncode_LoadStoreMultiple(t *testing.T) {
	checkEncode(t, 0xE8BD400F, &lir.LoadStoreMultiple{Cond: isa.AL, Load: true, Mode: isa.IA, Rn: isa.SP,
		WriteBack: true, Registers: 0x400F})
	checkEncode(t, 0xE92D4003, &lir.LoadStoreMultiple{Cond: isa.AL, Mode: isa.DB, Rn: isa.SP, WriteBack: true,
		Registers: 0x4003})
	checkEncode(t, 0xE9D08000, &lir.LoadStoreMultiple{Cond: isa.AL, Load: true, Mode: isa.IB, UserBank: true,
		Registers: 0x8000})
}

// Every instruction decodes to exactly the instruction it was encoded from.
func TestEncode_Decode(t *testing.T) {
	for _, insn := range instructions() {
		decoded, err := lir.Decode(EncodeInstruction(insn))
		//
		assert.True(t, err == nil, "decoding %s", insn)
		assert.Equal(t, insn, decoded)
	}
}

// Every rotated immediate survives encoding and decoding.
func TestEncode_Immediates(t *testing.T) {
	for field := uint32(0); field < 4096; field++ {
		var (
			imm    = isa.ImmediateFromField(field)
			insn   = &lir.DataProcessing{Cond: isa.AL, Opcode: isa.ORR, Operand: &lir.Immediate{RotatedImmediate: imm}}
			word   = EncodeInstruction(insn)
			result = decode(t, word).(*lir.DataProcessing).Operand.(*lir.Immediate)
		)
		//
		assert.Equal(t, field, word&0xFFF)
		assert.Equal(t, imm.Decode(), result.Decode())
	}
}

func TestEncode_Invalid(t *testing.T) {
	assert.Panics(t, func() { EncodeInstruction(&lir.SupervisorCall{Cond: isa.AL, Number: 1 << 24}) })
	assert.Panics(t, func() { EncodeInstruction(&lir.Branch{Cond: isa.AL, Offset: 1 << 23}) })
	assert.Panics(t, func() {
		EncodeInstruction(&lir.LoadStore{Cond: isa.AL, Offset: &lir.ImmediateOffset{Value: 4096}})
	})
	assert.Panics(t, func() {
		EncodeInstruction(&lir.DataProcessing{Cond: isa.AL, Opcode: isa.MOV,
			Operand: &lir.ShiftImmediate{Rm: 0, Shift: isa.LSL, Amount: 32}})
	})
	assert.Panics(t, func() {
		EncodeInstruction(&lir.DataProcessing{Cond: isa.AL, Opcode: isa.MOV,
			Operand: &lir.Immediate{RotatedImmediate: isa.RotatedImmediate{Value: 1, Rotate: 3}}})
	})
}

func TestImage_Layout(t *testing.T) {
	program := &lir.Program{
		Items: []lir.Item{
			&lir.Code{Addr: 0x100, Insn: &lir.SupervisorCall{Cond: isa.AL, Number: 2}},
			&lir.Data{Addr: 0x104, Width: 2, Values: []uint32{0x1234}},
			&lir.Data{Addr: 0x10C, Width: 1, Values: []uint32{0xAA, 0xBB}},
		},
		Entry: 0x100,
	}
	//
	image := Encode(program, binary.LittleEndian)
	//
	assert.Equal(t, uint32(0x100), image.Base)
	assert.Equal(t, uint32(0x100), image.Entry)
	assert.Equal(t, []byte{0x02, 0, 0, 0xEF, 0x34, 0x12, 0, 0, 0, 0, 0, 0, 0xAA, 0xBB}, image.Bytes)
	assert.Equal(t, []Word{{0x100, 0xEF000002}, {0x104, 0x1234}, {0x108, 0}, {0x10C, 0xBBAA}}, image.Words())
	assert.Equal(t, "00000100: ef000002\n00000104: 00001234\n00000108: 00000000\n0000010c: 0000bbaa\n",
		image.Hex())
	//
	image = Encode(program, binary.BigEndian)
	//
	assert.Equal(t, []byte{0xEF, 0, 0, 0x02, 0x12, 0x34, 0, 0, 0, 0, 0, 0, 0xAA, 0xBB}, image.Bytes)
	assert.Equal(t, uint32(0xEF000002), image.Words()[0].Value)
	assert.Equal(t, uint32(0xAABB0000), image.Words()[3].Value)
}

func TestImage_Empty(t *testing.T) {
	image := Encode(&lir.Program{Entry: 0x8000}, binary.LittleEndian)
	//
	assert.Equal(t, uint32(0x8000), image.Base)
	assert.Equal(t, 0, len(image.Bytes))
	assert.Equal(t, 0, len(image.Words()))
}

// ==================================================================
// Framework
// ==================================================================

func checkEncode(t *testing.T, expected uint32, insn lir.Instruction) {
	word := EncodeInstruction(insn)
	//
	assert.Equal(t, expected, word, "encoding %s gave 0x%08x", insn, word)
	assert.Equal(t, insn, decode(t, word))
}

func decode(t *testing.T, word uint32) lir.Instruction {
	insn, err := lir.Decode(word)
	//
	if err != nil {
		t.Fatalf("decoding 0x%08x: %s", word, err)
	}
	//
	return insn
}

func immediate(value uint32) *lir.Immediate {
	imm, ok := isa.EncodeImmediate(value)
	if !ok {
		panic("unencodable immediate")
	}
	//
	return &lir.Immediate{RotatedImmediate: imm}
}

// A sample of every instruction class across conditions and operand forms.
func instructions() []lir.Instruction {
	var insns []lir.Instruction
	//
	for cond := isa.EQ; cond <= isa.AL; cond++ {
		for opcode := isa.AND; opcode <= isa.MVN; opcode++ {
			insn := &lir.DataProcessing{Cond: cond, Opcode: opcode, SetFlags: cond%2 == 0, Rd: isa.Register(cond),
				Rn: isa.Register(opcode), Operand: immediate(uint32(opcode) << (2 * cond))}
			//
			if opcode.IsComparison() {
				insn.SetFlags = true
			}
			//
			insns = append(insns, insn)
		}
		//
		for shift := isa.LSL; shift <= isa.ROR; shift++ {
			insns = append(insns,
				&lir.DataProcessing{Cond: cond, Opcode: isa.EOR, Rd: 1, Rn: 2,
					Operand: &lir.ShiftImmediate{Rm: 3, Shift: shift, Amount: uint8(cond) * 2}},
				&lir.DataProcessing{Cond: cond, Opcode: isa.ADC, Rd: 4, Rn: 5,
					Operand: &lir.ShiftRegister{Rm: 6, Shift: shift, Rs: 7}},
				&lir.LoadStore{Cond: cond, Load: shift%2 == 0, Byte: cond%3 == 0, Rd: 8, Rn: 9, PreIndexed: true,
					Up: shift < isa.ASR, WriteBack: cond%2 == 1,
					Offset: &lir.RegisterOffset{Rm: 10, Shift: shift, Amount: uint8(cond)}},
				&lir.LoadStoreMultiple{Cond: cond, Load: shift%2 == 1, Mode: isa.BlockMode(shift), Rn: isa.SP,
					WriteBack: cond%2 == 0, UserBank: cond == isa.AL, Registers: uint16(0x1111) << shift})
		}
		//
		insns = append(insns,
			&lir.LoadStore{Cond: cond, Load: true, Rd: isa.PC, Rn: isa.PC, Up: true,
				Offset: &lir.ImmediateOffset{Value: 4095}},
			&lir.LoadStore{Cond: cond, Rd: 0, Rn: 1, PreIndexed: true, Offset: &lir.ImmediateOffset{Value: 0}},
			&lir.Branch{Cond: cond, Link: cond%2 == 0, Offset: int32(cond) - 7},
			&lir.Branch{Cond: cond, Offset: -(1 << 23)},
			&lir.Branch{Cond: cond, Link: true, Offset: 1<<23 - 1},
			&lir.SupervisorCall{Cond: cond, Number: uint32(cond) << 20})
	}
	//
	return insns
}
