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
	"testing"

	"github.com/consensys/go-armasm/pkg/armasm/ast"
	"github.com/consensys/go-armasm/pkg/armasm/diag"
	"github.com/consensys/go-armasm/pkg/armasm/hir"
	"github.com/consensys/go-armasm/pkg/armasm/parser"
	"github.com/consensys/go-armasm/pkg/armasm/symbol"
	"github.com/consensys/go-armasm/pkg/isa"
	"github.com/consensys/go-armasm/pkg/util/assert"
	"github.com/consensys/go-armasm/pkg/util/source"
)

func TestBuild_Scenario(t *testing.T) {
	program, symbols := checkBuild(t, "start MOV R0, #5\n CMP R0, #5\n BEQ done\ndone SVC #2\n")
	//
	assert.Equal(t, 4, len(program.Nodes))
	assert.Equal(t, uint32(0), program.Entry)
	assert.Equal(t, []hir.Region{{Start: 0, End: 16}}, program.Regions)
	checkSymbol(t, symbols, "start", 0)
	checkSymbol(t, symbols, "done", 12)
	//
	for i, node := range program.Nodes {
		assert.Equal(t, uint32(4*i), node.Address())
	}
}

func TestBuild_Origin(t *testing.T) {
	program, symbols := checkBuildAt(t, 0x8000, "first MOV R0, R0\n ORIGIN 0x100\nsecond MOV R0, R0\n")
	//
	checkSymbol(t, symbols, "first", 0x8000)
	checkSymbol(t, symbols, "second", 0x100)
	assert.Equal(t, []hir.Region{{Start: 0x100, End: 0x104}, {Start: 0x8000, End: 0x8004}}, program.Regions)
	assert.Equal(t, uint32(0x100), program.Nodes[0].Address())
	// Entry defaults to the lowest instruction
	assert.Equal(t, uint32(0x100), program.Entry)
}

// A label on a line of its own binds to the next address consuming node,
// which is after any alignment padding.
func TestBuild_LabelQueue(t *testing.T) {
	_, symbols := checkBuild(t, " DEFB 1\nlab\n ALIGN\n MOV R0, R0\nbig ALIGN 16\n DEFW 0\nend\n")
	//
	checkSymbol(t, symbols, "lab", 4)
	checkSymbol(t, symbols, "big", 16)
	checkSymbol(t, symbols, "end", 20)
}

func TestBuild_Align(t *testing.T) {
	program, _ := checkBuild(t, " DEFB 1, 2, 3\n ALIGN\n ALIGN\n DEFB 4\n ALIGN 2\n")
	//
	padding := program.Nodes[1].(*hir.Bytes)
	assert.Equal(t, uint32(3), padding.Addr)
	assert.Equal(t, []byte{0}, padding.Bytes)
	// Second ALIGN does nothing
	assert.Equal(t, uint32(4), program.Nodes[2].Address())
	assert.Equal(t, 4, len(program.Nodes))
	assert.Equal(t, uint32(6), program.Regions[0].End)
	//
	checkErrors(t, " ALIGN 3\n", diag.InvalidDirective)
	checkErrors(t, " ALIGN 0\n", diag.InvalidDirective)
}

func TestBuild_DefineData(t *testing.T) {
	program, symbols := checkBuild(t, "s DEFB \"ab\", 1, \"c\"\nh DEFH 1, 2\nw DEFW s, h\n")
	//
	checkSymbol(t, symbols, "h", 4)
	checkSymbol(t, symbols, "w", 8)
	assert.Equal(t, []byte("ab"), program.Nodes[0].(*hir.Bytes).Bytes)
	assert.Equal(t, uint(1), program.Nodes[1].(*hir.Data).Width)
	assert.Equal(t, []byte("c"), program.Nodes[2].(*hir.Bytes).Bytes)
	assert.Equal(t, uint32(4), program.Nodes[3].Size())
	assert.Equal(t, uint32(8), program.Nodes[4].Size())
	assert.Equal(t, uint32(16), program.Regions[0].End)
}

func TestBuild_DefineSpace(t *testing.T) {
	program, symbols := checkBuild(t, " DEFS 3, 0xAA\nlab DEFB 1\n DEFS 2\n")
	//
	checkSymbol(t, symbols, "lab", 3)
	assert.Equal(t, []byte{0xAA, 0xAA, 0xAA}, program.Nodes[0].(*hir.Bytes).Bytes)
	assert.Equal(t, []byte{0, 0}, program.Nodes[2].(*hir.Bytes).Bytes)
	//
	checkErrors(t, " DEFS -1\n", diag.InvalidDirective)
	checkErrors(t, " DEFS 1, 256\n", diag.InvalidDirective)
}

func TestBuild_Equate(t *testing.T) {
	_, symbols := checkBuild(t, "X EQU 4\nY EQU X * 2 + lab\n MOV R0, R0\nlab MOV R0, R0\n")
	//
	checkSymbol(t, symbols, "X", 4)
	checkSymbol(t, symbols, "Y", 12)
	//
	sym, _ := symbols.Get("Y")
	assert.Equal(t, symbol.CONSTANT, sym.Kind)
	//
	checkErrors(t, "C EQU D\nD EQU 1\n", diag.UndefinedForwardReference)
	checkErrors(t, "C EQU nowhere\n", diag.UndefinedForwardReference)
	checkErrors(t, "C EQU C + 1\n", diag.UndefinedForwardReference)
	// Overflowing constants
	checkErrors(t, "big EQU 0x4000000000000000\nC EQU big * 4\n", diag.MalformedOperand)
	checkErrors(t, "big EQU 0x7FFFFFFFFFFFFFFF\nC EQU big + big\n", diag.MalformedOperand)
	checkErrors(t, "low EQU -0x7FFFFFFFFFFFFFFF - 1\nC EQU -low\n", diag.MalformedOperand)
}

// Constants defined later can still be used by instructions, which are only
// evaluated during resolution.
func TestBuild_EquateUse(t *testing.T) {
	program, _ := checkBuild(t, " ORIGIN BASE\n MOV R0, #N\nBASE EQU 0x40\nN EQU 3\n")
	//
	assert.Equal(t, uint32(0x40), program.Nodes[0].Address())
}

func TestBuild_DuplicateSymbol(t *testing.T) {
	checkErrors(t, "x MOV R0, R0\nx MOV R0, R0\nx EQU 3\n", diag.DuplicateSymbol, diag.DuplicateSymbol)
	checkErrors(t, "y EQU 1\ny MOV R0, R0\n", diag.DuplicateSymbol)
}

func TestBuild_LoadConstant(t *testing.T) {
	program, symbols := checkBuild(t, ` LDR R0, =0x12345678
 LDR R1, =0x12345678
 LDR R2, =0xFF00
 LDR R3, =0xFFFFFF00
 LDR R4, =-1
`)
	//
	load0 := program.Nodes[0].(*hir.LiteralLoad)
	load1 := program.Nodes[1].(*hir.LiteralLoad)
	assert.Equal(t, isa.Register(1), load1.Rd)
	// Identical values share a slot
	assert.Equal(t, load0.Slot, load1.Slot)
	//
	checkMove(t, program.Nodes[2], isa.MOV, 0xFF00)
	checkMove(t, program.Nodes[3], isa.MVN, 0xFF)
	checkMove(t, program.Nodes[4], isa.MVN, 0)
	// Pool follows the code
	checkSymbol(t, symbols, load0.Slot, 20)
	//
	slot := program.Nodes[5].(*hir.Data)
	assert.Equal(t, uint32(20), slot.Addr)
	assert.Equal(t, uint32(24), program.Regions[0].End)
	//
	sym, _ := symbols.Get(load0.Slot)
	assert.Equal(t, symbol.LITERAL, sym.Kind)
}

// Each region has its own pool, placed (word aligned) after the region.
func TestBuild_LiteralPools(t *testing.T) {
	program, symbols := checkBuild(t, " LDR R0, =0x12345678\n DEFB 1\n ORIGIN 0x100\n LDR R1, =0x12345678\n")
	//
	first := program.Nodes[0].(*hir.LiteralLoad)
	second := program.Nodes[4].(*hir.LiteralLoad)
	//
	assert.True(t, first.Slot != second.Slot)
	checkSymbol(t, symbols, first.Slot, 8)
	checkSymbol(t, symbols, second.Slot, 0x104)
	assert.Equal(t, []hir.Region{{Start: 0, End: 12}, {Start: 0x100, End: 0x108}}, program.Regions)
}

// Literals which depend on labels defined later.
func TestBuild_LoadConstantForward(t *testing.T) {
	program, _ := checkBuild(t, " LDR R0, =lab\n LDR R1, =far\nlab MOV R0, R0\n ORIGIN 0x123458\nfar DEFW 0\n")
	//
	checkMove(t, program.Nodes[0], isa.MOV, 8)
	//
	_, ok := program.Nodes[1].(*hir.LiteralLoad)
	assert.True(t, ok)
}

func TestBuild_LoadAddress(t *testing.T) {
	program, _ := checkBuild(t, "back MOV R0, R0\n ADR R1, back\n ADR R2, data\n ADRL R3, data\ndata DEFW 0\n")
	// back = 0, address = 4, hence offset = -12
	checkAddress(t, program.Nodes[1], isa.SUB, isa.PC, 12)
	// data = 16, address = 8, hence offset = 0
	checkAddress(t, program.Nodes[2], isa.ADD, isa.PC, 0)
	// data = 16, address = 12, hence offset = -4 and ADRL needs only one
	// instruction
	checkAddress(t, program.Nodes[3], isa.SUB, isa.PC, 4)
	assert.Equal(t, 5, len(program.Nodes))
}

func TestBuild_LoadAddressLong(t *testing.T) {
	program, symbols := checkBuild(t, " ADRL R0, far\nlab MOV R0, R0\n ORIGIN 0x10101\nfar DEFB 0\n")
	// offset = 0x10101 - 8 = 0x100F9
	checkAddress(t, program.Nodes[0], isa.ADD, isa.PC, 0xF9)
	checkAddress(t, program.Nodes[1], isa.ADD, isa.Register(0), 0x10000)
	checkSymbol(t, symbols, "lab", 8)
	//
	checkErrors(t, " ADR R0, far\n ORIGIN 0x10101\nfar DEFB 0\n", diag.DisplacementTooLarge)
	checkErrors(t, " ADRL R0, far\n ORIGIN 0x1010101\nfar DEFB 0\n", diag.DisplacementTooLarge)
}

// The size of an ADRL depends on a label which is defined after it, and on
// which later labels depend.
func TestBuild_LoadAddressGrowth(t *testing.T) {
	program, symbols := checkBuild(t, " ADRL R0, far\nlab MOV R0, R0\n ORIGIN 0x20000\nfar DEFB 0\n")
	//
	checkSymbol(t, symbols, "lab", 8)
	assert.Equal(t, 4, len(program.Nodes))
	// offset = 0x1FFF8
	lhs := immediate(t, program.Nodes[0])
	rhs := immediate(t, program.Nodes[1])
	assert.Equal(t, int64(0x1FFF8), lhs+rhs)
}

func TestBuild_Entry(t *testing.T) {
	program, _ := checkBuild(t, " MOV R0, R0\n ENTRY\n MOV R0, R0\n")
	assert.Equal(t, uint32(4), program.Entry)
	//
	program, _ = checkBuild(t, " ORIGIN 0x100\n DEFW 1\n MOV R0, R0\n")
	assert.Equal(t, uint32(0x104), program.Entry)
	//
	program, _ = checkBuild(t, " ORIGIN 0x200\n DEFW 1\n ORIGIN 0x100\n DEFW 2\n")
	assert.Equal(t, uint32(0x100), program.Entry)
	//
	checkErrors(t, " ENTRY\n MOV R0, R0\n ENTRY\n MOV R0, R0\n", diag.MultipleEntryPoints)
}

func TestBuild_Errors(t *testing.T) {
	checkErrors(t, " DEFB 1\n MOV R0, R0\n", diag.MisalignedInstruction)
	checkErrors(t, " MOV R0, R0\n MOV R0, R0\n ORIGIN 4\n MOV R0, R0\n", diag.RegionOverlap)
	checkErrors(t, " ORIGIN -4\n", diag.InvalidDirective)
	checkErrors(t, " MOV R0, R0\n ORIGIN 0xF0000000\n MOV R0, R0\n", diag.ImageTooLarge)
	checkErrors(t, " ORIGIN 0xF0000000\n MOV R0, R0\n ORIGIN 0\n MOV R0, R0\n", diag.ImageTooLarge)
	// Distant regions are fine when the image stays small enough
	checkBuild(t, " MOV R0, R0\n ORIGIN 0x3FFFFFC\n MOV R0, R0\n")
	//
	_, _, errs := build(t, 0, " MOV R0, R0\n ORIGIN 0x4000000\n MOV R0, R0\n")
	assert.Equal(t, []diag.Kind{diag.ImageTooLarge}, diag.Kinds(errs))
	assert.Equal(t, "ORIGIN 0x4000000", errs[0].SourceFile().Text(errs[0].Span()))
	checkErrors(t, " LDR R0, =0x100000000\n", diag.ImmediateOutOfRange)
	// DEFS size oscillates between 4 and 0
	checkErrors(t, " DEFS 4 - lab\nlab MOV R0, R0\n", diag.UnstableLayout)
}

// ==================================================================
// Framework
// ==================================================================

func checkBuild(t *testing.T, text string) (*hir.Program, symbol.Lookup) {
	return checkBuildAt(t, 0, text)
}

func checkBuildAt(t *testing.T, origin uint32, text string) (*hir.Program, symbol.Lookup) {
	program, symbols, errs := build(t, origin, text)
	//
	for _, err := range errs {
		t.Errorf("%s", err.Error())
	}
	//
	return program, symbols
}

func checkErrors(t *testing.T, text string, expected ...diag.Kind) {
	_, _, errs := build(t, 0, text)
	//
	assert.Equal(t, expected, diag.Kinds(errs), text)
}

func build(t *testing.T, origin uint32, text string) (*hir.Program, symbol.Lookup, []diag.Diagnostic) {
	srcfile := source.NewSourceFile("test.s", []byte(text))
	//
	lines, srcmap, errs := parser.Parse(srcfile)
	assert.Empty(t, errs)
	//
	return Build(lines, srcmap, origin)
}

func checkSymbol(t *testing.T, symbols symbol.Lookup, name string, expected int64) {
	value, ok := symbols.Lookup(name)
	//
	assert.True(t, ok, "missing symbol %s", name)
	assert.Equal(t, expected, value, "symbol %s", name)
}

func checkMove(t *testing.T, node hir.Node, opcode isa.Opcode, value int64) {
	insn := node.(*hir.Instruction).Insn.(*ast.DataProcessing)
	//
	assert.Equal(t, opcode, insn.Opcode)
	assert.Equal(t, value, immediate(t, node))
}

func checkAddress(t *testing.T, node hir.Node, opcode isa.Opcode, rn isa.Register, value int64) {
	insn := node.(*hir.Instruction).Insn.(*ast.DataProcessing)
	//
	assert.Equal(t, opcode, insn.Opcode)
	assert.Equal(t, rn, insn.Rn)
	assert.Equal(t, value, immediate(t, node))
}

func immediate(t *testing.T, node hir.Node) int64 {
	insn := node.(*hir.Instruction).Insn.(*ast.DataProcessing)
	//
	value, err := insn.Operand.(*ast.Immediate).Value.Eval(ast.MapEnvironment{})
	if err != nil {
		t.Fatal(err)
	}
	//
	return value
}
