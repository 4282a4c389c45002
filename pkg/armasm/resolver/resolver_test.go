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
	"testing"

	"github.com/consensys/go-armasm/pkg/armasm/builder"
	"github.com/consensys/go-armasm/pkg/armasm/diag"
	"github.com/consensys/go-armasm/pkg/armasm/lir"
	"github.com/consensys/go-armasm/pkg/armasm/parser"
	"github.com/consensys/go-armasm/pkg/isa"
	"github.com/consensys/go-armasm/pkg/util/assert"
	"github.com/consensys/go-armasm/pkg/util/source"
)

func TestResolve_Scenario(t *testing.T) {
	program := checkResolve(t, "start MOV R0, #5\n CMP R0, #5\n BEQ done\ndone SVC #2\n",
		"MOV R0, #5", "CMP R0, #5", "BEQ .+4", "SVC #2")
	//
	assert.Equal(t, uint32(0), program.Entry)
	//
	cmp := program.Items[1].(*lir.Code).Insn.(*lir.DataProcessing)
	assert.True(t, cmp.SetFlags)
	assert.Equal(t, isa.Register(0), cmp.Rd)
	//
	branch := program.Items[2].(*lir.Code).Insn.(*lir.Branch)
	assert.Equal(t, int32(-1), branch.Offset)
	assert.Equal(t, uint32(12), branch.Target(8))
}

func TestResolve_DataProcessing(t *testing.T) {
	checkResolve(t, " MOV R0, #0x3FC\n MVNS R1, #0xFF000000\n ADD R2, R3, R4\n",
		"MOV R0, #1020", "MVNS R1, #4278190080", "ADD R2, R3, R4")
	checkResolve(t, " MOV R0, R1, LSR #32\n MOV R0, R1, LSL #0\n SUB R0, R1, R2, ASR R3\n MOVS R0, R1, RRX\n",
		"MOV R0, R1, LSR #32", "MOV R0, R1", "SUB R0, R1, R2, ASR R3", "MOVS R0, R1, RRX")
	// Moves have no first operand
	program := checkResolve(t, " MOV R5, R6\n", "MOV R5, R6")
	assert.Equal(t, isa.Register(0), program.Items[0].(*lir.Code).Insn.(*lir.DataProcessing).Rn)
	//
	checkErrors(t, " MOV R0, #0x101\n", diag.UnencodableImmediate)
	checkErrors(t, " MOV R0, #-1\n", diag.UnencodableImmediate)
	checkErrors(t, " MOV R0, #0x100000000\n", diag.UnencodableImmediate)
	checkErrors(t, " MOV R0, R1, LSL #32\n", diag.ImmediateOutOfRange)
	checkErrors(t, " MOV R0, R1, ROR #-1\n", diag.ImmediateOutOfRange)
}

// Expressions whose value does not fit in 64 bits are rejected rather than
// wrapped.
func TestResolve_Overflow(t *testing.T) {
	checkErrors(t, " MOV R0, #0x100000000 * 0x100000000\n", diag.MalformedOperand)
	checkErrors(t, "big EQU 0x4000000000000000\n DEFW big * 4 + 7\n", diag.MalformedOperand)
	checkErrors(t, "big EQU 0x7FFFFFFFFFFFFFFF\n LDR R0, =big + 1\n", diag.MalformedOperand)
	checkErrors(t, "low EQU -0x7FFFFFFFFFFFFFFF - 1\n MOV R0, #-low\n", diag.MalformedOperand)
	checkErrors(t, "low EQU -0x7FFFFFFFFFFFFFFF - 1\n DEFW 0 - low\n", diag.MalformedOperand)
	// Large intermediate values are fine when the result fits
	checkResolve(t, "big EQU 0x2000000000000000\n MOV R0, #big * 2 - big * 2 + 4\n", "MOV R0, #4")
	//
	errs := resolve(t, " MOV R0, #1 + 0x100000000 * 0x100000000\n")
	assert.Equal(t, "0x100000000 * 0x100000000", errs[0].SourceFile().Text(errs[0].Span()))
}

func TestResolve_Branch(t *testing.T) {
	checkResolve(t, "loop B loop\n BL loop\n BNE next\nnext MOV R0, R0\n",
		"B .+0", "BL .-4", "BNE .+4", "MOV R0, R0")
	// Largest forward and backward offsets
	checkResolve(t, "far EQU 0x2000004\n B far\n", "B .+33554436")
	checkResolve(t, "near EQU 8\n ORIGIN 0x2000000\n B near\n", "B .-33554424")
	//
	checkErrors(t, "far EQU 0x2000008\n B far\n", diag.BranchOutOfRange)
	checkErrors(t, "near EQU 4\n ORIGIN 0x2000000\n B near\n", diag.BranchOutOfRange)
	checkErrors(t, " B 2\n", diag.BranchOutOfRange)
}

func TestResolve_LoadStore(t *testing.T) {
	checkResolve(t, " LDR R0, [R1, #-4]\n STR R0, [R1], #4\n LDRB R0, [R1, #1]!\n LDR R0, [R1]\n",
		"LDR R0, [R1, #-4]", "STR R0, [R1], #4", "LDRB R0, [R1, #1]!", "LDR R0, [R1]")
	checkResolve(t, " LDR R0, [R1, -R2, LSL #2]\n STR R0, [R1], R2\n",
		"LDR R0, [R1, -R2, LSL #2]", "STR R0, [R1], R2")
	// Labels are addressed relative to the PC
	checkResolve(t, " MOV R0, R0\n LDR R0, data\ndata DEFW 7\n",
		"MOV R0, R0", "LDR R0, [PC, #-4]", "DEFW 0x00000007")
	checkResolve(t, " LDR R0, data\n MOV R0, R0\ndata DEFW 7\n",
		"LDR R0, [PC]", "MOV R0, R0", "DEFW 0x00000007")
	//
	checkErrors(t, " LDR R0, [R1, #4096]\n", diag.OffsetOutOfRange)
	checkErrors(t, " LDR R0, [R1, #-4096]\n", diag.OffsetOutOfRange)
	checkErrors(t, " LDR R0, [R1, R2, LSL #32]\n", diag.ImmediateOutOfRange)
	checkErrors(t, " LDR R0, data\n DEFS 4100\ndata DEFW 7\n", diag.OffsetOutOfRange)
}

func TestResolve_LoadConstant(t *testing.T) {
	checkResolve(t, " LDR R0, =0x12345678\n LDR R1, =0xFF\n",
		"LDR R0, [PC]", "MOV R1, #255", "DEFW 0x12345678")
	// Literal pools which are too far away
	checkErrors(t, " LDR R0, =0x12345678\n DEFS 4100\n", diag.OffsetOutOfRange)
}

func TestResolve_LoadStoreMultiple(t *testing.T) {
	checkResolve(t, " LDMFD SP!, {R0-R3, LR}\n STMFD SP!, {LR, R0, R1}\n PUSH {R4}\n POP {PC}\n",
		"LDMIA SP!, {R0-R3, LR}", "STMDB SP!, {R0, R1, LR}", "STMDB SP!, {R4}", "LDMIA SP!, {PC}")
}

func TestResolve_SupervisorCall(t *testing.T) {
	checkResolve(t, " SVC #0xFFFFFF\n SVCNE #0\n", "SVC #16777215", "SVCNE #0")
	//
	checkErrors(t, " SVC #0x1000000\n", diag.ImmediateOutOfRange)
	checkErrors(t, " SVC #-1\n", diag.ImmediateOutOfRange)
}

func TestResolve_Data(t *testing.T) {
	checkResolve(t, " DEFB -128, 255, \"ok\"\n DEFH -1, lab\nlab DEFW -1\n",
		"DEFB 0x80, 0xff", "DEFB 0x6f, 0x6b", "DEFH 0xffff, 0x0008", "DEFW 0xffffffff")
	//
	checkErrors(t, " DEFB 256\n", diag.InvalidDirective)
	checkErrors(t, " DEFB -129\n", diag.InvalidDirective)
	checkErrors(t, " DEFH 0x10000\n", diag.InvalidDirective)
	checkErrors(t, " DEFW 0x100000000\n", diag.InvalidDirective)
}

// Every error is reported, rather than just the first.
func TestResolve_Undefined(t *testing.T) {
	checkErrors(t, " B nowhere\n MOV R0, #missing\n ADR R0, gone\n LDR R0, =absent\n DEFW lost\n",
		diag.UndefinedSymbol, diag.UndefinedSymbol, diag.UndefinedSymbol, diag.UndefinedSymbol,
		diag.UndefinedSymbol)
	//
	errs := resolve(t, "\n B nowhere\n")
	line, col := errs[0].Position()
	//
	assert.Equal(t, 2, line)
	assert.Equal(t, 4, col)
	assert.Equal(t, "nowhere", errs[0].SourceFile().Text(errs[0].Span()))
}

// ==================================================================
// Framework
// ==================================================================

// Check a program resolves without errors, and that its items render as
// expected.
func checkResolve(t *testing.T, text string, expected ...string) *lir.Program {
	program, errs := lower(t, text)
	//
	for _, err := range errs {
		t.Errorf("%s", err.Error())
	}
	//
	if len(errs) > 0 {
		t.FailNow()
	}
	//
	actual := make([]string, len(program.Items))
	//
	for i, item := range program.Items {
		switch item := item.(type) {
		case *lir.Code:
			actual[i] = item.Insn.String()
		case *lir.Data:
			actual[i] = item.String()
		}
	}
	//
	assert.Equal(t, expected, actual, text)
	//
	return program
}

func checkErrors(t *testing.T, text string, expected ...diag.Kind) {
	assert.Equal(t, expected, diag.Kinds(resolve(t, text)), text)
}

func resolve(t *testing.T, text string) []diag.Diagnostic {
	program, errs := lower(t, text)
	//
	assert.True(t, program == nil, "program returned despite errors")
	//
	return errs
}

func lower(t *testing.T, text string) (*lir.Program, []diag.Diagnostic) {
	srcfile := source.NewSourceFile("test.s", []byte(text))
	//
	lines, srcmap, errs := parser.Parse(srcfile)
	assert.Empty(t, errs)
	//
	program, symbols, errs := builder.Build(lines, srcmap, 0)
	assert.Empty(t, errs)
	//
	return Resolve(program, symbols, srcmap)
}
