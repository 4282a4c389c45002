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
package armasm

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/consensys/go-armasm/pkg/armasm/diag"
	"github.com/consensys/go-armasm/pkg/armasm/encoder"
	"github.com/consensys/go-armasm/pkg/util/assert"
	"github.com/consensys/go-armasm/pkg/util/source"
)

// TESTDATA_DIR holds programs along with their expected images.
const TESTDATA_DIR = "../../testdata/armasm"

func TestAssemble_Scenario(t *testing.T) {
	image := checkAssemble(t, "start MOV R0, #5\n CMP R0, #5\n BEQ done\ndone SVC #2\n")
	//
	assert.Equal(t, uint32(0), image.Base)
	assert.Equal(t, uint32(0), image.Entry)
	checkWords(t, image, 0xE3A00005, 0xE3500005, 0x0AFFFFFF, 0xEF000002)
}

// Assembling the same program twice gives identical images.
func TestAssemble_Deterministic(t *testing.T) {
	text := "x EQU 7\n LDR R0, =0x12345678\n ADRL R1, far\n LDR R2, =far\n ORIGIN 0x10101\nfar DEFW x\n"
	//
	first := checkAssemble(t, text)
	second := checkAssemble(t, text)
	//
	assert.Equal(t, first.Bytes, second.Bytes)
	assert.Equal(t, first.Words(), second.Words())
}

// LDR of a constant is a move when its value permits, and a load from the
// literal pool otherwise.
func TestAssemble_LoadConstant(t *testing.T) {
	checkEquivalent(t, " LDR R0, =0xFF\n", " MOV R0, #0xFF\n")
	checkEquivalent(t, " LDR R0, =0xFFFFFF00\n", " MVN R0, #0xFF\n")
	checkEquivalent(t, " LDR R0, =0x12345678\n", " LDR R0, slot\nslot DEFW 0x12345678\n")
	checkEquivalent(t, " LDR R0, =lab\nlab MOV R0, R0\n", " MOV R0, #4\n MOV R0, R0\n")
}

func TestAssemble_LoadAddress(t *testing.T) {
	checkEquivalent(t, " ADR R0, lab\n MOV R0, R0\nlab MOV R0, R0\n", " ADD R0, PC, #0\n MOV R0, R0\n MOV R0, R0\n")
	checkEquivalent(t, "lab ADR R0, lab\n", " SUB R0, PC, #8\n")
	// ADRL needs two instructions when the offset is not a rotated immediate
	checkEquivalent(t, " ADRL R0, far\n ORIGIN 0x10101\nfar DEFB 0\n",
		" ADD R0, PC, #0xF9\n ADD R0, R0, #0x10000\n ORIGIN 0x10101\nfar DEFB 0\n")
	//
	checkErrors(t, " ADR R0, far\n ORIGIN 0x10101\nfar DEFB 0\n", diag.DisplacementTooLarge)
}

// Stack names select complementary block modes for loads and stores.
func TestAssemble_StackModes(t *testing.T) {
	checkEquivalent(t, " STMFD SP!, {R0}\n LDMFD SP!, {R0}\n", " STMDB SP!, {R0}\n LDMIA SP!, {R0}\n")
	checkEquivalent(t, " STMED SP!, {R0}\n LDMED SP!, {R0}\n", " STMDA SP!, {R0}\n LDMIB SP!, {R0}\n")
	checkEquivalent(t, " STMFA SP!, {R0}\n LDMFA SP!, {R0}\n", " STMIB SP!, {R0}\n LDMDA SP!, {R0}\n")
	checkEquivalent(t, " STMEA SP!, {R0}\n LDMEA SP!, {R0}\n", " STMIA SP!, {R0}\n LDMDB SP!, {R0}\n")
	checkEquivalent(t, " PUSH {R0-R2}\n POP {R0-R2}\n", " STMFD SP!, {R2, R1, R0}\n LDMFD SP!, {R0-R2}\n")
}

// Words and data are stored most significant byte first unless configured
// otherwise.
func TestAssemble_ByteOrder(t *testing.T) {
	image := checkAssemble(t, " SVC #2\n DEFW 0x12345678\n DEFH 0xABCD\n DEFB 1, 2\n")
	//
	assert.Equal(t, []byte{0xEF, 0, 0, 0x02, 0x12, 0x34, 0x56, 0x78, 0xAB, 0xCD, 0x01, 0x02}, image.Bytes)
	assert.Equal(t, uint32(0xABCD0102), image.Words()[2].Value)
}

func TestAssemble_Config(t *testing.T) {
	cfg := Config{Origin: 0x1000, ByteOrder: binary.LittleEndian}
	//
	assembly, errs := Assemble(source.NewSourceFile("test.s", []byte("lab SVC #2\n B lab\n")), cfg)
	assert.Empty(t, errs)
	//
	assert.Equal(t, uint32(0x1000), assembly.Image.Base)
	assert.Equal(t, uint32(0x1000), assembly.Image.Entry)
	assert.Equal(t, []byte{0x02, 0, 0, 0xEF, 0xFD, 0xFF, 0xFF, 0xEA}, assembly.Image.Bytes)
	//
	value, ok := assembly.Symbols.Lookup("lab")
	assert.True(t, ok)
	assert.Equal(t, int64(0x1000), value)
	//
	assert.Equal(t, "00001000:> SVC #2\n00001004:  B .-4\t; -> 00001000\n", assembly.Program.Listing())
}

// Each stage stops the pipeline when it reports errors.
func TestAssemble_Errors(t *testing.T) {
	// Syntax errors are reported for every line
	checkErrors(t, "MOV R0\nfoo R1\n", diag.MissingOperand, diag.UnexpectedToken)
	// Layout errors prevent resolution
	checkErrors(t, "x MOV R0, R0\nx B nowhere\n", diag.DuplicateSymbol)
	checkErrors(t, " ENTRY\n SVC #0\n ENTRY\n SVC #1\n", diag.MultipleEntryPoints)
	// Resolution errors are reported together
	checkErrors(t, " B nowhere\n MOV R0, #0x101\n", diag.UndefinedSymbol, diag.UnencodableImmediate)
	//
	errs := assemble(t, "\n\n B nowhere\n")
	assert.Equal(t, "test.s:3:4: undefined symbol \"nowhere\" (UndefinedSymbol)", errs[0].Error())
}

// Programs under testdata assemble to their expected images.
func TestAssemble_Testdata(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join(TESTDATA_DIR, "*.s"))
	if err != nil {
		t.Fatal(err)
	}
	//
	assert.True(t, len(matches) > 0, "no programs in %s", TESTDATA_DIR)
	//
	for _, filename := range matches {
		t.Run(filepath.Base(filename), func(t *testing.T) {
			srcfile, err := source.ReadFile(filename)
			if err != nil {
				t.Fatal(err)
			}
			//
			expected, err := os.ReadFile(filename[:len(filename)-2] + ".hex")
			if err != nil {
				t.Fatal(err)
			}
			//
			assembly, errs := Assemble(srcfile, DefaultConfig())
			for _, e := range errs {
				t.Fatal(e.Error())
			}
			//
			assert.Equal(t, string(expected), assembly.Image.Hex())
		})
	}
}

// ==================================================================
// Framework
// ==================================================================

func checkAssemble(t *testing.T, text string) *encoder.Image {
	assembly, errs := Assemble(source.NewSourceFile("test.s", []byte(text)), DefaultConfig())
	//
	for _, err := range errs {
		t.Errorf("%s", err.Error())
	}
	//
	if len(errs) > 0 {
		t.FailNow()
	}
	//
	return assembly.Image
}

// Check two programs assemble to the same image.
func checkEquivalent(t *testing.T, text string, expected string) {
	lhs := checkAssemble(t, text)
	rhs := checkAssemble(t, expected)
	//
	assert.True(t, bytes.Equal(lhs.Bytes, rhs.Bytes), "%q gives %x, expected %x", text, lhs.Bytes, rhs.Bytes)
}

func checkWords(t *testing.T, image *encoder.Image, expected ...uint32) {
	words := image.Words()
	//
	assert.Equal(t, len(expected), len(words))
	//
	for i, w := range words {
		assert.Equal(t, expected[i], w.Value, "word %d", i)
	}
}

func checkErrors(t *testing.T, text string, expected ...diag.Kind) {
	assert.Equal(t, expected, diag.Kinds(assemble(t, text)), text)
}

func assemble(t *testing.T, text string) []diag.Diagnostic {
	assembly, errs := Assemble(source.NewSourceFile("test.s", []byte(text)), DefaultConfig())
	//
	assert.True(t, assembly == nil, "assembly returned despite errors")
	//
	return errs
}
