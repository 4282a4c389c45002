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
package isa

import "strings"

// Opcode is the 4-bit operation field (bits 24:21) of a data processing
// instruction.
type Opcode uint8

// AND computes Rd := Rn & op2
const AND Opcode = 0

// EOR computes Rd := Rn ^ op2
const EOR Opcode = 1

// SUB computes Rd := Rn - op2
const SUB Opcode = 2

// RSB computes Rd := op2 - Rn
const RSB Opcode = 3

// ADD computes Rd := Rn + op2
const ADD Opcode = 4

// ADC computes Rd := Rn + op2 + C
const ADC Opcode = 5

// SBC computes Rd := Rn - op2 - !C
const SBC Opcode = 6

// RSC computes Rd := op2 - Rn - !C
const RSC Opcode = 7

// TST sets flags on Rn & op2
const TST Opcode = 8

// TEQ sets flags on Rn ^ op2
const TEQ Opcode = 9

// CMP sets flags on Rn - op2
const CMP Opcode = 10

// CMN sets flags on Rn + op2
const CMN Opcode = 11

// ORR computes Rd := Rn | op2
const ORR Opcode = 12

// MOV computes Rd := op2
const MOV Opcode = 13

// BIC computes Rd := Rn & ~op2
const BIC Opcode = 14

// MVN computes Rd := ~op2
const MVN Opcode = 15

// ParseOpcode parses a data processing mnemonic without suffixes.
func ParseOpcode(mnemonic string) (Opcode, bool) {
	op, ok := opcodeMnemonics[strings.ToUpper(mnemonic)]
	return op, ok
}

// IsComparison holds for TST, TEQ, CMP and CMN.  These have no destination
// register and always update the flags.
func (o Opcode) IsComparison() bool {
	return o >= TST && o <= CMN
}

// IsMove holds for MOV and MVN, which have no first operand register.
func (o Opcode) IsMove() bool {
	return o == MOV || o == MVN
}

func (o Opcode) String() string {
	return opcodeNames[o&0xF]
}
