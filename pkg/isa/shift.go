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

// Shift identifies the barrel shifter operation applied to a register operand.
// The values match the 2-bit type field at bits 6:5.
type Shift uint8

// LSL is logical shift left.
const LSL Shift = 0

// LSR is logical shift right.
const LSR Shift = 1

// ASR is arithmetic shift right.
const ASR Shift = 2

// ROR is rotate right.  ROR by an immediate of zero encodes RRX.
const ROR Shift = 3

var shiftNames = [...]string{"LSL", "LSR", "ASR", "ROR"}

// ParseShift parses a shift name, case insensitively.  RRX is not a shift in
// this sense since it takes no amount.
func ParseShift(name string) (Shift, bool) {
	name = strings.ToUpper(name)
	//
	for i, n := range shiftNames {
		if n == name {
			return Shift(i), true
		}
	}
	//
	return 0, false
}

// ShiftAmount determines the 5-bit shift_imm field for a shift by a constant
// amount.  Shifts by zero normalise to LSL #0, and right shifts by 32 use the
// zero encoding reserved for them.  Amounts which cannot be expressed are
// rejected.
func ShiftAmount(shift Shift, amount int64) (Shift, uint8, bool) {
	switch {
	case amount == 0:
		return LSL, 0, true
	case amount < 0 || amount > 32:
		return shift, 0, false
	case amount < 32:
		return shift, uint8(amount), true
	case shift == LSR || shift == ASR:
		return shift, 0, true
	default:
		return shift, 0, false
	}
}

func (s Shift) String() string {
	return shiftNames[s&3]
}
