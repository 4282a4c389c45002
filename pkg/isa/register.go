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

import (
	"fmt"
	"strconv"
	"strings"
)

// Register identifies one of the sixteen general purpose registers.
type Register uint8

// NUM_REGISTERS is the number of general purpose registers.
const NUM_REGISTERS = 16

// SP is the conventional stack pointer (R13).
const SP Register = 13

// LR is the link register (R14), written by BL.
const LR Register = 14

// PC is the program counter (R15).  Reads yield the instruction address plus 8.
const PC Register = 15

// ParseRegister parses a register name.  Names are case insensitive and are
// either R0..R15 or one of the aliases SP, LR and PC.
func ParseRegister(name string) (Register, bool) {
	name = strings.ToUpper(name)
	//
	switch name {
	case "SP":
		return SP, true
	case "LR":
		return LR, true
	case "PC":
		return PC, true
	}
	//
	if len(name) < 2 || len(name) > 3 || name[0] != 'R' || (len(name) == 3 && name[1] == '0') {
		return 0, false
	}
	//
	n, err := strconv.ParseUint(name[1:], 10, 8)
	if err != nil || n >= NUM_REGISTERS {
		return 0, false
	}
	//
	return Register(n), true
}

func (r Register) String() string {
	switch r {
	case SP:
		return "SP"
	case LR:
		return "LR"
	case PC:
		return "PC"
	default:
		return fmt.Sprintf("R%d", uint(r))
	}
}
