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
package parser

import (
	"strings"

	"github.com/consensys/go-armasm/pkg/isa"
)

// Class identifies the family of a mnemonic, which determines how its operands
// are parsed.
type Class uint8

// DATA_PROCESSING is one of the sixteen ALU instructions.
const DATA_PROCESSING Class = 0

// SHIFT is one of LSL, LSR, ASR and ROR written as an instruction.
const SHIFT Class = 1

// ROTATE_EXTEND is RRX written as an instruction.
const ROTATE_EXTEND Class = 2

// NO_OPERATION is NOP.
const NO_OPERATION Class = 3

// BRANCH is B or BL.
const BRANCH Class = 4

// LOAD_STORE is LDR, STR, LDRB or STRB.
const LOAD_STORE Class = 5

// LOAD_STORE_MULTIPLE is LDM or STM.
const LOAD_STORE_MULTIPLE Class = 6

// STACK is PUSH or POP.
const STACK Class = 7

// SUPERVISOR_CALL is SVC or SWI.
const SUPERVISOR_CALL Class = 8

// LOAD_ADDRESS is ADR or ADRL.
const LOAD_ADDRESS Class = 9

// DIRECTIVE is an assembler directive.
const DIRECTIVE Class = 10

// Mnemonic is the decoded form of an instruction or directive keyword,
// including any condition, flag setting or addressing mode suffixes.
type Mnemonic struct {
	Class     Class
	Cond      isa.Condition
	SetFlags  bool
	Opcode    isa.Opcode
	Shift     isa.Shift
	Link      bool
	Load      bool
	Byte      bool
	Long      bool
	Mode      isa.BlockMode
	Directive string
}

var directives = []string{"DEFB", "DEFH", "DEFW", "DEFS", "ALIGN", "ORIGIN", "ENTRY", "EQU"}

// ParseMnemonic decodes an identifier as a mnemonic, matching case
// insensitively.  Identifiers which are not mnemonics (and hence may be
// labels) are rejected.  Both the traditional suffix order ("ADDEQS",
// "LDREQB", "LDMEQFD") and the unified order ("ADDSEQ", "LDRBEQ", "LDMFDEQ")
// are accepted.
func ParseMnemonic(name string) (Mnemonic, bool) {
	name = strings.ToUpper(name)
	//
	for _, d := range directives {
		if name == d {
			return Mnemonic{Class: DIRECTIVE, Cond: isa.AL, Directive: d}, true
		}
	}
	//
	if len(name) < 3 {
		return parseBranch(name)
	}
	//
	base, rest := name[:3], name[3:]
	//
	if op, ok := isa.ParseOpcode(base); ok {
		if cond, s, ok := parseFlagSuffix(rest); ok {
			return Mnemonic{Class: DATA_PROCESSING, Opcode: op, Cond: cond, SetFlags: s}, true
		}
	} else if shift, ok := isa.ParseShift(base); ok {
		if cond, s, ok := parseFlagSuffix(rest); ok {
			return Mnemonic{Class: SHIFT, Shift: shift, Cond: cond, SetFlags: s}, true
		}
	}
	//
	switch base {
	case "RRX":
		if cond, s, ok := parseFlagSuffix(rest); ok {
			return Mnemonic{Class: ROTATE_EXTEND, Cond: cond, SetFlags: s}, true
		}
	case "NOP":
		if cond, ok := parseCondition(rest); ok {
			return Mnemonic{Class: NO_OPERATION, Cond: cond}, true
		}
	case "LDR", "STR":
		return parseLoadStore(base == "LDR", rest)
	case "LDM", "STM":
		return parseLoadStoreMultiple(base == "LDM", rest)
	case "SVC", "SWI":
		if cond, ok := parseCondition(rest); ok {
			return Mnemonic{Class: SUPERVISOR_CALL, Cond: cond}, true
		}
	case "ADR":
		if cond, ok := parseCondition(rest); ok {
			return Mnemonic{Class: LOAD_ADDRESS, Cond: cond}, true
		} else if cond, ok := parseCondition(strings.TrimPrefix(rest, "L")); ok && len(rest) > 0 && rest[0] == 'L' {
			return Mnemonic{Class: LOAD_ADDRESS, Cond: cond, Long: true}, true
		}
	case "POP":
		if cond, ok := parseCondition(rest); ok {
			return Mnemonic{Class: STACK, Cond: cond, Load: true}, true
		}
	case "PUS":
		if cond, ok := parseCondition(strings.TrimPrefix(rest, "H")); ok && len(rest) > 0 && rest[0] == 'H' {
			return Mnemonic{Class: STACK, Cond: cond}, true
		}
	}
	//
	return parseBranch(name)
}

// Parse B{cond} or BL{cond}.  Where both readings are possible (e.g. "BLE"),
// the conditional branch is preferred.
func parseBranch(name string) (Mnemonic, bool) {
	if !strings.HasPrefix(name, "B") {
		return Mnemonic{}, false
	} else if cond, ok := parseCondition(name[1:]); ok {
		return Mnemonic{Class: BRANCH, Cond: cond}, true
	} else if !strings.HasPrefix(name, "BL") {
		return Mnemonic{}, false
	} else if cond, ok := parseCondition(name[2:]); ok {
		return Mnemonic{Class: BRANCH, Cond: cond, Link: true}, true
	}
	//
	return Mnemonic{}, false
}

// Parse {cond}{B} or {B}{cond} following LDR or STR.
func parseLoadStore(load bool, rest string) (Mnemonic, bool) {
	var byteSuffix bool
	//
	switch {
	case strings.HasPrefix(rest, "B"):
		rest, byteSuffix = rest[1:], true
	case len(rest) == 3 && rest[2] == 'B':
		rest, byteSuffix = rest[:2], true
	}
	//
	if cond, ok := parseCondition(rest); ok {
		return Mnemonic{Class: LOAD_STORE, Cond: cond, Load: load, Byte: byteSuffix}, true
	}
	//
	return Mnemonic{}, false
}

// Parse {cond}{mode} or {mode}{cond} following LDM or STM.  The mode defaults
// to IA when omitted.
func parseLoadStoreMultiple(load bool, rest string) (Mnemonic, bool) {
	var splits = [][2]string{{rest, ""}, {"", rest}}
	//
	if len(rest) == 4 {
		splits = append(splits, [2]string{rest[:2], rest[2:]}, [2]string{rest[2:], rest[:2]})
	}
	//
	for _, split := range splits {
		mode, cond := isa.IA, isa.AL
		ok1, ok2 := true, true
		//
		if split[0] != "" {
			mode, ok1 = isa.ParseBlockMode(split[0], load)
		}
		//
		if split[1] != "" {
			cond, ok2 = isa.ParseCondition(split[1])
		}
		//
		if ok1 && ok2 {
			return Mnemonic{Class: LOAD_STORE_MULTIPLE, Cond: cond, Load: load, Mode: mode}, true
		}
	}
	//
	return Mnemonic{}, false
}

// Parse {cond}{S} or {S}{cond}.
func parseFlagSuffix(rest string) (isa.Condition, bool, bool) {
	if cond, ok := parseCondition(rest); ok {
		return cond, false, true
	} else if cond, ok := parseCondition(strings.TrimSuffix(rest, "S")); ok && strings.HasSuffix(rest, "S") {
		return cond, true, true
	} else if cond, ok := parseCondition(strings.TrimPrefix(rest, "S")); ok && strings.HasPrefix(rest, "S") {
		return cond, true, true
	}
	//
	return isa.AL, false, false
}

// Parse an optional condition suffix, where the empty string means AL.
func parseCondition(suffix string) (isa.Condition, bool) {
	if suffix == "" {
		return isa.AL, true
	}
	//
	return isa.ParseCondition(suffix)
}
