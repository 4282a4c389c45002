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

// Condition is the 4-bit field occupying bits 31:28 of every instruction,
// which determines under which processor flags the instruction executes.
type Condition uint8

// EQ executes when Z is set.
const EQ Condition = 0

// NE executes when Z is clear.
const NE Condition = 1

// CS (or HS) executes when C is set.
const CS Condition = 2

// CC (or LO) executes when C is clear.
const CC Condition = 3

// MI executes when N is set.
const MI Condition = 4

// PL executes when N is clear.
const PL Condition = 5

// VS executes when V is set.
const VS Condition = 6

// VC executes when V is clear.
const VC Condition = 7

// HI executes when C is set and Z is clear.
const HI Condition = 8

// LS executes when C is clear or Z is set.
const LS Condition = 9

// GE executes when N equals V.
const GE Condition = 10

// LT executes when N differs from V.
const LT Condition = 11

// GT executes when Z is clear and N equals V.
const GT Condition = 12

// LE executes when Z is set or N differs from V.
const LE Condition = 13

// AL always executes, and is the default when no suffix is given.
const AL Condition = 14

// ParseCondition parses a condition suffix (e.g. "NE" or "hs"), matching case
// insensitively.  The empty string is not a condition; callers default to AL.
func ParseCondition(suffix string) (Condition, bool) {
	cond, ok := conditionSuffixes[strings.ToUpper(suffix)]
	return cond, ok
}

// Suffix returns the suffix used when writing this condition after a
// mnemonic.  This is empty for AL.
func (c Condition) Suffix() string {
	if c == AL {
		return ""
	}
	//
	return c.String()
}

func (c Condition) String() string {
	if int(c) < len(conditionNames) {
		return conditionNames[c]
	}
	//
	return "NV"
}
