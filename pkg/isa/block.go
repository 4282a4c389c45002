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

// BlockMode is the addressing mode of a block transfer (LDM / STM).  Its
// value is the pair of P (bit 1) and U (bit 0) flags, as they appear in bits
// 24:23 of the instruction.
type BlockMode uint8

// DA is "decrement after" (P=0, U=0).
const DA BlockMode = 0

// IA is "increment after" (P=0, U=1).
const IA BlockMode = 1

// DB is "decrement before" (P=1, U=0).
const DB BlockMode = 2

// IB is "increment before" (P=1, U=1).
const IB BlockMode = 3

// ParseBlockMode parses the addressing mode suffix of a block transfer.
// Besides the four canonical modes, the stack oriented names FD, ED, FA and EA
// are accepted, whose meaning depends on whether this is a load or a store.
func ParseBlockMode(suffix string, load bool) (BlockMode, bool) {
	var mode BlockMode
	//
	ok := false
	suffix = strings.ToUpper(suffix)
	//
	if load {
		mode, ok = loadModes[suffix]
	} else {
		mode, ok = storeModes[suffix]
	}
	//
	return mode, ok
}

// PreIndexed returns the P flag, which holds when the base is stepped before
// each transfer.
func (m BlockMode) PreIndexed() bool {
	return m&2 != 0
}

// Increment returns the U flag, which holds when addresses ascend from the
// base.
func (m BlockMode) Increment() bool {
	return m&1 != 0
}

func (m BlockMode) String() string {
	return blockModeNames[m&3]
}
