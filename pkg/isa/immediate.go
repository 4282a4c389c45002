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
	"math/bits"
)

// RotatedImmediate is the immediate form of a data processing second operand:
// an 8-bit value rotated right by an even amount.
type RotatedImmediate struct {
	// Value is the unrotated 8-bit constant.
	Value uint8
	// Rotate is the (even) right rotation, between 0 and 30.
	Rotate uint8
}

// EncodeImmediate finds the rotated immediate with the smallest rotation
// which reproduces the given value, if any exists.
func EncodeImmediate(value uint32) (RotatedImmediate, bool) {
	for rot := 0; rot < 32; rot += 2 {
		// value = imm ROR rot, hence imm = value ROL rot
		if imm := bits.RotateLeft32(value, rot); imm <= 0xFF {
			return RotatedImmediate{uint8(imm), uint8(rot)}, true
		}
	}
	//
	return RotatedImmediate{}, false
}

// IsImmediate determines whether a value can be written as a rotated
// immediate.
func IsImmediate(value uint32) bool {
	_, ok := EncodeImmediate(value)
	return ok
}

// SplitImmediate splits a value into two rotated immediates, each covering a
// different byte window of the value, whose sum (equally, bitwise or) is the
// value.  This fails when the value is zero, when it fits a single immediate,
// or when its set bits span more than two windows.
func SplitImmediate(value uint32) (RotatedImmediate, RotatedImmediate, bool) {
	if value == 0 || IsImmediate(value) {
		return RotatedImmediate{}, RotatedImmediate{}, false
	}
	// Start each window at the lowest set bit, rounded down to even, so that
	// the first window takes as much of the value as possible.
	low := bits.TrailingZeros32(value) &^ 1
	//
	for rot := 0; rot < 32; rot += 2 {
		start := (low + rot) % 32
		mask := bits.RotateLeft32(0xFF, start)
		first, second := value&mask, value&^mask
		//
		if first == 0 {
			continue
		}
		//
		a, ok1 := EncodeImmediate(first)
		b, ok2 := EncodeImmediate(second)
		//
		if ok1 && ok2 {
			return a, b, true
		}
	}
	//
	return RotatedImmediate{}, RotatedImmediate{}, false
}

// ImmediateFromField decodes the 12-bit operand field of a data processing
// instruction with the I bit set.
func ImmediateFromField(field uint32) RotatedImmediate {
	return RotatedImmediate{uint8(field & 0xFF), uint8((field>>8)&0xF) * 2}
}

// Field returns the 12-bit operand field encoding this immediate, namely
// rotate/2 in bits 11:8 and the constant in bits 7:0.
func (p RotatedImmediate) Field() uint32 {
	return uint32(p.Rotate/2)<<8 | uint32(p.Value)
}

// Decode returns the 32-bit value this immediate represents.
func (p RotatedImmediate) Decode() uint32 {
	return bits.RotateLeft32(uint32(p.Value), -int(p.Rotate))
}

func (p RotatedImmediate) String() string {
	return fmt.Sprintf("#%d", p.Decode())
}
