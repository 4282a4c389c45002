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
package lir

import (
	"fmt"
	"strings"

	"github.com/consensys/go-armasm/pkg/isa"
)

func (p *DataProcessing) String() string {
	var (
		mnemonic = p.Opcode.String() + p.Cond.Suffix()
		operand  = p.Operand.String()
	)
	//
	switch {
	case p.Opcode.IsComparison():
		return fmt.Sprintf("%s %s, %s", mnemonic, p.Rn, operand)
	case p.SetFlags:
		mnemonic += "S"
	}
	//
	if p.Opcode.IsMove() {
		return fmt.Sprintf("%s %s, %s", mnemonic, p.Rd, operand)
	}
	//
	return fmt.Sprintf("%s %s, %s, %s", mnemonic, p.Rd, p.Rn, operand)
}

// Branches are written relative to their own address, as in ".+4".
func (p *Branch) String() string {
	mnemonic := "B"
	//
	if p.Link {
		mnemonic = "BL"
	}
	//
	return fmt.Sprintf("%s%s .%+d", mnemonic, p.Cond.Suffix(), 8+4*int64(p.Offset))
}

func (p *LoadStore) String() string {
	var (
		builder  strings.Builder
		mnemonic = "STR"
		offset   = p.Offset.String()
	)
	//
	if p.Load {
		mnemonic = "LDR"
	}
	//
	mnemonic += p.Cond.Suffix()
	//
	if p.Byte {
		mnemonic += "B"
	}
	//
	if imm, ok := p.Offset.(*ImmediateOffset); ok && !p.Up {
		offset = fmt.Sprintf("#-%d", imm.Value)
	} else if !p.Up {
		offset = "-" + offset
	}
	//
	fmt.Fprintf(&builder, "%s %s, [%s", mnemonic, p.Rd, p.Rn)
	//
	switch {
	case !p.PreIndexed:
		fmt.Fprintf(&builder, "], %s", offset)
	case p.isZeroOffset() && !p.WriteBack:
		builder.WriteString("]")
	default:
		fmt.Fprintf(&builder, ", %s]", offset)
	}
	//
	if p.PreIndexed && p.WriteBack {
		builder.WriteString("!")
	}
	//
	return builder.String()
}

func (p *LoadStore) isZeroOffset() bool {
	imm, ok := p.Offset.(*ImmediateOffset)
	return ok && p.Up && imm.Value == 0
}

func (p *LoadStoreMultiple) String() string {
	var (
		builder  strings.Builder
		mnemonic = "STM"
	)
	//
	if p.Load {
		mnemonic = "LDM"
	}
	//
	fmt.Fprintf(&builder, "%s%s%s %s", mnemonic, p.Cond.Suffix(), p.Mode, p.Rn)
	//
	if p.WriteBack {
		builder.WriteString("!")
	}
	//
	fmt.Fprintf(&builder, ", %s", RegisterList(p.Registers))
	//
	if p.UserBank {
		builder.WriteString("^")
	}
	//
	return builder.String()
}

func (p *SupervisorCall) String() string {
	return fmt.Sprintf("SVC%s #%d", p.Cond.Suffix(), p.Number)
}

func (p *ShiftImmediate) String() string {
	return shiftString(p.Rm, p.Shift, p.Amount)
}

func (p *ShiftRegister) String() string {
	return fmt.Sprintf("%s, %s %s", p.Rm, p.Shift, p.Rs)
}

func (p *ImmediateOffset) String() string {
	return fmt.Sprintf("#%d", p.Value)
}

func (p *RegisterOffset) String() string {
	return shiftString(p.Rm, p.Shift, p.Amount)
}

// Render a register shifted by an encoded 5-bit amount.
func shiftString(rm isa.Register, shift isa.Shift, amount uint8) string {
	switch {
	case amount != 0:
		return fmt.Sprintf("%s, %s #%d", rm, shift, amount)
	case shift == isa.LSL:
		return rm.String()
	case shift == isa.ROR:
		return fmt.Sprintf("%s, RRX", rm)
	default:
		return fmt.Sprintf("%s, %s #32", rm, shift)
	}
}

// RegisterList renders a register mask as a list, where runs of three or more
// registers are written as ranges, as in "{R0-R3, LR}".
func RegisterList(mask uint16) string {
	var items []string
	//
	for i := 0; i < isa.NUM_REGISTERS; {
		if mask&(1<<i) == 0 {
			i++
			continue
		}
		// Find the end of this run
		j := i
		for j+1 < isa.NUM_REGISTERS && mask&(1<<(j+1)) != 0 {
			j++
		}
		//
		switch {
		case j-i >= 2:
			items = append(items, fmt.Sprintf("%s-%s", isa.Register(i), isa.Register(j)))
		case j > i:
			items = append(items, isa.Register(i).String(), isa.Register(j).String())
		default:
			items = append(items, isa.Register(i).String())
		}
		//
		i = j + 1
	}
	//
	return fmt.Sprintf("{%s}", strings.Join(items, ", "))
}
