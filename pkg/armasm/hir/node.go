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
package hir

import (
	"fmt"

	"github.com/consensys/go-armasm/pkg/armasm/ast"
	"github.com/consensys/go-armasm/pkg/isa"
)

// Node is an item of a laid out program, which occupies a fixed range of
// addresses.
type Node interface {
	// Address of the first byte occupied by this node.
	Address() uint32
	// Size (in bytes) of this node.
	Size() uint32
}

// Instruction is a machine instruction at a given address.  Pseudo
// instructions have been expanded, hence this is never an ast.LoadConstant or
// an ast.LoadAddress.
type Instruction struct {
	Addr uint32
	Insn ast.Instruction
}

// LiteralLoad is "LDR Rd, [PC, #offset]" where the offset is determined by the
// address of a literal pool slot.
type LiteralLoad struct {
	Addr uint32
	Cond isa.Condition
	Rd   isa.Register
	// Name of the literal symbol for the pool slot.
	Slot string
}

// Data is a sequence of integer values, each of a given width in bytes.  The
// values are evaluated during resolution, since they may refer to labels.
type Data struct {
	Addr   uint32
	Width  uint
	Values []ast.Expr
}

// Bytes is a sequence of known bytes, such as a string or padding.
type Bytes struct {
	Addr  uint32
	Bytes []byte
}

// Address implementation for Node interface.
func (p *Instruction) Address() uint32 { return p.Addr }

// Address implementation for Node interface.
func (p *LiteralLoad) Address() uint32 { return p.Addr }

// Address implementation for Node interface.
func (p *Data) Address() uint32 { return p.Addr }

// Address implementation for Node interface.
func (p *Bytes) Address() uint32 { return p.Addr }

// Size implementation for Node interface.
func (p *Instruction) Size() uint32 { return 4 }

// Size implementation for Node interface.
func (p *LiteralLoad) Size() uint32 { return 4 }

// Size implementation for Node interface.
func (p *Data) Size() uint32 { return uint32(p.Width) * uint32(len(p.Values)) }

// Size implementation for Node interface.
func (p *Bytes) Size() uint32 { return uint32(len(p.Bytes)) }

func (p *Instruction) String() string {
	return fmt.Sprintf("%08x: %T", p.Addr, p.Insn)
}

func (p *LiteralLoad) String() string {
	return fmt.Sprintf("%08x: LDR%s %s, =%s", p.Addr, p.Cond.Suffix(), p.Rd, p.Slot)
}

func (p *Data) String() string {
	return fmt.Sprintf("%08x: %d x %d bytes", p.Addr, len(p.Values), p.Width)
}

func (p *Bytes) String() string {
	return fmt.Sprintf("%08x: %d bytes", p.Addr, len(p.Bytes))
}
