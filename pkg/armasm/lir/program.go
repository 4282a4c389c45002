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
)

// Item is something placed at a fixed address in memory.
type Item interface {
	Address() uint32
	Size() uint32
}

// Code is an instruction at a given address.
type Code struct {
	Addr uint32
	Insn Instruction
}

// Data is a sequence of unsigned values each of a given width (1, 2 or 4
// bytes) at a given address.  Values are written in the byte order of the
// image.
type Data struct {
	Addr   uint32
	Width  uint
	Values []uint32
}

// Address implementation for Item interface.
func (p *Code) Address() uint32 { return p.Addr }

// Size implementation for Item interface.
func (p *Code) Size() uint32 { return 4 }

// Address implementation for Item interface.
func (p *Data) Address() uint32 { return p.Addr }

// Size implementation for Item interface.
func (p *Data) Size() uint32 { return uint32(p.Width) * uint32(len(p.Values)) }

// Program is a fully resolved program, which is ready to be encoded (or
// executed).  Items are sorted by address and do not overlap.
type Program struct {
	Items []Item
	Entry uint32
}

// Listing renders this program in assembly language, with one line per
// instruction or data item.
func (p *Program) Listing() string {
	var builder strings.Builder
	//
	for _, item := range p.Items {
		switch item := item.(type) {
		case *Code:
			marker := " "
			//
			if item.Addr == p.Entry {
				marker = ">"
			}
			//
			fmt.Fprintf(&builder, "%08x:%s %s", item.Addr, marker, item.Insn.String())
			//
			if b, ok := item.Insn.(*Branch); ok {
				fmt.Fprintf(&builder, "\t; -> %08x", b.Target(item.Addr))
			}
		case *Data:
			fmt.Fprintf(&builder, "%08x:  %s", item.Addr, item.String())
		}
		//
		builder.WriteString("\n")
	}
	//
	return builder.String()
}

func (p *Data) String() string {
	var (
		builder strings.Builder
		format  = fmt.Sprintf("0x%%0%dx", 2*p.Width)
	)
	//
	switch p.Width {
	case 1:
		builder.WriteString("DEFB ")
	case 2:
		builder.WriteString("DEFH ")
	default:
		builder.WriteString("DEFW ")
	}
	//
	for i, v := range p.Values {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		fmt.Fprintf(&builder, format, v)
	}
	//
	return builder.String()
}
