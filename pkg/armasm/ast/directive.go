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
package ast

// DefineData places a sequence of values of a fixed width (1, 2 or 4 bytes)
// at the current address.  This covers DEFB, DEFH and DEFW.  For DEFB, a value
// may also be a String, which places one byte per character.
type DefineData struct {
	Width  uint
	Values []Expr
}

// DefineSpace reserves a number of bytes, each holding a fill value (zero when
// Fill is nil).
type DefineSpace struct {
	Size Expr
	Fill Expr
}

// Align advances the current address to a multiple of some boundary (four when
// Boundary is nil).
type Align struct {
	Boundary Expr
}

// Origin moves the current address, starting a new region.
type Origin struct {
	Address Expr
}

// Entry marks the next address as the entry point.  Directives are told apart
// by identity in source maps, hence this must not be zero sized.
type Entry struct {
	_ uint8
}

// Equate defines the label of its line as a constant.
type Equate struct {
	Value Expr
}

func (p *DefineData) isStatement()  {}
func (p *DefineSpace) isStatement() {}
func (p *Align) isStatement()       {}
func (p *Origin) isStatement()      {}
func (p *Entry) isStatement()       {}
func (p *Equate) isStatement()      {}

func (p *DefineData) isDirective()  {}
func (p *DefineSpace) isDirective() {}
func (p *Align) isDirective()       {}
func (p *Origin) isDirective()      {}
func (p *Entry) isDirective()       {}
func (p *Equate) isDirective()      {}
