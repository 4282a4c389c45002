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

import "github.com/consensys/go-armasm/pkg/isa"

// Line is the syntax of a single physical line of assembly.  Any of its
// parts may be missing, so a blank line is a line with no label, statement or
// comment.
type Line struct {
	// Label defined on this line, or nil.
	Label *Label
	// Statement on this line, or nil.
	Statement Statement
	// Comment text (excluding the leading ';'), or empty.
	Comment string
}

// Label is the definition of a symbol at the start of a line.
type Label struct {
	Name string
}

// Statement is either an Instruction or a Directive.
type Statement interface {
	isStatement()
}

// Instruction is a statement which occupies code space, including the
// pseudo-instructions which the builder expands into real ones.
type Instruction interface {
	Statement
	// Condition under which this instruction executes.
	Condition() isa.Condition
	isInstruction()
}

// Directive is a statement which controls assembly rather than producing an
// instruction.
type Directive interface {
	Statement
	isDirective()
}
