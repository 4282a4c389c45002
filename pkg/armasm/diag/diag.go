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
package diag

import (
	"fmt"

	"github.com/consensys/go-armasm/pkg/util/source"
)

// Kind classifies a diagnostic by the rule it violates.
type Kind uint8

// InvalidToken signals text which the lexer could not recognise.
const InvalidToken Kind = 0

// UnexpectedToken signals a token which doesn't fit the grammar at its
// position.
const UnexpectedToken Kind = 1

// MissingOperand signals a statement which ended before all its operands were
// given.
const MissingOperand Kind = 2

// MalformedOperand signals an operand of the wrong form for its position (e.g.
// an immediate where a register is required).
const MalformedOperand Kind = 3

// DuplicateSymbol signals a label or constant defined more than once.
const DuplicateSymbol Kind = 4

// UndefinedForwardReference signals an EQU whose expression refers to a
// constant defined later, or to a name defined nowhere.
const UndefinedForwardReference Kind = 5

// DisplacementTooLarge signals an ADR (or ADRL) whose target cannot be reached.
const DisplacementTooLarge Kind = 6

// MultipleEntryPoints signals more than one ENTRY directive.
const MultipleEntryPoints Kind = 7

// InvalidDirective signals a directive with an unusable argument (e.g. ALIGN
// by a non power of two, or a DEFB value wider than a byte).
const InvalidDirective Kind = 8

// MisalignedInstruction signals an instruction placed at an address which is
// not a multiple of four.
const MisalignedInstruction Kind = 9

// RegionOverlap signals an ORIGIN which moves back over bytes already placed.
const RegionOverlap Kind = 10

// UnstableLayout signals that address assignment did not reach a fixed point.
const UnstableLayout Kind = 11

// UndefinedSymbol signals an operand naming a symbol which is not defined.
const UndefinedSymbol Kind = 12

// UnencodableImmediate signals a data processing constant which is no rotated
// 8-bit value.
const UnencodableImmediate Kind = 13

// BranchOutOfRange signals a branch target beyond the 24-bit word offset, or
// one which is not word aligned.
const BranchOutOfRange Kind = 14

// OffsetOutOfRange signals a load/store immediate offset of 4096 or more.
const OffsetOutOfRange Kind = 15

// ImmediateOutOfRange signals a constant too wide for its field, such as an SVC
// number or a shift amount.
const ImmediateOutOfRange Kind = 16

// ImageTooLarge signals regions spread so far apart that the image covering
// them would be unreasonably large.
const ImageTooLarge Kind = 17

var kindNames = [...]string{
	"InvalidToken",
	"UnexpectedToken",
	"MissingOperand",
	"MalformedOperand",
	"DuplicateSymbol",
	"UndefinedForwardReference",
	"DisplacementTooLarge",
	"MultipleEntryPoints",
	"InvalidDirective",
	"MisalignedInstruction",
	"RegionOverlap",
	"UnstableLayout",
	"UndefinedSymbol",
	"UnencodableImmediate",
	"BranchOutOfRange",
	"OffsetOutOfRange",
	"ImmediateOutOfRange",
	"ImageTooLarge",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	//
	return fmt.Sprintf("Kind(%d)", uint(k))
}

// Diagnostic is a syntax error tagged with the kind of rule it violates.
type Diagnostic struct {
	Kind Kind
	source.SyntaxError
}

// New constructs a diagnostic of a given kind covering a span of a file.
func New(kind Kind, srcfile *source.File, span source.Span, msg string) Diagnostic {
	return Diagnostic{kind, *srcfile.SyntaxError(span, msg)}
}

// Wrap tags a syntax error with a given kind.
func Wrap(kind Kind, err *source.SyntaxError) Diagnostic {
	return Diagnostic{kind, *err}
}

// Error implements the error interface.
func (p *Diagnostic) Error() string {
	line, col := p.Position()
	//
	return fmt.Sprintf("%s:%d:%d: %s (%s)", p.SourceFile().Filename(), line, col, p.Message(), p.Kind)
}

// Kinds extracts the kinds of a list of diagnostics, in order.
func Kinds(diags []Diagnostic) []Kind {
	kinds := make([]Kind, len(diags))
	//
	for i, d := range diags {
		kinds[i] = d.Kind
	}
	//
	return kinds
}
