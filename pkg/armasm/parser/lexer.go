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
	"iter"

	"github.com/consensys/go-armasm/pkg/util/source"
	"github.com/consensys/go-armasm/pkg/util/source/lex"
)

// END_OF signals "end of file"
const END_OF uint = 0

// WHITESPACE signals spaces and tabs (but not line breaks)
const WHITESPACE uint = 1

// COMMENT signals "; ... \n"
const COMMENT uint = 2

// NEWLINE signals a line break, which terminates a statement
const NEWLINE uint = 3

// NUMBER signals an integer literal
const NUMBER uint = 4

// CHARACTER signals a quoted character literal
const CHARACTER uint = 5

// STRING signals a quoted string
const STRING uint = 6

// IDENTIFIER signals a mnemonic, register, directive or symbol name
const IDENTIFIER uint = 7

// HASH signals "#"
const HASH uint = 8

// EQUALS signals "="
const EQUALS uint = 9

// COMMA signals ","
const COMMA uint = 10

// PLUS signals "+"
const PLUS uint = 11

// MINUS signals "-"
const MINUS uint = 12

// STAR signals "*"
const STAR uint = 13

// LCURLY signals "{"
const LCURLY uint = 14

// RCURLY signals "}"
const RCURLY uint = 15

// LSQUARE signals "["
const LSQUARE uint = 16

// RSQUARE signals "]"
const RSQUARE uint = 17

// BANG signals "!"
const BANG uint = 18

// CARET signals "^"
const CARET uint = 19

// COLON signals ":"
const COLON uint = 20

// INVALID signals text which matches no other rule
const INVALID uint = 21

// Rule for describing whitespace
var whitespace lex.Scanner[rune] = lex.Many(lex.Or(lex.Unit(' '), lex.Unit('\t'), lex.Unit('\r')))

// Rule for describing numbers.  A number is hexadecimal ("0x2A" or "&2A"),
// binary ("0b101"), in an explicit base ("8_52") or decimal.
var (
	digit = lex.Within('0', '9')

	hexDigit = lex.Or(
		lex.Within('0', '9'),
		lex.Within('A', 'F'),
		lex.Within('a', 'f'),
	)
	alphaNumeric = lex.Or(
		lex.Within('0', '9'),
		lex.Within('A', 'Z'),
		lex.Within('a', 'z'),
	)

	number = lex.Or(
		lex.SequenceNullableLast(lex.Or(lex.String("0x"), lex.String("0X")), hexDigit, lex.Many(hexDigit)),
		lex.SequenceNullableLast(lex.Unit('&'), hexDigit, lex.Many(hexDigit)),
		lex.SequenceNullableLast(lex.Or(lex.String("0b"), lex.String("0B")), lex.Within('0', '1'),
			lex.Many(lex.Within('0', '1'))),
		lex.Sequence(lex.Many(digit), lex.Unit('_'), lex.Many(alphaNumeric)),
		lex.Many(digit),
	)
)

var identifierStart lex.Scanner[rune] = lex.Or(
	lex.Unit('_'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z'))

var identifierRest lex.Scanner[rune] = lex.Many(lex.Or(
	lex.Unit('_'),
	lex.Within('0', '9'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z')))

// Rule for describing identifiers
var identifier lex.Scanner[rune] = lex.And(identifierStart, identifierRest)

// Comments start with ';' and run to the end of the line.
var comment lex.Scanner[rune] = lex.And(lex.Unit(';'), lex.Until('\n'))

// lexing rules
var rules []lex.LexRule[rune] = []lex.LexRule[rune]{
	lex.Rule(comment, COMMENT),
	lex.Rule(lex.Unit('\n'), NEWLINE),
	lex.Rule(whitespace, WHITESPACE),
	lex.Rule(quoted('\''), CHARACTER),
	lex.Rule(quoted('"'), STRING),
	lex.Rule(number, NUMBER),
	lex.Rule(identifier, IDENTIFIER),
	lex.Rule(lex.Unit('#'), HASH),
	lex.Rule(lex.Unit('='), EQUALS),
	lex.Rule(lex.Unit(','), COMMA),
	lex.Rule(lex.Unit('+'), PLUS),
	lex.Rule(lex.Unit('-'), MINUS),
	lex.Rule(lex.Unit('*'), STAR),
	lex.Rule(lex.Unit('{'), LCURLY),
	lex.Rule(lex.Unit('}'), RCURLY),
	lex.Rule(lex.Unit('['), LSQUARE),
	lex.Rule(lex.Unit(']'), RSQUARE),
	lex.Rule(lex.Unit('!'), BANG),
	lex.Rule(lex.Unit('^'), CARET),
	lex.Rule(lex.Unit(':'), COLON),
	lex.Rule(lex.Eof[rune](), END_OF),
}

// Lex a given source file into a lazy sequence of tokens, excluding
// whitespace.  The sequence always ends with an END_OF token, and lexing never
// fails: unrecognised text becomes INVALID tokens for the parser to report.
// The sequence can be iterated any number of times.
func Lex(srcfile *source.File) iter.Seq[lex.Token] {
	tokens := lex.Tokens(srcfile.Contents(), INVALID, rules...)
	//
	return func(yield func(lex.Token) bool) {
		for t := range tokens {
			if t.Kind != WHITESPACE && !yield(t) {
				return
			}
		}
	}
}

// Scan a quoted literal, such as a string or character, where a backslash
// escapes the following character.  Literals cannot span lines.
func quoted(delimiter rune) lex.Scanner[rune] {
	escape := lex.Sequence(lex.Unit('\\'), lex.Not('\n'))
	//
	return lex.Delimited(delimiter, lex.Or(escape, lex.Not(delimiter, '\\', '\n')), delimiter)
}
