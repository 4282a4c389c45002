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
	"math"
	"strconv"
	"strings"

	"github.com/consensys/go-armasm/pkg/armasm/ast"
	"github.com/consensys/go-armasm/pkg/armasm/diag"
	"github.com/consensys/go-armasm/pkg/util/source/lex"
)

// Parse an expression.  Multiplication binds tighter than addition and
// subtraction, and all binary operators associate to the left.
func (p *Parser) parseExpr() (ast.Expr, []diag.Diagnostic) {
	return p.parseBinary(p.parseTerm, PLUS, MINUS)
}

func (p *Parser) parseTerm() (ast.Expr, []diag.Diagnostic) {
	return p.parseBinary(p.parseUnary, STAR)
}

func (p *Parser) parseBinary(operand func() (ast.Expr, []diag.Diagnostic), ops ...uint) (ast.Expr, []diag.Diagnostic) {
	var (
		start     = p.index
		lhs, errs = operand()
	)
	//
	for len(errs) == 0 && p.followsOneOf(ops...) {
		var rhs ast.Expr
		//
		op := p.next()
		//
		if rhs, errs = operand(); len(errs) > 0 {
			return nil, errs
		}
		//
		lhs = &ast.Binary{Op: binaryOp(op.Kind), Lhs: lhs, Rhs: rhs}
		p.srcmap.Put(lhs, p.spanOf(start, p.index-1))
	}
	//
	return lhs, errs
}

func (p *Parser) parseUnary() (ast.Expr, []diag.Diagnostic) {
	start := p.index
	//
	if p.match(PLUS) {
		return p.parseUnary()
	} else if p.match(MINUS) {
		arg, errs := p.parseUnary()
		if len(errs) > 0 {
			return nil, errs
		}
		//
		expr := &ast.Negate{Arg: arg}
		p.srcmap.Put(expr, p.spanOf(start, p.index-1))
		//
		return expr, nil
	}
	//
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ast.Expr, []diag.Diagnostic) {
	var (
		start     = p.index
		lookahead = p.lookahead()
		expr      ast.Expr
		errs      []diag.Diagnostic
	)
	//
	switch lookahead.Kind {
	case NUMBER:
		expr, errs = p.parseNumber(p.next())
	case CHARACTER:
		expr, errs = p.parseCharacter(p.next())
	case IDENTIFIER:
		expr = &ast.Symbol{Name: p.string(p.next())}
	case LCURLY:
		expr, errs = p.parseBoolean()
	case STRING:
		return nil, p.syntaxErrors(diag.MalformedOperand, lookahead, "string not permitted here")
	default:
		return nil, p.operandErrors(diag.MalformedOperand, "expected expression")
	}
	//
	if len(errs) > 0 {
		return nil, errs
	}
	//
	p.srcmap.Put(expr, p.spanOf(start, p.index-1))
	//
	return expr, nil
}

// Parse "{TRUE}" or "{FALSE}".
func (p *Parser) parseBoolean() (ast.Expr, []diag.Diagnostic) {
	p.next()
	//
	lookahead := p.lookahead()
	name := strings.ToUpper(p.string(lookahead))
	//
	if lookahead.Kind != IDENTIFIER || (name != "TRUE" && name != "FALSE") {
		return nil, p.operandErrors(diag.MalformedOperand, "expected {TRUE} or {FALSE}")
	}
	//
	p.next()
	//
	if _, errs := p.expect(RCURLY, "\"}\""); len(errs) > 0 {
		return nil, errs
	}
	//
	if name == "TRUE" {
		return &ast.Number{Value: 1}, nil
	}
	//
	return &ast.Number{Value: 0}, nil
}

// Parse a number literal, which is decimal, hexadecimal ("0x" or "&" prefix),
// binary ("0b" prefix) or in an explicit base ("base_digits").
func (p *Parser) parseNumber(token lex.Token) (ast.Expr, []diag.Diagnostic) {
	var (
		text   = p.string(token)
		digits = text
		base   = 10
	)
	//
	switch {
	case len(text) > 2 && (text[:2] == "0x" || text[:2] == "0X"):
		digits, base = text[2:], 16
	case strings.HasPrefix(text, "&"):
		digits, base = text[1:], 16
	case len(text) > 2 && (text[:2] == "0b" || text[:2] == "0B"):
		digits, base = text[2:], 2
	case strings.Contains(text, "_"):
		prefix, rest, _ := strings.Cut(text, "_")
		//
		b, err := strconv.Atoi(prefix)
		if err != nil || b < 2 || b > 36 {
			return nil, p.syntaxErrors(diag.MalformedOperand, token, "invalid number base")
		}
		//
		digits, base = rest, b
	}
	//
	value, err := strconv.ParseUint(digits, base, 64)
	if err != nil || value > math.MaxInt64 {
		return nil, p.syntaxErrors(diag.MalformedOperand, token, "invalid number")
	}
	//
	return &ast.Number{Value: int64(value)}, nil
}

// Parse a character literal, such as 'a' or '\n'.
func (p *Parser) parseCharacter(token lex.Token) (ast.Expr, []diag.Diagnostic) {
	text := p.string(token)
	//
	runes, ok := unescape(text[1 : len(text)-1])
	if !ok || len(runes) != 1 {
		return nil, p.syntaxErrors(diag.MalformedOperand, token, "invalid character")
	}
	//
	return &ast.Number{Value: int64(runes[0])}, nil
}

// Parse a string literal, such as "hello\n".
func (p *Parser) parseString(token lex.Token) (*ast.String, []diag.Diagnostic) {
	text := p.string(token)
	//
	runes, ok := unescape(text[1 : len(text)-1])
	if !ok {
		return nil, p.syntaxErrors(diag.MalformedOperand, token, "invalid escape in string")
	}
	//
	str := &ast.String{Value: string(runes)}
	p.srcmap.Put(str, token.Span)
	//
	return str, nil
}

// Check whether the lookahead is any of the given kinds.
func (p *Parser) followsOneOf(kinds ...uint) bool {
	lookahead := p.lookahead()
	//
	for _, kind := range kinds {
		if lookahead.Kind == kind {
			return true
		}
	}
	//
	return false
}

func binaryOp(kind uint) ast.BinaryOp {
	switch kind {
	case PLUS:
		return ast.ADD
	case MINUS:
		return ast.SUB
	case STAR:
		return ast.MUL
	default:
		panic("unreachable")
	}
}

// Process the escape sequences of a quoted literal.
func unescape(body string) ([]rune, bool) {
	var (
		runes  []rune
		escape = false
	)
	//
	for _, r := range body {
		if !escape && r == '\\' {
			escape = true
			continue
		} else if !escape {
			runes = append(runes, r)
			continue
		}
		//
		escape = false
		//
		switch r {
		case 'n':
			runes = append(runes, '\n')
		case 't':
			runes = append(runes, '\t')
		case 'r':
			runes = append(runes, '\r')
		case '0':
			runes = append(runes, 0)
		case '\\', '\'', '"':
			runes = append(runes, r)
		default:
			return nil, false
		}
	}
	//
	return runes, !escape
}
