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
	"fmt"
	"iter"
	"strings"

	"github.com/consensys/go-armasm/pkg/armasm/ast"
	"github.com/consensys/go-armasm/pkg/armasm/diag"
	"github.com/consensys/go-armasm/pkg/util/source"
	"github.com/consensys/go-armasm/pkg/util/source/lex"
)

// Parse accepts a given source file representing an assembly language
// program, and parses it into a sequence of lines.  Syntax errors in one line
// do not prevent subsequent lines from being parsed, hence all syntax errors
// of the file are reported together.  Lines with errors are omitted from the
// result.  The returned source map records the span of every label,
// statement and expression.
func Parse(srcfile *source.File) ([]ast.Line, *source.Map[any], []diag.Diagnostic) {
	var (
		parser = NewParser(srcfile)
		lines  []ast.Line
		errors []diag.Diagnostic
	)
	//
	for line, errs := range parser.Lines() {
		if len(errs) > 0 {
			errors = append(errors, errs...)
		} else {
			lines = append(lines, line)
		}
	}
	//
	return lines, parser.SourceMap(), errors
}

// ============================================================================
// Parser
// ============================================================================

// Parser is a parser for assembly language, which parses one line at a time.
type Parser struct {
	srcfile *source.File
	// Source mapping
	srcmap *source.Map[any]
	// Tokens of the current line, always ending in NEWLINE or END_OF.
	tokens []lex.Token
	// Position within the tokens
	index int
}

// NewParser constructs a new parser for a given source file.
func NewParser(srcfile *source.File) *Parser {
	// Construct (initially empty) source mapping
	srcmap := source.NewSourceMap[any](srcfile)
	//
	return &Parser{srcfile, srcmap, nil, 0}
}

// SourceMap returns the source map populated by this parser.
func (p *Parser) SourceMap() *source.Map[any] {
	return p.srcmap
}

// Lines returns a lazy sequence of the lines of the source file, each paired
// with the syntax errors found on it.  Tokens are pulled from the lexer one
// line at a time.
func (p *Parser) Lines() iter.Seq2[ast.Line, []diag.Diagnostic] {
	return func(yield func(ast.Line, []diag.Diagnostic) bool) {
		next, stop := iter.Pull(Lex(p.srcfile))
		defer stop()
		//
		for {
			p.tokens, p.index = p.tokens[:0], 0
			// Read tokens up to the end of this line
			for {
				token, ok := next()
				if !ok {
					return
				}
				//
				p.tokens = append(p.tokens, token)
				//
				if token.Kind == NEWLINE || token.Kind == END_OF {
					break
				}
			}
			// A final line holding nothing but the end of file is not a line.
			if len(p.tokens) == 1 && p.tokens[0].Kind == END_OF {
				return
			}
			//
			if !yield(p.parseLine()) {
				return
			}
		}
	}
}

func (p *Parser) parseLine() (ast.Line, []diag.Diagnostic) {
	var (
		line   ast.Line
		errors []diag.Diagnostic
	)
	// Invalid tokens make the whole line meaningless.
	for _, token := range p.tokens {
		if token.Kind == INVALID {
			msg := fmt.Sprintf("unrecognised text \"%s\"", p.string(token))
			errors = append(errors, p.syntaxErrors(diag.InvalidToken, token, msg)...)
		}
	}
	//
	if len(errors) > 0 {
		return line, errors
	}
	// Parse optional label
	if p.lookahead().Kind == IDENTIFIER {
		if _, ok := ParseMnemonic(p.string(p.lookahead())); !ok {
			token := p.next()
			line.Label = &ast.Label{Name: p.string(token)}
			p.srcmap.Put(line.Label, token.Span)
			p.match(COLON)
		}
	}
	// Parse optional statement
	if p.lookahead().Kind == IDENTIFIER {
		if line.Statement, errors = p.parseStatement(line.Label); len(errors) > 0 {
			return line, errors
		}
	}
	// Parse optional comment
	if p.lookahead().Kind == COMMENT {
		line.Comment = strings.TrimPrefix(p.string(p.next()), ";")
	}
	// Check nothing else remains
	if lookahead := p.lookahead(); lookahead.Kind != NEWLINE && lookahead.Kind != END_OF {
		return line, p.syntaxErrors(diag.UnexpectedToken, lookahead, "unexpected token")
	}
	//
	return line, nil
}

func (p *Parser) parseStatement(label *ast.Label) (ast.Statement, []diag.Diagnostic) {
	var (
		start    = p.index
		token    = p.next()
		stmt     ast.Statement
		errs     []diag.Diagnostic
		name     = p.string(token)
		mnemonic Mnemonic
		ok       bool
	)
	//
	if mnemonic, ok = ParseMnemonic(name); !ok {
		return nil, p.syntaxErrors(diag.UnexpectedToken, token, fmt.Sprintf("unknown instruction \"%s\"", name))
	}
	//
	switch mnemonic.Class {
	case DATA_PROCESSING:
		stmt, errs = p.parseDataProcessing(mnemonic)
	case SHIFT:
		stmt, errs = p.parseShift(mnemonic)
	case ROTATE_EXTEND:
		stmt, errs = p.parseRotateExtend(mnemonic)
	case NO_OPERATION:
		stmt = p.noOperation(mnemonic)
	case BRANCH:
		stmt, errs = p.parseBranch(mnemonic)
	case LOAD_STORE:
		stmt, errs = p.parseLoadStore(mnemonic)
	case LOAD_STORE_MULTIPLE:
		stmt, errs = p.parseLoadStoreMultiple(mnemonic)
	case STACK:
		stmt, errs = p.parseStack(mnemonic)
	case SUPERVISOR_CALL:
		stmt, errs = p.parseSupervisorCall(mnemonic)
	case LOAD_ADDRESS:
		stmt, errs = p.parseLoadAddress(mnemonic)
	case DIRECTIVE:
		stmt, errs = p.parseDirective(mnemonic, label, token)
	default:
		panic("unreachable")
	}
	//
	if len(errs) > 0 {
		return nil, errs
	}
	// Record statement span for later error reporting
	p.srcmap.Put(stmt, p.spanOf(start, p.index-1))
	//
	return stmt, nil
}

// ============================================================================
// Helpers
// ============================================================================

// Get the text representing the given token as a string.
func (p *Parser) string(token lex.Token) string {
	return p.srcfile.Text(token.Span)
}

// Lookahead returns the next token.  This must exist because every line ends
// with either NEWLINE or END_OF.
func (p *Parser) lookahead() lex.Token {
	return p.tokens[p.index]
}

// Next returns the next token and advances past it, though never beyond the
// end of the line.
func (p *Parser) next() lex.Token {
	token := p.tokens[p.index]
	//
	if p.index+1 < len(p.tokens) {
		p.index++
	}
	//
	return token
}

// Expect reurns an arror if the next token is not what was expected.
func (p *Parser) expect(kind uint, what string) (lex.Token, []diag.Diagnostic) {
	lookahead := p.lookahead()
	//
	if lookahead.Kind != kind {
		return lookahead, p.operandErrors(diag.UnexpectedToken, fmt.Sprintf("expected %s", what))
	}
	//
	return p.next(), nil
}

// Match attempts to match the given token.
func (p *Parser) match(kind uint) bool {
	if p.lookahead().Kind == kind {
		p.next()
		return true
	}
	//
	return false
}

// Check whether the end of the current statement has been reached.
func (p *Parser) atEnd() bool {
	switch p.lookahead().Kind {
	case NEWLINE, END_OF, COMMENT:
		return true
	default:
		return false
	}
}

func (p *Parser) spanOf(firstToken, lastToken int) source.Span {
	start := p.tokens[firstToken].Span.Start()
	end := p.tokens[max(firstToken, lastToken)].Span.End()
	//
	return source.NewSpan(start, end)
}

// Report an error at the lookahead, where running out of operands is reported
// as such regardless of the given kind.
func (p *Parser) operandErrors(kind diag.Kind, msg string) []diag.Diagnostic {
	if p.atEnd() {
		return p.syntaxErrors(diag.MissingOperand, p.lookahead(), "missing operand")
	}
	//
	return p.syntaxErrors(kind, p.lookahead(), msg)
}

func (p *Parser) syntaxErrors(kind diag.Kind, token lex.Token, msg string) []diag.Diagnostic {
	return []diag.Diagnostic{diag.New(kind, p.srcfile, token.Span, msg)}
}
