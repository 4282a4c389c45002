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
	"github.com/consensys/go-armasm/pkg/armasm/ast"
	"github.com/consensys/go-armasm/pkg/armasm/diag"
	"github.com/consensys/go-armasm/pkg/util/source/lex"
)

func (p *Parser) parseDirective(m Mnemonic, label *ast.Label, keyword lex.Token) (ast.Statement, []diag.Diagnostic) {
	switch m.Directive {
	case "DEFB":
		return p.parseDefineData(1)
	case "DEFH":
		return p.parseDefineData(2)
	case "DEFW":
		return p.parseDefineData(4)
	case "DEFS":
		return p.parseDefineSpace()
	case "ALIGN":
		return p.parseAlign()
	case "ORIGIN":
		address, errs := p.parseExpr()
		if len(errs) > 0 {
			return nil, errs
		}
		//
		return &ast.Origin{Address: address}, nil
	case "ENTRY":
		return &ast.Entry{}, nil
	case "EQU":
		if label == nil {
			return nil, p.syntaxErrors(diag.MissingOperand, keyword, "EQU requires a label")
		}
		//
		value, errs := p.parseExpr()
		if len(errs) > 0 {
			return nil, errs
		}
		//
		return &ast.Equate{Value: value}, nil
	default:
		panic("unreachable")
	}
}

// Parse a comma separated list of values, where DEFB also permits strings.
func (p *Parser) parseDefineData(width uint) (ast.Statement, []diag.Diagnostic) {
	var (
		values []ast.Expr
		value  ast.Expr
		errs   []diag.Diagnostic
	)
	//
	for first := true; first || p.match(COMMA); first = false {
		if width == 1 && p.lookahead().Kind == STRING {
			value, errs = p.parseString(p.next())
		} else {
			value, errs = p.parseExpr()
		}
		//
		if len(errs) > 0 {
			return nil, errs
		}
		//
		values = append(values, value)
	}
	//
	return &ast.DefineData{Width: width, Values: values}, nil
}

// Parse "DEFS size{, fill}".
func (p *Parser) parseDefineSpace() (ast.Statement, []diag.Diagnostic) {
	var (
		space = &ast.DefineSpace{}
		errs  []diag.Diagnostic
	)
	//
	if space.Size, errs = p.parseExpr(); len(errs) > 0 {
		return nil, errs
	} else if p.match(COMMA) {
		if space.Fill, errs = p.parseExpr(); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	return space, nil
}

// Parse "ALIGN {boundary}".
func (p *Parser) parseAlign() (ast.Statement, []diag.Diagnostic) {
	align := &ast.Align{}
	//
	if !p.atEnd() {
		var errs []diag.Diagnostic
		//
		if align.Boundary, errs = p.parseExpr(); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	return align, nil
}
