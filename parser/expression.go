// Copyright 2017 The RSL Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parser

import (
	"strconv"

	"github.com/reyeslang/rsl/ast"
	"github.com/reyeslang/rsl/token"
	"github.com/reyeslang/rsl/value"
)

// typeKeywords maps the type-name keywords to their value.Type, used both
// for parameter declarations and typecast expressions.
var typeKeywords = map[string]value.Type{
	"float": value.Float, "integer": value.Integer, "string": value.String,
	"color": value.Color, "point": value.Point, "vector": value.Vector,
	"normal": value.Normal, "matrix": value.Matrix,
}

func (p *parser) parseParam() *ast.Param {
	line := p.tok.Line
	storage := value.Uniform
	if p.isKeyword("varying") {
		storage = value.Varying
		p.advance()
	} else if p.isKeyword("uniform") {
		p.advance()
	}

	t, ok := typeKeywords[p.tok.Text]
	if p.tok.Kind != token.Keyword || !ok {
		p.errorf("expected parameter type, found %q", p.tok.Text)
		p.recover()
		return nil
	}
	p.advance()

	if p.tok.Kind != token.Ident {
		p.errorf("expected parameter name, found %q", p.tok.Text)
		return nil
	}
	name := p.tok.Text
	p.advance()

	param := &ast.Param{Type: t, Storage: storage, Name: name}
	param.SetLine(line)

	if !p.expect(token.Punct, "=") {
		p.errorf("parameter %q requires a default value", name)
		return param
	}
	param.Default = p.parseExpr()
	return param
}

// Operator precedence, lowest to highest.
var precedence = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3, "!=": 3,
	"<": 4, "<=": 4, ">": 4, ">=": 4,
	"+": 5, "-": 5,
	"*": 6, "/": 6,
}

func (p *parser) parseExpr() ast.Expr {
	return p.parseBinary(1)
}

func (p *parser) parseBinary(minPrec int) ast.Expr {
	left := p.parseUnary()
	for {
		if p.tok.Kind != token.Punct {
			return left
		}
		prec, ok := precedence[p.tok.Text]
		if !ok || prec < minPrec {
			return left
		}
		op := p.tok.Text
		line := p.tok.Line
		p.advance()
		right := p.parseBinary(prec + 1)
		bin := &ast.Binary{Op: op, Left: left, Right: right}
		bin.SetLine(line)
		left = bin
	}
}

func (p *parser) parseUnary() ast.Expr {
	if p.isPunct("-") || p.isPunct("!") {
		op := p.tok.Text
		line := p.tok.Line
		p.advance()
		operand := p.parseUnary()
		u := &ast.Unary{Op: op, Operand: operand}
		u.SetLine(line)
		return u
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() ast.Expr {
	x := p.parsePrimary()
	// Assignment binds at statement level, parsed in statement.go via
	// parseAssignOrExprStmt; expressions themselves never contain '='.
	return x
}

func (p *parser) parsePrimary() ast.Expr {
	line := p.tok.Line

	if p.isPunct("(") {
		p.advance()
		first := p.parseExpr()
		if p.isPunct(",") {
			p.advance()
			second := p.parseExpr()
			p.expect(token.Punct, ",")
			third := p.parseExpr()
			p.expect(token.Punct, ")")
			tr := &ast.Triple{X: first, Y: second, Z: third}
			tr.SetLine(line)
			return tr
		}
		p.expect(token.Punct, ")")
		return first
	}

	if t, ok := typeKeywords[p.tok.Text]; ok && p.tok.Kind == token.Keyword {
		p.advance()
		space := ""
		hasFrom := false
		from := ""
		if p.tok.Kind == token.StringLit {
			space = p.tok.Text
			p.advance()
			if p.tok.Kind == token.StringLit {
				hasFrom = true
				from = space
				space = p.tok.Text
				p.advance()
			}
		}
		operand := p.parseUnary()
		tc := &ast.Typecast{Type: t, Space: space, HasFrom: hasFrom, From: from, Operand: operand}
		tc.SetLine(line)
		return tc
	}

	switch p.tok.Kind {
	case token.Number:
		v, _ := strconv.ParseFloat(p.tok.Text, 64)
		p.advance()
		n := &ast.NumberLit{Value: v}
		n.SetLine(line)
		return n
	case token.StringLit:
		s := &ast.StringLit{Value: p.tok.Text}
		s.SetLine(line)
		p.advance()
		return s
	case token.Ident:
		name := p.tok.Text
		p.advance()
		if p.isPunct("(") {
			return p.parseCallArgs(name, line)
		}
		id := &ast.Ident{Name: name}
		id.SetLine(line)
		return id
	default:
		p.errorf("unexpected token %q in expression", p.tok.Text)
		p.advance()
		bad := &ast.NumberLit{Value: 0}
		bad.SetLine(line)
		return bad
	}
}

func (p *parser) parseCallArgs(name string, line int) ast.Expr {
	p.advance() // '('
	call := &ast.Call{Name: name}
	call.SetLine(line)
	for !p.isPunct(")") && p.tok.Kind != token.EOF {
		call.Args = append(call.Args, p.parseExpr())
		if p.isPunct(",") {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.Punct, ")")
	return call
}
