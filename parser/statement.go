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

var assignOps = map[string]bool{"=": true, "+=": true, "-=": true, "*=": true, "/=": true}

func (p *parser) parseBlock() *ast.Block {
	line := p.tok.Line
	b := &ast.Block{}
	b.SetLine(line)
	if !p.expect(token.Punct, "{") {
		return b
	}
	for !p.isPunct("}") && p.tok.Kind != token.EOF {
		if s := p.parseStmt(); s != nil {
			b.Stmts = append(b.Stmts, s)
		}
	}
	p.expect(token.Punct, "}")
	return b
}

// parseBlockOrStmt accepts either a brace block or a single bare statement
// as a block body, matching the shading language's C-like grammar.
func (p *parser) parseBlockOrStmt() *ast.Block {
	if p.isPunct("{") {
		return p.parseBlock()
	}
	line := p.tok.Line
	b := &ast.Block{}
	b.SetLine(line)
	if s := p.parseStmt(); s != nil {
		b.Stmts = append(b.Stmts, s)
	}
	return b
}

func (p *parser) parseStmt() ast.Stmt {
	line := p.tok.Line
	switch {
	case p.isPunct("{"):
		return p.parseBlock()
	case p.isKeyword("if"):
		return p.parseIf()
	case p.isKeyword("while"):
		return p.parseWhile()
	case p.isKeyword("for"):
		return p.parseFor()
	case p.isKeyword("break"):
		return p.parseBreakContinue(line, true)
	case p.isKeyword("continue"):
		return p.parseBreakContinue(line, false)
	case p.isKeyword("return"):
		return p.parseReturn(line)
	case p.isKeyword("solar"):
		return p.parseSolar(line)
	case p.isKeyword("illuminate"):
		return p.parseIlluminate(line)
	case p.isKeyword("illuminance"):
		return p.parseIlluminance(line)
	case p.isVarDeclStart():
		return p.parseVarDecl(line)
	default:
		return p.parseExprStmt(line)
	}
}

func (p *parser) isVarDeclStart() bool {
	if p.isKeyword("uniform") || p.isKeyword("varying") {
		return true
	}
	_, ok := typeKeywords[p.tok.Text]
	return ok && p.tok.Kind == token.Keyword
}

func (p *parser) parseVarDecl(line int) ast.Stmt {
	storage := value.Uniform
	if p.isKeyword("varying") {
		storage = value.Varying
		p.advance()
	} else if p.isKeyword("uniform") {
		p.advance()
	}
	t, ok := typeKeywords[p.tok.Text]
	if !ok {
		p.errorf("expected type in declaration, found %q", p.tok.Text)
		p.recover()
		return nil
	}
	p.advance()
	if p.tok.Kind != token.Ident {
		p.errorf("expected variable name, found %q", p.tok.Text)
		p.recover()
		return nil
	}
	name := p.tok.Text
	p.advance()
	decl := &ast.VarDecl{Type: t, Storage: storage, Name: name}
	decl.SetLine(line)
	if p.isPunct("=") {
		p.advance()
		decl.Init = p.parseExpr()
	}
	p.expect(token.Punct, ";")
	return decl
}

func (p *parser) parseExprStmt(line int) ast.Stmt {
	x := p.parseExpr()
	if p.tok.Kind == token.Punct && assignOps[p.tok.Text] {
		op := p.tok.Text
		p.advance()
		rhs := p.parseExpr()
		a := &ast.Assign{Op: op, Left: x, Right: rhs}
		a.SetLine(line)
		p.expect(token.Punct, ";")
		es := &ast.ExprStmt{X: a}
		es.SetLine(line)
		return es
	}
	p.expect(token.Punct, ";")
	es := &ast.ExprStmt{X: x}
	es.SetLine(line)
	return es
}

func (p *parser) parseIf() ast.Stmt {
	line := p.tok.Line
	p.advance()
	p.expect(token.Punct, "(")
	cond := p.parseExpr()
	p.expect(token.Punct, ")")
	then := p.parseBlockOrStmt()
	stmt := &ast.If{Cond: cond, Then: then}
	stmt.SetLine(line)
	if p.isKeyword("else") {
		p.advance()
		stmt.Else = p.parseBlockOrStmt()
	}
	return stmt
}

func (p *parser) parseWhile() ast.Stmt {
	line := p.tok.Line
	p.advance()
	p.expect(token.Punct, "(")
	cond := p.parseExpr()
	p.expect(token.Punct, ")")
	body := p.parseBlockOrStmt()
	stmt := &ast.While{Cond: cond, Body: body}
	stmt.SetLine(line)
	return stmt
}

func (p *parser) parseFor() ast.Stmt {
	line := p.tok.Line
	p.advance()
	p.expect(token.Punct, "(")
	var init ast.Stmt
	if !p.isPunct(";") {
		if p.isVarDeclStart() {
			init = p.parseVarDecl(p.tok.Line)
		} else {
			init = p.parseExprStmt(p.tok.Line)
		}
	} else {
		p.advance()
	}
	var cond ast.Expr
	if !p.isPunct(";") {
		cond = p.parseExpr()
	}
	p.expect(token.Punct, ";")
	var post ast.Stmt
	if !p.isPunct(")") {
		postLine := p.tok.Line
		x := p.parseExpr()
		if p.tok.Kind == token.Punct && assignOps[p.tok.Text] {
			op := p.tok.Text
			p.advance()
			rhs := p.parseExpr()
			a := &ast.Assign{Op: op, Left: x, Right: rhs}
			a.SetLine(postLine)
			es := &ast.ExprStmt{X: a}
			es.SetLine(postLine)
			post = es
		} else {
			es := &ast.ExprStmt{X: x}
			es.SetLine(postLine)
			post = es
		}
	}
	p.expect(token.Punct, ")")
	body := p.parseBlockOrStmt()
	stmt := &ast.For{Init: init, Cond: cond, Post: post, Body: body}
	stmt.SetLine(line)
	return stmt
}

func (p *parser) parseBreakContinue(line int, isBreak bool) ast.Stmt {
	p.advance()
	levels := 1
	if p.tok.Kind == token.Number {
		n, _ := strconv.Atoi(p.tok.Text)
		levels = n
		p.advance()
	}
	p.expect(token.Punct, ";")
	if isBreak {
		s := &ast.Break{Levels: levels}
		s.SetLine(line)
		return s
	}
	s := &ast.Continue{Levels: levels}
	s.SetLine(line)
	return s
}

func (p *parser) parseReturn(line int) ast.Stmt {
	p.advance()
	r := &ast.Return{}
	r.SetLine(line)
	if !p.isPunct(";") {
		r.Value = p.parseExpr()
	}
	p.expect(token.Punct, ";")
	return r
}

func (p *parser) parseSolar(line int) ast.Stmt {
	p.advance()
	s := &ast.Solar{}
	s.SetLine(line)
	if p.isPunct("(") {
		p.advance()
		if !p.isPunct(")") {
			s.Axis = p.parseExpr()
			if p.isPunct(",") {
				p.advance()
				s.Angle = p.parseExpr()
			}
		}
		p.expect(token.Punct, ")")
	}
	s.Body = p.parseBlockOrStmt()
	return s
}

func (p *parser) parseIlluminate(line int) ast.Stmt {
	p.advance()
	s := &ast.Illuminate{}
	s.SetLine(line)
	p.expect(token.Punct, "(")
	s.Position = p.parseExpr()
	if p.isPunct(",") {
		p.advance()
		s.Axis = p.parseExpr()
		p.expect(token.Punct, ",")
		s.Angle = p.parseExpr()
	}
	p.expect(token.Punct, ")")
	s.Body = p.parseBlockOrStmt()
	return s
}

func (p *parser) parseIlluminance(line int) ast.Stmt {
	p.advance()
	s := &ast.Illuminance{}
	s.SetLine(line)
	p.expect(token.Punct, "(")
	// Optional leading string category, distinguished from the required
	// position expression by a lookahead: "cat", P or just P.
	if p.tok.Kind == token.StringLit {
		s.Category = p.tok.Text
		p.advance()
		p.expect(token.Punct, ",")
	}
	s.Position = p.parseExpr()
	if p.isPunct(",") {
		p.advance()
		s.Axis = p.parseExpr()
		p.expect(token.Punct, ",")
		s.Angle = p.parseExpr()
	}
	p.expect(token.Punct, ")")
	s.Body = p.parseBlockOrStmt()
	return s
}
