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

// Package parser implements a hand-written recursive-descent parser that
// turns shading-language source text into an *ast.Shader, grounded on
// gapil/parser's function-per-production shape (requireX naming,
// skip-to-next-statement-terminator recovery).
package parser

import (
	"github.com/reyeslang/rsl/ast"
	"github.com/reyeslang/rsl/rslerr"
	"github.com/reyeslang/rsl/token"
)

// Parse parses a complete shader source file. It always returns the best
// syntax tree it could build (possibly with null sub-nodes where recovery
// occurred) together with the diagnostics collected; callers should treat
// a non-empty diagnostic list as a failed compile.
func Parse(filename, src string, diags *rslerr.List) *ast.Shader {
	p := &parser{filename: filename, diags: diags}
	p.lex = token.NewLexer(src, func(line int, format string, args ...interface{}) {
		p.diags.Add(line, format, args...)
	})
	p.advance()
	return p.parseShader()
}

type parser struct {
	filename string
	lex      *token.Lexer
	tok      token.Token
	diags    *rslerr.List
}

func (p *parser) advance() {
	p.tok = p.lex.Next()
}

func (p *parser) errorf(format string, args ...interface{}) {
	p.diags.Add(p.tok.Line, format, args...)
}

// expect consumes the current token if it matches (kind, text) and
// reports an error otherwise, without consuming it, so the caller can
// attempt recovery.
func (p *parser) expect(kind token.Kind, text string) bool {
	if p.tok.Kind == kind && p.tok.Text == text {
		p.advance()
		return true
	}
	p.errorf("expected %q, found %q", text, p.tok.Text)
	return false
}

func (p *parser) isPunct(text string) bool { return p.tok.Kind == token.Punct && p.tok.Text == text }
func (p *parser) isKeyword(text string) bool {
	return p.tok.Kind == token.Keyword && p.tok.Text == text
}

// recover skips tokens until a statement terminator (';' or '}') or EOF,
// the usual panic-mode recovery for a recursive-descent parser.
func (p *parser) recover() {
	for p.tok.Kind != token.EOF {
		if p.isPunct(";") {
			p.advance()
			return
		}
		if p.isPunct("}") {
			return
		}
		p.advance()
	}
}

var shaderKinds = map[string]bool{
	"surface": true, "displacement": true, "light": true, "volume": true, "imager": true,
}

func (p *parser) parseShader() *ast.Shader {
	line := p.tok.Line
	if p.tok.Kind != token.Keyword || !shaderKinds[p.tok.Text] {
		p.errorf("expected shader kind (surface, displacement, light, volume, imager), found %q", p.tok.Text)
		return nil
	}
	kind := p.tok.Text
	p.advance()

	if p.tok.Kind != token.Ident {
		p.errorf("expected shader name, found %q", p.tok.Text)
		return nil
	}
	name := p.tok.Text
	p.advance()

	sh := &ast.Shader{Kind: kind, Name: name}
	sh.SetLine(line)

	if !p.expect(token.Punct, "(") {
		return sh
	}
	for !p.isPunct(")") && p.tok.Kind != token.EOF {
		if param := p.parseParam(); param != nil {
			sh.Parameters = append(sh.Parameters, param)
		}
		if p.isPunct(",") || p.isPunct(";") {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.Punct, ")")

	if !p.expect(token.Punct, "{") {
		return sh
	}
	for !p.isPunct("}") && p.tok.Kind != token.EOF {
		if s := p.parseStmt(); s != nil {
			sh.Body = append(sh.Body, s)
		}
	}
	p.expect(token.Punct, "}")
	return sh
}
