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

// Package ast defines the syntax tree produced by package parser:
// shader declarations, parameters, statements, and expressions. Node
// shapes follow gapil/ast's marker-method convention (isNode()) so every
// node can be stored behind the Node interface without a type switch at
// construction time.
package ast

import "github.com/reyeslang/rsl/value"

// Node is implemented by every syntax tree node.
type Node interface {
	Line() int
	isNode()
}

type pos struct{ line int }

func (p pos) Line() int { return p.line }

// SetLine sets the source line recorded for this node. Called once by the
// parser immediately after construction.
func (p *pos) SetLine(line int) { p.line = line }

// Shader is the root node: one compiled source file declares exactly one
// shader.
type Shader struct {
	pos
	Kind       string // "surface", "displacement", "light", "volume", "imager"
	Name       string
	Parameters []*Param
	Body       []Stmt
}

func (*Shader) isNode() {}

// Param is one shader parameter: a type, optional storage qualifier, name,
// and a required default-value expression.
type Param struct {
	pos
	Type    value.Type
	Storage value.Storage // Uniform unless explicitly "varying"
	Name    string
	Default Expr
}

func (*Param) isNode() {}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	isExpr()
}

type exprBase struct{ pos }

func (exprBase) isExpr() {}

// Ident references a named symbol.
type Ident struct {
	exprBase
	Name string
}

// NumberLit is a numeric literal (always typed float by the analyzer
// unless consumed by an enclosing typecast).
type NumberLit struct {
	exprBase
	Value float64
}

// StringLit is a string literal.
type StringLit struct {
	exprBase
	Value string
}

// Triple is a (x, y, z) literal; the analyzer assigns it color/point/
// vector/normal depending on the enclosing cast, defaulting to color.
type Triple struct {
	exprBase
	X, Y, Z Expr
}

// Typecast is `type-keyword [ "space" ] expr`, e.g. `vector "world" (0,0,1)`.
type Typecast struct {
	exprBase
	Type    value.Type
	Space   string // coordinate system name, empty if omitted
	HasFrom bool
	From    string // "from" space, only set by the (from, to, matrix) overloads
	Operand Expr
}

// Binary is a binary operator expression.
type Binary struct {
	exprBase
	Op    string
	Left  Expr
	Right Expr
}

// Unary is a unary operator expression (only "-" and "!" exist).
type Unary struct {
	exprBase
	Op      string
	Operand Expr
}

// Call is a function call: intrinsic or, after resolution, user-visible
// name. Args preserves source order.
type Call struct {
	exprBase
	Name string
	Args []Expr
}

// Assign is an assignment expression used as a statement
// (`lhs op= rhs`); Op is "=", "+=", "-=", "*=", or "/=".
type Assign struct {
	exprBase
	Op    string
	Left  Expr
	Right Expr
}

func (*Ident) isNode()     {}
func (*NumberLit) isNode() {}
func (*StringLit) isNode() {}
func (*Triple) isNode()    {}
func (*Typecast) isNode()  {}
func (*Binary) isNode()    {}
func (*Unary) isNode()     {}
func (*Call) isNode()      {}
func (*Assign) isNode()    {}
