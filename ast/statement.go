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

package ast

import "github.com/reyeslang/rsl/value"

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	isStmt()
}

type stmtBase struct{ pos }

func (stmtBase) isStmt() {}

// Block is a brace-delimited statement sequence introducing a new scope.
type Block struct {
	stmtBase
	Stmts []Stmt
}

// VarDecl declares a local variable, optionally with an initializer.
type VarDecl struct {
	stmtBase
	Type    value.Type
	Storage value.Storage
	Name    string
	Init    Expr // nil if uninitialized
}

// ExprStmt wraps an expression (typically an Assign or Call) used as a
// statement.
type ExprStmt struct {
	stmtBase
	X Expr
}

// If is an if/else statement.
type If struct {
	stmtBase
	Cond Expr
	Then *Block
	Else *Block // nil if no else clause
}

// While is a while loop.
type While struct {
	stmtBase
	Cond Expr
	Body *Block
}

// For is a for loop, desugared by the code generator to init + while.
type For struct {
	stmtBase
	Init Stmt // may be nil
	Cond Expr
	Post Stmt // may be nil
	Body *Block
}

// Break exits Levels enclosing loops (default 1).
type Break struct {
	stmtBase
	Levels int
}

// Continue restarts Levels enclosing loops (default 1).
type Continue struct {
	stmtBase
	Levels int
}

// Return exits the current function/shader body.
type Return struct {
	stmtBase
	Value Expr // nil for a bare return
}

// Solar is `solar([axis [, angle]]) { body }`.
type Solar struct {
	stmtBase
	Axis  Expr // nil if omitted (defaults to incident direction)
	Angle Expr // nil if omitted
	Body  *Block
}

// Illuminate is `illuminate(P [, axis, angle]) { body }`.
type Illuminate struct {
	stmtBase
	Position Expr
	Axis     Expr // nil if omitted
	Angle    Expr // nil if omitted
	Body     *Block
}

// Illuminance is `illuminance([category,] P [, axis, angle]) { body }`.
type Illuminance struct {
	stmtBase
	Category string // empty if omitted
	Position Expr
	Axis     Expr // nil if omitted
	Angle    Expr // nil if omitted
	Body     *Block
}

func (*Block) isNode()       {}
func (*VarDecl) isNode()     {}
func (*ExprStmt) isNode()    {}
func (*If) isNode()          {}
func (*While) isNode()       {}
func (*For) isNode()         {}
func (*Break) isNode()       {}
func (*Continue) isNode()    {}
func (*Return) isNode()      {}
func (*Solar) isNode()       {}
func (*Illuminate) isNode()  {}
func (*Illuminance) isNode() {}
