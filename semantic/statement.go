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

package semantic

import (
	"strings"

	"github.com/reyeslang/rsl/ast"
	"github.com/reyeslang/rsl/symbol"
	"github.com/reyeslang/rsl/value"
)

func (a *analyzer) analyzeStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		a.analyzeStmt(s)
	}
}

func (a *analyzer) analyzeBlock(b *ast.Block) {
	a.table.Push(false)
	a.analyzeStmts(b.Stmts)
	a.table.Pop()
}

func (a *analyzer) analyzeStmt(s ast.Stmt) {
	switch x := s.(type) {
	case *ast.Block:
		a.analyzeBlock(x)
	case *ast.VarDecl:
		a.analyzeVarDecl(x)
	case *ast.ExprStmt:
		a.analyzeExpr(x.X)
	case *ast.If:
		a.analyzeIf(x)
	case *ast.While:
		a.analyzeExpr(x.Cond)
		a.loopDepth++
		a.analyzeBlock(x.Body)
		a.loopDepth--
	case *ast.For:
		a.analyzeFor(x)
	case *ast.Break:
		a.checkLoopLevels(x.Line(), "break", x.Levels)
	case *ast.Continue:
		a.checkLoopLevels(x.Line(), "continue", x.Levels)
	case *ast.Return:
		if x.Value != nil {
			a.analyzeExpr(x.Value)
		}
	case *ast.Solar:
		a.analyzeSolar(x)
	case *ast.Illuminate:
		a.analyzeIlluminate(x)
	case *ast.Illuminance:
		a.analyzeIlluminance(x)
	default:
		a.errorf(s.Line(), "internal: unhandled statement node %T", s)
	}
}

func (a *analyzer) analyzeVarDecl(x *ast.VarDecl) {
	if x.Init != nil {
		initType, initStorage := a.analyzeExpr(x.Init)
		if !assignable(initType, x.Type) {
			a.errorf(x.Line(), "variable %q declared %s but initialized with %s", x.Name, x.Type, initType)
		}
		if x.Storage == value.Uniform && initStorage == value.Varying {
			a.errorf(x.Line(), "cannot initialize uniform variable %q with a varying value", x.Name)
		}
	}
	sym := &symbol.Symbol{Name: x.Name, Kind: symbol.Variable, Type: x.Type, Storage: x.Storage}
	if !a.table.Declare(sym) {
		a.errorf(x.Line(), "variable %q redeclared in this scope", x.Name)
	}
	a.info.VarSyms[x] = sym
}

func (a *analyzer) analyzeIf(x *ast.If) {
	a.analyzeExpr(x.Cond)
	a.analyzeBlock(x.Then)
	if x.Else != nil {
		a.analyzeBlock(x.Else)
	}
}

func (a *analyzer) analyzeFor(x *ast.For) {
	a.table.Push(false)
	if x.Init != nil {
		a.analyzeStmt(x.Init)
	}
	if x.Cond != nil {
		a.analyzeExpr(x.Cond)
	}
	a.loopDepth++
	a.analyzeBlock(x.Body)
	if x.Post != nil {
		a.analyzeStmt(x.Post)
	}
	a.loopDepth--
	a.table.Pop()
}

func (a *analyzer) checkLoopLevels(line int, keyword string, levels int) {
	if levels < 1 {
		a.errorf(line, "%s level must be at least 1", keyword)
		return
	}
	if levels > a.loopDepth {
		title := strings.ToUpper(keyword[:1]) + keyword[1:]
		if a.loopDepth == 0 {
			a.errorf(line, "%s outside of a loop", title)
			return
		}
		a.errorf(line, "%s to a level outside of a loop", title)
	}
}

// analyzeLightHeader analyzes the position/axis/angle expressions of
// solar/illuminate/illuminance, which are evaluated in the scope *outside*
// the statement's own light scope (they may not reference L/Cl/Ol/Ps).
func (a *analyzer) analyzeLightHeader(exprs ...ast.Expr) {
	for _, e := range exprs {
		if e != nil {
			a.analyzeExpr(e)
		}
	}
}

func (a *analyzer) pushLightScope(withPs bool) {
	a.table.Push(true)
	a.table.Declare(&symbol.Symbol{Name: "L", Kind: symbol.Variable, Type: value.Vector, Storage: value.Varying})
	a.table.Declare(&symbol.Symbol{Name: "Cl", Kind: symbol.Variable, Type: value.Color, Storage: value.Varying})
	a.table.Declare(&symbol.Symbol{Name: "Ol", Kind: symbol.Variable, Type: value.Color, Storage: value.Varying})
	if withPs {
		a.table.Declare(&symbol.Symbol{Name: "Ps", Kind: symbol.Variable, Type: value.Point, Storage: value.Varying})
	}
}

func (a *analyzer) analyzeSolar(x *ast.Solar) {
	a.analyzeLightHeader(x.Axis, x.Angle)
	a.pushLightScope(false)
	a.analyzeBlock(x.Body)
	a.table.Pop()
}

func (a *analyzer) analyzeIlluminate(x *ast.Illuminate) {
	a.analyzeLightHeader(x.Position, x.Axis, x.Angle)
	a.pushLightScope(false)
	a.analyzeBlock(x.Body)
	a.table.Pop()
}

func (a *analyzer) analyzeIlluminance(x *ast.Illuminance) {
	a.analyzeLightHeader(x.Position, x.Axis, x.Angle)
	a.pushLightScope(true)
	a.analyzeBlock(x.Body)
	a.table.Pop()
}
