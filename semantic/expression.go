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
	"github.com/reyeslang/rsl/ast"
	"github.com/reyeslang/rsl/symbol"
	"github.com/reyeslang/rsl/value"
)

// analyzeExpr dispatches on the concrete expression node type, the way
// gapil/resolver/expression.go's resolve() does, annotates e in a.info,
// and returns the (type, storage) a caller further up the tree needs.
func (a *analyzer) analyzeExpr(e ast.Expr) (value.Type, value.Storage) {
	switch x := e.(type) {
	case *ast.Ident:
		return a.analyzeIdent(x)
	case *ast.NumberLit:
		return a.annotate(x, value.Float, value.Constant)
	case *ast.StringLit:
		return a.annotate(x, value.String, value.Constant)
	case *ast.Triple:
		return a.analyzeTriple(x)
	case *ast.Typecast:
		return a.analyzeTypecast(x)
	case *ast.Binary:
		return a.analyzeBinary(x)
	case *ast.Unary:
		return a.analyzeUnary(x)
	case *ast.Call:
		return a.analyzeCall(x)
	case *ast.Assign:
		return a.analyzeAssign(x)
	default:
		a.errorf(e.Line(), "internal: unhandled expression node %T", e)
		return a.annotate(e, value.Null, value.Constant)
	}
}

func (a *analyzer) annotate(e ast.Expr, t value.Type, s value.Storage) (value.Type, value.Storage) {
	a.info.set(e, t, s)
	return t, s
}

func (a *analyzer) analyzeIdent(x *ast.Ident) (value.Type, value.Storage) {
	if sym, ok := a.table.Resolve(x.Name); ok {
		return a.annotate(x, sym.Type, sym.Storage)
	}
	if lightScopeNames[x.Name] {
		a.errorf(x.Line(), "%q is only valid inside illuminance, solar, or illuminate", x.Name)
	} else {
		a.errorf(x.Line(), "undefined symbol %q", x.Name)
	}
	return a.annotate(x, value.Null, value.Constant)
}

func (a *analyzer) analyzeTriple(x *ast.Triple) (value.Type, value.Storage) {
	storage := value.Constant
	for _, comp := range []ast.Expr{x.X, x.Y, x.Z} {
		_, s := a.analyzeExpr(comp)
		storage = value.Combine(storage, s)
	}
	// Defaults to color; an enclosing Typecast overrides the type its
	// caller observes without re-annotating this node's own entry.
	return a.annotate(x, value.Color, storage)
}

func (a *analyzer) analyzeTypecast(x *ast.Typecast) (value.Type, value.Storage) {
	_, opStorage := a.analyzeExpr(x.Operand)
	return a.annotate(x, x.Type, opStorage)
}

func (a *analyzer) analyzeUnary(x *ast.Unary) (value.Type, value.Storage) {
	t, s := a.analyzeExpr(x.Operand)
	if x.Op == "!" {
		return a.annotate(x, value.Integer, s)
	}
	return a.annotate(x, t, s)
}

func (a *analyzer) analyzeBinary(x *ast.Binary) (value.Type, value.Storage) {
	lt, ls := a.analyzeExpr(x.Left)
	rt, rs := a.analyzeExpr(x.Right)
	storage := value.Combine(ls, rs)

	switch x.Op {
	case "&&", "||":
		return a.annotate(x, value.Integer, storage)
	case "==", "!=", "<", "<=", ">", ">=":
		if !comparable(lt, rt) {
			a.errorf(x.Line(), "cannot compare %s with %s", lt, rt)
		}
		return a.annotate(x, value.Integer, storage)
	}

	result, ok := arithResult(lt, rt)
	if !ok {
		a.errorf(x.Line(), "invalid operand types %s %s %s", lt, x.Op, rt)
		result = lt
	}
	return a.annotate(x, result, storage)
}

func comparable(a, b value.Type) bool {
	if a == b {
		return true
	}
	return (a == value.Integer || a == value.Float) && (b == value.Integer || b == value.Float)
}

// arithResult implements the language's arithmetic promotion table:
// identical types are preserved, Integer/Float mix to Float, and a scalar
// combined with a triple widens to that triple's type. Two different triple types
// (e.g. point + vector) are left to the caller's coordinate-space
// discipline and simply keep the left operand's type, matching the
// original renderer's permissive behavior (original_source's Value
// arithmetic never rejects mixed-triple operands).
func arithResult(l, r value.Type) (value.Type, bool) {
	switch {
	case l == r:
		return l, true
	case l == value.Integer && r == value.Float, l == value.Float && r == value.Integer:
		return value.Float, true
	case l.IsTriple() && (r == value.Integer || r == value.Float):
		return l, true
	case r.IsTriple() && (l == value.Integer || l == value.Float):
		return r, true
	case l.IsTriple() && r.IsTriple():
		return l, true
	default:
		return value.Null, false
	}
}

func (a *analyzer) analyzeCall(x *ast.Call) (value.Type, value.Storage) {
	args := make([]symbol.Argument, len(x.Args))
	storage := value.Constant
	for i, arg := range x.Args {
		t, s := a.analyzeExpr(arg)
		args[i] = symbol.Argument{Type: t, Storage: s}
		storage = value.Combine(storage, s)
	}
	sym, ok := a.table.ResolveCall(x.Name, args)
	if !ok {
		a.errorf(x.Line(), "no matching overload for %s(...)", x.Name)
		return a.annotate(x, value.Null, storage)
	}
	a.info.Calls[x] = sym
	return a.annotate(x, sym.Func.Result, storage)
}

func (a *analyzer) analyzeAssign(x *ast.Assign) (value.Type, value.Storage) {
	ident, ok := x.Left.(*ast.Ident)
	if !ok {
		a.errorf(x.Line(), "left-hand side of assignment must be a variable")
		a.analyzeExpr(x.Right)
		return a.annotate(x, value.Null, value.Constant)
	}
	lt, ls := a.analyzeIdent(ident)
	rt, rs := a.analyzeExpr(x.Right)

	if !assignable(rt, lt) {
		a.errorf(x.Line(), "cannot assign %s to %q of type %s", rt, ident.Name, lt)
	}
	if ls == value.Uniform && rs == value.Varying {
		a.errorf(x.Line(), "cannot assign a varying value to uniform variable %q", ident.Name)
	}
	return a.annotate(x, lt, ls)
}
