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

package compiler

import (
	"github.com/pkg/errors"

	"github.com/reyeslang/rsl/ast"
	"github.com/reyeslang/rsl/bytecode"
	"github.com/reyeslang/rsl/symbol"
	"github.com/reyeslang/rsl/value"
)

// compileExpr lowers e to a fresh register and reports the (type,
// storage) that register holds — always the annotation semantic already
// recorded for e, so this never re-derives legality, only emits code for
// a decision already made.
func (c *compiler) compileExpr(e ast.Expr) (bytecode.Register, value.Type, value.Storage) {
	switch x := e.(type) {
	case *ast.Ident:
		return c.compileIdent(x)
	case *ast.NumberLit:
		return c.loadFloatConst(float32(x.Value)), value.Float, value.Constant
	case *ast.StringLit:
		return c.loadStringConst(x.Value), value.String, value.Constant
	case *ast.Triple:
		return c.compileTriple(x)
	case *ast.Typecast:
		return c.compileTypecast(x)
	case *ast.Binary:
		return c.compileBinary(x)
	case *ast.Unary:
		return c.compileUnary(x)
	case *ast.Call:
		return c.compileCall(x)
	case *ast.Assign:
		return c.compileAssign(x)
	default:
		panic(errors.Errorf("compiler: unhandled expression node %T", e))
	}
}

func (c *compiler) compileIdentRegister(x *ast.Ident) bytecode.Register {
	if reg, ok := c.regs.lookup(x.Name); ok {
		return reg
	}
	return c.regs.global(x.Name)
}

func (c *compiler) compileIdent(x *ast.Ident) (bytecode.Register, value.Type, value.Storage) {
	return c.compileIdentRegister(x), c.info.TypeOf(x), c.info.StorageOf(x)
}

// compileTriple lowers a (x, y, z) literal by zero-initializing a fresh
// register of the triple's annotated type (always Color — an enclosing
// Typecast reinterprets it, see compileTypecast) and writing each
// component through the already-registered setxcomp/setycomp/setzcomp
// intrinsics, rather than inventing a dedicated "pack" opcode: this keeps
// bytecode.Op a faithful mirror of original_source's instruction enum.
func (c *compiler) compileTriple(x *ast.Triple) (bytecode.Register, value.Type, value.Storage) {
	c.line = x.Line()
	resultType := c.info.TypeOf(x)
	resultStorage := c.info.StorageOf(x)

	xr, xt, xs := c.compileExpr(x.X)
	yr, yt, ys := c.compileExpr(x.Y)
	zr, zt, zs := c.compileExpr(x.Z)
	xr = c.coerceType(xr, xt, xs, value.Float)
	yr = c.coerceType(yr, yt, ys, value.Float)
	zr = c.coerceType(zr, zt, zs, value.Float)

	dst := c.regs.alloc(resultType, resultStorage)
	c.emit(bytecode.Instruction{Op: bytecode.Reset, Dst: dst, Const: c.zeroConstIndex(resultType)})
	c.emit(bytecode.Instruction{Op: bytecode.Call, Name: "setxcomp", Args: []bytecode.Register{dst, xr}})
	c.emit(bytecode.Instruction{Op: bytecode.Call, Name: "setycomp", Args: []bytecode.Register{dst, yr}})
	c.emit(bytecode.Instruction{Op: bytecode.Call, Name: "setzcomp", Args: []bytecode.Register{dst, zr}})
	return dst, resultType, resultStorage
}

// transformOpFor maps a Typecast's target type to the dispatch-tag
// transform instruction that carries a space-qualified cast, mirroring
// reyes_virtual_machine's transform/vtransform/ntransform/ctransform
// kernel family (see symbol/builtins.go's registration of the matching
// call-form intrinsics).
func transformOpFor(t value.Type) (bytecode.Op, bool) {
	switch t {
	case value.Point:
		return bytecode.TransformPoint, true
	case value.Vector:
		return bytecode.TransformVector, true
	case value.Normal:
		return bytecode.TransformNormal, true
	case value.Color:
		return bytecode.TransformColor, true
	case value.Matrix:
		return bytecode.TransformMatrix, true
	default:
		return bytecode.Null, false
	}
}

// compileTypecast lowers `type ["space"[,"space"]] expr`. A cast with no
// space qualifier is a plain reinterpret/convert; one with a space (and
// optionally a "from" space) routes through the matching Transform*
// opcode, whose Name carries the "to" space and whose Const, when the
// cast supplied a "from" space, indexes a hoisted string constant for it
// (Const is otherwise unused by these ops, so it doubles as the second
// operand this two-string instruction needs without growing Instruction
// another field).
func (c *compiler) compileTypecast(x *ast.Typecast) (bytecode.Register, value.Type, value.Storage) {
	c.line = x.Line()
	reg, t, s := c.compileExpr(x.Operand)

	if x.Space == "" && !x.HasFrom {
		if t == x.Type {
			return reg, t, s
		}
		dst := c.regs.alloc(x.Type, s)
		c.emit(bytecode.Instruction{Op: bytecode.Convert, Dst: dst, A: reg, Tag: bytecode.UnaryTag(t, s)})
		return dst, x.Type, s
	}

	op, ok := transformOpFor(x.Type)
	if !ok {
		dst := c.regs.alloc(x.Type, s)
		c.emit(bytecode.Instruction{Op: bytecode.Convert, Dst: dst, A: reg, Tag: bytecode.UnaryTag(t, s)})
		return dst, x.Type, s
	}
	fromConst := -1
	if x.HasFrom {
		fromConst = c.stringConstIndex(x.From)
	}
	dst := c.regs.alloc(x.Type, s)
	c.emit(bytecode.Instruction{Op: op, Dst: dst, A: reg, Name: x.Space, Const: fromConst, Tag: bytecode.UnaryTag(t, s)})
	return dst, x.Type, s
}

func arithOp(op string) bytecode.Op {
	switch op {
	case "+":
		return bytecode.Add
	case "-":
		return bytecode.Subtract
	case "*":
		return bytecode.Multiply
	case "/":
		return bytecode.Divide
	default:
		panic(errors.Errorf("compiler: unhandled arithmetic operator %q", op))
	}
}

func compareOp(op string) bytecode.Op {
	switch op {
	case "==":
		return bytecode.Equal
	case "!=":
		return bytecode.NotEqual
	case "<":
		return bytecode.Less
	case "<=":
		return bytecode.LessEqual
	case ">":
		return bytecode.Greater
	case ">=":
		return bytecode.GreaterEqual
	default:
		panic(errors.Errorf("compiler: unhandled comparison operator %q", op))
	}
}

// alignOperands mirrors semantic.arithResult's promotion table so codegen
// widens exactly the operand that analysis decided needed widening:
// identical types pass through, Integer/Float mix to Float, a scalar
// combined with a triple broadcasts into that triple's type, and two
// different triple types keep the left operand's type.
func (c *compiler) alignOperands(lReg bytecode.Register, lt value.Type, ls value.Storage, rReg bytecode.Register, rt value.Type, rs value.Storage) (bytecode.Register, bytecode.Register, value.Type) {
	switch {
	case lt == rt:
		return lReg, rReg, lt
	case lt == value.Integer && rt == value.Float:
		return c.coerceType(lReg, lt, ls, value.Float), rReg, value.Float
	case lt == value.Float && rt == value.Integer:
		return lReg, c.coerceType(rReg, rt, rs, value.Float), value.Float
	case lt.IsTriple() && (rt == value.Integer || rt == value.Float):
		return lReg, c.coerceType(rReg, rt, rs, lt), lt
	case rt.IsTriple() && (lt == value.Integer || lt == value.Float):
		return c.coerceType(lReg, lt, ls, rt), rReg, rt
	case lt.IsTriple() && rt.IsTriple():
		return lReg, c.coerceType(rReg, rt, rs, lt), lt
	default:
		return lReg, rReg, lt
	}
}

func (c *compiler) compileBinary(x *ast.Binary) (bytecode.Register, value.Type, value.Storage) {
	c.line = x.Line()
	lReg, lt, ls := c.compileExpr(x.Left)
	rReg, rt, rs := c.compileExpr(x.Right)
	storage := value.Combine(ls, rs)

	switch x.Op {
	case "&&", "||":
		op := bytecode.And
		if x.Op == "||" {
			op = bytecode.Or
		}
		dst := c.regs.alloc(value.Integer, storage)
		c.emit(bytecode.Instruction{Op: op, Dst: dst, A: lReg, B: rReg, Tag: bytecode.MakeTag(lt, ls, rt, rs)})
		return dst, value.Integer, storage
	case "==", "!=", "<", "<=", ">", ">=":
		aReg, bReg, cmpType := c.alignOperands(lReg, lt, ls, rReg, rt, rs)
		dst := c.regs.alloc(value.Integer, storage)
		c.emit(bytecode.Instruction{Op: compareOp(x.Op), Dst: dst, A: aReg, B: bReg, Tag: bytecode.MakeTag(cmpType, ls, cmpType, rs)})
		return dst, value.Integer, storage
	default:
		aReg, bReg, resultType := c.alignOperands(lReg, lt, ls, rReg, rt, rs)
		dst := c.regs.alloc(resultType, storage)
		c.emit(bytecode.Instruction{Op: arithOp(x.Op), Dst: dst, A: aReg, B: bReg, Tag: bytecode.MakeTag(resultType, ls, resultType, rs)})
		return dst, resultType, storage
	}
}

func (c *compiler) compileUnary(x *ast.Unary) (bytecode.Register, value.Type, value.Storage) {
	c.line = x.Line()
	reg, t, s := c.compileExpr(x.Operand)
	if x.Op == "!" {
		zero := c.zeroConstRegister(t, s)
		dst := c.regs.alloc(value.Integer, s)
		c.emit(bytecode.Instruction{Op: bytecode.Equal, Dst: dst, A: reg, B: zero, Tag: bytecode.MakeTag(t, s, t, value.Constant)})
		return dst, value.Integer, s
	}
	dst := c.regs.alloc(t, s)
	c.emit(bytecode.Instruction{Op: bytecode.Negate, Dst: dst, A: reg, Tag: bytecode.UnaryTag(t, s)})
	return dst, t, s
}

// compileCall lowers a resolved intrinsic call. Only the argument type can
// need widening at a call site (Float into a triple parameter) — an
// intrinsic's registered parameter storage is always Uniform regardless
// of what it actually requires (see symbol/resolve.go's convert()), so no
// storage promotion is ever inserted here; the kernel the Name dispatches
// to reads whatever storage its Args actually carry.
func (c *compiler) compileCall(x *ast.Call) (bytecode.Register, value.Type, value.Storage) {
	c.line = x.Line()
	sym := c.info.Calls[x]
	if sym == nil {
		for _, a := range x.Args {
			c.compileExpr(a)
		}
		return c.regs.alloc(value.Null, value.Constant), value.Null, value.Constant
	}

	args := make([]bytecode.Register, len(x.Args))
	for i, a := range x.Args {
		reg, t, s := c.compileExpr(a)
		want := paramAt(sym, i)
		if t == value.Float && want.Type.IsTriple() {
			reg = c.coerceType(reg, t, s, want.Type)
		}
		args[i] = reg
	}

	resultType := sym.Func.Result
	storage := c.info.StorageOf(x)
	var dst bytecode.Register
	if resultType != value.Null {
		dst = c.regs.alloc(resultType, storage)
	}
	c.emit(bytecode.Instruction{Op: bytecode.Call, Name: sym.Name, Dst: dst, Args: args})
	return dst, resultType, storage
}

func paramAt(sym *symbol.Symbol, i int) symbol.Param {
	if i < len(sym.Func.Params) {
		return sym.Func.Params[i]
	}
	return sym.Func.Params[0]
}

func (c *compiler) compileAssign(x *ast.Assign) (bytecode.Register, value.Type, value.Storage) {
	c.line = x.Line()
	ident, ok := x.Left.(*ast.Ident)
	if !ok {
		c.compileExpr(x.Right)
		return c.regs.alloc(value.Null, value.Constant), value.Null, value.Constant
	}
	lhsReg := c.compileIdentRegister(ident)
	lt, ls := c.info.TypeOf(ident), c.info.StorageOf(ident)

	rReg, rt, rs := c.compileExpr(x.Right)
	rReg = c.coerce(rReg, rt, rs, lt, ls)

	tag := bytecode.UnaryTag(lt, ls)
	switch x.Op {
	case "=":
		c.moveInto(lhsReg, rReg, lt, ls)
	case "+=":
		c.emit(bytecode.Instruction{Op: bytecode.AddAssign, Dst: lhsReg, A: lhsReg, B: rReg, Tag: tag})
	case "-=":
		c.emit(bytecode.Instruction{Op: bytecode.SubtractAssign, Dst: lhsReg, A: lhsReg, B: rReg, Tag: tag})
	case "*=":
		c.emit(bytecode.Instruction{Op: bytecode.MultiplyAssign, Dst: lhsReg, A: lhsReg, B: rReg, Tag: tag})
	case "/=":
		c.emit(bytecode.Instruction{Op: bytecode.DivideAssign, Dst: lhsReg, A: lhsReg, B: rReg, Tag: tag})
	default:
		panic(errors.Errorf("compiler: unhandled assignment operator %q", x.Op))
	}
	return lhsReg, lt, ls
}
