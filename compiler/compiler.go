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

// Package compiler lowers a semantically-analyzed ast.Shader into a
// bytecode.Program: register allocation, constant pool construction, and
// control-flow lowering. Grounded on gapil/compiler's phase-at-a-time
// emission shape (a small struct threading an
// instruction-stream builder through a recursive tree walk), generalized
// here from an LLVM-IR-emitting backend to a flat bytecode-emitting one.
// Compile assumes shader already passed a clean semantic.Analyze — it does
// not re-validate anything Analyze already checked.
package compiler

import (
	"fmt"

	"github.com/reyeslang/rsl/ast"
	"github.com/reyeslang/rsl/bytecode"
	"github.com/reyeslang/rsl/rslerr"
	"github.com/reyeslang/rsl/semantic"
	"github.com/reyeslang/rsl/value"
)

// loopCtx tracks one enclosing while/for loop's backpatch state.
// enterDepth is the mask-stack depth in effect just outside the loop
// (before its own per-iteration mask is pushed); break/continue lowering
// use it to know how many ClearMask instructions a jump out of the loop
// must emit first, since a break or continue may fire from several mask
// levels deep (nested if's) within the loop body.
type loopCtx struct {
	enterDepth      int
	continuePatches []int
	breakPatches    []int
}

type compiler struct {
	regs     *registerAllocator
	info     *semantic.Info
	consts   []bytecode.Constant
	constIdx map[constKey]int
	instrs   []bytecode.Instruction

	loops         []*loopCtx
	maskDepth     int
	returnPatches []int
	line          int
}

type constKey struct {
	t value.Type
	f [3]float32
	i int32
	s string
}

// Compile lowers shader to a Program. The only errors it returns are
// internal-invariant violations (an unhandled node kind that should have
// been rejected earlier) — a severe-error class, recovered from a panic
// rather than propagated as a crash.
func Compile(shader *ast.Shader, info *semantic.Info) (prog *bytecode.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			prog = nil
			err = &rslerr.CodeGenerationFailed{Reason: fmt.Sprintf("%v", r)}
		}
	}()

	c := &compiler{regs: newRegisterAllocator(), info: info, constIdx: map[constKey]int{}}

	c.regs.pushScope()
	params := make([]bytecode.ParamSlot, len(shader.Parameters))
	for i, p := range shader.Parameters {
		reg := c.regs.alloc(p.Type, p.Storage)
		c.regs.declare(p.Name, reg)
		params[i] = bytecode.ParamSlot{Name: p.Name, Type: p.Type, Storage: p.Storage, Register: reg, Default: -1}
	}
	for i, p := range shader.Parameters {
		c.line = p.Line()
		defReg, defType, defStorage := c.compileExpr(p.Default)
		defReg = c.coerce(defReg, defType, defStorage, p.Type, p.Storage)
		c.moveInto(params[i].Register, defReg, p.Type, p.Storage)
		if lit, ok := p.Default.(*ast.NumberLit); ok && p.Type == value.Float {
			params[i].Default = c.constIndex(value.Float, [3]float32{float32(lit.Value)}, 0, "")
		}
	}
	shadeAddr := len(c.instrs)

	c.regs.pushScope()
	for _, s := range shader.Body {
		c.compileStmt(s)
	}
	returnTarget := len(c.instrs)
	for _, idx := range c.returnPatches {
		c.instrs[idx].Target = returnTarget
	}
	c.emit(bytecode.Instruction{Op: bytecode.Halt})
	c.regs.popScope()
	c.regs.popScope()

	globals := make(map[string]bytecode.Register, len(c.regs.globals))
	for name, reg := range c.regs.globals {
		globals[name] = reg
	}

	return &bytecode.Program{
		Name:            shader.Name,
		Kind:            shader.Kind,
		Params:          params,
		Constants:       c.consts,
		NumRegisters:    len(c.regs.types),
		RegisterTypes:   c.regs.types,
		RegisterStorage: c.regs.storage,
		Globals:         globals,
		ShadeAddr:       shadeAddr,
		EndAddr:         len(c.instrs),
		Instructions:    c.instrs,
	}, nil
}

func (c *compiler) emit(ins bytecode.Instruction) int {
	ins.Line = c.line
	c.instrs = append(c.instrs, ins)
	return len(c.instrs) - 1
}

// constIndex interns one constant-pool entry, returning the index of an
// existing identical entry when one was already emitted.
func (c *compiler) constIndex(t value.Type, f [3]float32, i int32, s string) int {
	key := constKey{t: t, f: f, i: i, s: s}
	if idx, ok := c.constIdx[key]; ok {
		return idx
	}
	cst := bytecode.Constant{Type: t, Str: s}
	copy(cst.Floats[:3], f[:])
	cst.Ints[0] = i
	idx := len(c.consts)
	c.consts = append(c.consts, cst)
	c.constIdx[key] = idx
	return idx
}

func (c *compiler) loadFloatConst(v float32) bytecode.Register {
	idx := c.constIndex(value.Float, [3]float32{v}, 0, "")
	reg := c.regs.alloc(value.Float, value.Constant)
	c.emit(bytecode.Instruction{Op: bytecode.Reset, Dst: reg, Const: idx})
	return reg
}

func (c *compiler) loadIntConst(v int32) bytecode.Register {
	idx := c.constIndex(value.Integer, [3]float32{}, v, "")
	reg := c.regs.alloc(value.Integer, value.Constant)
	c.emit(bytecode.Instruction{Op: bytecode.Reset, Dst: reg, Const: idx})
	return reg
}

func (c *compiler) loadStringConst(s string) bytecode.Register {
	idx := c.constIndex(value.String, [3]float32{}, 0, s)
	reg := c.regs.alloc(value.String, value.Constant)
	c.emit(bytecode.Instruction{Op: bytecode.Reset, Dst: reg, Const: idx})
	return reg
}

func (c *compiler) loadTripleConst(t value.Type, v [3]float32) bytecode.Register {
	idx := c.constIndex(t, v, 0, "")
	reg := c.regs.alloc(t, value.Constant)
	c.emit(bytecode.Instruction{Op: bytecode.Reset, Dst: reg, Const: idx})
	return reg
}

func (c *compiler) stringConstIndex(s string) int {
	return c.constIndex(value.String, [3]float32{}, 0, s)
}

// zeroConstIndex returns the constant-pool index of t's zero value.
func (c *compiler) zeroConstIndex(t value.Type) int {
	switch {
	case t.IsTriple():
		return c.constIndex(t, [3]float32{0, 0, 0}, 0, "")
	case t == value.Integer:
		return c.constIndex(value.Integer, [3]float32{}, 0, "")
	case t == value.String:
		return c.constIndex(value.String, [3]float32{}, 0, "")
	default:
		return c.constIndex(value.Float, [3]float32{0}, 0, "")
	}
}

func (c *compiler) zeroConstRegister(t value.Type, storage value.Storage) bytecode.Register {
	idx := c.zeroConstIndex(t)
	reg := c.regs.alloc(t, value.Constant)
	c.emit(bytecode.Instruction{Op: bytecode.Reset, Dst: reg, Const: idx})
	_ = storage
	return reg
}

// coerceType emits a Convert instruction when from differs from to,
// implementing the same Integer<->Float and Float->triple widening
// semantic.assignable allows, without re-checking legality (the analyzer
// already rejected anything else reaching here).
func (c *compiler) coerceType(reg bytecode.Register, from value.Type, storage value.Storage, to value.Type) bytecode.Register {
	if from == to {
		return reg
	}
	dst := c.regs.alloc(to, storage)
	c.emit(bytecode.Instruction{Op: bytecode.Convert, Dst: dst, A: reg, Tag: bytecode.UnaryTag(from, storage)})
	return dst
}

// coerceStorage broadcasts reg up to Varying when the destination demands
// it and the source is not already Varying; it never narrows.
func (c *compiler) coerceStorage(reg bytecode.Register, typ value.Type, from value.Storage, to value.Storage) bytecode.Register {
	if to != value.Varying || from == value.Varying {
		return reg
	}
	dst := c.regs.alloc(typ, value.Varying)
	c.emit(bytecode.Instruction{Op: bytecode.Promote, Dst: dst, A: reg, Tag: bytecode.UnaryTag(typ, from)})
	return dst
}

func (c *compiler) coerce(reg bytecode.Register, typ value.Type, storage value.Storage, toType value.Type, toStorage value.Storage) bytecode.Register {
	reg = c.coerceType(reg, typ, storage, toType)
	reg = c.coerceStorage(reg, toType, storage, toStorage)
	return reg
}

func (c *compiler) moveInto(dst, src bytecode.Register, typ value.Type, storage value.Storage) {
	if dst == src {
		return
	}
	c.emit(bytecode.Instruction{Op: bytecode.Assign, Dst: dst, A: src, Tag: bytecode.UnaryTag(typ, storage)})
}
