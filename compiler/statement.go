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
	"github.com/reyeslang/rsl/value"
)

// compileStmt lowers one statement. Every control-flow statement is
// responsible for leaving c.maskDepth exactly where it found it once
// control falls through to the next statement in sequence — divergent
// exits (break/continue/return) pop their own way out without touching
// the running counter, since they never fall through.
func (c *compiler) compileStmt(s ast.Stmt) {
	switch x := s.(type) {
	case *ast.Block:
		c.compileBlockStmts(x)
	case *ast.VarDecl:
		c.compileVarDecl(x)
	case *ast.ExprStmt:
		c.line = x.Line()
		c.compileExpr(x.X)
	case *ast.If:
		c.compileIf(x)
	case *ast.While:
		c.compileWhile(x)
	case *ast.For:
		c.compileFor(x)
	case *ast.Break:
		c.compileBreak(x)
	case *ast.Continue:
		c.compileContinue(x)
	case *ast.Return:
		c.compileReturn(x)
	case *ast.Solar:
		c.compileSolar(x)
	case *ast.Illuminate:
		c.compileIlluminate(x)
	case *ast.Illuminance:
		c.compileIlluminance(x)
	default:
		panic(errors.Errorf("compiler: unhandled statement node %T", s))
	}
}

func (c *compiler) compileBlockStmts(b *ast.Block) {
	c.regs.pushScope()
	for _, s := range b.Stmts {
		c.compileStmt(s)
	}
	c.regs.popScope()
}

func (c *compiler) compileVarDecl(x *ast.VarDecl) {
	c.line = x.Line()
	reg := c.regs.alloc(x.Type, x.Storage)
	c.regs.declare(x.Name, reg)
	if x.Init == nil {
		c.emit(bytecode.Instruction{Op: bytecode.Reset, Dst: reg, Const: c.zeroConstIndex(x.Type)})
		return
	}
	initReg, initType, initStorage := c.compileExpr(x.Init)
	initReg = c.coerce(initReg, initType, initStorage, x.Type, x.Storage)
	c.moveInto(reg, initReg, x.Type, x.Storage)
}

// compileIf lowers `if cond { then } [else { else }]` to a single
// GenerateMask/[InvertMask]/ClearMask straight-line sequence: both
// branches execute for every lane (masked), so unlike while/for there is
// no skip-jump around the mask instructions themselves — If relies
// entirely on per-lane masking, never on control-flow divergence.
func (c *compiler) compileIf(x *ast.If) {
	c.line = x.Line()
	condReg, condType, condStorage := c.compileExpr(x.Cond)
	maskReg := c.asIntegerMask(condReg, condType, condStorage)

	c.emit(bytecode.Instruction{Op: bytecode.GenerateMask, A: maskReg})
	c.maskDepth++
	c.compileBlockStmts(x.Then)
	if x.Else != nil {
		c.emit(bytecode.Instruction{Op: bytecode.InvertMask})
		c.compileBlockStmts(x.Else)
	}
	c.emit(bytecode.Instruction{Op: bytecode.ClearMask})
	c.maskDepth--
}

// asIntegerMask coerces a condition value down to the Integer type
// GenerateMask consumes as its lane-truth operand (the "is the value
// non-zero" test is the VM's job, not the compiler's — ConditionMask's
// generate() does that per-lane comparison itself).
func (c *compiler) asIntegerMask(reg bytecode.Register, t value.Type, s value.Storage) bytecode.Register {
	if t == value.Integer {
		return reg
	}
	return c.coerceType(reg, t, s, value.Integer)
}

// compileWhile lowers `while cond { body }`. Each iteration pushes a new
// mask level for the condition; the JumpEmpty exit path and the
// loop-continues path diverge right after that push, so each needs its
// own pop — the per-iteration ClearMask right before the back-edge pops
// the level for lanes still looping, and the trailing ClearMask after the
// patched exit target pops it for lanes that just left. Both are plain
// pops of the same one level; maskDepth itself is only decremented once,
// by the trailing one, since that is the instruction every path (looping
// or not) ultimately passes through before falling into whatever follows
// the while statement.
func (c *compiler) compileWhile(x *ast.While) {
	c.line = x.Line()
	loop := &loopCtx{enterDepth: c.maskDepth}
	c.loops = append(c.loops, loop)

	top := len(c.instrs)
	condReg, condType, condStorage := c.compileExpr(x.Cond)
	maskReg := c.asIntegerMask(condReg, condType, condStorage)
	c.emit(bytecode.Instruction{Op: bytecode.GenerateMask, A: maskReg})
	c.maskDepth++
	exitJump := c.emit(bytecode.Instruction{Op: bytecode.JumpEmpty})

	c.compileBlockStmts(x.Body)

	continueTarget := len(c.instrs)
	for _, idx := range loop.continuePatches {
		c.instrs[idx].Target = continueTarget
	}

	c.emit(bytecode.Instruction{Op: bytecode.ClearMask})
	c.emit(bytecode.Instruction{Op: bytecode.Jump, Target: top})

	c.instrs[exitJump].Target = len(c.instrs)
	c.emit(bytecode.Instruction{Op: bytecode.ClearMask})
	c.maskDepth--

	breakTarget := len(c.instrs)
	for _, idx := range loop.breakPatches {
		c.instrs[idx].Target = breakTarget
	}
	c.loops = c.loops[:len(c.loops)-1]
}

// compileFor desugars `for init; cond; post { body }` to Init followed by
// the same while shape, with Post compiled between the body and the
// per-iteration ClearMask so `continue` re-runs Post before looping
// (continueTarget points just before Post, not at top).
func (c *compiler) compileFor(x *ast.For) {
	c.line = x.Line()
	c.regs.pushScope()
	if x.Init != nil {
		c.compileStmt(x.Init)
	}

	loop := &loopCtx{enterDepth: c.maskDepth}
	c.loops = append(c.loops, loop)

	top := len(c.instrs)
	condReg, condType, condStorage := c.compileExpr(x.Cond)
	maskReg := c.asIntegerMask(condReg, condType, condStorage)
	c.emit(bytecode.Instruction{Op: bytecode.GenerateMask, A: maskReg})
	c.maskDepth++
	exitJump := c.emit(bytecode.Instruction{Op: bytecode.JumpEmpty})

	c.compileBlockStmts(x.Body)

	continueTarget := len(c.instrs)
	if x.Post != nil {
		c.compileStmt(x.Post)
	}
	for _, idx := range loop.continuePatches {
		c.instrs[idx].Target = continueTarget
	}

	c.emit(bytecode.Instruction{Op: bytecode.ClearMask})
	c.emit(bytecode.Instruction{Op: bytecode.Jump, Target: top})

	c.instrs[exitJump].Target = len(c.instrs)
	c.emit(bytecode.Instruction{Op: bytecode.ClearMask})
	c.maskDepth--

	breakTarget := len(c.instrs)
	for _, idx := range loop.breakPatches {
		c.instrs[idx].Target = breakTarget
	}
	c.loops = c.loops[:len(c.loops)-1]
	c.regs.popScope()
}

func (c *compiler) loopLevels(levels int) *loopCtx {
	if levels <= 0 {
		levels = 1
	}
	idx := len(c.loops) - levels
	if idx < 0 {
		// semantic.Analyze already rejected a break/continue deeper than
		// the enclosing loop nest, so reaching here means that check and
		// this lowering disagree about nesting depth.
		panic(errors.Errorf("compiler: break/continue level %d exceeds enclosing loop nest", levels))
	}
	return c.loops[idx]
}

// compileBreak pops every mask level down to and including the target
// loop's own (c.maskDepth-target.enterDepth levels), then jumps to that
// loop's breakTarget — the address just after its trailing ClearMask, so
// the jump does not double-pop a level the trailing clear already popped
// for the lanes that exited normally.
func (c *compiler) compileBreak(x *ast.Break) {
	c.line = x.Line()
	loop := c.loopLevels(x.Levels)
	for i := 0; i < c.maskDepth-loop.enterDepth; i++ {
		c.emit(bytecode.Instruction{Op: bytecode.ClearMask})
	}
	idx := c.emit(bytecode.Instruction{Op: bytecode.Jump})
	loop.breakPatches = append(loop.breakPatches, idx)
}

// compileContinue pops every mask level strictly inside the target loop
// (c.maskDepth-target.enterDepth-1 levels), leaving the target loop's own
// mask level intact for its per-iteration or trailing ClearMask to pop.
func (c *compiler) compileContinue(x *ast.Continue) {
	c.line = x.Line()
	loop := c.loopLevels(x.Levels)
	for i := 0; i < c.maskDepth-loop.enterDepth-1; i++ {
		c.emit(bytecode.Instruction{Op: bytecode.ClearMask})
	}
	idx := c.emit(bytecode.Instruction{Op: bytecode.Jump})
	loop.continuePatches = append(loop.continuePatches, idx)
}

// compileReturn pops every currently open mask level unconditionally (a
// return can fire from arbitrarily deep inside nested if/loop bodies)
// then jumps to the shader body's single exit point, patched once in
// Compile after every statement has been emitted.
func (c *compiler) compileReturn(x *ast.Return) {
	c.line = x.Line()
	if x.Value != nil {
		c.compileExpr(x.Value)
	}
	for i := 0; i < c.maskDepth; i++ {
		c.emit(bytecode.Instruction{Op: bytecode.ClearMask})
	}
	idx := c.emit(bytecode.Instruction{Op: bytecode.Jump})
	c.returnPatches = append(c.returnPatches, idx)
}

// compileSolar lowers `solar([axis[, angle]]) { body }`. Solar establishes
// a uniform light direction for the light shader's own body (not a
// per-light iteration over some other surface's grid), so the body
// compiles unconditionally — no mask push, no loopCtx.
func (c *compiler) compileSolar(x *ast.Solar) {
	c.line = x.Line()
	if x.Axis == nil {
		c.emit(bytecode.Instruction{Op: bytecode.Solar})
		c.compileBlockStmts(x.Body)
		return
	}
	axisReg, _, _ := c.compileExpr(x.Axis)
	angleReg, _, _ := c.compileExpr(x.Angle)
	c.emit(bytecode.Instruction{Op: bytecode.SolarAxisAngle, A: axisReg, B: angleReg})
	c.compileBlockStmts(x.Body)
}

// compileIlluminate lowers `illuminate(P[, axis, angle]) { body }`: a
// position-derived (and optionally cone-restricted) light direction for
// the light shader's own body, compiled unconditionally for the same
// reason as Solar.
func (c *compiler) compileIlluminate(x *ast.Illuminate) {
	c.line = x.Line()
	posReg, _, _ := c.compileExpr(x.Position)
	if x.Axis == nil {
		c.emit(bytecode.Instruction{Op: bytecode.Illuminate, A: posReg})
		c.compileBlockStmts(x.Body)
		return
	}
	axisReg, _, _ := c.compileExpr(x.Axis)
	angleReg, _, _ := c.compileExpr(x.Angle)
	c.emit(bytecode.Instruction{Op: bytecode.IlluminateAxisAngle, A: posReg, B: axisReg, Args: []bytecode.Register{angleReg}})
	c.compileBlockStmts(x.Body)
}

// compileIlluminance lowers `illuminance([category,] P[, axis, angle]) {
// body }`: a per-light loop over the shading point's light cursor. Unlike
// while/for, the JumpIlluminance exhaustion check happens before any mask
// is pushed for that round (the VM advances the light cursor, skips
// ambient lights, and only then either binds L/Cl/Ol/Ps for the current
// light or falls through to end with nothing left to pop) — so this
// lowering needs no trailing ClearMask the way while/for does, just the
// ordinary single GenerateMask/ClearMask pair of a straight-line
// iteration body. No loopCtx is pushed: break/continue are not valid
// inside an illuminance body, matching semantic.analyzeIlluminance never
// touching loopDepth for this node.
func (c *compiler) compileIlluminance(x *ast.Illuminance) {
	c.line = x.Line()
	posReg, _, _ := c.compileExpr(x.Position)

	categoryConst := -1
	if x.Category != "" {
		categoryConst = c.stringConstIndex(x.Category)
	}

	top := len(c.instrs)
	var jumpIdx int
	if x.Axis == nil {
		jumpIdx = c.emit(bytecode.Instruction{Op: bytecode.JumpIlluminance, A: posReg, Const: categoryConst})
	} else {
		axisReg, _, _ := c.compileExpr(x.Axis)
		angleReg, _, _ := c.compileExpr(x.Angle)
		jumpIdx = c.emit(bytecode.Instruction{
			Op:    bytecode.JumpIlluminance,
			A:     posReg,
			Const: categoryConst,
			Args:  []bytecode.Register{axisReg, angleReg},
		})
	}

	// JumpIlluminance itself pushes the per-light mask level when it binds
	// a light (it must: which lanes still see a light left to visit is
	// exactly the per-lane state the VM's light cursor tracks, not a
	// condition the compiler can evaluate into a register). The matching
	// pop is this ordinary ClearMask at body end — no separate
	// GenerateMask belongs here, and no trailing clear either, since the
	// exhaustion branch never pushed a level in the first place.
	c.maskDepth++
	c.compileBlockStmts(x.Body)
	c.emit(bytecode.Instruction{Op: bytecode.ClearMask})
	c.maskDepth--
	c.emit(bytecode.Instruction{Op: bytecode.Jump, Target: top})

	c.instrs[jumpIdx].Target = len(c.instrs)
}
