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

package vm

import (
	"github.com/reyeslang/rsl/bytecode"
	"github.com/reyeslang/rsl/value"
)

// execBinaryArith executes one dispatch-tag-keyed elementwise kernel.
// original_source generates one function per (opcode, left-shape,
// right-shape) combination (multiply.cpp's multiply_u3v1 family); a
// value.Buffer already broadcasts a uniform/constant operand's element 0
// across every lane it is read at (Buffer.index), so the same generic
// loop here covers every shape the dispatch tag could name — the
// component count only changes which accessor (Float vs Vec3) to call,
// not the loop itself. This folds original_source's code-generated
// kernel matrix down to two small loops.
func (m *VM) execBinaryArith(ins bytecode.Instruction) {
	dst, a, b := m.regs[ins.Dst], m.regs[ins.A], m.regs[ins.B]
	active := m.activeFor(dst)
	vec := ins.Tag.Left.Components == 3

	for i := 0; i < dst.Size(); i++ {
		if !active[i] {
			continue
		}
		if vec {
			m.execBinaryArithVec(ins.Op, dst, a, b, i)
		} else {
			m.execBinaryArithScalar(ins.Op, dst, a, b, i)
		}
	}
}

func (m *VM) execBinaryArithVec(op bytecode.Op, dst, a, b *value.Buffer, i int) {
	av, bv := a.Vec3(i), b.Vec3(i)
	switch op {
	case bytecode.Dot:
		dst.SetFloat(i, value.DotVec3(av, bv))
	case bytecode.Add:
		dst.SetVec3(i, value.AddVec3(av, bv))
	case bytecode.Subtract:
		dst.SetVec3(i, value.SubVec3(av, bv))
	case bytecode.Multiply:
		dst.SetVec3(i, value.MulVec3(av, bv))
	case bytecode.Divide:
		dst.SetVec3(i, [3]float32{safeDiv(av[0], bv[0]), safeDiv(av[1], bv[1]), safeDiv(av[2], bv[2])})
	case bytecode.Equal:
		dst.SetInt(i, boolInt(av == bv))
	case bytecode.NotEqual:
		dst.SetInt(i, boolInt(av != bv))
	}
}

func (m *VM) execBinaryArithScalar(op bytecode.Op, dst, a, b *value.Buffer, i int) {
	if dst.Type() == value.Integer && (op == bytecode.And || op == bytecode.Or) {
		av, bv := a.Int(i) != 0, b.Int(i) != 0
		switch op {
		case bytecode.And:
			dst.SetInt(i, boolInt(av && bv))
		case bytecode.Or:
			dst.SetInt(i, boolInt(av || bv))
		}
		return
	}

	af, bf := scalarOf(a, i), scalarOf(b, i)
	switch op {
	case bytecode.Add:
		dst.SetFloat(i, af+bf)
	case bytecode.Subtract:
		dst.SetFloat(i, af-bf)
	case bytecode.Multiply:
		dst.SetFloat(i, af*bf)
	case bytecode.Divide:
		dst.SetFloat(i, safeDiv(af, bf))
	case bytecode.Greater:
		dst.SetInt(i, boolInt(af > bf))
	case bytecode.GreaterEqual:
		dst.SetInt(i, boolInt(af >= bf))
	case bytecode.Less:
		dst.SetInt(i, boolInt(af < bf))
	case bytecode.LessEqual:
		dst.SetInt(i, boolInt(af <= bf))
	case bytecode.Equal:
		dst.SetInt(i, boolInt(af == bf))
	case bytecode.NotEqual:
		dst.SetInt(i, boolInt(af != bf))
	}
}

// scalarOf reads buf's lane i as a float32 regardless of whether buf is
// an Integer or Float buffer, since comparisons and arithmetic can mix
// the two before the compiler's Convert pass ever runs on a malformed
// tree — in a clean compile this is always already-aligned, but the
// runtime stays permissive rather than panicking on a shape it can
// trivially read anyway.
func scalarOf(buf *value.Buffer, i int) float32 {
	if buf.Type() == value.Integer {
		return float32(buf.Int(i))
	}
	return buf.Float(i)
}

func safeDiv(a, b float32) float32 {
	if b == 0 {
		return 0
	}
	return a / b
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func (m *VM) execNegate(ins bytecode.Instruction) {
	dst, a := m.regs[ins.Dst], m.regs[ins.A]
	active := m.activeFor(dst)
	for i := 0; i < dst.Size(); i++ {
		if !active[i] {
			continue
		}
		switch {
		case dst.Type().IsTriple():
			dst.SetVec3(i, value.NegVec3(a.Vec3(i)))
		case dst.Type() == value.Integer:
			dst.SetInt(i, -a.Int(i))
		default:
			dst.SetFloat(i, -a.Float(i))
		}
	}
}

// execConvert implements the Integer<->Float and Float->triple widenings
// compiler.coerceType emits; the source and destination shapes are
// whatever the compiler decided were legal, so this never needs to
// reject anything.
func (m *VM) execConvert(ins bytecode.Instruction) {
	dst, a := m.regs[ins.Dst], m.regs[ins.A]
	active := m.activeFor(dst)
	for i := 0; i < dst.Size(); i++ {
		if !active[i] {
			continue
		}
		switch {
		case dst.Type().IsTriple() && a.Type().IsTriple():
			// A same-shape reinterpretation, e.g. `vector P` or
			// `normal (vector V)`: the explicit typecast only changes how
			// later arithmetic treats the triple, not its components.
			dst.SetVec3(i, a.Vec3(i))
		case dst.Type().IsTriple() && !a.Type().IsTriple():
			f := scalarOf(a, i)
			dst.SetVec3(i, [3]float32{f, f, f})
		case dst.Type() == value.Float:
			dst.SetFloat(i, scalarOf(a, i))
		case dst.Type() == value.Integer:
			dst.SetInt(i, int32(scalarOf(a, i)))
		}
	}
}

// execPromote broadcasts a uniform/constant source across every lane of
// a varying destination (compiler.coerceStorage's Promote instruction).
func (m *VM) execPromote(ins bytecode.Instruction) {
	dst, a := m.regs[ins.Dst], m.regs[ins.A]
	for i := 0; i < dst.Size(); i++ {
		switch {
		case dst.Type().IsTriple():
			dst.SetVec3(i, a.Vec3(0))
		case dst.Type() == value.Integer:
			dst.SetInt(i, a.Int(0))
		case dst.Type() == value.String:
			dst.SetStr(i, a.Str(0))
		default:
			dst.SetFloat(i, a.Float(0))
		}
	}
}

func (m *VM) execAssign(ins bytecode.Instruction) {
	dst, a := m.regs[ins.Dst], m.regs[ins.A]
	active := m.activeFor(dst)
	for i := 0; i < dst.Size(); i++ {
		if !active[i] {
			continue
		}
		copyLane(dst, a, i)
	}
}

func copyLane(dst, src *value.Buffer, i int) {
	switch {
	case dst.Type().IsTriple():
		dst.SetVec3(i, src.Vec3(srcIndex(src, i)))
	case dst.Type() == value.Integer:
		dst.SetInt(i, src.Int(srcIndex(src, i)))
	case dst.Type() == value.String:
		dst.SetStr(i, src.Str(srcIndex(src, i)))
	case dst.Type() == value.Matrix:
		dst.SetMat4(i, src.Mat4(srcIndex(src, i)))
	default:
		dst.SetFloat(i, src.Float(srcIndex(src, i)))
	}
}

func srcIndex(src *value.Buffer, i int) int {
	if src.StorageClass() == value.Varying {
		return i
	}
	return 0
}

func (m *VM) execCompoundAssign(ins bytecode.Instruction) {
	dst, b := m.regs[ins.Dst], m.regs[ins.B]
	active := m.activeFor(dst)
	vec := dst.Type().IsTriple()
	for i := 0; i < dst.Size(); i++ {
		if !active[i] {
			continue
		}
		if vec {
			dv, bv := dst.Vec3(i), b.Vec3(srcIndex(b, i))
			switch ins.Op {
			case bytecode.AddAssign:
				dst.SetVec3(i, value.AddVec3(dv, bv))
			case bytecode.SubtractAssign:
				dst.SetVec3(i, value.SubVec3(dv, bv))
			case bytecode.MultiplyAssign:
				dst.SetVec3(i, value.MulVec3(dv, bv))
			case bytecode.DivideAssign:
				dst.SetVec3(i, [3]float32{safeDiv(dv[0], bv[0]), safeDiv(dv[1], bv[1]), safeDiv(dv[2], bv[2])})
			}
			continue
		}
		df, bf := scalarOf(dst, i), scalarOf(b, srcIndex(b, i))
		switch ins.Op {
		case bytecode.AddAssign:
			dst.SetFloat(i, df+bf)
		case bytecode.SubtractAssign:
			dst.SetFloat(i, df-bf)
		case bytecode.MultiplyAssign:
			dst.SetFloat(i, df*bf)
		case bytecode.DivideAssign:
			dst.SetFloat(i, safeDiv(df, bf))
		}
	}
}
