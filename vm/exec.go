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
	"github.com/pkg/errors"

	"github.com/reyeslang/rsl/bytecode"
	"github.com/reyeslang/rsl/transform"
	"github.com/reyeslang/rsl/value"
)

// exec runs one instruction and returns the next program counter.
// original_source dispatches with one execute_<opcode> method per case;
// Go has no computed goto to mirror that with, so this is a plain switch
// over the same opcode set, grouped the same way Instruction.hpp orders
// them (control, transform, arithmetic, conversion, texture, call,
// lighting).
func (m *VM) exec(pc int, ins bytecode.Instruction) (int, error) {
	switch ins.Op {
	case bytecode.Null, bytecode.Halt:
		return pc + 1, nil

	case bytecode.Reset:
		m.execReset(ins)
		return pc + 1, nil

	case bytecode.GenerateMask:
		m.execGenerateMask(ins)
		return pc + 1, nil
	case bytecode.ClearMask:
		m.mask.pop()
		return pc + 1, nil
	case bytecode.InvertMask:
		m.mask.invertTop()
		return pc + 1, nil

	case bytecode.JumpEmpty:
		if m.maskEmpty() {
			return ins.Target, nil
		}
		return pc + 1, nil
	case bytecode.JumpNotEmpty:
		if !m.maskEmpty() {
			return ins.Target, nil
		}
		return pc + 1, nil
	case bytecode.Jump:
		return ins.Target, nil
	case bytecode.JumpIlluminance:
		return m.execJumpIlluminance(pc, ins)

	case bytecode.TransformPoint, bytecode.TransformVector, bytecode.TransformNormal,
		bytecode.TransformColor, bytecode.TransformMatrix:
		m.execTransform(ins)
		return pc + 1, nil

	case bytecode.Dot, bytecode.Multiply, bytecode.Divide, bytecode.Add, bytecode.Subtract,
		bytecode.Greater, bytecode.GreaterEqual, bytecode.Less, bytecode.LessEqual,
		bytecode.And, bytecode.Or, bytecode.Equal, bytecode.NotEqual:
		m.execBinaryArith(ins)
		return pc + 1, nil
	case bytecode.Negate:
		m.execNegate(ins)
		return pc + 1, nil

	case bytecode.Convert:
		m.execConvert(ins)
		return pc + 1, nil
	case bytecode.Promote:
		m.execPromote(ins)
		return pc + 1, nil
	case bytecode.Assign, bytecode.StringAssign:
		m.execAssign(ins)
		return pc + 1, nil
	case bytecode.AddAssign, bytecode.SubtractAssign, bytecode.MultiplyAssign, bytecode.DivideAssign:
		m.execCompoundAssign(ins)
		return pc + 1, nil

	case bytecode.FloatTexture, bytecode.Vec3Texture, bytecode.FloatEnvironment,
		bytecode.Vec3Environment, bytecode.Shadow:
		m.execTexture(ins)
		return pc + 1, nil

	case bytecode.Call:
		return pc + 1, m.execCall(ins)

	case bytecode.Ambient:
		m.execAmbient(ins)
		return pc + 1, nil
	case bytecode.Solar:
		m.execSolar(ins, false)
		return pc + 1, nil
	case bytecode.SolarAxisAngle:
		m.execSolar(ins, true)
		return pc + 1, nil
	case bytecode.Illuminate:
		m.execIlluminate(ins, false)
		return pc + 1, nil
	case bytecode.IlluminateAxisAngle:
		m.execIlluminate(ins, true)
		return pc + 1, nil
	case bytecode.IlluminanceAxisAngle:
		m.execIlluminanceAxisAngle(ins)
		return pc + 1, nil

	default:
		return 0, errors.Errorf("vm: unhandled opcode %s", ins.Op)
	}
}

func (m *VM) maskEmpty() bool {
	n := m.grid.Size()
	for _, v := range m.mask.active(n) {
		if v {
			return false
		}
	}
	return true
}

func (m *VM) execGenerateMask(ins bytecode.Instruction) {
	cond := m.regs[ins.A]
	n := cond.Size()
	if n < m.grid.Size() && cond.StorageClass() != value.Varying {
		n = m.grid.Size()
	}
	truth := make([]bool, n)
	for i := 0; i < n; i++ {
		truth[i] = cond.Int(clampIndex(i, cond)) != 0
	}
	m.mask.push(truth)
}

// clampIndex maps a grid-wide lane index down to 0 for a non-varying
// buffer, the same broadcast Buffer.index already applies internally;
// exposed here because GenerateMask needs to read through a Buffer's
// public Int accessor at grid width even when cond itself is uniform.
func clampIndex(i int, b *value.Buffer) int {
	if b.StorageClass() == value.Varying {
		return i
	}
	return 0
}

func (m *VM) execReset(ins bytecode.Instruction) {
	dst := m.regs[ins.Dst]
	c := m.prog.Constants[ins.Const]
	n := dst.Size()
	active := m.activeFor(dst)
	for i := 0; i < n; i++ {
		if !active[i] {
			continue
		}
		switch c.Type {
		case value.Integer:
			dst.SetInt(i, c.Ints[0])
		case value.String:
			dst.SetStr(i, c.Str)
		case value.Null:
		default:
			if c.Type.IsTriple() {
				dst.SetVec3(i, [3]float32{c.Floats[0], c.Floats[1], c.Floats[2]})
			} else {
				dst.SetFloat(i, c.Floats[0])
			}
		}
	}
}

// activeFor returns the condition mask sized to buf's own extent: a
// varying buffer is masked lane by lane, a uniform/constant one always
// executes (masking only ever gates per-lane varying writes).
func (m *VM) activeFor(buf *value.Buffer) []bool {
	n := buf.Size()
	if buf.StorageClass() != value.Varying {
		out := make([]bool, n)
		for i := range out {
			out[i] = true
		}
		return out
	}
	return m.mask.active(n)
}

func (m *VM) execTransform(ins bytecode.Instruction) {
	dst, a := m.regs[ins.Dst], m.regs[ins.A]
	toName := ins.Name
	fromName := ""
	if ins.Const >= 0 {
		fromName = m.prog.Constants[ins.Const].Str
	}
	to, ok := m.host.TransformTo(toName)
	if !ok {
		to = transform.Identity()
	}
	mat := to
	if fromName != "" {
		if from, ok := m.host.TransformTo(fromName); ok {
			mat = to.Mul(from.Inverse())
		}
	}

	active := m.activeFor(dst)
	for i := 0; i < dst.Size(); i++ {
		if !active[i] {
			continue
		}
		switch ins.Op {
		case bytecode.TransformPoint:
			dst.SetVec3(i, transform.Point(mat, a.Vec3(i)))
		case bytecode.TransformVector:
			dst.SetVec3(i, transform.Vector(mat, a.Vec3(i)))
		case bytecode.TransformNormal:
			dst.SetVec3(i, transform.Normal(mat, a.Vec3(i)))
		case bytecode.TransformColor:
			dst.SetVec3(i, a.Vec3(i))
		case bytecode.TransformMatrix:
			dst.SetMat4(i, mat.Mul(a.Mat4(i)))
		}
	}
}
