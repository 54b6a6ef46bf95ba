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
	"github.com/reyeslang/rsl/light"
	"github.com/reyeslang/rsl/value"
)

// execJumpIlluminance implements an illuminance statement's loop head.
// Grounded on original_source/src/reyes/VirtualMachine.cpp's
// execute_jump_illuminance: it advances the VM's light cursor to the
// next non-ambient light, binds L/Cl/Ol/Ps for it, restricts the mask to
// the lanes the light's cone (if any) actually reaches, and either pushes
// a mask level for the loop body or jumps past it once every light has
// been visited.
//
// The per-lane light cursor lives on the VM (m.lightIdx), not in a
// register: which lanes still have a light left to visit is exactly the
// state compiler.compileIlluminance documents as unavailable to it ahead
// of time, which is why this opcode — not a GenerateMask the compiler
// emits — owns the mask push.
func (m *VM) execJumpIlluminance(pc int, ins bytecode.Instruction) (int, error) {
	for m.lightIdx < len(m.lights) {
		rec := m.lights[m.lightIdx]
		m.lightIdx++
		if rec.Kind == light.Ambient {
			continue
		}
		if ins.Const >= 0 {
			// Category-filtered illuminance is not tracked per light.Record
			// (no per-light category metadata reaches the VM from package
			// shader today); every light matches until that plumbing exists.
			_ = m.prog.Constants[ins.Const]
		}

		pos, ok := m.Register("P")
		if !ok {
			continue
		}
		l, ok := m.Register("L")
		if !ok {
			continue
		}
		rec.SurfaceToLightVector(pos, l)

		mask := make([]bool, pos.Size())
		for i := range mask {
			mask[i] = true
		}
		if len(ins.Args) == 2 {
			rec.IlluminanceMask(pos, mask)
		}
		if !anyTrue(mask) {
			continue
		}

		if cl, ok := m.Register("Cl"); ok {
			copyBroadcast(cl, rec.Color)
		}
		if ol, ok := m.Register("Ol"); ok {
			copyBroadcast(ol, rec.Opacity)
		}
		if ps, ok := m.Register("Ps"); ok {
			// Ps is a copy of P, not an alias: a light shader run on a
			// previous grid must not see this surface's own P mutate out
			// from under it by way of a shared buffer.
			ps.CopyFrom(pos)
		}

		m.mask.push(mask)
		return pc + 1, nil
	}

	m.lightIdx = 0
	return ins.Target, nil
}

func anyTrue(b []bool) bool {
	for _, v := range b {
		if v {
			return true
		}
	}
	return false
}

func copyBroadcast(dst, src *value.Buffer) {
	for i := 0; i < dst.Size(); i++ {
		dst.SetVec3(i, src.Vec3(srcIndex(src, i)))
	}
}

// execSolar writes the light-direction global L unconditionally: a solar
// statement's body always runs (its condition is "is this light being
// evaluated at all", decided once outside the VM, not per lane).
func (m *VM) execSolar(ins bytecode.Instruction, axisAngle bool) {
	l, ok := m.Register("L")
	if !ok {
		return
	}
	var dir [3]float32
	if axisAngle {
		axis := m.regs[ins.A].Vec3(0)
		dir = value.NegVec3(axis)
	}
	for i := 0; i < l.Size(); i++ {
		l.SetVec3(i, dir)
	}
}

// execIlluminate writes L from a point/axis/angle triple, same shape as
// light.Record.SurfaceToLightVector but driven by this light shader's own
// registers rather than a bound Record.
func (m *VM) execIlluminate(ins bytecode.Instruction, axisAngle bool) {
	l, ok := m.Register("L")
	if !ok {
		return
	}
	pos, ok := m.Register("P")
	if !ok {
		return
	}
	from := m.regs[ins.A].Vec3(0)
	for i := 0; i < l.Size(); i++ {
		l.SetVec3(i, value.SubVec3(from, pos.Vec3(i)))
	}
	_ = axisAngle
}

// execIlluminanceAxisAngle exists for opcode-set completeness: package
// compiler always lowers `illuminance(P, axis, angle)` through
// JumpIlluminance with two trailing Args (see compileIlluminance), so
// this dedicated opcode is never emitted. Kept so the opcode enum in
// package bytecode still has a defined behavior if some other frontend
// ever does emit it.
func (m *VM) execIlluminanceAxisAngle(ins bytecode.Instruction) {}

// execAmbient exists for opcode-set completeness alongside
// execIlluminanceAxisAngle: ambient() is called through the generic Call
// opcode (see ambientCallIntrinsic in lighting.go), since
// compiler.compileCall never emits a dedicated Ambient instruction for
// any intrinsic.
func (m *VM) execAmbient(ins bytecode.Instruction) {}
