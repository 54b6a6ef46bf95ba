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

// execTexture backs the dedicated FloatTexture/Vec3Texture/
// FloatEnvironment/Vec3Environment/Shadow opcodes. package compiler's
// compileCall always lowers texture/environment/shadow through the
// generic Call opcode instead (see textureIntrinsic &c. below), so these
// five opcodes are never actually emitted by this repository's compiler;
// they are implemented here anyway for fidelity to bytecode.Op's full
// enum, which mirrors original_source/src/reyes/Instruction.hpp exactly.
// A hand-written bytecode.Program can still use them.
func (m *VM) execTexture(ins bytecode.Instruction) {
	switch ins.Op {
	case bytecode.FloatTexture:
		textureIntrinsic(m, ins)
	case bytecode.Vec3Texture:
		textureIntrinsic(m, ins)
	case bytecode.FloatEnvironment, bytecode.Vec3Environment:
		environmentIntrinsic(m, ins)
	case bytecode.Shadow:
		shadowIntrinsic(m, ins)
	}
}

// textureIntrinsic looks up a texture by name (its first string
// argument) and samples it at the shading point's default surface
// parameterization (s, t registers if bound, else 0). A missing texture
// samples to zero rather than erroring, matching
// original_source/src/reyes/Texture.cpp's silent-miss behavior (a shader
// author routinely calls texture() on an optional map).
func textureIntrinsic(m *VM, ins bytecode.Instruction) {
	dst := m.regs[ins.Dst]
	name := m.arg(ins, 0).Str(0)
	tex, ok := m.host.FindTexture(name)
	s, sOK := m.Register("s")
	t, tOK := m.Register("t")

	m.forEachLane(dst, func(i int) {
		if !ok {
			zeroTextureResult(dst, i)
			return
		}
		var sv, tv float32
		if sOK {
			sv = s.Float(srcIndex(s, i))
		}
		if tOK {
			tv = t.Float(srcIndex(t, i))
		}
		if dst.Type().IsTriple() {
			dst.SetVec3(i, tex.SampleColor(sv, tv))
		} else {
			dst.SetFloat(i, tex.SampleFloat(sv, tv))
		}
	})
}

// environmentIntrinsic reuses the same texture registry as texture():
// this VM does not distinguish a reflection-map environment lookup from
// a planar one (both resolve through host.Texture.SampleColor/Float on
// the direction's first two components), a deliberate simplification
// from original_source's separate EnvironmentMap class.
func environmentIntrinsic(m *VM, ins bytecode.Instruction) {
	dst := m.regs[ins.Dst]
	name := m.arg(ins, 0).Str(0)
	dir := m.arg(ins, 1)
	tex, ok := m.host.FindTexture(name)
	m.forEachLane(dst, func(i int) {
		if !ok {
			zeroTextureResult(dst, i)
			return
		}
		d := dir.Vec3(srcIndex(dir, i))
		if dst.Type().IsTriple() {
			dst.SetVec3(i, tex.SampleColor(d[0], d[1]))
		} else {
			dst.SetFloat(i, tex.SampleFloat(d[0], d[1]))
		}
	})
}

func shadowIntrinsic(m *VM, ins bytecode.Instruction) {
	dst := m.regs[ins.Dst]
	name := m.arg(ins, 0).Str(0)
	pos := m.arg(ins, 1)
	tex, ok := m.host.FindTexture(name)
	m.forEachLane(dst, func(i int) {
		if !ok {
			dst.SetFloat(i, 0)
			return
		}
		dst.SetFloat(i, tex.Shadow(pos.Vec3(srcIndex(pos, i))))
	})
}

func zeroTextureResult(dst *value.Buffer, i int) {
	if dst.Type().IsTriple() {
		dst.SetVec3(i, [3]float32{})
	} else {
		dst.SetFloat(i, 0)
	}
}
