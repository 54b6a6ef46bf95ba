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
	"github.com/chewxy/math32"

	"github.com/reyeslang/rsl/bytecode"
	"github.com/reyeslang/rsl/light"
	"github.com/reyeslang/rsl/value"
)

// The shading-model intrinsics (diffuse, specular, specularbrdf, phong,
// ambient) are syntactic sugar for a common illuminance loop in
// original_source's shadeops.cpp (diffuse/specular/ambient there loop
// lights directly instead of expanding to RSL-level illuminance calls);
// this package does the same, iterating m.lights once per lane rather
// than compiling a loop, since there is no shader source for the VM to
// lower here.

func (m *VM) eachLight(fn func(rec *light.Record, l [3]float32, i int)) {
	p, ok := m.Register("P")
	if !ok {
		return
	}
	for _, rec := range m.lights {
		if rec.Kind == light.Ambient {
			continue
		}
		l := value.NewBuffer(p.Size())
		l.Reset(value.Vector, value.Varying, p.Size())
		rec.SurfaceToLightVector(p, l)
		mask := make([]bool, p.Size())
		for i := range mask {
			mask[i] = true
		}
		rec.IlluminanceMask(p, mask)
		for i := 0; i < p.Size(); i++ {
			if mask[i] {
				fn(rec, l.Vec3(i), i)
			}
		}
	}
}

func diffuseIntrinsic(m *VM, ins bytecode.Instruction) {
	dst, n := m.regs[ins.Dst], m.arg(ins, 0)
	sum := make([][3]float32, dst.Size())
	m.eachLight(func(rec *light.Record, l [3]float32, i int) {
		nv := value.NormalizeVec3(n.Vec3(srcIndex(n, i)))
		lv := value.NormalizeVec3(l)
		k := value.DotVec3(nv, lv)
		if k <= 0 {
			return
		}
		sum[i] = value.AddVec3(sum[i], value.ScaleVec3(rec.Color.Vec3(srcIndex(rec.Color, i)), k))
	})
	for _, rec := range m.lights {
		if rec.Kind != light.Ambient {
			continue
		}
		for i := range sum {
			sum[i] = value.AddVec3(sum[i], rec.Color.Vec3(srcIndex(rec.Color, i)))
		}
	}
	m.forEachLane(dst, func(i int) { dst.SetVec3(i, sum[i]) })
}

func specularIntrinsic(m *VM, ins bytecode.Instruction) {
	dst, n, v, rough := m.regs[ins.Dst], m.arg(ins, 0), m.arg(ins, 1), m.arg(ins, 2)
	sum := make([][3]float32, dst.Size())
	m.eachLight(func(rec *light.Record, l [3]float32, i int) {
		nv, vv := value.NormalizeVec3(n.Vec3(srcIndex(n, i))), value.NormalizeVec3(v.Vec3(srcIndex(v, i)))
		lv := value.NormalizeVec3(l)
		h := value.NormalizeVec3(value.AddVec3(lv, vv))
		k := value.DotVec3(nv, h)
		if k <= 0 {
			return
		}
		r := rough.Float(srcIndex(rough, i))
		if r <= 0 {
			r = 1e-4
		}
		w := math32.Pow(k, 1/r)
		sum[i] = value.AddVec3(sum[i], value.ScaleVec3(rec.Color.Vec3(srcIndex(rec.Color, i)), w))
	})
	m.forEachLane(dst, func(i int) { dst.SetVec3(i, sum[i]) })
}

// specularbrdf is the single-term form specular/phong both expand to in
// original_source's shadeops.cpp: one already-chosen L rather than an
// internal light loop.
func specularBRDFIntrinsic(m *VM, ins bytecode.Instruction) {
	dst, l, n, v, rough := m.regs[ins.Dst], m.arg(ins, 0), m.arg(ins, 1), m.arg(ins, 2), m.arg(ins, 3)
	m.forEachLane(dst, func(i int) {
		lv := value.NormalizeVec3(l.Vec3(srcIndex(l, i)))
		nv := value.NormalizeVec3(n.Vec3(srcIndex(n, i)))
		vv := value.NormalizeVec3(v.Vec3(srcIndex(v, i)))
		h := value.NormalizeVec3(value.AddVec3(lv, vv))
		k := value.DotVec3(nv, h)
		if k <= 0 {
			dst.SetVec3(i, [3]float32{})
			return
		}
		r := rough.Float(srcIndex(rough, i))
		if r <= 0 {
			r = 1e-4
		}
		w := math32.Pow(k, 1/r)
		dst.SetVec3(i, [3]float32{w, w, w})
	})
}

func phongIntrinsic(m *VM, ins bytecode.Instruction) {
	dst, n, v, size := m.regs[ins.Dst], m.arg(ins, 0), m.arg(ins, 1), m.arg(ins, 2)
	sum := make([][3]float32, dst.Size())
	m.eachLight(func(rec *light.Record, l [3]float32, i int) {
		nv, vv := value.NormalizeVec3(n.Vec3(srcIndex(n, i))), value.NormalizeVec3(v.Vec3(srcIndex(v, i)))
		lv := value.NormalizeVec3(l)
		refl := value.SubVec3(value.ScaleVec3(nv, 2*value.DotVec3(nv, lv)), lv)
		k := value.DotVec3(refl, vv)
		if k <= 0 {
			return
		}
		w := math32.Pow(k, size.Float(srcIndex(size, i)))
		sum[i] = value.AddVec3(sum[i], value.ScaleVec3(rec.Color.Vec3(srcIndex(rec.Color, i)), w))
	})
	m.forEachLane(dst, func(i int) { dst.SetVec3(i, sum[i]) })
}

// ambientCallIntrinsic is the call-form ambient() (zero arguments),
// summing every Ambient-kind light's color — the dedicated Ambient
// opcode is never emitted (see illuminance.go's execAmbient doc comment).
func ambientCallIntrinsic(m *VM, ins bytecode.Instruction) {
	dst := m.regs[ins.Dst]
	sum := make([][3]float32, dst.Size())
	for _, rec := range m.lights {
		if rec.Kind != light.Ambient {
			continue
		}
		for i := range sum {
			sum[i] = value.AddVec3(sum[i], rec.Color.Vec3(srcIndex(rec.Color, i)))
		}
	}
	m.forEachLane(dst, func(i int) { dst.SetVec3(i, sum[i]) })
}

// trace stubs to black: ray-traced visibility needs a scene acceleration
// structure the grid-local VM does not have access to, left to an
// embedding renderer to provide — zero is the conservative "nothing hit"
// answer rather than a fabricated intersection.
func traceIntrinsic(m *VM, ins bytecode.Instruction) {
	dst := m.regs[ins.Dst]
	m.forEachLane(dst, func(i int) { dst.SetVec3(i, [3]float32{}) })
}
