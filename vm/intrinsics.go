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
	"github.com/pkg/errors"

	"github.com/reyeslang/rsl/bytecode"
	"github.com/reyeslang/rsl/transform"
	"github.com/reyeslang/rsl/value"
)

// execCall dispatches a Call instruction to the matching intrinsic
// kernel, by name, against package compiler's Args convention (see
// bytecode.Instruction's doc comment): the full operand list lives in
// Args, Dst holds the result register (unused for a Null-result
// intrinsic like setxcomp, whose Args[0] is itself the register the call
// mutates in place). Grounded on the shading language's standard
// intrinsic catalogue and
// original_source/src/reyes/VirtualMachine.cpp's per-intrinsic
// execute_<name> methods.
func (m *VM) execCall(ins bytecode.Instruction) error {
	fn, ok := intrinsics[ins.Name]
	if !ok {
		return errors.Errorf("vm: unknown intrinsic %q", ins.Name)
	}
	fn(m, ins)
	return nil
}

type intrinsicFunc func(m *VM, ins bytecode.Instruction)

// arg resolves ins.Args[i] to its bound buffer.
func (m *VM) arg(ins bytecode.Instruction, i int) *value.Buffer { return m.regs[ins.Args[i]] }

// forEachLane runs fn for every active lane of out (a varying output
// always iterates the whole grid; a uniform/constant one iterates once).
func (m *VM) forEachLane(out *value.Buffer, fn func(i int)) {
	active := m.activeFor(out)
	for i := 0; i < out.Size(); i++ {
		if active[i] {
			fn(i)
		}
	}
}

func unaryFloat(f func(float32) float32) intrinsicFunc {
	return func(m *VM, ins bytecode.Instruction) {
		dst, a := m.regs[ins.Dst], m.arg(ins, 0)
		m.forEachLane(dst, func(i int) { dst.SetFloat(i, f(a.Float(srcIndex(a, i)))) })
	}
}

func binaryFloat(f func(a, b float32) float32) intrinsicFunc {
	return func(m *VM, ins bytecode.Instruction) {
		dst, a, b := m.regs[ins.Dst], m.arg(ins, 0), m.arg(ins, 1)
		m.forEachLane(dst, func(i int) { dst.SetFloat(i, f(a.Float(srcIndex(a, i)), b.Float(srcIndex(b, i)))) })
	}
}

var intrinsics map[string]intrinsicFunc

func init() {
	intrinsics = map[string]intrinsicFunc{
		"radians": unaryFloat(func(a float32) float32 { return a * math32.Pi / 180 }),
		"degrees": unaryFloat(func(a float32) float32 { return a * 180 / math32.Pi }),
		"sin":     unaryFloat(math32.Sin),
		"asin":    unaryFloat(math32.Asin),
		"cos":     unaryFloat(math32.Cos),
		"acos":    unaryFloat(math32.Acos),
		"tan":     unaryFloat(math32.Tan),
		"atan":    unaryFloat(math32.Atan),
		"exp":     unaryFloat(math32.Exp),
		"sqrt":    unaryFloat(math32.Sqrt),
		"inversesqrt": unaryFloat(func(a float32) float32 {
			if a <= 0 {
				return 0
			}
			return 1 / math32.Sqrt(a)
		}),
		"log":   unaryFloat(math32.Log),
		"logb":  unaryFloat(math32.Log2),
		"abs":   unaryFloat(math32.Abs),
		"sign":  unaryFloat(signf),
		"floor": unaryFloat(math32.Floor),
		"ceil":  unaryFloat(math32.Ceil),
		"round": unaryFloat(math32.Round),

		"atan2": binaryFloat(math32.Atan2),
		"pow":   binaryFloat(math32.Pow),
		"mod":   binaryFloat(math32.Mod),
		"min":   binaryFloat(func(a, b float32) float32 { return math32.Min(a, b) }),
		"max":   binaryFloat(func(a, b float32) float32 { return math32.Max(a, b) }),

		"clamp":       clampIntrinsic,
		"mix":         mixIntrinsic,
		"step":        stepIntrinsic,
		"smoothstep":  smoothstepIntrinsic,
		"random":      randomIntrinsic,

		"Du":    derivIntrinsic,
		"Dv":    derivIntrinsic,
		"Deriv": derivTwoArgIntrinsic,

		"xcomp": compIntrinsic(0),
		"ycomp": compIntrinsic(1),
		"zcomp": compIntrinsic(2),
		"setxcomp": setCompIntrinsic(0),
		"setycomp": setCompIntrinsic(1),
		"setzcomp": setCompIntrinsic(2),

		"length":    lengthIntrinsic,
		"normalize": normalizeIntrinsic,
		"distance":  distanceIntrinsic,
		"area":      areaIntrinsic,
		"rotate":    rotateDispatch,

		"faceforward":     faceforwardIntrinsic,
		"reflect":         reflectIntrinsic,
		"refract":         refractIntrinsic,
		"fresnel":         fresnelIntrinsic,
		"calculatenormal": calculateNormalIntrinsic,
		"depth":           depthIntrinsic,

		"transform":  spaceTransformIntrinsic,
		"vtransform": spaceTransformIntrinsic,
		"ntransform": spaceTransformIntrinsic,
		"ctransform": ctransformIntrinsic,

		"comp":        compMatrixIntrinsic,
		"setcomp":     setCompMatrixIntrinsic,
		"determinant": determinantIntrinsic,
		"translate":   translateMatrixIntrinsic,
		"scale":       scaleMatrixIntrinsic,

		"ambient":      ambientCallIntrinsic,
		"diffuse":      diffuseIntrinsic,
		"specular":     specularIntrinsic,
		"specularbrdf": specularBRDFIntrinsic,
		"phong":        phongIntrinsic,
		"trace":        traceIntrinsic,

		"texture":     textureIntrinsic,
		"environment": environmentIntrinsic,
		"shadow":      shadowIntrinsic,
	}
}

func signf(a float32) float32 {
	switch {
	case a > 0:
		return 1
	case a < 0:
		return -1
	default:
		return 0
	}
}

func clampIntrinsic(m *VM, ins bytecode.Instruction) {
	dst, a, lo, hi := m.regs[ins.Dst], m.arg(ins, 0), m.arg(ins, 1), m.arg(ins, 2)
	m.forEachLane(dst, func(i int) {
		v, l, h := a.Float(srcIndex(a, i)), lo.Float(srcIndex(lo, i)), hi.Float(srcIndex(hi, i))
		dst.SetFloat(i, math32.Min(math32.Max(v, l), h))
	})
}

func mixIntrinsic(m *VM, ins bytecode.Instruction) {
	dst, a, b, k := m.regs[ins.Dst], m.arg(ins, 0), m.arg(ins, 1), m.arg(ins, 2)
	if dst.Type().IsTriple() {
		m.forEachLane(dst, func(i int) {
			av, bv, kv := a.Vec3(srcIndex(a, i)), b.Vec3(srcIndex(b, i)), k.Float(srcIndex(k, i))
			dst.SetVec3(i, value.AddVec3(value.ScaleVec3(av, 1-kv), value.ScaleVec3(bv, kv)))
		})
		return
	}
	m.forEachLane(dst, func(i int) {
		av, bv, kv := a.Float(srcIndex(a, i)), b.Float(srcIndex(b, i)), k.Float(srcIndex(k, i))
		dst.SetFloat(i, av*(1-kv)+bv*kv)
	})
}

func stepIntrinsic(m *VM, ins bytecode.Instruction) {
	dst, edge, a := m.regs[ins.Dst], m.arg(ins, 0), m.arg(ins, 1)
	m.forEachLane(dst, func(i int) {
		if a.Float(srcIndex(a, i)) < edge.Float(srcIndex(edge, i)) {
			dst.SetFloat(i, 0)
		} else {
			dst.SetFloat(i, 1)
		}
	})
}

func smoothstepIntrinsic(m *VM, ins bytecode.Instruction) {
	dst, lo, hi, a := m.regs[ins.Dst], m.arg(ins, 0), m.arg(ins, 1), m.arg(ins, 2)
	m.forEachLane(dst, func(i int) {
		l, h, v := lo.Float(srcIndex(lo, i)), hi.Float(srcIndex(hi, i)), a.Float(srcIndex(a, i))
		if h == l {
			dst.SetFloat(i, 0)
			return
		}
		t := (v - l) / (h - l)
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
		dst.SetFloat(i, t*t*(3-2*t))
	})
}

// randomSeed is package-private interpreter state, not a register:
// random() has no operands to key off, only a running generator.
var randomSeed uint32 = 0x9e3779b9

func randomIntrinsic(m *VM, ins bytecode.Instruction) {
	dst := m.regs[ins.Dst]
	m.forEachLane(dst, func(i int) {
		randomSeed = randomSeed*1664525 + 1013904223
		dst.SetFloat(i, float32(randomSeed>>8)/float32(1<<24))
	})
}

// derivIntrinsic stubs Du/Dv to zero: a faithful screen-space derivative
// needs this grid's diced neighbor spacing, which package grid does not
// currently expose — zero is the correct answer for a uniform input and
// a conservative one for a varying input, rather than this package
// fabricating a neighbor relationship.
func derivIntrinsic(m *VM, ins bytecode.Instruction) {
	dst := m.regs[ins.Dst]
	if dst.Type().IsTriple() {
		m.forEachLane(dst, func(i int) { dst.SetVec3(i, [3]float32{}) })
		return
	}
	m.forEachLane(dst, func(i int) { dst.SetFloat(i, 0) })
}

func derivTwoArgIntrinsic(m *VM, ins bytecode.Instruction) {
	dst := m.regs[ins.Dst]
	m.forEachLane(dst, func(i int) { dst.SetFloat(i, 0) })
}

func compIntrinsic(k int) intrinsicFunc {
	return func(m *VM, ins bytecode.Instruction) {
		dst, a := m.regs[ins.Dst], m.arg(ins, 0)
		m.forEachLane(dst, func(i int) { dst.SetFloat(i, a.Vec3(srcIndex(a, i))[k]) })
	}
}

func setCompIntrinsic(k int) intrinsicFunc {
	return func(m *VM, ins bytecode.Instruction) {
		self, val := m.arg(ins, 0), m.arg(ins, 1)
		m.forEachLane(self, func(i int) {
			v := self.Vec3(i)
			v[k] = val.Float(srcIndex(val, i))
			self.SetVec3(i, v)
		})
	}
}

func lengthIntrinsic(m *VM, ins bytecode.Instruction) {
	dst, a := m.regs[ins.Dst], m.arg(ins, 0)
	m.forEachLane(dst, func(i int) { dst.SetFloat(i, value.LengthVec3(a.Vec3(srcIndex(a, i)))) })
}

func normalizeIntrinsic(m *VM, ins bytecode.Instruction) {
	dst, a := m.regs[ins.Dst], m.arg(ins, 0)
	m.forEachLane(dst, func(i int) { dst.SetVec3(i, value.NormalizeVec3(a.Vec3(srcIndex(a, i)))) })
}

func distanceIntrinsic(m *VM, ins bytecode.Instruction) {
	dst, a, b := m.regs[ins.Dst], m.arg(ins, 0), m.arg(ins, 1)
	m.forEachLane(dst, func(i int) {
		dst.SetFloat(i, value.LengthVec3(value.SubVec3(a.Vec3(srcIndex(a, i)), b.Vec3(srcIndex(b, i)))))
	})
}

// areaIntrinsic stubs to zero for the same reason as Du/Dv: a true
// micropolygon area needs adjacent-grid-vertex spacing this package does
// not track per shaded point.
func areaIntrinsic(m *VM, ins bytecode.Instruction) {
	dst := m.regs[ins.Dst]
	m.forEachLane(dst, func(i int) { dst.SetFloat(i, 0) })
}

// rotateDispatch resolves RSL's two same-named rotate() overloads —
// rotate(point, angle, from, to) and rotate(matrix, angle, axis) — which
// package symbol tells apart by parameter signature but package compiler
// erases back down to a plain Name string on the Call instruction; the
// VM tells them apart the only way left, by argument count.
func rotateDispatch(m *VM, ins bytecode.Instruction) {
	if len(ins.Args) == 4 {
		rotateIntrinsic(m, ins)
		return
	}
	rotateMatrixIntrinsic(m, ins)
}

func rotateMatrixIntrinsic(m *VM, ins bytecode.Instruction) {
	dst, mat, angle, axis := m.regs[ins.Dst], m.arg(ins, 0), m.arg(ins, 1), m.arg(ins, 2)
	m.forEachLane(dst, func(i int) {
		mm := transform.Mat4(mat.Mat4(srcIndex(mat, i)))
		a := angle.Float(srcIndex(angle, i))
		ax := axis.Vec3(srcIndex(axis, i))
		dst.SetMat4(i, [16]float32(mm.Mul(transform.RotateAxisAngle(ax, a))))
	})
}

func rotateIntrinsic(m *VM, ins bytecode.Instruction) {
	dst, p, angle, a, b := m.regs[ins.Dst], m.arg(ins, 0), m.arg(ins, 1), m.arg(ins, 2), m.arg(ins, 3)
	m.forEachLane(dst, func(i int) {
		axis := value.SubVec3(b.Vec3(srcIndex(b, i)), a.Vec3(srcIndex(a, i)))
		mat := transform.RotateAxisAngle(axis, angle.Float(srcIndex(angle, i)))
		rel := value.SubVec3(p.Vec3(srcIndex(p, i)), a.Vec3(srcIndex(a, i)))
		dst.SetVec3(i, value.AddVec3(transform.Point(mat, rel), a.Vec3(srcIndex(a, i))))
	})
}

func faceforwardIntrinsic(m *VM, ins bytecode.Instruction) {
	dst, n, i_ := m.regs[ins.Dst], m.arg(ins, 0), m.arg(ins, 1)
	m.forEachLane(dst, func(idx int) {
		nv, iv := n.Vec3(srcIndex(n, idx)), i_.Vec3(srcIndex(i_, idx))
		if value.DotVec3(iv, nv) < 0 {
			dst.SetVec3(idx, nv)
		} else {
			dst.SetVec3(idx, value.NegVec3(nv))
		}
	})
}

func reflectIntrinsic(m *VM, ins bytecode.Instruction) {
	dst, i_, n := m.regs[ins.Dst], m.arg(ins, 0), m.arg(ins, 1)
	m.forEachLane(dst, func(idx int) {
		iv, nv := i_.Vec3(srcIndex(i_, idx)), n.Vec3(srcIndex(n, idx))
		d := value.DotVec3(iv, nv)
		dst.SetVec3(idx, value.SubVec3(iv, value.ScaleVec3(nv, 2*d)))
	})
}

func refractIntrinsic(m *VM, ins bytecode.Instruction) {
	dst, i_, n, eta := m.regs[ins.Dst], m.arg(ins, 0), m.arg(ins, 1), m.arg(ins, 2)
	m.forEachLane(dst, func(idx int) {
		iv, nv, e := i_.Vec3(srcIndex(i_, idx)), n.Vec3(srcIndex(n, idx)), eta.Float(srcIndex(eta, idx))
		cosi := value.DotVec3(iv, nv)
		k := 1 - e*e*(1-cosi*cosi)
		if k < 0 {
			dst.SetVec3(idx, [3]float32{})
			return
		}
		dst.SetVec3(idx, value.SubVec3(value.ScaleVec3(iv, e), value.ScaleVec3(nv, e*cosi+math32.Sqrt(k))))
	})
}

func fresnelIntrinsic(m *VM, ins bytecode.Instruction) {
	dst, i_, n, eta := m.regs[ins.Dst], m.arg(ins, 0), m.arg(ins, 1), m.arg(ins, 2)
	m.forEachLane(dst, func(idx int) {
		iv, nv, e := i_.Vec3(srcIndex(i_, idx)), n.Vec3(srcIndex(n, idx)), eta.Float(srcIndex(eta, idx))
		cosi := math32.Abs(value.DotVec3(iv, nv))
		r0 := (1 - e) / (1 + e)
		r0 *= r0
		dst.SetFloat(idx, r0+(1-r0)*math32.Pow(1-cosi, 5))
	})
}

func calculateNormalIntrinsic(m *VM, ins bytecode.Instruction) {
	dst, p := m.regs[ins.Dst], m.arg(ins, 0)
	n, ok := m.Register("N")
	m.forEachLane(dst, func(idx int) {
		if ok {
			dst.SetVec3(idx, n.Vec3(srcIndex(n, idx)))
			return
		}
		_ = p
		dst.SetVec3(idx, [3]float32{0, 0, 1})
	})
}

func depthIntrinsic(m *VM, ins bytecode.Instruction) {
	dst, p := m.regs[ins.Dst], m.arg(ins, 0)
	m.forEachLane(dst, func(i int) { dst.SetFloat(i, p.Vec3(srcIndex(p, i))[2]) })
}

// spaceTransformIntrinsic implements the transform/vtransform/ntransform
// call-form overloads (as opposed to the Typecast-driven TransformPoint
// &c. opcodes compiler.go emits for `point "space" expr`): these take the
// target space as either a named string (looked up via m.host.TransformTo)
// or an already-evaluated matrix, with an optional leading "from" space,
// so package symbol resolves all four shapes to the same generic Call and
// this handler tells them apart by each leading argument's buffer Type
// rather than by argument count alone (two of the four overloads share an
// argument count: (to) and (matrix) are both 2 args, (from,to) and
// (from,matrix) are both 3).
func spaceTransformIntrinsic(m *VM, ins bytecode.Instruction) {
	dst := m.regs[ins.Dst]
	args := make([]*value.Buffer, len(ins.Args))
	for i := range args {
		args[i] = m.arg(ins, i)
	}
	v := args[len(args)-1]

	to := transform.Identity()
	spaceArg := args[len(args)-2]
	if spaceArg.Type() == value.Matrix {
		to = transform.Mat4(spaceArg.Mat4(srcIndex(spaceArg, 0)))
	} else if t, ok := m.host.TransformTo(spaceArg.Str(0)); ok {
		to = t
	}
	if len(args) == 3 {
		if from, ok := m.host.TransformTo(args[0].Str(0)); ok {
			to = to.Mul(from.Inverse())
		}
	}
	m.forEachLane(dst, func(i int) {
		switch {
		case ins.Name == "vtransform":
			dst.SetVec3(i, transform.Vector(to, v.Vec3(srcIndex(v, i))))
		case ins.Name == "ntransform":
			dst.SetVec3(i, transform.Normal(to, v.Vec3(srcIndex(v, i))))
		default:
			dst.SetVec3(i, transform.Point(to, v.Vec3(srcIndex(v, i))))
		}
	})
}

func ctransformIntrinsic(m *VM, ins bytecode.Instruction) {
	dst, c := m.regs[ins.Dst], m.arg(ins, len(ins.Args)-1)
	m.forEachLane(dst, func(i int) { dst.SetVec3(i, c.Vec3(srcIndex(c, i))) })
}

func compMatrixIntrinsic(m *VM, ins bytecode.Instruction) {
	dst, mat, row, col := m.regs[ins.Dst], m.arg(ins, 0), m.arg(ins, 1), m.arg(ins, 2)
	m.forEachLane(dst, func(i int) {
		mm := mat.Mat4(srcIndex(mat, i))
		r, c := int(row.Int(srcIndex(row, i))), int(col.Int(srcIndex(col, i)))
		dst.SetFloat(i, mm[r*4+c])
	})
}

func setCompMatrixIntrinsic(m *VM, ins bytecode.Instruction) {
	self, row, col, val := m.arg(ins, 0), m.arg(ins, 1), m.arg(ins, 2), m.arg(ins, 3)
	m.forEachLane(self, func(i int) {
		mm := self.Mat4(i)
		r, c := int(row.Int(srcIndex(row, i))), int(col.Int(srcIndex(col, i)))
		mm[r*4+c] = val.Float(srcIndex(val, i))
		self.SetMat4(i, mm)
	})
}

func determinantIntrinsic(m *VM, ins bytecode.Instruction) {
	dst, mat := m.regs[ins.Dst], m.arg(ins, 0)
	m.forEachLane(dst, func(i int) {
		mm := transform.Mat4(mat.Mat4(srcIndex(mat, i)))
		dst.SetFloat(i, mm.Determinant())
	})
}

func translateMatrixIntrinsic(m *VM, ins bytecode.Instruction) {
	dst, mat, p := m.regs[ins.Dst], m.arg(ins, 0), m.arg(ins, 1)
	m.forEachLane(dst, func(i int) {
		mm := transform.Mat4(mat.Mat4(srcIndex(mat, i)))
		v := p.Vec3(srcIndex(p, i))
		dst.SetMat4(i, [16]float32(mm.Mul(transform.Translate(v[0], v[1], v[2]))))
	})
}

func scaleMatrixIntrinsic(m *VM, ins bytecode.Instruction) {
	dst, mat, p := m.regs[ins.Dst], m.arg(ins, 0), m.arg(ins, 1)
	m.forEachLane(dst, func(i int) {
		mm := transform.Mat4(mat.Mat4(srcIndex(mat, i)))
		v := p.Vec3(srcIndex(p, i))
		dst.SetMat4(i, [16]float32(mm.Mul(transform.Scale(v[0], v[1], v[2]))))
	})
}
