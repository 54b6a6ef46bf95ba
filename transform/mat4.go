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

// Package transform implements the point/vector/normal/matrix transform
// math: the three geometric subtypes transform differently under a
// coordinate-system change, and matrices compose the named coordinate
// systems a shader can reference.
package transform

import "github.com/chewxy/math32"

// Mat4 is a row-major 4x4 matrix, matching original_source's
// sweet::math::mat4x4 layout: m[row*4+col].
type Mat4 [16]float32

// Identity returns the 4x4 identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate returns a translation matrix.
func Translate(x, y, z float32) Mat4 {
	m := Identity()
	m[3], m[7], m[11] = x, y, z
	return m
}

// Scale returns a scale matrix.
func Scale(x, y, z float32) Mat4 {
	m := Identity()
	m[0], m[5], m[10] = x, y, z
	return m
}

// RotateAxisAngle returns a rotation matrix of angle radians about axis
// (which need not be normalized).
func RotateAxisAngle(axis [3]float32, angle float32) Mat4 {
	l := math32.Sqrt(axis[0]*axis[0] + axis[1]*axis[1] + axis[2]*axis[2])
	if l == 0 {
		return Identity()
	}
	x, y, z := axis[0]/l, axis[1]/l, axis[2]/l
	c, s := math32.Cos(angle), math32.Sin(angle)
	t := 1 - c
	return Mat4{
		t*x*x + c, t*x*y - s*z, t*x*z + s*y, 0,
		t*x*y + s*z, t*y*y + c, t*y*z - s*x, 0,
		t*x*z - s*y, t*y*z + s*x, t*z*z + c, 0,
		0, 0, 0, 1,
	}
}

// Mul returns a*b (a applied after b: (a*b)*v == a*(b*v)).
func (a Mat4) Mul(b Mat4) Mat4 {
	var r Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[row*4+k] * b[k*4+col]
			}
			r[row*4+col] = sum
		}
	}
	return r
}

// Transpose returns the transpose of m.
func (m Mat4) Transpose() Mat4 {
	var r Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			r[col*4+row] = m[row*4+col]
		}
	}
	return r
}

// Upper3x3 returns the linear (rotation/scale) part of m, padded back out
// to a Mat4 with an identity bottom-right as used by the normal transform.
func (m Mat4) Upper3x3() Mat4 {
	return Mat4{
		m[0], m[1], m[2], 0,
		m[4], m[5], m[6], 0,
		m[8], m[9], m[10], 0,
		0, 0, 0, 1,
	}
}

// Inverse returns the inverse of m via cofactor expansion. No library in
// the retrieved pack exposes a freestanding float32 4x4 inverse outside a
// GPU scene-graph package (gviegas-neo3's linear types, which carry
// unrelated buffer/descriptor concerns) — see DESIGN.md — so this is
// hand-rolled, grounded on original_source's mat4x4.hpp layout.
func (m Mat4) Inverse() Mat4 {
	a := m
	var inv Mat4

	inv[0] = a[5]*a[10]*a[15] - a[5]*a[11]*a[14] - a[9]*a[6]*a[15] + a[9]*a[7]*a[14] + a[13]*a[6]*a[11] - a[13]*a[7]*a[10]
	inv[4] = -a[4]*a[10]*a[15] + a[4]*a[11]*a[14] + a[8]*a[6]*a[15] - a[8]*a[7]*a[14] - a[12]*a[6]*a[11] + a[12]*a[7]*a[10]
	inv[8] = a[4]*a[9]*a[15] - a[4]*a[11]*a[13] - a[8]*a[5]*a[15] + a[8]*a[7]*a[13] + a[12]*a[5]*a[11] - a[12]*a[7]*a[9]
	inv[12] = -a[4]*a[9]*a[14] + a[4]*a[10]*a[13] + a[8]*a[5]*a[14] - a[8]*a[6]*a[13] - a[12]*a[5]*a[10] + a[12]*a[6]*a[9]

	inv[1] = -a[1]*a[10]*a[15] + a[1]*a[11]*a[14] + a[9]*a[2]*a[15] - a[9]*a[3]*a[14] - a[13]*a[2]*a[11] + a[13]*a[3]*a[10]
	inv[5] = a[0]*a[10]*a[15] - a[0]*a[11]*a[14] - a[8]*a[2]*a[15] + a[8]*a[3]*a[14] + a[12]*a[2]*a[11] - a[12]*a[3]*a[10]
	inv[9] = -a[0]*a[9]*a[15] + a[0]*a[11]*a[13] + a[8]*a[1]*a[15] - a[8]*a[3]*a[13] - a[12]*a[1]*a[11] + a[12]*a[3]*a[9]
	inv[13] = a[0]*a[9]*a[14] - a[0]*a[10]*a[13] - a[8]*a[1]*a[14] + a[8]*a[2]*a[13] + a[12]*a[1]*a[10] - a[12]*a[2]*a[9]

	inv[2] = a[1]*a[6]*a[15] - a[1]*a[7]*a[14] - a[5]*a[2]*a[15] + a[5]*a[3]*a[14] + a[13]*a[2]*a[7] - a[13]*a[3]*a[6]
	inv[6] = -a[0]*a[6]*a[15] + a[0]*a[7]*a[14] + a[4]*a[2]*a[15] - a[4]*a[3]*a[14] - a[12]*a[2]*a[7] + a[12]*a[3]*a[6]
	inv[10] = a[0]*a[5]*a[15] - a[0]*a[7]*a[13] - a[4]*a[1]*a[15] + a[4]*a[3]*a[13] + a[12]*a[1]*a[7] - a[12]*a[3]*a[5]
	inv[14] = -a[0]*a[5]*a[14] + a[0]*a[6]*a[13] + a[4]*a[1]*a[14] - a[4]*a[2]*a[13] - a[12]*a[1]*a[6] + a[12]*a[2]*a[5]

	inv[3] = -a[1]*a[6]*a[11] + a[1]*a[7]*a[10] + a[5]*a[2]*a[11] - a[5]*a[3]*a[10] - a[9]*a[2]*a[7] + a[9]*a[3]*a[6]
	inv[7] = a[0]*a[6]*a[11] - a[0]*a[7]*a[10] - a[4]*a[2]*a[11] + a[4]*a[3]*a[10] + a[8]*a[2]*a[7] - a[8]*a[3]*a[6]
	inv[11] = -a[0]*a[5]*a[11] + a[0]*a[7]*a[9] + a[4]*a[1]*a[11] - a[4]*a[3]*a[9] - a[8]*a[1]*a[7] + a[8]*a[3]*a[5]
	inv[15] = a[0]*a[5]*a[10] - a[0]*a[6]*a[9] - a[4]*a[1]*a[10] + a[4]*a[2]*a[9] + a[8]*a[1]*a[6] - a[8]*a[2]*a[5]

	det := a[0]*inv[0] + a[1]*inv[4] + a[2]*inv[8] + a[3]*inv[12]
	if det == 0 {
		return Identity()
	}
	invDet := 1 / det
	for i := range inv {
		inv[i] *= invDet
	}
	return inv
}

// Determinant returns the determinant of m.
func (m Mat4) Determinant() float32 {
	a := m
	return a[0]*(a[5]*(a[10]*a[15]-a[11]*a[14])-a[6]*(a[9]*a[15]-a[11]*a[13])+a[7]*(a[9]*a[14]-a[10]*a[13])) -
		a[1]*(a[4]*(a[10]*a[15]-a[11]*a[14])-a[6]*(a[8]*a[15]-a[11]*a[12])+a[7]*(a[8]*a[14]-a[10]*a[12])) +
		a[2]*(a[4]*(a[9]*a[15]-a[11]*a[13])-a[5]*(a[8]*a[15]-a[11]*a[12])+a[7]*(a[8]*a[13]-a[9]*a[12])) -
		a[3]*(a[4]*(a[9]*a[14]-a[10]*a[13])-a[5]*(a[8]*a[14]-a[10]*a[12])+a[6]*(a[8]*a[13]-a[9]*a[12]))
}
