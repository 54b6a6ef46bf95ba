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

package transform

// Point transforms a position: p' = M . (p, 1), xyz.
func Point(m Mat4, p [3]float32) [3]float32 {
	x := m[0]*p[0] + m[1]*p[1] + m[2]*p[2] + m[3]
	y := m[4]*p[0] + m[5]*p[1] + m[6]*p[2] + m[7]
	z := m[8]*p[0] + m[9]*p[1] + m[10]*p[2] + m[11]
	return [3]float32{x, y, z}
}

// Vector transforms a direction: v' = M . (v, 0), xyz.
func Vector(m Mat4, v [3]float32) [3]float32 {
	x := m[0]*v[0] + m[1]*v[1] + m[2]*v[2]
	y := m[4]*v[0] + m[5]*v[1] + m[6]*v[2]
	z := m[8]*v[0] + m[9]*v[1] + m[10]*v[2]
	return [3]float32{x, y, z}
}

// Normal transforms a surface normal: n' = transpose(inverse(upper3x3(M))) . n.
func Normal(m Mat4, n [3]float32) [3]float32 {
	it := m.Upper3x3().Inverse().Transpose()
	return Vector(it, n)
}

// NormalMatrix precomputes transpose(inverse(upper3x3(M))) so a caller
// transforming many normals against the same M (a whole varying buffer)
// need not repeat the inverse per element.
func NormalMatrix(m Mat4) Mat4 {
	return m.Upper3x3().Inverse().Transpose()
}
