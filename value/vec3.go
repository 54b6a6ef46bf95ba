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

package value

import "github.com/chewxy/math32"

// Vec3 free functions operate on the [3]float32 shape Buffer.Vec3 returns,
// grounded on original_source/src/sweet/math/vec3.hpp's free-function
// vector algebra (add/sub/scale/dot/cross/normalize/length).

func AddVec3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func SubVec3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func ScaleVec3(v [3]float32, s float32) [3]float32 {
	return [3]float32{v[0] * s, v[1] * s, v[2] * s}
}

func MulVec3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func NegVec3(v [3]float32) [3]float32 {
	return [3]float32{-v[0], -v[1], -v[2]}
}

func DotVec3(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func CrossVec3(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func LengthVec3(v [3]float32) float32 {
	return math32.Sqrt(DotVec3(v, v))
}

// NormalizeVec3 returns v scaled to unit length, or the zero vector if v
// is already (numerically) zero-length.
func NormalizeVec3(v [3]float32) [3]float32 {
	l := LengthVec3(v)
	if l == 0 {
		return v
	}
	return ScaleVec3(v, 1/l)
}
