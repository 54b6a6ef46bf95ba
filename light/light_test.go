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

package light_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reyeslang/rsl/light"
	"github.com/reyeslang/rsl/value"
)

func newVaryingPointBuffer(t *testing.T, points [][3]float32) *value.Buffer {
	t.Helper()
	buf := value.NewBuffer(len(points))
	require.NoError(t, buf.Reset(value.Point, value.Varying, len(points)))
	for i, p := range points {
		buf.SetVec3(i, p)
	}
	return buf
}

func TestSurfaceToLightVectorForIlluminate(t *testing.T) {
	p := newVaryingPointBuffer(t, [][3]float32{{0, 0, 0}, {1, 0, 0}})
	out := value.NewBuffer(2)
	require.NoError(t, out.Reset(value.Vector, value.Varying, 2))

	r := &light.Record{Kind: light.Illuminate, Position: [3]float32{0, 0, 5}}
	r.SurfaceToLightVector(p, out)

	require.Equal(t, [3]float32{0, 0, 5}, out.Vec3(0))
	require.Equal(t, [3]float32{-1, 0, 5}, out.Vec3(1))
}

func TestSurfaceToLightVectorForSolarIsConstant(t *testing.T) {
	p := newVaryingPointBuffer(t, [][3]float32{{0, 0, 0}, {9, 9, 9}})
	out := value.NewBuffer(2)
	require.NoError(t, out.Reset(value.Vector, value.Varying, 2))

	r := &light.Record{Kind: light.SolarAxis, Axis: [3]float32{0, 0, -1}}
	r.SurfaceToLightVector(p, out)

	require.Equal(t, [3]float32{0, 0, 1}, out.Vec3(0))
	require.Equal(t, [3]float32{0, 0, 1}, out.Vec3(1))
}

func TestIlluminanceMaskRestrictsByCone(t *testing.T) {
	p := newVaryingPointBuffer(t, [][3]float32{{0, 0, 1}, {10, 0, 1}})
	r := &light.Record{
		Kind:     light.IlluminateAxisAngle,
		Position: [3]float32{0, 0, 0},
		Axis:     [3]float32{0, 0, 1},
		Angle:    0.2,
	}
	mask := []bool{true, true}
	r.IlluminanceMask(p, mask)

	require.True(t, mask[0], "point straight along the cone axis stays lit")
	require.False(t, mask[1], "point far off axis is masked out")
}

func TestIlluminanceMaskIgnoresNonConeLights(t *testing.T) {
	p := newVaryingPointBuffer(t, [][3]float32{{0, 0, 0}})
	r := &light.Record{Kind: light.Illuminate}
	mask := []bool{true}
	r.IlluminanceMask(p, mask)
	require.True(t, mask[0])
}
