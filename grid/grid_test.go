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

package grid_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reyeslang/rsl/grid"
	"github.com/reyeslang/rsl/value"
)

func TestNewRejectsOversizedGrid(t *testing.T) {
	_, err := grid.New(100, 100)
	require.Error(t, err)
}

func TestValueAllocatesOnFirstReference(t *testing.T) {
	g, err := grid.New(2, 2)
	require.NoError(t, err)

	b := g.Value("Cs", value.Color, value.Varying)
	require.Equal(t, value.Color, b.Type())
	require.Equal(t, 4, b.Size())

	same := g.Value("Cs", value.Color, value.Varying)
	require.Same(t, b, same)
}

func TestGenerateNormalsFlatPlaneIsUpAxis(t *testing.T) {
	g, err := grid.New(2, 2)
	require.NoError(t, err)

	p := g.Value("P", value.Point, value.Varying)
	p.SetVec3(0, [3]float32{0, 0, 0})
	p.SetVec3(1, [3]float32{1, 0, 0})
	p.SetVec3(2, [3]float32{0, 0, 1})
	p.SetVec3(3, [3]float32{1, 0, 1})

	require.NoError(t, g.GenerateNormals(false, false))
	n, ok := g.FindValue("N")
	require.True(t, ok)
	for i := 0; i < 4; i++ {
		v := n.Vec3(i)
		require.InDelta(t, float32(0), v[0], 1e-5)
		require.InDelta(t, float32(1), v[1], 1e-5)
		require.InDelta(t, float32(0), v[2], 1e-5)
	}
}

func TestGenerateNormalsSkipsIfAlreadyBoundUnlessForced(t *testing.T) {
	g, err := grid.New(2, 2)
	require.NoError(t, err)
	p := g.Value("P", value.Point, value.Varying)
	for i := 0; i < 4; i++ {
		p.SetVec3(i, [3]float32{float32(i), 0, 0})
	}
	n := g.Value("N", value.Normal, value.Varying)
	n.SetVec3(0, [3]float32{9, 9, 9})

	require.NoError(t, g.GenerateNormals(false, false))
	require.Equal(t, [3]float32{9, 9, 9}, n.Vec3(0))
}
