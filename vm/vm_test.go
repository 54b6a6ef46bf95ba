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

package vm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reyeslang/rsl/bytecode"
	"github.com/reyeslang/rsl/compiler"
	"github.com/reyeslang/rsl/grid"
	"github.com/reyeslang/rsl/host"
	"github.com/reyeslang/rsl/light"
	"github.com/reyeslang/rsl/parser"
	"github.com/reyeslang/rsl/rslerr"
	"github.com/reyeslang/rsl/semantic"
	"github.com/reyeslang/rsl/symbol"
	"github.com/reyeslang/rsl/transform"
	"github.com/reyeslang/rsl/value"
	"github.com/reyeslang/rsl/vm"
)

func compile(t *testing.T, src string) *bytecode.Program {
	t.Helper()
	var pdiags rslerr.List
	sh := parser.Parse("test.sl", src, &pdiags)
	require.True(t, pdiags.Empty(), pdiags.Error())

	var diags rslerr.List
	info := semantic.Analyze(sh, symbol.NewTable(), &diags)
	require.True(t, diags.Empty(), diags.Error())

	prog, err := compiler.Compile(sh, info)
	require.NoError(t, err)
	return prog
}

// stubHost answers every coordinate-space query with identity and never
// finds a texture, enough to drive a shader that stays in camera space.
type stubHost struct{}

func (stubHost) TransformTo(string) (transform.Mat4, bool) { return transform.Identity(), true }
func (stubHost) FindTexture(string) (host.Texture, bool)   { return nil, false }
func (stubHost) CameraTransform() transform.Mat4           { return transform.Identity() }

func newGrid(t *testing.T, n int) *grid.Grid {
	t.Helper()
	g, err := grid.New(n, 1)
	require.NoError(t, err)
	p := g.Value("P", value.Point, value.Varying)
	for i := 0; i < n; i++ {
		p.SetVec3(i, [3]float32{float32(i), 0, 0})
	}
	g.Value("N", value.Normal, value.Varying)
	g.Value("Cs", value.Color, value.Varying)
	return g
}

func TestShadeConstantColorSurface(t *testing.T) {
	prog := compile(t, `surface flat(color Kd = 1) { Ci = Kd; Oi = 1; }`)
	g := newGrid(t, 4)

	m, err := vm.New(prog, g, stubHost{})
	require.NoError(t, err)
	require.NoError(t, m.Shade())

	ci, ok := m.Register("Ci")
	require.True(t, ok)
	for i := 0; i < g.Size(); i++ {
		require.Equal(t, [3]float32{1, 1, 1}, ci.Vec3(i))
	}
	oi, ok := m.Register("Oi")
	require.True(t, ok)
	require.Equal(t, [3]float32{1, 1, 1}, oi.Vec3(0))
}

func TestShadeBindParamOverridesDefault(t *testing.T) {
	prog := compile(t, `surface flat(float Kd = 1) { Ci = Kd; Oi = 1; }`)
	g := newGrid(t, 1)

	m, err := vm.New(prog, g, stubHost{})
	require.NoError(t, err)

	override := value.NewBuffer(1)
	require.NoError(t, override.Reset(value.Float, value.Uniform, 1))
	override.SetFloat(0, 7)
	require.True(t, m.BindParam("Kd", override))

	require.NoError(t, m.Shade())
	ci, _ := m.Register("Ci")
	require.Equal(t, [3]float32{7, 7, 7}, ci.Vec3(0))
}

func TestShadeIfElseSelectsBranchPerLane(t *testing.T) {
	prog := compile(t, `
surface sel()
{
	if (xcomp(vector P) > 1) {
		Ci = 1;
	} else {
		Ci = 0;
	}
	Oi = 1;
}
`)
	g := newGrid(t, 4) // P[0] == 0,1,2,3
	m, err := vm.New(prog, g, stubHost{})
	require.NoError(t, err)
	require.NoError(t, m.Shade())

	ci, _ := m.Register("Ci")
	require.Equal(t, [3]float32{0, 0, 0}, ci.Vec3(0))
	require.Equal(t, [3]float32{0, 0, 0}, ci.Vec3(1))
	require.Equal(t, [3]float32{1, 1, 1}, ci.Vec3(2))
	require.Equal(t, [3]float32{1, 1, 1}, ci.Vec3(3))
}

func TestShadeIlluminanceAccumulatesBoundLights(t *testing.T) {
	prog := compile(t, `
surface matte()
{
	Ci = 0;
	illuminance(P) {
		Ci += Cl;
	}
	Oi = 1;
}
`)
	g := newGrid(t, 2)
	m, err := vm.New(prog, g, stubHost{})
	require.NoError(t, err)

	lg, err := grid.New(2, 1)
	require.NoError(t, err)
	lcolor := lg.Value("Cl", value.Color, value.Varying)
	lopacity := lg.Value("Ol", value.Color, value.Varying)
	for i := 0; i < 2; i++ {
		lcolor.SetVec3(i, [3]float32{0.5, 0.5, 0.5})
		lopacity.SetVec3(i, [3]float32{1, 1, 1})
	}
	rec := &light.Record{Kind: light.SolarAxis, Color: lcolor, Opacity: lopacity, Axis: [3]float32{0, 0, -1}}
	m.SetLights([]*light.Record{rec})

	require.NoError(t, m.Shade())
	ci, _ := m.Register("Ci")
	require.Equal(t, [3]float32{0.5, 0.5, 0.5}, ci.Vec3(0))
}

func TestShadeWhileLoopConverges(t *testing.T) {
	prog := compile(t, `
surface counter()
{
	uniform float i = 0;
	uniform float total = 0;
	while (i < 5) {
		total += 1;
		i += 1;
	}
	Ci = total;
	Oi = 1;
}
`)
	g := newGrid(t, 1)
	m, err := vm.New(prog, g, stubHost{})
	require.NoError(t, err)
	require.NoError(t, m.Shade())

	ci, _ := m.Register("Ci")
	require.Equal(t, [3]float32{5, 5, 5}, ci.Vec3(0))
}
