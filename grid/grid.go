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

// Package grid implements the diced micropolygon grid a shader executes
// over: a rectangular array of vertices carrying named value.Buffer
// globals (P, N, Cs, ...), the lights currently bound to it, and the
// object-to-camera transform active when it was shaded. Grounded on
// original_source/src/sweet/render/Grid.hpp/.cpp.
package grid

import (
	"github.com/pkg/errors"

	"github.com/reyeslang/rsl/light"
	"github.com/reyeslang/rsl/transform"
	"github.com/reyeslang/rsl/value"
)

// MaxVertices bounds how large a grid this engine will dice and shade in
// one call — see value.MaxCapacity, which every per-vertex Buffer this
// package allocates is itself bound by.
const MaxVertices = value.MaxCapacity

// Grid is one rectangular array of width*height micropolygon vertices.
type Grid struct {
	Width, Height int
	Du, Dv        float32

	values map[string]*value.Buffer

	Lights []*light.Record

	Transform transform.Mat4
}

// New allocates an empty width*height grid. It returns an error if
// width*height exceeds MaxVertices, a grid-capacity invariant enforced
// here rather than silently overrun, as original_source's Grid did.
func New(width, height int) (*Grid, error) {
	if width < 0 || height < 0 {
		return nil, errors.Errorf("grid: negative dimensions %dx%d", width, height)
	}
	if width*height > MaxVertices {
		return nil, errors.Errorf("grid: %dx%d = %d vertices exceeds max capacity %d", width, height, width*height, MaxVertices)
	}
	return &Grid{Width: width, Height: height, values: map[string]*value.Buffer{}, Transform: transform.Identity()}, nil
}

// Size returns the number of vertices in the grid (Width*Height).
func (g *Grid) Size() int { return g.Width * g.Height }

// Value returns the named buffer, allocating it with the given (type,
// storage) on first reference. A grid never holds two buffers with the
// same name at different types — callers that need to reinterpret a slot
// should Reset the returned Buffer directly.
func (g *Grid) Value(name string, t value.Type, storage value.Storage) *value.Buffer {
	if b, ok := g.values[name]; ok {
		return b
	}
	size := g.Size()
	if storage != value.Varying {
		size = 1
	}
	b := value.NewBuffer(size)
	if err := b.Reset(t, storage, size); err != nil {
		// size was derived from this Grid's own already-validated
		// dimensions, so Reset cannot fail here; a panic would indicate a
		// construction bug in this package, not bad input.
		panic(err)
	}
	g.values[name] = b
	return b
}

// FindValue returns the named buffer and whether it exists, without
// allocating one.
func (g *Grid) FindValue(name string) (*value.Buffer, bool) {
	b, ok := g.values[name]
	return b, ok
}

// SetValue installs an already-populated buffer under name, replacing
// whatever was there (used to bind a light's Cl/Ol or a parameter's
// constant-folded default directly rather than copying element by
// element).
func (g *Grid) SetValue(name string, b *value.Buffer) {
	g.values[name] = b
}

// Values returns every currently bound (name, buffer) pair. Callers must
// not mutate the returned map.
func (g *Grid) Values() map[string]*value.Buffer { return g.values }

// AddLight appends a light evaluation result bound to this grid.
func (g *Grid) AddLight(r *light.Record) {
	g.Lights = append(g.Lights, r)
}

// GenerateNormals computes N from P by averaging the face normals of the
// quads meeting at each vertex, unless N is already bound and force is
// false. Grounded on Grid::generate_normals: each quad's normal is the
// cross product of its longer diagonal-adjacent edge pair, accumulated at
// all four corners and divided by the accumulation count (not
// renormalized afterward, matching the original's behavior exactly).
func (g *Grid) GenerateNormals(leftHanded bool, force bool) error {
	if !force {
		if _, ok := g.values["N"]; ok {
			return nil
		}
	}
	p, ok := g.values["P"]
	if !ok {
		return errors.New("grid: cannot generate normals without a bound P")
	}

	sum := make([][3]float32, g.Size())
	count := make([]float32, g.Size())

	for y := 0; y < g.Height-1; y++ {
		for x := 0; x < g.Width-1; x++ {
			i0 := y*g.Width + x
			i1 := i0 + g.Width
			i2 := i1 + 1
			i3 := i0 + 1

			p0, p1, p2, p3 := p.Vec3(i0), p.Vec3(i1), p.Vec3(i2), p.Vec3(i3)

			u0 := value.SubVec3(p3, p0)
			u1 := value.SubVec3(p2, p1)
			u := u0
			if value.LengthVec3(u1) > value.LengthVec3(u0) {
				u = u1
			}
			v0 := value.SubVec3(p1, p0)
			v1 := value.SubVec3(p2, p3)
			v := v0
			if value.LengthVec3(v1) > value.LengthVec3(v0) {
				v = v1
			}

			var n [3]float32
			if leftHanded {
				n = value.NormalizeVec3(value.CrossVec3(u, v))
			} else {
				n = value.NormalizeVec3(value.CrossVec3(v, u))
			}

			for _, i := range [4]int{i0, i1, i2, i3} {
				sum[i] = value.AddVec3(sum[i], n)
				count[i]++
			}
		}
	}

	n := g.Value("N", value.Normal, value.Varying)
	for i := range sum {
		if count[i] == 0 {
			n.SetVec3(i, [3]float32{0, 0, 0})
			continue
		}
		n.SetVec3(i, value.ScaleVec3(sum[i], 1/count[i]))
	}
	return nil
}
