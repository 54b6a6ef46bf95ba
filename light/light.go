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

// Package light implements the result of evaluating a light shader over a
// grid, and the illuminance-axis-angle cone restriction an illuminance
// loop applies to decide which lights (or which lanes of an area light)
// reach a given surface point. Grounded on original_source's Light.hpp/
// Light.cpp and LightType.hpp.
package light

import (
	"github.com/chewxy/math32"

	"github.com/reyeslang/rsl/value"
)

// Kind distinguishes how a Record's direction/cone-restriction behaves.
// The ordering matches original_source's LightType enum.
type Kind int

const (
	Null Kind = iota
	Ambient
	SolarAxis
	SolarAxisAngle
	Illuminate
	IlluminateAxisAngle
)

// Record is one light shader's output bound to a grid: the Cl/Ol buffers
// it wrote, plus whatever axis/angle/position its solar/illuminate
// statement declared (used by illuminance's cone restriction, and by
// surface/light direction vector computation).
type Record struct {
	Kind Kind

	// Color and Opacity are the grid-shaped buffers a light shader wrote
	// to Cl and Ol. They are owned by the light's own grid (package grid);
	// a Record only holds references to them.
	Color   *value.Buffer
	Opacity *value.Buffer

	Position [3]float32 // illuminate's first argument, zero for solar/ambient
	Axis     [3]float32 // solar/illuminate's axis argument, zero if omitted
	Angle    float32    // solar/illuminate's cone half-angle, zero if omitted
}

// SurfaceToLightVector computes L = lightDirection(position) for every
// vertex of a grid whose shading points are p, writing into out (sized
// like p). For Ambient lights there is no direction; callers should skip
// illuminance accumulation for LIGHT_AMBIENT entirely (original_source
// never calls illuminance for ambient()).
func (r *Record) SurfaceToLightVector(p *value.Buffer, out *value.Buffer) {
	n := p.Size()
	for i := 0; i < n; i++ {
		var l [3]float32
		switch r.Kind {
		case SolarAxis, SolarAxisAngle:
			// A distant (solar) light's direction is constant across the
			// grid: the negated axis it was declared with.
			l = value.NegVec3(r.Axis)
		case Illuminate, IlluminateAxisAngle:
			l = value.SubVec3(r.Position, p.Vec3(i))
		}
		out.SetVec3(i, l)
	}
}

// IlluminanceMask computes, for every vertex, whether the vector from
// position toward p lies within the light's declared cone (axis, angle).
// mask[i] is set false outside the cone; ok entries are left untouched so
// callers can AND this into an existing mask. Only IlluminateAxisAngle and
// SolarAxisAngle lights restrict by cone; other kinds illuminate their
// entire extent. Grounded on Light::illuminance_axis_angle.
func (r *Record) IlluminanceMask(p *value.Buffer, mask []bool) {
	if r.Kind != IlluminateAxisAngle && r.Kind != SolarAxisAngle {
		return
	}
	cosAngle := math32.Cos(r.Angle)
	axis := value.NormalizeVec3(r.Axis)
	n := p.Size()
	for i := 0; i < n && i < len(mask); i++ {
		if !mask[i] {
			continue
		}
		var toSurface [3]float32
		if r.Kind == IlluminateAxisAngle {
			toSurface = value.NormalizeVec3(value.SubVec3(p.Vec3(i), r.Position))
		} else {
			toSurface = value.NormalizeVec3(r.Axis)
		}
		if value.DotVec3(axis, toSurface) < cosAngle {
			mask[i] = false
		}
	}
}
