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

package host

import "github.com/reyeslang/rsl/transform"

// Attributes is one level of the renderer's graphics-state stack: the
// declarative state (shading rate, matte/two-sided flags, current
// color/opacity, the transform stack, and named coordinate systems) that
// a shade call reads but a shader program never mutates directly.
// Grounded on original_source/src/reyes/Attributes.hpp, trimmed to the
// state package vm and package shader actually consume — this package
// drops the light/displacement/surface grid bookkeeping
// original_source's Attributes.hpp also carries, since that orchestration
// belongs to the embedding renderer, not to the shading engine itself.
type Attributes struct {
	ShadingRate float32
	Matte       bool
	TwoSided    bool

	Color   [3]float32
	Opacity [3]float32

	transforms []transform.Mat4
	named      map[string]transform.Mat4
	textures   map[string]Texture
}

// NewAttributes returns an Attributes with an identity transform on top
// of its stack and the defaults original_source's Attributes constructor
// applies (shading rate 1, opacity white).
func NewAttributes() *Attributes {
	return &Attributes{
		ShadingRate: 1,
		Opacity:     [3]float32{1, 1, 1},
		transforms:  []transform.Mat4{transform.Identity()},
		named:       map[string]transform.Mat4{},
		textures:    map[string]Texture{},
	}
}

// Transform returns the transform currently on top of the stack.
func (a *Attributes) Transform() transform.Mat4 { return a.transforms[len(a.transforms)-1] }

// PushTransform duplicates the top of the transform stack.
func (a *Attributes) PushTransform() {
	a.transforms = append(a.transforms, a.Transform())
}

// PopTransform discards the top of the transform stack.
func (a *Attributes) PopTransform() {
	a.transforms = a.transforms[:len(a.transforms)-1]
}

// ConcatTransform post-multiplies m onto the top of the transform stack.
func (a *Attributes) ConcatTransform(m transform.Mat4) {
	a.transforms[len(a.transforms)-1] = a.Transform().Mul(m)
}

// AddCoordinateSystem records the current transform under name, so a
// later `transform("name", P)` call can resolve it.
func (a *Attributes) AddCoordinateSystem(name string) {
	a.named[name] = a.Transform()
}

// RegisterTexture installs a resolved texture under the filename a
// shader's texture()/environment()/shadow() call will reference it by.
func (a *Attributes) RegisterTexture(name string, tex Texture) {
	a.textures[name] = tex
}

// TransformTo implements Host.
func (a *Attributes) TransformTo(name string) (transform.Mat4, bool) {
	switch name {
	case "", "current":
		return a.Transform(), true
	case "camera":
		return transform.Identity(), true
	}
	m, ok := a.named[name]
	return m, ok
}

// FindTexture implements Host.
func (a *Attributes) FindTexture(name string) (Texture, bool) {
	tex, ok := a.textures[name]
	return tex, ok
}

// CameraTransform implements Host.
func (a *Attributes) CameraTransform() transform.Mat4 { return a.Transform() }
