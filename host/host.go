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

// Package host defines the boundary between package vm and the renderer
// embedding it: named coordinate systems, texture lookup, and the camera
// transform a shade call needs but that a shading VM has no business
// owning itself. Grounded on
// original_source/src/reyes/Attributes.hpp's named_transforms_/
// transform_from() and original_source/src/reyes/Renderer.hpp's texture
// cache, generalized into an interface so package vm can be driven by a
// test double as easily as by a real renderer.
package host

import "github.com/reyeslang/rsl/transform"

// Host is the set of renderer services a shade call needs. A zero-value
// renderer (no named transforms, no textures) is a valid Host: every
// method has a defined behavior for "not found" rather than requiring a
// Host to pre-populate anything.
type Host interface {
	// TransformTo returns the matrix from camera space to the named
	// coordinate system (ok is false for an unknown name, matching
	// Attributes::transform_from's failure mode).
	TransformTo(name string) (transform.Mat4, bool)

	// FindTexture resolves a texture/environment filename to a sampler.
	// ok is false when the file does not exist or failed to load; callers
	// (package vm's texture.go) treat that as the spec's silent-zero
	// convention, not an error.
	FindTexture(name string) (Texture, bool)

	// CameraTransform returns the current object-to-camera transform, the
	// same matrix a Grid carries into a shade call.
	CameraTransform() transform.Mat4
}

// Texture is a resolved, ready-to-sample image or environment map.
type Texture interface {
	// SampleFloat returns the single-channel value at (s, t) in [0,1]^2.
	SampleFloat(s, t float32) float32
	// SampleColor returns the three-channel value at (s, t) in [0,1]^2.
	SampleColor(s, t float32) [3]float32
	// Shadow returns the fraction of the light occluded at the given
	// point in the texture's own depth map, for shadow() lookups.
	Shadow(p [3]float32) float32
}
