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

package transform_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reyeslang/rsl/transform"
)

func TestTranslatePointVectorNormal(t *testing.T) {
	m := transform.Translate(1, 2, 3)

	p := transform.Point(m, [3]float32{0, 0, 0})
	require.Equal(t, [3]float32{1, 2, 3}, p)

	v := transform.Vector(m, [3]float32{0, 0, 0})
	require.Equal(t, [3]float32{0, 0, 0}, v)

	n := transform.Normal(m, [3]float32{0, 0, 0})
	require.Equal(t, [3]float32{0, 0, 0}, n)
}

func TestScaleNormalTransform(t *testing.T) {
	m := transform.Scale(2, 2, 2)
	n := transform.Normal(m, [3]float32{0, 0, 1})
	require.InDelta(t, 0.5, n[2], 1e-6)
	require.InDelta(t, 0, n[0], 1e-6)
	require.InDelta(t, 0, n[1], 1e-6)
}

func TestInverseRoundTrip(t *testing.T) {
	m := transform.Translate(1, 2, 3).Mul(transform.Scale(2, 3, 4))
	inv := m.Inverse()
	id := m.Mul(inv)
	want := transform.Identity()
	for i := range id {
		require.InDelta(t, want[i], id[i], 1e-4)
	}
}
