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

package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reyeslang/rsl/value"
)

func TestVec3Algebra(t *testing.T) {
	a := [3]float32{1, 0, 0}
	b := [3]float32{0, 1, 0}

	require.Equal(t, [3]float32{1, 1, 0}, value.AddVec3(a, b))
	require.InDelta(t, float32(0), value.DotVec3(a, b), 1e-6)
	require.Equal(t, [3]float32{0, 0, 1}, value.CrossVec3(a, b))
	require.InDelta(t, float32(1), value.LengthVec3(a), 1e-6)

	n := value.NormalizeVec3([3]float32{3, 0, 4})
	require.InDelta(t, float32(0.6), n[0], 1e-5)
	require.InDelta(t, float32(0.8), n[2], 1e-5)
}

func TestNormalizeZeroVectorIsIdentity(t *testing.T) {
	require.Equal(t, [3]float32{0, 0, 0}, value.NormalizeVec3([3]float32{0, 0, 0}))
}
