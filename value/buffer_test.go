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

func TestBufferResetReusesBacking(t *testing.T) {
	b := value.NewBuffer(16)
	require.NoError(t, b.Reset(value.Float, value.Varying, 4))
	for i := 0; i < 4; i++ {
		b.SetFloat(i, float32(i))
	}
	require.NoError(t, b.Reset(value.Color, value.Varying, 4))
	b.Zero()
	for i := 0; i < 4; i++ {
		require.Equal(t, [3]float32{0, 0, 0}, b.Vec3(i))
	}
}

func TestBufferResetRejectsOversizedGrid(t *testing.T) {
	b := value.NewBuffer(8)
	err := b.Reset(value.Float, value.Varying, value.MaxCapacity+1)
	require.Error(t, err)
}

func TestBufferUniformBroadcastsOnIndex(t *testing.T) {
	b := value.NewBuffer(8)
	require.NoError(t, b.Reset(value.Float, value.Uniform, 1))
	b.SetFloat(0, 3.5)
	require.Equal(t, float32(3.5), b.Float(0))
	require.Equal(t, float32(3.5), b.Float(7))
}

func TestBufferCopyFromPromotesUniformToVarying(t *testing.T) {
	src := value.NewBuffer(8)
	require.NoError(t, src.Reset(value.Float, value.Uniform, 1))
	src.SetFloat(0, 2)

	dst := value.NewBuffer(8)
	require.NoError(t, dst.Reset(value.Float, value.Varying, 4))
	dst.CopyFrom(src)
	for i := 0; i < 4; i++ {
		require.Equal(t, float32(2), dst.Float(i))
	}
}

func TestCombineStorage(t *testing.T) {
	require.Equal(t, value.Varying, value.Combine(value.Uniform, value.Varying))
	require.Equal(t, value.Uniform, value.Combine(value.Constant, value.Uniform))
	require.Equal(t, value.Constant, value.Combine(value.Constant, value.Constant))
}
