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

package bytecode_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reyeslang/rsl/bytecode"
	"github.com/reyeslang/rsl/value"
)

func TestOpOrderMatchesOriginalEnum(t *testing.T) {
	require.Equal(t, bytecode.Op(0), bytecode.Null)
	require.Equal(t, bytecode.Op(1), bytecode.Halt)
	require.Equal(t, bytecode.Op(9), bytecode.Jump)
	require.Equal(t, bytecode.Op(16), bytecode.Multiply)
	require.Equal(t, bytecode.Op(48), bytecode.IlluminanceAxisAngle)
	require.Equal(t, "multiply", bytecode.Multiply.String())
}

func TestMakeTagNamesMatchOriginalConvention(t *testing.T) {
	tag := bytecode.MakeTag(value.Vector, value.Uniform, value.Vector, value.Uniform)
	require.Equal(t, "u3u3", tag.String())

	tag = bytecode.MakeTag(value.Float, value.Uniform, value.Vector, value.Varying)
	require.Equal(t, "u1v3", tag.String())

	tag = bytecode.MakeTag(value.Float, value.Constant, value.Float, value.Varying)
	require.Equal(t, "u1v1", tag.String())
}

func TestArithmeticOpClassification(t *testing.T) {
	require.True(t, bytecode.Multiply.IsArithmetic())
	require.True(t, bytecode.Negate.IsArithmetic())
	require.False(t, bytecode.Call.IsArithmetic())
	require.False(t, bytecode.Jump.IsArithmetic())
}
