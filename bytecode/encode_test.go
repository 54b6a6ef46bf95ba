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

func TestEncodeDecodeRoundTrip(t *testing.T) {
	p := &bytecode.Program{
		Name: "matte",
		Kind: "surface",
		Params: []bytecode.ParamSlot{
			{Name: "Kd", Type: value.Float, Storage: value.Uniform, Register: 3, Default: 0},
		},
		Constants: []bytecode.Constant{
			{Type: value.Float, Floats: [16]float32{1}},
			{Type: value.String, Str: "shadowmap.tex"},
		},
		NumRegisters:    4,
		RegisterTypes:   []value.Type{value.Point, value.Normal, value.Color, value.Float},
		RegisterStorage: []value.Storage{value.Varying, value.Varying, value.Varying, value.Uniform},
		Globals:         map[string]bytecode.Register{"P": 0, "N": 1, "Ci": 2},
		ShadeAddr:       2,
		EndAddr:         10,
		Instructions: []bytecode.Instruction{
			{Op: bytecode.Reset, Dst: 3, Const: 0, Line: 1},
			{
				Op:   bytecode.Multiply,
				Tag:  bytecode.MakeTag(value.Color, value.Varying, value.Float, value.Uniform),
				Dst:  2, A: 2, B: 3,
				Line: 4,
			},
			{Op: bytecode.Halt, Line: 5},
		},
	}

	data, err := bytecode.Encode(p)
	require.NoError(t, err)

	got, err := bytecode.Decode(data)
	require.NoError(t, err)

	require.Equal(t, p.Name, got.Name)
	require.Equal(t, p.Kind, got.Kind)
	require.Equal(t, p.Params, got.Params)
	require.Equal(t, p.Constants, got.Constants)
	require.Equal(t, p.RegisterTypes, got.RegisterTypes)
	require.Equal(t, p.RegisterStorage, got.RegisterStorage)
	require.Equal(t, p.Globals, got.Globals)
	require.Equal(t, p.ShadeAddr, got.ShadeAddr)
	require.Equal(t, p.EndAddr, got.EndAddr)
	require.Equal(t, p.Instructions, got.Instructions)
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	_, err := bytecode.Decode([]byte{0, 1, 2, 3})
	require.Error(t, err)
}
