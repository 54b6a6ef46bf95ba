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

package symbol_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reyeslang/rsl/symbol"
	"github.com/reyeslang/rsl/value"
)

func TestResolveCallExactMatch(t *testing.T) {
	table := symbol.NewTable()
	sym, ok := table.ResolveCall("mix", []symbol.Argument{
		{Type: value.Float, Storage: value.Uniform},
		{Type: value.Float, Storage: value.Uniform},
		{Type: value.Float, Storage: value.Uniform},
	})
	require.True(t, ok)
	require.Equal(t, value.Float, sym.Func.Result)
}

func TestResolveCallPicksColorOverloadOnTypeMatch(t *testing.T) {
	table := symbol.NewTable()
	sym, ok := table.ResolveCall("mix", []symbol.Argument{
		{Type: value.Color, Storage: value.Varying},
		{Type: value.Color, Storage: value.Varying},
		{Type: value.Float, Storage: value.Uniform},
	})
	require.True(t, ok)
	require.Equal(t, value.Color, sym.Func.Result)
}

func TestResolveCallNoMatch(t *testing.T) {
	table := symbol.NewTable()
	_, ok := table.ResolveCall("mix", []symbol.Argument{{Type: value.String, Storage: value.Uniform}})
	require.False(t, ok)
}

func TestScopeShadowing(t *testing.T) {
	table := symbol.NewTable()
	table.Push(false)
	table.Declare(&symbol.Symbol{Name: "x", Type: value.Float, Storage: value.Uniform})
	_, ok := table.Resolve("x")
	require.True(t, ok)
	table.Push(false)
	table.Declare(&symbol.Symbol{Name: "x", Type: value.Color, Storage: value.Varying})
	sym, _ := table.Resolve("x")
	require.Equal(t, value.Color, sym.Type)
	table.Pop()
	sym, _ = table.Resolve("x")
	require.Equal(t, value.Float, sym.Type)
}

func TestDynamicScopeDetection(t *testing.T) {
	table := symbol.NewTable()
	require.False(t, table.InDynamicScope())
	table.Push(true)
	require.True(t, table.InDynamicScope())
	table.Pop()
	require.False(t, table.InDynamicScope())
}
