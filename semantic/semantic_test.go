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

package semantic_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reyeslang/rsl/parser"
	"github.com/reyeslang/rsl/rslerr"
	"github.com/reyeslang/rsl/semantic"
	"github.com/reyeslang/rsl/symbol"
	"github.com/reyeslang/rsl/value"
)

func analyze(t *testing.T, src string) (*semantic.Info, rslerr.List) {
	t.Helper()
	var pdiags rslerr.List
	sh := parser.Parse("test.sl", src, &pdiags)
	require.True(t, pdiags.Empty(), pdiags.Error())
	var diags rslerr.List
	info := semantic.Analyze(sh, symbol.NewTable(), &diags)
	return info, diags
}

func TestAnalyzeMatteShaderIsClean(t *testing.T) {
	src := `
surface matte(float Kd = 1; float Ka = 1)
{
	varying normal Nf = N;
	Ci = 0;
	illuminance(P) {
		Ci += Cl * (Nf * normalize(L));
	}
	Ci *= Kd;
	Oi = 1;
}
`
	_, diags := analyze(t, src)
	require.True(t, diags.Empty(), diags.Error())
}

func TestAnalyzeLightScopeNameOutsideIlluminanceIsError(t *testing.T) {
	src := `
surface bad()
{
	Ci = Cl;
}
`
	_, diags := analyze(t, src)
	require.False(t, diags.Empty())
	require.Contains(t, diags.Error(), "Cl")
}

func TestAnalyzeUniformAssignedVaryingIsError(t *testing.T) {
	src := `
surface bad(float Ka = 1)
{
	uniform float u = 0;
	u = Ka * N;
}
`
	_, diags := analyze(t, src)
	require.False(t, diags.Empty())
}

func TestAnalyzeUndefinedSymbolIsError(t *testing.T) {
	src := `
surface bad()
{
	Ci = nosuchvar;
}
`
	_, diags := analyze(t, src)
	require.False(t, diags.Empty())
	require.Contains(t, diags.Error(), "nosuchvar")
}

func TestAnalyzeBreakLevelBeyondLoopDepthIsError(t *testing.T) {
	src := `
surface bad()
{
	for (uniform float i = 0; i < 2; i += 1) {
		break 2;
	}
}
`
	_, diags := analyze(t, src)
	require.False(t, diags.Empty())
}

func TestAnalyzeCallResolvesColorOverload(t *testing.T) {
	src := `
surface blend(color A = 0; color B = 1; float Kb = 0.5)
{
	Ci = mix(A, B, Kb);
	Oi = 1;
}
`
	info, diags := analyze(t, src)
	require.True(t, diags.Empty(), diags.Error())
	require.Len(t, info.Calls, 1)
	for _, sym := range info.Calls {
		require.Equal(t, value.Color, sym.Func.Result)
	}
}

func TestAnalyzeNoMatchingOverloadIsError(t *testing.T) {
	src := `
surface bad(string s = "x")
{
	Ci = mix(s, s, s);
}
`
	_, diags := analyze(t, src)
	require.False(t, diags.Empty())
}

func TestAnalyzeCountsShaderParameters(t *testing.T) {
	src := `surface plastic(float Ka = 1; float Kd = 0.5; color specularcolor = 1) { Ci = Ka; Oi = 1; }`
	info, diags := analyze(t, src)
	require.True(t, diags.Empty(), diags.Error())
	require.Equal(t, 3, info.Parameters)
}
