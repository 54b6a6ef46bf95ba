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

package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reyeslang/rsl/ast"
	"github.com/reyeslang/rsl/parser"
	"github.com/reyeslang/rsl/rslerr"
	"github.com/reyeslang/rsl/value"
)

const constantShader = `
surface constant(float Ka = 1; color Cs = color(1,1,1))
{
	Ci = Ka * Cs;
	Oi = 1;
}
`

func TestParseConstantShader(t *testing.T) {
	var diags rslerr.List
	sh := parser.Parse("constant.sl", constantShader, &diags)
	require.True(t, diags.Empty(), diags.Error())
	require.NotNil(t, sh)
	require.Equal(t, "surface", sh.Kind)
	require.Equal(t, "constant", sh.Name)
	require.Len(t, sh.Parameters, 2)
	require.Equal(t, "Ka", sh.Parameters[0].Name)
	require.Equal(t, value.Float, sh.Parameters[0].Type)
	require.Equal(t, "Cs", sh.Parameters[1].Name)
	require.Equal(t, value.Color, sh.Parameters[1].Type)
	require.Len(t, sh.Body, 2)
}

func TestParseMissingDefaultIsError(t *testing.T) {
	var diags rslerr.List
	parser.Parse("bad.sl", `surface bad(float Ka) { Ci = 0; }`, &diags)
	require.False(t, diags.Empty())
}

func TestParseIlluminanceLoop(t *testing.T) {
	src := `
surface matte(float Kd = 1)
{
	illuminance(P, (0,0,1), 3.14159) {
		vector Ln = normalize(L);
	}
	Ci = Kd;
}
`
	var diags rslerr.List
	sh := parser.Parse("matte.sl", src, &diags)
	require.True(t, diags.Empty(), diags.Error())
	require.Len(t, sh.Body, 2)
	ill, ok := sh.Body[0].(*ast.Illuminance)
	require.True(t, ok)
	require.NotNil(t, ill.Axis)
	require.NotNil(t, ill.Angle)
	require.Len(t, ill.Body.Stmts, 1)
}

func TestParseForLoopWithContinue(t *testing.T) {
	src := `
surface loopy()
{
	uniform float i;
	varying float y = 0;
	for (i = 0; i < 4; i += 1) {
		y += 1;
		continue;
		y += 1;
	}
}
`
	var diags rslerr.List
	sh := parser.Parse("loopy.sl", src, &diags)
	require.True(t, diags.Empty(), diags.Error())
	forStmt, ok := sh.Body[2].(*ast.For)
	require.True(t, ok)
	require.Len(t, forStmt.Body.Stmts, 3)
	_, ok = forStmt.Body.Stmts[1].(*ast.Continue)
	require.True(t, ok)
}

func TestParseContinueWithLevel(t *testing.T) {
	src := `
surface nested()
{
	for (uniform float i = 0; i < 2; i += 1) {
		for (uniform float j = 0; j < 2; j += 1) {
			continue 2;
		}
	}
}
`
	var diags rslerr.List
	sh := parser.Parse("nested.sl", src, &diags)
	require.True(t, diags.Empty(), diags.Error())
	outer := sh.Body[0].(*ast.For)
	inner := outer.Body.Stmts[0].(*ast.For)
	cont := inner.Body.Stmts[0].(*ast.Continue)
	require.Equal(t, 2, cont.Levels)
}
