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

package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reyeslang/rsl/bytecode"
	"github.com/reyeslang/rsl/compiler"
	"github.com/reyeslang/rsl/parser"
	"github.com/reyeslang/rsl/rslerr"
	"github.com/reyeslang/rsl/semantic"
	"github.com/reyeslang/rsl/symbol"
)

func compile(t *testing.T, src string) *bytecode.Program {
	t.Helper()
	var pdiags rslerr.List
	sh := parser.Parse("test.sl", src, &pdiags)
	require.True(t, pdiags.Empty(), pdiags.Error())

	var diags rslerr.List
	info := semantic.Analyze(sh, symbol.NewTable(), &diags)
	require.True(t, diags.Empty(), diags.Error())

	prog, err := compiler.Compile(sh, info)
	require.NoError(t, err)
	require.NotNil(t, prog)
	return prog
}

func countOps(prog *bytecode.Program, op bytecode.Op) int {
	n := 0
	for _, ins := range prog.Instructions {
		if ins.Op == op {
			n++
		}
	}
	return n
}

func TestCompileMatteShaderProducesCleanProgram(t *testing.T) {
	prog := compile(t, `
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
`)
	require.Equal(t, "matte", prog.Name)
	require.Equal(t, "surface", prog.Kind)
	require.True(t, prog.ShadeAddr > 0, "parameter-default prologue should precede ShadeAddr")
	require.True(t, prog.EndAddr > prog.ShadeAddr)
	require.Equal(t, bytecode.Halt, prog.Instructions[len(prog.Instructions)-1].Op)
	require.Len(t, prog.Params, 2)
}

func TestCompileParamDefaultsCompileBeforeShadeAddr(t *testing.T) {
	prog := compile(t, `surface bad(float Ka = 1; float Kd = 2) { Ci = Ka; Oi = 1; }`)
	// Both defaults are plain number literals, so their Reset instructions
	// (one per parameter) land strictly before ShadeAddr.
	resetsBeforeShade := 0
	for _, ins := range prog.Instructions[:prog.ShadeAddr] {
		if ins.Op == bytecode.Reset {
			resetsBeforeShade++
		}
	}
	require.Equal(t, 2, resetsBeforeShade)
}

func TestCompileConstantPoolDedupesIdenticalLiterals(t *testing.T) {
	prog := compile(t, `
surface bad()
{
	uniform float a = 1;
	uniform float b = 1;
	Ci = a + b;
	Oi = 1;
}
`)
	ones := 0
	for _, c := range prog.Constants {
		if c.Floats[0] == 1 {
			ones++
		}
	}
	require.Equal(t, 1, ones, "the two uniform float literals `1` should share one constant-pool entry")
}

func TestCompileIfEmitsBalancedMaskPair(t *testing.T) {
	prog := compile(t, `
surface bad(float Ka = 1)
{
	if (Ka > 0) {
		Ci = 1;
	} else {
		Ci = 0;
	}
	Oi = 1;
}
`)
	require.Equal(t, 1, countOps(prog, bytecode.GenerateMask))
	require.Equal(t, 1, countOps(prog, bytecode.InvertMask))
	require.Equal(t, 1, countOps(prog, bytecode.ClearMask))
}

func TestCompileWhileEmitsTwoClearMasksPerLoop(t *testing.T) {
	prog := compile(t, `
surface bad()
{
	uniform float i = 0;
	while (i < 4) {
		i += 1;
	}
	Oi = 1;
}
`)
	// One GenerateMask/JumpEmpty pair per loop header, and exactly two
	// ClearMask instructions: the per-iteration pop on the looping path,
	// and the trailing pop on the path that just exited.
	require.Equal(t, 1, countOps(prog, bytecode.GenerateMask))
	require.Equal(t, 1, countOps(prog, bytecode.JumpEmpty))
	require.Equal(t, 2, countOps(prog, bytecode.ClearMask))
}

func TestCompileForDesugarsLikeWhile(t *testing.T) {
	prog := compile(t, `
surface bad()
{
	for (uniform float i = 0; i < 4; i += 1) {
		Ci = i;
	}
	Oi = 1;
}
`)
	require.Equal(t, 1, countOps(prog, bytecode.GenerateMask))
	require.Equal(t, 2, countOps(prog, bytecode.ClearMask))
}

func TestCompileBreakFromNestedIfPopsBothMaskLevels(t *testing.T) {
	prog := compile(t, `
surface bad()
{
	for (uniform float i = 0; i < 4; i += 1) {
		if (i > 2) {
			break;
		}
	}
	Oi = 1;
}
`)
	// The for loop's own mask level plus the if's mask level are both open
	// at the break site, so it must emit two ClearMask instructions before
	// its jump (in addition to the loop's own two and the if's own closing
	// one, making five total).
	require.Equal(t, 5, countOps(prog, bytecode.ClearMask))
	require.True(t, countOps(prog, bytecode.Jump) >= 2, "loop back-edge plus break jump")
}

func TestCompileContinueLeavesOwnLoopLevelForItsClear(t *testing.T) {
	prog := compile(t, `
surface bad()
{
	for (uniform float i = 0; i < 4; i += 1) {
		if (i > 2) {
			continue;
		}
		Ci = i;
	}
	Oi = 1;
}
`)
	// continue pops only the if's own level (one ClearMask), leaving the
	// loop's pair (per-iteration + trailing) untouched; with the if's own
	// closing ClearMask that is four total.
	require.Equal(t, 4, countOps(prog, bytecode.ClearMask))
}

func TestCompileIlluminanceHasNoTrailingClearMask(t *testing.T) {
	prog := compile(t, `
surface bad()
{
	Ci = 0;
	illuminance(P) {
		Ci += Cl;
	}
	Oi = 1;
}
`)
	require.Equal(t, 1, countOps(prog, bytecode.JumpIlluminance))
	require.Equal(t, 1, countOps(prog, bytecode.ClearMask))
}

func TestCompileReturnPopsAllOpenMaskLevels(t *testing.T) {
	prog := compile(t, `
surface bad(float Ka = 1)
{
	if (Ka > 0) {
		if (Ka > 1) {
			return;
		}
	}
	Oi = 1;
}
`)
	returns := 0
	for _, ins := range prog.Instructions {
		if ins.Op == bytecode.Jump && ins.Target == prog.EndAddr-1 {
			returns++
		}
	}
	require.True(t, returns >= 1)
	// Both ifs' levels are open at the return: two ClearMask before its
	// jump, plus each if's own closing ClearMask.
	require.Equal(t, 4, countOps(prog, bytecode.ClearMask))
}

func TestCompileGlobalsBindsWellKnownNames(t *testing.T) {
	prog := compile(t, `surface bad() { Ci = Cs; Oi = Os; }`)
	_, ok := prog.Globals["Cs"]
	require.True(t, ok)
	_, ok = prog.Globals["Ci"]
	require.True(t, ok)
}
