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

// Package shader is the narrow entry point a renderer embeds against:
// Compile and Cache.Load turn shader source into an immutable
// bytecode.Program, Bind prepares a VM for it over a grid, and Shade runs
// its parameter defaults and then its body. Grounded on google-gapid/gapil/api.go's Processor (a path-keyed,
// mutex-guarded cache in front of Parse/Resolve) for the Compile/Load
// split and the in-process (path, mtime) cache it allows.
package shader

import (
	"github.com/pkg/errors"

	"github.com/reyeslang/rsl/bytecode"
	"github.com/reyeslang/rsl/compiler"
	"github.com/reyeslang/rsl/grid"
	"github.com/reyeslang/rsl/host"
	"github.com/reyeslang/rsl/parser"
	"github.com/reyeslang/rsl/rslerr"
	"github.com/reyeslang/rsl/semantic"
	"github.com/reyeslang/rsl/symbol"
	"github.com/reyeslang/rsl/vm"
)

// Program is a compiled shader, ready to Bind and Shade repeatedly
// against any number of grids. It is immutable and safe for concurrent
// use by multiple VMs: every shade call owns its own register file,
// never this Program's.
type Program = bytecode.Program

// Compile parses and analyzes src under name (used only for diagnostic
// line attribution) and lowers it to bytecode. Every lexical, syntactic,
// and semantic diagnostic encountered is reported through policy before
// Compile returns; if policy counted any, Compile fails with an error
// giving the shader name and the error count. A bytecode-generation invariant
// violation (a severe error, not an ordinary diagnostic) surfaces as
// *rslerr.CodeGenerationFailed instead.
func Compile(name, src string, policy rslerr.ErrorPolicy) (*Program, error) {
	counting := &rslerr.CountingPolicy{Policy: policy}

	var pdiags rslerr.List
	sh := parser.Parse(name, src, &pdiags)
	reportAndCount(&pdiags, counting)

	var sdiags rslerr.List
	info := semantic.Analyze(sh, symbol.NewTable(), &sdiags)
	reportAndCount(&sdiags, counting)

	if counting.Count() > 0 {
		return nil, errors.Errorf("shader %q: %d error(s)", name, counting.Count())
	}

	prog, err := compiler.Compile(sh, info)
	if err != nil {
		return nil, err
	}
	return prog, nil
}

func reportAndCount(diags *rslerr.List, policy rslerr.ErrorPolicy) {
	for _, d := range diags.Diagnostics {
		policy.ParserError(d.Line, d.Message)
	}
}

// Bind allocates a vm.VM for prog over g. The returned VM's register file
// is aliased to g's named buffers, so a later Shade's writes to Ci/Oi/&c.
// land directly in g. A caller wanting to override a parameter's default
// (vm.VM.BindParam) must do so before calling Shade: this package's VM
// runs the parameter-initializer prologue and the shade fragment back to
// back inside one Shade call rather than exposing them as two steps.
func Bind(prog *Program, g *grid.Grid, h host.Host) (*vm.VM, error) {
	return vm.New(prog, g, h)
}

// Shade runs prog's parameter-initializer prologue followed by its shade
// fragment over m's bound grid, in one call, since this implementation
// never suspends a shade call partway through.
func Shade(m *vm.VM) error {
	return m.Shade()
}
