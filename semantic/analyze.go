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

package semantic

import (
	"github.com/reyeslang/rsl/ast"
	"github.com/reyeslang/rsl/rslerr"
	"github.com/reyeslang/rsl/symbol"
	"github.com/reyeslang/rsl/value"
)

// lightScopeNames are only declared while a dynamic (illuminance/solar/
// illuminate) scope, or a light-shader body, is on the scope stack.
var lightScopeNames = map[string]bool{"L": true, "Cl": true, "Ol": true, "Ps": true}

type analyzer struct {
	table     *symbol.Table
	diags     *rslerr.List
	info      *Info
	loopDepth int
}

// Analyze runs the bottom-up type/storage annotation pass over shader,
// using table for name resolution (table is mutated: scopes are
// pushed and popped, but none remain on return). Errors are reported to
// diags; Analyze always returns a non-nil *Info, even when diags is
// non-empty, so callers can inspect what did resolve.
func Analyze(shader *ast.Shader, table *symbol.Table, diags *rslerr.List) *Info {
	a := &analyzer{table: table, diags: diags, info: newInfo()}

	table.Push(false)
	a.declareGlobals(shader.Kind)

	table.Push(false)
	for _, p := range shader.Parameters {
		a.analyzeParam(p)
	}
	a.info.Parameters = len(shader.Parameters)

	table.Push(false)
	a.analyzeStmts(shader.Body)
	table.Pop() // body
	table.Pop() // parameters
	table.Pop() // globals

	return a.info
}

// declareGlobals installs the grid-bound well-known names (P, N, Ci, L,
// and the rest), scoped to the kinds of shader that may read or write
// each one.
func (a *analyzer) declareGlobals(kind string) {
	global := func(name string, t value.Type) {
		a.table.Declare(&symbol.Symbol{Name: name, Kind: symbol.Variable, Type: t, Storage: value.Varying})
	}
	global("P", value.Point)
	global("N", value.Normal)
	global("Ng", value.Normal)
	global("I", value.Vector)
	global("Cs", value.Color)
	global("Os", value.Color)
	global("s", value.Float)
	global("t", value.Float)
	global("du", value.Float)
	global("dv", value.Float)
	global("E", value.Point)

	switch kind {
	case "surface", "displacement", "volume", "imager":
		global("Ci", value.Color)
		global("Oi", value.Color)
	}
	if kind == "light" {
		// A light shader's whole body computes one light sample: Cl/Ol/L
		// are live for the entire body, not just inside a nested block.
		global("Cl", value.Color)
		global("Ol", value.Color)
		global("L", value.Vector)
	}
}

func (a *analyzer) analyzeParam(p *ast.Param) {
	declaredType, declaredStorage := p.Type, p.Storage
	defType, defStorage := a.analyzeExpr(p.Default)
	if !assignable(defType, declaredType) {
		a.errorf(p.Line(), "parameter %q default value has type %s, incompatible with declared type %s",
			p.Name, defType, declaredType)
	}
	if defStorage == value.Varying && declaredStorage == value.Uniform {
		a.errorf(p.Line(), "parameter %q default value is varying but parameter is declared uniform", p.Name)
	}
	sym := &symbol.Symbol{Name: p.Name, Kind: symbol.Parameter, Type: declaredType, Storage: declaredStorage}
	if !a.table.Declare(sym) {
		a.errorf(p.Line(), "parameter %q redeclared", p.Name)
	}
	a.info.ParamSyms[p] = sym
}

func (a *analyzer) errorf(line int, format string, args ...interface{}) {
	a.diags.Add(line, format, args...)
}

// assignable reports whether a value of type from may be stored into a
// slot of type to without an explicit typecast: same type, the numeric
// Integer<->Float pair, or Float widening into a triple.
func assignable(from, to value.Type) bool {
	if from == to {
		return true
	}
	if (from == value.Integer && to == value.Float) || (from == value.Float && to == value.Integer) {
		return true
	}
	if from == value.Float && to.IsTriple() {
		return true
	}
	return false
}
