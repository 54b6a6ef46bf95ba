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

package compiler

import (
	"github.com/reyeslang/rsl/bytecode"
	"github.com/reyeslang/rsl/value"
)

// wellKnownTypes are the grid-bound globals package vm binds to a Grid's
// named buffers before every shade call; a compiler instance allocates
// each lazily, the first time the shader body references it.
var wellKnownTypes = map[string]value.Type{
	"P": value.Point, "N": value.Normal, "Ng": value.Normal, "I": value.Vector,
	"Cs": value.Color, "Os": value.Color, "s": value.Float, "t": value.Float,
	"du": value.Float, "dv": value.Float, "E": value.Point,
	"Ci": value.Color, "Oi": value.Color,
	"L": value.Vector, "Cl": value.Color, "Ol": value.Color, "Ps": value.Point,
}

// scope is one lexical block's name->register bindings, mirroring
// package symbol's scope but decoupled from it: the compiler re-derives
// bindings during its own tree walk rather than threading the semantic
// pass's *symbol.Table through, since all it needs at this stage is
// "which register", not full overload-resolution machinery.
type scope struct {
	regs map[string]bytecode.Register
}

type registerAllocator struct {
	types   []value.Type
	storage []value.Storage

	globals map[string]bytecode.Register
	scopes  []*scope
}

func newRegisterAllocator() *registerAllocator {
	return &registerAllocator{globals: map[string]bytecode.Register{}}
}

func (r *registerAllocator) alloc(t value.Type, s value.Storage) bytecode.Register {
	reg := bytecode.Register(len(r.types))
	r.types = append(r.types, t)
	r.storage = append(r.storage, s)
	return reg
}

func (r *registerAllocator) pushScope() { r.scopes = append(r.scopes, &scope{regs: map[string]bytecode.Register{}}) }
func (r *registerAllocator) popScope()  { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *registerAllocator) declare(name string, reg bytecode.Register) {
	top := r.scopes[len(r.scopes)-1]
	top.regs[name] = reg
}

func (r *registerAllocator) lookup(name string) (bytecode.Register, bool) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if reg, ok := r.scopes[i].regs[name]; ok {
			return reg, true
		}
	}
	reg, ok := r.globals[name]
	return reg, ok
}

// global returns the register bound to a well-known grid name, allocating
// it (as Varying) on first reference.
func (r *registerAllocator) global(name string) bytecode.Register {
	if reg, ok := r.globals[name]; ok {
		return reg
	}
	t, ok := wellKnownTypes[name]
	if !ok {
		// semantic.Analyze already rejected any other identifier, so
		// reaching here means a new well-known name was added to
		// semantic's globals without a matching entry here.
		panic("compiler: unknown well-known name " + name)
	}
	reg := r.alloc(t, value.Varying)
	r.globals[name] = reg
	return reg
}
