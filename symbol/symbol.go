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

// Package symbol implements the shading language's two-level symbol
// table: a global table of intrinsics populated once at startup, and a
// shader-local stack of scopes pushed on block entry, plus the dynamic
// scope illuminance/solar/illuminate bodies push to expose L/Cl/Ol.
// Grounded on gapil/semantic/symbols.go's scope push/pop shape.
package symbol

import "github.com/reyeslang/rsl/value"

// Kind distinguishes what a Symbol names.
type Kind int

const (
	Variable Kind = iota
	Parameter
	Builtin
)

// Symbol is one resolved identifier: its type and storage class.
type Symbol struct {
	Name     string
	Kind     Kind
	Type     value.Type
	Storage  value.Storage
	Register int // not filled in: package compiler keeps its own name->register bindings (registers.go) and leaves this zero
	Func     *Signature
}

// Signature describes one overload of an intrinsic function: its
// parameter (type, storage) shapes and its result shape. Variadic lifts
// the exact-arity check, matching extra arguments against Params[0]; only
// ambient is registered variadic, and with no Params it resolves only
// when called with no arguments.
type Signature struct {
	Name     string
	Params   []Param
	Result   value.Type
	Variadic bool
}

// Param is one formal parameter shape of an intrinsic signature.
type Param struct {
	Type    value.Type
	Storage value.Storage // minimum storage; callers may pass anything <= actual argument after promotion
}
