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

// Package semantic implements the one-pass, bottom-up semantic analyzer:
// it annotates every expression node with (type, storage), resolves
// intrinsic overloads, and enforces the light-scope and storage-narrowing
// rules. Grounded on gapil/resolver's dispatch-by-node-type shape
// (resolver/expression.go), adapted to annotate the parser's own ast.Node
// tree via a side table rather than building a parallel semantic tree —
// this language has no separate "resolved AST" consumer the way gapil's
// template/encoder backends do, so one annotated tree is enough.
package semantic

import (
	"github.com/reyeslang/rsl/ast"
	"github.com/reyeslang/rsl/symbol"
	"github.com/reyeslang/rsl/value"
)

// ExprInfo is the annotation recorded for one expression node.
type ExprInfo struct {
	Type    value.Type
	Storage value.Storage
	// Conversion and Target are always left at None by Analyze, and
	// package compiler does not read them: it derives every conversion it
	// inserts from Type and Storage itself (compiler.coerce).
	Conversion ConversionKind
	Target     value.Type // valid only when Conversion == Widen
}

// ConversionKind enumerates the synthetic conversions the generator must
// insert to reconcile an expression's natural type/storage with its
// context's required one.
type ConversionKind int

const (
	None ConversionKind = iota
	Promote
	Widen
)

// Info is the result of a successful Analyze call.
type Info struct {
	Exprs       map[ast.Expr]*ExprInfo
	Calls       map[*ast.Call]*symbol.Symbol
	ParamSyms   map[*ast.Param]*symbol.Symbol
	VarSyms     map[*ast.VarDecl]*symbol.Symbol
	Parameters  int // number of declared shader parameters
	Registers   int // not set by Analyze or package compiler (Program.NumRegisters carries the count)
}

func newInfo() *Info {
	return &Info{
		Exprs:     map[ast.Expr]*ExprInfo{},
		Calls:     map[*ast.Call]*symbol.Symbol{},
		ParamSyms: map[*ast.Param]*symbol.Symbol{},
		VarSyms:   map[*ast.VarDecl]*symbol.Symbol{},
	}
}

func (info *Info) set(e ast.Expr, t value.Type, s value.Storage) *ExprInfo {
	ei := &ExprInfo{Type: t, Storage: s}
	info.Exprs[e] = ei
	return ei
}

// TypeOf returns the annotated type of e (panics if e was never analyzed;
// only called by package compiler after a successful Analyze).
func (info *Info) TypeOf(e ast.Expr) value.Type { return info.Exprs[e].Type }

// StorageOf returns the annotated storage class of e.
func (info *Info) StorageOf(e ast.Expr) value.Storage { return info.Exprs[e].Storage }
