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

package bytecode

import "github.com/reyeslang/rsl/value"

// Register names one slot of the virtual machine's register file. Each
// register holds one value.Buffer sized to the grid the program is
// currently executing over (package vm allocates the buffers; package
// compiler only assigns indices).
type Register int

// Instruction is one decoded virtual machine instruction. Not every field
// is meaningful for every Op — Dst/A/B are register operands, Args holds
// every argument register of a Call (and the extra operands of the
// light-scope instructions), Const indexes
// Program.Constants, Target is a jump destination instruction index, and
// Name carries the intrinsic or illuminance category name Call and the
// light-scope instructions need at run time. Args is a Go-idiomatic
// stand-in for what original_source's VirtualMachine::call() reads off an
// explicit operand stack — a fixed two-operand C struct has no room for
// clamp(f,f,f)-shaped calls, so package compiler puts a call's whole
// argument list here instead of growing Instruction into a union.
type Instruction struct {
	Op     Op
	Tag    Tag
	Dst    Register
	A      Register
	B      Register
	Args   []Register
	Const  int
	Target int
	Name   string
	Line   int
}

// Constant is one entry of a Program's constant pool: a compile-time
// literal the compiler hoisted out of the instruction stream, addressed
// by its Const index from the Reset instructions that load it into a
// register wherever the literal appears, and (as a string) from the
// transform and illuminance instructions that name a space or category.
type Constant struct {
	Type   value.Type
	Floats [16]float32 // first Type.Components() lanes valid; 16 covers Matrix
	Ints   [1]int32    // valid only when Type == value.Integer
	Str    string       // valid only when Type == value.String
}

// ParamSlot describes one shader parameter's binding: its declared shape
// and the register the compiler reserved for it.
type ParamSlot struct {
	Name     string
	Type     value.Type
	Storage  value.Storage
	Register Register
	Default  int // index into Program.Constants for the uniform-folded default
}

// Program is one compiled shader: a flat instruction stream plus the
// metadata package vm needs to allocate registers and bind parameters.
// Grounded on original_source's VirtualMachine::initialize()/shade(), which
// likewise separate a one-time parameter-default prologue from the
// per-grid-element shade body — ShadeAddr marks that boundary.
type Program struct {
	Name   string
	Kind   string // "surface", "displacement", "light", "volume", "imager"
	Params []ParamSlot

	Constants []Constant

	NumRegisters    int
	RegisterTypes   []value.Type
	RegisterStorage []value.Storage

	// Globals maps a well-known grid name (P, N, Ci, L, ...) to the
	// register package compiler reserved for it. Before every shade call
	// package vm binds each of these registers directly to the matching
	// Grid buffer (allocating a fresh temporary if the grid has none),
	// rather than copying element by element.
	Globals map[string]Register

	// ShadeAddr is the instruction index where per-grid-element shading
	// begins, after the parameter-default prologue. EndAddr is one past
	// the program's final instruction.
	ShadeAddr int
	EndAddr   int

	Instructions []Instruction
}

// RegisterType reports the declared type of register r.
func (p *Program) RegisterType(r Register) value.Type { return p.RegisterTypes[r] }

// RegisterStorageOf reports the declared storage class of register r.
func (p *Program) RegisterStorageOf(r Register) value.Storage { return p.RegisterStorage[r] }
