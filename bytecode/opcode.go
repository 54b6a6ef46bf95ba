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

// Package bytecode defines the instruction set package compiler emits and
// package vm executes: a flat, register-addressed program operating over
// a grid of SIMD lanes. Grounded on
// original_source/src/reyes/reyes_virtual_machine/Instruction.hpp, whose
// enum order this Op enum preserves exactly, and on multiply.cpp/dt.cpp's
// dispatch-tag convention (preserved as Tag, see tag.go).
package bytecode

// Op is one virtual machine opcode. The ordering matches
// original_source's Instruction enum; only INSTRUCTION_COUNT (a sizing
// sentinel, not an executable opcode) is dropped, since Go has no use for
// a "last enum value" marker.
type Op int

const (
	Null Op = iota
	Halt
	Reset
	ClearMask
	GenerateMask
	InvertMask
	JumpEmpty
	JumpNotEmpty
	JumpIlluminance
	Jump
	TransformPoint
	TransformVector
	TransformNormal
	TransformColor
	TransformMatrix
	Dot
	Multiply
	Divide
	Add
	Subtract
	Greater
	GreaterEqual
	Less
	LessEqual
	And
	Or
	Equal
	NotEqual
	Negate
	Convert
	Promote
	Assign
	AddAssign
	SubtractAssign
	MultiplyAssign
	DivideAssign
	StringAssign
	FloatTexture
	Vec3Texture
	FloatEnvironment
	Vec3Environment
	Shadow
	Call
	Ambient
	Solar
	SolarAxisAngle
	Illuminate
	IlluminateAxisAngle
	IlluminanceAxisAngle
)

var opNames = [...]string{
	"null", "halt", "reset", "clear_mask", "generate_mask", "invert_mask",
	"jump_empty", "jump_not_empty", "jump_illuminance", "jump",
	"transform_point", "transform_vector", "transform_normal", "transform_color", "transform_matrix",
	"dot", "multiply", "divide", "add", "subtract",
	"greater", "greater_equal", "less", "less_equal", "and", "or", "equal", "not_equal",
	"negate", "convert", "promote",
	"assign", "add_assign", "subtract_assign", "multiply_assign", "divide_assign", "string_assign",
	"float_texture", "vec3_texture", "float_environment", "vec3_environment", "shadow",
	"call", "ambient", "solar", "solar_axis_angle", "illuminate", "illuminate_axis_angle",
	"illuminance_axis_angle",
}

func (op Op) String() string {
	if int(op) < 0 || int(op) >= len(opNames) {
		return "op(?)"
	}
	return opNames[op]
}

// IsArithmetic reports whether op is one of the dispatch-tag-keyed
// elementwise kernels (the binary/unary math and comparison ops), as
// opposed to a control, texture, or lighting instruction.
func (op Op) IsArithmetic() bool {
	switch op {
	case Dot, Multiply, Divide, Add, Subtract,
		Greater, GreaterEqual, Less, LessEqual, And, Or, Equal, NotEqual, Negate:
		return true
	default:
		return false
	}
}
