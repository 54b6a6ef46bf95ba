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

// Package value implements the shading engine's typed, storage-classified
// value buffer: the runtime representation of every shader parameter,
// global, and temporary that flows through the virtual machine.
package value

import "fmt"

// Type is the runtime type of a value. The three-component types (Color,
// Point, Vector, Normal) share the same 3x32-bit layout but differ in how
// they transform under a coordinate-system change (see package transform).
type Type int

const (
	Null Type = iota
	Integer
	Float
	Color
	Point
	Vector
	Normal
	Matrix
	String
)

func (t Type) String() string {
	switch t {
	case Null:
		return "null"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Color:
		return "color"
	case Point:
		return "point"
	case Vector:
		return "vector"
	case Normal:
		return "normal"
	case Matrix:
		return "matrix"
	case String:
		return "string"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// IsTriple reports whether t is one of the three-component geometric types.
func (t Type) IsTriple() bool {
	switch t {
	case Color, Point, Vector, Normal:
		return true
	default:
		return false
	}
}

// Components returns the number of float32 (or int32) lanes one element of
// t occupies. String elements occupy zero float lanes; they are stored out
// of band (see Buffer.strs).
func (t Type) Components() int {
	switch t {
	case Integer, Float:
		return 1
	case Color, Point, Vector, Normal:
		return 3
	case Matrix:
		return 16
	default:
		return 0
	}
}

// Storage is the storage class of a value: how many elements it actually
// holds relative to the grid it is bound to.
type Storage int

const (
	Constant Storage = iota
	Uniform
	Varying
)

func (s Storage) String() string {
	switch s {
	case Constant:
		return "constant"
	case Uniform:
		return "uniform"
	case Varying:
		return "varying"
	default:
		return fmt.Sprintf("storage(%d)", int(s))
	}
}

// Combine implements spec storage(a (+) b) = max(storage(a), storage(b))
// with the ordering constant < uniform < varying.
func Combine(a, b Storage) Storage {
	if a > b {
		return a
	}
	return b
}
