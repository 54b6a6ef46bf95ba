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

import (
	"fmt"

	"github.com/reyeslang/rsl/value"
)

// Lane compactly names one operand's (storage, component count) shape:
// the same "u3"/"v1" vocabulary original_source's multiply_u3v1-style
// function names use, minus the macro-generated enum — Go's const
// arithmetic gives us the same compactness as a plain struct.
type Lane struct {
	Storage    value.Storage
	Components int
}

func (l Lane) String() string {
	letter := "u"
	if l.Storage == value.Varying {
		letter = "v"
	}
	return fmt.Sprintf("%s%d", letter, l.Components)
}

// LaneOf derives the dispatch lane a value of type t and storage s
// occupies. Constant-storage operands dispatch as uniform, since both
// hold a single element; there is no separate constant-only kernel.
func LaneOf(t value.Type, s value.Storage) Lane {
	storage := s
	if storage == value.Constant {
		storage = value.Uniform
	}
	return Lane{Storage: storage, Components: t.Components()}
}

// Tag is the dispatch key package vm's arithmetic kernel tables are
// indexed by: the (storage, components) shape of each of the two
// operands to a binary elementwise instruction. Grounded on
// multiply.cpp's INSTRUCTION_U3V1-style dispatch switch and dt.cpp's
// dt_u3_u3/dt_v3_v3 naming.
type Tag struct {
	Left, Right Lane
}

func (t Tag) String() string { return t.Left.String() + t.Right.String() }

// MakeTag builds the dispatch tag for a binary instruction's operands.
func MakeTag(leftType value.Type, leftStorage value.Storage, rightType value.Type, rightStorage value.Storage) Tag {
	return Tag{Left: LaneOf(leftType, leftStorage), Right: LaneOf(rightType, rightStorage)}
}

// UnaryTag builds the dispatch tag for a unary instruction (negate,
// convert, promote), whose kernel table is indexed by one lane only.
func UnaryTag(t value.Type, s value.Storage) Tag {
	return Tag{Left: LaneOf(t, s)}
}
