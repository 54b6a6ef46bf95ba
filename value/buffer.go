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

package value

import (
	"github.com/pkg/errors"
)

// MaxCapacity is the largest grid this engine will shade in one call. It
// bounds the backing allocation every Buffer reserves up front so that
// Reset never has to grow it mid-shade. original_source bakes this same
// limit into its allocator without enforcing it, which corrupts memory on
// an oversized grid; Reset here returns an error instead of silently
// overrunning the backing array.
const MaxCapacity = 4096

// Buffer is a fixed-capacity, typed, storage-classified value buffer. A
// single Buffer is reused across its lifetime: Reset reinterprets the
// backing storage as a new (type, storage, size) without reallocating,
// mirroring reyes::Value's reset().
//
// Ownership: a Buffer is owned by exactly one of a shader's constant pool,
// a Grid's value map, or a VM register slot (see package vm). There are no
// cycles; callers that need to alias a buffer (e.g. binding a grid global
// into a register) share the pointer rather than copying.
type Buffer struct {
	typ     Type
	storage Storage
	size    int

	floats []float32 // backing for Integer(as float-free int32 below)/Float/Color/Point/Vector/Normal/Matrix
	ints   []int32   // backing for Integer
	strs   []string  // backing for String
}

// NewBuffer allocates a Buffer whose backing storage can hold up to
// capacity elements of the largest component type (Matrix, 16 lanes).
// capacity must not exceed MaxCapacity.
func NewBuffer(capacity int) *Buffer {
	if capacity > MaxCapacity {
		capacity = MaxCapacity
	}
	return &Buffer{
		floats: make([]float32, 0, capacity*16),
		ints:   make([]int32, 0, capacity),
		strs:   make([]string, 0, capacity),
	}
}

// Reset reinterprets the buffer as holding size elements of (t, storage).
// It never reallocates; it fails if the backing storage is too small.
func (b *Buffer) Reset(t Type, storage Storage, size int) error {
	if storage != Varying {
		size = 1
	}
	if size > MaxCapacity {
		return errors.Errorf("value: size %d exceeds max grid capacity %d", size, MaxCapacity)
	}
	switch t {
	case Integer:
		if size > cap(b.ints) {
			return errors.Errorf("value: integer buffer capacity %d too small for size %d", cap(b.ints), size)
		}
		b.ints = b.ints[:size]
	case String:
		if size > cap(b.strs) {
			return errors.Errorf("value: string buffer capacity %d too small for size %d", cap(b.strs), size)
		}
		b.strs = b.strs[:size]
	case Null:
		// no backing storage
	default:
		n := size * t.Components()
		if n > cap(b.floats) {
			return errors.Errorf("value: float buffer capacity %d too small for %d elements of %s", cap(b.floats), size, t)
		}
		b.floats = b.floats[:n]
	}
	b.typ = t
	b.storage = storage
	b.size = size
	return nil
}

// Type returns the buffer's current interpreted type.
func (b *Buffer) Type() Type { return b.typ }

// StorageClass returns the buffer's current storage class.
func (b *Buffer) StorageClass() Storage { return b.storage }

// Size returns the number of elements currently active (1 for
// constant/uniform, width*height for varying).
func (b *Buffer) Size() int { return b.size }

// Zero clears the active extent to the zero value for its type.
func (b *Buffer) Zero() {
	switch b.typ {
	case Integer:
		for i := range b.ints {
			b.ints[i] = 0
		}
	case String:
		for i := range b.strs {
			b.strs[i] = ""
		}
	default:
		for i := range b.floats {
			b.floats[i] = 0
		}
	}
}

func (b *Buffer) assertType(t Type) {
	if b.typ != t {
		panic(errors.Errorf("value: buffer holds %s, not %s", b.typ, t))
	}
}

func (b *Buffer) index(i int) int {
	if b.storage == Varying {
		return i
	}
	return 0 // constant/uniform buffers broadcast element 0
}

// Float returns the float32 lane at vertex i (broadcasting index 0 for
// non-varying storage).
func (b *Buffer) Float(i int) float32 {
	b.assertType(Float)
	return b.floats[b.index(i)]
}

// SetFloat writes the float32 lane at vertex i.
func (b *Buffer) SetFloat(i int, v float32) {
	b.assertType(Float)
	b.floats[b.index(i)] = v
}

// Floats returns the backing slice for a Float buffer, sized Size().
func (b *Buffer) Floats() []float32 {
	b.assertType(Float)
	return b.floats
}

// Int returns the int32 lane at vertex i.
func (b *Buffer) Int(i int) int32 {
	b.assertType(Integer)
	return b.ints[b.index(i)]
}

// SetInt writes the int32 lane at vertex i.
func (b *Buffer) SetInt(i int, v int32) {
	b.assertType(Integer)
	b.ints[b.index(i)] = v
}

// Ints returns the backing slice for an Integer buffer, sized Size().
func (b *Buffer) Ints() []int32 {
	b.assertType(Integer)
	return b.ints
}

// Vec3 returns the three-component element at vertex i. Valid for Color,
// Point, Vector, and Normal buffers.
func (b *Buffer) Vec3(i int) [3]float32 {
	if !b.typ.IsTriple() {
		panic(errors.Errorf("value: buffer holds %s, not a triple type", b.typ))
	}
	o := b.index(i) * 3
	return [3]float32{b.floats[o], b.floats[o+1], b.floats[o+2]}
}

// SetVec3 writes the three-component element at vertex i.
func (b *Buffer) SetVec3(i int, v [3]float32) {
	if !b.typ.IsTriple() {
		panic(errors.Errorf("value: buffer holds %s, not a triple type", b.typ))
	}
	o := b.index(i) * 3
	b.floats[o], b.floats[o+1], b.floats[o+2] = v[0], v[1], v[2]
}

// Mat4 returns the 16-component row-major matrix at vertex i.
func (b *Buffer) Mat4(i int) [16]float32 {
	b.assertType(Matrix)
	o := b.index(i) * 16
	var m [16]float32
	copy(m[:], b.floats[o:o+16])
	return m
}

// SetMat4 writes the 16-component row-major matrix at vertex i.
func (b *Buffer) SetMat4(i int, m [16]float32) {
	b.assertType(Matrix)
	o := b.index(i) * 16
	copy(b.floats[o:o+16], m[:])
}

// Str returns the string at vertex i (string buffers are always
// constant/uniform in this language, but the accessor is index-shaped for
// symmetry).
func (b *Buffer) Str(i int) string {
	b.assertType(String)
	return b.strs[b.index(i)]
}

// SetStr writes the string at vertex i.
func (b *Buffer) SetStr(i int, v string) {
	b.assertType(String)
	b.strs[b.index(i)] = v
}

// CopyFrom copies src's active extent into b, broadcasting src's single
// element across b's varying extent if src is uniform/constant and b is
// varying, the same promotion a uniform-to-varying assignment gets
// elsewhere. b and src must share a type.
func (b *Buffer) CopyFrom(src *Buffer) {
	if b.typ != src.typ {
		panic(errors.Errorf("value: cannot copy %s into %s", src.typ, b.typ))
	}
	switch b.typ {
	case Integer:
		for i := 0; i < b.size; i++ {
			b.SetInt(i, src.Int(i))
		}
	case String:
		for i := 0; i < b.size; i++ {
			b.SetStr(i, src.Str(i))
		}
	case Matrix:
		for i := 0; i < b.size; i++ {
			b.SetMat4(i, src.Mat4(i))
		}
	case Null:
	default:
		if b.typ.IsTriple() {
			for i := 0; i < b.size; i++ {
				b.SetVec3(i, src.Vec3(i))
			}
		} else {
			for i := 0; i < b.size; i++ {
				b.SetFloat(i, src.Float(i))
			}
		}
	}
}
