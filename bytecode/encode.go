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
	"bytes"
	"encoding/binary"
	"io"
	"sort"

	"github.com/pkg/errors"

	"github.com/reyeslang/rsl/value"
)

// magic tags the compiled-program file that cmd/rslc's -o flag writes and
// Decode reads back; it is not a wire protocol shared
// with another process, just a compiled-program file format, so a plain
// length-prefixed binary.Write encoding is enough — no protobuf/gRPC is
// warranted for a single program written and read back by the same tool.
const magic uint32 = 0x52534c31 // "RSL1"

// Encode serializes a compiled Program to its on-disk byte representation.
func Encode(p *Program) ([]byte, error) {
	var buf bytes.Buffer
	w := &writer{w: &buf}

	w.u32(magic)
	w.str(p.Name)
	w.str(p.Kind)

	w.u32(uint32(len(p.Params)))
	for _, param := range p.Params {
		w.str(param.Name)
		w.u8(uint8(param.Type))
		w.u8(uint8(param.Storage))
		w.u32(uint32(param.Register))
		w.i32(int32(param.Default))
	}

	w.u32(uint32(len(p.Constants)))
	for _, c := range p.Constants {
		w.u8(uint8(c.Type))
		for _, f := range c.Floats {
			w.f32(f)
		}
		w.i32(c.Ints[0])
		w.str(c.Str)
	}

	w.u32(uint32(p.NumRegisters))
	for i := 0; i < p.NumRegisters; i++ {
		w.u8(uint8(p.RegisterTypes[i]))
		w.u8(uint8(p.RegisterStorage[i]))
	}

	names := make([]string, 0, len(p.Globals))
	for name := range p.Globals {
		names = append(names, name)
	}
	sort.Strings(names)
	w.u32(uint32(len(names)))
	for _, name := range names {
		w.str(name)
		w.u32(uint32(p.Globals[name]))
	}

	w.u32(uint32(p.ShadeAddr))
	w.u32(uint32(p.EndAddr))

	w.u32(uint32(len(p.Instructions)))
	for _, ins := range p.Instructions {
		w.u8(uint8(ins.Op))
		w.u8(uint8(ins.Tag.Left.Storage))
		w.u8(uint8(ins.Tag.Left.Components))
		w.u8(uint8(ins.Tag.Right.Storage))
		w.u8(uint8(ins.Tag.Right.Components))
		w.u32(uint32(ins.Dst))
		w.u32(uint32(ins.A))
		w.u32(uint32(ins.B))
		w.u32(uint32(len(ins.Args)))
		for _, a := range ins.Args {
			w.u32(uint32(a))
		}
		w.i32(int32(ins.Const))
		w.i32(int32(ins.Target))
		w.str(ins.Name)
		w.i32(int32(ins.Line))
	}

	if w.err != nil {
		return nil, errors.Wrap(w.err, "encode program")
	}
	return buf.Bytes(), nil
}

// Decode parses a Program from the byte representation Encode produced.
func Decode(data []byte) (*Program, error) {
	r := &reader{r: bytes.NewReader(data)}

	if got := r.u32(); got != magic {
		return nil, errors.Errorf("bytecode: bad magic %#x", got)
	}
	p := &Program{}
	p.Name = r.str()
	p.Kind = r.str()

	p.Params = make([]ParamSlot, r.u32())
	for i := range p.Params {
		p.Params[i] = ParamSlot{
			Name:     r.str(),
			Type:     value.Type(r.u8()),
			Storage:  value.Storage(r.u8()),
			Register: Register(r.u32()),
			Default:  int(r.i32()),
		}
	}

	p.Constants = make([]Constant, r.u32())
	for i := range p.Constants {
		c := Constant{Type: value.Type(r.u8())}
		for j := range c.Floats {
			c.Floats[j] = r.f32()
		}
		c.Ints[0] = r.i32()
		c.Str = r.str()
		p.Constants[i] = c
	}

	n := int(r.u32())
	p.RegisterTypes = make([]value.Type, n)
	p.RegisterStorage = make([]value.Storage, n)
	for i := 0; i < n; i++ {
		p.RegisterTypes[i] = value.Type(r.u8())
		p.RegisterStorage[i] = value.Storage(r.u8())
	}
	p.NumRegisters = n

	numGlobals := int(r.u32())
	p.Globals = make(map[string]Register, numGlobals)
	for i := 0; i < numGlobals; i++ {
		name := r.str()
		p.Globals[name] = Register(r.u32())
	}

	p.ShadeAddr = int(r.u32())
	p.EndAddr = int(r.u32())

	p.Instructions = make([]Instruction, r.u32())
	for i := range p.Instructions {
		op := Op(r.u8())
		leftStorage := value.Storage(r.u8())
		leftComponents := int(r.u8())
		rightStorage := value.Storage(r.u8())
		rightComponents := int(r.u8())
		dst := Register(r.u32())
		a := Register(r.u32())
		b := Register(r.u32())
		var args []Register
		if n := r.u32(); n > 0 {
			args = make([]Register, n)
			for j := range args {
				args[j] = Register(r.u32())
			}
		}
		p.Instructions[i] = Instruction{
			Op: op,
			Tag: Tag{
				Left:  Lane{Storage: leftStorage, Components: leftComponents},
				Right: Lane{Storage: rightStorage, Components: rightComponents},
			},
			Dst:    dst,
			A:      a,
			B:      b,
			Args:   args,
			Const:  int(r.i32()),
			Target: int(r.i32()),
			Name:   r.str(),
			Line:   int(r.i32()),
		}
	}

	if r.err != nil && r.err != io.EOF {
		return nil, errors.Wrap(r.err, "decode program")
	}
	return p, nil
}

// writer accumulates the first error across a sequence of binary.Write
// calls so Encode can check it once at the end, the way gapid's own
// encoder.go threads a sticky error through many small writes instead of
// checking after every field.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) put(v interface{}) {
	if w.err != nil {
		return
	}
	w.err = binary.Write(w.w, binary.LittleEndian, v)
}

func (w *writer) u8(v uint8)   { w.put(v) }
func (w *writer) u32(v uint32) { w.put(v) }
func (w *writer) i32(v int32)  { w.put(v) }
func (w *writer) f32(v float32) { w.put(v) }
func (w *writer) str(s string) {
	w.u32(uint32(len(s)))
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, s)
}

type reader struct {
	r   *bytes.Reader
	err error
}

func (r *reader) get(v interface{}) {
	if r.err != nil {
		return
	}
	r.err = binary.Read(r.r, binary.LittleEndian, v)
}

func (r *reader) u8() uint8 {
	var v uint8
	r.get(&v)
	return v
}

func (r *reader) u32() uint32 {
	var v uint32
	r.get(&v)
	return v
}

func (r *reader) i32() int32 {
	var v int32
	r.get(&v)
	return v
}

func (r *reader) f32() float32 {
	var v float32
	r.get(&v)
	return v
}

func (r *reader) str() string {
	n := r.u32()
	if r.err != nil {
		return ""
	}
	buf := make([]byte, n)
	_, r.err = io.ReadFull(r.r, buf)
	return string(buf)
}
