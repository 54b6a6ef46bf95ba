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

// Package vm executes a compiled bytecode.Program over a grid.Grid: the
// register file, condition-mask stack, and per-opcode interpreter loop.
// Grounded on
// original_source/src/reyes/VirtualMachine.hpp/.cpp's execute()/
// execute_<opcode>() dispatch shape — one method per opcode rather than a
// giant switch-heavy computed-goto, which this package mirrors with a Go
// switch in exec.go (Go has no computed goto, and a switch over a small
// dense int enum compiles to a jump table anyway).
package vm

import (
	"github.com/pkg/errors"

	"github.com/reyeslang/rsl/bytecode"
	"github.com/reyeslang/rsl/grid"
	"github.com/reyeslang/rsl/host"
	"github.com/reyeslang/rsl/light"
	"github.com/reyeslang/rsl/value"
)

// VM is one shade call's execution state: a program, the grid it is
// shading, the register file bound to that grid, and the condition-mask
// stack. A VM is not reused across shade calls — package shader's cache
// reuses the *bytecode.Program, not the VM.
type VM struct {
	prog *bytecode.Program
	grid *grid.Grid
	host host.Host

	regs []*value.Buffer
	mask maskStack

	lights   []*light.Record
	lightIdx int
}

// New binds prog's registers to g (aliasing g's named buffers for every
// entry in prog.Globals, allocating fresh backing for everything else)
// and returns a VM ready to Shade.
func New(prog *bytecode.Program, g *grid.Grid, h host.Host) (*VM, error) {
	m := &VM{prog: prog, grid: g, host: h, regs: make([]*value.Buffer, prog.NumRegisters)}

	globalByReg := make(map[bytecode.Register]string, len(prog.Globals))
	for name, reg := range prog.Globals {
		globalByReg[reg] = name
	}

	for r := 0; r < prog.NumRegisters; r++ {
		reg := bytecode.Register(r)
		t, s := prog.RegisterTypes[r], prog.RegisterStorage[r]
		if name, ok := globalByReg[reg]; ok {
			m.regs[r] = g.Value(name, t, s)
			continue
		}
		size := 1
		if s == value.Varying {
			size = g.Size()
		}
		buf := value.NewBuffer(size)
		if err := buf.Reset(t, s, size); err != nil {
			return nil, errors.Wrapf(err, "vm: allocating register %d", r)
		}
		m.regs[r] = buf
	}
	return m, nil
}

// BindParam overrides the register bound to a shader parameter with a
// caller-supplied buffer, replacing whatever the default-value prologue
// will otherwise leave there. Must be called before Shade.
func (m *VM) BindParam(name string, buf *value.Buffer) bool {
	for _, p := range m.prog.Params {
		if p.Name == name {
			m.regs[p.Register] = buf
			return true
		}
	}
	return false
}

// Register returns the live buffer bound to a named parameter or global,
// for a caller that wants to read a shader's output (Ci, Oi, ...) after
// Shade returns.
func (m *VM) Register(name string) (*value.Buffer, bool) {
	if reg, ok := m.prog.Globals[name]; ok {
		return m.regs[reg], true
	}
	for _, p := range m.prog.Params {
		if p.Name == name {
			return m.regs[p.Register], true
		}
	}
	return nil, false
}

// SetLights installs the light records an illuminance loop iterates over
// for this shade call (surface/volume shaders only; a light shader's own
// solar/illuminate statements never consult this list).
func (m *VM) SetLights(lights []*light.Record) { m.lights = lights }

// Shade runs the parameter-default prologue (instructions [0, ShadeAddr))
// once, then the per-grid-element shading body ([ShadeAddr, EndAddr)) to
// its Halt. Splitting the two mirrors original_source's
// VirtualMachine::initialize()/shade() boundary (see bytecode.Program's
// ShadeAddr doc comment): the prologue always runs first so that
// BindParam overrides, applied between the two phases by the caller
// calling Shade once, are exactly the values the body sees.
func (m *VM) Shade() error {
	if err := m.run(0, m.prog.ShadeAddr); err != nil {
		return err
	}
	return m.run(m.prog.ShadeAddr, m.prog.EndAddr)
}

func (m *VM) run(start, end int) error {
	pc := start
	for pc < end {
		ins := m.prog.Instructions[pc]
		next, err := m.exec(pc, ins)
		if err != nil {
			return errors.Wrapf(err, "vm: %s at instruction %d (line %d)", ins.Op, pc, ins.Line)
		}
		if ins.Op == bytecode.Halt {
			return nil
		}
		pc = next
	}
	return nil
}
