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

// Command rslc compiles a shader source file to bytecode, optionally
// writing the encoded program to disk and/or printing a disassembly.
// Grounded on google-gapid/cmd/apic's compile verb (source in, compiled
// artifact and a -dump-style listing out) but built on the standard
// library's flag package rather than apic's core/app verb framework,
// which brings in gapid's own device/ABI machinery this repository has
// no use for.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/reyeslang/rsl/bytecode"
	"github.com/reyeslang/rsl/rslerr"
	"github.com/reyeslang/rsl/shader"
)

func main() {
	out := flag.String("o", "", "write the encoded bytecode.Program to this path")
	disasm := flag.Bool("S", false, "print a disassembly of the compiled program to stdout")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: rslc [-o out.rslc] [-S] <shader.sl>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	policy := &stderrPolicy{path: path}
	prog, err := shader.Compile(path, string(src), policy)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *out != "" {
		data, err := bytecode.Encode(prog)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	if *disasm || *out == "" {
		disassemble(os.Stdout, prog)
	}
}

type stderrPolicy struct{ path string }

func (p *stderrPolicy) ParserError(line int, message string) {
	fmt.Fprintf(os.Stderr, "%s:%d: %s\n", p.path, line, message)
}

func (p *stderrPolicy) RenderError(code int, message string) {
	fmt.Fprintf(os.Stderr, "%s: render error %d: %s\n", p.path, code, message)
}

var _ rslerr.ErrorPolicy = (*stderrPolicy)(nil)

func disassemble(w *os.File, prog *bytecode.Program) {
	fmt.Fprintf(w, "; %s %s  registers=%d  init=[0,%d)  shade=[%d,%d)\n",
		prog.Kind, prog.Name, prog.NumRegisters, prog.ShadeAddr, prog.ShadeAddr, prog.EndAddr)
	for i, p := range prog.Params {
		fmt.Fprintf(w, "; param %-12s r%-4d %s\n", p.Name, p.Register, p.Type)
		_ = i
	}
	for i, ins := range prog.Instructions {
		mark := " "
		if i == prog.ShadeAddr {
			mark = ">"
		}
		fmt.Fprintf(w, "%s%5d  %-20s dst=r%-4d a=r%-4d b=r%-4d", mark, i, ins.Op, ins.Dst, ins.A, ins.B)
		if ins.Name != "" {
			fmt.Fprintf(w, " name=%s", ins.Name)
		}
		if ins.Op == bytecode.Jump || ins.Op == bytecode.JumpEmpty || ins.Op == bytecode.JumpNotEmpty ||
			ins.Op == bytecode.JumpIlluminance {
			fmt.Fprintf(w, " target=%d", ins.Target)
		}
		fmt.Fprintln(w)
	}
}
