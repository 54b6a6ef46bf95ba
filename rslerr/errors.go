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

// Package rslerr implements the compiler's accumulate-and-continue
// diagnostics: lexical, syntactic, and semantic errors are collected with
// their source line rather than aborting on the first one, so a single
// compile reports every problem it can find.
package rslerr

import "fmt"

// Diagnostic is one parse or semantic error.
type Diagnostic struct {
	Line    int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d: %s", d.Line, d.Message)
}

// List accumulates diagnostics across a compile. A nil *List is valid and
// silently discards Add calls, so callers that don't care about
// diagnostics (e.g. re-running a known-good cached shader) need not
// allocate one.
type List struct {
	Diagnostics []Diagnostic
}

// Add appends a formatted diagnostic at the given source line.
func (l *List) Add(line int, format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.Diagnostics = append(l.Diagnostics, Diagnostic{Line: line, Message: fmt.Sprintf(format, args...)})
}

// Empty reports whether no diagnostics were recorded.
func (l *List) Empty() bool { return l == nil || len(l.Diagnostics) == 0 }

// Error implements the error interface, joining every diagnostic onto its
// own line so a failed Compile can be logged or returned directly.
func (l *List) Error() string {
	if l == nil || len(l.Diagnostics) == 0 {
		return "no errors"
	}
	s := ""
	for i, d := range l.Diagnostics {
		if i > 0 {
			s += "\n"
		}
		s += d.String()
	}
	return s
}

// ErrorPolicy is the host callback interface the surrounding renderer
// supplies to a Compile/Load call so it controls how diagnostics reach
// its own logs.
type ErrorPolicy interface {
	// ParserError reports a lexical, syntactic, or semantic error at line.
	ParserError(line int, message string)
	// RenderError reports a non-fatal runtime error (e.g. a texture miss)
	// identified by a renderer-defined code.
	RenderError(code int, message string)
}

// CountingPolicy wraps an ErrorPolicy and counts how many parser errors it
// has seen, so a caller can fail compilation once that count is nonzero
// without parsing its own error log back out of the policy.
type CountingPolicy struct {
	Policy ErrorPolicy
	count  int
}

func (c *CountingPolicy) ParserError(line int, message string) {
	c.count++
	if c.Policy != nil {
		c.Policy.ParserError(line, message)
	}
}

func (c *CountingPolicy) RenderError(code int, message string) {
	if c.Policy != nil {
		c.Policy.RenderError(code, message)
	}
}

// Count returns the number of parser errors seen so far.
func (c *CountingPolicy) Count() int { return c.count }

// CodeGenerationFailed is a severe-error exception: a condition that
// aborts construction of the Shader object outright rather than
// accumulating as a Diagnostic.
type CodeGenerationFailed struct {
	Reason string
}

func (e *CodeGenerationFailed) Error() string {
	return fmt.Sprintf("code generation failed: %s", e.Reason)
}
