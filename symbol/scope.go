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

package symbol

// scope is one level of the shader-local scope stack.
type scope struct {
	symbols map[string]*Symbol
	dynamic bool // true inside illuminance/solar/illuminate bodies
}

// Table is the two-level symbol table: a global table of intrinsics
// populated once (see builtins.go) plus a per-compile stack of lexical
// scopes. Parameter scopes precede the body scope.
type Table struct {
	// builtins maps an intrinsic name to its overloads, in the
	// registration order builtins.go lists them — that order is the last
	// tie-break of overload resolution (see resolve.go's ResolveCall).
	builtins map[string][]*Symbol
	stack    []*scope
}

// NewTable returns a Table with the intrinsic library already registered.
func NewTable() *Table {
	t := &Table{builtins: map[string][]*Symbol{}}
	registerBuiltins(t)
	return t
}

func (t *Table) registerBuiltin(sym *Symbol) {
	t.builtins[sym.Name] = append(t.builtins[sym.Name], sym)
}

// Push opens a new lexical scope. dynamic marks a scope pushed for an
// illuminance/solar/illuminate body, whose light-scope symbols
// (L, Cl, Ol, Ps) are only visible while such a scope is on the stack.
func (t *Table) Push(dynamic bool) {
	t.stack = append(t.stack, &scope{symbols: map[string]*Symbol{}, dynamic: dynamic})
}

// Pop closes the innermost lexical scope.
func (t *Table) Pop() {
	t.stack = t.stack[:len(t.stack)-1]
}

// Declare adds sym to the innermost scope. It returns false if a symbol
// with that name already exists in that exact scope (shadowing an outer
// scope's name is allowed; redeclaring within the same scope is not).
func (t *Table) Declare(sym *Symbol) bool {
	top := t.top()
	if _, exists := top.symbols[sym.Name]; exists {
		return false
	}
	top.symbols[sym.Name] = sym
	return true
}

func (t *Table) top() *scope {
	if len(t.stack) == 0 {
		t.Push(false)
	}
	return t.stack[len(t.stack)-1]
}

// Resolve searches inner to outer lexical scopes for a variable/parameter
// symbol. It never returns a builtin — those are resolved separately by
// Candidates, since an intrinsic name may have several overloads.
func (t *Table) Resolve(name string) (*Symbol, bool) {
	for i := len(t.stack) - 1; i >= 0; i-- {
		if s, ok := t.stack[i].symbols[name]; ok {
			return s, true
		}
	}
	return nil, false
}

// InDynamicScope reports whether any scope currently on the stack is a
// dynamic (illuminance/solar/illuminate) scope — used to check the
// light-scope-only names L/Cl/Ol.
func (t *Table) InDynamicScope() bool {
	for _, s := range t.stack {
		if s.dynamic {
			return true
		}
	}
	return false
}

// Candidates returns every builtin overload registered under name, in
// registration order.
func (t *Table) Candidates(name string) []*Symbol {
	return t.builtins[name]
}
