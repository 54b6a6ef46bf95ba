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

// Package token defines the lexical tokens of the shading language and a
// hand-written scanner that turns UTF-8 source text into a token stream,
// grounded on the function-per-production shape of gapil/parser but
// without that package's lossless-CST machinery (see DESIGN.md): this
// language has no language-server use case, so a plain token stream is
// all the parser needs.
package token

// Kind identifies the lexical class of a Token.
type Kind int

const (
	EOF Kind = iota
	Ident
	Number
	StringLit
	Punct // operators and delimiters, see Token.Text for which one
	Keyword
)

// Token is one lexical token with its source position.
type Token struct {
	Kind Kind
	Text string
	Line int
}

// Keywords is the set of reserved words of the shading language.
var Keywords = map[string]bool{
	"surface": true, "displacement": true, "light": true, "volume": true, "imager": true,
	"uniform": true, "varying": true,
	"illuminate": true, "illuminance": true, "solar": true,
	"while": true, "for": true, "if": true, "else": true,
	"break": true, "continue": true, "return": true,
	"texture": true, "environment": true, "shadow": true,
	"float": true, "integer": true, "string": true,
	"color": true, "point": true, "vector": true, "normal": true, "matrix": true, "void": true,
	"extern": true, "output": true,
}
