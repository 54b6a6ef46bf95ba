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

import "github.com/reyeslang/rsl/value"

// Argument is one call-site argument shape the resolver matches against
// candidate Signatures.
type Argument struct {
	Type    value.Type
	Storage value.Storage
}

// ConversionKind ranks how far an argument had to be converted to match a
// parameter slot, used as the first overload-resolution tie-break.
type ConversionKind int

const (
	NoConversion ConversionKind = iota
	StoragePromotion
	FloatWidening
	NoMatch
)

// convert reports how arg must be converted to satisfy parameter slot
// want. Every intrinsic parameter is registered with Uniform storage
// (builtins.go's u() helper) because an intrinsic's own result storage is
// computed from its actual argument storages (value.Combine), not
// constrained by the registered signature — so storage never
// disqualifies a candidate here; a storage difference only counts as a
// StoragePromotion when ranking candidates, and the code generator passes
// the argument register through unchanged (see compiler.compileCall).
// Only the element Type can disqualify or widen a candidate.
func convert(arg Argument, want Param) ConversionKind {
	switch {
	case arg.Type == want.Type:
		if arg.Storage != want.Storage {
			return StoragePromotion
		}
		return NoConversion
	case arg.Type == value.Float && want.Type.IsTriple():
		return FloatWidening
	default:
		return NoMatch
	}
}

// ResolveCall picks among a name's overload candidates: (a) an exact
// (type, storage) match on every parameter wins outright; (b) failing
// that, the candidate needing the fewest storage promotions, and among
// those the fewest float widenings; (c) ties broken by registration
// order (Candidates' slice order), i.e. the first-registered candidate
// in builtins.go wins.
func (t *Table) ResolveCall(name string, args []Argument) (*Symbol, bool) {
	candidates := t.Candidates(name)
	best := -1
	bestScore := [2]int{1 << 30, 1 << 30} // {promotions, widenings}
	for idx, cand := range candidates {
		if !cand.Func.Variadic && len(cand.Func.Params) != len(args) {
			continue
		}
		var promotions, widenings int
		ok := true
		for i, a := range args {
			var want Param
			if cand.Func.Variadic && i >= len(cand.Func.Params) {
				if len(cand.Func.Params) == 0 {
					ok = false
					break
				}
				want = cand.Func.Params[0]
			} else {
				want = cand.Func.Params[i]
			}
			switch convert(a, want) {
			case NoConversion:
			case StoragePromotion:
				promotions++
			case FloatWidening:
				widenings++
			default:
				ok = false
			}
			if !ok {
				break
			}
		}
		if !ok {
			continue
		}
		score := [2]int{promotions, widenings}
		if score[0] < bestScore[0] || (score[0] == bestScore[0] && score[1] < bestScore[1]) {
			best = idx
			bestScore = score
		}
	}
	if best < 0 {
		return nil, false
	}
	return candidates[best], true
}
