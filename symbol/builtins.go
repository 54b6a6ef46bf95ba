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

// u declares a uniform-shaped parameter; every intrinsic parameter is
// declared this way. Overload resolution (resolve.go) accepts an argument
// of any storage class for such a slot, counting a storage difference as
// a StoragePromotion when ranking candidates.
func u(t value.Type) Param { return Param{Type: t, Storage: value.Uniform} }

func sig(name string, result value.Type, params ...Param) *Symbol {
	return &Symbol{Name: name, Kind: Builtin, Func: &Signature{Name: name, Params: params, Result: result}}
}

func sigVariadic(name string, result value.Type, params ...Param) *Symbol {
	s := sig(name, result, params...)
	s.Func.Variadic = true
	return s
}

// registerBuiltins installs the shading language's intrinsic library.
// Registration order is significant: it is the final overload-resolution
// tie-break (see resolve.go's ResolveCall).
func registerBuiltins(t *Table) {
	f := value.Float
	i := value.Integer
	s := value.String
	clr := value.Color
	pt := value.Point
	vec := value.Vector
	nrm := value.Normal
	mat := value.Matrix

	// Math.
	for _, name := range []string{"radians", "degrees", "sin", "asin", "cos", "acos", "tan", "atan",
		"exp", "sqrt", "inversesqrt", "log", "logb", "abs", "sign", "floor", "ceil", "round"} {
		t.registerBuiltin(sig(name, f, u(f)))
	}
	t.registerBuiltin(sig("atan2", f, u(f), u(f)))
	t.registerBuiltin(sig("pow", f, u(f), u(f)))
	t.registerBuiltin(sig("mod", f, u(f), u(f)))
	t.registerBuiltin(sig("min", f, u(f), u(f)))
	t.registerBuiltin(sig("max", f, u(f), u(f)))
	t.registerBuiltin(sig("clamp", f, u(f), u(f), u(f)))
	t.registerBuiltin(sig("mix", f, u(f), u(f), u(f)))
	t.registerBuiltin(sig("mix", clr, u(clr), u(clr), u(f)))
	t.registerBuiltin(sig("step", f, u(f), u(f)))
	t.registerBuiltin(sig("smoothstep", f, u(f), u(f), u(f)))
	t.registerBuiltin(sig("random", f))

	// Derivatives.
	t.registerBuiltin(sig("Du", f, u(f)))
	t.registerBuiltin(sig("Dv", f, u(f)))
	t.registerBuiltin(sig("Du", vec, u(pt)))
	t.registerBuiltin(sig("Dv", vec, u(pt)))
	t.registerBuiltin(sig("Deriv", f, u(f), u(f)))

	// Geometry.
	t.registerBuiltin(sig("xcomp", f, u(vec)))
	t.registerBuiltin(sig("ycomp", f, u(vec)))
	t.registerBuiltin(sig("zcomp", f, u(vec)))
	t.registerBuiltin(sig("setxcomp", value.Null, u(vec), u(f)))
	t.registerBuiltin(sig("setycomp", value.Null, u(vec), u(f)))
	t.registerBuiltin(sig("setzcomp", value.Null, u(vec), u(f)))
	t.registerBuiltin(sig("length", f, u(vec)))
	t.registerBuiltin(sig("normalize", vec, u(vec)))
	t.registerBuiltin(sig("distance", f, u(pt), u(pt)))
	t.registerBuiltin(sig("area", f, u(pt)))
	t.registerBuiltin(sig("rotate", pt, u(pt), u(f), u(pt), u(pt)))
	t.registerBuiltin(sig("faceforward", nrm, u(nrm), u(vec)))
	t.registerBuiltin(sig("reflect", vec, u(vec), u(nrm)))
	t.registerBuiltin(sig("refract", vec, u(vec), u(nrm), u(f)))
	t.registerBuiltin(sig("fresnel", f, u(vec), u(nrm), u(f)))
	t.registerBuiltin(sig("calculatenormal", nrm, u(pt)))
	t.registerBuiltin(sig("depth", f, u(pt)))

	// Coordinate spaces: (to), (from,to), (matrix), (from,matrix) overloads.
	for _, name := range []string{"transform", "vtransform", "ntransform"} {
		typ := pt
		switch name {
		case "vtransform":
			typ = vec
		case "ntransform":
			typ = nrm
		}
		t.registerBuiltin(sig(name, typ, u(s), u(typ)))
		t.registerBuiltin(sig(name, typ, u(s), u(s), u(typ)))
		t.registerBuiltin(sig(name, typ, u(mat), u(typ)))
		t.registerBuiltin(sig(name, typ, u(s), u(mat), u(typ)))
	}
	t.registerBuiltin(sig("ctransform", clr, u(s), u(clr)))
	t.registerBuiltin(sig("ctransform", clr, u(s), u(s), u(clr)))

	// Matrix.
	t.registerBuiltin(sig("comp", f, u(mat), u(i), u(i)))
	t.registerBuiltin(sig("setcomp", value.Null, u(mat), u(i), u(i), u(f)))
	t.registerBuiltin(sig("determinant", f, u(mat)))
	t.registerBuiltin(sig("translate", mat, u(mat), u(pt)))
	t.registerBuiltin(sig("rotate", mat, u(mat), u(f), u(pt)))
	t.registerBuiltin(sig("scale", mat, u(mat), u(pt)))

	// Shading/lighting.
	t.registerBuiltin(sigVariadic("ambient", clr))
	t.registerBuiltin(sig("diffuse", clr, u(nrm)))
	t.registerBuiltin(sig("specular", clr, u(nrm), u(vec), u(f)))
	t.registerBuiltin(sig("specularbrdf", clr, u(vec), u(nrm), u(vec), u(f)))
	t.registerBuiltin(sig("phong", clr, u(nrm), u(vec), u(f)))
	t.registerBuiltin(sig("trace", clr, u(pt), u(vec)))

	// Texture.
	t.registerBuiltin(sig("texture", f, u(s)))
	t.registerBuiltin(sig("texture", clr, u(s)))
	t.registerBuiltin(sig("environment", f, u(s), u(vec)))
	t.registerBuiltin(sig("environment", clr, u(s), u(vec)))
	t.registerBuiltin(sig("shadow", f, u(s), u(pt)))
}
