// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package synth

import (
	"fmt"

	"github.com/ajroetker/go-fixmath/cmd/fixgen/ir"
	"github.com/ajroetker/go-fixmath/cmd/fixgen/shape"
)

// Artifact IDs of the shared files.
const (
	SupportID   = "support"
	CheckedID   = "checked"
	UncheckedID = "unchecked"
)

const chooseSrc = `// choose returns a when c is true and b otherwise.
func choose[T any](c bool, a, b T) T {
	if c {
		return a
	}
	return b
}`

// Support builds the artifact shared by every shape: the namespace type and
// value, the index error, the select helper and the bit-pattern helpers of
// the enabled kinds.
func Support(opts Options) *ir.File {
	f := &ir.File{
		ID: SupportID,
		Doc: "Package " + opts.pkg() + " provides fixed-size vector and matrix types.\n\n" +
			"Matrices are column-major: C0 is the first column. Index accessors\n" +
			"panic on out-of-range indices only when built with -tags " + opts.checkedTag() + ".",
	}
	f.Decls = append(f.Decls,
		&ir.Struct{
			Name: NamespaceType,
			Doc:  NamespaceType + " carries the free-function forms of constructors,\nconversions, hashes and matrix algebra.",
		},
		&ir.Global{
			Name: NamespaceValue, Type: NamespaceType,
			Doc: NamespaceValue + " is the namespace value: Math.MulFp3x3Fp3(m, v).",
		},
		&ir.Struct{
			Name:   "IndexError",
			Doc:    "IndexError reports an out-of-range component or column index.",
			Fields: []ir.Param{{Name: "Index", Type: "int"}, {Name: "Len", Type: "int"}},
		},
		&ir.Func{
			Name: "Error", Group: ir.GroupHelper,
			Recv:   &ir.Param{Name: "e", Type: "*IndexError"},
			Result: "string",
			Body: []ir.Stmt{ir.Raw{
				Text:    `return fmt.Sprintf("fixmath: index %d out of range [0, %d)", e.Index, e.Len)`,
				Imports: []string{"fmt"},
			}},
		},
		&ir.Verbatim{Text: chooseSrc},
	)

	if opts.enabled(shape.FixedPoint) {
		f.Decls = append(f.Decls, &ir.Func{
			Name: "bitsFp", Group: ir.GroupHelper,
			Doc:    "bitsFp folds the raw encoding of x into 32 bits.",
			Params: []ir.Param{{Name: "x", Type: shape.FixedPoint.Info().GoType}},
			Result: "uint32",
			Body:   []ir.Stmt{ir.Raw{Text: "b := uint64(x.Raw())\nreturn uint32(b ^ b>>32)"}},
		})
	}
	if opts.enabled(shape.Float64) {
		f.Decls = append(f.Decls, &ir.Func{
			Name: "bitsFloat64", Group: ir.GroupHelper,
			Doc:    "bitsFloat64 folds the IEEE 754 bits of x into 32 bits.",
			Params: []ir.Param{{Name: "x", Type: "float64"}},
			Result: "uint32",
			Body: []ir.Stmt{ir.Raw{
				Text:    "b := math.Float64bits(x)\nreturn uint32(b ^ b>>32)",
				Imports: []string{"math"},
			}},
		})
	}
	return f
}

// BuildMode builds one of the two artifacts defining checkedBuild; exactly
// one of them is compiled for any set of build tags.
func BuildMode(opts Options, checked bool) *ir.File {
	tag := opts.checkedTag()
	id := CheckedID
	if !checked {
		tag = "!" + tag
		id = UncheckedID
	}
	return &ir.File{
		ID:       id,
		BuildTag: tag,
		Decls: []ir.Decl{&ir.Verbatim{
			Text: fmt.Sprintf("// checkedBuild turns on index bounds panics.\nconst checkedBuild = %t", checked),
		}},
	}
}
