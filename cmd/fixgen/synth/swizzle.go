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

// HasSwizzles reports whether s gets swizzle accessors: column vectors of
// every kind except Bool.
func HasSwizzles(s shape.Shape) bool {
	return s.IsVector() && s.Kind != shape.Bool
}

// GetterName and SetterName name the accessors of sw. Single-component
// getters are prefixed with Get so they do not collide with the fields.
func GetterName(sw shape.Swizzle) string {
	if len(sw) == 1 {
		return "Get" + sw.Name()
	}
	return sw.Name()
}

func SetterName(sw shape.Swizzle) string { return "Set" + sw.Name() }

func (b *builder) swizzles() {
	if !HasSwizzles(b.s) {
		return
	}
	for _, sw := range shape.Swizzles(b.s.Rows) {
		b.swizzle(sw)
	}
}

func (b *builder) swizzle(sw shape.Swizzle) {
	k := b.s.Kind
	v := ref("v")
	out := shape.Vector(k, len(sw))

	getter := GetterName(sw)
	b.method(ir.GroupSwizzle, getter,
		fmt.Sprintf("%s returns the components %s of v.", getter, sw.Name()),
		nil, out.TypeName(),
		ir.Return{X: build(out, func(t, _ int) ir.Expr { return cell(v, b.s, sw[t], 0) })})

	if !sw.Settable() {
		return
	}
	var body []ir.Stmt
	for t, idx := range sw {
		body = append(body, ir.Assign{
			Target: cell(v, b.s, idx, 0),
			X:      cell(ref("o"), out, t, 0),
		})
	}
	setter := SetterName(sw)
	b.add(&ir.Func{
		Name: setter, Group: ir.GroupSwizzle, Recv: b.ptrRecv(),
		Doc:    fmt.Sprintf("%s assigns o to the components %s of v.", setter, sw.Name()),
		Params: []ir.Param{{Name: "o", Type: out.TypeName()}},
		Body:   body, Shape: b.s,
	})
}
