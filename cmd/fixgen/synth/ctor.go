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
	"strings"

	"github.com/ajroetker/go-fixmath/cmd/fixgen/ir"
	"github.com/ajroetker/go-fixmath/cmd/fixgen/shape"
)

// constructors emits one constructor per composition of a vector's rows, or
// the column and cell constructors of a matrix, each with a namespace twin.
func (b *builder) constructors() {
	if b.s.IsVector() {
		for _, p := range shape.Compositions(b.s.Rows) {
			b.vectorCtor(p)
		}
		return
	}
	b.columnsCtor()
	b.cellsCtor()
}

// CtorSuffix names the constructor of partition p: empty for all scalars,
// otherwise the axis groups joined by "_" (XY_Z).
func CtorSuffix(p shape.Partition) string {
	if p.AllScalars() {
		return ""
	}
	return strings.Join(p.Groups(), "_")
}

func (b *builder) vectorCtor(p shape.Partition) {
	k := b.s.Kind
	suffix := CtorSuffix(p)

	var params []ir.Param
	var comps []ir.Expr
	for _, g := range p.Groups() {
		name := strings.ToLower(g)
		if len(g) == 1 {
			params = append(params, ir.Param{Name: name, Type: b.scalar()})
			comps = append(comps, ref(name))
			continue
		}
		sub := shape.Vector(k, len(g))
		params = append(params, ir.Param{Name: name, Type: sub.TypeName()})
		for t := range len(g) {
			comps = append(comps, cell(ref(name), sub, t, 0))
		}
	}

	name := "New" + b.typ() + suffix
	doc := fmt.Sprintf("%s builds a %s from its components.", name, b.typ())
	if suffix != "" {
		doc = fmt.Sprintf("%s builds a %s from the parts %s.", name, b.typ(), strings.Join(p.Groups(), ", "))
	}
	fn := &ir.Func{
		Name: name, Doc: doc, Group: ir.GroupCtor,
		Params: params, Result: b.typ(), Shape: b.s,
		Body: []ir.Stmt{ir.Return{X: build(b.s, func(i, _ int) ir.Expr { return comps[i] })}},
	}
	b.add(fn)
	b.twin(fn, b.typ()+suffix)
}

func (b *builder) columnsCtor() {
	col := b.s.Column()
	params := make([]ir.Param, b.s.Cols)
	for j := range params {
		params[j] = ir.Param{Name: strings.ToLower(shape.ColumnField(j)), Type: col.TypeName()}
	}
	name := "New" + b.typ()
	fn := &ir.Func{
		Name: name, Group: ir.GroupCtor,
		Doc:    fmt.Sprintf("%s builds a %s from its columns.", name, b.typ()),
		Params: params, Result: b.typ(), Shape: b.s,
		Body: []ir.Stmt{ir.Return{X: compose(b.typ(), b.s.Fields(), func(j int) ir.Expr {
			return ref(params[j].Name)
		})}},
	}
	b.add(fn)
	b.twin(fn, b.typ())
}

// cellParam names the parameter of cell (i, j) in row-major constructors.
func cellParam(i, j int) string { return fmt.Sprintf("m%d%d", i, j) }

func (b *builder) cellsCtor() {
	var params []ir.Param
	for i := range b.s.Rows {
		for j := range b.s.Cols {
			params = append(params, ir.Param{Name: cellParam(i, j), Type: b.scalar()})
		}
	}
	name := "New" + b.typ() + "Cells"
	fn := &ir.Func{
		Name: name, Group: ir.GroupCtor,
		Doc:    fmt.Sprintf("%s builds a %s from its cells in row-major order.", name, b.typ()),
		Params: params, Result: b.typ(), Shape: b.s,
		Body: []ir.Stmt{ir.Return{X: build(b.s, func(i, j int) ir.Expr {
			return ref(cellParam(i, j))
		})}},
	}
	b.add(fn)
	b.twin(fn, b.typ()+"Cells")
}
