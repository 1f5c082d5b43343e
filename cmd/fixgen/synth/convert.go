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

// Source is a kind a target kind converts from.
type Source struct {
	Kind shape.Kind

	// Implicit conversions get an As<T> method on the source type, explicit
	// ones a To<T> method.
	Implicit bool
}

var conversionSources = map[shape.Kind][]Source{
	shape.FixedPoint: {{Kind: shape.Int32}, {Kind: shape.Uint32}},
	shape.Int32:      {{Kind: shape.Bool}, {Kind: shape.Uint32}, {Kind: shape.Float32}, {Kind: shape.Float64}},
	shape.Uint32:     {{Kind: shape.Bool}, {Kind: shape.Int32}, {Kind: shape.Float32}, {Kind: shape.Float64}},
	shape.Float32: {
		{Kind: shape.Int32, Implicit: true}, {Kind: shape.Uint32, Implicit: true},
		{Kind: shape.Bool}, {Kind: shape.Float64},
	},
	shape.Float64: {
		{Kind: shape.Int32, Implicit: true}, {Kind: shape.Uint32, Implicit: true},
		{Kind: shape.Float32, Implicit: true}, {Kind: shape.Bool},
	},
}

// ConversionSources lists the kinds target converts from, in emission order.
func ConversionSources(target shape.Kind) []Source { return conversionSources[target] }

// OperatorName is the method the source type gets for a conversion to target.
func (src Source) OperatorName(target shape.Shape) string {
	if src.Implicit {
		return "As" + target.TypeName()
	}
	return "To" + target.TypeName()
}

// convertScalar converts x of kind from into kind to: a select between one
// and zero for bool sources, the target kind's conversion rule otherwise.
func convertScalar(from, to shape.Kind, x ir.Expr) ir.Expr {
	switch {
	case from == to:
		return x
	case from == shape.Bool:
		return ir.Cond{Kind: to, C: x, Then: one(to), Else: zero(to)}
	}
	return ir.Convert{From: from, To: to, X: x}
}

// conversions emits the scalar broadcasts and, per declared source kind,
// the componentwise conversion with its operator form.
func (b *builder) conversions() {
	k := b.s.Kind
	name := "New" + b.typ() + "Broadcast"
	fn := &ir.Func{
		Name: name, Group: ir.GroupConv,
		Doc:    fmt.Sprintf("%s returns a %s with every component set to s.", name, b.typ()),
		Params: []ir.Param{{Name: "s", Type: b.scalar()}}, Result: b.typ(), Shape: b.s,
		Body:   []ir.Stmt{ir.Return{X: build(b.s, func(_, _ int) ir.Expr { return ref("s") })}},
	}
	b.add(fn)
	b.twin(fn, b.typ()+"Broadcast")

	for _, src := range ConversionSources(k) {
		if !b.opts.enabled(src.Kind) {
			continue
		}
		b.broadcastFrom(src)
		b.convertFrom(src)
	}
}

func (b *builder) broadcastFrom(src Source) {
	k := b.s.Kind
	si := src.Kind.Info()
	name := "New" + b.typ() + "Broadcast" + si.Name
	fn := &ir.Func{
		Name: name, Group: ir.GroupConv,
		Doc:    fmt.Sprintf("%s converts s to %s and sets every component to it.", name, b.scalar()),
		Params: []ir.Param{{Name: "s", Type: si.GoType}}, Result: b.typ(), Shape: b.s,
		Body: []ir.Stmt{
			ir.Let{Name: "c", X: convertScalar(src.Kind, k, ref("s"))},
			ir.Return{X: build(b.s, func(_, _ int) ir.Expr { return ref("c") })},
		},
	}
	b.add(fn)
	b.twin(fn, b.typ()+"Broadcast"+si.Name)
}

func (b *builder) convertFrom(src Source) {
	k := b.s.Kind
	from := b.s.WithKind(src.Kind)
	name := "New" + b.typ() + "From" + from.TypeName()
	fn := &ir.Func{
		Name: name, Group: ir.GroupConv,
		Doc:    fmt.Sprintf("%s converts v componentwise.", name),
		Params: []ir.Param{{Name: "v", Type: from.TypeName()}}, Result: b.typ(), Shape: b.s,
		Body: []ir.Stmt{ir.Return{X: build(b.s, func(i, j int) ir.Expr {
			return convertScalar(src.Kind, k, cell(ref("v"), from, i, j))
		})}},
	}
	b.add(fn)
	b.twin(fn, b.typ()+"From"+from.TypeName())

	op := src.OperatorName(b.s)
	b.add(&ir.Func{
		Name: op, Group: ir.GroupConvOp,
		Doc:    fmt.Sprintf("%s converts v to %s.", op, b.typ()),
		Recv:   &ir.Param{Name: "v", Type: from.TypeName()},
		Result: b.typ(), Shape: b.s,
		Body:   []ir.Stmt{ir.Return{X: ir.Call{Func: name, Args: []ir.Expr{ref("v")}}}},
	})
}
