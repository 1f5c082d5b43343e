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

// Package synth turns shapes into IR declarations: constructors,
// conversions, operators, index accessors, swizzles, hashes and matrix
// algebra. Every synthesizer is a pure function of the shape (and, for
// hashes, the prime cursor it is handed).
package synth

import (
	"fmt"

	"github.com/ajroetker/go-fixmath/cmd/fixgen/ir"
	"github.com/ajroetker/go-fixmath/cmd/fixgen/shape"
)

// CheckedTag is the build tag that turns on index bounds panics.
const CheckedTag = "fixmath_checked"

// Options configures synthesis.
type Options struct {
	// Kinds are the enabled base kinds. Conversions from, and matrix
	// products over, kinds outside the set are not generated. Comparison
	// results need Bool and wide hashes need Uint32.
	Kinds shape.KindSet

	// CheckedTag overrides CheckedTag when set.
	CheckedTag string

	// Package names the generated package in its doc comment.
	Package string
}

func (o Options) enabled(k shape.Kind) bool { return o.Kinds[k] }

func (o Options) pkg() string {
	if o.Package != "" {
		return o.Package
	}
	return "fixmath"
}

func (o Options) checkedTag() string {
	if o.CheckedTag != "" {
		return o.CheckedTag
	}
	return CheckedTag
}

// Unit is everything synthesized for one shape.
type Unit struct {
	Shape shape.Shape
	File  *ir.File

	// Next is the prime cursor after this shape's hashes.
	Next shape.PrimeCursor
}

// Synthesize builds the artifact of s, drawing hash primes from cur.
func Synthesize(s shape.Shape, cur shape.PrimeCursor, opts Options) *Unit {
	b := &builder{s: s, ki: s.Info(), opts: opts}

	b.declareType()
	b.constructors()
	b.conversions()
	b.operators()
	b.accessors()
	b.swizzles()
	next := b.hashes(cur)
	b.algebra()
	b.stringer()

	return &Unit{
		Shape: s,
		File: &ir.File{
			ID:    s.ID(),
			Decls: b.decls,
		},
		Next: next,
	}
}

// builder accumulates the declarations of one shape.
type builder struct {
	s     shape.Shape
	ki    *shape.KindInfo
	opts  Options
	decls []ir.Decl
}

func (b *builder) add(d ...ir.Decl) { b.decls = append(b.decls, d...) }

// typ is the Go type name of the shape being built.
func (b *builder) typ() string { return b.s.TypeName() }

// scalar is the Go type of one component.
func (b *builder) scalar() string { return b.ki.GoType }

func (b *builder) recv() *ir.Param { return &ir.Param{Name: "v", Type: b.typ()} }

func (b *builder) ptrRecv() *ir.Param { return &ir.Param{Name: "v", Type: "*" + b.typ()} }

// method declares a value-receiver method on the current shape.
func (b *builder) method(g ir.Group, name, doc string, params []ir.Param, result string, body ...ir.Stmt) *ir.Func {
	fn := &ir.Func{
		Name: name, Doc: doc, Group: g, Recv: b.recv(),
		Params: params, Result: result, Body: body, Shape: b.s,
	}
	b.add(fn)
	return fn
}

// twin declares the namespace function name that forwards to fn, with the
// same parameters.
func (b *builder) twin(fn *ir.Func, name string) *ir.Func {
	t := twinOf(fn, name)
	b.add(t)
	return t
}

func twinOf(fn *ir.Func, name string) *ir.Func {
	args := make([]ir.Expr, len(fn.Params))
	for i, p := range fn.Params {
		args[i] = ref(p.Name)
	}
	var call ir.Expr = ir.Call{Func: fn.Name, Args: args}
	params := fn.Params
	if fn.Recv != nil {
		params = append([]ir.Param{{Name: fn.Recv.Name, Type: fn.Recv.Type}}, params...)
		call = ir.Call{Recv: ref(fn.Recv.Name), Func: fn.Name, Args: args}
	}
	doc := fmt.Sprintf("%s is the namespace form of %s.", name, fn.Name)
	return &ir.Func{
		Name: name, Doc: doc, Group: ir.GroupTwin,
		Recv: namespaceRecv(), Params: params, Result: fn.Result,
		Body: []ir.Stmt{ir.Return{X: call}}, Shape: fn.Shape,
	}
}

// NamespaceType is the type of the Math value carrying free functions.
const NamespaceType = "Namespace"

// NamespaceValue is the package-level value of NamespaceType.
const NamespaceValue = "Math"

func namespaceRecv() *ir.Param { return &ir.Param{Type: NamespaceType} }

func ref(name string) ir.Expr { return ir.Ref{Name: name} }

// cell addresses storage cell (i, j) of x, a value of shape s: the value
// itself for scalars, a field for vectors, column then field for matrices.
func cell(x ir.Expr, s shape.Shape, i, j int) ir.Expr {
	switch {
	case s.IsScalar():
		return x
	case s.IsVector():
		return ir.Field{X: x, Name: shape.Axes[i]}
	}
	return ir.Field{X: ir.Field{X: x, Name: shape.ColumnField(j)}, Name: shape.Axes[i]}
}

// build composes a value of shape s from per-cell expressions.
func build(s shape.Shape, f func(i, j int) ir.Expr) ir.Expr {
	switch {
	case s.IsScalar():
		return f(0, 0)
	case s.IsVector():
		return compose(s.TypeName(), s.Fields(), func(i int) ir.Expr { return f(i, 0) })
	}
	col := s.Column()
	return compose(s.TypeName(), s.Fields(), func(j int) ir.Expr {
		return compose(col.TypeName(), col.Fields(), func(i int) ir.Expr { return f(i, j) })
	})
}

func compose(typ string, fields []string, f func(int) ir.Expr) ir.Expr {
	vals := make([]ir.Expr, len(fields))
	for i := range fields {
		vals[i] = f(i)
	}
	return ir.Compose{Type: typ, Fields: fields, Values: vals}
}

func lit(k shape.Kind, v any) ir.Expr { return ir.Lit{Kind: k, Value: v} }

func zero(k shape.Kind) ir.Expr { return lit(k, k.Info().Zero) }

func one(k shape.Kind) ir.Expr { return lit(k, k.Info().One) }

// describe is the noun phrase used in type docs.
func describe(s shape.Shape) string {
	if s.IsVector() {
		return fmt.Sprintf("a %d-component column vector of %s", s.Rows, s.Info().GoType)
	}
	return fmt.Sprintf("a %dx%d column-major matrix of %s", s.Rows, s.Cols, s.Info().GoType)
}

func (b *builder) declareType() {
	fields := make([]ir.Param, 0, b.s.Cols)
	col := b.s.Column()
	for _, f := range b.s.Fields() {
		t := b.scalar()
		if b.s.IsMatrix() {
			t = col.TypeName()
		}
		fields = append(fields, ir.Param{Name: f, Type: t})
	}
	b.add(&ir.Struct{
		Name:   b.typ(),
		Doc:    fmt.Sprintf("%s is %s.", b.typ(), describe(b.s)),
		Fields: fields,
	})
	b.add(&ir.Global{
		Name: b.typ() + "Zero",
		Type: b.typ(),
		Doc:  fmt.Sprintf("%sZero is the zero %s.", b.typ(), b.typ()),
	})
	if b.s.IsSquare() && b.ki.Numeric() {
		k := b.s.Kind
		b.add(&ir.Global{
			Name: b.typ() + "Identity",
			Type: b.typ(),
			Doc:  fmt.Sprintf("%sIdentity is the %dx%d identity matrix.", b.typ(), b.s.Rows, b.s.Cols),
			Value: build(b.s, func(i, j int) ir.Expr {
				if i == j {
					return one(k)
				}
				return zero(k)
			}),
		})
	}
}

// PrimesConsumed is the number of hash primes Synthesize draws for s.
func PrimesConsumed(s shape.Shape) int {
	lanes := s.Rows * s.Cols
	if s.Kind == shape.Bool {
		lanes *= 2
	}
	// Narrow: lanes + final prime. Wide: lanes.
	return 2*lanes + 1
}
