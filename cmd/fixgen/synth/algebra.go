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

// The noise-floor policy lives in product and accumulate: every product and
// every partial sum of mul, determinant and inverse goes through exactly one
// of them. Kinds that do not dampen render and evaluate the plain value.

func product(k shape.Kind, a, b ir.Expr) ir.Expr {
	return ir.Dampen{Kind: k, X: ir.Binary{Op: ir.OpMul, Kind: k, X: a, Y: b}}
}

func accumulate(k shape.Kind, acc, term ir.Expr, subtract bool) ir.Expr {
	op := ir.OpAdd
	if subtract {
		op = ir.OpSub
	}
	return ir.Dampen{Kind: k, X: ir.Binary{Op: op, Kind: k, X: acc, Y: term}}
}

// sumOfProducts is Σ a[t]·b[t] under the noise-floor policy.
func sumOfProducts(k shape.Kind, a, b []ir.Expr) ir.Expr {
	acc := product(k, a[0], b[0])
	for t := 1; t < len(a); t++ {
		acc = accumulate(k, acc, product(k, a[t], b[t]), false)
	}
	return acc
}

// MulName names the namespace product of ms over kind k: MulFp3x3Fp3.
func MulName(ms shape.MulShape, k shape.Kind) string {
	return "Mul" + ms.Left(k).Ident() + ms.Right(k).Ident()
}

// Mul builds the product function of ms over kind k.
func Mul(ms shape.MulShape, k shape.Kind) *ir.Func {
	left, right, res := ms.Left(k), ms.Right(k), ms.Result(k)
	a, b := ref("a"), ref("b")

	body := build(res, func(r, c int) ir.Expr {
		i, j := r, c
		if ms.N == 1 {
			i, j = 0, r
		}
		as := make([]ir.Expr, ms.M)
		bs := make([]ir.Expr, ms.M)
		for t := range ms.M {
			li, lj := ms.LeftCell(i, t)
			ri, rj := ms.RightCell(t, j)
			as[t] = cell(a, left, li, lj)
			bs[t] = cell(b, right, ri, rj)
		}
		return sumOfProducts(k, as, bs)
	})

	name := MulName(ms, k)
	return &ir.Func{
		Name: name, Group: ir.GroupAlgebra, Recv: namespaceRecv(),
		Doc:    fmt.Sprintf("%s returns the %dx%d product a·b.", name, ms.N, ms.K),
		Params: []ir.Param{{Name: "a", Type: left.TypeName()}, {Name: "b", Type: right.TypeName()}},
		Result: res.TypeName(),
		Body:   []ir.Stmt{ir.Return{X: body}},
		Shape:  res,
	}
}

// MulFileID is the artifact holding the products of kind k.
func MulFileID(k shape.Kind) string { return "mul_" + k.String() }

// SynthesizeMul builds the artifact with every valid product over kind k.
// Kinds without arithmetic have no products and yield nil.
func SynthesizeMul(k shape.Kind) *ir.File {
	if !k.Info().Numeric() {
		return nil
	}
	f := &ir.File{ID: MulFileID(k)}
	for _, ms := range shape.MulShapes() {
		f.Decls = append(f.Decls, Mul(ms, k))
	}
	return f
}

func (b *builder) algebra() {
	if !b.s.IsMatrix() {
		return
	}
	b.transpose()
	if b.ki.Invertible && RigidBasis(b.s) > 0 {
		b.fastInverse()
	}
	if !b.s.IsSquare() {
		return
	}
	if b.ki.Signed && b.ki.Numeric() {
		b.determinant()
	}
	if b.ki.Invertible {
		b.inverse()
	}
}

// RigidBasis is the size of the rotation block of a rigid transform stored
// in s, or 0 if s cannot hold one. Square shapes from 3x3 up are homogeneous
// transforms with a (0 … 0 1) last row; n x (n+1) shapes are the affine
// form with that row implied.
func RigidBasis(s shape.Shape) int {
	switch {
	case s.IsSquare() && s.Rows >= 3:
		return s.Rows - 1
	case s.IsMatrix() && s.Cols == s.Rows+1:
		return s.Rows
	}
	return 0
}

// det expands the determinant of the submatrix of m on rows and cols along
// its first row.
func det(s shape.Shape, m ir.Expr, rows, cols []int) ir.Expr {
	k := s.Kind
	if len(rows) == 1 {
		return cell(m, s, rows[0], cols[0])
	}
	var acc ir.Expr
	for c, col := range cols {
		minor := make([]int, 0, len(cols)-1)
		minor = append(minor, cols[:c]...)
		minor = append(minor, cols[c+1:]...)
		term := product(k, cell(m, s, rows[0], col), det(s, m, rows[1:], minor))
		if acc == nil {
			acc = term
			continue
		}
		acc = accumulate(k, acc, term, c%2 == 1)
	}
	return acc
}

func span(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func without(n, skip int) []int {
	out := make([]int, 0, n-1)
	for i := range n {
		if i != skip {
			out = append(out, i)
		}
	}
	return out
}

func (b *builder) determinant() {
	n := b.s.Rows
	name := "Determinant" + b.typ()
	b.add(&ir.Func{
		Name: name, Group: ir.GroupAlgebra, Recv: namespaceRecv(),
		Doc:    fmt.Sprintf("%s returns det(m) by cofactor expansion along the first row.", name),
		Params: []ir.Param{{Name: "m", Type: b.typ()}},
		Result: b.scalar(), Shape: b.s,
		Body:   []ir.Stmt{ir.Return{X: det(b.s, ref("m"), span(n), span(n))}},
	})
}

func cofactorName(i, j int) string { return fmt.Sprintf("c%d%d", i, j) }

func (b *builder) inverse() {
	k := b.s.Kind
	n := b.s.Rows
	m := ref("m")

	var body []ir.Stmt
	for i := range n {
		for j := range n {
			minor := det(b.s, m, without(n, i), without(n, j))
			if (i+j)%2 == 1 {
				minor = ir.Unary{Op: ir.OpNeg, Kind: k, X: minor}
			}
			body = append(body, ir.Let{Name: cofactorName(i, j), X: minor})
		}
	}
	as := make([]ir.Expr, n)
	cs := make([]ir.Expr, n)
	for j := range n {
		as[j] = cell(m, b.s, 0, j)
		cs[j] = ref(cofactorName(0, j))
	}
	body = append(body,
		ir.Let{Name: "det", X: sumOfProducts(k, as, cs)},
		ir.Return{X: build(b.s, func(i, j int) ir.Expr {
			return ir.Dampen{Kind: k, X: ir.Binary{Op: ir.OpDiv, Kind: k, X: ref(cofactorName(j, i)), Y: ref("det")}}
		})},
	)

	name := "Inverse" + b.typ()
	b.add(&ir.Func{
		Name: name, Group: ir.GroupAlgebra, Recv: namespaceRecv(),
		Doc: fmt.Sprintf("%s returns the adjugate of m divided by det(m).\n"+
			"A singular m divides by zero under the rules of %s.", name, b.scalar()),
		Params: []ir.Param{{Name: "m", Type: b.typ()}},
		Result: b.typ(), Body: body, Shape: b.s,
	})
}

// fastInverse inverts a rigid transform: an orthonormal basis R in the
// top-left block and a translation t in the column after it. The result has
// basis Rᵀ and translation -(Rᵀ·t), plus the (0 … 0 1) row when s has one.
func (b *builder) fastInverse() {
	k := b.s.Kind
	nb := RigidBasis(b.s)
	m := ref("m")

	form := "homogeneous"
	if b.s.Rows == nb {
		form = "affine (last row (0 … 0 1) implied)"
	}
	name := "FastInverse" + b.typ()
	b.add(&ir.Func{
		Name: name, Group: ir.GroupAlgebra, Recv: namespaceRecv(),
		Doc: fmt.Sprintf("%s inverts a %s rigid transform: an orthonormal\n"+
			"basis in the top-left %dx%d block plus a translation column. Other\n"+
			"matrices give meaningless results; the precondition is not checked.", name, form, nb, nb),
		Params: []ir.Param{{Name: "m", Type: b.typ()}},
		Result: b.typ(), Shape: b.s,
		Body: []ir.Stmt{ir.Return{X: build(b.s, func(i, j int) ir.Expr {
			switch {
			case i == nb && j == nb:
				return one(k)
			case i == nb:
				return zero(k)
			case j < nb:
				return cell(m, b.s, j, i)
			}
			rs := make([]ir.Expr, nb)
			ts := make([]ir.Expr, nb)
			for t := range nb {
				rs[t] = cell(m, b.s, t, i)
				ts[t] = cell(m, b.s, t, nb)
			}
			return ir.Unary{Op: ir.OpNeg, Kind: k, X: sumOfProducts(k, rs, ts)}
		})}},
	})
}
