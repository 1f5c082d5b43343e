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

package ir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-fixmath/cmd/fixgen/shape"
	"github.com/ajroetker/go-fixmath/fp"
)

func ref(name string) Expr { return Ref{Name: name} }

func TestPrintExpr(t *testing.T) {
	p := &Printer{Package: "fixmath", FPImport: "example.com/fp"}
	tests := []struct {
		name string
		e    Expr
		want string
	}{
		{"int add", Binary{Op: OpAdd, Kind: shape.Int32, X: ref("a"), Y: ref("b")}, "a + b"},
		{"precedence",
			Binary{Op: OpMul, Kind: shape.Int32,
				X: Binary{Op: OpAdd, Kind: shape.Int32, X: ref("a"), Y: ref("b")},
				Y: ref("c")},
			"(a + b) * c"},
		{"left assoc sub",
			Binary{Op: OpSub, Kind: shape.Int32,
				X: ref("a"),
				Y: Binary{Op: OpSub, Kind: shape.Int32, X: ref("b"), Y: ref("c")}},
			"a - (b - c)"},
		{"fp method", Binary{Op: OpMul, Kind: shape.FixedPoint, X: ref("a"), Y: ref("b")}, "a.Mul(b)"},
		{"fp compare", Binary{Op: OpLe, Kind: shape.FixedPoint, X: ref("a"), Y: ref("b")}, "a.LessEq(b)"},
		{"fp eq", Binary{Op: OpEq, Kind: shape.FixedPoint, X: ref("a"), Y: ref("b")}, "a == b"},
		{"fp neg", Unary{Op: OpNeg, Kind: shape.FixedPoint, X: Field{X: ref("v"), Name: "X"}}, "v.X.Neg()"},
		{"bool xor", Binary{Op: OpXor, Kind: shape.Bool, X: ref("a"), Y: ref("b")}, "a != b"},
		{"bool and", Binary{Op: OpAnd, Kind: shape.Bool, X: ref("a"), Y: ref("b")}, "a && b"},
		{"double negation", Unary{Op: OpNeg, Kind: shape.Int32, X: Unary{Op: OpNeg, Kind: shape.Int32, X: ref("a")}}, "-(-a)"},
		{"float mod", Binary{Op: OpMod, Kind: shape.Float32, X: ref("a"), Y: ref("b")}, "float32(math.Mod(float64(a), float64(b)))"},
		{"shift", Binary{Op: OpShl, Kind: shape.Uint32, X: ref("a"), Y: ref("n")}, "a << n"},
		{"dampen", Dampen{Kind: shape.FixedPoint, X: ref("a")}, "fp.DampenNoise(a)"},
		{"dampen noop", Dampen{Kind: shape.Float64, X: ref("a")}, "a"},
		{"convert", Convert{From: shape.Int32, To: shape.FixedPoint, X: ref("a")}, "fp.FromInt(a)"},
		{"bits", Bits{Kind: shape.Float32, X: ref("a")}, "math.Float32bits(a)"},
		{"cond", Cond{Kind: shape.Int32, C: ref("c"), Then: Lit{shape.Int32, int32(1)}, Else: Lit{shape.Int32, int32(0)}},
			"choose(c, int32(1), int32(0))"},
		{"compose",
			Compose{Type: "Int2", Fields: []string{"X", "Y"}, Values: []Expr{ref("a"), ref("b")}},
			"Int2{X: a, Y: b}"},
		{"method call", Call{Recv: ref("Math"), Func: "NewInt2", Args: []Expr{ref("a"), ref("b")}}, "Math.NewInt2(a, b)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Expr(tt.e))
		})
	}
}

func int2File() *File {
	recv := &Param{Name: "v", Type: "Int2"}
	fields := []string{"X", "Y"}
	comp := func(op Op, y func(f string) Expr) Expr {
		vals := make([]Expr, len(fields))
		for i, f := range fields {
			vals[i] = Binary{Op: op, Kind: shape.Int32, X: Field{X: ref("v"), Name: f}, Y: y(f)}
		}
		return Compose{Type: "Int2", Fields: fields, Values: vals}
	}
	return &File{
		ID:       "int2",
		BuildTag: "",
		Decls: []Decl{
			&Struct{Name: "Int2", Doc: "Int2 is a vector.", Fields: []Param{{"X", "int32"}, {"Y", "int32"}}},
			&Struct{Name: "Namespace"},
			&Global{Name: "Math", Type: "Namespace"},
			&Global{Name: "Int2One", Type: "Int2", Value: Compose{Type: "Int2", Fields: fields,
				Values: []Expr{Lit{shape.Int32, int32(1)}, Lit{shape.Int32, int32(1)}}}},
			&Func{Name: "NewInt2", Group: GroupCtor,
				Params: []Param{{"x", "int32"}, {"y", "int32"}}, Result: "Int2",
				Body: []Stmt{Return{Compose{Type: "Int2", Fields: fields, Values: []Expr{ref("x"), ref("y")}}}}},
			&Func{Name: "Int2", Group: GroupTwin, Recv: &Param{Type: "Namespace"},
				Params: []Param{{"x", "int32"}, {"y", "int32"}}, Result: "Int2",
				Body: []Stmt{Return{Call{Func: "NewInt2", Args: []Expr{ref("x"), ref("y")}}}}},
			&Func{Name: "Add", Group: GroupOp, Recv: recv,
				Params: []Param{{"o", "Int2"}}, Result: "Int2",
				Body: []Stmt{Return{comp(OpAdd, func(f string) Expr { return Field{X: ref("o"), Name: f} })}}},
			&Func{Name: "Div", Group: GroupOp, Recv: recv,
				Params: []Param{{"o", "Int2"}}, Result: "Int2",
				Body: []Stmt{Return{comp(OpDiv, func(f string) Expr { return Field{X: ref("o"), Name: f} })}}},
			&Func{Name: "SetX", Group: GroupSwizzle, Recv: &Param{Name: "v", Type: "*Int2"},
				Params: []Param{{"s", "int32"}},
				Body:   []Stmt{Assign{Target: Field{X: ref("v"), Name: "X"}, X: ref("s")}}},
			&Func{Name: "String", Group: GroupStringer, Recv: recv, Result: "string",
				Body: []Stmt{Raw{Text: `return fmt.Sprintf("(%d, %d)", v.X, v.Y)`, Imports: []string{"fmt"}}}},
		},
	}
}

func TestPrintFile(t *testing.T) {
	p := &Printer{Package: "fixmath", FPImport: "example.com/fp"}
	src := string(p.Print(int2File()))

	assert.True(t, strings.HasPrefix(src, Generated+"\n"))
	assert.Contains(t, src, "package fixmath\n")
	assert.Contains(t, src, "import (\n\t\"fmt\"\n)")
	assert.NotContains(t, src, "example.com/fp")
	assert.Contains(t, src, "type Int2 struct {\n\tX, Y int32\n}")
	assert.Contains(t, src, "var Math Namespace\n")
	assert.Contains(t, src, "var Int2One = Int2{X: 1, Y: 1}")
	assert.Contains(t, src, "func (Namespace) Int2(x int32, y int32) Int2 {\n\treturn NewInt2(x, y)\n}")
	assert.Contains(t, src, "func (v *Int2) SetX(s int32) {\n\tv.X = s\n}")

	p.Package = "other"
	tagged := int2File()
	tagged.BuildTag = "fixmath_checked"
	src = string(p.Print(tagged))
	assert.Contains(t, src, Generated+"\n\n//go:build fixmath_checked\n\npackage other\n")
}

func TestEval(t *testing.T) {
	in := NewInterp(int2File())

	a, err := in.Call("NewInt2", int32(3), int32(-4))
	require.NoError(t, err)
	b, err := in.Call("Math.Int2", int32(1), int32(2))
	require.NoError(t, err)

	sum, _, err := in.CallMethod(a, "Add", b)
	require.NoError(t, err)
	assert.Equal(t, []any{int32(4), int32(-2)}, sum.(Composite).Values)

	one, err := in.Global("Int2One")
	require.NoError(t, err)
	assert.Equal(t, int32(1), one.(Composite).Get("Y"))

	zero, err := in.Zero("Int2")
	require.NoError(t, err)
	_, _, err = in.CallMethod(a, "Div", zero)
	assert.Error(t, err, "integer division by zero is reported")

	_, after, err := in.CallMethod(a, "SetX", int32(9))
	require.NoError(t, err)
	assert.Equal(t, int32(9), after.(Composite).Get("X"))
	assert.Equal(t, int32(3), a.(Composite).Get("X"), "receiver copy is untouched")

	_, _, err = in.CallMethod(a, "String")
	assert.ErrorIs(t, err, ErrNotEvaluable)
}

func TestApply(t *testing.T) {
	assert.Equal(t, fp.FromInt(6), Apply(OpMul, fp.FromInt(2), fp.FromInt(3)))
	assert.Equal(t, true, Apply(OpLt, fp.FromInt(2), fp.FromInt(3)))
	assert.Equal(t, uint32(8), Apply(OpShl, uint32(1), 3))
	assert.Equal(t, int32(-1), Apply(OpShr, int32(-2), 1))
	assert.Equal(t, float32(1), Apply(OpMod, float32(7), float32(3)))
	assert.Equal(t, true, Apply(OpXor, true, false))
	assert.Equal(t, int32(-1), ApplyUnary(OpCompl, int32(0)))
	assert.Equal(t, false, ApplyUnary(OpNot, true))
	assert.Equal(t, fp.FromInt(3), ConvertScalar(shape.FixedPoint, int32(3)))
	assert.Equal(t, int32(2), ConvertScalar(shape.Int32, fp.FromFloat64(2.75)))
	assert.Equal(t, float64(5), ConvertScalar(shape.Float64, uint32(5)))
}
