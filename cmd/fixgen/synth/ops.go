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

// opSymbols spells operators in docs.
var opSymbols = map[ir.Op]string{
	ir.OpAdd: "+", ir.OpSub: "-", ir.OpMul: "*", ir.OpDiv: "/", ir.OpMod: "%",
	ir.OpLt: "<", ir.OpLe: "<=", ir.OpGt: ">", ir.OpGe: ">=", ir.OpEq: "==", ir.OpNe: "!=",
	ir.OpAnd: "&", ir.OpOr: "|", ir.OpXor: "^", ir.OpShl: "<<", ir.OpShr: ">>",
	ir.OpNeg: "-", ir.OpPlus: "+", ir.OpNot: "!", ir.OpCompl: "^",
}

// BinaryOps returns the componentwise binary operators of features f, in
// emission order. Eq and Ne are always present.
func BinaryOps(f shape.Features) []ir.Op {
	var ops []ir.Op
	if f.Has(shape.Arithmetic) {
		ops = append(ops, ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpDiv, ir.OpMod,
			ir.OpLt, ir.OpLe, ir.OpGt, ir.OpGe)
	}
	if f.Has(shape.BitwiseLogic) {
		ops = append(ops, ir.OpAnd, ir.OpOr, ir.OpXor)
	}
	return append(ops, ir.OpEq, ir.OpNe)
}

// ShiftOps returns the shift operators of features f.
func ShiftOps(f shape.Features) []ir.Op {
	if f.Has(shape.Shifts) {
		return []ir.Op{ir.OpShl, ir.OpShr}
	}
	return nil
}

// UnaryOps returns the unary operators of kind info ki.
func UnaryOps(ki *shape.KindInfo) []ir.Op {
	var ops []ir.Op
	if ki.Features.Has(shape.UnaryNegation) {
		ops = append(ops, ir.OpNeg, ir.OpPlus)
	}
	if ki.Kind == shape.Bool {
		ops = append(ops, ir.OpNot)
	}
	if ki.Features.Has(shape.BitwiseComplement) {
		ops = append(ops, ir.OpCompl)
	}
	return ops
}

// ScalarName and ScalarFirstName name the vector-scalar and scalar-vector
// arities of op (AddScalar, ScalarAdd).
func ScalarName(op ir.Op) string      { return op.String() + "Scalar" }
func ScalarFirstName(op ir.Op) string { return "Scalar" + op.String() }

func (b *builder) operators() {
	k := b.s.Kind
	f := b.s.Features
	v := ref("v")

	self := operand{name: "v", s: b.s}
	scalar := operand{name: "s", s: shape.Scalar(k)}
	arities := []struct {
		name func(ir.Op) string
		doc  string
		x, y operand
	}{
		{ir.Op.String, "%s returns v %s o componentwise.", self, operand{name: "o", s: b.s}},
		{ScalarName, "%s returns v %s s for every component.", self, scalar},
		{ScalarFirstName, "%s returns s %s v for every component.", scalar, self},
	}

	for _, op := range BinaryOps(f) {
		for _, ar := range arities {
			res, ok := shape.Broadcast(ar.x.s, ar.y.s)
			if !ok {
				continue
			}
			if op.Comparison() {
				res = res.WithKind(shape.Bool)
			}
			other := ar.y
			if other.name == "v" {
				other = ar.x
			}
			name := ar.name(op)
			b.method(ir.GroupOp, name,
				fmt.Sprintf(ar.doc, name, opSymbols[op]),
				[]ir.Param{{Name: other.name, Type: other.s.TypeName()}}, res.TypeName(),
				ir.Return{X: build(res, func(i, j int) ir.Expr {
					return ir.Binary{Op: op, Kind: k, X: ar.x.cell(i, j), Y: ar.y.cell(i, j)}
				})})
		}
	}

	for _, op := range ShiftOps(f) {
		b.method(ir.GroupOp, op.String(),
			fmt.Sprintf("%s shifts every component by n.", op),
			[]ir.Param{{Name: "n", Type: "int"}}, b.typ(),
			ir.Return{X: build(b.s, func(i, j int) ir.Expr {
				return ir.Binary{Op: op, Kind: k, X: cell(v, b.s, i, j), Y: ref("n")}
			})})
	}

	for _, op := range UnaryOps(b.ki) {
		b.method(ir.GroupOp, op.String(),
			fmt.Sprintf("%s returns %sv componentwise.", op, opSymbols[op]),
			nil, b.typ(),
			ir.Return{X: build(b.s, func(i, j int) ir.Expr {
				return ir.Unary{Op: op, Kind: k, X: cell(v, b.s, i, j)}
			})})
	}

	if f.Has(shape.Arithmetic) {
		for _, step := range []struct {
			name string
			op   ir.Op
		}{{"Inc", ir.OpAdd}, {"Dec", ir.OpSub}} {
			b.method(ir.GroupOp, step.name,
				fmt.Sprintf("%s returns v %s 1 componentwise.", step.name, opSymbols[step.op]),
				nil, b.typ(),
				ir.Return{X: build(b.s, func(i, j int) ir.Expr {
					return ir.Binary{Op: step.op, Kind: k, X: cell(v, b.s, i, j), Y: one(k)}
				})})
		}
	}

	b.equals()
}

// operand is one side of a componentwise operator. A scalar operand
// broadcasts to every cell.
type operand struct {
	name string
	s    shape.Shape
}

func (o operand) cell(i, j int) ir.Expr {
	if o.s.IsScalar() {
		return ref(o.name)
	}
	return cell(ref(o.name), o.s, i, j)
}

// equals emits the whole-value comparison.
func (b *builder) equals() {
	var all ir.Expr
	for j := range b.s.Cols {
		for i := range b.s.Rows {
			eq := ir.Binary{Op: ir.OpEq, Kind: b.s.Kind,
				X: cell(ref("v"), b.s, i, j), Y: cell(ref("o"), b.s, i, j)}
			if all == nil {
				all = eq
				continue
			}
			all = ir.Binary{Op: ir.OpAnd, Kind: shape.Bool, X: all, Y: eq}
		}
	}
	b.method(ir.GroupOp, "Equals", "Equals reports whether every component of v equals o.",
		[]ir.Param{{Name: "o", Type: b.typ()}}, "bool", ir.Return{X: all})
}

// accessors emits At and SetAt. Out-of-range indices panic only in checked
// builds; otherwise At returns the zero value and SetAt does nothing.
func (b *builder) accessors() {
	elem := b.scalar()
	what := "component"
	if b.s.IsMatrix() {
		elem = b.s.Column().TypeName()
		what = "column"
	}
	fields := b.s.Fields()

	var get, set strings.Builder
	get.WriteString("switch i {\n")
	set.WriteString("switch i {\n")
	for i, f := range fields {
		fmt.Fprintf(&get, "case %d:\n\treturn v.%s\n", i, f)
		fmt.Fprintf(&set, "case %d:\n\tv.%s = x\n", i, f)
	}
	get.WriteString("}\n")
	fmt.Fprintf(&get, "if checkedBuild {\n\tpanic(&IndexError{Index: i, Len: %d})\n}\n", len(fields))
	fmt.Fprintf(&get, "var zero %s\nreturn zero", elem)
	fmt.Fprintf(&set, "default:\n\tif checkedBuild {\n\t\tpanic(&IndexError{Index: i, Len: %d})\n\t}\n}", len(fields))

	b.method(ir.GroupAccess, "At",
		fmt.Sprintf("At returns %s i.", what),
		[]ir.Param{{Name: "i", Type: "int"}}, elem, ir.Raw{Text: get.String()})
	b.add(&ir.Func{
		Name: "SetAt", Group: ir.GroupAccess, Recv: b.ptrRecv(),
		Doc:    fmt.Sprintf("SetAt replaces %s i with x.", what),
		Params: []ir.Param{{Name: "i", Type: "int"}, {Name: "x", Type: elem}},
		Body:   []ir.Stmt{ir.Raw{Text: set.String()}}, Shape: b.s,
	})
}

// stringer emits String.
func (b *builder) stringer() {
	verbs := make([]string, 0, len(b.s.Fields()))
	args := make([]string, 0, len(b.s.Fields()))
	for _, f := range b.s.Fields() {
		verbs = append(verbs, "%v")
		args = append(args, "v."+f)
	}
	lb, rb := "(", ")"
	if b.s.IsMatrix() {
		lb, rb = "[", "]"
	}
	text := fmt.Sprintf("return fmt.Sprintf(%q, %s)",
		lb+strings.Join(verbs, ", ")+rb, strings.Join(args, ", "))
	b.method(ir.GroupStringer, "String", "String implements fmt.Stringer.",
		nil, "string", ir.Raw{Text: text, Imports: []string{"fmt"}})
}
