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

// Package ir is the intermediate representation produced by the synthesizers:
// declarations whose bodies are componentwise scalar expressions over one
// base kind. The same tree is printed as Go source by Printer and executed by
// Interp, so generated semantics can be checked without compiling the output.
package ir

import (
	"fmt"

	"github.com/ajroetker/go-fixmath/cmd/fixgen/shape"
)

// Op is a scalar operator.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNe
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr

	// Unary.
	OpNeg
	OpPlus
	OpNot
	OpCompl
)

var opNames = [...]string{
	OpAdd: "Add", OpSub: "Sub", OpMul: "Mul", OpDiv: "Div", OpMod: "Mod",
	OpLt: "Less", OpLe: "LessEq", OpGt: "Greater", OpGe: "GreaterEq",
	OpEq: "Eq", OpNe: "Ne",
	OpAnd: "And", OpOr: "Or", OpXor: "Xor",
	OpShl: "Shl", OpShr: "Shr",
	OpNeg: "Neg", OpPlus: "Plus", OpNot: "Not", OpCompl: "Compl",
}

// String is the method name the operator gets on generated types.
func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", int(op))
	}
	return opNames[op]
}

// Comparison reports whether op yields a bool.
func (op Op) Comparison() bool {
	switch op {
	case OpLt, OpLe, OpGt, OpGe, OpEq, OpNe:
		return true
	}
	return false
}

// Expr is an expression node.
type Expr interface{ expr() }

// Ref names a parameter, receiver, local or package-level value.
type Ref struct{ Name string }

// Field selects a struct field: X.Name.
type Field struct {
	X    Expr
	Name string
}

// Lit is a scalar constant of Kind. Value holds the evaluated scalar
// (fp.FP, int32, uint32, bool, float32 or float64).
type Lit struct {
	Kind  shape.Kind
	Value any
}

// Binary applies a scalar operator to two operands of Kind. Shift counts
// are plain ints regardless of Kind.
type Binary struct {
	Op   Op
	Kind shape.Kind
	X, Y Expr
}

// Unary applies a scalar operator to an operand of Kind.
type Unary struct {
	Op   Op
	Kind shape.Kind
	X    Expr
}

// Convert converts a scalar between kinds (never from Bool).
type Convert struct {
	From, To shape.Kind
	X        Expr
}

// Dampen flushes X to zero below the kind's noise floor.
type Dampen struct {
	Kind shape.Kind
	X    Expr
}

// Bits reinterprets a scalar of Kind as a uint32.
type Bits struct {
	Kind shape.Kind
	X    Expr
}

// Cond selects Then when C is true, else Else; both are of Kind.
type Cond struct {
	Kind       shape.Kind
	C          Expr
	Then, Else Expr
}

// Compose builds a value of a generated struct type.
type Compose struct {
	Type   string
	Fields []string
	Values []Expr
}

// Call invokes another declared function. Recv is set for method calls.
type Call struct {
	Recv Expr
	Func string
	Args []Expr
}

func (Ref) expr()     {}
func (Field) expr()   {}
func (Lit) expr()     {}
func (Binary) expr()  {}
func (Unary) expr()   {}
func (Convert) expr() {}
func (Dampen) expr()  {}
func (Bits) expr()    {}
func (Cond) expr()    {}
func (Compose) expr() {}
func (Call) expr()    {}

// Stmt is a statement node.
type Stmt interface{ stmt() }

// Let declares a local: Name := X.
type Let struct {
	Name string
	X    Expr
}

// Assign stores X into Target, a Field chain rooted at a pointer receiver.
type Assign struct {
	Target Expr
	X      Expr
}

// Return returns X.
type Return struct{ X Expr }

// Raw is verbatim Go source. It is printed as is and cannot be evaluated;
// it is used for bodies that need control flow (index accessors, String).
type Raw struct {
	Text    string
	Imports []string
}

func (Let) stmt()    {}
func (Assign) stmt() {}
func (Return) stmt() {}
func (Raw) stmt()    {}

// Group classifies a function for counting and filtering.
type Group string

const (
	GroupCtor     Group = "ctor"
	GroupConv     Group = "conv"
	GroupConvOp   Group = "convop"
	GroupOp       Group = "op"
	GroupAccess   Group = "access"
	GroupSwizzle  Group = "swizzle"
	GroupHash     Group = "hash"
	GroupAlgebra  Group = "algebra"
	GroupTwin     Group = "twin"
	GroupHelper   Group = "helper"
	GroupStringer Group = "string"
)

// Param is a named, typed parameter.
type Param struct {
	Name string
	Type string
}

// Decl is a top-level declaration.
type Decl interface{ decl() }

// Struct declares a struct type.
type Struct struct {
	Name   string
	Doc    string
	Fields []Param
}

// Global declares a package-level variable. Value may be nil for the
// zero value.
type Global struct {
	Name  string
	Type  string
	Doc   string
	Value Expr
}

// Func declares a function or method.
type Func struct {
	Name   string
	Doc    string
	Group  Group
	Recv   *Param // nil for functions; Name "" for an unnamed receiver
	Params []Param
	Result string
	Body   []Stmt

	// Shape is the type the function was synthesized for.
	Shape shape.Shape
}

// Verbatim is top-level Go source emitted as is.
type Verbatim struct {
	Text    string
	Imports []string
}

func (*Struct) decl()   {}
func (*Global) decl()   {}
func (*Func) decl()     {}
func (*Verbatim) decl() {}

// IsMethod reports whether f has a receiver.
func (f *Func) IsMethod() bool { return f.Recv != nil }

// Key identifies f within a package: methods are qualified by receiver type.
func (f *Func) Key() string {
	if f.Recv == nil {
		return f.Name
	}
	return FuncKey(f.Recv.Type, f.Name)
}

// FuncKey builds the Key of a method on recvType ("*T" and "T" share keys).
func FuncKey(recvType, name string) string {
	if len(recvType) > 0 && recvType[0] == '*' {
		recvType = recvType[1:]
	}
	if recvType == "" {
		return name
	}
	return recvType + "." + name
}

// File is one output artifact.
type File struct {
	ID       string // artifact identifier, file name without ".gen.go"
	BuildTag string
	Doc      string
	Decls    []Decl
}

// Funcs returns the functions of f, optionally restricted to groups.
func (f *File) Funcs(groups ...Group) []*Func {
	var out []*Func
	for _, d := range f.Decls {
		fn, ok := d.(*Func)
		if !ok {
			continue
		}
		if len(groups) == 0 {
			out = append(out, fn)
			continue
		}
		for _, g := range groups {
			if fn.Group == g {
				out = append(out, fn)
				break
			}
		}
	}
	return out
}

// Func looks up a declaration by Key.
func (f *File) Func(key string) *Func {
	for _, fn := range f.Funcs() {
		if fn.Key() == key {
			return fn
		}
	}
	return nil
}

// Global looks up a package-level variable by name.
func (f *File) Global(name string) *Global {
	for _, d := range f.Decls {
		if g, ok := d.(*Global); ok && g.Name == name {
			return g
		}
	}
	return nil
}
