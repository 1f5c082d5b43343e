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
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/ajroetker/go-fixmath/cmd/fixgen/shape"
)

// Generated marks every emitted file.
const Generated = "// Code generated by fixgen. DO NOT EDIT."

// Go operator precedences; primary expressions (selectors, calls,
// literals) bind tightest.
const (
	precLowest  = 0
	precOrOr    = 1
	precAndAnd  = 2
	precCompare = 3
	precAdd     = 4
	precMul     = 5
	precUnary   = 6
	precPrimary = 7
)

// Printer renders IR files as (unformatted) Go source.
type Printer struct {
	// Package is the package clause of every file.
	Package string

	// FPImport is the import path of the fixed-point package.
	FPImport string

	imports map[string]bool
}

// Print renders f. The result still needs gofmt-style formatting.
func (p *Printer) Print(f *File) []byte {
	p.imports = map[string]bool{}

	var body bytes.Buffer
	for _, d := range f.Decls {
		p.decl(&body, d)
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, "%s\n", Generated)
	if f.BuildTag != "" {
		fmt.Fprintf(&out, "\n//go:build %s\n", f.BuildTag)
	}
	out.WriteString("\n")
	if f.Doc != "" {
		writeDoc(&out, f.Doc)
	}
	fmt.Fprintf(&out, "package %s\n\n", p.Package)

	if len(p.imports) > 0 {
		paths := make([]string, 0, len(p.imports))
		for path := range p.imports {
			paths = append(paths, path)
		}
		slices.Sort(paths)
		out.WriteString("import (\n")
		for _, path := range paths {
			fmt.Fprintf(&out, "\t%q\n", path)
		}
		out.WriteString(")\n\n")
	}
	out.Write(body.Bytes())
	return out.Bytes()
}

// Expr renders a single expression, mainly for tests and diagnostics.
func (p *Printer) Expr(e Expr) string {
	if p.imports == nil {
		p.imports = map[string]bool{}
	}
	return p.expr(e, precLowest, false)
}

func (p *Printer) use(path string) { p.imports[path] = true }

func (p *Printer) useType(typ string) {
	if strings.Contains(typ, "fp.") {
		p.use(p.FPImport)
	}
}

func (p *Printer) useKind(k shape.Kind) {
	if k == shape.FixedPoint {
		p.use(p.FPImport)
	}
}

func writeDoc(buf *bytes.Buffer, doc string) {
	for _, line := range strings.Split(strings.TrimRight(doc, "\n"), "\n") {
		if line == "" {
			buf.WriteString("//\n")
			continue
		}
		fmt.Fprintf(buf, "// %s\n", line)
	}
}

func (p *Printer) decl(buf *bytes.Buffer, d Decl) {
	switch d := d.(type) {
	case *Struct:
		writeDoc(buf, d.Doc)
		fmt.Fprintf(buf, "type %s struct {\n", d.Name)
		for i := 0; i < len(d.Fields); {
			j := i
			var names []string
			for j < len(d.Fields) && d.Fields[j].Type == d.Fields[i].Type {
				names = append(names, d.Fields[j].Name)
				j++
			}
			p.useType(d.Fields[i].Type)
			fmt.Fprintf(buf, "\t%s %s\n", strings.Join(names, ", "), d.Fields[i].Type)
			i = j
		}
		buf.WriteString("}\n\n")

	case *Global:
		writeDoc(buf, d.Doc)
		p.useType(d.Type)
		if d.Value == nil {
			fmt.Fprintf(buf, "var %s %s\n\n", d.Name, d.Type)
			return
		}
		fmt.Fprintf(buf, "var %s = %s\n\n", d.Name, p.expr(d.Value, precLowest, true))

	case *Func:
		p.fn(buf, d)

	case *Verbatim:
		for _, imp := range d.Imports {
			p.use(imp)
		}
		buf.WriteString(strings.TrimRight(d.Text, "\n"))
		buf.WriteString("\n\n")
	}
}

func (p *Printer) fn(buf *bytes.Buffer, f *Func) {
	writeDoc(buf, f.Doc)
	buf.WriteString("func ")
	if f.Recv != nil {
		p.useType(f.Recv.Type)
		if f.Recv.Name == "" {
			fmt.Fprintf(buf, "(%s) ", f.Recv.Type)
		} else {
			fmt.Fprintf(buf, "(%s %s) ", f.Recv.Name, f.Recv.Type)
		}
	}
	params := make([]string, len(f.Params))
	for i, prm := range f.Params {
		p.useType(prm.Type)
		params[i] = prm.Name + " " + prm.Type
	}
	fmt.Fprintf(buf, "%s(%s)", f.Name, strings.Join(params, ", "))
	if f.Result != "" {
		p.useType(f.Result)
		fmt.Fprintf(buf, " %s", f.Result)
	}
	buf.WriteString(" {\n")
	for _, s := range f.Body {
		p.stmt(buf, s)
	}
	buf.WriteString("}\n\n")
}

func (p *Printer) stmt(buf *bytes.Buffer, s Stmt) {
	switch s := s.(type) {
	case Let:
		fmt.Fprintf(buf, "\t%s := %s\n", s.Name, p.expr(s.X, precLowest, true))
	case Assign:
		fmt.Fprintf(buf, "\t%s = %s\n", p.expr(s.Target, precLowest, false), p.expr(s.X, precLowest, false))
	case Return:
		fmt.Fprintf(buf, "\treturn %s\n", p.expr(s.X, precLowest, false))
	case Raw:
		for _, imp := range s.Imports {
			p.use(imp)
		}
		for _, line := range strings.Split(strings.TrimRight(s.Text, "\n"), "\n") {
			fmt.Fprintf(buf, "\t%s\n", line)
		}
	default:
		panic(fmt.Sprintf("ir: unknown statement %T", s))
	}
}

// expr renders e so that it binds at least as tightly as prec. typed asks
// for literals that carry their type.
func (p *Printer) expr(e Expr, prec int, typed bool) string {
	text, own := p.render(e, typed)
	if own < prec {
		return "(" + text + ")"
	}
	return text
}

func (p *Printer) render(e Expr, typed bool) (string, int) {
	switch e := e.(type) {
	case Ref:
		return e.Name, precPrimary

	case Field:
		return p.expr(e.X, precPrimary, false) + "." + e.Name, precPrimary

	case Lit:
		p.useKind(e.Kind)
		return e.Kind.Info().Literal(e.Value, typed), precPrimary

	case Binary:
		return p.binary(e)

	case Unary:
		return p.unary(e)

	case Convert:
		p.useKind(e.From)
		p.useKind(e.To)
		x := p.expr(e.X, precPrimary, false)
		return e.To.Info().Convert(e.From, x), precPrimary

	case Dampen:
		ki := e.Kind.Info()
		if !ki.Dampens {
			return p.render(e.X, typed)
		}
		p.useKind(e.Kind)
		return ki.DampenFunc + "(" + p.expr(e.X, precLowest, false) + ")", precPrimary

	case Bits:
		if e.Kind == shape.Float32 {
			p.use("math")
		}
		x := p.expr(e.X, precPrimary, false)
		return e.Kind.Info().ReinterpretAsUint(x), precPrimary

	case Cond:
		return fmt.Sprintf("choose(%s, %s, %s)",
			p.expr(e.C, precLowest, false),
			p.expr(e.Then, precLowest, true),
			p.expr(e.Else, precLowest, true)), precPrimary

	case Compose:
		p.useType(e.Type)
		parts := make([]string, len(e.Values))
		for i, v := range e.Values {
			parts[i] = e.Fields[i] + ": " + p.expr(v, precLowest, false)
		}
		return e.Type + "{" + strings.Join(parts, ", ") + "}", precPrimary

	case Call:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = p.expr(a, precLowest, false)
		}
		name := e.Func
		if e.Recv != nil {
			name = p.expr(e.Recv, precPrimary, false) + "." + name
		}
		return name + "(" + strings.Join(args, ", ") + ")", precPrimary
	}
	panic(fmt.Sprintf("ir: unknown expression %T", e))
}

func (p *Printer) binary(e Binary) (string, int) {
	ki := e.Kind.Info()

	if ki.MethodArith && e.Op != OpEq && e.Op != OpNe && e.Op != OpShl && e.Op != OpShr {
		p.useKind(e.Kind)
		x := p.expr(e.X, precPrimary, false)
		y := p.expr(e.Y, precLowest, false)
		return x + "." + e.Op.String() + "(" + y + ")", precPrimary
	}

	if e.Op == OpMod && (e.Kind == shape.Float32 || e.Kind == shape.Float64) {
		p.use("math")
		x := p.expr(e.X, precLowest, false)
		y := p.expr(e.Y, precLowest, false)
		if e.Kind == shape.Float32 {
			return "float32(math.Mod(float64(" + x + "), float64(" + y + ")))", precPrimary
		}
		return "math.Mod(" + x + ", " + y + ")", precPrimary
	}

	tok, prec := binaryToken(e.Op, e.Kind == shape.Bool)
	right := prec + 1
	left := prec
	if prec == precCompare {
		left = prec + 1
	}
	x := p.expr(e.X, left, false)
	y := p.expr(e.Y, right, false)
	return x + " " + tok + " " + y, prec
}

func binaryToken(op Op, boolean bool) (string, int) {
	switch op {
	case OpAdd:
		return "+", precAdd
	case OpSub:
		return "-", precAdd
	case OpMul:
		return "*", precMul
	case OpDiv:
		return "/", precMul
	case OpMod:
		return "%", precMul
	case OpLt:
		return "<", precCompare
	case OpLe:
		return "<=", precCompare
	case OpGt:
		return ">", precCompare
	case OpGe:
		return ">=", precCompare
	case OpEq:
		return "==", precCompare
	case OpNe:
		return "!=", precCompare
	case OpShl:
		return "<<", precMul
	case OpShr:
		return ">>", precMul
	case OpAnd:
		if boolean {
			return "&&", precAndAnd
		}
		return "&", precMul
	case OpOr:
		if boolean {
			return "||", precOrOr
		}
		return "|", precAdd
	case OpXor:
		if boolean {
			return "!=", precCompare
		}
		return "^", precAdd
	}
	panic(fmt.Sprintf("ir: %v is not a binary operator", op))
}

func (p *Printer) unary(e Unary) (string, int) {
	ki := e.Kind.Info()
	if ki.MethodArith {
		p.useKind(e.Kind)
		switch e.Op {
		case OpPlus:
			return p.render(e.X, false)
		case OpNeg:
			return p.expr(e.X, precPrimary, false) + ".Neg()", precPrimary
		}
	}

	var tok string
	switch e.Op {
	case OpNeg:
		tok = "-"
	case OpPlus:
		tok = "+"
	case OpNot:
		tok = "!"
	case OpCompl:
		tok = "^"
	default:
		panic(fmt.Sprintf("ir: %v is not a unary operator", e.Op))
	}
	x := p.expr(e.X, precUnary, false)
	if _, nested := e.X.(Unary); nested {
		x = "(" + x + ")"
	}
	return tok + x, precUnary
}
