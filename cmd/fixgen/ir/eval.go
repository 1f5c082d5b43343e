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
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ajroetker/go-fixmath/cmd/fixgen/shape"
	"github.com/ajroetker/go-fixmath/fp"
)

// ErrNotEvaluable is returned when a body contains Raw statements.
var ErrNotEvaluable = errors.New("ir: body is not evaluable")

// Composite is the evaluated value of a generated struct type.
type Composite struct {
	Type   string
	Fields []string
	Values []any
}

// Get returns the named field, or nil.
func (c Composite) Get(name string) any {
	for i, f := range c.Fields {
		if f == name {
			return c.Values[i]
		}
	}
	return nil
}

// With returns a copy of c with field name set to v.
func (c Composite) With(name string, v any) Composite {
	out := Composite{Type: c.Type, Fields: c.Fields, Values: make([]any, len(c.Values))}
	copy(out.Values, c.Values)
	for i, f := range c.Fields {
		if f == name {
			out.Values[i] = v
			return out
		}
	}
	panic(fmt.Sprintf("ir: %s has no field %s", c.Type, name))
}

// Interp executes IR function bodies over concrete scalar values. It is the
// reference semantics of the emitted code.
type Interp struct {
	funcs   map[string]*Func
	structs map[string]*Struct
	globals map[string]*Global
	values  map[string]any
}

// NewInterp indexes the declarations of files.
func NewInterp(files ...*File) *Interp {
	in := &Interp{
		funcs:   map[string]*Func{},
		structs: map[string]*Struct{},
		globals: map[string]*Global{},
		values:  map[string]any{},
	}
	for _, f := range files {
		for _, d := range f.Decls {
			switch d := d.(type) {
			case *Func:
				in.funcs[d.Key()] = d
			case *Struct:
				in.structs[d.Name] = d
			case *Global:
				in.globals[d.Name] = d
			}
		}
	}
	return in
}

// Global evaluates a package-level variable.
func (in *Interp) Global(name string) (any, error) {
	if v, ok := in.values[name]; ok {
		return v, nil
	}
	g, ok := in.globals[name]
	if !ok {
		return nil, fmt.Errorf("ir: undefined %s", name)
	}
	var v any
	if g.Value == nil {
		z, err := in.Zero(g.Type)
		if err != nil {
			return nil, err
		}
		v = z
	} else {
		var err error
		v, err = in.eval(g.Value, env{})
		if err != nil {
			return nil, fmt.Errorf("ir: global %s: %w", name, err)
		}
	}
	in.values[name] = v
	return v, nil
}

// Zero returns the zero value of a scalar or generated struct type.
func (in *Interp) Zero(typ string) (any, error) {
	for _, k := range shape.AllKinds() {
		if ki := k.Info(); ki.GoType == typ {
			return ki.Zero, nil
		}
	}
	st, ok := in.structs[typ]
	if !ok {
		return nil, fmt.Errorf("ir: unknown type %s", typ)
	}
	c := Composite{Type: typ, Fields: make([]string, len(st.Fields)), Values: make([]any, len(st.Fields))}
	for i, f := range st.Fields {
		z, err := in.Zero(f.Type)
		if err != nil {
			return nil, err
		}
		c.Fields[i] = f.Name
		c.Values[i] = z
	}
	return c, nil
}

// Call evaluates the package-level function or namespace function name.
// Namespace functions are addressed as "Math.Name".
func (in *Interp) Call(name string, args ...any) (any, error) {
	if ns, fn, ok := strings.Cut(name, "."); ok {
		recv, err := in.Global(ns)
		if err != nil {
			return nil, err
		}
		ret, _, err := in.CallMethod(recv, fn, args...)
		return ret, err
	}
	fn, ok := in.funcs[name]
	if !ok {
		return nil, fmt.Errorf("ir: undefined function %s", name)
	}
	ret, _, err := in.Eval(fn, nil, args)
	return ret, err
}

// CallMethod evaluates method name on recv and returns the result and the
// receiver after the call (which differs from recv only for setters).
func (in *Interp) CallMethod(recv any, name string, args ...any) (any, any, error) {
	c, ok := recv.(Composite)
	if !ok {
		return nil, nil, fmt.Errorf("ir: method %s on non-struct %T", name, recv)
	}
	fn, ok := in.funcs[FuncKey(c.Type, name)]
	if !ok {
		return nil, nil, fmt.Errorf("ir: %s has no method %s", c.Type, name)
	}
	return in.Eval(fn, recv, args)
}

type env map[string]any

// Eval runs fn. Runtime panics of the scalar kinds (integer or fixed-point
// division by zero) are returned as errors.
func (in *Interp) Eval(fn *Func, recv any, args []any) (ret, recvOut any, err error) {
	if len(args) != len(fn.Params) {
		return nil, nil, fmt.Errorf("ir: %s takes %d arguments, got %d", fn.Key(), len(fn.Params), len(args))
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("ir: %s: %v", fn.Key(), r)
		}
	}()

	e := env{}
	if fn.Recv != nil && fn.Recv.Name != "" {
		e[fn.Recv.Name] = recv
	}
	for i, p := range fn.Params {
		e[p.Name] = args[i]
	}
	for _, s := range fn.Body {
		switch s := s.(type) {
		case Let:
			v, err := in.eval(s.X, e)
			if err != nil {
				return nil, nil, err
			}
			e[s.Name] = v
		case Assign:
			v, err := in.eval(s.X, e)
			if err != nil {
				return nil, nil, err
			}
			if err := in.assign(s.Target, v, e); err != nil {
				return nil, nil, err
			}
		case Return:
			v, err := in.eval(s.X, e)
			if err != nil {
				return nil, nil, err
			}
			return v, in.receiver(fn, e, recv), nil
		case Raw:
			return nil, nil, fmt.Errorf("%w: %s", ErrNotEvaluable, fn.Key())
		}
	}
	return nil, in.receiver(fn, e, recv), nil
}

func (in *Interp) receiver(fn *Func, e env, recv any) any {
	if fn.Recv == nil || fn.Recv.Name == "" {
		return recv
	}
	return e[fn.Recv.Name]
}

func (in *Interp) assign(target Expr, v any, e env) error {
	switch t := target.(type) {
	case Ref:
		e[t.Name] = v
		return nil
	case Field:
		base, err := in.eval(t.X, e)
		if err != nil {
			return err
		}
		c, ok := base.(Composite)
		if !ok {
			return fmt.Errorf("ir: assignment to field %s of %T", t.Name, base)
		}
		return in.assign(t.X, c.With(t.Name, v), e)
	}
	return fmt.Errorf("ir: cannot assign to %T", target)
}

func (in *Interp) eval(x Expr, e env) (any, error) {
	switch x := x.(type) {
	case Ref:
		if v, ok := e[x.Name]; ok {
			return v, nil
		}
		return in.Global(x.Name)

	case Field:
		base, err := in.eval(x.X, e)
		if err != nil {
			return nil, err
		}
		c, ok := base.(Composite)
		if !ok {
			return nil, fmt.Errorf("ir: field %s of %T", x.Name, base)
		}
		return c.Get(x.Name), nil

	case Lit:
		return x.Value, nil

	case Binary:
		a, err := in.eval(x.X, e)
		if err != nil {
			return nil, err
		}
		b, err := in.eval(x.Y, e)
		if err != nil {
			return nil, err
		}
		return Apply(x.Op, a, b), nil

	case Unary:
		a, err := in.eval(x.X, e)
		if err != nil {
			return nil, err
		}
		return ApplyUnary(x.Op, a), nil

	case Convert:
		a, err := in.eval(x.X, e)
		if err != nil {
			return nil, err
		}
		return ConvertScalar(x.To, a), nil

	case Dampen:
		a, err := in.eval(x.X, e)
		if err != nil {
			return nil, err
		}
		if v, ok := a.(fp.FP); ok && x.Kind.Info().Dampens {
			return fp.DampenNoise(v), nil
		}
		return a, nil

	case Bits:
		a, err := in.eval(x.X, e)
		if err != nil {
			return nil, err
		}
		return shape.Bits(a), nil

	case Cond:
		c, err := in.eval(x.C, e)
		if err != nil {
			return nil, err
		}
		if c.(bool) {
			return in.eval(x.Then, e)
		}
		return in.eval(x.Else, e)

	case Compose:
		c := Composite{Type: x.Type, Fields: x.Fields, Values: make([]any, len(x.Values))}
		for i, v := range x.Values {
			val, err := in.eval(v, e)
			if err != nil {
				return nil, err
			}
			c.Values[i] = val
		}
		return c, nil

	case Call:
		args := make([]any, len(x.Args))
		for i, a := range x.Args {
			v, err := in.eval(a, e)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		if x.Recv == nil {
			fn, ok := in.funcs[x.Func]
			if !ok {
				return nil, fmt.Errorf("ir: undefined function %s", x.Func)
			}
			ret, _, err := in.Eval(fn, nil, args)
			return ret, err
		}
		recv, err := in.eval(x.Recv, e)
		if err != nil {
			return nil, err
		}
		ret, _, err := in.CallMethod(recv, x.Func, args...)
		return ret, err
	}
	return nil, fmt.Errorf("ir: cannot evaluate %T", x)
}

// Apply evaluates a binary scalar operator. Shift counts are ints.
func Apply(op Op, a, b any) any {
	switch x := a.(type) {
	case fp.FP:
		return fpBinary(op, x, b.(fp.FP))
	case int32:
		if n, ok := b.(int); ok {
			return shift(op, x, n)
		}
		return intBinary(op, x, b.(int32))
	case uint32:
		if n, ok := b.(int); ok {
			return shift(op, x, n)
		}
		return intBinary(op, x, b.(uint32))
	case float32:
		return floatBinary(op, x, b.(float32))
	case float64:
		return floatBinary(op, x, b.(float64))
	case bool:
		y := b.(bool)
		switch op {
		case OpAnd:
			return x && y
		case OpOr:
			return x || y
		case OpXor, OpNe:
			return x != y
		case OpEq:
			return x == y
		}
	}
	panic(fmt.Sprintf("ir: %v not defined on %T", op, a))
}

func fpBinary(op Op, x, y fp.FP) any {
	switch op {
	case OpAdd:
		return x.Add(y)
	case OpSub:
		return x.Sub(y)
	case OpMul:
		return x.Mul(y)
	case OpDiv:
		return x.Div(y)
	case OpMod:
		return x.Mod(y)
	case OpLt:
		return x.Less(y)
	case OpLe:
		return x.LessEq(y)
	case OpGt:
		return x.Greater(y)
	case OpGe:
		return x.GreaterEq(y)
	case OpEq:
		return x == y
	case OpNe:
		return x != y
	}
	panic(fmt.Sprintf("ir: %v not defined on fp.FP", op))
}

type integer interface{ ~int32 | ~uint32 }

func intBinary[T integer](op Op, x, y T) any {
	switch op {
	case OpAdd:
		return x + y
	case OpSub:
		return x - y
	case OpMul:
		return x * y
	case OpDiv:
		return x / y
	case OpMod:
		return x % y
	case OpAnd:
		return x & y
	case OpOr:
		return x | y
	case OpXor:
		return x ^ y
	}
	return compare(op, x, y)
}

func shift[T integer](op Op, x T, n int) any {
	if op == OpShl {
		return x << n
	}
	return x >> n
}

func floatBinary[T ~float32 | ~float64](op Op, x, y T) any {
	switch op {
	case OpAdd:
		return x + y
	case OpSub:
		return x - y
	case OpMul:
		return x * y
	case OpDiv:
		return x / y
	case OpMod:
		return T(math.Mod(float64(x), float64(y)))
	}
	return compare(op, x, y)
}

func compare[T integer | ~float32 | ~float64](op Op, x, y T) bool {
	switch op {
	case OpLt:
		return x < y
	case OpLe:
		return x <= y
	case OpGt:
		return x > y
	case OpGe:
		return x >= y
	case OpEq:
		return x == y
	case OpNe:
		return x != y
	}
	panic(fmt.Sprintf("ir: %v is not a comparison", op))
}

// ApplyUnary evaluates a unary scalar operator.
func ApplyUnary(op Op, a any) any {
	switch x := a.(type) {
	case fp.FP:
		switch op {
		case OpNeg:
			return x.Neg()
		case OpPlus:
			return x
		}
	case int32:
		return signedUnary(op, x)
	case uint32:
		return signedUnary(op, x)
	case float32:
		switch op {
		case OpNeg:
			return -x
		case OpPlus:
			return x
		}
	case float64:
		switch op {
		case OpNeg:
			return -x
		case OpPlus:
			return x
		}
	case bool:
		if op == OpNot {
			return !x
		}
	}
	panic(fmt.Sprintf("ir: unary %v not defined on %T", op, a))
}

func signedUnary[T integer](op Op, x T) any {
	switch op {
	case OpNeg:
		return -x
	case OpPlus:
		return x
	case OpCompl:
		return ^x
	}
	panic(fmt.Sprintf("ir: unary %v not defined on %T", op, x))
}

// ConvertScalar converts a non-bool scalar to kind to, following the Go
// conversion rules (and the fp package for the fixed-point kind).
func ConvertScalar(to shape.Kind, a any) any {
	if x, ok := a.(fp.FP); ok {
		switch to {
		case shape.FixedPoint:
			return x
		case shape.Int32:
			return x.Int32()
		case shape.Uint32:
			return x.Uint32()
		case shape.Float32:
			return x.Float32()
		case shape.Float64:
			return x.Float64()
		}
	}
	switch x := a.(type) {
	case int32:
		return convertNumber(to, x)
	case uint32:
		return convertNumber(to, x)
	case float32:
		return convertNumber(to, x)
	case float64:
		return convertNumber(to, x)
	}
	panic(fmt.Sprintf("ir: no conversion from %T to %s", a, to))
}

func convertNumber[T integer | ~float32 | ~float64](to shape.Kind, x T) any {
	switch to {
	case shape.FixedPoint:
		switch v := any(x).(type) {
		case int32:
			return fp.FromInt(v)
		case uint32:
			return fp.FromUint(v)
		case float32:
			return fp.FromFloat32(v)
		case float64:
			return fp.FromFloat64(v)
		}
	case shape.Int32:
		return int32(x)
	case shape.Uint32:
		return uint32(x)
	case shape.Float32:
		return float32(x)
	case shape.Float64:
		return float64(x)
	}
	panic(fmt.Sprintf("ir: no conversion from %T to %s", x, to))
}
