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

package shape

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ajroetker/go-fixmath/fp"
)

// Kind is the base scalar kind of a generated type.
// Declaration order is the enumeration order and must not change:
// it determines which hash primes each shape consumes.
type Kind int

const (
	FixedPoint Kind = iota
	Int32
	Uint32
	Bool
	Float32
	Float64

	numKinds
)

// AllKinds returns every kind in enumeration order.
func AllKinds() []Kind {
	return []Kind{FixedPoint, Int32, Uint32, Bool, Float32, Float64}
}

// Info returns the capability record for k.
func (k Kind) Info() *KindInfo {
	if k < 0 || k >= numKinds {
		panic(fmt.Sprintf("shape: unknown kind %d", int(k)))
	}
	return &kindTable[k]
}

// String returns the configuration tag of k ("fp", "int", ...).
func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindTable[k].Tag
}

// ParseKind maps a configuration tag to a Kind.
func ParseKind(tag string) (Kind, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for i := range kindTable {
		if kindTable[i].Tag == tag {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown kind %q", tag)
}

// KindInfo describes how a base kind behaves and how its scalars are
// spelled in emitted Go code. Synthesizers look it up once per shape
// instead of switching on kind names.
type KindInfo struct {
	Kind Kind
	Tag  string // configuration tag: "fp", "int", ...
	Name string // type name prefix: "Fp" -> Fp3, Fp3x3

	// GoType is the emitted scalar type.
	GoType string

	// Features gates the operator set.
	Features Features

	// Signed kinds get determinants.
	Signed bool

	// Invertible kinds get inverse and fast rigid inverse.
	Invertible bool

	// Dampens is true when matrix products pass every product and partial
	// sum through the noise floor.
	Dampens bool

	// DampenFunc spells the noise-floor function when Dampens is set.
	DampenFunc string

	// MethodArith is true when arithmetic is spelled as method calls
	// (a.Add(b)) instead of Go operators.
	MethodArith bool

	// Zero and One are the evaluated scalar constants.
	Zero, One any
}

var kindTable = [numKinds]KindInfo{
	FixedPoint: {
		Kind:        FixedPoint,
		Tag:         "fp",
		Name:        "Fp",
		GoType:      "fp.FP",
		Features:    Arithmetic | UnaryNegation,
		Signed:      true,
		Invertible:  true,
		Dampens:     true,
		DampenFunc:  "fp.DampenNoise",
		MethodArith: true,
		Zero:        fp.Zero,
		One:         fp.One,
	},
	Int32: {
		Kind:     Int32,
		Tag:      "int",
		Name:     "Int",
		GoType:   "int32",
		Features: Arithmetic | UnaryNegation | Shifts | BitwiseLogic | BitwiseComplement,
		Signed:   true,
		Zero:     int32(0),
		One:      int32(1),
	},
	Uint32: {
		Kind:     Uint32,
		Tag:      "uint",
		Name:     "Uint",
		GoType:   "uint32",
		Features: Arithmetic | UnaryNegation | Shifts | BitwiseLogic | BitwiseComplement,
		Zero:     uint32(0),
		One:      uint32(1),
	},
	Bool: {
		Kind:     Bool,
		Tag:      "bool",
		Name:     "Bool",
		GoType:   "bool",
		Features: BitwiseLogic,
		Zero:     false,
		One:      true,
	},
	Float32: {
		Kind:       Float32,
		Tag:        "float",
		Name:       "Float",
		GoType:     "float32",
		Features:   Arithmetic | UnaryNegation,
		Signed:     true,
		Invertible: true,
		Zero:       float32(0),
		One:        float32(1),
	},
	Float64: {
		Kind:       Float64,
		Tag:        "double",
		Name:       "Double",
		GoType:     "float64",
		Features:   Arithmetic | UnaryNegation,
		Signed:     true,
		Invertible: true,
		Zero:       float64(0),
		One:        float64(1),
	},
}

// Numeric reports whether k has arithmetic (and therefore identity matrices
// and matrix products).
func (ki *KindInfo) Numeric() bool { return ki.Features.Has(Arithmetic) }

// ZeroLiteral returns the Go spelling of zero.
func (ki *KindInfo) ZeroLiteral() string { return ki.Literal(ki.Zero, false) }

// OneLiteral returns the Go spelling of one.
func (ki *KindInfo) OneLiteral() string { return ki.Literal(ki.One, false) }

// Literal spells v, a scalar of this kind, as Go source. When typed is set
// the result carries its type even for untyped constants (needed where type
// inference would otherwise pick int or float64).
func (ki *KindInfo) Literal(v any, typed bool) string {
	switch x := v.(type) {
	case fp.FP:
		switch x {
		case fp.Zero:
			return "fp.Zero"
		case fp.One:
			return "fp.One"
		case fp.NegOne:
			return "fp.NegOne"
		}
		return fmt.Sprintf("fp.FromRaw(%d)", x.Raw())
	case bool:
		return strconv.FormatBool(x)
	case int32:
		return typedLit("int32", strconv.FormatInt(int64(x), 10), typed)
	case uint32:
		s := strconv.FormatUint(uint64(x), 10)
		if x > 9 {
			s = fmt.Sprintf("0x%08X", x)
		}
		return typedLit("uint32", s, typed)
	case float32:
		return typedLit("float32", formatFloat(float64(x), 32), typed)
	case float64:
		return typedLit("float64", formatFloat(x, 64), typed)
	}
	panic(fmt.Sprintf("shape: literal %v (%T) for kind %s", v, v, ki.Tag))
}

// Convert spells a conversion of expression x from kind `from` into this kind.
// Bool sources are not handled here; they become a select between one and zero.
func (ki *KindInfo) Convert(from Kind, x string) string {
	if from == ki.Kind {
		return x
	}
	switch {
	case ki.Kind == FixedPoint:
		switch from {
		case Int32:
			return "fp.FromInt(" + x + ")"
		case Uint32:
			return "fp.FromUint(" + x + ")"
		case Float32:
			return "fp.FromFloat32(" + x + ")"
		case Float64:
			return "fp.FromFloat64(" + x + ")"
		}
	case from == FixedPoint:
		switch ki.Kind {
		case Int32:
			return x + ".Int32()"
		case Uint32:
			return x + ".Uint32()"
		case Float32:
			return x + ".Float32()"
		case Float64:
			return x + ".Float64()"
		}
	case from != Bool && ki.Kind != Bool:
		return ki.GoType + "(" + x + ")"
	}
	panic(fmt.Sprintf("shape: no conversion from %s to %s", from, ki.Tag))
}

// ReinterpretAsUint spells the bit pattern of x folded into a uint32.
// Bool has no bit pattern; its hash selects between prime vectors instead.
func (ki *KindInfo) ReinterpretAsUint(x string) string {
	switch ki.Kind {
	case FixedPoint:
		return "bitsFp(" + x + ")"
	case Int32:
		return "uint32(" + x + ")"
	case Uint32:
		return x
	case Float32:
		return "math.Float32bits(" + x + ")"
	case Float64:
		return "bitsFloat64(" + x + ")"
	}
	panic("shape: bool has no bit pattern")
}

// FoldRaw folds a 64-bit pattern into 32 bits the same way the emitted
// bitsFp and bitsFloat64 helpers do.
func FoldRaw(b uint64) uint32 { return uint32(b ^ b>>32) }

// Bits evaluates ReinterpretAsUint for a scalar value.
func Bits(v any) uint32 {
	switch x := v.(type) {
	case fp.FP:
		return FoldRaw(uint64(x.Raw()))
	case int32:
		return uint32(x)
	case uint32:
		return x
	case float32:
		return math.Float32bits(x)
	case float64:
		return FoldRaw(math.Float64bits(x))
	}
	panic(fmt.Sprintf("shape: no bit pattern for %T", v))
}

func typedLit(goType, s string, typed bool) string {
	if typed {
		return goType + "(" + s + ")"
	}
	return s
}

func formatFloat(f float64, bitSize int) string {
	return strconv.FormatFloat(f, 'g', -1, bitSize)
}
