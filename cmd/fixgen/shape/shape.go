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

// Package shape describes the design space of generated vector and matrix
// types: base kinds and their capabilities, shapes, the enumeration order,
// matrix-product shapes, constructor partitions, swizzle patterns and the
// hash prime sequence.
package shape

import (
	"fmt"
	"strings"
)

// MaxDim is the largest row or column count.
const MaxDim = 4

// Axes names vector components in order.
var Axes = [MaxDim]string{"X", "Y", "Z", "W"}

// Features is a bitset of operator families a kind supports.
type Features uint8

const (
	Arithmetic Features = 1 << iota
	Shifts
	BitwiseLogic
	BitwiseComplement
	UnaryNegation
)

// Has reports whether all bits of x are set in f.
func (f Features) Has(x Features) bool { return f&x == x }

// String lists the set features joined by "|".
func (f Features) String() string {
	names := []string{"Arithmetic", "Shifts", "BitwiseLogic", "BitwiseComplement", "UnaryNegation"}
	var parts []string
	for i, n := range names {
		if f&(1<<i) != 0 {
			parts = append(parts, n)
		}
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, "|")
}

// Shape is one generated type: a base kind and its dimensions.
// Rows==1 && Cols==1 denotes the bare scalar; it is never enumerated but is
// used to describe scalar operands of matrix products.
type Shape struct {
	Kind     Kind
	Rows     int
	Cols     int
	Features Features
}

// New returns the shape of kind k with the kind's default features.
func New(k Kind, rows, cols int) Shape {
	return Shape{Kind: k, Rows: rows, Cols: cols, Features: k.Info().Features}
}

// Scalar returns the 1x1 shape of k.
func Scalar(k Kind) Shape { return New(k, 1, 1) }

// Vector returns the column vector of k with n components (the scalar when n==1).
func Vector(k Kind, n int) Shape { return New(k, n, 1) }

// Valid reports whether s is part of the generated family: bare scalars and
// row vectors are excluded.
func (s Shape) Valid() bool {
	if s.Rows < 1 || s.Rows > MaxDim || s.Cols < 1 || s.Cols > MaxDim {
		return false
	}
	return s.Rows > 1
}

func (s Shape) IsScalar() bool { return s.Rows == 1 && s.Cols == 1 }
func (s Shape) IsVector() bool { return s.Rows > 1 && s.Cols == 1 }
func (s Shape) IsMatrix() bool { return s.Rows > 1 && s.Cols > 1 }
func (s Shape) IsSquare() bool { return s.IsMatrix() && s.Rows == s.Cols }

// Info is shorthand for s.Kind.Info().
func (s Shape) Info() *KindInfo { return s.Kind.Info() }

// TypeName is the emitted Go type: Fp3, Int2x4, or the scalar type for 1x1.
func (s Shape) TypeName() string {
	ki := s.Info()
	switch {
	case s.IsScalar():
		return ki.GoType
	case s.Cols == 1:
		return fmt.Sprintf("%s%d", ki.Name, s.Rows)
	}
	return fmt.Sprintf("%s%dx%d", ki.Name, s.Rows, s.Cols)
}

// Ident is the shape's short name used in names of namespace functions.
// It equals TypeName except for scalars, which use the kind name ("Fp").
func (s Shape) Ident() string {
	if s.IsScalar() {
		return s.Info().Name
	}
	return s.TypeName()
}

// ID is the artifact identifier: the lower-cased type name.
func (s Shape) ID() string { return strings.ToLower(s.Ident()) }

// String implements fmt.Stringer.
func (s Shape) String() string {
	return fmt.Sprintf("%s(%dx%d)", s.Kind, s.Rows, s.Cols)
}

// Column returns the column vector type of a matrix (or s itself for vectors).
func (s Shape) Column() Shape { return Vector(s.Kind, s.Rows) }

// WithKind returns s with another base kind, e.g. the Bool shape of a
// comparison result.
func (s Shape) WithKind(k Kind) Shape { return New(k, s.Rows, s.Cols) }

// Transposed swaps rows and columns.
func (s Shape) Transposed() Shape { return New(s.Kind, s.Cols, s.Rows) }

// ColumnField names column j of a matrix.
func ColumnField(j int) string { return fmt.Sprintf("C%d", j) }

// Fields returns the struct field names of s.
func (s Shape) Fields() []string {
	if s.IsMatrix() {
		out := make([]string, s.Cols)
		for j := range out {
			out[j] = ColumnField(j)
		}
		return out
	}
	return Axes[:s.Rows]
}

// Broadcast applies the operand rule shared by every componentwise binary
// operator: a 1x1 operand is a scalar and adopts the other operand's shape,
// otherwise both shapes must match exactly.
func Broadcast(a, b Shape) (Shape, bool) {
	switch {
	case a.IsScalar():
		return b, true
	case b.IsScalar():
		return a, true
	case a.Rows == b.Rows && a.Cols == b.Cols:
		return a, true
	}
	return Shape{}, false
}
