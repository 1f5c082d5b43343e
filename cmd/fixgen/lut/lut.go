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

// Package lut samples transcendental functions into fixed-point lookup
// tables. Interpolation over the tables is left to the consumer.
package lut

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/ajroetker/go-fixmath/cmd/fixgen/ir"
	"github.com/ajroetker/go-fixmath/fp"
)

// DefaultSize is the default number of samples per table.
const DefaultSize = 1024

// ErrSize is returned for tables with fewer than two samples.
var ErrSize = errors.New("lut: size must be at least 2")

// Func is a sampled function over [Lo, Hi].
type Func struct {
	Name   string
	Lo, Hi float64
	Eval   func(float64) float64

	// Saturate maps samples that are not representable (above the
	// maximum, negative, NaN or infinite) to the maximum raw value.
	Saturate bool
}

// Funcs are the tabulated functions in emission order.
var Funcs = []Func{
	{Name: "Asin", Lo: -1, Hi: 1, Eval: math.Asin},
	{Name: "Sin", Lo: 0, Hi: math.Pi / 2, Eval: math.Sin},
	{Name: "Tan", Lo: 0, Hi: math.Pi / 2, Eval: math.Tan, Saturate: true},
	{Name: "Exp", Lo: -1, Hi: 3, Eval: math.Exp, Saturate: true},
}

// Encoding is the fixed-point representation samples are stored in.
type Encoding struct {
	Encode func(float64) int64
	Decode func(int64) float64
	MaxRaw int64
}

// FixedPoint is the encoding of the fp package.
func FixedPoint() Encoding {
	return Encoding{Encode: fp.Encode, Decode: fp.Decode, MaxRaw: fp.MaxRaw}
}

// Entry is one sample.
type Entry struct {
	Domain float64
	Raw    int64
}

// Table is the sampling of one function.
type Table struct {
	Func    Func
	Entries []Entry
}

// Raw returns the encoded samples.
func (t Table) Raw() []int64 {
	out := make([]int64, len(t.Entries))
	for i, e := range t.Entries {
		out[i] = e.Raw
	}
	return out
}

// Sample evaluates fn at size evenly spaced points including both ends of
// its domain.
func Sample(fn Func, size int, enc Encoding) (Table, error) {
	if size < 2 {
		return Table{}, ErrSize
	}
	limit := enc.Decode(enc.MaxRaw)
	t := Table{Func: fn, Entries: make([]Entry, size)}
	for i := range size {
		x := fn.Lo + (fn.Hi-fn.Lo)*float64(i)/float64(size-1)
		y := fn.Eval(x)
		raw := enc.Encode(y)
		if fn.Saturate && (math.IsNaN(y) || math.IsInf(y, 0) || y < 0 || y > limit) {
			raw = enc.MaxRaw
		}
		t.Entries[i] = Entry{Domain: x, Raw: raw}
	}
	return t, nil
}

// Generate samples every function in Funcs.
func Generate(size int, enc Encoding) ([]Table, error) {
	tables := make([]Table, 0, len(Funcs))
	for _, fn := range Funcs {
		t, err := Sample(fn, size, enc)
		if err != nil {
			return nil, fmt.Errorf("sample %s: %w", fn.Name, err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// ID is the artifact identifier of the rendered tables.
const ID = "lut"

const perLine = 8

// File renders tables as a Go artifact: a LUTSize constant, the domain
// bounds and one [LUTSize]int64 array per function.
func File(tables []Table) *ir.File {
	var buf bytes.Buffer
	size := 0
	if len(tables) > 0 {
		size = len(tables[0].Entries)
	}
	fmt.Fprintf(&buf, "// LUTSize is the number of samples in every table.\n")
	fmt.Fprintf(&buf, "const LUTSize = %d\n\n", size)

	fmt.Fprintf(&buf, "// Sampled domains; sample i lies at Lo + (Hi-Lo)*i/(LUTSize-1).\n")
	fmt.Fprintf(&buf, "const (\n")
	for _, t := range tables {
		fmt.Fprintf(&buf, "\t%sLo = %s\n", t.Func.Name, formatFloat(t.Func.Lo))
		fmt.Fprintf(&buf, "\t%sHi = %s\n", t.Func.Name, formatFloat(t.Func.Hi))
	}
	fmt.Fprintf(&buf, ")\n")

	for _, t := range tables {
		name := t.Func.Name + "Lut"
		fmt.Fprintf(&buf, "\n// %s holds raw fixed-point samples of %s over [%sLo, %sHi].\n",
			name, t.Func.Name, t.Func.Name, t.Func.Name)
		if t.Func.Saturate {
			fmt.Fprintf(&buf, "// Unrepresentable samples hold the maximum raw value.\n")
		}
		fmt.Fprintf(&buf, "var %s = [LUTSize]int64{\n", name)
		for i, raw := range t.Raw() {
			if i%perLine == 0 {
				buf.WriteString("\t")
			}
			buf.WriteString(strconv.FormatInt(raw, 10))
			buf.WriteString(",")
			if i%perLine == perLine-1 || i == len(t.Entries)-1 {
				buf.WriteString("\n")
			} else {
				buf.WriteString(" ")
			}
		}
		fmt.Fprintf(&buf, "}\n")
	}
	return &ir.File{ID: ID, Decls: []ir.Decl{&ir.Verbatim{Text: buf.String()}}}
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		s += ".0"
	}
	return s
}
