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

// hashLanes returns, per row, the column sum of lane terms of x. A lane
// term is the lane's bit pattern times a fresh prime; for Bool it is one of
// two fresh primes picked by the lane. Primes are drawn column by column.
func hashLanes(s shape.Shape, x ir.Expr, cur shape.PrimeCursor) ([]ir.Expr, shape.PrimeCursor) {
	lanes := make([]ir.Expr, s.Rows)
	add := func(i int, term ir.Expr) {
		if lanes[i] == nil {
			lanes[i] = term
			return
		}
		lanes[i] = ir.Binary{Op: ir.OpAdd, Kind: shape.Uint32, X: lanes[i], Y: term}
	}

	for j := range s.Cols {
		if s.Kind == shape.Bool {
			var onTrue, onFalse []uint32
			onTrue, cur = cur.Take(s.Rows)
			onFalse, cur = cur.Take(s.Rows)
			for i := range s.Rows {
				add(i, ir.Cond{Kind: shape.Uint32, C: cell(x, s, i, j),
					Then: lit(shape.Uint32, onTrue[i]), Else: lit(shape.Uint32, onFalse[i])})
			}
			continue
		}
		var primes []uint32
		primes, cur = cur.Take(s.Rows)
		for i := range s.Rows {
			add(i, ir.Binary{Op: ir.OpMul, Kind: shape.Uint32,
				X: ir.Bits{Kind: s.Kind, X: cell(x, s, i, j)},
				Y: lit(shape.Uint32, primes[i])})
		}
	}
	return lanes, cur
}

// HashNarrow builds the fully reduced hash of v: every lane term summed,
// plus a final prime.
func HashNarrow(s shape.Shape, cur shape.PrimeCursor) (ir.Stmt, shape.PrimeCursor) {
	lanes, cur := hashLanes(s, ref("v"), cur)
	final, cur := cur.Next()
	sum := lanes[0]
	for _, l := range lanes[1:] {
		sum = ir.Binary{Op: ir.OpAdd, Kind: shape.Uint32, X: sum, Y: l}
	}
	return ir.Return{X: ir.Binary{Op: ir.OpAdd, Kind: shape.Uint32, X: sum, Y: lit(shape.Uint32, final)}}, cur
}

// HashWide builds the per-lane hash of v, summed across columns only.
// Drawn from the same cursor, HashNarrow(v) equals the lane sum of
// HashWide(v) plus the next prime.
func HashWide(s shape.Shape, cur shape.PrimeCursor) (ir.Stmt, shape.PrimeCursor) {
	lanes, cur := hashLanes(s, ref("v"), cur)
	out := shape.Vector(shape.Uint32, s.Rows)
	return ir.Return{X: build(out, func(i, _ int) ir.Expr { return lanes[i] })}, cur
}

// hashes emits Hash, Math.Hash<T> and Math.HashWide<T>.
func (b *builder) hashes(cur shape.PrimeCursor) shape.PrimeCursor {
	narrow, cur := HashNarrow(b.s, cur)
	wide, cur := HashWide(b.s, cur)

	fn := b.method(ir.GroupHash, "Hash", "Hash returns a 32-bit hash of v.", nil, "uint32", narrow)
	b.twin(fn, "Hash"+b.typ())

	wideType := shape.Vector(shape.Uint32, b.s.Rows).TypeName()
	name := "HashWide" + b.typ()
	b.add(&ir.Func{
		Name: name, Group: ir.GroupHash, Recv: namespaceRecv(),
		Doc: fmt.Sprintf("%s returns the unreduced per-lane hash of v, for callers\n"+
			"combining many hashes before one final reduction.", name),
		Params: []ir.Param{{Name: "v", Type: b.typ()}},
		Result: wideType, Body: []ir.Stmt{wide}, Shape: b.s,
	})
	return cur
}
