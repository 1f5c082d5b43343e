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

import "fmt"

// MulShape is a candidate product of an N×M operand by an M×K operand.
type MulShape struct {
	N, M, K int
}

// Valid excludes a column vector used as the left "matrix" (N>1, M==1) and
// a row-only right operand (M==1, K>1). What remains is scalar·scalar, dot,
// vector·matrix, matrix·vector and matrix·matrix.
func (ms MulShape) Valid() bool {
	if ms.N < 1 || ms.N > MaxDim || ms.M < 1 || ms.M > MaxDim || ms.K < 1 || ms.K > MaxDim {
		return false
	}
	if ms.N > 1 && ms.M == 1 {
		return false
	}
	if ms.M == 1 && ms.K > 1 {
		return false
	}
	return true
}

// MulShapes returns every valid triple ordered by N, M, K.
func MulShapes() []MulShape {
	var out []MulShape
	for n := 1; n <= MaxDim; n++ {
		for m := 1; m <= MaxDim; m++ {
			for k := 1; k <= MaxDim; k++ {
				if ms := (MulShape{n, m, k}); ms.Valid() {
					out = append(out, ms)
				}
			}
		}
	}
	return out
}

// Left is the stored type of the left operand. A 1×M row operand is stored
// as an M-vector (or the scalar when M==1).
func (ms MulShape) Left(k Kind) Shape {
	if ms.N == 1 {
		return Vector(k, ms.M)
	}
	return New(k, ms.N, ms.M)
}

// Right is the stored type of the right operand.
func (ms MulShape) Right(k Kind) Shape {
	if ms.K == 1 {
		return Vector(k, ms.M)
	}
	return New(k, ms.M, ms.K)
}

// Result is the stored type of the N×K product. A 1×K row result is stored
// as a K-vector.
func (ms MulShape) Result(k Kind) Shape {
	switch {
	case ms.N == 1:
		return Vector(k, ms.K)
	case ms.K == 1:
		return Vector(k, ms.N)
	}
	return New(k, ms.N, ms.K)
}

// LeftCell returns the (row, col) of Left's storage holding logical element (i, t).
func (ms MulShape) LeftCell(i, t int) (int, int) {
	if ms.N == 1 {
		return t, 0
	}
	return i, t
}

// RightCell returns the (row, col) of Right's storage holding logical element (t, j).
func (ms MulShape) RightCell(t, j int) (int, int) {
	if ms.K == 1 {
		return t, 0
	}
	return t, j
}

// ResultCell returns the (row, col) of Result's storage for logical element (i, j).
func (ms MulShape) ResultCell(i, j int) (int, int) {
	if ms.N == 1 {
		return j, 0
	}
	return i, j
}

func (ms MulShape) String() string {
	return fmt.Sprintf("(%d,%d,%d)", ms.N, ms.M, ms.K)
}
