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

// Package fp implements the signed fixed-point scalar used by the generated
// fixmath vector and matrix types.
//
// Format: Q48.16 stored in an int64.
//
//	raw = round(value * 2^16)
//
// Properties:
//   - Resolution: 2^-16 (~1.53e-5)
//   - Max value: (2^63-1) / 2^16 (~1.41e14)
//   - Min value: -Max value (the range is symmetric so Neg never overflows)
//
// Add and Sub wrap like Go integers. Mul and Div saturate to MaxValue/MinValue
// on overflow. Division by zero panics, matching integer division.
package fp

import (
	"math"
	"math/bits"
	"strconv"
)

// FP is a Q48.16 fixed-point number. The zero value is 0.
type FP struct {
	raw int64
}

const (
	// Precision is the number of fractional bits.
	Precision = 16

	// OneRaw is the raw encoding of 1.
	OneRaw int64 = 1 << Precision

	// MaxRaw is the largest representable raw value.
	MaxRaw int64 = math.MaxInt64

	// MinRaw is the smallest representable raw value.
	MinRaw int64 = -math.MaxInt64

	// NoiseFloorRaw is the magnitude (in raw units) below which DampenNoise
	// flushes a value to zero.
	NoiseFloorRaw int64 = 4

	halfRaw = OneRaw / 2
	fracMask = OneRaw - 1
)

// Special values.
var (
	Zero     = FP{}
	One      = FP{raw: OneRaw}
	NegOne   = FP{raw: -OneRaw}
	Half     = FP{raw: halfRaw}
	MaxValue = FP{raw: MaxRaw}
	MinValue = FP{raw: MinRaw}
	Epsilon  = FP{raw: 1}
)

// FromRaw wraps an already encoded raw value.
func FromRaw(raw int64) FP { return FP{raw: raw} }

// Raw returns the raw Q48.16 encoding.
func (a FP) Raw() int64 { return a.raw }

// FromInt converts an int32 exactly.
func FromInt(v int32) FP { return FP{raw: int64(v) << Precision} }

// FromUint converts a uint32 exactly.
func FromUint(v uint32) FP { return FP{raw: int64(v) << Precision} }

// Encode converts f to the raw representation, rounding to nearest and
// saturating to [MinRaw, MaxRaw]. NaN encodes as 0.
func Encode(f float64) int64 {
	if math.IsNaN(f) {
		return 0
	}
	scaled := math.Round(f * float64(OneRaw))
	if scaled >= float64(MaxRaw) {
		return MaxRaw
	}
	if scaled <= float64(MinRaw) {
		return MinRaw
	}
	return int64(scaled)
}

// Decode converts a raw encoding back to float64.
func Decode(raw int64) float64 {
	return float64(raw) / float64(OneRaw)
}

// FromFloat64 converts f using Encode.
func FromFloat64(f float64) FP { return FP{raw: Encode(f)} }

// FromFloat32 converts f using Encode.
func FromFloat32(f float32) FP { return FP{raw: Encode(float64(f))} }

// Float64 returns the value as a float64.
func (a FP) Float64() float64 { return Decode(a.raw) }

// Float32 returns the value as a float32.
func (a FP) Float32() float32 { return float32(Decode(a.raw)) }

// Int32 truncates toward zero, like a Go float to int conversion.
func (a FP) Int32() int32 {
	if a.raw < 0 {
		return -int32((-a.raw) >> Precision)
	}
	return int32(a.raw >> Precision)
}

// Uint32 truncates toward zero and reinterprets the result as uint32.
func (a FP) Uint32() uint32 { return uint32(a.Int32()) }

// Add returns a + b.
func (a FP) Add(b FP) FP { return FP{raw: a.raw + b.raw} }

// Sub returns a - b.
func (a FP) Sub(b FP) FP { return FP{raw: a.raw - b.raw} }

// Neg returns -a.
func (a FP) Neg() FP { return FP{raw: -a.raw} }

// Abs returns |a|.
func (a FP) Abs() FP {
	if a.raw < 0 {
		return FP{raw: -a.raw}
	}
	return a
}

// Mul returns a * b rounded to nearest, saturating on overflow.
func (a FP) Mul(b FP) FP {
	neg := (a.raw < 0) != (b.raw < 0)
	hi, lo := bits.Mul64(abs64(a.raw), abs64(b.raw))

	var carry uint64
	lo, carry = bits.Add64(lo, uint64(halfRaw), 0)
	hi += carry

	if hi>>Precision != 0 {
		return saturate(neg)
	}
	r := hi<<(64-Precision) | lo>>Precision
	if r > uint64(MaxRaw) {
		return saturate(neg)
	}
	if neg {
		return FP{raw: -int64(r)}
	}
	return FP{raw: int64(r)}
}

// Div returns a / b truncated toward zero, saturating on overflow.
// It panics if b is zero.
func (a FP) Div(b FP) FP {
	if b.raw == 0 {
		panic("fp: division by zero")
	}
	neg := (a.raw < 0) != (b.raw < 0)
	num := abs64(a.raw)
	den := abs64(b.raw)

	hi := num >> (64 - Precision)
	lo := num << Precision
	if hi >= den {
		return saturate(neg)
	}
	q, _ := bits.Div64(hi, lo, den)
	if q > uint64(MaxRaw) {
		return saturate(neg)
	}
	if neg {
		return FP{raw: -int64(q)}
	}
	return FP{raw: int64(q)}
}

// Mod returns the remainder of a / b with the sign of a, like Go's %.
// It panics if b is zero.
func (a FP) Mod(b FP) FP {
	if b.raw == 0 {
		panic("fp: division by zero")
	}
	return FP{raw: a.raw % b.raw}
}

// Less reports whether a < b.
func (a FP) Less(b FP) bool { return a.raw < b.raw }

// LessEq reports whether a <= b.
func (a FP) LessEq(b FP) bool { return a.raw <= b.raw }

// Greater reports whether a > b.
func (a FP) Greater(b FP) bool { return a.raw > b.raw }

// GreaterEq reports whether a >= b.
func (a FP) GreaterEq(b FP) bool { return a.raw >= b.raw }

// Cmp returns -1, 0 or +1 depending on whether a is less than, equal to or
// greater than b.
func (a FP) Cmp(b FP) int {
	switch {
	case a.raw < b.raw:
		return -1
	case a.raw > b.raw:
		return 1
	}
	return 0
}

// Floor returns the largest integral value <= a.
func (a FP) Floor() FP { return FP{raw: a.raw &^ fracMask} }

// DampenNoise returns zero when |x| is below the noise floor, else x.
// Matrix products call it on every product and partial sum so rounding
// residue from mathematically exact cases does not accumulate.
func DampenNoise(x FP) FP {
	if x.raw < NoiseFloorRaw && x.raw > -NoiseFloorRaw {
		return Zero
	}
	return x
}

// String formats the decoded value.
func (a FP) String() string {
	return strconv.FormatFloat(a.Float64(), 'g', -1, 64)
}

func abs64(x int64) uint64 {
	if x < 0 {
		return uint64(-x)
	}
	return uint64(x)
}

func saturate(neg bool) FP {
	if neg {
		return MinValue
	}
	return MaxValue
}
