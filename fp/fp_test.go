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

package fp

import (
	"math"
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	tests := []struct {
		in   float64
		want int64
	}{
		{0, 0},
		{1, OneRaw},
		{-1, -OneRaw},
		{0.5, OneRaw / 2},
		{1.0 / 65536, 1},
		{math.NaN(), 0},
		{math.Inf(1), MaxRaw},
		{math.Inf(-1), MinRaw},
		{1e300, MaxRaw},
	}
	for _, tt := range tests {
		if got := Encode(tt.in); got != tt.want {
			t.Errorf("Encode(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
	if got := Decode(3 * OneRaw / 2); got != 1.5 {
		t.Errorf("Decode(1.5 raw) = %v, want 1.5", got)
	}
}

func TestArithmetic(t *testing.T) {
	a := FromFloat64(2.5)
	b := FromFloat64(-1.25)

	if got := a.Add(b).Float64(); got != 1.25 {
		t.Errorf("Add = %v, want 1.25", got)
	}
	if got := a.Sub(b).Float64(); got != 3.75 {
		t.Errorf("Sub = %v, want 3.75", got)
	}
	if got := a.Mul(b).Float64(); got != -3.125 {
		t.Errorf("Mul = %v, want -3.125", got)
	}
	if got := a.Div(b).Float64(); got != -2 {
		t.Errorf("Div = %v, want -2", got)
	}
	if got := FromInt(7).Mod(FromInt(3)); got != FromInt(1) {
		t.Errorf("Mod = %v, want 1", got)
	}
	if got := a.Neg(); got != FromFloat64(-2.5) {
		t.Errorf("Neg = %v, want -2.5", got)
	}
}

func TestMulSaturates(t *testing.T) {
	big := FromFloat64(1e10)
	if got := big.Mul(big); got != MaxValue {
		t.Errorf("Mul overflow = %v, want MaxValue", got)
	}
	if got := big.Mul(big.Neg()); got != MinValue {
		t.Errorf("Mul negative overflow = %v, want MinValue", got)
	}
}

func TestDivSaturates(t *testing.T) {
	if got := FromFloat64(1e12).Div(Epsilon); got != MaxValue {
		t.Errorf("Div overflow = %v, want MaxValue", got)
	}
}

func TestDivByZeroPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Div by zero did not panic")
		}
	}()
	One.Div(Zero)
}

func TestConversions(t *testing.T) {
	tests := []struct {
		in   float64
		want int32
	}{
		{2.75, 2},
		{-2.75, -2},
		{0.25, 0},
	}
	for _, tt := range tests {
		if got := FromFloat64(tt.in).Int32(); got != tt.want {
			t.Errorf("FromFloat64(%v).Int32() = %d, want %d", tt.in, got, tt.want)
		}
	}
	if got := FromUint(3).Float64(); got != 3 {
		t.Errorf("FromUint(3) = %v, want 3", got)
	}
}

func TestDampenNoise(t *testing.T) {
	tests := []struct {
		raw  int64
		want int64
	}{
		{0, 0},
		{NoiseFloorRaw - 1, 0},
		{-(NoiseFloorRaw - 1), 0},
		{NoiseFloorRaw, NoiseFloorRaw},
		{-OneRaw, -OneRaw},
	}
	for _, tt := range tests {
		if got := DampenNoise(FromRaw(tt.raw)).Raw(); got != tt.want {
			t.Errorf("DampenNoise(%d) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestComparisons(t *testing.T) {
	a, b := FromInt(1), FromInt(2)
	if !a.Less(b) || a.Greater(b) || !a.LessEq(a) || !b.GreaterEq(a) {
		t.Error("comparison mismatch")
	}
	if a.Cmp(b) != -1 || b.Cmp(a) != 1 || a.Cmp(a) != 0 {
		t.Error("Cmp mismatch")
	}
}
