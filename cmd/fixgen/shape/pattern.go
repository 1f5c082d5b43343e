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
	"strings"

	"github.com/samber/lo"
)

// Partition is an ordered sequence of positive widths summing to a vector's
// row count; each width is one constructor parameter (1 = scalar,
// >1 = sub-vector).
type Partition []int

// Compositions returns every composition of n in lexicographic order of the
// first part: [1 1 1], [1 2], [2 1], [3] for n == 3. There are 2^(n-1).
func Compositions(n int) []Partition {
	if n <= 0 {
		return []Partition{{}}
	}
	var out []Partition
	for first := 1; first <= n; first++ {
		for _, rest := range Compositions(n - first) {
			p := append(Partition{first}, rest...)
			out = append(out, p)
		}
	}
	return out
}

// AllScalars reports whether every part has width 1.
func (p Partition) AllScalars() bool {
	return lo.EveryBy(p, func(w int) bool { return w == 1 })
}

// Groups names each part by its axis letters: [1 2] -> ["X", "YZ"].
func (p Partition) Groups() []string {
	out := make([]string, len(p))
	at := 0
	for i, w := range p {
		out[i] = strings.Join(Axes[at:at+w], "")
		at += w
	}
	return out
}

// Swizzle is an ordered selection of 1..4 vector components, repeats allowed.
type Swizzle []int

// Swizzles enumerates every pattern over a vector of n rows, by length then
// lexicographically.
func Swizzles(n int) []Swizzle {
	var out []Swizzle
	var rec func(prefix Swizzle, length int)
	rec = func(prefix Swizzle, length int) {
		if len(prefix) == length {
			out = append(out, append(Swizzle(nil), prefix...))
			return
		}
		for i := 0; i < n; i++ {
			rec(append(prefix, i), length)
		}
	}
	for length := 1; length <= MaxDim; length++ {
		rec(nil, length)
	}
	return out
}

// Settable reports whether all indices are pairwise distinct, which is
// required for a write accessor.
func (sw Swizzle) Settable() bool {
	return len(lo.Uniq(sw)) == len(sw)
}

// Name concatenates the axis letters: [0 0 2] -> "XXZ".
func (sw Swizzle) Name() string {
	var b strings.Builder
	for _, i := range sw {
		b.WriteString(Axes[i])
	}
	return b.String()
}
