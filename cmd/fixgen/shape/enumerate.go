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
	"slices"

	"github.com/samber/lo"
)

// Enumerate returns every valid shape of the given kinds ordered by kind,
// then rows, then columns. The caller's kind order is ignored: the order is
// fixed by the Kind declaration so prime consumption, and with it every
// emitted hash constant, is stable across runs and configurations that list
// kinds differently.
func Enumerate(kinds []Kind) []Shape {
	ks := lo.Uniq(kinds)
	slices.Sort(ks)

	var out []Shape
	for _, k := range ks {
		for rows := 1; rows <= MaxDim; rows++ {
			for cols := 1; cols <= MaxDim; cols++ {
				s := New(k, rows, cols)
				if s.Valid() {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

// KindSet is a membership test over enabled kinds.
type KindSet map[Kind]bool

// NewKindSet builds a KindSet.
func NewKindSet(kinds ...Kind) KindSet {
	return lo.SliceToMap(kinds, func(k Kind) (Kind, bool) { return k, true })
}

// Sorted returns the kinds in enumeration order.
func (ks KindSet) Sorted() []Kind {
	out := lo.Keys(ks)
	slices.Sort(out)
	return out
}
