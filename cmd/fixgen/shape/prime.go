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

// PrimeCursor is a position in the fixed hash prime sequence. It is a value:
// Next returns the advanced cursor instead of mutating shared state, so a
// cursor can be threaded through synthesis or precomputed per shape.
//
// Emitted hash functions bake the primes in verbatim, so the sequence a
// shape consumes is part of the generated API.
type PrimeCursor struct {
	index int
}

// NewPrimeCursor returns a cursor at position index.
func NewPrimeCursor(index int) PrimeCursor { return PrimeCursor{index: index} }

// Index is the number of primes consumed before this cursor.
func (c PrimeCursor) Index() int { return c.index }

// Next returns the current prime and the cursor after it. The table wraps
// after 256 entries.
func (c PrimeCursor) Next() (uint32, PrimeCursor) {
	return hashPrimes[c.index%len(hashPrimes)], PrimeCursor{index: c.index + 1}
}

// Take returns the next n primes and the advanced cursor.
func (c PrimeCursor) Take(n int) ([]uint32, PrimeCursor) {
	out := make([]uint32, n)
	for i := range out {
		out[i], c = c.Next()
	}
	return out, c
}

// Advance skips n primes.
func (c PrimeCursor) Advance(n int) PrimeCursor { return PrimeCursor{index: c.index + n} }

// StartCursors returns the cursor each shape starts from when shapes are
// synthesized in the given order, consumed(s) being the number of primes
// shape s uses. Parallel emission uses these so every shape sees exactly
// the primes a sequential run would hand it.
func StartCursors(shapes []Shape, consumed func(Shape) int) []PrimeCursor {
	out := make([]PrimeCursor, len(shapes))
	at := 0
	for i, s := range shapes {
		out[i] = NewPrimeCursor(at)
		at += consumed(s)
	}
	return out
}

// hashPrimes are 256 distinct odd 32-bit primes with the top bit set.
var hashPrimes = [256]uint32{
	0x83F0A9C1, 0x9BBF849F, 0x96B343D7, 0xFD2252AD, 0xF991548D, 0x95387CCB, 0xC21D7FA1, 0x85C125B3,
	0xDACB9E85, 0xCB3F4743, 0xEC15C677, 0xFA7B484F, 0xA88E8DCD, 0xE40ABFCB, 0x90231B1B, 0xE9D91F67,
	0xD23504E3, 0xBA66EED3, 0xC9CB5217, 0xE9484AF3, 0xEEF9E4DF, 0xA31B515B, 0x988622F3, 0xED361BA9,
	0xF3790327, 0xDAD75C47, 0xC22863A1, 0xEF087EB7, 0xC29A4A87, 0xDCBCBABB, 0xD2C6235D, 0xB0DC91BB,
	0xF02B6477, 0xB0892DDF, 0xE4FD46AD, 0x9A12637F, 0x89163097, 0x9643A1BF, 0xD44646E7, 0x9FB520EF,
	0xB1F85C37, 0xACC7B3C9, 0xF6F9ADA1, 0x93C9D42F, 0xB289C9E3, 0x9E64EB8B, 0xB6B5B98D, 0xABF81349,
	0xD03AD4C7, 0xD03FAF03, 0xE44696B7, 0xF9D2697F, 0xAAC0FFFF, 0xA7803EEB, 0xD59D3735, 0xBF48B12F,
	0xB7B50EB9, 0xBA822E6B, 0xCA9DCB1F, 0x9EE97899, 0xF135DE47, 0xE6055F35, 0xE2CE02D1, 0xB4F36BCF,
	0xFCD13D13, 0xF17937F1, 0xEC011A99, 0x92EA9C4D, 0xDD14A11F, 0xE844E2CF, 0x86366BE7, 0xE6D55549,
	0xA2DBF3BB, 0xC3387367, 0xF015C4D9, 0x9EB0DCED, 0xE89CD159, 0xC44EBA6D, 0x8FA3EF83, 0x88BCB62D,
	0xA15E1303, 0xD2FBF0D7, 0xCEDBA7FF, 0xFB935DFB, 0xD5F1961B, 0x84CF5339, 0xF5E138B1, 0x8E056029,
	0x9E83AD29, 0xDDAE0125, 0xC99E17B5, 0xBF0178B3, 0xE720E471, 0xE89367FB, 0x937B43D3, 0xACE2DC23,
	0xB91B6EED, 0x9FCB806F, 0x9B4DF309, 0xE722C687, 0x9A8C65E7, 0x8B69B1D5, 0xBFCAEB63, 0x828DF2B3,
	0xCADEBBB1, 0xFE40ED6D, 0x9DEB4FBB, 0xD956C683, 0xE294D43F, 0xB7A5D537, 0xAF391119, 0x8A2E2101,
	0xE2CC0A6F, 0xC7EF2B01, 0x8764BEC5, 0xD92D6A23, 0xFF95ABEF, 0xE150DF5B, 0xA56266FB, 0xB902DA0B,
	0xB285DB71, 0xDE461DD3, 0x9F6C74D1, 0x9CBA180B, 0x994FBAE7, 0xB7E98913, 0xBB0BF637, 0xBBBE5EA7,
	0xAE5C9387, 0xA3EA8EDB, 0xFFE96A17, 0xA51509B5, 0xC591E6FB, 0xA5D84493, 0xCE873DB9, 0xEF45C167,
	0x8832F625, 0xA9A7F7C1, 0x9B73F5AB, 0x9CCF3871, 0xCD43434D, 0xADCDF30B, 0x8A134461, 0xF2844581,
	0x94464467, 0xE4F4A141, 0xDC04F04D, 0xAEA5C9F7, 0xA4357269, 0x9AB45463, 0xE7B5CE8B, 0xD1BDC089,
	0x939F6EED, 0x85665A45, 0xE1D7D71F, 0xEE088CFF, 0xF8A053E9, 0x8B9CBCB9, 0xE4323FCF, 0xC002D74B,
	0xBD7A114F, 0xB4107FC9, 0xB0AFCD7F, 0xC3ABB881, 0xE02B9F79, 0xF7590139, 0xA48015F9, 0xB545B2D1,
	0xB2EE98D5, 0x94715DE9, 0x8D28FED9, 0xC48BAF01, 0xCFF38ECD, 0x95588539, 0xAAC4613F, 0x82C9ECD1,
	0xDB478BA9, 0xD1170619, 0xEC7CC227, 0xADC070D1, 0x984A869D, 0xD33157FF, 0xDFEE8481, 0xB2C9E3FB,
	0xFB897509, 0xABF07799, 0xDCAE643F, 0xA7D37315, 0xE0A43E7F, 0xA3FD6749, 0xB37C82E7, 0x9676F7E7,
	0x845F16AD, 0x84319789, 0xBFB1A955, 0xEC8651EB, 0xF1CF2083, 0xFE9712B3, 0xFD65E95F, 0x9FA7463D,
	0xBA8FE373, 0xB1E50505, 0x9A8C8B4B, 0xCB5FFFC9, 0xA3854625, 0xC3BDDA8D, 0x84A3A4D7, 0xBA4D14C7,
	0xC9C99B5F, 0xBDA76309, 0xBB7B84F7, 0xB81AB9D1, 0xE60BEABB, 0x84545869, 0xCAE2E7F3, 0xAE7FA13B,
	0xEAD9DB85, 0xE1902CD5, 0xBEA2F53D, 0xEC7E360B, 0xFB284A53, 0xAB8F99A5, 0x919CE3B5, 0xE0A1007F,
	0x9D26D961, 0xD1055ED5, 0xBBA86F49, 0xE2265363, 0xB8D47E9D, 0x924B77AB, 0x925DB7B3, 0xE5DBA00B,
	0x9D146C79, 0xD8BC9FFF, 0xA78CCDB1, 0xCE8960ED, 0xC56D3841, 0xED5E6901, 0x8193423D, 0xF32035A9,
	0x87AA882B, 0xF6956843, 0xD794A931, 0x9D754569, 0xAB71C695, 0xC583E2D1, 0xE53BB35F, 0x9A72E4FF,
	0x88E78EB3, 0xB18DBC8F, 0xD29EDEDB, 0xCE862B0F, 0xB7B05D39, 0xD46E3033, 0x9F8FD6DF, 0x8A4701E5,
}
