// Copyright 2017 The go-ethereum Authors
// (original work)
// Copyright 2024 The Erigon Authors
// (modifications)
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

// Package mathutil collects the small overflow-aware integer helpers every
// layer of fesca that packs or sizes bits needs: byte-packing (bitenc,
// sharecodec) divides a bit count by 8 and rounds up, and the
// circuit compiler needs to know how many bits it takes to count up to N.
package mathutil

import "math/bits"

// CeilDiv returns ceil(x/y), used throughout fesca to convert a bit count
// to the number of bytes it packs into.
func CeilDiv(x, y int) int {
	if y == 0 {
		return 0
	}
	return (x + y - 1) / y
}

// SafeAdd returns x+y and whether the addition overflowed a uint64.
func SafeAdd(x, y uint64) (uint64, bool) {
	sum, carryOut := bits.Add64(x, y, 0)
	return sum, carryOut != 0
}

// SafeMul returns x*y and whether the multiplication overflowed a uint64.
func SafeMul(x, y uint64) (uint64, bool) {
	hi, lo := bits.Mul64(x, y)
	return lo, hi != 0
}

// BitsToCount returns one more than the bit length of n: enough bits to
// represent every value in [0, n] without wrapping, plus one spare high
// bit. It is the width the circuit compiler allocates for a COUNT(*) or
// AVG denominator accumulator.
func BitsToCount(n int) int {
	if n <= 0 {
		return 1
	}
	return bits.Len(uint(n)) + 1
}
