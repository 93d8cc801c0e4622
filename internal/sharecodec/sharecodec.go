// Package sharecodec implements spec.md §4.2: converting bit blocks to and
// from three-party replicated, byte-packed shares. A bit v splits into three
// random bits s1, s2, s3 with s1^s2^s3 = v (invariant S1); party Pi holds the
// cyclic pair (s_i, s_{i+1 mod 3}) (invariant S2). This package only ever
// deals in whole BitBlocks; per-gate share manipulation lives in
// internal/gate.
package sharecodec

import (
	"crypto/rand"
	"io"

	"github.com/fesca-project/fesca/internal/bitenc"
	"github.com/fesca-project/fesca/internal/fescaerr"
	"github.com/fesca-project/fesca/internal/mathutil"
)

// PartyID is 1, 2 or 3, matching spec.md's P1/P2/P3 naming.
type PartyID int

const (
	P1 PartyID = 1
	P2 PartyID = 2
	P3 PartyID = 3
)

func (p PartyID) next() PartyID { return PartyID(int(p)%3 + 1) }

// PartyShare is the byte-packed cyclic pair a single party holds for one bit
// block: A is that party's own component s_i, B is its successor's
// component s_{i+1}. Both are packed LSB-first via bitenc.PackBytes.
type PartyShare struct {
	A []byte
	B []byte
}

// ShareSet holds the three parties' shares of a single bit block, indexed by
// PartyID - 1.
type ShareSet [3]PartyShare

// ShareBlock splits bits into a replicated share for each of P1, P2, P3,
// drawing randomness from rnd. Use crypto/rand.Reader in production; a
// deterministic source is acceptable only in test mode (spec.md §4.2).
func ShareBlock(bits bitenc.BitBlock, rnd io.Reader) (ShareSet, error) {
	n := len(bits)
	s1 := make(bitenc.BitBlock, n)
	s2 := make(bitenc.BitBlock, n)
	if err := randomBits(rnd, s1); err != nil {
		return ShareSet{}, fescaerr.Wrap(fescaerr.ShareCodecError, "share randomness", err)
	}
	if err := randomBits(rnd, s2); err != nil {
		return ShareSet{}, fescaerr.Wrap(fescaerr.ShareCodecError, "share randomness", err)
	}
	s3 := make(bitenc.BitBlock, n)
	for i := 0; i < n; i++ {
		s3[i] = bits[i] ^ s1[i] ^ s2[i]
	}
	components := map[PartyID]bitenc.BitBlock{P1: s1, P2: s2, P3: s3}

	var out ShareSet
	for _, p := range []PartyID{P1, P2, P3} {
		out[p-1] = PartyShare{
			A: bitenc.PackBytes(components[p]),
			B: bitenc.PackBytes(components[p.next()]),
		}
	}
	return out, nil
}

// randomBits fills dst with cryptographically random bits (one byte per bit,
// value 0 or 1), reading ceil(len(dst)/8) random bytes from rnd.
func randomBits(rnd io.Reader, dst bitenc.BitBlock) error {
	raw := make([]byte, mathutil.CeilDiv(len(dst), 8))
	if _, err := io.ReadFull(rnd, raw); err != nil {
		return err
	}
	copy(dst, bitenc.UnpackBytes(raw, len(dst)))
	return nil
}

// SecureRandom is crypto/rand.Reader, the default randomness source for
// ShareBlock in production.
var SecureRandom = rand.Reader

// Reconstruct recovers the original bit block of numBits from any two
// parties' shares (spec.md §4.2: any two parties collectively hold all three
// components, by invariant S2).
func Reconstruct(numBits int, pi PartyID, si PartyShare, pj PartyID, sj PartyShare) (bitenc.BitBlock, error) {
	if pi == pj {
		return nil, fescaerr.New(fescaerr.ShareCodecError, "reconstruct requires two distinct parties")
	}
	byteLen := mathutil.CeilDiv(numBits, 8)
	if len(si.A) != byteLen || len(si.B) != byteLen || len(sj.A) != byteLen || len(sj.B) != byteLen {
		return nil, fescaerr.New(fescaerr.ShareCodecError, "share byte length mismatch")
	}
	components := map[PartyID][]byte{
		pi:        si.A,
		pi.next(): si.B,
		pj:        sj.A,
		pj.next(): sj.B,
	}
	if len(components) != 3 {
		return nil, fescaerr.New(fescaerr.ShareCodecError, "shares do not collectively cover all three components")
	}
	acc := make([]byte, byteLen)
	for _, c := range components {
		for i := range acc {
			acc[i] ^= c[i]
		}
	}
	return bitenc.UnpackBytes(acc, numBits), nil
}

// Verify checks that a triple of packed, equal-length byte vectors XORs to
// zero (used in tests to check shares-of-zero / shares of a known public
// constant).
func Verify(a, b, c []byte) bool {
	if len(a) != len(b) || len(b) != len(c) {
		return false
	}
	for i := range a {
		if a[i]^b[i]^c[i] != 0 {
			return false
		}
	}
	return true
}
