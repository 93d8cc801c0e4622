// Package gate implements spec.md §4.4: evaluating one Boolean gate on
// shares while preserving invariant S2 (party Pi holds the cyclic pair
// (s_i, s_{i+1 mod 3})). XOR and NOT are local; AND spends one ring round.
package gate

import (
	"context"

	"github.com/fesca-project/fesca/internal/fescaerr"
	"github.com/fesca-project/fesca/internal/ring"
)

// Share is one party's view of a shared bit: Own is that party's s_i, Next
// is its successor's s_{i+1 mod 3} (the cyclic pair of invariant S2).
type Share struct {
	Own  byte
	Next byte
}

// XOR is local: linearity of XOR over the share decomposition means each
// party simply XORs its own pair componentwise. No communication, no round.
func XOR(x, y Share) Share {
	return Share{Own: x.Own ^ y.Own, Next: x.Next ^ y.Next}
}

// NOT flips exactly one component across the three parties: the party whose
// PartyID equals designated flips its Own component; the other two parties
// return x unchanged. spec.md §4.4 fixes designated to P1 when the caller
// does not otherwise specify (internal/circuit passes its circuit's
// DesignatedNOT, which NewBuilder sets to P1 and SetDesignatedNOT can
// override), so that every NOT gate in a circuit is consistent.
func NOT(self, designated byte, x Share) Share {
	if self == designated {
		return Share{Own: x.Own ^ 1, Next: x.Next}
	}
	return x
}

// AND performs the one-round interactive protocol: each party computes a
// local value from its shares of x, y and its component of a fresh
// correlated triple, exchanges that value with its ring neighbours, and
// derives its new cyclic pair for x AND y. triple is this party's component
// of the triple for this gate (alpha on P1, beta on P2, gamma on P3); the
// caller is responsible for drawing it from a corand.Generator keyed to the
// gate's id.
func AND(ctx context.Context, transport ring.Transport, x, y Share, triple byte) (Share, error) {
	ri := (x.Own & y.Own) ^ (x.Own & y.Next) ^ (x.Next & y.Own) ^ (triple & 1)
	if err := transport.SendNext(ctx, []byte{ri}); err != nil {
		return Share{}, fescaerr.Wrap(fescaerr.TransportError, "AND gate send", err)
	}
	prev, err := transport.RecvPrev(ctx)
	if err != nil {
		return Share{}, fescaerr.Wrap(fescaerr.TransportError, "AND gate recv", err)
	}
	if len(prev) != 1 {
		return Share{}, fescaerr.New(fescaerr.ProtocolError, "AND gate message of wrong size")
	}
	rPrev := prev[0] & 1
	return Share{Own: rPrev, Next: ri}, nil
}

// OR is NOT(NOT(x) AND NOT(y)), spending the same one AND round as a direct
// AND gate plus two free local NOTs. designated must be the same party used
// for every other NOT in the circuit.
func OR(ctx context.Context, transport ring.Transport, self, designated byte, x, y Share, triple byte) (Share, error) {
	nx := NOT(self, designated, x)
	ny := NOT(self, designated, y)
	and, err := AND(ctx, transport, nx, ny, triple)
	if err != nil {
		return Share{}, err
	}
	return NOT(self, designated, and), nil
}
