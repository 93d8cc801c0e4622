package gate_test

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fesca-project/fesca/internal/corand"
	"github.com/fesca-project/fesca/internal/gate"
	"github.com/fesca-project/fesca/internal/partyrunner"
	"github.com/fesca-project/fesca/internal/ring"
	"github.com/fesca-project/fesca/internal/sharecodec"
)

// shareBit splits a single bit into a ShareSet via sharecodec so the three
// resulting gate.Shares satisfy invariant S1/S2 the same way a real wire
// value would.
func shareBit(t *testing.T, v byte) map[sharecodec.PartyID]gate.Share {
	t.Helper()
	set, err := sharecodec.ShareBlock([]byte{v}, rand.Reader)
	require.NoError(t, err)
	shares := make(map[sharecodec.PartyID]gate.Share, 3)
	for _, p := range []sharecodec.PartyID{sharecodec.P1, sharecodec.P2, sharecodec.P3} {
		ps := set[p-1]
		shares[p] = gate.Share{Own: ps.A[0], Next: ps.B[0]}
	}
	return shares
}

func reconstruct(t *testing.T, shares map[sharecodec.PartyID]gate.Share) byte {
	t.Helper()
	b, err := sharecodec.Reconstruct(1,
		sharecodec.P1, sharecodec.PartyShare{A: []byte{shares[sharecodec.P1].Own}, B: []byte{shares[sharecodec.P1].Next}},
		sharecodec.P2, sharecodec.PartyShare{A: []byte{shares[sharecodec.P2].Own}, B: []byte{shares[sharecodec.P2].Next}})
	require.NoError(t, err)
	return b[0]
}

func TestXORIsLocalAndReconstructsCorrectly(t *testing.T) {
	for _, tc := range []struct{ a, b byte }{{0, 0}, {0, 1}, {1, 0}, {1, 1}} {
		xs := shareBit(t, tc.a)
		ys := shareBit(t, tc.b)
		out := map[sharecodec.PartyID]gate.Share{}
		for _, p := range []sharecodec.PartyID{sharecodec.P1, sharecodec.P2, sharecodec.P3} {
			out[p] = gate.XOR(xs[p], ys[p])
		}
		require.Equal(t, tc.a^tc.b, reconstruct(t, out))
	}
}

func TestNOTFlipsOnlyDesignatedPartysOwnComponent(t *testing.T) {
	xs := shareBit(t, 1)
	out := map[sharecodec.PartyID]gate.Share{}
	for _, p := range []sharecodec.PartyID{sharecodec.P1, sharecodec.P2, sharecodec.P3} {
		out[p] = gate.NOT(byte(p), byte(sharecodec.P1), xs[p])
	}
	require.Equal(t, byte(0), reconstruct(t, out))
	require.Equal(t, xs[sharecodec.P2], out[sharecodec.P2])
	require.Equal(t, xs[sharecodec.P3], out[sharecodec.P3])
}

// runAND drives the one-round AND protocol for all three parties over a
// fresh in-memory ring, using an ITGenerator so each party's triple
// component is drawn independently but still sums to zero across the three.
func runAND(t *testing.T, xs, ys map[sharecodec.PartyID]gate.Share) map[sharecodec.PartyID]gate.Share {
	t.Helper()
	h := partyrunner.NewHarness()
	gens := map[sharecodec.PartyID]corand.Generator{}
	for _, p := range []sharecodec.PartyID{sharecodec.P1, sharecodec.P2, sharecodec.P3} {
		gens[p] = corand.NewITGenerator(ring.NewTopology(p), h.Transports[p], rand.Reader)
	}

	type res struct {
		p sharecodec.PartyID
		s gate.Share
		e error
	}
	results := make(chan res, 3)
	for _, p := range []sharecodec.PartyID{sharecodec.P1, sharecodec.P2, sharecodec.P3} {
		p := p
		go func() {
			triple, err := gens[p].Next(context.Background(), 0)
			if err != nil {
				results <- res{p: p, e: err}
				return
			}
			s, err := gate.AND(context.Background(), h.Transports[p], xs[p], ys[p], triple)
			results <- res{p: p, s: s, e: err}
		}()
	}
	out := map[sharecodec.PartyID]gate.Share{}
	for i := 0; i < 3; i++ {
		r := <-results
		require.NoError(t, r.e)
		out[r.p] = r.s
	}
	return out
}

func TestANDMatchesTruthTable(t *testing.T) {
	cases := []struct{ a, b, want byte }{
		{0, 0, 0}, {0, 1, 0}, {1, 0, 0}, {1, 1, 1},
	}
	for _, tc := range cases {
		xs := shareBit(t, tc.a)
		ys := shareBit(t, tc.b)
		out := runAND(t, xs, ys)
		require.Equal(t, tc.want, reconstruct(t, out), "AND(%d,%d)", tc.a, tc.b)
	}
}
