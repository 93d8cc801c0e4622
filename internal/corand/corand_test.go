package corand

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fesca-project/fesca/internal/partyrunner"
	"github.com/fesca-project/fesca/internal/ring"
	"github.com/fesca-project/fesca/internal/sharecodec"
)

// TestITGeneratorTripleXorsToZero drives all three parties' ITGenerators
// through one shared ring harness and checks that the three bits they
// agree on for the same gate id XOR to zero (alpha^beta^gamma=0).
func TestITGeneratorTripleXorsToZero(t *testing.T) {
	h := partyrunner.NewHarness()
	gens := map[sharecodec.PartyID]*ITGenerator{}
	for _, p := range []sharecodec.PartyID{sharecodec.P1, sharecodec.P2, sharecodec.P3} {
		topo := ring.NewTopology(p)
		gens[p] = NewITGenerator(topo, h.Transports[p], rand.Reader)
	}

	results := make(chan byte, 3)
	errs := make(chan error, 3)
	for _, p := range []sharecodec.PartyID{sharecodec.P1, sharecodec.P2, sharecodec.P3} {
		p := p
		go func() {
			b, err := gens[p].Next(t.Context(), 0)
			if err != nil {
				errs <- err
				return
			}
			results <- b
		}()
	}
	var bits []byte
	for i := 0; i < 3; i++ {
		select {
		case err := <-errs:
			t.Fatal(err)
		case b := <-results:
			bits = append(bits, b)
		}
	}
	require.Equal(t, byte(0), bits[0]^bits[1]^bits[2])
}

func TestPRFGeneratorTripleMatchesComputeFullTriple(t *testing.T) {
	keys, err := GenerateKeyTriple(rand.Reader)
	require.NoError(t, err)

	full := ComputeFullTriple(keys, 7, 42)
	require.True(t, full.Valid())

	g1 := NewPRFGenerator(ring.NewTopology(sharecodec.P1), keys, 7)
	g2 := NewPRFGenerator(ring.NewTopology(sharecodec.P2), keys, 7)
	g3 := NewPRFGenerator(ring.NewTopology(sharecodec.P3), keys, 7)

	b1, err := g1.Next(t.Context(), 42)
	require.NoError(t, err)
	b2, err := g2.Next(t.Context(), 42)
	require.NoError(t, err)
	b3, err := g3.Next(t.Context(), 42)
	require.NoError(t, err)

	require.Equal(t, full.Alpha, b1)
	require.Equal(t, full.Beta, b2)
	require.Equal(t, full.Gamma, b3)
}
