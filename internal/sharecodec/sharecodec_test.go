package sharecodec

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fesca-project/fesca/internal/bitenc"
)

func TestShareBlockReconstructsWithAnyPair(t *testing.T) {
	bits := bitenc.BitBlock{1, 0, 1, 1, 0, 0, 1, 0, 1}
	set, err := ShareBlock(bits, rand.Reader)
	require.NoError(t, err)

	pairs := [][2]PartyID{{P1, P2}, {P2, P3}, {P3, P1}}
	for _, pair := range pairs {
		got, err := Reconstruct(len(bits), pair[0], set[pair[0]-1], pair[1], set[pair[1]-1])
		require.NoError(t, err)
		require.Equal(t, bitenc.BitBlock(bits), got)
	}
}

func TestReconstructRejectsSameParty(t *testing.T) {
	bits := bitenc.BitBlock{1, 0, 1}
	set, err := ShareBlock(bits, rand.Reader)
	require.NoError(t, err)
	_, err = Reconstruct(len(bits), P1, set[0], P1, set[0])
	require.Error(t, err)
}

func TestVerify(t *testing.T) {
	require.True(t, Verify([]byte{1, 2}, []byte{3, 4}, []byte{2, 6}))
	require.False(t, Verify([]byte{1, 2}, []byte{3, 4}, []byte{0, 0}))
	require.False(t, Verify([]byte{1}, []byte{1, 2}, []byte{1, 2}))
}
