package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fesca-project/fesca/internal/sharecodec"
	"github.com/fesca-project/fesca/internal/store"
)

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := store.Path(dir, "acme", "orders", sharecodec.P1)

	rows := []store.Row{
		{PartyShare: sharecodec.PartyShare{A: []byte{1, 2, 3}, B: []byte{4, 5}}, Offsets: []uint32{0, 32}, Lengths: []uint32{32, 1}},
		{PartyShare: sharecodec.PartyShare{A: []byte{}, B: []byte{9}}, Offsets: []uint32{0, 32}, Lengths: []uint32{32, 1}},
	}
	require.NoError(t, store.Write(path, 0xC0FFEE, sharecodec.P1, rows))

	tableID, partyID, got, err := store.Read(path)
	require.NoError(t, err)
	require.Equal(t, uint32(0xC0FFEE), tableID)
	require.Equal(t, sharecodec.P1, partyID)
	require.Equal(t, rows, got)
}

func TestReadRejectsMissingMagic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bogus.fshr")
	require.NoError(t, os.WriteFile(path, []byte("not a share file at all"), 0o644))

	_, _, _, err := store.Read(path)
	require.Error(t, err)
}

func TestPathIsStablePerParty(t *testing.T) {
	p1 := store.Path("/base", "acme", "orders", sharecodec.P1)
	p2 := store.Path("/base", "acme", "orders", sharecodec.P2)
	require.NotEqual(t, p1, p2)
}
