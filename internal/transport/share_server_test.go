package transport_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fesca-project/fesca/internal/sharecodec"
	"github.com/fesca-project/fesca/internal/store"
	"github.com/fesca-project/fesca/internal/transport"
)

func TestStoreServerSendRowsPersistsFullLayout(t *testing.T) {
	dir := t.TempDir()
	srv := &transport.StoreServer{BaseDir: dir, Self: sharecodec.P1, Log: zap.NewNop()}

	req := &transport.ShareRowsRequest{
		Owner:    "acme",
		Table:    "orders",
		TableID:  42,
		PartyID:  1,
		RowCount: 1,
		Rows: []transport.PartyShareWire{
			{A: []byte{1, 2}, B: []byte{3, 4}, Offsets: []uint32{0, 32}, Lengths: []uint32{32, 1}},
		},
	}

	resp, err := srv.SendRows(context.Background(), req)
	require.NoError(t, err)
	require.True(t, resp.Ok)
	require.NotEmpty(t, resp.Message)
	require.NotEmpty(t, resp.Path)

	tableID, partyID, rows, err := store.Read(resp.Path)
	require.NoError(t, err)
	require.Equal(t, uint32(42), tableID)
	require.Equal(t, sharecodec.P1, partyID)
	require.Len(t, rows, 1)
	require.Equal(t, []uint32{0, 32}, rows[0].Offsets)
	require.Equal(t, []uint32{32, 1}, rows[0].Lengths)
}

func TestStoreServerSendRowsRejectsRowCountMismatch(t *testing.T) {
	dir := t.TempDir()
	srv := &transport.StoreServer{BaseDir: dir, Self: sharecodec.P1, Log: zap.NewNop()}

	req := &transport.ShareRowsRequest{
		Owner:    "acme",
		Table:    "orders",
		RowCount: 2,
		Rows: []transport.PartyShareWire{
			{A: []byte{1}, B: []byte{2}},
		},
	}

	resp, err := srv.SendRows(context.Background(), req)
	require.NoError(t, err)
	require.False(t, resp.Ok)
	require.NotEmpty(t, resp.Message)
}
