package transport

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fesca-project/fesca/internal/schema"
	"github.com/fesca-project/fesca/internal/sharecodec"
	"github.com/fesca-project/fesca/internal/store"
)

// StoreServer implements ShareServiceServer by persisting every batch of
// rows it receives straight to the on-disk share store.
type StoreServer struct {
	BaseDir string
	Self    sharecodec.PartyID
	Log     *zap.Logger
}

func (s *StoreServer) SendRows(ctx context.Context, req *ShareRowsRequest) (*ShareRowsResponse, error) {
	if req.RowCount != 0 && req.RowCount != len(req.Rows) {
		msg := fmt.Sprintf("row_count %d does not match %d rows received", req.RowCount, len(req.Rows))
		return &ShareRowsResponse{Ok: false, Message: msg}, nil
	}

	rows := make([]store.Row, len(req.Rows))
	for i, r := range req.Rows {
		rows[i] = store.Row{
			PartyShare: sharecodec.PartyShare{A: r.A, B: r.B},
			Offsets:    r.Offsets,
			Lengths:    r.Lengths,
		}
	}

	tableID := req.TableID
	if tableID == 0 {
		tableID = schema.TableID(req.Table)
	}

	path := store.Path(s.BaseDir, req.Owner, req.Table, s.Self)
	if err := store.Write(path, tableID, s.Self, rows); err != nil {
		return nil, err
	}
	s.Log.Info("ingested table shares",
		zap.String("owner", req.Owner),
		zap.String("table", req.Table),
		zap.Uint32("table_id", tableID),
		zap.Int("party_id", req.PartyID),
		zap.Int("rows", len(rows)),
	)
	return &ShareRowsResponse{
		Ok:      true,
		Message: fmt.Sprintf("ingested %d rows for table %q", len(rows), req.Table),
		Path:    path,
	}, nil
}
