package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/fesca-project/fesca/internal/config"
	"github.com/fesca-project/fesca/internal/ingest"
	"github.com/fesca-project/fesca/internal/schema"
	"github.com/fesca-project/fesca/internal/sharecodec"
	"github.com/fesca-project/fesca/internal/transport"
)

// schemaPathFor derives a data file's schema sidecar path: same stem,
// ".json" extension (spec.md §6's data_path convention).
func schemaPathFor(dataPath string) string {
	if i := strings.LastIndexByte(dataPath, '.'); i >= 0 {
		return dataPath[:i] + ".json"
	}
	return dataPath + ".json"
}

func newDataOwnerCmd() *cobra.Command {
	var configPath, dataFile, schemaFile, ownerID, tableName string

	cmd := &cobra.Command{
		Use:   "data-owner",
		Short: "Ingest a plaintext table and distribute its replicated shares to the three computing nodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := rootLogger()
			defer log.Sync()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if dataFile == "" {
				dataFile = cfg.DataPath
			}
			if schemaFile == "" {
				schemaFile = schemaPathFor(dataFile)
			}
			if ownerID == "" {
				ownerID = cfg.DataOwner.OwnerID
			}

			tbl, err := ingest.LoadSchema(schemaFile)
			if err != nil {
				return err
			}
			if tableName == "" {
				tableName = tbl.Name
			}
			f, err := os.Open(dataFile)
			if err != nil {
				return cmdError(err.Error())
			}
			defer f.Close()

			rows, err := ingest.ReadRows(f, tbl)
			if err != nil {
				return err
			}
			log.Info("loaded table", zap.String("table", tbl.Name), zap.Int("rows", len(rows)))

			shares, err := ingest.ShareRows(rows, sharecodec.SecureRandom)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			offsets, lengths, err := tbl.ColumnOffsets()
			if err != nil {
				return err
			}
			tableID := schema.TableID(tableName)
			for _, node := range cfg.ComputingNodes {
				party := sharecodec.PartyID(node.PartyID)
				resp, err := sendShares(ctx, node.Address, ownerID, tableName, tableID, node.PartyID, offsets, lengths, shares[party])
				if err != nil {
					return err
				}
				log.Info("sent shares",
					zap.String("address", node.Address),
					zap.Int("party", node.PartyID),
					zap.String("path", resp.Path),
					zap.String("message", resp.Message),
				)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to the TOML configuration document")
	cmd.Flags().StringVar(&dataFile, "data", "", "path to the pipe-separated .tbl data file (default: config's data_path)")
	cmd.Flags().StringVar(&schemaFile, "schema", "", "path to the JSON schema sidecar (default: data_path's stem with .json)")
	cmd.Flags().StringVar(&ownerID, "owner", "", "this data owner's identifier (default: config's data_owner.owner_id)")
	cmd.Flags().StringVar(&tableName, "table", "", "name under which computing nodes store this table (default: schema's table name)")
	return cmd
}

func sendShares(ctx context.Context, addr, owner, table string, tableID uint32, partyID int, offsets, lengths []uint32, rows []sharecodec.PartyShare) (*transport.ShareRowsResponse, error) {
	cc, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, cmdError(err.Error())
	}
	defer cc.Close()

	wire := make([]transport.PartyShareWire, len(rows))
	for i, r := range rows {
		wire[i] = transport.PartyShareWire{A: r.A, B: r.B, Offsets: offsets, Lengths: lengths}
	}
	client := transport.NewShareServiceClient(cc)
	resp, err := client.SendRows(ctx, &transport.ShareRowsRequest{
		Owner:    owner,
		Table:    table,
		TableID:  tableID,
		PartyID:  partyID,
		RowCount: len(rows),
		Rows:     wire,
	})
	if err != nil {
		return nil, cmdError(err.Error())
	}
	if !resp.Ok {
		return resp, cmdError(resp.Message)
	}
	return resp, nil
}
