package main

import (
	"net"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/fesca-project/fesca/internal/config"
	"github.com/fesca-project/fesca/internal/metrics"
	"github.com/fesca-project/fesca/internal/protocol"
	"github.com/fesca-project/fesca/internal/sharecodec"
	"github.com/fesca-project/fesca/internal/transport"
)

func newComputingNodeCmd() *cobra.Command {
	var configPath string
	var party int
	var listenAddr string
	var storagePath string

	cmd := &cobra.Command{
		Use:   "computing-node",
		Short: "Run one party of the replicated three-party protocol",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := rootLogger()
			defer log.Sync()

			if v := os.Getenv("STORAGE_PATH"); v != "" && storagePath == "" {
				storagePath = v
			}
			if storagePath == "" {
				storagePath = "."
			}

			self := sharecodec.PartyID(party)
			if self < sharecodec.P1 || self > sharecodec.P3 {
				return cmdError("party must be 1, 2, or 3")
			}

			if configPath != "" {
				cfg, err := config.Load(configPath)
				if err != nil {
					return err
				}
				log.Info("loaded configuration", zap.Int("computing_nodes", len(cfg.ComputingNodes)))
			}

			reg := protocol.NewRegistry()
			inboxes := transport.NewInboxes(reg)

			srv := grpc.NewServer()
			transport.RegisterShareServiceServer(srv, &transport.StoreServer{
				BaseDir: storagePath,
				Self:    self,
				Log:     log,
			})
			transport.RegisterCorrelatedRandomnessServer(srv, &transport.InboxServer{Inboxes: inboxes})

			mreg := metrics.NewRegistry()
			if err := mreg.Register(prometheus.DefaultRegisterer); err != nil {
				return err
			}

			lis, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return cmdError(err.Error())
			}
			log.Info("computing node listening", zap.String("addr", listenAddr), zap.Int("party", party))
			return srv.Serve(lis)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to the TOML configuration document")
	cmd.Flags().IntVar(&party, "party", 0, "this node's party id (1, 2, or 3)")
	cmd.Flags().StringVar(&listenAddr, "listen", ":"+envOr("GRPC_PORT", "50051"), "address to listen on (GRPC_PORT sets only the default port)")
	cmd.Flags().StringVar(&storagePath, "storage", "", "directory for on-disk share files (default: $STORAGE_PATH or .)")
	return cmd
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

type cmdErr string

func (e cmdErr) Error() string { return string(e) }

func cmdError(msg string) error { return cmdErr(msg) }
