package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fesca-project/fesca/internal/compiler"
	"github.com/fesca-project/fesca/internal/ingest"
	"github.com/fesca-project/fesca/internal/protocol"
	"github.com/fesca-project/fesca/internal/sqlfrontend"
)

func newDataAnalystCmd() *cobra.Command {
	var schemaFile, query string
	var numRows int

	cmd := &cobra.Command{
		Use:   "data-analyst",
		Short: "Compile a SQL query against a table's public schema into the circuit the computing nodes will evaluate",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := rootLogger()
			defer log.Sync()

			tbl, err := ingest.LoadSchema(schemaFile)
			if err != nil {
				return err
			}
			stmt, err := sqlfrontend.Parse(query)
			if err != nil {
				return err
			}
			plan, err := sqlfrontend.Resolve(stmt, tbl)
			if err != nil {
				return err
			}
			compiled, err := compiler.Compile(plan, numRows)
			if err != nil {
				return err
			}

			id := protocol.NewQueryID()
			log.Info("compiled query",
				zap.String("query_id", string(id)),
				zap.Int("gates", len(compiled.Circuit.Gates)),
				zap.Int("inputs", compiled.Circuit.InputCount),
				zap.Int("outputs", len(compiled.Circuit.Outputs)),
			)
			for _, col := range compiled.Outputs {
				log.Info("output column", zap.String("name", col.Name), zap.Int("width", col.Type.Width()))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&schemaFile, "schema", "", "path to the table's public JSON schema")
	cmd.Flags().StringVar(&query, "query", "", "the SELECT query to compile")
	cmd.Flags().IntVar(&numRows, "rows", 0, "number of rows the scanned table has")
	return cmd
}
