// Package ingest reads a data owner's plaintext table off disk and turns
// it into the replicated shares each computing node will store: a
// pipe-separated ".tbl" data file plus a JSON schema sidecar describing
// its columns, mirroring the TPCH-style "|"-delimited row format the
// original_source ingestion tooling reads (original_source/fesca/
// data_owner/src/types.rs).
package ingest

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/fesca-project/fesca/internal/bitenc"
	"github.com/fesca-project/fesca/internal/fescaerr"
	"github.com/fesca-project/fesca/internal/schema"
	"github.com/fesca-project/fesca/internal/sharecodec"
)

// schemaDoc is the on-disk shape of a table's ".json" sidecar.
type schemaDoc struct {
	Table   string        `json:"table"`
	Columns []columnDoc   `json:"columns"`
}

type columnDoc struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"` // "bool" | "uint" | "float" | "string"
	MaxChars int    `json:"max_chars,omitempty"`
	Charset  string `json:"charset,omitempty"` // "ascii" | "utf8"
}

// LoadSchema reads a table's JSON schema sidecar.
func LoadSchema(path string) (schema.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Table{}, fescaerr.Wrap(fescaerr.StorageError, path, err)
	}
	var doc schemaDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return schema.Table{}, fescaerr.Wrap(fescaerr.ParseError, path, err)
	}
	cols := make([]schema.Column, len(doc.Columns))
	for i, c := range doc.Columns {
		t, err := columnType(c)
		if err != nil {
			return schema.Table{}, err
		}
		cols[i] = schema.Column{Name: c.Name, Type: t}
	}
	return schema.Table{Name: doc.Table, Columns: cols}, nil
}

func columnType(c columnDoc) (bitenc.ColumnType, error) {
	switch c.Kind {
	case "bool":
		return bitenc.Boolean(), nil
	case "uint":
		return bitenc.UnsignedInt(), nil
	case "float":
		return bitenc.Float(), nil
	case "string":
		cs := bitenc.ASCII
		if c.Charset == "utf8" {
			cs = bitenc.UTF8
		}
		return bitenc.String(c.MaxChars, cs), nil
	default:
		return bitenc.ColumnType{}, fescaerr.New(fescaerr.SchemaError, "unknown column kind "+c.Kind)
	}
}

// ReadRows streams a pipe-separated ".tbl" data file against tbl's
// schema, one schema.Row per line. A trailing "|" (the TPCH convention)
// is tolerated; a line with the wrong field count is a ParseError.
func ReadRows(r io.Reader, tbl schema.Table) ([]schema.Row, error) {
	scanner := bufio.NewScanner(r)
	var rows []schema.Row
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		line = strings.TrimSuffix(line, "|")
		fields := strings.Split(line, "|")
		if len(fields) != len(tbl.Columns) {
			return nil, fescaerr.New(fescaerr.ParseError, "row has wrong field count: "+line)
		}
		row := make(schema.Row, len(fields))
		for i, f := range fields {
			block, err := bitenc.Encode(f, tbl.Columns[i].Type)
			if err != nil {
				return nil, err
			}
			row[i] = block
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fescaerr.Wrap(fescaerr.StorageError, "ReadRows", err)
	}
	return rows, nil
}

// ShareRows secret-shares every row of rows, flattening each row's columns
// into one concatenated BitBlock before sharing, and returns the three
// parties' per-row PartyShare sequences keyed by PartyID.
func ShareRows(rows []schema.Row, rnd io.Reader) (map[sharecodec.PartyID][]sharecodec.PartyShare, error) {
	out := map[sharecodec.PartyID][]sharecodec.PartyShare{
		sharecodec.P1: make([]sharecodec.PartyShare, len(rows)),
		sharecodec.P2: make([]sharecodec.PartyShare, len(rows)),
		sharecodec.P3: make([]sharecodec.PartyShare, len(rows)),
	}
	for i, row := range rows {
		var flat bitenc.BitBlock
		for _, block := range row {
			flat = append(flat, block...)
		}
		set, err := sharecodec.ShareBlock(flat, rnd)
		if err != nil {
			return nil, err
		}
		out[sharecodec.P1][i] = set[sharecodec.P1-1]
		out[sharecodec.P2][i] = set[sharecodec.P2-1]
		out[sharecodec.P3][i] = set[sharecodec.P3-1]
	}
	return out, nil
}
