package ingest_test

import (
	"crypto/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fesca-project/fesca/internal/ingest"
	"github.com/fesca-project/fesca/internal/sharecodec"
)

func TestLoadSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orders.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"table": "orders",
		"columns": [
			{"name": "id", "kind": "uint"},
			{"name": "active", "kind": "bool"},
			{"name": "name", "kind": "string", "max_chars": 5, "charset": "utf8"}
		]
	}`), 0o644))

	tbl, err := ingest.LoadSchema(path)
	require.NoError(t, err)
	require.Equal(t, "orders", tbl.Name)
	require.Len(t, tbl.Columns, 3)
	require.Equal(t, 40, tbl.Columns[2].Type.Width()) // 5 chars * 8 bits
}

func TestLoadSchemaRejectsUnknownKind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"table":"t","columns":[{"name":"x","kind":"weird"}]}`), 0o644))

	_, err := ingest.LoadSchema(path)
	require.Error(t, err)
}

func TestReadRowsParsesPipeDelimitedRows(t *testing.T) {
	tbl, err := ingest.LoadSchema(writeSchema(t))
	require.NoError(t, err)

	data := "1|1|5\n2|0|7\n"
	rows, err := ingest.ReadRows(strings.NewReader(data), tbl)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Len(t, rows[0], 3)
}

func TestReadRowsTrailingPipeIsTolerated(t *testing.T) {
	tbl, err := ingest.LoadSchema(writeSchema(t))
	require.NoError(t, err)

	rows, err := ingest.ReadRows(strings.NewReader("1|1|5|\n"), tbl)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestReadRowsRejectsWrongFieldCount(t *testing.T) {
	tbl, err := ingest.LoadSchema(writeSchema(t))
	require.NoError(t, err)

	_, err = ingest.ReadRows(strings.NewReader("1|1\n"), tbl)
	require.Error(t, err)
}

func TestShareRowsProducesReconstructibleShares(t *testing.T) {
	tbl, err := ingest.LoadSchema(writeSchema(t))
	require.NoError(t, err)

	rows, err := ingest.ReadRows(strings.NewReader("1|1|5\n"), tbl)
	require.NoError(t, err)

	shares, err := ingest.ShareRows(rows, rand.Reader)
	require.NoError(t, err)
	require.Len(t, shares[sharecodec.P1], 1)
	require.Len(t, shares[sharecodec.P2], 1)
	require.Len(t, shares[sharecodec.P3], 1)

	width := tbl.RowWidth()
	got, err := sharecodec.Reconstruct(width, sharecodec.P1, shares[sharecodec.P1][0], sharecodec.P2, shares[sharecodec.P2][0])
	require.NoError(t, err)
	require.Len(t, got, width)
}

func writeSchema(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "orders.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"table": "orders",
		"columns": [
			{"name": "id", "kind": "uint"},
			{"name": "active", "kind": "bool"},
			{"name": "qty", "kind": "uint"}
		]
	}`), 0o644))
	return path
}
