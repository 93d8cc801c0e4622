package compiler_test

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fesca-project/fesca/internal/bitenc"
	"github.com/fesca-project/fesca/internal/compiler"
	"github.com/fesca-project/fesca/internal/corand"
	"github.com/fesca-project/fesca/internal/gate"
	"github.com/fesca-project/fesca/internal/partyrunner"
	"github.com/fesca-project/fesca/internal/ring"
	"github.com/fesca-project/fesca/internal/schema"
	"github.com/fesca-project/fesca/internal/sharecodec"
	"github.com/fesca-project/fesca/internal/sqlfrontend"
)

func ordersTable() schema.Table {
	return schema.Table{
		Name: "orders",
		Columns: []schema.Column{
			{Name: "qty", Type: bitenc.UnsignedInt()},
			{Name: "active", Type: bitenc.Boolean()},
		},
	}
}

func encodeRow(t *testing.T, tbl schema.Table, values ...string) schema.Row {
	t.Helper()
	row := make(schema.Row, len(tbl.Columns))
	for i, v := range values {
		b, err := bitenc.Encode(v, tbl.Columns[i].Type)
		require.NoError(t, err)
		row[i] = b
	}
	return row
}

func extractOwn(outs []gate.Share, pos, w int) bitenc.BitBlock {
	out := make(bitenc.BitBlock, w)
	for j := 0; j < w; j++ {
		out[j] = outs[pos+j].Own
	}
	return out
}

func extractNext(outs []gate.Share, pos, w int) bitenc.BitBlock {
	out := make(bitenc.BitBlock, w)
	for j := 0; j < w; j++ {
		out[j] = outs[pos+j].Next
	}
	return out
}

func compileAndEvaluate(t *testing.T, sql string, tbl schema.Table, rows []schema.Row) *compiler.Compiled {
	t.Helper()
	stmt, err := sqlfrontend.Parse(sql)
	require.NoError(t, err)
	plan, err := sqlfrontend.Resolve(stmt, tbl)
	require.NoError(t, err)
	compiled, err := compiler.Compile(plan, len(rows))
	require.NoError(t, err)
	return compiled
}

func TestCompileProjectMasksFilteredOutRows(t *testing.T) {
	tbl := ordersTable()
	rows := []schema.Row{
		encodeRow(t, tbl, "7", "1"),
		encodeRow(t, tbl, "9", "0"),
	}
	compiled := compileAndEvaluate(t, "SELECT qty FROM orders WHERE active = 1", tbl, rows)
	require.Len(t, compiled.Outputs, 2) // one "qty" column per row
	require.Equal(t, 66, compiled.Circuit.InputCount) // 2 rows x (32 + 1) input bits

	got := runCircuit(t, compiled, rows)
	require.Equal(t, "7", got[0])
	require.Equal(t, "0", got[1]) // masked out: active=0
}

func TestCompileAggregateSum(t *testing.T) {
	// spec.md §4.7/§9: aggregation is an XOR-fold across rows, a
	// deliberately weak stand-in for real arithmetic SUM: 7^9^3 == 13.
	tbl := ordersTable()
	rows := []schema.Row{
		encodeRow(t, tbl, "7", "1"),
		encodeRow(t, tbl, "9", "1"),
		encodeRow(t, tbl, "3", "0"),
	}
	compiled := compileAndEvaluate(t, "SELECT SUM(qty) AS total FROM orders", tbl, rows)
	require.Len(t, compiled.Outputs, 1)
	require.Equal(t, "total", compiled.Outputs[0].Name)

	got := runCircuit(t, compiled, rows)
	require.Equal(t, "13", got[0])
}

func TestCompileAggregateCount(t *testing.T) {
	// Same XOR-fold stand-in applies to COUNT: with no WHERE clause every
	// row contributes a folded 1, so three rows parity-fold to 1.
	tbl := ordersTable()
	rows := []schema.Row{
		encodeRow(t, tbl, "7", "1"),
		encodeRow(t, tbl, "9", "0"),
		encodeRow(t, tbl, "2", "1"),
	}
	compiled := compileAndEvaluate(t, "SELECT COUNT(qty) AS n FROM orders", tbl, rows)
	got := runCircuit(t, compiled, rows)
	require.Equal(t, "1", got[0])
}

func TestCompileRejectsOverflowingRowCount(t *testing.T) {
	tbl := ordersTable()
	stmt, err := sqlfrontend.Parse("SELECT qty FROM orders")
	require.NoError(t, err)
	plan, err := sqlfrontend.Resolve(stmt, tbl)
	require.NoError(t, err)
	// tbl.RowWidth() * numRows must overflow a uint64 wire count.
	_, err = compiler.Compile(plan, 1<<62)
	require.Error(t, err)
}

func TestCompileRejectsGroupedAggregation(t *testing.T) {
	tbl := ordersTable()
	stmt, err := sqlfrontend.Parse("SELECT COUNT(qty) FROM orders GROUP BY active")
	require.NoError(t, err)
	plan, err := sqlfrontend.Resolve(stmt, tbl)
	require.NoError(t, err)
	_, err = compiler.Compile(plan, 1)
	require.Error(t, err)
}

// runCircuit shares rows onto compiled's input wires and evaluates over an
// in-memory three-party ring, decoding each output column.
func runCircuit(t *testing.T, compiled *compiler.Compiled, rows []schema.Row) []string {
	t.Helper()

	h := partyrunner.NewHarness()
	gens := map[sharecodec.PartyID]corand.Generator{}
	for _, p := range []sharecodec.PartyID{sharecodec.P1, sharecodec.P2, sharecodec.P3} {
		gens[p] = corand.NewITGenerator(ring.NewTopology(p), h.Transports[p], rand.Reader)
	}

	inputs := map[sharecodec.PartyID]partyrunner.PartyInputs{
		sharecodec.P1: {}, sharecodec.P2: {}, sharecodec.P3: {},
	}
	for r, row := range rows {
		var flat bitenc.BitBlock
		for _, col := range row {
			flat = append(flat, col...)
		}
		set, err := sharecodec.ShareBlock(flat, rand.Reader)
		require.NoError(t, err)
		cells := compiled.RowInputs[r]
		require.Len(t, cells, len(flat))
		for _, p := range []sharecodec.PartyID{sharecodec.P1, sharecodec.P2, sharecodec.P3} {
			ps := set[p-1]
			own := bitenc.UnpackBytes(ps.A, len(flat))
			next := bitenc.UnpackBytes(ps.B, len(flat))
			for bi, wire := range cells {
				inputs[p][wire] = gate.Share{Own: own[bi], Next: next[bi]}
			}
		}
	}

	results, err := partyrunner.Run(context.Background(), compiled.Circuit, gens, inputs)
	require.NoError(t, err)

	decoded := make([]string, len(compiled.Outputs))
	pos := 0
	for i, out := range compiled.Outputs {
		w := out.Type.Width()
		a := extractOwn(results[sharecodec.P1].Outputs, pos, w)
		bNext := extractNext(results[sharecodec.P1].Outputs, pos, w)
		c := extractOwn(results[sharecodec.P2].Outputs, pos, w)
		cNext := extractNext(results[sharecodec.P2].Outputs, pos, w)
		block, err := sharecodec.Reconstruct(w,
			sharecodec.P1, sharecodec.PartyShare{A: bitenc.PackBytes(a), B: bitenc.PackBytes(bNext)},
			sharecodec.P2, sharecodec.PartyShare{A: bitenc.PackBytes(c), B: bitenc.PackBytes(cNext)})
		require.NoError(t, err)
		s, err := bitenc.Decode(block, out.Type)
		require.NoError(t, err)
		decoded[i] = s
		pos += w
	}
	return decoded
}
