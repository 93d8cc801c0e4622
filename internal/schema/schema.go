// Package schema holds the purely descriptive table/column/row types shared
// by ingestion, the SQL frontend, and the circuit compiler (spec.md §3).
package schema

import (
	"hash/fnv"

	"github.com/fesca-project/fesca/internal/bitenc"
	"github.com/fesca-project/fesca/internal/fescaerr"
	"github.com/fesca-project/fesca/internal/mathutil"
)

// Column is (name, type_hint); type_hint determines bit width via
// bitenc.ColumnType.Width.
type Column struct {
	Name string
	Type bitenc.ColumnType
}

// Table describes a table's column layout. It carries no data: a logical
// table is this schema paired with a sequence of rows elsewhere.
type Table struct {
	Name    string
	Columns []Column
}

// ColumnIndex returns the index of the named column, or -1 if absent.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Widths returns the bit width of each column, in column order - the shape
// the circuit compiler needs to lay out per-row input wires.
func (t Table) Widths() []int {
	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = c.Type.Width()
	}
	return widths
}

// RowWidth is the total bit width of one row: sum(column_widths).
func (t Table) RowWidth() int {
	total := 0
	for _, w := range t.Widths() {
		total += w
	}
	return total
}

// Row is a logical row: one bitenc.BitBlock per column, in schema order.
type Row []bitenc.BitBlock

// TableID derives a stable numeric identifier from a table name, the
// u32 table_id original_source/fesca/data_owner/src/types.rs carries
// alongside table_name in TableSchema. fesca has no central table
// registry to hand out sequential IDs, so the name's FNV-1a hash stands
// in as a deterministic identifier two nodes will agree on without
// coordination.
func TableID(name string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(name))
	return h.Sum32()
}

// ColumnOffsets returns, for each column in order, its starting bit
// offset within a flattened row and its bit width - the (offsets,
// lengths) pair spec.md §6 requires alongside every row's packed share
// bytes so a reader can recover column boundaries without separately
// consulting the schema. The running offset is accumulated with
// mathutil.SafeAdd so a schema wide enough to overflow a uint32 offset
// is rejected rather than silently wrapping into a corrupt layout.
func (t Table) ColumnOffsets() (offsets, lengths []uint32, err error) {
	widths := t.Widths()
	offsets = make([]uint32, len(widths))
	lengths = make([]uint32, len(widths))
	var pos uint64
	for i, w := range widths {
		offsets[i] = uint32(pos)
		lengths[i] = uint32(w)
		sum, overflow := mathutil.SafeAdd(pos, uint64(w))
		if overflow || sum > uint64(^uint32(0)) {
			return nil, nil, fescaerr.New(fescaerr.SchemaError, "row bit width overflows a uint32 column offset")
		}
		pos = sum
	}
	return offsets, lengths, nil
}
