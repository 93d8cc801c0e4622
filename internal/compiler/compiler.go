// Package compiler implements spec.md §4.7: lowering a resolved logical
// plan, a fixed row count, and the scanned table's column widths into a
// Boolean circuit.Circuit that every party evaluates identically.
//
// Rows are never dropped by a Filter: since which rows matched a WHERE
// clause is itself information the protocol must not reveal mid-circuit,
// filtering instead computes a per-row mask bit and ANDs it across every
// bit the row contributes downstream, the same data-oblivious shape
// original_source/fesca/computing_node/src/circuit_builder.rs uses for its
// row masking. Grouped aggregation (GROUP BY) is parsed and resolved by
// internal/sqlfrontend but is an open question this compiler does not
// implement yet (see DESIGN.md): only whole-table aggregation is lowered.
package compiler

import (
	"github.com/fesca-project/fesca/internal/bitenc"
	"github.com/fesca-project/fesca/internal/circuit"
	"github.com/fesca-project/fesca/internal/fescaerr"
	"github.com/fesca-project/fesca/internal/mathutil"
	"github.com/fesca-project/fesca/internal/sqlfrontend"
)

// OutputColumn describes one named output group of a compiled circuit, in
// the order its bits appear in circuit.Circuit.Outputs.
type OutputColumn struct {
	Name string
	Type bitenc.ColumnType
}

// Compiled is a lowered circuit plus the metadata needed to decode its
// output wires back into typed values after reconstruction.
type Compiled struct {
	Circuit *circuit.Circuit
	Outputs []OutputColumn
	// RowInputs[row][col] are the input wires holding that cell's bits, in
	// schema column order; callers build the evaluator's wire->share map by
	// sharing each row's encoded cells onto these wires.
	RowInputs [][]circuit.Wire
}

// Compile lowers plan against numRows rows of plan's scanned table.
func Compile(plan *sqlfrontend.Plan, numRows int) (*Compiled, error) {
	b := circuit.NewBuilder()

	scan := scanNode(plan)
	if scan == nil {
		return nil, fescaerr.New(fescaerr.SchemaError, "logical plan has no scan")
	}
	colTypes := make([]bitenc.ColumnType, len(scan.Table.Columns))
	for i, c := range scan.Table.Columns {
		colTypes[i] = c.Type
	}

	if _, overflow := mathutil.SafeMul(uint64(numRows), uint64(scan.Table.RowWidth())); overflow {
		return nil, fescaerr.New(fescaerr.SchemaError, "numRows * row width overflows a uint64 wire count")
	}

	rowInputs := make([][]circuit.Wire, numRows)
	for r := 0; r < numRows; r++ {
		cells := make([]circuit.Wire, 0, scan.Table.RowWidth())
		for _, t := range colTypes {
			for bi := 0; bi < t.Width(); bi++ {
				cells = append(cells, b.Input())
			}
		}
		rowInputs[r] = cells
	}

	// Re-split each row's flattened cell wires back into per-column slices;
	// wire ids were assigned row-major, then column-major, matching the
	// ingest share layout.
	rows := make([][][]circuit.Wire, numRows)
	for r := 0; r < numRows; r++ {
		rows[r] = splitRow(rowInputs[r], colTypes)
	}

	var mask []circuit.Wire // per-row predicate bit; nil means "no filter, all rows pass"
	cur := plan.Input
	if cur == nil {
		return nil, fescaerr.New(fescaerr.SchemaError, "plan has no input below its top node")
	}
	if cur.Kind == sqlfrontend.PlanFilter {
		mask = make([]circuit.Wire, numRows)
		for r := 0; r < numRows; r++ {
			bit, err := lowerBoolExpr(b, cur.Predicate, rows[r], colTypes)
			if err != nil {
				return nil, err
			}
			mask[r] = bit
		}
		cur = cur.Input
	}
	if cur.Kind != sqlfrontend.PlanScan {
		return nil, fescaerr.New(fescaerr.SchemaError, "unexpected plan shape below filter")
	}

	switch plan.Kind {
	case sqlfrontend.PlanProject:
		return lowerProject(b, plan, rows, colTypes, mask, rowInputs)
	case sqlfrontend.PlanAggregate:
		return lowerAggregate(b, plan, rows, colTypes, mask, rowInputs)
	case sqlfrontend.PlanFilter:
		return nil, fescaerr.New(fescaerr.SchemaError, "a filter must project or aggregate its rows")
	default:
		return nil, fescaerr.New(fescaerr.SchemaError, "unsupported top-level plan node")
	}
}

func scanNode(p *sqlfrontend.Plan) *sqlfrontend.Plan {
	for p != nil {
		if p.Kind == sqlfrontend.PlanScan {
			return p
		}
		p = p.Input
	}
	return nil
}

func splitRow(cells []circuit.Wire, colTypes []bitenc.ColumnType) [][]circuit.Wire {
	out := make([][]circuit.Wire, len(colTypes))
	pos := 0
	for i, t := range colTypes {
		w := t.Width()
		out[i] = cells[pos : pos+w]
		pos += w
	}
	return out
}

func lowerProject(b *circuit.Builder, plan *sqlfrontend.Plan, rows [][][]circuit.Wire, colTypes []bitenc.ColumnType, mask []circuit.Wire, rowInputs [][]circuit.Wire) (*Compiled, error) {
	var outputs []circuit.Wire
	var outCols []OutputColumn
	for r := range rows {
		for i, proj := range plan.Projections {
			bits, t, err := lowerExpr(b, proj.Expr, rows[r], colTypes)
			if err != nil {
				return nil, err
			}
			if mask != nil {
				bits = maskBits(b, bits, mask[r])
			}
			outputs = append(outputs, bits...)
			outCols = append(outCols, OutputColumn{Name: projName(proj, i), Type: t})
		}
	}
	return &Compiled{Circuit: b.Finish(outputs), Outputs: outCols, RowInputs: rowInputs}, nil
}

func projName(p sqlfrontend.Projection, i int) string {
	if p.Alias != "" {
		return p.Alias
	}
	return defaultName(i)
}

func defaultName(i int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	if i < len(letters) {
		return "col_" + string(letters[i])
	}
	return "col_n"
}

func lowerAggregate(b *circuit.Builder, plan *sqlfrontend.Plan, rows [][][]circuit.Wire, colTypes []bitenc.ColumnType, mask []circuit.Wire, rowInputs [][]circuit.Wire) (*Compiled, error) {
	if len(plan.GroupBy) != 0 {
		return nil, fescaerr.New(fescaerr.SchemaError, "grouped aggregation is not supported")
	}

	var outputs []circuit.Wire
	var outCols []OutputColumn
	countWidth := mathutil.BitsToCount(len(rows))

	for i, agg := range plan.Aggregates {
		switch agg.Fn {
		case sqlfrontend.AggCount:
			count := countMaskedRows(b, rows, mask, countWidth)
			outputs = append(outputs, count...)
			outCols = append(outCols, OutputColumn{Name: aggName(agg, i), Type: bitenc.RawUint(countWidth)})
		case sqlfrontend.AggSum:
			sum, t, err := sumMaskedExpr(b, agg.Expr, rows, colTypes, mask)
			if err != nil {
				return nil, err
			}
			outputs = append(outputs, sum...)
			outCols = append(outCols, OutputColumn{Name: aggName(agg, i), Type: t})
		case sqlfrontend.AggAvg:
			sum, t, err := sumMaskedExpr(b, agg.Expr, rows, colTypes, mask)
			if err != nil {
				return nil, err
			}
			count := countMaskedRows(b, rows, mask, countWidth)
			outputs = append(outputs, sum...)
			outputs = append(outputs, count...)
			outCols = append(outCols, OutputColumn{Name: aggName(agg, i) + "_sum", Type: t})
			outCols = append(outCols, OutputColumn{Name: aggName(agg, i) + "_count", Type: bitenc.RawUint(countWidth)})
		default:
			return nil, fescaerr.New(fescaerr.SchemaError, "unknown aggregate function")
		}
	}
	return &Compiled{Circuit: b.Finish(outputs), Outputs: outCols, RowInputs: rowInputs}, nil
}

func aggName(a sqlfrontend.Aggregation, i int) string {
	if a.Alias != "" {
		return a.Alias
	}
	return defaultName(i)
}

func countMaskedRows(b *circuit.Builder, rows [][][]circuit.Wire, mask []circuit.Wire, width int) []circuit.Wire {
	acc := zeroBits(b, width)
	for r := range rows {
		one := oneBit(b, mask, r, width)
		acc = xorBits(b, acc, one, width)
	}
	return acc
}

// oneBit returns the row's mask bit zero-extended to width, or a constant
// 1 zero-extended to width when there is no filter (every row counts).
func oneBit(b *circuit.Builder, mask []circuit.Wire, r int, width int) []circuit.Wire {
	var bit circuit.Wire
	if mask != nil {
		bit = mask[r]
	} else {
		bit = b.Const1()
	}
	out := make([]circuit.Wire, width)
	out[0] = bit
	for i := 1; i < width; i++ {
		out[i] = b.Const0()
	}
	return out
}

func sumMaskedExpr(b *circuit.Builder, e *sqlfrontend.RExpr, rows [][][]circuit.Wire, colTypes []bitenc.ColumnType, mask []circuit.Wire) ([]circuit.Wire, bitenc.ColumnType, error) {
	var acc []circuit.Wire
	var t bitenc.ColumnType
	for r := range rows {
		bits, rt, err := lowerExpr(b, e, rows[r], colTypes)
		if err != nil {
			return nil, bitenc.ColumnType{}, err
		}
		if mask != nil {
			bits = maskBits(b, bits, mask[r])
		}
		if acc == nil {
			acc = zeroBits(b, len(bits))
			t = rt
		}
		acc = xorBits(b, acc, bits, len(acc))
	}
	if acc == nil {
		acc = zeroBits(b, 32)
		t = bitenc.UnsignedInt()
	}
	return acc, t, nil
}

// lowerBoolExpr lowers e and requires it evaluate to exactly one bit (a
// WHERE predicate).
func lowerBoolExpr(b *circuit.Builder, e *sqlfrontend.RExpr, row [][]circuit.Wire, colTypes []bitenc.ColumnType) (circuit.Wire, error) {
	bits, _, err := lowerExpr(b, e, row, colTypes)
	if err != nil {
		return 0, err
	}
	if len(bits) != 1 {
		return 0, fescaerr.New(fescaerr.SchemaError, "predicate must be boolean-valued")
	}
	return bits[0], nil
}

// lowerExpr lowers e against one row's column wires, returning the result
// bits (LSB-first, matching bitenc's convention) and its inferred type.
func lowerExpr(b *circuit.Builder, e *sqlfrontend.RExpr, row [][]circuit.Wire, colTypes []bitenc.ColumnType) ([]circuit.Wire, bitenc.ColumnType, error) {
	switch e.Kind {
	case sqlfrontend.ExprColumn:
		return row[e.ColumnIndex], colTypes[e.ColumnIndex], nil
	case sqlfrontend.ExprIntLit:
		hint := peekColumnType(e, colTypes, bitenc.UnsignedInt())
		return encodeIntLiteral(b, e.IntVal, hint.Width()), hint, nil
	case sqlfrontend.ExprStringLit:
		hint := peekColumnType(e, colTypes, bitenc.String(len(e.StrVal), bitenc.ASCII))
		bits, err := encodeStringLiteral(b, e.StrVal, hint)
		if err != nil {
			return nil, bitenc.ColumnType{}, err
		}
		return bits, hint, nil
	case sqlfrontend.ExprEq:
		hint := eqHint(e, colTypes)
		left, _, err := lowerExprWithHint(b, e.Left, row, colTypes, hint)
		if err != nil {
			return nil, bitenc.ColumnType{}, err
		}
		right, _, err := lowerExprWithHint(b, e.Right, row, colTypes, hint)
		if err != nil {
			return nil, bitenc.ColumnType{}, err
		}
		return []circuit.Wire{eqBits(b, left, right, hint.Width())}, bitenc.Boolean(), nil
	case sqlfrontend.ExprAnd:
		left, err := lowerBoolExpr(b, e.Left, row, colTypes)
		if err != nil {
			return nil, bitenc.ColumnType{}, err
		}
		right, err := lowerBoolExpr(b, e.Right, row, colTypes)
		if err != nil {
			return nil, bitenc.ColumnType{}, err
		}
		return []circuit.Wire{b.AND(left, right)}, bitenc.Boolean(), nil
	case sqlfrontend.ExprAdd:
		hint := peekColumnType(e, colTypes, bitenc.UnsignedInt())
		left, _, err := lowerExprWithHint(b, e.Left, row, colTypes, hint)
		if err != nil {
			return nil, bitenc.ColumnType{}, err
		}
		right, _, err := lowerExprWithHint(b, e.Right, row, colTypes, hint)
		if err != nil {
			return nil, bitenc.ColumnType{}, err
		}
		return xorBits(b, left, right, hint.Width()), hint, nil
	default:
		return nil, bitenc.ColumnType{}, fescaerr.New(fescaerr.SchemaError, "unsupported expression kind")
	}
}

func lowerExprWithHint(b *circuit.Builder, e *sqlfrontend.RExpr, row [][]circuit.Wire, colTypes []bitenc.ColumnType, hint bitenc.ColumnType) ([]circuit.Wire, bitenc.ColumnType, error) {
	if e.Kind == sqlfrontend.ExprIntLit {
		return encodeIntLiteral(b, e.IntVal, hint.Width()), hint, nil
	}
	if e.Kind == sqlfrontend.ExprStringLit {
		bits, err := encodeStringLiteral(b, e.StrVal, hint)
		if err != nil {
			return nil, bitenc.ColumnType{}, err
		}
		return bits, hint, nil
	}
	return lowerExpr(b, e, row, colTypes)
}

// peekColumnType finds the column type of whichever side of e is a column
// reference, so a literal sibling can be encoded at a matching width; falls
// back to def when neither side is a column (e.g. two literals).
func peekColumnType(e *sqlfrontend.RExpr, colTypes []bitenc.ColumnType, def bitenc.ColumnType) bitenc.ColumnType {
	if e.Left != nil && e.Left.Kind == sqlfrontend.ExprColumn {
		return colTypes[e.Left.ColumnIndex]
	}
	if e.Right != nil && e.Right.Kind == sqlfrontend.ExprColumn {
		return colTypes[e.Right.ColumnIndex]
	}
	if e.Kind == sqlfrontend.ExprColumn {
		return colTypes[e.ColumnIndex]
	}
	return def
}

func eqHint(e *sqlfrontend.RExpr, colTypes []bitenc.ColumnType) bitenc.ColumnType {
	if e.Left.Kind == sqlfrontend.ExprColumn {
		return colTypes[e.Left.ColumnIndex]
	}
	if e.Right.Kind == sqlfrontend.ExprColumn {
		return colTypes[e.Right.ColumnIndex]
	}
	return bitenc.UnsignedInt()
}

// --- gate-level helpers -----------------------------------------------

func bitAt(bits []circuit.Wire, i int, b *circuit.Builder) circuit.Wire {
	if i < len(bits) {
		return bits[i]
	}
	return b.Const0()
}

func zeroBits(b *circuit.Builder, width int) []circuit.Wire {
	out := make([]circuit.Wire, width)
	for i := range out {
		out[i] = b.Const0()
	}
	return out
}

func encodeIntLiteral(b *circuit.Builder, v int64, width int) []circuit.Wire {
	u := uint64(v)
	out := make([]circuit.Wire, width)
	for i := 0; i < width; i++ {
		if (u>>uint(i))&1 == 1 {
			out[i] = b.Const1()
		} else {
			out[i] = b.Const0()
		}
	}
	return out
}

func encodeStringLiteral(b *circuit.Builder, s string, t bitenc.ColumnType) ([]circuit.Wire, error) {
	block, err := bitenc.Encode(s, t)
	if err != nil {
		return nil, err
	}
	out := make([]circuit.Wire, len(block))
	for i, bit := range block {
		if bit != 0 {
			out[i] = b.Const1()
		} else {
			out[i] = b.Const0()
		}
	}
	return out, nil
}

func maskBits(b *circuit.Builder, bits []circuit.Wire, mask circuit.Wire) []circuit.Wire {
	out := make([]circuit.Wire, len(bits))
	for i, w := range bits {
		out[i] = b.AND(w, mask)
	}
	return out
}

// xorBits is the fixed-width bitwise XOR fold spec.md §4.7 mandates for "+"
// and for folding SUM/COUNT/AVG across rows: GF(2) addition, not integer
// ripple-carry arithmetic. spec.md §9 explicitly flags this as a
// deliberately weak stand-in for real arithmetic and leaves adding a true
// adder out of scope for this circuit family.
func xorBits(b *circuit.Builder, x, y []circuit.Wire, width int) []circuit.Wire {
	out := make([]circuit.Wire, width)
	for i := 0; i < width; i++ {
		xb := bitAt(x, i, b)
		yb := bitAt(y, i, b)
		out[i] = b.XOR(xb, yb)
	}
	return out
}

// eqBits AND-reduces a bitwise XNOR comparison across width bits.
func eqBits(b *circuit.Builder, x, y []circuit.Wire, width int) circuit.Wire {
	acc := b.Const1()
	for i := 0; i < width; i++ {
		xb := bitAt(x, i, b)
		yb := bitAt(y, i, b)
		diff := b.XOR(xb, yb)
		same := b.NOT(diff)
		acc = b.AND(acc, same)
	}
	return acc
}
