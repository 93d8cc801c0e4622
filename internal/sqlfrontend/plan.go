package sqlfrontend

import (
	"github.com/fesca-project/fesca/internal/fescaerr"
	"github.com/fesca-project/fesca/internal/schema"
)

// RExpr is Expr with column identifiers resolved to indices against a
// schema.Table, ready for the circuit compiler (internal/compiler).
type RExpr struct {
	Kind        ExprKind
	ColumnIndex int
	IntVal      int64
	StrVal      string
	Left        *RExpr
	Right       *RExpr
}

// PlanKind is the closed set of logical-plan node kinds: Scan -> Filter? ->
// (Project | Aggregate), per spec.md §4.6.
type PlanKind int

const (
	PlanScan PlanKind = iota
	PlanFilter
	PlanProject
	PlanAggregate
)

// Projection is one resolved projection-list entry.
type Projection struct {
	Expr  *RExpr
	Alias string
}

// Aggregation is one resolved aggregate projection-list entry.
type Aggregation struct {
	Fn    AggFun
	Expr  *RExpr
	Alias string
}

// Plan is one node of the resolved logical plan tree.
type Plan struct {
	Kind PlanKind
	// Scan
	Table  schema.Table
	Alias  string
	Input  *Plan // Filter, Project, Aggregate
	// Filter
	Predicate *RExpr
	// Project
	Projections []Projection
	// Aggregate
	GroupBy    []*RExpr
	Aggregates []Aggregation
}

// Resolve builds the logical plan tree for stmt against tbl, resolving
// every column identifier to its index. Unknown columns are a ParseError,
// per spec.md §7.
func Resolve(stmt *SelectStmt, tbl schema.Table) (*Plan, error) {
	if tbl.Name != stmt.Table {
		// The compiler is given the table to scan directly; a name
		// mismatch here indicates the caller wired the wrong schema.
		return nil, fescaerr.New(fescaerr.SchemaError, "schema table name does not match FROM clause")
	}
	scan := &Plan{Kind: PlanScan, Table: tbl, Alias: stmt.TableAlias}

	var input *Plan = scan
	if stmt.Where != nil {
		pred, err := resolveExpr(stmt.Where, tbl)
		if err != nil {
			return nil, err
		}
		input = &Plan{Kind: PlanFilter, Input: input, Predicate: pred}
	}

	if stmt.IsAggregate() {
		groupBy := make([]*RExpr, len(stmt.GroupBy))
		for i, g := range stmt.GroupBy {
			re, err := resolveExpr(g, tbl)
			if err != nil {
				return nil, err
			}
			groupBy[i] = re
		}
		aggs := make([]Aggregation, len(stmt.Items))
		for i, it := range stmt.Items {
			re, err := resolveExpr(it.Expr, tbl)
			if err != nil {
				return nil, err
			}
			aggs[i] = Aggregation{Fn: it.Agg, Expr: re, Alias: it.Alias}
		}
		return &Plan{Kind: PlanAggregate, Input: input, GroupBy: groupBy, Aggregates: aggs}, nil
	}

	projections := make([]Projection, len(stmt.Items))
	for i, it := range stmt.Items {
		re, err := resolveExpr(it.Expr, tbl)
		if err != nil {
			return nil, err
		}
		projections[i] = Projection{Expr: re, Alias: it.Alias}
	}
	return &Plan{Kind: PlanProject, Input: input, Projections: projections}, nil
}

func resolveExpr(e *Expr, tbl schema.Table) (*RExpr, error) {
	switch e.Kind {
	case ExprColumn:
		idx := tbl.ColumnIndex(e.Column)
		if idx < 0 {
			return nil, fescaerr.New(fescaerr.ParseError, "unknown column "+e.Column)
		}
		return &RExpr{Kind: ExprColumn, ColumnIndex: idx}, nil
	case ExprIntLit:
		return &RExpr{Kind: ExprIntLit, IntVal: e.IntVal}, nil
	case ExprStringLit:
		return &RExpr{Kind: ExprStringLit, StrVal: e.StrVal}, nil
	case ExprEq, ExprAnd, ExprAdd:
		left, err := resolveExpr(e.Left, tbl)
		if err != nil {
			return nil, err
		}
		right, err := resolveExpr(e.Right, tbl)
		if err != nil {
			return nil, err
		}
		return &RExpr{Kind: e.Kind, Left: left, Right: right}, nil
	default:
		return nil, fescaerr.New(fescaerr.ParseError, "unsupported expression")
	}
}
