// Package sqlfrontend implements spec.md §4.6: parsing a constrained SELECT
// fragment into a logical plan. The original source (original_source/) used
// the sqlparser crate and only logged SELECT vs. not-SELECT; this module
// supplements it with a hand-rolled recursive-descent parser restricted to
// exactly the grammar spec.md defines, since the accepted fragment is small
// and the crate it used has no direct Go counterpart in the example pack.
package sqlfrontend

// ExprKind is the closed set of expression node kinds.
type ExprKind int

const (
	ExprColumn ExprKind = iota
	ExprIntLit
	ExprStringLit
	ExprEq
	ExprAnd
	ExprAdd
)

// Expr is the unresolved expression tree produced by the parser: column
// references are still names, not indices (resolution happens in plan.go).
type Expr struct {
	Kind   ExprKind
	Column string
	IntVal int64
	StrVal string
	Left   *Expr
	Right  *Expr
}

// AggFun is one of the three accepted aggregate functions.
type AggFun int

const (
	AggNone AggFun = iota
	AggSum
	AggCount
	AggAvg
)

// SelectItem is one projection-list entry: either a plain expression or an
// aggregate function applied to one, with an optional alias.
type SelectItem struct {
	Agg   AggFun // AggNone for a plain expression
	Expr  *Expr
	Alias string
}

// SelectStmt is the parsed (but not yet schema-resolved) statement.
type SelectStmt struct {
	Items      []SelectItem
	Table      string
	TableAlias string
	Where      *Expr
	GroupBy    []*Expr
}

// IsAggregate reports whether the select list uses aggregate functions. A
// select list may not mix aggregates and plain expressions (spec.md §4.6);
// the parser enforces this at parse time.
func (s *SelectStmt) IsAggregate() bool {
	return len(s.Items) > 0 && s.Items[0].Agg != AggNone
}
