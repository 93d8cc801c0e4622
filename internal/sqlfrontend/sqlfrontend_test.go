package sqlfrontend_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fesca-project/fesca/internal/bitenc"
	"github.com/fesca-project/fesca/internal/schema"
	"github.com/fesca-project/fesca/internal/sqlfrontend"
)

func ordersTable() schema.Table {
	return schema.Table{
		Name: "orders",
		Columns: []schema.Column{
			{Name: "id", Type: bitenc.UnsignedInt()},
			{Name: "qty", Type: bitenc.UnsignedInt()},
			{Name: "active", Type: bitenc.Boolean()},
		},
	}
}

func TestParseSimpleProjection(t *testing.T) {
	stmt, err := sqlfrontend.Parse("SELECT id, qty FROM orders WHERE active = 1")
	require.NoError(t, err)
	require.Equal(t, "orders", stmt.Table)
	require.Len(t, stmt.Items, 2)
	require.NotNil(t, stmt.Where)
	require.False(t, stmt.IsAggregate())
}

func TestParseAggregate(t *testing.T) {
	stmt, err := sqlfrontend.Parse("SELECT SUM(qty) AS total FROM orders")
	require.NoError(t, err)
	require.True(t, stmt.IsAggregate())
	require.Equal(t, sqlfrontend.AggSum, stmt.Items[0].Agg)
	require.Equal(t, "total", stmt.Items[0].Alias)
}

func TestParseRejectsMixedAggregateAndPlain(t *testing.T) {
	_, err := sqlfrontend.Parse("SELECT id, SUM(qty) FROM orders")
	require.Error(t, err)
}

func TestParseRejectsTrailingGarbage(t *testing.T) {
	_, err := sqlfrontend.Parse("SELECT id FROM orders EXTRA")
	require.Error(t, err)
}

func TestParseRejectsMissingFrom(t *testing.T) {
	_, err := sqlfrontend.Parse("SELECT id")
	require.Error(t, err)
}

func TestParseGroupBy(t *testing.T) {
	stmt, err := sqlfrontend.Parse("SELECT COUNT(id) FROM orders GROUP BY active")
	require.NoError(t, err)
	require.Len(t, stmt.GroupBy, 1)
}

func TestParseOperatorPrecedence(t *testing.T) {
	stmt, err := sqlfrontend.Parse("SELECT id FROM orders WHERE qty = id + 1 AND active = 1")
	require.NoError(t, err)
	require.Equal(t, sqlfrontend.ExprAnd, stmt.Where.Kind)
	require.Equal(t, sqlfrontend.ExprEq, stmt.Where.Left.Kind)
	require.Equal(t, sqlfrontend.ExprAdd, stmt.Where.Left.Right.Kind)
}

func TestResolveBuildsScanFilterProject(t *testing.T) {
	stmt, err := sqlfrontend.Parse("SELECT id, qty FROM orders WHERE active = 1")
	require.NoError(t, err)

	plan, err := sqlfrontend.Resolve(stmt, ordersTable())
	require.NoError(t, err)
	require.Equal(t, sqlfrontend.PlanProject, plan.Kind)
	require.Equal(t, sqlfrontend.PlanFilter, plan.Input.Kind)
	require.Equal(t, sqlfrontend.PlanScan, plan.Input.Input.Kind)
	require.Equal(t, 0, plan.Projections[0].Expr.ColumnIndex)
	require.Equal(t, 1, plan.Projections[1].Expr.ColumnIndex)
}

func TestResolveAggregate(t *testing.T) {
	stmt, err := sqlfrontend.Parse("SELECT SUM(qty) AS total FROM orders")
	require.NoError(t, err)

	plan, err := sqlfrontend.Resolve(stmt, ordersTable())
	require.NoError(t, err)
	require.Equal(t, sqlfrontend.PlanAggregate, plan.Kind)
	require.Equal(t, sqlfrontend.AggSum, plan.Aggregates[0].Fn)
	require.Equal(t, 1, plan.Aggregates[0].Expr.ColumnIndex)
}

func TestResolveRejectsUnknownColumn(t *testing.T) {
	stmt, err := sqlfrontend.Parse("SELECT missing FROM orders")
	require.NoError(t, err)

	_, err = sqlfrontend.Resolve(stmt, ordersTable())
	require.Error(t, err)
}

func TestResolveRejectsTableNameMismatch(t *testing.T) {
	stmt, err := sqlfrontend.Parse("SELECT id FROM orders")
	require.NoError(t, err)

	wrong := ordersTable()
	wrong.Name = "customers"
	_, err = sqlfrontend.Resolve(stmt, wrong)
	require.Error(t, err)
}
